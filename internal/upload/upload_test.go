package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(fw, content)
	} else {
		mw.WriteField("note", "nothing attached")
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	s := DiskStore{Dir: dir, BaseURL: "/uploads/"}

	url, err := s.Save(context.Background(), "../photos/cat.png", strings.NewReader("meow"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, "-cat.png") {
		t.Fatalf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "meow" {
		t.Fatalf("content = %q", data)
	}

	again, err := s.Save(context.Background(), "cat.png", strings.NewReader("purr"))
	if err != nil {
		t.Fatal(err)
	}
	if again == url {
		t.Fatal("second upload reused the stored name")
	}
}

func TestDiskStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DiskStore{Dir: t.TempDir()}.Save(ctx, "a.txt", strings.NewReader("x"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		status int
	}{
		{"image field", "storedImage", http.StatusOK},
		{"video field", "storedVideo", http.StatusOK},
		{"generic field", "file", http.StatusOK},
		{"no file", "", http.StatusBadRequest},
		{"unknown field", "avatar", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{Store: DiskStore{Dir: t.TempDir(), BaseURL: "/uploads"}}
			body, ctype := multipartBody(t, tt.field, "clip.mp4", "data")
			req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
			req.Header.Set("Content-Type", ctype)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			var resp response
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if tt.status == http.StatusOK {
				if !resp.Success || !strings.HasSuffix(resp.URL, "-clip.mp4") {
					t.Fatalf("response = %+v", resp)
				}
			} else if resp.Error != "no files found!!" {
				t.Fatalf("error = %q", resp.Error)
			}
		})
	}
}

func TestHandlerNotMultipart(t *testing.T) {
	h := &Handler{Store: DiskStore{Dir: t.TempDir()}}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, io.Reader) (string, error) {
	return "", errors.New("disk full")
}

func TestHandlerStoreError(t *testing.T) {
	h := &Handler{Store: failingStore{}}
	body, ctype := multipartBody(t, "file", "a.png", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerMethod(t *testing.T) {
	h := &Handler{Store: failingStore{}}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/upload", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerTooLarge(t *testing.T) {
	h := &Handler{Store: DiskStore{Dir: t.TempDir()}, MaxBytes: 64}
	body, ctype := multipartBody(t, "file", "big.bin", strings.Repeat("x", 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandlerLogsToItsLogger(t *testing.T) {
	var logs bytes.Buffer
	h := &Handler{
		Store: DiskStore{Dir: t.TempDir(), BaseURL: "/uploads"},
		Log:   slog.New(slog.NewTextHandler(&logs, nil)),
	}
	body, ctype := multipartBody(t, "file", "note.txt", "hi")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ctype)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(logs.String(), "upload stored") || !strings.Contains(logs.String(), "note.txt") {
		t.Fatalf("logs = %q", logs.String())
	}
}

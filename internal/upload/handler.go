package upload

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
)

// FieldNames are the multipart fields a file is looked up in, in order.
var FieldNames = []string{"file", "storedImage", "storedVideo"}

// Handler accepts a multipart POST with a single file and stores it.
type Handler struct {
	Store    Store
	MaxBytes int64
	Log      *slog.Logger
}

type response struct {
	Success bool   `json:"success,omitempty"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, response{Error: "method not allowed"})
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}

	file, header, err := formFile(r)
	if errors.Is(err, ErrNoFile) {
		writeJSON(w, http.StatusBadRequest, response{Error: ErrNoFile.Error()})
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, response{Error: err.Error()})
		return
	}
	if err != nil {
		h.logger().Warn("upload rejected", "err", err)
		writeJSON(w, http.StatusInternalServerError, response{Error: err.Error()})
		return
	}
	defer file.Close()

	url, err := h.Store.Save(r.Context(), header.Filename, file)
	if err != nil {
		h.logger().Error("upload failed", "name", header.Filename, "err", err)
		writeJSON(w, http.StatusInternalServerError, response{Error: err.Error()})
		return
	}
	h.logger().Info("upload stored", "name", header.Filename, "url", url, "size", header.Size)
	writeJSON(w, http.StatusOK, response{Success: true, URL: url})
}

func (h *Handler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, ErrNoFile
		}
		return nil, nil, err
	}
	for _, name := range FieldNames {
		f, h, err := r.FormFile(name)
		if err == nil {
			return f, h, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, nil, err
		}
	}
	return nil, nil, ErrNoFile
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Package upload stores files that back image and video cards.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNoFile is returned when a request carried no file to store.
var ErrNoFile = errors.New("no files found!!")

// Store saves a named file and returns the URL it is served from.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// DiskStore writes files into Dir. Stored names are prefixed with a uuid so
// two uploads of the same file never overwrite each other.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func (s DiskStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if r == nil {
		return "", ErrNoFile
	}
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	file := uuid.NewString() + "-" + base
	path := filepath.Join(s.Dir, file)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", file, err)
	}
	if _, err := io.Copy(f, ctxReader{ctx, r}); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", file, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", file, err)
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + file, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

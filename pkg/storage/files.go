// Package storage persists uploaded files on local disk. The rest of the
// system only ever sees the {name, path, size} metadata; swapping this for a
// blob store leaves the repositories untouched.
package storage

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

// StoredFile describes a file placed in the store.
type StoredFile struct {
	Name string // original file name as uploaded
	Path string // public path, e.g. /uploads/169...-42-report.pdf
	Size int64  // bytes written
}

// FileStore writes uploads to a single directory with collision-free names.
type FileStore struct {
	dir string
}

// NewFileStore creates the uploads directory if needed and returns a store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save streams the reader to disk under a unique name derived from the
// original file name and returns the stored metadata.
func (s *FileStore) Save(r io.Reader, originalName string) (*StoredFile, error) {
	name := sanitizeName(originalName)
	unique := fmt.Sprintf("%d-%d-%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), name)

	f, err := os.Create(filepath.Join(s.dir, unique))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}

	return &StoredFile{
		Name: name,
		Path: URLPrefix + unique,
		Size: size,
	}, nil
}

// Remove deletes a stored file given its public path. Unknown paths are
// ignored so repeated deletes stay idempotent.
func (s *FileStore) Remove(publicPath string) error {
	name := strings.TrimPrefix(publicPath, URLPrefix)
	if name == "" || strings.Contains(name, "/") {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}

// Handler serves stored files under /uploads/ with an attachment
// disposition so browsers download rather than render them.
func (s *FileStore) Handler() http.Handler {
	fs := http.StripPrefix(URLPrefix, http.FileServer(http.Dir(s.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", "attachment")
		fs.ServeHTTP(w, r)
	})
}

// sanitizeName strips any path components from an uploaded file name.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "file"
	}
	return name
}

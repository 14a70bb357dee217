// Package fs provides file-based storage for merged documents.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docmerge"
	"github.com/google/uuid"
)

// Ensure FileStore implements docmerge.DocumentStore at compile time.
var _ docmerge.DocumentStore = (*FileStore)(nil)

// DefaultOutputDir is the managed directory used by the HTTP service.
const DefaultOutputDir = "extracted_documents"

// FileStore writes rendered documents to disk. A document is first rendered
// into a temporary file in the destination directory and then renamed into
// place, so a failed render never leaves a partial file behind.
type FileStore struct {
	dir     string
	name    string
	newName func() string
}

// NewFixedStore creates a FileStore that always writes to path, replacing
// any existing file.
func NewFixedStore(path string) *FileStore {
	return &FileStore{
		dir:  filepath.Dir(path),
		name: filepath.Base(path),
	}
}

// NewManagedStore creates a FileStore that writes each document into dir
// under a freshly generated name: 32 hex characters plus the renderer's
// extension. The directory is created if absent.
func NewManagedStore(dir string) *FileStore {
	return &FileStore{
		dir:     dir,
		newName: NewName,
	}
}

// NewName returns a random UUID in hex form without dashes.
func NewName() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Dir returns the directory documents are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// EnsureDir creates the output directory if it does not exist.
func (s *FileStore) EnsureDir() error {
	return os.MkdirAll(s.dir, 0755)
}

// SaveDocument renders doc with r and writes it to disk, returning the path.
func (s *FileStore) SaveDocument(ctx context.Context, doc *docmerge.Document, r docmerge.Renderer) (path string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.EnsureDir(); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	name := s.name
	if name == "" {
		name = s.newName() + r.Extension()
	}
	path = filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = r.Render(ctx, tmp, doc); err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return "", err
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}

	return path, nil
}

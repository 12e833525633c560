// Package storage persists uploaded documents on the local filesystem. The
// stored path becomes the job's document reference; jobs never outlive the
// process, so neither do their documents need to.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DocumentStore saves uploaded document bytes and hands back the stored path.
type DocumentStore interface {
	Save(jobID uuid.UUID, ext string, r io.Reader) (string, error)
}

// LocalStore implements DocumentStore on a single base directory. Files are
// named <jobID><ext> so a job maps to exactly one stored document.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory if needed and returns the store.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(jobID uuid.UUID, ext string, r io.Reader) (string, error) {
	path := filepath.Join(s.baseDir, jobID.String()+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write body: %w", err)
	}
	return path, nil
}

var _ DocumentStore = (*LocalStore)(nil)

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	ragerrors "github.com/Aman-CERP/ragindex/internal/errors"
)

const (
	// DirName is the index directory under the base directory.
	DirName = "rag_index"
	// FileName is the index document name.
	FileName = "index.json"
)

// ErrNotFound is returned by Load when no index file exists.
// Match it with errors.Is.
var ErrNotFound = ragerrors.New(ragerrors.ErrCodeIndexNotFound, "index not found", nil)

// Store reads and writes the index file at <baseDir>/rag_index/index.json.
// Writes overwrite in place without locking; the last writer wins.
type Store struct {
	dir  string
	path string
}

// New creates a Store rooted at baseDir. Nothing is touched on disk.
func New(baseDir string) *Store {
	dir := filepath.Join(baseDir, DirName)
	return &Store{
		dir:  dir,
		path: filepath.Join(dir, FileName),
	}
}

// Path returns the index file path.
func (s *Store) Path() string { return s.path }

// Dir returns the index directory.
func (s *Store) Dir() string { return s.dir }

// Load reads, validates and decodes the index.
func (s *Store) Load() (*Index, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, ragerrors.New(ragerrors.ErrCodeCorruptIndex, "Cannot read index", err).
			WithDetail("path", s.path)
	}

	if err := validateDocument(data); err != nil {
		return nil, ragerrors.New(ragerrors.ErrCodeCorruptIndex, "Index is corrupt", err).
			WithDetail("path", s.path).
			WithSuggestion("Rebuild the index with 'ragindex index'")
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, ragerrors.New(ragerrors.ErrCodeCorruptIndex, "Index is corrupt", err).
			WithDetail("path", s.path)
	}
	if idx.Chunks == nil {
		idx.Chunks = []Chunk{}
	}
	return &idx, nil
}

// Save creates the index directory if needed and overwrites the index file.
func (s *Store) Save(idx *Index) error {
	if idx == nil {
		return ragerrors.InternalError("nil index", nil)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return ragerrors.New(ragerrors.ErrCodeIndexDirCreate, "Cannot create index directory", err).
			WithDetail("path", s.dir)
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return ragerrors.New(ragerrors.ErrCodeIndexEncode, "Failed to encode index", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return ragerrors.New(ragerrors.ErrCodeIndexWrite, "Failed to write index", err).
			WithDetail("path", s.path)
	}
	return nil
}

// Exists reports whether the index file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Size returns the index file size in bytes, or 0 if it is missing.
func (s *Store) Size() int64 {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Remove deletes the index file. removed is false when there was nothing
// to delete.
func (s *Store) Remove() (removed bool, err error) {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, ragerrors.New(ragerrors.ErrCodeIndexDelete,
			fmt.Sprintf("Failed to delete index at %s", s.path), err)
	}
	return true, nil
}

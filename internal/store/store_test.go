package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	ragerrors "github.com/Aman-CERP/ragindex/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChunks() []Chunk {
	return []Chunk{
		{FilePath: "/etc/hosts", ChunkIndex: 0, Text: "127.0.0.1 localhost"},
		{FilePath: "/home/u/.bashrc", ChunkIndex: 0, Text: "alias ll='ls -l'"},
		{FilePath: "/home/u/.bashrc", ChunkIndex: 1, Text: "export EDITOR=vim"},
	}
}

func TestNew_Paths(t *testing.T) {
	s := New("/base")

	assert.Equal(t, filepath.Join("/base", "rag_index"), s.Dir())
	assert.Equal(t, filepath.Join("/base", "rag_index", "index.json"), s.Path())
}

func TestNewIndex_DerivesCounts(t *testing.T) {
	now := time.Unix(1700000000, 500_000_000)

	idx := NewIndex(sampleChunks(), now)

	assert.Equal(t, CurrentVersion, idx.Version)
	assert.Equal(t, 3, idx.TotalChunks)
	assert.Equal(t, 2, idx.TotalFiles)
	assert.InDelta(t, 1700000000.5, idx.CreatedAt, 1e-6)
	assert.WithinDuration(t, now, idx.Created(), time.Millisecond)
}

func TestNewIndex_NilChunks(t *testing.T) {
	idx := NewIndex(nil, time.Now())

	assert.NotNil(t, idx.Chunks)
	assert.Zero(t, idx.TotalChunks)
	assert.Zero(t, idx.TotalFiles)
}

func TestIndex_CreatedZero(t *testing.T) {
	assert.True(t, (&Index{}).Created().IsZero())
	var idx *Index
	assert.True(t, idx.Created().IsZero())
}

func TestStore_SaveLoad(t *testing.T) {
	// Given: a store whose directory does not exist yet
	s := New(filepath.Join(t.TempDir(), "nested"))
	idx := NewIndex(sampleChunks(), time.Now())

	// When: saving and loading
	require.NoError(t, s.Save(idx))
	loaded, err := s.Load()

	// Then: the index survives intact
	require.NoError(t, err)
	assert.Equal(t, idx.Chunks, loaded.Chunks)
	assert.Equal(t, idx.TotalFiles, loaded.TotalFiles)
	assert.True(t, s.Exists())
	assert.Positive(t, s.Size())
}

func TestStore_SaveWritesDocumentedFormat(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Save(NewIndex(sampleChunks()[:1], time.Unix(10, 0))))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 1, raw["version"])
	assert.EqualValues(t, 10, raw["created_at"])
	assert.EqualValues(t, 1, raw["total_files"])
	assert.EqualValues(t, 1, raw["total_chunks"])
	chunks := raw["chunks"].([]any)
	require.Len(t, chunks, 1)
	assert.Equal(t, map[string]any{
		"file_path":   "/etc/hosts",
		"chunk_index": float64(0),
		"text":        "127.0.0.1 localhost",
	}, chunks[0])
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Save(NewIndex(sampleChunks(), time.Now())))
	require.NoError(t, s.Save(NewIndex(sampleChunks()[:1], time.Now())))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.TotalChunks)
}

func TestStore_LoadMissing(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Load()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, s.Exists())
	assert.Zero(t, s.Size())
}

func TestStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{not json"},
		{name: "wrong version", content: `{"version":2,"created_at":1,"total_files":0,"total_chunks":0,"chunks":[]}`},
		{name: "missing chunks", content: `{"version":1,"created_at":1,"total_files":0,"total_chunks":0}`},
		{name: "bad chunk", content: `{"version":1,"created_at":1,"total_files":1,"total_chunks":1,"chunks":[{"file_path":"/x","chunk_index":-1,"text":"t"}]}`},
		{name: "wrong type", content: `{"version":1,"created_at":"yesterday","total_files":0,"total_chunks":0,"chunks":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(t.TempDir())
			require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0o644))

			_, err := s.Load()

			require.Error(t, err)
			assert.Equal(t, ragerrors.ErrCodeCorruptIndex, ragerrors.GetCode(err))
			assert.False(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestStore_SaveDirCreateFailure(t *testing.T) {
	// Given: the base path is a regular file, so the index dir cannot be made
	base := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o644))
	s := New(base)

	// When: saving
	err := s.Save(NewIndex(sampleChunks(), time.Now()))

	// Then: the directory error is reported
	require.Error(t, err)
	assert.Equal(t, ragerrors.ErrCodeIndexDirCreate, ragerrors.GetCode(err))
	assert.Contains(t, err.Error(), "Cannot create index directory")
}

func TestStore_SaveWriteFailure(t *testing.T) {
	// Given: the index path is occupied by a directory
	s := New(t.TempDir())
	require.NoError(t, os.MkdirAll(s.Path(), 0o755))

	// When: saving
	err := s.Save(NewIndex(sampleChunks(), time.Now()))

	// Then: the write error is reported
	require.Error(t, err)
	assert.Equal(t, ragerrors.ErrCodeIndexWrite, ragerrors.GetCode(err))
	assert.Contains(t, err.Error(), "Failed to write index")
}

func TestStore_SaveNil(t *testing.T) {
	require.Error(t, New(t.TempDir()).Save(nil))
}

func TestStore_Remove(t *testing.T) {
	s := New(t.TempDir())

	removed, err := s.Remove()
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, s.Save(NewIndex(sampleChunks(), time.Now())))
	removed, err = s.Remove()
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, s.Exists())
}

func TestStore_RemoveFailure(t *testing.T) {
	// Given: a non-empty directory where the index file should be
	s := New(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(s.Path(), "child"), 0o755))

	// When: removing
	removed, err := s.Remove()

	// Then: the failure carries the delete code and cause
	require.Error(t, err)
	assert.False(t, removed)
	assert.Equal(t, ragerrors.ErrCodeIndexDelete, ragerrors.GetCode(err))
	assert.NotNil(t, errors.Unwrap(err))
}

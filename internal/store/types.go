// Package store persists the ragindex index as a single JSON document.
package store

import (
	"math"
	"time"
)

// CurrentVersion is the only index format version defined.
const CurrentVersion = 1

// Chunk is one retrievable segment of a file. Chunks are immutable and
// replaced wholesale on rebuild.
type Chunk struct {
	FilePath   string `json:"file_path"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

// Index is the persisted index document.
type Index struct {
	Version int `json:"version"`
	// CreatedAt is Unix seconds with a fractional part.
	CreatedAt   float64 `json:"created_at"`
	TotalFiles  int     `json:"total_files"`
	TotalChunks int     `json:"total_chunks"`
	Chunks      []Chunk `json:"chunks"`
}

// NewIndex assembles an index from chunks, deriving the file and chunk
// counts so they always agree with the chunk list.
func NewIndex(chunks []Chunk, createdAt time.Time) *Index {
	if chunks == nil {
		chunks = []Chunk{}
	}
	files := make(map[string]struct{})
	for _, c := range chunks {
		files[c.FilePath] = struct{}{}
	}
	return &Index{
		Version:     CurrentVersion,
		CreatedAt:   float64(createdAt.UnixNano()) / float64(time.Second),
		TotalFiles:  len(files),
		TotalChunks: len(chunks),
		Chunks:      chunks,
	}
}

// Created returns CreatedAt as a time. A zero timestamp yields the zero time.
func (idx *Index) Created() time.Time {
	if idx == nil || idx.CreatedAt <= 0 {
		return time.Time{}
	}
	sec, frac := math.Modf(idx.CreatedAt)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

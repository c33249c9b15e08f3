// Package chunk splits file content into overlapping fixed-size windows.
package chunk

import (
	"fmt"
	"strings"

	ragerrors "github.com/Aman-CERP/ragindex/internal/errors"
	"github.com/Aman-CERP/ragindex/internal/store"
)

// Chunk size defaults, in characters.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Chunker splits text into windows of at most Size characters, each
// starting Size-Overlap characters after the previous one. Characters are
// Unicode code points, so a code point is never split.
type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker validates the parameters and returns a Chunker.
func NewChunker(size, overlap int) (*Chunker, error) {
	switch {
	case size <= 0:
		return nil, ragerrors.New(ragerrors.ErrCodeInvalidChunking,
			fmt.Sprintf("chunk size must be positive, got %d", size), nil)
	case overlap < 0:
		return nil, ragerrors.New(ragerrors.ErrCodeInvalidChunking,
			fmt.Sprintf("chunk overlap must be non-negative, got %d", overlap), nil)
	case overlap >= size:
		return nil, ragerrors.New(ragerrors.ErrCodeInvalidChunking,
			fmt.Sprintf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, size), nil).
			WithSuggestion("Lower chunking.chunk_overlap or raise chunking.chunk_size")
	}
	return &Chunker{Size: size, Overlap: overlap}, nil
}

// Default returns a Chunker with the default size and overlap.
func Default() *Chunker {
	return &Chunker{Size: DefaultSize, Overlap: DefaultOverlap}
}

// Split returns the chunks of text. Blank text yields no chunks; text no
// longer than Size yields itself. Splitting is positional only.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	runes := []rune(text)
	if len(runes) <= c.Size {
		return []string{text}
	}

	step := c.Size - c.Overlap
	chunks := make([]string, 0, (len(runes)-c.Overlap+step-1)/step)
	for start := 0; ; start += step {
		end := min(start+c.Size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// ChunkFile splits text and tags each piece with path and its position.
func (c *Chunker) ChunkFile(path, text string) []store.Chunk {
	pieces := c.Split(text)
	chunks := make([]store.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = store.Chunk{FilePath: path, ChunkIndex: i, Text: p}
	}
	return chunks
}

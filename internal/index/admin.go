package index

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Aman-CERP/ragindex/internal/store"
)

// Stats summarizes the persisted index.
type Stats struct {
	TotalFiles     int   `json:"total_files"`
	TotalChunks    int   `json:"total_chunks"`
	IndexSizeBytes int64 `json:"index_size_bytes"`
	// LastIndexed is nil when there is no index or it has no build time.
	LastIndexed *time.Time `json:"last_indexed,omitempty"`
	// MaxIndexSizeBytes is the advisory limit, reported for display only.
	MaxIndexSizeBytes int64 `json:"max_index_size_bytes"`
}

// OverSizeLimit reports whether the index exceeds the advisory limit.
func (s Stats) OverSizeLimit() bool {
	return s.MaxIndexSizeBytes > 0 && s.IndexSizeBytes > s.MaxIndexSizeBytes
}

// Admin answers lifecycle questions about the index. A missing or corrupt
// index is reported as empty, never as an error.
type Admin struct {
	store        *store.Store
	maxIndexSize int64
	logger       *slog.Logger
}

// NewAdmin creates an Admin over st. logger may be nil.
func NewAdmin(st *store.Store, maxIndexSize int64, logger *slog.Logger) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Admin{store: st, maxIndexSize: maxIndexSize, logger: logger}
}

// Stats returns counts, size and build time of the index.
func (a *Admin) Stats() Stats {
	stats := Stats{MaxIndexSizeBytes: a.maxIndexSize}

	idx, ok := a.load()
	if !ok {
		return stats
	}

	stats.TotalFiles = idx.TotalFiles
	stats.TotalChunks = idx.TotalChunks
	stats.IndexSizeBytes = a.store.Size()
	if created := idx.Created(); !created.IsZero() {
		stats.LastIndexed = &created
	}
	return stats
}

// IsIndexed reports whether a readable index with at least one chunk exists.
func (a *Admin) IsIndexed() bool {
	idx, ok := a.load()
	return ok && idx.TotalChunks > 0
}

// Clear deletes the index file. A missing index is not an error.
func (a *Admin) Clear() (string, error) {
	removed, err := a.store.Remove()
	if err != nil {
		a.logger.Error("index_clear_failed", slog.String("path", a.store.Path()), slog.String("error", err.Error()))
		return "", err
	}
	if !removed {
		return "Nothing to clear", nil
	}
	a.logger.Info("index_cleared", slog.String("path", a.store.Path()))
	return "Index cleared", nil
}

func (a *Admin) load() (*store.Index, bool) {
	idx, err := a.store.Load()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.Debug("index_load_failed", slog.String("path", a.store.Path()), slog.String("error", err.Error()))
		}
		return nil, false
	}
	return idx, true
}

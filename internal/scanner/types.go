package scanner

import (
	"log/slog"
	"time"
)

// FileRecord describes one eligible file in a scan preview.
// It is transient and never persisted.
type FileRecord struct {
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	// Indexable is true when the content is valid UTF-8 and not blank,
	// i.e. a build would produce at least one chunk from it.
	Indexable bool `json:"indexable"`
}

// Options configures a Resolver.
type Options struct {
	// DefaultRoots are used when a caller supplies no roots.
	DefaultRoots []string
	// MaxFileSize is the largest eligible file in bytes.
	MaxFileSize int64
	// ExcludeDirs are extra directory names skipped during walks.
	ExcludeDirs []string
	// ExcludePaths are absolute paths never yielded or walked into,
	// together with everything beneath them.
	ExcludePaths []string
	// SensitiveKeywords extend the built-in sensitive filename keywords.
	SensitiveKeywords []string
	// Logger receives debug events. Nil uses slog.Default().
	Logger *slog.Logger
}

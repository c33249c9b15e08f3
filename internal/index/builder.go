// Package index builds the ragindex index and manages its lifecycle.
package index

import (
	"fmt"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/Aman-CERP/ragindex/internal/chunk"
	ragerrors "github.com/Aman-CERP/ragindex/internal/errors"
	"github.com/Aman-CERP/ragindex/internal/scanner"
	"github.com/Aman-CERP/ragindex/internal/store"
)

// BuildSummary describes a successful build.
type BuildSummary struct {
	TotalFiles  int
	TotalChunks int
	IndexPath   string
	IndexSize   int64
	Duration    time.Duration
	// Skipped counts resolved files that could not be read as text.
	Skipped int
	// OverSizeLimit is set when the index exceeds the advisory maximum.
	OverSizeLimit bool
}

// Message returns a one-line human-readable description of the build.
func (s *BuildSummary) Message() string {
	return fmt.Sprintf("Indexed %d files (%d chunks)", s.TotalFiles, s.TotalChunks)
}

// BuilderDependencies contains the injected dependencies for Builder.
type BuilderDependencies struct {
	// Resolver selects eligible files (required).
	Resolver *scanner.Resolver
	// Chunker splits file content (required).
	Chunker *chunk.Chunker
	// Store persists the index (required).
	Store *store.Store
	// MaxIndexSize is the advisory index size in bytes. Zero disables the check.
	MaxIndexSize int64
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Builder performs full rebuilds of the index. Every build replaces the
// previous index wholesale.
type Builder struct {
	resolver     *scanner.Resolver
	chunker      *chunk.Chunker
	store        *store.Store
	maxIndexSize int64
	logger       *slog.Logger
	now          func() time.Time
}

// NewBuilder creates a Builder with injected dependencies.
func NewBuilder(deps BuilderDependencies) (*Builder, error) {
	if deps.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if deps.Chunker == nil {
		return nil, fmt.Errorf("chunker is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	b := &Builder{
		resolver:     deps.Resolver,
		chunker:      deps.Chunker,
		store:        deps.Store,
		maxIndexSize: deps.MaxIndexSize,
		logger:       deps.Logger,
		now:          deps.Now,
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b, nil
}

// Build resolves paths (the default whitelist when empty), chunks every
// readable file and overwrites the index. On any error the existing index
// is left untouched. sink may be nil.
func (b *Builder) Build(paths []string, sink ProgressSink) (*BuildSummary, error) {
	if sink == nil {
		sink = NopSink{}
	}
	start := b.now()
	b.logger.Info("index_build_started", slog.Int("roots", len(paths)))

	notifySafe(sink, b.logger, Event{Stage: StageResolve, Message: "Resolving paths"})
	files := b.resolver.Resolve(paths)
	if len(files) == 0 {
		b.logger.Warn("index_build_failed", slog.String("reason", "no_indexable_files"))
		return nil, ragerrors.New(ragerrors.ErrCodeNoIndexableFiles, "No indexable files found", nil).
			WithSuggestion("Check the paths exist and are not filtered as sensitive, binary or too large")
	}
	b.logger.Debug("index_resolve_complete", slog.Int("files", len(files)))

	var (
		chunks  []store.Chunk
		skipped int
	)
	for i, path := range files {
		notifySafe(sink, b.logger, Event{Stage: StageRead, Current: i + 1, Total: len(files), File: path})

		text, err := readText(path)
		if err != nil {
			skipped++
			b.logger.Debug("file_skipped", slog.String("path", path), slog.String("error", err.Error()))
			notifySafe(sink, b.logger, Event{
				Stage:   StageRead,
				Current: i + 1,
				Total:   len(files),
				File:    path,
				Message: "Skipped unreadable file",
				Err:     err,
			})
			continue
		}

		fileChunks := b.chunker.ChunkFile(path, text)
		chunks = append(chunks, fileChunks...)
		notifySafe(sink, b.logger, Event{
			Stage:   StageChunk,
			Current: i + 1,
			Total:   len(files),
			File:    path,
			Message: fmt.Sprintf("%d chunks", len(fileChunks)),
		})
	}

	if len(chunks) == 0 {
		b.logger.Warn("index_build_failed", slog.String("reason", "no_content"), slog.Int("skipped", skipped))
		return nil, ragerrors.New(ragerrors.ErrCodeNoContent, "No content to index", nil)
	}

	idx := store.NewIndex(chunks, b.now())

	notifySafe(sink, b.logger, Event{Stage: StageWrite, Message: "Writing index", File: b.store.Path()})
	if err := b.store.Save(idx); err != nil {
		b.logger.Error("index_write_failed", slog.String("path", b.store.Path()), slog.String("error", err.Error()))
		return nil, err
	}

	summary := &BuildSummary{
		TotalFiles:  idx.TotalFiles,
		TotalChunks: idx.TotalChunks,
		IndexPath:   b.store.Path(),
		IndexSize:   b.store.Size(),
		Duration:    b.now().Sub(start),
		Skipped:     skipped,
	}

	if b.maxIndexSize > 0 && summary.IndexSize > b.maxIndexSize {
		summary.OverSizeLimit = true
		b.logger.Warn("index_size_exceeds_limit",
			slog.Int64("size_bytes", summary.IndexSize),
			slog.Int64("limit_bytes", b.maxIndexSize))
		notifySafe(sink, b.logger, Event{
			Stage:   StageWrite,
			File:    summary.IndexPath,
			Message: fmt.Sprintf("Index size %d bytes exceeds advisory limit of %d bytes", summary.IndexSize, b.maxIndexSize),
			Err:     ragerrors.New(ragerrors.ErrCodeFileTooLarge, "Index exceeds advisory size limit", nil),
		})
	}

	b.logger.Info("index_complete",
		slog.Int("files", summary.TotalFiles),
		slog.Int("chunks", summary.TotalChunks),
		slog.Int("skipped", summary.Skipped),
		slog.Int64("size_bytes", summary.IndexSize),
		slog.Int64("duration_ms", summary.Duration.Milliseconds()),
		slog.String("path", summary.IndexPath))

	notifySafe(sink, b.logger, Event{
		Stage:   StageDone,
		Current: len(files),
		Total:   len(files),
		Message: summary.Message(),
	})

	return summary, nil
}

// readText reads path as UTF-8 text.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ragerrors.New(ragerrors.ErrCodeFileUnreadable, "Cannot read file", err).WithDetail("path", path)
	}
	if !utf8.Valid(data) {
		return "", ragerrors.New(ragerrors.ErrCodeFileUnreadable, "File is not valid UTF-8 text", nil).
			WithDetail("path", path)
	}
	return string(data), nil
}

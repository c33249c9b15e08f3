// Package ragindex is the caller-facing API of the local config-file
// indexing and retrieval engine.
//
// A Service resolves whitelisted configuration files, splits them into
// overlapping chunks, persists them to a JSON index and answers free-text
// queries with lexical ranking:
//
//	cfg, _ := config.Load("")
//	svc, err := ragindex.New(ragindex.Options{Config: cfg})
//	if err != nil {
//	    return err
//	}
//	res := svc.Build(nil, nil)
//	hits := svc.Search("git alias", 5)
//
// Calls are synchronous and keep no state between them beyond the index
// file. Concurrent builds are last-writer-wins.
package ragindex

import (
	"fmt"
	"log/slog"

	"github.com/Aman-CERP/ragindex/internal/chunk"
	"github.com/Aman-CERP/ragindex/internal/config"
	ragerrors "github.com/Aman-CERP/ragindex/internal/errors"
	"github.com/Aman-CERP/ragindex/internal/index"
	"github.com/Aman-CERP/ragindex/internal/logging"
	"github.com/Aman-CERP/ragindex/internal/scanner"
	"github.com/Aman-CERP/ragindex/internal/search"
	"github.com/Aman-CERP/ragindex/internal/store"
)

// Result is the outcome of a build or clear.
type Result struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    *BuildData `json:"data,omitempty"`
	// Code is the error code of a failed operation.
	Code string `json:"code,omitempty"`
	// Err is the underlying error of a failed operation.
	Err error `json:"-"`
}

// BuildData carries the counts of a successful build.
type BuildData struct {
	TotalFiles  int `json:"total_files"`
	TotalChunks int `json:"total_chunks"`
}

// Options configures a Service.
type Options struct {
	// Config supplies roots, limits, chunking and search settings.
	// Nil uses config.NewConfig().
	Config *config.Config
	// BaseDir overrides the directory holding rag_index/index.json.
	// Empty uses Config.IndexBaseDir().
	BaseDir string
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Service wires the resolver, chunker, builder, search engine and
// administration over one index location.
type Service struct {
	store    *store.Store
	resolver *scanner.Resolver
	builder  *index.Builder
	engine   *search.Engine
	admin    *index.Admin
}

// New builds a Service. It fails only on invalid chunking parameters.
func New(opts Options) (*Service, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = cfg.IndexBaseDir()
	}

	chunker, err := chunk.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	st := store.New(baseDir)
	resolver := scanner.New(scanner.Options{
		DefaultRoots:      cfg.Paths.Roots,
		MaxFileSize:       cfg.Limits.MaxFileSize,
		ExcludeDirs:       cfg.Paths.ExcludeDirs,
		SensitiveKeywords: cfg.Paths.SensitiveKeywords,
		// The default roots contain the config dir, which holds the
		// index and logs. Reading them back would feed each build the last.
		ExcludePaths: []string{st.Dir(), logging.DefaultLogDir()},
		Logger:       logger,
	})

	builder, err := index.NewBuilder(index.BuilderDependencies{
		Resolver:     resolver,
		Chunker:      chunker,
		Store:        st,
		MaxIndexSize: cfg.Limits.MaxIndexSize,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create builder: %w", err)
	}

	return &Service{
		store:    st,
		resolver: resolver,
		builder:  builder,
		engine: search.New(st, search.Options{
			DefaultMaxResults: cfg.Search.MaxResults,
			Logger:            logger,
		}),
		admin: index.NewAdmin(st, cfg.Limits.MaxIndexSize, logger),
	}, nil
}

// IndexPath returns the index file location.
func (s *Service) IndexPath() string {
	return s.store.Path()
}

// Scan previews which files a build over paths would consider.
func (s *Service) Scan(paths []string) []scanner.FileRecord {
	return s.resolver.Scan(paths)
}

// Index rebuilds the index and returns the detailed summary or error.
func (s *Service) Index(paths []string, sink index.ProgressSink) (*index.BuildSummary, error) {
	return s.builder.Build(paths, sink)
}

// Build rebuilds the index from paths (the configured roots when empty)
// and reports the outcome as a Result. sink may be nil.
func (s *Service) Build(paths []string, sink index.ProgressSink) Result {
	summary, err := s.builder.Build(paths, sink)
	if err != nil {
		return failure(err)
	}
	return Result{
		Success: true,
		Message: summary.Message(),
		Data: &BuildData{
			TotalFiles:  summary.TotalFiles,
			TotalChunks: summary.TotalChunks,
		},
	}
}

// Search returns up to maxResults ranked chunks (the configured default
// when maxResults <= 0). It never fails; problems yield no results.
func (s *Service) Search(query string, maxResults int) []search.Result {
	return s.engine.Search(query, maxResults)
}

// Stats describes the persisted index.
func (s *Service) Stats() index.Stats {
	return s.admin.Stats()
}

// IsIndexed reports whether a usable index exists.
func (s *Service) IsIndexed() bool {
	return s.admin.IsIndexed()
}

// Clear deletes the index.
func (s *Service) Clear() Result {
	msg, err := s.admin.Clear()
	if err != nil {
		return failure(err)
	}
	return Result{Success: true, Message: msg}
}

func failure(err error) Result {
	return Result{
		Success: false,
		Message: ragerrors.Message(err),
		Code:    ragerrors.GetCode(err),
		Err:     err,
	}
}

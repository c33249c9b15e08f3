// Package scanner resolves root paths into the set of files that are safe
// and sensible to index.
package scanner

import (
	"bytes"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultMaxFileSize is used when Options.MaxFileSize is not positive.
const DefaultMaxFileSize int64 = 1024 * 1024

// binarySniffLen is how many leading bytes are inspected for a null byte.
const binarySniffLen = 512

// Filenames containing any of these (case-insensitive) are never indexed.
var sensitiveKeywords = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
}

// Sensitive file patterns that are never indexed, matched against the
// lowercased base name.
var sensitiveFilePatterns = []string{
	".env",
	".env.*",
	"*.pem",
	"*.p12",
	"*.pfx",
	".netrc",
	".npmrc",
	".pypirc",
	"id_rsa",
	"id_dsa",
	"id_ecdsa",
	"id_ed25519",
	"shadow",
	"gshadow",
}

// Directory names (case-insensitive) whose subtrees are never walked.
var defaultExcludeDirs = []string{
	// cache locations
	"cache",
	".cache",
	"caches",
	"__pycache__",
	// VCS and credential stores
	".git",
	".ssh",
	".gnupg",
	".aws",
	".gcp",
	".azure",
	"node_modules",
}

// Resolver turns root paths into eligible absolute file paths.
// It holds no state between calls.
type Resolver struct {
	defaultRoots []string
	maxFileSize  int64
	keywords     []string
	excludeDirs  map[string]struct{}
	excludePaths []string
	logger       *slog.Logger
}

// New creates a Resolver from opts.
func New(opts Options) *Resolver {
	r := &Resolver{
		defaultRoots: slices.Clone(opts.DefaultRoots),
		maxFileSize:  opts.MaxFileSize,
		keywords:     slices.Clone(sensitiveKeywords),
		excludeDirs:  make(map[string]struct{}, len(defaultExcludeDirs)+len(opts.ExcludeDirs)),
		logger:       opts.Logger,
	}
	if r.maxFileSize <= 0 {
		r.maxFileSize = DefaultMaxFileSize
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	for _, kw := range opts.SensitiveKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			r.keywords = append(r.keywords, kw)
		}
	}
	for _, d := range append(slices.Clone(defaultExcludeDirs), opts.ExcludeDirs...) {
		r.excludeDirs[strings.ToLower(d)] = struct{}{}
	}
	for _, p := range opts.ExcludePaths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs, err := ExpandPath(p)
		if err != nil {
			continue
		}
		r.excludePaths = append(r.excludePaths, abs)
		// Walks of symlinked roots report resolved paths.
		if resolved, err := filepath.EvalSymlinks(abs); err == nil && resolved != abs {
			r.excludePaths = append(r.excludePaths, resolved)
		}
	}
	return r
}

// Candidates lazily yields eligible files under roots, depth-first per
// root and roots in the order given. With no roots the default whitelist
// is used. Each range over the sequence walks the filesystem afresh.
func (r *Resolver) Candidates(roots []string) iter.Seq[string] {
	if len(roots) == 0 {
		roots = r.defaultRoots
	}
	return func(yield func(string) bool) {
		for _, root := range roots {
			if !r.walkRoot(root, yield) {
				return
			}
		}
	}
}

// Resolve materializes Candidates. An empty result is not an error.
func (r *Resolver) Resolve(roots []string) []string {
	return slices.Collect(r.Candidates(roots))
}

// Scan previews the files a build would consider, with size, mtime and
// whether each would produce content.
func (r *Resolver) Scan(roots []string) []FileRecord {
	records := []FileRecord{}
	for path := range r.Candidates(roots) {
		info, err := os.Stat(path)
		if err != nil {
			r.logger.Debug("scan_stat_failed", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		records = append(records, FileRecord{
			Path:         path,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			Indexable:    isIndexable(path),
		})
	}
	return records
}

// walkRoot yields eligible files for a single root. It returns false once
// the consumer stops iterating.
func (r *Resolver) walkRoot(root string, yield func(string) bool) bool {
	abs, err := ExpandPath(root)
	if err != nil {
		r.logger.Debug("root_invalid", slog.String("root", root), slog.String("error", err.Error()))
		return true
	}

	if r.isExcludedPath(abs) {
		r.logger.Debug("root_skipped", slog.String("root", abs), slog.String("reason", "excluded"))
		return true
	}

	// Stat follows a symlinked root.
	info, err := os.Stat(abs)
	if err != nil {
		r.logger.Debug("root_skipped", slog.String("root", abs), slog.String("error", err.Error()))
		return true
	}

	if info.Mode().IsRegular() {
		if r.eligible(abs, info.Size()) {
			return yield(abs)
		}
		return true
	}
	if !info.IsDir() {
		return true
	}

	// WalkDir does not descend through a symlinked root, so walk its target.
	walkFrom := abs
	if li, err := os.Lstat(abs); err == nil && li.Mode()&fs.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			walkFrom = resolved
		}
	}

	stopped := false
	_ = filepath.WalkDir(walkFrom, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			r.logger.Debug("walk_error", slog.String("path", path), slog.String("error", err.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if r.isExcludedPath(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != walkFrom && r.isExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		var size int64
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			// Links to regular files are followed; linked directories are
			// not, so walks cannot cycle.
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
			size = target.Size()
		case d.Type().IsRegular():
			fi, err := d.Info()
			if err != nil {
				return nil
			}
			size = fi.Size()
		default:
			return nil
		}
		if !r.eligible(path, size) {
			return nil
		}
		if !yield(path) {
			stopped = true
			return filepath.SkipAll
		}
		return nil
	})
	return !stopped
}

// isExcludedPath reports whether path is, or lies beneath, an excluded path.
func (r *Resolver) isExcludedPath(path string) bool {
	for _, ex := range r.excludePaths {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// eligible applies the three global filters: sensitive name, size, binary.
func (r *Resolver) eligible(path string, size int64) bool {
	if r.IsSensitive(path) {
		r.logger.Debug("file_skipped", slog.String("path", path), slog.String("reason", "sensitive"))
		return false
	}
	if size > r.maxFileSize {
		r.logger.Debug("file_skipped", slog.String("path", path), slog.String("reason", "too_large"),
			slog.Int64("size", size))
		return false
	}
	if isBinaryFile(path) {
		r.logger.Debug("file_skipped", slog.String("path", path), slog.String("reason", "binary"))
		return false
	}
	return true
}

// IsSensitive reports whether the base name of path contains a sensitive
// keyword or matches a sensitive filename pattern.
func (r *Resolver) IsSensitive(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, kw := range r.keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	for _, pattern := range sensitiveFilePatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (r *Resolver) isExcludedDir(name string) bool {
	_, ok := r.excludeDirs[strings.ToLower(name)]
	return ok
}

// isBinaryFile checks the first 512 bytes for a null byte. Any open or
// read error counts as binary. An empty file is text.
func isBinaryFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, binarySniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return true
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

// isIndexable reports whether path holds valid UTF-8 with non-blank content.
func isIndexable(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return utf8.Valid(data) && len(bytes.TrimSpace(data)) > 0
}

// ExpandPath expands a leading "~" and returns an absolute, cleaned path.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}

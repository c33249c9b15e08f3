package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogPath_UnderConfigDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	assert.Equal(t, filepath.Join(xdg, "ragindex", "logs"), DefaultLogDir())
	assert.Equal(t, filepath.Join(xdg, "ragindex", "logs", "ragindex.log"), DefaultLogPath())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, 10, cfg.MaxSizeMB)
	assert.Equal(t, 5, cfg.MaxFiles)
	assert.False(t, cfg.WriteToStderr)
	assert.Equal(t, "debug", DebugConfig().Level)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	// Given: a file logger at debug level
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, cleanup, err := Setup(Config{Level: "debug", FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	require.NoError(t, err)

	// When: logging an event
	logger.Debug("index_built", slog.Int("files", 3))
	cleanup()

	// Then: a JSON line with the attributes is written
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &line))
	assert.Equal(t, "index_built", line["msg"])
	assert.Equal(t, "DEBUG", line["level"])
	assert.EqualValues(t, 3, line["files"])
}

func TestSetup_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	logger, cleanup, err := Setup(Config{Level: "warn", FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestSetup_NoFilePath_ReturnsStderrLogger(t *testing.T) {
	logger, cleanup, err := Setup(Config{Level: "debug"})
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))
}

func TestRotatingWriter_RotatesAndCapsFiles(t *testing.T) {
	// Given: a writer with a 1MB limit keeping two rotated files
	path := filepath.Join(t.TempDir(), "rot.log")
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	chunk := []byte(strings.Repeat("x", 600*1024))

	// When: writing enough to rotate several times
	for range 5 {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}

	// Then: the active file and exactly two rotated files exist
	assert.FileExists(t, path)
	assert.FileExists(t, path+".1")
	assert.FileExists(t, path+".2")
	assert.NoFileExists(t, path+".3")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(1024*1024))
}

func TestRotatingWriter_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o644))

	w, err := NewRotatingWriter(path, 1, 1)
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "c.log"), 1, 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestFindLogFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	_, err := FindLogFile("")
	require.Error(t, err)

	_, err = FindLogFile(filepath.Join(xdg, "nope.log"))
	require.Error(t, err)

	require.NoError(t, os.MkdirAll(DefaultLogDir(), 0o755))
	require.NoError(t, os.WriteFile(DefaultLogPath(), nil, 0o644))
	path, err := FindLogFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLogPath(), path)
}

func TestViewer_TailFiltersAndFormats(t *testing.T) {
	// Given: a log with mixed levels and a non-JSON line
	path := filepath.Join(t.TempDir(), "v.log")
	content := strings.Join([]string{
		`{"time":"2026-01-02T03:04:05.678Z","level":"DEBUG","msg":"file_skipped","path":"/a"}`,
		`{"time":"2026-01-02T03:04:06.000Z","level":"INFO","msg":"index_built","files":2}`,
		`not json at all`,
		`{"time":"2026-01-02T03:04:07.000Z","level":"ERROR","msg":"index_write_failed"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := NewViewer(ViewerConfig{Level: "info", NoColor: true}, nil)

	// When: tailing all lines at info level
	entries, err := v.Tail(path, 0)
	require.NoError(t, err)

	// Then: debug is dropped, raw lines pass through
	require.Len(t, entries, 3)
	assert.Equal(t, "03:04:06.000 INFO  index_built files=2", v.Format(entries[0]))
	assert.Equal(t, "not json at all", v.Format(entries[1]))
	assert.Equal(t, "index_write_failed", entries[2].Msg)
}

func TestViewer_TailLastN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.log")
	content := `{"level":"INFO","msg":"one"}
{"level":"INFO","msg":"two"}
{"level":"INFO","msg":"three"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := NewViewer(ViewerConfig{}, nil).Tail(path, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "two", entries[0].Msg)
	assert.Equal(t, "three", entries[1].Msg)
}

func TestViewer_PatternFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.log")
	content := `{"level":"INFO","msg":"search_done","query":"alias"}
{"level":"INFO","msg":"index_built"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := NewViewer(ViewerConfig{Pattern: regexp.MustCompile(`search_`)}, nil)
	entries, err := v.Tail(path, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alias", entries[0].Attrs["query"])
}

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	stdout string
	stderr string
	code   int
}

// execute runs the CLI with an isolated config dir.
func execute(t *testing.T, args ...string) cliResult {
	t.Helper()
	cmd, g := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	code := run(cmd, g, stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// isolate points config and logs at a temp dir and returns an index dir.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	return t.TempDir()
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCmd_ShowsHelp(t *testing.T) {
	isolate(t)

	res := execute(t, "--help")

	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "ragindex")
	for _, sub := range []string{"index", "search", "scan", "stats", "status", "clear", "config", "logs", "version"} {
		assert.Contains(t, res.stdout, sub)
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	isolate(t)

	res := execute(t, "bogus")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown command")
}

func TestRootCmd_InvalidConfigFails(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("chunking:\n  chunk_size: 10\n  chunk_overlap: 50\n"), 0o644))

	res := execute(t, "--config", cfgPath, "stats")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Cannot load configuration")
	assert.Contains(t, res.stderr, "config init --force")
}

func TestVersionCmd(t *testing.T) {
	isolate(t)

	short := execute(t, "version", "--short")
	assert.Equal(t, 0, short.code)
	assert.NotEmpty(t, short.stdout)

	full := execute(t, "version", "--json")
	require.Equal(t, 0, full.code)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(full.stdout), &info))
	assert.Contains(t, info, "version")
}

func TestRootCmd_ProfileFlags(t *testing.T) {
	// Given: CPU and heap profile targets
	indexDir := isolate(t)
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	heap := filepath.Join(dir, "heap.prof")

	// When: running a command with profiling
	res := execute(t, "--index-dir", indexDir, "--profile-cpu", cpu, "--profile-mem", heap, "stats")

	// Then: both profiles are written
	require.Equal(t, 0, res.code, res.stderr)
	assert.FileExists(t, cpu)
	assert.FileExists(t, heap)
}

func TestRootCmd_DebugWritesLogFile(t *testing.T) {
	indexDir := isolate(t)

	res := execute(t, "--index-dir", indexDir, "--debug", "stats")
	require.Equal(t, 0, res.code)

	logs := execute(t, "logs", "-n", "0", "--pattern", "debug_logging_enabled")
	require.Equal(t, 0, logs.code, logs.stderr)
	assert.Contains(t, logs.stdout, "debug_logging_enabled")
}

func TestRootCmd_FailureIsLoggedAndDebugShowsDetail(t *testing.T) {
	// Given: a build that resolves nothing, run with --debug
	indexDir := isolate(t)
	missing := filepath.Join(t.TempDir(), "missing")

	// When
	res := execute(t, "--index-dir", indexDir, "--debug", "index", "--no-tui", missing)

	// Then: the user-facing format includes the suggestion and code
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: No indexable files found")
	assert.Contains(t, res.stderr, "Suggestion:")
	assert.Contains(t, res.stderr, "[ERR_409")

	// And: the failure is in the log with its code
	logs := execute(t, "logs", "-n", "0", "--pattern", "command_failed")
	assert.Contains(t, logs.stdout, "ERR_409")
}

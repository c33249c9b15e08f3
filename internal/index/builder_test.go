package index

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Aman-CERP/ragindex/internal/chunk"
	ragerrors "github.com/Aman-CERP/ragindex/internal/errors"
	"github.com/Aman-CERP/ragindex/internal/scanner"
	"github.com/Aman-CERP/ragindex/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	src     string
	store   *store.Store
	builder *Builder
}

func newFixture(t *testing.T, opts ...func(*BuilderDependencies)) *fixture {
	t.Helper()
	src := t.TempDir()
	st := store.New(t.TempDir())
	c, err := chunk.NewChunker(20, 5)
	require.NoError(t, err)

	deps := BuilderDependencies{
		Resolver: scanner.New(scanner.Options{DefaultRoots: []string{src}}),
		Chunker:  c,
		Store:    st,
	}
	for _, o := range opts {
		o(&deps)
	}
	b, err := NewBuilder(deps)
	require.NoError(t, err)
	return &fixture{src: src, store: st, builder: b}
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.src, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func recordingSink(events *[]Event) SinkFunc {
	return func(e Event) error {
		*events = append(*events, e)
		return nil
	}
}

func TestNewBuilder_RequiresDependencies(t *testing.T) {
	_, err := NewBuilder(BuilderDependencies{})
	require.Error(t, err)

	_, err = NewBuilder(BuilderDependencies{Resolver: scanner.New(scanner.Options{})})
	require.Error(t, err)

	_, err = NewBuilder(BuilderDependencies{Resolver: scanner.New(scanner.Options{}), Chunker: chunk.Default()})
	require.Error(t, err)
}

func TestBuild_WritesIndex(t *testing.T) {
	// Given: two text files, one long enough for several chunks
	f := newFixture(t)
	short := f.write(t, "short.conf", "a=1")
	long := f.write(t, "long.conf", strings.Repeat("abcdefghij", 5))

	// When: building from the default roots
	summary, err := f.builder.Build(nil, nil)

	// Then: the index reflects both files
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, f.store.Path(), summary.IndexPath)
	assert.Zero(t, summary.Skipped)
	assert.Equal(t, "Indexed 2 files (4 chunks)", summary.Message())

	idx, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, summary.TotalChunks, idx.TotalChunks)
	assert.Len(t, idx.Chunks, idx.TotalChunks)
	assert.Equal(t, 1, idx.Version)

	// Chunks appear in resolve order, positions restart per file
	assert.Equal(t, long, idx.Chunks[0].FilePath)
	assert.Equal(t, 0, idx.Chunks[0].ChunkIndex)
	last := idx.Chunks[len(idx.Chunks)-1]
	assert.Equal(t, short, last.FilePath)
	assert.Equal(t, 0, last.ChunkIndex)
}

func TestBuild_ExplicitPaths(t *testing.T) {
	f := newFixture(t)
	f.write(t, "a.conf", "a=1")
	other := t.TempDir()
	only := filepath.Join(other, "only.conf")
	require.NoError(t, os.WriteFile(only, []byte("b=2"), 0o644))

	summary, err := f.builder.Build([]string{only}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalFiles)
	idx, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, only, idx.Chunks[0].FilePath)
}

func TestBuild_NoIndexableFiles_LeavesIndexUntouched(t *testing.T) {
	// Given: an existing index
	f := newFixture(t)
	f.write(t, "a.conf", "a=1")
	_, err := f.builder.Build(nil, nil)
	require.NoError(t, err)
	before, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)

	// When: building from paths that resolve to nothing
	_, err = f.builder.Build([]string{filepath.Join(f.src, "missing")}, nil)

	// Then: the build fails and the index is unchanged
	require.Error(t, err)
	assert.Equal(t, ragerrors.ErrCodeNoIndexableFiles, ragerrors.GetCode(err))
	assert.Equal(t, "No indexable files found", ragerrors.Message(err))
	after, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBuild_NoContent(t *testing.T) {
	// Given: only blank files
	f := newFixture(t)
	f.write(t, "blank.conf", "   \n\n")

	// When: building
	_, err := f.builder.Build(nil, nil)

	// Then: nothing is written
	require.Error(t, err)
	assert.Equal(t, ragerrors.ErrCodeNoContent, ragerrors.GetCode(err))
	assert.Equal(t, "No content to index", ragerrors.Message(err))
	assert.False(t, f.store.Exists())
}

func TestBuild_SkipsUnreadableAndContinues(t *testing.T) {
	// Given: a non-UTF-8 file next to a good one
	f := newFixture(t)
	bad := f.write(t, "a-latin1.conf", "caf\xe9")
	good := f.write(t, "b.conf", "ok=1")
	var events []Event

	// When: building
	summary, err := f.builder.Build(nil, recordingSink(&events))

	// Then: the bad file is skipped with a notification
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.TotalFiles)
	idx, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, good, idx.Chunks[0].FilePath)

	var skipped []Event
	for _, e := range events {
		if e.Err != nil {
			skipped = append(skipped, e)
		}
	}
	require.Len(t, skipped, 1)
	assert.Equal(t, bad, skipped[0].File)
	assert.Equal(t, StageRead, skipped[0].Stage)
}

func TestBuild_EventStages(t *testing.T) {
	f := newFixture(t)
	f.write(t, "a.conf", "a=1")
	var events []Event

	_, err := f.builder.Build(nil, recordingSink(&events))
	require.NoError(t, err)

	var stages []Stage
	for _, e := range events {
		stages = append(stages, e.Stage)
	}
	assert.Equal(t, []Stage{StageResolve, StageRead, StageChunk, StageWrite, StageDone}, stages)
	assert.Equal(t, "Indexed 1 files (1 chunks)", events[len(events)-1].Message)
}

func TestBuild_SinkFailuresDoNotAffectOutcome(t *testing.T) {
	tests := []struct {
		name string
		sink ProgressSink
	}{
		{name: "error", sink: SinkFunc(func(Event) error { return errors.New("sink broke") })},
		{name: "panic", sink: SinkFunc(func(Event) error { panic("sink exploded") })},
		{name: "nop", sink: NopSink{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.write(t, "a.conf", "a=1")

			summary, err := f.builder.Build(nil, tt.sink)

			require.NoError(t, err)
			assert.Equal(t, 1, summary.TotalChunks)
			assert.True(t, f.store.Exists())
		})
	}
}

func TestBuild_WriteFailure(t *testing.T) {
	// Given: a store whose base is a regular file
	base := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o644))
	f := newFixture(t, func(d *BuilderDependencies) { d.Store = store.New(base) })
	f.write(t, "a.conf", "a=1")

	// When: building
	_, err := f.builder.Build(nil, nil)

	// Then: the directory error aborts the build
	require.Error(t, err)
	assert.Equal(t, ragerrors.ErrCodeIndexDirCreate, ragerrors.GetCode(err))
	assert.Equal(t, "Cannot create index directory", ragerrors.Message(err))
}

func TestBuild_AdvisorySizeLimitOnlyWarns(t *testing.T) {
	// Given: a tiny advisory limit
	f := newFixture(t, func(d *BuilderDependencies) { d.MaxIndexSize = 10 })
	f.write(t, "a.conf", "a=1")
	var events []Event

	// When: building
	summary, err := f.builder.Build(nil, recordingSink(&events))

	// Then: the build succeeds and a warning is emitted
	require.NoError(t, err)
	assert.True(t, summary.OverSizeLimit)
	assert.True(t, f.store.Exists())

	var warned bool
	for _, e := range events {
		if e.Stage == StageWrite && e.Err != nil {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestBuild_FullRebuildReplacesIndex(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "a.conf", "a=1")
	f.write(t, "b.conf", "b=2")
	_, err := f.builder.Build(nil, nil)
	require.NoError(t, err)

	summary, err := f.builder.Build([]string{a}, nil)
	require.NoError(t, err)

	idx, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalFiles)
	require.Len(t, idx.Chunks, 1)
	assert.Equal(t, a, idx.Chunks[0].FilePath)
}

func TestBuild_UsesClock(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := newFixture(t, func(d *BuilderDependencies) { d.Now = func() time.Time { return fixed } })
	f.write(t, "a.conf", "a=1")

	summary, err := f.builder.Build(nil, nil)
	require.NoError(t, err)

	idx, err := f.store.Load()
	require.NoError(t, err)
	assert.True(t, fixed.Equal(idx.Created()))
	assert.Zero(t, summary.Duration)
}

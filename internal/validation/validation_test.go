package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/ragindex/internal/config"
	"github.com/Aman-CERP/ragindex/internal/search"
	"github.com/Aman-CERP/ragindex/pkg/ragindex"
)

type fakeSearcher map[string][]search.Result

func (f fakeSearcher) Search(query string, _ int) []search.Result {
	return f[query]
}

func TestLoadQueries_SetsTiers(t *testing.T) {
	cfg, err := LoadQueries(filepath.Join("testdata", "queries.yaml"))
	require.NoError(t, err)

	require.NotEmpty(t, cfg.Tier1)
	require.NotEmpty(t, cfg.Tier2)
	require.NotEmpty(t, cfg.Negative)
	assert.Equal(t, 1, cfg.Tier1[0].Tier)
	assert.Equal(t, 2, cfg.Tier2[0].Tier)
	assert.Equal(t, 0, cfg.Negative[0].Tier)
}

func TestLoadQueries_Errors(t *testing.T) {
	_, err := LoadQueries(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tier1: [unclosed"), 0o644))
	_, err = LoadQueries(bad)
	assert.Error(t, err)
}

func TestRunQuery_Tiers(t *testing.T) {
	s := fakeSearcher{
		"q": {{FilePath: "/home/u/.bashrc"}, {FilePath: "/home/u/.gitconfig"}},
	}
	v := NewValidator(s, 0)

	tests := []struct {
		name      string
		spec      QuerySpec
		passed    bool
		matchedAt int
	}{
		{"tier1 first", QuerySpec{Query: "q", Tier: 1, Expected: []string{".bashrc"}}, true, 0},
		{"tier1 second", QuerySpec{Query: "q", Tier: 1, Expected: []string{".gitconfig"}}, false, 1},
		{"tier2 second", QuerySpec{Query: "q", Tier: 2, Expected: []string{".gitconfig"}}, true, 1},
		{"tier2 absent", QuerySpec{Query: "q", Tier: 2, Expected: []string{"rc"}}, false, -1},
		{"negative empty", QuerySpec{Query: "none"}, true, -1},
		{"negative hit", QuerySpec{Query: "q"}, false, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := v.RunQuery(tt.spec)
			assert.Equal(t, tt.passed, tr.Passed)
			assert.Equal(t, tt.matchedAt, tr.MatchedAt)
		})
	}
}

// TestCorpus_All indexes testdata/corpus and runs every query in
// testdata/queries.yaml against it.
func TestCorpus_All(t *testing.T) {
	// Given: an index over the corpus
	corpus, err := filepath.Abs(filepath.Join("testdata", "corpus"))
	require.NoError(t, err)

	cfg := config.NewConfig()
	cfg.Paths.Roots = []string{corpus}
	svc, err := ragindex.New(ragindex.Options{Config: cfg, BaseDir: t.TempDir()})
	require.NoError(t, err)
	res := svc.Build(nil, nil)
	require.True(t, res.Success, res.Message)

	queries, err := LoadQueries(filepath.Join("testdata", "queries.yaml"))
	require.NoError(t, err)

	// When: running every query
	result := NewValidator(svc, 0).RunAll(queries)

	// Then: all pass
	for _, f := range result.Failures() {
		t.Errorf("%s (%s): query %q got %v, want one of %v",
			f.Spec.ID, f.Spec.Name, f.Spec.Query, f.TopResults, f.Spec.Expected)
	}
	assert.Equal(t, len(queries.Tier1), result.Tier1Pass)
	assert.Equal(t, len(queries.Tier2), result.Tier2Pass)
	assert.Equal(t, len(queries.Negative), result.NegPass)
}

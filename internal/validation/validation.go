// Package validation runs data-driven relevance checks against a built
// index.
//
// Queries live in a YAML file so ranking expectations can be edited
// without touching Go code:
//
//	tier1:     # expected file must rank first
//	tier2:     # expected file must appear in the top results
//	negative:  # query must return nothing
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/ragindex/internal/search"
)

// DefaultLimit is the number of results inspected for tier 2 queries.
const DefaultLimit = 5

// QuerySpec defines a query with expected results.
type QuerySpec struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Query string `yaml:"query"`
	// Expected are file names or path suffixes; any one matching passes.
	Expected []string `yaml:"expected"`
	Notes    string   `yaml:"notes"`
	Tier     int      `yaml:"-"`
}

// QueryConfig holds all validation queries.
type QueryConfig struct {
	Tier1    []QuerySpec `yaml:"tier1"`
	Tier2    []QuerySpec `yaml:"tier2"`
	Negative []QuerySpec `yaml:"negative"`
}

// LoadQueries reads a query file.
func LoadQueries(path string) (*QueryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read queries file %s: %w", path, err)
	}

	var cfg QueryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse queries YAML: %w", err)
	}

	for i := range cfg.Tier1 {
		cfg.Tier1[i].Tier = 1
	}
	for i := range cfg.Tier2 {
		cfg.Tier2[i].Tier = 2
	}
	return &cfg, nil
}

// Searcher is the query side of the engine.
type Searcher interface {
	Search(query string, maxResults int) []search.Result
}

// TestResult captures the outcome of a single query.
type TestResult struct {
	Spec       QuerySpec     `json:"spec"`
	Passed     bool          `json:"passed"`
	Duration   time.Duration `json:"duration_ms"`
	TopResults []string      `json:"top_results"`
	// MatchedAt is the rank of the first expected file, -1 if absent.
	MatchedAt int `json:"matched_at"`
}

// ValidationResult summarizes a full run.
type ValidationResult struct {
	Timestamp time.Time    `json:"timestamp"`
	Tier1     []TestResult `json:"tier1"`
	Tier2     []TestResult `json:"tier2"`
	Negative  []TestResult `json:"negative"`
	Tier1Pass int          `json:"tier1_pass"`
	Tier2Pass int          `json:"tier2_pass"`
	NegPass   int          `json:"negative_pass"`
}

// Failures returns every failed result.
func (r *ValidationResult) Failures() []TestResult {
	var failed []TestResult
	for _, group := range [][]TestResult{r.Tier1, r.Tier2, r.Negative} {
		for _, tr := range group {
			if !tr.Passed {
				failed = append(failed, tr)
			}
		}
	}
	return failed
}

// Validator runs queries through a Searcher.
type Validator struct {
	searcher Searcher
	limit    int
}

// NewValidator creates a validator inspecting up to limit results
// (DefaultLimit when limit <= 0).
func NewValidator(s Searcher, limit int) *Validator {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Validator{searcher: s, limit: limit}
}

// RunQuery executes a single query.
func (v *Validator) RunQuery(spec QuerySpec) TestResult {
	start := time.Now()
	results := v.searcher.Search(spec.Query, v.limit)

	tr := TestResult{
		Spec:       spec,
		Duration:   time.Since(start),
		TopResults: make([]string, 0, len(results)),
		MatchedAt:  -1,
	}
	for _, r := range results {
		tr.TopResults = append(tr.TopResults, r.FilePath)
	}

	switch spec.Tier {
	case 1:
		tr.MatchedAt = matchExpected(tr.TopResults, spec.Expected)
		tr.Passed = tr.MatchedAt == 0
	case 2:
		tr.MatchedAt = matchExpected(tr.TopResults, spec.Expected)
		tr.Passed = tr.MatchedAt >= 0
	default:
		tr.Passed = len(results) == 0
	}
	return tr
}

// RunAll executes every query in cfg.
func (v *Validator) RunAll(cfg *QueryConfig) *ValidationResult {
	result := &ValidationResult{Timestamp: time.Now()}

	for _, spec := range cfg.Tier1 {
		tr := v.RunQuery(spec)
		result.Tier1 = append(result.Tier1, tr)
		if tr.Passed {
			result.Tier1Pass++
		}
	}
	for _, spec := range cfg.Tier2 {
		tr := v.RunQuery(spec)
		result.Tier2 = append(result.Tier2, tr)
		if tr.Passed {
			result.Tier2Pass++
		}
	}
	for _, spec := range cfg.Negative {
		tr := v.RunQuery(spec)
		result.Negative = append(result.Negative, tr)
		if tr.Passed {
			result.NegPass++
		}
	}
	return result
}

// matchExpected returns the rank of the first path ending in any expected
// name, or -1.
func matchExpected(paths, expected []string) int {
	for i, path := range paths {
		slashed := filepath.ToSlash(path)
		for _, exp := range expected {
			if slashed == exp || strings.HasSuffix(slashed, "/"+exp) {
				return i
			}
		}
	}
	return -1
}

// Package search answers free-text queries against the persisted index
// with lexical term-overlap ranking.
package search

import (
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/Aman-CERP/ragindex/internal/store"
)

// DefaultMaxResults is used when a caller passes a non-positive limit.
const DefaultMaxResults = 10

// Result is a ranked chunk.
type Result struct {
	FilePath       string  `json:"file_path"`
	ChunkIndex     int     `json:"chunk_index"`
	Text           string  `json:"text"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Options configures an Engine.
type Options struct {
	// DefaultMaxResults applies when Search is called with maxResults <= 0.
	DefaultMaxResults int
	Logger            *slog.Logger
}

// Engine searches the index file. It reloads the index on every query and
// keeps no state between calls.
type Engine struct {
	store      *store.Store
	analyzer   *Analyzer
	maxResults int
	logger     *slog.Logger
}

// New creates an Engine reading from st.
func New(st *store.Store, opts Options) *Engine {
	e := &Engine{
		store:      st,
		analyzer:   NewAnalyzer(),
		maxResults: opts.DefaultMaxResults,
		logger:     opts.Logger,
	}
	if e.maxResults <= 0 {
		e.maxResults = DefaultMaxResults
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Search returns up to maxResults chunks ranked by relevance. It never
// fails: a missing or unreadable index, an empty query or no matches all
// yield an empty slice.
func (e *Engine) Search(query string, maxResults int) []Result {
	start := time.Now()
	if maxResults <= 0 {
		maxResults = e.maxResults
	}

	terms := e.analyzer.QueryTerms(query)
	if len(terms) == 0 {
		return []Result{}
	}

	idx, err := e.store.Load()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.logger.Debug("search_index_unavailable", slog.String("error", err.Error()))
		}
		return []Result{}
	}

	results := Rank(e.analyzer, idx.Chunks, terms)
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	e.logger.Debug("search_complete",
		slog.Int("terms", len(terms)),
		slog.Int("chunks", len(idx.Chunks)),
		slog.Int("results", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return results
}

// Rank scores every chunk against terms and returns the matching ones in
// descending score order. Equal scores keep index order.
//
// A chunk matching m distinct terms scores m + s/(1+s), where
// s = Σ ln(1+N/df(t)) · ln(1+tf(t)) over its matching terms. The fraction
// stays below one, so more distinct matches always outrank fewer, and
// within the same m more occurrences or rarer terms rank higher.
func Rank(a *Analyzer, chunks []store.Chunk, terms []string) []Result {
	if len(chunks) == 0 || len(terms) == 0 {
		return []Result{}
	}

	wanted := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		wanted[t] = struct{}{}
	}

	tfs := make([]map[string]int, len(chunks))
	df := make(map[string]int, len(terms))
	for i, c := range chunks {
		var tf map[string]int
		for _, tok := range a.Tokens(c.Text) {
			if _, ok := wanted[tok]; !ok {
				continue
			}
			if tf == nil {
				tf = make(map[string]int, len(terms))
			}
			if tf[tok] == 0 {
				df[tok]++
			}
			tf[tok]++
		}
		tfs[i] = tf
	}
	if len(df) == 0 {
		return []Result{}
	}

	n := float64(len(chunks))
	results := make([]Result, 0)
	for i, tf := range tfs {
		if len(tf) == 0 {
			continue
		}
		// Sum in term order so equal inputs give bit-identical scores.
		var s float64
		for _, term := range terms {
			if count := tf[term]; count > 0 {
				s += math.Log1p(n/float64(df[term])) * math.Log1p(float64(count))
			}
		}
		c := chunks[i]
		results = append(results, Result{
			FilePath:       c.FilePath,
			ChunkIndex:     c.ChunkIndex,
			Text:           c.Text,
			RelevanceScore: float64(len(tf)) + s/(1+s),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	return results
}

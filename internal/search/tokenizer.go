package search

import (
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
)

// minTokenRunes is the shortest query token kept; shorter ones carry no signal.
const minTokenRunes = 2

// Analyzer splits text into lowercase word tokens. Queries and chunk text
// go through the same analyzer so matching is whole-token and
// case-insensitive.
type Analyzer struct {
	tokenizer analysis.Tokenizer
	filter    analysis.TokenFilter
}

// NewAnalyzer creates an Analyzer using the config-aware word tokenizer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		tokenizer: configTokenizer{},
		filter:    lowercase.NewLowerCaseFilter(),
	}
}

// Tokens returns every token of text in order, including repeats.
func (a *Analyzer) Tokens(text string) []string {
	stream := a.filter.Filter(a.tokenizer.Tokenize([]byte(text)))
	tokens := make([]string, 0, len(stream))
	for _, tok := range stream {
		tokens = append(tokens, string(tok.Term))
	}
	return tokens
}

// QueryTerms returns the distinct query tokens of at least two characters,
// in first-seen order.
func (a *Analyzer) QueryTerms(query string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, tok := range a.Tokens(query) {
		if utf8.RuneCountInString(tok) < minTokenRunes {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}

// configTokenizer implements analysis.Tokenizer for config syntax.
// Words are runs of letters and digits, so dotted keys, snake_case and
// paths break apart ("net.ipv4.ip_forward" gives net, ipv4, ip, forward).
// Each word is then split at camelCase boundaries, keeping acronyms
// together ("HTTPHandler" gives HTTP, Handler).
type configTokenizer struct{}

func (configTokenizer) Tokenize(input []byte) analysis.TokenStream {
	stream := make(analysis.TokenStream, 0)
	start := -1
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRune(input[i:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			stream = appendCamelParts(stream, input, start, i)
			start = -1
		}
		i += size
	}
	if start >= 0 {
		stream = appendCamelParts(stream, input, start, len(input))
	}
	return stream
}

// appendCamelParts appends the camelCase parts of input[start:end].
func appendCamelParts(stream analysis.TokenStream, input []byte, start, end int) analysis.TokenStream {
	type runeAt struct {
		r   rune
		off int
	}
	var runes []runeAt
	for i := start; i < end; {
		r, size := utf8.DecodeRune(input[i:end])
		runes = append(runes, runeAt{r: r, off: i})
		i += size
	}

	emit := func(from, to int) {
		stream = append(stream, &analysis.Token{
			Term:     input[from:to],
			Start:    from,
			End:      to,
			Position: len(stream) + 1,
			Type:     analysis.AlphaNumeric,
		})
	}

	partStart := start
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i].r) {
			continue
		}
		prevLower := unicode.IsLower(runes[i-1].r)
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1].r)
		if prevLower || nextLower {
			emit(partStart, runes[i].off)
			partStart = runes[i].off
		}
	}
	emit(partStart, end)
	return stream
}

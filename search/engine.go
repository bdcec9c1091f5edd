package search

import (
	"sort"
	"strings"
)

// Row holds one candidate's columns. Plain string candidates are one-column
// rows; multi-column candidates (buffer lists, symbol tables) keep their
// columns separate so callers can render them individually.
type Row []string

// Candidate is one searchable row together with the index it was given at
// construction time. The index never changes, so callers can use it to map
// results back to their own data.
type Candidate struct {
	Index int
	Row   Row
}

// Text joins the candidate's columns with single spaces. This is the text
// the engine matches against (modulo case folding).
func (c Candidate) Text() string {
	return strings.Join(c.Row, " ")
}

// Options configures an Engine.
type Options struct {
	// CaseInsensitive folds the query and every line before matching.
	CaseInsensitive bool

	// Fuzzy enables the in-order subsequence fallback when a token is not
	// found as a contiguous substring.
	Fuzzy bool
}

// DefaultOptions matches how interactive pickers usually behave.
func DefaultOptions() Options {
	return Options{CaseInsensitive: true, Fuzzy: true}
}

// line is one candidate's derived search text.
type line struct {
	text  string
	index int
}

// Engine matches a stream of query strings against a fixed candidate set.
// It is built once per candidate set; Match is meant to be called on every
// keystroke and caches aggressively so that typing one more character only
// rescans the lines that matched the shorter query. Match and Explain never
// fail: any input string is valid and "no match" is a normal result.
//
// The engine is not safe for concurrent use; the caller runs one search at
// a time, which is how a keystroke loop behaves anyway.
type Engine struct {
	opts       Options
	candidates []Candidate
	lines      []line
	penalty    int // max line length; makes any fuzzy match score worse than any exact one

	results map[string][]Candidate // query -> final ordered result
	pools   map[string][]line      // query -> lines that matched it, in index order
}

// NewEngine indexes rows once. The candidate set is immutable for the
// engine's lifetime; build a new engine when it changes.
func NewEngine(rows []Row, opts Options) *Engine {
	e := &Engine{
		opts:       opts,
		candidates: make([]Candidate, len(rows)),
		lines:      make([]line, len(rows)),
		results:    make(map[string][]Candidate),
		pools:      make(map[string][]line),
	}
	for i, row := range rows {
		e.candidates[i] = Candidate{Index: i, Row: row}
		text := strings.Join(row, " ")
		if opts.CaseInsensitive {
			text = strings.ToLower(text)
		}
		e.lines[i] = line{text: text, index: i}
		if len(text) > e.penalty {
			e.penalty = len(text)
		}
	}
	return e
}

// StringRows wraps plain strings as single-column rows.
func StringRows(items []string) []Row {
	rows := make([]Row, len(items))
	for i, s := range items {
		rows[i] = Row{s}
	}
	return rows
}

// Total returns the candidate count, for "matched/total" status text.
func (e *Engine) Total() int {
	return len(e.candidates)
}

// Match returns the candidates matching every whitespace-separated token of
// query, best first (lower aggregate score wins, ties keep construction
// order). An empty or all-whitespace query returns every candidate in
// construction order, unscored.
func (e *Engine) Match(query string) []Candidate {
	if e.opts.CaseInsensitive {
		query = strings.ToLower(query)
	}
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return e.candidates
	}
	if cached, ok := e.results[query]; ok {
		return cached
	}

	terms := make([]termMatcher, len(tokens))
	for i, tok := range tokens {
		terms[i] = compileTerm(tok, e.opts.Fuzzy)
	}

	type scoredLine struct {
		line
		score int
	}
	pool := e.scanPool(query)
	matched := make([]line, 0, len(pool))
	ranked := make([]scoredLine, 0, len(pool))
scan:
	for _, ln := range pool {
		// Seeding with the line length breaks ties between equal token
		// matches in favor of shorter lines.
		total := len(ln.text)
		for _, t := range terms {
			start, end, fuzzy, ok := t.match(ln.text)
			if !ok {
				continue scan
			}
			if fuzzy {
				total += end - start + e.penalty
			} else {
				total += start
			}
		}
		matched = append(matched, ln)
		ranked = append(ranked, scoredLine{line: ln, score: total})
	}

	// The pool is in index order, so a stable sort keeps construction
	// order among equal scores and repeat searches come back identical.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	out := make([]Candidate, len(ranked))
	for i, s := range ranked {
		out[i] = e.candidates[s.index]
	}
	e.pools[query] = matched
	e.results[query] = out
	return out
}

// scanPool picks the smallest valid set of lines to scan: the lines that
// matched the query minus its final character, when that pool is cached.
// Anything that matches the longer query necessarily matched the shorter
// one, so narrowing a search never rescans the full candidate set.
func (e *Engine) scanPool(query string) []line {
	if runes := []rune(query); len(runes) > 0 {
		if pool, ok := e.pools[string(runes[:len(runes)-1])]; ok {
			return pool
		}
	}
	return e.lines
}

package search

import (
	"reflect"
	"testing"
)

func matchTexts(e *Engine, query string) []string {
	var texts []string
	for _, c := range e.Match(query) {
		texts = append(texts, c.Text())
	}
	return texts
}

func TestMatch(t *testing.T) {
	rows := StringRows([]string{"alpha", "alphabet", "beta"})

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:     "Shared prefix, shorter line first",
			query:    "al",
			expected: []string{"alpha", "alphabet"},
		},
		{
			name:     "Fuzzy fallback excludes lines missing a character",
			query:    "ab",
			expected: []string{"alphabet"},
		},
		{
			name:     "No match",
			query:    "xyz",
			expected: nil,
		},
		{
			name:     "Case folding by default",
			query:    "AL",
			expected: []string{"alpha", "alphabet"},
		},
		{
			name:     "All tokens must match",
			query:    "al et",
			expected: []string{"alphabet"},
		},
		{
			name:     "Token order does not matter",
			query:    "et al",
			expected: []string{"alphabet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(rows, DefaultOptions())
			got := matchTexts(e, tt.query)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Match(%q) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestMatchEmptyQuery(t *testing.T) {
	items := []string{"alpha", "alphabet", "beta"}
	e := NewEngine(StringRows(items), DefaultOptions())

	for _, query := range []string{"", "   "} {
		got := e.Match(query)
		if len(got) != len(items) {
			t.Fatalf("Match(%q) returned %d candidates, want %d", query, len(got), len(items))
		}
		for i, c := range got {
			if c.Index != i || c.Text() != items[i] {
				t.Errorf("Match(%q)[%d] = %v, want index %d text %q", query, i, c, i, items[i])
			}
		}
	}
}

func TestMatchEmptyCandidateSet(t *testing.T) {
	e := NewEngine(nil, DefaultOptions())
	if got := e.Match("anything"); len(got) != 0 {
		t.Errorf("expected no matches on empty candidate set, got %v", got)
	}
	if got := e.Match(""); len(got) != 0 {
		t.Errorf("expected no candidates on empty set, got %v", got)
	}
}

func TestMatchDeterministic(t *testing.T) {
	e := NewEngine(StringRows([]string{"aa", "ab", "ba", "bb", "aab"}), DefaultOptions())
	first := e.Match("a")
	second := e.Match("a")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeat Match diverged: %v vs %v", first, second)
	}
}

func TestMatchMonotonicNarrowing(t *testing.T) {
	items := []string{
		"src/foo/bar.go", "src/baz/bar.go", "src/foo/other.go",
		"README.md", "main.go", "store/db.go",
	}
	e := NewEngine(StringRows(items), DefaultOptions())

	// Each query appends one character to the previous one; the matched
	// set must only ever shrink.
	queries := []string{"s", "sr", "src", "src ", "src b", "src ba", "src bar"}
	prev := e.Match(queries[0])
	for _, q := range queries[1:] {
		got := e.Match(q)
		allowed := make(map[int]bool, len(prev))
		for _, c := range prev {
			allowed[c.Index] = true
		}
		for _, c := range got {
			if !allowed[c.Index] {
				t.Errorf("Match(%q) contains %q, absent from the previous query's matches", q, c.Text())
			}
		}
		prev = got
	}
}

func TestMatchArbitraryEdits(t *testing.T) {
	// Cache reuse only helps appends; correctness must hold for any edit
	// sequence, including backspacing and retyping.
	e := NewEngine(StringRows([]string{"alpha", "alphabet", "beta"}), DefaultOptions())
	e.Match("al")
	e.Match("alp")
	e.Match("b")
	got := matchTexts(e, "al")
	want := []string{"alpha", "alphabet"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match after edits = %v, want %v", got, want)
	}
}

func TestExactOutranksFuzzy(t *testing.T) {
	// "xxab" holds the token as a substring, "a_b" only as a gapped
	// subsequence; the exact match must win even though it starts later.
	e := NewEngine(StringRows([]string{"a_b", "xxab"}), DefaultOptions())
	got := matchTexts(e, "ab")
	want := []string{"xxab", "a_b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match(\"ab\") = %v, want %v", got, want)
	}
}

func TestMetacharactersAreLiteral(t *testing.T) {
	e := NewEngine(StringRows([]string{"a.b", "axb", "a(b)c", "weird*name"}), DefaultOptions())

	tests := []struct {
		query    string
		expected []string
	}{
		{"a.b", []string{"a.b"}},
		{"(b)", []string{"a(b)c"}},
		{"d*n", []string{"weird*name"}},
	}
	for _, tt := range tests {
		got := matchTexts(e, tt.query)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("Match(%q) = %v, want %v", tt.query, got, tt.expected)
		}
	}
}

func TestMatchCaseSensitive(t *testing.T) {
	e := NewEngine(StringRows([]string{"alpha", "Alpha"}), Options{CaseInsensitive: false, Fuzzy: true})
	got := matchTexts(e, "Al")
	want := []string{"Alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("case-sensitive Match(\"Al\") = %v, want %v", got, want)
	}
}

func TestMatchExactOnly(t *testing.T) {
	e := NewEngine(StringRows([]string{"beta"}), Options{CaseInsensitive: true, Fuzzy: false})
	if got := e.Match("bt"); len(got) != 0 {
		t.Errorf("fuzzy disabled but Match(\"bt\") = %v", got)
	}
	if got := matchTexts(e, "et"); !reflect.DeepEqual(got, []string{"beta"}) {
		t.Errorf("exact Match(\"et\") = %v, want [beta]", got)
	}
}

func TestMultiColumnRows(t *testing.T) {
	rows := []Row{
		{"main.go", "buffer 1"},
		{"engine.go", "buffer 2"},
	}
	e := NewEngine(rows, DefaultOptions())

	// Tokens can span columns because lines join columns with a space.
	got := e.Match("go buffer")
	if len(got) != 2 {
		t.Fatalf("Match(\"go buffer\") matched %d rows, want 2", len(got))
	}
	if got := matchTexts(e, "engine"); !reflect.DeepEqual(got, []string{"engine.go buffer 2"}) {
		t.Errorf("Match(\"engine\") = %v", got)
	}
}

func TestExplainExact(t *testing.T) {
	e := NewEngine(StringRows([]string{"alpha", "alphabet", "beta"}), DefaultOptions())
	got := e.Explain("al", "alpha")
	if len(got) != 1 {
		t.Fatalf("expected 1 explanation, got %d", len(got))
	}
	ex := got[0]
	if ex.Fuzzy {
		t.Error("substring match reported as fuzzy")
	}
	if ex.Start != 0 || ex.End != 2 || ex.Score != 0 {
		t.Errorf("unexpected span/score: %+v", ex)
	}
	want := []Range{{Start: 0, Len: 2}}
	if !reflect.DeepEqual(ex.Ranges, want) {
		t.Errorf("Ranges = %v, want %v", ex.Ranges, want)
	}
}

func TestExplainFuzzy(t *testing.T) {
	e := NewEngine(StringRows([]string{"beta"}), DefaultOptions())
	got := e.Explain("bt", "beta")
	if len(got) != 1 {
		t.Fatalf("expected 1 explanation, got %d", len(got))
	}
	ex := got[0]
	if !ex.Fuzzy {
		t.Error("gapped match not reported as fuzzy")
	}
	if ex.Start != 0 || ex.End != 3 {
		t.Errorf("span = [%d,%d), want [0,3)", ex.Start, ex.End)
	}
	// penalty is the longest line length (4), span is 3
	if ex.Score != 7 {
		t.Errorf("Score = %d, want 7", ex.Score)
	}
	// "b" and "t" matched, the "e" between them did not
	want := []Range{{Start: 0, Len: 1}, {Start: 2, Len: 1}}
	if !reflect.DeepEqual(ex.Ranges, want) {
		t.Errorf("Ranges = %v, want %v", ex.Ranges, want)
	}
}

func TestExplainFuzzyMergesAdjacentRuns(t *testing.T) {
	e := NewEngine(StringRows([]string{"abxcd"}), DefaultOptions())
	got := e.Explain("abcd", "abxcd")
	if len(got) != 1 {
		t.Fatalf("expected 1 explanation, got %d", len(got))
	}
	want := []Range{{Start: 0, Len: 2}, {Start: 3, Len: 2}}
	if !reflect.DeepEqual(got[0].Ranges, want) {
		t.Errorf("Ranges = %v, want %v", got[0].Ranges, want)
	}
}

func TestExplainPerToken(t *testing.T) {
	e := NewEngine(StringRows([]string{"src/foo/bar.go"}), DefaultOptions())
	got := e.Explain("foo bar", "src/foo/bar.go")
	if len(got) != 2 {
		t.Fatalf("expected 2 explanations, got %d", len(got))
	}
	if got[0].Start != 4 || got[0].End != 7 {
		t.Errorf("token \"foo\" span = [%d,%d), want [4,7)", got[0].Start, got[0].End)
	}
	if got[1].Start != 8 || got[1].End != 11 {
		t.Errorf("token \"bar\" span = [%d,%d), want [8,11)", got[1].Start, got[1].End)
	}
}

func TestExplainMismatchedText(t *testing.T) {
	// Explain must not panic on text the query does not match; it reports
	// no ranges for the failing token.
	e := NewEngine(StringRows([]string{"alpha"}), DefaultOptions())
	got := e.Explain("zz", "alpha")
	if len(got) != 1 {
		t.Fatalf("expected 1 explanation, got %d", len(got))
	}
	if len(got[0].Ranges) != 0 {
		t.Errorf("expected no ranges, got %v", got[0].Ranges)
	}
}

func TestSuggest(t *testing.T) {
	history := []string{"main handler", "bar", "baz", "readme"}

	got := Suggest("ba", history, 2)
	if len(got) != 2 {
		t.Fatalf("Suggest returned %d entries, want 2", len(got))
	}
	for _, s := range got {
		if s != "bar" && s != "baz" {
			t.Errorf("unexpected suggestion %q", s)
		}
	}

	if got := Suggest("", history, 3); len(got) != 3 {
		t.Errorf("empty input should return first %d history entries, got %v", 3, got)
	}
}

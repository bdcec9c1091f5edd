package search

import (
	"strings"
	"unicode/utf8"
)

// Range is one contiguous run of matched bytes in a rendered row.
type Range struct {
	Start int
	Len   int
}

// Explanation describes how one query token matched a rendered row: the
// token's score, the byte span of the match, and one range per contiguous
// run of matched characters. An exact match always produces a single range
// covering the substring; a fuzzy match produces one range per run, never
// covering the skipped filler characters.
type Explanation struct {
	Score  int
	Start  int
	End    int
	Fuzzy  bool
	Ranges []Range
}

// Explain recomputes each token's match against text, the literal rendered
// row (which may differ in case from the engine's normalized lines), and
// returns one explanation per token in token order. A token that does not
// match text yields an explanation with no ranges.
func (e *Engine) Explain(query, text string) []Explanation {
	if e.opts.CaseInsensitive {
		query = strings.ToLower(query)
		text = strings.ToLower(text)
	}
	tokens := strings.Fields(query)
	out := make([]Explanation, 0, len(tokens))
	for _, tok := range tokens {
		t := compileTerm(tok, e.opts.Fuzzy)
		start, end, fuzzy, ok := t.match(text)
		if !ok {
			out = append(out, Explanation{})
			continue
		}
		ex := Explanation{Start: start, End: end, Fuzzy: fuzzy}
		if fuzzy {
			ex.Score = end - start + e.penalty
			ex.Ranges = fuzzyRanges(text, tok, start, end)
		} else {
			ex.Score = start
			ex.Ranges = []Range{{Start: start, Len: end - start}}
		}
		out = append(out, ex)
	}
	return out
}

// fuzzyRanges walks text from the match start, consuming token characters
// in order. Adjacent consumed characters extend the open range; a skipped
// character closes it, and the next consumed character opens a new one.
func fuzzyRanges(text, token string, start, end int) []Range {
	var ranges []Range
	tok := []rune(token)
	ti := 0
	open := -1 // start of the range being extended, -1 when closed
	pos := start
	for pos < end && ti < len(tok) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if r == tok[ti] {
			if open < 0 {
				open = pos
			}
			ti++
		} else if open >= 0 {
			ranges = append(ranges, Range{Start: open, Len: pos - open})
			open = -1
		}
		pos += size
	}
	if open >= 0 {
		ranges = append(ranges, Range{Start: open, Len: pos - open})
	}
	return ranges
}

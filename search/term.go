package search

import (
	"regexp"
	"strings"
)

// termMatcher matches a single whitespace-delimited query token against a
// line. The exact pass looks for the token as a contiguous substring; the
// fuzzy pass (when enabled) looks for the token's characters in order with
// arbitrary gaps between them.
type termMatcher struct {
	token   string
	pattern *regexp.Regexp // nil when fuzzy matching is disabled
}

// compileTerm builds a matcher for one token. The token must already be
// case-normalized the same way the engine's lines are.
func compileTerm(token string, fuzzy bool) termMatcher {
	t := termMatcher{token: token}
	if fuzzy {
		t.pattern = fuzzyPattern(token)
	}
	return t
}

// fuzzyPattern joins the token's characters with lazy gaps. Each character
// is quoted so regexp metacharacters in user input stay literal; the lazy
// gaps make the match extend no further than needed from its leftmost start.
func fuzzyPattern(token string) *regexp.Regexp {
	parts := make([]string, 0, len(token))
	for _, r := range token {
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	return regexp.MustCompile("(?s)" + strings.Join(parts, ".*?"))
}

// match returns the byte span of the token's match in text and whether the
// fuzzy pass was needed. ok is false when neither pass succeeds.
func (t termMatcher) match(text string) (start, end int, fuzzy, ok bool) {
	if i := strings.Index(text, t.token); i >= 0 {
		return i, i + len(t.token), false, true
	}
	if t.pattern != nil {
		if loc := t.pattern.FindStringIndex(text); loc != nil {
			return loc[0], loc[1], true, true
		}
	}
	return 0, 0, false, false
}

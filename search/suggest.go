package search

import "github.com/sahilm/fuzzy"

// Suggest ranks past queries against the partially typed query and returns
// the best few, for the status-line hint. Suggestion ordering is
// best-effort, so fuzzy.Find's own scoring is fine here; the result-list
// engine keeps its fixed formula and never uses it.
func Suggest(typed string, history []string, limit int) []string {
	if typed == "" {
		if limit > 0 && len(history) > limit {
			return history[:limit]
		}
		return history
	}
	matches := fuzzy.Find(typed, history)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

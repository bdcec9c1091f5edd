package search

// PagerState tracks how much of a match list the pager has revealed.
type PagerState int

const (
	// PagerIdle means a fresh match list was installed and only the first
	// page is shown.
	PagerIdle PagerState = iota
	// PagerPaging means at least one load-more happened and matches remain.
	PagerPaging
	// PagerComplete means the window covers every match.
	PagerComplete
)

// Pager materializes a growing prefix of an ordered match list for display.
// Extending the window is append-only: rows that are already shown are
// never altered or reordered, so widening the window costs only the newly
// revealed rows. That is what keeps large candidate sets responsive.
type Pager struct {
	matches  []Candidate
	total    int
	shown    int
	pageSize int
	state    PagerState
}

// NewPager sizes pages from the viewport capacity supplied by the display
// layer. A page size below 1 is treated as 1.
func NewPager(pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Pager{pageSize: pageSize}
}

// Reset installs a fresh match list (the query changed) and shows the first
// page. total is the size of the underlying candidate set, for status text.
func (p *Pager) Reset(matches []Candidate, total int) {
	p.matches = matches
	p.total = total
	p.shown = p.pageSize
	p.state = PagerIdle
	if p.shown >= len(matches) {
		p.shown = len(matches)
		p.state = PagerComplete
	}
}

// LoadMore reveals one more page, clamped to the match count. It is a no-op
// once the window covers every match.
func (p *Pager) LoadMore() {
	if p.state == PagerComplete {
		return
	}
	p.shown += p.pageSize
	p.state = PagerPaging
	if p.shown >= len(p.matches) {
		p.shown = len(p.matches)
		p.state = PagerComplete
	}
}

// Visible returns the materialized window.
func (p *Pager) Visible() []Candidate {
	return p.matches[:p.shown]
}

// At returns the candidate behind materialized row i, for selection
// handling downstream.
func (p *Pager) At(i int) (Candidate, bool) {
	if i < 0 || i >= p.shown {
		return Candidate{}, false
	}
	return p.matches[i], true
}

// Shown returns how many rows are materialized.
func (p *Pager) Shown() int { return p.shown }

// Matched returns how many candidates matched the current query.
func (p *Pager) Matched() int { return len(p.matches) }

// Total returns the size of the underlying candidate set.
func (p *Pager) Total() int { return p.total }

// State returns the pager's current state.
func (p *Pager) State() PagerState { return p.state }

// PageSize returns the configured page size.
func (p *Pager) PageSize() int { return p.pageSize }

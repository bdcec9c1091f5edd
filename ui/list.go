package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/montrey/sift/search"
)

var (
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	normalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Item is one rendered row: its display text and the byte ranges the
// current query matched, for emphasis.
type Item struct {
	Text       string
	Highlights []search.Range
}

// NewItem builds a row from the engine's per-token explanations, merging
// their ranges into one flat ordered set for rendering.
func NewItem(text string, explanations []search.Explanation) Item {
	var ranges []search.Range
	for _, ex := range explanations {
		ranges = append(ranges, ex.Ranges...)
	}
	return Item{Text: text, Highlights: mergeRanges(ranges)}
}

// mergeRanges sorts ranges by start and merges overlapping or adjacent
// ones. Tokens can match overlapping parts of a line, and rendering needs
// a non-overlapping left-to-right sequence.
func mergeRanges(ranges []search.Range) []search.Range {
	if len(ranges) < 2 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.Start+last.Len {
			if end := r.Start + r.Len; end > last.Start+last.Len {
				last.Len = end - last.Start
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// ListModel renders the materialized result window as a flat list, cursor
// on one row, scrolled so the cursor stays visible. Result order is the
// engine's ranking, so no regrouping happens here.
type ListModel struct {
	Items  []Item
	Cursor int
	Width  int
	Height int

	offset int // first visible row
}

// NewListModel creates an empty list sized to the viewport.
func NewListModel(width, height int) ListModel {
	return ListModel{Width: width, Height: height}
}

// SetItems replaces the list contents (the query changed).
func (m *ListModel) SetItems(items []Item) {
	m.Items = items
	m.Cursor = 0
	m.offset = 0
}

// AppendItems adds newly materialized rows. Existing rows are untouched,
// mirroring the pager's append-only window growth.
func (m *ListModel) AppendItems(items []Item) {
	m.Items = append(m.Items, items...)
}

// AtEnd reports whether the cursor sits on the last row; the caller uses
// this as the signal to ask the pager for another page.
func (m ListModel) AtEnd() bool {
	return len(m.Items) > 0 && m.Cursor == len(m.Items)-1
}

// SelectedIndex returns the cursor position, -1 when the list is empty.
func (m ListModel) SelectedIndex() int {
	if len(m.Items) == 0 {
		return -1
	}
	return m.Cursor
}

func (m ListModel) Init() tea.Cmd {
	return nil
}

func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "ctrl+p":
			m.MoveCursor(-1)
		case "down", "ctrl+n":
			m.MoveCursor(1)
		case "pgup":
			m.MoveCursor(-m.Height)
		case "pgdown":
			m.MoveCursor(m.Height)
		}
	}
	return m, nil
}

// MoveCursor shifts the cursor by delta, clamped to the list, and keeps it
// inside the visible window.
func (m *ListModel) MoveCursor(delta int) {
	if len(m.Items) == 0 {
		m.Cursor = 0
		return
	}
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor >= len(m.Items) {
		m.Cursor = len(m.Items) - 1
	}
	m.scrollIntoView()
}

func (m *ListModel) scrollIntoView() {
	if m.Height < 1 {
		return
	}
	if m.Cursor < m.offset {
		m.offset = m.Cursor
	}
	if m.Cursor >= m.offset+m.Height {
		m.offset = m.Cursor - m.Height + 1
	}
}

func (m ListModel) View() string {
	var b strings.Builder
	end := m.offset + m.Height
	if end > len(m.Items) {
		end = len(m.Items)
	}
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteRune('\n')
		}
		b.WriteString(m.renderRow(m.Items[i], i == m.Cursor))
	}
	return b.String()
}

// Status renders the "matched/total" line shown under the list.
func Status(matched, total int, hint string) string {
	s := statusStyle.Render(fmt.Sprintf("%d/%d", matched, total))
	if hint != "" {
		s += "  " + statusStyle.Render(hint)
	}
	return s
}

// renderRow styles one line: a cursor marker, the row text, and the
// matched ranges emphasized. The text is clipped to the viewport width
// before styling, and ranges are clipped with it.
func (m ListModel) renderRow(it Item, selected bool) string {
	marker := "  "
	base := normalStyle
	if selected {
		marker = "> "
		base = selectedStyle
	}

	text := it.Text
	limit := m.Width - len(marker)
	if limit > 2 && len(text) > limit {
		text = text[:limit-2] + ".."
	}

	var b strings.Builder
	b.WriteString(base.Render(marker))
	pos := 0
	for _, r := range it.Highlights {
		if r.Start >= len(text) {
			break
		}
		end := r.Start + r.Len
		if end > len(text) {
			end = len(text)
		}
		if r.Start > pos {
			b.WriteString(base.Render(text[pos:r.Start]))
		}
		b.WriteString(highlightStyle.Render(text[r.Start:end]))
		pos = end
	}
	if pos < len(text) {
		b.WriteString(base.Render(text[pos:]))
	}
	return b.String()
}

package main

import (
	"bufio"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	_ "github.com/mattn/go-sqlite3"

	"github.com/montrey/sift/search"
	"github.com/montrey/sift/store"
	"github.com/montrey/sift/ui"
)

const chromeHeight = 3 // input line + blank + status line

type model struct {
	db     *sql.DB
	input  textinput.Model
	list   ui.ListModel
	engine *search.Engine
	pager  *search.Pager

	baseRows    []search.Row // candidate set without any scope applied
	matches     []search.Candidate
	history     []string // recent queries, newest first
	suggestion  string
	activeScope string
	opts        search.Options
	pageFlag    int // fixed page size from flag/setting, 0 = derive from viewport
	selected    string
	width       int
	height      int
}

type rowsLoadedMsg struct {
	scope string
	rows  []search.Row
}

type searchDoneMsg struct {
	query   string
	matches []search.Candidate
}

// loadDirRows walks the current directory for the initial candidate set.
func loadDirRows() tea.Cmd {
	return func() tea.Msg {
		wd, _ := os.Getwd()
		paths, err := search.Walk(wd)
		if err != nil && len(paths) == 0 {
			return rowsLoadedMsg{}
		}
		return rowsLoadedMsg{rows: search.StringRows(paths)}
	}
}

// loadScopeRows replaces the candidate set with a stored scope's entries.
func loadScopeRows(db *sql.DB, scope string) tea.Cmd {
	return func() tea.Msg {
		entries, err := store.ScopeEntries(db, scope)
		if err != nil {
			return rowsLoadedMsg{scope: scope}
		}
		return rowsLoadedMsg{scope: scope, rows: search.StringRows(entries)}
	}
}

func performSearch(e *search.Engine, query string) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{query: query, matches: e.Match(query)}
	}
}

// parseQuery splits an optional "@scope " prefix off the typed value.
func parseQuery(value string) (scope, query string) {
	if strings.HasPrefix(value, "@") {
		if i := strings.Index(value, " "); i > 1 {
			return value[1:i], strings.TrimPrefix(value[i+1:], " ")
		}
	}
	return "", value
}

func initialModel(db *sql.DB, opts search.Options, pageFlag int, baseRows []search.Row) model {
	ti := textinput.New()
	ti.Placeholder = "Search... (@scope to switch lists)"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40

	history, _ := store.RecentQueries(db, 100)

	m := model{
		db:       db,
		input:    ti,
		list:     ui.NewListModel(80, 20),
		pager:    search.NewPager(20),
		baseRows: baseRows,
		history:  history,
		opts:     opts,
		pageFlag: pageFlag,
	}
	if baseRows != nil {
		m.engine = search.NewEngine(baseRows, opts)
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.engine != nil {
		// Rows came from stdin; no walk needed.
		return tea.Batch(textinput.Blink, performSearch(m.engine, ""))
	}
	return tea.Batch(textinput.Blink, loadDirRows())
}

// pageSize derives the pager's page from the viewport unless a fixed size
// was configured.
func (m model) pageSize() int {
	if m.pageFlag > 0 {
		return m.pageFlag
	}
	if h := m.height - chromeHeight; h > 0 {
		return h
	}
	return 20
}

// currentQuery is the typed value minus any scope prefix.
func (m model) currentQuery() string {
	_, query := parseQuery(m.input.Value())
	return query
}

// rebuildEngine indexes rows fresh; the engine's candidate set is fixed, so
// changing rows or options means a new engine.
func (m *model) rebuildEngine(rows []search.Row) tea.Cmd {
	m.engine = search.NewEngine(rows, m.opts)
	return performSearch(m.engine, m.currentQuery())
}

// buildItems attaches highlight explanations to a window of candidates.
func (m model) buildItems(query string, window []search.Candidate) []ui.Item {
	items := make([]ui.Item, len(window))
	for i, c := range window {
		text := c.Text()
		items[i] = ui.NewItem(text, m.engine.Explain(query, text))
	}
	return items
}

// refreshWindow resets the pager for a fresh match list and rebuilds the
// visible rows.
func (m *model) refreshWindow(query string) {
	m.pager = search.NewPager(m.pageSize())
	m.pager.Reset(m.matches, m.engine.Total())
	m.list.SetItems(m.buildItems(query, m.pager.Visible()))
}

// extendWindow loads one more page and appends only the newly revealed rows.
func (m *model) extendWindow() {
	already := m.pager.Shown()
	m.pager.LoadMore()
	window := m.pager.Visible()
	if len(window) > already {
		m.list.AppendItems(m.buildItems(m.currentQuery(), window[already:]))
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case rowsLoadedMsg:
		m.activeScope = msg.scope
		if msg.scope == "" {
			m.baseRows = msg.rows
		}
		cmds = append(cmds, m.rebuildEngine(msg.rows))

	case searchDoneMsg:
		// A newer keystroke may already be in flight; only the result for
		// what is currently typed may reach the screen.
		if msg.query != m.currentQuery() {
			break
		}
		m.matches = msg.matches
		m.refreshWindow(msg.query)
		m.suggestion = ""
		if msg.query != "" {
			if s := search.Suggest(msg.query, m.history, 1); len(s) > 0 && s[0] != msg.query {
				m.suggestion = s[0]
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			idx := m.list.SelectedIndex()
			if idx < 0 {
				return m, nil
			}
			c, ok := m.pager.At(idx)
			if !ok {
				return m, nil
			}
			_ = store.RecordUse(m.db, m.input.Value(), c.Text())
			m.selected = c.Row[0]
			return m, tea.Quit

		case "tab":
			if m.suggestion != "" {
				m.input.SetValue(m.suggestion)
				m.input.CursorEnd()
				if m.engine != nil {
					cmds = append(cmds, performSearch(m.engine, m.currentQuery()))
				}
			}

		case "ctrl+e":
			// Toggle the fuzzy fallback; persisted like the rest of the
			// engine options.
			m.opts.Fuzzy = !m.opts.Fuzzy
			_ = store.SetSetting(m.db, "exact", fmt.Sprintf("%t", !m.opts.Fuzzy))
			cmds = append(cmds, m.rebuildEngine(m.currentRows()))

		case "ctrl+s":
			m.opts.CaseInsensitive = !m.opts.CaseInsensitive
			_ = store.SetSetting(m.db, "case_sensitive", fmt.Sprintf("%t", !m.opts.CaseInsensitive))
			cmds = append(cmds, m.rebuildEngine(m.currentRows()))

		case "up", "down", "pgup", "pgdown", "ctrl+p", "ctrl+n":
			m.list, cmd = m.list.Update(msg)
			cmds = append(cmds, cmd)
			// Hitting the bottom of the window asks for another page.
			if m.list.AtEnd() && m.pager.State() != search.PagerComplete {
				m.extendWindow()
			}

		default:
			oldValue := m.input.Value()
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)

			newValue := m.input.Value()
			if newValue == oldValue {
				break
			}
			scope, query := parseQuery(newValue)
			if scope != m.activeScope {
				if scope == "" {
					m.activeScope = ""
					cmds = append(cmds, m.rebuildEngine(m.baseRows))
				} else {
					cmds = append(cmds, loadScopeRows(m.db, scope))
				}
				break
			}
			if m.engine != nil {
				cmds = append(cmds, performSearch(m.engine, query))
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.list.Width = msg.Width
		m.list.Height = msg.Height - chromeHeight
		if m.engine != nil {
			// Page size follows the viewport, so re-window the current
			// matches.
			m.refreshWindow(m.currentQuery())
		}
	}

	return m, tea.Batch(cmds...)
}

// currentRows returns whatever candidate set the engine was last built
// from, so option toggles can rebuild in place.
func (m model) currentRows() []search.Row {
	if m.activeScope != "" {
		entries, err := store.ScopeEntries(m.db, m.activeScope)
		if err == nil {
			return search.StringRows(entries)
		}
	}
	return m.baseRows
}

func (m model) View() string {
	header := m.input.View()
	if m.activeScope != "" {
		scopeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
		header = fmt.Sprintf("%s %s", scopeStyle.Render("[@"+m.activeScope+"]"), m.input.View())
	}

	hint := ""
	if m.suggestion != "" {
		hint = "tab: " + m.suggestion
	}
	if !m.opts.Fuzzy {
		hint += "  [exact]"
	}
	if !m.opts.CaseInsensitive {
		hint += "  [case]"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.list.View(),
		ui.Status(m.pager.Matched(), m.pager.Total(), strings.TrimSpace(hint)),
	)
}

// readStdinRows reads one candidate per line from a pipe; tab-separated
// fields become columns.
func readStdinRows() ([]search.Row, error) {
	var rows []search.Row
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rows = append(rows, search.Row(strings.Split(line, "\t")))
	}
	return rows, scanner.Err()
}

func stdinIsPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

// oneShot runs a single match and prints the best row, for scripting.
func oneShot(db *sql.DB, opts search.Options, rows []search.Row, query string) int {
	engine := search.NewEngine(rows, opts)
	matches := engine.Match(query)
	if len(matches) == 0 {
		return 1
	}
	_ = store.RecordUse(db, query, matches[0].Text())
	fmt.Println(matches[0].Row[0])
	return 0
}

func main() {
	exact := flag.Bool("exact", false, "disable the fuzzy fallback")
	caseSensitive := flag.Bool("case-sensitive", false, "match case exactly")
	page := flag.Int("page", 0, "fixed result page size (default: derived from the window)")
	scopeName := flag.String("scope", "", "search a stored scope instead of the current directory")
	addScope := flag.String("add-scope", "", "store the candidate list under a scope name and exit")
	flag.Parse()

	dbPath, err := store.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to locate data dir: %v\n", err)
		os.Exit(1)
	}
	db, err := store.InitDB(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Flags override persisted settings.
	opts := search.Options{
		CaseInsensitive: !store.GetBoolSetting(db, "case_sensitive", false),
		Fuzzy:           !store.GetBoolSetting(db, "exact", false),
	}
	if *exact {
		opts.Fuzzy = false
	}
	if *caseSensitive {
		opts.CaseInsensitive = false
	}
	pageFlag := *page
	if pageFlag > 0 {
		_ = store.SetSetting(db, "page_size", strconv.Itoa(pageFlag))
	} else {
		pageFlag = store.GetIntSetting(db, "page_size", 0)
	}

	// Candidate rows: a pipe on stdin wins, then -scope, then the cwd walk
	// (deferred to the program's Init so startup stays instant).
	var baseRows []search.Row
	piped := stdinIsPiped()
	if piped {
		baseRows, err = readStdinRows()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read stdin: %v\n", err)
			os.Exit(1)
		}
	} else if *scopeName != "" {
		entries, err := store.ScopeEntries(db, *scopeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load scope: %v\n", err)
			os.Exit(1)
		}
		baseRows = search.StringRows(entries)
	}

	if *addScope != "" {
		rows := baseRows
		if rows == nil {
			wd, _ := os.Getwd()
			paths, err := search.Walk(wd)
			if err != nil && len(paths) == 0 {
				fmt.Fprintf(os.Stderr, "failed to walk: %v\n", err)
				os.Exit(1)
			}
			rows = search.StringRows(paths)
		}
		for _, row := range rows {
			if err := store.AddScopeEntry(db, *addScope, strings.Join(row, "\t")); err != nil {
				fmt.Fprintf(os.Stderr, "failed to store scope: %v\n", err)
				os.Exit(1)
			}
		}
		fmt.Printf("Stored %d entries under @%s\n", len(rows), *addScope)
		return
	}

	// Non-interactive: args form a query, print the best match and exit.
	if args := flag.Args(); len(args) > 0 {
		rows := baseRows
		if rows == nil {
			wd, _ := os.Getwd()
			paths, _ := search.Walk(wd)
			rows = search.StringRows(paths)
		}
		os.Exit(oneShot(db, opts, rows, strings.Join(args, " ")))
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if piped {
		// Keystrokes have to come from the terminal when stdin is the
		// candidate pipe.
		tty, err := os.Open("/dev/tty")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open /dev/tty: %v\n", err)
			os.Exit(1)
		}
		defer tty.Close()
		progOpts = append(progOpts, tea.WithInput(tty))
	}

	p := tea.NewProgram(initialModel(db, opts, pageFlag, baseRows), progOpts...)
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if m, ok := finalModel.(model); ok && m.selected != "" {
		fmt.Println(m.selected)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ideamans/go-sheetfix"
	"github.com/ideamans/go-sheetfix/query"
	"github.com/ideamans/go-sheetfix/query/sqlite"
	"github.com/mattn/go-runewidth"
)

const (
	maxCellWidth = 30
	minCellWidth = 3
	// lines used by borders, the status line and the prompt or help line
	chromeLines = 7
)

type mode int

const (
	modeGrid mode = iota
	modeEdit
	modeSearch
	modeReplace
	modeRename
	modeQuery
	modeTemplates
	modeDiff
	modeResult
)

type loadedMsg sheetfix.LoadResult

type exportedMsg struct {
	target string
	err    error
}

type queryMsg struct {
	result *query.Result
	err    error
}

type model struct {
	ctx     context.Context
	session *sheetfix.Session
	src     *source

	state   sheetfix.State
	edit    sheetfix.EditController
	types   map[string]sheetfix.ColumnType
	changes int

	mode       mode
	input      textinput.Model
	replaceAll bool
	result     *query.Result
	resultTop  int
	templates  []string
	picked     int

	cursorRow int
	cursorCol int
	scroll    int
	colOffset int
	width     int
	height    int

	loading bool
	status  string
	err     error

	keys   keyMap
	help   help.Model
	styles styles
}

func newModel(ctx context.Context, session *sheetfix.Session, src *source, keys keyMap, st styles) model {
	input := textinput.New()
	input.CharLimit = 0

	templates := []string{AutoTemplate}
	for _, t := range sheetfix.Templates() {
		templates = append(templates, t.Name)
	}

	return model{
		ctx:       ctx,
		session:   session,
		src:       src,
		edit:      sheetfix.NewEditController(true),
		input:     input,
		templates: templates,
		width:     80,
		height:    24,
		loading:   true,
		keys:      keys,
		help:      help.New(),
		styles:    st,
	}
}

// runTUI opens the interactive grid on src
func runTUI(ctx context.Context, src *source) error {
	if os.Getenv("SHEETFIX_DEBUG") != "" {
		f, err := tea.LogToFile("sheetfix-debug.log", "sheetfix")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	config, err := loadUIConfig(uiConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		config = &UIConfig{}
	}
	keys := newKeyMap(applyHotkeys(config, defaultHotkeys()))
	colors := applyColors(config, defaultColors())

	session := sheetfix.NewSession(src.Loader, src.Config)
	defer session.Close()

	m := newModel(ctx, session, src, keys, newStyles(lipgloss.NewRenderer(os.Stdout), colors))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func waitForLoad(ch <-chan sheetfix.LoadResult) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg(<-ch)
	}
}

func (m model) Init() tea.Cmd {
	log.Printf("Load: %s", m.src.Name)
	return waitForLoad(m.session.LoadAsync(m.ctx))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.follow()
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.Err != nil {
			log.Printf("Load: %v", msg.Err)
			m.err = msg.Err
			return m, nil
		}
		m.setState(msg.State)
		view := msg.State.View()
		m.status = fmt.Sprintf("loaded %d rows, %d columns", view.Len(), view.Width())
		if n := len(msg.State.Diagnostics()); n > 0 {
			m.status += fmt.Sprintf(", %d parse warnings", n)
			for _, d := range msg.State.Diagnostics() {
				log.Printf("Load: row %d %s: %s", d.RowIndex, d.Kind, d.Message)
			}
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			log.Printf("Export: %v", msg.err)
			m.err = msg.err
			return m, nil
		}
		log.Printf("Export: %s", msg.target)
		m.status = "wrote " + msg.target
		return m, nil

	case queryMsg:
		if m.mode != modeQuery {
			return m, nil
		}
		if msg.err != nil {
			// the prompt stays open with the error under it
			m.err = msg.err
			return m, nil
		}
		m.input.Blur()
		m.mode = modeResult
		m.result = msg.result
		m.resultTop = 0
		m.status = fmt.Sprintf("%d rows", msg.result.Len())
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if !m.state.Loaded() {
		if m.loading {
			return nil
		}
		if key.Matches(msg, m.keys.Quit) || key.Matches(msg, m.keys.Cancel) {
			return tea.Quit
		}
		return nil
	}

	switch m.mode {
	case modeEdit:
		return m.updateEdit(msg)
	case modeSearch, modeReplace, modeRename, modeQuery:
		return m.updatePrompt(msg)
	case modeTemplates:
		m.updateTemplates(msg)
		return nil
	case modeDiff:
		if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Diff) || key.Matches(msg, m.keys.Quit) {
			m.mode = modeGrid
		}
		return nil
	case modeResult:
		m.updateResult(msg)
		return nil
	}
	return m.updateGrid(msg)
}

func (m *model) updateGrid(msg tea.KeyMsg) tea.Cmd {
	view := m.state.View()
	column := ""
	if m.cursorCol < view.Width() {
		column = view.Header(m.cursorCol)
	}
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursorRow--
	case key.Matches(msg, m.keys.Down):
		m.cursorRow++
	case key.Matches(msg, m.keys.Left):
		m.cursorCol--
	case key.Matches(msg, m.keys.Right):
		m.cursorCol++
	case key.Matches(msg, m.keys.PageUp):
		m.cursorRow -= m.bodyHeight()
	case key.Matches(msg, m.keys.PageDown):
		m.cursorRow += m.bodyHeight()
	case key.Matches(msg, m.keys.Top):
		m.cursorRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursorRow = view.Len() - 1

	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()

	case key.Matches(msg, m.keys.Search):
		return m.openPrompt(modeSearch, "search: ", m.state.Search().Query)
	case key.Matches(msg, m.keys.NextMatch):
		m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.NextMatch(), nil })
		m.jumpToMatch()
	case key.Matches(msg, m.keys.PrevMatch):
		m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.PrevMatch(), nil })
		m.jumpToMatch()
	case key.Matches(msg, m.keys.Replace), key.Matches(msg, m.keys.ReplaceAll):
		if m.state.Search().Len() == 0 {
			m.err = sheetfix.ErrNoMatches
			return nil
		}
		m.replaceAll = key.Matches(msg, m.keys.ReplaceAll)
		label := "replace with: "
		if m.replaceAll {
			label = fmt.Sprintf("replace all %q with: ", m.state.Search().Query)
		}
		return m.openPrompt(modeReplace, label, "")

	case key.Matches(msg, m.keys.Undo):
		m.update(sheetfix.State.Undo)
	case key.Matches(msg, m.keys.Redo):
		m.update(sheetfix.State.Redo)

	case key.Matches(msg, m.keys.Sort):
		if m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.CycleSort(column) }) {
			m.status = fmt.Sprintf("sort %s %s", column, m.state.Sort().Direction)
		}

	case key.Matches(msg, m.keys.InsertRow):
		if m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.InsertRow(m.cursorRow, sheetfix.Below) }) && view.Len() > 0 {
			m.cursorRow++
		}
	case key.Matches(msg, m.keys.InsertRowAbove):
		m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.InsertRow(m.cursorRow, sheetfix.Above) })
	case key.Matches(msg, m.keys.DeleteRow):
		m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.DeleteRow(m.cursorRow) })
	case key.Matches(msg, m.keys.InsertColumn):
		if m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.InsertColumn(column, sheetfix.Right) }) {
			m.cursorCol++
		}
	case key.Matches(msg, m.keys.DeleteColumn):
		m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.DeleteColumn(column) })
	case key.Matches(msg, m.keys.RenameColumn):
		return m.openPrompt(modeRename, fmt.Sprintf("rename %s to: ", column), column)

	case key.Matches(msg, m.keys.Repair):
		m.mode = modeTemplates
	case key.Matches(msg, m.keys.AutoRepair):
		m.repair(AutoTemplate)
	case key.Matches(msg, m.keys.Diff):
		m.mode = modeDiff
	case key.Matches(msg, m.keys.Query):
		return m.openPrompt(modeQuery, "query: ", "")

	case key.Matches(msg, m.keys.Export):
		return m.export()
	case key.Matches(msg, m.keys.Copy):
		if column == "" || view.Len() == 0 {
			return nil
		}
		if err := clipboard.WriteAll(view.Cell(m.cursorRow, column)); err != nil {
			m.err = fmt.Errorf("copy: %w", err)
		} else {
			m.status = "copied " + column
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.follow()
	return nil
}

// update runs op through the session and adopts the result. Failures are
// shown on the status line and leave the state untouched.
func (m *model) update(op func(sheetfix.State) (sheetfix.State, error)) bool {
	st, err := m.session.Update(op)
	if err != nil {
		m.err = err
		return false
	}
	m.setState(st)
	return true
}

func (m *model) setState(st sheetfix.State) {
	m.state = st
	m.types = make(map[string]sheetfix.ColumnType)
	for h, d := range st.DetectAll() {
		m.types[h] = d.Type
	}
	m.changes = len(st.Diff())
	m.follow()
}

func (m *model) startEdit() tea.Cmd {
	c, _, err := m.edit.Apply(m.state, sheetfix.EditAction{
		Event:  sheetfix.EvActivate,
		Row:    m.cursorRow,
		Column: m.cursorCol,
	})
	if err != nil {
		m.err = err
		return nil
	}
	m.edit = c
	m.mode = modeEdit
	m.input.Prompt = ""
	m.input.SetValue(c.Draft)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	var ev sheetfix.EditEvent
	switch {
	case key.Matches(msg, m.keys.Cancel):
		ev = sheetfix.EvCancel
	case key.Matches(msg, m.keys.Confirm):
		ev = sheetfix.EvCommitDown
	case key.Matches(msg, m.keys.NextField):
		ev = sheetfix.EvCommitNext
	case key.Matches(msg, m.keys.PrevField):
		ev = sheetfix.EvCommitPrev
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.edit, _, _ = m.edit.Apply(m.state, sheetfix.EditAction{Event: sheetfix.EvInput, Text: m.input.Value()})
		return cmd
	}

	var ctrl sheetfix.EditController
	if !m.update(func(st sheetfix.State) (sheetfix.State, error) {
		c, next, err := m.edit.Apply(st, sheetfix.EditAction{Event: ev})
		ctrl = c
		return next, err
	}) {
		return nil
	}
	m.edit = ctrl
	m.err = nil

	if m.edit.Active() {
		m.cursorRow, m.cursorCol = m.edit.Row, m.edit.Column
		m.input.SetValue(m.edit.Draft)
		m.input.CursorEnd()
		m.follow()
		return nil
	}
	m.input.Blur()
	m.mode = modeGrid
	m.follow()
	return nil
}

func (m *model) openPrompt(md mode, prompt, value string) tea.Cmd {
	m.mode = md
	m.err = nil
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *model) closePrompt() {
	m.mode = modeGrid
	m.input.Blur()
	m.input.SetValue("")
}

func (m *model) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		m.err = nil
		return nil
	case key.Matches(msg, m.keys.Confirm):
		return m.submitPrompt(m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *model) submitPrompt(value string) tea.Cmd {
	view := m.state.View()
	switch m.mode {
	case modeSearch:
		m.closePrompt()
		m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.SetQuery(value, ""), nil })
		m.status = fmt.Sprintf("%d matches for %q", m.state.Search().Len(), value)
		m.jumpToMatch()

	case modeReplace:
		m.closePrompt()
		if m.replaceAll {
			var n int
			if m.update(func(st sheetfix.State) (sheetfix.State, error) {
				next, count, err := st.ReplaceAll(value)
				n = count
				return next, err
			}) {
				m.status = fmt.Sprintf("replaced %d occurrences", n)
			}
		} else if m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.ReplaceOne(value) }) {
			m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.NextMatch(), nil })
			m.jumpToMatch()
		}

	case modeRename:
		m.closePrompt()
		if m.cursorCol < view.Width() {
			from := view.Header(m.cursorCol)
			m.update(func(st sheetfix.State) (sheetfix.State, error) { return st.RenameColumn(from, value) })
		}

	case modeQuery:
		m.err = nil
		return m.runQuery(value)
	}
	return nil
}

var sqlFrom = regexp.MustCompile(`(?i)\bfrom\b`)

// engineFor picks SQLite for queries with a FROM clause and the filter
// language otherwise
func engineFor(q string) query.Engine {
	if sqlFrom.MatchString(q) {
		return sqlite.New()
	}
	return query.FilterEngine{}
}

func (m *model) runQuery(q string) tea.Cmd {
	ctx, st := m.ctx, m.state
	engine := engineFor(q)
	return func() tea.Msg {
		result, err := query.RunState(ctx, engine, st, q)
		return queryMsg{result: result, err: err}
	}
}

func (m *model) updateTemplates(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.mode = modeGrid
	case key.Matches(msg, m.keys.Up):
		m.picked = (m.picked - 1 + len(m.templates)) % len(m.templates)
	case key.Matches(msg, m.keys.Down):
		m.picked = (m.picked + 1) % len(m.templates)
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeGrid
		m.repair(m.templates[m.picked])
	}
}

func (m *model) repair(name string) {
	var report sheetfix.RepairReport
	ok := m.update(func(st sheetfix.State) (sheetfix.State, error) {
		next, r, err := applyRepair(st, name)
		report = r
		return next, err
	})
	switch {
	case ok:
		m.status = fmt.Sprintf("%s: %d changes", name, report.Count())
	case errors.Is(m.err, sheetfix.ErrNoChanges):
		m.err = nil
		m.status = name + ": nothing to repair"
	}
}

func (m *model) updateResult(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.mode = modeGrid
		m.result = nil
	case key.Matches(msg, m.keys.Up):
		m.resultTop = max(m.resultTop-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.resultTop = min(m.resultTop+1, max(m.result.Len()-1, 0))
	case key.Matches(msg, m.keys.PageDown):
		m.resultTop = min(m.resultTop+m.bodyHeight(), max(m.result.Len()-1, 0))
	case key.Matches(msg, m.keys.PageUp):
		m.resultTop = max(m.resultTop-m.bodyHeight(), 0)
	}
}

func (m *model) export() tea.Cmd {
	ctx, session := m.ctx, m.session
	exporter, target := m.src.Exporter, m.src.ExportName
	m.status = "writing " + target
	return func() tea.Msg {
		return exportedMsg{target: target, err: session.Export(ctx, exporter)}
	}
}

func (m *model) jumpToMatch() {
	if match, ok := m.state.Search().Current(); ok {
		m.cursorRow = match.Row
		m.cursorCol = m.state.View().ColumnIndex(match.Column)
		m.follow()
	}
}

func (m model) bodyHeight() int {
	return max(m.height-chromeLines, 1)
}

// follow clamps the cursor and scrolls it into view
func (m *model) follow() {
	if !m.state.Loaded() {
		return
	}
	view := m.state.View()
	m.cursorRow = min(max(m.cursorRow, 0), max(view.Len()-1, 0))
	m.cursorCol = min(max(m.cursorCol, 0), max(view.Width()-1, 0))

	cfg := m.session.Config()
	m.scroll = sheetfix.ScrollToRow(m.cursorRow, cfg.RowHeight, m.bodyHeight()*cfg.RowHeight, m.scroll)
	m.scroll = m.window().ScrollOffset

	if m.cursorCol < m.colOffset {
		m.colOffset = m.cursorCol
	}
	for m.colOffset < m.cursorCol {
		cols, _ := m.visibleColumns(view, m.window())
		if len(cols) > 0 && cols[len(cols)-1] >= m.cursorCol {
			break
		}
		m.colOffset++
	}
}

// window covers the grid rows. Every row takes one terminal line, so the
// viewport spans bodyHeight rows in the configured row height units. Rows in
// the overscan are measured for column widths but only [First, Last) is
// drawn.
func (m model) window() sheetfix.Window {
	cfg := m.session.Config()
	return sheetfix.ComputeWindow(sheetfix.WindowParams{
		TotalRows:      m.state.View().Len(),
		RowHeight:      cfg.RowHeight,
		ViewportHeight: m.bodyHeight() * cfg.RowHeight,
		ScrollOffset:   m.scroll,
		Overscan:       cfg.Overscan,
	})
}

// visibleColumns returns the column indexes that fit the terminal width
// starting at colOffset, with their display widths
func (m model) visibleColumns(view *sheetfix.Snapshot, win sheetfix.Window) ([]int, []int) {
	var cols, widths []int
	used := 1 // left border
	for c := m.colOffset; c < view.Width(); c++ {
		h := view.Header(c)
		w := runewidth.StringWidth(h + m.sortMark(h))
		for i := win.Start; i < win.End; i++ {
			w = max(w, runewidth.StringWidth(flatten(view.Cell(i, h))))
		}
		w = min(max(w, minCellWidth), maxCellWidth)

		// padding on both sides plus the right border
		if len(cols) > 0 && used+w+3 > m.width {
			break
		}
		used += w + 3
		cols = append(cols, c)
		widths = append(widths, w)
	}
	return cols, widths
}

func (m model) sortMark(column string) string {
	s := m.state.Sort()
	if s.Column != column {
		return ""
	}
	switch s.Direction {
	case sheetfix.SortAscending:
		return " ▲"
	case sheetfix.SortDescending:
		return " ▼"
	}
	return ""
}

var flattener = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func flatten(s string) string {
	return flattener.Replace(s)
}

// fit flattens s onto one line and truncates it to w cells
func fit(s string, w int) string {
	return runewidth.Truncate(flatten(s), w, "…")
}

func (m model) View() string {
	if m.loading {
		return fmt.Sprintf("Loading %s...", m.src.Name)
	}
	if !m.state.Loaded() {
		return fmt.Sprintf("%s\n\npress q to quit", m.styles.err.Render("Error: "+errorText(m.err)))
	}

	var body string
	switch m.mode {
	case modeDiff:
		body = m.renderDiff()
	case modeResult:
		body = m.renderResult()
	case modeTemplates:
		body = m.renderTemplates()
	default:
		body = m.renderGrid()
	}

	lines := []string{body, m.statusLine()}
	switch {
	case m.input.Focused():
		lines = append(lines, m.input.View())
		if m.err != nil {
			lines = append(lines, m.styles.err.Render(errorText(m.err)))
		}
	case m.err != nil:
		lines = append(lines, m.styles.err.Render(errorText(m.err)))
	case m.status != "":
		lines = append(lines, m.styles.message.Render(m.status))
	}
	if m.mode == modeGrid {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func (m model) renderGrid() string {
	view := m.state.View()
	if view.Width() == 0 {
		return "No columns"
	}
	win := m.window()
	cols, widths := m.visibleColumns(view, win)

	headers := make([]string, len(cols))
	for j, c := range cols {
		h := view.Header(c)
		headers[j] = fit(h+m.sortMark(h), widths[j])
	}

	rows := make([][]string, 0, win.Last-win.First)
	for i := win.First; i < win.Last; i++ {
		row := make([]string, len(cols))
		for j, c := range cols {
			v := view.Cell(i, view.Header(c))
			if m.mode == modeEdit && i == m.edit.Row && c == m.edit.Column {
				v = m.input.Value()
			}
			row[j] = fit(v, widths[j])
		}
		rows = append(rows, row)
	}

	search := m.state.Search()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(m.styles.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			c := cols[col]
			if row == table.HeaderRow {
				if c == m.cursorCol {
					return m.styles.header.Underline(true)
				}
				return m.styles.header
			}

			r := win.First + row
			h := view.Header(c)
			switch {
			case r == m.cursorRow && c == m.cursorCol && m.mode == modeEdit:
				return m.styles.editing
			case r == m.cursorRow && c == m.cursorCol:
				return m.styles.selected
			case search.IsMatch(r, h):
				return m.styles.match
			}
			return m.styles.forType(m.types[h])
		})
	return t.String()
}

func (m model) statusLine() string {
	view := m.state.View()
	column, typ := "", sheetfix.ColumnType("")
	if m.cursorCol < view.Width() {
		column = view.Header(m.cursorCol)
		typ = m.types[column]
	}

	parts := []string{
		m.src.Name,
		fmt.Sprintf("R%d/%d C%d/%d", m.cursorRow+1, view.Len(), m.cursorCol+1, view.Width()),
		fmt.Sprintf("%s (%s)", column, typ),
	}
	if s := m.state.Sort(); s.Active() {
		parts = append(parts, fmt.Sprintf("sort %s %s", s.Column, s.Direction))
	}
	if s := m.state.Search(); s.Query != "" {
		parts = append(parts, fmt.Sprintf("match %d/%d", min(s.Index+1, s.Len()), s.Len()))
	}
	h := m.state.History()
	parts = append(parts, fmt.Sprintf("history %d/%d %s", h.Cursor()+1, h.Len(), h.Current().Label))
	if m.changes > 0 {
		parts = append(parts, m.styles.cursor.Render(fmt.Sprintf("%d changes", m.changes)))
	}
	return m.styles.status.Render(strings.Join(parts, " | "))
}

func (m model) renderDiff() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Changes since load (%s to close)\n\n", m.keys.Cancel.Help().Key)
	writeChanges(&b, m.state.Diff(), m.bodyHeight())
	return strings.TrimRight(b.String(), "\n")
}

func (m model) renderResult() string {
	if m.result == nil {
		return ""
	}
	end := min(m.resultTop+m.bodyHeight(), m.result.Len())
	page := &query.Result{Columns: m.result.Columns, Rows: m.result.Rows[m.resultTop:end]}
	return renderResult(page)
}

func (m model) renderTemplates() string {
	var b strings.Builder
	b.WriteString("Repair templates (enter to apply, esc to cancel)\n\n")
	for i, name := range m.templates {
		desc := "Trim and normalize every typed column"
		if t, ok := sheetfix.LookupTemplate(name); ok {
			desc = t.Description
		}
		line := fmt.Sprintf("  %-22s %s", name, desc)
		if i == m.picked {
			line = m.styles.cursor.Render("> " + line[2:])
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

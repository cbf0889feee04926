package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ideamans/go-sheetfix"
)

func newTestModel(t *testing.T, content string) model {
	t.Helper()
	path := writeFile(t, "data.csv", content)
	return openTestModel(t, path)
}

func openTestModel(t *testing.T, path string) model {
	t.Helper()
	ctx := context.Background()
	src, err := openSource(ctx, path, openOptions{})
	if err != nil {
		t.Fatalf("openSource() error = %v", err)
	}
	session := sheetfix.NewSession(src.Loader, src.Config)
	t.Cleanup(func() { session.Close() })

	m := newModel(ctx, session, src, newKeyMap(defaultHotkeys()), newStyles(lipgloss.NewRenderer(io.Discard), defaultColors()))
	next, _ := m.Update(m.Init()())
	return next.(model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys in order and returns the command of the last one
func press(m model, keys ...string) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(model)
	}
	return m, cmd
}

// deliver runs cmd and feeds its message back into the model
func deliver(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(model)
}

func names(m model) []string {
	return m.state.View().Column("name")
}

const teamCSV = "name,age\nBob,40\nAlice,30\nCarol,35\n"

func TestModel_Load(t *testing.T) {
	m := newTestModel(t, teamCSV)

	if m.loading || !m.state.Loaded() {
		t.Fatal("model not loaded")
	}
	if !strings.Contains(m.status, "loaded 3 rows, 2 columns") {
		t.Errorf("status = %q", m.status)
	}
	if m.types["age"] != sheetfix.TypeNumber {
		t.Errorf("age detected as %s", m.types["age"])
	}
	if view := m.View(); !strings.Contains(view, "name") || !strings.Contains(view, "Carol") {
		t.Errorf("View() lacks data:\n%s", view)
	}
}

func TestModel_LoadError(t *testing.T) {
	m := openTestModel(t, filepath.Join(t.TempDir(), "missing.csv"))

	if m.state.Loaded() || m.err == nil {
		t.Fatalf("loaded = %v, err = %v", m.state.Loaded(), m.err)
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Errorf("View() = %q", m.View())
	}

	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t, teamCSV)

	m, _ = press(m, "j", "j", "j", "j")
	if m.cursorRow != 2 {
		t.Errorf("cursorRow = %d, want 2", m.cursorRow)
	}
	m, _ = press(m, "l", "l", "l")
	if m.cursorCol != 1 {
		t.Errorf("cursorCol = %d, want 1", m.cursorCol)
	}
	m, _ = press(m, "g", "h")
	if m.cursorRow != 0 || m.cursorCol != 0 {
		t.Errorf("cursor = (%d, %d), want (0, 0)", m.cursorRow, m.cursorCol)
	}
	m, _ = press(m, "G")
	if m.cursorRow != 2 {
		t.Errorf("cursorRow after G = %d", m.cursorRow)
	}
}

func TestModel_EditUndoRedo(t *testing.T) {
	m := newTestModel(t, teamCSV)

	m, _ = press(m, "enter")
	if m.mode != modeEdit || m.input.Value() != "Bob" {
		t.Fatalf("mode = %v, draft = %q", m.mode, m.input.Value())
	}

	m, _ = press(m, "x", "enter")
	if got := m.state.View().Cell(0, "name"); got != "Bobx" {
		t.Errorf("committed value = %q, want Bobx", got)
	}
	if m.mode != modeEdit || m.cursorRow != 1 || m.input.Value() != "Alice" {
		t.Errorf("after commit: mode = %v, row = %d, draft = %q", m.mode, m.cursorRow, m.input.Value())
	}

	m, _ = press(m, "tab")
	if m.edit.Column != 1 || m.input.Value() != "30" {
		t.Errorf("after tab: column = %d, draft = %q", m.edit.Column, m.input.Value())
	}

	m, _ = press(m, "esc")
	if m.mode != modeGrid || m.changes != 1 {
		t.Errorf("after esc: mode = %v, changes = %d", m.mode, m.changes)
	}

	m, _ = press(m, "u")
	if got := m.state.View().Cell(0, "name"); got != "Bob" {
		t.Errorf("after undo = %q, want Bob", got)
	}
	m, _ = press(m, "ctrl+r")
	if got := m.state.View().Cell(0, "name"); got != "Bobx" {
		t.Errorf("after redo = %q, want Bobx", got)
	}
	m, _ = press(m, "ctrl+r")
	if m.err == nil {
		t.Error("redo past the end reported no error")
	}
}

func TestModel_Sort(t *testing.T) {
	m := newTestModel(t, teamCSV)

	steps := [][]string{
		{"Alice", "Bob", "Carol"},
		{"Carol", "Bob", "Alice"},
		{"Bob", "Alice", "Carol"},
	}
	for i, want := range steps {
		m, _ = press(m, "s")
		if got := names(m); !reflect.DeepEqual(got, want) {
			t.Errorf("step %d: names = %v, want %v", i, got, want)
		}
	}
}

func TestModel_SearchReplace(t *testing.T) {
	m := newTestModel(t, teamCSV)

	m, _ = press(m, "/", "o", "enter")
	if m.state.Search().Len() != 2 {
		t.Fatalf("matches = %d, want 2", m.state.Search().Len())
	}
	if m.cursorRow != 0 || m.cursorCol != 0 {
		t.Errorf("cursor = (%d, %d), want first match", m.cursorRow, m.cursorCol)
	}

	m, _ = press(m, "n")
	if m.cursorRow != 2 {
		t.Errorf("cursorRow after n = %d, want 2", m.cursorRow)
	}

	m, _ = press(m, "R", "0", "enter")
	if !reflect.DeepEqual(names(m), []string{"B0b", "Alice", "Car0l"}) {
		t.Errorf("names = %v", names(m))
	}
	if m.status != "replaced 2 occurrences" {
		t.Errorf("status = %q", m.status)
	}

	m, _ = press(m, "r")
	if m.err == nil || m.mode != modeGrid {
		t.Errorf("replace without matches: err = %v, mode = %v", m.err, m.mode)
	}
}

func TestModel_Structure(t *testing.T) {
	m := newTestModel(t, teamCSV)

	m, _ = press(m, "o")
	if m.state.View().Len() != 4 || m.cursorRow != 1 || names(m)[1] != "" {
		t.Errorf("insert row: len = %d, cursor = %d, names = %v", m.state.View().Len(), m.cursorRow, names(m))
	}
	m, _ = press(m, "X")
	if !reflect.DeepEqual(names(m), []string{"Bob", "Alice", "Carol"}) {
		t.Errorf("delete row: names = %v", names(m))
	}

	m, _ = press(m, "+")
	if got := m.state.View().Headers(); !reflect.DeepEqual(got, []string{"name", sheetfix.DefaultNewColumn, "age"}) || m.cursorCol != 1 {
		t.Errorf("insert column: headers = %v, cursor = %d", got, m.cursorCol)
	}
	m, _ = press(m, "-")
	if got := m.state.View().Headers(); !reflect.DeepEqual(got, []string{"name", "age"}) {
		t.Errorf("delete column: headers = %v", got)
	}

	m, _ = press(m, "h", "c", "ctrl+u", "first", "enter")
	if got := m.state.View().Headers(); !reflect.DeepEqual(got, []string{"first", "age"}) {
		t.Errorf("rename: headers = %v", got)
	}
}

func TestModel_Repair(t *testing.T) {
	m := newTestModel(t, "name,email\n  Bob ,BOB@EXAMPLE.COM\n")

	m, _ = press(m, "t", "j", "enter")
	if got := m.state.View().Cell(0, "name"); got != "Bob" {
		t.Errorf("trim_whitespace: name = %q", got)
	}
	if m.status != "trim_whitespace: 1 changes" {
		t.Errorf("status = %q", m.status)
	}

	m, _ = press(m, "a")
	if got := m.state.View().Cell(0, "email"); got != "bob@example.com" {
		t.Errorf("auto repair: email = %q", got)
	}

	m, _ = press(m, "a")
	if m.err != nil || m.status != "auto: nothing to repair" {
		t.Errorf("second auto repair: err = %v, status = %q", m.err, m.status)
	}

	m, _ = press(m, "d")
	if m.mode != modeDiff || !strings.Contains(m.View(), "2 changes in 1 rows") {
		t.Errorf("diff view:\n%s", m.View())
	}
	m, _ = press(m, "esc")
	if m.mode != modeGrid {
		t.Errorf("mode after esc = %v", m.mode)
	}
}

func TestModel_Query(t *testing.T) {
	m := newTestModel(t, teamCSV)

	m, cmd := press(m, ":", "SELECT name FROM data WHERE age >= 35 ORDER BY age", "enter")
	m = deliver(t, m, cmd)
	if m.mode != modeResult || m.result.Len() != 2 {
		t.Fatalf("mode = %v, result = %+v, err = %v", m.mode, m.result, m.err)
	}
	if got := m.result.Rows[0].Get("name"); got != "Carol" {
		t.Errorf("first row = %q, want Carol", got)
	}
	if !strings.Contains(m.View(), "Bob") {
		t.Errorf("result view:\n%s", m.View())
	}
	m, _ = press(m, "esc")
	if m.mode != modeGrid || m.result != nil {
		t.Errorf("mode after esc = %v", m.mode)
	}

	m, cmd = press(m, ":", "SELECT nope WHERE", "enter")
	m = deliver(t, m, cmd)
	if m.mode != modeQuery || m.err == nil {
		t.Fatalf("bad query: mode = %v, err = %v", m.mode, m.err)
	}
	if !strings.Contains(m.View(), "query error") {
		t.Errorf("error not shown under the prompt:\n%s", m.View())
	}
	m, _ = press(m, "esc")
	if m.mode != modeGrid || m.err != nil {
		t.Errorf("after esc: mode = %v, err = %v", m.mode, m.err)
	}
}

func TestModel_Export(t *testing.T) {
	path := writeFile(t, "team.csv", teamCSV)
	m := openTestModel(t, path)

	m, _ = press(m, "s")
	m, cmd := press(m, "w")
	m = deliver(t, m, cmd)

	target := filepath.Join(filepath.Dir(path), "team.edited.csv")
	if m.err != nil || m.status != "wrote "+target {
		t.Fatalf("export: err = %v, status = %q", m.err, m.status)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if want := "name,age\nAlice,30\nBob,40\nCarol,35\n"; string(got) != want {
		t.Errorf("exported file = %q, want %q", got, want)
	}
}

func TestModel_WindowFollowsCursor(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 100; i++ {
		b.WriteString("row\n")
	}
	m := newTestModel(t, b.String())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = next.(model)

	m, _ = press(m, "G")
	win := m.window()
	if win.Last != 100 || win.Last-win.First != m.bodyHeight() {
		t.Errorf("window = %+v, body height %d", win, m.bodyHeight())
	}

	m, _ = press(m, "g")
	if m.scroll != 0 {
		t.Errorf("scroll after g = %d", m.scroll)
	}
}

func TestModel_WindowUsesSessionConfig(t *testing.T) {
	path := writeFile(t, "rows.csv", "n\n"+strings.Repeat("row\n", 50))
	ctx := context.Background()

	tests := []struct {
		name      string
		overscan  int
		wantStart int
		wantEnd   int
	}{
		{"no overscan", 0, 20, 23},
		{"overscan 2", 2, 18, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := openSource(ctx, path, openOptions{})
			if err != nil {
				t.Fatalf("openSource() error = %v", err)
			}
			cfg := *src.Config
			cfg.Overscan = tt.overscan
			session := sheetfix.NewSession(src.Loader, &cfg)
			defer session.Close()

			if got := session.Config().Overscan; got != tt.overscan {
				t.Fatalf("Config().Overscan = %d, want %d", got, tt.overscan)
			}

			m := newModel(ctx, session, src, newKeyMap(defaultHotkeys()), newStyles(lipgloss.NewRenderer(io.Discard), defaultColors()))
			next, _ := m.Update(m.Init()())
			next, _ = next.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
			m = next.(model)

			m.cursorRow = 22
			m.follow()

			win := m.window()
			if win.First != 20 || win.Last != 23 {
				t.Errorf("visible rows = [%d, %d), want [20, 23)", win.First, win.Last)
			}
			if win.Start != tt.wantStart || win.End != tt.wantEnd {
				t.Errorf("window = [%d, %d), want [%d, %d)", win.Start, win.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"short", 10, "short"},
		{"two\nlines", 20, "two lines"},
		{"abcdefghij", 5, "abcd…"},
		{"日本語テキスト", 6, "日本…"},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.w); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
	}
}

package sheetfix

import "fmt"

// LoadLabel is the history label of the snapshot created at load
const LoadLabel = "Load"

// State is everything the engine knows about one loaded dataset. It is a
// value: every operation returns a new State and leaves the receiver usable,
// and a returned error means nothing changed.
//
// Row indexes taken and reported by State methods refer to View, the
// snapshot currently displayed (sorted or not).
type State struct {
	history     History
	original    *Snapshot
	diagnostics []Diagnostic
	source      string
	delimiter   rune

	sort   SortState
	view   *Snapshot // display override; nil shows the history cursor
	search SearchState

	detector *Detector
}

// NewState builds the initial state from a parse result. A result without
// headers is a LoadError.
func NewState(result *ParseResult, cfg *Config) (State, error) {
	if result == nil || len(result.Headers) == 0 {
		src := ""
		if result != nil {
			src = result.Source
		}
		return State{}, &LoadError{Source: src, Err: ErrNoHeaders}
	}

	snap, err := NewSnapshot(result.Headers, result.Rows)
	if err != nil {
		return State{}, &LoadError{Source: result.Source, Err: err}
	}

	c := cfg.withDefaults()
	diags := make([]Diagnostic, len(result.Diagnostics))
	copy(diags, result.Diagnostics)

	return State{
		history:     NewHistory(c.HistoryCapacity, Entry{Snapshot: snap, Label: LoadLabel}),
		original:    snap,
		diagnostics: diags,
		source:      result.Source,
		delimiter:   result.Delimiter,
		detector:    NewDetector(&c),
	}, nil
}

// Loaded reports whether the state holds a dataset
func (s State) Loaded() bool {
	return s.history.Len() > 0
}

// Current returns the snapshot under the history cursor
func (s State) Current() *Snapshot {
	return s.history.Current().Snapshot
}

// View returns the displayed snapshot: the sorted view when a sort is
// active, otherwise the history cursor
func (s State) View() *Snapshot {
	if s.view != nil {
		return s.view
	}
	return s.Current()
}

// Original returns the snapshot created at load. It survives history
// eviction so a diff against it is always possible.
func (s State) Original() *Snapshot {
	return s.original
}

// Diagnostics returns the parse diagnostics. Their row indexes refer to the
// row order at load and are not adjusted by later edits.
func (s State) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// History returns the edit history
func (s State) History() History {
	return s.history
}

// Sort returns the active sort
func (s State) Sort() SortState {
	return s.sort
}

// Search returns the active search
func (s State) Search() SearchState {
	return s.search
}

// Source returns the display name of the loaded input
func (s State) Source() string {
	return s.source
}

// Delimiter returns the detected field delimiter, 0 if not applicable
func (s State) Delimiter() rune {
	return s.delimiter
}

// Detect classifies a column of the displayed snapshot
func (s State) Detect(column string) Detection {
	return s.detectorOrDefault().Detect(s.View(), column)
}

// DetectAll classifies every column of the displayed snapshot
func (s State) DetectAll() map[string]Detection {
	return s.detectorOrDefault().DetectAll(s.View())
}

// Diff lists the cells that differ between the load snapshot and the
// history cursor
func (s State) Diff() []Change {
	return Diff(s.original, s.Current())
}

// CanUndo reports whether Undo would succeed
func (s State) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would succeed
func (s State) CanRedo() bool {
	return s.history.CanRedo()
}

// Undo moves the history cursor back. Any sort view is dropped.
func (s State) Undo() (State, error) {
	h, err := s.history.Undo()
	if err != nil {
		return s, err
	}
	s.history = h
	return s.resetView(), nil
}

// Redo moves the history cursor forward. Any sort view is dropped.
func (s State) Redo() (State, error) {
	h, err := s.history.Redo()
	if err != nil {
		return s, err
	}
	s.history = h
	return s.resetView(), nil
}

// Push commits snap as one history entry. An active sort ends: snap is
// taken in display order and becomes the order of the new entry.
func (s State) Push(snap *Snapshot, label string) State {
	s.history = s.history.Push(snap, label)
	return s.resetView()
}

func (s State) resetView() State {
	s.sort = SortState{}
	s.view = nil
	s.search = s.search.refresh(s.View())
	return s
}

// CellLabel is the history label for an edit of (row, col)
func CellLabel(verb string, row, col int) string {
	return fmt.Sprintf("%s R%dC%d", verb, row+1, col+1)
}

// SetCell writes value into (row, column) of the displayed snapshot as one
// history entry. Writing the value already present returns ErrNoChanges.
func (s State) SetCell(row int, column, value string) (State, error) {
	view := s.View()
	col := view.ColumnIndex(column)
	if row < 0 || row >= view.Len() || col < 0 {
		return s, fmt.Errorf("%w: (%d, %q)", ErrCellOutOfRange, row, column)
	}
	if view.Cell(row, column) == value {
		return s, ErrNoChanges
	}
	return s.Push(view.withCell(row, column, value), CellLabel("Edit", row, col)), nil
}

// SetQuery replaces the active search and selects the first match. An empty
// column searches every column.
func (s State) SetQuery(query, column string) State {
	s.search = NewSearchState(s.View(), query, column)
	return s
}

// ClearSearch drops the active query
func (s State) ClearSearch() State {
	s.search = SearchState{}
	return s
}

// NextMatch selects the following match, wrapping around
func (s State) NextMatch() State {
	s.search = s.search.Next()
	return s
}

// PrevMatch selects the preceding match, wrapping around
func (s State) PrevMatch() State {
	s.search = s.search.Prev()
	return s
}

// ReplaceOne replaces the first occurrence of the query inside the selected
// match's cell
func (s State) ReplaceOne(replacement string) (State, error) {
	m, ok := s.search.Current()
	if !ok {
		return s, ErrNoMatches
	}

	view := s.View()
	out, replaced := ReplaceFirst(view.Cell(m.Row, m.Column), s.search.Query, replacement)
	if !replaced {
		return s, ErrNoMatches
	}
	label := CellLabel("Replace", m.Row, view.ColumnIndex(m.Column))
	return s.Push(view.withCell(m.Row, m.Column, out), label), nil
}

// ReplaceAll replaces every occurrence of the query in the searched cells
// (one column when the search is scoped) as one history entry and returns
// the number of occurrences replaced
func (s State) ReplaceAll(replacement string) (State, int, error) {
	var (
		out *Snapshot
		n   int
	)
	if s.search.Column != "" {
		out, n = ReplaceAllColumn(s.View(), s.search.Query, s.search.Column, replacement)
	} else {
		out, n = ReplaceAll(s.View(), s.search.Query, replacement)
	}
	if n == 0 {
		return s, 0, ErrNoMatches
	}
	label := fmt.Sprintf("Replace all %q (%d)", s.search.Query, n)
	return s.Push(out, label), n, nil
}

// CycleSort advances the sort on column. Sorting never enters the history;
// returning to unsorted shows the first retained history entry.
func (s State) CycleSort(column string) (State, error) {
	if !s.View().HasColumn(column) {
		return s, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	s.sort = s.sort.Cycle(column)
	if s.sort.Active() {
		s.view = SortRows(s.Current(), column, s.sort.Direction)
	} else if s.history.Cursor() == 0 {
		s.view = nil
	} else {
		s.view = s.history.Origin().Snapshot
	}
	s.search = s.search.refresh(s.View())
	return s, nil
}

// InsertRow adds a blank row above or below anchor
func (s State) InsertRow(anchor int, pos Position) (State, error) {
	out, at, err := InsertRow(s.View(), anchor, pos)
	if err != nil {
		return s, err
	}
	return s.Push(out, fmt.Sprintf("Insert row %d", at+1)), nil
}

// DeleteRow removes one row
func (s State) DeleteRow(index int) (State, error) {
	out, err := DeleteRow(s.View(), index)
	if err != nil {
		return s, err
	}
	return s.Push(out, fmt.Sprintf("Delete row %d", index+1)), nil
}

// InsertColumn adds an empty column left or right of anchor
func (s State) InsertColumn(anchor string, pos Position) (State, error) {
	out, name, err := InsertColumn(s.View(), anchor, pos)
	if err != nil {
		return s, err
	}
	return s.Push(out, fmt.Sprintf("Insert column %s", name)), nil
}

// DeleteColumn removes a column; the last column cannot be removed
func (s State) DeleteColumn(column string) (State, error) {
	out, err := DeleteColumn(s.View(), column)
	if err != nil {
		return s, err
	}
	return s.Push(out, fmt.Sprintf("Delete column %s", column)), nil
}

// RenameColumn renames a column in place
func (s State) RenameColumn(from, to string) (State, error) {
	out, err := RenameColumn(s.View(), from, to)
	if err != nil {
		return s, err
	}
	if s.sort.Column == from {
		s.sort.Column = to
	}
	if s.search.Column == from {
		s.search.Column = to
	}
	return s.Push(out, fmt.Sprintf("Rename column %s to %s", from, to)), nil
}

// ApplyTemplate runs a repair template as one history entry
func (s State) ApplyTemplate(name string) (State, RepairReport, error) {
	out, report, err := ApplyTemplate(s.View(), name, s.detectorOrDefault())
	if err != nil {
		return s, report, err
	}
	return s.Push(out, "Template "+name), report, nil
}

// AutoRepair trims and normalizes every typed column as one history entry
func (s State) AutoRepair() (State, RepairReport, error) {
	out, report, err := AutoRepair(s.View(), s.detectorOrDefault())
	if err != nil {
		return s, report, err
	}
	return s.Push(out, "Auto repair"), report, nil
}

func (s State) detectorOrDefault() *Detector {
	if s.detector == nil {
		return defaultDetector
	}
	return s.detector
}

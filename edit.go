package sheetfix

import (
	"errors"
	"fmt"
)

// EditPhase is the controller's state
type EditPhase int

const (
	Idle EditPhase = iota
	Editing
)

func (p EditPhase) String() string {
	if p == Editing {
		return "editing"
	}
	return "idle"
}

// EditEvent is an input to the edit controller
type EditEvent int

const (
	EvActivate   EditEvent = iota // start editing Row, Column
	EvInput                       // replace the draft with Text
	EvCommit                      // write the draft and stop
	EvCommitDown                  // write the draft and edit the cell below
	EvCommitNext                  // write the draft and edit the next column
	EvCommitPrev                  // write the draft and edit the previous column
	EvCancel                      // discard the draft
)

// EditAction is one event with its arguments
type EditAction struct {
	Event  EditEvent
	Row    int    // EvActivate
	Column int    // EvActivate
	Text   string // EvInput
}

// EditController is the cell edit state machine. It is a value; Apply
// returns the next controller together with the next State.
type EditController struct {
	Editable bool
	Phase    EditPhase
	Row      int
	Column   int // index into the displayed headers
	Draft    string
}

// NewEditController returns an idle controller
func NewEditController(editable bool) EditController {
	return EditController{Editable: editable}
}

type editTransition func(c EditController, s State, a EditAction) (EditController, State, error)

type editKey struct {
	phase EditPhase
	event EditEvent
}

// editTable holds every legal (phase, event) pair. Pairs not present are
// ignored.
var editTable = map[editKey]editTransition{
	{Idle, EvActivate}:      activate,
	{Editing, EvActivate}:   activate,
	{Editing, EvInput}:      input,
	{Editing, EvCommit}:     commitAndMove(0, 0),
	{Editing, EvCommitDown}: commitAndMove(1, 0),
	{Editing, EvCommitNext}: commitAndMove(0, 1),
	{Editing, EvCommitPrev}: commitAndMove(0, -1),
	{Editing, EvCancel}:     cancel,
}

// Apply feeds one action through the transition table. On error the state
// is returned unchanged.
func (c EditController) Apply(s State, a EditAction) (EditController, State, error) {
	tr, ok := editTable[editKey{c.Phase, a.Event}]
	if !ok {
		return c, s, nil
	}
	return tr(c, s, a)
}

// Active reports whether a cell is being edited
func (c EditController) Active() bool {
	return c.Phase == Editing
}

// Label returns the history label a commit would use
func (c EditController) Label() string {
	return CellLabel("Edit", c.Row, c.Column)
}

func activate(c EditController, s State, a EditAction) (EditController, State, error) {
	if !c.Editable {
		return c, s, ErrNotEditable
	}
	view := s.View()
	if a.Row < 0 || a.Row >= view.Len() || a.Column < 0 || a.Column >= view.Width() {
		return c, s, fmt.Errorf("%w: (%d, %d)", ErrCellOutOfRange, a.Row, a.Column)
	}
	return c.editing(view, a.Row, a.Column), s, nil
}

func input(c EditController, s State, a EditAction) (EditController, State, error) {
	c.Draft = a.Text
	return c, s, nil
}

func cancel(c EditController, s State, _ EditAction) (EditController, State, error) {
	return c.idle(), s, nil
}

// commitAndMove writes the draft and, for a non-zero step, re-enters
// Editing on the adjacent cell. Stepping outside the grid ends in Idle.
func commitAndMove(dRow, dCol int) editTransition {
	return func(c EditController, s State, _ EditAction) (EditController, State, error) {
		view := s.View()
		if c.Row >= view.Len() || c.Column >= view.Width() {
			return c.idle(), s, fmt.Errorf("%w: (%d, %d)", ErrCellOutOfRange, c.Row, c.Column)
		}

		next, err := s.SetCell(c.Row, view.Header(c.Column), c.Draft)
		if err != nil && !errors.Is(err, ErrNoChanges) {
			return c, s, err
		}
		if err != nil {
			next = s
		}

		if dRow == 0 && dCol == 0 {
			return c.idle(), next, nil
		}

		row, col := c.Row+dRow, c.Column+dCol
		nv := next.View()
		if row < 0 || row >= nv.Len() || col < 0 || col >= nv.Width() {
			return c.idle(), next, nil
		}
		return c.editing(nv, row, col), next, nil
	}
}

func (c EditController) editing(view *Snapshot, row, col int) EditController {
	c.Phase = Editing
	c.Row = row
	c.Column = col
	c.Draft = view.Cell(row, view.Header(col))
	return c
}

func (c EditController) idle() EditController {
	c.Phase = Idle
	c.Draft = ""
	return c
}

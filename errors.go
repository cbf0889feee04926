package sheetfix

import (
	"errors"
	"fmt"
)

var (
	ErrNoHeaders        = errors.New("dataset has no headers")
	ErrDuplicateColumn  = errors.New("duplicate column name")
	ErrEmptyColumnName  = errors.New("empty column name")
	ErrColumnNotFound   = errors.New("column not found")
	ErrLastColumn       = errors.New("cannot delete the last column")
	ErrRowOutOfRange    = errors.New("row index out of range")
	ErrCellOutOfRange   = errors.New("cell out of range")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrNothingToRedo    = errors.New("nothing to redo")
	ErrNoMatches        = errors.New("no matches")
	ErrNoChanges        = errors.New("no changes")
	ErrNotEditable      = errors.New("grid is not editable")
	ErrUnknownTemplate  = errors.New("unknown repair template")
	ErrInvalidCondition = errors.New("invalid filter condition")
	ErrNotLoaded        = errors.New("no dataset loaded")
	ErrSessionClosed    = errors.New("session is closed")
)

// LoadError is returned when a load attempt fails. The previously active
// dataset, if any, is left untouched.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load failed: %v", e.Err)
	}
	return fmt.Sprintf("load %s failed: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// StructuralError reports a rejected structural transform (row or column
// insert/delete/rename). Nothing is pushed to history when it is returned.
type StructuralError struct {
	Op  string
	Err error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

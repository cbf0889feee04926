package sheetfix

import "fmt"

// Position places an inserted row or column relative to its anchor
type Position int

const (
	Above Position = iota
	Below
	Left
	Right
)

// DefaultNewColumn is the base name for inserted columns
const DefaultNewColumn = "new_column"

// NextColumnName returns the first of new_column, new_column_1, ... that is
// not already a header of snap
func NextColumnName(snap *Snapshot) string {
	if !snap.HasColumn(DefaultNewColumn) {
		return DefaultNewColumn
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s_%d", DefaultNewColumn, n)
		if !snap.HasColumn(name) {
			return name
		}
	}
}

// InsertRow adds a blank row above or below anchor. On an empty dataset the
// anchor is ignored and the row becomes row 0.
func InsertRow(snap *Snapshot, anchor int, pos Position) (*Snapshot, int, error) {
	at := 0
	if snap.Len() > 0 {
		if anchor < 0 || anchor >= snap.Len() {
			return nil, 0, &StructuralError{Op: "insert row", Err: fmt.Errorf("%w: %d", ErrRowOutOfRange, anchor)}
		}
		at = anchor
		if pos == Below {
			at++
		}
	}

	rows := make([]Record, 0, len(snap.rows)+1)
	rows = append(rows, snap.rows[:at]...)
	rows = append(rows, BlankRecord(snap.headers))
	rows = append(rows, snap.rows[at:]...)
	return snap.withRows(rows), at, nil
}

// DeleteRow removes the row at index
func DeleteRow(snap *Snapshot, index int) (*Snapshot, error) {
	if index < 0 || index >= snap.Len() {
		return nil, &StructuralError{Op: "delete row", Err: fmt.Errorf("%w: %d", ErrRowOutOfRange, index)}
	}

	rows := make([]Record, 0, len(snap.rows)-1)
	rows = append(rows, snap.rows[:index]...)
	rows = append(rows, snap.rows[index+1:]...)
	return snap.withRows(rows), nil
}

// InsertColumn adds an empty column named by NextColumnName to the left or
// right of anchor and returns its name
func InsertColumn(snap *Snapshot, anchor string, pos Position) (*Snapshot, string, error) {
	at := 0
	if snap.Width() > 0 {
		i := snap.ColumnIndex(anchor)
		if i < 0 {
			return nil, "", &StructuralError{Op: "insert column", Err: fmt.Errorf("%w: %q", ErrColumnNotFound, anchor)}
		}
		at = i
		if pos == Right {
			at++
		}
	}

	name := NextColumnName(snap)
	headers := make([]string, 0, len(snap.headers)+1)
	headers = append(headers, snap.headers[:at]...)
	headers = append(headers, name)
	headers = append(headers, snap.headers[at:]...)

	rows := make([]Record, len(snap.rows))
	for i, r := range snap.rows {
		rows[i] = r.With(name, "")
	}
	return newSnapshot(headers, rows), name, nil
}

// DeleteColumn removes a column. Removing the last remaining column is
// rejected with ErrLastColumn.
func DeleteColumn(snap *Snapshot, column string) (*Snapshot, error) {
	i := snap.ColumnIndex(column)
	if i < 0 {
		return nil, &StructuralError{Op: "delete column", Err: fmt.Errorf("%w: %q", ErrColumnNotFound, column)}
	}
	if snap.Width() == 1 {
		return nil, &StructuralError{Op: "delete column", Err: ErrLastColumn}
	}

	headers := make([]string, 0, len(snap.headers)-1)
	headers = append(headers, snap.headers[:i]...)
	headers = append(headers, snap.headers[i+1:]...)

	rows := make([]Record, len(snap.rows))
	for j, r := range snap.rows {
		rows[j] = r.Without(column)
	}
	return newSnapshot(headers, rows), nil
}

// RenameColumn changes a column name in place, keeping its position
func RenameColumn(snap *Snapshot, from, to string) (*Snapshot, error) {
	i := snap.ColumnIndex(from)
	if i < 0 {
		return nil, &StructuralError{Op: "rename column", Err: fmt.Errorf("%w: %q", ErrColumnNotFound, from)}
	}
	if to == "" {
		return nil, &StructuralError{Op: "rename column", Err: ErrEmptyColumnName}
	}
	if to == from {
		return nil, &StructuralError{Op: "rename column", Err: ErrNoChanges}
	}
	if snap.HasColumn(to) {
		return nil, &StructuralError{Op: "rename column", Err: fmt.Errorf("%w: %q", ErrDuplicateColumn, to)}
	}

	headers := snap.Headers()
	headers[i] = to

	rows := make([]Record, len(snap.rows))
	for j, r := range snap.rows {
		v := r.Get(from)
		rows[j] = r.Without(from).With(to, v)
	}
	return newSnapshot(headers, rows), nil
}

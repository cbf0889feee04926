package sheetfix

import (
	"fmt"
	"sync/atomic"
)

var snapshotSeq atomic.Uint64

// Snapshot is an immutable (headers, rows) pair. Every edit produces a new
// Snapshot; untouched records may be shared between snapshots because
// records are never written after they are stored.
type Snapshot struct {
	id      uint64
	headers []string
	rows    []Record
	index   map[string]int
}

// NewSnapshot copies headers and rows into a new snapshot. Headers must be
// unique and non-empty.
func NewSnapshot(headers []string, rows []Record) (*Snapshot, error) {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if h == "" {
			return nil, ErrEmptyColumnName
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, h)
		}
		seen[h] = true
	}

	hs := make([]string, len(headers))
	copy(hs, headers)

	rs := make([]Record, len(rows))
	for i, r := range rows {
		rs[i] = r.Clone()
	}

	return newSnapshot(hs, rs), nil
}

// newSnapshot takes ownership of headers and rows without copying
func newSnapshot(headers []string, rows []Record) *Snapshot {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	return &Snapshot{
		id:      snapshotSeq.Add(1),
		headers: headers,
		rows:    rows,
		index:   index,
	}
}

// ID returns a process-unique identity for the snapshot
func (s *Snapshot) ID() uint64 {
	return s.id
}

// Headers returns a copy of the column names in display order
func (s *Snapshot) Headers() []string {
	out := make([]string, len(s.headers))
	copy(out, s.headers)
	return out
}

// Rows returns the rows in display order. The slice is a copy; the records
// must be treated as read-only.
func (s *Snapshot) Rows() []Record {
	out := make([]Record, len(s.rows))
	copy(out, s.rows)
	return out
}

// Len returns the number of rows
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rows)
}

// Width returns the number of columns
func (s *Snapshot) Width() int {
	if s == nil {
		return 0
	}
	return len(s.headers)
}

// Header returns the column name at index i
func (s *Snapshot) Header(i int) string {
	return s.headers[i]
}

// Row returns the record at index i
func (s *Snapshot) Row(i int) Record {
	return s.rows[i]
}

// Cell returns the value at (row, col), or "" when either is out of range
func (s *Snapshot) Cell(row int, col string) string {
	if s == nil || row < 0 || row >= len(s.rows) {
		return ""
	}
	return s.rows[row].Get(col)
}

// ColumnIndex returns the position of name, or -1
func (s *Snapshot) ColumnIndex(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether name is a header
func (s *Snapshot) HasColumn(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Column returns every value of a column in row order
func (s *Snapshot) Column(name string) []string {
	out := make([]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Get(name)
	}
	return out
}

// Matrix returns the rows as string slices in header order
func (s *Snapshot) Matrix() [][]string {
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Fields(s.headers)
	}
	return out
}

// Equal reports value equality: same headers in the same order and the same
// cell text everywhere (absent and empty compare equal).
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.headers) != len(o.headers) || len(s.rows) != len(o.rows) {
		return false
	}
	for i := range s.headers {
		if s.headers[i] != o.headers[i] {
			return false
		}
	}
	for i := range s.rows {
		for _, h := range s.headers {
			if s.rows[i].Get(h) != o.rows[i].Get(h) {
				return false
			}
		}
	}
	return true
}

// withCell returns a snapshot with one cell replaced
func (s *Snapshot) withCell(row int, col, value string) *Snapshot {
	rows := make([]Record, len(s.rows))
	copy(rows, s.rows)
	rows[row] = rows[row].With(col, value)
	return newSnapshot(s.headers, rows)
}

// withRows returns a snapshot sharing the headers with a new row slice
func (s *Snapshot) withRows(rows []Record) *Snapshot {
	return newSnapshot(s.headers, rows)
}

// emptySnapshot is used where a side of a comparison is missing
var emptySnapshot = newSnapshot(nil, nil)

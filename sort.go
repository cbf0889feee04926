package sheetfix

import (
	"cmp"
	"math"
	"sort"
	"strings"
	"time"
)

// SortDirection is one position in the sort cycle
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "none"
	}
}

// SortState is the view-level sort. It never enters the history.
type SortState struct {
	Column    string
	Direction SortDirection
}

// Active reports whether a sort is applied
func (s SortState) Active() bool {
	return s.Direction != SortNone
}

// Cycle advances ascending -> descending -> unsorted on column. Choosing a
// different column starts again at ascending.
func (s SortState) Cycle(column string) SortState {
	if column != s.Column || s.Direction == SortNone {
		return SortState{Column: column, Direction: SortAscending}
	}
	if s.Direction == SortAscending {
		return SortState{Column: column, Direction: SortDescending}
	}
	return SortState{}
}

// SortRows returns a copy of snap with rows stably ordered by column.
// Values that both parse as numbers compare numerically and values that
// both parse as dates chronologically. Everything else compares
// case-insensitively; empty values always sort last.
func SortRows(snap *Snapshot, column string, dir SortDirection) *Snapshot {
	rows := make([]Record, len(snap.rows))
	copy(rows, snap.rows)
	if dir == SortNone {
		return snap.withRows(rows)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ae := strings.TrimSpace(rows[i].Get(column)) == ""
		be := strings.TrimSpace(rows[j].Get(column)) == ""
		if ae || be {
			return !ae && be
		}
		c := compareFields(rows[i], rows[j], column)
		if dir == SortDescending {
			return c > 0
		}
		return c < 0
	})
	return snap.withRows(rows)
}

// noInt marks a value GetAsInt64 could not read
const noInt = math.MinInt64

// compareFields orders a and b on column: integers exactly, other numbers
// as floats, dates chronologically and anything else case-insensitively
func compareFields(a, b Record, column string) int {
	if ia, ib := a.GetAsInt64(column, noInt), b.GetAsInt64(column, noInt); ia != noInt && ib != noInt {
		return cmp.Compare(ia, ib)
	}
	if fa, fb := a.GetAsFloat64(column, math.NaN()), b.GetAsFloat64(column, math.NaN()); !math.IsNaN(fa) && !math.IsNaN(fb) {
		return cmp.Compare(fa, fb)
	}
	if ta, tb := a.GetAsTime(column, time.Time{}), b.GetAsTime(column, time.Time{}); !ta.IsZero() && !tb.IsZero() {
		return ta.Compare(tb)
	}
	return strings.Compare(strings.ToLower(a.Get(column)), strings.ToLower(b.Get(column)))
}

package sheetfix

// ChangeKind classifies a cell difference
type ChangeKind int

const (
	ChangeModified ChangeKind = iota
	ChangeAdded               // was empty
	ChangeCleared             // is now empty
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeCleared:
		return "cleared"
	default:
		return "modified"
	}
}

// Change is one differing cell between two snapshots
type Change struct {
	Row    int
	Column string
	Old    string
	New    string
}

// Kind classifies the change
func (c Change) Kind() ChangeKind {
	switch {
	case c.Old == "":
		return ChangeAdded
	case c.New == "":
		return ChangeCleared
	default:
		return ChangeModified
	}
}

// Diff lists every cell that differs between original and current, in
// row-major order over current's headers. A row or column missing on either
// side reads as empty.
func Diff(original, current *Snapshot) []Change {
	if original == nil {
		original = emptySnapshot
	}
	if current == nil {
		current = emptySnapshot
	}

	n := max(original.Len(), current.Len())
	var changes []Change
	for i := 0; i < n; i++ {
		for _, h := range current.headers {
			old := original.Cell(i, h)
			now := current.Cell(i, h)
			if old != now {
				changes = append(changes, Change{Row: i, Column: h, Old: old, New: now})
			}
		}
	}
	return changes
}

// DiffSummary aggregates a change list
type DiffSummary struct {
	Total   int
	Rows    int // distinct rows touched
	Columns int // distinct columns touched
	ByKind  map[ChangeKind]int
}

// Summarize counts the full change list; callers may render only a prefix
func Summarize(changes []Change) DiffSummary {
	rows := make(map[int]bool)
	cols := make(map[string]bool)
	byKind := make(map[ChangeKind]int)
	for _, c := range changes {
		rows[c.Row] = true
		cols[c.Column] = true
		byKind[c.Kind()]++
	}
	return DiffSummary{
		Total:   len(changes),
		Rows:    len(rows),
		Columns: len(cols),
		ByKind:  byKind,
	}
}

// Truncate returns at most limit changes; limit <= 0 returns all
func Truncate(changes []Change, limit int) []Change {
	if limit <= 0 || len(changes) <= limit {
		return changes
	}
	return changes[:limit]
}

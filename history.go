package sheetfix

// Entry is one immutable point in the edit history
type Entry struct {
	Snapshot *Snapshot
	Label    string
}

// Headers returns the entry's column names
func (e Entry) Headers() []string {
	return e.Snapshot.Headers()
}

// Rows returns the entry's rows
func (e Entry) Rows() []Record {
	return e.Snapshot.Rows()
}

// History is a bounded, cursor-based log of snapshots. It is a value type:
// every mutating method returns a new History and leaves the receiver valid.
//
// When a push exceeds the capacity the oldest entry is evicted, even if it
// is the load state; undo back to the very beginning is then impossible.
type History struct {
	entries  []Entry
	cursor   int
	capacity int
}

// NewHistory creates a history holding only initial
func NewHistory(capacity int, initial Entry) History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return History{
		entries:  []Entry{initial},
		cursor:   0,
		capacity: capacity,
	}
}

// Push drops every entry after the cursor, appends snap and moves the
// cursor onto it
func (h History) Push(snap *Snapshot, label string) History {
	kept := h.entries[:h.cursor+1]
	if len(kept) >= h.capacity {
		// evicted entries must not stay reachable through the backing array
		kept = kept[len(kept)-h.capacity+1:]
	}

	entries := make([]Entry, len(kept), len(kept)+1)
	copy(entries, kept)
	entries = append(entries, Entry{Snapshot: snap, Label: label})

	return History{
		entries:  entries,
		cursor:   len(entries) - 1,
		capacity: h.capacity,
	}
}

// PushRows builds a snapshot from headers and rows and pushes it
func (h History) PushRows(headers []string, rows []Record, label string) (History, error) {
	snap, err := NewSnapshot(headers, rows)
	if err != nil {
		return h, err
	}
	return h.Push(snap, label), nil
}

// Undo moves the cursor back one step
func (h History) Undo() (History, error) {
	if !h.CanUndo() {
		return h, ErrNothingToUndo
	}
	h.cursor--
	return h, nil
}

// Redo moves the cursor forward one step
func (h History) Redo() (History, error) {
	if !h.CanRedo() {
		return h, ErrNothingToRedo
	}
	h.cursor++
	return h, nil
}

// CanUndo reports whether Undo would succeed
func (h History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether Redo would succeed
func (h History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Current returns the entry under the cursor
func (h History) Current() Entry {
	return h.entries[h.cursor]
}

// Origin returns the oldest retained entry
func (h History) Origin() Entry {
	return h.entries[0]
}

// At returns the entry at index i
func (h History) At(i int) Entry {
	return h.entries[i]
}

// Len returns the number of retained entries
func (h History) Len() int {
	return len(h.entries)
}

// Cursor returns the index of the current entry
func (h History) Cursor() int {
	return h.cursor
}

// Capacity returns the maximum number of retained entries
func (h History) Capacity() int {
	return h.capacity
}

// Labels returns every entry label, oldest first
func (h History) Labels() []string {
	labels := make([]string, len(h.entries))
	for i, e := range h.entries {
		labels[i] = e.Label
	}
	return labels
}

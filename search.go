package sheetfix

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is a cell whose value contains the active query
type Match struct {
	Row    int
	Column string
}

// Search returns every cell of snap containing query, case-insensitively,
// scanned row-major then in header order. An empty query matches nothing.
func Search(snap *Snapshot, query string) []Match {
	return searchColumns(snap, query, snap.headers)
}

// SearchColumn restricts Search to one column
func SearchColumn(snap *Snapshot, query, column string) []Match {
	if !snap.HasColumn(column) {
		return nil
	}
	return searchColumns(snap, query, []string{column})
}

func searchColumns(snap *Snapshot, query string, columns []string) []Match {
	if query == "" {
		return nil
	}

	var matches []Match
	for i, r := range snap.rows {
		for _, h := range columns {
			if start, _ := indexFold(r.Get(h), query, 0); start >= 0 {
				matches = append(matches, Match{Row: i, Column: h})
			}
		}
	}
	return matches
}

// SearchState is the active query with its ordered matches and selection
type SearchState struct {
	Query   string
	Column  string // optional scope; empty searches every column
	Matches []Match
	Index   int
}

// NewSearchState runs query against snap and selects the first match
func NewSearchState(snap *Snapshot, query, column string) SearchState {
	s := SearchState{Query: query, Column: column}
	return s.refresh(snap)
}

// refresh recomputes matches against snap, keeping the selection in range
func (s SearchState) refresh(snap *Snapshot) SearchState {
	if s.Column != "" {
		s.Matches = SearchColumn(snap, s.Query, s.Column)
	} else {
		s.Matches = Search(snap, s.Query)
	}
	if s.Index >= len(s.Matches) || s.Index < 0 {
		s.Index = 0
	}
	return s
}

// Len returns the number of matches
func (s SearchState) Len() int {
	return len(s.Matches)
}

// Current returns the selected match
func (s SearchState) Current() (Match, bool) {
	if len(s.Matches) == 0 {
		return Match{}, false
	}
	return s.Matches[s.Index], true
}

// Next selects the following match, wrapping to the first
func (s SearchState) Next() SearchState {
	if len(s.Matches) > 0 {
		s.Index = (s.Index + 1) % len(s.Matches)
	}
	return s
}

// Prev selects the preceding match, wrapping to the last
func (s SearchState) Prev() SearchState {
	if len(s.Matches) > 0 {
		s.Index = (s.Index - 1 + len(s.Matches)) % len(s.Matches)
	}
	return s
}

// IsMatch reports whether (row, column) is in the match set
func (s SearchState) IsMatch(row int, column string) bool {
	for _, m := range s.Matches {
		if m.Row == row && m.Column == column {
			return true
		}
		if m.Row > row {
			break
		}
	}
	return false
}

// ReplaceFirst replaces the first case-insensitive occurrence of old in s
func ReplaceFirst(s, old, replacement string) (string, bool) {
	out, n := replaceFold(s, old, replacement, 1)
	return out, n > 0
}

// ReplaceAll replaces every case-insensitive occurrence of query in every
// cell of snap. It returns the new snapshot and the number of occurrences
// replaced; with zero occurrences the original snapshot is returned.
func ReplaceAll(snap *Snapshot, query, replacement string) (*Snapshot, int) {
	return replaceColumns(snap, query, replacement, snap.headers)
}

// ReplaceAllColumn is ReplaceAll limited to one column
func ReplaceAllColumn(snap *Snapshot, query, column, replacement string) (*Snapshot, int) {
	if !snap.HasColumn(column) {
		return snap, 0
	}
	return replaceColumns(snap, query, replacement, []string{column})
}

func replaceColumns(snap *Snapshot, query, replacement string, columns []string) (*Snapshot, int) {
	if query == "" {
		return snap, 0
	}

	var rows []Record
	total := 0
	for i, r := range snap.rows {
		var changed map[string]string
		for _, h := range columns {
			out, n := replaceFold(r.Get(h), query, replacement, -1)
			if n == 0 {
				continue
			}
			if changed == nil {
				changed = make(map[string]string)
			}
			changed[h] = out
			total += n
		}
		if changed == nil {
			continue
		}
		if rows == nil {
			rows = make([]Record, len(snap.rows))
			copy(rows, snap.rows)
		}
		next := r.Clone()
		for h, v := range changed {
			next.Values[h] = v
		}
		rows[i] = next
	}

	if total == 0 {
		return snap, 0
	}
	return snap.withRows(rows), total
}

// replaceFold replaces up to n (all when n < 0) non-overlapping
// case-insensitive occurrences of old, leaving the rest of s byte-identical.
func replaceFold(s, old, replacement string, n int) (string, int) {
	if old == "" || n == 0 {
		return s, 0
	}

	var b strings.Builder
	count := 0
	pos := 0
	for n < 0 || count < n {
		start, size := indexFold(s, old, pos)
		if start < 0 {
			break
		}
		if count == 0 {
			b.Grow(len(s))
		}
		b.WriteString(s[pos:start])
		b.WriteString(replacement)
		pos = start + size
		count++
	}
	if count == 0 {
		return s, 0
	}
	b.WriteString(s[pos:])
	return b.String(), count
}

// indexFold returns the byte offset and matched length of the first
// case-insensitive occurrence of substr in s at or after from, or -1.
func indexFold(s, substr string, from int) (int, int) {
	if substr == "" {
		return -1, 0
	}
	for i := from; i < len(s); {
		if size, ok := hasPrefixFold(s[i:], substr); ok {
			return i, size
		}
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return -1, 0
}

// hasPrefixFold reports whether s starts with prefix under simple case
// folding, returning the number of bytes of s consumed
func hasPrefixFold(s, prefix string) (int, bool) {
	i := 0
	for _, pr := range prefix {
		if i >= len(s) {
			return 0, false
		}
		r, w := utf8.DecodeRuneInString(s[i:])
		if !equalFoldRune(r, pr) {
			return 0, false
		}
		i += w
	}
	return i, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

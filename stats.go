package sheetfix

import (
	"fmt"
	"sort"
	"strings"
)

// ValueCount is a distinct value and how often it occurs
type ValueCount struct {
	Value string
	Count int
}

// Stats summarizes one column. Min, Max and Mean are only set when every
// non-empty value is numeric.
type Stats struct {
	Column    string
	Count     int
	NonEmpty  int
	Empty     int
	Unique    int
	Numeric   bool
	Min       float64
	Max       float64
	Mean      float64
	TopValues []ValueCount
}

// DefaultTopValues is the number of entries in Stats.TopValues
const DefaultTopValues = 5

// ColumnStats computes Stats for column over every row of snap
func ColumnStats(snap *Snapshot, column string) (Stats, error) {
	if !snap.HasColumn(column) {
		return Stats{}, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	st := Stats{Column: column, Count: snap.Len(), Numeric: true}
	counts := make(map[string]int)
	sum := 0.0

	for _, r := range snap.rows {
		v := strings.TrimSpace(r.Get(column))
		if v == "" {
			st.Empty++
			continue
		}
		st.NonEmpty++
		counts[v]++

		if !st.Numeric {
			continue
		}
		f, ok := parseNumber(v)
		if !ok {
			st.Numeric = false
			continue
		}
		if st.NonEmpty == 1 || f < st.Min {
			st.Min = f
		}
		if st.NonEmpty == 1 || f > st.Max {
			st.Max = f
		}
		sum += f
	}

	if st.NonEmpty == 0 {
		st.Numeric = false
	}
	if st.Numeric {
		st.Mean = sum / float64(st.NonEmpty)
	} else {
		st.Min, st.Max = 0, 0
	}

	st.Unique = len(counts)
	st.TopValues = topValues(counts, DefaultTopValues)
	return st, nil
}

// topValues returns the n most frequent values, ties broken alphabetically
func topValues(counts map[string]int, n int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

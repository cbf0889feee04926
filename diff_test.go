package sheetfix_test

import (
	"reflect"
	"testing"

	"github.com/ideamans/go-sheetfix"
)

func TestDiff(t *testing.T) {
	original := table(t,
		[]string{"a", "b"},
		[]string{"1", "2"},
		[]string{"3", "4"},
	)

	tests := []struct {
		name    string
		current *sheetfix.Snapshot
		want    []sheetfix.Change
	}{
		{
			name:    "no edits",
			current: original,
			want:    nil,
		},
		{
			name:    "one cell",
			current: table(t, []string{"a", "b"}, []string{"1", "2"}, []string{"3", "x"}),
			want:    []sheetfix.Change{{Row: 1, Column: "b", Old: "4", New: "x"}},
		},
		{
			name:    "added row",
			current: table(t, []string{"a", "b"}, []string{"1", "2"}, []string{"3", "4"}, []string{"5", ""}),
			want:    []sheetfix.Change{{Row: 2, Column: "a", Old: "", New: "5"}},
		},
		{
			name:    "removed row",
			current: table(t, []string{"a", "b"}, []string{"1", "2"}),
			want: []sheetfix.Change{
				{Row: 1, Column: "a", Old: "3", New: ""},
				{Row: 1, Column: "b", Old: "4", New: ""},
			},
		},
		{
			name:    "new column uses current headers",
			current: table(t, []string{"a", "c", "b"}, []string{"1", "z", "2"}, []string{"3", "", "4"}),
			want:    []sheetfix.Change{{Row: 0, Column: "c", Old: "", New: "z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sheetfix.Diff(original, tt.current)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiff_NilSides(t *testing.T) {
	snap := table(t, []string{"a"}, []string{"1"})

	if got := sheetfix.Diff(nil, snap); len(got) != 1 || got[0].Kind() != sheetfix.ChangeAdded {
		t.Errorf("Diff(nil, snap) = %v", got)
	}
	if got := sheetfix.Diff(snap, nil); len(got) != 0 {
		t.Errorf("Diff(snap, nil) = %v, want none (no current headers)", got)
	}
}

func TestSummarize(t *testing.T) {
	changes := []sheetfix.Change{
		{Row: 0, Column: "a", Old: "1", New: "2"},
		{Row: 0, Column: "b", Old: "", New: "x"},
		{Row: 3, Column: "a", Old: "y", New: ""},
	}

	got := sheetfix.Summarize(changes)
	if got.Total != 3 || got.Rows != 2 || got.Columns != 2 {
		t.Errorf("Summarize() = %+v", got)
	}
	wantKinds := map[sheetfix.ChangeKind]int{
		sheetfix.ChangeModified: 1,
		sheetfix.ChangeAdded:    1,
		sheetfix.ChangeCleared:  1,
	}
	if !reflect.DeepEqual(got.ByKind, wantKinds) {
		t.Errorf("ByKind = %v, want %v", got.ByKind, wantKinds)
	}

	if n := len(sheetfix.Truncate(changes, 2)); n != 2 {
		t.Errorf("Truncate(2) length = %d", n)
	}
	if n := len(sheetfix.Truncate(changes, 0)); n != 3 {
		t.Errorf("Truncate(0) length = %d", n)
	}
}

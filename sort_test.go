package sheetfix_test

import (
	"reflect"
	"testing"

	"github.com/ideamans/go-sheetfix"
)

func TestSortState_Cycle(t *testing.T) {
	var s sheetfix.SortState

	steps := []struct {
		column string
		want   sheetfix.SortState
	}{
		{"a", sheetfix.SortState{Column: "a", Direction: sheetfix.SortAscending}},
		{"a", sheetfix.SortState{Column: "a", Direction: sheetfix.SortDescending}},
		{"a", sheetfix.SortState{}},
		{"a", sheetfix.SortState{Column: "a", Direction: sheetfix.SortAscending}},
		{"b", sheetfix.SortState{Column: "b", Direction: sheetfix.SortAscending}},
	}

	for i, step := range steps {
		s = s.Cycle(step.column)
		if s != step.want {
			t.Fatalf("step %d: Cycle(%q) = %+v, want %+v", i, step.column, s, step.want)
		}
	}
}

func TestSortRows(t *testing.T) {
	snap := table(t,
		[]string{"v"},
		[]string{"10"},
		[]string{""},
		[]string{"9"},
		[]string{"banana"},
		[]string{"Apple"},
		[]string{"1,000"},
	)

	tests := []struct {
		name string
		dir  sheetfix.SortDirection
		want []string
	}{
		{name: "none keeps order", dir: sheetfix.SortNone, want: []string{"10", "", "9", "banana", "Apple", "1,000"}},
		{name: "ascending", dir: sheetfix.SortAscending, want: []string{"9", "10", "1,000", "Apple", "banana", ""}},
		{name: "descending keeps empty last", dir: sheetfix.SortDescending, want: []string{"banana", "Apple", "1,000", "10", "9", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sheetfix.SortRows(snap, "v", tt.dir).Column("v")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortRows() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := snap.Column("v"); got[0] != "10" {
		t.Errorf("SortRows() reordered its input")
	}
}

func TestSortRows_Stable(t *testing.T) {
	snap := table(t,
		[]string{"k", "id"},
		[]string{"x", "1"},
		[]string{"y", "2"},
		[]string{"x", "3"},
	)

	got := sheetfix.SortRows(snap, "k", sheetfix.SortAscending).Column("id")
	want := []string{"1", "3", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortRows() ids = %v, want %v", got, want)
	}
}

func TestSortRows_TypedValues(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{
			name:   "dates chronologically",
			values: []string{"2024-12-01", "2024/03/01", "2024-02-01"},
			want:   []string{"2024-02-01", "2024/03/01", "2024-12-01"},
		},
		{
			name:   "integers beyond float precision",
			values: []string{"9007199254740993", "9007199254740992"},
			want:   []string{"9007199254740992", "9007199254740993"},
		},
		{
			name:   "mixed numbers and text",
			values: []string{"b", "2.5", "a", "10"},
			want:   []string{"2.5", "10", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := [][]string{{"v"}}
			for _, v := range tt.values {
				rows = append(rows, []string{v})
			}
			got := sheetfix.SortRows(table(t, rows...), "v", sheetfix.SortAscending).Column("v")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortRows() = %v, want %v", got, tt.want)
			}
		})
	}
}

package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ideamans/go-sheetfix"
	"github.com/ideamans/go-sheetfix/query"
)

var headers = []string{"name", "age", "price", "first name"}

var rows = []sheetfix.Record{
	sheetfix.NewRecord(map[string]string{"name": "Alice", "age": "30", "price": "$1,200", "first name": "A"}),
	sheetfix.NewRecord(map[string]string{"name": "Bob", "age": "40", "price": "$300", "first name": "B"}),
	sheetfix.NewRecord(map[string]string{"name": "Carol", "age": "25", "price": "", "first name": "C"}),
	sheetfix.NewRecord(map[string]string{"name": "Dave", "age": "35", "price": "$50.5", "first name": "D"}),
}

func TestEngine_Run(t *testing.T) {
	tests := []struct {
		name        string
		engine      *Engine
		query       string
		wantColumns []string
		wantRows    [][]string
	}{
		{
			name:        "numeric comparison and order",
			engine:      New(),
			query:       "SELECT name FROM data WHERE age > 30 ORDER BY age",
			wantColumns: []string{"name"},
			wantRows:    [][]string{{"Dave"}, {"Bob"}},
		},
		{
			name:        "aggregates",
			engine:      New(),
			query:       "SELECT COUNT(*) AS n, SUM(age) AS total, SUM(price) AS spent FROM data",
			wantColumns: []string{"n", "total", "spent"},
			wantRows:    [][]string{{"4", "130", "1550.5"}},
		},
		{
			name:        "empty cells are null",
			engine:      New(),
			query:       "SELECT name, price FROM data WHERE price IS NULL",
			wantColumns: []string{"name", "price"},
			wantRows:    [][]string{{"Carol", ""}},
		},
		{
			name:        "duplicate result columns",
			engine:      New(),
			query:       "SELECT name, name FROM data ORDER BY name LIMIT 1",
			wantColumns: []string{"name", "name_1"},
			wantRows:    [][]string{{"Alice", "Alice"}},
		},
		{
			name:        "quoted column and custom table",
			engine:      &Engine{Table: "people"},
			query:       `SELECT "first name" FROM people WHERE name = 'Bob'`,
			wantColumns: []string{"first name"},
			wantRows:    [][]string{{"B"}},
		},
		{
			name:        "no rows",
			engine:      New(),
			query:       "SELECT name FROM data WHERE age > 100",
			wantColumns: []string{"name"},
			wantRows:    [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.engine.Run(context.Background(), tt.query, headers, rows)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !reflect.DeepEqual(res.Columns, tt.wantColumns) {
				t.Errorf("Columns = %v, want %v", res.Columns, tt.wantColumns)
			}

			got := [][]string{}
			for _, r := range res.Rows {
				got = append(got, r.Fields(res.Columns))
			}
			if !reflect.DeepEqual(got, tt.wantRows) {
				t.Errorf("rows = %v, want %v", got, tt.wantRows)
			}
		})
	}

	if rows[0].Get("price") != "$1,200" {
		t.Errorf("input rows were modified")
	}
}

func TestEngine_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", "  "},
		{"unknown table", "SELECT * FROM nope"},
		{"syntax error", "SELEC name FROM data"},
		{"unknown column", "SELECT missing FROM data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Run(context.Background(), tt.query, headers, rows)
			if !errors.Is(err, query.ErrQuery) {
				t.Errorf("Run(%q) error = %v, want %v", tt.query, err, query.ErrQuery)
			}
		})
	}
}

func TestEngine_LoadErrors(t *testing.T) {
	// SQLite column names are case-insensitive
	caseHeaders := []string{"id", "ID"}
	caseRows := []sheetfix.Record{sheetfix.NewRecord(map[string]string{"id": "1", "ID": "2"})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		headers []string
		rows    []sheetfix.Record
	}{
		{"columns differing only in case", context.Background(), caseHeaders, caseRows},
		{"canceled context", ctx, headers, rows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Run(tt.ctx, "SELECT * FROM data", tt.headers, tt.rows)
			if !errors.Is(err, query.ErrQuery) {
				t.Errorf("Run() error = %v, want %v", err, query.ErrQuery)
			}
		})
	}
}

func TestEngine_FreshDatabasePerRun(t *testing.T) {
	e := New()
	ctx := context.Background()

	if _, err := e.Run(ctx, "DROP TABLE data", headers, rows); err != nil {
		t.Fatalf("Run(DROP) error = %v", err)
	}

	res, err := e.Run(ctx, "SELECT COUNT(*) AS n FROM data", headers, rows)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := res.Rows[0].Get("n"); got != "4" {
		t.Errorf("count = %q, want 4", got)
	}
}

func TestNumericValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"  ", nil},
		{"42", float64(42)},
		{"1,234.5", 1234.5},
		{"$300", float64(300)},
		{"n/a", "n/a"},
	}

	for _, tt := range tests {
		if got := numericValue(tt.in); got != tt.want {
			t.Errorf("numericValue(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}

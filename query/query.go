// Package query runs read-only queries over a dataset. Engines receive the
// rows as they are displayed and never modify them.
package query

import (
	"context"
	"errors"

	"github.com/ideamans/go-sheetfix"
)

// ErrQuery wraps every failure reported by an engine: syntax errors, unknown
// columns and execution errors alike.
var ErrQuery = errors.New("query error")

// Engine runs a query string against headers and rows
type Engine interface {
	Run(ctx context.Context, query string, headers []string, rows []sheetfix.Record) (*Result, error)
}

// Result is an ordered set of records with their column order
type Result struct {
	Columns []string
	Rows    []sheetfix.Record
}

// Len returns the number of result rows
func (r *Result) Len() int {
	return len(r.Rows)
}

// Snapshot wraps the result so it can be displayed or exported like a
// dataset. The result is not added to any history.
func (r *Result) Snapshot() (*sheetfix.Snapshot, error) {
	return sheetfix.NewSnapshot(r.Columns, r.Rows)
}

// RunState runs q against the rows currently displayed by st
func RunState(ctx context.Context, e Engine, st sheetfix.State, q string) (*Result, error) {
	if !st.Loaded() {
		return nil, sheetfix.ErrNotLoaded
	}
	view := st.View()
	return e.Run(ctx, q, view.Headers(), view.Rows())
}

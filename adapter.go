package sheetfix

import (
	"context"
	"fmt"
)

// HeaderMode selects how a parser treats the first input row
type HeaderMode int

const (
	HeaderFirstRow HeaderMode = iota // first row holds the column names
	HeaderNone                       // columns are named column_1..column_n
)

// DiagnosticKind classifies a parse diagnostic
type DiagnosticKind int

const (
	DiagFieldCount DiagnosticKind = iota
	DiagQuote
	DiagDuplicateHeader
	DiagEmptyHeader
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagFieldCount:
		return "field_count"
	case DiagQuote:
		return "quote"
	case DiagDuplicateHeader:
		return "duplicate_header"
	case DiagEmptyHeader:
		return "empty_header"
	default:
		return "unknown"
	}
}

// Diagnostic is a structural issue reported by a parser. RowIndex refers to
// the row order as parsed (-1 for the header row) and is never remapped
// after later edits.
type Diagnostic struct {
	RowIndex int
	Kind     DiagnosticKind
	Message  string
}

// ParseResult is the outcome of one successful load
type ParseResult struct {
	Source      string // display name of the input, e.g. a file path
	Headers     []string
	Rows        []Record
	Delimiter   rune // 0 when the source is not delimited text
	Diagnostics []Diagnostic
}

// Loader retrieves a complete dataset from a backend
type Loader interface {
	// Load parses the whole input. Partial results are never returned.
	Load(ctx context.Context) (*ParseResult, error)
}

// Exporter writes a dataset back out
type Exporter interface {
	// Export replaces the destination content with headers and rows
	Export(ctx context.Context, headers []string, rows []Record) error
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context) (*ParseResult, error)

// Load calls f(ctx)
func (f LoaderFunc) Load(ctx context.Context) (*ParseResult, error) {
	return f(ctx)
}

// DefaultColumnName returns the generated name for the zero-based column i
func DefaultColumnName(i int) string {
	return fmt.Sprintf("column_%d", i+1)
}

// UniqueHeaders makes raw header cells usable as column names. Empty cells
// get a generated name and repeated names get a numeric suffix; each fix is
// reported as a header-row diagnostic.
func UniqueHeaders(raw []string) ([]string, []Diagnostic) {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	var diags []Diagnostic

	for _, r := range raw {
		if r != "" {
			seen[r] = true
		}
	}

	used := make(map[string]bool, len(raw))
	for i, name := range raw {
		switch {
		case name == "":
			name = uniqueName(DefaultColumnName(i), used, seen)
			diags = append(diags, Diagnostic{
				RowIndex: -1,
				Kind:     DiagEmptyHeader,
				Message:  fmt.Sprintf("column %d has no name, using %q", i+1, name),
			})
		case used[name]:
			orig := name
			name = uniqueName(name, used, seen)
			diags = append(diags, Diagnostic{
				RowIndex: -1,
				Kind:     DiagDuplicateHeader,
				Message:  fmt.Sprintf("duplicate column %q renamed to %q", orig, name),
			})
		}
		used[name] = true
		headers[i] = name
	}
	return headers, diags
}

func uniqueName(base string, used, reserved map[string]bool) string {
	if !used[base] && !reserved[base] {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !used[candidate] && !reserved[candidate] {
			return candidate
		}
	}
}

// Package sqlite runs SQL over a dataset by copying it into a private
// in-memory SQLite database for each query.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ideamans/go-sheetfix"
	"github.com/ideamans/go-sheetfix/query"
	_ "modernc.org/sqlite"
)

// DefaultTable is the table name queries select from
const DefaultTable = "data"

// Engine implements query.Engine with SQLite. Columns detected as numbers
// or currency get NUMERIC affinity so they compare and aggregate as numbers;
// everything else is TEXT.
type Engine struct {
	Table    string             // defaults to DefaultTable
	Detector *sheetfix.Detector // nil uses a detector with default settings
}

// New creates an Engine querying the table "data"
func New() *Engine {
	return &Engine{Table: DefaultTable}
}

// Run loads rows and executes q. Each call uses a fresh database, so
// statements that modify the table have no lasting effect.
func (e *Engine) Run(ctx context.Context, q string, headers []string, rows []sheetfix.Record) (*query.Result, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("%w: empty query", query.ErrQuery)
	}

	table := e.Table
	if table == "" {
		table = DefaultTable
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite: %v", query.ErrQuery, err)
	}
	defer db.Close()
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	if err := e.load(ctx, db, table, headers, rows); err != nil {
		return nil, err
	}

	sqlRows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", query.ErrQuery, err)
	}
	defer sqlRows.Close()

	result, err := scanResult(sqlRows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", query.ErrQuery, err)
	}
	return result, nil
}

func (e *Engine) load(ctx context.Context, db *sql.DB, table string, headers []string, rows []sheetfix.Record) error {
	snap, err := sheetfix.NewSnapshot(headers, rows)
	if err != nil {
		return fmt.Errorf("%w: %v", query.ErrQuery, err)
	}

	d := e.Detector
	if d == nil {
		d = sheetfix.NewDetector(nil)
	}

	numeric := make([]bool, len(headers))
	colDefs := make([]string, len(headers))
	for i, h := range headers {
		sqlType := "TEXT"
		switch d.Detect(snap, h).Type {
		case sheetfix.TypeNumber, sheetfix.TypeCurrency:
			sqlType = "NUMERIC"
			numeric[i] = true
		}
		colDefs[i] = fmt.Sprintf("%s %s", quoteIdent(h), sqlType)
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(colDefs, ", ")))
	if err != nil {
		return fmt.Errorf("%w: create table %s: %v", query.ErrQuery, table, err)
	}
	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(headers))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), strings.Join(placeholders, ","))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", query.ErrQuery, err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: prepare insert: %v", query.ErrQuery, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		vals := make([]any, len(headers))
		for i, h := range headers {
			v := row.Get(h)
			if numeric[i] {
				vals[i] = numericValue(v)
			} else {
				vals[i] = v
			}
		}
		if _, err := stmt.ExecContext(ctx, vals...); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: insert into %s: %v", query.ErrQuery, table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", query.ErrQuery, err)
	}
	return nil
}

// numericValue strips grouping and currency marks so SQLite can store the
// value as a number. Empty cells become NULL; anything unparseable is kept
// as text.
func numericValue(v string) any {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', '€', '£', '¥', ' ':
			return -1
		}
		return r
	}, s)
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return f
	}
	return v
}

func scanResult(sqlRows *sql.Rows) (*query.Result, error) {
	names, err := sqlRows.Columns()
	if err != nil {
		return nil, err
	}
	columns, _ := sheetfix.UniqueHeaders(names)

	result := &query.Result{Columns: columns, Rows: []sheetfix.Record{}}
	for sqlRows.Next() {
		ptrs := make([]any, len(columns))
		for i := range ptrs {
			ptrs[i] = new(any)
		}
		if err := sqlRows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record := sheetfix.BlankRecord(columns)
		for i, c := range columns {
			record.Values[c] = text(*(ptrs[i].(*any)))
		}
		result.Rows = append(result.Rows, record)
	}
	return result, sqlRows.Err()
}

// text renders a value returned by the driver: int64, float64, string,
// []byte, time.Time or nil
func text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

package delimited

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/ideamans/go-sheetfix"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser turns delimited text into a sheetfix.ParseResult.
//
// Quote errors do not fail the parse: the input is read again with lazy
// quoting and the first error is reported as a diagnostic. Rows with the
// wrong number of fields are padded or truncated to the header width and
// reported the same way.
type Parser struct {
	Reader     io.Reader
	HeaderMode sheetfix.HeaderMode
	Delimiter  rune   // 0 sniffs one of Candidates
	Source     string // copied to ParseResult.Source
}

// Parse reads the whole input
func (p *Parser) Parse(ctx context.Context) (*sheetfix.ParseResult, error) {
	if p.Reader == nil {
		return nil, ErrMissingReader
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(p.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	delim := p.Delimiter
	if delim == 0 {
		delim = Sniff(data)
	} else if !validDelimiter(delim) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, delim)
	}

	result := &sheetfix.ParseResult{
		Source:    p.Source,
		Delimiter: delim,
	}

	headerRows := 0
	if p.HeaderMode == sheetfix.HeaderFirstRow {
		headerRows = 1
	}

	records, read, err := readRecords(ctx, data, delim, false)
	if err != nil {
		var pe *csv.ParseError
		if !errors.As(err, &pe) {
			return nil, err
		}
		result.Diagnostics = append(result.Diagnostics, sheetfix.Diagnostic{
			RowIndex: read - headerRows,
			Kind:     sheetfix.DiagQuote,
			Message:  pe.Error(),
		})

		records, _, err = readRecords(ctx, data, delim, true)
		if err != nil {
			return nil, fmt.Errorf("failed to parse input: %w", err)
		}
	}

	if len(records) == 0 {
		return result, nil
	}

	if headerRows == 1 {
		headers, diags := sheetfix.UniqueHeaders(records[0])
		result.Headers = headers
		result.Diagnostics = append(result.Diagnostics, diags...)
		records = records[1:]
	} else {
		width := 0
		for _, rec := range records {
			width = max(width, len(rec))
		}
		result.Headers = make([]string, width)
		for i := range result.Headers {
			result.Headers[i] = sheetfix.DefaultColumnName(i)
		}
	}

	result.Rows = make([]sheetfix.Record, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(result.Headers) {
			result.Diagnostics = append(result.Diagnostics, sheetfix.Diagnostic{
				RowIndex: i,
				Kind:     sheetfix.DiagFieldCount,
				Message:  fmt.Sprintf("expected %d fields, found %d", len(result.Headers), len(rec)),
			})
		}

		record := sheetfix.BlankRecord(result.Headers)
		for j, value := range rec {
			if j < len(result.Headers) {
				record.Values[result.Headers[j]] = value
			}
		}
		result.Rows = append(result.Rows, record)
	}

	return result, nil
}

// readRecords returns the records read and, on error, how many were read
// successfully before it.
func readRecords(ctx context.Context, data []byte, delim rune, lazy bool) ([][]string, int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = lazy

	var records [][]string
	for {
		if len(records)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, len(records), err
			}
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, len(records), nil
		}
		if err != nil {
			return nil, len(records), err
		}
		records = append(records, rec)
	}
}

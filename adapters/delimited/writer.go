package delimited

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ideamans/go-sheetfix"
)

// Writer serializes a header row followed by records
type Writer struct {
	w         io.Writer
	delimiter rune
}

// NewWriter creates a Writer. A zero delimiter writes commas.
func NewWriter(w io.Writer, delimiter rune) *Writer {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Writer{w: w, delimiter: delimiter}
}

// Write writes headers and then one line per record, in header order
func (w *Writer) Write(ctx context.Context, headers []string, rows []sheetfix.Record) error {
	if !validDelimiter(w.delimiter) {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, w.delimiter)
	}

	cw := csv.NewWriter(w.w)
	cw.Comma = w.delimiter

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for i, record := range rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := cw.Write(record.Fields(headers)); err != nil {
			return fmt.Errorf("error writing record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

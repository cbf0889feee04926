package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ideamans/go-sheetfix"
	"github.com/xuri/excelize/v2"
)

// Adapter reads and writes one sheet of an xlsx workbook. It implements
// sheetfix.Loader and sheetfix.Exporter.
type Adapter struct {
	config *Config
	mu     sync.RWMutex
}

// New creates a new Excel adapter with the given configuration
func New(config *Config) (*Adapter, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create a copy of config to avoid external modifications
	configCopy := *config

	return &Adapter{
		config: &configCopy,
	}, nil
}

// Sheets lists the worksheet names of the workbook
func (a *Adapter) Sheets(ctx context.Context) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// Load reads the configured sheet. Cell values are read as their formatted
// text, exactly as displayed by a spreadsheet application.
func (a *Adapter) Load(ctx context.Context) (*sheetfix.ParseResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := a.config.SheetName
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, ErrNoSheets
		}
		sheet = list[0]
	}

	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet index: %w", err)
	}
	if index == -1 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &sheetfix.ParseResult{
		Source: fmt.Sprintf("%s[%s]", a.config.FilePath, sheet),
	}
	if len(rows) == 0 {
		return result, nil
	}

	if a.config.HeaderMode == sheetfix.HeaderNone {
		width := 0
		for _, row := range rows {
			width = max(width, len(row))
		}
		result.Headers = make([]string, width)
		for i := range result.Headers {
			result.Headers[i] = sheetfix.DefaultColumnName(i)
		}
	} else {
		result.Headers, result.Diagnostics = sheetfix.UniqueHeaders(rows[0])
		rows = rows[1:]
	}

	result.Rows = make([]sheetfix.Record, 0, len(rows))
	for i, row := range rows {
		// GetRows drops trailing empty cells, so only surplus cells are reported
		if len(row) > len(result.Headers) {
			result.Diagnostics = append(result.Diagnostics, sheetfix.Diagnostic{
				RowIndex: i,
				Kind:     sheetfix.DiagFieldCount,
				Message:  fmt.Sprintf("expected %d fields, found %d", len(result.Headers), len(row)),
			})
		}

		record := sheetfix.BlankRecord(result.Headers)
		for j, value := range row {
			if j < len(result.Headers) {
				record.Values[result.Headers[j]] = value
			}
		}
		result.Rows = append(result.Rows, record)
	}

	return result, nil
}

// Export writes headers and rows into a fresh workbook at the configured
// path, replacing any existing file. Every value is written as text.
func (a *Adapter) Export(ctx context.Context, headers []string, rows []sheetfix.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(a.config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := a.config.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if sheet != DefaultSheetName {
		index, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
		f.SetActiveSheet(index)
		_ = f.DeleteSheet(DefaultSheetName)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	headerValues := make([]interface{}, len(headers))
	for i, col := range headers {
		headerValues[i] = col
	}
	if err := sw.SetRow("A1", headerValues); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		rowValues := make([]interface{}, len(headers))
		for j, col := range headers {
			rowValues[j] = record.Get(col)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, rowValues); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}

	if err := f.SaveAs(a.config.FilePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

func (a *Adapter) open(ctx context.Context) (*excelize.File, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := excelize.OpenFile(a.config.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileFormat, err)
	}
	return f, nil
}

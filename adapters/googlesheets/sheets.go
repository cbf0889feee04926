package googlesheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ideamans/go-sheetfix"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// columnSpan is the A1 column range read and cleared on every call
const columnSpan = "A:ZZ"

// SheetsAdaptor imports a sheet as a dataset and writes edited datasets
// back. It implements sheetfix.Loader and sheetfix.Exporter. Both directions
// are one-shot calls; nothing is kept in sync.
type SheetsAdaptor struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	headerMode    sheetfix.HeaderMode
}

// NewSheetsAdaptor creates a new Google Sheets adaptor with provided options
func NewSheetsAdaptor(ctx context.Context, config Config, opts ...option.ClientOption) (*SheetsAdaptor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsAdaptor{
		service:       service,
		spreadsheetID: config.SpreadsheetID,
		sheetName:     config.SheetName,
		headerMode:    config.HeaderMode,
	}, nil
}

// Sheets lists the sheet titles of the spreadsheet
func (a *SheetsAdaptor) Sheets(ctx context.Context) ([]string, error) {
	resp, err := a.service.Spreadsheets.Get(a.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	titles := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

// Load reads the sheet's formatted values
func (a *SheetsAdaptor) Load(ctx context.Context) (*sheetfix.ParseResult, error) {
	sheet, err := a.resolveSheet(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := a.service.Spreadsheets.Values.Get(a.spreadsheetID, a1Range(sheet, columnSpan)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet data: %w", err)
	}

	result := &sheetfix.ParseResult{
		Source: fmt.Sprintf("gsheet:%s/%s", a.spreadsheetID, sheet),
	}
	if len(resp.Values) == 0 {
		return result, nil
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = cellText(v)
		}
	}

	if a.headerMode == sheetfix.HeaderNone {
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

	// The API omits trailing empty cells, so only surplus cells are reported
	result.Rows = make([]sheetfix.Record, 0, len(rows))
	for i, row := range rows {
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

// Export clears the sheet and writes headers and rows as raw text
func (a *SheetsAdaptor) Export(ctx context.Context, headers []string, rows []sheetfix.Record) error {
	sheet, err := a.resolveSheet(ctx)
	if err != nil {
		return err
	}

	values := make([][]interface{}, 0, len(rows)+1)
	header := make([]interface{}, len(headers))
	for i, col := range headers {
		header[i] = col
	}
	values = append(values, header)

	for _, record := range rows {
		row := make([]interface{}, len(headers))
		for i, col := range headers {
			row[i] = record.Get(col)
		}
		values = append(values, row)
	}

	_, err = a.service.Spreadsheets.Values.Clear(a.spreadsheetID, a1Range(sheet, columnSpan), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	vr := &sheets.ValueRange{
		Values: values,
	}
	_, err = a.service.Spreadsheets.Values.Update(a.spreadsheetID, a1Range(sheet, "A1"), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}

	return nil
}

// resolveSheet returns the configured sheet name, or the first sheet's title
// when none is configured.
func (a *SheetsAdaptor) resolveSheet(ctx context.Context) (string, error) {
	if a.sheetName != "" {
		return a.sheetName, nil
	}

	titles, err := a.Sheets(ctx)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", ErrSheetNotFound
	}
	return titles[0], nil
}

// a1Range builds an A1 range, quoting sheet names that need it
func a1Range(sheet, cells string) string {
	plain := sheet != ""
	for _, r := range sheet {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			plain = false
			break
		}
	}
	if plain {
		return sheet + "!" + cells
	}
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}

// cellText converts a Google Sheets cell value to its text form
func cellText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}

package googlesheets

import "errors"

var (
	// ErrMissingSpreadsheetID is returned when spreadsheet ID is not specified
	ErrMissingSpreadsheetID = errors.New("spreadsheet ID is required")

	// ErrSheetNotFound is returned when the specified sheet does not exist
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrNoCredentials is returned when no key file is given and
	// GOOGLE_APPLICATION_CREDENTIALS is not set
	ErrNoCredentials = errors.New("no JSON key file path provided and GOOGLE_APPLICATION_CREDENTIALS not set")
)

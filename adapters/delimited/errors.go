package delimited

import "errors"

var (
	// ErrMissingFilePath is returned when file path is not specified
	ErrMissingFilePath = errors.New("file path is required")

	// ErrMissingReader is returned when a Parser has no input
	ErrMissingReader = errors.New("reader is required")

	// ErrInvalidDelimiter is returned for delimiters encoding/csv cannot use
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)

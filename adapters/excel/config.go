package excel

import (
	"time"

	"github.com/ideamans/go-sheetfix"
)

// DefaultSheetName is used for export when Config.SheetName is empty
const DefaultSheetName = "Sheet1"

// Config holds configuration for Excel adapter
type Config struct {
	FilePath   string              // Path to the Excel file
	SheetName  string              // Sheet to read or write; empty loads the first sheet
	HeaderMode sheetfix.HeaderMode // Whether the first row holds column names
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return ErrMissingFilePath
	}
	return nil
}

// DefaultSessionConfig returns the recommended session configuration for Excel files
func DefaultSessionConfig() *sheetfix.Config {
	cfg := sheetfix.DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryInterval = 500 * time.Millisecond
	return cfg
}

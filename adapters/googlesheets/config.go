package googlesheets

import (
	"fmt"
	"strings"
	"time"

	"github.com/ideamans/go-sheetfix"
)

// Config represents configuration specific to Google Sheets adapter
type Config struct {
	SpreadsheetID string
	SheetName     string // empty selects the first sheet
	HeaderMode    sheetfix.HeaderMode
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.SpreadsheetID == "" {
		return ErrMissingSpreadsheetID
	}
	return nil
}

// ParseLocation parses "ID" or "ID/Sheet" as used on the command line
func ParseLocation(loc string) (Config, error) {
	id, sheet, _ := strings.Cut(loc, "/")
	config := Config{SpreadsheetID: id, SheetName: sheet}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid location %q: %w", loc, err)
	}
	return config, nil
}

// DefaultSessionConfig returns the recommended session configuration for
// Google Sheets, which throttles bursts with 429 and 503 responses.
func DefaultSessionConfig() *sheetfix.Config {
	cfg := sheetfix.DefaultConfig()
	cfg.MaxRetries = 3
	cfg.RetryInterval = 500 * time.Millisecond
	return cfg
}

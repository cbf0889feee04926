package delimited

import (
	"fmt"
	"time"

	"github.com/ideamans/go-sheetfix"
)

// Config represents delimited file adapter configuration
type Config struct {
	FilePath   string              // Path to the delimited text file
	HeaderMode sheetfix.HeaderMode // Whether the first record holds column names
	Delimiter  rune                // Field separator, 0 to sniff on load
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return ErrMissingFilePath
	}
	if c.Delimiter != 0 && !validDelimiter(c.Delimiter) {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, c.Delimiter)
	}
	return nil
}

// DefaultSessionConfig returns session settings suited to local files:
// a single retry with a short interval.
func DefaultSessionConfig() *sheetfix.Config {
	cfg := sheetfix.DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryInterval = 200 * time.Millisecond
	return cfg
}

func validDelimiter(r rune) bool {
	switch r {
	case '"', '\r', '\n', 0xFFFD:
		return false
	}
	return r > 0
}

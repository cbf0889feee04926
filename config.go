package sheetfix

import "time"

const (
	DefaultHistoryCapacity     = 50
	DefaultRowHeight           = 1
	DefaultOverscan            = 5
	DefaultSampleSize          = 200
	DefaultConfidenceThreshold = 0.6
)

// Config represents configuration for a session and the engines it drives
type Config struct {
	HistoryCapacity     int           // Maximum number of history entries (default: 50)
	RowHeight           int           // Fixed row height in display units (default: 1)
	Overscan            int           // Rows materialized beyond the viewport on each side (DefaultConfig: 5, zero disables)
	SampleSize          int           // Non-empty values sampled per column by the type detector (default: 200)
	ConfidenceThreshold float64       // Minimum match ratio for a classifier to win (default: 0.6)
	MaxRetries          int           // Load retries after the first attempt (default: 0)
	RetryInterval       time.Duration // Base interval for exponential backoff between load retries (default: 100ms)
}

// DefaultConfig returns the configuration used when none is supplied
func DefaultConfig() *Config {
	return &Config{
		HistoryCapacity:     DefaultHistoryCapacity,
		RowHeight:           DefaultRowHeight,
		Overscan:            DefaultOverscan,
		SampleSize:          DefaultSampleSize,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		RetryInterval:       100 * time.Millisecond,
	}
}

// withDefaults returns a copy with zero values replaced by defaults.
// Overscan is taken as given since zero is a valid choice.
func (c *Config) withDefaults() Config {
	if c == nil {
		return *DefaultConfig()
	}

	out := *c
	if out.HistoryCapacity <= 0 {
		out.HistoryCapacity = DefaultHistoryCapacity
	}
	if out.RowHeight <= 0 {
		out.RowHeight = DefaultRowHeight
	}
	if out.Overscan < 0 {
		out.Overscan = 0
	}
	if out.SampleSize <= 0 {
		out.SampleSize = DefaultSampleSize
	}
	if out.ConfidenceThreshold <= 0 || out.ConfidenceThreshold > 1 {
		out.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if out.MaxRetries < 0 {
		out.MaxRetries = 0
	}
	if out.RetryInterval <= 0 {
		out.RetryInterval = 100 * time.Millisecond
	}
	return out
}

package delimited

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ideamans/go-sheetfix"
)

// Adapter reads and writes a delimited text file. It implements
// sheetfix.Loader and sheetfix.Exporter.
type Adapter struct {
	config *Config
	mu     sync.RWMutex

	// delimiter seen by the last Load, reused by Export
	loaded rune
}

// New creates a new delimited file adapter with the given configuration
func New(config *Config) (*Adapter, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	configCopy := *config
	if configCopy.Delimiter == 0 {
		configCopy.Delimiter = DelimiterForPath(configCopy.FilePath)
	}

	return &Adapter{
		config: &configCopy,
	}, nil
}

// Load parses the configured file
func (a *Adapter) Load(ctx context.Context) (*sheetfix.ParseResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.Open(a.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	p := &Parser{
		Reader:     f,
		HeaderMode: a.config.HeaderMode,
		Delimiter:  a.config.Delimiter,
		Source:     a.config.FilePath,
	}
	result, err := p.Parse(ctx)
	if err != nil {
		return nil, err
	}
	a.loaded = result.Delimiter
	return result, nil
}

// Export replaces the configured file. The write goes to a temporary file in
// the same directory which is then renamed over the target.
func (a *Adapter) Export(ctx context.Context, headers []string, rows []sheetfix.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(a.config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sheetfix-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	delim := a.config.Delimiter
	if delim == 0 {
		delim = a.loaded
	}
	if err := NewWriter(tmp, delim).Write(ctx, headers, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmp.Name(), a.config.FilePath); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// Delimiter returns the configured delimiter, or the one detected by the
// last Load when none was configured
func (a *Adapter) Delimiter() rune {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.config.Delimiter != 0 {
		return a.config.Delimiter
	}
	return a.loaded
}

// ExportName returns the name edits are saved under: the input name with
// ".edited" before its extension. Names without an extension get ".csv".
func ExportName(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".csv"
	}
	return base + ".edited" + ext
}

// DelimiterForPath returns the delimiter implied by a file extension, or 0
// when the content should be sniffed.
func DelimiterForPath(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	case ".psv":
		return '|'
	}
	return 0
}

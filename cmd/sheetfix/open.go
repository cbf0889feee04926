package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ideamans/go-sheetfix"
	"github.com/ideamans/go-sheetfix/adapters/delimited"
	"github.com/ideamans/go-sheetfix/adapters/excel"
	"github.com/ideamans/go-sheetfix/adapters/googlesheets"
)

// gsheetPrefix marks a Google Sheets location: gsheet:SPREADSHEET_ID[/Sheet]
const gsheetPrefix = "gsheet:"

type openOptions struct {
	Sheet    string
	NoHeader bool
}

func (o openOptions) headerMode() sheetfix.HeaderMode {
	if o.NoHeader {
		return sheetfix.HeaderNone
	}
	return sheetfix.HeaderFirstRow
}

// source is an opened location together with the session settings that
// suit its backend
type source struct {
	Name     string
	Loader   sheetfix.Loader
	Exporter sheetfix.Exporter
	Config   *sheetfix.Config

	// ExportName is where edits are written: a sibling file for local
	// files, the sheet itself for Google Sheets
	ExportName string
}

func isExcel(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// openSource resolves loc to an adapter by prefix or file extension
func openSource(ctx context.Context, loc string, opts openOptions) (*source, error) {
	if strings.HasPrefix(loc, gsheetPrefix) {
		config, err := googlesheets.ParseLocation(strings.TrimPrefix(loc, gsheetPrefix))
		if err != nil {
			return nil, err
		}
		if opts.Sheet != "" {
			config.SheetName = opts.Sheet
		}
		config.HeaderMode = opts.headerMode()

		adaptor, err := googlesheets.NewWithDefaultCredentials(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("connect to Google Sheets: %w", err)
		}
		return &source{
			Name:       loc,
			Loader:     adaptor,
			Exporter:   adaptor,
			Config:     googlesheets.DefaultSessionConfig(),
			ExportName: loc,
		}, nil
	}

	if isExcel(loc) {
		adapter, err := excel.New(&excel.Config{FilePath: loc, SheetName: opts.Sheet, HeaderMode: opts.headerMode()})
		if err != nil {
			return nil, err
		}
		target := delimited.ExportName(loc)
		out, err := excel.New(&excel.Config{FilePath: target, SheetName: opts.Sheet})
		if err != nil {
			return nil, err
		}
		return &source{
			Name:       loc,
			Loader:     adapter,
			Exporter:   out,
			Config:     excel.DefaultSessionConfig(),
			ExportName: target,
		}, nil
	}

	adapter, err := delimited.New(&delimited.Config{FilePath: loc, HeaderMode: opts.headerMode()})
	if err != nil {
		return nil, err
	}
	target := delimited.ExportName(loc)
	return &source{
		Name:       loc,
		Loader:     adapter,
		Exporter:   &sameDelimiter{from: adapter, path: target},
		Config:     delimited.DefaultSessionConfig(),
		ExportName: target,
	}, nil
}

// sameDelimiter exports to path with the delimiter detected when from was
// loaded, unless path's extension implies one
type sameDelimiter struct {
	from *delimited.Adapter
	path string
}

func (s *sameDelimiter) Export(ctx context.Context, headers []string, rows []sheetfix.Record) error {
	delim := delimited.DelimiterForPath(s.path)
	if delim == 0 {
		delim = s.from.Delimiter()
	}
	out, err := delimited.New(&delimited.Config{FilePath: s.path, Delimiter: delim})
	if err != nil {
		return err
	}
	return out.Export(ctx, headers, rows)
}

// openTarget returns an exporter writing to loc. File formats follow the
// extension.
func openTarget(ctx context.Context, loc string, opts openOptions) (sheetfix.Exporter, error) {
	if strings.HasPrefix(loc, gsheetPrefix) {
		src, err := openSource(ctx, loc, opts)
		if err != nil {
			return nil, err
		}
		return src.Exporter, nil
	}
	if isExcel(loc) {
		return excel.New(&excel.Config{FilePath: loc, SheetName: opts.Sheet})
	}
	return delimited.New(&delimited.Config{FilePath: loc})
}

// loadState opens loc and loads it through a session
func loadState(ctx context.Context, loc string, opts openOptions) (*sheetfix.Session, *source, error) {
	src, err := openSource(ctx, loc, opts)
	if err != nil {
		return nil, nil, err
	}
	session := sheetfix.NewSession(src.Loader, src.Config)
	if err := session.Load(ctx); err != nil {
		session.Close()
		return nil, nil, err
	}
	return session, src, nil
}

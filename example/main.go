package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ideamans/go-sheetfix"
	"github.com/ideamans/go-sheetfix/adapters/googlesheets"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Create adapter configuration
	adapterConfig := googlesheets.Config{
		SpreadsheetID: "your-spreadsheet-id",
		SheetName:     "example",
	}

	// Initialize Google Sheets adapter with JSON key file
	adapter, err := googlesheets.NewWithJSONKeyFile(ctx, adapterConfig, "./service-account.json")
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}

	// Create session using recommended defaults for Google Sheets
	session := sheetfix.NewSession(adapter, googlesheets.DefaultSessionConfig())
	if err := session.Load(ctx); err != nil {
		return fmt.Errorf("failed to load sheet: %w", err)
	}
	defer session.Close()

	st, err := session.State()
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d rows, %d columns\n", st.View().Len(), st.View().Width())
	for _, d := range st.Diagnostics() {
		fmt.Printf("  warning: %s\n", d.Message)
	}

	// Repair what the detector recognizes
	var report sheetfix.RepairReport
	st, err = session.Update(func(st sheetfix.State) (sheetfix.State, error) {
		next, r, err := st.AutoRepair()
		report = r
		return next, err
	})
	if errors.Is(err, sheetfix.ErrNoChanges) {
		fmt.Println("Nothing to repair")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to repair: %w", err)
	}

	for name, n := range report.ByTemplate() {
		fmt.Printf("  %s: %d changes\n", name, n)
	}

	changes := st.Diff()
	summary := sheetfix.Summarize(changes)
	fmt.Printf("%d cells changed in %d rows\n", summary.Total, summary.Rows)
	for _, c := range sheetfix.Truncate(changes, 10) {
		fmt.Printf("  R%d %s: %q -> %q\n", c.Row+1, c.Column, c.Old, c.New)
	}

	// Write the repaired rows back to the sheet
	if err := session.Export(ctx, adapter); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	return nil
}

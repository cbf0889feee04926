package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ideamans/go-sheetfix"
	"github.com/ideamans/go-sheetfix/adapters/excel"
	"github.com/ideamans/go-sheetfix/query"
	"github.com/ideamans/go-sheetfix/query/sqlite"
)

func main() {
	ctx := context.Background()

	// Excel adapter configuration
	adapter, err := excel.New(&excel.Config{
		FilePath:  "./example_data.xlsx",
		SheetName: "users",
	})
	if err != nil {
		log.Fatalf("Failed to create Excel adapter: %v", err)
	}

	// 1. Write a messy workbook to work on
	headers := []string{"id", "name", "email", "age", "department", "joined_at"}
	rows := []sheetfix.Record{
		sheetfix.NewRecord(map[string]string{"id": "1", "name": "  Alice   Johnson ", "email": "Alice@Example.com", "age": "30", "department": "Engineering", "joined_at": "2024/01/15"}),
		sheetfix.NewRecord(map[string]string{"id": "2", "name": "Bob Smith", "email": "bob@example.com", "age": "1,025", "department": "Marketing", "joined_at": "2024-02-01"}),
		sheetfix.NewRecord(map[string]string{"id": "3", "name": "Charlie Brown", "email": "CHARLIE@example.com", "age": "35", "department": "", "joined_at": "2024-03-10"}),
		sheetfix.NewRecord(map[string]string{"id": "3", "name": "Charlie Brown", "email": "CHARLIE@example.com", "age": "35", "department": "", "joined_at": "2024-03-10"}),
	}
	if err := adapter.Export(ctx, headers, rows); err != nil {
		log.Fatalf("Failed to write workbook: %v", err)
	}

	// 2. Load it into a session
	session := sheetfix.NewSession(adapter, excel.DefaultSessionConfig())
	if err := session.Load(ctx); err != nil {
		log.Fatalf("Failed to load workbook: %v", err)
	}
	defer session.Close()

	st, err := session.State()
	if err != nil {
		log.Fatal(err)
	}

	// 3. Column types
	fmt.Println("Detected column types:")
	for _, h := range st.View().Headers() {
		d := st.Detect(h)
		fmt.Printf("  %-12s %-8s %.2f\n", h, d.Type, d.Confidence)
	}

	// 4. Repair templates, one history entry each
	fmt.Println("\nApplying templates...")
	for _, name := range []string{
		sheetfix.TemplateCollapseSpaces,
		sheetfix.TemplateRemoveDuplicateRows,
		sheetfix.TemplateNormalizeEmails,
		sheetfix.TemplateNormalizeDates,
		sheetfix.TemplateFillEmptyNA,
	} {
		var report sheetfix.RepairReport
		_, err := session.Update(func(st sheetfix.State) (sheetfix.State, error) {
			next, r, err := st.ApplyTemplate(name)
			report = r
			return next, err
		})
		switch {
		case errors.Is(err, sheetfix.ErrNoChanges):
			fmt.Printf("  %s: nothing to do\n", name)
		case err != nil:
			log.Fatalf("Template %s failed: %v", name, err)
		default:
			fmt.Printf("  %s: %d changes, %d rows removed\n", name, report.Count(), report.RowsRemoved)
		}
	}

	st, _ = session.State()
	fmt.Printf("\nHistory: %s\n", strings.Join(st.History().Labels(), " > "))

	// 5. Statistics
	stats, err := sheetfix.ColumnStats(st.View(), "age")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("age: min %v, max %v, mean %.1f\n", stats.Min, stats.Max, stats.Mean)

	// 6. SQL over the repaired rows
	result, err := query.RunState(ctx, sqlite.New(), st, "SELECT department, COUNT(*) AS people FROM data GROUP BY department ORDER BY department")
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	fmt.Println("\nPeople per department:")
	for _, r := range result.Rows {
		fmt.Printf("  %-12s %s\n", r.Get("department"), r.Get("people"))
	}

	// 7. Save the repaired sheet next to the original
	out, err := excel.New(&excel.Config{FilePath: "./example_data.repaired.xlsx", SheetName: "users"})
	if err != nil {
		log.Fatal(err)
	}
	if err := session.Export(ctx, out); err != nil {
		log.Fatalf("Failed to export: %v", err)
	}
	fmt.Println("\nwrote ./example_data.repaired.xlsx")
}

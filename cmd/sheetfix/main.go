// Command sheetfix inspects, repairs and edits tabular files: CSV and other
// delimited text, Excel workbooks and Google Sheets.
//
//	sheetfix view data.csv
//	sheetfix repair -t auto data.csv
//	sheetfix query data.xlsx "SELECT city, COUNT(*) FROM data GROUP BY city"
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sheetfix: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		stop()
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return usageError("COMMAND [ARGS]")
	}

	name, rest := args[0], args[1:]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage(out)
		return nil
	}

	cmd, ok := findCommand(name)
	if !ok {
		// a bare file opens the viewer
		if _, err := os.Stat(name); err == nil {
			return runView(ctx, args, out)
		}
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command %q", name)
	}
	return cmd.Run(ctx, rest, out)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, c := range commands {
		fmt.Fprintf(w, "  sheetfix %s\n", c.Usage)
	}
	fmt.Fprintln(w, "\nFILE is a .csv/.tsv/.psv/.txt path, an .xlsx workbook or gsheet:SPREADSHEET_ID[/Sheet].")
}

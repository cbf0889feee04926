package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ideamans/go-sheetfix"
	"github.com/ideamans/go-sheetfix/query"
	"github.com/ideamans/go-sheetfix/query/sqlite"
)

// AutoTemplate selects AutoRepair in the repair command and the TUI picker
const AutoTemplate = "auto"

type command struct {
	Name  string
	Usage string
	Run   func(ctx context.Context, args []string, out io.Writer) error
}

var commands = []command{
	{"view", "view [-sheet S] [-no-header] FILE", runView},
	{"detect", "detect [-sheet S] [-no-header] FILE", runDetect},
	{"stats", "stats [-sheet S] [-no-header] FILE COLUMN", runStats},
	{"repair", "repair -t TEMPLATE[,TEMPLATE...] [-o OUT] [-list] FILE", runRepair},
	{"diff", "diff [-limit N] A B", runDiff},
	{"query", "query [-engine sql|filter] FILE QUERY", runQuery},
	{"convert", "convert [-sheet S] [-no-header] IN OUT", runConvert},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}
	return command{}, false
}

type usageError string

func (e usageError) Error() string {
	return "usage: sheetfix " + string(e)
}

func newFlagSet(name string, opts *openOptions) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if opts != nil {
		fs.StringVar(&opts.Sheet, "sheet", "", "sheet to read (xlsx, Google Sheets)")
		fs.BoolVar(&opts.NoHeader, "no-header", false, "treat the first row as data")
	}
	return fs
}

func runView(ctx context.Context, args []string, out io.Writer) error {
	var opts openOptions
	fs := newFlagSet("view", &opts)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("view [-sheet S] [-no-header] FILE")
	}

	src, err := openSource(ctx, fs.Arg(0), opts)
	if err != nil {
		return err
	}
	return runTUI(ctx, src)
}

func runDetect(ctx context.Context, args []string, out io.Writer) error {
	var opts openOptions
	fs := newFlagSet("detect", &opts)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("detect [-sheet S] [-no-header] FILE")
	}

	session, _, err := loadState(ctx, fs.Arg(0), opts)
	if err != nil {
		return err
	}
	defer session.Close()

	st, err := session.State()
	if err != nil {
		return err
	}
	detections := st.DetectAll()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tTYPE\tCONFIDENCE\tSAMPLED")
	for _, h := range st.View().Headers() {
		d := detections[h]
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\n", h, d.Type, d.Confidence, d.Sampled)
	}
	return w.Flush()
}

func runStats(ctx context.Context, args []string, out io.Writer) error {
	var opts openOptions
	fs := newFlagSet("stats", &opts)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageError("stats [-sheet S] [-no-header] FILE COLUMN")
	}

	session, _, err := loadState(ctx, fs.Arg(0), opts)
	if err != nil {
		return err
	}
	defer session.Close()

	st, err := session.State()
	if err != nil {
		return err
	}
	stats, err := sheetfix.ColumnStats(st.View(), fs.Arg(1))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "column:\t%s\n", stats.Column)
	fmt.Fprintf(w, "type:\t%s\n", st.Detect(stats.Column).Type)
	fmt.Fprintf(w, "count:\t%d\n", stats.Count)
	fmt.Fprintf(w, "non-empty:\t%d\n", stats.NonEmpty)
	fmt.Fprintf(w, "empty:\t%d\n", stats.Empty)
	fmt.Fprintf(w, "unique:\t%d\n", stats.Unique)
	if stats.Numeric {
		fmt.Fprintf(w, "min:\t%s\n", formatFloat(stats.Min))
		fmt.Fprintf(w, "max:\t%s\n", formatFloat(stats.Max))
		fmt.Fprintf(w, "mean:\t%s\n", formatFloat(stats.Mean))
	}
	if len(stats.TopValues) > 0 {
		fmt.Fprintln(w, "top values:")
		for _, vc := range stats.TopValues {
			fmt.Fprintf(w, "  %s\t%d\n", vc.Value, vc.Count)
		}
	}
	return w.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func runRepair(ctx context.Context, args []string, out io.Writer) error {
	var opts openOptions
	fs := newFlagSet("repair", &opts)
	names := fs.String("t", "", "comma separated templates, or \"auto\"")
	output := fs.String("o", "", "output file (default: FILE with .edited before the extension)")
	list := fs.Bool("list", false, "list the available templates")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\n", AutoTemplate, "Trim and normalize every typed column")
		for _, t := range sheetfix.Templates() {
			fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
		}
		return w.Flush()
	}
	if fs.NArg() != 1 || *names == "" {
		return usageError("repair -t TEMPLATE[,TEMPLATE...] [-o OUT] [-list] FILE")
	}

	templates := splitList(*names)
	for _, name := range templates {
		if _, ok := sheetfix.LookupTemplate(name); !ok && name != AutoTemplate {
			return fmt.Errorf("%w: %q", sheetfix.ErrUnknownTemplate, name)
		}
	}

	session, src, err := loadState(ctx, fs.Arg(0), opts)
	if err != nil {
		return err
	}
	defer session.Close()

	for _, name := range templates {
		var report sheetfix.RepairReport
		_, err := session.Update(func(st sheetfix.State) (sheetfix.State, error) {
			var next sheetfix.State
			var err error
			next, report, err = applyRepair(st, name)
			return next, err
		})
		if err != nil && !errors.Is(err, sheetfix.ErrNoChanges) {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(out, "%s: %d changes", name, report.Count())
		if report.RowsRemoved > 0 {
			fmt.Fprintf(out, ", %d rows removed", report.RowsRemoved)
		}
		fmt.Fprintln(out)
	}

	exporter, target := src.Exporter, src.ExportName
	if *output != "" {
		target = *output
		if exporter, err = openTarget(ctx, target, openOptions{Sheet: opts.Sheet}); err != nil {
			return err
		}
	}
	if err := session.Export(ctx, exporter); err != nil {
		return err
	}
	log.Printf("Export: %s", target)
	fmt.Fprintf(out, "wrote %s\n", target)
	return nil
}

// applyRepair runs one template by name, AutoTemplate included
func applyRepair(st sheetfix.State, name string) (sheetfix.State, sheetfix.RepairReport, error) {
	if name == AutoTemplate {
		return st.AutoRepair()
	}
	return st.ApplyTemplate(name)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runDiff(ctx context.Context, args []string, out io.Writer) error {
	var opts openOptions
	fs := newFlagSet("diff", &opts)
	limit := fs.Int("limit", 50, "maximum number of changes to print, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageError("diff [-limit N] A B")
	}

	var snaps [2]*sheetfix.Snapshot
	for i := range snaps {
		session, _, err := loadState(ctx, fs.Arg(i), opts)
		if err != nil {
			return err
		}
		st, err := session.State()
		session.Close()
		if err != nil {
			return err
		}
		snaps[i] = st.View()
	}

	changes := sheetfix.Diff(snaps[0], snaps[1])
	writeChanges(out, changes, *limit)
	return nil
}

// writeChanges prints a summary line followed by at most limit changes
func writeChanges(out io.Writer, changes []sheetfix.Change, limit int) {
	sum := sheetfix.Summarize(changes)
	fmt.Fprintf(out, "%d changes in %d rows, %d columns (%d modified, %d added, %d cleared)\n",
		sum.Total, sum.Rows, sum.Columns,
		sum.ByKind[sheetfix.ChangeModified], sum.ByKind[sheetfix.ChangeAdded], sum.ByKind[sheetfix.ChangeCleared])

	shown := sheetfix.Truncate(changes, limit)
	for _, c := range shown {
		fmt.Fprintf(out, "R%d %s: %q -> %q\n", c.Row+1, c.Column, c.Old, c.New)
	}
	if len(shown) < len(changes) {
		fmt.Fprintf(out, "... %d more\n", len(changes)-len(shown))
	}
}

// newEngine maps the -engine flag to a query engine
func newEngine(name string) (query.Engine, error) {
	switch strings.ToLower(name) {
	case "sql", "sqlite":
		return sqlite.New(), nil
	case "filter":
		return query.FilterEngine{}, nil
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}

func runQuery(ctx context.Context, args []string, out io.Writer) error {
	var opts openOptions
	fs := newFlagSet("query", &opts)
	engineName := fs.String("engine", "sql", "query engine: sql or filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageError("query [-engine sql|filter] FILE QUERY")
	}

	engine, err := newEngine(*engineName)
	if err != nil {
		return err
	}

	session, _, err := loadState(ctx, fs.Arg(0), opts)
	if err != nil {
		return err
	}
	defer session.Close()

	st, err := session.State()
	if err != nil {
		return err
	}
	result, err := query.RunState(ctx, engine, st, fs.Arg(1))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderResult(result))
	fmt.Fprintf(out, "%d rows\n", result.Len())
	return nil
}

// renderResult draws a query result as a bordered table
func renderResult(r *query.Result) string {
	rows := make([][]string, len(r.Rows))
	for i, rec := range r.Rows {
		rows[i] = rec.Fields(r.Columns)
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(r.Columns...).
		Rows(rows...).
		String()
}

func runConvert(ctx context.Context, args []string, out io.Writer) error {
	var opts openOptions
	fs := newFlagSet("convert", &opts)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageError("convert [-sheet S] [-no-header] IN OUT")
	}

	session, _, err := loadState(ctx, fs.Arg(0), opts)
	if err != nil {
		return err
	}
	defer session.Close()

	exporter, err := openTarget(ctx, fs.Arg(1), openOptions{Sheet: opts.Sheet})
	if err != nil {
		return err
	}
	if err := session.Export(ctx, exporter); err != nil {
		return err
	}
	log.Printf("Export: %s", fs.Arg(1))
	fmt.Fprintf(out, "wrote %s\n", fs.Arg(1))
	return nil
}

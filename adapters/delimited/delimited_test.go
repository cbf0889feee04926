package delimited

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ideamans/go-sheetfix"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:   "valid config",
			config: &Config{FilePath: "data.csv"},
		},
		{
			name:    "missing file path",
			config:  &Config{},
			wantErr: ErrMissingFilePath,
		},
		{
			name:    "quote delimiter",
			config:  &Config{FilePath: "data.csv", Delimiter: '"'},
			wantErr: ErrInvalidDelimiter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := New(nil); err == nil {
		t.Errorf("New(nil) succeeded")
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"semicolon", "a;b;c\n1;2;3\n", ';'},
		{"tab", "a\tb\n1\t2\n", '\t'},
		{"pipe", "a|b\n1|2\n", '|'},
		{"single column", "name\nbob\n", ','},
		{"empty", "", ','},
		{"tie prefers earlier candidate", "a;b,c\n1;2,3\n4;5,6\n", ','},
		{"higher count wins", "a,b;c;d\n1,2;3;4\n", ';'},
		{"quoted delimiters ignored", "\"x;y\",b\n\"1;2\",3\n", ','},
		{"consistency beats count", "a;b;c;d\n1;2,3\n4,5\n6,7\n", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff([]byte(tt.input)); got != tt.want {
				t.Errorf("Sniff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func parse(t *testing.T, input string, mode sheetfix.HeaderMode) *sheetfix.ParseResult {
	t.Helper()
	p := &Parser{Reader: strings.NewReader(input), HeaderMode: mode, Source: "test.csv"}
	result, err := p.Parse(context.Background())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return result
}

func TestParser_Parse(t *testing.T) {
	result := parse(t, "\xEF\xBB\xBFname;city\nAlice;Paris\n\"Bob; Jr\";\"New\nYork\"\n", sheetfix.HeaderFirstRow)

	if result.Delimiter != ';' {
		t.Errorf("Delimiter = %q, want ';'", result.Delimiter)
	}
	if result.Source != "test.csv" {
		t.Errorf("Source = %q", result.Source)
	}
	if !reflect.DeepEqual(result.Headers, []string{"name", "city"}) {
		t.Errorf("Headers = %v", result.Headers)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(result.Rows))
	}
	if got := result.Rows[1].Get("name"); got != "Bob; Jr" {
		t.Errorf("quoted field = %q", got)
	}
	if got := result.Rows[1].Get("city"); got != "New\nYork" {
		t.Errorf("multiline field = %q", got)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v", result.Diagnostics)
	}
}

func TestParser_Diagnostics(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		mode      sheetfix.HeaderMode
		headers   []string
		rows      int
		wantKinds []sheetfix.DiagnosticKind
		wantRows  []int
	}{
		{
			name:      "ragged rows",
			input:     "a,b\n1\n1,2,3\n4,5\n",
			mode:      sheetfix.HeaderFirstRow,
			headers:   []string{"a", "b"},
			rows:      3,
			wantKinds: []sheetfix.DiagnosticKind{sheetfix.DiagFieldCount, sheetfix.DiagFieldCount},
			wantRows:  []int{0, 1},
		},
		{
			name:      "bare quote read leniently",
			input:     "a,b\n1,x\"y\n2,z\n",
			mode:      sheetfix.HeaderFirstRow,
			headers:   []string{"a", "b"},
			rows:      2,
			wantKinds: []sheetfix.DiagnosticKind{sheetfix.DiagQuote},
			wantRows:  []int{0},
		},
		{
			name:      "duplicate header",
			input:     "a,a\n1,2\n",
			mode:      sheetfix.HeaderFirstRow,
			headers:   []string{"a", "a_1"},
			rows:      1,
			wantKinds: []sheetfix.DiagnosticKind{sheetfix.DiagDuplicateHeader},
			wantRows:  []int{-1},
		},
		{
			name:      "no header row",
			input:     "1,2\n3\n",
			mode:      sheetfix.HeaderNone,
			headers:   []string{"column_1", "column_2"},
			rows:      2,
			wantKinds: []sheetfix.DiagnosticKind{sheetfix.DiagFieldCount},
			wantRows:  []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parse(t, tt.input, tt.mode)
			if !reflect.DeepEqual(result.Headers, tt.headers) {
				t.Errorf("Headers = %v, want %v", result.Headers, tt.headers)
			}
			if len(result.Rows) != tt.rows {
				t.Errorf("got %d rows, want %d", len(result.Rows), tt.rows)
			}

			var kinds []sheetfix.DiagnosticKind
			var rows []int
			for _, d := range result.Diagnostics {
				kinds = append(kinds, d.Kind)
				rows = append(rows, d.RowIndex)
			}
			if !reflect.DeepEqual(kinds, tt.wantKinds) {
				t.Errorf("diagnostic kinds = %v, want %v", kinds, tt.wantKinds)
			}
			if !reflect.DeepEqual(rows, tt.wantRows) {
				t.Errorf("diagnostic rows = %v, want %v", rows, tt.wantRows)
			}
		})
	}
}

func TestParser_RowShape(t *testing.T) {
	result := parse(t, "a,b\n1\n1,2,3\nx\"y,z\n", sheetfix.HeaderFirstRow)

	if got := result.Rows[0].Get("b"); got != "" || !result.Rows[0].Has("b") {
		t.Errorf("short row not padded: %v", result.Rows[0])
	}
	if got := result.Rows[1].Fields(result.Headers); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("long row not truncated: %v", got)
	}
	if got := result.Rows[2].Get("a"); got != "x\"y" {
		t.Errorf("lenient field = %q", got)
	}
}

func TestParser_EmptyInput(t *testing.T) {
	result := parse(t, "", sheetfix.HeaderFirstRow)
	if len(result.Headers) != 0 || len(result.Rows) != 0 {
		t.Errorf("empty input gave %v", result)
	}

	if _, err := sheetfix.NewState(result, nil); !errors.Is(err, sheetfix.ErrNoHeaders) {
		t.Errorf("NewState() error = %v, want %v", err, sheetfix.ErrNoHeaders)
	}
}

func TestParser_Errors(t *testing.T) {
	if _, err := (&Parser{}).Parse(context.Background()); !errors.Is(err, ErrMissingReader) {
		t.Errorf("Parse() without reader error = %v", err)
	}

	p := &Parser{Reader: strings.NewReader("a\n"), Delimiter: '\n'}
	if _, err := p.Parse(context.Background()); !errors.Is(err, ErrInvalidDelimiter) {
		t.Errorf("Parse() with newline delimiter error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p = &Parser{Reader: strings.NewReader("a\n")}
	if _, err := p.Parse(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Parse() with cancelled context error = %v", err)
	}
}

func TestWriter_Write(t *testing.T) {
	headers := []string{"name", "note"}
	rows := []sheetfix.Record{
		sheetfix.NewRecord(map[string]string{"name": "Alice", "note": "says \"hi\", twice"}),
		sheetfix.NewRecord(map[string]string{"name": "Bob"}),
	}

	tests := []struct {
		name      string
		delimiter rune
		want      string
	}{
		{
			name: "default comma",
			want: "name,note\nAlice,\"says \"\"hi\"\", twice\"\nBob,\n",
		},
		{
			name:      "tab",
			delimiter: '\t',
			want:      "name\tnote\nAlice\t\"says \"\"hi\"\", twice\"\nBob\t\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriter(&buf, tt.delimiter).Write(context.Background(), headers, rows); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Write() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestAdapter_ExportLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	if err := os.WriteFile(path, []byte("name;age\nBob;40\nAlice;30\n"), 0644); err != nil {
		t.Fatal(err)
	}

	adapter, err := New(&Config{FilePath: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	session := sheetfix.NewSession(adapter, DefaultSessionConfig())
	defer session.Close()
	if err := session.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := adapter.Delimiter(); got != ';' {
		t.Errorf("Delimiter() = %q, want ';'", got)
	}
	if _, err := session.Update(func(st sheetfix.State) (sheetfix.State, error) {
		return st.SetCell(0, "age", "41")
	}); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}

	if err := session.Export(ctx, adapter); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "name;age\nBob;41\nAlice;30\n"; string(got) != want {
		t.Errorf("exported file = %q, want %q", got, want)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestAdapter_ExportToNewPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.tsv")
	adapter, err := New(&Config{FilePath: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rows := []sheetfix.Record{sheetfix.NewRecord(map[string]string{"a": "1", "b": "2"})}
	if err := adapter.Export(context.Background(), []string{"a", "b"}, rows); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	result, err := adapter.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Delimiter != '\t' || result.Rows[0].Get("b") != "2" {
		t.Errorf("Load() = %+v", result)
	}
}

func TestAdapter_LoadMissingFile(t *testing.T) {
	adapter, _ := New(&Config{FilePath: filepath.Join(t.TempDir(), "missing.csv")})
	if _, err := adapter.Load(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"people.csv", "people.edited.csv"},
		{"dir/data.tsv", "dir/data.edited.tsv"},
		{"book.xlsx", "book.edited.xlsx"},
		{"noext", "noext.edited.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ExportName(tt.path); got != tt.want {
				t.Errorf("ExportName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDelimiterForPath(t *testing.T) {
	tests := []struct {
		path string
		want rune
	}{
		{"a.tsv", '\t'},
		{"a.TSV", '\t'},
		{"a.psv", '|'},
		{"a.csv", 0},
		{"a", 0},
	}

	for _, tt := range tests {
		if got := DelimiterForPath(tt.path); got != tt.want {
			t.Errorf("DelimiterForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

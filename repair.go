package sheetfix

import (
	"fmt"
	"regexp"
	"strings"
)

// Template names
const (
	TemplateTrimWhitespace      = "trim_whitespace"
	TemplateCollapseSpaces      = "collapse_spaces"
	TemplateRemoveEmptyRows     = "remove_empty_rows"
	TemplateRemoveDuplicateRows = "remove_duplicate_rows"
	TemplateNormalizeEmails     = "normalize_emails"
	TemplateNormalizeURLs       = "normalize_urls"
	TemplateNormalizePhones     = "normalize_phones"
	TemplateNormalizeNumbers    = "normalize_numbers"
	TemplateNormalizeDates      = "normalize_dates"
	TemplateFillEmptyNA         = "fill_empty_na"
)

// NotAvailable is written by fill_empty_na
const NotAvailable = "N/A"

// RepairOperation records one change made by a template. Row removals have
// an empty Column and carry the removed row's fields joined by commas in Old.
type RepairOperation struct {
	Template string
	Row      int
	Column   string
	Old      string
	New      string
}

// RepairReport lists what a template application changed
type RepairReport struct {
	Templates   []string
	Operations  []RepairOperation
	RowsRemoved int
}

// Count returns the number of recorded operations
func (r RepairReport) Count() int {
	return len(r.Operations)
}

// ByTemplate counts operations per template
func (r RepairReport) ByTemplate() map[string]int {
	out := make(map[string]int)
	for _, op := range r.Operations {
		out[op.Template]++
	}
	return out
}

func (r *RepairReport) merge(o RepairReport) {
	r.Templates = append(r.Templates, o.Templates...)
	r.Operations = append(r.Operations, o.Operations...)
	r.RowsRemoved += o.RowsRemoved
}

// Template is a parameterless bulk transform. Targets limits cell templates
// to columns detected as one of the listed types; nil means every column.
type Template struct {
	Name        string
	Description string
	Targets     []ColumnType

	cell func(string) string
	rows func(snap *Snapshot, name string) (*Snapshot, RepairReport)
}

var templates = []Template{
	{
		Name:        TemplateTrimWhitespace,
		Description: "Remove leading and trailing whitespace",
		cell:        strings.TrimSpace,
	},
	{
		Name:        TemplateCollapseSpaces,
		Description: "Collapse runs of whitespace into one space",
		cell:        collapseSpaces,
	},
	{
		Name:        TemplateRemoveEmptyRows,
		Description: "Remove rows where every cell is empty",
		rows:        removeEmptyRows,
	},
	{
		Name:        TemplateRemoveDuplicateRows,
		Description: "Remove rows identical to an earlier row",
		rows:        removeDuplicateRows,
	},
	{
		Name:        TemplateNormalizeEmails,
		Description: "Lower-case email addresses",
		Targets:     []ColumnType{TypeEmail},
		cell:        normalizeEmail,
	},
	{
		Name:        TemplateNormalizeURLs,
		Description: "Add https:// to URLs without a scheme",
		Targets:     []ColumnType{TypeURL},
		cell:        normalizeURL,
	},
	{
		Name:        TemplateNormalizePhones,
		Description: "Reduce phone numbers to digits with an optional leading +",
		Targets:     []ColumnType{TypePhone},
		cell:        normalizePhone,
	},
	{
		Name:        TemplateNormalizeNumbers,
		Description: "Strip currency symbols and thousands separators",
		Targets:     []ColumnType{TypeNumber, TypeCurrency},
		cell:        normalizeNumber,
	},
	{
		Name:        TemplateNormalizeDates,
		Description: "Rewrite dates as YYYY-MM-DD",
		Targets:     []ColumnType{TypeDate},
		cell:        normalizeDate,
	},
	{
		Name:        TemplateFillEmptyNA,
		Description: "Fill empty text cells with N/A",
		Targets:     []ColumnType{TypeText},
		cell:        fillEmpty,
	},
}

// autoRepairTemplates run, in order, as one AutoRepair push
var autoRepairTemplates = []string{
	TemplateTrimWhitespace,
	TemplateNormalizeEmails,
	TemplateNormalizeURLs,
	TemplateNormalizePhones,
	TemplateNormalizeNumbers,
	TemplateNormalizeDates,
}

// Templates returns every repair template in menu order
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// LookupTemplate finds a template by name
func LookupTemplate(name string) (Template, bool) {
	for _, t := range templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// ApplyTemplate runs the named template over snap. ErrNoChanges is returned
// when the template leaves every cell as it was.
func ApplyTemplate(snap *Snapshot, name string, d *Detector) (*Snapshot, RepairReport, error) {
	t, ok := LookupTemplate(name)
	if !ok {
		return nil, RepairReport{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	out, report := t.apply(snap, d)
	if report.Count() == 0 {
		return nil, report, ErrNoChanges
	}
	return out, report, nil
}

// AutoRepair trims every cell and then runs each type-targeted normalizer,
// detecting column types afresh after the trim
func AutoRepair(snap *Snapshot, d *Detector) (*Snapshot, RepairReport, error) {
	var report RepairReport
	cur := snap
	for _, name := range autoRepairTemplates {
		t, _ := LookupTemplate(name)
		next, r := t.apply(cur, d)
		report.merge(r)
		cur = next
	}
	if report.Count() == 0 {
		return nil, report, ErrNoChanges
	}
	return cur, report, nil
}

func (t Template) apply(snap *Snapshot, d *Detector) (*Snapshot, RepairReport) {
	if t.rows != nil {
		return t.rows(snap, t.Name)
	}
	return mapCells(snap, t.columns(snap, d), t.Name, t.cell)
}

// columns returns the headers this template touches
func (t Template) columns(snap *Snapshot, d *Detector) []string {
	if len(t.Targets) == 0 {
		return snap.headers
	}
	if d == nil {
		d = defaultDetector
	}

	var cols []string
	for _, h := range snap.headers {
		typ := d.Detect(snap, h).Type
		for _, want := range t.Targets {
			if typ == want {
				cols = append(cols, h)
				break
			}
		}
	}
	return cols
}

// mapCells applies fn to every cell of columns, copying only touched rows
func mapCells(snap *Snapshot, columns []string, name string, fn func(string) string) (*Snapshot, RepairReport) {
	report := RepairReport{Templates: []string{name}}
	if len(columns) == 0 {
		return snap, report
	}

	var rows []Record
	for i, r := range snap.rows {
		var next Record
		for _, h := range columns {
			old := r.Get(h)
			v := fn(old)
			if v == old {
				continue
			}
			if next.Values == nil {
				next = r.Clone()
			}
			next.Values[h] = v
			report.Operations = append(report.Operations, RepairOperation{
				Template: name,
				Row:      i,
				Column:   h,
				Old:      old,
				New:      v,
			})
		}
		if next.Values == nil {
			continue
		}
		if rows == nil {
			rows = make([]Record, len(snap.rows))
			copy(rows, snap.rows)
		}
		rows[i] = next
	}

	if rows == nil {
		return snap, report
	}
	return snap.withRows(rows), report
}

func removeEmptyRows(snap *Snapshot, name string) (*Snapshot, RepairReport) {
	return filterRows(snap, name, func(r Record) bool {
		return !r.IsBlank(snap.headers)
	})
}

func removeDuplicateRows(snap *Snapshot, name string) (*Snapshot, RepairReport) {
	seen := make(map[string]bool, len(snap.rows))
	return filterRows(snap, name, func(r Record) bool {
		key := strings.Join(r.Fields(snap.headers), "\x1f")
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}

// filterRows keeps rows for which keep returns true. Row indexes in the
// report refer to snap.
func filterRows(snap *Snapshot, name string, keep func(Record) bool) (*Snapshot, RepairReport) {
	report := RepairReport{Templates: []string{name}}
	rows := make([]Record, 0, len(snap.rows))
	for i, r := range snap.rows {
		if keep(r) {
			rows = append(rows, r)
			continue
		}
		report.Operations = append(report.Operations, RepairOperation{
			Template: name,
			Row:      i,
			Old:      strings.Join(r.Fields(snap.headers), ","),
		})
		report.RowsRemoved++
	}
	if report.RowsRemoved == 0 {
		return snap, report
	}
	return snap.withRows(rows), report
}

var (
	reSpaceRun     = regexp.MustCompile(`\s{2,}|[\t\r\n]`)
	reCurrencyMark = regexp.MustCompile(`(?i:usd|eur|gbp|jpy)|[$€£¥]`)
)

func collapseSpaces(v string) string {
	return reSpaceRun.ReplaceAllString(v, " ")
}

func normalizeEmail(v string) string {
	t := strings.TrimSpace(v)
	if !isEmail(t) {
		return v
	}
	return strings.ToLower(t)
}

func normalizeURL(v string) string {
	t := strings.TrimSpace(v)
	if t == "" || !isURL(t) || strings.Contains(t, "://") {
		return v
	}
	return "https://" + t
}

func normalizePhone(v string) string {
	t := strings.TrimSpace(v)
	if !isPhone(t) {
		return v
	}
	var b strings.Builder
	if strings.HasPrefix(t, "+") {
		b.WriteByte('+')
	}
	for _, r := range t {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeNumber(v string) string {
	t := strings.TrimSpace(v)
	if strings.HasSuffix(t, "%") || (!isNumber(t) && !isCurrency(t)) {
		return v
	}

	out := reCurrencyMark.ReplaceAllString(t, "")
	out = strings.ReplaceAll(out, ",", "")
	out = strings.Join(strings.Fields(out), "")
	out = strings.TrimPrefix(out, "+")
	if _, ok := parseNumber(out); !ok {
		return v
	}
	return out
}

func normalizeDate(v string) string {
	t, ok := parseDate(v)
	if !ok {
		return v
	}
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
		return t.Format("2006-01-02 15:04:05")
	}
	return t.Format("2006-01-02")
}

func fillEmpty(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotAvailable
	}
	return v
}

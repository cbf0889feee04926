package sheetfix

import (
	"strconv"
	"strings"
	"time"
)

// Record is one dataset row: column name to cell text. A missing key reads
// as the empty string. Records stored in a Snapshot are never modified; use
// With to derive a changed copy.
type Record struct {
	Values map[string]string
}

// NewRecord creates a record holding a copy of values
func NewRecord(values map[string]string) Record {
	r := Record{Values: make(map[string]string, len(values))}
	for k, v := range values {
		r.Values[k] = v
	}
	return r
}

// BlankRecord returns a record with one empty value per header
func BlankRecord(headers []string) Record {
	r := Record{Values: make(map[string]string, len(headers))}
	for _, h := range headers {
		r.Values[h] = ""
	}
	return r
}

// Get returns the value for col, or "" if absent
func (r Record) Get(col string) string {
	return r.Values[col]
}

// Has reports whether col has an explicit value
func (r Record) Has(col string) bool {
	_, ok := r.Values[col]
	return ok
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	return NewRecord(r.Values)
}

// With returns a copy of the record with col set to value
func (r Record) With(col, value string) Record {
	out := Record{Values: make(map[string]string, len(r.Values)+1)}
	for k, v := range r.Values {
		out.Values[k] = v
	}
	out.Values[col] = value
	return out
}

// Without returns a copy of the record with col removed
func (r Record) Without(col string) Record {
	out := Record{Values: make(map[string]string, len(r.Values))}
	for k, v := range r.Values {
		if k != col {
			out.Values[k] = v
		}
	}
	return out
}

// Fields returns the values in header order
func (r Record) Fields(headers []string) []string {
	fields := make([]string, len(headers))
	for i, h := range headers {
		fields[i] = r.Values[h]
	}
	return fields
}

// IsBlank reports whether every header reads as empty
func (r Record) IsBlank(headers []string) bool {
	for _, h := range headers {
		if strings.TrimSpace(r.Values[h]) != "" {
			return false
		}
	}
	return true
}

// GetAsInt64 returns the value as int64 or defaultValue if absent or not an integer
func (r Record) GetAsInt64(col string, defaultValue int64) int64 {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}
	if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
		return i
	}
	return defaultValue
}

// GetAsFloat64 returns the value as float64 or defaultValue if absent or not numeric
func (r Record) GetAsFloat64(col string, defaultValue float64) float64 {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}
	if f, ok := parseNumber(v); ok {
		return f
	}
	return defaultValue
}

// GetAsBool returns the value as bool or defaultValue if absent or not a boolean
func (r Record) GetAsBool(col string, defaultValue bool) bool {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}

	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y":
		return true
	case "false", "0", "no", "n":
		return false
	}
	return defaultValue
}

// GetAsTime returns the value as time.Time or defaultValue if absent or not a date
func (r Record) GetAsTime(col string, defaultValue time.Time) time.Time {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}
	if t, ok := parseDate(v); ok {
		return t
	}
	return defaultValue
}

// parseNumber parses plain decimal numbers, tolerating thousands separators
func parseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if !reNumber.MatchString(raw) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

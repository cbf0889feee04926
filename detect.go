package sheetfix

import (
	"regexp"
	"strings"
	"time"
)

// ColumnType is the detected semantic type of a column
type ColumnType string

const (
	TypeEmail    ColumnType = "email"
	TypeURL      ColumnType = "url"
	TypePhone    ColumnType = "phone"
	TypeCurrency ColumnType = "currency"
	TypeDate     ColumnType = "date"
	TypeNumber   ColumnType = "number"
	TypeText     ColumnType = "text"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)
	reURL      = regexp.MustCompile(`^(?i:(https?|ftp)://[^\s/?#]+\.[^\s]*|www\.[^\s.]+\.[^\s]+)$`)
	rePhone    = regexp.MustCompile(`^\+?\(?[0-9]{1,4}\)?([\s.\-]?\(?[0-9]{2,4}\)?){1,5}$`)
	reCurrency = regexp.MustCompile(`^[-+]?(?:[$€£¥]\s?[0-9][0-9,]*(?:\.[0-9]+)?|[0-9][0-9,]*(?:\.[0-9]+)?\s?(?:[$€£¥]|(?i:usd|eur|gbp|jpy))|(?i:usd|eur|gbp|jpy)\s?[0-9][0-9,]*(?:\.[0-9]+)?)$`)
	reNumber   = regexp.MustCompile(`^[-+]?(?:(?:[0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)(?:\.[0-9]+)?|\.[0-9]+)(?:[eE][-+]?[0-9]+)?$`)
)

// dateLayouts are tried in order by parseDate
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"02/01/2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 6 {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isEmail(v string) bool { return reEmail.MatchString(v) }

func isURL(v string) bool { return reURL.MatchString(v) }

// isPhone accepts 7 to 15 digits with optional grouping punctuation. Plain
// numbers and dates are rejected so they fall through to later classifiers.
func isPhone(v string) bool {
	if !rePhone.MatchString(v) || reNumber.MatchString(v) {
		return false
	}
	digits := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 7 || digits > 15 {
		return false
	}
	_, isDate := parseDate(v)
	return !isDate
}

func isCurrency(v string) bool { return reCurrency.MatchString(v) }

func isDate(v string) bool {
	_, ok := parseDate(v)
	return ok
}

func isNumber(v string) bool {
	return reNumber.MatchString(strings.TrimSuffix(v, "%"))
}

type classifier struct {
	typ   ColumnType
	match func(string) bool
}

// classifiers in priority order; the first one over the threshold wins
var classifiers = []classifier{
	{TypeEmail, isEmail},
	{TypeURL, isURL},
	{TypePhone, isPhone},
	{TypeCurrency, isCurrency},
	{TypeDate, isDate},
	{TypeNumber, isNumber},
}

// Detection is the result of classifying one column
type Detection struct {
	Column     string
	Type       ColumnType
	Confidence float64
	Sampled    int
}

// Detector classifies columns. A nil cache disables memoization.
type Detector struct {
	SampleSize int
	Threshold  float64
	cache      *DetectionCache
}

// NewDetector creates a detector with a memo cache, using cfg for the
// sample size and threshold
func NewDetector(cfg *Config) *Detector {
	c := cfg.withDefaults()
	return &Detector{
		SampleSize: c.SampleSize,
		Threshold:  c.ConfidenceThreshold,
		cache:      NewDetectionCache(0),
	}
}

// Cache returns the memo cache, nil when memoization is off
func (d *Detector) Cache() *DetectionCache {
	return d.cache
}

var defaultDetector = &Detector{
	SampleSize: DefaultSampleSize,
	Threshold:  DefaultConfidenceThreshold,
}

// DetectColumn classifies column with the default sample size and threshold
func DetectColumn(snap *Snapshot, column string) Detection {
	return defaultDetector.Detect(snap, column)
}

// DetectAll classifies every column of snap
func DetectAll(snap *Snapshot) map[string]Detection {
	return defaultDetector.DetectAll(snap)
}

// Detect classifies column. The result depends only on the column content.
func (d *Detector) Detect(snap *Snapshot, column string) Detection {
	if d.cache != nil {
		if det, ok := d.cache.Get(snap.ID(), column); ok {
			return det
		}
	}

	det := d.classify(snap, column)

	if d.cache != nil {
		d.cache.Put(snap.ID(), column, det)
	}
	return det
}

// DetectAll classifies every column of snap
func (d *Detector) DetectAll(snap *Snapshot) map[string]Detection {
	out := make(map[string]Detection, snap.Width())
	for _, h := range snap.headers {
		out[h] = d.Detect(snap, h)
	}
	return out
}

func (d *Detector) classify(snap *Snapshot, column string) Detection {
	sample := d.sample(snap, column)
	if len(sample) == 0 {
		return Detection{Column: column, Type: TypeText, Confidence: 0}
	}

	for _, c := range classifiers {
		hits := 0
		for _, v := range sample {
			if c.match(v) {
				hits++
			}
		}
		ratio := float64(hits) / float64(len(sample))
		if ratio >= d.Threshold {
			return Detection{Column: column, Type: c.typ, Confidence: ratio, Sampled: len(sample)}
		}
	}

	return Detection{Column: column, Type: TypeText, Confidence: 1, Sampled: len(sample)}
}

// sample collects up to SampleSize trimmed non-empty values in row order
func (d *Detector) sample(snap *Snapshot, column string) []string {
	size := d.SampleSize
	if size <= 0 {
		size = DefaultSampleSize
	}

	var out []string
	for _, r := range snap.rows {
		v := strings.TrimSpace(r.Get(column))
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == size {
			break
		}
	}
	return out
}

// Matches reports whether v satisfies the rule for typ. Text matches anything.
func (t ColumnType) Matches(v string) bool {
	v = strings.TrimSpace(v)
	for _, c := range classifiers {
		if c.typ == t {
			return c.match(v)
		}
	}
	return t == TypeText
}

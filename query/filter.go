package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ideamans/go-sheetfix"
)

// FilterEngine evaluates a small SELECT language without SQL:
//
//	SELECT name,age WHERE city == "Paris" AND age >= "30" LIMIT 10 OFFSET 5
//	SELECT * WHERE code IN ("a", "b") AND score BETWEEN 1 AND 5
//
// Keywords are case-insensitive, column names match headers
// case-insensitively and may be quoted with backticks. Values are double
// quoted strings or bare words.
type FilterEngine struct{}

// Run parses q into a sheetfix.Filter and applies it to rows
func (FilterEngine) Run(ctx context.Context, q string, headers []string, rows []sheetfix.Record) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := ParseFilter(q, headers)
	if err != nil {
		return nil, err
	}

	columns := f.Columns
	if len(columns) == 0 {
		columns = headers
	}
	return &Result{
		Columns: append([]string(nil), columns...),
		Rows:    sheetfix.ApplyFilter(rows, f),
	}, nil
}

// ParseFilter compiles q against headers. Errors wrap ErrQuery.
func ParseFilter(q string, headers []string) (sheetfix.Filter, error) {
	toks, err := tokenize(q)
	if err != nil {
		return sheetfix.Filter{}, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	p := &filterParser{toks: toks, headers: headers}
	f, err := p.parse()
	if err != nil {
		return sheetfix.Filter{}, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if err := sheetfix.ValidateFilter(f, headers); err != nil {
		return sheetfix.Filter{}, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return f, nil
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
	tokIdent
	tokOp
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(q string) ([]token, error) {
	var toks []token
	rs := []rune(q)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r == '"' || r == '`':
			kind := tokString
			if r == '`' {
				kind = tokIdent
			}
			start := i
			var b strings.Builder
			i++
			closed := false
			for i < len(rs) {
				if rs[i] == r {
					// doubled quote is a literal quote
					if i+1 < len(rs) && rs[i+1] == r {
						b.WriteRune(r)
						i += 2
						continue
					}
					closed = true
					i++
					break
				}
				b.WriteRune(rs[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated %c at position %d", r, start+1)
			}
			toks = append(toks, token{kind: kind, text: b.String(), pos: start})

		case strings.ContainsRune("=!<>", r):
			start := i
			for i < len(rs) && strings.ContainsRune("=!<>", rs[i]) {
				i++
			}
			toks = append(toks, token{kind: tokOp, text: string(rs[start:i]), pos: start})

		case strings.ContainsRune("(),*", r):
			toks = append(toks, token{kind: tokPunct, text: string(r), pos: i})
			i++

		default:
			start := i
			for i < len(rs) && !unicode.IsSpace(rs[i]) && !strings.ContainsRune("\"`=!<>(),", rs[i]) {
				i++
			}
			toks = append(toks, token{kind: tokWord, text: string(rs[start:i]), pos: start})
		}
	}
	return toks, nil
}

type filterParser struct {
	toks    []token
	pos     int
	headers []string
}

func (p *filterParser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *filterParser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

// keyword consumes the next token if it is the bare word kw
func (p *filterParser) keyword(kw string) bool {
	t, ok := p.peek()
	if ok && t.kind == tokWord && strings.EqualFold(t.text, kw) {
		p.pos++
		return true
	}
	return false
}

func (p *filterParser) punct(s string) bool {
	t, ok := p.peek()
	if ok && t.kind == tokPunct && t.text == s {
		p.pos++
		return true
	}
	return false
}

func (p *filterParser) parse() (sheetfix.Filter, error) {
	var f sheetfix.Filter

	if !p.keyword("select") {
		return f, fmt.Errorf(`invalid query format. Use: SELECT col1,col2 WHERE col3 == "value"`)
	}

	if !p.punct("*") {
		for {
			col, err := p.column()
			if err != nil {
				return f, err
			}
			f.Columns = append(f.Columns, col)
			if !p.punct(",") {
				break
			}
		}
	}

	if p.keyword("where") {
		for {
			cond, err := p.condition()
			if err != nil {
				return f, err
			}
			f.Conditions = append(f.Conditions, cond)
			if !p.keyword("and") {
				break
			}
		}
	}

	if p.keyword("limit") {
		n, err := p.count("LIMIT", 1)
		if err != nil {
			return f, err
		}
		f.Limit = n
	}
	if p.keyword("offset") {
		n, err := p.count("OFFSET", 0)
		if err != nil {
			return f, err
		}
		f.Offset = n
	}

	if t, ok := p.peek(); ok {
		return f, fmt.Errorf("unexpected %q at position %d", t.text, t.pos+1)
	}
	return f, nil
}

// column resolves a column reference to the header's exact spelling
func (p *filterParser) column() (string, error) {
	t, ok := p.next()
	if !ok {
		return "", fmt.Errorf("expected column name at end of query")
	}
	if t.kind != tokWord && t.kind != tokIdent {
		return "", fmt.Errorf("expected column name at position %d, found %q", t.pos+1, t.text)
	}

	for _, h := range p.headers {
		if h == t.text {
			return h, nil
		}
	}
	for _, h := range p.headers {
		if strings.EqualFold(h, t.text) {
			return h, nil
		}
	}
	return "", fmt.Errorf("column '%s' not found", t.text)
}

func (p *filterParser) value() (string, error) {
	t, ok := p.next()
	if !ok {
		return "", fmt.Errorf("expected value at end of query")
	}
	if t.kind != tokString && t.kind != tokWord {
		return "", fmt.Errorf("expected value at position %d, found %q", t.pos+1, t.text)
	}
	return t.text, nil
}

func (p *filterParser) condition() (sheetfix.Condition, error) {
	col, err := p.column()
	if err != nil {
		return sheetfix.Condition{}, err
	}
	cond := sheetfix.Condition{Column: col}

	switch {
	case p.keyword("like"):
		cond.Operator = "like"
		cond.Value, err = p.value()

	case p.keyword("in"):
		cond.Operator = "in"
		if !p.punct("(") {
			return cond, fmt.Errorf("expected ( after IN")
		}
		var list []string
		for {
			v, err := p.value()
			if err != nil {
				return cond, err
			}
			list = append(list, v)
			if !p.punct(",") {
				break
			}
		}
		if !p.punct(")") {
			return cond, fmt.Errorf("expected ) to close IN list")
		}
		cond.Value = list

	case p.keyword("between"):
		cond.Operator = "between"
		lo, err := p.value()
		if err != nil {
			return cond, err
		}
		if !p.keyword("and") {
			return cond, fmt.Errorf("expected AND in BETWEEN")
		}
		hi, err := p.value()
		if err != nil {
			return cond, err
		}
		cond.Value = [2]string{lo, hi}

	default:
		t, ok := p.next()
		if !ok || t.kind != tokOp {
			return cond, fmt.Errorf("expected operator after %s", col)
		}
		switch t.text {
		case "=", "==":
			cond.Operator = "=="
		case "!=", "<>":
			cond.Operator = "!="
		case ">", ">=", "<", "<=":
			cond.Operator = t.text
		default:
			return cond, fmt.Errorf("unknown operator %q", t.text)
		}
		cond.Value, err = p.value()
	}
	return cond, err
}

func (p *filterParser) count(clause string, least int) (int, error) {
	t, ok := p.next()
	if !ok {
		return 0, fmt.Errorf("expected number after %s", clause)
	}
	n, err := strconv.Atoi(t.text)
	if t.kind != tokWord || err != nil || n < least {
		return 0, fmt.Errorf("invalid %s %q", clause, t.text)
	}
	return n, nil
}

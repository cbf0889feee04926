package sheetfix

import (
	"fmt"
	"math"
	"strings"
)

// Condition is a single filter condition on one column
type Condition struct {
	Column   string      // column name
	Operator string      // ==, !=, >, >=, <, <=, like, in, between
	Value    interface{} // string for scalar operators, []string for in, [2]string for between
}

// Filter is a conjunction of conditions with an optional projection and window
type Filter struct {
	Columns    []string    // projection; empty keeps every column
	Conditions []Condition // evaluated as AND
	Limit      int
	Offset     int
}

var validOperators = []string{"==", "!=", ">", ">=", "<", "<=", "like", "in", "between"}

// evalCondition evaluates a single condition against a record
func evalCondition(record Record, condition Condition) bool {
	col := condition.Column

	switch strings.ToLower(condition.Operator) {
	case "==":
		return equalFields(record, operand(col, condition.Value), col)
	case "!=":
		return !equalFields(record, operand(col, condition.Value), col)
	case ">":
		return compareFields(record, operand(col, condition.Value), col) > 0
	case ">=":
		return compareFields(record, operand(col, condition.Value), col) >= 0
	case "<":
		return compareFields(record, operand(col, condition.Value), col) < 0
	case "<=":
		return compareFields(record, operand(col, condition.Value), col) <= 0
	case "like":
		pattern, ok := condition.Value.(string)
		if !ok {
			return false
		}
		start, _ := indexFold(record.Get(col), pattern, 0)
		return pattern == "" || start >= 0
	case "in":
		return compareIn(record, col, condition.Value)
	case "between":
		return compareBetween(record, col, condition.Value)
	default:
		return false
	}
}

// MatchesFilter checks if the record satisfies every condition
func (r Record) MatchesFilter(f Filter) bool {
	for _, condition := range f.Conditions {
		if !evalCondition(r, condition) {
			return false
		}
	}
	return true
}

// operand holds a condition value under column so both sides of a
// comparison are read by the same typed getters
func operand(column string, v interface{}) Record {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	return Record{Values: map[string]string{column: s}}
}

// equalFields compares numerically when both sides are numbers, as
// booleans when both read as true/false words, otherwise case-insensitively
func equalFields(a, b Record, column string) bool {
	fa, fb := a.GetAsFloat64(column, math.NaN()), b.GetAsFloat64(column, math.NaN())
	switch {
	case !math.IsNaN(fa) && !math.IsNaN(fb):
		return fa == fb
	case math.IsNaN(fa) && math.IsNaN(fb):
		ba, okA := boolField(a, column)
		bb, okB := boolField(b, column)
		if okA && okB {
			return ba == bb
		}
	}
	return strings.EqualFold(a.Get(column), b.Get(column))
}

func boolField(r Record, column string) (bool, bool) {
	v := r.GetAsBool(column, false)
	return v, v == r.GetAsBool(column, true)
}

// compareIn checks if the record's value equals any item of the list v
func compareIn(r Record, column string, v interface{}) bool {
	list, ok := v.([]string)
	if !ok {
		return false
	}
	for _, item := range list {
		if equalFields(r, operand(column, item), column) {
			return true
		}
	}
	return false
}

// compareBetween checks if the record's value lies within the inclusive
// range v
func compareBetween(r Record, column string, v interface{}) bool {
	bounds, ok := v.([2]string)
	if !ok {
		list, isList := v.([]string)
		if !isList || len(list) != 2 {
			return false
		}
		bounds = [2]string{list[0], list[1]}
	}
	return compareFields(r, operand(column, bounds[0]), column) >= 0 &&
		compareFields(r, operand(column, bounds[1]), column) <= 0
}

// ApplyFilter returns the records matching f, projected onto f.Columns.
// The input records are never modified.
func ApplyFilter(records []Record, f Filter) []Record {
	var results []Record
	for _, record := range records {
		if record.MatchesFilter(f) {
			results = append(results, record)
		}
	}

	if f.Offset > 0 && f.Offset < len(results) {
		results = results[f.Offset:]
	} else if f.Offset >= len(results) && f.Offset > 0 {
		return []Record{}
	}

	if f.Limit > 0 && f.Limit < len(results) {
		results = results[:f.Limit]
	}

	if len(f.Columns) == 0 {
		return results
	}

	projected := make([]Record, len(results))
	for i, r := range results {
		p := Record{Values: make(map[string]string, len(f.Columns))}
		for _, c := range f.Columns {
			p.Values[c] = r.Get(c)
		}
		projected[i] = p
	}
	return projected
}

// ValidateFilter checks f against headers
func ValidateFilter(f Filter, headers []string) error {
	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}

	for _, c := range f.Columns {
		if !known[c] {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, c)
		}
	}

	for i, cond := range f.Conditions {
		if cond.Column == "" {
			return fmt.Errorf("%w: empty column name in condition %d", ErrInvalidCondition, i)
		}
		if !known[cond.Column] {
			return fmt.Errorf("%w: %q in condition %d", ErrColumnNotFound, cond.Column, i)
		}

		op := strings.ToLower(cond.Operator)
		valid := false
		for _, v := range validOperators {
			if op == v {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("%w: operator '%s' in condition %d", ErrInvalidCondition, cond.Operator, i)
		}

		switch op {
		case "in":
			if _, ok := cond.Value.([]string); !ok {
				return fmt.Errorf("%w: operator 'in' requires []string value in condition %d", ErrInvalidCondition, i)
			}
		case "between":
			switch v := cond.Value.(type) {
			case [2]string:
			case []string:
				if len(v) != 2 {
					return fmt.Errorf("%w: operator 'between' requires two bounds in condition %d", ErrInvalidCondition, i)
				}
			default:
				return fmt.Errorf("%w: operator 'between' requires [2]string value in condition %d", ErrInvalidCondition, i)
			}
		}
	}

	if f.Limit < 0 {
		return fmt.Errorf("%w: limit must be non-negative", ErrInvalidCondition)
	}
	if f.Offset < 0 {
		return fmt.Errorf("%w: offset must be non-negative", ErrInvalidCondition)
	}
	return nil
}

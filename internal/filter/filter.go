// Package filter parses the numeric comparison expressions accepted by the
// search endpoints, e.g. "<=400", ">= 4.5" or plain "5".
package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Op is a comparison operator. The set is closed so composed SQL never
// carries user input.
type Op string

const (
	OpEq  Op = "="
	OpLt  Op = "<"
	OpGt  Op = ">"
	OpLte Op = "<="
	OpGte Op = ">="
)

// Expression is a parsed numeric filter.
type Expression struct {
	Op    Op
	Value float64
}

// InvalidFormatError reports a filter string that does not match the
// "[operator] number" grammar.
type InvalidFormatError struct {
	Raw string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid filter format: %q. Use patterns like '<=400' or '>=4.5'", e.Raw)
}

// Parse scans a raw filter string into an Expression. The operator is
// optional and defaults to "=". Whitespace is allowed around the operator
// but not inside the number; only "." is accepted as decimal separator.
func Parse(raw string) (Expression, error) {
	s := strings.TrimSpace(raw)

	op, rest := scanOp(s)
	rest = strings.TrimLeft(rest, " \t")

	if !validNumber(rest) {
		return Expression{}, &InvalidFormatError{Raw: raw}
	}

	value, err := strconv.ParseFloat(rest, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return Expression{}, &InvalidFormatError{Raw: raw}
	}

	return Expression{Op: op, Value: value}, nil
}

// scanOp consumes a leading operator, two-character forms first so "<="
// is never split into "<" and a garbage number.
func scanOp(s string) (Op, string) {
	for _, op := range []Op{OpLte, OpGte, OpLt, OpGt, OpEq} {
		if strings.HasPrefix(s, string(op)) {
			return op, s[len(op):]
		}
	}
	return OpEq, s
}

// validNumber accepts an unsigned integer or decimal literal: one or more
// digits, optionally followed by "." and one or more digits.
func validNumber(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != '.' {
		return false
	}
	i++
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i > start && i == len(s)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

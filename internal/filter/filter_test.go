package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValidExpressions(t *testing.T) {
	tests := []struct {
		raw   string
		op    Op
		value float64
	}{
		{"<=400", OpLte, 400},
		{">=4.5", OpGte, 4.5},
		{"<10", OpLt, 10},
		{">2", OpGt, 2},
		{"=5", OpEq, 5},
		{"5", OpEq, 5},
		{"< 10", OpLt, 10},
		{">= 4.5", OpGte, 4.5},
		{"  <=400  ", OpLte, 400},
		{"= 0.5", OpEq, 0.5},
		{"120", OpEq, 120},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			expr, err := Parse(tt.raw)
			assert.NoError(t, err)
			assert.Equal(t, tt.op, expr.Op)
			assert.Equal(t, tt.value, expr.Value)
		})
	}
}

func TestParseInvalidExpressions(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"abc",
		"<=",
		"<",
		"=>4",
		"!=3",
		"<<4",
		"4 00",
		"1 2",
		"4.5.6",
		"5.",
		".5",
		"-3",
		"4,5",
		"<= 400 kcal",
		"rating>=4",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw)
			assert.Error(t, err)

			var formatErr *InvalidFormatError
			assert.True(t, errors.As(err, &formatErr))
			assert.Equal(t, raw, formatErr.Raw)
		})
	}
}

func TestParseDefaultsToEquals(t *testing.T) {
	expr, err := Parse("4.5")
	assert.NoError(t, err)
	assert.Equal(t, OpEq, expr.Op)
	assert.Equal(t, 4.5, expr.Value)
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(n int) *int { return &n }

func TestParseCardinality(t *testing.T) {
	tests := []struct {
		name  string
		input string
		min   *int
		max   *int
	}{
		{name: "range", input: "1..5", min: intp(1), max: intp(5)},
		{name: "zero to many", input: "0..n", min: intp(0), max: nil},
		{name: "star upper bound", input: "2..*", min: intp(2), max: nil},
		{name: "unlimited upper bound", input: "1..unlimited", min: intp(1), max: nil},
		{name: "exact count", input: "3", min: intp(3), max: intp(3)},
		{name: "default", input: DefaultCardinality, min: intp(1), max: intp(1)},
		{name: "empty string", input: "", min: nil, max: nil},
		{name: "garbage", input: "abc", min: nil, max: nil},
		{name: "malformed min", input: "x..5", min: nil, max: nil},
		{name: "malformed max", input: "1..y", min: nil, max: nil},
		{name: "signed count rejected", input: "+3", min: nil, max: nil},
		{name: "negative count rejected", input: "-1..2", min: nil, max: nil},
		{name: "whitespace tolerated", input: " 1 .. 5 ", min: intp(1), max: intp(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := ParseCardinality(tt.input)
			assert.Equal(t, tt.min, min)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestFormatCardinality(t *testing.T) {
	tests := []struct {
		name string
		min  *int
		max  *int
		want string
	}{
		{name: "bounded range", min: intp(1), max: intp(5), want: "1..5"},
		{name: "unbounded max", min: intp(0), max: nil, want: "0..n"},
		{name: "both absent", min: nil, max: nil, want: ""},
		{name: "missing min", min: nil, max: intp(3), want: ""},
		{name: "exact", min: intp(2), max: intp(2), want: "2..2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCardinality(tt.min, tt.max))
		})
	}
}

// Formatting a parsed expression and parsing it again must yield the
// same counts.
func TestCardinalityRoundTrip(t *testing.T) {
	for _, expr := range []string{"0..n", "1..1", "2..7", "5"} {
		min, max := ParseCardinality(expr)
		gotMin, gotMax := ParseCardinality(FormatCardinality(min, max))
		assert.Equal(t, min, gotMin, expr)
		assert.Equal(t, max, gotMax, expr)
	}
}

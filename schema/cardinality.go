package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultCardinality is applied to a connection when no explicit
// cardinality is given.
const DefaultCardinality = "1..1"

// ParseCardinality parses a cardinality string of the form "min..max"
// or a single exact count.
//
//	ParseCardinality("1..1") = (1, 1)
//	ParseCardinality("0..n") = (0, nil)
//	ParseCardinality("2..5") = (2, 5)
//	ParseCardinality("3")    = (3, 3)
//
// The max segment accepts "n", "*" and "unlimited" as unbounded.
// Malformed or empty input yields (nil, nil); parsing never fails.
func ParseCardinality(s string) (minCount, maxCount *int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if before, after, found := strings.Cut(s, ".."); found {
		minCount = parseCount(before)
		if minCount == nil {
			return nil, nil
		}
		maxStr := strings.TrimSpace(after)
		switch maxStr {
		case "n", "*", "unlimited":
			return minCount, nil
		}
		maxCount = parseCount(maxStr)
		if maxCount == nil {
			return nil, nil
		}
		return minCount, maxCount
	}

	// A single number means exactly that count.
	if exact := parseCount(s); exact != nil {
		return exact, exact
	}
	return nil, nil
}

// FormatCardinality is the left inverse of ParseCardinality for all
// values it produces, using "n" for an unbounded max.
func FormatCardinality(minCount, maxCount *int) string {
	if minCount == nil {
		return ""
	}
	maxStr := "n"
	if maxCount != nil {
		maxStr = strconv.Itoa(*maxCount)
	}
	return fmt.Sprintf("%d..%s", *minCount, maxStr)
}

// parseCount parses a non-negative integer, returning nil for anything
// else (permissive parse policy: invalid numeric text means "unset").
func parseCount(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

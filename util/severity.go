// Package util provides utility functions for the backend.
package util

import "strings"

// Severity levels in ascending rank order.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

var severityRank = map[string]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// SeverityRank returns the total-order rank of a severity string:
// LOW(1) < MEDIUM(2) < HIGH(3) < CRITICAL(4). Unrecognized strings
// rank as LOW; a record is never rejected on that basis alone.
func SeverityRank(severity string) int {
	if rank, ok := severityRank[strings.ToUpper(strings.TrimSpace(severity))]; ok {
		return rank
	}
	return 1
}

// NormalizeSeverity maps a free-form severity string onto the canonical
// enum, defaulting to LOW for anything unrecognized.
func NormalizeSeverity(severity string) string {
	s := strings.ToUpper(strings.TrimSpace(severity))
	if _, ok := severityRank[s]; ok {
		return s
	}
	return SeverityLow
}

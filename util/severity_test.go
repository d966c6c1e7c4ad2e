package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	tests := []struct {
		name     string
		severity string
		want     int
	}{
		{name: "low", severity: "LOW", want: 1},
		{name: "medium", severity: "MEDIUM", want: 2},
		{name: "high", severity: "HIGH", want: 3},
		{name: "critical", severity: "CRITICAL", want: 4},
		{name: "lowercase input", severity: "critical", want: 4},
		{name: "surrounding whitespace", severity: "  High ", want: 3},
		{name: "unknown ranks as low", severity: "SEVERE", want: 1},
		{name: "empty ranks as low", severity: "", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityRank(tt.severity))
		})
	}
}

func TestSeverityRankOrdering(t *testing.T) {
	order := []string{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, SeverityRank(order[i]), SeverityRank(order[i-1]),
			"%s must outrank %s", order[i], order[i-1])
	}
}

func TestNormalizeSeverity(t *testing.T) {
	assert.Equal(t, "CRITICAL", NormalizeSeverity("critical"))
	assert.Equal(t, "MEDIUM", NormalizeSeverity(" Medium "))
	assert.Equal(t, "LOW", NormalizeSeverity("moderate"))
	assert.Equal(t, "LOW", NormalizeSeverity(""))
}

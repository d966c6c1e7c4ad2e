package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCVSSScore(t *testing.T) {
	assert.InDelta(t, 9.8, CalculateCVSSScore("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"), 0.01)
	assert.Equal(t, 0.0, CalculateCVSSScore(""))
	assert.Equal(t, 0.0, CalculateCVSSScore("AV:N/AC:L"))
	assert.Equal(t, 0.0, CalculateCVSSScore("CVSS:3.1/garbage"))
}

func TestGetSeverityRating(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "NONE"},
		{0.1, "LOW"},
		{3.9, "LOW"},
		{4.0, "MEDIUM"},
		{6.9, "MEDIUM"},
		{7.0, "HIGH"},
		{8.9, "HIGH"},
		{9.0, "CRITICAL"},
		{10.0, "CRITICAL"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetSeverityRating(tt.score), "score %.1f", tt.score)
	}
}

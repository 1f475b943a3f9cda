package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRelative(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{"just now", now.Add(-10 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-4 * 24 * time.Hour), "4d ago"},
		{"months", now.Add(-65 * 24 * time.Hour), "2mo ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2y ago"},
		{"future", now.Add(2 * time.Hour), "2h from now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatRelative(tt.at, now))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("anything", 0))

	got := Truncate("a fairly long commit subject", 10)
	assert.Equal(t, 10, GetDisplayWidth(got))
	assert.Contains(t, got, "…")

	// wide runes count double
	assert.LessOrEqual(t, GetDisplayWidth(Truncate("日本語のコミット", 5)), 5)
}

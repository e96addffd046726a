package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatsFilter(t *testing.T) {
	for _, raw := range []string{"all", "today", "week", "month"} {
		assert.Equal(t, StatsFilter(raw), ParseStatsFilter(raw))
	}

	// Unrecognised values fall back to no window.
	for _, raw := range []string{"", "year", "Today", "week "} {
		assert.Equal(t, StatsFilterAll, ParseStatsFilter(raw), raw)
	}
}

func TestStatsFilter_Range(t *testing.T) {
	today := time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		filter StatsFilter
		want   DayRange
	}{
		{StatsFilterAll, DayRange{}},
		{StatsFilterToday, DayRange{From: "2026-03-31", Exact: true}},
		{StatsFilterWeek, DayRange{From: "2026-03-24"}},
		// One calendar month back from Mar 31 is Feb 31, normalized to Mar 3.
		{StatsFilterMonth, DayRange{From: "2026-03-03"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Range(today))
		})
	}

	assert.Equal(t, DayRange{From: "2026-01-15"}, StatsFilterMonth.Range(time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)))
}

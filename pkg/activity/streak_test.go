package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeStreak(t *testing.T) {
	today := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []string
		want Streak
	}{
		{"empty", nil, Streak{}},
		{"today only", []string{"2024-06-10"}, Streak{Current: 1, Longest: 1}},
		{"ends yesterday", []string{"2024-06-08", "2024-06-09"}, Streak{Current: 2, Longest: 2}},
		{"broken", []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-08"}, Streak{Current: 0, Longest: 3}},
		{"unsorted with duplicates", []string{"2024-06-10", "2024-06-09", "2024-06-10", "2024-06-05"}, Streak{Current: 2, Longest: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStreak(tt.days, today))
		})
	}
}

func TestHeatmap(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

	got := Heatmap(map[string]int{"2024-06-02": 4}, from, to)

	assert.Equal(t, []DayCount{
		{Day: "2024-06-01", Count: 0},
		{Day: "2024-06-02", Count: 4},
		{Day: "2024-06-03", Count: 0},
	}, got)
}

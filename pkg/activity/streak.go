package activity

import (
	"sort"
	"time"
)

type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreak takes the days (DayLayout) with at least one contribution.
// The current streak ends today, or yesterday when today has nothing yet.
func ComputeStreak(days []string, today time.Time) Streak {
	if len(days) == 0 {
		return Streak{}
	}

	parsed := make([]time.Time, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		t, err := time.Parse(DayLayout, d)
		if err != nil {
			continue
		}
		seen[d] = true
		parsed = append(parsed, t)
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	var s Streak
	run := 0
	for i, t := range parsed {
		if i > 0 && parsed[i-1].AddDate(0, 0, 1).Equal(t) {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
	}

	todayKey := DayKey(today)
	yesterdayKey := DayKey(today.AddDate(0, 0, -1))
	cursor := todayKey
	if !seen[todayKey] {
		if !seen[yesterdayKey] {
			return s
		}
		cursor = yesterdayKey
	}

	day, _ := time.Parse(DayLayout, cursor)
	for seen[day.Format(DayLayout)] {
		s.Current++
		day = day.AddDate(0, 0, -1)
	}
	return s
}

// Heatmap returns one entry per day in [from, to], zero-filled.
func Heatmap(counts map[string]int, from, to time.Time) []DayCount {
	start, _ := time.Parse(DayLayout, DayKey(from))
	end, _ := time.Parse(DayLayout, DayKey(to))

	var out []DayCount
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(DayLayout)
		out = append(out, DayCount{Day: key, Count: counts[key]})
	}
	return out
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

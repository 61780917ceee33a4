package services

import (
	"sort"
	"time"
)

// StreakResult reports a user's workout streaks as of a given day
type StreakResult struct {
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	FirstActiveDay  *time.Time `json:"first_workout"`
	LastActiveDay   *time.Time `json:"last_workout"`
	TotalActiveDays int        `json:"total_active_days"`
}

// dayOf truncates a timestamp to its UTC calendar date
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ComputeStreaks calculates the current and longest consecutive-day
// workout streaks from the set of dates a user logged workouts on.
// Duplicate dates count as a single active day. The current streak is
// the run ending at the most recent date, and stays alive through a
// one-day grace period: it is zero once the last active day is more
// than one day before today.
func ComputeStreaks(dates []time.Time, today time.Time) StreakResult {
	if len(dates) == 0 {
		return StreakResult{}
	}

	today = dayOf(today)

	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := dayOf(d)
		if day.After(today) {
			continue
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	if len(days) == 0 {
		return StreakResult{}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	// The run containing the final element counts toward the longest
	// streak because the max is folded on every step, not only on gaps.
	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := days[len(days)-1]
	current := run
	if today.Sub(last) > 24*time.Hour {
		current = 0
	}

	first := days[0]
	return StreakResult{
		CurrentStreak:   current,
		LongestStreak:   longest,
		FirstActiveDay:  &first,
		LastActiveDay:   &last,
		TotalActiveDays: len(days),
	}
}

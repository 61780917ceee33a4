package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeStreaksEmpty(t *testing.T) {
	result := ComputeStreaks(nil, day("2026-08-31"))

	require.Equal(t, 0, result.CurrentStreak)
	require.Equal(t, 0, result.LongestStreak)
	require.Equal(t, 0, result.TotalActiveDays)
	require.Nil(t, result.FirstActiveDay)
	require.Nil(t, result.LastActiveDay)
}

func TestComputeStreaksSingleDayToday(t *testing.T) {
	today := day("2026-08-31")
	result := ComputeStreaks([]time.Time{today}, today)

	require.Equal(t, 1, result.CurrentStreak)
	require.Equal(t, 1, result.LongestStreak)
	require.Equal(t, 1, result.TotalActiveDays)
	require.Equal(t, today, *result.FirstActiveDay)
	require.Equal(t, today, *result.LastActiveDay)
}

func TestComputeStreaksLapsedSingleDay(t *testing.T) {
	result := ComputeStreaks([]time.Time{day("2026-08-26")}, day("2026-08-31"))

	require.Equal(t, 0, result.CurrentStreak)
	require.Equal(t, 1, result.LongestStreak)
	require.Equal(t, 1, result.TotalActiveDays)
}

func TestComputeStreaksGracePeriod(t *testing.T) {
	// Last workout was yesterday: the streak is still alive.
	dates := []time.Time{day("2026-08-28"), day("2026-08-29"), day("2026-08-30")}
	result := ComputeStreaks(dates, day("2026-08-31"))

	require.Equal(t, 3, result.CurrentStreak)
	require.Equal(t, 3, result.LongestStreak)
}

func TestComputeStreaksTwoRuns(t *testing.T) {
	dates := []time.Time{
		day("2026-08-20"), day("2026-08-21"), day("2026-08-22"), day("2026-08-23"),
		day("2026-08-30"), day("2026-08-31"),
	}
	result := ComputeStreaks(dates, day("2026-08-31"))

	require.Equal(t, 2, result.CurrentStreak)
	require.Equal(t, 4, result.LongestStreak)
	require.Equal(t, 6, result.TotalActiveDays)
	require.Equal(t, day("2026-08-20"), *result.FirstActiveDay)
	require.Equal(t, day("2026-08-31"), *result.LastActiveDay)
}

func TestComputeStreaksFinalRunIsLongest(t *testing.T) {
	// The run ending today must count toward the longest streak even
	// though no gap follows it.
	dates := []time.Time{
		day("2026-08-25"),
		day("2026-08-28"), day("2026-08-29"), day("2026-08-30"), day("2026-08-31"),
	}
	result := ComputeStreaks(dates, day("2026-08-31"))

	require.Equal(t, 4, result.CurrentStreak)
	require.Equal(t, 4, result.LongestStreak)
}

func TestComputeStreaksDuplicatesAndFutureDates(t *testing.T) {
	today := day("2026-08-31")
	dates := []time.Time{
		day("2026-08-30"), day("2026-08-30"),
		time.Date(2026, 8, 30, 18, 45, 0, 0, time.UTC), // same day, different hour
		day("2026-08-31"),
		day("2026-09-05"), // future, ignored
	}
	result := ComputeStreaks(dates, today)

	require.Equal(t, 2, result.CurrentStreak)
	require.Equal(t, 2, result.LongestStreak)
	require.Equal(t, 2, result.TotalActiveDays)
	require.Equal(t, today, *result.LastActiveDay)
}

func TestComputeStreaksUnsortedInput(t *testing.T) {
	dates := []time.Time{day("2026-08-31"), day("2026-08-29"), day("2026-08-30")}
	result := ComputeStreaks(dates, day("2026-08-31"))

	require.Equal(t, 3, result.CurrentStreak)
	require.Equal(t, 3, result.LongestStreak)
	require.Equal(t, day("2026-08-29"), *result.FirstActiveDay)
}

// Package streak derives current and longest consecutive-day streaks from a
// habit's completion dates.
//
// The functions here are pure: "today" is always passed in, and stored streak
// counters are only ever a cache of these computations.
package streak

import (
	"slices"
	"time"

	"github.com/momentumx/momentumx/internal/constants"
)

// Stats is the derived streak pair persisted alongside a habit's completion dates.
type Stats struct {
	Current int
	Longest int
}

// dayNumber maps a time to a count of calendar days since the Unix epoch,
// ignoring clock time and location offset.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func distinctDays(dates []time.Time) []int64 {
	days := make([]int64, 0, len(dates))
	for _, d := range dates {
		days = append(days, dayNumber(d))
	}
	slices.Sort(days)
	return slices.Compact(days)
}

// Current returns the number of consecutive days ending today or yesterday
// on which the habit was completed. Duplicate dates count once and dates
// after today are ignored.
func Current(dates []time.Time, today time.Time) int {
	days := distinctDays(dates)
	prev := dayNumber(today)

	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d > dayNumber(today) {
			continue
		}
		gap := prev - d
		// The first step may land on today itself; after that every step is one day.
		if gap > 1 || (streak > 0 && gap != 1) {
			break
		}
		streak++
		prev = d
	}
	return streak
}

// Longest returns the longest run of consecutive completion days in the record.
func Longest(dates []time.Time) int {
	days := distinctDays(dates)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// ParseDays parses YYYY-MM-DD strings, dropping any that are malformed.
func ParseDays(days []string) []time.Time {
	out := make([]time.Time, 0, len(days))
	for _, s := range days {
		t, err := time.Parse(constants.DateFormat, s)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Recompute derives fresh streak stats from the full completion record.
// previousLongest is the persisted high-water mark; the returned Longest
// never drops below it.
func Recompute(days []string, today time.Time, previousLongest int) Stats {
	dates := ParseDays(days)
	current := Current(dates, today)
	return Stats{
		Current: current,
		Longest: max(previousLongest, Longest(dates), current),
	}
}

// Toggle flips day in the completion set. It returns the new set, sorted
// ascending without duplicates, and whether day is now completed.
func Toggle(days []string, day string) ([]string, bool) {
	out := make([]string, 0, len(days)+1)
	found := false
	for _, d := range days {
		if d == day {
			found = true
			continue
		}
		out = append(out, d)
	}
	if !found {
		out = append(out, day)
	}
	slices.Sort(out)
	return slices.Compact(out), !found
}

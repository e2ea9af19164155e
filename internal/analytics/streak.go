package analytics

import (
	"sort"

	"habittrack/internal/domain"
)

// Streak holds the consecutive-day completion runs for a habit.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreak returns the current and longest consecutive-day runs for
// habitID as of ref.
//
// A streak is "current" when its most recent day is ref or ref-1: the
// backward walk starts at ref and allows a single grace step to ref-1
// before concluding the streak is broken, so a completion yesterday still
// counts as an active streak. Any gap of two or more days resets the
// current streak to zero. Days with more than one event count once, and
// future-dated days are ordinary calendar days.
func ComputeStreak(events []domain.CompletionEvent, habitID string, ref Date) Streak {
	days := completedDays(events, habitID)
	if len(days) == 0 {
		return Streak{}
	}

	var st Streak
	check := ref
	if !days[check] {
		check = check.AddDays(-1)
	}
	for days[check] {
		st.Current++
		check = check.AddDays(-1)
	}

	sorted := sortedDays(days)
	run := 1
	st.Longest = 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].AddDays(1) == sorted[i] {
			run++
		} else {
			run = 1
		}
		if run > st.Longest {
			st.Longest = run
		}
	}
	return st
}

// completedDays maps each parseable completion day for habitID to true.
// Events with missing or malformed days are skipped; duplicates collapse.
func completedDays(events []domain.CompletionEvent, habitID string) map[Date]bool {
	days := make(map[Date]bool)
	for _, e := range events {
		if e.HabitID != habitID {
			continue
		}
		if d, ok := ParseDate(e.OccurredOn); ok {
			days[d] = true
		}
	}
	return days
}

func sortedDays(days map[Date]bool) []Date {
	out := make([]Date, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

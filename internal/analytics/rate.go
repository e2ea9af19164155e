package analytics

import (
	"math"
	"sort"

	"habittrack/internal/domain"
)

// RateMode selects how CompletionRate counts completions against the
// window.
type RateMode int

const (
	// RateLegacyTotalOverWindow divides the habit's all-time event count by
	// the window size. This reproduces the app's historical behavior; the
	// numerator is deliberately not window-scoped.
	RateLegacyTotalOverWindow RateMode = iota
	// RateStrictWindowed divides the count of distinct completed days
	// inside the window by the window size.
	RateStrictWindowed
)

// CompletedOn reports whether any event marks habitID completed on day.
func CompletedOn(events []domain.CompletionEvent, habitID string, day Date) bool {
	for _, e := range events {
		if e.HabitID != habitID {
			continue
		}
		if d, ok := ParseDate(e.OccurredOn); ok && d == day {
			return true
		}
	}
	return false
}

// CompletionRate returns a 0-100 percentage for habitID over a window of
// windowDays days ending at ref. A non-positive window yields 0.
func CompletionRate(events []domain.CompletionEvent, habitID string, windowDays int, ref Date, mode RateMode) int {
	if windowDays <= 0 {
		return 0
	}

	var count int
	switch mode {
	case RateStrictWindowed:
		start := ref.AddDays(-(windowDays - 1))
		for d := range completedDays(events, habitID) {
			if !d.Before(start) && !d.After(ref) {
				count++
			}
		}
	default:
		for _, e := range events {
			if e.HabitID == habitID {
				count++
			}
		}
	}
	return roundPct(count, windowDays)
}

// DayStat is one day of the dashboard's completion-rate series.
type DayStat struct {
	Date             Date `json:"date"`
	CompletedCount   int  `json:"completedCount"`
	TotalActiveHabits int `json:"totalActiveHabits"`
	RatePercent      int  `json:"ratePercent"`
}

// DailySeries returns one DayStat per day for the rangeDays days ending at
// ref inclusive, oldest first. CompletedCount is the number of distinct
// active (non-archived) habits completed that day; RatePercent is 0 when
// there are no active habits.
func DailySeries(habits []domain.Habit, events []domain.CompletionEvent, ref Date, rangeDays int) []DayStat {
	if rangeDays <= 0 {
		return []DayStat{}
	}

	active := make(map[string]bool)
	for _, h := range habits {
		if !h.Archived {
			active[h.ID] = true
		}
	}

	// habit set completed per day, restricted to active habits
	byDay := make(map[Date]map[string]bool)
	for _, e := range events {
		if !active[e.HabitID] {
			continue
		}
		d, ok := ParseDate(e.OccurredOn)
		if !ok {
			continue
		}
		if byDay[d] == nil {
			byDay[d] = make(map[string]bool)
		}
		byDay[d][e.HabitID] = true
	}

	out := make([]DayStat, 0, rangeDays)
	for i := rangeDays - 1; i >= 0; i-- {
		d := ref.AddDays(-i)
		completed := len(byDay[d])
		rate := 0
		if len(active) > 0 {
			rate = roundPct(completed, len(active))
		}
		out = append(out, DayStat{
			Date:              d,
			CompletedCount:    completed,
			TotalActiveHabits: len(active),
			RatePercent:       rate,
		})
	}
	return out
}

// WeekdayPoint is one day of a habit's trailing-week series.
type WeekdayPoint struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
}

// WeeklySeries returns the trailing 7 days ending at ref, oldest first,
// with Completed 1 or 0 and Day an abbreviated weekday label.
func WeeklySeries(events []domain.CompletionEvent, habitID string, ref Date) []WeekdayPoint {
	days := completedDays(events, habitID)
	out := make([]WeekdayPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		d := ref.AddDays(-i)
		completed := 0
		if days[d] {
			completed = 1
		}
		out = append(out, WeekdayPoint{Day: d.Weekday().String()[:3], Completed: completed})
	}
	return out
}

// RankedHabit is one row of the habit performance ranking.
type RankedHabit struct {
	HabitID     string `json:"habitId"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Completions int    `json:"completions"`
}

// Ranking orders active habits by completion count within the windowDays
// days ending at ref, descending. Ties keep the input habit order.
func Ranking(habits []domain.Habit, events []domain.CompletionEvent, ref Date, windowDays int) []RankedHabit {
	start := ref.AddDays(-(windowDays - 1))

	counts := make(map[string]int)
	for _, e := range events {
		d, ok := ParseDate(e.OccurredOn)
		if !ok {
			continue
		}
		if !d.Before(start) && !d.After(ref) {
			counts[e.HabitID]++
		}
	}

	out := make([]RankedHabit, 0, len(habits))
	for _, h := range habits {
		if h.Archived {
			continue
		}
		out = append(out, RankedHabit{
			HabitID:     h.ID,
			Name:        h.Name,
			Color:       h.Color,
			Completions: counts[h.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Completions > out[j].Completions })
	return out
}

// Totals are the all-time and trailing-window completion counts shown on
// the analytics overview.
type Totals struct {
	AllTime   int     `json:"totalCompletions"`
	Last7     int     `json:"last7Days"`
	Last30    int     `json:"last30Days"`
	AvgPerDay float64 `json:"avgPerDay"`
	WeeklyAvg float64 `json:"weeklyAvg"`
}

// ComputeTotals counts completion events across all habits: all time, in
// the trailing 7 days and in the trailing 30 days ending at ref, plus the
// per-day averages over those windows.
func ComputeTotals(events []domain.CompletionEvent, ref Date) Totals {
	t := Totals{AllTime: len(events)}
	for _, e := range events {
		d, ok := ParseDate(e.OccurredOn)
		if !ok || d.After(ref) {
			continue
		}
		age := ref.DaysSince(d)
		if age < 7 {
			t.Last7++
		}
		if age < 30 {
			t.Last30++
		}
	}
	t.AvgPerDay = float64(t.Last30) / 30
	t.WeeklyAvg = float64(t.Last7) / 7
	return t
}

func roundPct(n, total int) int {
	return int(math.Round(100 * float64(n) / float64(total)))
}

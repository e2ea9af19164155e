package analytics_test

import (
	"testing"
	"time"

	"habittrack/internal/analytics"
	"habittrack/internal/domain"
)

func habit(id, name string, archived bool) domain.Habit {
	return domain.Habit{
		ID: id, OwnerID: "owner-1", Name: name, Color: domain.Palette[0],
		Frequency: domain.FrequencyDaily, Archived: archived,
	}
}

func TestCompletedOn(t *testing.T) {
	events := []domain.CompletionEvent{ev("h1", 1), ev("h2", 0)}

	if !analytics.CompletedOn(events, "h1", ref.AddDays(-1)) {
		t.Error("expected h1 completed on ref-1")
	}
	if analytics.CompletedOn(events, "h1", ref) {
		t.Error("did not expect h1 completed on ref")
	}
	if analytics.CompletedOn(nil, "h1", ref) {
		t.Error("did not expect completion with no events")
	}
}

func TestCompletionRate_LegacyCountsAllHistory(t *testing.T) {
	// 45 events spread over 45 days: the legacy mode divides the all-time
	// count by the window, which can exceed 100%.
	events := make([]domain.CompletionEvent, 0, 45)
	for i := 0; i < 45; i++ {
		events = append(events, ev("h1", i))
	}

	got := analytics.CompletionRate(events, "h1", 30, ref, analytics.RateLegacyTotalOverWindow)
	if got != 150 {
		t.Errorf("legacy rate = %d; want 150", got)
	}

	strict := analytics.CompletionRate(events, "h1", 30, ref, analytics.RateStrictWindowed)
	if strict != 100 {
		t.Errorf("strict rate = %d; want 100", strict)
	}
}

func TestCompletionRate_StrictWindowed(t *testing.T) {
	events := []domain.CompletionEvent{
		ev("h1", 0), ev("h1", 0), // duplicate day counts once
		ev("h1", 5),
		ev("h1", 40), // outside a 30-day window
	}
	got := analytics.CompletionRate(events, "h1", 30, ref, analytics.RateStrictWindowed)
	if got != 7 { // round(100*2/30)
		t.Errorf("strict rate = %d; want 7", got)
	}
}

func TestCompletionRate_ZeroWindow(t *testing.T) {
	if got := analytics.CompletionRate([]domain.CompletionEvent{ev("h1", 0)}, "h1", 0, ref, analytics.RateLegacyTotalOverWindow); got != 0 {
		t.Errorf("rate with zero window = %d; want 0", got)
	}
}

func TestDailySeries(t *testing.T) {
	habits := []domain.Habit{habit("h1", "Read", false), habit("h2", "Run", false)}
	events := []domain.CompletionEvent{
		ev("h1", 1), // day T-1: 1 of 2 active completed
		ev("h1", 0), ev("h2", 0), // day T: 2 of 2
	}

	series := analytics.DailySeries(habits, events, ref, 3)
	if len(series) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(series))
	}

	// oldest first
	if series[0].Date != ref.AddDays(-2) || series[2].Date != ref {
		t.Fatalf("series not oldest-first: %v .. %v", series[0].Date, series[2].Date)
	}

	d1 := series[1]
	if d1.CompletedCount != 1 || d1.TotalActiveHabits != 2 || d1.RatePercent != 50 {
		t.Errorf("T-1 = %+v; want completed=1 total=2 rate=50", d1)
	}
	if series[2].RatePercent != 100 {
		t.Errorf("T rate = %d; want 100", series[2].RatePercent)
	}
	if series[0].CompletedCount != 0 || series[0].RatePercent != 0 {
		t.Errorf("T-2 = %+v; want completed=0 rate=0", series[0])
	}
}

func TestDailySeries_ExcludesArchivedAndOrphans(t *testing.T) {
	habits := []domain.Habit{habit("h1", "Read", false), habit("h2", "Old", true)}
	events := []domain.CompletionEvent{
		ev("h1", 0),
		ev("h2", 0),    // archived habit
		ev("ghost", 0), // deleted habit
	}

	series := analytics.DailySeries(habits, events, ref, 1)
	if len(series) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(series))
	}
	got := series[0]
	if got.CompletedCount != 1 || got.TotalActiveHabits != 1 || got.RatePercent != 100 {
		t.Errorf("got %+v; want completed=1 total=1 rate=100", got)
	}
}

func TestDailySeries_NoActiveHabits(t *testing.T) {
	series := analytics.DailySeries(nil, []domain.CompletionEvent{ev("h1", 0)}, ref, 2)
	for _, d := range series {
		if d.RatePercent != 0 || d.TotalActiveHabits != 0 {
			t.Errorf("expected zero rate with no active habits, got %+v", d)
		}
	}
}

func TestDailySeries_DuplicateEventsCountOnce(t *testing.T) {
	habits := []domain.Habit{habit("h1", "Read", false)}
	events := []domain.CompletionEvent{ev("h1", 0), ev("h1", 0)}
	series := analytics.DailySeries(habits, events, ref, 1)
	if series[0].CompletedCount != 1 {
		t.Errorf("completedCount = %d; want 1", series[0].CompletedCount)
	}
}

func TestWeeklySeries(t *testing.T) {
	events := []domain.CompletionEvent{ev("h1", 0), ev("h1", 2), ev("h1", 6)}
	week := analytics.WeeklySeries(events, "h1", ref)
	if len(week) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(week))
	}

	wantCompleted := []int{1, 0, 0, 0, 1, 0, 1} // oldest (ref-6) first
	for i, p := range week {
		if p.Completed != wantCompleted[i] {
			t.Errorf("day %d completed = %d; want %d", i, p.Completed, wantCompleted[i])
		}
	}
	if week[6].Day != ref.Weekday().String()[:3] {
		t.Errorf("last label = %q; want %q", week[6].Day, ref.Weekday().String()[:3])
	}
}

func TestRanking(t *testing.T) {
	habits := []domain.Habit{habit("a", "A", false), habit("b", "B", false), habit("c", "C", false)}
	var events []domain.CompletionEvent
	for i := 0; i < 5; i++ {
		events = append(events, ev("a", i))
	}
	for i := 0; i < 3; i++ {
		events = append(events, ev("b", i))
	}
	events = append(events, ev("a", 40)) // outside the window

	ranked := analytics.Ranking(habits, events, ref, 30)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ranked))
	}
	if ranked[0].HabitID != "a" || ranked[0].Completions != 5 {
		t.Errorf("first = %+v; want a with 5", ranked[0])
	}
	if ranked[1].HabitID != "b" || ranked[1].Completions != 3 {
		t.Errorf("second = %+v; want b with 3", ranked[1])
	}
	if ranked[2].HabitID != "c" || ranked[2].Completions != 0 {
		t.Errorf("third = %+v; want c with 0", ranked[2])
	}
}

func TestRanking_StableTies(t *testing.T) {
	habits := []domain.Habit{habit("x", "X", false), habit("y", "Y", false)}
	events := []domain.CompletionEvent{ev("x", 0), ev("y", 1)}
	ranked := analytics.Ranking(habits, events, ref, 30)
	if ranked[0].HabitID != "x" || ranked[1].HabitID != "y" {
		t.Errorf("tie broke input order: %v", ranked)
	}
}

func TestComputeTotals(t *testing.T) {
	events := []domain.CompletionEvent{
		ev("h1", 0), ev("h1", 6), // inside 7 days
		ev("h1", 10), ev("h2", 29), // inside 30 days
		ev("h2", 100), // all-time only
		{ID: "bad", HabitID: "h1", OccurredOn: "garbage"},
	}
	got := analytics.ComputeTotals(events, ref)
	if got.AllTime != 6 {
		t.Errorf("allTime = %d; want 6", got.AllTime)
	}
	if got.Last7 != 2 {
		t.Errorf("last7 = %d; want 2", got.Last7)
	}
	if got.Last30 != 4 {
		t.Errorf("last30 = %d; want 4", got.Last30)
	}
	if got.WeeklyAvg != 2.0/7 {
		t.Errorf("weeklyAvg = %v; want %v", got.WeeklyAvg, 2.0/7)
	}
}

func TestDateRoundTrip(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2026-03-15", true},
		{"2026-12-31", true},
		{"", false},
		{"15/03/2026", false},
		{"2026-13-40", false},
	}
	for _, tc := range tests {
		d, ok := analytics.ParseDate(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseDate(%q) ok = %v; want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && d.String() != tc.in {
			t.Errorf("round trip %q -> %q", tc.in, d.String())
		}
	}
}

func TestDateAddDaysAcrossBoundaries(t *testing.T) {
	d := analytics.Date{Year: 2026, Month: time.February, Day: 28}
	if got := d.AddDays(1).String(); got != "2026-03-01" {
		t.Errorf("Feb 28 + 1 = %s; want 2026-03-01", got)
	}
	if got := d.AddDays(-59).String(); got != "2025-12-31" {
		t.Errorf("Feb 28 - 59 = %s; want 2025-12-31", got)
	}
	if n := d.AddDays(10).DaysSince(d); n != 10 {
		t.Errorf("DaysSince = %d; want 10", n)
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	// 2026-03-15 03:00 UTC is still 2026-03-14 in UTC-5.
	instant := time.Date(2026, time.March, 15, 3, 0, 0, 0, time.UTC)
	est := time.FixedZone("UTC-5", -5*60*60)

	if got := analytics.DateOf(instant, time.UTC).String(); got != "2026-03-15" {
		t.Errorf("UTC day = %s; want 2026-03-15", got)
	}
	if got := analytics.DateOf(instant, est).String(); got != "2026-03-14" {
		t.Errorf("UTC-5 day = %s; want 2026-03-14", got)
	}
}

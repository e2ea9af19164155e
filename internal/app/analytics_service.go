package app

import (
	"context"
	"io"
	"time"

	"habittrack/internal/analytics"
	"habittrack/internal/domain"
)

// maxRangeDays caps chart ranges to a year.
const maxRangeDays = 366

// AnalyticsService loads (habits, completions) snapshots from the
// repositories and evaluates the pure analytics engine over them. It holds
// no state of its own beyond the configured day-boundary location.
type AnalyticsService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	loc         *time.Location

	// Now is the reference clock; override in tests.
	Now func() time.Time
}

// NewAnalyticsService creates an AnalyticsService using loc as the
// day-boundary location.
func NewAnalyticsService(habits domain.HabitRepository, completions domain.CompletionRepository, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{habits: habits, completions: completions, loc: loc, Now: time.Now}
}

func (s *AnalyticsService) today() analytics.Date {
	return analytics.DateOf(s.Now(), s.loc)
}

func (s *AnalyticsService) snapshot(ctx context.Context, ownerID string) ([]domain.Habit, []domain.CompletionEvent, error) {
	habits, err := s.habits.ListHabits(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	completions, err := s.completions.ListCompletions(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	return habits, completions, nil
}

// DashboardSummary is the headline view of a user's day.
type DashboardSummary struct {
	Today          string           `json:"today"`
	TotalHabits    int              `json:"totalHabits"`
	CompletedToday int              `json:"completedToday"`
	CompletionRate int              `json:"completionRate"`
	ActiveStreaks  int              `json:"activeStreaks"`
	Totals         analytics.Totals `json:"totals"`
}

// Dashboard returns today's headline numbers: active habit count, habits
// completed today with the resulting rate, how many habits carry a live
// streak, and the overall completion totals.
func (s *AnalyticsService) Dashboard(ctx context.Context, ownerID string) (*DashboardSummary, error) {
	habits, completions, err := s.snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	today := s.today()

	summary := &DashboardSummary{
		Today:  today.String(),
		Totals: analytics.ComputeTotals(completions, today),
	}
	for _, h := range habits {
		if h.Archived {
			continue
		}
		summary.TotalHabits++
		if analytics.CompletedOn(completions, h.ID, today) {
			summary.CompletedToday++
		}
		if analytics.ComputeStreak(completions, h.ID, today).Current > 0 {
			summary.ActiveStreaks++
		}
	}
	if summary.TotalHabits > 0 {
		series := analytics.DailySeries(habits, completions, today, 1)
		summary.CompletionRate = series[0].RatePercent
	}
	return summary, nil
}

// HabitStats is the per-habit detail view.
type HabitStats struct {
	Habit          domain.Habit             `json:"habit"`
	Streak         analytics.Streak         `json:"streak"`
	CompletionRate int                      `json:"completionRate"`
	CompletedToday bool                     `json:"completedToday"`
	Week           []analytics.WeekdayPoint `json:"week"`
}

// HabitStats returns streak, 30-day completion rate and the trailing-week
// series for one habit.
func (s *AnalyticsService) HabitStats(ctx context.Context, ownerID, habitID string) (*HabitStats, error) {
	h, err := s.habits.GetHabit(ctx, ownerID, habitID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrHabitNotFound
	}
	completions, err := s.completions.ListCompletions(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	today := s.today()
	return &HabitStats{
		Habit:          *h,
		Streak:         analytics.ComputeStreak(completions, habitID, today),
		CompletionRate: analytics.CompletionRate(completions, habitID, 30, today, analytics.RateLegacyTotalOverWindow),
		CompletedToday: analytics.CompletedOn(completions, habitID, today),
		Week:           analytics.WeeklySeries(completions, habitID, today),
	}, nil
}

// Daily returns the completion-rate series for the rangeDays days ending
// today, oldest first. The range is clamped to a year.
func (s *AnalyticsService) Daily(ctx context.Context, ownerID string, rangeDays int) ([]analytics.DayStat, error) {
	if rangeDays > maxRangeDays {
		rangeDays = maxRangeDays
	}
	habits, completions, err := s.snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return analytics.DailySeries(habits, completions, s.today(), rangeDays), nil
}

// Ranking returns active habits ordered by completions within the window.
func (s *AnalyticsService) Ranking(ctx context.Context, ownerID string, windowDays int) ([]analytics.RankedHabit, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	habits, completions, err := s.snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return analytics.Ranking(habits, completions, s.today(), windowDays), nil
}

// ListFiltered returns the owner's habits through the UI filter state.
func (s *AnalyticsService) ListFiltered(ctx context.Context, ownerID string, f analytics.ListFilter) ([]domain.Habit, error) {
	habits, completions, err := s.snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return analytics.FilterHabits(habits, completions, f, s.today()), nil
}

// Categories returns the distinct categories across the owner's habits.
func (s *AnalyticsService) Categories(ctx context.Context, ownerID string) ([]string, error) {
	habits, err := s.habits.ListHabits(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return analytics.Categories(habits), nil
}

// ExportJSON writes the owner's full data as an indented JSON document.
func (s *AnalyticsService) ExportJSON(ctx context.Context, ownerID string, w io.Writer) error {
	habits, completions, err := s.snapshot(ctx, ownerID)
	if err != nil {
		return err
	}
	return analytics.WriteJSON(w, analytics.BuildExport(habits, completions, s.Now()))
}

// ExportCSV writes the owner's completion log as CSV rows.
func (s *AnalyticsService) ExportCSV(ctx context.Context, ownerID string, w io.Writer) error {
	habits, completions, err := s.snapshot(ctx, ownerID)
	if err != nil {
		return err
	}
	return analytics.WriteCSV(w, habits, completions)
}

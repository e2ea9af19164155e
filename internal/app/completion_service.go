package app

import (
	"context"
	"errors"
	"time"

	"habittrack/internal/analytics"
	"habittrack/internal/domain"
)

var (
	// ErrInvalidDay indicates a day string that is not "2006-01-02".
	ErrInvalidDay = errors.New(`day must be formatted "2006-01-02"`)
	// ErrFutureDay indicates an attempt to record a completion for a day
	// after today. The engine would accept it; the boundary refuses it.
	ErrFutureDay = errors.New("cannot record a completion for a future day")
)

// CompletionService encapsulates the toggle-complete use cases. The day
// boundary is the configured location, applied here once; everything past
// this point works in plain calendar days.
type CompletionService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	loc         *time.Location

	// Now is the clock used for the future-day check; override in tests.
	Now func() time.Time
}

// NewCompletionService creates a CompletionService using loc as the
// day-boundary location.
func NewCompletionService(habits domain.HabitRepository, completions domain.CompletionRepository, loc *time.Location) *CompletionService {
	if loc == nil {
		loc = time.UTC
	}
	return &CompletionService{habits: habits, completions: completions, loc: loc, Now: time.Now}
}

// Today returns the current calendar day in the configured location.
func (s *CompletionService) Today() analytics.Date {
	return analytics.DateOf(s.Now(), s.loc)
}

func (s *CompletionService) checkDay(day string) error {
	d, ok := analytics.ParseDate(day)
	if !ok {
		return ErrInvalidDay
	}
	if d.After(s.Today()) {
		return ErrFutureDay
	}
	return nil
}

func (s *CompletionService) habitExists(ctx context.Context, ownerID, habitID string) error {
	h, err := s.habits.GetHabit(ctx, ownerID, habitID)
	if err != nil {
		return err
	}
	if h == nil {
		return ErrHabitNotFound
	}
	return nil
}

// Toggle flips the completion state of (habitID, day): it creates an event
// when none exists and deletes every event for the pair otherwise, which
// also heals duplicate events. Returns the resulting completed state.
func (s *CompletionService) Toggle(ctx context.Context, ownerID, habitID, day string) (bool, error) {
	if err := s.checkDay(day); err != nil {
		return false, err
	}
	if err := s.habitExists(ctx, ownerID, habitID); err != nil {
		return false, err
	}

	exists, err := s.completions.CompletionExists(ctx, ownerID, habitID, day)
	if err != nil {
		return false, err
	}
	if exists {
		if _, err := s.completions.DeleteCompletionsForDay(ctx, ownerID, habitID, day); err != nil {
			return true, err
		}
		return false, nil
	}
	if _, err := s.completions.CreateCompletion(ctx, ownerID, habitID, day); err != nil {
		return false, err
	}
	return true, nil
}

// Complete records a completion for (habitID, day). Recording a day that
// is already completed is a no-op, keeping duplicate clicks harmless.
func (s *CompletionService) Complete(ctx context.Context, ownerID, habitID, day string) error {
	if err := s.checkDay(day); err != nil {
		return err
	}
	if err := s.habitExists(ctx, ownerID, habitID); err != nil {
		return err
	}
	exists, err := s.completions.CompletionExists(ctx, ownerID, habitID, day)
	if err != nil || exists {
		return err
	}
	_, err = s.completions.CreateCompletion(ctx, ownerID, habitID, day)
	return err
}

// Uncomplete removes all completions for (habitID, day). Removing a day
// that is not completed is a no-op.
func (s *CompletionService) Uncomplete(ctx context.Context, ownerID, habitID, day string) error {
	if _, ok := analytics.ParseDate(day); !ok {
		return ErrInvalidDay
	}
	_, err := s.completions.DeleteCompletionsForDay(ctx, ownerID, habitID, day)
	return err
}

// ListAll returns the owner's full completion log.
func (s *CompletionService) ListAll(ctx context.Context, ownerID string) ([]domain.CompletionEvent, error) {
	return s.completions.ListCompletions(ctx, ownerID)
}

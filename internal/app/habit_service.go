// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"habittrack/internal/domain"
)

var (
	// ErrHabitNotFound indicates the habit does not exist for this owner.
	ErrHabitNotFound = errors.New("habit not found")
)

// HabitService encapsulates habit CRUD use cases and boundary validation.
// The analytics engine trusts its inputs; everything enforced here keeps
// that assumption honest.
type HabitService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
}

// NewHabitService creates a HabitService backed by the given repositories.
func NewHabitService(habits domain.HabitRepository, completions domain.CompletionRepository) *HabitService {
	return &HabitService{habits: habits, completions: completions}
}

// HabitInput carries the user-editable habit fields.
type HabitInput struct {
	Name              string           `json:"name"`
	Category          string           `json:"category"`
	Color             string           `json:"color"`
	Frequency         domain.Frequency `json:"frequency"`
	TargetDaysPerWeek int              `json:"targetDaysPerWeek"`
}

func (in *HabitInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(in.Name) < 2 {
		return errors.New("name must be at least 2 characters")
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Color == "" {
		in.Color = domain.Palette[0]
	}
	if !domain.ValidColor(in.Color) {
		return errors.New("color must be one of the palette colors")
	}
	if in.Frequency == "" {
		in.Frequency = domain.FrequencyDaily
	}
	if !in.Frequency.Valid() {
		return errors.New(`frequency must be "daily", "weekly" or "custom"`)
	}
	if in.Frequency == domain.FrequencyCustom {
		if in.TargetDaysPerWeek < 1 || in.TargetDaysPerWeek > 7 {
			return errors.New("targetDaysPerWeek must be within [1, 7]")
		}
	} else {
		in.TargetDaysPerWeek = 0
	}
	return nil
}

// Create validates and stores a new habit for ownerID.
func (s *HabitService) Create(ctx context.Context, ownerID string, in HabitInput) (*domain.Habit, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.habits.CreateHabit(ctx, domain.Habit{
		OwnerID:           ownerID,
		Name:              in.Name,
		Category:          in.Category,
		Color:             in.Color,
		Frequency:         in.Frequency,
		TargetDaysPerWeek: in.TargetDaysPerWeek,
	})
}

// Update validates and applies edits to an existing habit.
func (s *HabitService) Update(ctx context.Context, ownerID, id string, in HabitInput) (*domain.Habit, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.habits.GetHabit(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrHabitNotFound
	}
	existing.Name = in.Name
	existing.Category = in.Category
	existing.Color = in.Color
	existing.Frequency = in.Frequency
	existing.TargetDaysPerWeek = in.TargetDaysPerWeek
	return s.habits.UpdateHabit(ctx, *existing)
}

// SetArchived archives or unarchives a habit. Archived habits drop out of
// active aggregates but keep their history.
func (s *HabitService) SetArchived(ctx context.Context, ownerID, id string, archived bool) error {
	existing, err := s.habits.GetHabit(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrHabitNotFound
	}
	return s.habits.SetArchived(ctx, ownerID, id, archived)
}

// Delete removes a habit. Completions referencing it become orphaned and
// are ignored by analytics; set purgeCompletions to sweep them as well.
func (s *HabitService) Delete(ctx context.Context, ownerID, id string, purgeCompletions bool) error {
	existing, err := s.habits.GetHabit(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrHabitNotFound
	}
	if err := s.habits.DeleteHabit(ctx, ownerID, id); err != nil {
		return err
	}
	if purgeCompletions {
		return s.completions.DeleteCompletionsByHabit(ctx, ownerID, id)
	}
	return nil
}

// Get returns a single habit.
func (s *HabitService) Get(ctx context.Context, ownerID, id string) (*domain.Habit, error) {
	h, err := s.habits.GetHabit(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrHabitNotFound
	}
	return h, nil
}

// List returns all habits for ownerID, archived included.
func (s *HabitService) List(ctx context.Context, ownerID string) ([]domain.Habit, error) {
	return s.habits.ListHabits(ctx, ownerID)
}

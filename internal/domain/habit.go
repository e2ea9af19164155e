// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Frequency describes the cadence a habit is tracked at.
type Frequency string

// Supported habit frequencies.
const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyCustom
}

// Palette is the fixed set of display colors a habit may use. It has no
// semantics beyond display grouping.
var Palette = []string{
	"#EF4444", // red
	"#F59E0B", // amber
	"#10B981", // green
	"#3B82F6", // blue
	"#8B5CF6", // purple
	"#EC4899", // pink
	"#14B8A6", // teal
	"#F97316", // orange
}

// ValidColor reports whether c is a palette color.
func ValidColor(c string) bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// Habit represents a tracked recurring activity.
type Habit struct {
	ID       string    `json:"id"`
	OwnerID  string    `json:"ownerId"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
	Color    string    `json:"color"`
	Frequency Frequency `json:"frequency"`
	// TargetDaysPerWeek is meaningful only when Frequency is custom.
	TargetDaysPerWeek int       `json:"targetDaysPerWeek,omitempty"`
	Archived          bool      `json:"archived"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// HabitRepository defines the port for habit persistence operations. All
// queries are scoped to an owner; IDs and timestamps are assigned by the
// repository at create time.
type HabitRepository interface {
	CreateHabit(ctx context.Context, h Habit) (*Habit, error)
	UpdateHabit(ctx context.Context, h Habit) (*Habit, error)
	DeleteHabit(ctx context.Context, ownerID, id string) error
	SetArchived(ctx context.Context, ownerID, id string, archived bool) error
	GetHabit(ctx context.Context, ownerID, id string) (*Habit, error)
	ListHabits(ctx context.Context, ownerID string) ([]Habit, error)
}

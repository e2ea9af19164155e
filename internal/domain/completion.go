package domain

import (
	"context"
	"time"
)

// CompletionEvent records that a habit was performed on a specific calendar
// day. OccurredOn is the day the completion is recorded for ("2006-01-02"),
// not the creation instant; CreatedAt is audit only.
//
// The store does not guarantee uniqueness of (HabitID, OccurredOn), and a
// deleted habit leaves its events orphaned. Consumers must tolerate both.
type CompletionEvent struct {
	ID         string    `json:"id"`
	HabitID    string    `json:"habitId"`
	OwnerID    string    `json:"ownerId"`
	OccurredOn string    `json:"occurredOn"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CompletionRepository defines the port for completion persistence.
type CompletionRepository interface {
	CreateCompletion(ctx context.Context, ownerID, habitID, day string) (*CompletionEvent, error)
	// DeleteCompletionsForDay removes every event for the (habit, day) pair
	// and returns how many were removed. Deleting all rows also heals any
	// duplicates that slipped in.
	DeleteCompletionsForDay(ctx context.Context, ownerID, habitID, day string) (int, error)
	// DeleteCompletionsByHabit removes all events for a habit, used to sweep
	// orphans after a habit delete.
	DeleteCompletionsByHabit(ctx context.Context, ownerID, habitID string) error
	CompletionExists(ctx context.Context, ownerID, habitID, day string) (bool, error)
	ListCompletions(ctx context.Context, ownerID string) ([]CompletionEvent, error)
}

package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"habittrack/internal/domain"
)

// CreateCompletion appends a completion event for the given day.
func (d *DB) CreateCompletion(ctx context.Context, ownerID, habitID, day string) (*domain.CompletionEvent, error) {
	e := domain.CompletionEvent{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		HabitID:    habitID,
		OccurredOn: day,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO completions(id, owner_id, habit_id, occurred_on, created_at) VALUES($1, $2, $3, $4, $5);",
		e.ID, e.OwnerID, e.HabitID, e.OccurredOn, e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteCompletionsForDay removes every completion row for the habit on the
// day, returning how many were deleted.
func (d *DB) DeleteCompletionsForDay(ctx context.Context, ownerID, habitID, day string) (int, error) {
	res, err := d.sql.ExecContext(ctx,
		"DELETE FROM completions WHERE owner_id=$1 AND habit_id=$2 AND occurred_on=$3;",
		ownerID, habitID, day,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// DeleteCompletionsByHabit purges the habit's entire completion history.
func (d *DB) DeleteCompletionsByHabit(ctx context.Context, ownerID, habitID string) error {
	_, err := d.sql.ExecContext(ctx,
		"DELETE FROM completions WHERE owner_id=$1 AND habit_id=$2;", ownerID, habitID)
	return err
}

// CompletionExists reports whether the habit has any completion on the day.
func (d *DB) CompletionExists(ctx context.Context, ownerID, habitID, day string) (bool, error) {
	var exists bool
	err := d.sql.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM completions WHERE owner_id=$1 AND habit_id=$2 AND occurred_on=$3);",
		ownerID, habitID, day,
	).Scan(&exists)
	return exists, err
}

// ListCompletions returns all of the owner's completion events, oldest first.
func (d *DB) ListCompletions(ctx context.Context, ownerID string) ([]domain.CompletionEvent, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, owner_id, habit_id, occurred_on, created_at FROM completions WHERE owner_id=$1 ORDER BY occurred_on, created_at;",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.CompletionEvent{}
	for rows.Next() {
		var e domain.CompletionEvent
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.HabitID, &e.OccurredOn, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

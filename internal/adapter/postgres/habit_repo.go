package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"habittrack/internal/domain"
)

const habitColumns = "id, owner_id, name, category, color, frequency, target_days_per_week, archived, created_at, updated_at"

// CreateHabit inserts a new habit, assigning its ID and timestamps.
func (d *DB) CreateHabit(ctx context.Context, h domain.Habit) (*domain.Habit, error) {
	now := time.Now().UTC()
	h.ID = uuid.NewString()
	h.CreatedAt = now
	h.UpdatedAt = now

	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO habits("+habitColumns+") VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);",
		h.ID, h.OwnerID, h.Name, h.Category, h.Color, h.Frequency, h.TargetDaysPerWeek, h.Archived, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// UpdateHabit replaces the editable fields of an existing habit.
func (d *DB) UpdateHabit(ctx context.Context, h domain.Habit) (*domain.Habit, error) {
	h.UpdatedAt = time.Now().UTC()

	res, err := d.sql.ExecContext(ctx,
		"UPDATE habits SET name=$1, category=$2, color=$3, frequency=$4, target_days_per_week=$5, updated_at=$6 WHERE id=$7 AND owner_id=$8;",
		h.Name, h.Category, h.Color, h.Frequency, h.TargetDaysPerWeek, h.UpdatedAt, h.ID, h.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return d.GetHabit(ctx, h.OwnerID, h.ID)
}

// DeleteHabit removes a habit row. Completion rows are not touched here.
func (d *DB) DeleteHabit(ctx context.Context, ownerID, id string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM habits WHERE id=$1 AND owner_id=$2;", id, ownerID)
	return err
}

// SetArchived flips the archived flag on a habit.
func (d *DB) SetArchived(ctx context.Context, ownerID, id string, archived bool) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE habits SET archived=$1, updated_at=$2 WHERE id=$3 AND owner_id=$4;",
		archived, time.Now().UTC(), id, ownerID,
	)
	return err
}

// GetHabit retrieves one habit, or nil when it does not exist.
func (d *DB) GetHabit(ctx context.Context, ownerID, id string) (*domain.Habit, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+habitColumns+" FROM habits WHERE id=$1 AND owner_id=$2;", id, ownerID)

	var h domain.Habit
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Category, &h.Color, &h.Frequency,
		&h.TargetDaysPerWeek, &h.Archived, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHabits returns all of the owner's habits, newest first.
func (d *DB) ListHabits(ctx context.Context, ownerID string) ([]domain.Habit, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+habitColumns+" FROM habits WHERE owner_id=$1 ORDER BY created_at DESC;", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Habit{}
	for rows.Next() {
		var h domain.Habit
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Category, &h.Color, &h.Frequency,
			&h.TargetDaysPerWeek, &h.Archived, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

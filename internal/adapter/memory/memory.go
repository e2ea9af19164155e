// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"habittrack/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu          sync.Mutex
	habits      []domain.Habit
	completions []domain.CompletionEvent
	users       []*domain.User
	sessions    map[string]*domain.Session
	resets      map[string]*domain.PasswordReset
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
		resets:   make(map[string]*domain.PasswordReset),
	}
}

// Ensure interfaces are met.
var _ domain.HabitRepository = (*DB)(nil)
var _ domain.CompletionRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)
var _ domain.PasswordResetRepository = (*ResetRepo)(nil)

// --- HabitRepository ---

// CreateHabit adds a habit, assigning its ID and timestamps.
func (db *DB) CreateHabit(ctx context.Context, h domain.Habit) (*domain.Habit, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := time.Now().UTC()
	h.ID = uuid.NewString()
	h.CreatedAt = now
	h.UpdatedAt = now
	db.habits = append(db.habits, h)
	return &h, nil
}

// UpdateHabit replaces the editable fields of an existing habit.
func (db *DB) UpdateHabit(ctx context.Context, h domain.Habit) (*domain.Habit, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.habits {
		cur := &db.habits[i]
		if cur.ID == h.ID && cur.OwnerID == h.OwnerID {
			cur.Name = h.Name
			cur.Category = h.Category
			cur.Color = h.Color
			cur.Frequency = h.Frequency
			cur.TargetDaysPerWeek = h.TargetDaysPerWeek
			cur.UpdatedAt = time.Now().UTC()
			out := *cur
			return &out, nil
		}
	}
	return nil, nil
}

// DeleteHabit removes a habit. Completions are left in place.
func (db *DB) DeleteHabit(ctx context.Context, ownerID, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, h := range db.habits {
		if h.ID == id && h.OwnerID == ownerID {
			db.habits = append(db.habits[:i], db.habits[i+1:]...)
			return nil
		}
	}
	return nil
}

// SetArchived flips the archived flag on a habit.
func (db *DB) SetArchived(ctx context.Context, ownerID, id string, archived bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.habits {
		if db.habits[i].ID == id && db.habits[i].OwnerID == ownerID {
			db.habits[i].Archived = archived
			db.habits[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return nil
}

// GetHabit retrieves one habit, or nil when it does not exist.
func (db *DB) GetHabit(ctx context.Context, ownerID, id string) (*domain.Habit, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, h := range db.habits {
		if h.ID == id && h.OwnerID == ownerID {
			out := h
			return &out, nil
		}
	}
	return nil, nil
}

// ListHabits returns all of the owner's habits, newest first.
func (db *DB) ListHabits(ctx context.Context, ownerID string) ([]domain.Habit, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := []domain.Habit{}
	for _, h := range db.habits {
		if h.OwnerID == ownerID {
			result = append(result, h)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// --- CompletionRepository ---

// CreateCompletion appends a completion event for the given day.
func (db *DB) CreateCompletion(ctx context.Context, ownerID, habitID, day string) (*domain.CompletionEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	e := domain.CompletionEvent{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		HabitID:    habitID,
		OccurredOn: day,
		CreatedAt:  time.Now().UTC(),
	}
	db.completions = append(db.completions, e)
	return &e, nil
}

// DeleteCompletionsForDay removes every completion for the habit on the day.
func (db *DB) DeleteCompletionsForDay(ctx context.Context, ownerID, habitID, day string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	kept := db.completions[:0]
	deleted := 0
	for _, e := range db.completions {
		if e.OwnerID == ownerID && e.HabitID == habitID && e.OccurredOn == day {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	db.completions = kept
	return deleted, nil
}

// DeleteCompletionsByHabit purges the habit's entire completion history.
func (db *DB) DeleteCompletionsByHabit(ctx context.Context, ownerID, habitID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	kept := db.completions[:0]
	for _, e := range db.completions {
		if e.OwnerID == ownerID && e.HabitID == habitID {
			continue
		}
		kept = append(kept, e)
	}
	db.completions = kept
	return nil
}

// CompletionExists reports whether the habit has any completion on the day.
func (db *DB) CompletionExists(ctx context.Context, ownerID, habitID, day string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, e := range db.completions {
		if e.OwnerID == ownerID && e.HabitID == habitID && e.OccurredOn == day {
			return true, nil
		}
	}
	return false, nil
}

// ListCompletions returns all of the owner's completion events, oldest first.
func (db *DB) ListCompletions(ctx context.Context, ownerID string) ([]domain.CompletionEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := []domain.CompletionEvent{}
	for _, e := range db.completions {
		if e.OwnerID == ownerID {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccurredOn < result[j].OccurredOn
	})
	return result, nil
}

// --- UserRepository ---

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// CreateUser creates a new user.
func (db *DB) CreateUser(ctx context.Context, email, displayName, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return nil, errors.New("user already exists")
		}
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// UpdateUserProfile changes the display name and photo URL.
func (db *DB) UpdateUserProfile(ctx context.Context, id, displayName, photoURL string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			u.DisplayName = displayName
			u.PhotoURL = photoURL
			return u, nil
		}
	}
	return nil, nil
}

// UpdateUserPassword replaces the stored password hash.
func (db *DB) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return errors.New("user not found")
}

// CountUsers returns the total number of users.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// CreateSession creates a new session.
func (r *SessionRepo) CreateSession(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetSession retrieves a session by token.
func (r *SessionRepo) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		if time.Now().After(s.ExpiresAt) {
			delete(r.db.sessions, token)
			return nil, nil
		}
		return s, nil
	}
	return nil, nil
}

// DeleteSession deletes a session.
func (r *SessionRepo) DeleteSession(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpiredSessions deletes all expired sessions.
func (r *SessionRepo) DeleteExpiredSessions(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}

// --- PasswordResetRepository ---

// ResetRepo implements password reset persistence.
type ResetRepo struct {
	db *DB
}

// NewResetRepo creates a new password reset repository.
func (db *DB) NewResetRepo() *ResetRepo {
	return &ResetRepo{db: db}
}

// CreatePasswordReset stores a one-time reset token.
func (r *ResetRepo) CreatePasswordReset(ctx context.Context, userID, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.resets[token] = &domain.PasswordReset{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// ConsumePasswordReset deletes the token and returns it, or nil when the
// token was never issued or has already been used.
func (r *ResetRepo) ConsumePasswordReset(ctx context.Context, token string) (*domain.PasswordReset, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	reset, ok := r.db.resets[token]
	if !ok {
		return nil, nil
	}
	delete(r.db.resets, token)
	return reset, nil
}

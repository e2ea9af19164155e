package domain

import (
	"context"
	"time"
)

// User represents an authenticated user in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PhotoURL     string    `json:"photoURL,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session represents an active user session.
type Session struct {
	Token     string
	UserID    string
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordReset is a one-time token allowing a user to set a new password.
type PasswordReset struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, email, displayName, passwordHash string) (*User, error)
	UpdateUserProfile(ctx context.Context, id, displayName, photoURL string) (*User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	CountUsers(ctx context.Context) (int, error)
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	CreateSession(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) error
}

// PasswordResetRepository defines the port for reset token persistence.
type PasswordResetRepository interface {
	CreatePasswordReset(ctx context.Context, userID, token string, expiresAt time.Time) error
	// ConsumePasswordReset retrieves and invalidates a token in one step.
	// Returns nil if the token does not exist or was already consumed.
	ConsumePasswordReset(ctx context.Context, token string) (*PasswordReset, error)
}

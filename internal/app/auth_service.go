package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"habittrack/internal/domain"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailInUse indicates that an account already exists for the email.
	ErrEmailInUse = errors.New("email already in use")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrResetInvalid indicates an unknown, used or expired reset token.
	ErrResetInvalid = errors.New("invalid or expired reset token")
	// ErrWeakPassword indicates a password below the minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

const (
	sessionTTL = 24 * time.Hour
	resetTTL   = time.Hour
)

// AuthService handles authentication, signup, sessions and password resets.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	resets   domain.PasswordResetRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, resets domain.PasswordResetRepository) *AuthService {
	return &AuthService{users: users, sessions: sessions, resets: resets}
}

// SignUp creates an account and an initial session, returning both.
func (s *AuthService) SignUp(ctx context.Context, email, displayName, password, userAgent, ip string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", errors.New("a valid email is required")
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}
	if existing, err := s.users.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user, err := s.users.CreateUser(ctx, email, strings.TrimSpace(displayName), string(hash))
	if err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, user.ID, userAgent, ip)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ip string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil || user == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.startSession(ctx, user.ID, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.DeleteSession(ctx, token)
		return nil, ErrSessionExpired
	}
	if session.UserAgent != userAgent {
		_ = s.sessions.DeleteSession(ctx, token)
		return nil, ErrSessionExpired
	}
	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes the user's display name and photo URL.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, displayName, photoURL string) (*domain.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, errors.New("display name is required")
	}
	user, err := s.users.UpdateUserProfile(ctx, userID, displayName, strings.TrimSpace(photoURL))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// RequestPasswordReset issues a one-time reset token for the account.
// Delivery of the token is the caller's concern.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil || user == nil {
		return "", ErrUserNotFound
	}
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.resets.CreatePasswordReset(ctx, user.ID, token, time.Now().Add(resetTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	reset, err := s.resets.ConsumePasswordReset(ctx, token)
	if err != nil {
		return err
	}
	if reset == nil || time.Now().After(reset.ExpiresAt) {
		return ErrResetInvalid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdateUserPassword(ctx, reset.UserID, string(hash))
}

// CreateInitialUser creates the first user if no users exist.
func (s *AuthService) CreateInitialUser(ctx context.Context, email, displayName, password string) error {
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("users already exist")
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.users.CreateUser(ctx, normalizeEmail(email), strings.TrimSpace(displayName), string(hash))
	return err
}

// ValidateForwardAuth resolves the Remote-User header set by a forward-auth
// proxy, auto-provisioning the account on first sight.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.User, error) {
	if remoteUser == "" {
		return nil, errors.New("no remote user header")
	}
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(remoteUser))
	if err != nil || user == nil {
		user, err = s.users.CreateUser(ctx, normalizeEmail(remoteUser), remoteUser, "")
		if err != nil {
			return nil, err
		}
	}
	return user, nil
}

// LoginWithUser creates a session for an already authenticated user (e.g.
// via SSO), auto-provisioning the account if needed.
func (s *AuthService) LoginWithUser(ctx context.Context, email, displayName, userAgent, ip string) (string, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		// Empty password hash: the account only ever logs in via SSO.
		user, err = s.users.CreateUser(ctx, email, displayName, "")
		if err != nil {
			// A concurrent callback may have won the race; try once more.
			user, err = s.users.GetUserByEmail(ctx, email)
			if err != nil || user == nil {
				return "", err
			}
		}
	}
	return s.startSession(ctx, user.ID, userAgent, ip)
}

func (s *AuthService) startSession(ctx context.Context, userID, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.CreateSession(ctx, userID, token, userAgent, ip, time.Now().Add(sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

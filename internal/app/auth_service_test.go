package app_test

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"habittrack/internal/app"
	"habittrack/internal/domain"
)

type mockUserRepo struct {
	byEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	byIDFn       func(ctx context.Context, id string) (*domain.User, error)
	createFn     func(ctx context.Context, email, displayName, passwordHash string) (*domain.User, error)
	profileFn    func(ctx context.Context, id, displayName, photoURL string) (*domain.User, error)
	passwordFn   func(ctx context.Context, id, passwordHash string) error
	countFn      func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.byEmailFn != nil {
		return m.byEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return &domain.User{ID: id, Email: "user@example.com"}, nil
}

func (m *mockUserRepo) CreateUser(ctx context.Context, email, displayName, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, email, displayName, passwordHash)
	}
	return &domain.User{ID: "user-1", Email: email, DisplayName: displayName, PasswordHash: passwordHash}, nil
}

func (m *mockUserRepo) UpdateUserProfile(ctx context.Context, id, displayName, photoURL string) (*domain.User, error) {
	if m.profileFn != nil {
		return m.profileFn(ctx, id, displayName, photoURL)
	}
	return &domain.User{ID: id, DisplayName: displayName, PhotoURL: photoURL}, nil
}

func (m *mockUserRepo) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	if m.passwordFn != nil {
		return m.passwordFn(ctx, id, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) CountUsers(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockSessionRepo struct {
	createFn func(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error
	getFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn func(ctx context.Context, token string) error
}

func (m *mockSessionRepo) CreateSession(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, userAgent, ip, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	if m.getFn != nil {
		return m.getFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteSession(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpiredSessions(ctx context.Context) error { return nil }

type mockResetRepo struct {
	createFn  func(ctx context.Context, userID, token string, expiresAt time.Time) error
	consumeFn func(ctx context.Context, token string) (*domain.PasswordReset, error)
}

func (m *mockResetRepo) CreatePasswordReset(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, expiresAt)
	}
	return nil
}

func (m *mockResetRepo) ConsumePasswordReset(ctx context.Context, token string) (*domain.PasswordReset, error) {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, token)
	}
	return nil, nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	users := &mockUserRepo{
		byEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email != "user@example.com" {
				t.Fatalf("email = %q; want normalized lowercase", email)
			}
			return &domain.User{ID: "user-1", Email: email, PasswordHash: hashOf(t, "correct horse")}, nil
		},
	}
	var sessionUser string
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, userID, token, _, _ string, expiresAt time.Time) error {
			sessionUser = userID
			if token == "" {
				t.Error("empty session token")
			}
			if time.Until(expiresAt) < 23*time.Hour {
				t.Error("session expires too soon")
			}
			return nil
		},
	}
	svc := app.NewAuthService(users, sessions, &mockResetRepo{})

	token, err := svc.Login(context.Background(), "  User@Example.COM ", "correct horse", "ua", "1.2.3.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || sessionUser != "user-1" {
		t.Errorf("token=%q sessionUser=%q", token, sessionUser)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	users := &mockUserRepo{
		byEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: email, PasswordHash: hashOf(t, "right")}, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, &mockResetRepo{})

	if _, err := svc.Login(context.Background(), "user@example.com", "wrong", "ua", ""); err != app.ErrInvalidCredentials {
		t.Fatalf("err = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := app.NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, &mockResetRepo{})
	if _, err := svc.Login(context.Background(), "nobody@example.com", "pw", "ua", ""); err != app.ErrInvalidCredentials {
		t.Fatalf("err = %v; want ErrInvalidCredentials", err)
	}
}

func TestSignUp(t *testing.T) {
	svc := app.NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, &mockResetRepo{})

	user, token, err := svc.SignUp(context.Background(), "New@Example.com", " Ada ", "long enough", "ua", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Errorf("email = %q; want normalized", user.Email)
	}
	if user.DisplayName != "Ada" {
		t.Errorf("displayName = %q; want trimmed", user.DisplayName)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long enough")) != nil {
		t.Error("stored hash does not match password")
	}
}

func TestSignUp_EmailInUse(t *testing.T) {
	users := &mockUserRepo{
		byEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: email}, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, &mockResetRepo{})

	if _, _, err := svc.SignUp(context.Background(), "taken@example.com", "", "long enough", "ua", ""); err != app.ErrEmailInUse {
		t.Fatalf("err = %v; want ErrEmailInUse", err)
	}
}

func TestSignUp_WeakPassword(t *testing.T) {
	svc := app.NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, &mockResetRepo{})
	if _, _, err := svc.SignUp(context.Background(), "a@b.com", "", "short", "ua", ""); err != app.ErrWeakPassword {
		t.Fatalf("err = %v; want ErrWeakPassword", err)
	}
}

func TestValidateSession(t *testing.T) {
	sessions := &mockSessionRepo{
		getFn: func(_ context.Context, token string) (*domain.Session, error) {
			return &domain.Session{
				Token: token, UserID: "user-1", UserAgent: "ua",
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	svc := app.NewAuthService(&mockUserRepo{}, sessions, &mockResetRepo{})

	user, err := svc.ValidateSession(context.Background(), "tok", "ua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user = %+v", user)
	}
}

func TestValidateSession_Expired(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getFn: func(_ context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: "user-1", UserAgent: "ua",
				ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
		deleteFn: func(_ context.Context, _ string) error { deleted = true; return nil },
	}
	svc := app.NewAuthService(&mockUserRepo{}, sessions, &mockResetRepo{})

	if _, err := svc.ValidateSession(context.Background(), "tok", "ua"); err != app.ErrSessionExpired {
		t.Fatalf("err = %v; want ErrSessionExpired", err)
	}
	if !deleted {
		t.Error("expected expired session to be deleted")
	}
}

func TestValidateSession_UserAgentMismatch(t *testing.T) {
	sessions := &mockSessionRepo{
		getFn: func(_ context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: "user-1", UserAgent: "other",
				ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	svc := app.NewAuthService(&mockUserRepo{}, sessions, &mockResetRepo{})

	if _, err := svc.ValidateSession(context.Background(), "tok", "ua"); err != app.ErrSessionExpired {
		t.Fatalf("err = %v; want ErrSessionExpired", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	var issued string
	resets := &mockResetRepo{
		createFn: func(_ context.Context, userID, token string, _ time.Time) error {
			issued = token
			return nil
		},
		consumeFn: func(_ context.Context, token string) (*domain.PasswordReset, error) {
			if token != issued {
				return nil, nil
			}
			return &domain.PasswordReset{Token: token, UserID: "user-1",
				ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	updated := false
	users := &mockUserRepo{
		byEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: email}, nil
		},
		passwordFn: func(_ context.Context, id, hash string) error {
			updated = true
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte("new password")) != nil {
				t.Error("stored hash does not match new password")
			}
			return nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, resets)

	token, err := svc.RequestPasswordReset(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := svc.ResetPassword(context.Background(), token, "new password"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !updated {
		t.Error("expected password update")
	}

	// Token is one-time: a second use fails.
	if err := svc.ResetPassword(context.Background(), "unknown", "new password"); err != app.ErrResetInvalid {
		t.Errorf("err = %v; want ErrResetInvalid", err)
	}
}

func TestLoginWithUser_AutoProvisions(t *testing.T) {
	created := false
	users := &mockUserRepo{
		createFn: func(_ context.Context, email, displayName, hash string) (*domain.User, error) {
			created = true
			if hash != "" {
				t.Error("SSO user should have empty password hash")
			}
			return &domain.User{ID: "user-1", Email: email, DisplayName: displayName}, nil
		},
	}
	svc := app.NewAuthService(users, &mockSessionRepo{}, &mockResetRepo{})

	token, err := svc.LoginWithUser(context.Background(), "sso@example.com", "SSO User", "ua", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || !created {
		t.Errorf("token=%q created=%v", token, created)
	}
}

func TestCreateInitialUser_RefusesWhenUsersExist(t *testing.T) {
	users := &mockUserRepo{countFn: func(_ context.Context) (int, error) { return 1, nil }}
	svc := app.NewAuthService(users, &mockSessionRepo{}, &mockResetRepo{})

	if err := svc.CreateInitialUser(context.Background(), "a@b.com", "", "long enough"); err == nil {
		t.Fatal("expected error when users already exist")
	}
}

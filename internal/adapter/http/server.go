package adapthttp

import (
	"net/http"
	"time"

	"habittrack/internal/app"
	"habittrack/internal/snapshot"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	habits      *app.HabitService
	completions *app.CompletionService
	analytics   *app.AnalyticsService
	auth        *app.AuthService
	watcher     *snapshot.Watcher
	webDir      string
	loc         *time.Location
	oidcConfig  *OIDCConfig
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(hs *app.HabitService, cs *app.CompletionService, as *app.AnalyticsService, auth *app.AuthService, watcher *snapshot.Watcher, webDir string, loc *time.Location) *Server {
	if loc == nil {
		loc = time.UTC
	}
	return &Server{
		habits:      hs,
		completions: cs,
		analytics:   as,
		auth:        auth,
		watcher:     watcher,
		webDir:      webDir,
		loc:         loc,
		oidcConfig:  &OIDCConfig{},
	}
}

// WithOIDC enables single sign-on with the given provider configuration.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	if cfg != nil {
		s.oidcConfig = cfg
	}
	return s
}

// WithoutAuth disables session checks. Only for tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/config", s.handleConfig)

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/signup", s.handleSignup)
	api.HandleFunc("/auth/setup", s.handleSetupUser)
	api.HandleFunc("/auth/reset/request", s.handleResetRequest)
	api.HandleFunc("/auth/reset/confirm", s.handleResetConfirm)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protected := http.NewServeMux()
	protected.HandleFunc("/auth/me", s.handleMe)
	protected.HandleFunc("/auth/profile", s.handleProfile)

	protected.HandleFunc("/habits", s.handleHabits)
	protected.HandleFunc("/habits/", s.handleHabitByID)
	protected.HandleFunc("/categories", s.handleCategories)

	protected.HandleFunc("/dashboard", s.handleDashboard)
	protected.HandleFunc("/charts/daily", s.handleChartsDaily)
	protected.HandleFunc("/charts/ranking", s.handleChartsRanking)

	protected.HandleFunc("/export", s.handleExport)
	protected.HandleFunc("/events", s.handleEvents)

	// Everything not matched above requires a session.
	api.Handle("/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"

	adapthttp "habittrack/internal/adapter/http"
	"habittrack/internal/adapter/memory"
	"habittrack/internal/adapter/postgres"
	"habittrack/internal/app"
	"habittrack/internal/config"
	"habittrack/internal/domain"
	"habittrack/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	loc := cfg.Location()

	var (
		habitRepo      domain.HabitRepository
		completionRepo domain.CompletionRepository
		userRepo       domain.UserRepository
		sessionRepo    domain.SessionRepository
		resetRepo      domain.PasswordResetRepository
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()

		habitRepo = db
		completionRepo = db
		userRepo = db
		sessionRepo = postgres.NewSessionRepo(db)
		resetRepo = postgres.NewResetRepo(db)
	} else {
		log.Print("no database_url configured, using in-memory store")
		db := memory.New()
		habitRepo = db
		completionRepo = db
		userRepo = db
		sessionRepo = db.NewSessionRepo()
		resetRepo = db.NewResetRepo()
	}

	habitSvc := app.NewHabitService(habitRepo, completionRepo)
	completionSvc := app.NewCompletionService(habitRepo, completionRepo, loc)
	analyticsSvc := app.NewAnalyticsService(habitRepo, completionRepo, loc)
	authSvc := app.NewAuthService(userRepo, sessionRepo, resetRepo)

	watcher := snapshot.NewWatcher(habitRepo, completionRepo, cfg.PollInterval())

	srv := adapthttp.New(habitSvc, completionSvc, analyticsSvc, authSvc, watcher, cfg.WebDir, loc)
	if cfg.OIDC.Enabled {
		oidcCfg, err := adapthttp.NewOIDC(context.Background(), cfg.OIDC.IssuerURL, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			log.Fatalf("oidc: %v", err)
		}
		srv = srv.WithOIDC(oidcCfg)
	}

	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

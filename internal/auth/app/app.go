package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/newtifi/auth/internal/auth/http"
	"github.com/newtifi/auth/internal/auth/service"
	"github.com/newtifi/auth/internal/auth/store"
	"github.com/newtifi/auth/internal/auth/store/drivers/sqlite"
	"github.com/newtifi/auth/internal/obs"
	"github.com/newtifi/auth/pkg/cryptox"
	"github.com/newtifi/auth/pkg/slogx"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	issuer  *service.TokenIssuer
	manager *service.Manager

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "newtifi-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)
	obs.Init()

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices builds the token issuer, providers, and session manager.
func (app *Application) initServices() error {
	secret := app.cfg.TokenSecret
	if secret == "" {
		if app.cfg.Env != "dev" {
			return errors.New("AUTH_TOKEN_SECRET is required outside dev")
		}
		secret = cryptox.MustGenerateToken(cryptox.TokenSize256)
		app.logger.Warn("AUTH_TOKEN_SECRET not set, generated ephemeral secret; sessions will not survive restarts")
	}

	adminHash := app.cfg.AdminPasswordHash
	if adminHash == "" {
		if app.cfg.Env != "dev" {
			return errors.New("AUTH_ADMIN_PASSWORD_HASH is required outside dev")
		}
		var err error
		adminHash, err = cryptox.HashPassword(demoAdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash demo admin password: %w", err)
		}
		app.logger.Warn("AUTH_ADMIN_PASSWORD_HASH not set, using the demo admin password; do not run this in production")
	}

	app.issuer = &service.TokenIssuer{
		Secret: []byte(secret),
		Issuer: app.cfg.Issuer,
	}

	var oauthCfg *oauth2.Config
	if app.cfg.GoogleClientID != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     app.cfg.GoogleClientID,
			ClientSecret: app.cfg.GoogleClientSecret,
			RedirectURL:  app.cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	app.manager = service.NewManager(
		context.Background(),
		app.db,
		&service.EmailProvider{
			Store: app.db,
			Token: app.issuer,
			TTL:   app.cfg.EmailSessionTTL,
		},
		&service.AdminProvider{
			Store:        app.db,
			Token:        app.issuer,
			TTL:          app.cfg.AdminSessionTTL,
			Username:     app.cfg.AdminUsername,
			PasswordHash: adminHash,
			TOTPSecret:   app.cfg.AdminTOTPSecret,
			Email:        app.cfg.AdminEmail,
			Name:         app.cfg.AdminName,
		},
		&service.GoogleProvider{
			Store:      app.db,
			Token:      app.issuer,
			TTL:        app.cfg.GoogleSessionTTL,
			HTTPClient: &http.Client{Timeout: app.cfg.OAuthTimeout},
			OAuth:      oauthCfg,
		},
		app.logger,
	)

	if app.cfg.SeedDemo {
		if err := app.seedDemo(context.Background()); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return nil
}

// initHTTP builds the router and HTTP server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.manager, app.db, BuildVersion, app.logger)
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

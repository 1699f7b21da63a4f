// Package app wires the ledgers sandbox: store, fixtures, keys, services
// and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpapi "github.com/aussiebroadwan/scaconnect/internal/ledgers/http"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/service"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store/drivers/sqlite"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application is the ledgers sandbox with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	keyManager *jwtx.KeyManager

	scaService          *service.SCAService
	oauthService        *service.OAuthService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates the sandbox and seeds its PSUs.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ledgers",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keyManager = keyManager

	hasher := cryptox.SecretHasher{Pepper: cfg.Pepper}
	if err := app.seed(hasher); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices(hasher)
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, e.g. for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	app.housekeepingService.Start()

	app.logger.Info("ledgers sandbox starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutdown requested")
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// Shutdown drains in-flight requests, stops housekeeping and closes the
// store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down ledgers sandbox...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("ledgers sandbox stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := app.cfg.DatabaseFile
	if dsn != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	}
	db, err := sqlite.NewStore(dsn)
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

func (app *Application) seed(hasher cryptox.SecretHasher) error {
	fixtures, err := service.LoadFixtures(app.cfg.FixturesFile)
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	ctx := slogx.WithContext(context.Background(), app.logger)
	if err := service.Seed(ctx, app.db, hasher, fixtures); err != nil {
		return fmt.Errorf("failed to seed psus: %w", err)
	}
	app.logger.Info("psus seeded", "count", len(fixtures.PSUs))
	return nil
}

func (app *Application) initServices(hasher cryptox.SecretHasher) {
	tokens := &service.TokenService{
		KeyManager: app.keyManager,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  app.cfg.AccessTTL,
	}

	app.scaService = &service.SCAService{
		Store:  app.db,
		Tokens: tokens,
		Codes: &service.CodeService{
			Issuer:     app.cfg.Issuer,
			Sender:     service.LogSender{},
			StaticCode: app.cfg.StaticSCACode,
		},
		Hasher:           hasher,
		AuthorisationTTL: app.cfg.AuthorisationTTL,
	}
	if app.cfg.StaticSCACode != "" {
		app.logger.Warn("static sca code enabled, do not use outside tests")
	}

	app.oauthService = &service.OAuthService{
		Store:   app.db,
		Tokens:  tokens,
		Hasher:  hasher,
		Clients: app.cfg.OAuthClients,
		CodeTTL: service.DefaultCodeTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		app.cfg.Issuer,
		BuildVersion,
		app.db,
		app.logger,
	)
	router.SCAService = app.scaService
	router.OAuthService = app.oauthService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

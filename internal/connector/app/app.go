// Package app wires the connector: remote authority, replay guard, engine,
// approach resolver and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/aussiebroadwan/scaconnect/internal/connector/approach"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	httpapi "github.com/aussiebroadwan/scaconnect/internal/connector/http"
	"github.com/aussiebroadwan/scaconnect/internal/connector/remote"
	"github.com/aussiebroadwan/scaconnect/internal/connector/replay"
	"github.com/aussiebroadwan/scaconnect/internal/connector/service"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application is the connector with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	registry  *prometheus.Registry
	authority *remote.Authority
	guard     replay.Guard
	redis     *replay.RedisGuard
	engine    *service.Engine
	resolver  *approach.Resolver
	ids       approach.SealedIDs

	server *http.Server
	router *httpapi.Router
}

// New builds the connector. It fails on invalid configuration and, with the
// redis guard, when redis is unreachable.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "scaconnect",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := app.initResolver(); err != nil {
		return nil, err
	}
	if err := app.initReplayGuard(); err != nil {
		return nil, err
	}
	if err := app.initEngine(); err != nil {
		app.closeGuard()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, e.g. for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	app.logger.Info("scaconnect starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"ledgers", app.cfg.LedgersURL,
		"replay_guard", app.cfg.ReplayGuard,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutdown requested")
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Shutdown drains in-flight requests and closes the replay guard.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down scaconnect...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	var shutdownErr error
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
		shutdownErr = err
	}

	app.closeGuard()

	app.logger.Info("scaconnect stopped")
	return shutdownErr
}

func (app *Application) initResolver() error {
	profile, err := approach.LoadProfile(app.cfg.ProfileFile)
	if err != nil {
		return fmt.Errorf("failed to load aspsp profile: %w", err)
	}

	def, ok := domain.ParseApproach(app.cfg.DefaultApproach)
	if !ok {
		return fmt.Errorf("unknown default sca approach %q", app.cfg.DefaultApproach)
	}
	if !profile.Enabled(def) {
		app.logger.Warn("default approach not offered by profile, using the profile's first",
			"approach", def, "offered", profile.ScaApproaches)
	}

	app.resolver = approach.NewResolver(approach.Config{
		ModeHeader: app.cfg.ModeHeader,
		Default:    def,
		Profile:    profile,
	})

	sealer, err := cryptox.NewSealer([]byte(app.cfg.IDSealSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize id sealer: %w", err)
	}
	app.ids = approach.SealedIDs{Sealer: sealer}
	return nil
}

func (app *Application) initReplayGuard() error {
	switch strings.ToLower(strings.TrimSpace(app.cfg.ReplayGuard)) {
	case "", "none":
		app.logger.Warn("replay guard disabled")
	case "memory":
		app.guard = replay.NewMemoryGuard(app.cfg.ReplayTTL)
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		g, err := replay.NewRedisGuard(ctx, replay.RedisConfig{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
			Prefix:   app.cfg.RedisPrefix,
			TTL:      app.cfg.ReplayTTL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize replay guard: %w", err)
		}
		app.guard, app.redis = g, g
	default:
		return fmt.Errorf("unknown replay guard %q", app.cfg.ReplayGuard)
	}
	return nil
}

func (app *Application) initEngine() error {
	policy, err := service.ParseNoMethodsPolicy(app.cfg.NoMethodsPolicy)
	if err != nil {
		return err
	}

	app.authority = remote.New(app.cfg.LedgersURL, app.cfg.LedgersTimeout, nil)

	app.engine = service.NewEngine(app.authority, policy, app.guard, service.NewMetrics(app.registry))
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.engine, app.resolver, app.ids, app.registry, app.logger)

	router.Checks = append(router.Checks, httpapi.Check{
		Name: "ledgers",
		Fn: func(ctx context.Context) error {
			_, err := app.authority.Client().GetReadiness(ctx)
			return err
		},
	})
	if app.redis != nil {
		router.Checks = append(router.Checks, httpapi.Check{Name: "replay", Fn: app.redis.Ping})
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func (app *Application) closeGuard() {
	if app.redis == nil {
		return
	}
	if err := app.redis.Shutdown(); err != nil {
		app.logger.Error("error closing redis", "error", err)
	}
}

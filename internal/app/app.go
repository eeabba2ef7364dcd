// Package app wires the client together: local store, backend client,
// services, the ops HTTP server and the interactive command loop.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/olmosO/doggys/internal/admin"
	"github.com/olmosO/doggys/internal/api"
	"github.com/olmosO/doggys/internal/cart"
	"github.com/olmosO/doggys/internal/checkout"
	"github.com/olmosO/doggys/internal/config"
	"github.com/olmosO/doggys/internal/domain"
	"github.com/olmosO/doggys/internal/poller"
	"github.com/olmosO/doggys/internal/report"
	"github.com/olmosO/doggys/internal/repository"
	redisrepo "github.com/olmosO/doggys/internal/repository/redis"
	sqliterepo "github.com/olmosO/doggys/internal/repository/sqlite"
	"github.com/olmosO/doggys/internal/session"
	"github.com/olmosO/doggys/internal/view"
	"github.com/olmosO/doggys/pkg/health"
	"github.com/olmosO/doggys/pkg/httpclient"
)

// App wires together all dependencies and runs the client.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	sqliteStore *sqliterepo.Store
	redisClient *goredis.Client

	terminal *view.Terminal
	cart     *cart.Store
	session  *session.Manager
	watchdog *session.Watchdog
	checkout *checkout.Service
	poller   *poller.Poller
	backend  *api.Client
	console  *admin.Console
	reports  *report.Service

	opsServer *http.Server

	out io.Writer
}

// NewApp creates the application, initializing the configured store backend
// and wiring the dependency graph.
func NewApp(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{
		cfg:    cfg,
		logger: logger,
		out:    out,
	}

	var cartRepo repository.CartRepository
	var sessionRepo repository.SessionRepository
	var storePing func(ctx context.Context) error

	switch cfg.StoreBackend {
	case config.StoreRedis:
		rdb, err := redisrepo.Connect(ctx, redisrepo.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("host", cfg.RedisHost),
			slog.Int("db", cfg.RedisDB),
		)

		a.redisClient = rdb
		cartRepo = redisrepo.NewCartRepository(rdb)
		sessionRepo = redisrepo.NewSessionRepository(rdb)
		storePing = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	default:
		store, err := sqliterepo.Open(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		logger.Info("local store opened", slog.String("path", cfg.StorePath))

		a.sqliteStore = store
		cartRepo = sqliterepo.NewCartRepository(store)
		sessionRepo = sqliterepo.NewSessionRepository(store)
		storePing = store.Ping
	}

	// Backend HTTP client behind a circuit breaker. Retries stay off.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.APITimeout
	breaker := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("doggys-backend"),
		logger,
	)
	a.backend = api.NewClient(cfg.APIBaseURL, breaker, logger)

	a.terminal = view.NewTerminal(out, in)
	a.cart = cart.NewStore(cartRepo, sessionRepo, a.terminal, logger)
	a.session = session.NewManager(sessionRepo, a.backend, logger)
	a.checkout = checkout.NewService(a.cart, a.session, a.backend, sessionRepo, logger)
	a.reports = report.NewService(a.backend, logger)
	a.console = admin.NewConsole(a.session, a.backend, a.backend, a.reports, a.terminal, logger)

	a.poller = poller.New(a.backend, cfg.PollInterval, func(order *domain.Order) {
		a.terminal.Notify(fmt.Sprintf("Pedido %d: %s", order.ID, order.Status))
	}, logger)

	a.watchdog = session.NewWatchdog(cfg.IdleTimeout, func(ctx context.Context) {
		if err := a.session.Logout(ctx); err != nil {
			logger.ErrorContext(ctx, "idle logout failed", slog.String("error", err.Error()))
			return
		}
		a.terminal.Notify("Sesión cerrada por inactividad.")
	}, logger)

	// Ops HTTP server: liveness, store and backend readiness, prometheus
	// metrics. The backend check goes through the breaker, so an open
	// circuit reports not-ready.
	healthHandler := health.NewHandler("doggys")
	healthHandler.Register("store", storePing)
	healthHandler.Register("backend", health.Backend(breaker, cfg.APIBaseURL+"/productos"))

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	a.opsServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.OpsPort),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Run hydrates the cart, starts the background pieces and blocks in the
// command loop until the context is canceled or the user quits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting ops server", slog.String("addr", a.opsServer.Addr))
		if err := a.opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("ops server: %w", err)
		}
	}()

	go a.watchdog.Start(ctx)

	a.cart.Load(ctx)

	loopDone := make(chan struct{})
	go func() {
		a.commandLoop(ctx)
		close(loopDone)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case <-loopDone:
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down...")

	a.poller.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.opsServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("ops server shutdown error", slog.String("error", err.Error()))
	}

	if a.sqliteStore != nil {
		if err := a.sqliteStore.Close(); err != nil {
			a.logger.Error("store close error", slog.String("error", err.Error()))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}

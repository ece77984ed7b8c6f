package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/okian/bounty/internal/adapters/http/api"
	"github.com/okian/bounty/internal/adapters/identity"
	app "github.com/okian/bounty/internal/app"
	"github.com/okian/bounty/internal/config"
	"github.com/okian/bounty/internal/domain/model"
	"github.com/okian/bounty/pkg/logger"
	"github.com/okian/bounty/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "bounty exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := configureLogging(ctx, cfg)

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	if err := seedGenesis(ctx, svc, cfg.Genesis); err != nil {
		return err
	}

	sched, err := startScheduler(ctx, svc, cfg.MetricsRefreshInterval)
	if err != nil {
		return err
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			log.Warn(ctx, "scheduler shutdown failed", logger.Error(err))
		}
	}()

	tokens, err := identity.New(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token engine: %w", err)
	}
	srv := newHTTPServer(ctx, cfg.Addr, svc, tokens, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// configureLogging applies the configured format and level, falling back to
// info on an invalid level.
func configureLogging(ctx context.Context, cfg *config.Config) logger.Logger {
	if cfg.LogJSON {
		if err := logger.Init(logger.WithJSON(true)); err != nil {
			logger.Get().Warn(ctx, "json logging unavailable", logger.Error(err))
		}
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return log
}

func newService(cfg *config.Config, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithStoreDriver(cfg.StoreDriver, cfg.StoreDSN),
		app.WithIssueBookCapacity(cfg.IssueBookCapacity),
		app.WithLeaderboardCapacity(cfg.LeaderboardCapacity),
		app.WithMaxNameLength(cfg.MaxNameLength),
	)
}

// seedGenesis creates the configured holdings. Holders that already have a
// balance and collectibles that already exist are left alone, so restarting
// against a persistent store does not mint twice.
func seedGenesis(ctx context.Context, svc *app.Service, g config.Genesis) error {
	for who, amount := range g.Balances {
		holder := model.Identity(who).Holder()
		cur, err := svc.Balance(ctx, holder)
		if err != nil {
			return err
		}
		if cur > 0 {
			continue
		}
		if err := svc.Fund(ctx, holder, amount); err != nil {
			return fmt.Errorf("genesis balance %q: %w", who, err)
		}
	}
	for id, owner := range g.Collectibles {
		err := svc.MintCollectible(ctx, id, model.Identity(owner).Holder())
		if err != nil && !errors.Is(err, model.ErrConflict) {
			return fmt.Errorf("genesis collectible %q: %w", id, err)
		}
	}
	return nil
}

// startScheduler refreshes the process and service gauges periodically.
func startScheduler(ctx context.Context, svc *app.Service, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			updateSystemMetrics()
			svc.GetStats(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule metrics refresh: %w", err)
	}
	sched.Start()
	return sched, nil
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

func newHTTPServer(ctx context.Context, addr string, svc *app.Service, verifier api.Verifier, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, verifier, api.WithLogger(log.Named("api"))).Register(ctx, mux)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

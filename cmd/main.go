package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/ballot/internal/adapters/http/api"
	"github.com/okian/ballot/internal/adapters/http/swagger"
	"github.com/okian/ballot/internal/adapters/insight"
	"github.com/okian/ballot/internal/adapters/repository"
	"github.com/okian/ballot/internal/adapters/storage"
	app "github.com/okian/ballot/internal/app"
	"github.com/okian/ballot/internal/config"
	"github.com/okian/ballot/pkg/logger"
	"github.com/okian/ballot/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithKiosk(cfg.MetricsKiosk),
	)

	svc, closeStore, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := svc.Start(ctx, cfg.SimulationOnStart); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// buildService opens storage, loads the election state and wires the
// insight requester.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, func(), error) {
	blobs, err := storage.Open(ctx, storage.Config{
		Driver:        cfg.StorageDriver,
		Path:          cfg.StoragePath,
		Prefix:        cfg.StoragePrefix,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		SQLiteDSN:     cfg.SQLiteDSN,
	})
	if err != nil {
		return nil, nil, err
	}
	store := repository.NewCandidateStore(blobs, repository.WithLogger(log.Named("repository")))
	if err := store.Load(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	log.Info(ctx, "storage ready", logger.String("driver", cfg.StorageDriver))

	if cfg.InsightAPIKey == "" {
		log.Warn(ctx, "insight_api_key not set; analyses will return the fallback text")
	}
	gen := insight.NewGemini(cfg.InsightEndpoint, cfg.InsightModel, cfg.InsightAPIKey, &http.Client{})
	requester := insight.NewRequester(gen,
		insight.WithParams(insight.Params{Temperature: cfg.InsightTemperature, TopP: cfg.InsightTopP}),
		insight.WithTimeout(cfg.InsightTimeout()),
		insight.WithRatePerMinute(cfg.InsightRatePerMinute),
		insight.WithLogger(log.Named("insight")),
	)

	svc := app.New(store,
		app.WithLogger(log.Named("service")),
		app.WithRequester(requester),
		app.WithSimulationInterval(cfg.SimulationInterval()),
	)
	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Error(context.Background(), "closing storage failed", logger.Error(err))
		}
	}
	return svc, closeStore, nil
}

// newMux registers the docs and business routes.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater keeps the roster gauges fresh between writes.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the roster and vote gauges as a side effect.
			_ = svc.GetStats(ctx)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

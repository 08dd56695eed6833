package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/score-predictor/external/broadcast"
	"github.com/riskibarqy/score-predictor/internal/config"
	"github.com/riskibarqy/score-predictor/internal/interfaces/httpapi"
	"github.com/riskibarqy/score-predictor/internal/observability"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

type closer struct {
	name string
	fn   func(context.Context) error
}

// App owns the HTTP server and every resource opened to serve it. Resources
// are released in reverse order of acquisition.
type App struct {
	cfg     config.Config
	logger  *logging.Logger
	server  *http.Server
	closers []closer
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{cfg: cfg, logger: logger}
	if err := a.build(ctx); err != nil {
		a.release(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	shutdownTracing, err := observability.InitTracing(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	a.onClose("tracing", shutdownTracing)

	profiling, err := observability.StartProfiling(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("start profiling: %w", err)
	}
	a.onClose("profiling", profiling.Stop)

	repos, err := buildRepositories(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.onClose("storage", func(context.Context) error { return repos.close() })

	var (
		metrics         *observability.Metrics
		metricsHandler  http.Handler
		requestObserver httpapi.RequestObserver
		publishObserver broadcast.Observer
	)
	if a.cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		metricsHandler = metrics.Handler()
		requestObserver = metrics
		publishObserver = metrics
		if repos.cache != nil {
			metrics.RegisterCache(repos.cache)
		}
	}

	publisher, closePublisher, err := buildPublisher(ctx, a.cfg.Broadcast, publishObserver, a.logger)
	if err != nil {
		return err
	}
	a.onClose("broadcast", func(context.Context) error { return closePublisher() })

	matchSvc := usecase.NewMatchService(repos.tournaments, repos.matches, repos.predictions, publisher, a.logger.Named("matches"))
	if metrics != nil {
		matchSvc.SetObserver(metrics)
	}

	handler := httpapi.NewHandler(httpapi.Services{
		Tournaments: usecase.NewTournamentService(repos.tournaments),
		Matches:     matchSvc,
		Predictions: usecase.NewPredictionService(repos.tournaments, repos.matches, repos.predictions),
		Standings:   usecase.NewStandingsService(repos.tournaments, repos.matches),
		Statistics:  usecase.NewStatisticsService(repos.tournaments, repos.predictions),
		Leaderboard: usecase.NewLeaderboardService(repos.tournaments, repos.rooms, repos.predictions),
	}, a.cfg.ScoringWorkers, a.logger.Named("http"))

	a.server = &http.Server{
		Addr: a.cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler, httpapi.RouterConfig{
			Logger:             a.logger.Named("http"),
			CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
			AdminToken:         a.cfg.AdminToken,
			Metrics:            metricsHandler,
			Observer:           requestObserver,
		}),
		ReadTimeout:       a.cfg.ReadTimeout,
		ReadHeaderTimeout: a.cfg.ReadTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
	}
	return nil
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler { return a.server.Handler }

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr, "env", a.cfg.AppEnv, "storage", a.cfg.StorageDriver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", "error", err)
		serveErr = errors.Join(serveErr, err)
	}
	a.release(shutdownCtx)
	a.logger.Info("http server stopped")
	return serveErr
}

func (a *App) release(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			a.logger.Warn("release resource failed", "resource", c.name, "error", err)
		}
	}
	a.closers = nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/hbelo/internal/adapters/http/api"
	"github.com/okian/hbelo/internal/adapters/http/swagger"
	"github.com/okian/hbelo/internal/adapters/sink"
	"github.com/okian/hbelo/internal/adapters/source"
	service "github.com/okian/hbelo/internal/app"
	"github.com/okian/hbelo/internal/config"
	"github.com/okian/hbelo/internal/scheduler"
	"github.com/okian/hbelo/pkg/logger"
	"github.com/okian/hbelo/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	once := flag.Bool("once", false, "Rate every league once, write results and exit")
	flag.Parse()

	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := run(*once); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(once bool) error {
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, out, err := build(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	if out != nil {
		defer func() {
			if err := out.Close(); err != nil {
				log.Error(ctx, "failed to close output", logger.Error(err))
			}
		}()
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			log.Error(stopCtx, "service stop failed", logger.Error(err))
		}
	}()

	// The first refresh runs before serving; a failure leaves any stored
	// leaderboard in place.
	if err := svc.Refresh(ctx); err != nil {
		if once {
			return fmt.Errorf("refresh failed: %w", err)
		}
		log.Error(ctx, "initial refresh failed", logger.Error(err))
	}
	if once {
		log.Info(ctx, "ratings written", logger.Any("leagues", svc.Leagues()))
		return nil
	}

	if cfg.RefreshCron != "" {
		sched := scheduler.New(ctx, svc, scheduler.WithLogger(log.Named("scheduler")))
		if err := sched.Register(cfg.RefreshCron); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = sched.Stop(stopCtx)
		}()
	}

	registerRuntimeCollectors(metrics.GetRegistry())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
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

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}

// build wires sources, engine options and the optional SQLite output into
// a service. The returned sink is nil when no output is configured.
func build(cfg *config.Config, log logger.Logger) (*service.Service, *sink.SQLiteSink, error) {
	engineOpts, err := cfg.EngineOptions(log.Named("goalkeeper"))
	if err != nil {
		return nil, nil, err
	}

	var srcs []source.Source
	for _, sc := range cfg.ResolvedSources() {
		src, err := source.New(source.Format(sc.Format), sc.Path, sc.League,
			source.WithLogger(log.Named("source")),
			source.WithTeamAliases(sc.TeamAliases))
		if err != nil {
			return nil, nil, fmt.Errorf("league %s: %w", sc.League, err)
		}
		srcs = append(srcs, src)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithTopCacheSize(cfg.TopCacheSize),
		service.WithSources(srcs...),
		service.WithEngineOptions(engineOpts...),
	}

	var out *sink.SQLiteSink
	if cfg.OutputPath != "" {
		out, err = sink.NewSQLiteSink(cfg.OutputPath, sink.WithLogger(log.Named("sink")))
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, service.WithSink(out))
	}
	return service.New(opts...), out, nil
}

// newMux registers the API and the OpenAPI document.
func newMux(ctx context.Context, cfg *config.Config, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxLeaderboardLimit).Register(ctx, mux)
	return mux
}

// registerRuntimeCollectors exposes Go runtime and process metrics on the
// service registry. Repeated calls are no-ops.
func registerRuntimeCollectors(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				logger.Get().Warn(context.Background(), "runtime collector not registered", logger.Error(err))
			}
		}
	}
}

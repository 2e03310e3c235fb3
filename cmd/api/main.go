package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/tracer"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, tracer.Config{
		Enabled:    cfg.TracingEnabled,
		Endpoint:   cfg.TracingEndpoint,
		SampleRate: cfg.TracingSampleRate,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewCollector(reg)

	// --------------------------------------------------
	// Storage + audit sink
	// --------------------------------------------------
	var (
		repo domain.Repository
		sink audit.Sink
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		repo = repository.NewMemoryRepository()
		sink = audit.NewZapSink(zlog)
	default:
		db, err := dbpkg.NewDB(cfg, zlog)
		if err != nil {
			return err
		}
		repo = repository.NewScheduleGormRepository(db)
		sink = audit.NewGormSink(db)
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Warn("redis unreachable, cache will fall back to storage", zap.Error(err))
		}
		repo = cache.NewWorkingHoursCache(repo, rdb, cfg.WorkingHoursCacheTTL, zlog, m)
	}

	dispatcher := audit.NewDispatcher(sink, zlog, m, audit.DefaultQueueSize)

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, cfg, routes.Deps{
		Repo:     repo,
		Audit:    dispatcher,
		Metrics:  m,
		Gatherer: reg,
		Logger:   zlog,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("storage", cfg.StorageDriver),
			zap.String("timezone", cfg.Timezone),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		zlog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		zlog.Error("audit drain", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		zlog.Error("tracer shutdown", zap.Error(err))
	}
	return nil
}

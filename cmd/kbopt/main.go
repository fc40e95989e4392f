package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbopt/internal/config"
	dbRedis "github.com/kailas-cloud/kbopt/internal/db/redis"
	logpkg "github.com/kailas-cloud/kbopt/internal/logger"
	"github.com/kailas-cloud/kbopt/internal/metrics"
	"github.com/kailas-cloud/kbopt/internal/repository/resultcache"
	chiTransport "github.com/kailas-cloud/kbopt/internal/transport/chi"
	"github.com/kailas-cloud/kbopt/internal/transport/kbstore"
	"github.com/kailas-cloud/kbopt/internal/usecase/allocate"
	"github.com/kailas-cloud/kbopt/internal/usecase/fetch"
	healthuc "github.com/kailas-cloud/kbopt/internal/usecase/health"
	optimizeuc "github.com/kailas-cloud/kbopt/internal/usecase/optimize"
	paramsuc "github.com/kailas-cloud/kbopt/internal/usecase/params"
	"github.com/kailas-cloud/kbopt/internal/usecase/score"
	"github.com/kailas-cloud/kbopt/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting kbopt API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store")

	// Register engine metrics explicitly (no init())
	metrics.RegisterOptimizeMetrics()

	backend := kbstore.NewClient(kbstore.Config{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: time.Duration(cfg.Backend.TimeoutSec) * time.Second,
	})

	// Single cooldown gate shared by every fetch in the process.
	cooldown := fetch.NewCooldown(time.Duration(cfg.Optimizer.CooldownMillis) * time.Millisecond)

	fetcher, err := fetch.New(backend, fetch.Config{
		Workers:     cfg.Optimizer.Workers,
		MaxAttempts: cfg.Optimizer.RetryMaxAttempts,
		BaseDelay:   time.Duration(cfg.Optimizer.RetryBaseMillis) * time.Millisecond,
		CapDelay:    time.Duration(cfg.Optimizer.RetryCapMillis) * time.Millisecond,
	}, cooldown, logger)
	if err != nil {
		logger.Fatal("Failed to create fetcher", zap.Error(err))
	}
	defer fetcher.Close()
	fetcher.WithMetrics(metrics.FetchRetriesTotal, metrics.RateLimitCooldownsTotal)

	cache := resultcache.New(
		store,
		time.Duration(cfg.Cache.TTLMinutes)*time.Minute,
		metrics.ResultCacheTotal,
		logger,
	)

	selector := paramsuc.NewSelector(cfg.Optimizer.SmallPoolChars, cfg.Optimizer.LargePoolChars)

	engine := optimizeuc.New(
		fetcher,
		score.NewScorer(),
		allocate.NewAllocator(),
		selector,
		cache,
		time.Duration(cfg.Optimizer.FetchTimeoutSec)*time.Second,
		logger,
	)

	healthSvc := healthuc.New(store, backend)

	server := chiTransport.NewServer(engine, healthSvc, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// Package fetch retrieves candidate documents per keyword with bounded
// concurrency, retry with backoff, and a shared rate-limit cooldown.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbopt/internal/domain"
)

// SearchClient is the consumer interface for the knowledge-base backend.
type SearchClient interface {
	Search(ctx context.Context, keyword string, limit int) ([]domain.Document, error)
}

// Config holds fetch policy knobs.
type Config struct {
	Workers     int           // max in-flight keyword fetches
	MaxAttempts int           // attempts per keyword for transient failures
	BaseDelay   time.Duration // first retry delay
	CapDelay    time.Duration // retry delay ceiling
}

// Fetcher issues one retrieval call per keyword through a worker pool.
// Failures are isolated per keyword: a keyword that keeps failing
// contributes an error in its FetchResult, never an aborted request.
type Fetcher struct {
	client   SearchClient
	pool     *ants.Pool
	cfg      Config
	cooldown *Cooldown
	logger   *zap.Logger

	// sleep is injected so retry behavior is testable without real delays.
	sleep func(ctx context.Context, d time.Duration) error

	retriesTotal   prometheus.Counter
	cooldownsTotal prometheus.Counter
}

// New creates a fetcher with its own worker pool.
func New(client SearchClient, cfg Config, cooldown *Cooldown, logger *zap.Logger) (*Fetcher, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 6
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.CapDelay <= 0 {
		cfg.CapDelay = 8 * time.Second
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &Fetcher{
		client:   client,
		pool:     pool,
		cfg:      cfg,
		cooldown: cooldown,
		logger:   logger,
		sleep:    sleepCtx,
	}, nil
}

// WithMetrics attaches retry/cooldown counters. May be skipped in tests.
func (f *Fetcher) WithMetrics(retries, cooldowns prometheus.Counter) *Fetcher {
	f.retriesTotal = retries
	f.cooldownsTotal = cooldowns
	return f
}

// Close releases the worker pool.
func (f *Fetcher) Close() {
	f.pool.Release()
}

// FetchAll retrieves up to limit documents for every keyword concurrently,
// bounded by the pool size. The returned slice is indexed like keywords, so
// result order is deterministic regardless of scheduling.
func (f *Fetcher) FetchAll(ctx context.Context, keywords []string, limit int) []domain.FetchResult {
	results := make([]domain.FetchResult, len(keywords))

	var wg sync.WaitGroup
	for i, kw := range keywords {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			docs, err := f.fetchOne(ctx, kw, limit)
			results[i] = domain.FetchResult{Keyword: kw, Docs: docs, Err: err}
		}
		if err := f.pool.Submit(task); err != nil {
			results[i] = domain.FetchResult{Keyword: kw, Err: fmt.Errorf("submit fetch task: %w", err)}
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

// fetchOne runs the retry loop for a single keyword. Transient failures
// consume attempts with exponential backoff and jitter. Rate-limit signals
// extend the shared cooldown without consuming attempts; the request
// timeout bounds them instead.
func (f *Fetcher) fetchOne(ctx context.Context, keyword string, limit int) ([]domain.Document, error) {
	bo := &backoff.ExponentialBackOff{
		InitialInterval:     f.cfg.BaseDelay,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          2.0,
		MaxInterval:         f.cfg.CapDelay,
	}
	bo.Reset()

	attempts := 0
	for {
		if wait := f.cooldown.Remaining(); wait > 0 {
			if err := f.sleep(ctx, wait); err != nil {
				return nil, err
			}
			// Re-check: another fetch may have extended the cooldown.
			continue
		}

		docs, err := f.client.Search(ctx, keyword, limit)
		if err == nil {
			f.cooldown.Success()
			return docs, nil
		}

		if errors.Is(err, domain.ErrRateLimited) {
			window := f.cooldown.Trigger()
			f.inc(f.cooldownsTotal)
			f.logger.Warn("Backend rate limited, entering shared cooldown",
				zap.String("keyword", keyword),
				zap.Duration("cooldown", window),
			)
			continue
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		attempts++
		if attempts >= f.cfg.MaxAttempts {
			return nil, fmt.Errorf("search %q failed after %d attempts: %w", keyword, attempts, err)
		}

		f.inc(f.retriesTotal)
		delay := bo.NextBackOff()
		f.logger.Debug("Retrying keyword fetch",
			zap.String("keyword", keyword),
			zap.Int("attempt", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := f.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (f *Fetcher) inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

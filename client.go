// Package kbopt is the embedded entry point to the content optimization
// engine: keyword-driven retrieval from a knowledge-base backend, relevance
// scoring and token-budget allocation, with optional result caching.
package kbopt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbopt/internal/db"
	dbRedis "github.com/kailas-cloud/kbopt/internal/db/redis"
	"github.com/kailas-cloud/kbopt/internal/domain"
	"github.com/kailas-cloud/kbopt/internal/domain/mode"
	"github.com/kailas-cloud/kbopt/internal/domain/request"
	"github.com/kailas-cloud/kbopt/internal/repository/resultcache"
	"github.com/kailas-cloud/kbopt/internal/transport/kbstore"
	"github.com/kailas-cloud/kbopt/internal/usecase/allocate"
	"github.com/kailas-cloud/kbopt/internal/usecase/fetch"
	optimizeuc "github.com/kailas-cloud/kbopt/internal/usecase/optimize"
	paramsuc "github.com/kailas-cloud/kbopt/internal/usecase/params"
	"github.com/kailas-cloud/kbopt/internal/usecase/score"
)

// Optimization modes.
const (
	ModeFast          = mode.Fast
	ModeBalanced      = mode.Balanced
	ModeComprehensive = mode.Comprehensive
	ModeAdaptive      = mode.Adaptive
)

// Re-exported result and parameter types.
type (
	// Mode is the optimization strategy.
	Mode = mode.Mode
	// Document is one retrieved knowledge-base page.
	Document = domain.Document
	// ScoredDocument is a document with its relevance score.
	ScoredDocument = domain.ScoredDocument
	// Overrides are optional per-call parameter overrides.
	Overrides = domain.Overrides
	// Result is the assembled, budget-bounded document set.
	Result = domain.OptimizationResult
)

// Sentinel errors callers can match with errors.Is.
var (
	ErrInvalidRequest     = domain.ErrInvalidRequest
	ErrRateLimited        = domain.ErrRateLimited
	ErrBackendUnavailable = domain.ErrBackendUnavailable
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the kbopt SDK entry point.
type Client struct {
	store   db.Store
	fetcher *fetch.Fetcher
	engine  *optimizeuc.Service
}

// New creates a Client. WithBackend is required; WithRedis enables caching.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		cacheTTL:       time.Hour,
		workers:        6,
		maxAttempts:    3,
		fetchTimeout:   45 * time.Second,
		cooldownBase:   2 * time.Second,
		smallPoolChars: 50_000,
		largePoolChars: 1_000_000,
		logger:         zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.backendURL == "" {
		return nil, errors.New("kbopt: backend URL required (use WithBackend)")
	}

	var store db.Store
	if len(cfg.cacheAddrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("kbopt: create cache store: %w", err)
		}
		if err := s.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("kbopt: cache store not ready: %w", err)
		}
		store = s
	}

	backend := kbstore.NewClient(kbstore.Config{
		BaseURL: cfg.backendURL,
		APIKey:  cfg.apiKey,
	})

	cooldown := fetch.NewCooldown(cfg.cooldownBase)
	fetcher, err := fetch.New(backend, fetch.Config{
		Workers:     cfg.workers,
		MaxAttempts: cfg.maxAttempts,
	}, cooldown, cfg.logger)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("kbopt: create fetcher: %w", err)
	}

	var cache optimizeuc.ResultCache = noopCache{}
	if store != nil {
		cache = resultcache.New(store, cfg.cacheTTL, nil, cfg.logger)
	}

	engine := optimizeuc.New(
		fetcher,
		score.NewScorer(),
		allocate.NewAllocator(),
		paramsuc.NewSelector(cfg.smallPoolChars, cfg.largePoolChars),
		cache,
		cfg.fetchTimeout,
		cfg.logger,
	)

	return &Client{store: store, fetcher: fetcher, engine: engine}, nil
}

// Optimize retrieves, scores and packs documents for the given keywords.
// A nil overrides uses the mode table values unchanged.
func (c *Client) Optimize(ctx context.Context, keywords []string, m Mode, overrides *Overrides) (Result, error) {
	var o Overrides
	if overrides != nil {
		o = *overrides
	}
	req, err := request.New(keywords, m, o)
	if err != nil {
		return Result{}, err
	}
	return c.engine.Optimize(ctx, &req)
}

// Ping checks cache store connectivity. Returns nil when caching is disabled.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("kbopt: ping: %w", err)
	}
	return nil
}

// Close releases the worker pool and the cache connection.
func (c *Client) Close() {
	c.fetcher.Close()
	if c.store != nil {
		c.store.Close()
	}
}

// noopCache disables result caching when no store is configured.
type noopCache struct{}

func (noopCache) Key(req *request.Request) string { return resultcache.Key(req) }

func (noopCache) Get(_ context.Context, _ string) (domain.OptimizationResult, bool) {
	return domain.OptimizationResult{}, false
}

func (noopCache) Put(_ context.Context, _ string, _ domain.OptimizationResult) {}

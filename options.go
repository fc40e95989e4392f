package kbopt

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	backendURL string
	apiKey     string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	workers      int
	maxAttempts  int
	fetchTimeout time.Duration
	cooldownBase time.Duration

	smallPoolChars int
	largePoolChars int

	logger *zap.Logger
}

// WithBackend sets the knowledge-base search backend. Required.
func WithBackend(baseURL, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backendURL = baseURL
		c.apiKey = apiKey
	})
}

// WithRedis enables result caching in a Redis/Valkey instance.
// Without it results are recomputed on every call.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets how long cached results live. Default: 1 hour.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithWorkers sets the number of concurrent keyword fetches. Default: 6.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithMaxAttempts sets per-keyword retry attempts for transient backend
// failures. Default: 3.
func WithMaxAttempts(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxAttempts = n
	})
}

// WithFetchTimeout bounds the whole fetch phase of one optimization call.
// Default: 45 seconds.
func WithFetchTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.fetchTimeout = d
	})
}

// WithCooldown sets the base rate-limit cooldown window. Default: 2 seconds.
func WithCooldown(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cooldownBase = d
	})
}

// WithAdaptiveThresholds sets the pool-size boundaries (in characters) the
// adaptive mode uses to pick between fast, balanced and comprehensive.
// Defaults: 50000 and 1000000.
func WithAdaptiveThresholds(smallPoolChars, largePoolChars int) Option {
	return optionFunc(func(c *clientConfig) {
		c.smallPoolChars = smallPoolChars
		c.largePoolChars = largePoolChars
	})
}

// WithLogger enables structured logging. Default: logging disabled.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

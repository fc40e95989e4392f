// Package resultcache memoizes full optimization results in a key-value store.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbopt/internal/db"
	"github.com/kailas-cloud/kbopt/internal/domain"
	"github.com/kailas-cloud/kbopt/internal/domain/request"
)

var cacheKeyPrefix = domain.KeyPrefix + "result_cache:"

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores whole optimization results with a TTL. It is best-effort:
// any store failure degrades to a miss, never to an error.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a result cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Key derives the stable cache key for a request: a hash of the sorted,
// deduplicated, case-folded keywords plus mode and overrides. Two requests
// differing only in keyword order or casing share a key.
func Key(req *request.Request) string {
	keywords := req.Keywords()
	sort.Strings(keywords)

	var sb strings.Builder
	sb.WriteString(string(req.Mode()))
	sb.WriteByte('\n')
	for _, kw := range keywords {
		sb.WriteString(kw)
		sb.WriteByte('\n')
	}
	writeOverride(&sb, req.Overrides().MaxDocsPerKeyword)
	writeOverride(&sb, req.Overrides().MaxCharsPerDoc)
	writeOverride(&sb, req.Overrides().TargetTokenBudget)

	h := sha256.Sum256([]byte(sb.String()))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func writeOverride(sb *strings.Builder, v *int) {
	if v == nil {
		sb.WriteString("-\n")
		return
	}
	fmt.Fprintf(sb, "%d\n", *v)
}

// Key derives the cache key for a request. Method form of Key for the
// engine's ResultCache contract.
func (c *Cache) Key(req *request.Request) string { return Key(req) }

// Get returns a cached result. Expired or unreadable entries are misses.
func (c *Cache) Get(ctx context.Context, key string) (domain.OptimizationResult, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached result", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return domain.OptimizationResult{}, false
	}

	var res domain.OptimizationResult
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn("Failed to parse cached result", zap.String("key", key), zap.Error(err))
		c.incCache("miss")
		return domain.OptimizationResult{}, false
	}

	c.incCache("hit")
	return res, true
}

// Put stores a result wholesale, replacing any previous entry (last writer
// wins). Failures are logged and swallowed.
func (c *Cache) Put(ctx context.Context, key string, res domain.OptimizationResult) {
	data, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn("Failed to encode result for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache result", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

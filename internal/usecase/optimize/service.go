// Package optimize orchestrates the content optimization pipeline:
// cache lookup, concurrent fetch, scoring, budget allocation, caching.
package optimize

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbopt/internal/domain"
	"github.com/kailas-cloud/kbopt/internal/domain/request"
	"github.com/kailas-cloud/kbopt/internal/metrics"
)

// Service runs optimization requests. The only shared state across requests
// lives behind the injected collaborators (result cache, cooldown gate).
type Service struct {
	fetcher      Fetcher
	scorer       Scorer
	allocator    Allocator
	selector     Selector
	cache        ResultCache
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// New creates an optimization engine.
func New(
	fetcher Fetcher,
	scorer Scorer,
	allocator Allocator,
	selector Selector,
	cache ResultCache,
	fetchTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		fetcher:      fetcher,
		scorer:       scorer,
		allocator:    allocator,
		selector:     selector,
		cache:        cache,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Optimize executes the pipeline for one validated request. Only an
// unresolvable mode is fatal; fetch failures degrade to partial keyword
// coverage reported in the result.
func (s *Service) Optimize(ctx context.Context, req *request.Request) (domain.OptimizationResult, error) {
	start := time.Now()
	m := string(req.Mode())

	key := s.cache.Key(req)
	if res, ok := s.cache.Get(ctx, key); ok {
		res.CacheHit = true
		res.ElapsedMillis = time.Since(start).Milliseconds()
		metrics.OptimizeRequestsTotal.WithLabelValues(m, "cache_hit").Inc()
		metrics.OptimizeDuration.WithLabelValues(m).Observe(time.Since(start).Seconds())
		return res, nil
	}

	provisional, err := s.selector.Provisional(req.Mode(), req.Overrides())
	if err != nil {
		metrics.OptimizeRequestsTotal.WithLabelValues(m, "invalid").Inc()
		return domain.OptimizationResult{}, fmt.Errorf("resolve mode: %w", err)
	}

	// The fetch phase owns the timeout: when it expires the engine proceeds
	// with whatever documents have arrived.
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	fetched := s.fetcher.FetchAll(fctx, req.Keywords(), provisional.DocsPerKeyword)
	cancel()

	var (
		pool      []domain.Document
		failed    []string
		poolChars int
	)
	for _, fr := range fetched {
		if fr.Err != nil {
			failed = append(failed, fr.Keyword)
			metrics.FetchFailuresTotal.Inc()
			s.logger.Warn("Keyword fetch failed",
				zap.String("keyword", fr.Keyword), zap.Error(fr.Err))
			continue
		}
		for _, d := range fr.Docs {
			pool = append(pool, d)
			poolChars += d.ContentLength()
		}
	}

	params, err := s.selector.Resolve(req.Mode(), poolChars, req.Overrides())
	if err != nil {
		metrics.OptimizeRequestsTotal.WithLabelValues(m, "invalid").Inc()
		return domain.OptimizationResult{}, fmt.Errorf("resolve mode: %w", err)
	}

	scored := s.scorer.ScorePool(pool)
	docs, stats := s.allocator.Allocate(scored, params)

	res := domain.OptimizationResult{
		Documents:            docs,
		TotalEstimatedTokens: stats.EstimatedTokens,
		TruncatedCount:       stats.TruncatedCount,
		KeywordsProcessed:    processedKeywords(req.Keywords(), scored),
		FailedKeywords:       failed,
		ResolvedParams:       params,
		Metrics: domain.PoolMetrics{
			DocsFound:     len(pool),
			DocsKept:      len(docs) - stats.TruncatedCount,
			DocsTruncated: stats.TruncatedCount,
			DocsSkipped:   len(pool) - len(docs),
			CharsBefore:   poolChars,
			CharsAfter:    stats.KeptChars,
		},
		ElapsedMillis: time.Since(start).Milliseconds(),
	}

	// Only meaningful results are worth memoizing; an empty result usually
	// means the backend was down and should not stick for a whole TTL.
	if len(res.Documents) > 0 {
		s.cache.Put(ctx, key, res)
	}

	metrics.OptimizeRequestsTotal.WithLabelValues(m, "ok").Inc()
	metrics.OptimizeDuration.WithLabelValues(m).Observe(time.Since(start).Seconds())
	metrics.EstimatedTokens.Observe(float64(stats.EstimatedTokens))
	metrics.DocumentsTruncatedTotal.Add(float64(stats.TruncatedCount))

	s.logger.Info("Optimization complete",
		zap.String("mode", m),
		zap.Int("documents", len(docs)),
		zap.Int("estimated_tokens", stats.EstimatedTokens),
		zap.Int("truncated", stats.TruncatedCount),
		zap.Strings("failed_keywords", failed),
		zap.Int64("elapsed_ms", res.ElapsedMillis),
	)

	return res, nil
}

// processedKeywords lists, in request order, the keywords that contributed
// at least one non-empty document to the scored pool.
func processedKeywords(keywords []string, scored []domain.ScoredDocument) []string {
	have := make(map[string]bool, len(keywords))
	for _, d := range scored {
		have[d.SourceKeyword] = true
	}
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if have[kw] {
			out = append(out, kw)
		}
	}
	return out
}

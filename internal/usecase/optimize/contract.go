package optimize

import (
	"context"

	"github.com/kailas-cloud/kbopt/internal/domain"
	"github.com/kailas-cloud/kbopt/internal/domain/mode"
	"github.com/kailas-cloud/kbopt/internal/domain/request"
	"github.com/kailas-cloud/kbopt/internal/usecase/allocate"
)

// Fetcher retrieves candidate documents per keyword.
type Fetcher interface {
	FetchAll(ctx context.Context, keywords []string, limit int) []domain.FetchResult
}

// Scorer converts the fetched pool into a scored pool.
type Scorer interface {
	ScorePool(docs []domain.Document) []domain.ScoredDocument
}

// Allocator packs the scored pool into the token budget.
type Allocator interface {
	Allocate(pool []domain.ScoredDocument, params domain.ModeParameters) ([]domain.ScoredDocument, allocate.Stats)
}

// Selector resolves modes into concrete parameters.
type Selector interface {
	Provisional(m mode.Mode, overrides domain.Overrides) (domain.ModeParameters, error)
	Resolve(m mode.Mode, poolChars int, overrides domain.Overrides) (domain.ModeParameters, error)
}

// ResultCache memoizes whole results by normalized request key.
type ResultCache interface {
	Key(req *request.Request) string
	Get(ctx context.Context, key string) (domain.OptimizationResult, bool)
	Put(ctx context.Context, key string, res domain.OptimizationResult)
}

package optimize

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbopt/internal/domain"
	"github.com/kailas-cloud/kbopt/internal/domain/mode"
	"github.com/kailas-cloud/kbopt/internal/domain/request"
	"github.com/kailas-cloud/kbopt/internal/usecase/allocate"
	"github.com/kailas-cloud/kbopt/internal/usecase/params"
	"github.com/kailas-cloud/kbopt/internal/usecase/score"
)

type mockFetcher struct {
	results []domain.FetchResult
	called  bool
	limit   int
}

func (m *mockFetcher) FetchAll(_ context.Context, keywords []string, limit int) []domain.FetchResult {
	m.called = true
	m.limit = limit
	if m.results != nil {
		return m.results
	}
	out := make([]domain.FetchResult, len(keywords))
	for i, kw := range keywords {
		out[i] = domain.FetchResult{Keyword: kw}
	}
	return out
}

type mockCache struct {
	stored map[string]domain.OptimizationResult
	hit    *domain.OptimizationResult
	puts   int
}

func (m *mockCache) Key(req *request.Request) string {
	return "test:" + string(req.Mode())
}

func (m *mockCache) Get(_ context.Context, _ string) (domain.OptimizationResult, bool) {
	if m.hit != nil {
		return *m.hit, true
	}
	return domain.OptimizationResult{}, false
}

func (m *mockCache) Put(_ context.Context, key string, res domain.OptimizationResult) {
	if m.stored == nil {
		m.stored = make(map[string]domain.OptimizationResult)
	}
	m.stored[key] = res
	m.puts++
}

// newTestService wires the engine with a real scorer, allocator and selector;
// only the fetch layer and the cache are mocked.
func newTestService(t *testing.T, fetcher *mockFetcher, cache *mockCache) *Service {
	t.Helper()
	return New(
		fetcher,
		score.NewScorer(),
		allocate.NewAllocator(),
		params.NewSelector(50_000, 1_000_000),
		cache,
		time.Second,
		zap.NewNop(),
	)
}

func makeRequest(t *testing.T, keywords []string, m mode.Mode) *request.Request {
	t.Helper()
	req, err := request.New(keywords, m, domain.Overrides{})
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &req
}

func fetchedDoc(keyword, url string, contentLen int) domain.Document {
	content := make([]byte, contentLen)
	for i := range content {
		content[i] = 'a'
	}
	return domain.Document{
		URL:           url,
		Title:         "Informe " + keyword,
		Content:       keyword + " " + string(content),
		SourceKeyword: keyword,
	}
}

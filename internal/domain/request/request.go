package request

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/kbopt/internal/domain"
	"github.com/kailas-cloud/kbopt/internal/domain/mode"
)

// minKeywordLen filters out keywords too short to query meaningfully.
const minKeywordLen = 3

// Request is a validated, normalized optimization request.
// Keywords are trimmed, case-folded and deduplicated, preserving the order
// of first appearance. Two requests differing only in keyword order or
// casing normalize to the same cache key but keep their own fetch order.
type Request struct {
	keywords  []string
	mode      mode.Mode
	overrides domain.Overrides
}

// New creates a Request. Fails with domain.ErrEmptyKeywords when no keyword
// survives normalization, and domain.ErrUnknownMode for an invalid mode.
func New(keywords []string, m mode.Mode, overrides domain.Overrides) (Request, error) {
	if !m.IsValid() {
		return Request{}, domain.ErrUnknownMode
	}

	normalized := Normalize(keywords)
	if len(normalized) == 0 {
		return Request{}, domain.ErrEmptyKeywords
	}

	return Request{keywords: normalized, mode: m, overrides: overrides}, nil
}

// Keywords returns a copy of the normalized keywords in fetch order.
func (r *Request) Keywords() []string {
	out := make([]string, len(r.keywords))
	copy(out, r.keywords)
	return out
}

// Mode returns the requested optimization mode.
func (r *Request) Mode() mode.Mode { return r.mode }

// Overrides returns the per-request parameter overrides.
func (r *Request) Overrides() domain.Overrides { return r.overrides }

// Normalize trims, lowercases and deduplicates keywords, dropping entries
// shorter than minKeywordLen characters. First occurrence wins the position.
func Normalize(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if utf8.RuneCountInString(k) < minKeywordLen {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

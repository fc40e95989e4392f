// Package score computes keyword-match relevance scores for fetched documents.
package score

import (
	"strings"

	"github.com/kailas-cloud/kbopt/internal/domain"
)

// Match weights. A document starts at baseWeight and collects a bonus per
// matching field; empty content zeroes the score outright.
const (
	baseWeight    = 1.0
	titleWeight   = 0.5
	urlWeight     = 0.2
	contentWeight = 0.3

	// contentWindow bounds the content-match check to the first N characters.
	contentWindow = 2000
)

// Scorer scores documents against their source keyword. Scoring is a pure
// function of (document, keyword): identical input yields an identical
// score, which the result cache relies on.
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer { return &Scorer{} }

// Score computes the relevance of doc for keyword. Empty content scores 0
// regardless of title or URL matches. Missing title/URL contribute no bonus
// and never fail.
func (s *Scorer) Score(doc domain.Document, keyword string) float64 {
	if doc.Content == "" {
		return 0
	}

	kw := strings.ToLower(keyword)
	score := baseWeight

	if doc.Title != "" && strings.Contains(strings.ToLower(doc.Title), kw) {
		score += titleWeight
	}
	if doc.URL != "" && strings.Contains(strings.ToLower(doc.URL), kw) {
		score += urlWeight
	}
	if strings.Contains(strings.ToLower(contentHead(doc.Content)), kw) {
		score += contentWeight
	}

	return score
}

// ScorePool scores every document against its source keyword, dropping
// empty-content documents. Input order is preserved so ties break by the
// original fetch order.
func (s *Scorer) ScorePool(docs []domain.Document) []domain.ScoredDocument {
	scored := make([]domain.ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		if doc.Content == "" {
			continue
		}
		scored = append(scored, domain.ScoredDocument{
			Document:   doc,
			Score:      s.Score(doc, doc.SourceKeyword),
			KeptLength: doc.ContentLength(),
		})
	}
	return scored
}

// contentHead returns the first contentWindow characters of content.
func contentHead(content string) string {
	runes := []rune(content)
	if len(runes) <= contentWindow {
		return content
	}
	return string(runes[:contentWindow])
}

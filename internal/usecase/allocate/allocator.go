// Package allocate packs scored documents into a token budget.
package allocate

import (
	"sort"

	"github.com/kailas-cloud/kbopt/internal/domain"
)

// truncationMarker is appended to content that was cut.
const truncationMarker = "\n\n[Content truncated...]"

// Stats summarizes one allocation pass.
type Stats struct {
	EstimatedTokens int
	TruncatedCount  int
	SkippedOversize int
	KeptChars       int
}

// Allocator selects and truncates documents so the estimated token total
// stays within the target budget while every keyword with evidence stays
// represented.
type Allocator struct{}

// NewAllocator creates an allocator.
func NewAllocator() *Allocator { return &Allocator{} }

// group holds one keyword's candidates, best score first.
type group struct {
	keyword string
	docs    []domain.ScoredDocument
}

// Allocate picks documents from the scored pool under params.
//
// Within each keyword group candidates are ranked by score (stable, so the
// original fetch order breaks ties) and capped at DocsPerKeyword. Groups are
// merged round-robin, ordered by their best document's score, so no keyword
// starves the others. Each selected document is cut to MaxCharsPerDoc; once
// the running chars/4 estimate would pass TargetTokenBudget, only keywords
// not yet represented are admitted, truncated to whatever budget remains.
func (a *Allocator) Allocate(
	pool []domain.ScoredDocument, params domain.ModeParameters,
) ([]domain.ScoredDocument, Stats) {
	var stats Stats

	groups := buildGroups(pool, params, &stats)

	selected := make([]domain.ScoredDocument, 0, len(pool))
	represented := make(map[string]bool, len(groups))
	running := 0

	maxRounds := 0
	for _, g := range groups {
		if len(g.docs) > maxRounds {
			maxRounds = len(g.docs)
		}
	}

	for round := 0; round < maxRounds; round++ {
		for _, g := range groups {
			if round >= len(g.docs) {
				continue
			}
			doc := g.docs[round]

			keep := doc.ContentLength()
			if keep > params.MaxCharsPerDoc {
				keep = params.MaxCharsPerDoc
			}

			if running+domain.EstimateTokens(keep) > params.TargetTokenBudget {
				// Over budget: admit only the first document of a keyword
				// that has evidence but no representation yet, cut to the
				// remaining budget.
				if represented[g.keyword] {
					continue
				}
				remaining := params.TargetTokenBudget - running
				if remaining <= 0 {
					continue
				}
				if keep > remaining*4 {
					keep = remaining * 4
				}
			}

			sel := cut(doc, keep)
			selected = append(selected, sel)
			represented[g.keyword] = true
			running += domain.EstimateTokens(sel.KeptLength)
			stats.KeptChars += sel.KeptLength
			if sel.Truncated {
				stats.TruncatedCount++
			}
		}
	}

	// Callers consume the result highest score first; the stable sort keeps
	// the deterministic round-robin order for equal scores.
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Score > selected[j].Score
	})

	stats.EstimatedTokens = running
	return selected, stats
}

// buildGroups filters oversize documents, groups the pool by source keyword
// in order of first appearance, ranks each group and orders groups by their
// best document's score.
func buildGroups(
	pool []domain.ScoredDocument, params domain.ModeParameters, stats *Stats,
) []group {
	index := make(map[string]int)
	groups := make([]group, 0)

	for _, doc := range pool {
		if doc.ContentLength() > params.SkipDocsLargerThan {
			stats.SkippedOversize++
			continue
		}
		i, ok := index[doc.SourceKeyword]
		if !ok {
			i = len(groups)
			index[doc.SourceKeyword] = i
			groups = append(groups, group{keyword: doc.SourceKeyword})
		}
		groups[i].docs = append(groups[i].docs, doc)
	}

	for i := range groups {
		docs := groups[i].docs
		sort.SliceStable(docs, func(a, b int) bool {
			return docs[a].Score > docs[b].Score
		})
		if len(docs) > params.DocsPerKeyword {
			docs = docs[:params.DocsPerKeyword]
		}
		groups[i].docs = docs
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return bestScore(groups[a]) > bestScore(groups[b])
	})

	return groups
}

func bestScore(g group) float64 {
	if len(g.docs) == 0 {
		return 0
	}
	return g.docs[0].Score
}

// cut returns doc truncated to keepChars characters. Truncation produces a
// new value; doc itself is never modified.
func cut(doc domain.ScoredDocument, keepChars int) domain.ScoredDocument {
	runes := []rune(doc.Content)
	if keepChars >= len(runes) {
		return doc
	}
	out := doc
	out.Content = string(runes[:keepChars]) + truncationMarker
	out.KeptLength = keepChars
	out.Truncated = true
	return out
}

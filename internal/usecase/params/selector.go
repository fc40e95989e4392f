// Package params resolves optimization modes into concrete allocator parameters.
package params

import (
	"fmt"

	"github.com/kailas-cloud/kbopt/internal/domain"
	"github.com/kailas-cloud/kbopt/internal/domain/mode"
)

// Fixed parameter table. Adaptive picks one of these rows at request time
// based on the candidate pool size.
var table = map[mode.Mode]domain.ModeParameters{
	mode.Fast: {
		DocsPerKeyword:     1,
		MaxCharsPerDoc:     8_000,
		TargetTokenBudget:  15_000,
		SkipDocsLargerThan: 200_000,
	},
	mode.Balanced: {
		DocsPerKeyword:     2,
		MaxCharsPerDoc:     15_000,
		TargetTokenBudget:  50_000,
		SkipDocsLargerThan: 500_000,
	},
	mode.Comprehensive: {
		DocsPerKeyword:     3,
		MaxCharsPerDoc:     25_000,
		TargetTokenBudget:  100_000,
		SkipDocsLargerThan: 1_000_000,
	},
}

// Selector maps mode names to ModeParameters, applying per-request overrides.
type Selector struct {
	smallPoolChars int
	largePoolChars int
}

// NewSelector creates a selector with the adaptive-mode volume thresholds:
// pools under smallPoolChars resolve to fast, over largePoolChars to
// comprehensive, anything between to balanced.
func NewSelector(smallPoolChars, largePoolChars int) *Selector {
	return &Selector{smallPoolChars: smallPoolChars, largePoolChars: largePoolChars}
}

// Provisional returns the parameters used to size the fetch phase, before
// the candidate pool exists. Adaptive fetches at comprehensive width so the
// final resolution never needs documents that were not retrieved.
func (s *Selector) Provisional(m mode.Mode, overrides domain.Overrides) (domain.ModeParameters, error) {
	if m == mode.Adaptive {
		return apply(table[mode.Comprehensive], overrides), nil
	}
	p, ok := table[m]
	if !ok {
		return domain.ModeParameters{}, fmt.Errorf("%w: %q", domain.ErrUnknownMode, m)
	}
	return apply(p, overrides), nil
}

// Resolve returns the final parameters for a mode given the candidate pool
// size in characters. For fixed modes the pool size is ignored.
func (s *Selector) Resolve(
	m mode.Mode, poolChars int, overrides domain.Overrides,
) (domain.ModeParameters, error) {
	if m == mode.Adaptive {
		return apply(table[s.adapt(poolChars)], overrides), nil
	}
	p, ok := table[m]
	if !ok {
		return domain.ModeParameters{}, fmt.Errorf("%w: %q", domain.ErrUnknownMode, m)
	}
	return apply(p, overrides), nil
}

// adapt picks a fixed mode from the pool volume.
func (s *Selector) adapt(poolChars int) mode.Mode {
	switch {
	case poolChars < s.smallPoolChars:
		return mode.Fast
	case poolChars > s.largePoolChars:
		return mode.Comprehensive
	default:
		return mode.Balanced
	}
}

// apply layers request overrides over table values, field by field.
func apply(p domain.ModeParameters, o domain.Overrides) domain.ModeParameters {
	if o.MaxDocsPerKeyword != nil && *o.MaxDocsPerKeyword >= 1 {
		p.DocsPerKeyword = *o.MaxDocsPerKeyword
	}
	if o.MaxCharsPerDoc != nil && *o.MaxCharsPerDoc >= 1 {
		p.MaxCharsPerDoc = *o.MaxCharsPerDoc
	}
	if o.TargetTokenBudget != nil && *o.TargetTokenBudget >= 1 {
		p.TargetTokenBudget = *o.TargetTokenBudget
	}
	return p
}

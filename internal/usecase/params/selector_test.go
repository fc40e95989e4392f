package params

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/kbopt/internal/domain"
	"github.com/kailas-cloud/kbopt/internal/domain/mode"
)

func newTestSelector() *Selector {
	return NewSelector(50_000, 1_000_000)
}

func TestResolve_FixedModes(t *testing.T) {
	s := newTestSelector()

	tests := []struct {
		mode mode.Mode
		want domain.ModeParameters
	}{
		{mode.Fast, domain.ModeParameters{DocsPerKeyword: 1, MaxCharsPerDoc: 8_000, TargetTokenBudget: 15_000, SkipDocsLargerThan: 200_000}},
		{mode.Balanced, domain.ModeParameters{DocsPerKeyword: 2, MaxCharsPerDoc: 15_000, TargetTokenBudget: 50_000, SkipDocsLargerThan: 500_000}},
		{mode.Comprehensive, domain.ModeParameters{DocsPerKeyword: 3, MaxCharsPerDoc: 25_000, TargetTokenBudget: 100_000, SkipDocsLargerThan: 1_000_000}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got, err := s.Resolve(tt.mode, 0, domain.Overrides{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%s) = %+v, want %+v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestResolve_AdaptiveThresholds(t *testing.T) {
	s := newTestSelector()

	tests := []struct {
		name      string
		poolChars int
		wantDocs  int
	}{
		{"small pool resolves to fast", 10_000, 1},
		{"boundary small resolves to balanced", 50_000, 2},
		{"medium pool resolves to balanced", 400_000, 2},
		{"boundary large resolves to balanced", 1_000_000, 2},
		{"large pool resolves to comprehensive", 2_000_000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(mode.Adaptive, tt.poolChars, domain.Overrides{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.DocsPerKeyword != tt.wantDocs {
				t.Errorf("poolChars=%d: DocsPerKeyword = %d, want %d", tt.poolChars, got.DocsPerKeyword, tt.wantDocs)
			}
		})
	}
}

func TestProvisional_AdaptiveFetchesWide(t *testing.T) {
	s := newTestSelector()

	got, err := s.Provisional(mode.Adaptive, domain.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DocsPerKeyword != 3 {
		t.Errorf("adaptive provisional DocsPerKeyword = %d, want comprehensive width 3", got.DocsPerKeyword)
	}
}

func TestResolve_Overrides(t *testing.T) {
	s := newTestSelector()
	docs, chars, budget := 7, 500, 9_000

	got, err := s.Resolve(mode.Fast, 0, domain.Overrides{
		MaxDocsPerKeyword: &docs,
		MaxCharsPerDoc:    &chars,
		TargetTokenBudget: &budget,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DocsPerKeyword != 7 || got.MaxCharsPerDoc != 500 || got.TargetTokenBudget != 9_000 {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.SkipDocsLargerThan != 200_000 {
		t.Errorf("non-overridable field changed: %d", got.SkipDocsLargerThan)
	}
}

func TestResolve_InvalidOverrideIgnored(t *testing.T) {
	s := newTestSelector()
	zero := 0

	got, err := s.Resolve(mode.Balanced, 0, domain.Overrides{MaxDocsPerKeyword: &zero})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DocsPerKeyword != 2 {
		t.Errorf("zero override should be ignored, got DocsPerKeyword=%d", got.DocsPerKeyword)
	}
}

func TestResolve_UnknownMode(t *testing.T) {
	s := newTestSelector()

	_, err := s.Resolve(mode.Mode("turbo"), 0, domain.Overrides{})
	if !errors.Is(err, domain.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}

	_, err = s.Provisional(mode.Mode("turbo"), domain.Overrides{})
	if !errors.Is(err, domain.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode from Provisional, got %v", err)
	}
}

package score

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/kbopt/internal/domain"
)

func TestScore_EmptyContentScoresZero(t *testing.T) {
	s := NewScorer()
	doc := domain.Document{
		URL:   "https://kb.example.com/suelos",
		Title: "Suelos y drenaje",
	}
	if got := s.Score(doc, "suelos"); got != 0 {
		t.Errorf("empty content should score 0, got %f", got)
	}
}

func TestScore_Weights(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name string
		doc  domain.Document
		want float64
	}{
		{
			name: "content only, no field match",
			doc:  domain.Document{Content: "nothing relevant here"},
			want: 1.0,
		},
		{
			name: "title match",
			doc:  domain.Document{Title: "Estudio de Suelos", Content: "irrelevant"},
			want: 1.5,
		},
		{
			name: "url match",
			doc:  domain.Document{URL: "https://kb.example.com/suelos/1", Content: "irrelevant"},
			want: 1.2,
		},
		{
			name: "content match",
			doc:  domain.Document{Content: "análisis de suelos en la cuenca"},
			want: 1.3,
		},
		{
			name: "all fields match",
			doc: domain.Document{
				URL:     "https://kb.example.com/suelos",
				Title:   "Suelos",
				Content: "suelos arcillosos",
			},
			want: 2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.doc, "suelos"); got != tt.want {
				t.Errorf("Score() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScore_CaseInsensitive(t *testing.T) {
	s := NewScorer()
	doc := domain.Document{Title: "SUELOS", Content: "SUELOS arcillosos"}
	if got := s.Score(doc, "Suelos"); got != 1.8 {
		t.Errorf("Score() = %f, want 1.8", got)
	}
}

func TestScore_ContentMatchBeyondWindowIgnored(t *testing.T) {
	s := NewScorer()
	doc := domain.Document{
		Content: strings.Repeat("x", contentWindow) + " suelos",
	}
	if got := s.Score(doc, "suelos"); got != 1.0 {
		t.Errorf("match past the window should not count, got %f", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer()
	doc := domain.Document{Title: "Hidrología", URL: "https://kb/hidrología", Content: "datos de hidrología"}
	first := s.Score(doc, "hidrología")
	for i := 0; i < 10; i++ {
		if got := s.Score(doc, "hidrología"); got != first {
			t.Fatalf("score changed between calls: %f vs %f", got, first)
		}
	}
}

func TestScorePool_DropsEmptyContentKeepsOrder(t *testing.T) {
	s := NewScorer()
	pool := []domain.Document{
		{URL: "u1", Content: "suelos", SourceKeyword: "suelos"},
		{URL: "u2", SourceKeyword: "suelos"},
		{URL: "u3", Content: "clima templado", SourceKeyword: "clima"},
	}

	scored := s.ScorePool(pool)
	if len(scored) != 2 {
		t.Fatalf("expected 2 scored docs, got %d", len(scored))
	}
	if scored[0].URL != "u1" || scored[1].URL != "u3" {
		t.Errorf("input order not preserved: %s, %s", scored[0].URL, scored[1].URL)
	}
	if scored[0].KeptLength != scored[0].ContentLength() {
		t.Errorf("KeptLength = %d, want full content length %d", scored[0].KeptLength, scored[0].ContentLength())
	}
}

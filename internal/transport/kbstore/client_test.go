package kbstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/kbopt/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestSearch_DecodesRows(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/pages/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "suelos" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "3" {
			t.Errorf("limit = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows":[
			{"url":"https://kb/1","title":"Suelos","content_md":"# Suelos"},
			{"url":"https://kb/2","content_md":"sin título"}
		]}`))
	})

	docs, err := c.Search(context.Background(), "suelos", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0].Title != "Suelos" || docs[0].URL != "https://kb/1" {
		t.Errorf("docs[0] = %+v", docs[0])
	}
	if docs[1].Title != "" {
		t.Errorf("missing title must decode to empty, got %q", docs[1].Title)
	}
	for _, d := range docs {
		if d.SourceKeyword != "suelos" {
			t.Errorf("SourceKeyword = %q", d.SourceKeyword)
		}
	}
}

func TestSearch_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Search(context.Background(), "suelos", 1)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestSearch_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"index rebuilding"}`))
	})

	_, err := c.Search(context.Background(), "suelos", 1)
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestSearch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.Search(context.Background(), "suelos", 1)
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestSearch_InvalidLimit(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://localhost:1"})
	if _, err := c.Search(context.Background(), "suelos", 0); err == nil {
		t.Fatal("expected error for limit 0")
	}
}

func TestSearch_NoAuthHeaderWithoutKey(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		_, _ = w.Write([]byte(`{"rows":[]}`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL})

	if _, err := c.Search(context.Background(), "suelos", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawAuth {
		t.Error("no Authorization header expected without an API key")
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(Config{BaseURL: srv.URL})

	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected error for unreachable backend")
	}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsRequestsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/v1/optimize", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	})

	req := httptest.NewRequest("POST", "/v1/optimize", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/v1/optimize", "200"))
	if val < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_CapturesErrorStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	req := httptest.NewRequest("GET", "/boom", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/boom", "400"))
	if val < 1 {
		t.Errorf("expected http_requests_total with status 400 >= 1, got %f", val)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("normalizePath(\"\") = %q, want \"unknown\"", got)
	}
	if got := normalizePath("/healthz"); got != "/healthz" {
		t.Errorf("normalizePath(/healthz) = %q", got)
	}
}

func TestRegisterOptimizeMetrics_Idempotent(t *testing.T) {
	RegisterOptimizeMetrics()
	// A second call must not panic on duplicate registration.
	RegisterOptimizeMetrics()
}

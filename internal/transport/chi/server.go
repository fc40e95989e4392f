// Package chi exposes the optimization engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbopt/internal/domain"
	"github.com/kailas-cloud/kbopt/internal/domain/mode"
	"github.com/kailas-cloud/kbopt/internal/domain/request"
	"github.com/kailas-cloud/kbopt/internal/metrics"
	healthuc "github.com/kailas-cloud/kbopt/internal/usecase/health"
)

// OptimizeService runs optimization requests.
type OptimizeService interface {
	Optimize(ctx context.Context, req *request.Request) (domain.OptimizationResult, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API server.
type Server struct {
	optimize OptimizeService
	health   HealthService
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(optimize OptimizeService, health HealthService, logger *zap.Logger) *Server {
	return &Server{optimize: optimize, health: health, logger: logger}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Post("/v1/optimize", s.Optimize)
	r.Get("/healthz", s.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// optimizeRequest is the wire format of POST /v1/optimize.
type optimizeRequest struct {
	Keywords  []string          `json:"keywords"`
	Mode      string            `json:"mode"`
	Overrides *domain.Overrides `json:"overrides,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Optimize handles POST /v1/optimize.
func (s *Server) Optimize(w http.ResponseWriter, r *http.Request) {
	var body optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	m := mode.Mode(body.Mode)
	if body.Mode == "" {
		m = mode.Adaptive
	}
	var overrides domain.Overrides
	if body.Overrides != nil {
		overrides = *body.Overrides
	}

	req, err := request.New(body.Keywords, m, overrides)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.optimize.Optimize(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleDomainError maps domain errors to HTTP responses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate_limited", err.Error())
	default:
		s.logger.Error("Optimization failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

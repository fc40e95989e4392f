package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache   CachePinger
	backend BackendChecker
}

// New creates a Service. backend can be nil.
func New(cache CachePinger, backend BackendChecker) *Service {
	return &Service{cache: cache, backend: backend}
}

// Check runs health checks against all components. The cache is best-effort
// for request handling, so a cache failure alone reports Degraded while a
// backend failure does too; only both failing reports Unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.cache.Ping(ctx); err != nil {
		checks["cache"] = CheckError
	} else {
		checks["cache"] = CheckOK
	}

	if s.backend != nil {
		if err := s.backend.Ping(ctx); err != nil {
			checks["backend"] = CheckError
		} else {
			checks["backend"] = CheckOK
		}
	}

	failures := 0
	for _, c := range checks {
		if c == CheckError {
			failures++
		}
	}

	switch {
	case failures == 0:
		return Report{Status: Healthy, Checks: checks}
	case failures == len(checks):
		return Report{Status: Unhealthy, Checks: checks}
	default:
		return Report{Status: Degraded, Checks: checks}
	}
}

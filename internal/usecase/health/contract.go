package health

import "context"

// CachePinger checks result cache store connectivity.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// BackendChecker checks knowledge-base backend reachability.
type BackendChecker interface {
	Ping(ctx context.Context) error
}

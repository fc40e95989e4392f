package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals a request rejected before any fetch.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmptyKeywords signals a request with no usable keywords.
	ErrEmptyKeywords = fmt.Errorf("%w: empty keyword set", ErrInvalidRequest)
	// ErrUnknownMode signals an unresolvable optimization mode name.
	ErrUnknownMode = fmt.Errorf("%w: unknown mode", ErrInvalidRequest)

	// ErrRateLimited signals a rate-limit response from the backend.
	ErrRateLimited = errors.New("rate limited")
	// ErrBackendUnavailable signals a backend failure other than rate limiting.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Package ratelimit implements sliding-window request limiting keyed by
// client identifier. Two backends exist: an in-process one and a Redis one
// shared across replicas. Which one runs is decided at process start.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a single check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter records a request attempt for the identifier and reports whether
// it fits within the window.
type Limiter interface {
	Allow(ctx context.Context, identifier string) (Result, error)
}

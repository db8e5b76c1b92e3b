package ratelimit

import (
	"context"
	"time"
)

// Limit describes how many requests a single key may make per window.
// A zero value for any window disables that window.
type Limit struct {
	PerMinute int
	PerHour   int
}

// RateLimiter answers whether a keyed request may proceed right now.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
	Remaining(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// Package ratelimit provides the per-client request cap applied in front of
// the aggregation endpoint. The limiter is best effort: counts are reset on
// process restart with the memory backend and are only shared across
// instances when backed by Redis.
package ratelimit

import "context"

// Limiter decides whether one more request from the given key is allowed
// right now. Implementations count requests in a sliding window, so the
// call both checks and records.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

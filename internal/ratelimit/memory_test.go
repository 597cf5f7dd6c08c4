package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterAllowsUpToMax(t *testing.T) {
	l := NewMemoryLimiter(30, time.Minute)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		if !l.Allow(ctx, "10.0.0.1") {
			t.Fatalf("request %d should have been allowed", i+1)
		}
	}
	if l.Allow(ctx, "10.0.0.1") {
		t.Fatal("31st request within the window should have been rejected")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	if !l.Allow(ctx, "10.0.0.1") {
		t.Fatal("first request for key A should pass")
	}
	if l.Allow(ctx, "10.0.0.1") {
		t.Fatal("second request for key A should be rejected")
	}
	if !l.Allow(ctx, "10.0.0.2") {
		t.Fatal("key B should not be affected by key A's count")
	}
}

func TestMemoryLimiterWindowSlides(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewMemoryLimiter(2, time.Minute, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	l.Allow(ctx, "k")
	l.Allow(ctx, "k")
	if l.Allow(ctx, "k") {
		t.Fatal("third request should be rejected")
	}

	// One second past the window the old timestamps no longer count.
	now = now.Add(time.Minute + time.Second)
	if !l.Allow(ctx, "k") {
		t.Fatal("request after the window elapsed should pass")
	}
}

func TestMemoryLimiterCleanupDropsStaleKeys(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewMemoryLimiter(5, time.Minute, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	l.Allow(ctx, "stale")
	now = now.Add(2 * time.Minute)
	l.Allow(ctx, "fresh")

	l.Cleanup()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries["stale"]; ok {
		t.Error("stale key should have been removed")
	}
	if _, ok := l.entries["fresh"]; !ok {
		t.Error("fresh key should have been kept")
	}
}

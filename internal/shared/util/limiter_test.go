// # internal/shared/util/limiter_test.go
package util

import (
	"context"
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	// 10 tokens per second, burst of 2
	l := NewLimiter(10, 2)

	if !l.Allow() {
		t.Error("expected first token to be allowed")
	}
	if !l.Allow() {
		t.Error("expected second token to be allowed (burst)")
	}
	if l.Allow() {
		t.Error("expected third token to be rejected (burst exhausted)")
	}

	time.Sleep(150 * time.Millisecond)
	if !l.Allow() {
		t.Error("expected token to be refilled after wait")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatalf("expected unlimited limiter to allow event %d", i)
		}
	}
}

func TestLimiter_SetRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.Allow() // consume burst
	l.SetRate(0)
	if !l.Allow() {
		t.Error("expected unlimited rate after SetRate(0)")
	}
}

func TestLimiterRegistry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 100 tokens/sec, burst 10, ttl 100ms
	reg := NewLimiterRegistry(ctx, 100, 10, 100*time.Millisecond)

	l1 := reg.Get("src/lib.rs")
	l2 := reg.Get("src/main.rs")

	if l1 == l2 {
		t.Error("expected different limiters for different paths")
	}
	if reg.Get("src/lib.rs") != l1 {
		t.Error("expected same limiter for same path")
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 tracked keys, got %d", reg.Len())
	}

	time.Sleep(250 * time.Millisecond)
	// Cleanup should have removed the old limiters
	if reg.Get("src/lib.rs") == l1 {
		t.Error("expected old limiter to be cleaned up and replaced")
	}
}

func TestLimiterRegistry_NoTTLKeepsEntries(t *testing.T) {
	reg := NewLimiterRegistry(context.Background(), 1, 1, 0)
	l := reg.Get("a.rs")
	reg.cleanup(time.Now().Add(time.Hour))
	if reg.Get("a.rs") != l {
		t.Error("expected limiter to survive without a ttl")
	}
}

func TestLimiter_Wait(t *testing.T) {
	l := NewLimiter(100, 1)
	l.Allow() // consume burst

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Wait returned too early")
	}
}

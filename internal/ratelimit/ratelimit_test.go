package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestUnlimited(t *testing.T) {
	l := New(0)

	if got := l.Limit(); got != 0 {
		t.Errorf("Limit() = %v, want 0", got)
	}
	for range 100 {
		if !l.Allow() {
			t.Fatal("unlimited limiter refused a fetch")
		}
	}
}

func TestLimited(t *testing.T) {
	l := New(1)

	if got := l.Limit(); got != 1 {
		t.Errorf("Limit() = %v, want 1", got)
	}
	if !l.Allow() {
		t.Fatal("first fetch should be allowed immediately")
	}
	if l.Allow() {
		t.Error("second immediate fetch should be throttled")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	l := New(0.001)
	l.Allow() // drain the burst

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("Wait should fail once the context deadline passes")
	}
}

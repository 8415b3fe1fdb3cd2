package ratelimit

import (
	"testing"
	"time"
)

func TestSlidingWindow(t *testing.T) {
	sw := NewSlidingWindow(3, 200*time.Millisecond)

	for i := 0; i < 3; i++ {
		if !sw.Allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if sw.Allow() {
		t.Error("Expected request to be denied when limit is reached")
	}

	// Requests fall out of the window over time
	time.Sleep(250 * time.Millisecond)
	if !sw.Allow() {
		t.Error("Expected request to be allowed after window passed")
	}
}

func TestSlidingWindowRemaining(t *testing.T) {
	sw := NewSlidingWindow(5, time.Minute)

	if got := sw.Remaining(); got != 5 {
		t.Errorf("Remaining() = %d, want 5", got)
	}

	sw.Allow()
	sw.Allow()

	if got := sw.Remaining(); got != 3 {
		t.Errorf("Remaining() = %d, want 3", got)
	}
}

func TestSlidingWindowReset(t *testing.T) {
	sw := NewSlidingWindow(1, time.Minute)

	sw.Allow()
	if sw.Allow() {
		t.Error("Expected request to be denied before reset")
	}

	sw.Reset()
	if !sw.Allow() {
		t.Error("Expected request to be allowed after reset")
	}
}

func TestSlidingWindowWait(t *testing.T) {
	sw := NewSlidingWindow(1, 100*time.Millisecond)

	sw.Allow()

	start := time.Now()
	sw.Wait()
	elapsed := time.Since(start)

	if elapsed < 50*time.Millisecond {
		t.Errorf("Wait() returned too quickly: %v", elapsed)
	}
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(5, 200*time.Millisecond)

	for i := 0; i < 5; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Expected no more tokens to be available")
	}

	// Refill after the period passes
	time.Sleep(250 * time.Millisecond)
	if !tb.Allow() {
		t.Error("Expected tokens to be refilled after waiting")
	}
}

func TestTokenBucketReset(t *testing.T) {
	tb := NewTokenBucket(2, time.Minute)

	tb.Allow()
	tb.Allow()
	if tb.Allow() {
		t.Error("Expected bucket to be empty")
	}

	tb.Reset()
	if !tb.Allow() {
		t.Error("Expected token after reset")
	}
}

func TestLimiterInterface(t *testing.T) {
	var _ Limiter = NewSlidingWindow(1, time.Second)
	var _ Limiter = NewTokenBucket(1, time.Second)
}

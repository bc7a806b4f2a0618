package limiter

import (
	"testing"

	"golang.org/x/time/rate"
)

func TestAllowWithinBurst(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst must be allowed", i+1)
		}
	}
}

func TestRejectsBeyondBurst(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2)

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.1")

	if l.Allow("10.0.0.1") {
		t.Error("request beyond burst must be rejected")
	}
}

func TestLimitsArePerIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 1)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first request from first IP must be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Error("second request from the same IP must be rejected")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("another IP gets its own bucket")
	}
}

package httpapi

import (
	"testing"
	"time"
)

func newTestLimiter(now *time.Time) *RateLimiter {
	rl := NewRateLimiter()
	rl.now = func() time.Time { return *now }
	return rl
}

func TestRateLimiterAuthBudget(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(&now)

	for i := 0; i < rateLimitAuthClass; i++ {
		if !rl.Allow("1.2.3.4", true) {
			t.Fatalf("request %d rejected under the limit", i+1)
		}
	}
	if rl.Allow("1.2.3.4", true) {
		t.Error("request over the auth budget allowed")
	}

	// Another client is unaffected.
	if !rl.Allow("5.6.7.8", true) {
		t.Error("different client rejected")
	}
}

func TestRateLimiterGeneralBudget(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(&now)

	for i := 0; i < rateLimitGeneral; i++ {
		if !rl.Allow("1.2.3.4", false) {
			t.Fatalf("request %d rejected under the limit", i+1)
		}
	}
	if rl.Allow("1.2.3.4", false) {
		t.Error("request over the general budget allowed")
	}
}

func TestRateLimiterBudgetsAreSeparate(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(&now)

	for i := 0; i < rateLimitAuthClass; i++ {
		rl.Allow("1.2.3.4", true)
	}
	if rl.Allow("1.2.3.4", true) {
		t.Fatal("auth budget not exhausted")
	}
	if !rl.Allow("1.2.3.4", false) {
		t.Error("general request blocked by exhausted auth budget")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	now := time.Now()
	rl := newTestLimiter(&now)

	for i := 0; i < rateLimitAuthClass; i++ {
		rl.Allow("1.2.3.4", true)
	}
	if rl.Allow("1.2.3.4", true) {
		t.Fatal("auth budget not exhausted")
	}

	now = now.Add(rateLimitWindow)
	if !rl.Allow("1.2.3.4", true) {
		t.Error("request rejected after window reset")
	}
}

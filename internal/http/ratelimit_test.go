package http

import (
	"net/http"
	"testing"
	"time"
)

func TestRateLimiterCapsMutatingRequests(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)
	defer rl.stop()

	for i := 0; i < 3; i++ {
		if !rl.allow(http.MethodPost, "203.0.113.9") {
			t.Fatalf("request %d denied below the limit", i+1)
		}
	}
	if rl.allow(http.MethodPost, "203.0.113.9") {
		t.Error("request above the limit allowed")
	}
	if got := rl.rejectedCount(); got != 1 {
		t.Errorf("rejectedCount = %d, want 1", got)
	}

	// Other clients keep their own window.
	if !rl.allow(http.MethodDelete, "203.0.113.10") {
		t.Error("another client's request denied")
	}
}

func TestRateLimiterNeverLimitsReads(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	defer rl.stop()

	for i := 0; i < 10; i++ {
		if !rl.allow(http.MethodGet, "203.0.113.9") {
			t.Fatal("read request denied")
		}
	}
	if got := rl.rejectedCount(); got != 0 {
		t.Errorf("rejectedCount = %d, want 0", got)
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := newRateLimiter(1, 10*time.Millisecond)
	defer rl.stop()

	if !rl.allow(http.MethodPost, "203.0.113.9") {
		t.Fatal("first request denied")
	}
	if rl.allow(http.MethodPost, "203.0.113.9") {
		t.Fatal("second request inside the window allowed")
	}
	time.Sleep(25 * time.Millisecond)
	if !rl.allow(http.MethodPost, "203.0.113.9") {
		t.Error("request after the window expired denied")
	}
}

// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Every(time.Hour), 2)
	handler := RateLimit(limiter, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	request := func(ip string) int {
		req := httptest.NewRequest("POST", "/accounts/login/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		handler(w, req)
		return w.Code
	}

	// burst of two, then rejected
	for i := 0; i < 2; i++ {
		if code := request("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := request("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after burst, got %d", code)
	}

	// other clients have their own bucket
	if code := request("10.0.0.2"); code != http.StatusOK {
		t.Errorf("Expected 200 for a different IP, got %d", code)
	}
}

func TestIPRateLimiter_Prune(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	limiter.GetLimiter("10.0.0.1")
	limiter.GetLimiter("10.0.0.2")

	if n := limiter.Prune(time.Now().Add(-time.Minute)); n != 0 {
		t.Errorf("Expected nothing pruned, got %d", n)
	}
	if n := limiter.Prune(time.Now().Add(time.Minute)); n != 2 {
		t.Errorf("Expected 2 pruned, got %d", n)
	}
	if limiter.Len() != 0 {
		t.Errorf("Expected no visitors left, got %d", limiter.Len())
	}
}

func TestIPRateLimiter_RunPruner(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	limiter.GetLimiter("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.RunPruner(ctx, 5*time.Millisecond, time.Nanosecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for limiter.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if limiter.Len() != 0 {
		t.Error("Expected idle visitor to be pruned")
	}
}

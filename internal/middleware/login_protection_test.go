// Copyright (c) 2025-2026 Grace Chapel Web Team
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginProtection_AccountLockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	const email = "pastor@example.com"

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Fatal("fresh account should not be locked")
	}
	if got := lp.GetRemainingAttempts(email); got != 3 {
		t.Fatalf("remaining attempts = %d; want 3", got)
	}

	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Fatal("locked after one attempt")
	}
	if got := lp.GetRemainingAttempts(email); got != 2 {
		t.Errorf("remaining attempts = %d; want 2", got)
	}

	lp.RecordFailedAttempt(email)
	locked, dur := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("account should lock on third failure")
	}
	if dur != time.Minute {
		t.Errorf("lock duration = %v; want 1m", dur)
	}

	locked, remaining := lp.IsAccountLocked(email)
	if !locked {
		t.Fatal("IsAccountLocked should report the lock")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("remaining lockout = %v", remaining)
	}
}

func TestLoginProtection_SuccessClearsAttempts(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	const email = "office@example.com"
	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if got := lp.GetRemainingAttempts(email); got != 3 {
		t.Errorf("remaining attempts after success = %d; want 3", got)
	}
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("counter should have reset")
	}
}

func TestLoginProtection_ExponentialBackoff(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 2,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Hour,
	})

	const email = "deacon@example.com"

	lp.RecordFailedAttempt(email)
	if locked, dur := lp.RecordFailedAttempt(email); !locked || dur != time.Minute {
		t.Fatalf("first lockout = (%v, %v); want (true, 1m)", locked, dur)
	}

	// Counter resets when the lock triggers, so two more failures are
	// needed. The second lockout doubles.
	lp.RecordFailedAttempt(email)
	if locked, dur := lp.RecordFailedAttempt(email); !locked || dur != 2*time.Minute {
		t.Fatalf("second lockout = (%v, %v); want (true, 2m)", locked, dur)
	}
}

func TestLoginProtection_TracksAccountsSeparately(t *testing.T) {
	lp := NewLoginProtection(DefaultLoginProtectionConfig())

	lp.RecordFailedAttempt("a@example.com")
	if got := lp.GetRemainingAttempts("b@example.com"); got != 5 {
		t.Errorf("unrelated account remaining = %d; want 5", got)
	}
}

func TestLoginProtection_Middleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit: 0.001, // effectively one burst then blocked
		IPBurst:     2,
	})

	var hits int
	h := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	post := func() int {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "192.0.2.10:5000"
		h.ServeHTTP(w, r)
		return w.Code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("first request status = %d", code)
	}
	if code := post(); code != http.StatusOK {
		t.Fatalf("second request status = %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("burst exhausted, status = %d; want 429", code)
	}
	if hits != 2 {
		t.Errorf("handler hits = %d; want 2", hits)
	}

	// GET requests are never rate limited.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/login", nil)
	r.RemoteAddr = "192.0.2.10:5000"
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("GET status = %d; want 200", w.Code)
	}
}

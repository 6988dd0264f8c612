package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lawyer4u/portal/internal/core/ports"
)

const (
	// LoginAttemptsKey holds the remaining login attempts for a browser.
	LoginAttemptsKey = "loginAttempts"

	DefaultMaxLoginAttempts = 5
)

// LoginThrottle is a best-effort, per-browser counter of remaining login
// attempts. It only spares the backend obvious retries; the backend remains
// the authority on brute-force protection.
type LoginThrottle struct {
	storage ports.Storage
	max     int
	log     zerolog.Logger
}

// NewLoginThrottle returns a throttle allowing max consecutive failures.
// Non-positive values fall back to DefaultMaxLoginAttempts.
func NewLoginThrottle(storage ports.Storage, max int, log zerolog.Logger) *LoginThrottle {
	if max <= 0 {
		max = DefaultMaxLoginAttempts
	}
	return &LoginThrottle{storage: storage, max: max, log: log}
}

// Max is the value the counter resets to.
func (t *LoginThrottle) Max() int { return t.max }

// Remaining returns the attempts left, clamped to [0, Max]. Missing or
// unreadable values count as a fresh counter.
func (t *LoginThrottle) Remaining(ctx context.Context) int {
	raw, ok, err := t.storage.GetItem(ctx, LoginAttemptsKey)
	if err != nil {
		t.log.Warn().Err(err).Msg("login throttle: storage unavailable")
		return t.max
	}
	if !ok {
		return t.max
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		t.log.Warn().Str("value", raw).Msg("login throttle: ignoring unparsable counter")
		return t.max
	}
	return t.clamp(n)
}

// Blocked reports whether no attempts are left.
func (t *LoginThrottle) Blocked(ctx context.Context) bool {
	return t.Remaining(ctx) <= 0
}

// RecordFailure consumes one attempt and returns what is left.
func (t *LoginThrottle) RecordFailure(ctx context.Context) int {
	remaining := t.clamp(t.Remaining(ctx) - 1)
	t.store(ctx, remaining)
	return remaining
}

// Reset restores the counter to Max after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context) {
	t.store(ctx, t.max)
}

func (t *LoginThrottle) store(ctx context.Context, n int) {
	if err := t.storage.SetItem(ctx, LoginAttemptsKey, strconv.Itoa(n)); err != nil {
		t.log.Warn().Err(err).Msg("login throttle: failed to persist counter")
	}
}

func (t *LoginThrottle) clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > t.max:
		return t.max
	default:
		return n
	}
}

// internal/dispatch/retry.go
package dispatch

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrTransient marks a send failure worth retrying. Senders wrap their
// retryable errors with it; anything else is classified heuristically.
var ErrTransient = errors.New("transient send error")

// ErrFatal marks a send failure that must not be retried.
var ErrFatal = errors.New("fatal send error")

// Policy controls reply retries: up to MaxAttempts sends with a delay of
// BackoffBase^attempt seconds between them (attempt starting at 0).
type Policy struct {
	MaxAttempts int
	BackoffBase float64

	// Sleep is swapped out in tests.
	Sleep func(time.Duration)
}

// DefaultPolicy returns the stock policy: 3 attempts, base-2 backoff
// (1s, 2s between attempts).
func DefaultPolicy() *Policy {
	return &Policy{MaxAttempts: 3, BackoffBase: 2, Sleep: time.Sleep}
}

// Backoff returns the delay after the given zero-indexed attempt.
func (p *Policy) Backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(p.BackoffBase, float64(attempt)) * float64(time.Second))
}

// IsTransient classifies a send error. Explicitly marked errors win;
// unclassified errors fall back to message heuristics, defaulting to
// transient so flaky transports get their retries.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrFatal) {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "blocked") {
		return false
	}
	return true
}

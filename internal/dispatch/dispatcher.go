// Package dispatch sends acknowledgement replies with bounded backoff.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/user/clipwatch/internal/types"
)

// Dispatcher retries reply delivery per its Policy. It never returns an
// error: the boolean result tells the caller whether the reply went out,
// and the mark-seen compensation on exhaustion is the caller's job.
type Dispatcher struct {
	sender types.ReplySender
	policy *Policy
}

// New creates a Dispatcher. maxAttempts and backoffBase fall back to the
// default policy when non-positive.
func New(sender types.ReplySender, maxAttempts int, backoffBase float64) *Dispatcher {
	policy := DefaultPolicy()
	if maxAttempts > 0 {
		policy.MaxAttempts = maxAttempts
	}
	if backoffBase > 0 {
		policy.BackoffBase = backoffBase
	}
	return &Dispatcher{sender: sender, policy: policy}
}

// NewWithPolicy creates a Dispatcher with an explicit policy.
func NewWithPolicy(sender types.ReplySender, policy *Policy) *Dispatcher {
	if policy.Sleep == nil {
		policy.Sleep = DefaultPolicy().Sleep
	}
	return &Dispatcher{sender: sender, policy: policy}
}

// Dispatch attempts to deliver the reply, backing off between transient
// failures. Returns true once a send succeeds; false on exhaustion or a
// fatal classification.
func (d *Dispatcher) Dispatch(ctx context.Context, conv types.ConversationID, text string) bool {
	for attempt := 0; attempt < d.policy.MaxAttempts; attempt++ {
		err := d.sender.SendReply(ctx, conv, text)
		if err == nil {
			return true
		}
		if !IsTransient(err) {
			slog.Warn("reply failed with non-retryable error", "conversation", conv, "error", err)
			return false
		}
		slog.Warn("reply failed, backing off",
			"conversation", conv,
			"attempt", attempt+1,
			"max_attempts", d.policy.MaxAttempts,
			"error", err,
		)
		if attempt < d.policy.MaxAttempts-1 {
			d.policy.Sleep(d.policy.Backoff(attempt))
		}
	}
	return false
}

// MarkSeen is the best-effort compensation after an exhausted dispatch so
// the message does not stay unread on the user's side.
func (d *Dispatcher) MarkSeen(ctx context.Context, conv types.ConversationID, msg types.MessageID) {
	if err := d.sender.MarkSeen(ctx, conv, msg); err != nil {
		slog.Warn("mark seen failed", "conversation", conv, "message", msg, "error", err)
	}
}

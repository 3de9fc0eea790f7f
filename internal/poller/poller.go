// Package poller drives the fixed-interval scan over recent conversations.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/clipwatch/internal/types"
)

// Options bound the poll loop. Zero values take the defaults.
type Options struct {
	// Interval between poll cycles (default 15s).
	Interval time.Duration
	// Cooldown after a cycle-level failure (default 30s).
	Cooldown time.Duration
	// Window is the maximum conversations fetched per cycle (default 10).
	Window int
}

// Processor handles one conversation. Errors are isolated per conversation.
type Processor interface {
	ProcessConversation(ctx context.Context, conv *types.Conversation) error
}

// Poller fetches a bounded window of conversations each cycle and feeds
// them sequentially to the processor. Every fault class is contained: a
// fetch failure means an empty cycle, a conversation failure skips to the
// next conversation, and a cycle failure costs one cooldown. The loop
// ends only when the context is cancelled.
type Poller struct {
	source types.InboxSource
	proc   Processor
	opts   Options
}

// New creates a Poller.
func New(source types.InboxSource, proc Processor, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Second
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}
	if opts.Window <= 0 {
		opts.Window = 10
	}
	return &Poller{source: source, proc: proc, opts: opts}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	slog.Info("poller started",
		"interval", p.opts.Interval,
		"window", p.opts.Window,
	)

	for {
		delay := p.opts.Interval
		if err := p.cycle(ctx); err != nil {
			slog.Error("poll cycle failed, cooling down", "cooldown", p.opts.Cooldown, "error", err)
			delay = p.opts.Cooldown
		}

		select {
		case <-ctx.Done():
			slog.Info("poller stopped")
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// cycle runs one fetch-and-process pass. Only a panic escaping the whole
// pass surfaces as a cycle error; everything narrower is logged and
// contained inside.
func (p *Poller) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("poll cycle panic: %v", r)
		}
	}()

	convs, fetchErr := p.source.FetchRecent(ctx, p.opts.Window)
	if fetchErr != nil {
		// Treated as zero conversations this cycle, not fatal.
		slog.Warn("conversation fetch failed", "error", fetchErr)
		return nil
	}

	for _, conv := range convs {
		if ctx.Err() != nil {
			return nil
		}
		if len(conv.Messages) == 0 {
			continue
		}
		p.processOne(ctx, conv)
	}
	return nil
}

// processOne isolates a single conversation: errors and panics are logged
// and the cycle moves on.
func (p *Poller) processOne(ctx context.Context, conv *types.Conversation) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("conversation processing panicked", "conversation", conv.ID, "panic", r)
		}
	}()

	if err := p.proc.ProcessConversation(ctx, conv); err != nil {
		slog.Error("conversation processing failed", "conversation", conv.ID, "error", err)
	}
}

// Package processor orchestrates trigger handling for one conversation:
// dedup cursor, trigger matching, media resolution, frame extraction,
// reply dispatch, and state commits.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/user/clipwatch/internal/dispatch"
	"github.com/user/clipwatch/internal/media"
	"github.com/user/clipwatch/internal/trigger"
	"github.com/user/clipwatch/internal/types"
)

// Processor handles one conversation per call. Invocations are strictly
// sequential (the poller drives them one at a time), so tracker and event
// writes never race.
type Processor struct {
	tracker    types.TrackerStore
	events     types.EventStore
	matcher    *trigger.Matcher
	extractor  types.FrameExtractor
	dispatcher *dispatch.Dispatcher
	resolver   *media.Resolver
	replyText  string
}

// New creates a Processor. replyText may contain one %s verb for the
// triggering user's name.
func New(
	tracker types.TrackerStore,
	events types.EventStore,
	matcher *trigger.Matcher,
	extractor types.FrameExtractor,
	dispatcher *dispatch.Dispatcher,
	resolver *media.Resolver,
	replyText string,
) *Processor {
	return &Processor{
		tracker:    tracker,
		events:     events,
		matcher:    matcher,
		extractor:  extractor,
		dispatcher: dispatcher,
		resolver:   resolver,
		replyText:  replyText,
	}
}

// ProcessConversation scans the conversation newest-first, stops at the
// dedup cursor, and handles at most one trigger message. The cursor
// advances to the handled message unconditionally, even when the reply
// could not be delivered.
func (p *Processor) ProcessConversation(ctx context.Context, conv *types.Conversation) error {
	cursor, haveCursor, err := p.tracker.LastReplied(ctx, conv.ID)
	if err != nil {
		return fmt.Errorf("read cursor: %w", err)
	}

	for i := range conv.Messages {
		msg := &conv.Messages[i]
		if haveCursor && msg.ID == cursor {
			// Everything at or past the cursor was handled before.
			break
		}

		words := p.matcher.Match(msg.Text)
		if len(words) == 0 {
			continue
		}

		slog.Info("trigger detected",
			"conversation", conv.ID,
			"message", msg.ID,
			"user", msg.Username,
			"words", strings.Join(words, ","),
		)
		if err := p.handleTrigger(ctx, conv, i, words); err != nil {
			return err
		}
		// One trigger per conversation per cycle.
		break
	}
	return nil
}

func (p *Processor) handleTrigger(ctx context.Context, conv *types.Conversation, idx int, words []string) error {
	msg := &conv.Messages[idx]

	bundle := types.AnalysisBundle{TriggeredWords: words}
	mediaKind := types.MediaUnknown
	hasMedia := false

	if mediaMsg, found := media.Locate(conv.Messages, idx); found {
		hasMedia = true
		mediaKind = mediaMsg.Media.Kind
		bundle.VideoURL = media.ResolveURL(mediaMsg.Media.URLs, mediaMsg.Media.Permalink)
		bundle.Caption = p.resolver.Caption(ctx, mediaMsg.Media.Caption, mediaMsg.Media.Permalink)

		paths, err := p.extractor.Extract(ctx, bundle.VideoURL, types.ScratchKeyFor(mediaMsg.ID))
		if err != nil {
			slog.Warn("frame extraction degraded",
				"conversation", conv.ID,
				"media_message", mediaMsg.ID,
				"error", err,
			)
		}
		bundle.FramePaths = paths
	} else {
		slog.Info("no media found before trigger", "conversation", conv.ID, "message", msg.ID)
	}

	sent := p.dispatcher.Dispatch(ctx, conv.ID, p.reply(msg))
	if !sent {
		slog.Warn("reply exhausted, marking seen", "conversation", conv.ID, "message", msg.ID)
		p.dispatcher.MarkSeen(ctx, conv.ID, msg.ID)
	}

	event := &types.TriggerEvent{
		MessageID:      msg.ID,
		ConversationID: conv.ID,
		UserID:         msg.UserID,
		Username:       msg.Username,
		Text:           msg.Text,
		HasMediaShare:  hasMedia,
		MediaKind:      mediaKind,
		AnalysisBundle: bundle,
		ReplySent:      sent,
		CreatedAt:      time.Now(),
	}
	if !msg.Timestamp.IsZero() {
		ts := msg.Timestamp
		event.Timestamp = &ts
	}

	inserted, err := p.events.Insert(ctx, event)
	if err != nil {
		return fmt.Errorf("persist trigger event: %w", err)
	}
	if !inserted {
		slog.Debug("trigger event already recorded", "message", msg.ID)
	}

	// Advance unconditionally so this message is never reprocessed, even
	// after a failed reply.
	if err := p.tracker.SetLastReplied(ctx, conv.ID, msg.ID); err != nil {
		return fmt.Errorf("advance cursor: %w", err)
	}
	return nil
}

func (p *Processor) reply(msg *types.Message) string {
	name := msg.Username
	if name == "" {
		name = string(msg.UserID)
	}
	if strings.Contains(p.replyText, "%s") {
		return fmt.Sprintf(p.replyText, name)
	}
	return p.replyText
}

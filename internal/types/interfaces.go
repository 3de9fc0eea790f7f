// internal/types/interfaces.go
package types

import (
	"context"
)

// TrackerStore persists the per-conversation dedup cursor.
type TrackerStore interface {
	LastReplied(ctx context.Context, id ConversationID) (MessageID, bool, error)
	SetLastReplied(ctx context.Context, id ConversationID, msg MessageID) error
}

// EventStore persists trigger event records keyed by message id.
type EventStore interface {
	// Insert writes the event if its message id is not already recorded.
	// Returns false (and no error) when the key already existed.
	Insert(ctx context.Context, event *TriggerEvent) (bool, error)
	Get(ctx context.Context, id MessageID) (*TriggerEvent, error)
	List(ctx context.Context) ([]*TriggerEvent, error)
}

// InboxSource supplies a bounded window of recent conversations each cycle.
type InboxSource interface {
	FetchRecent(ctx context.Context, limit int) ([]*Conversation, error)
}

// ReplySender delivers acknowledgement replies and the mark-seen fallback.
type ReplySender interface {
	SendReply(ctx context.Context, conv ConversationID, text string) error
	MarkSeen(ctx context.Context, conv ConversationID, msg MessageID) error
}

// FrameExtractor turns a remote video into at most a configured number of
// representative still frames. A degradable failure yields an empty slice
// together with the classified error, never a panic.
type FrameExtractor interface {
	Extract(ctx context.Context, videoURL string, key ScratchKey) ([]string, error)
}

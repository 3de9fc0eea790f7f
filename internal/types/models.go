// internal/types/models.go
package types

import (
	"time"
)

// MediaKind discriminates the media reference variants a message can carry.
type MediaKind string

const (
	MediaVideoShare MediaKind = "video_share"
	MediaClip       MediaKind = "clip"
	MediaUnknown    MediaKind = "unknown"
)

// MediaReference is a resolved view of a media attachment. It is built once
// when the message is ingested and never mutated.
type MediaReference struct {
	Kind MediaKind `json:"kind"`
	// URLs holds direct video URL candidates, best first. May be empty for
	// references that only carry a permalink.
	URLs      []string `json:"urls,omitempty"`
	Permalink string   `json:"permalink,omitempty"`
	Caption   string   `json:"caption,omitempty"`
}

// VideoURL returns the best direct video URL candidate, or "" if none.
func (r *MediaReference) VideoURL() string {
	if r == nil || len(r.URLs) == 0 {
		return ""
	}
	return r.URLs[0]
}

// HasMedia reports whether the reference points at usable media.
func (r *MediaReference) HasMedia() bool {
	return r != nil && r.Kind != MediaUnknown
}

// Message is one message in a conversation. Immutable once observed.
type Message struct {
	ID        MessageID
	UserID    UserID
	Username  string
	Text      string
	Media     *MediaReference
	Timestamp time.Time
}

// Conversation is a read-only view of a thread, messages newest first.
// Owned by the inbox source.
type Conversation struct {
	ID       ConversationID
	Messages []Message
}

// TrackerEntry records the dedup cursor for one conversation. The JSON key
// name matches the tracker files written by earlier deployments.
type TrackerEntry struct {
	LastRepliedMessageID MessageID `json:"last_replied_msg_id"`
}

// AnalysisBundle is the derived summary for one resolved trigger.
type AnalysisBundle struct {
	TriggeredWords []string `json:"triggered_words"`
	VideoURL       string   `json:"video_url,omitempty"`
	Caption        string   `json:"caption,omitempty"`
	FramePaths     []string `json:"frame_paths,omitempty"`
}

// AnalysisReady reports whether frame extraction produced any frames.
func (b *AnalysisBundle) AnalysisReady() bool {
	return b != nil && len(b.FramePaths) > 0
}

// TriggerEvent is the persisted record of one handled trigger message.
// Keyed by MessageID in the event store; written once, never overwritten.
type TriggerEvent struct {
	MessageID      MessageID      `json:"message_id"`
	ConversationID ConversationID `json:"conversation_id"`
	UserID         UserID         `json:"user_id"`
	Username       string         `json:"username"`
	Text           string         `json:"text"`
	Timestamp      *time.Time     `json:"timestamp,omitempty"`
	HasMediaShare  bool           `json:"has_media_share"`
	MediaKind      MediaKind      `json:"media_kind,omitempty"`
	AnalysisBundle
	ReplySent bool      `json:"reply_sent"`
	CreatedAt time.Time `json:"created_at"`
}

package media

import (
	"testing"

	"github.com/user/clipwatch/internal/types"
)

func msg(id string, media *types.MediaReference) types.Message {
	return types.Message{ID: types.MessageID(id), Media: media}
}

func TestLocateNearestPrecedingMedia(t *testing.T) {
	// Newest first: trigger at 0, older media at 2 and 3.
	msgs := []types.Message{
		msg("trigger", nil),
		msg("chatter", nil),
		msg("clip", &types.MediaReference{Kind: types.MediaClip, URLs: []string{"https://a/clip.mp4"}}),
		msg("share", &types.MediaReference{Kind: types.MediaVideoShare, URLs: []string{"https://a/share.mp4"}}),
	}

	found, ok := Locate(msgs, 0)
	if !ok {
		t.Fatal("expected media to be found")
	}
	if found.ID != "clip" {
		t.Errorf("expected nearest preceding media 'clip', got %q", found.ID)
	}
}

func TestLocateSkipsUnknownKind(t *testing.T) {
	msgs := []types.Message{
		msg("trigger", nil),
		msg("sticker", &types.MediaReference{Kind: types.MediaUnknown}),
		msg("share", &types.MediaReference{Kind: types.MediaVideoShare}),
	}

	found, ok := Locate(msgs, 0)
	if !ok {
		t.Fatal("expected media to be found")
	}
	if found.ID != "share" {
		t.Errorf("expected 'share', got %q", found.ID)
	}
}

func TestLocateIgnoresNewerMedia(t *testing.T) {
	// Media newer than the trigger (lower index) must not be returned.
	msgs := []types.Message{
		msg("newer-clip", &types.MediaReference{Kind: types.MediaClip}),
		msg("trigger", nil),
		msg("chatter", nil),
	}

	if _, ok := Locate(msgs, 1); ok {
		t.Error("expected no media before the trigger")
	}
}

func TestLocateTriggerIsOldest(t *testing.T) {
	msgs := []types.Message{
		msg("trigger", nil),
	}
	if _, ok := Locate(msgs, 0); ok {
		t.Error("expected no media when trigger is the oldest message")
	}
}

func TestResolveURL(t *testing.T) {
	if got := ResolveURL([]string{"", "https://a/v.mp4"}, "https://page"); got != "https://a/v.mp4" {
		t.Errorf("expected first non-empty candidate, got %q", got)
	}
	if got := ResolveURL(nil, "https://page"); got != "https://page" {
		t.Errorf("expected permalink fallback, got %q", got)
	}
	if got := ResolveURL(nil, ""); got != "" {
		t.Errorf("expected empty URL, got %q", got)
	}
}

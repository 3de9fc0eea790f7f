// internal/state/tracker_test.go
package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestTrackerStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.json")
	store := NewTrackerStore(path)
	ctx := context.Background()

	// Unset cursor
	_, ok, err := store.LastReplied(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no cursor for fresh store")
	}

	// Set and read back
	if err := store.SetLastReplied(ctx, "c1", "m42"); err != nil {
		t.Fatal(err)
	}
	msg, ok, err := store.LastReplied(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || msg != "m42" {
		t.Errorf("expected cursor m42, got %q (ok=%v)", msg, ok)
	}

	// Advance
	if err := store.SetLastReplied(ctx, "c1", "m43"); err != nil {
		t.Fatal(err)
	}
	msg, _, err = store.LastReplied(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if msg != "m43" {
		t.Errorf("expected advanced cursor m43, got %q", msg)
	}

	// Independent conversations
	if err := store.SetLastReplied(ctx, "c2", "m1"); err != nil {
		t.Fatal(err)
	}
	msg, _, err = store.LastReplied(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if msg != "m43" {
		t.Errorf("c1 cursor clobbered by c2 write: %q", msg)
	}
}

func TestTrackerStoreFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.json")
	store := NewTrackerStore(path)

	if err := store.SetLastReplied(context.Background(), "thread-9", "msg-7"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("tracker file is not valid JSON: %v", err)
	}
	if raw["thread-9"]["last_replied_msg_id"] != "msg-7" {
		t.Errorf("unexpected tracker file shape: %s", data)
	}
}

func TestLegacyFileNames(t *testing.T) {
	// Earlier deployments left these exact files behind; renaming either
	// one would orphan their cursors and event history.
	if TrackerFileName != "replied_messages_tracker.json" {
		t.Errorf("TrackerFileName = %q", TrackerFileName)
	}
	if EventsFileName != "trigger_messages.json" {
		t.Errorf("EventsFileName = %q", EventsFileName)
	}
}

func TestTrackerStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.json")
	ctx := context.Background()

	if err := NewTrackerStore(path).SetLastReplied(ctx, "c1", "m1"); err != nil {
		t.Fatal(err)
	}

	// A new store over the same file sees the cursor.
	msg, ok, err := NewTrackerStore(path).LastReplied(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || msg != "m1" {
		t.Errorf("expected persisted cursor m1, got %q (ok=%v)", msg, ok)
	}
}

// internal/state/tracker.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/clipwatch/internal/types"
)

// TrackerFileName is the tracker file written under the data dir. Earlier
// deployments wrote this exact file; keeping the name lets their cursors
// carry over.
const TrackerFileName = "replied_messages_tracker.json"

// TrackerStore is a JSON-file-backed store for per-conversation dedup
// cursors. The file holds a map of conversation id to tracker entry and is
// re-read on every access, so an external edit takes effect next cycle.
type TrackerStore struct {
	path string
	mu   sync.RWMutex
}

// NewTrackerStore creates a file-backed TrackerStore at the given file path.
func NewTrackerStore(path string) *TrackerStore {
	return &TrackerStore{path: path}
}

// Path returns the file path used by this store.
func (s *TrackerStore) Path() string {
	return s.path
}

// LastReplied returns the cursor for the conversation, if one is recorded.
func (s *TrackerStore) LastReplied(_ context.Context, id types.ConversationID) (types.MessageID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracker, err := s.load()
	if err != nil {
		return "", false, err
	}
	entry, ok := tracker[id]
	if !ok {
		return "", false, nil
	}
	return entry.LastRepliedMessageID, true, nil
}

// SetLastReplied advances the cursor for the conversation and persists
// synchronously.
func (s *TrackerStore) SetLastReplied(_ context.Context, id types.ConversationID, msg types.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracker, err := s.load()
	if err != nil {
		return err
	}
	tracker[id] = types.TrackerEntry{LastRepliedMessageID: msg}
	return s.save(tracker)
}

// All returns a copy of the full tracker map.
func (s *TrackerStore) All() (map[types.ConversationID]types.TrackerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// load reads the JSON file. Returns an empty map if the file doesn't exist.
func (s *TrackerStore) load() (map[types.ConversationID]types.TrackerEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[types.ConversationID]types.TrackerEntry), nil
		}
		return nil, fmt.Errorf("read tracker file: %w", err)
	}

	tracker := make(map[types.ConversationID]types.TrackerEntry)
	if err := json.Unmarshal(data, &tracker); err != nil {
		return nil, fmt.Errorf("unmarshal tracker: %w", err)
	}
	return tracker, nil
}

// save writes the tracker map using atomic write (temp file + rename).
func (s *TrackerStore) save(tracker map[types.ConversationID]types.TrackerEntry) error {
	data, err := json.MarshalIndent(tracker, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tracker: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create tracker dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp tracker file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp tracker file: %w", err)
	}
	return nil
}

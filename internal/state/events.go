// internal/state/events.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/user/clipwatch/internal/types"
)

// EventsFileName is the trigger event file written under the data dir,
// named after the file earlier deployments kept.
const EventsFileName = "trigger_messages.json"

// EventStore is a JSON-file-backed store for trigger event records, keyed
// by message id. Inserts are idempotent: an existing key is never
// overwritten.
type EventStore struct {
	path string
	mu   sync.RWMutex
}

// NewEventStore creates a file-backed EventStore at the given file path.
func NewEventStore(path string) *EventStore {
	return &EventStore{path: path}
}

// Path returns the file path used by this store.
func (s *EventStore) Path() string {
	return s.path
}

// Insert writes the event unless its message id is already recorded.
// Returns true if the event was written, false if the key already existed.
func (s *EventStore) Insert(_ context.Context, event *types.TriggerEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return false, err
	}
	if _, exists := events[event.MessageID]; exists {
		return false, nil
	}
	events[event.MessageID] = event
	if err := s.save(events); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the event for the given message id.
func (s *EventStore) Get(_ context.Context, id types.MessageID) (*types.TriggerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, err := s.load()
	if err != nil {
		return nil, err
	}
	event, ok := events[id]
	if !ok {
		return nil, fmt.Errorf("trigger event not found: %s", id)
	}
	return event, nil
}

// List returns all recorded events, newest first by creation time.
func (s *EventStore) List(_ context.Context) ([]*types.TriggerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]*types.TriggerEvent, 0, len(events))
	for _, event := range events {
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// load reads the JSON file. Returns an empty map if the file doesn't exist.
func (s *EventStore) load() (map[types.MessageID]*types.TriggerEvent, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[types.MessageID]*types.TriggerEvent), nil
		}
		return nil, fmt.Errorf("read events file: %w", err)
	}

	events := make(map[types.MessageID]*types.TriggerEvent)
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	return events, nil
}

// save writes the event map using atomic write (temp file + rename).
func (s *EventStore) save(events map[types.MessageID]*types.TriggerEvent) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create events dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp events file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp events file: %w", err)
	}
	return nil
}

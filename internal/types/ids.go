// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

type ConversationID string
type MessageID string
type UserID string
type ScratchKey string

// NewScratchKey returns a fresh key for a scratch/artifact directory when no
// message identifier is available (e.g. one-shot extractions from the CLI).
func NewScratchKey() ScratchKey {
	return ScratchKey(uuid.New().String())
}

// ScratchKeyFor derives the scratch/artifact directory key for a message.
// Message identifiers are stable across restarts, so re-running a trigger
// reuses the same directory.
func ScratchKeyFor(id MessageID) ScratchKey {
	if id == "" {
		return NewScratchKey()
	}
	return ScratchKey(id)
}

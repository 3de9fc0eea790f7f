// Package state provides filesystem-backed storage implementations.
package state

import "github.com/user/clipwatch/internal/types"

// Compile-time interface compliance checks.
var _ types.TrackerStore = (*TrackerStore)(nil)
var _ types.EventStore = (*EventStore)(nil)

// Package media locates and resolves media references inside conversations.
package media

import (
	"github.com/user/clipwatch/internal/types"
)

// Locate scans strictly backward from the trigger message (toward older
// messages, which follow the trigger index in newest-first order) and
// returns the first message carrying a usable media reference. Returns
// false when the trigger is the oldest message in the window or nothing
// before it has media.
//
// Users typically post a clip and then ask about it in a follow-up message,
// so the nearest preceding media is the right heuristic.
func Locate(msgs []types.Message, triggerIdx int) (types.Message, bool) {
	for i := triggerIdx + 1; i < len(msgs); i++ {
		if msgs[i].Media.HasMedia() {
			return msgs[i], true
		}
	}
	return types.Message{}, false
}

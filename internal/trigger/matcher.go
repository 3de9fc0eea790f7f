// Package trigger matches configured trigger phrases against message text.
package trigger

import (
	"strings"
)

// Matcher holds the configured trigger phrases in their configured order.
// Matching is case-insensitive substring search; a message with no text
// never matches, regardless of attachments.
type Matcher struct {
	phrases []string
}

// NewMatcher creates a Matcher. Phrases are lower-cased once up front.
func NewMatcher(phrases []string) *Matcher {
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &Matcher{phrases: lowered}
}

// Match returns the subset of configured phrases present in text,
// preserving the configured order. An empty result means no trigger.
func (m *Matcher) Match(text string) []string {
	if text == "" {
		return nil
	}
	lowered := strings.ToLower(text)
	var hits []string
	for _, p := range m.phrases {
		if strings.Contains(lowered, p) {
			hits = append(hits, p)
		}
	}
	return hits
}

// Phrases returns the configured phrase list.
func (m *Matcher) Phrases() []string {
	return m.phrases
}

// Package frames extracts representative still frames from remote videos
// using a scene-detection, face-ranking, time-sampling cascade.
package frames

import (
	"context"
	"errors"
)

// Classified failure kinds. Degradable kinds fall through to the next
// stage; the two hard kinds abort extraction with an empty frame list.
var (
	// ErrFetch marks a failed or empty video download.
	ErrFetch = errors.New("video fetch failed")
	// ErrToolUnavailable marks missing media-processing binaries.
	ErrToolUnavailable = errors.New("media tools unavailable")
	// ErrProbe marks an unknown duration; sampling falls back to the
	// fixed timestamp ladder.
	ErrProbe = errors.New("duration probe failed")
	// ErrNoScenes marks an empty scene-detection result; extraction
	// falls through to time-based sampling.
	ErrNoScenes = errors.New("no scene changes detected")
)

// Fetcher downloads a remote video to a local destination.
type Fetcher interface {
	Download(ctx context.Context, url, dest string) error
}

// MediaTools is the subprocess boundary around the media toolchain.
type MediaTools interface {
	// Available reports whether frame extraction is possible at all.
	Available() bool
	// ProbeAvailable reports whether duration probing is possible.
	ProbeAvailable() bool
	// ProbeDuration returns the media duration in seconds.
	ProbeDuration(ctx context.Context, src string) (float64, error)
	// SceneFrames writes one candidate image per detected scene change
	// into outDir and returns their paths in temporal order.
	SceneFrames(ctx context.Context, src string, threshold float64, outDir string) ([]string, error)
	// GrabFrame writes the frame at the given timestamp to dest.
	GrabFrame(ctx context.Context, src string, ts float64, dest string) error
}

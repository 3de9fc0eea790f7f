// internal/frames/extractor.go
package frames

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/user/clipwatch/internal/face"
	"github.com/user/clipwatch/internal/types"
)

// Options configures the extraction cascade. The zero value of the stage
// toggles keeps both smart stages enabled.
type Options struct {
	ScratchDir   string
	ArtifactsDir string
	// MaxFrames bounds the returned frame set (default 5).
	MaxFrames int
	// SceneThreshold is the frame-difference sensitivity (default 0.4).
	SceneThreshold        float64
	DisableSceneDetection bool
	DisableFaceRanking    bool
}

// Extractor runs the three-stage cascade: scene detection, face-ranked
// selection, time-based fallback. All failures degrade; the scratch
// directory for an invocation is removed on every exit path.
type Extractor struct {
	fetch Fetcher
	tools MediaTools
	faces *face.Counter
	opts  Options
}

var _ types.FrameExtractor = (*Extractor)(nil)

// NewExtractor wires the cascade together.
func NewExtractor(fetch Fetcher, tools MediaTools, faces *face.Counter, opts Options) *Extractor {
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = 5
	}
	if opts.SceneThreshold <= 0 {
		opts.SceneThreshold = 0.4
	}
	return &Extractor{fetch: fetch, tools: tools, faces: faces, opts: opts}
}

// Extract downloads the video and produces at most MaxFrames still frames
// in the artifacts directory under key. Degradable failures return an
// empty list with the classified error rather than aborting the caller;
// the caller owns (and later deletes) the returned artifacts.
func (e *Extractor) Extract(ctx context.Context, videoURL string, key types.ScratchKey) ([]string, error) {
	if videoURL == "" {
		return nil, fmt.Errorf("%w: no video url", ErrFetch)
	}

	scratch := filepath.Join(e.opts.ScratchDir, string(key))
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	// The downloaded video and intermediate candidates never outlive the
	// invocation.
	defer os.RemoveAll(scratch)

	src := filepath.Join(scratch, "source.mp4")
	if err := e.fetch.Download(ctx, videoURL, src); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	if !e.tools.Available() {
		return nil, ErrToolUnavailable
	}

	selected, err := e.sceneStage(ctx, src, scratch)
	if err != nil {
		if !errors.Is(err, ErrNoScenes) {
			slog.Debug("scene detection unusable, falling back", "error", err)
		}
		selected = e.timeFallback(ctx, src, scratch)
	}
	if len(selected) == 0 {
		return []string{}, nil
	}
	return e.copyOut(selected, key)
}

// sceneStage runs scene detection and face-ranked selection. ErrNoScenes
// (or a detector error) sends the caller to the time fallback.
func (e *Extractor) sceneStage(ctx context.Context, src, scratch string) ([]string, error) {
	if e.opts.DisableSceneDetection {
		return nil, ErrNoScenes
	}

	paths, err := e.tools.SceneFrames(ctx, src, e.opts.SceneThreshold, scratch)
	if err != nil {
		return nil, fmt.Errorf("scene detection: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrNoScenes
	}

	cands := make([]Candidate, 0, len(paths))
	for _, p := range paths {
		faces := 0
		if !e.opts.DisableFaceRanking {
			faces = e.faces.Count(p)
		}
		cands = append(cands, Candidate{Path: p, Faces: faces})
	}

	picked := SelectFrames(cands, e.opts.MaxFrames)
	out := make([]string, 0, len(picked))
	for _, c := range picked {
		out = append(out, c.Path)
	}
	return out, nil
}

// timeFallback samples frames at ladder timestamps. Individual grab
// failures skip that timestamp only.
func (e *Extractor) timeFallback(ctx context.Context, src, scratch string) []string {
	duration := 0.0
	if e.tools.ProbeAvailable() {
		d, err := e.tools.ProbeDuration(ctx, src)
		if err != nil {
			slog.Debug("duration probe failed, using fixed ladder", "error", err)
		} else {
			duration = d
		}
	}

	var out []string
	for i, ts := range FallbackTimestamps(duration, e.opts.MaxFrames) {
		dest := filepath.Join(scratch, fmt.Sprintf("sample_%02d.jpg", i))
		if err := e.tools.GrabFrame(ctx, src, ts, dest); err != nil {
			slog.Debug("frame grab failed", "ts", ts, "error", err)
			continue
		}
		out = append(out, dest)
	}
	return out
}

// copyOut moves the selected scratch frames into the retained artifacts
// directory for the key.
func (e *Extractor) copyOut(selected []string, key types.ScratchKey) ([]string, error) {
	dir := filepath.Join(e.opts.ArtifactsDir, string(key))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts dir: %w", err)
	}

	out := make([]string, 0, len(selected))
	for i, src := range selected {
		dest := filepath.Join(dir, fmt.Sprintf("frame_%02d.jpg", i))
		if err := copyFile(src, dest); err != nil {
			slog.Warn("copy frame failed", "src", src, "error", err)
			continue
		}
		out = append(out, dest)
	}
	return out, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
	}
	return err
}

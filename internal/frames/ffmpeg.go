// internal/frames/ffmpeg.go
package frames

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FFmpegTools invokes ffmpeg/ffprobe as subprocesses with bounded
// timeouts. Missing binaries are discovered once at construction.
type FFmpegTools struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// LookupTools locates ffmpeg and ffprobe on PATH. Either binary may be
// absent; Available/ProbeAvailable report what was found.
func LookupTools(timeout time.Duration) *FFmpegTools {
	t := &FFmpegTools{timeout: timeout}
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		t.ffmpegPath = p
	}
	if p, err := exec.LookPath("ffprobe"); err == nil {
		t.ffprobePath = p
	}
	return t
}

// Available reports whether ffmpeg was found. Without it no frame can be
// produced at all.
func (t *FFmpegTools) Available() bool {
	return t.ffmpegPath != ""
}

// ProbeAvailable reports whether ffprobe was found.
func (t *FFmpegTools) ProbeAvailable() bool {
	return t.ffprobePath != ""
}

// ProbeDuration returns the container duration in seconds.
func (t *FFmpegTools) ProbeDuration(ctx context.Context, src string) (float64, error) {
	if t.ffprobePath == "" {
		return 0, fmt.Errorf("ffprobe not found: %w", ErrToolUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		src,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(string(output)), err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("non-positive duration %v", d)
	}
	return d, nil
}

// SceneFrames runs the frame-difference scene detector and returns the
// emitted candidate images in temporal order.
func (t *FFmpegTools) SceneFrames(ctx context.Context, src string, threshold float64, outDir string) ([]string, error) {
	if t.ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpeg not found: %w", ErrToolUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	pattern := filepath.Join(outDir, "scene_%04d.jpg")
	cmd := exec.CommandContext(ctx, t.ffmpegPath,
		"-i", src,
		"-vf", fmt.Sprintf("select='gt(scene,%g)'", threshold),
		"-vsync", "vfr",
		"-q:v", "2",
		"-y",
		pattern,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg scene detection failed: %w\noutput: %s", err, tail(output))
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "scene_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("glob scene frames: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// GrabFrame writes the single frame nearest the timestamp to dest.
func (t *FFmpegTools) GrabFrame(ctx context.Context, src string, ts float64, dest string) error {
	if t.ffmpegPath == "" {
		return fmt.Errorf("ffmpeg not found: %w", ErrToolUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.ffmpegPath,
		"-ss", strconv.FormatFloat(ts, 'f', 3, 64),
		"-i", src,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		dest,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg frame grab at %.3fs failed: %w\noutput: %s", ts, err, tail(output))
	}
	return nil
}

// tail keeps error output readable in logs; ffmpeg is chatty on stderr.
func tail(output []byte) string {
	const max = 400
	s := strings.TrimSpace(string(output))
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}

// internal/maintenance/scheduler.go
package maintenance

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic housekeeping on a cron schedule. Its only job
// today is pruning frame artifact directories past their retention window.
type Scheduler struct {
	artifactsDir string
	retention    time.Duration
	schedule     string
	cron         *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Scheduler that prunes artifactsDir on the given cron
// schedule, removing entries older than the retention window.
func New(artifactsDir, schedule string, retention time.Duration) *Scheduler {
	return &Scheduler{
		artifactsDir: artifactsDir,
		retention:    retention,
		schedule:     schedule,
		cron:         cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the prune job and starts the cron ticker.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		removed, err := s.Prune(time.Now())
		if err != nil {
			slog.Error("artifact prune failed", "error", err)
			return
		}
		if removed > 0 {
			slog.Info("pruned artifact directories", "removed", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron ticker.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Prune removes artifact subdirectories whose modification time is older
// than the retention window relative to now. Returns how many entries were
// removed. A retention of zero disables pruning.
func (s *Scheduler) Prune(now time.Time) (int, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(s.artifactsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read artifacts dir: %w", err)
	}

	cutoff := now.Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			slog.Warn("stat artifact entry failed", "entry", entry.Name(), "error", err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.artifactsDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			slog.Warn("remove artifact entry failed", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

package maintenance

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mkdirWithAge(t *testing.T, root, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPruneRemovesOldDirectories(t *testing.T) {
	dir := t.TempDir()
	old := mkdirWithAge(t, dir, "old", 100*time.Hour)
	fresh := mkdirWithAge(t, dir, "fresh", time.Hour)

	s := New(dir, "@hourly", 72*time.Hour)
	removed, err := s.Prune(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old directory should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh directory should survive")
	}
}

func TestPruneIgnoresFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stray.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	stamp := time.Now().Add(-100 * time.Hour)
	if err := os.Chtimes(file, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	s := New(dir, "@hourly", 72*time.Hour)
	removed, err := s.Prune(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if _, err := os.Stat(file); err != nil {
		t.Error("plain files should not be pruned")
	}
}

func TestPruneZeroRetentionDisabled(t *testing.T) {
	dir := t.TempDir()
	mkdirWithAge(t, dir, "ancient", 1000*time.Hour)

	s := New(dir, "@hourly", 0)
	removed, err := s.Prune(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0 with retention disabled", removed)
	}
}

func TestPruneMissingDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"), "@hourly", time.Hour)
	removed, err := s.Prune(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(t.TempDir(), "not a schedule", time.Hour)
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected error for invalid schedule")
	}
}

func TestStartAndStop(t *testing.T) {
	s := New(t.TempDir(), "@hourly", time.Hour)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	s.Stop()
}

package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestReadDaemonPIDSelf(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "clipwatch.pid")
	self := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(self)+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pid, err := readDaemonPID(pidPath)
	if err != nil {
		t.Fatal(err)
	}
	if pid != self {
		t.Errorf("pid = %d, want %d", pid, self)
	}
}

func TestReadDaemonPIDMissingFile(t *testing.T) {
	_, err := readDaemonPID(filepath.Join(t.TempDir(), "clipwatch.pid"))
	if err == nil {
		t.Fatal("expected error for missing PID file")
	}
	if !strings.Contains(err.Error(), "no running daemon") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReadDaemonPIDGarbage(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "clipwatch.pid")
	if err := os.WriteFile(pidPath, []byte("not a pid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readDaemonPID(pidPath); err == nil {
		t.Fatal("expected error for garbage PID file")
	}
}

func TestProcessAliveSelf(t *testing.T) {
	if !processAlive(os.Getpid()) {
		t.Error("own process should be alive")
	}
}

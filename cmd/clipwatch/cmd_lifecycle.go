package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd, stopCmd, restartCmd)
}

func pidFilePath() string {
	cfg := loadConfig()
	return filepath.Join(cfg.DataDir, "clipwatch.pid")
}

// readDaemonPID parses a PID file and confirms the process is still alive
// by sending signal 0.
func readDaemonPID(pidPath string) (int, error) {
	data, err := os.ReadFile(pidPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("no running daemon (PID file not found)")
		}
		return 0, fmt.Errorf("read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file content: %w", err)
	}

	if !processAlive(pid) {
		return 0, fmt.Errorf("no running daemon (process %d not found)", pid)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// signalDaemon delivers sig to the running daemon and returns its PID.
func signalDaemon(sig syscall.Signal) (int, error) {
	pid, err := readDaemonPID(pidFilePath())
	if err != nil {
		return 0, err
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, fmt.Errorf("find process %d: %w", pid, err)
	}
	if err := proc.Signal(sig); err != nil {
		return 0, fmt.Errorf("signal daemon: %w", err)
	}
	return pid, nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the daemon is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := readDaemonPID(pidFilePath())
		if err != nil {
			fmt.Fprintln(os.Stdout, "clipwatch is not running.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "clipwatch is running (PID %d).\n", pid)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	Long: `Stop sends SIGTERM. The poller exits after the conversation it is
currently processing, so shutdown can take a moment while a reply
backoff runs out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := signalDaemon(syscall.SIGTERM)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Stopping clipwatch (PID %d)...\n", pid)

		// Wait briefly so the common case reports a clean exit.
		for i := 0; i < 10; i++ {
			time.Sleep(200 * time.Millisecond)
			if !processAlive(pid) {
				fmt.Fprintln(os.Stdout, "Stopped.")
				return nil
			}
		}
		fmt.Fprintln(os.Stdout, "Still shutting down (finishing the current conversation).")
		return nil
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the running daemon in place",
	Long: `Restart sends SIGHUP. The daemon re-execs itself with the same
arguments, picking up a replaced binary or changed configuration without
a separate stop/start.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := signalDaemon(syscall.SIGHUP)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Restarting clipwatch (PID %d).\n", pid)
		return nil
	},
}

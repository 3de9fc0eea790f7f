package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/user/clipwatch/internal/dispatch"
	"github.com/user/clipwatch/internal/face"
	"github.com/user/clipwatch/internal/frames"
	"github.com/user/clipwatch/internal/maintenance"
	"github.com/user/clipwatch/internal/media"
	"github.com/user/clipwatch/internal/poller"
	"github.com/user/clipwatch/internal/processor"
	"github.com/user/clipwatch/internal/state"
	"github.com/user/clipwatch/internal/status"
	"github.com/user/clipwatch/internal/telegram"
	"github.com/user/clipwatch/internal/trigger"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the clipwatch daemon",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "clipwatch.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("no telegram token configured (set telegram.token or TELEGRAM_BOT_TOKEN)")
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	// Stores
	tracker := state.NewTrackerStore(filepath.Join(cfg.DataDir, state.TrackerFileName))
	events := state.NewEventStore(filepath.Join(cfg.DataDir, state.EventsFileName))

	// Frame extraction cascade
	toolTimeout := time.Duration(cfg.Frames.ToolTimeoutSeconds) * time.Second
	fetchTimeout := time.Duration(cfg.Frames.FetchTimeoutSeconds) * time.Second
	tools := frames.LookupTools(toolTimeout)
	if !tools.Available() {
		slog.Warn("ffmpeg not found on PATH, frame extraction will degrade")
	}

	var detector face.Detector
	if cfg.Face.CascadePath != "" {
		pigoDet, err := face.NewPigoDetector(cfg.Face.CascadePath)
		if err != nil {
			slog.Warn("face cascade unavailable", "path", cfg.Face.CascadePath, "error", err)
		} else {
			detector = pigoDet
		}
	}
	counter := face.NewCounter(detector, face.ParsePolicy(cfg.Face.UnavailablePolicy))

	artifactsDir := filepath.Join(cfg.DataDir, "frames")
	extractor := frames.NewExtractor(
		frames.NewHTTPFetcher(fetchTimeout),
		tools,
		counter,
		frames.Options{
			ScratchDir:     filepath.Join(cfg.DataDir, "scratch"),
			ArtifactsDir:   artifactsDir,
			MaxFrames:      cfg.Frames.Max,
			SceneThreshold: cfg.Frames.SceneThreshold,
		},
	)

	// Telegram adapter serves as both inbox and reply channel.
	adapter, err := telegram.New(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("create telegram adapter: %w", err)
	}

	dispatcher := dispatch.New(adapter, cfg.Reply.MaxAttempts, cfg.Reply.BackoffBase)
	proc := processor.New(
		tracker,
		events,
		trigger.NewMatcher(cfg.Triggers),
		extractor,
		dispatcher,
		media.NewResolver(),
		cfg.Reply.Text,
	)

	poll := poller.New(adapter, proc, poller.Options{
		Interval: time.Duration(cfg.Poll.IntervalSeconds) * time.Second,
		Cooldown: time.Duration(cfg.Poll.CooldownSeconds) * time.Second,
		Window:   cfg.Poll.Window,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return poll.Run(ctx)
	})

	// Artifact retention
	sched := maintenance.New(
		artifactsDir,
		cfg.Maintenance.Schedule,
		time.Duration(cfg.Frames.RetentionHours)*time.Hour,
	)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start maintenance: %w", err)
	}
	defer sched.Stop()

	// Status HTTP server
	if cfg.HTTP.Enabled {
		httpServer := &http.Server{
			Addr:    cfg.HTTP.Listen,
			Handler: status.NewServer(events, tracker),
		}
		g.Go(func() error {
			slog.Info("status server started", "listen", cfg.HTTP.Listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			httpServer.Close()
			return nil
		})
	}

	slog.Info("clipwatch started",
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"triggers", cfg.Triggers,
		"poll_interval_s", cfg.Poll.IntervalSeconds,
		"ffmpeg", tools.Available(),
		"face_detector", counter.Available(),
		"pid_file", pidPath,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sig := <-sigChan:
				if sig == syscall.SIGHUP {
					slog.Info("received SIGHUP, restarting")
					execPath, err := os.Executable()
					if err != nil {
						slog.Error("failed to get executable path", "error", err)
						continue
					}
					// Clean up PID file before re-exec
					os.Remove(pidPath)
					if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
						slog.Error("failed to re-exec", "error", err)
						if _, writeErr := writePIDFile(cfg.DataDir); writeErr != nil {
							slog.Error("failed to re-write PID file", "error", writeErr)
						}
						continue
					}
				}
				slog.Info("shutting down", "signal", sig)
				cancel()
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/clipwatch/internal/face"
	"github.com/user/clipwatch/internal/frames"
	"github.com/user/clipwatch/internal/types"
)

var extractOut string

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "output directory (default: frames dir under data dir)")
	rootCmd.AddCommand(extractCmd)
}

// extractCmd runs the frame cascade once against a URL, outside the
// daemon. Useful for tuning the scene threshold and checking the cascade
// file before pointing the bot at real conversations.
var extractCmd = &cobra.Command{
	Use:   "extract <video-url>",
	Short: "Extract frames from a video URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		artifactsDir := extractOut
		if artifactsDir == "" {
			artifactsDir = filepath.Join(cfg.DataDir, "frames")
		}

		tools := frames.LookupTools(time.Duration(cfg.Frames.ToolTimeoutSeconds) * time.Second)
		if !tools.Available() {
			return fmt.Errorf("ffmpeg not found on PATH")
		}

		var detector face.Detector
		if cfg.Face.CascadePath != "" {
			pigoDet, err := face.NewPigoDetector(cfg.Face.CascadePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Face cascade unavailable: %v\n", err)
			} else {
				detector = pigoDet
			}
		}

		extractor := frames.NewExtractor(
			frames.NewHTTPFetcher(time.Duration(cfg.Frames.FetchTimeoutSeconds)*time.Second),
			tools,
			face.NewCounter(detector, face.ParsePolicy(cfg.Face.UnavailablePolicy)),
			frames.Options{
				ScratchDir:     filepath.Join(cfg.DataDir, "scratch"),
				ArtifactsDir:   artifactsDir,
				MaxFrames:      cfg.Frames.Max,
				SceneThreshold: cfg.Frames.SceneThreshold,
			},
		)

		paths, err := extractor.Extract(context.Background(), args[0], types.NewScratchKey())
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		if len(paths) == 0 {
			fmt.Println("No frames extracted.")
			return nil
		}
		for _, p := range paths {
			fmt.Fprintln(os.Stdout, p)
		}
		return nil
	},
}

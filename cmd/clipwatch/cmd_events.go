package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/clipwatch/internal/state"
	"github.com/user/clipwatch/internal/types"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd, eventsShowCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect recorded trigger events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded trigger events, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		events := state.NewEventStore(filepath.Join(cfg.DataDir, state.EventsFileName))

		list, err := events.List(context.Background())
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No trigger events recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MESSAGE\tCONVERSATION\tUSER\tWORDS\tFRAMES\tREPLIED\tCREATED")
		for _, e := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%d\t%t\t%s\n",
				e.MessageID,
				e.ConversationID,
				e.Username,
				e.TriggeredWords,
				len(e.FramePaths),
				e.ReplySent,
				e.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <message-id>",
	Short: "Show the full record for one trigger event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		events := state.NewEventStore(filepath.Join(cfg.DataDir, state.EventsFileName))

		event, err := events.Get(context.Background(), types.MessageID(args[0]))
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(event, "", "  ")
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}

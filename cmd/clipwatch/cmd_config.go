package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/clipwatch/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the bot configuration",
	Long: `Read or change configuration keys in dotted form. Secrets are masked
when listed. The daemon reads its configuration at startup, so changes
take effect on the next start or restart.`,
	Example: `  clipwatch config list
  clipwatch config get triggers
  clipwatch config set frames.scene_threshold 0.3
  clipwatch config set face.cascade_path ~/.clipwatch/facefinder
  clipwatch config set telegram.token 123456:ABC-DEF`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration keys and values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		values, err := config.ListValues(cfg, true)
		if err != nil {
			return fmt.Errorf("list config: %w", err)
		}

		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%v\n", k, values[k])
		}
		return w.Flush()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		val, err := config.GetValue(cfgPath, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Long: `Set writes the value back to the config file. Values are decoded as
JSON when they parse as such, so numbers, booleans and lists keep their
types:

  clipwatch config set triggers '["whereclipped","cliplive"]'
  clipwatch config set http.enabled true

A running daemon keeps its old configuration until restarted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		// Reject unknown keys before touching the file.
		if _, err := config.GetValue(cfgPath, key); err != nil {
			return err
		}
		if err := config.SetValue(cfgPath, key, args[1]); err != nil {
			return err
		}

		display := args[1]
		if config.IsSecretKey(key) {
			display = "***"
		}
		fmt.Fprintf(os.Stdout, "Set %s = %s\n", key, display)
		fmt.Fprintln(os.Stdout, "Run `clipwatch restart` to apply.")
		return nil
	},
}

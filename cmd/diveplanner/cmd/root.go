// Package cmd holds the diveplanner CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var configDir string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "diveplanner",
	Short: "Plan decompression dives from the command line",
	Long: `diveplanner computes a complete dive from a descent/bottom profile and a
cylinder inventory: the ascent schedule with required deco stops, gas
switches, per-cylinder consumption and a plan summary.

Configuration is read from diveplanner.cfg.json in the config directory;
every key has a default, so running without a config file works too.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing diveplanner.cfg.json")
}

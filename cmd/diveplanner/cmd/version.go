package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("diveplanner %s (built %s)\n", Version, BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

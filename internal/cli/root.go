// Package cli provides the amasctl command-line interface: simulate,
// inspect, and serve.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "amasctl",
	Short: "Operate the Adaptive Memory & Action System engine",
	Long: `amasctl drives a local AMAS engine instance: feed it synthetic
events, inspect a user's persisted state, or run the long-lived ops
HTTP server.`,
}

// Execute runs the root command, parsing os.Args.
func Execute() error {
	return rootCmd.Execute()
}

// Package cmd implements the tilerender command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tilerender",
	Short: "Tile-scheduled ray tracer",
	Long: `tilerender renders scenes by splitting the image into tiles that a pool of
workers claims in a configurable order. Renders can be paused, resumed and
aborted from the terminal or over HTTP, and report an ETA as tiles complete.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "TOML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error, off")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "uipilot",
	Short: "uipilot drives application windows through model-planned control actions",
	Long: `uipilot runs automation sessions against a desktop: a host agent
decomposes each request into per-application sub-tasks and app agents carry
them out control by control, screenshot by screenshot.

Sessions run against a scenario file describing the available windows and
controls, which keeps runs reproducible without a live desktop.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the run configuration YAML")
}

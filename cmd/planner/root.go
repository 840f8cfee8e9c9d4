package main

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "planner",
	Short:         "Man-day capacity planning service",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workdaysCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

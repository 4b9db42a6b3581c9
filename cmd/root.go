// Package cmd provides the command-line interface of the FIFO emulator.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fifoemu",
	Short: "fifoemu drives the FIFO register handlers from a script.",
	Long: `fifoemu drives the FIFO register handlers from a script of ` +
		`register accesses. It can record the traffic to SQLite, serve ` +
		`the registers over HTTP, and decode status words.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

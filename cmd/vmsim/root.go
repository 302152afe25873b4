package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "vmsim",
	Short: "vmsim simulates a paged virtual memory subsystem with a TLB " +
		"and copy-on-write fork.",
	Long: `vmsim replays page access traces against a simulated virtual ` +
		`memory subsystem. The subsystem has a TLB, two-level page tables, ` +
		`a shared frame pool, and processes that fork copy-on-write.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

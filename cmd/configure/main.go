package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grindhq/grindd/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "grindd-configure",
		Short: "Configuration tool for the grindd daemon",
		Long:  "CLI tool for managing the blocklist, daily time limits, and data export/import",
	}

	rootCmd.AddCommand(commands.NewBlocklistCmd())
	rootCmd.AddCommand(commands.NewLimitsCmd())
	rootCmd.AddCommand(commands.NewTestCmd())
	rootCmd.AddCommand(commands.NewDataCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

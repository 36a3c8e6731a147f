package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moodcal/moodcal-api/cmd/admin/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "moodcal-admin",
		Short: "Administrative tool for the MoodCal API",
		Long:  "CLI tool for catalog imports and statistics maintenance",
	}

	rootCmd.AddCommand(commands.NewContentsCmd())
	rootCmd.AddCommand(commands.NewStatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package main provides the entry point for the study schedule CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "study_schedule",
	Short: "Hebrew-birthday study schedule builder",
	Long: `study_schedule spreads a verse corpus evenly over the days between a child's
5th and 10th Hebrew birthdays, writes the schedule as CSV and an iCalendar feed,
and assembles a resumable LaTeX study document from the text API.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

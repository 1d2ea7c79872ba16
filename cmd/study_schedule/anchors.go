package main

import (
	"fmt"
	"os"

	"github.com/jonathan/study-schedule/internal/observability"
	"github.com/jonathan/study-schedule/internal/pipeline"
	"github.com/spf13/cobra"
)

var anchorsCommand = &cobra.Command{
	Use:   "anchors",
	Short: "Print the Hebrew birth date and the 5th and 10th Hebrew birthdays",
	RunE:  runAnchors,
}

var anchorsFlags configFlags

func init() {
	anchorsFlags.register(anchorsCommand)
	rootCmd.AddCommand(anchorsCommand)
}

func runAnchors(cmd *cobra.Command, _ []string) error {
	cfg, err := anchorsFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if cfg.BirthDate == "" {
		return fmt.Errorf("--birth-date is required (via flag or config)")
	}

	anchors, err := pipeline.ComputeAnchors(cfg, nil)
	if err != nil {
		return err
	}
	observability.NewPrinter(os.Stdout).PrintAnchors(anchors)
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/jonathan/study-schedule/internal/pipeline"
	"github.com/spf13/cobra"
)

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Build the study schedule CSV and calendar feed",
	Long: `Expands the tracking sheet into verse references, spreads them over the days
from the 5th (or custom start) to the 10th Hebrew birthday and writes the
schedule CSV, the iCalendar feed, an optional Parquet copy and a hand-off
record for the document command.

Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments override config file values.`,
	RunE: runScheduleCmd,
}

var scheduleFlags configFlags

func init() {
	scheduleFlags.register(scheduleCommand)
	rootCmd.AddCommand(scheduleCommand)
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := scheduleFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if err := requireScheduleInputs(cfg.BirthDate, cfg.CorpusPath); err != nil {
		return err
	}

	_, err = pipeline.RunSchedule(context.Background(), pipeline.RunOptions{
		Config: cfg,
		Logger: newLogger(cfg),
	})
	return err
}

func requireScheduleInputs(birthDate, corpusPath string) error {
	if birthDate == "" {
		return fmt.Errorf("--birth-date is required (via flag or config)")
	}
	if corpusPath == "" {
		return fmt.Errorf("--corpus is required (via flag or config)")
	}
	return nil
}

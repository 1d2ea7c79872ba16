package main

import (
	"github.com/jonathan/study-schedule/internal/pipeline"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Build the schedule and assemble the document end-to-end",
	Long: `Runs anchors -> schedule -> document in one invocation.

Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var runFlags configFlags

func init() {
	runFlags.register(runCommand)
	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := runFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if err := requireScheduleInputs(cfg.BirthDate, cfg.CorpusPath); err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	res, err := pipeline.RunPipeline(ctx, pipeline.RunOptions{
		Config: cfg,
		Logger: newLogger(cfg),
	})
	return reportSuspension(res, err)
}

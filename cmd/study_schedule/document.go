package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/study-schedule/internal/assembly"
	"github.com/jonathan/study-schedule/internal/pipeline"
	"github.com/spf13/cobra"
)

var documentCommand = &cobra.Command{
	Use:   "document",
	Short: "Assemble the LaTeX study document from a schedule",
	Long: `Fetches the text of every scheduled reference and assembles the LaTeX study
document, checkpointing after each day. An interrupted run resumes from the
last completed day.

Without --schedule the schedule recorded by the last schedule command is used.`,
	RunE: runDocumentCmd,
}

var documentFlags configFlags

func init() {
	documentFlags.register(documentCommand)
	rootCmd.AddCommand(documentCommand)
}

func runDocumentCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := documentFlags.resolve(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	res, err := pipeline.RunDocument(ctx, pipeline.RunOptions{
		Config: cfg,
		Logger: newLogger(cfg),
	})
	return reportSuspension(res, err)
}

// interruptContext cancels on SIGINT or SIGTERM so the assembler suspends
// cleanly with its checkpoint intact.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func reportSuspension(res *pipeline.Result, err error) error {
	if err == nil {
		return nil
	}
	if res != nil && res.Document != nil && res.Document.State == assembly.StateSuspended {
		done := res.Document.ResumedFrom + res.Document.RowsProcessed
		fmt.Fprintf(os.Stderr, "Suspended after %d of %d rows; run the command again to resume.\n", done, res.Document.TotalRows)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted: %w", err)
	}
	return err
}

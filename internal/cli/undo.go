package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/renamer/pkg/journal"
	"github.com/sdejongh/renamer/pkg/models"
	"github.com/sdejongh/renamer/pkg/rename"
	"github.com/sdejongh/renamer/pkg/storage"
)

// UndoFlags holds undo command flags
type UndoFlags struct {
	Output string
}

var undoFlags UndoFlags

// NewUndoCommand creates the undo command
func NewUndoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo [batch-id]",
		Short: "Revert a rename batch",
		Long: `Move the files of a journaled batch back to their original names, last
rename first, and restore the modification times that were changed.
Without an argument the newest batch that has not been undone is reverted.
A unique prefix of the batch ID is enough.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUndo,
	}

	cmd.Flags().StringVarP(&undoFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runUndo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if undoFlags.Output != "" {
		cfg.Output.Format = undoFlags.Output
	}
	applyGlobalFlagsToConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	j, err := openJournal(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer j.Close()

	var batch *models.Batch
	if len(args) == 0 {
		batch, err = j.Latest(ctx)
		if errors.Is(err, journal.ErrBatchNotFound) {
			return fmt.Errorf("nothing to undo")
		}
	} else {
		batch, err = j.Batch(ctx, args[0])
	}
	if err != nil {
		return err
	}
	if batch.Undone() {
		return fmt.Errorf("batch %s was already undone on %s", batch.ID, batch.UndoneAt.Local().Format("2006-01-02 15:04:05"))
	}

	entries, err := j.Entries(ctx, batch.ID)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}
	if err := formatter.Start(outputWriter(cfg), "undo", len(entries)); err != nil {
		return err
	}

	backend := storage.NewLocal()
	defer backend.Close()

	executor := rename.NewExecutor(backend, j, formatter, logger)
	report, err := executor.Undo(ctx, *batch, entries)
	if err != nil {
		formatter.Error(err)
		return fmt.Errorf("undo failed: %w", err)
	}

	if err := formatter.Complete(report); err != nil {
		return err
	}

	return exitFor(report.Status)
}

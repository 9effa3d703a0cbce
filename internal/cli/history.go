package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/renamer/pkg/output"
)

// HistoryFlags holds history command flags
type HistoryFlags struct {
	Limit  int
	Output string
}

var historyFlags HistoryFlags

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [batch-id]",
		Short: "List journaled rename batches",
		Long: `Without an argument, list the most recent rename batches. With a batch ID
(or a unique prefix of one), list the renames that batch applied.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().IntVarP(&historyFlags.Limit, "limit", "n", 20, "number of batches to list (0 = all)")
	cmd.Flags().StringVarP(&historyFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if historyFlags.Output != "" {
		cfg.Output.Format = historyFlags.Output
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

	w := outputWriter(cfg)

	if len(args) == 0 {
		batches, err := j.Batches(ctx, historyFlags.Limit)
		if err != nil {
			return err
		}
		return output.WriteBatches(w, batches, cfg.Output.Format)
	}

	batch, err := j.Batch(ctx, args[0])
	if err != nil {
		return err
	}
	entries, err := j.Entries(ctx, batch.ID)
	if err != nil {
		return err
	}
	return output.WriteEntries(w, entries, cfg.Output.Format)
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdejongh/renamer/pkg/logging"
	"github.com/sdejongh/renamer/pkg/output"
	"github.com/sdejongh/renamer/pkg/rename"
	"github.com/sdejongh/renamer/pkg/storage"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Rename files",
		Long: `Scan the given files and directories, plan their new names and apply the
plan. Modification times are fixed when the metadata time wins. Applied
renames are recorded in the journal so that they can be undone.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}

	addRenameFlags(cmd)
	cmd.Flags().BoolVar(&renameFlags.DryRun, "dry-run", false, "plan and report only, don't rename")
	cmd.Flags().BoolVar(&renameFlags.NoJournal, "no-journal", false, "don't record the batch for undo")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate flags
	if err := validateRenameFlags(args); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cfg, cmd.Flags().Changed)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create logger
	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}

	backend := storage.NewLocal()
	defer backend.Close()

	plan, err := buildPlan(ctx, cfg, backend, args, formatter, logger)
	if err != nil {
		formatter.Error(err)
		return err
	}

	if renameFlags.PlanFile != "" {
		if err := output.WritePlanReport(plan, renameFlags.PlanFile, renameFlags.PlanFormat); err != nil {
			return fmt.Errorf("failed to write plan file: %w", err)
		}
	}

	// The journal is only needed when files are actually renamed
	var jr rename.Journal
	if cfg.Journal.Enabled && !renameFlags.DryRun {
		j, err := openJournal(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer j.Close()
		jr = j

		if cfg.Journal.KeepDays > 0 {
			cutoff := time.Now().AddDate(0, 0, -cfg.Journal.KeepDays)
			if _, err := j.Prune(ctx, cutoff); err != nil {
				logger.Warn(ctx, "journal prune failed", logging.Fields{"error": err.Error()})
			}
		}
	}

	if err := formatter.Start(outputWriter(cfg), "rename", len(plan.Entries)); err != nil {
		return err
	}

	executor := rename.NewExecutor(backend, jr, formatter, logger)
	report, err := executor.Execute(ctx, plan, renameFlags.DryRun)
	if err != nil {
		formatter.Error(err)
		return fmt.Errorf("rename failed: %w", err)
	}

	if err := formatter.Complete(report); err != nil {
		return err
	}

	return exitFor(report.Status)
}

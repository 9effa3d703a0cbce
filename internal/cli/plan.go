package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/renamer/pkg/logging"
	"github.com/sdejongh/renamer/pkg/output"
	"github.com/sdejongh/renamer/pkg/storage"
)

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [paths...]",
		Short: "Preview new file names",
		Long: `Scan the given files and directories, decide each file's timestamp and
show the names a run would give them. Nothing is renamed or touched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runPlan,
	}

	addRenameFlags(cmd)

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	// Only a progress bar has anything to show while scanning
	var formatter output.Formatter
	if cfg.Output.Progress && cfg.Output.Format != "json" {
		formatter = output.NewProgressFormatter()
	}

	backend := storage.NewLocal()
	defer backend.Close()

	plan, err := buildPlan(ctx, cfg, backend, args, formatter, logger)
	if err != nil {
		return err
	}
	if p, ok := formatter.(*output.ProgressFormatter); ok {
		p.Finish()
	}
	logger.Info(ctx, "plan ready", logging.Fields{"batch": plan.ID, "files": len(plan.Entries)})

	if err := output.WritePlan(outputWriter(cfg), plan, cfg.Output.Format); err != nil {
		return err
	}

	if renameFlags.PlanFile != "" {
		if err := output.WritePlanReport(plan, renameFlags.PlanFile, renameFlags.PlanFormat); err != nil {
			return fmt.Errorf("failed to write plan file: %w", err)
		}
	}

	return nil
}

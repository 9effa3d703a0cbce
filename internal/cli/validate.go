package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sdejongh/renamer/internal/platform"
	"github.com/sdejongh/renamer/pkg/config"
	"github.com/sdejongh/renamer/pkg/journal"
	"github.com/sdejongh/renamer/pkg/logging"
	"github.com/sdejongh/renamer/pkg/metadata"
	"github.com/sdejongh/renamer/pkg/models"
	"github.com/sdejongh/renamer/pkg/output"
	"github.com/sdejongh/renamer/pkg/rename"
	"github.com/sdejongh/renamer/pkg/scan"
	"github.com/sdejongh/renamer/pkg/storage"
	"github.com/sdejongh/renamer/pkg/template"
)

// ExitError carries a non-zero process exit code out of a command
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitFor returns an *ExitError for a failed or partial run, nil otherwise
func exitFor(status models.RenameStatus) error {
	if code := status.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// validateRenameFlags validates the plan/run command flags and arguments
func validateRenameFlags(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no input paths given")
	}

	for i, arg := range args {
		if err := platform.ValidatePath(arg); err != nil {
			return err
		}
		args[i] = platform.NormalizePath(arg)
	}

	for _, field := range []struct{ name, value string }{
		{"--separator", renameFlags.Separator},
		{"--people", renameFlags.People},
		{"--event", renameFlags.Event},
		{"--index-pattern", renameFlags.IndexPattern},
	} {
		if err := platform.ValidateName(field.name, field.value); err != nil {
			return err
		}
	}

	if template.ContainsSeparator(template.SampleDate(renameFlags.DatePattern)) {
		return fmt.Errorf("invalid date pattern: %q renders a path separator", renameFlags.DatePattern)
	}

	if renameFlags.Timestamp != "" {
		if _, err := metadata.ParseMode(renameFlags.Timestamp); err != nil {
			return err
		}
	}

	if renameFlags.Tolerance < 0 {
		return fmt.Errorf("invalid tolerance: %s (must not be negative)", renameFlags.Tolerance)
	}

	validOutputs := map[string]bool{"": true, "human": true, "json": true}
	if !validOutputs[renameFlags.Output] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", renameFlags.Output)
	}
	if !validOutputs[renameFlags.PlanFormat] {
		return fmt.Errorf("invalid plan format: %s (valid: human, json)", renameFlags.PlanFormat)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags.
// changed reports whether a flag was set explicitly, so that an empty
// value can clear a template section.
func applyFlagsToConfig(cfg *config.Config, changed func(name string) bool) {
	// Template sections
	if changed("separator") {
		cfg.Template.Separator = renameFlags.Separator
	}
	if changed("date-pattern") {
		cfg.Template.DatePattern = renameFlags.DatePattern
	}
	if changed("people") {
		cfg.Template.People = renameFlags.People
	}
	if changed("event") {
		cfg.Template.Event = renameFlags.Event
	}
	if changed("index-pattern") {
		cfg.Template.IndexPattern = renameFlags.IndexPattern
	}

	// Timestamp selection
	if renameFlags.Timestamp != "" {
		cfg.Metadata.Timestamp = renameFlags.Timestamp
	}
	if changed("tolerance") {
		cfg.Metadata.Tolerance = renameFlags.Tolerance
	}
	if renameFlags.Exiftool != "" {
		cfg.Metadata.Exiftool = renameFlags.Exiftool
	}

	// Input collection
	if len(renameFlags.Exclude) > 0 {
		cfg.Exclude = renameFlags.Exclude
	}
	if changed("recursive") {
		cfg.Rename.Recursive = renameFlags.Recursive
	}
	if renameFlags.NoFixTimes {
		cfg.Rename.FixTimes = false
	}

	// Parallel workers (default: 5)
	if renameFlags.Parallel > 0 {
		cfg.Performance.MaxWorkers = renameFlags.Parallel
	} else if cfg.Performance.MaxWorkers == 0 {
		cfg.Performance.MaxWorkers = 5
	}

	// Output
	if renameFlags.Output != "" {
		cfg.Output.Format = renameFlags.Output
	}
	if changed("progress") {
		cfg.Output.Progress = renameFlags.Progress
	}

	// Journal
	if renameFlags.NoJournal {
		cfg.Journal.Enabled = false
	}

	// Logging
	if renameFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = renameFlags.LogFile
	}
	if renameFlags.LogFormat != "" {
		cfg.Logging.Format = renameFlags.LogFormat
	}
	if renameFlags.LogLevel != "" {
		cfg.Logging.Level = renameFlags.LogLevel
	}

	applyGlobalFlagsToConfig(cfg)
}

// applyGlobalFlagsToConfig applies --quiet and --verbose
func applyGlobalFlagsToConfig(cfg *config.Config) {
	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Verbose mode turns logging on
	if globalFlags.Verbose {
		cfg.Logging.Enabled = true
	}
}

// createLogger creates a logger based on configuration
func createLogger(cfg *config.Config) (logging.Logger, error) {
	// If logging is disabled, return null logger
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	format := logging.ParseFormat(cfg.Logging.Format)
	level := logging.ParseLevel(cfg.Logging.Level)

	if cfg.Logging.File == "" {
		return logging.NewStreamLogger(os.Stderr, format, level), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.Logging.File,
		Format:     format,
		Level:      level,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// newExtractor builds the metadata extractor chain configured in cfg
func newExtractor(ctx context.Context, cfg *config.Config, logger logging.Logger) metadata.Extractor {
	var extractors []metadata.Extractor
	for _, name := range cfg.Metadata.Extractors {
		switch name {
		case "exif":
			extractors = append(extractors, metadata.NewExifExtractor())
		case "tag":
			extractors = append(extractors, metadata.NewTagExtractor())
		case "exiftool":
			exiftool := metadata.NewExiftoolExtractor(cfg.Metadata.Exiftool)
			if !exiftool.Available() {
				logger.Debug(ctx, "exiftool not found, skipping", logging.Fields{"binary": cfg.Metadata.Exiftool})
				continue
			}
			extractors = append(extractors, exiftool)
		}
	}
	return metadata.NewChain(logger, extractors...)
}

// newTimestampResolver builds the timestamp resolver configured in cfg
func newTimestampResolver(cfg *config.Config) (*metadata.TimestampResolver, error) {
	mode, err := metadata.ParseMode(cfg.Metadata.Timestamp)
	if err != nil {
		return nil, err
	}

	resolver := metadata.NewTimestampResolver(mode)
	resolver.Tolerance = cfg.Metadata.Tolerance
	if len(cfg.Metadata.Keys) > 0 {
		resolver.Keys = cfg.Metadata.Keys
	}
	return resolver, nil
}

// newFormatter creates the output formatter for a run.
// Progress bars replace the human formatter only.
func newFormatter(cfg *config.Config) (output.Formatter, error) {
	name := cfg.Output.Format
	if cfg.Output.Progress && (name == "" || name == "human") {
		name = "progress"
	}
	return output.New(name)
}

// outputWriter returns where command output goes
func outputWriter(cfg *config.Config) io.Writer {
	if cfg.Output.Quiet {
		return io.Discard
	}
	return os.Stdout
}

// openJournal opens the undo journal configured in cfg
func openJournal(cfg *config.Config, logger logging.Logger) (*journal.Journal, error) {
	path, err := cfg.JournalPath()
	if err != nil {
		return nil, err
	}

	j, err := journal.Open(path, logger)
	if err != nil {
		return nil, err
	}
	if err := j.CheckMigrations(); err != nil {
		j.Close()
		return nil, err
	}

	logger.Debug(context.Background(), "journal opened", logging.Fields{"path": j.Path()})
	return j, nil
}

// buildPlan collects and scans the input files and plans their new names.
// Scan progress is reported through formatter when it is not nil.
func buildPlan(ctx context.Context, cfg *config.Config, backend storage.Backend, args []string, formatter output.Formatter, logger logging.Logger) (*models.RenamePlan, error) {
	resolver, err := newTimestampResolver(cfg)
	if err != nil {
		return nil, err
	}

	opts := scan.Options{
		Recursive: cfg.Rename.Recursive,
		Exclude:   cfg.Exclude,
		Workers:   cfg.Performance.MaxWorkers,
	}
	if formatter != nil {
		opts.Progress = func(done, total int, path string) {
			formatter.Progress(output.ProgressUpdate{
				Type:        output.UpdateScanned,
				FilePath:    path,
				CurrentFile: done,
				TotalFiles:  total,
			})
		}
	}

	scanner, err := scan.NewScanner(backend, newExtractor(ctx, cfg, logger), resolver, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	paths, err := scanner.Collect(ctx, args)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "files collected", logging.Fields{"count": len(paths)})

	if formatter != nil {
		if err := formatter.Start(outputWriter(cfg), "scan", len(paths)); err != nil {
			return nil, err
		}
	}

	records, err := scanner.Scan(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	scan.SortByTimestamp(records)

	collisions := rename.NewResolver(backend, logger)
	collisions.SetMaxAttempts(cfg.Rename.MaxAttempts)
	planner := rename.NewPlanner(collisions, logger)

	plan, err := planner.Plan(ctx, records, cfg.Template)
	if err != nil {
		return nil, err
	}

	if !cfg.Rename.FixTimes {
		for i := range plan.Entries {
			plan.Entries[i].Touch = false
		}
	}

	return plan, nil
}

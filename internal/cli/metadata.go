package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdejongh/renamer/internal/platform"
	"github.com/sdejongh/renamer/pkg/output"
	"github.com/sdejongh/renamer/pkg/scan"
	"github.com/sdejongh/renamer/pkg/storage"
)

// MetadataFlags holds metadata command flags
type MetadataFlags struct {
	Timestamp string
	Exiftool  string
	Output    string
}

var metadataFlags MetadataFlags

// NewMetadataCommand creates the metadata command
func NewMetadataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata <file>",
		Short: "Show a file's metadata and chosen timestamp",
		Long: `Extract the embedded metadata of a file and show every key/value pair
together with the timestamp a rename would use for it.`,
		Args: cobra.ExactArgs(1),
		RunE: runMetadata,
	}

	cmd.Flags().StringVar(&metadataFlags.Timestamp, "timestamp", "", "timestamp source: auto, modified, metadata")
	cmd.Flags().StringVar(&metadataFlags.Exiftool, "exiftool", "", "exiftool binary")
	cmd.Flags().StringVarP(&metadataFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runMetadata(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := platform.ValidatePath(args[0]); err != nil {
		return err
	}
	path, err := filepath.Abs(platform.NormalizePath(args[0]))
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if metadataFlags.Timestamp != "" {
		cfg.Metadata.Timestamp = metadataFlags.Timestamp
	}
	if metadataFlags.Exiftool != "" {
		cfg.Metadata.Exiftool = metadataFlags.Exiftool
	}
	if metadataFlags.Output != "" {
		cfg.Output.Format = metadataFlags.Output
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

	resolver, err := newTimestampResolver(cfg)
	if err != nil {
		return err
	}

	backend := storage.NewLocal()
	defer backend.Close()

	scanner, err := scan.NewScanner(backend, newExtractor(ctx, cfg, logger), resolver, scan.Options{Workers: 1}, logger)
	if err != nil {
		return err
	}

	records, err := scanner.Scan(ctx, []string{path})
	if err != nil {
		return err
	}
	rec := records[0]

	view := output.MetadataView{
		Path:            rec.SourcePath,
		ModTime:         rec.ModTime,
		MetadataTime:    rec.MetadataTime,
		Timestamp:       rec.Timestamp,
		TimestampSource: string(rec.TimestampSource),
		Metadata:        rec.Metadata,
	}
	return output.WriteMetadata(outputWriter(cfg), view, cfg.Output.Format)
}

package output

import (
	"fmt"
	"io"
	"time"

	"github.com/sdejongh/renamer/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer     io.Writer
	phase      string
	totalFiles int
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, phase string, totalFiles int) error {
	f.writer = writer
	f.phase = phase
	f.totalFiles = totalFiles

	if writer != nil && phase == "rename" {
		fmt.Fprintf(writer, "Renaming %d files\n", totalFiles)
	}
	return nil
}

// Progress reports progress during a run
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case UpdateComplete:
		suffix := ""
		if update.Touched {
			suffix = " (time fixed)"
		}
		fmt.Fprintf(f.writer, "[%d/%d] ✓ %s -> %s%s\n",
			update.CurrentFile, f.totalFiles,
			update.FilePath, update.DestPath, suffix)

	case UpdateError:
		fmt.Fprintf(f.writer, "[%d/%d] ✗ %s: %v\n",
			update.CurrentFile, f.totalFiles,
			update.FilePath, update.Error)
	}

	return nil
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(report *models.RenameReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	writeSummary(f.writer, report)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// writeSummary prints the end-of-run summary shared by the text formatters
func writeSummary(w io.Writer, report *models.RenameReport) {
	verb := "Rename"
	if report.DryRun {
		verb = "Dry run"
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s completed in %s\n", verb, report.Duration.Round(time.Millisecond))
	if report.OperationID != "" {
		fmt.Fprintf(w, "Batch: %s\n", report.OperationID)
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Files planned:  %d\n", report.Stats.FilesPlanned)
	fmt.Fprintf(w, "  Files renamed:  %d\n", report.Stats.FilesRenamed)
	fmt.Fprintf(w, "  Times fixed:    %d\n", report.Stats.FilesTouched)
	fmt.Fprintf(w, "  Files skipped:  %d\n", report.Stats.FilesSkipped)
	fmt.Fprintf(w, "  Files errored:  %d\n", report.Stats.FilesErrored)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Status: %s\n", report.Status)

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, err := range report.Errors {
			fmt.Fprintf(w, "  %s (%s): %s\n", err.FilePath, err.Operation, err.Error)
		}
	}
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sdejongh/renamer/pkg/models"
)

// WriteBatches lists journal batches, newest first
func WriteBatches(w io.Writer, batches []models.Batch, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(batches)
	}

	if len(batches) == 0 {
		fmt.Fprintln(w, "No rename batches recorded")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-19s  %7s  %s\n", "Batch", "Date", "Renamed", "State")
	for _, b := range batches {
		state := "applied"
		if b.Undone() {
			state = "undone " + b.UndoneAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-36s  %-19s  %7d  %s\n", b.ID, b.CreatedAt.Format("2006-01-02 15:04:05"), b.Renamed, state)
	}
	return nil
}

// WriteEntries lists the renames of one batch
func WriteEntries(w io.Writer, entries []models.JournalEntry, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	for _, e := range entries {
		line := fmt.Sprintf("%4d  %s -> %s", e.Seq, e.SourcePath, filepath.Base(e.DestPath))
		if e.Touched {
			line += fmt.Sprintf("  (time %s -> %s)", e.OldModTime.Format(time.DateTime), e.NewModTime.Format(time.DateTime))
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

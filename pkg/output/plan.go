package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sdejongh/renamer/pkg/models"
)

// WritePlanReport writes a plan preview to a file
// Format can be "human" or "json"
func WritePlanReport(plan *models.RenamePlan, path string, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	defer file.Close()

	return WritePlan(file, plan, format)
}

// WritePlan writes a plan preview in the given format
func WritePlan(w io.Writer, plan *models.RenamePlan, format string) error {
	switch format {
	case "json":
		return writePlanJSON(w, plan)
	default: // "human"
		return writePlanHuman(w, plan)
	}
}

// writePlanHuman prints aligned From / To / Date columns
func writePlanHuman(w io.Writer, plan *models.RenamePlan) error {
	const maxNameWidth = 50

	fromWidth, toWidth := len("From"), len("To")
	for _, e := range plan.Entries {
		fromWidth = max(fromWidth, min(maxNameWidth, utf8.RuneCountInString(filepath.Base(e.SourcePath))))
		toWidth = max(toWidth, min(maxNameWidth, utf8.RuneCountInString(destLabel(e))))
	}

	fmt.Fprintf(w, "%-*s  %-*s  %-19s  %s\n", fromWidth, "From", toWidth, "To", "Date", "Source")
	fmt.Fprintf(w, "%s  %s  %s  %s\n", dashes(fromWidth), dashes(toWidth), dashes(19), dashes(8))

	renames, touches := 0, 0
	for _, e := range plan.Entries {
		source := string(e.TimestampSource)
		if e.Touch {
			source += " *"
			touches++
		}
		if e.Renames() {
			renames++
		}
		fmt.Fprintf(w, "%-*s  %-*s  %-19s  %s\n",
			fromWidth, truncateName(filepath.Base(e.SourcePath), maxNameWidth),
			toWidth, truncateName(destLabel(e), maxNameWidth),
			e.Timestamp.Format("2006-01-02 15:04:05"),
			source)
	}

	fmt.Fprintf(w, "\n%d files, %d to rename, %d modification times to fix (*)\n", len(plan.Entries), renames, touches)
	return nil
}

// writePlanJSON writes the plan in JSON format
func writePlanJSON(w io.Writer, plan *models.RenamePlan) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(plan)
}

func destLabel(e models.PlannedRename) string {
	if !e.Renames() {
		return "(unchanged)"
	}
	return filepath.Base(e.DestPath)
}

func truncateName(name string, width int) string {
	runes := []rune(name)
	if len(runes) > width {
		return "..." + string(runes[len(runes)-width+3:])
	}
	return name
}

func dashes(n int) string {
	return strings.Repeat("-", n)
}

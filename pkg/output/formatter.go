package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/renamer/pkg/models"
)

// Progress update types
const (
	UpdateScanned  = "file_scanned"
	UpdateComplete = "file_complete"
	UpdateSkip     = "file_skip"
	UpdateError    = "file_error"
)

// ProgressUpdate represents a progress notification during a run
type ProgressUpdate struct {
	Type        string
	FilePath    string
	DestPath    string
	Touched     bool
	CurrentFile int
	TotalFiles  int
	Error       error
}

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters
type Formatter interface {
	// Start begins a phase ("scan" or "rename") over totalFiles files.
	// It may be called once per phase.
	Start(writer io.Writer, phase string, totalFiles int) error

	// Progress reports progress within the current phase
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays summary
	Complete(report *models.RenameReport) error

	// Error reports an error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter registered under name
func New(name string) (Formatter, error) {
	switch name {
	case "human", "":
		return NewHumanFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "progress":
		return NewProgressFormatter(), nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

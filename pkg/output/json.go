package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/renamer/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer io.Writer
	events []JSONEvent
}

// JSONEvent represents a single event recorded during a run
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONReportData represents the final report data
type JSONReportData struct {
	BatchID    string              `json:"batch_id,omitempty"`
	DryRun     bool                `json:"dry_run"`
	Status     string              `json:"status"`
	Duration   string              `json:"duration"`
	DurationMs int64               `json:"duration_ms"`
	Stats      JSONStatsData       `json:"stats"`
	Operations []JSONOperationData `json:"operations,omitempty"`
	Errors     []JSONErrorData     `json:"errors,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	FilesPlanned int `json:"files_planned"`
	FilesRenamed int `json:"files_renamed"`
	FilesTouched int `json:"files_touched"`
	FilesSkipped int `json:"files_skipped"`
	FilesErrored int `json:"files_errored"`
}

// JSONOperationData represents one executed plan entry
type JSONOperationData struct {
	Source  string `json:"source"`
	Dest    string `json:"dest,omitempty"`
	Action  string `json:"action"`
	Reason  string `json:"reason,omitempty"`
	Touched bool   `json:"touched,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path      string `json:"path"`
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{
		events: make([]JSONEvent, 0),
	}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, phase string, totalFiles int) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	f.events = append(f.events, JSONEvent{
		Timestamp: time.Now(),
		Type:      "start",
		Data:      map[string]any{"phase": phase, "total_files": totalFiles},
	})
	return nil
}

// Progress does not print anything to keep the output parseable
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the report as a single JSON document
func (f *JSONFormatter) Complete(report *models.RenameReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	reportData := JSONReportData{
		BatchID:    report.OperationID,
		DryRun:     report.DryRun,
		Status:     string(report.Status),
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			FilesPlanned: report.Stats.FilesPlanned,
			FilesRenamed: report.Stats.FilesRenamed,
			FilesTouched: report.Stats.FilesTouched,
			FilesSkipped: report.Stats.FilesSkipped,
			FilesErrored: report.Stats.FilesErrored,
		},
	}

	for _, op := range report.Operations {
		data := JSONOperationData{
			Source:  op.Entry.SourcePath,
			Dest:    op.Entry.DestPath,
			Action:  string(op.Action),
			Reason:  op.Reason,
			Touched: op.Touched,
		}
		if op.Error != nil {
			data.Error = op.Error.Error()
		}
		reportData.Operations = append(reportData.Operations, data)
	}

	for _, err := range report.Errors {
		reportData.Errors = append(reportData.Errors, JSONErrorData{
			Path:      err.FilePath,
			Operation: string(err.Operation),
			Error:     err.Error,
		})
	}

	f.events = append(f.events, JSONEvent{
		Timestamp: time.Now(),
		Type:      "complete",
		Data:      reportData,
	})

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reportData)
}

// Error records an error
func (f *JSONFormatter) Error(err error) error {
	f.events = append(f.events, JSONEvent{
		Timestamp: time.Now(),
		Type:      "error",
		Data: map[string]string{
			"error": err.Error(),
		},
	})
	return nil
}

// Events returns the events recorded so far
func (f *JSONFormatter) Events() []JSONEvent {
	return f.events
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

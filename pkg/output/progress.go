package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/renamer/pkg/models"
)

const progressTemplate = `{{string . "phase"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{etime . }}`

// ProgressFormatter draws one progress bar per phase
type ProgressFormatter struct {
	mu        sync.Mutex
	writer    io.Writer
	bar       *pb.ProgressBar
	startTime time.Time
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start finishes the bar of the previous phase, if any, and starts a new one
func (f *ProgressFormatter) Start(writer io.Writer, phase string, totalFiles int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	if f.startTime.IsZero() {
		f.startTime = time.Now()
	}

	if f.bar != nil {
		f.bar.Finish()
	}

	isTerminal := false
	width := 100
	if file, ok := writer.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		isTerminal = true
		if w, _, err := term.GetSize(int(file.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	bar := pb.New(totalFiles)
	bar.SetTemplateString(progressTemplate)
	bar.SetWriter(writer)
	bar.SetWidth(width)
	bar.Set("phase", fmt.Sprintf("%-7s", phase+":"))
	bar.Set(pb.Terminal, isTerminal)
	f.bar = bar.Start()

	return nil
}

// Progress advances the bar when a file is done
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return nil
	}

	switch update.Type {
	case UpdateScanned, UpdateComplete, UpdateSkip, UpdateError:
		f.bar.Increment()
	}
	return nil
}

// Finish ends the current bar without printing a summary
func (f *ProgressFormatter) Finish() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
}

// Complete finishes the bar and displays the summary
func (f *ProgressFormatter) Complete(report *models.RenameReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	if f.writer == nil {
		f.writer = io.Discard
	}

	writeSummary(f.writer, report)
	if !f.startTime.IsZero() {
		fmt.Fprintf(f.writer, "Elapsed: %s\n", formatDuration(time.Since(f.startTime)))
	}
	return nil
}

// Error reports an error below the bar
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer != nil {
		fmt.Fprintf(f.writer, "\nError: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

package rename

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sdejongh/renamer/pkg/logging"
	"github.com/sdejongh/renamer/pkg/models"
	"github.com/sdejongh/renamer/pkg/output"
	"github.com/sdejongh/renamer/pkg/storage"
)

// Journal records applied batches so they can be undone
type Journal interface {
	Begin(ctx context.Context, batch models.Batch) error
	Record(ctx context.Context, entry models.JournalEntry) error
	MarkUndone(ctx context.Context, batchID string, at time.Time) error
}

// Executor applies rename plans to a storage backend.
// Entries are applied one at a time in plan order.
type Executor struct {
	backend   storage.Backend
	journal   Journal
	formatter output.Formatter
	logger    logging.Logger
	now       func() time.Time
}

// NewExecutor creates an executor. journal and formatter may be nil.
func NewExecutor(backend storage.Backend, journal Journal, formatter output.Formatter, logger logging.Logger) *Executor {
	return &Executor{
		backend:   backend,
		journal:   journal,
		formatter: formatter,
		logger:    logging.OrNull(logger),
		now:       time.Now,
	}
}

// Execute applies plan. With dryRun set nothing is changed and the report
// describes what would happen. Per-file failures are collected in the
// report; the returned error is only set when the run could not proceed.
func (e *Executor) Execute(ctx context.Context, plan *models.RenamePlan, dryRun bool) (*models.RenameReport, error) {
	report := &models.RenameReport{
		OperationID: plan.ID,
		DryRun:      dryRun,
		StartTime:   e.now(),
		Stats:       models.Statistics{FilesPlanned: len(plan.Entries)},
	}

	logger := e.logger.WithFields(logging.Fields{"batch": plan.ID, "dry_run": dryRun})
	logger.Info(ctx, "starting rename", logging.Fields{"files": len(plan.Entries)})

	begun := false
	seq := 0

	for i, entry := range plan.Entries {
		if ctx.Err() != nil {
			report.Status = models.StatusCancelled
			break
		}

		op := models.RenameOperation{Entry: entry}
		fileIndex := i + 1

		if entry.IsNoop() {
			op.Action = models.ActionSkip
			op.Reason = "name unchanged"
			if entry.DestPath == "" {
				op.Reason = "empty name"
			}
			report.Stats.FilesSkipped++
			report.Operations = append(report.Operations, op)
			e.progress(output.ProgressUpdate{Type: output.UpdateSkip, FilePath: entry.SourcePath, CurrentFile: fileIndex})
			continue
		}

		op.Action = models.ActionTouch
		if entry.Renames() {
			op.Action = models.ActionRename
		}

		if dryRun {
			op.Touched = entry.Touch
			e.count(report, &op)
			report.Operations = append(report.Operations, op)
			e.progress(output.ProgressUpdate{Type: output.UpdateComplete, FilePath: entry.SourcePath, DestPath: entry.DestPath, Touched: op.Touched, CurrentFile: fileIndex})
			continue
		}

		if !begun && e.journal != nil {
			batch := models.Batch{ID: plan.ID, CreatedAt: plan.CreatedAt, Template: plan.Template}
			if err := e.journal.Begin(ctx, batch); err != nil {
				report.Status = models.StatusFailed
				e.finish(report)
				return report, fmt.Errorf("failed to start journal batch: %w", err)
			}
			begun = true
		}

		startTime := time.Now()
		err := e.apply(ctx, &op)
		op.Duration = time.Since(startTime)

		if err != nil {
			op.Error = err
			report.Stats.FilesErrored++
			report.Errors = append(report.Errors, models.RenameError{
				FilePath:  entry.SourcePath,
				Operation: op.Action,
				Error:     err.Error(),
				Timestamp: e.now(),
			})
			logger.Error(ctx, "rename failed", err, logging.Fields{"path": entry.SourcePath, "dest": entry.DestPath})
			e.progress(output.ProgressUpdate{Type: output.UpdateError, FilePath: entry.SourcePath, CurrentFile: fileIndex, Error: err})
		} else {
			e.count(report, &op)
			seq++
			e.record(ctx, plan.ID, seq, &op)
			logger.Debug(ctx, "renamed", logging.Fields{"path": entry.SourcePath, "dest": entry.DestPath, "touched": op.Touched})
			e.progress(output.ProgressUpdate{Type: output.UpdateComplete, FilePath: entry.SourcePath, DestPath: entry.DestPath, Touched: op.Touched, CurrentFile: fileIndex})
		}

		report.Operations = append(report.Operations, op)
	}

	e.finish(report)
	logger.Info(ctx, "rename finished", logging.Fields{
		"status":  string(report.Status),
		"renamed": report.Stats.FilesRenamed,
		"touched": report.Stats.FilesTouched,
		"errors":  report.Stats.FilesErrored,
	})
	return report, nil
}

// apply fixes the modification time, then renames
func (e *Executor) apply(ctx context.Context, op *models.RenameOperation) error {
	entry := op.Entry

	if entry.Touch {
		if err := e.backend.Chtimes(ctx, entry.SourcePath, entry.Timestamp); err != nil {
			return fmt.Errorf("failed to set modification time: %w", err)
		}
		op.Touched = true
	}

	if !entry.Renames() {
		return nil
	}

	if err := e.backend.Rename(ctx, entry.SourcePath, entry.DestPath); err != nil {
		if op.Touched {
			// Leave the file as it was found
			if rerr := e.backend.Chtimes(ctx, entry.SourcePath, entry.ModTime); rerr == nil {
				op.Touched = false
			}
		}
		return err
	}
	return nil
}

func (e *Executor) record(ctx context.Context, batchID string, seq int, op *models.RenameOperation) {
	if e.journal == nil {
		return
	}

	dest := op.Entry.DestPath
	if !op.Entry.Renames() {
		dest = op.Entry.SourcePath
	}

	entry := models.JournalEntry{
		BatchID:    batchID,
		Seq:        seq,
		SourcePath: op.Entry.SourcePath,
		DestPath:   dest,
		Touched:    op.Touched,
		OldModTime: op.Entry.ModTime,
		NewModTime: op.Entry.Timestamp,
		AppliedAt:  e.now(),
	}
	if err := e.journal.Record(ctx, entry); err != nil {
		e.logger.Error(ctx, "failed to journal rename", err, logging.Fields{"path": op.Entry.SourcePath})
	}
}

// Undo reverts a journaled batch, last rename first. Entries whose file is
// already back at its original path are skipped, so an interrupted undo can
// be repeated. The batch is marked undone only when every entry succeeded.
func (e *Executor) Undo(ctx context.Context, batch models.Batch, entries []models.JournalEntry) (*models.RenameReport, error) {
	report := &models.RenameReport{
		OperationID: batch.ID,
		StartTime:   e.now(),
		Stats:       models.Statistics{FilesPlanned: len(entries)},
	}

	logger := e.logger.WithFields(logging.Fields{"batch": batch.ID})
	logger.Info(ctx, "starting undo", logging.Fields{"files": len(entries)})

	for i := len(entries) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			report.Status = models.StatusCancelled
			break
		}

		je := entries[i]
		op := models.RenameOperation{
			Entry: models.PlannedRename{
				SourcePath: je.DestPath,
				DestPath:   je.SourcePath,
				Timestamp:  je.OldModTime,
				Touch:      je.Touched,
				ModTime:    je.NewModTime,
			},
			Action: models.ActionRestore,
		}
		fileIndex := len(entries) - i

		err := e.restore(ctx, &op, je)
		if err != nil {
			op.Error = err
			report.Stats.FilesErrored++
			report.Errors = append(report.Errors, models.RenameError{
				FilePath:  je.DestPath,
				Operation: models.ActionRestore,
				Error:     err.Error(),
				Timestamp: e.now(),
			})
			logger.Error(ctx, "restore failed", err, logging.Fields{"path": je.DestPath, "original": je.SourcePath})
			e.progress(output.ProgressUpdate{Type: output.UpdateError, FilePath: je.DestPath, CurrentFile: fileIndex, Error: err})
		} else if op.Action == models.ActionSkip {
			report.Stats.FilesSkipped++
			e.progress(output.ProgressUpdate{Type: output.UpdateSkip, FilePath: je.DestPath, CurrentFile: fileIndex})
		} else {
			e.count(report, &op)
			e.progress(output.ProgressUpdate{Type: output.UpdateComplete, FilePath: je.DestPath, DestPath: je.SourcePath, Touched: op.Touched, CurrentFile: fileIndex})
		}
		report.Operations = append(report.Operations, op)
	}

	e.finish(report)

	if report.Status == models.StatusSuccess && e.journal != nil {
		if err := e.journal.MarkUndone(ctx, batch.ID, e.now()); err != nil {
			return report, fmt.Errorf("failed to mark batch undone: %w", err)
		}
	}

	logger.Info(ctx, "undo finished", logging.Fields{"status": string(report.Status)})
	return report, nil
}

func (e *Executor) restore(ctx context.Context, op *models.RenameOperation, je models.JournalEntry) error {
	if je.DestPath != je.SourcePath {
		destExists, err := e.backend.Exists(ctx, je.DestPath)
		if err != nil {
			return err
		}
		srcExists, err := e.backend.Exists(ctx, je.SourcePath)
		if err != nil {
			return err
		}

		switch {
		case !destExists && srcExists:
			op.Action = models.ActionSkip
			op.Reason = "already restored"
			return nil
		case !destExists:
			return fmt.Errorf("renamed file %s: %w", je.DestPath, os.ErrNotExist)
		}

		if err := e.backend.Rename(ctx, je.DestPath, je.SourcePath); err != nil {
			if errors.Is(err, storage.ErrDestinationExists) {
				return fmt.Errorf("original name %s is taken: %w", je.SourcePath, err)
			}
			return err
		}
	}

	if je.Touched {
		if err := e.backend.Chtimes(ctx, je.SourcePath, je.OldModTime); err != nil {
			return fmt.Errorf("failed to restore modification time: %w", err)
		}
		op.Touched = true
	}
	return nil
}

// count updates the statistics for a successful operation
func (e *Executor) count(report *models.RenameReport, op *models.RenameOperation) {
	if op.Entry.Renames() {
		report.Stats.FilesRenamed++
	}
	if op.Touched {
		report.Stats.FilesTouched++
	}
}

// finish sets timing and, unless already decided, the status
func (e *Executor) finish(report *models.RenameReport) {
	report.EndTime = e.now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	if report.Status != "" {
		return
	}
	switch {
	case report.Stats.FilesErrored == 0:
		report.Status = models.StatusSuccess
	case report.Stats.FilesRenamed+report.Stats.FilesTouched == 0:
		report.Status = models.StatusFailed
	default:
		report.Status = models.StatusPartial
	}
}

func (e *Executor) progress(update output.ProgressUpdate) {
	if e.formatter != nil {
		e.formatter.Progress(update)
	}
}

package models

import (
	"time"
)

// Action represents what was done with a file
type Action string

const (
	// ActionRename renames the file
	ActionRename Action = "rename"
	// ActionTouch sets the file's modification time
	ActionTouch Action = "touch"
	// ActionSkip leaves the file alone
	ActionSkip Action = "skip"
	// ActionRestore moves a file back to its original name
	ActionRestore Action = "restore"
)

// RenameOperation records the outcome of one plan entry
type RenameOperation struct {
	Entry    PlannedRename
	Action   Action
	Reason   string
	Touched  bool
	Error    error
	Duration time.Duration
}

// RenameReport represents the results of a rename run
type RenameReport struct {
	// Operation details
	OperationID string
	DryRun      bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// File operations performed
	Operations []RenameOperation

	// Errors encountered
	Errors []RenameError

	// Overall status
	Status RenameStatus
}

// Statistics holds rename run metrics
type Statistics struct {
	FilesPlanned int
	FilesRenamed int
	FilesTouched int
	FilesSkipped int
	FilesErrored int
}

// RenameStatus represents the overall result
type RenameStatus string

const (
	// StatusSuccess indicates all operations completed successfully
	StatusSuccess RenameStatus = "success"
	// StatusPartial indicates some operations failed
	StatusPartial RenameStatus = "partial"
	// StatusFailed indicates the run failed
	StatusFailed RenameStatus = "failed"
	// StatusCancelled indicates the run was cancelled
	StatusCancelled RenameStatus = "cancelled"
)

// RenameError represents an error during execution
type RenameError struct {
	FilePath  string
	Operation Action
	Error     string
	Timestamp time.Time
}

// ExitCode returns the appropriate exit code for the run status
func (s RenameStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}

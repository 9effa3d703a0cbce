package models

import "fmt"

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// PlanningErrorKind categorizes planning failures
type PlanningErrorKind string

const (
	// ErrRetriesExhausted means collision resolution hit its retry ceiling
	ErrRetriesExhausted PlanningErrorKind = "retries-exhausted"
)

// PlanningError is returned when a destination could not be planned
type PlanningError struct {
	Kind     PlanningErrorKind
	Path     string
	Attempts int
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("planning %s: %s after %d attempts", e.Path, e.Kind, e.Attempts)
}

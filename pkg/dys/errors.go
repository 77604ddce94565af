// Package dys implements the dyslexia-accessibility adaptation engine:
// French text classification (syllables, silent letters), run-preserving
// paragraph rewriting, digit coloring, base formatting, and page geometry,
// applied in a fixed order over a DOCX document.
package dys

import (
	"fmt"
)

// DocumentError reports a failure opening, parsing, or saving a document.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{Operation: operation, Path: path, Cause: cause}
}

// StageError reports a pipeline-stage failure. The stage name is what the
// user sees, so failures read "stage 'digit coloring' failed: ..." rather
// than a bare cause.
type StageError struct {
	Stage string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage '%s' failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// NewStageError creates a new stage error
func NewStageError(stage string, cause error) error {
	return &StageError{Stage: stage, Cause: cause}
}

// InvariantError reports a programming defect detected at runtime, such as
// the rewriter receiving an attribute slice that does not match the
// paragraph text. These are meant to be caught by tests, never handled.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Message)
}

// NewInvariantError creates a new invariant error
func NewInvariantError(format string, args ...interface{}) error {
	return &InvariantError{Message: fmt.Sprintf(format, args...)}
}

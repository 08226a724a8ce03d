package summarize

import (
	"errors"
	"fmt"
)

// Kind classifies which pipeline stage failed
type Kind string

const (
	KindTranscription Kind = "TranscriptionError"
	KindSelection     Kind = "SelectionError"
	KindReasoning     Kind = "ReasoningServiceError"
	KindAssembly      Kind = "AssemblyError"
)

// StageError carries the failing stage alongside the cause
type StageError struct {
	Kind Kind
	Err  error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErrorf(kind Kind, format string, args ...interface{}) *StageError {
	return &StageError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the stage kind carried by err, if any
func KindOf(err error) (Kind, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}

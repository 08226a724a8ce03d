package entities

import "errors"

// Domain errors
var (
	// Transcript errors
	ErrMalformedTranscript = errors.New("malformed transcript")
	ErrEmptyTranscript     = errors.New("transcript has no segments")

	// Job errors
	ErrJobNotFound       = errors.New("job not found")
	ErrJobAlreadyExists  = errors.New("job already exists")
	ErrJobTerminal       = errors.New("job is in a terminal state")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrProgressDecreased = errors.New("job progress cannot decrease")
	ErrResultNotReady    = errors.New("job result not ready")
)

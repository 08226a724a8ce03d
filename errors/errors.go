package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the raw cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTERNAL,
		Message:   "Internal server error",
		Timestamp: time.Now(),
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_ARGUMENT,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Job Errors
func ErrJobNotFound(jobID string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_JOB_NOT_FOUND,
		Message:   "Job not found",
		Timestamp: time.Now(),
	}.WithDetail("job_id", jobID)
}

func ErrResultNotReady(jobID, status string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_JOB_RESULT_NOT_READY,
		Message:   "Result not available yet",
		Timestamp: time.Now(),
	}.WithDetail("job_id", jobID).
		WithDetail("status", status)
}

func ErrJobSubmitFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_JOB_SUBMIT_FAILED,
		Message:   "Failed to submit summarization job",
		Timestamp: time.Now(),
	}
}

// Video Errors
func ErrUnsupportedFormat(filename string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_VIDEO_UNSUPPORTED_FORMAT,
		Message:   "Invalid file type",
		Timestamp: time.Now(),
	}.WithDetail("filename", filename)
}

func ErrFileTooLarge(limitMB int) AppError {
	return AppError{
		HTTPCode:  http.StatusRequestEntityTooLarge,
		Code:      ErrorCode_VIDEO_TOO_LARGE,
		Message:   "File exceeds upload limit",
		Timestamp: time.Now(),
	}.WithDetail("limit_mb", fmt.Sprintf("%d", limitMB))
}

func ErrMissingFile() AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_VIDEO_MISSING_FILE,
		Message:   "No file selected",
		Timestamp: time.Now(),
	}
}

func ErrVideoNotFound(path string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_VIDEO_NOT_FOUND,
		Message:   "Video file not found",
		Timestamp: time.Now(),
	}.WithDetail("path", path)
}

func ErrVideoProbeFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusUnprocessableEntity,
		Code:      ErrorCode_VIDEO_PROBE_FAILED,
		Message:   "Could not read video information",
		Timestamp: time.Now(),
	}
}

// Pipeline Errors
func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_PIPELINE_TRANSCRIPTION_FAILED,
		Message:   "Audio transcription failed",
		Timestamp: time.Now(),
	}
}

func ErrSelectionFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusUnprocessableEntity,
		Code:      ErrorCode_PIPELINE_SELECTION_FAILED,
		Message:   "Segment selection failed",
		Timestamp: time.Now(),
	}
}

func ErrAssemblyFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_PIPELINE_ASSEMBLY_FAILED,
		Message:   "Summary video assembly failed",
		Timestamp: time.Now(),
	}
}

func ErrAIServiceUnavailable(service string) AppError {
	return AppError{
		HTTPCode:  http.StatusServiceUnavailable,
		Code:      ErrorCode_AI_SERVICE_UNAVAILABLE,
		Message:   "AI service temporarily unavailable",
		Timestamp: time.Now(),
	}.WithDetail("service", service)
}

// Integration Errors
func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTEGRATION_STORAGE_FAILED,
		Message:   fmt.Sprintf("Storage operation failed: %s", operation),
		Timestamp: time.Now(),
	}
}

func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTEGRATION_CACHE_FAILED,
		Message:   fmt.Sprintf("Cache operation failed: %s", operation),
		Timestamp: time.Now(),
	}
}

// Database Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_DB_QUERY_FAILED,
		Message:   "Database query failed",
		Timestamp: time.Now(),
	}.WithDetail("query", query)
}

// Custom Errors
func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_PAYLOAD,
		Message:   "Invalid payload",
		Timestamp: time.Now(),
	}
}

package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_ErrorFormat(t *testing.T) {
	err := ErrTranscriptionFailed(fmt.Errorf("ffmpeg exited 1"))
	want := "[PIPELINE_TRANSCRIPTION_FAILED] Audio transcription failed: ffmpeg exited 1"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}

	nf := ErrJobNotFound("abc")
	if nf.Error() != "[JOB_NOT_FOUND] Job not found" {
		t.Fatalf("unexpected message %q", nf.Error())
	}
	if nf.HTTPCode != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", nf.HTTPCode)
	}
	if nf.Details["job_id"] != "abc" {
		t.Fatalf("missing job_id detail: %v", nf.Details)
	}
}

func TestAppError_AsAndUnwrap(t *testing.T) {
	cause := stdErrors.New("disk full")
	wrapped := fmt.Errorf("publish: %w", ErrStorageFailed("put", cause))

	var appErr AppError
	if !stdErrors.As(wrapped, &appErr) {
		t.Fatalf("expected AppError in chain")
	}
	if appErr.Code != ErrorCode_INTEGRATION_STORAGE_FAILED {
		t.Fatalf("unexpected code %s", appErr.Code)
	}
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("expected raw cause to be reachable")
	}
}

func TestErrorCode_StringUnknown(t *testing.T) {
	if ErrorCode(-1).String() != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN")
	}
}

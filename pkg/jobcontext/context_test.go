package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestJobBegin_DetachesFromParent(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := JobBegin(parent, "job-1", "summarize", time.Minute)
	defer cancel()

	cancelParent()
	if ctx.Err() != nil {
		t.Fatalf("job context should survive parent cancellation")
	}

	meta := GetJobMetadata(ctx)
	if meta.JobID != "job-1" || meta.JobType != "summarize" || meta.StartTime.IsZero() {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Fatalf("expected deadline on job context")
	}
}

func TestRun_RecoversPanic(t *testing.T) {
	err := Run(context.Background(), func(context.Context) error {
		panic("nil pointer in assembler")
	})

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PanicError got %v", err)
	}
	if pe.Value != "nil pointer in assembler" || len(pe.Stack) == 0 {
		t.Fatalf("unexpected panic error %+v", pe)
	}
}

func TestRun_PropagatesError(t *testing.T) {
	want := errors.New("boom")
	if err := Run(context.Background(), func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected %v got %v", want, err)
	}
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("groq returned status 503"), true},
		{errors.New("groq returned status 429"), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("groq returned status 400"), false},
		{fmt.Errorf("wrapped: %w", context.Canceled), false},
		{errors.New("invalid character 'x' looking for beginning of value"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Errorf("IsRetryableError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

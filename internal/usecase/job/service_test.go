package job

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/johnquangdev/video-summarizer/internal/adapter/repository"
	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/usecase/summarize"
	"github.com/johnquangdev/video-summarizer/pkg/config"
	"github.com/johnquangdev/video-summarizer/pkg/executor"
)

type stubRunner struct {
	run func(ctx context.Context, in, out string, onProgress summarize.ProgressFunc) (*entities.JobResult, error)
}

func (s stubRunner) Run(ctx context.Context, in, out string, onProgress summarize.ProgressFunc) (*entities.JobResult, error) {
	return s.run(ctx, in, out, onProgress)
}

type stubPublisher struct {
	url string
	err error
}

func (p stubPublisher) PublishFile(context.Context, string, string) (string, error) {
	return p.url, p.err
}

func succeeding(ctx context.Context, in, out string, onProgress summarize.ProgressFunc) (*entities.JobResult, error) {
	onProgress(entities.ProgressInitializing, entities.StageInitializing)
	onProgress(entities.ProgressTranscribing, entities.StageTranscribing)
	onProgress(entities.ProgressSelecting, entities.StageSelecting)
	onProgress(entities.ProgressAssembling, entities.StageAssembling)
	return &entities.JobResult{
		InputVideo:      in,
		OutputVideo:     out,
		SummarySegments: []entities.SummarySegment{{StartTime: 0, EndTime: 10, Importance: 9, Topic: "introduction"}},
		CompletionTime:  time.Now(),
	}, nil
}

func TestService_CompletesJob(t *testing.T) {
	repo := repository.NewMemoryJobRepository()
	svc := NewService(repo, stubRunner{run: succeeding}, stubPublisher{url: "https://cdn.example/summary.mp4"}, time.Minute, nil)

	id, err := svc.Submit(context.Background(), "/videos/in.mp4", "/videos/out", entities.JobOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	svc.Wait()

	status, err := svc.GetStatus(context.Background(), id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != entities.JobStatusCompleted || status.Progress != 100 || status.Stage != entities.StageCompleted {
		t.Fatalf("unexpected status %+v", status)
	}

	result, err := svc.GetResult(context.Background(), id)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if result.OutputURL != "https://cdn.example/summary.mp4" {
		t.Fatalf("published url not recorded: %+v", result)
	}
	if result.SummaryType != entities.DefaultSummaryType || result.TargetLength != entities.DefaultTargetLength {
		t.Fatalf("options not recorded: %+v", result)
	}
	if filepath.Dir(result.OutputVideo) != "/videos/out" || !strings.HasSuffix(result.OutputVideo, "_"+id+".mp4") {
		t.Fatalf("unexpected output path %q", result.OutputVideo)
	}
}

func TestService_SameInputGetsDistinctOutputs(t *testing.T) {
	svc := NewService(repository.NewMemoryJobRepository(), stubRunner{run: succeeding}, nil, time.Minute, nil)

	outputs := map[string]bool{}
	for _, in := range []string{"/videos/a/talk.mp4", "/videos/b/talk.mov", "/videos/a/talk.mp4"} {
		id, err := svc.Submit(context.Background(), in, "/out", entities.JobOptions{})
		if err != nil {
			t.Fatalf("submit %s: %v", in, err)
		}
		job, err := svc.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if outputs[job.OutputPath] {
			t.Fatalf("output %s assigned to two jobs", job.OutputPath)
		}
		outputs[job.OutputPath] = true
	}
	svc.Wait()
}

func TestService_SubmitStartsInProcessing(t *testing.T) {
	repo := repository.NewMemoryJobRepository()
	release := make(chan struct{})
	svc := NewService(repo, stubRunner{run: func(ctx context.Context, in, out string, p summarize.ProgressFunc) (*entities.JobResult, error) {
		<-release
		return succeeding(ctx, in, out, p)
	}}, nil, time.Minute, nil)

	id, err := svc.Submit(context.Background(), "in.mp4", "out", entities.JobOptions{SummaryType: "highlights"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	status, err := svc.GetStatus(context.Background(), id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != entities.JobStatusProcessing || status.Progress != 0 || status.Stage != entities.StageInitializing {
		t.Fatalf("unexpected initial status %+v", status)
	}
	if _, err := svc.GetResult(context.Background(), id); !errors.Is(err, entities.ErrResultNotReady) {
		t.Fatalf("expected ErrResultNotReady, got %v", err)
	}

	close(release)
	svc.Wait()
}

func TestService_FailureKeepsLastProgress(t *testing.T) {
	repo := repository.NewMemoryJobRepository()
	svc := NewService(repo, stubRunner{run: func(ctx context.Context, in, out string, p summarize.ProgressFunc) (*entities.JobResult, error) {
		p(entities.ProgressInitializing, entities.StageInitializing)
		p(entities.ProgressTranscribing, entities.StageTranscribing)
		return nil, &summarize.StageError{Kind: summarize.KindTranscription, Err: errors.New("cannot read video: no such file")}
	}}, nil, time.Minute, nil)

	id, err := svc.Submit(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), "out", entities.JobOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	svc.Wait()

	job, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Status != entities.JobStatusError || job.Result != nil {
		t.Fatalf("expected error without result, got %+v", job)
	}
	if job.Progress != entities.ProgressTranscribing {
		t.Fatalf("progress should stay at last checkpoint, got %d", job.Progress)
	}
	want := "TranscriptionError: cannot read video: no such file"
	if job.Error != want || job.Stage != "Error: "+want {
		t.Fatalf("unexpected error fields %q / %q", job.Error, job.Stage)
	}

	if _, err := repo.Update(context.Background(), id, func(j *entities.Job) error {
		return j.MarkAsCompleted(&entities.JobResult{})
	}); !errors.Is(err, entities.ErrJobTerminal) {
		t.Fatalf("terminal job must stay immutable, got %v", err)
	}
}

func TestService_RecoversPanics(t *testing.T) {
	repo := repository.NewMemoryJobRepository()
	svc := NewService(repo, stubRunner{run: func(context.Context, string, string, summarize.ProgressFunc) (*entities.JobResult, error) {
		panic("decoder exploded")
	}}, nil, time.Minute, nil)

	id, err := svc.Submit(context.Background(), "in.mp4", "out", entities.JobOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	svc.Wait()

	status, _ := svc.GetStatus(context.Background(), id)
	if status.Status != entities.JobStatusError || status.Error != "panic recovered: decoder exploded" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestService_PublishFailureDoesNotFailJob(t *testing.T) {
	repo := repository.NewMemoryJobRepository()
	svc := NewService(repo, stubRunner{run: succeeding}, stubPublisher{err: errors.New("bucket gone")}, time.Minute, nil)

	id, _ := svc.Submit(context.Background(), "in.mp4", "out", entities.JobOptions{})
	svc.Wait()

	result, err := svc.GetResult(context.Background(), id)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if result.OutputURL != "" {
		t.Fatalf("no url expected, got %q", result.OutputURL)
	}
}

func TestService_UnknownJob(t *testing.T) {
	svc := NewService(repository.NewMemoryJobRepository(), stubRunner{run: succeeding}, nil, time.Minute, nil)

	if _, err := svc.GetStatus(context.Background(), "nope"); !errors.Is(err, entities.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if _, err := svc.GetResult(context.Background(), "nope"); !errors.Is(err, entities.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestService_MissingInputEndsInError(t *testing.T) {
	exec := executor.New()
	pipeline := summarize.NewPipeline(
		summarize.NewWhisperTranscriber(exec, "", config.WhisperConfig{}, nil),
		summarize.NewFallbackSelector(10),
		summarize.NewFFmpegAssembler(exec, summarize.NewProber(exec, ""), config.PipelineConfig{}, nil),
		nil,
	)
	svc := NewService(repository.NewMemoryJobRepository(), pipeline, nil, time.Minute, nil)

	missing := filepath.Join(t.TempDir(), "gone.mp4")
	id, err := svc.Submit(context.Background(), missing, t.TempDir(), entities.JobOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	svc.Wait()

	status, err := svc.GetStatus(context.Background(), id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != entities.JobStatusError {
		t.Fatalf("expected error status, got %+v", status)
	}
	if !strings.HasPrefix(status.Error, string(summarize.KindTranscription)+": ") {
		t.Fatalf("unexpected error message %q", status.Error)
	}
	if _, err := svc.GetResult(context.Background(), id); !errors.Is(err, entities.ErrResultNotReady) {
		t.Fatalf("failed job must not expose a result, got %v", err)
	}
}

func TestService_LogsJobMetadata(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	failing := stubRunner{run: func(context.Context, string, string, summarize.ProgressFunc) (*entities.JobResult, error) {
		return nil, &summarize.StageError{Kind: summarize.KindAssembly, Err: errors.New("disk full")}
	}}

	for msg, runner := range map[string]stubRunner{
		"✅ Summary job completed": {run: succeeding},
		"❌ Summary job failed":    failing,
	} {
		svc := NewService(repository.NewMemoryJobRepository(), runner, nil, time.Minute, zap.New(core))
		id, err := svc.Submit(context.Background(), "in.mp4", "out", entities.JobOptions{})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		svc.Wait()

		entries := logs.FilterMessage(msg).FilterField(zap.String("job_id", id)).All()
		if len(entries) != 1 {
			t.Fatalf("expected one %q entry for %s, got %d", msg, id, len(entries))
		}
		fields := entries[0].ContextMap()
		if fields["job_type"] != jobType {
			t.Fatalf("%q: unexpected job_type %v", msg, fields["job_type"])
		}
		if _, ok := fields["elapsed"]; !ok {
			t.Fatalf("%q: elapsed missing from %v", msg, fields)
		}
	}
}

package job

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/video-summarizer/internal/infrastructure/metrics"
	"github.com/johnquangdev/video-summarizer/internal/usecase/summarize"
	"github.com/johnquangdev/video-summarizer/pkg/jobcontext"
)

const jobType = "video_summary"

// Runner executes the summarization pipeline for one job
type Runner interface {
	Run(ctx context.Context, inputPath, outputPath string, onProgress summarize.ProgressFunc) (*entities.JobResult, error)
}

// Publisher uploads a finished summary and returns a URL to fetch it
type Publisher interface {
	PublishFile(ctx context.Context, localPath, objectName string) (string, error)
}

// StatusView is what pollers see while a job runs
type StatusView struct {
	JobID       string             `json:"job_id"`
	Status      entities.JobStatus `json:"status"`
	Progress    int                `json:"progress"`
	Stage       string             `json:"stage"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// Service owns the job registry and the detached workers that run jobs
type Service struct {
	repo      repositories.JobRepository
	runner    Runner
	publisher Publisher
	timeout   time.Duration
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewService constructs a job service. publisher may be nil.
func NewService(repo repositories.JobRepository, runner Runner, publisher Publisher, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		runner:    runner,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
	}
}

// Submit registers a job in processing state and starts it in the background.
// The summary is written to outputDir under a name derived from the job id.
func (s *Service) Submit(ctx context.Context, inputPath, outputDir string, opts entities.JobOptions) (string, error) {
	job := entities.NewJob(inputPath, "", opts)
	job.OutputPath = filepath.Join(outputDir, job.SummaryFileName())
	outputPath := job.OutputPath
	if err := job.MarkAsProcessing(); err != nil {
		return "", err
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}

	metrics.JobsTotal.WithLabelValues(metrics.OutcomeSubmitted).Inc()
	if s.logger != nil {
		s.logger.Info("🎬 Summary job submitted",
			zap.String("job_id", job.ID),
			zap.String("input", inputPath),
			zap.String("output", outputPath),
		)
	}

	s.wg.Add(1)
	go s.execute(ctx, job.ID, inputPath, outputPath, job.Options)

	return job.ID, nil
}

// Wait blocks until every started job has finished
func (s *Service) Wait() {
	s.wg.Wait()
}

// Get returns a snapshot of the job
func (s *Service) Get(ctx context.Context, id string) (*entities.Job, error) {
	return s.repo.Get(ctx, id)
}

// List returns all known jobs, newest first
func (s *Service) List(ctx context.Context) ([]*entities.Job, error) {
	return s.repo.List(ctx)
}

// GetStatus returns the progress view of a job
func (s *Service) GetStatus(ctx context.Context, id string) (*StatusView, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StatusView{
		JobID:       job.ID,
		Status:      job.Status,
		Progress:    job.Progress,
		Stage:       job.Stage,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}, nil
}

// GetResult returns the result of a completed job
func (s *Service) GetResult(ctx context.Context, id string) (*entities.JobResult, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != entities.JobStatusCompleted || job.Result == nil {
		return nil, fmt.Errorf("%w: job %s is %s", entities.ErrResultNotReady, id, job.Status)
	}
	return job.Result, nil
}

func (s *Service) execute(parent context.Context, id, inputPath, outputPath string, opts entities.JobOptions) {
	defer s.wg.Done()

	ctx, cancel := jobcontext.JobBegin(parent, id, jobType, s.timeout)
	defer cancel()

	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()

	err := jobcontext.Run(ctx, func(ctx context.Context) error {
		result, err := s.runner.Run(ctx, inputPath, outputPath, func(progress int, stage string) {
			s.advance(ctx, id, progress, stage)
		})
		if err != nil {
			return err
		}

		result.SummaryType = opts.SummaryType
		result.TargetLength = opts.TargetLength
		s.publish(ctx, id, result)

		_, err = s.repo.Update(ctx, id, func(job *entities.Job) error {
			return job.MarkAsCompleted(result)
		})
		return err
	})

	if err != nil {
		s.fail(ctx, id, err)
		return
	}

	metrics.JobsTotal.WithLabelValues(metrics.OutcomeCompleted).Inc()
	if s.logger != nil {
		s.logger.Info("✅ Summary job completed", jobLogFields(ctx)...)
	}
}

func (s *Service) advance(ctx context.Context, id string, progress int, stage string) {
	if _, err := s.repo.Update(ctx, id, func(job *entities.Job) error {
		return job.Advance(progress, stage)
	}); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to record job progress",
			zap.String("job_id", id),
			zap.Int("progress", progress),
			zap.Error(err),
		)
	}
}

// fail records the error even when the job deadline has already passed
func (s *Service) fail(ctx context.Context, id string, cause error) {
	metrics.JobsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()

	fields := append(jobLogFields(ctx), zap.Error(cause))
	if kind, ok := summarize.KindOf(cause); ok {
		fields = append(fields, zap.String("kind", string(kind)))
	}
	var pe *jobcontext.PanicError
	if errors.As(cause, &pe) {
		fields = append(fields, zap.ByteString("stack", pe.Stack))
	}
	if s.logger != nil {
		s.logger.Error("❌ Summary job failed", fields...)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if _, err := s.repo.Update(writeCtx, id, func(job *entities.Job) error {
		return job.MarkAsFailed(cause.Error())
	}); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to mark job as failed",
			zap.String("job_id", id),
			zap.Error(err),
		)
	}
}

// jobLogFields describes the running job from the metadata JobBegin attached to ctx
func jobLogFields(ctx context.Context) []zap.Field {
	meta := jobcontext.GetJobMetadata(ctx)
	fields := []zap.Field{
		zap.String("job_id", meta.JobID),
		zap.String("job_type", meta.JobType),
	}
	if !meta.StartTime.IsZero() {
		fields = append(fields, zap.Duration("elapsed", time.Since(meta.StartTime)))
	}
	return fields
}

func (s *Service) publish(ctx context.Context, id string, result *entities.JobResult) {
	if s.publisher == nil {
		return
	}

	objectName := fmt.Sprintf("summaries/%s/%s", id, filepath.Base(result.OutputVideo))
	url, err := s.publisher.PublishFile(ctx, result.OutputVideo, objectName)
	if err != nil {
		metrics.PublishTotal.WithLabelValues("error").Inc()
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to publish summary video, keeping local copy only",
				zap.String("job_id", id),
				zap.Error(err),
			)
		}
		return
	}

	metrics.PublishTotal.WithLabelValues("ok").Inc()
	result.OutputURL = url
}

package summarize

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/infrastructure/metrics"
	"github.com/johnquangdev/video-summarizer/pkg/jobcontext"
)

// ProgressFunc receives progress checkpoints while a pipeline runs
type ProgressFunc func(progress int, stage string)

// Pipeline runs transcription, selection and assembly in sequence
type Pipeline struct {
	transcriber Transcriber
	selector    Selector
	assembler   Assembler
	logger      *zap.Logger
}

// NewPipeline wires the three stages together
func NewPipeline(transcriber Transcriber, selector Selector, assembler Assembler, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		selector:    selector,
		assembler:   assembler,
		logger:      logger,
	}
}

// jobFields prefixes log fields with the job carried by ctx, if any
func jobFields(ctx context.Context, fields ...zap.Field) []zap.Field {
	meta := jobcontext.GetJobMetadata(ctx)
	if meta.JobID == "" {
		return fields
	}
	out := make([]zap.Field, 0, len(fields)+2)
	out = append(out, zap.String("job_id", meta.JobID))
	if !meta.StartTime.IsZero() {
		out = append(out, zap.Duration("job_elapsed", time.Since(meta.StartTime)))
	}
	return append(out, fields...)
}

// Run summarizes inputPath into outputPath. Stage errors are returned as is.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputPath string, onProgress ProgressFunc) (*entities.JobResult, error) {
	report := func(progress int, stage string) {
		if onProgress != nil {
			onProgress(progress, stage)
		}
	}

	report(entities.ProgressInitializing, entities.StageInitializing)

	report(entities.ProgressTranscribing, entities.StageTranscribing)
	start := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, inputPath)
	metrics.ObserveStage("transcribe", start)
	if err != nil {
		return nil, err
	}

	report(entities.ProgressSelecting, entities.StageSelecting)
	start = time.Now()
	segments, err := p.selector.Select(ctx, transcript)
	metrics.ObserveStage("select", start)
	if err != nil {
		return nil, err
	}

	if p.logger != nil {
		p.logger.Info("🎬 Summary segments chosen", jobFields(ctx,
			zap.Int("segment_count", len(segments)),
			zap.Float64("summary_seconds", entities.TotalDuration(segments)),
		)...)
	}

	report(entities.ProgressAssembling, entities.StageAssembling)
	start = time.Now()
	err = p.assembler.Assemble(ctx, inputPath, segments, outputPath)
	metrics.ObserveStage("assemble", start)
	if err != nil {
		return nil, err
	}

	return &entities.JobResult{
		InputVideo:      inputPath,
		OutputVideo:     outputPath,
		Transcript:      *transcript,
		SummarySegments: segments,
		CompletionTime:  time.Now(),
	}, nil
}

package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/infrastructure/metrics"
	"github.com/johnquangdev/video-summarizer/pkg/jobcontext"
)

// Selector picks the excerpts that make up the summary video
type Selector interface {
	Select(ctx context.Context, transcript *entities.Transcript) ([]entities.SummarySegment, error)
}

// Completer is a chat completion backend such as pkg/ai.GroqClient
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const defaultClipSeconds = 10.0

func checkTranscript(t *entities.Transcript) error {
	if t.IsEmpty() {
		return stageErrorf(KindSelection, "%w", entities.ErrEmptyTranscript)
	}
	if err := t.Validate(); err != nil {
		return &StageError{Kind: KindSelection, Err: err}
	}
	return nil
}

// FallbackSelector takes the opening, middle and closing segments,
// ignoring segments without duration.
// The same transcript always yields the same result.
type FallbackSelector struct {
	clipSeconds float64
}

// NewFallbackSelector creates a fallback selector capping each clip at clipSeconds
func NewFallbackSelector(clipSeconds float64) *FallbackSelector {
	if clipSeconds <= 0 {
		clipSeconds = defaultClipSeconds
	}
	return &FallbackSelector{clipSeconds: clipSeconds}
}

// Select implements Selector
func (f *FallbackSelector) Select(_ context.Context, t *entities.Transcript) ([]entities.SummarySegment, error) {
	if err := checkTranscript(t); err != nil {
		return nil, err
	}

	spans := make([]entities.Segment, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if seg.End > seg.Start {
			spans = append(spans, seg)
		}
	}
	if len(spans) == 0 {
		return nil, stageErrorf(KindSelection, "%w: no segment has a positive duration", entities.ErrEmptyTranscript)
	}

	metrics.SelectionsTotal.WithLabelValues(metrics.SourceFallback).Inc()
	return f.segments(spans), nil
}

func (f *FallbackSelector) segments(segs []entities.Segment) []entities.SummarySegment {
	n := len(segs)
	out := make([]entities.SummarySegment, 0, 3)

	if n >= 1 {
		first := segs[0]
		out = append(out, entities.SummarySegment{
			StartTime:  first.Start,
			EndTime:    math.Min(first.End, first.Start+f.clipSeconds),
			Importance: 9,
			Topic:      "introduction",
			Reason:     "Opening segment",
		})
	}

	if n >= 3 {
		mid := segs[n/2]
		out = append(out, entities.SummarySegment{
			StartTime:  mid.Start,
			EndTime:    math.Min(mid.End, mid.Start+f.clipSeconds),
			Importance: 8,
			Topic:      "main_content",
			Reason:     "Middle segment with key content",
		})
	}

	if n >= 2 {
		last := segs[n-1]
		out = append(out, entities.SummarySegment{
			StartTime:  math.Max(0, last.End-f.clipSeconds),
			EndTime:    last.End,
			Importance: 7,
			Topic:      "conclusion",
			Reason:     "Closing segment",
		})
	}

	return out
}

const systemPrompt = "You are an expert video editor who identifies the most important segments for creating summary videos."

// ReasoningSelector asks a language model for segments and degrades to the
// fallback selector whenever the model cannot produce a valid answer.
type ReasoningSelector struct {
	completer Completer
	parser    *Parser
	fallback  *FallbackSelector
	timeout   time.Duration
	logger    *zap.Logger
}

// NewReasoningSelector creates a ReasoningSelector. A nil completer always uses the fallback.
func NewReasoningSelector(completer Completer, parser *Parser, fallback *FallbackSelector, timeout time.Duration, logger *zap.Logger) *ReasoningSelector {
	if parser == nil {
		parser = NewParser(nil, 0)
	}
	if fallback == nil {
		fallback = NewFallbackSelector(defaultClipSeconds)
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &ReasoningSelector{
		completer: completer,
		parser:    parser,
		fallback:  fallback,
		timeout:   timeout,
		logger:    logger,
	}
}

// Select implements Selector
func (s *ReasoningSelector) Select(ctx context.Context, t *entities.Transcript) ([]entities.SummarySegment, error) {
	if err := checkTranscript(t); err != nil {
		return nil, err
	}

	if s.completer == nil {
		if s.logger != nil {
			s.logger.Info("⚠️ Reasoning service not configured, using fallback selection", jobFields(ctx)...)
		}
		return s.fallback.Select(ctx, t)
	}

	segments, err := s.reason(ctx, t)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Reasoning service failed, using fallback selection", jobFields(ctx,
				zap.Error(&StageError{Kind: KindReasoning, Err: err}),
			)...)
		}
		return s.fallback.Select(ctx, t)
	}

	metrics.SelectionsTotal.WithLabelValues(metrics.SourceReasoning).Inc()
	if s.logger != nil {
		s.logger.Info("🤖 Segments selected by reasoning service", jobFields(ctx,
			zap.Int("segment_count", len(segments)),
			zap.Float64("summary_seconds", entities.TotalDuration(segments)),
		)...)
	}
	return segments, nil
}

func (s *ReasoningSelector) reason(ctx context.Context, t *entities.Transcript) ([]entities.SummarySegment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt, err := buildPrompt(t)
	if err != nil {
		return nil, err
	}

	var content string
	call := func() error {
		var err error
		content, err = s.completer.Complete(ctx, systemPrompt, prompt)
		if err != nil && !jobcontext.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = s.timeout

	if err := backoff.Retry(call, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	return s.parser.ParseSegmentsResponse(content)
}

type promptSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func buildPrompt(t *entities.Transcript) (string, error) {
	infos := make([]promptSegment, 0, len(t.Segments))
	for _, seg := range t.Segments {
		infos = append(infos, promptSegment{Text: seg.Text, Start: seg.Start, End: seg.End})
	}
	segJSON, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode segments: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Analyze this video transcript and identify the most important segments for creating a summary video.\n\n")
	sb.WriteString("Full transcript: ")
	sb.WriteString(t.FullText)
	sb.WriteString("\n\nSegment information with timestamps:\n")
	sb.Write(segJSON)
	sb.WriteString(`

Identify 3-5 key segments that would make a good summary video. For each segment provide:
1. start_time: exact start time in seconds
2. end_time: exact end time in seconds
3. importance: score from 1-10
4. topic: brief description of what this segment covers
5. reason: why this segment is important

Respond with a single JSON object and no other fields:
{"summary_segments": [{"start_time": 0.0, "end_time": 15.5, "importance": 9, "topic": "introduction", "reason": "Sets up the main topic"}]}`)

	return sb.String(), nil
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "video_summarizer"

var (
	// JobsTotal counts jobs by outcome: submitted, completed, failed
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_total",
		Help:      "Summarization jobs by outcome.",
	}, []string{"outcome"})

	// JobsInFlight is the number of jobs currently processing
	JobsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "jobs_in_flight",
		Help:      "Jobs currently running.",
	})

	// StageDuration observes how long each pipeline stage takes
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages.",
		Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"stage"})

	// SelectionsTotal counts which selector produced the summary segments
	SelectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "selections_total",
		Help:      "Segment selections by source.",
	}, []string{"source"})

	// PublishTotal counts artifact uploads by result
	PublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publish_total",
		Help:      "Summary video uploads to object storage.",
	}, []string{"result"})
)

// Job outcomes
const (
	OutcomeSubmitted = "submitted"
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Selection sources
const (
	SourceReasoning = "reasoning"
	SourceFallback  = "fallback"
)

// ObserveStage records the elapsed time since start for a stage
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

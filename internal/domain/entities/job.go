package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a summarization job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// Stage descriptions reported to pollers
const (
	StageQueued       = "Queued"
	StageInitializing = "Initializing AI models..."
	StageTranscribing = "Extracting audio and generating timestamps..."
	StageSelecting    = "Selecting key segments..."
	StageAssembling   = "Assembling summary video..."
	StageCompleted    = "Summary video created successfully!"
)

// Progress checkpoints
const (
	ProgressInitializing = 0
	ProgressTranscribing = 20
	ProgressSelecting    = 50
	ProgressAssembling   = 70
	ProgressCompleted    = 100
)

const (
	DefaultSummaryType  = "auto"
	DefaultTargetLength = "2_minutes"
)

// JobOptions are caller supplied hints. They are recorded with the result
// but do not change pipeline behaviour.
type JobOptions struct {
	SummaryType  string `json:"summary_type"`
	TargetLength string `json:"target_length"`
}

// JobResult is the outcome of a successful pipeline run
type JobResult struct {
	InputVideo      string           `json:"input_video"`
	OutputVideo     string           `json:"output_video"`
	OutputURL       string           `json:"output_url,omitempty"`
	Transcript      Transcript       `json:"transcript"`
	SummarySegments []SummarySegment `json:"summary_segments"`
	SummaryType     string           `json:"summary_type,omitempty"`
	TargetLength    string           `json:"target_length,omitempty"`
	CompletionTime  time.Time        `json:"completion_time"`
}

// Job is one asynchronous execution of the summarization pipeline
type Job struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	Stage       string     `json:"stage"`
	InputPath   string     `json:"input_path"`
	OutputPath  string     `json:"output_path"`
	Options     JobOptions `json:"options"`
	Result      *JobResult `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var allowedTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:    {JobStatusProcessing, JobStatusError},
	JobStatusProcessing: {JobStatusProcessing, JobStatusCompleted, JobStatusError},
}

// NewJob creates a pending job with a fresh identifier
func NewJob(inputPath, outputPath string, opts JobOptions) *Job {
	if opts.SummaryType == "" {
		opts.SummaryType = DefaultSummaryType
	}
	if opts.TargetLength == "" {
		opts.TargetLength = DefaultTargetLength
	}

	now := time.Now()
	return &Job{
		ID:         uuid.NewString(),
		Status:     JobStatusPending,
		Progress:   0,
		Stage:      StageQueued,
		InputPath:  inputPath,
		OutputPath: outputPath,
		Options:    opts,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SummaryFileName names the job's summary video. Every job gets its own file.
func (j *Job) SummaryFileName() string {
	return fmt.Sprintf("summary_%s_%s.mp4", j.CreatedAt.Format("20060102_150405"), j.ID)
}

// IsTerminal reports whether the job has finished
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusError
}

func (j *Job) transition(to JobStatus) error {
	if j.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrJobTerminal, j.Status)
	}
	for _, allowed := range allowedTransitions[j.Status] {
		if allowed == to {
			j.Status = to
			j.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, to)
}

// MarkAsProcessing moves a pending job into processing
func (j *Job) MarkAsProcessing() error {
	if j.Status != JobStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, JobStatusProcessing)
	}
	if err := j.transition(JobStatusProcessing); err != nil {
		return err
	}
	now := j.UpdatedAt
	j.StartedAt = &now
	j.Progress = ProgressInitializing
	j.Stage = StageInitializing
	return nil
}

// Advance records progress while processing. Progress never decreases.
func (j *Job) Advance(progress int, stage string) error {
	if j.Status != JobStatusProcessing {
		if j.IsTerminal() {
			return fmt.Errorf("%w: %s", ErrJobTerminal, j.Status)
		}
		return fmt.Errorf("%w: cannot advance %s job", ErrInvalidTransition, j.Status)
	}
	if progress < j.Progress {
		return fmt.Errorf("%w: %d < %d", ErrProgressDecreased, progress, j.Progress)
	}
	if progress > ProgressCompleted {
		progress = ProgressCompleted
	}
	if err := j.transition(JobStatusProcessing); err != nil {
		return err
	}
	j.Progress = progress
	j.Stage = stage
	return nil
}

// MarkAsCompleted stores the result and finishes the job
func (j *Job) MarkAsCompleted(result *JobResult) error {
	if result == nil {
		return fmt.Errorf("%w: completed job requires a result", ErrInvalidTransition)
	}
	if err := j.transition(JobStatusCompleted); err != nil {
		return err
	}
	now := j.UpdatedAt
	j.CompletedAt = &now
	j.Progress = ProgressCompleted
	j.Stage = StageCompleted
	j.Result = result
	return nil
}

// MarkAsFailed finishes the job with an error message, keeping the last progress
func (j *Job) MarkAsFailed(errMsg string) error {
	if err := j.transition(JobStatusError); err != nil {
		return err
	}
	now := j.UpdatedAt
	j.CompletedAt = &now
	j.Error = errMsg
	j.Stage = "Error: " + errMsg
	j.Result = nil
	return nil
}

// Clone returns a deep copy so readers never share memory with the writer
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	cp := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		cp.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cp.CompletedAt = &t
	}
	if j.Result != nil {
		r := *j.Result
		r.Transcript.Words = append([]Word(nil), j.Result.Transcript.Words...)
		r.Transcript.Segments = append([]Segment(nil), j.Result.Transcript.Segments...)
		r.SummarySegments = append([]SummarySegment(nil), j.Result.SummarySegments...)
		cp.Result = &r
	}
	return &cp
}

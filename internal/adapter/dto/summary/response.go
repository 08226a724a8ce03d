package summary

import (
	"time"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/usecase/summarize"
)

// UploadResponse is returned once an uploaded video has been queued
type UploadResponse struct {
	JobID    string             `json:"job_id"`
	Status   entities.JobStatus `json:"status"`
	Message  string             `json:"message"`
	Filename string             `json:"filename"`
}

// SubmitResponse is returned by the programmatic summarize endpoint
type SubmitResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	StatusURL string `json:"status_url"`
}

// VideoInfoResponse compares the input video with its summary
type VideoInfoResponse struct {
	JobID  string               `json:"job_id"`
	Input  *summarize.VideoInfo `json:"input"`
	Output *summarize.VideoInfo `json:"output,omitempty"`
}

// JobItem is one row of the job listing
type JobItem struct {
	JobID       string             `json:"job_id"`
	Status      entities.JobStatus `json:"status"`
	Progress    int                `json:"progress"`
	Stage       string             `json:"stage"`
	InputVideo  string             `json:"input_video"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// ListJobsResponse lists known jobs, newest first
type ListJobsResponse struct {
	Jobs  []JobItem `json:"jobs"`
	Total int       `json:"total"`
}

// NewJobItem converts a job snapshot to its listing row
func NewJobItem(j *entities.Job) JobItem {
	return JobItem{
		JobID:       j.ID,
		Status:      j.Status,
		Progress:    j.Progress,
		Stage:       j.Stage,
		InputVideo:  j.InputPath,
		CreatedAt:   j.CreatedAt,
		CompletedAt: j.CompletedAt,
	}
}

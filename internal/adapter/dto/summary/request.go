package summary

import "github.com/johnquangdev/video-summarizer/internal/domain/entities"

// UploadForm is the non-file part of the multipart upload
type UploadForm struct {
	SummaryType  string `form:"summary_type" validate:"omitempty,max=64"`
	TargetLength string `form:"target_length" validate:"omitempty,max=64"`
}

// SummarizeRequest asks for a summary of a video already on the server
type SummarizeRequest struct {
	VideoPath    string `json:"video_path" validate:"required,videoext"`
	SummaryType  string `json:"summary_type,omitempty" validate:"omitempty,max=64"`
	TargetLength string `json:"target_length,omitempty" validate:"omitempty,max=64"`
}

// Options fills in defaults for the hints a caller left empty
func Options(summaryType, targetLength string) entities.JobOptions {
	opts := entities.JobOptions{SummaryType: summaryType, TargetLength: targetLength}
	if opts.SummaryType == "" {
		opts.SummaryType = entities.DefaultSummaryType
	}
	if opts.TargetLength == "" {
		opts.TargetLength = entities.DefaultTargetLength
	}
	return opts
}

package handler

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/video-summarizer/errors"
	dto "github.com/johnquangdev/video-summarizer/internal/adapter/dto/summary"
	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/usecase/job"
	"github.com/johnquangdev/video-summarizer/internal/usecase/summarize"
	"github.com/johnquangdev/video-summarizer/pkg/config"
	"github.com/johnquangdev/video-summarizer/pkg/validator"
)

// JobService is the part of job.Service the HTTP layer drives
type JobService interface {
	Submit(ctx context.Context, inputPath, outputDir string, opts entities.JobOptions) (string, error)
	Get(ctx context.Context, id string) (*entities.Job, error)
	List(ctx context.Context) ([]*entities.Job, error)
	GetStatus(ctx context.Context, id string) (*job.StatusView, error)
	GetResult(ctx context.Context, id string) (*entities.JobResult, error)
}

// VideoProber reads container metadata
type VideoProber interface {
	Probe(ctx context.Context, path string) (*summarize.VideoInfo, error)
}

// Summary serves the summarization endpoints
type Summary struct {
	jobs     JobService
	prober   VideoProber
	upload   config.UploadConfig
	maxBytes int64
	logger   *zap.Logger
}

// NewSummary creates the summary handler
func NewSummary(jobs JobService, prober VideoProber, cfg *config.Config, logger *zap.Logger) *Summary {
	return &Summary{
		jobs:     jobs,
		prober:   prober,
		upload:   cfg.Upload,
		maxBytes: cfg.MaxUploadBytes(),
		logger:   logger,
	}
}

// Upload accepts a video file and starts summarizing it
// @Summary      Upload a video for summarization
// @Description  Stores the uploaded video and starts a background summarization job
// @Tags         Summary
// @Accept       multipart/form-data
// @Produce      json
// @Param        video          formData  file    true   "Video file (mp4, avi, mov, mkv, webm, m4v)"
// @Param        summary_type   formData  string  false  "Summary style hint"  default(auto)
// @Param        target_length  formData  string  false  "Target length hint"  default(2_minutes)
// @Success      200  {object}  dto.UploadResponse
// @Failure      400  {object}  map[string]interface{}  "Missing file or unsupported format"
// @Failure      413  {object}  map[string]interface{}  "File too large"
// @Failure      500  {object}  map[string]interface{}  "Failed to store or submit"
// @Router       /upload [post]
func (h *Summary) Upload(c echo.Context) error {
	file, err := c.FormFile("video")
	if err != nil {
		// older clients post the field as "file"
		file, err = c.FormFile("file")
	}
	if err != nil || file.Filename == "" {
		return HandleError(h.logger, c, errors.ErrMissingFile())
	}
	if !validator.IsAllowedVideo(file.Filename) {
		return HandleError(h.logger, c, errors.ErrUnsupportedFormat(file.Filename))
	}
	if file.Size > h.maxBytes {
		return HandleError(h.logger, c, errors.ErrFileTooLarge(h.upload.MaxSizeMB))
	}

	var form dto.UploadForm
	if err := c.Bind(&form); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&form); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	filename := safeFilename(file.Filename)
	stored := fmt.Sprintf("%s_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8], filename)
	inputPath := filepath.Join(h.upload.Dir, stored)
	if err := saveUpload(file, inputPath); err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("save upload", err))
	}

	jobID, err := h.jobs.Submit(c.Request().Context(), inputPath, h.upload.OutputDir, dto.Options(form.SummaryType, form.TargetLength))
	if err != nil {
		_ = os.Remove(inputPath)
		return HandleError(h.logger, c, errors.ErrJobSubmitFailed(err))
	}

	return HandleSuccess(h.logger, c, dto.UploadResponse{
		JobID:    jobID,
		Status:   entities.JobStatusProcessing,
		Message:  "Video uploaded successfully. Processing started.",
		Filename: filename,
	})
}

// Status reports job progress
// @Summary      Get job status
// @Tags         Summary
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  job.StatusView
// @Failure      404  {object}  map[string]interface{}  "Job not found"
// @Router       /status/{id} [get]
// @Router       /api/v1/status/{id} [get]
func (h *Summary) Status(c echo.Context) error {
	id := c.Param("id")

	view, err := h.jobs.GetStatus(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, h.jobError(c.Request().Context(), id, err))
	}
	return HandleSuccess(h.logger, c, view)
}

// Result returns the summary of a completed job
// @Summary      Get job result
// @Tags         Summary
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  entities.JobResult
// @Failure      404  {object}  map[string]interface{}  "Job not found"
// @Failure      409  {object}  map[string]interface{}  "Job not completed"
// @Router       /result/{id} [get]
func (h *Summary) Result(c echo.Context) error {
	id := c.Param("id")

	result, err := h.jobs.GetResult(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, h.jobError(c.Request().Context(), id, err))
	}
	return HandleSuccess(h.logger, c, result)
}

// Download streams the summary video
// @Summary      Download summary video
// @Description  Sends the summary as an attachment, or redirects to the published copy when the local file is gone
// @Tags         Summary
// @Produce      octet-stream
// @Param        id   path  string  true  "Job ID"
// @Success      200  {file}    file
// @Success      302  {string}  string  "Redirect to published copy"
// @Failure      404  {object}  map[string]interface{}  "Job or file not found"
// @Failure      409  {object}  map[string]interface{}  "Job not completed"
// @Router       /download/{id} [get]
func (h *Summary) Download(c echo.Context) error {
	id := c.Param("id")

	result, err := h.jobs.GetResult(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, h.jobError(c.Request().Context(), id, err))
	}

	if _, err := os.Stat(result.OutputVideo); err != nil {
		if result.OutputURL != "" {
			return c.Redirect(http.StatusFound, result.OutputURL)
		}
		return HandleError(h.logger, c, errors.ErrVideoNotFound(filepath.Base(result.OutputVideo)))
	}

	return c.Attachment(result.OutputVideo, filepath.Base(result.OutputVideo))
}

// DownloadOriginal sends back the uploaded video of a completed job
// @Summary      Download original video
// @Tags         Summary
// @Produce      octet-stream
// @Param        id   path  string  true  "Job ID"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]interface{}  "Job or file not found"
// @Failure      409  {object}  map[string]interface{}  "Job not completed"
// @Router       /download_original/{id} [get]
func (h *Summary) DownloadOriginal(c echo.Context) error {
	id := c.Param("id")

	result, err := h.jobs.GetResult(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, h.jobError(c.Request().Context(), id, err))
	}

	if _, err := os.Stat(result.InputVideo); err != nil {
		return HandleError(h.logger, c, errors.ErrVideoNotFound(filepath.Base(result.InputVideo)))
	}
	return c.Attachment(result.InputVideo, "original_"+id+filepath.Ext(result.InputVideo))
}

// Video serves the original or summary video inline for playback
// @Summary      Play a video
// @Description  Serves the original or the summary inline; range requests are supported
// @Tags         Summary
// @Produce      octet-stream
// @Param        id    path  string  true  "Job ID"
// @Param        type  path  string  true  "original or summary"  Enums(original, summary)
// @Success      200   {file}    file
// @Success      206   {file}    file
// @Failure      400   {object}  map[string]interface{}  "Invalid video type"
// @Failure      404   {object}  map[string]interface{}  "Job or file not found"
// @Failure      409   {object}  map[string]interface{}  "Job not completed"
// @Router       /video/{id}/{type} [get]
func (h *Summary) Video(c echo.Context) error {
	id := c.Param("id")
	kind := c.Param("type")
	if kind != "original" && kind != "summary" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("video type must be original or summary"))
	}

	result, err := h.jobs.GetResult(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, h.jobError(c.Request().Context(), id, err))
	}

	path := result.OutputVideo
	if kind == "original" {
		path = result.InputVideo
	}
	if _, err := os.Stat(path); err != nil {
		return HandleError(h.logger, c, errors.ErrVideoNotFound(filepath.Base(path)))
	}
	return c.Inline(path, filepath.Base(path))
}

// Info compares the input video with its summary
// @Summary      Get video info
// @Description  Duration, frame rate, resolution and file size of the input and, once ready, the summary
// @Tags         Summary
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  dto.VideoInfoResponse
// @Failure      404  {object}  map[string]interface{}  "Job or video not found"
// @Failure      422  {object}  map[string]interface{}  "Video could not be probed"
// @Router       /info/{id} [get]
func (h *Summary) Info(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	j, err := h.jobs.Get(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, h.jobError(ctx, id, err))
	}
	if _, err := os.Stat(j.InputPath); err != nil {
		return HandleError(h.logger, c, errors.ErrVideoNotFound(filepath.Base(j.InputPath)))
	}

	input, err := h.prober.Probe(ctx, j.InputPath)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrVideoProbeFailed(err))
	}

	resp := dto.VideoInfoResponse{JobID: j.ID, Input: input}
	if j.Status == entities.JobStatusCompleted {
		output, err := h.prober.Probe(ctx, j.OutputPath)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("⚠️ Failed to probe summary video",
					zap.String("job_id", j.ID),
					zap.Error(err),
				)
			}
		} else {
			resp.Output = output
		}
	}

	return HandleSuccess(h.logger, c, resp)
}

// List returns all known jobs
// @Summary      List jobs
// @Tags         Summary
// @Produce      json
// @Success      200  {object}  dto.ListJobsResponse
// @Failure      500  {object}  map[string]interface{}  "Job store unavailable"
// @Router       /api/v1/jobs [get]
func (h *Summary) List(c echo.Context) error {
	jobs, err := h.jobs.List(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items := make([]dto.JobItem, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, dto.NewJobItem(j))
	}
	return HandleSuccess(h.logger, c, dto.ListJobsResponse{Jobs: items, Total: len(items)})
}

// APISummarize starts a job for a video already present on the server
// @Summary      Summarize a server-side video
// @Tags         API
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SummarizeRequest  true  "Video to summarize"
// @Success      200      {object}  dto.SubmitResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      404      {object}  map[string]interface{}  "Video not found"
// @Router       /api/v1/summarize [post]
func (h *Summary) APISummarize(c echo.Context) error {
	var req dto.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	info, err := os.Stat(req.VideoPath)
	if err != nil || info.IsDir() {
		return HandleError(h.logger, c, errors.ErrVideoNotFound(req.VideoPath))
	}

	jobID, err := h.jobs.Submit(c.Request().Context(), req.VideoPath, h.upload.OutputDir, dto.Options(req.SummaryType, req.TargetLength))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrJobSubmitFailed(err))
	}

	return HandleSuccess(h.logger, c, dto.SubmitResponse{
		JobID:     jobID,
		Status:    "accepted",
		Message:   "Video processing started",
		StatusURL: "/api/v1/status/" + jobID,
	})
}

// jobError attaches the job id, and the current status where relevant, to lookup failures
func (h *Summary) jobError(ctx context.Context, id string, err error) error {
	switch {
	case stdErrors.Is(err, entities.ErrJobNotFound):
		return errors.ErrJobNotFound(id)
	case stdErrors.Is(err, entities.ErrResultNotReady):
		status := ""
		if j, getErr := h.jobs.Get(ctx, id); getErr == nil {
			status = string(j.Status)
		}
		return errors.ErrResultNotReady(id, status)
	}
	return err
}

// safeFilename keeps the base name and replaces anything outside [A-Za-z0-9._-]
func safeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	cleaned = strings.TrimLeft(cleaned, "._")
	if cleaned == "" {
		return "video"
	}
	return cleaned
}

func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("write upload: %w", err)
	}
	return out.Close()
}

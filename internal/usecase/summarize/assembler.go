package summarize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/pkg/config"
	"github.com/johnquangdev/video-summarizer/pkg/executor"
)

// Assembler cuts segments out of a video and joins them into one file
type Assembler interface {
	Assemble(ctx context.Context, videoPath string, segments []entities.SummarySegment, outputPath string) error
}

// rangeTolerance absorbs rounding between transcript timestamps and container duration
const rangeTolerance = 0.05

// FFmpegAssembler re-encodes each segment with ffmpeg and concatenates them in supplied order
type FFmpegAssembler struct {
	exec       executor.Executor
	prober     *Prober
	ffmpeg     string
	videoCodec string
	audioCodec string
	preset     string
	crf        int
	logger     *zap.Logger
}

// NewFFmpegAssembler creates an assembler from pipeline settings
func NewFFmpegAssembler(exec executor.Executor, prober *Prober, cfg config.PipelineConfig, logger *zap.Logger) *FFmpegAssembler {
	a := &FFmpegAssembler{
		exec:       exec,
		prober:     prober,
		ffmpeg:     cfg.FFmpegPath,
		videoCodec: cfg.VideoCodec,
		audioCodec: cfg.AudioCodec,
		preset:     cfg.Preset,
		crf:        cfg.CRF,
		logger:     logger,
	}
	if a.ffmpeg == "" {
		a.ffmpeg = "ffmpeg"
	}
	if a.videoCodec == "" {
		a.videoCodec = "libx264"
	}
	if a.audioCodec == "" {
		a.audioCodec = "aac"
	}
	if a.preset == "" {
		a.preset = "veryfast"
	}
	if a.crf <= 0 {
		a.crf = 18
	}
	return a
}

// Assemble writes the summary to outputPath. Either the whole file appears or nothing does.
func (a *FFmpegAssembler) Assemble(ctx context.Context, videoPath string, segments []entities.SummarySegment, outputPath string) error {
	info, err := a.prober.Probe(ctx, videoPath)
	if err != nil {
		return stageErrorf(KindAssembly, "cannot open source video: %w", err)
	}

	if len(segments) == 0 {
		return stageErrorf(KindAssembly, "no segments to assemble")
	}
	for i, seg := range segments {
		if seg.StartTime < 0 || seg.EndTime <= seg.StartTime || seg.EndTime > info.Duration+rangeTolerance {
			return stageErrorf(KindAssembly, "segment %d [%.2f, %.2f] outside source range [0, %.2f]",
				i, seg.StartTime, seg.EndTime, info.Duration)
		}
	}

	tmpDir, err := os.MkdirTemp("", "summary-clips-*")
	if err != nil {
		return stageErrorf(KindAssembly, "create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	start := time.Now()
	clips := make([]string, 0, len(segments))
	for i, seg := range segments {
		end := seg.EndTime
		if end > info.Duration {
			end = info.Duration
		}
		clipPath := filepath.Join(tmpDir, fmt.Sprintf("clip_%03d.mp4", i))

		if a.logger != nil {
			a.logger.Info("🎬 Extracting segment", jobFields(ctx,
				zap.Int("index", i),
				zap.Float64("start", seg.StartTime),
				zap.Float64("end", end),
				zap.String("topic", seg.Topic),
			)...)
		}

		if err := a.extract(ctx, videoPath, seg.StartTime, end-seg.StartTime, clipPath); err != nil {
			return stageErrorf(KindAssembly, "extract segment %d: %w", i, err)
		}
		clips = append(clips, clipPath)
	}

	listPath := filepath.Join(tmpDir, "concat.txt")
	if err := writeConcatList(listPath, clips); err != nil {
		return stageErrorf(KindAssembly, "write concat list: %w", err)
	}

	ext := filepath.Ext(outputPath)
	if ext == "" {
		ext = ".mp4"
	}
	tmpOut, err := os.CreateTemp(filepath.Dir(outputPath), ".summary-*"+ext)
	if err != nil {
		return stageErrorf(KindAssembly, "output not writable: %w", err)
	}
	tmpOutPath := tmpOut.Name()
	tmpOut.Close()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpOutPath)
		}
	}()

	if _, err := a.exec.Execute(ctx, a.ffmpeg,
		"-hide_banner", "-nostdin", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		tmpOutPath,
	); err != nil {
		return stageErrorf(KindAssembly, "concatenate clips: %w", err)
	}

	if err := os.Rename(tmpOutPath, outputPath); err != nil {
		return stageErrorf(KindAssembly, "move summary into place: %w", err)
	}
	committed = true

	if a.logger != nil {
		a.logger.Info("✅ Summary video assembled", jobFields(ctx,
			zap.String("output", outputPath),
			zap.Int("segment_count", len(segments)),
			zap.Duration("elapsed", time.Since(start)),
		)...)
	}
	return nil
}

func (a *FFmpegAssembler) extract(ctx context.Context, src string, start, duration float64, dst string) error {
	_, err := a.exec.Execute(ctx, a.ffmpeg,
		"-hide_banner", "-nostdin", "-y",
		"-ss", formatSeconds(start),
		"-i", src,
		"-t", formatSeconds(duration),
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-c:v", a.videoCodec,
		"-preset", a.preset,
		"-crf", strconv.Itoa(a.crf),
		"-c:a", a.audioCodec,
		dst,
	)
	return err
}

func writeConcatList(path string, clips []string) error {
	var sb strings.Builder
	for _, c := range clips {
		sb.WriteString("file '")
		sb.WriteString(strings.ReplaceAll(c, "'", `'\''`))
		sb.WriteString("'\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

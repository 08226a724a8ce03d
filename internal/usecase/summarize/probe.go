package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/johnquangdev/video-summarizer/pkg/executor"
)

// VideoInfo describes a media file as reported by ffprobe
type VideoInfo struct {
	Duration float64 `json:"duration"`
	FPS      float64 `json:"fps"`
	Size     [2]int  `json:"size"`
	FileSize int64   `json:"file_size"`
	HasAudio bool    `json:"has_audio"`
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Prober reads container metadata with ffprobe
type Prober struct {
	exec executor.Executor
	bin  string
}

// NewProber creates a Prober. An empty bin means "ffprobe" on PATH.
func NewProber(exec executor.Executor, bin string) *Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	return &Prober{exec: exec, bin: bin}
}

// Probe returns duration (rounded to 2 decimals), frame rate, resolution and file size
func (p *Prober) Probe(ctx context.Context, path string) (*VideoInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}

	out, err := p.exec.Execute(ctx, p.bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	var po probeOutput
	if err := json.Unmarshal([]byte(out), &po); err != nil {
		return nil, fmt.Errorf("error unmarshalling ffprobe output: %w", err)
	}
	if po.Format.Duration == "" {
		return nil, fmt.Errorf("could not retrieve duration from ffprobe output")
	}
	duration, err := strconv.ParseFloat(po.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing duration string '%s': %w", po.Format.Duration, err)
	}

	info := &VideoInfo{
		Duration: math.Round(duration*100) / 100,
		FileSize: stat.Size(),
	}
	for _, s := range po.Streams {
		switch s.CodecType {
		case "video":
			if info.Size[0] == 0 {
				info.Size = [2]int{s.Width, s.Height}
				info.FPS = parseRate(s.AvgFrameRate)
				if info.FPS == 0 {
					info.FPS = parseRate(s.RFrameRate)
				}
			}
		case "audio":
			info.HasAudio = true
		}
	}
	return info, nil
}

// parseRate converts ffprobe rationals like "30000/1001" to frames per second
func parseRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		v, _ := strconv.ParseFloat(r, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return math.Round(n/d*100) / 100
}

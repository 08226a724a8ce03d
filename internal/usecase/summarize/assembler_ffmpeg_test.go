package summarize

import (
	"context"
	"math"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/pkg/config"
	"github.com/johnquangdev/video-summarizer/pkg/executor"
)

// requireFFmpeg skips unless ffmpeg, ffprobe and the default encoders are installed
func requireFFmpeg(t *testing.T) {
	t.Helper()

	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil || !strings.Contains(string(out), "libx264") {
		t.Skip("ffmpeg built without libx264")
	}
}

// makeSourceVideo renders a 60s test pattern whose audio is silent for the first 10s
func makeSourceVideo(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "source.mp4")
	cmd := exec.Command("ffmpeg", "-hide_banner", "-nostdin", "-y",
		"-f", "lavfi", "-i", "testsrc=duration=60:size=320x240:rate=25",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=60",
		"-af", "volume='if(lt(t,10),0,1)':eval=frame",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-preset", "ultrafast",
		"-c:a", "aac",
		"-shortest",
		path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("render source video: %v\n%s", err, out)
	}
	return path
}

var silenceStartRe = regexp.MustCompile(`silence_start: ([0-9.]+)`)

// silenceStarts lists where silent stretches of at least one second begin
func silenceStarts(t *testing.T, path string) []float64 {
	t.Helper()

	out, err := exec.Command("ffmpeg", "-hide_banner", "-nostdin",
		"-i", path,
		"-af", "silencedetect=noise=-50dB:d=1",
		"-f", "null", "-",
	).CombinedOutput()
	if err != nil {
		t.Fatalf("silencedetect: %v\n%s", err, out)
	}

	var starts []float64
	for _, m := range silenceStartRe.FindAllStringSubmatch(string(out), -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			t.Fatalf("parse %q: %v", m[1], err)
		}
		starts = append(starts, v)
	}
	return starts
}

func TestAssemble_FFmpegKeepsOrderAndLength(t *testing.T) {
	requireFFmpeg(t)

	dir := t.TempDir()
	src := makeSourceVideo(t, dir)
	out := filepath.Join(dir, "summary.mp4")

	exe := executor.New()
	prober := NewProber(exe, "ffprobe")
	assembler := NewFFmpegAssembler(exe, prober, config.PipelineConfig{Preset: "ultrafast"}, nil)

	segments := []entities.SummarySegment{
		{StartTime: 10, EndTime: 20, Importance: 3, Topic: "b"},
		{StartTime: 0, EndTime: 5, Importance: 9, Topic: "a"},
		{StartTime: 30, EndTime: 40, Importance: 5, Topic: "c"},
	}
	if err := assembler.Assemble(context.Background(), src, segments, out); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	info, err := prober.Probe(context.Background(), out)
	if err != nil {
		t.Fatalf("inspect output: %v", err)
	}
	if math.Abs(info.Duration-25) > 1 {
		t.Fatalf("expected about 25s of summary, got %.2f", info.Duration)
	}
	if !info.HasAudio || info.Size != [2]int{320, 240} {
		t.Fatalf("unexpected output streams %+v", info)
	}

	// the silent 0-5s excerpt must sit between the two tone excerpts
	starts := silenceStarts(t, out)
	if len(starts) != 1 || math.Abs(starts[0]-10) > 0.5 {
		t.Fatalf("expected one silent stretch starting near 10s, got %v", starts)
	}
}

func TestPipeline_FFmpegFallbackSummaryIsThirtySeconds(t *testing.T) {
	requireFFmpeg(t)

	dir := t.TempDir()
	src := makeSourceVideo(t, dir)
	out := filepath.Join(dir, "summary.mp4")

	exe := executor.New()
	prober := NewProber(exe, "ffprobe")
	p := NewPipeline(
		stubTranscriber{tr: evenTranscript(6, 60)},
		NewReasoningSelector(nil, nil, NewFallbackSelector(10), 0, nil),
		NewFFmpegAssembler(exe, prober, config.PipelineConfig{Preset: "ultrafast"}, nil),
		nil,
	)

	result, err := p.Run(context.Background(), src, out, func(int, string) {})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.OutputVideo != out {
		t.Fatalf("unexpected output %s", result.OutputVideo)
	}

	info, err := prober.Probe(context.Background(), out)
	if err != nil {
		t.Fatalf("inspect output: %v", err)
	}
	if math.Abs(info.Duration-30) > 1 {
		t.Fatalf("expected about 30s of summary, got %.2f", info.Duration)
	}
}

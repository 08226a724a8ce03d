package summarize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/pkg/config"
)

func newTestAssembler(fx *fakeExec) *FFmpegAssembler {
	return NewFFmpegAssembler(fx, NewProber(fx, "ffprobe"), config.PipelineConfig{FFmpegPath: "ffmpeg"}, nil)
}

func TestAssemble_PreservesSuppliedOrder(t *testing.T) {
	dir := t.TempDir()
	src := writeVideo(dir)
	out := filepath.Join(dir, "talk_summary.mp4")
	fx := &fakeExec{duration: 60}

	segments := []entities.SummarySegment{
		{StartTime: 10, EndTime: 20, Importance: 3, Topic: "b"},
		{StartTime: 0, EndTime: 5, Importance: 9, Topic: "a"},
		{StartTime: 30, EndTime: 40, Importance: 5, Topic: "c"},
	}
	if err := newTestAssembler(fx).Assemble(context.Background(), src, segments, out); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	var starts, durations []string
	for _, c := range fx.callsTo("ffmpeg") {
		if ss := argValue(c.args, "-ss"); ss != "" {
			starts = append(starts, ss)
			durations = append(durations, argValue(c.args, "-t"))
		}
	}
	if want := []string{"10.000", "0.000", "30.000"}; !reflect.DeepEqual(starts, want) {
		t.Fatalf("clips extracted out of order: %v", starts)
	}
	if want := []string{"10.000", "5.000", "10.000"}; !reflect.DeepEqual(durations, want) {
		t.Fatalf("unexpected clip durations: %v", durations)
	}

	lines := strings.Split(strings.TrimSpace(fx.concatList), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected concat list:\n%s", fx.concatList)
	}
	for i, name := range []string{"clip_000.mp4", "clip_001.mp4", "clip_002.mp4"} {
		if !strings.HasSuffix(lines[i], name+"'") {
			t.Fatalf("concat line %d = %q, want %s", i, lines[i], name)
		}
	}

	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if _, err := os.Stat(fx.concatDir); !os.IsNotExist(err) {
		t.Fatalf("temp dir %s should be removed, stat err=%v", fx.concatDir, err)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, ".summary-*"))
	if len(leftovers) != 0 {
		t.Fatalf("temp output left behind: %v", leftovers)
	}
}

func TestAssemble_RejectsBadRanges(t *testing.T) {
	tests := []struct {
		name string
		seg  entities.SummarySegment
	}{
		{name: "past end", seg: entities.SummarySegment{StartTime: 50, EndTime: 70, Importance: 5, Topic: "x"}},
		{name: "negative start", seg: entities.SummarySegment{StartTime: -1, EndTime: 5, Importance: 5, Topic: "x"}},
		{name: "empty range", seg: entities.SummarySegment{StartTime: 5, EndTime: 5, Importance: 5, Topic: "x"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeVideo(dir)
			out := filepath.Join(dir, "out.mp4")
			fx := &fakeExec{duration: 60}

			segments := []entities.SummarySegment{
				{StartTime: 0, EndTime: 5, Importance: 5, Topic: "ok"},
				tc.seg,
			}
			err := newTestAssembler(fx).Assemble(context.Background(), src, segments, out)
			if kind, ok := KindOf(err); !ok || kind != KindAssembly {
				t.Fatalf("expected AssemblyError, got %v", err)
			}
			if n := len(fx.callsTo("ffmpeg")); n != 0 {
				t.Fatalf("no clip should be cut before validation passes, got %d ffmpeg calls", n)
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Fatalf("no output expected, stat err=%v", err)
			}
		})
	}
}

func TestAssemble_ToleratesRoundedDuration(t *testing.T) {
	dir := t.TempDir()
	fx := &fakeExec{duration: 59.99}
	segments := []entities.SummarySegment{{StartTime: 50, EndTime: 60, Importance: 5, Topic: "end"}}

	if err := newTestAssembler(fx).Assemble(context.Background(), writeVideo(dir), segments, filepath.Join(dir, "o.mp4")); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	calls := fx.callsTo("ffmpeg")
	if got := argValue(calls[0].args, "-t"); got != "9.990" {
		t.Fatalf("clip should be clamped to the source end, got -t %s", got)
	}
}

func TestAssemble_ProbeAndDestinationFailures(t *testing.T) {
	dir := t.TempDir()
	src := writeVideo(dir)
	segments := []entities.SummarySegment{{StartTime: 0, EndTime: 5, Importance: 5, Topic: "x"}}

	fx := &fakeExec{probeErr: errors.New("moov atom not found")}
	err := newTestAssembler(fx).Assemble(context.Background(), src, segments, filepath.Join(dir, "o.mp4"))
	if kind, ok := KindOf(err); !ok || kind != KindAssembly {
		t.Fatalf("unreadable source: expected AssemblyError, got %v", err)
	}

	fx = &fakeExec{duration: 60}
	err = newTestAssembler(fx).Assemble(context.Background(), src, segments, filepath.Join(dir, "missing", "o.mp4"))
	if kind, ok := KindOf(err); !ok || kind != KindAssembly {
		t.Fatalf("unwritable destination: expected AssemblyError, got %v", err)
	}
}

func TestProbe_ReadsVideoInfo(t *testing.T) {
	dir := t.TempDir()
	fx := &fakeExec{duration: 596.4712}

	info, err := NewProber(fx, "").Probe(context.Background(), writeVideo(dir))
	if err != nil {
		t.Fatalf("inspect media: %v", err)
	}
	if info.Duration != 596.47 || info.FPS != 29.97 || info.Size != [2]int{1280, 720} || info.FileSize != 64 || !info.HasAudio {
		t.Fatalf("unexpected info %+v", info)
	}
}

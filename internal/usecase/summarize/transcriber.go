package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/pkg/config"
	"github.com/johnquangdev/video-summarizer/pkg/executor"
)

// Transcriber turns a video file into a timestamped transcript
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath string) (*entities.Transcript, error)
}

// AssemblyAIService is the subset of pkg/ai.AssemblyAIClient used here
type AssemblyAIService interface {
	TranscribeFile(ctx context.Context, path string) (aai.Transcript, error)
}

// finalize normalises ordering and checks the transcript invariants
func finalize(t *entities.Transcript) (*entities.Transcript, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, &StageError{Kind: KindTranscription, Err: err}
	}
	return t, nil
}

func checkSource(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return stageErrorf(KindTranscription, "cannot read video: %w", err)
	}
	if st.IsDir() {
		return stageErrorf(KindTranscription, "cannot read video: %s is a directory", path)
	}
	return nil
}

// AssemblyAITranscriber transcribes through the hosted AssemblyAI service
type AssemblyAITranscriber struct {
	client AssemblyAIService
	logger *zap.Logger
}

// NewAssemblyAITranscriber creates a transcriber backed by AssemblyAI
func NewAssemblyAITranscriber(client AssemblyAIService, logger *zap.Logger) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{client: client, logger: logger}
}

// Transcribe implements Transcriber
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, videoPath string) (*entities.Transcript, error) {
	if err := checkSource(videoPath); err != nil {
		return nil, err
	}
	if t.client == nil {
		return nil, stageErrorf(KindTranscription, "assemblyai client not configured")
	}

	if t.logger != nil {
		t.logger.Info("📤 Uploading video to AssemblyAI", jobFields(ctx, zap.String("path", videoPath))...)
	}

	start := time.Now()
	tr, err := t.client.TranscribeFile(ctx, videoPath)
	if err != nil {
		return nil, &StageError{Kind: KindTranscription, Err: err}
	}

	out := fromAssemblyAI(tr)
	if t.logger != nil {
		t.logger.Info("✅ Received transcript from AssemblyAI", jobFields(ctx,
			zap.Int("word_count", len(out.Words)),
			zap.Int("segment_count", len(out.Segments)),
			zap.Duration("elapsed", time.Since(start)),
		)...)
	}
	return finalize(out)
}

// fromAssemblyAI converts millisecond timings to seconds. Utterances become
// segments; without them a single segment spans all words.
func fromAssemblyAI(tr aai.Transcript) *entities.Transcript {
	out := &entities.Transcript{}
	if tr.Text != nil {
		out.FullText = *tr.Text
	}

	out.Words = make([]entities.Word, 0, len(tr.Words))
	for _, w := range tr.Words {
		word := entities.Word{Confidence: 1.0}
		if w.Text != nil {
			word.Text = *w.Text
		}
		if w.Start != nil {
			word.Start = float64(*w.Start) / 1000.0
		}
		if w.End != nil {
			word.End = float64(*w.End) / 1000.0
		}
		if w.Confidence != nil {
			word.Confidence = *w.Confidence
		}
		out.Words = append(out.Words, word)
	}

	out.Segments = make([]entities.Segment, 0, len(tr.Utterances))
	for _, u := range tr.Utterances {
		seg := entities.Segment{}
		if u.Text != nil {
			seg.Text = *u.Text
		}
		if u.Start != nil {
			seg.Start = float64(*u.Start) / 1000.0
		}
		if u.End != nil {
			seg.End = float64(*u.End) / 1000.0
		}
		out.Segments = append(out.Segments, seg)
	}

	if len(out.Segments) == 0 && len(out.Words) > 0 {
		span := entities.Segment{Text: out.FullText, Start: out.Words[0].Start, End: out.Words[0].End}
		for _, w := range out.Words[1:] {
			span.Start = math.Min(span.Start, w.Start)
			span.End = math.Max(span.End, w.End)
		}
		out.Segments = append(out.Segments, span)
	}
	return out
}

// WhisperTranscriber runs whisper.cpp locally on audio extracted with ffmpeg
type WhisperTranscriber struct {
	exec      executor.Executor
	ffmpeg    string
	binary    string
	modelPath string
	language  string
	threads   int
	logger    *zap.Logger
}

// NewWhisperTranscriber creates a local whisper.cpp transcriber
func NewWhisperTranscriber(exec executor.Executor, ffmpegPath string, cfg config.WhisperConfig, logger *zap.Logger) *WhisperTranscriber {
	w := &WhisperTranscriber{
		exec:      exec,
		ffmpeg:    ffmpegPath,
		binary:    cfg.BinaryPath,
		modelPath: cfg.ModelPath,
		language:  cfg.Language,
		threads:   cfg.Threads,
		logger:    logger,
	}
	if w.ffmpeg == "" {
		w.ffmpeg = "ffmpeg"
	}
	if w.binary == "" {
		w.binary = "whisper-cli"
	}
	if w.language == "" {
		w.language = "en"
	}
	if w.threads <= 0 {
		w.threads = 4
	}
	return w
}

// Transcribe implements Transcriber
func (w *WhisperTranscriber) Transcribe(ctx context.Context, videoPath string) (*entities.Transcript, error) {
	if err := checkSource(videoPath); err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "summary-audio-*")
	if err != nil {
		return nil, stageErrorf(KindTranscription, "create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	audioPath := filepath.Join(tmpDir, "audio.wav")
	if _, err := w.exec.Execute(ctx, w.ffmpeg,
		"-hide_banner", "-nostdin", "-y",
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		audioPath,
	); err != nil {
		return nil, stageErrorf(KindTranscription, "ffmpeg extract audio: %w", err)
	}

	if w.logger != nil {
		w.logger.Info("🎙️ Starting whisper transcription", jobFields(ctx,
			zap.String("model", w.modelPath),
			zap.Int("threads", w.threads),
		)...)
	}

	prefix := filepath.Join(tmpDir, "transcript")
	if _, err := w.exec.Execute(ctx, w.binary,
		"-m", w.modelPath,
		"-f", audioPath,
		"-l", w.language,
		"-t", strconv.Itoa(w.threads),
		"-ojf",
		"-of", prefix,
	); err != nil {
		return nil, stageErrorf(KindTranscription, "whisper transcribe: %w", err)
	}

	raw, err := os.ReadFile(prefix + ".json")
	if err != nil {
		return nil, stageErrorf(KindTranscription, "read whisper output: %w", err)
	}

	out, err := parseWhisperJSON(raw)
	if err != nil {
		return nil, &StageError{Kind: KindTranscription, Err: err}
	}
	return finalize(out)
}

type whisperOffsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type whisperOutput struct {
	Transcription []struct {
		Offsets whisperOffsets `json:"offsets"`
		Text    string         `json:"text"`
		Tokens  []struct {
			Text    string         `json:"text"`
			Offsets whisperOffsets `json:"offsets"`
			P       float64        `json:"p"`
		} `json:"tokens"`
	} `json:"transcription"`
}

// parseWhisperJSON reads whisper.cpp full JSON output. Tokens without a
// leading space continue the previous word; special [_..._] tokens are dropped.
func parseWhisperJSON(raw []byte) (*entities.Transcript, error) {
	var wo whisperOutput
	if err := json.Unmarshal(raw, &wo); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}

	out := &entities.Transcript{
		Words:    []entities.Word{},
		Segments: make([]entities.Segment, 0, len(wo.Transcription)),
	}
	texts := make([]string, 0, len(wo.Transcription))

	for _, entry := range wo.Transcription {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		out.Segments = append(out.Segments, entities.Segment{
			Text:  text,
			Start: float64(entry.Offsets.From) / 1000.0,
			End:   float64(entry.Offsets.To) / 1000.0,
		})

		continuing := false
		for _, tok := range entry.Tokens {
			if strings.HasPrefix(tok.Text, "[_") || strings.TrimSpace(tok.Text) == "" {
				continue
			}
			p := tok.P
			if p < 0 {
				p = 0
			} else if p > 1 {
				p = 1
			}
			start := float64(tok.Offsets.From) / 1000.0
			end := float64(tok.Offsets.To) / 1000.0

			if continuing && !strings.HasPrefix(tok.Text, " ") {
				last := &out.Words[len(out.Words)-1]
				last.Text += tok.Text
				if end > last.End {
					last.End = end
				}
				if p < last.Confidence {
					last.Confidence = p
				}
				continue
			}

			out.Words = append(out.Words, entities.Word{
				Text:       strings.TrimSpace(tok.Text),
				Start:      start,
				End:        end,
				Confidence: p,
			})
			continuing = true
		}
	}

	out.FullText = strings.Join(texts, " ")
	return out, nil
}

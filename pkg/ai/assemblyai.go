package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/video-summarizer/pkg/config"
)

// AssemblyAIClient wraps the official AssemblyAI SDK
type AssemblyAIClient struct {
	apiKey       string
	languageCode string
	sdk          *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	var apiKey, lang string
	if cfg != nil {
		apiKey = cfg.APIKey
		lang = cfg.LanguageCode
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	if lang == "" {
		lang = "en"
	}
	return &AssemblyAIClient{
		apiKey:       apiKey,
		languageCode: lang,
		sdk:          aai.NewClient(apiKey),
	}
}

// TranscribeFile uploads a local media file and waits for its transcript.
// Uploads are retried with exponential backoff; transcription itself is not.
func (c *AssemblyAIClient) TranscribeFile(ctx context.Context, path string) (aai.Transcript, error) {
	if c.apiKey == "" {
		return aai.Transcript{}, fmt.Errorf("assemblyai api key not configured")
	}

	var uploadURL string
	uploadFn := func() error {
		f, err := os.Open(path)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("open media file: %w", err))
		}
		defer f.Close()

		uploadURL, err = c.sdk.Upload(ctx, f)
		if err != nil {
			return fmt.Errorf("failed to upload to AssemblyAI: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(uploadFn, backoff.WithContext(bo, ctx)); err != nil {
		return aai.Transcript{}, err
	}

	params := &aai.TranscriptOptionalParams{
		LanguageCode:  aai.TranscriptLanguageCode(c.languageCode),
		SpeakerLabels: aai.Bool(true),
		Punctuate:     aai.Bool(true),
	}

	transcript, err := c.sdk.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return aai.Transcript{}, fmt.Errorf("assemblyai transcription failed: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return aai.Transcript{}, fmt.Errorf("assemblyai reported error: %s", msg)
	}

	return transcript, nil
}

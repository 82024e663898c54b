package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/salestrainer-team/sales-trainer/pkg/config"
)

// ErrTranscriptionDisabled is returned when no AssemblyAI API key is configured
var ErrTranscriptionDisabled = errors.New("assemblyai: api key not configured")

// AssemblyAIClient transcribes recorded speech segments
type AssemblyAIClient struct {
	apiKey  string
	timeout time.Duration
	client  *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}

	timeout := 60 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &AssemblyAIClient{
		apiKey:  apiKey,
		timeout: timeout,
		client:  aai.NewClient(apiKey),
	}
}

// IsConfigured reports whether the client has an API key
func (c *AssemblyAIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// TranscribeSegment uploads a recorded audio segment and waits for the
// transcript. The wait is bounded by the configured timeout so a stalled job
// cannot hang a live session.
func (c *AssemblyAIClient) TranscribeSegment(ctx context.Context, audio []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrTranscriptionDisabled
	}
	if len(audio) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	transcript, err := c.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(audio), nil)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcription failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai transcription failed: %s", msg)
	}
	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}

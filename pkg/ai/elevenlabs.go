package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/salestrainer-team/sales-trainer/pkg/config"
)

// ErrSynthesisDisabled is returned when no ElevenLabs API key is configured.
// Callers treat it as a soft failure and continue text-only.
var ErrSynthesisDisabled = errors.New("elevenlabs: api key not configured")

// DefaultVoicePool holds stock ElevenLabs voice IDs assigned round-robin to
// personas that were created without an explicit voice.
var DefaultVoicePool = []string{
	"21m00Tcm4TlvDq8ikWAM",
	"AZnzlk1XvdvUeBnXmlld",
	"EXAVITQu4vr4xnSDxMaL",
	"ErXwobaYiN019PkySvjV",
	"MF3mGyEYCl7XYWbV9V6O",
	"TxGEqnHWrfWFTfGW9XjX",
}

// VoiceSettings controls ElevenLabs voice rendering
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// personalitySettings maps a persona personality trait to voice settings.
// Unknown traits fall back to defaultVoiceSettings.
var personalitySettings = map[string]VoiceSettings{
	"angry":        {Stability: 0.3, SimilarityBoost: 0.8, Style: 0.6, UseSpeakerBoost: true},
	"arrogant":     {Stability: 0.7, SimilarityBoost: 0.7, Style: 0.5, UseSpeakerBoost: true},
	"soft":         {Stability: 0.8, SimilarityBoost: 0.6, Style: 0.3, UseSpeakerBoost: true},
	"cold_hearted": {Stability: 0.9, SimilarityBoost: 0.5, Style: 0.2, UseSpeakerBoost: false},
	"nice":         {Stability: 0.6, SimilarityBoost: 0.7, Style: 0.4, UseSpeakerBoost: true},
	"cool":         {Stability: 0.7, SimilarityBoost: 0.6, Style: 0.3, UseSpeakerBoost: true},
	"not_well":     {Stability: 0.9, SimilarityBoost: 0.5, Style: 0.1, UseSpeakerBoost: false},
	"analytical":   {Stability: 0.8, SimilarityBoost: 0.6, Style: 0.3, UseSpeakerBoost: true},
}

var defaultVoiceSettings = VoiceSettings{Stability: 0.5, SimilarityBoost: 0.75, Style: 0.0, UseSpeakerBoost: true}

// SettingsForPersonality returns the voice settings for a personality trait
func SettingsForPersonality(personality string) VoiceSettings {
	if s, ok := personalitySettings[personality]; ok {
		return s
	}
	return defaultVoiceSettings
}

// ElevenLabsClient is a minimal client for the ElevenLabs text-to-speech API
type ElevenLabsClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewElevenLabsClient creates an ElevenLabs client using values from the
// provided config. Pass a nil config to fall back to environment variables.
func NewElevenLabsClient(cfg *config.ElevenLabsConfig) *ElevenLabsClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ELEVENLABS_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("ELEVENLABS_API_URL")
		if base == "" {
			base = "https://api.elevenlabs.io"
		}
	}

	model := "eleven_multilingual_v2"
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	}

	return &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// IsConfigured reports whether the client has an API key
func (e *ElevenLabsClient) IsConfigured() bool {
	return e.apiKey != ""
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Synthesize converts text to MP3 audio with the given voice, tuning the voice
// settings to the persona's personality trait. Empty text returns nil audio
// without calling the API.
func (e *ElevenLabsClient) Synthesize(ctx context.Context, text, voiceID, personality string) ([]byte, error) {
	if text == "" {
		return nil, nil
	}
	if e.apiKey == "" {
		return nil, ErrSynthesisDisabled
	}

	reqBody := ttsRequest{
		Text:          text,
		ModelID:       e.model,
		VoiceSettings: SettingsForPersonality(personality),
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("elevenlabs returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return audio, nil
}

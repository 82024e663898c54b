package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/salestrainer-team/sales-trainer/pkg/config"
)

func TestSynthesize_Success(t *testing.T) {
	fakeAudio := []byte("mp3-bytes")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/voice-123" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Fatalf("missing api key header")
		}
		var payload ttsRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Text != "We tripled revenue last quarter." {
			t.Fatalf("unexpected text %q", payload.Text)
		}
		// angry preset
		if payload.VoiceSettings.Stability != 0.3 || payload.VoiceSettings.Style != 0.6 {
			t.Fatalf("expected angry voice settings, got %+v", payload.VoiceSettings)
		}
		w.Write(fakeAudio)
	}))
	defer ts.Close()

	client := NewElevenLabsClient(&config.ElevenLabsConfig{APIKey: "test-key", BaseURL: ts.URL})

	audio, err := client.Synthesize(context.Background(), "We tripled revenue last quarter.", "voice-123", "angry")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if string(audio) != string(fakeAudio) {
		t.Fatalf("unexpected audio %q", audio)
	}
}

func TestSynthesize_EmptyText(t *testing.T) {
	// No server: empty text must short-circuit before any request
	client := NewElevenLabsClient(&config.ElevenLabsConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"})

	audio, err := client.Synthesize(context.Background(), "", "voice-123", "nice")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if audio != nil {
		t.Fatalf("expected nil audio, got %q", audio)
	}
}

func TestSynthesize_NoAPIKey(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "")

	client := NewElevenLabsClient(&config.ElevenLabsConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := client.Synthesize(context.Background(), "hello", "voice-123", "nice")
	if !errors.Is(err, ErrSynthesisDisabled) {
		t.Fatalf("expected ErrSynthesisDisabled, got %v", err)
	}
}

func TestSettingsForPersonality_UnknownTrait(t *testing.T) {
	got := SettingsForPersonality("mystery")
	if got != defaultVoiceSettings {
		t.Fatalf("expected default settings for unknown trait, got %+v", got)
	}
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/salestrainer-team/sales-trainer/pkg/config"
)

func TestCreateJSONCompletion_Success(t *testing.T) {
	// Mock OpenAI server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		rf, ok := payload["response_format"].(map[string]interface{})
		if !ok || rf["type"] != "json_object" {
			t.Fatalf("expected json_object response format, got %v", payload["response_format"])
		}
		msgs, ok := payload["messages"].([]interface{})
		if !ok || len(msgs) != 2 {
			t.Fatalf("expected system plus user message, got %v", payload["messages"])
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"responder_id":"p1","reply":"Hello"}`}},
			},
		})
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.OpenAIConfig{APIKey: "test-key", BaseURL: ts.URL})

	content, err := client.CreateJSONCompletion(context.Background(), "You respond in JSON.", []ChatMessage{
		{Role: "user", Content: "Hi there"},
	})
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if content != `{"responder_id":"p1","reply":"Hello"}` {
		t.Fatalf("unexpected content %s", content)
	}
}

func TestCreateJSONCompletion_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.OpenAIConfig{APIKey: "test-key", BaseURL: ts.URL})

	if _, err := client.CreateJSONCompletion(context.Background(), "JSON", nil); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestCreateJSONCompletion_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.OpenAIConfig{APIKey: "test-key", BaseURL: ts.URL})

	if _, err := client.CreateJSONCompletion(context.Background(), "JSON", nil); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

package models

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "", nil)

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}
	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "", &bytes.Buffer{})

	err := lister.ListAvailableModels(context.Background(), "")
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .hanzirecall.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestListAvailableModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[
			{"id":"gpt-4o-mini","object":"model","owned_by":"openai"},
			{"id":"tts-1","object":"model","owned_by":"openai"},
			{"id":"gpt-4o","object":"model","owned_by":"openai"},
			{"id":"dall-e-3","object":"model","owned_by":"openai"},
			{"id":"gpt-4o-realtime-preview","object":"model","owned_by":"openai"},
			{"id":"text-embedding-3-small","object":"model","owned_by":"openai"}
		]}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	lister := NewLister("test-key", srv.URL+"/v1", &out)

	chatModels, err := lister.ChatModels(context.Background())
	if err != nil {
		t.Fatalf("ChatModels() error = %v", err)
	}
	if want := []string{"gpt-4o", "gpt-4o-mini"}; !reflect.DeepEqual(chatModels, want) {
		t.Errorf("ChatModels() = %v, want %v", chatModels, want)
	}

	if err := lister.ListAvailableModels(context.Background(), "gpt-4o-mini"); err != nil {
		t.Fatalf("ListAvailableModels() error = %v", err)
	}
	if !strings.Contains(out.String(), "* gpt-4o-mini") {
		t.Errorf("Expected configured model to be marked, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "tts-1") {
		t.Errorf("Did not expect TTS models in output:\n%s", out.String())
	}
}

func TestIsChatModel(t *testing.T) {
	tests := map[string]bool{
		"gpt-4o-mini":            true,
		"gpt-3.5-turbo":          true,
		"o3-mini":                true,
		"gpt-4o-mini-tts":        false,
		"gpt-4o-audio-preview":   false,
		"gpt-image-1":            false,
		"whisper-1":              false,
		"omni-moderation-latest": false,
		"text-embedding-3-large": false,
		"gpt-4o-search-preview":  false,
		"chatgpt-4o-latest":      true,
	}
	for id, want := range tests {
		if got := isChatModel(id); got != want {
			t.Errorf("isChatModel(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	lister := NewLister(apiKey, "", &bytes.Buffer{})
	if err := lister.ListAvailableModels(context.Background(), ""); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}

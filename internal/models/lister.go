package models

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
	out    io.Writer
}

// NewLister creates a new model lister. An empty baseURL means the public
// OpenAI endpoint; a nil out means stdout.
func NewLister(apiKey, baseURL string, out io.Writer) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if out == nil {
		out = os.Stdout
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
		out:    out,
	}
}

// ChatModels returns the sorted ids of chat-capable models
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .hanzirecall.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	chatModels := []string{}
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)
	return chatModels, nil
}

// isChatModel filters out audio, image, embedding and moderation models
func isChatModel(id string) bool {
	if !strings.HasPrefix(id, "gpt-") && !strings.HasPrefix(id, "o") && !strings.Contains(id, "chat") {
		return false
	}
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "image", "search", "embedding", "moderation"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return true
}

// ListAvailableModels prints the chat models, marking current as in use
func (l *Lister) ListAvailableModels(ctx context.Context, current string) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(l.out, "Available OpenAI chat models (for character lookups and mnemonics):")
	if len(chatModels) == 0 {
		fmt.Fprintln(l.out, "  No chat models found")
		return nil
	}

	for _, model := range chatModels {
		marker := " "
		if model == current {
			marker = "*"
		}
		fmt.Fprintf(l.out, "%s %s\n", marker, model)
	}
	if current != "" {
		fmt.Fprintf(l.out, "\n* currently configured (%s)\n", current)
	}

	return nil
}

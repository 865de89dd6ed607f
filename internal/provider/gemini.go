package provider

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// GeminiProvider generates mnemonics with Google Gemini
type GeminiProvider struct {
	apiKey string
	model  string
	client *genai.Client
}

// NewGeminiProvider creates a Gemini provider. The client is created even
// without a key so the provider can still report itself unavailable.
func NewGeminiProvider(ctx context.Context, config *Config) (*GeminiProvider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	model := config.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}

	p := &GeminiProvider{apiKey: config.GeminiKey, model: model}
	if config.GeminiKey == "" {
		return p, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.GeminiBaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = config.GeminiBaseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	p.client = client
	return p, nil
}

func (p *GeminiProvider) Name() hanzi.ProviderID {
	return hanzi.ProviderGemini
}

func (p *GeminiProvider) IsAvailable() error {
	if p.apiKey == "" || p.client == nil {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}

// GenerateMnemonic sends the mnemonic prompt through GenerateContent
func (p *GeminiProvider) GenerateMnemonic(ctx context.Context, req hanzi.MnemonicRequest) (*hanzi.MnemonicResult, error) {
	if err := p.IsAvailable(); err != nil {
		return nil, &Error{Provider: p.Name(), Kind: KindUnavailable, Err: err}
	}

	prompt := mnemonicSystemPrompt + "\n\n" + mnemonicPrompt(req)
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, callError(p.Name(), fmt.Errorf("Gemini API error: %w", err))
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, newError(p.Name(), KindMalformed, "empty mnemonic")
	}
	return &hanzi.MnemonicResult{Text: text, Source: p.Name()}, nil
}

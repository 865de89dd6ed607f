package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// OpenAIProvider uses the OpenAI chat API for both lookups and mnemonics
type OpenAIProvider struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config *Config) *OpenAIProvider {
	if config == nil {
		config = DefaultProviderConfig()
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	model := config.OpenAIModel
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIProvider{
		apiKey: config.OpenAIKey,
		model:  model,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) Name() hanzi.ProviderID {
	return hanzi.ProviderOpenAI
}

func (p *OpenAIProvider) IsAvailable() error {
	if p.apiKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// openAICharacter is the JSON object the lookup prompt asks for
type openAICharacter struct {
	Pronunciation  string   `json:"pronunciation"`
	Pinyin         string   `json:"pinyin"`
	Meaning        string   `json:"meaning"`
	Radical        string   `json:"radical"`
	RadicalMeaning string   `json:"radical_meaning"`
	RadicalNumber  flexText `json:"radical_number"`
	StrokeCount    flexText `json:"stroke_count"`
	Difficulty     string   `json:"difficulty"`
}

// flexText accepts both JSON strings and numbers, models emit either
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexText(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexText(n.String())
	return nil
}

// LookupCharacter asks the model for structured character data
func (p *OpenAIProvider) LookupCharacter(ctx context.Context, glyph string) (*hanzi.CharacterInfo, error) {
	if err := p.IsAvailable(); err != nil {
		return nil, &Error{Provider: p.Name(), Kind: KindUnavailable, Err: err}
	}

	content, err := p.complete(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: lookupSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: lookupPrompt(glyph)},
		},
		MaxTokens:   lookupMaxTokens,
		Temperature: lookupTemperature,
	})
	if err != nil {
		return nil, err
	}

	return p.parseCharacter(glyph, content)
}

func (p *OpenAIProvider) parseCharacter(glyph, content string) (*hanzi.CharacterInfo, error) {
	var payload openAICharacter
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &payload); err != nil {
		return nil, newError(p.Name(), KindMalformed, "failed to parse model response: %w", err)
	}

	pronunciation := strings.TrimSpace(payload.Pronunciation)
	if pronunciation == "" {
		pronunciation = strings.TrimSpace(payload.Pinyin)
	}
	meaning := strings.TrimSpace(payload.Meaning)
	if pronunciation == "" || meaning == "" {
		return nil, newError(p.Name(), KindMalformed, "response lacks pronunciation or meaning")
	}

	info := &hanzi.CharacterInfo{
		Glyph:          glyph,
		Pronunciation:  pronunciation,
		Meaning:        meaning,
		RadicalID:      leadingDigits(string(payload.RadicalNumber)),
		RadicalGlyph:   strings.TrimSpace(payload.Radical),
		RadicalMeaning: strings.TrimSpace(payload.RadicalMeaning),
		Difficulty:     strings.TrimSpace(payload.Difficulty),
		Source:         p.Name(),
	}
	if n, err := strconv.Atoi(leadingDigits(string(payload.StrokeCount))); err == nil {
		info.StrokeCount = n
	}
	return info, nil
}

// GenerateMnemonic asks the model for a short memory aid
func (p *OpenAIProvider) GenerateMnemonic(ctx context.Context, req hanzi.MnemonicRequest) (*hanzi.MnemonicResult, error) {
	if err := p.IsAvailable(); err != nil {
		return nil, &Error{Provider: p.Name(), Kind: KindUnavailable, Err: err}
	}

	content, err := p.complete(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: mnemonicSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: mnemonicPrompt(req)},
		},
		MaxTokens:   mnemonicMaxTokens,
		Temperature: mnemonicTemperature,
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(content)
	if text == "" {
		return nil, newError(p.Name(), KindMalformed, "empty mnemonic")
	}
	return &hanzi.MnemonicResult{Text: text, Source: p.Name()}, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", callError(p.Name(), fmt.Errorf("OpenAI API error: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", newError(p.Name(), KindMalformed, "no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// leadingDigits returns the decimal prefix of s, e.g. "85" for "85 (water)"
func leadingDigits(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return ""
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return ""
	}
	return strconv.Itoa(n)
}

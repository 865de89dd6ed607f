package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// Provider is the part every backend shares
type Provider interface {
	// Name returns the provider id used for attribution
	Name() hanzi.ProviderID

	// IsAvailable is a cheap local check, such as credential presence.
	// It never performs network I/O. A nil error means available.
	IsAvailable() error
}

// CharacterLookup resolves a glyph into pronunciation, meaning and radical
type CharacterLookup interface {
	Provider
	LookupCharacter(ctx context.Context, glyph string) (*hanzi.CharacterInfo, error)
}

// MnemonicGenerator writes a short memory aid for a character
type MnemonicGenerator interface {
	Provider
	GenerateMnemonic(ctx context.Context, req hanzi.MnemonicRequest) (*hanzi.MnemonicResult, error)
}

// Config holds settings for all providers
type Config struct {
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string // Empty means the public OpenAI endpoint

	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	CCDBEnabled bool
	CCDBBaseURL string

	UserAgent string
	Timeout   time.Duration // Upper bound for a single outbound call
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
		CCDBEnabled: true,
		CCDBBaseURL: DefaultCCDBBaseURL,
		UserAgent:   "hanzirecall",
		Timeout:     10 * time.Second,
	}
}

// NewLookupChain builds the ordered lookup chain: OpenAI, CCDB (when
// enabled) and the local fallback as terminal provider
func NewLookupChain(config *Config) []CharacterLookup {
	if config == nil {
		config = DefaultProviderConfig()
	}

	chain := []CharacterLookup{NewOpenAIProvider(config)}
	if config.CCDBEnabled {
		client := &http.Client{Timeout: config.Timeout}
		chain = append(chain, NewCCDBProvider(config.CCDBBaseURL, config.UserAgent, client))
	}
	return append(chain, NewFallbackProvider())
}

// NewMnemonicChain builds the ordered mnemonic chain: OpenAI, then Gemini
// when a Gemini key is configured
func NewMnemonicChain(ctx context.Context, config *Config) ([]MnemonicGenerator, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	chain := []MnemonicGenerator{NewOpenAIProvider(config)}
	if config.GeminiKey != "" {
		gemini, err := NewGeminiProvider(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("creating gemini provider: %w", err)
		}
		chain = append(chain, gemini)
	}
	return chain, nil
}

package hanzi

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// ProviderID identifies the provider that produced a result
type ProviderID string

const (
	ProviderOpenAI   ProviderID = "openai"
	ProviderCCDB     ProviderID = "ccdb"
	ProviderFallback ProviderID = "fallback"
	ProviderGemini   ProviderID = "gemini"
	// ProviderNone marks a mnemonic that no provider could generate
	ProviderNone ProviderID = "none"
)

// Values used by the local fallback record and the mnemonic backstop
const (
	FallbackMeaning        = "character"
	FallbackRadicalID      = "1"
	FallbackRadicalMeaning = "basic character"

	MnemonicUnavailableText = "Unable to generate mnemonic at this time."
)

// CharacterQuery is a validated lookup request for one or more CJK characters
type CharacterQuery struct {
	glyph string
}

// NewCharacterQuery trims the input and checks that it contains at least
// one CJK code point
func NewCharacterQuery(input string) (CharacterQuery, error) {
	glyph := strings.TrimSpace(input)
	if glyph == "" {
		return CharacterQuery{}, fmt.Errorf("empty input")
	}
	if !ContainsHan(glyph) {
		return CharacterQuery{}, fmt.Errorf("input %q does not contain any Chinese characters", glyph)
	}
	return CharacterQuery{glyph: glyph}, nil
}

// Glyph returns the queried characters
func (q CharacterQuery) Glyph() string {
	return q.glyph
}

// ContainsHan reports whether s contains at least one Han code point
func ContainsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// CharacterInfo is the normalized result of a character lookup
type CharacterInfo struct {
	Glyph          string     `json:"character"`
	Pronunciation  string     `json:"pinyin"`
	Meaning        string     `json:"meaning"`
	RadicalID      string     `json:"radical_number"`
	RadicalGlyph   string     `json:"radical_character"`
	RadicalMeaning string     `json:"radical_meaning"`
	StrokeCount    int        `json:"stroke_count,omitempty"`
	Difficulty     string     `json:"difficulty,omitempty"`
	Source         ProviderID `json:"source"`
}

// Degraded reports whether the radical sub-lookup left radical fields empty
func (c CharacterInfo) Degraded() bool {
	return c.RadicalID == "" || c.RadicalGlyph == "" || c.RadicalMeaning == ""
}

// MnemonicRequest builds the input for mnemonic generation from this result
func (c CharacterInfo) MnemonicRequest() MnemonicRequest {
	return MnemonicRequest{
		Glyph:         c.Glyph,
		Pronunciation: c.Pronunciation,
		Meaning:       c.Meaning,
	}
}

// MnemonicRequest carries what a generator needs to write a mnemonic
type MnemonicRequest struct {
	Glyph         string `json:"character"`
	Pronunciation string `json:"pinyin"`
	Meaning       string `json:"meaning"`
}

// MnemonicResult is a generated memory aid, or the unavailability notice
// when every generator failed
type MnemonicResult struct {
	Text     string     `json:"text"`
	Source   ProviderID `json:"source"`
	Degraded bool       `json:"degraded"`
}

// UnavailableMnemonic returns the backstop result used when no generator succeeds
func UnavailableMnemonic() MnemonicResult {
	return MnemonicResult{
		Text:     MnemonicUnavailableText,
		Source:   ProviderNone,
		Degraded: true,
	}
}

// RadicalEntry is one row of the radical table
type RadicalEntry struct {
	ID           int    `json:"id"`
	Glyph        string `json:"radical"`
	EnglishGloss string `json:"english"`
}

// ProviderStatus is a point-in-time availability record for one provider
type ProviderStatus struct {
	ProviderID    ProviderID `json:"provider"`
	Available     bool       `json:"available"`
	Reason        string     `json:"reason,omitempty"`
	LastCheckedAt time.Time  `json:"last_checked_at"`
}

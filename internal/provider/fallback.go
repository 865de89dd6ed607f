package provider

import (
	"context"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// FallbackProvider answers lookups from local data only. It is always
// available and never fails, so it terminates the lookup chain.
type FallbackProvider struct{}

// NewFallbackProvider creates a new local fallback provider
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

func (p *FallbackProvider) Name() hanzi.ProviderID {
	return hanzi.ProviderFallback
}

func (p *FallbackProvider) IsAvailable() error {
	return nil
}

// LookupCharacter returns the fallback record for glyph
func (p *FallbackProvider) LookupCharacter(_ context.Context, glyph string) (*hanzi.CharacterInfo, error) {
	return FallbackRecord(glyph), nil
}

// FallbackRecord builds the minimal record used when nothing better is
// known about glyph
func FallbackRecord(glyph string) *hanzi.CharacterInfo {
	pronunciation := Reading(glyph)
	if pronunciation == "" {
		pronunciation = glyph
	}

	return &hanzi.CharacterInfo{
		Glyph:          glyph,
		Pronunciation:  pronunciation,
		Meaning:        hanzi.FallbackMeaning,
		RadicalID:      hanzi.FallbackRadicalID,
		RadicalGlyph:   glyph,
		RadicalMeaning: hanzi.FallbackRadicalMeaning,
		Source:         hanzi.ProviderFallback,
	}
}

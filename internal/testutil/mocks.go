package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// MockProvider holds the availability and call bookkeeping shared by the
// lookup and mnemonic mocks. Availability can be flipped between calls.
type MockProvider struct {
	ID hanzi.ProviderID

	mu          sync.Mutex
	unavailable error
	calls       []string
}

// SetAvailable makes IsAvailable return nil
func (m *MockProvider) SetAvailable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = nil
}

// SetUnavailable makes IsAvailable return an error carrying reason
func (m *MockProvider) SetUnavailable(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = fmt.Errorf("%s", reason)
}

func (m *MockProvider) Name() hanzi.ProviderID {
	return m.ID
}

func (m *MockProvider) IsAvailable() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unavailable
}

// Calls returns the glyphs this mock was invoked with, in order
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how often the operation was invoked
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *MockProvider) record(glyph string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, glyph)
}

// wait blocks for delay or until ctx is done
func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MockLookup mocks a character lookup provider
type MockLookup struct {
	MockProvider

	Results map[string]hanzi.CharacterInfo
	Errors  map[string]error
	Err     error         // Returned for every glyph not in Results or Errors
	Delay   time.Duration // Simulated latency, cut short by the context
}

// NewMockLookup creates an available lookup mock
func NewMockLookup(id hanzi.ProviderID) *MockLookup {
	return &MockLookup{
		MockProvider: MockProvider{ID: id},
		Results:      make(map[string]hanzi.CharacterInfo),
		Errors:       make(map[string]error),
	}
}

// LookupCharacter mocks a lookup
func (m *MockLookup) LookupCharacter(ctx context.Context, glyph string) (*hanzi.CharacterInfo, error) {
	m.record(glyph)

	if err := wait(ctx, m.Delay); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[glyph]; ok {
		return nil, err
	}
	if info, ok := m.Results[glyph]; ok {
		info.Source = m.ID
		return &info, nil
	}
	if m.Err != nil {
		return nil, m.Err
	}

	return &hanzi.CharacterInfo{
		Glyph:         glyph,
		Pronunciation: "mock",
		Meaning:       fmt.Sprintf("mock meaning of %s", glyph),
		RadicalID:     "85",
		Source:        m.ID,
	}, nil
}

// MockGenerator mocks a mnemonic generator
type MockGenerator struct {
	MockProvider

	Text  string
	Err   error
	Delay time.Duration
}

// NewMockGenerator creates an available generator mock
func NewMockGenerator(id hanzi.ProviderID) *MockGenerator {
	return &MockGenerator{MockProvider: MockProvider{ID: id}}
}

// GenerateMnemonic mocks mnemonic generation
func (m *MockGenerator) GenerateMnemonic(ctx context.Context, req hanzi.MnemonicRequest) (*hanzi.MnemonicResult, error) {
	m.record(req.Glyph)

	if err := wait(ctx, m.Delay); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	text := m.Text
	if text == "" {
		text = fmt.Sprintf("mock mnemonic for %s", req.Glyph)
	}
	return &hanzi.MnemonicResult{Text: text, Source: m.ID}, nil
}

// RadicalEntries returns a small radical table fixture
func RadicalEntries() []hanzi.RadicalEntry {
	return []hanzi.RadicalEntry{
		{ID: 1, Glyph: "一", EnglishGloss: "one"},
		{ID: 38, Glyph: "女", EnglishGloss: "woman"},
		{ID: 85, Glyph: "水", EnglishGloss: "water"},
		{ID: 86, Glyph: "火", EnglishGloss: "fire"},
	}
}

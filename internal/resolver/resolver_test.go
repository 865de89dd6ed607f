package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
	"codeberg.org/snonux/hanzirecall/internal/provider"
	"codeberg.org/snonux/hanzirecall/internal/radical"
	"codeberg.org/snonux/hanzirecall/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTable(t *testing.T) *radical.Table {
	t.Helper()
	table, err := radical.New(testutil.RadicalEntries())
	require.NoError(t, err)
	return table
}

func malformed(p hanzi.ProviderID) error {
	return &provider.Error{Provider: p, Kind: provider.KindMalformed, Err: errors.New("invalid JSON")}
}

func lookups(ps ...provider.CharacterLookup) []provider.CharacterLookup { return ps }

func generators(ps ...provider.MnemonicGenerator) []provider.MnemonicGenerator { return ps }

func TestResolveCharacter_NonEmptyForAnyGlyph(t *testing.T) {
	openai := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	openai.SetUnavailable("no key")
	r := New(lookups(openai, provider.NewFallbackProvider()), nil, testTable(t), WithLogger(quietLogger()))

	for _, glyph := range []string{"水", "火", "好", "龘", "中国"} {
		info := r.ResolveCharacter(context.Background(), glyph)
		assert.NotEmpty(t, info.Meaning, glyph)
		assert.NotEmpty(t, info.Source, glyph)
		assert.Equal(t, glyph, info.Glyph)
	}
}

func TestResolveCharacter_CCDBAfterUnavailableOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"kDefinition":"water, liquid","kMandarin":"shuǐ","kRSKangXi":"85.3"}]`))
	}))
	defer srv.Close()

	openai := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	openai.SetUnavailable("OpenAI API key not configured")
	ccdb := provider.NewCCDBProvider(srv.URL, "hanzirecall/test", srv.Client())
	fallback := testutil.NewMockLookup(hanzi.ProviderFallback)

	r := New(lookups(openai, ccdb, fallback), nil, testTable(t), WithLogger(quietLogger()))
	info, trace := r.ResolveCharacterTrace(context.Background(), "水")

	assert.Equal(t, hanzi.ProviderCCDB, info.Source)
	assert.Equal(t, "85", info.RadicalID)
	assert.Equal(t, "水", info.RadicalGlyph)
	assert.Equal(t, "water", info.RadicalMeaning)
	assert.Equal(t, "water, liquid", info.Meaning)
	assert.False(t, info.Degraded())

	assert.Zero(t, openai.CallCount(), "unavailable provider must not be invoked")
	assert.Zero(t, fallback.CallCount(), "chain must stop at first success")

	require.Len(t, trace.Attempts, 2)
	assert.Equal(t, StatusSkipped, trace.Attempts[0].Status)
	assert.Equal(t, StatusSucceeded, trace.Attempts[1].Status)
	src, ok := trace.Succeeded()
	assert.True(t, ok)
	assert.Equal(t, hanzi.ProviderCCDB, src)
}

func TestResolveCharacter_AllUnavailable(t *testing.T) {
	openai := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	openai.SetUnavailable("no key")
	ccdb := testutil.NewMockLookup(hanzi.ProviderCCDB)
	ccdb.Err = &provider.Error{Provider: hanzi.ProviderCCDB, Kind: provider.KindUnavailable, Err: errors.New("connection refused")}

	r := New(lookups(openai, ccdb, provider.NewFallbackProvider()), nil, testTable(t), WithLogger(quietLogger()))
	info, trace := r.ResolveCharacterTrace(context.Background(), "水")

	assert.Equal(t, hanzi.ProviderFallback, info.Source)
	assert.Equal(t, "character", info.Meaning)
	assert.Equal(t, "1", info.RadicalID)
	assert.Equal(t, "水", info.RadicalGlyph)
	assert.Equal(t, "basic character", info.RadicalMeaning)
	assert.Equal(t, "shuǐ", info.Pronunciation)

	failures := trace.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, hanzi.ProviderCCDB, failures[0].Provider)
	assert.Equal(t, provider.KindUnavailable, failures[0].Kind)
}

func TestResolveCharacter_ExhaustedWithoutFallbackProvider(t *testing.T) {
	openai := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	openai.Err = malformed(hanzi.ProviderOpenAI)

	r := New(lookups(openai), nil, testTable(t), WithLogger(quietLogger()))
	info := r.ResolveCharacter(context.Background(), "火")

	assert.Equal(t, hanzi.ProviderFallback, info.Source)
	assert.Equal(t, "character", info.Meaning)
	assert.Equal(t, "huǒ", info.Pronunciation)
}

func TestResolveCharacter_MalformedOpenAIProceeds(t *testing.T) {
	openai := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	openai.Err = malformed(hanzi.ProviderOpenAI)
	ccdb := testutil.NewMockLookup(hanzi.ProviderCCDB)

	r := New(lookups(openai, ccdb, provider.NewFallbackProvider()), nil, testTable(t), WithLogger(quietLogger()))
	info, trace := r.ResolveCharacterTrace(context.Background(), "水")

	assert.NotEqual(t, hanzi.ProviderOpenAI, info.Source)
	assert.Equal(t, hanzi.ProviderCCDB, info.Source)
	assert.Equal(t, 1, openai.CallCount())
	assert.Equal(t, 1, ccdb.CallCount())

	require.Len(t, trace.Attempts, 2)
	assert.Equal(t, StatusFailed, trace.Attempts[0].Status)
	assert.Equal(t, provider.KindMalformed, trace.Attempts[0].Kind)
}

func TestResolveCharacter_RadicalSubstep(t *testing.T) {
	tests := []struct {
		name        string
		info        hanzi.CharacterInfo
		wantID      string
		wantGlyph   string
		wantMeaning string
		degraded    bool
	}{
		{
			name:   "known id",
			info:   hanzi.CharacterInfo{Pronunciation: "shuǐ", Meaning: "water", RadicalID: "85"},
			wantID: "85", wantGlyph: "水", wantMeaning: "water",
		},
		{
			name:     "unknown id",
			info:     hanzi.CharacterInfo{Pronunciation: "shuǐ", Meaning: "water", RadicalID: "999"},
			wantID:   "999",
			degraded: true,
		},
		{
			name:     "unknown id discards model radical",
			info:     hanzi.CharacterInfo{Pronunciation: "shuǐ", Meaning: "water", RadicalID: "200", RadicalGlyph: "黍", RadicalMeaning: "millet"},
			wantID:   "200",
			degraded: true,
		},
		{
			name:   "id recovered from glyph",
			info:   hanzi.CharacterInfo{Pronunciation: "hǎo", Meaning: "good", RadicalGlyph: "女", RadicalMeaning: "female"},
			wantID: "38", wantGlyph: "女", wantMeaning: "female",
		},
		{
			name:   "id recovered from variant glyph",
			info:   hanzi.CharacterInfo{Pronunciation: "hé", Meaning: "river", RadicalGlyph: "氵"},
			wantID: "85", wantGlyph: "氵", wantMeaning: "water",
		},
		{
			name:      "unknown glyph keeps model radical",
			info:      hanzi.CharacterInfo{Pronunciation: "mǎ", Meaning: "horse", RadicalGlyph: "馬", RadicalMeaning: "horse"},
			wantGlyph: "馬", wantMeaning: "horse",
			degraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			openai := testutil.NewMockLookup(hanzi.ProviderOpenAI)
			openai.Results["字"] = tt.info

			r := New(lookups(openai), nil, testTable(t), WithLogger(quietLogger()))
			info := r.ResolveCharacter(context.Background(), "字")

			assert.Equal(t, hanzi.ProviderOpenAI, info.Source)
			assert.Equal(t, tt.wantID, info.RadicalID)
			assert.Equal(t, tt.wantGlyph, info.RadicalGlyph)
			assert.Equal(t, tt.wantMeaning, info.RadicalMeaning)
			assert.Equal(t, tt.degraded, info.Degraded())
			assert.Equal(t, tt.info.Meaning, info.Meaning, "degraded success keeps the rest of the record")
		})
	}
}

func TestResolveCharacter_FallbackSkipsRadicalSubstep(t *testing.T) {
	r := New(lookups(provider.NewFallbackProvider()), nil, testTable(t), WithLogger(quietLogger()))
	info := r.ResolveCharacter(context.Background(), "好")

	// Radical 1 is "一" in the table but the fallback record keeps the glyph itself
	assert.Equal(t, "1", info.RadicalID)
	assert.Equal(t, "好", info.RadicalGlyph)
	assert.Equal(t, "basic character", info.RadicalMeaning)
}

func TestResolveCharacter_NilTable(t *testing.T) {
	ccdb := testutil.NewMockLookup(hanzi.ProviderCCDB)
	r := New(lookups(ccdb), nil, nil, WithLogger(quietLogger()))

	info := r.ResolveCharacter(context.Background(), "水")
	assert.Equal(t, hanzi.ProviderCCDB, info.Source)
	assert.Equal(t, "85", info.RadicalID)
	assert.Empty(t, info.RadicalGlyph)
	assert.True(t, info.Degraded())
}

func TestResolveCharacter_Timeout(t *testing.T) {
	slow := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	slow.Delay = 5 * time.Second
	ccdb := testutil.NewMockLookup(hanzi.ProviderCCDB)

	r := New(lookups(slow, ccdb), nil, testTable(t),
		WithLogger(quietLogger()), WithTimeout(50*time.Millisecond))

	start := time.Now()
	info, trace := r.ResolveCharacterTrace(context.Background(), "水")

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, hanzi.ProviderCCDB, info.Source)
	require.Len(t, trace.Attempts, 2)
	assert.Equal(t, provider.KindTimeout, trace.Attempts[0].Kind)
}

func TestResolveCharacter_CallerCancellation(t *testing.T) {
	slow := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	slow.Delay = 5 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(lookups(slow), nil, testTable(t), WithLogger(quietLogger()))
	info, trace := r.ResolveCharacterTrace(ctx, "水")

	assert.Equal(t, hanzi.ProviderFallback, info.Source)
	require.Len(t, trace.Attempts, 1)
	assert.Equal(t, provider.KindTimeout, trace.Attempts[0].Kind)
}

type nilLookup struct{ testutil.MockProvider }

func (n *nilLookup) LookupCharacter(context.Context, string) (*hanzi.CharacterInfo, error) {
	return nil, nil
}

func TestResolveCharacter_NilResultIsMalformed(t *testing.T) {
	broken := &nilLookup{MockProvider: testutil.MockProvider{ID: hanzi.ProviderOpenAI}}
	ccdb := testutil.NewMockLookup(hanzi.ProviderCCDB)

	r := New(lookups(broken, ccdb), nil, testTable(t), WithLogger(quietLogger()))
	info, trace := r.ResolveCharacterTrace(context.Background(), "水")

	assert.Equal(t, hanzi.ProviderCCDB, info.Source)
	assert.Equal(t, provider.KindMalformed, trace.Attempts[0].Kind)
}

func TestResolveCharacter_AvailabilityRecheckedEveryRequest(t *testing.T) {
	openai := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	ccdb := testutil.NewMockLookup(hanzi.ProviderCCDB)
	r := New(lookups(openai, ccdb), nil, testTable(t), WithLogger(quietLogger()))

	openai.SetUnavailable("no key")
	assert.Equal(t, hanzi.ProviderCCDB, r.ResolveCharacter(context.Background(), "水").Source)

	openai.SetAvailable()
	assert.Equal(t, hanzi.ProviderOpenAI, r.ResolveCharacter(context.Background(), "水").Source)

	// A failure does not blacklist the provider for the next request
	openai.Errors["火"] = malformed(hanzi.ProviderOpenAI)
	assert.Equal(t, hanzi.ProviderCCDB, r.ResolveCharacter(context.Background(), "火").Source)
	assert.Equal(t, hanzi.ProviderOpenAI, r.ResolveCharacter(context.Background(), "水").Source)
}

func TestResolveCharacter_Concurrent(t *testing.T) {
	openai := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	r := New(lookups(openai, provider.NewFallbackProvider()), nil, testTable(t), WithLogger(quietLogger()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info := r.ResolveCharacter(context.Background(), "水")
			assert.Equal(t, "水", info.RadicalGlyph)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, openai.CallCount())
}

func TestResolveMnemonic(t *testing.T) {
	req := hanzi.MnemonicRequest{Glyph: "水", Pronunciation: "shuǐ", Meaning: "water"}

	t.Run("first available wins", func(t *testing.T) {
		openai := testutil.NewMockGenerator(hanzi.ProviderOpenAI)
		openai.SetUnavailable("no key")
		gemini := testutil.NewMockGenerator(hanzi.ProviderGemini)
		gemini.Text = "Three strokes splash like water."

		r := New(nil, generators(openai, gemini), nil, WithLogger(quietLogger()))
		result := r.ResolveMnemonic(context.Background(), req)

		assert.Equal(t, "Three strokes splash like water.", result.Text)
		assert.Equal(t, hanzi.ProviderGemini, result.Source)
		assert.False(t, result.Degraded)
		assert.Zero(t, openai.CallCount())
	})

	t.Run("failure moves on", func(t *testing.T) {
		openai := testutil.NewMockGenerator(hanzi.ProviderOpenAI)
		openai.Err = malformed(hanzi.ProviderOpenAI)
		gemini := testutil.NewMockGenerator(hanzi.ProviderGemini)

		r := New(nil, generators(openai, gemini), nil, WithLogger(quietLogger()))
		result, trace := r.ResolveMnemonicTrace(context.Background(), req)

		assert.Equal(t, hanzi.ProviderGemini, result.Source)
		assert.Equal(t, ChainMnemonic, trace.Chain)
		assert.Len(t, trace.Failures(), 1)
	})

	t.Run("all unavailable", func(t *testing.T) {
		openai := testutil.NewMockGenerator(hanzi.ProviderOpenAI)
		openai.SetUnavailable("no key")
		gemini := testutil.NewMockGenerator(hanzi.ProviderGemini)
		gemini.SetUnavailable("no key")

		r := New(nil, generators(openai, gemini), nil, WithLogger(quietLogger()))
		result := r.ResolveMnemonic(context.Background(), req)

		assert.Equal(t, "Unable to generate mnemonic at this time.", result.Text)
		assert.Equal(t, hanzi.ProviderNone, result.Source)
		assert.True(t, result.Degraded)
	})

	t.Run("empty chain", func(t *testing.T) {
		r := New(nil, nil, nil, WithLogger(quietLogger()))
		result := r.ResolveMnemonic(context.Background(), req)
		assert.Equal(t, hanzi.UnavailableMnemonic(), result)
	})
}

type recordedAttempt struct {
	chain, provider, outcome string
}

type fakeRecorder struct {
	mu       sync.Mutex
	attempts []recordedAttempt
}

func (f *fakeRecorder) ObserveAttempt(chain, provider, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, recordedAttempt{chain, provider, outcome})
}

func TestResolver_RecordsAttempts(t *testing.T) {
	openai := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	openai.SetUnavailable("no key")
	ccdb := testutil.NewMockLookup(hanzi.ProviderCCDB)
	ccdb.Err = &provider.Error{Kind: provider.KindNotFound}
	gen := testutil.NewMockGenerator(hanzi.ProviderOpenAI)

	rec := &fakeRecorder{}
	r := New(lookups(openai, ccdb, provider.NewFallbackProvider()), generators(gen), testTable(t),
		WithLogger(quietLogger()), WithRecorder(rec))

	r.ResolveCharacter(context.Background(), "水")
	r.ResolveMnemonic(context.Background(), hanzi.MnemonicRequest{Glyph: "水"})

	assert.Equal(t, []recordedAttempt{
		{"lookup", "openai", "skipped"},
		{"lookup", "ccdb", "failed"},
		{"lookup", "fallback", "succeeded"},
		{"mnemonic", "openai", "succeeded"},
	}, rec.attempts)
}

func TestResolver_Providers(t *testing.T) {
	openaiLookup := testutil.NewMockLookup(hanzi.ProviderOpenAI)
	ccdb := testutil.NewMockLookup(hanzi.ProviderCCDB)
	openaiGen := testutil.NewMockGenerator(hanzi.ProviderOpenAI)
	gemini := testutil.NewMockGenerator(hanzi.ProviderGemini)

	r := New(lookups(openaiLookup, ccdb), generators(openaiGen, gemini), nil)

	var names []hanzi.ProviderID
	for _, p := range r.Providers() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []hanzi.ProviderID{hanzi.ProviderOpenAI, hanzi.ProviderCCDB, hanzi.ProviderGemini}, names)
}

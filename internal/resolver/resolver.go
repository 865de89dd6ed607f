package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
	"codeberg.org/snonux/hanzirecall/internal/provider"
	"codeberg.org/snonux/hanzirecall/internal/radical"
)

// DefaultTimeout bounds a single provider call
const DefaultTimeout = 10 * time.Second

var errNoResult = errors.New("provider returned no result")

// Recorder receives one observation per provider attempt
type Recorder interface {
	ObserveAttempt(chain, provider, outcome string, d time.Duration)
}

// Resolver walks the lookup and mnemonic chains. The chains are read-only
// after construction, so one Resolver can serve concurrent requests.
type Resolver struct {
	lookups    []provider.CharacterLookup
	generators []provider.MnemonicGenerator
	radicals   *radical.Table

	timeout  time.Duration
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Resolver
type Option func(*Resolver)

// WithTimeout sets the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder sets where attempt metrics go
func WithRecorder(rec Recorder) Option {
	return func(r *Resolver) {
		r.recorder = rec
	}
}

// New creates a resolver over the given chains. A nil radical table
// leaves radical glyph and meaning empty for every numeric radical id.
func New(lookups []provider.CharacterLookup, generators []provider.MnemonicGenerator, radicals *radical.Table, opts ...Option) *Resolver {
	r := &Resolver{
		lookups:    append([]provider.CharacterLookup(nil), lookups...),
		generators: append([]provider.MnemonicGenerator(nil), generators...),
		radicals:   radicals,
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns every configured provider once, lookup chain first
func (r *Resolver) Providers() []provider.Provider {
	seen := make(map[hanzi.ProviderID]bool)
	var all []provider.Provider

	add := func(p provider.Provider) {
		if seen[p.Name()] {
			return
		}
		seen[p.Name()] = true
		all = append(all, p)
	}
	for _, p := range r.lookups {
		add(p)
	}
	for _, p := range r.generators {
		add(p)
	}
	return all
}

// ResolveCharacter returns the best available record for glyph. It never
// fails; when every provider fails the local fallback record is returned.
func (r *Resolver) ResolveCharacter(ctx context.Context, glyph string) hanzi.CharacterInfo {
	info, _ := r.ResolveCharacterTrace(ctx, glyph)
	return info
}

// ResolveCharacterTrace is ResolveCharacter plus the attempt trace
func (r *Resolver) ResolveCharacterTrace(ctx context.Context, glyph string) (hanzi.CharacterInfo, Trace) {
	trace := Trace{Chain: ChainLookup}
	logger := r.logger.With("chain", ChainLookup, "glyph", glyph)

	for _, p := range r.lookups {
		info, ok := attempt(ctx, r, &trace, logger, p, func(ctx context.Context) (*hanzi.CharacterInfo, error) {
			return p.LookupCharacter(ctx, glyph)
		})
		if !ok {
			continue
		}

		result := *info
		if result.Glyph == "" {
			result.Glyph = glyph
		}
		result.Source = p.Name()
		if result.Source != hanzi.ProviderFallback {
			r.fillRadical(&result, logger)
		}
		return result, trace
	}

	logger.Warn("All lookup providers failed, using fallback record", "attempts", len(trace.Attempts))
	return *provider.FallbackRecord(glyph), trace
}

// ResolveMnemonic returns a mnemonic for req, or the unavailability
// notice when no generator succeeds
func (r *Resolver) ResolveMnemonic(ctx context.Context, req hanzi.MnemonicRequest) hanzi.MnemonicResult {
	result, _ := r.ResolveMnemonicTrace(ctx, req)
	return result
}

// ResolveMnemonicTrace is ResolveMnemonic plus the attempt trace
func (r *Resolver) ResolveMnemonicTrace(ctx context.Context, req hanzi.MnemonicRequest) (hanzi.MnemonicResult, Trace) {
	trace := Trace{Chain: ChainMnemonic}
	logger := r.logger.With("chain", ChainMnemonic, "glyph", req.Glyph)

	for _, p := range r.generators {
		result, ok := attempt(ctx, r, &trace, logger, p, func(ctx context.Context) (*hanzi.MnemonicResult, error) {
			return p.GenerateMnemonic(ctx, req)
		})
		if !ok {
			continue
		}

		mnemonic := *result
		mnemonic.Source = p.Name()
		mnemonic.Degraded = false
		return mnemonic, trace
	}

	logger.Warn("All mnemonic providers failed", "attempts", len(trace.Attempts))
	return hanzi.UnavailableMnemonic(), trace
}

// attempt runs one step of a chain: the availability check, then a
// bounded call. It appends the attempt to trace and reports success.
func attempt[T any](ctx context.Context, r *Resolver, trace *Trace, logger *slog.Logger, p provider.Provider, fn func(context.Context) (*T, error)) (*T, bool) {
	name := p.Name()

	if err := p.IsAvailable(); err != nil {
		logger.Debug("Skipping unavailable provider", "provider", name, "reason", err)
		r.record(trace, Attempt{Provider: name, Status: StatusSkipped, Err: err})
		return nil, false
	}

	start := time.Now()
	v, err := call(ctx, r.timeout, fn)
	elapsed := time.Since(start)

	if err != nil {
		kind := provider.Classify(err)
		if kind == provider.KindUnavailable {
			logger.Debug("Provider failed", "provider", name, "kind", kind, "error", err)
		} else {
			logger.Warn("Provider failed", "provider", name, "kind", kind, "error", err)
		}
		r.record(trace, Attempt{Provider: name, Status: StatusFailed, Kind: kind, Err: err, Duration: elapsed})
		return nil, false
	}

	logger.Debug("Provider succeeded", "provider", name, "duration", elapsed)
	r.record(trace, Attempt{Provider: name, Status: StatusSucceeded, Duration: elapsed})
	return v, true
}

// call invokes fn under a deadline. If the deadline fires first the call
// is abandoned and its late result dropped into the buffered channel.
func call[T any](parent context.Context, timeout time.Duration, fn func(context.Context) (*T, error)) (*T, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	type result struct {
		v   *T
		err error
	}
	done := make(chan result, 1)

	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if res.v == nil {
			return nil, &provider.Error{Kind: provider.KindMalformed, Err: errNoResult}
		}
		return res.v, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("provider call abandoned: %w", ctx.Err())
	}
}

func (r *Resolver) record(trace *Trace, a Attempt) {
	trace.Attempts = append(trace.Attempts, a)
	if r.recorder != nil {
		r.recorder.ObserveAttempt(trace.Chain, string(a.Provider), string(a.Status), a.Duration)
	}
}

// fillRadical resolves the radical fields of info against the radical
// table. A numeric id that the table does not know clears glyph and
// meaning; a missing id is recovered from the radical glyph if possible.
func (r *Resolver) fillRadical(info *hanzi.CharacterInfo, logger *slog.Logger) {
	if info.RadicalID == "" {
		if info.RadicalGlyph == "" {
			return
		}
		id, ok := r.radicals.IDForGlyph(info.RadicalGlyph)
		if !ok {
			logger.Warn("Radical glyph not in radical table", "radical", info.RadicalGlyph)
			return
		}
		info.RadicalID = strconv.Itoa(id)
		if info.RadicalMeaning == "" {
			if entry, ok := r.radicals.Lookup(id); ok {
				info.RadicalMeaning = entry.EnglishGloss
			}
		}
		return
	}

	entry, ok := r.radicals.LookupString(info.RadicalID)
	if !ok {
		logger.Warn("Radical id not in radical table", "radical_id", info.RadicalID)
		info.RadicalGlyph = ""
		info.RadicalMeaning = ""
		return
	}
	info.RadicalGlyph = entry.Glyph
	info.RadicalMeaning = entry.EnglishGloss
}

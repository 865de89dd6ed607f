package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/hanzirecall/internal"
	"codeberg.org/snonux/hanzirecall/internal/anki"
	"codeberg.org/snonux/hanzirecall/internal/batch"
	"codeberg.org/snonux/hanzirecall/internal/hanzi"
	"codeberg.org/snonux/hanzirecall/internal/resolver"
)

// Card is a fully processed character
type Card struct {
	ID       string
	Info     hanzi.CharacterInfo
	Mnemonic hanzi.MnemonicResult
}

// Options controls what the processor does besides resolving
type Options struct {
	SkipMnemonics bool   // Lookups only
	Verbose       bool   // Print the provider attempt trace
	CSVFile       string // Write cards as CSV when set
	APKGFile      string // Write cards as an Anki package when set
	DeckName      string // Deck name inside the APKG
}

// Processor handles the main character processing logic
type Processor struct {
	resolver *resolver.Resolver
	options  Options
	out      io.Writer
	logger   *slog.Logger
}

// NewProcessor creates a new character processor printing to out
func NewProcessor(r *resolver.Resolver, options Options, out io.Writer, logger *slog.Logger) *Processor {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	if options.DeckName == "" {
		options.DeckName = "Chinese Characters"
	}
	return &Processor{resolver: r, options: options, out: out, logger: logger}
}

// Lookup validates input and resolves it without a mnemonic
func (p *Processor) Lookup(ctx context.Context, input string) (hanzi.CharacterInfo, error) {
	query, err := hanzi.NewCharacterQuery(input)
	if err != nil {
		return hanzi.CharacterInfo{}, fmt.Errorf("invalid character %q: %w", input, err)
	}

	info, trace := p.resolver.ResolveCharacterTrace(ctx, query.Glyph())
	p.printTrace(trace)
	p.printInfo(info)
	return info, nil
}

// Mnemonic resolves a mnemonic for req and prints it
func (p *Processor) Mnemonic(ctx context.Context, req hanzi.MnemonicRequest) (hanzi.MnemonicResult, error) {
	query, err := hanzi.NewCharacterQuery(req.Glyph)
	if err != nil {
		return hanzi.MnemonicResult{}, fmt.Errorf("invalid character %q: %w", req.Glyph, err)
	}
	req.Glyph = query.Glyph()

	result, trace := p.resolver.ResolveMnemonicTrace(ctx, req)
	p.printTrace(trace)
	p.printMnemonic(result)
	return result, nil
}

// ProcessSingle builds one card: lookup, then a mnemonic from the lookup
func (p *Processor) ProcessSingle(ctx context.Context, input string) (*Card, error) {
	query, err := hanzi.NewCharacterQuery(input)
	if err != nil {
		return nil, fmt.Errorf("invalid character %q: %w", input, err)
	}

	fmt.Fprintf(p.out, "\nProcessing: %s\n", query.Glyph())
	return p.process(ctx, batch.Entry{Glyph: query.Glyph()}), nil
}

func (p *Processor) process(ctx context.Context, entry batch.Entry) *Card {
	info, trace := p.resolver.ResolveCharacterTrace(ctx, entry.Glyph)
	p.printTrace(trace)

	if entry.Meaning != "" {
		fmt.Fprintf(p.out, "  Using provided meaning: %s\n", entry.Meaning)
		info.Meaning = entry.Meaning
	}
	p.printInfo(info)

	card := &Card{
		ID:       internal.GenerateCardID(info.Glyph),
		Info:     info,
		Mnemonic: hanzi.UnavailableMnemonic(),
	}
	if p.options.SkipMnemonics {
		return card
	}

	mnemonic, trace := p.resolver.ResolveMnemonicTrace(ctx, info.MnemonicRequest())
	p.printTrace(trace)
	p.printMnemonic(mnemonic)
	card.Mnemonic = mnemonic
	return card
}

// ProcessBatch processes every entry in order and exports the cards
func (p *Processor) ProcessBatch(ctx context.Context, entries []batch.Entry) ([]*Card, error) {
	cards := make([]*Card, 0, len(entries))
	fallbackCount := 0
	noMnemonicCount := 0

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return cards, fmt.Errorf("batch interrupted after %d of %d: %w", i, len(entries), err)
		}

		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Glyph)
		card := p.process(ctx, entry)
		cards = append(cards, card)

		if card.Info.Source == hanzi.ProviderFallback {
			fallbackCount++
		}
		if card.Mnemonic.Degraded && !p.options.SkipMnemonics {
			noMnemonicCount++
		}
	}

	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total characters: %d\n", len(entries))
	fmt.Fprintf(p.out, "Local fallback used: %d\n", fallbackCount)
	if !p.options.SkipMnemonics {
		fmt.Fprintf(p.out, "Without mnemonic: %d\n", noMnemonicCount)
	}
	fmt.Fprintf(p.out, "================================\n")

	return cards, p.Export(cards)
}

// Export writes cards to the configured CSV and APKG files
func (p *Processor) Export(cards []*Card) error {
	if p.options.CSVFile == "" && p.options.APKGFile == "" {
		return nil
	}

	ankiCards := make([]anki.Card, 0, len(cards))
	for _, card := range cards {
		ankiCards = append(ankiCards, anki.NewCard(card.Info, card.Mnemonic))
	}

	if p.options.CSVFile != "" {
		gen := anki.NewGenerator(&anki.GeneratorOptions{
			OutputPath:     p.options.CSVFile,
			IncludeHeaders: true,
		})
		for _, c := range ankiCards {
			gen.AddCard(c)
		}
		if err := ensureDir(p.options.CSVFile); err != nil {
			return err
		}
		if err := gen.GenerateCSV(); err != nil {
			return err
		}
		total, withMnemonic, _ := gen.Stats()
		fmt.Fprintf(p.out, "CSV written: %s (%d cards, %d with mnemonic)\n", p.options.CSVFile, total, withMnemonic)
	}

	if p.options.APKGFile != "" {
		gen := anki.NewAPKGGenerator(p.options.DeckName)
		for _, c := range ankiCards {
			gen.AddCard(c)
		}
		apkgPath := p.apkgPath()
		if err := ensureDir(apkgPath); err != nil {
			return err
		}
		if err := gen.GenerateAPKG(apkgPath); err != nil {
			return fmt.Errorf("failed to generate Anki package: %w", err)
		}
		fmt.Fprintf(p.out, "Anki package created: %s\n", apkgPath)
	}

	return nil
}

// apkgPath names the package after the deck when APKGFile is a directory
func (p *Processor) apkgPath() string {
	path := p.options.APKGFile
	if info, err := os.Stat(path); (err == nil && info.IsDir()) || strings.HasSuffix(path, string(os.PathSeparator)) {
		return filepath.Join(path, internal.SanitizeFilename(p.options.DeckName)+".apkg")
	}
	return path
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (p *Processor) printInfo(info hanzi.CharacterInfo) {
	fmt.Fprintf(p.out, "  %s  %s  %s\n", info.Glyph, info.Pronunciation, info.Meaning)
	if radical := anki.FormatRadical(info); radical != "" {
		fmt.Fprintf(p.out, "  Radical: %s\n", radical)
	}
	if info.StrokeCount > 0 {
		fmt.Fprintf(p.out, "  Strokes: %d\n", info.StrokeCount)
	}
	fmt.Fprintf(p.out, "  Source: %s\n", info.Source)
	if info.Degraded() {
		p.logger.Warn("Radical information incomplete", "glyph", info.Glyph, "source", info.Source)
	}
}

func (p *Processor) printMnemonic(result hanzi.MnemonicResult) {
	fmt.Fprintf(p.out, "  Mnemonic (%s): %s\n", result.Source, result.Text)
}

func (p *Processor) printTrace(trace resolver.Trace) {
	if !p.options.Verbose {
		return
	}
	for _, a := range trace.Attempts {
		line := fmt.Sprintf("  [%s] %s: %s", trace.Chain, a.Provider, a.Status)
		if a.Kind != "" {
			line += fmt.Sprintf(" (%s)", a.Kind)
		}
		if a.Duration > 0 {
			line += fmt.Sprintf(" in %s", a.Duration.Round(time.Millisecond))
		}
		fmt.Fprintln(p.out, line)
	}
}

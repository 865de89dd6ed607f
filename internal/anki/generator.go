package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// Card represents a single Anki flashcard for one character
type Card struct {
	Character string // The character itself, front of the card
	Pinyin    string // Tone-marked pronunciation
	Meaning   string // English meaning
	Radical   string // Formatted radical, e.g. "水 (85, water)"
	Mnemonic  string // Optional memory aid
	Source    string // Provider that supplied the lookup
}

// NewCard builds a card from a resolved character and its mnemonic. The
// unavailability notice is not put on cards.
func NewCard(info hanzi.CharacterInfo, mnemonic hanzi.MnemonicResult) Card {
	card := Card{
		Character: info.Glyph,
		Pinyin:    info.Pronunciation,
		Meaning:   info.Meaning,
		Radical:   FormatRadical(info),
		Source:    string(info.Source),
	}
	if !mnemonic.Degraded {
		card.Mnemonic = mnemonic.Text
	}
	return card
}

// FormatRadical renders the radical fields of info for display, leaving
// out whatever is unknown
func FormatRadical(info hanzi.CharacterInfo) string {
	var details []string
	if info.RadicalID != "" {
		details = append(details, info.RadicalID)
	}
	if info.RadicalMeaning != "" {
		details = append(details, info.RadicalMeaning)
	}

	switch {
	case info.RadicalGlyph == "" && len(details) == 0:
		return ""
	case info.RadicalGlyph == "":
		return strings.Join(details, ", ")
	case len(details) == 0:
		return info.RadicalGlyph
	default:
		return fmt.Sprintf("%s (%s)", info.RadicalGlyph, strings.Join(details, ", "))
	}
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible CSV import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV writes the CSV file to the configured output path
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := g.WriteCSV(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes all cards as CSV to w
func (g *Generator) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if g.options.IncludeHeaders {
		headers := []string{"Character", "Pinyin", "Meaning", "Radical", "Mnemonic", "Source"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Character,
			card.Pinyin,
			card.Meaning,
			card.Radical,
			card.Mnemonic,
			card.Source,
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// Stats returns statistics about the cards
func (g *Generator) Stats() (totalCards, withMnemonic, withRadical int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.Mnemonic != "" {
			withMnemonic++
		}
		if card.Radical != "" {
			withRadical++
		}
	}
	return
}

package anki

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
	"codeberg.org/snonux/hanzirecall/internal/testutil"
)

func TestNewCard(t *testing.T) {
	info := hanzi.CharacterInfo{
		Glyph:          "水",
		Pronunciation:  "shuǐ",
		Meaning:        "water",
		RadicalID:      "85",
		RadicalGlyph:   "水",
		RadicalMeaning: "water",
		Source:         hanzi.ProviderCCDB,
	}

	card := NewCard(info, hanzi.MnemonicResult{Text: "Splash!", Source: hanzi.ProviderOpenAI})
	want := Card{
		Character: "水",
		Pinyin:    "shuǐ",
		Meaning:   "water",
		Radical:   "水 (85, water)",
		Mnemonic:  "Splash!",
		Source:    "ccdb",
	}
	if card != want {
		t.Errorf("NewCard() = %+v, want %+v", card, want)
	}

	card = NewCard(info, hanzi.UnavailableMnemonic())
	if card.Mnemonic != "" {
		t.Errorf("Expected unavailability notice to be left off the card, got %q", card.Mnemonic)
	}
}

func TestFormatRadical(t *testing.T) {
	tests := []struct {
		name string
		info hanzi.CharacterInfo
		want string
	}{
		{"complete", hanzi.CharacterInfo{RadicalID: "85", RadicalGlyph: "水", RadicalMeaning: "water"}, "水 (85, water)"},
		{"degraded id only", hanzi.CharacterInfo{RadicalID: "999"}, "999"},
		{"glyph and meaning", hanzi.CharacterInfo{RadicalGlyph: "馬", RadicalMeaning: "horse"}, "馬 (horse)"},
		{"glyph only", hanzi.CharacterInfo{RadicalGlyph: "馬"}, "馬"},
		{"nothing", hanzi.CharacterInfo{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRadical(tt.info); got != tt.want {
				t.Errorf("FormatRadical() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name           string
		includeHeaders bool
		wantRows       int
	}{
		{"with headers", true, 3},
		{"without headers", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(&GeneratorOptions{IncludeHeaders: tt.includeHeaders})
			gen.AddCard(Card{Character: "水", Pinyin: "shuǐ", Meaning: "water, liquid", Source: "ccdb"})
			gen.AddCard(Card{Character: "火", Pinyin: "huǒ", Meaning: "fire", Mnemonic: `Flames "dance"`})

			var buf bytes.Buffer
			if err := gen.WriteCSV(&buf); err != nil {
				t.Fatalf("WriteCSV() error = %v", err)
			}

			rows, err := csv.NewReader(&buf).ReadAll()
			if err != nil {
				t.Fatalf("Generated CSV does not parse: %v", err)
			}
			if len(rows) != tt.wantRows {
				t.Fatalf("Expected %d rows, got %d", tt.wantRows, len(rows))
			}

			last := rows[len(rows)-1]
			if last[0] != "火" || last[4] != `Flames "dance"` {
				t.Errorf("Unexpected last row %q", last)
			}
			if tt.includeHeaders && rows[0][0] != "Character" {
				t.Errorf("Expected header row, got %q", rows[0])
			}
		})
	}
}

func TestGenerateCSV(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "cards.csv")

	gen := NewGenerator(&GeneratorOptions{OutputPath: outputPath, IncludeHeaders: true})
	gen.AddCard(Card{Character: "好", Pinyin: "hǎo", Meaning: "good"})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV() error = %v", err)
	}

	testutil.AssertFileExists(t, outputPath)
	testutil.AssertFileContains(t, outputPath, "好,hǎo,good")
}

func TestGenerateCSV_BadPath(t *testing.T) {
	gen := NewGenerator(&GeneratorOptions{OutputPath: filepath.Join(t.TempDir(), "missing", "cards.csv")})
	if err := gen.GenerateCSV(); err == nil {
		t.Error("Expected error for unwritable output path")
	}
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Character: "水", Radical: "水 (85, water)", Mnemonic: "Splash"})
	gen.AddCard(Card{Character: "火", Radical: "火 (86, fire)"})
	gen.AddCard(Card{Character: "好"})

	total, withMnemonic, withRadical := gen.Stats()
	if total != 3 || withMnemonic != 1 || withRadical != 2 {
		t.Errorf("Stats() = %d, %d, %d; want 3, 1, 2", total, withMnemonic, withRadical)
	}
	if len(gen.GetCards()) != 3 {
		t.Errorf("Expected 3 cards, got %d", len(gen.GetCards()))
	}
}

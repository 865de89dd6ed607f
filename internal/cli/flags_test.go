package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Timeout", flags.Timeout, 10 * time.Second},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.0-flash"},
		{"CCDBURL", flags.CCDBURL, "http://ccdb.hemiola.com"},
		{"Addr", flags.Addr, "127.0.0.1:5000"},
		{"DeckName", flags.DeckName, "Chinese Characters"},
		{"APKGFile", flags.APKGFile, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Boolean defaults should be false
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Verbose", flags.Verbose},
		{"NoCCDB", flags.NoCCDB},
		{"JSON", flags.JSON},
		{"SkipMnemonics", flags.SkipMnemonics},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s should default to false", tt.name)
			}
		})
	}
}

package cli

import (
	"time"

	"codeberg.org/snonux/hanzirecall/internal/provider"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	Verbose      bool
	RadicalsFile string
	Timeout      time.Duration

	// Provider flags
	OpenAIModel string
	GeminiModel string
	CCDBURL     string
	NoCCDB      bool

	// Command flags
	JSON          bool
	Pronunciation string
	Meaning       string
	BatchFile     string
	CSVFile       string
	APKGFile      string
	DeckName      string
	SkipMnemonics bool
	Addr          string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	defaults := provider.DefaultProviderConfig()
	return &Flags{
		Timeout:     defaults.Timeout,
		OpenAIModel: defaults.OpenAIModel,
		GeminiModel: defaults.GeminiModel,
		CCDBURL:     defaults.CCDBBaseURL,
		DeckName:    "Chinese Characters",
		Addr:        DefaultServerAddr,
	}
}

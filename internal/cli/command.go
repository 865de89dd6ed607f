package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/hanzirecall/internal"
	"codeberg.org/snonux/hanzirecall/internal/provider"
)

// DefaultServerAddr is where "serve" listens unless configured otherwise
const DefaultServerAddr = "127.0.0.1:5000"

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hanzirecall",
		Short: "Chinese character lookup and mnemonic generator",
		Long: `hanzirecall looks up Chinese characters and writes memory aids for them.

Lookups try OpenAI first, then the Chinese Character Database (CCDB) and
finally local pinyin data, so every character gets an answer. Mnemonics
come from OpenAI or, when configured, Google Gemini.

Examples:
  hanzirecall lookup 水 火          # Pronunciation, meaning and radical
  hanzirecall card 好               # Lookup plus mnemonic
  hanzirecall batch --file chars.txt --csv cards.csv
  hanzirecall serve                 # HTTP API on 127.0.0.1:5000`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.hanzirecall.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Debug logging and provider attempt traces")
	pf.StringVar(&flags.RadicalsFile, "radicals", "", "Radical table file (.json or SQLite .db), default is the built-in Kangxi table")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout for a single provider call")

	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for lookups and mnemonics")
	pf.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for mnemonics")
	pf.StringVar(&flags.CCDBURL, "ccdb-url", flags.CCDBURL, "Chinese Character Database base URL")
	pf.BoolVar(&flags.NoCCDB, "no-ccdb", false, "Leave CCDB out of the lookup chain")

	bindFlagsToViper(pf)
}

func bindFlagsToViper(pf *pflag.FlagSet) {
	BindFlag(pf, "radicals", "radicals.file")
	BindFlag(pf, "timeout", "resolver.timeout")
	BindFlag(pf, "openai-model", "openai.model")
	BindFlag(pf, "gemini-model", "gemini.model")
	BindFlag(pf, "ccdb-url", "ccdb.base_url")
}

// BindFlag binds the named flag of fs to a viper key, if the flag exists
func BindFlag(fs *pflag.FlagSet, name, key string) {
	if flag := fs.Lookup(name); flag != nil {
		viper.BindPFlag(key, flag)
	}
}

func setDefaults() {
	defaults := provider.DefaultProviderConfig()
	viper.SetDefault("openai.model", defaults.OpenAIModel)
	viper.SetDefault("gemini.model", defaults.GeminiModel)
	viper.SetDefault("ccdb.base_url", defaults.CCDBBaseURL)
	viper.SetDefault("ccdb.enabled", defaults.CCDBEnabled)
	viper.SetDefault("resolver.timeout", defaults.Timeout)
	viper.SetDefault("server.addr", DefaultServerAddr)
}

// InitConfig loads .env, the config file and environment variables
func InitConfig(cfgFile string) {
	// A missing .env file is normal
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".hanzirecall" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hanzirecall")
	}

	setDefaults()

	// Environment variables, e.g. HANZIRECALL_OPENAI_MODEL for openai.model
	viper.SetEnvPrefix("HANZIRECALL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai.key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini.key")
}

// Settings is the resolved runtime configuration
type Settings struct {
	Provider     *provider.Config
	RadicalsFile string
	Timeout      time.Duration
	ServerAddr   string
}

// LoadSettings merges flags, config file and environment. Flags that
// viper does not track, such as --no-ccdb, are applied from flags.
func LoadSettings(flags *Flags) *Settings {
	cfg := provider.DefaultProviderConfig()
	cfg.OpenAIKey = GetOpenAIKey()
	cfg.GeminiKey = GetGeminiKey()
	cfg.UserAgent = "hanzirecall/" + internal.Version

	if model := viper.GetString("openai.model"); model != "" {
		cfg.OpenAIModel = model
	}
	if model := viper.GetString("gemini.model"); model != "" {
		cfg.GeminiModel = model
	}
	if url := viper.GetString("ccdb.base_url"); url != "" {
		cfg.CCDBBaseURL = url
	}
	if viper.IsSet("ccdb.enabled") {
		cfg.CCDBEnabled = viper.GetBool("ccdb.enabled")
	}
	if flags != nil && flags.NoCCDB {
		cfg.CCDBEnabled = false
	}

	timeout := viper.GetDuration("resolver.timeout")
	if timeout <= 0 {
		timeout = cfg.Timeout
	}
	cfg.Timeout = timeout

	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = DefaultServerAddr
	}

	return &Settings{
		Provider:     cfg,
		RadicalsFile: viper.GetString("radicals.file"),
		Timeout:      timeout,
		ServerAddr:   addr,
	}
}

// NewLogger returns a text logger writing to w, at debug level when verbose
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

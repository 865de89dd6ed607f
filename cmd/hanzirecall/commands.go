package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/hanzirecall/internal/batch"
	"codeberg.org/snonux/hanzirecall/internal/cli"
	"codeberg.org/snonux/hanzirecall/internal/hanzi"
	"codeberg.org/snonux/hanzirecall/internal/health"
	"codeberg.org/snonux/hanzirecall/internal/models"
	"codeberg.org/snonux/hanzirecall/internal/processor"
	"codeberg.org/snonux/hanzirecall/internal/server"
)

func addCommands(root *cobra.Command, flags *cli.Flags) {
	root.AddCommand(
		lookupCommand(flags),
		mnemonicCommand(flags),
		cardCommand(flags),
		batchCommand(flags),
		statusCommand(flags),
		modelsCommand(),
		serveCommand(flags),
	)
}

func newProcessor(a *app, flags *cli.Flags, out io.Writer) *processor.Processor {
	return processor.NewProcessor(a.resolver, processor.Options{
		SkipMnemonics: flags.SkipMnemonics,
		Verbose:       flags.Verbose,
		CSVFile:       flags.CSVFile,
		APKGFile:      flags.APKGFile,
		DeckName:      flags.DeckName,
	}, out, a.logger)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func lookupCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup CHARACTER...",
		Short: "Look up pronunciation, meaning and radical",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}

			if flags.JSON {
				infos := make([]hanzi.CharacterInfo, 0, len(args))
				for _, arg := range args {
					query, err := hanzi.NewCharacterQuery(arg)
					if err != nil {
						return err
					}
					infos = append(infos, a.resolver.ResolveCharacter(cmd.Context(), query.Glyph()))
				}
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			proc := newProcessor(a, flags, cmd.OutOrStdout())
			for _, arg := range args {
				if _, err := proc.Lookup(cmd.Context(), arg); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print results as JSON")
	return cmd
}

func mnemonicCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mnemonic CHARACTER",
		Short: "Generate a mnemonic for a character",
		Long: `Generate a mnemonic for a character.

Without --pronunciation and --meaning the character is looked up first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}

			query, err := hanzi.NewCharacterQuery(args[0])
			if err != nil {
				return err
			}

			req := hanzi.MnemonicRequest{
				Glyph:         query.Glyph(),
				Pronunciation: flags.Pronunciation,
				Meaning:       flags.Meaning,
			}
			if req.Pronunciation == "" || req.Meaning == "" {
				info := a.resolver.ResolveCharacter(cmd.Context(), req.Glyph)
				if req.Pronunciation == "" {
					req.Pronunciation = info.Pronunciation
				}
				if req.Meaning == "" {
					req.Meaning = info.Meaning
				}
			}

			if flags.JSON {
				return writeJSON(cmd.OutOrStdout(), a.resolver.ResolveMnemonic(cmd.Context(), req))
			}

			_, err = newProcessor(a, flags, cmd.OutOrStdout()).Mnemonic(cmd.Context(), req)
			return err
		},
	}
	cmd.Flags().StringVar(&flags.Pronunciation, "pronunciation", "", "Pinyin of the character")
	cmd.Flags().StringVar(&flags.Meaning, "meaning", "", "English meaning of the character")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the result as JSON")
	return cmd
}

func cardCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card CHARACTER...",
		Short: "Look up characters and generate mnemonics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}

			proc := newProcessor(a, flags, cmd.OutOrStdout())
			cards := make([]*processor.Card, 0, len(args))
			for _, arg := range args {
				card, err := proc.ProcessSingle(cmd.Context(), arg)
				if err != nil {
					return err
				}
				cards = append(cards, card)
			}
			return proc.Export(cards)
		},
	}
	addExportFlags(cmd, flags)
	return cmd
}

func batchCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process a file of characters, one per line",
		Long: `Process a file of characters, one per line.

Lines may carry a meaning that overrides the looked up one:

  水
  火 = fire
  # comments and blank lines are skipped`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := batch.ReadBatchFile(flags.BatchFile)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}

			_, err = newProcessor(a, flags, cmd.OutOrStdout()).ProcessBatch(cmd.Context(), entries)
			return err
		},
	}
	cmd.Flags().StringVarP(&flags.BatchFile, "file", "f", "", "Batch file with one character per line")
	cmd.Flags().BoolVar(&flags.SkipMnemonics, "skip-mnemonics", false, "Only look up characters")
	_ = cmd.MarkFlagRequired("file")
	addExportFlags(cmd, flags)
	return cmd
}

func addExportFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVar(&flags.CSVFile, "csv", "", "Write cards to this CSV file")
	cmd.Flags().StringVar(&flags.APKGFile, "apkg", "", "Write cards to this Anki package")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name inside the Anki package")
}

func statusCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show provider availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}

			snap := a.health.Status()
			if flags.JSON {
				return writeJSON(cmd.OutOrStdout(), snap)
			}

			printStatus(cmd.OutOrStdout(), snap)
			if snap.Overall == health.Unhealthy {
				return fmt.Errorf("no provider available")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the snapshot as JSON")
	return cmd
}

func printStatus(w io.Writer, snap health.Snapshot) {
	fmt.Fprintf(w, "Status: %s\n", snap.Overall)
	for _, p := range snap.Providers {
		if p.Available {
			fmt.Fprintf(w, "  %-8s available\n", p.ProviderID)
			continue
		}
		fmt.Fprintf(w, "  %-8s unavailable: %s\n", p.ProviderID, p.Reason)
	}
}

func modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List OpenAI chat models available to your API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lister := models.NewLister(cli.GetOpenAIKey(), "", cmd.OutOrStdout())
			return lister.ListAvailableModels(cmd.Context(), viper.GetString("openai.model"))
		},
	}
}

func serveCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lookup API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}

			srv := server.New(a.resolver, a.health, a.registry, a.logger)
			return srv.Run(cmd.Context(), a.settings.ServerAddr)
		},
	}
	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address")
	cli.BindFlag(cmd.Flags(), "addr", "server.addr")
	return cmd
}

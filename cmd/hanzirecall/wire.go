package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"codeberg.org/snonux/hanzirecall/internal/cli"
	"codeberg.org/snonux/hanzirecall/internal/health"
	"codeberg.org/snonux/hanzirecall/internal/metrics"
	"codeberg.org/snonux/hanzirecall/internal/provider"
	"codeberg.org/snonux/hanzirecall/internal/radical"
	"codeberg.org/snonux/hanzirecall/internal/resolver"
)

// app is everything a command needs, built once from settings
type app struct {
	settings *cli.Settings
	logger   *slog.Logger
	registry *prometheus.Registry
	resolver *resolver.Resolver
	health   *health.Aggregator
}

func newApp(ctx context.Context, flags *cli.Flags) (*app, error) {
	settings := cli.LoadSettings(flags)
	logger := cli.NewLogger(os.Stderr, flags.Verbose)

	radicals, err := loadRadicals(settings.RadicalsFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("Radical table loaded", "entries", radicals.Len(), "file", settings.RadicalsFile)

	generators, err := provider.NewMnemonicChain(ctx, settings.Provider)
	if err != nil {
		return nil, fmt.Errorf("creating mnemonic providers: %w", err)
	}

	registry := prometheus.NewRegistry()
	r := resolver.New(
		provider.NewLookupChain(settings.Provider),
		generators,
		radicals,
		resolver.WithTimeout(settings.Timeout),
		resolver.WithLogger(logger),
		resolver.WithRecorder(metrics.NewCollector(registry)),
	)

	return &app{
		settings: settings,
		logger:   logger,
		registry: registry,
		resolver: r,
		health:   health.NewAggregator(r.Providers()),
	}, nil
}

func loadRadicals(path string) (*radical.Table, error) {
	if path == "" {
		return radical.Default()
	}
	table, err := radical.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading radicals from %s: %w", path, err)
	}
	return table, nil
}

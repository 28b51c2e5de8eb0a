package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/checkniner/internal/completion"
	"github.com/jonathan/checkniner/internal/config"
	"github.com/jonathan/checkniner/internal/db"
	"github.com/jonathan/checkniner/internal/observability"
)

// app carries what every command needs once flags and config are merged.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	printer *observability.Printer
	out     io.Writer
}

// resolveConfig merges, lowest priority first: built-in defaults, the config
// file, the environment, and explicitly set flags.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("database-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = timeoutSecs
	}
	if flags.Changed("as") {
		cfg.Actor = actor
	}
	if flags.Changed("format") {
		cfg.Format = format
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp resolves configuration and returns the app with a context bounded
// by the configured timeout.
func newApp(cmd *cobra.Command) (*app, context.Context, context.CancelFunc, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	stderr := cmd.ErrOrStderr()
	a := &app{
		cfg:     cfg,
		logger:  observability.NewLogger(stderr, cfg.Verbose, cfg.LogFormat == "json"),
		printer: observability.NewPrinter(stderr),
		out:     cmd.OutOrStdout(),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if t := cfg.Timeout(); t > 0 {
		ctx, cancel := context.WithTimeout(ctx, t)
		return a, ctx, cancel, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	return a, ctx, cancel, nil
}

func (a *app) openStore(ctx context.Context) (db.Store, error) {
	store, err := db.Open(ctx, a.cfg.DatabaseURL, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// loadEngine reads a snapshot and builds the completion engine over it.
func (a *app) loadEngine(ctx context.Context, store db.Store) (*completion.Engine, error) {
	snap, err := store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	engine := completion.New(snap)

	if a.cfg.Verbose {
		a.printer.PrintSnapshot(snap)
		a.printer.PrintPrecedent(engine.Precedent(), engine.Index().Airstrips(nil, nil), engine.Index().AircraftTypes(nil))
	}
	return engine, nil
}

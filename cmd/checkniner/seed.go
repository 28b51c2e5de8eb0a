package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/checkniner/internal/db"
	"github.com/jonathan/checkniner/internal/schemas"
	"github.com/jonathan/checkniner/internal/types"
	embedded "github.com/jonathan/checkniner/schemas"
)

var seedCommand = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load pilots, airstrips, aircraft types and checkouts from a YAML fixture",
	Long: `Creates the schema if needed, then upserts every entity in the fixture, attaches
airstrips to the bases they list, and records the checkouts. Seeding the same fixture
twice is harmless: existing checkouts are counted as duplicates.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeedCmd,
}

func init() {
	rootCmd.AddCommand(seedCommand)
}

// seedCounts tallies what a seed run did.
type seedCounts struct {
	Pilots        int
	Airstrips     int
	AircraftTypes int
	Attachments   int
	Added         int
	Duplicates    int
}

func runSeedCmd(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	fixture, err := loadFixture(args[0])
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := seedFixture(ctx, store, fixture, a.cfg.Actor)
	if err != nil {
		return err
	}

	a.logger.Info("fixture loaded", "path", args[0], "checkouts_added", counts.Added, "duplicates", counts.Duplicates)
	_, _ = fmt.Fprintf(a.out, "Seeded %d pilots, %d airstrips (%d attachments), %d aircraft types.\n",
		counts.Pilots, counts.Airstrips, counts.Attachments, counts.AircraftTypes)
	_, _ = fmt.Fprintf(a.out, "Checkouts: %d added, %d duplicates.\n", counts.Added, counts.Duplicates)
	return nil
}

// loadFixture reads a YAML fixture and checks it against the fixture schema
// before decoding.
func loadFixture(path string) (*types.Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	if err := schemas.ValidateYAML(embedded.Fixture, data); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	var f types.Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

// seedFixture writes the fixture to the store. Airstrips are created before
// any attachment so bases may be listed in any order.
func seedFixture(ctx context.Context, store db.Store, f *types.Fixture, actor string) (seedCounts, error) {
	var counts seedCounts

	if err := store.CreateSchema(ctx); err != nil {
		return counts, err
	}

	for _, t := range f.AircraftTypes {
		if err := store.UpsertAircraftType(ctx, t); err != nil {
			return counts, err
		}
		counts.AircraftTypes++
	}
	for _, p := range f.Pilots {
		if err := store.UpsertPilot(ctx, p); err != nil {
			return counts, err
		}
		counts.Pilots++
	}
	for _, a := range f.Airstrips {
		if err := store.UpsertAirstrip(ctx, a); err != nil {
			return counts, err
		}
		counts.Airstrips++
	}
	for _, a := range f.Airstrips {
		for _, base := range a.Bases {
			if err := store.AttachAirstrip(ctx, a.Ident, base); err != nil {
				return counts, err
			}
			counts.Attachments++
		}
	}

	for _, c := range f.Checkouts {
		c.Actor = actor
		results, err := store.AddCheckouts(ctx, c)
		if err != nil {
			return counts, err
		}
		for _, r := range results {
			if r.Outcome == db.OutcomeAdded {
				counts.Added++
			} else {
				counts.Duplicates++
			}
		}
	}

	return counts, nil
}

package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/checkniner/internal/db"
	"github.com/jonathan/checkniner/internal/index"
	"github.com/jonathan/checkniner/internal/types"
)

var importAirstripsCommand = &cobra.Command{
	Use:   "import-airstrips <file.csv>",
	Short: "Add airstrips from an ident,name CSV file and attach them to a base",
	Long: `Reads one airstrip per line as "ident,name". Names are title-cased. Every airstrip
is created as a non-base airstrip and attached to --base.

The import is all or nothing: an ident that already exists, or appears twice in the
file, fails the command and no airstrip is added.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportAirstripsCmd,
}

var importBase string

func init() {
	importAirstripsCommand.Flags().StringVarP(&importBase, "base", "b", "", "Ident of the base to attach the airstrips to")
	_ = importAirstripsCommand.MarkFlagRequired("base")

	rootCmd.AddCommand(importAirstripsCommand)
}

func runImportAirstripsCmd(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	airstrips, err := parseAirstripCSV(f)
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	a.logger.Info("importing airstrips", "path", args[0], "base", importBase, "count", len(airstrips))
	if err := importAirstrips(ctx, store, airstrips, importBase, a.cfg.Actor); err != nil {
		return err
	}

	for _, s := range airstrips {
		_, _ = fmt.Fprintf(a.out, "Added %s attached to %s\n", s, importBase)
	}
	return nil
}

// parseAirstripCSV reads "ident,name" records. Blank lines are skipped.
func parseAirstripCSV(r io.Reader) ([]types.Airstrip, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	caser := cases.Title(language.Und)

	var airstrips []types.Airstrip
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read airstrip CSV: %w", err)
		}

		line, _ := cr.FieldPos(0)
		a := types.Airstrip{
			Ident: strings.TrimSpace(record[0]),
			Name:  caser.String(strings.TrimSpace(record[1])),
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: invalid airstrip: %w", line, err)
		}
		airstrips = append(airstrips, a)
	}
	return airstrips, nil
}

// importAirstrips creates each airstrip attached to base. The base and every
// ident are checked against a snapshot first so a bad file writes nothing;
// the store repeats the checks inside its transaction.
func importAirstrips(ctx context.Context, store db.Store, airstrips []types.Airstrip, base, actor string) error {
	snap, err := store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	idx := index.New(snap)
	if _, err := idx.Base(base); err != nil {
		return err
	}

	seen := make(map[string]bool, len(airstrips))
	for _, a := range airstrips {
		if a.Ident == base {
			return fmt.Errorf("airstrip %q: %w", a.Ident, db.ErrSelfAttachment)
		}
		if _, err := idx.Airstrip(a.Ident); err == nil || seen[a.Ident] {
			return fmt.Errorf("airstrip %q: %w", a.Ident, db.ErrAlreadyExists)
		}
		seen[a.Ident] = true
	}

	return store.ImportAirstrips(ctx, base, airstrips, actor)
}

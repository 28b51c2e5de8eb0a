package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/checkniner/internal/completion"
	"github.com/jonathan/checkniner/internal/observability"
	"github.com/jonathan/checkniner/internal/rendering"
	"github.com/jonathan/checkniner/internal/types"
)

var basesCommand = &cobra.Command{
	Use:   "bases",
	Short: "Summarize every base: attached airstrips and report row counts",
	Args:  cobra.NoArgs,
	RunE:  runBasesCmd,
}

var basesAttachCommand = &cobra.Command{
	Use:   "attach <base> [ident...]",
	Short: "Replace the set of airstrips attached to a base",
	Long: `Attaches the listed airstrips to the base and detaches every airstrip not listed.
With no idents, every airstrip is detached. A base is never attached to itself.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBasesAttachCmd,
}

func init() {
	basesCommand.AddCommand(basesAttachCommand)
	rootCmd.AddCommand(basesCommand)
}

func runBasesCmd(cmd *cobra.Command, _ []string) error {
	a, ctx, cancel, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	engine, err := a.loadEngine(ctx, store)
	if err != nil {
		return err
	}

	summaries, err := summarizeBases(ctx, engine)
	if err != nil {
		return err
	}
	return rendering.Bases(a.out, a.cfg.Format, summaries)
}

// summarizeBases computes every base summary concurrently. Results keep
// base order.
func summarizeBases(ctx context.Context, engine *completion.Engine) ([]completion.BaseSummary, error) {
	bases := engine.Index().Bases()
	summaries := make([]completion.BaseSummary, len(bases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, base := range bases {
		i, base := i, base
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			summaries[i] = engine.SummarizeBase(base)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to summarize bases: %w", err)
	}
	return summaries, nil
}

func runBasesAttachCmd(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	req := types.AttachmentRequest{Base: args[0], Airstrips: args[1:], Actor: a.cfg.Actor}
	if err := req.Validate(); err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	change, err := store.SetAttachments(ctx, req)
	if err != nil {
		return err
	}

	if a.cfg.Format == rendering.FormatJSON {
		return rendering.WriteJSON(a.out, change)
	}
	observability.NewPrinter(a.out).PrintAttachmentChange(req.Base, change)
	return nil
}

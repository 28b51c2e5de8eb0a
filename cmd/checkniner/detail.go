package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/checkniner/internal/rendering"
)

var pilotCommand = &cobra.Command{
	Use:   "pilot <username>",
	Short: "Show one pilot's completed checkouts, by airstrip",
	Args:  cobra.ExactArgs(1),
	RunE:  runPilotCmd,
}

var airstripCommand = &cobra.Command{
	Use:   "airstrip <ident>",
	Short: "Show the completed checkouts at one airstrip, by pilot",
	Args:  cobra.ExactArgs(1),
	RunE:  runAirstripCmd,
}

func init() {
	rootCmd.AddCommand(pilotCommand)
	rootCmd.AddCommand(airstripCommand)
}

func runPilotCmd(cmd *cobra.Command, args []string) error {
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

	pilot, err := engine.Index().Pilot(args[0])
	if err != nil {
		return err
	}
	return rendering.Render(a.out, a.cfg.Format, engine.PilotCheckouts(pilot))
}

func runAirstripCmd(cmd *cobra.Command, args []string) error {
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

	airstrip, err := engine.Index().Airstrip(args[0])
	if err != nil {
		return err
	}
	return rendering.Render(a.out, a.cfg.Format, engine.AirstripCheckouts(airstrip))
}

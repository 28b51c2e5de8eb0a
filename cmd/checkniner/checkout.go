package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/checkniner/internal/db"
	"github.com/jonathan/checkniner/internal/rendering"
	"github.com/jonathan/checkniner/internal/types"
)

var checkoutCommand = &cobra.Command{
	Use:   "checkout",
	Short: "Add or remove a pilot's checkouts at an airstrip",
}

var checkoutAddCommand = &cobra.Command{
	Use:   "add",
	Short: "Record checkouts; existing ones are reported and left alone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheckoutEdit(cmd, db.Store.AddCheckouts)
	},
}

var checkoutRemoveCommand = &cobra.Command{
	Use:   "remove",
	Short: "Delete checkouts; missing ones are reported as deleted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheckoutEdit(cmd, db.Store.RemoveCheckouts)
	},
}

var (
	checkoutPilot         string
	checkoutAirstrip      string
	checkoutAircraftTypes []string
)

func init() {
	for _, c := range []*cobra.Command{checkoutAddCommand, checkoutRemoveCommand} {
		c.Flags().StringVarP(&checkoutPilot, "pilot", "p", "", "Pilot username")
		c.Flags().StringVarP(&checkoutAirstrip, "airstrip", "a", "", "Airstrip ident")
		c.Flags().StringSliceVarP(&checkoutAircraftTypes, "aircraft-type", "t", nil, "Aircraft type name (repeatable)")
		_ = c.MarkFlagRequired("pilot")
		_ = c.MarkFlagRequired("airstrip")
		_ = c.MarkFlagRequired("aircraft-type")
		checkoutCommand.AddCommand(c)
	}

	rootCmd.AddCommand(checkoutCommand)
}

type checkoutEditFunc func(db.Store, context.Context, types.CheckoutEditRequest) ([]db.CheckoutResult, error)

func runCheckoutEdit(cmd *cobra.Command, edit checkoutEditFunc) error {
	a, ctx, cancel, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	req := types.CheckoutEditRequest{
		Pilot:         checkoutPilot,
		Airstrip:      checkoutAirstrip,
		AircraftTypes: checkoutAircraftTypes,
		Actor:         a.cfg.Actor,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := edit(store, ctx, req)
	if err != nil {
		return err
	}
	return rendering.CheckoutResults(a.out, a.cfg.Format, results)
}

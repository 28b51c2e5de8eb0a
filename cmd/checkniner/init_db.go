package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initDBCommand = &cobra.Command{
	Use:   "init-db",
	Short: "Create any missing database tables",
	Args:  cobra.NoArgs,
	RunE:  runInitDBCmd,
}

func init() {
	rootCmd.AddCommand(initDBCommand)
}

func runInitDBCmd(cmd *cobra.Command, _ []string) error {
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

	if err := store.CreateSchema(ctx); err != nil {
		return err
	}
	a.logger.Info("schema ready")
	_, _ = fmt.Fprintln(a.out, "Database initialized.")
	return nil
}

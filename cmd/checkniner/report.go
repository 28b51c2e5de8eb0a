package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/checkniner/internal/completion"
	"github.com/jonathan/checkniner/internal/rendering"
	"github.com/jonathan/checkniner/internal/types"
)

// Report statuses accepted by --status.
const (
	statusComplete   = "complete"
	statusIncomplete = "incomplete"
)

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Report completed or outstanding checkouts",
	Long: `Lists (pilot, airstrip) rows with one column per aircraft type.

--status complete (default) lists rows with at least one completed checkout; cells read
Sudah (done) or Belum (not yet). --status incomplete lists rows with work left at airstrips
where any checkout has ever happened; cells may also read — when no pilot has ever been
checked out in that aircraft type at that airstrip.`,
	Args: cobra.NoArgs,
	RunE: runReportCmd,
}

var (
	reportStatus       string
	reportPilot        string
	reportAirstrip     string
	reportBase         string
	reportAircraftType string
)

func init() {
	reportCommand.Flags().StringVarP(&reportStatus, "status", "s", statusComplete, "complete or incomplete")
	reportCommand.Flags().StringVarP(&reportPilot, "pilot", "p", "", "Only this pilot (username)")
	reportCommand.Flags().StringVarP(&reportAirstrip, "airstrip", "a", "", "Only this airstrip (ident, mutually exclusive with --base)")
	reportCommand.Flags().StringVarP(&reportBase, "base", "b", "", "Only airstrips attached to this base (ident)")
	reportCommand.Flags().StringVarP(&reportAircraftType, "aircraft-type", "t", "", "Only this aircraft type (name)")

	rootCmd.AddCommand(reportCommand)
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
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

	req := types.FilterRequest{
		Pilot:        reportPilot,
		Airstrip:     reportAirstrip,
		Base:         reportBase,
		AircraftType: reportAircraftType,
	}
	report, err := buildReport(engine, reportStatus, req)
	if err != nil {
		return err
	}

	if a.cfg.Verbose {
		a.printer.PrintReportSummary(reportStatus, report)
	}
	return rendering.Render(a.out, a.cfg.Format, report)
}

// buildReport resolves req against the engine's snapshot and runs the view
// named by status.
func buildReport(engine *completion.Engine, status string, req types.FilterRequest) (completion.Report, error) {
	f, err := engine.Index().Resolve(req)
	if err != nil {
		return completion.Report{}, err
	}

	switch status {
	case statusComplete:
		return engine.Complete(f), nil
	case statusIncomplete:
		return engine.Incomplete(f), nil
	default:
		return completion.Report{}, fmt.Errorf("unknown status %q: must be %s or %s", status, statusComplete, statusIncomplete)
	}
}

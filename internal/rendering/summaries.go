package rendering

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jonathan/checkniner/internal/completion"
	"github.com/jonathan/checkniner/internal/db"
)

// CheckoutResults writes the per-aircraft-type outcome of a checkout edit.
func CheckoutResults(w io.Writer, format string, results []db.CheckoutResult) error {
	if format == FormatJSON {
		return WriteJSON(w, results)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AIRCRAFT TYPE\tOUTCOME")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\n", r.AircraftType, strings.ReplaceAll(r.Outcome, "_", " "))
	}
	if err := tw.Flush(); err != nil {
		return &RenderError{Format: FormatTable, Message: "failed to write results", Cause: err}
	}
	return nil
}

// Bases writes one line per base summary.
func Bases(w io.Writer, format string, summaries []completion.BaseSummary) error {
	if format == FormatJSON {
		return WriteJSON(w, summaries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BASE\tATTACHED\tUNATTACHED\tCOMPLETE\tINCOMPLETE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", s.Base, len(s.Attached), s.Unattached, s.CompleteRows, s.IncompleteRows)
	}
	if err := tw.Flush(); err != nil {
		return &RenderError{Format: FormatTable, Message: "failed to write bases", Cause: err}
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &RenderError{Format: FormatJSON, Message: "failed to encode", Cause: err}
	}
	return nil
}

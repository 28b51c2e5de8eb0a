package rendering

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jonathan/checkniner/internal/completion"
)

// Output formats accepted by Render.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Render writes report to w in the named format.
func Render(w io.Writer, format string, report completion.Report) error {
	switch format {
	case FormatTable, "":
		return Table(w, report)
	case FormatJSON:
		return JSON(w, report)
	default:
		return &RenderError{Format: format, Message: "unknown format"}
	}
}

// Table writes report as an aligned text table with one column per aircraft
// type. Identity columns are included only when the report populates them.
func Table(w io.Writer, report completion.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	var header []string
	if report.Populate.Pilot {
		header = append(header, "PILOT")
	}
	if report.Populate.Airstrip {
		header = append(header, "AIRSTRIP")
	}
	header = append(header, report.AircraftTypes...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range report.Results {
		var cols []string
		if report.Populate.Pilot {
			cols = append(cols, r.PilotName)
		}
		if report.Populate.Airstrip {
			cols = append(cols, fmt.Sprintf("%s (%s)", r.AirstripIdent, r.AirstripName))
		}
		for _, name := range report.AircraftTypes {
			cols = append(cols, r.AircraftTypes[name].Label())
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return &RenderError{Format: FormatTable, Message: "failed to write table", Cause: err}
	}

	noun := "rows"
	if len(report.Results) == 1 {
		noun = "row"
	}
	if _, err := fmt.Fprintf(w, "\n%d %s\n", len(report.Results), noun); err != nil {
		return &RenderError{Format: FormatTable, Message: "failed to write summary", Cause: err}
	}
	return nil
}

// JSON writes report as indented JSON.
func JSON(w io.Writer, report completion.Report) error {
	return WriteJSON(w, report)
}

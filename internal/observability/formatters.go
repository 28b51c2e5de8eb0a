// Package observability provides the logger and the formatted summaries
// printed in verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/checkniner/internal/completion"
	"github.com/jonathan/checkniner/internal/db"
	"github.com/jonathan/checkniner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSnapshot outputs entity and fact counts of a loaded snapshot.
func (p *Printer) PrintSnapshot(snap *types.Snapshot) {
	if snap == nil {
		return
	}

	bases := 0
	for _, a := range snap.Airstrips {
		if a.IsBase {
			bases++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pilots:          %d\n", len(snap.Pilots)))
	sb.WriteString(fmt.Sprintf("Airstrips:       %d (%d bases)\n", len(snap.Airstrips), bases))
	sb.WriteString(fmt.Sprintf("Aircraft types:  %d\n", len(snap.AircraftTypes)))
	sb.WriteString(fmt.Sprintf("Checkouts:       %d", len(snap.Facts)))

	p.printBox("SNAPSHOT", sb.String())
}

// PrintPrecedent outputs which airstrips have seen any checkout and, for the
// rest, how many aircraft types lack precedent.
func (p *Printer) PrintPrecedent(prec completion.Precedent, airstrips []types.Airstrip, aircraftTypes []types.AircraftType) {
	var used, unused []types.Airstrip
	for _, a := range airstrips {
		if prec.Used(a.Ident) {
			used = append(used, a)
		} else {
			unused = append(unused, a)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Airstrips in use: %d of %d\n", len(used), len(airstrips)))

	if len(used) > 0 {
		sb.WriteString("\n")
		count := min(len(used), maxItemsToShow)
		for i := 0; i < count; i++ {
			a := used[i]
			sb.WriteString(fmt.Sprintf("  • %-4s %d/%d types\n", a.Ident, len(prec.Types(a.Ident)), len(aircraftTypes)))
		}
		if len(used) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(used)-maxItemsToShow))
		}
	}

	if len(unused) > 0 {
		idents := make([]string, 0, len(unused))
		for _, a := range unused {
			idents = append(idents, a.Ident)
		}
		sb.WriteString(fmt.Sprintf("\nNever used: %s\n", strings.Join(idents, ", ")))
	}

	p.printBox("PRECEDENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReportSummary outputs row and cell counts of a report.
func (p *Printer) PrintReportSummary(title string, report completion.Report) {
	counts := map[completion.Status]int{}
	for _, r := range report.Results {
		for _, s := range r.AircraftTypes {
			counts[s]++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rows:     %d\n", len(report.Results)))
	sb.WriteString(fmt.Sprintf("Columns:  %s\n", strings.Join(report.AircraftTypes, ", ")))
	sb.WriteString("\n")
	for _, s := range []completion.Status{completion.Completed, completion.Pending, completion.Unprecedented} {
		sb.WriteString(fmt.Sprintf("%-14s %d\n", s, counts[s]))
	}

	p.printBox(strings.ToUpper(title), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAttachmentChange outputs the airstrips attached to and detached from a base.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintAttachmentChange(base string, change db.AttachmentChange) {
	if change.Empty() && !change.SelfLoopRejected {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO CHANGES TO "+base)
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for _, ident := range change.Attached {
		sb.WriteString(fmt.Sprintf("+ %s\n", ident))
	}
	for _, ident := range change.Detached {
		sb.WriteString(fmt.Sprintf("- %s\n", ident))
	}
	if change.SelfLoopRejected {
		sb.WriteString(fmt.Sprintf("⚠ %s cannot be attached to itself\n", base))
	}

	p.printBox("ATTACHMENTS OF "+base, strings.TrimSuffix(sb.String(), "\n"))
}

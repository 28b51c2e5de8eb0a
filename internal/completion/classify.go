// Package completion computes the checkout status matrix: for every pilot,
// airstrip and aircraft type in scope it decides whether the checkout is
// completed, pending, or has never been done by anyone at that airstrip.
package completion

import "github.com/jonathan/checkniner/internal/types"

// Status is the classification of one (pilot, airstrip, aircraft type) cell.
type Status string

const (
	// Completed ("Sudah"): the pilot has a checkout for the cell.
	Completed Status = "completed"
	// Pending ("Belum"): the pilot lacks it but another pilot has one.
	Pending Status = "pending"
	// Unprecedented: nobody has ever completed the airstrip/aircraft type.
	Unprecedented Status = "unprecedented"
)

// Label returns the short label used in rendered reports.
func (s Status) Label() string {
	switch s {
	case Completed:
		return "Sudah"
	case Pending:
		return "Belum"
	case Unprecedented:
		return "—"
	default:
		return string(s)
	}
}

// Cell is the status of one aircraft type within a row.
type Cell struct {
	AircraftType types.AircraftType
	Status       Status
}

// ClassifiedRow is a Row with one Cell per in-scope aircraft type, in column order.
type ClassifiedRow struct {
	types.Pair
	Cells     []Cell
	Synthetic bool
}

// Status returns the status of the named aircraft type, if it is in scope.
func (r ClassifiedRow) Status(aircraftType string) (Status, bool) {
	for _, c := range r.Cells {
		if c.AircraftType.Name == aircraftType {
			return c.Status, true
		}
	}
	return "", false
}

// Classify assigns a status to every in-scope aircraft type of the row.
// precedent must have been built from the unfiltered fact population.
func Classify(row Row, aircraftTypes []types.AircraftType, precedent Precedent) ClassifiedRow {
	cells := make([]Cell, 0, len(aircraftTypes))
	for _, t := range aircraftTypes {
		status := Pending
		switch {
		case row.HasCompleted(t.Name):
			status = Completed
		case !precedent.Has(row.Airstrip.Ident, t.Name):
			status = Unprecedented
		}
		cells = append(cells, Cell{AircraftType: t, Status: status})
	}

	return ClassifiedRow{
		Pair:      row.Pair,
		Cells:     cells,
		Synthetic: row.Synthetic,
	}
}

// ClassifyAll classifies rows in order.
func ClassifyAll(rows []Row, aircraftTypes []types.AircraftType, precedent Precedent) []ClassifiedRow {
	out := make([]ClassifiedRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, Classify(r, aircraftTypes, precedent))
	}
	return out
}

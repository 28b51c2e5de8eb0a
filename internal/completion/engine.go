package completion

import (
	"slices"

	"github.com/jonathan/checkniner/internal/index"
	"github.com/jonathan/checkniner/internal/types"
)

// Engine answers report queries over one immutable snapshot. It performs no
// I/O and holds no locks, so a single Engine may serve concurrent callers.
type Engine struct {
	index     *index.Index
	facts     []types.CompletionFact
	precedent Precedent
}

// New builds an Engine from a snapshot. The precedent index is computed once
// here from the full fact set.
func New(snap *types.Snapshot) *Engine {
	facts := slices.Clone(snap.Facts)
	return &Engine{
		index:     index.New(snap),
		facts:     facts,
		precedent: BuildPrecedent(facts),
	}
}

// Index exposes the entity index, for resolving filters against the same snapshot.
func (e *Engine) Index() *index.Index {
	return e.index
}

// Precedent exposes the precedent index.
func (e *Engine) Precedent() Precedent {
	return e.precedent
}

// Rows returns one row per candidate (pilot, airstrip) pair of the filter,
// in candidate order, with the completed aircraft types of each.
func (e *Engine) Rows(f types.Filter) []Row {
	pilots := e.index.Pilots(f.Pilot)
	airstrips := e.index.Airstrips(f.Airstrip, f.Base)
	aircraftTypes := e.index.AircraftTypes(f.AircraftType)

	candidates := Candidates(pilots, airstrips)
	grouped := GroupFacts(e.facts, pilots, airstrips, aircraftTypes)
	return Merge(candidates, grouped)
}

// Classified returns Rows(f) with every in-scope cell classified.
func (e *Engine) Classified(f types.Filter) []ClassifiedRow {
	return ClassifyAll(e.Rows(f), e.index.AircraftTypes(f.AircraftType), e.precedent)
}

// Complete returns the rows with at least one completed checkout. Cells read
// Completed or Pending only.
func (e *Engine) Complete(f types.Filter) Report {
	return e.complete(f, Populate{Pilot: true, Airstrip: true})
}

// Incomplete returns the rows with at least one checkout left to do at an
// airstrip in use. Cells may be Completed, Pending or Unprecedented.
func (e *Engine) Incomplete(f types.Filter) Report {
	rows := Select(e.Classified(f), IncompleteView(e.precedent))
	return newReport(Populate{Pilot: true, Airstrip: true}, e.index.AircraftTypes(f.AircraftType), rows)
}

// PilotCheckouts returns the completed checkouts of one pilot, grouped by airstrip.
func (e *Engine) PilotCheckouts(pilot types.Pilot) Report {
	return e.complete(types.Filter{Pilot: &pilot}, Populate{Pilot: false, Airstrip: true})
}

// AirstripCheckouts returns the completed checkouts at one airstrip, grouped by pilot.
func (e *Engine) AirstripCheckouts(airstrip types.Airstrip) Report {
	return e.complete(types.Filter{Airstrip: &airstrip}, Populate{Pilot: true, Airstrip: false})
}

func (e *Engine) complete(f types.Filter, populate Populate) Report {
	selected := Select(e.Classified(f), CompleteView())
	for i := range selected {
		selected[i] = twoState(selected[i])
	}
	return newReport(populate, e.index.AircraftTypes(f.AircraftType), selected)
}

// BaseSummary describes one base: the airstrips attached to it and how many
// report rows its attached airstrips produce.
type BaseSummary struct {
	Base           types.Airstrip `json:"base"`
	Attached       []string       `json:"attached"`
	Unattached     int            `json:"unattached"`
	CompleteRows   int            `json:"complete_rows"`
	IncompleteRows int            `json:"incomplete_rows"`
}

// SummarizeBase computes the BaseSummary of base.
func (e *Engine) SummarizeBase(base types.Airstrip) BaseSummary {
	attached := e.index.AttachedAirstrips(base)
	idents := make([]string, 0, len(attached))
	for _, a := range attached {
		idents = append(idents, a.Ident)
	}

	f := types.Filter{Base: &base}
	return BaseSummary{
		Base:           base,
		Attached:       idents,
		Unattached:     len(e.index.UnattachedAirstrips(base)),
		CompleteRows:   len(e.Complete(f).Results),
		IncompleteRows: len(e.Incomplete(f).Results),
	}
}

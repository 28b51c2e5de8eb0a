package completion

import (
	"slices"

	"github.com/jonathan/checkniner/internal/types"
)

// Row is one (pilot, airstrip) pair and the aircraft types the pilot has
// completed there. Synthetic rows were filled in by Merge and have no facts.
type Row struct {
	types.Pair
	Completed map[string]struct{}
	Synthetic bool
}

// HasCompleted reports whether the row records a fact for the aircraft type.
func (r Row) HasCompleted(aircraftType string) bool {
	_, ok := r.Completed[aircraftType]
	return ok
}

type scopedFact struct {
	pair         types.Pair
	aircraftType types.AircraftType
}

// GroupFacts keeps the facts whose pilot, airstrip and aircraft type are all
// in scope, sorts them by (pilot, airstrip, aircraft type) and folds each run
// sharing a (pilot, airstrip) into a single Row. The result is sparse but in
// the same order as Candidates(pilots, airstrips).
func GroupFacts(facts []types.CompletionFact, pilots []types.Pilot, airstrips []types.Airstrip, aircraftTypes []types.AircraftType) []Row {
	pilotsByUsername := make(map[string]types.Pilot, len(pilots))
	for _, p := range pilots {
		pilotsByUsername[p.Username] = p
	}
	airstripsByIdent := make(map[string]types.Airstrip, len(airstrips))
	for _, a := range airstrips {
		airstripsByIdent[a.Ident] = a
	}
	typesByName := make(map[string]types.AircraftType, len(aircraftTypes))
	for _, t := range aircraftTypes {
		typesByName[t.Name] = t
	}

	scoped := make([]scopedFact, 0, len(facts))
	for _, f := range facts {
		p, ok := pilotsByUsername[f.Pilot]
		if !ok {
			continue
		}
		a, ok := airstripsByIdent[f.Airstrip]
		if !ok {
			continue
		}
		t, ok := typesByName[f.AircraftType]
		if !ok {
			continue
		}
		scoped = append(scoped, scopedFact{pair: types.Pair{Pilot: p, Airstrip: a}, aircraftType: t})
	}

	slices.SortFunc(scoped, func(x, y scopedFact) int {
		if c := types.ComparePairs(x.pair, y.pair); c != 0 {
			return c
		}
		return types.CompareAircraftTypes(x.aircraftType, y.aircraftType)
	})

	var rows []Row
	for _, f := range scoped {
		if n := len(rows); n > 0 && types.ComparePairs(rows[n-1].Pair, f.pair) == 0 {
			rows[n-1].Completed[f.aircraftType.Name] = struct{}{}
			continue
		}
		rows = append(rows, Row{
			Pair:      f.pair,
			Completed: map[string]struct{}{f.aircraftType.Name: {}},
		})
	}
	return rows
}

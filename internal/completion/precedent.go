package completion

import (
	"slices"

	"github.com/jonathan/checkniner/internal/types"
)

// Precedent records, per airstrip ident, the aircraft types that at least one
// pilot has completed there. Airstrips with no facts are absent.
type Precedent map[string]map[string]struct{}

// BuildPrecedent scans the full, unfiltered fact set. It must never be given a
// filtered subset.
func BuildPrecedent(facts []types.CompletionFact) Precedent {
	p := make(Precedent)
	for _, f := range facts {
		set, ok := p[f.Airstrip]
		if !ok {
			set = make(map[string]struct{})
			p[f.Airstrip] = set
		}
		set[f.AircraftType] = struct{}{}
	}
	return p
}

// Used reports whether anyone has completed anything at the airstrip.
func (p Precedent) Used(airstrip string) bool {
	_, ok := p[airstrip]
	return ok
}

// Has reports whether anyone has completed the aircraft type at the airstrip.
func (p Precedent) Has(airstrip, aircraftType string) bool {
	_, ok := p[airstrip][aircraftType]
	return ok
}

// Types returns the precedented aircraft type names at the airstrip, sorted.
func (p Precedent) Types(airstrip string) []string {
	set := p[airstrip]
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

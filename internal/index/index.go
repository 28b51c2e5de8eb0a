// Package index provides ordered, read-only views over the pilots, airstrips
// and aircraft types of a snapshot, plus identifier resolution for report filters.
package index

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jonathan/checkniner/internal/types"
)

var (
	// ErrNotFound indicates an identifier that matches no entity.
	ErrNotFound = errors.New("not found")
	// ErrNotABase indicates a base filter naming an airstrip that is not a base.
	ErrNotABase = errors.New("airstrip is not a base")
	// ErrConflictingFilter indicates an airstrip and a base were both requested.
	ErrConflictingFilter = errors.New("airstrip and base filters are mutually exclusive")
)

// Index holds entities sorted by the shared comparators in the types package.
type Index struct {
	pilots        []types.Pilot
	airstrips     []types.Airstrip
	aircraftTypes []types.AircraftType

	pilotsByUsername    map[string]types.Pilot
	airstripsByIdent    map[string]types.Airstrip
	aircraftTypesByName map[string]types.AircraftType

	// attached maps a base ident to the airstrips referencing it, in ident order.
	attached map[string][]types.Airstrip
}

// New builds an Index from a snapshot. The snapshot is not retained.
func New(snap *types.Snapshot) *Index {
	x := &Index{
		pilots:              slices.Clone(snap.Pilots),
		airstrips:           slices.Clone(snap.Airstrips),
		aircraftTypes:       slices.Clone(snap.AircraftTypes),
		pilotsByUsername:    make(map[string]types.Pilot, len(snap.Pilots)),
		airstripsByIdent:    make(map[string]types.Airstrip, len(snap.Airstrips)),
		aircraftTypesByName: make(map[string]types.AircraftType, len(snap.AircraftTypes)),
		attached:            make(map[string][]types.Airstrip),
	}

	slices.SortFunc(x.pilots, types.ComparePilots)
	slices.SortFunc(x.airstrips, types.CompareAirstrips)
	slices.SortFunc(x.aircraftTypes, types.CompareAircraftTypes)

	for _, p := range x.pilots {
		x.pilotsByUsername[p.Username] = p
	}
	for _, t := range x.aircraftTypes {
		x.aircraftTypesByName[t.Name] = t
	}
	for _, a := range x.airstrips {
		x.airstripsByIdent[a.Ident] = a
		seen := make(map[string]bool, len(a.Bases))
		for _, base := range a.Bases {
			if base == a.Ident || seen[base] {
				continue
			}
			seen[base] = true
			x.attached[base] = append(x.attached[base], a)
		}
	}

	return x
}

// Pilots returns every pilot in order, or only the given pilot.
func (x *Index) Pilots(only *types.Pilot) []types.Pilot {
	if only != nil {
		if p, ok := x.pilotsByUsername[only.Username]; ok {
			return []types.Pilot{p}
		}
		return []types.Pilot{*only}
	}
	return slices.Clone(x.pilots)
}

// Airstrips returns the airstrips in scope: only the given airstrip, the
// airstrips attached to base, or every airstrip.
func (x *Index) Airstrips(only, base *types.Airstrip) []types.Airstrip {
	switch {
	case only != nil:
		if a, ok := x.airstripsByIdent[only.Ident]; ok {
			return []types.Airstrip{a}
		}
		return []types.Airstrip{*only}
	case base != nil:
		return slices.Clone(x.attached[base.Ident])
	default:
		return slices.Clone(x.airstrips)
	}
}

// AircraftTypes returns every aircraft type in column order, or only the given type.
func (x *Index) AircraftTypes(only *types.AircraftType) []types.AircraftType {
	if only != nil {
		if t, ok := x.aircraftTypesByName[only.Name]; ok {
			return []types.AircraftType{t}
		}
		return []types.AircraftType{*only}
	}
	return slices.Clone(x.aircraftTypes)
}

// Bases returns the airstrips flagged as bases, in ident order.
func (x *Index) Bases() []types.Airstrip {
	var bases []types.Airstrip
	for _, a := range x.airstrips {
		if a.IsBase {
			bases = append(bases, a)
		}
	}
	return bases
}

// AttachedAirstrips returns the airstrips which reference base as one of their bases.
func (x *Index) AttachedAirstrips(base types.Airstrip) []types.Airstrip {
	return slices.Clone(x.attached[base.Ident])
}

// UnattachedAirstrips returns every airstrip that does not reference base,
// excluding the base itself.
func (x *Index) UnattachedAirstrips(base types.Airstrip) []types.Airstrip {
	attached := make(map[string]bool)
	for _, a := range x.attached[base.Ident] {
		attached[a.Ident] = true
	}

	var out []types.Airstrip
	for _, a := range x.airstrips {
		if a.Ident == base.Ident || attached[a.Ident] {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Pilot looks up a pilot by username.
func (x *Index) Pilot(username string) (types.Pilot, error) {
	p, ok := x.pilotsByUsername[username]
	if !ok {
		return types.Pilot{}, fmt.Errorf("pilot %q: %w", username, ErrNotFound)
	}
	return p, nil
}

// Airstrip looks up an airstrip by ident.
func (x *Index) Airstrip(ident string) (types.Airstrip, error) {
	a, ok := x.airstripsByIdent[ident]
	if !ok {
		return types.Airstrip{}, fmt.Errorf("airstrip %q: %w", ident, ErrNotFound)
	}
	return a, nil
}

// Base looks up an airstrip by ident and requires it to be a base.
func (x *Index) Base(ident string) (types.Airstrip, error) {
	a, err := x.Airstrip(ident)
	if err != nil {
		return types.Airstrip{}, err
	}
	if !a.IsBase {
		return types.Airstrip{}, fmt.Errorf("airstrip %q: %w", ident, ErrNotABase)
	}
	return a, nil
}

// AircraftType looks up an aircraft type by name.
func (x *Index) AircraftType(name string) (types.AircraftType, error) {
	t, ok := x.aircraftTypesByName[name]
	if !ok {
		return types.AircraftType{}, fmt.Errorf("aircraft type %q: %w", name, ErrNotFound)
	}
	return t, nil
}

package index

import (
	"fmt"

	"github.com/jonathan/checkniner/internal/types"
)

// Resolve turns a FilterRequest into a Filter of resolved entities. Unknown
// identifiers and contradictory filters are rejected here so that the
// completion engine only ever sees well-formed input.
func (x *Index) Resolve(req types.FilterRequest) (types.Filter, error) {
	var f types.Filter

	if req.Airstrip != "" && req.Base != "" {
		return f, ErrConflictingFilter
	}
	if err := req.Validate(); err != nil {
		return f, fmt.Errorf("invalid filter: %w", err)
	}

	if req.Pilot != "" {
		p, err := x.Pilot(req.Pilot)
		if err != nil {
			return f, err
		}
		f.Pilot = &p
	}
	if req.Airstrip != "" {
		a, err := x.Airstrip(req.Airstrip)
		if err != nil {
			return f, err
		}
		f.Airstrip = &a
	}
	if req.Base != "" {
		b, err := x.Base(req.Base)
		if err != nil {
			return f, err
		}
		f.Base = &b
	}
	if req.AircraftType != "" {
		t, err := x.AircraftType(req.AircraftType)
		if err != nil {
			return f, err
		}
		f.AircraftType = &t
	}

	return f, nil
}

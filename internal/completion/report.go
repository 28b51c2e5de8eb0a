package completion

import "github.com/jonathan/checkniner/internal/types"

// Populate tells a renderer which identity columns carry information. A
// report scoped to one pilot does not need a pilot column.
type Populate struct {
	Pilot    bool `json:"pilot"`
	Airstrip bool `json:"airstrip"`
}

// ReportRow is the presentation form of a classified row.
type ReportRow struct {
	PilotName     string            `json:"pilot_name"`
	PilotSlug     string            `json:"pilot_slug"`
	AirstripIdent string            `json:"airstrip_ident"`
	AirstripName  string            `json:"airstrip_name"`
	AircraftTypes map[string]Status `json:"actypes"`
}

// Report is an ordered list of rows plus the aircraft type columns in order.
type Report struct {
	Populate      Populate    `json:"populate"`
	AircraftTypes []string    `json:"aircraft_types"`
	Results       []ReportRow `json:"results"`
}

func newReport(populate Populate, aircraftTypes []types.AircraftType, rows []ClassifiedRow) Report {
	names := make([]string, 0, len(aircraftTypes))
	for _, t := range aircraftTypes {
		names = append(names, t.Name)
	}

	results := make([]ReportRow, 0, len(rows))
	for _, r := range rows {
		statuses := make(map[string]Status, len(r.Cells))
		for _, c := range r.Cells {
			statuses[c.AircraftType.Name] = c.Status
		}
		results = append(results, ReportRow{
			PilotName:     r.Pilot.FullName(),
			PilotSlug:     r.Pilot.Username,
			AirstripIdent: r.Airstrip.Ident,
			AirstripName:  r.Airstrip.Name,
			AircraftTypes: statuses,
		})
	}

	return Report{
		Populate:      populate,
		AircraftTypes: names,
		Results:       results,
	}
}

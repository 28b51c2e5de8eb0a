package completion

import (
	"slices"
	"testing"

	"github.com/jonathan/checkniner/internal/types"
	"github.com/stretchr/testify/require"
)

var (
	kim = types.Pilot{Username: "kim", FirstName: "Kim", LastName: "Pilot1"}
	sam = types.Pilot{Username: "sam", FirstName: "Sam", LastName: "Pilot2"}

	id1  = types.Airstrip{Ident: "ID1", Name: "Airstrip1"}
	id2  = types.Airstrip{Ident: "ID2", Name: "Airstrip2"}
	id3  = types.Airstrip{Ident: "ID3", Name: "Airstrip3"}
	base = types.Airstrip{Ident: "BASE", Name: "Base1", IsBase: true}

	name1 = types.AircraftType{Name: "Name1"}
	name2 = types.AircraftType{Name: "Name2"}
)

func fact(p types.Pilot, a types.Airstrip, t types.AircraftType) types.CompletionFact {
	return types.CompletionFact{Pilot: p.Username, Airstrip: a.Ident, AircraftType: t.Name}
}

// snapshot builds the population used by most tests: two pilots, three
// airstrips and two aircraft types, plus the given facts.
func snapshot(facts ...types.CompletionFact) *types.Snapshot {
	return &types.Snapshot{
		Pilots:        []types.Pilot{sam, kim},
		Airstrips:     []types.Airstrip{id3, id1, id2},
		AircraftTypes: []types.AircraftType{name2, name1},
		Facts:         facts,
	}
}

func row(p types.Pilot, a types.Airstrip, statuses map[string]Status) ReportRow {
	return ReportRow{
		PilotName:     p.FullName(),
		PilotSlug:     p.Username,
		AirstripIdent: a.Ident,
		AirstripName:  a.Name,
		AircraftTypes: statuses,
	}
}

func pairKeys(rows []Row) [][2]string {
	out := [][2]string{}
	for _, r := range rows {
		out = append(out, [2]string{r.Pilot.Username, r.Airstrip.Ident})
	}
	return out
}

func requireRowsOrdered(t *testing.T, rows []Row) {
	t.Helper()
	require.True(t, slices.IsSortedFunc(rows, func(a, b Row) int {
		return types.ComparePairs(a.Pair, b.Pair)
	}), "rows out of candidate order: %v", pairKeys(rows))
}

package types

import "cmp"

// ComparePilots orders pilots by last name, then first name. The username
// breaks ties so that the order is total.
func ComparePilots(a, b Pilot) int {
	if c := cmp.Compare(a.LastName, b.LastName); c != 0 {
		return c
	}
	if c := cmp.Compare(a.FirstName, b.FirstName); c != 0 {
		return c
	}
	return cmp.Compare(a.Username, b.Username)
}

// CompareAirstrips orders airstrips by ident.
func CompareAirstrips(a, b Airstrip) int {
	return cmp.Compare(a.Ident, b.Ident)
}

// CompareAircraftTypes orders aircraft types by sort position, then name.
func CompareAircraftTypes(a, b AircraftType) int {
	if c := cmp.Compare(a.SortPosition, b.SortPosition); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// ComparePairs is the single ordering shared by candidate generation and
// fact grouping: pilot first, then airstrip.
func ComparePairs(a, b Pair) int {
	if c := ComparePilots(a.Pilot, b.Pilot); c != 0 {
		return c
	}
	return CompareAirstrips(a.Airstrip, b.Airstrip)
}

package completion

import "github.com/jonathan/checkniner/internal/types"

// Candidates returns the cross product of pilots and airstrips, pilots outer.
// Both inputs must already be sorted by their comparators; the result is then
// sorted by types.ComparePairs, which is what Merge relies on.
func Candidates(pilots []types.Pilot, airstrips []types.Airstrip) []types.Pair {
	pairs := make([]types.Pair, 0, len(pilots)*len(airstrips))
	for _, p := range pilots {
		for _, a := range airstrips {
			pairs = append(pairs, types.Pair{Pilot: p, Airstrip: a})
		}
	}
	return pairs
}

// IsOrdered reports whether pairs are strictly increasing under types.ComparePairs.
func IsOrdered(pairs []types.Pair) bool {
	for i := 1; i < len(pairs); i++ {
		if types.ComparePairs(pairs[i-1], pairs[i]) >= 0 {
			return false
		}
	}
	return true
}


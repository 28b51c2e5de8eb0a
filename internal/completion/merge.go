package completion

import "github.com/jonathan/checkniner/internal/types"

// Merge fills the sparse grouped rows into the dense candidate list, producing
// exactly one row per candidate in candidate order. Candidates without a
// grouped row become synthetic empty rows. Both inputs must be ordered by
// types.ComparePairs.
func Merge(candidates []types.Pair, grouped []Row) []Row {
	rows := make([]Row, 0, len(candidates))

	g := 0
	for _, c := range candidates {
		// A grouped row ordered before the current candidate has no candidate
		// at all; it cannot match anything later either.
		for g < len(grouped) && types.ComparePairs(grouped[g].Pair, c) < 0 {
			g++
		}

		if g < len(grouped) && types.ComparePairs(grouped[g].Pair, c) == 0 {
			rows = append(rows, grouped[g])
			g++
			continue
		}

		rows = append(rows, Row{
			Pair:      c,
			Completed: map[string]struct{}{},
			Synthetic: true,
		})
	}

	return rows
}

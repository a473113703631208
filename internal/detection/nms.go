package detection

import (
	"sort"

	"github.com/ironsheep/bbox-estimator/internal/geometry"
)

// DefaultIoUThreshold is the overlap above which Suppress discards a
// lower-scored candidate.
const DefaultIoUThreshold = 0.3

// Suppress performs greedy Non-Maximum Suppression.
//
// Parameters:
//   - candidates: Scored candidates in any order. The slice is not modified.
//   - iouThreshold: A remaining candidate is discarded when its IoU with the
//     candidate just kept is strictly greater than this value.
//
// Returns the surviving candidates sorted by score, highest first.
//
// # Algorithm
//
//  1. Order candidate indices by score descending. The sort is stable, so
//     equal scores keep their input order and the result is deterministic.
//  2. While indices remain: keep the first, then drop every other remaining
//     index whose box overlaps the kept box by more than iouThreshold.
//
// Every pair of survivors overlaps by at most iouThreshold, and running
// Suppress again on its own output returns the same slice.
//
// Complexity is O(n²), which is fine for the tens of candidates a single
// image produces.
func Suppress(candidates []Candidate, iouThreshold float64) []Candidate {
	if len(candidates) == 0 {
		return []Candidate{}
	}

	remaining := make([]int, len(candidates))
	for i := range remaining {
		remaining[i] = i
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return candidates[remaining[i]].Score > candidates[remaining[j]].Score
	})

	kept := make([]Candidate, 0, len(candidates))
	for len(remaining) > 0 {
		best := candidates[remaining[0]]
		kept = append(kept, best)

		// Filter the rest in place; order is preserved.
		next := remaining[:0]
		for _, idx := range remaining[1:] {
			if geometry.IoU(best.Box, candidates[idx].Box) <= iouThreshold {
				next = append(next, idx)
			}
		}
		remaining = next
	}

	return kept
}

// Package detection turns a noisy set of measured region outlines into a
// single bounding box.
//
// This package holds the decision-making half of the pipeline. It never sees
// pixels: segmentation (see package segment) reduces an image to one
// Measurement per outline, and everything here works on those numbers.
//
// # Pipeline
//
//  1. Filtering: Evaluate / BuildCandidates reject outlines that are too small,
//     too large, too elongated or too hollow, and score the rest
//  2. Deduplication: Suppress runs greedy Non-Maximum Suppression so that
//     overlapping candidates collapse onto the best-scored one
//  3. Selection: SelectBest returns the top survivor, or a not-found Result
//
// # Scores
//
// A candidate's score is its area multiplied by its solidity (area divided
// by convex hull area). Scores are only compared with each other; they carry
// no probabilistic meaning and are not bounded above.
//
// # Determinism
//
// Suppress sorts with a stable sort, so candidates with equal scores are
// ranked by their input order. Given the same measurements in the same order
// the pipeline always returns the same box.
//
// # Thread Safety
//
// All functions are pure. Independent images can be processed concurrently
// without coordination.
package detection

package detection

import "github.com/ironsheep/bbox-estimator/internal/geometry"

// Result is the single terminal output of the pipeline.
//
// "No detection" is an ordinary value: Found is false and Box is nil. It is
// never reported as an error.
type Result struct {
	Found bool          `json:"found"`
	Box   *geometry.Box `json:"box,omitempty"`
}

// NotFound returns the empty result.
func NotFound() Result {
	return Result{}
}

// Found returns a result holding b.
func Found(b geometry.Box) Result {
	return Result{Found: true, Box: &b}
}

// SelectBest returns the first survivor, which Suppress guarantees is the
// highest-scored one, or NotFound for an empty slice.
func SelectBest(survivors []Candidate) Result {
	if len(survivors) == 0 {
		return NotFound()
	}
	return Found(survivors[0].Box)
}

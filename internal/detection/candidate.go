package detection

import (
	"github.com/ironsheep/bbox-estimator/internal/geometry"
)

// Measurement describes one extracted outline by the three quantities the
// filter needs. It is produced by the segmentation backend.
type Measurement struct {
	// Area is the area enclosed by the outline polygon, in square pixels.
	Area float64 `json:"area"`

	// Bounds is the axis-aligned bounding rectangle of the outline.
	Bounds geometry.Box `json:"bounds"`

	// HullArea is the area of the outline's convex hull.
	HullArea float64 `json:"hull_area"`
}

// Solidity returns Area / HullArea, or 0 when the hull has no area.
func (m Measurement) Solidity() float64 {
	if m.HullArea == 0 {
		return 0
	}
	return m.Area / m.HullArea
}

// Candidate is an outline that passed the filter, ranked by Score.
//
// Score is a heuristic (area weighted by solidity) used only for ordering; it
// is not a probability.
type Candidate struct {
	Box   geometry.Box `json:"box"`
	Score float64      `json:"score"`
}

// Reason names the filter rule that rejected an outline.
type Reason string

const (
	Accepted       Reason = ""
	RejectTiny     Reason = "area_below_floor"
	RejectAreaSize Reason = "area_ratio_out_of_range"
	RejectEmpty    Reason = "empty_bounds"
	RejectAspect   Reason = "aspect_ratio_out_of_range"
	RejectSolidity Reason = "solidity_below_minimum"
)

// Evaluate applies the acceptance filter to a single outline.
//
// Parameters:
//   - m: The outline's area, bounding rectangle and hull area.
//   - imageArea: Total pixel area of the image (width × height).
//   - th: Filter bounds.
//
// Returns the scored candidate and Accepted, or a zero Candidate and the
// first rule that failed. Rules are checked in this order:
//
//  1. Area >= MinRawArea
//  2. Area / imageArea within [MinAreaRatio, MaxAreaRatio]
//  3. Bounding rectangle has positive width and height
//  4. Height / width within [MinAspectRatio, MaxAspectRatio]
//  5. Solidity >= MinSolidity
//
// # Score
//
// score = Area × Solidity. Large compact regions win; elongated or hollow
// outlines are penalised even when they enclose a large area.
func Evaluate(m Measurement, imageArea float64, th Thresholds) (Candidate, Reason) {
	if m.Area < th.MinRawArea {
		return Candidate{}, RejectTiny
	}

	if imageArea <= 0 {
		return Candidate{}, RejectAreaSize
	}
	ratio := m.Area / imageArea
	if ratio < th.MinAreaRatio || ratio > th.MaxAreaRatio {
		return Candidate{}, RejectAreaSize
	}

	if !m.Bounds.Valid() {
		return Candidate{}, RejectEmpty
	}

	aspect := m.Bounds.H / m.Bounds.W
	if aspect < th.MinAspectRatio || aspect > th.MaxAspectRatio {
		return Candidate{}, RejectAspect
	}

	solidity := m.Solidity()
	if solidity < th.MinSolidity {
		return Candidate{}, RejectSolidity
	}

	return Candidate{
		Box:   m.Bounds,
		Score: m.Area * solidity,
	}, Accepted
}

// BuildCandidates filters and scores every measurement.
//
// The returned slice keeps the input order of the accepted outlines; callers
// must not rely on it being sorted. Zero measurements, or zero accepted, yield
// an empty (non-nil) slice.
func BuildCandidates(measurements []Measurement, imageArea float64, th Thresholds) []Candidate {
	candidates, _ := BuildCandidatesWithTally(measurements, imageArea, th)
	return candidates
}

// BuildCandidatesWithTally is BuildCandidates plus a count of rejections per
// rule, for diagnostics.
func BuildCandidatesWithTally(measurements []Measurement, imageArea float64, th Thresholds) ([]Candidate, map[Reason]int) {
	candidates := make([]Candidate, 0, len(measurements))
	rejected := make(map[Reason]int)

	for _, m := range measurements {
		c, reason := Evaluate(m, imageArea, th)
		if reason != Accepted {
			rejected[reason]++
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, rejected
}

package detection

import "fmt"

// Thresholds holds the tunable bounds of the candidate filter and the overlap
// threshold used by Suppress.
//
// The defaults were chosen empirically for a single roughly compact object
// photographed against a plain background. They are not derived from a model;
// callers with different imagery should tune them rather than edit the filter.
type Thresholds struct {
	// MinRawArea rejects noise specks. Square pixels.
	MinRawArea float64 `json:"min_raw_area"`

	// MinAreaRatio and MaxAreaRatio bound the outline area as a fraction of
	// the whole image (inclusive).
	MinAreaRatio float64 `json:"min_area_ratio"`
	MaxAreaRatio float64 `json:"max_area_ratio"`

	// MinAspectRatio and MaxAspectRatio bound height / width of the bounding
	// rectangle (inclusive).
	MinAspectRatio float64 `json:"min_aspect_ratio"`
	MaxAspectRatio float64 `json:"max_aspect_ratio"`

	// MinSolidity is the lowest accepted area / convex hull area.
	MinSolidity float64 `json:"min_solidity"`

	// IoUThreshold is the overlap above which a lower-scored candidate is
	// suppressed by a higher-scored one.
	IoUThreshold float64 `json:"iou_threshold"`
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinRawArea:     20,
		MinAreaRatio:   0.01,
		MaxAreaRatio:   0.90,
		MinAspectRatio: 0.3,
		MaxAspectRatio: 3.0,
		MinSolidity:    0.7,
		IoUThreshold:   0.3,
	}
}

// Validate checks that every bound is usable.
func (t Thresholds) Validate() error {
	if t.MinRawArea < 0 {
		return fmt.Errorf("min raw area must be >= 0, got %g", t.MinRawArea)
	}
	if t.MinAreaRatio < 0 || t.MaxAreaRatio > 1 || t.MinAreaRatio > t.MaxAreaRatio {
		return fmt.Errorf("area ratio range [%g, %g] must lie within [0, 1]", t.MinAreaRatio, t.MaxAreaRatio)
	}
	if t.MinAspectRatio <= 0 || t.MinAspectRatio > t.MaxAspectRatio {
		return fmt.Errorf("aspect ratio range [%g, %g] is invalid", t.MinAspectRatio, t.MaxAspectRatio)
	}
	if t.MinSolidity < 0 || t.MinSolidity > 1 {
		return fmt.Errorf("min solidity must be in [0, 1], got %g", t.MinSolidity)
	}
	if t.IoUThreshold < 0 || t.IoUThreshold > 1 {
		return fmt.Errorf("iou threshold must be in [0, 1], got %g", t.IoUThreshold)
	}
	return nil
}

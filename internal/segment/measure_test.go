package segment

import (
	"image"
	"math"
	"testing"

	"github.com/ironsheep/bbox-estimator/internal/geometry"
)

func pts(coords ...int) []image.Point {
	out := make([]image.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, image.Pt(coords[i], coords[i+1]))
	}
	return out
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name   string
		points []image.Point
		want   float64
	}{
		{"empty", nil, 0},
		{"single point", pts(3, 3), 0},
		{"segment", pts(0, 0, 5, 0), 0},
		{"square", pts(0, 0, 4, 0, 4, 4, 0, 4), 16},
		{"square reversed", pts(0, 4, 4, 4, 4, 0, 0, 0), 16},
		{"triangle", pts(0, 0, 6, 0, 0, 3), 9},
		{"L shape", pts(0, 0, 1, 0, 1, 4, 5, 4, 5, 5, 0, 5), 9},
		{"collinear", pts(0, 0, 1, 1, 2, 2), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.points); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name   string
		points []image.Point
		want   geometry.Box
	}{
		{"empty", nil, geometry.Box{}},
		{"single pixel", pts(7, 9), geometry.NewBox(7, 9, 1, 1)},
		{"rectangle corners", pts(2, 3, 6, 3, 6, 8, 2, 8), geometry.NewBox(2, 3, 5, 6)},
		{"scattered", pts(10, 1, 0, 5, 4, 20), geometry.NewBox(0, 1, 11, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundingBox(tt.points); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvexHull(t *testing.T) {
	t.Run("square with interior and edge points", func(t *testing.T) {
		hull := ConvexHull(pts(0, 0, 2, 0, 4, 0, 4, 4, 0, 4, 2, 2, 1, 3))
		if len(hull) != 4 {
			t.Fatalf("expected 4 hull points, got %v", hull)
		}
		if area := PolygonArea(hull); area != 16 {
			t.Errorf("hull area: got %v, want 16", area)
		}
	})

	t.Run("L shape", func(t *testing.T) {
		hull := ConvexHull(pts(0, 0, 1, 0, 1, 4, 5, 4, 5, 5, 0, 5))
		if area := PolygonArea(hull); area != 17 {
			t.Errorf("hull area: got %v, want 17", area)
		}
	})

	t.Run("degenerate", func(t *testing.T) {
		if hull := ConvexHull(pts(1, 1, 1, 1)); len(hull) != 1 {
			t.Errorf("duplicate points should collapse, got %v", hull)
		}
		if hull := ConvexHull(pts(0, 0, 1, 1, 2, 2, 3, 3)); PolygonArea(hull) != 0 {
			t.Errorf("collinear points should have no hull area, got %v", hull)
		}
		if hull := ConvexHull(nil); len(hull) != 0 {
			t.Errorf("expected empty hull, got %v", hull)
		}
	})

	t.Run("input untouched", func(t *testing.T) {
		in := pts(4, 4, 0, 0, 4, 0, 0, 4)
		ConvexHull(in)
		if in[0] != image.Pt(4, 4) {
			t.Error("ConvexHull reordered its input")
		}
	})
}

func TestMeasure(t *testing.T) {
	t.Run("rectangle", func(t *testing.T) {
		r := Measure(Outline(pts(2, 3, 6, 3, 6, 8, 2, 8)))
		if r.Area != 20 {
			t.Errorf("Area: got %v, want 20", r.Area)
		}
		if r.HullArea != 20 {
			t.Errorf("HullArea: got %v, want 20", r.HullArea)
		}
		if r.Bounds != geometry.NewBox(2, 3, 5, 6) {
			t.Errorf("Bounds: got %v", r.Bounds)
		}
		if r.Solidity() != 1 {
			t.Errorf("Solidity: got %v, want 1", r.Solidity())
		}
	})

	t.Run("L shape is less solid", func(t *testing.T) {
		r := Measure(Outline(pts(0, 0, 1, 0, 1, 4, 5, 4, 5, 5, 0, 5)))
		if got, want := r.Solidity(), 9.0/17.0; math.Abs(got-want) > 1e-12 {
			t.Errorf("Solidity: got %v, want %v", got, want)
		}
	})

	t.Run("single pixel", func(t *testing.T) {
		r := Measure(Outline(pts(4, 4)))
		if r.Area != 0 || r.HullArea != 0 {
			t.Errorf("expected zero areas, got %+v", r.Measurement)
		}
		if r.Bounds != geometry.NewBox(4, 4, 1, 1) {
			t.Errorf("Bounds: got %v", r.Bounds)
		}
	})
}

func TestMeasureTracedOutline(t *testing.T) {
	mask := paintMask(t, 20, 20, [4]int{3, 4, 12, 9})

	regions := MeasureAll(Outlines(mask))
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}

	r := regions[0]
	if r.Bounds != geometry.NewBox(3, 4, 10, 6) {
		t.Errorf("Bounds: got %v", r.Bounds)
	}
	// Polygon through pixel centres is one pixel smaller in each direction.
	if r.Area != 9*5 {
		t.Errorf("Area: got %v, want 45", r.Area)
	}

	ms := Measurements(regions)
	if len(ms) != 1 || ms[0] != r.Measurement {
		t.Errorf("Measurements: got %+v", ms)
	}
}

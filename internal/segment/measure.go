package segment

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/bbox-estimator/internal/detection"
	"github.com/ironsheep/bbox-estimator/internal/geometry"
)

// Region is one extracted outline together with its measurements.
type Region struct {
	Outline Outline `json:"-"`
	detection.Measurement
}

// Measure computes the enclosed area, bounding rectangle and convex hull
// area of an outline.
//
// The bounding rectangle is inclusive of both extreme pixels, so a single
// pixel has width and height 1. Area is that of the polygon through the
// pixel centres; it is zero for outlines with fewer than three points or
// with all points on one line, and so is the hull area.
func Measure(o Outline) Region {
	return Region{
		Outline: o,
		Measurement: detection.Measurement{
			Area:     PolygonArea(o),
			Bounds:   BoundingBox(o),
			HullArea: PolygonArea(ConvexHull(o)),
		},
	}
}

// MeasureAll measures every outline, preserving order.
func MeasureAll(outlines []Outline) []Region {
	regions := make([]Region, 0, len(outlines))
	for _, o := range outlines {
		regions = append(regions, Measure(o))
	}
	return regions
}

// Measurements strips the outlines from regions.
func Measurements(regions []Region) []detection.Measurement {
	ms := make([]detection.Measurement, len(regions))
	for i, r := range regions {
		ms[i] = r.Measurement
	}
	return ms
}

// PolygonArea returns the absolute area of a closed polygon using the
// shoelace formula.
func PolygonArea(points []image.Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}

	var sum float64
	for i := range points {
		sum += r2.Cross(vec(points[i]), vec(points[(i+1)%n]))
	}
	return math.Abs(sum) / 2
}

// BoundingBox returns the smallest axis-aligned box containing every point,
// counting each point as a whole pixel. An empty outline gives a zero box.
func BoundingBox(points []image.Point) geometry.Box {
	if len(points) == 0 {
		return geometry.Box{}
	}

	r := image.Rectangle{Min: points[0], Max: points[0].Add(image.Pt(1, 1))}
	for _, p := range points[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return geometry.FromRect(r)
}

// ConvexHull returns the convex hull of points in counter-clockwise order
// (clockwise on screen), using Andrew's monotone chain. Collinear points on
// the hull edges are dropped. Fewer than three distinct points are returned
// unchanged apart from sorting and deduplication.
func ConvexHull(points []image.Point) []image.Point {
	pts := make([]image.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	pts = dedupe(pts)
	if len(pts) < 3 {
		return pts
	}

	hull := make([]image.Point, 0, 2*len(pts))
	// Lower chain.
	for _, p := range pts {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// Upper chain.
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// turn is positive when o→a→b bends counter-clockwise in a y-up frame.
func turn(o, a, b image.Point) float64 {
	return r2.Cross(r2.Sub(vec(a), vec(o)), r2.Sub(vec(b), vec(o)))
}

func vec(p image.Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

func dedupe(sorted []image.Point) []image.Point {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, p := range sorted[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

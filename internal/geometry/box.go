// Package geometry provides the axis-aligned box type shared by the detection
// pipeline, together with the overlap measures used to compare boxes.
//
// # Coordinate System
//
// Boxes use the standard image convention:
//   - Origin (0, 0) at the top-left corner
//   - X increases rightward, Y increases downward
//   - (X, Y) is the top-left corner, W and H extend right and down
//
// All values are float64 pixel quantities. A Box is a plain value and is never
// mutated after construction.
package geometry

import (
	"fmt"
	"image"
	"math"
)

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X float64 `json:"x"` // Left edge
	Y float64 `json:"y"` // Top edge
	W float64 `json:"w"` // Width
	H float64 `json:"h"` // Height
}

// NewBox returns a Box with the given corner and size.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// FromRect converts an integer image.Rectangle to a Box.
func FromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// Rect returns the integer rectangle covering the box. Fractional edges are
// widened outward so the rectangle always contains the box.
func (b Box) Rect() image.Rectangle {
	return image.Rect(
		int(math.Floor(b.X)),
		int(math.Floor(b.Y)),
		int(math.Ceil(b.X+b.W)),
		int(math.Ceil(b.Y+b.H)),
	)
}

// Valid reports whether the box has a strictly positive width and height.
func (b Box) Valid() bool {
	return b.W > 0 && b.H > 0
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Area returns W × H.
func (b Box) Area() float64 {
	return b.W * b.H
}

func (b Box) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", b.X, b.Y, b.W, b.H)
}

// Area returns the area of a box.
func Area(b Box) float64 {
	return b.Area()
}

// IntersectionArea returns the area shared by a and b, computed from the
// overlap along each axis. Boxes that do not overlap, or only touch along an
// edge, have an intersection of 0.
func IntersectionArea(a, b Box) float64 {
	ix := math.Max(0, math.Min(a.Right(), b.Right())-math.Max(a.X, b.X))
	iy := math.Max(0, math.Min(a.Bottom(), b.Bottom())-math.Max(a.Y, b.Y))
	return ix * iy
}

// IoU returns the Intersection over Union of a and b.
//
// The result lies in [0, 1]: 0 for disjoint boxes and 1 for identical
// non-degenerate boxes. When the union is exactly zero (two zero-area boxes)
// the IoU is defined as 0 rather than dividing by zero.
func IoU(a, b Box) float64 {
	inter := IntersectionArea(a, b)
	union := a.Area() + b.Area() - inter
	if union == 0 {
		return 0
	}
	return inter / union
}

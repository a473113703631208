package geometry

import (
	"fmt"
	"math"
)

// RelativeBox is a box expressed as a centre point and size normalised by the
// image dimensions, the layout used by annotation tools and YOLO-style labels.
type RelativeBox struct {
	CX float64 `json:"cx"` // Centre X / image width
	CY float64 `json:"cy"` // Centre Y / image height
	W  float64 `json:"w"`  // Width / image width
	H  float64 `json:"h"`  // Height / image height
}

// relativePrecision is the number of decimals kept in normalised values.
const relativePrecision = 1e6

// Relative converts b into image-relative coordinates.
//
// Every value is rounded to 6 decimals. An error is returned when the image
// size is not positive, or when the result falls outside the unit square:
// the centre must lie in [0, 1] and the size in (0, 1].
func (b Box) Relative(imgW, imgH int) (RelativeBox, error) {
	if imgW <= 0 || imgH <= 0 {
		return RelativeBox{}, fmt.Errorf("invalid image size %dx%d", imgW, imgH)
	}
	w, h := float64(imgW), float64(imgH)

	rel := RelativeBox{
		CX: round6((b.X + b.W/2) / w),
		CY: round6((b.Y + b.H/2) / h),
		W:  round6(b.W / w),
		H:  round6(b.H / h),
	}

	if rel.CX < 0 || rel.CX > 1 || rel.CY < 0 || rel.CY > 1 ||
		rel.W <= 0 || rel.W > 1 || rel.H <= 0 || rel.H > 1 {
		return RelativeBox{}, fmt.Errorf("box %v does not fit a %dx%d image", b, imgW, imgH)
	}
	return rel, nil
}

// Absolute converts a relative box back into pixel coordinates.
func (r RelativeBox) Absolute(imgW, imgH int) Box {
	w := r.W * float64(imgW)
	h := r.H * float64(imgH)
	return Box{
		X: r.CX*float64(imgW) - w/2,
		Y: r.CY*float64(imgH) - h/2,
		W: w,
		H: h,
	}
}

func round6(v float64) float64 {
	return math.Round(v*relativePrecision) / relativePrecision
}

//go:build gocv

package segment

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/bbox-estimator/internal/detection"
	"github.com/ironsheep/bbox-estimator/internal/geometry"
)

// OpenCV runs the same pipeline through OpenCV. Its adaptive threshold,
// morphology and contour functions are the reference the Classical backend
// approximates.
type OpenCV struct {
	opts Options
}

// NewOpenCV returns an OpenCV backend. Invalid options are replaced by
// DefaultOptions.
func NewOpenCV(opts Options) *OpenCV {
	if opts.Validate() != nil {
		opts = DefaultOptions()
	}
	return &OpenCV{opts: opts}
}

// New returns the OpenCV backend.
func New(opts Options) Backend {
	return NewOpenCV(opts)
}

// Name returns "opencv".
func (o *OpenCV) Name() string {
	return "opencv"
}

// Regions implements Backend.
func (o *OpenCV) Regions(img image.Image) ([]Region, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	side := int(2*o.opts.BlurRadius) + 1
	gocv.GaussianBlur(gray, &blurred, image.Pt(side, side), 0, 0, gocv.BorderDefault)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.AdaptiveThreshold(blurred, &mask, 255, gocv.AdaptiveThresholdGaussian,
		gocv.ThresholdBinaryInv, o.opts.BlockSize(), float32(o.opts.Offset))

	if o.opts.OpenRadius > 0 {
		k := 2*o.opts.OpenRadius + 1
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(k, k))
		gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
		kernel.Close()
	}
	if o.opts.CloseRadius > 0 {
		k := 2*o.opts.CloseRadius + 1
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(k, k))
		gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
		kernel.Close()
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	regions := make([]Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		regions = append(regions, Region{
			Outline: Outline(contour.ToPoints()),
			Measurement: detection.Measurement{
				Area:     gocv.ContourArea(contour),
				Bounds:   geometry.FromRect(gocv.BoundingRect(contour)),
				HullArea: hullArea(contour),
			},
		})
	}
	return regions, nil
}

func hullArea(contour gocv.PointVector) float64 {
	hull := gocv.NewMat()
	defer hull.Close()
	gocv.ConvexHull(contour, &hull, true, true)

	points := gocv.NewPointVectorFromMat(hull)
	defer points.Close()
	return gocv.ContourArea(points)
}

package segment

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	bildseg "github.com/anthonynsimon/bild/segment"
)

// Options controls mask generation. Radii describe square windows of side
// 2r+1 pixels.
type Options struct {
	// BlurRadius is the gaussian pre-blur radius (2 gives a 5×5 window).
	BlurRadius float64 `json:"blur_radius"`

	// BlockRadius is the radius of the neighbourhood used for the local
	// gaussian-weighted mean of the adaptive threshold (5 gives 11×11).
	BlockRadius int `json:"block_radius"`

	// Offset is subtracted from the local mean. A pixel is foreground when
	// it is at most localMean - Offset.
	Offset float64 `json:"offset"`

	// OpenRadius is the structuring element radius of the opening that
	// removes speckle (1 gives 3×3). Zero disables the step.
	OpenRadius int `json:"open_radius"`

	// CloseRadius is the structuring element radius of the closing that
	// bridges gaps (4 gives 9×9). Zero disables the step.
	CloseRadius int `json:"close_radius"`
}

// DefaultOptions returns the mask parameters the estimator was tuned with.
func DefaultOptions() Options {
	return Options{
		BlurRadius:  2,
		BlockRadius: 5,
		Offset:      2,
		OpenRadius:  1,
		CloseRadius: 4,
	}
}

// BlockSize returns the side of the adaptive threshold window.
func (o Options) BlockSize() int {
	return 2*o.BlockRadius + 1
}

// Validate reports whether the options describe a usable pipeline.
func (o Options) Validate() error {
	if o.BlurRadius < 0 {
		return fmt.Errorf("blur radius must not be negative, got %v", o.BlurRadius)
	}
	if o.BlockRadius < 1 {
		return fmt.Errorf("block radius must be at least 1, got %d", o.BlockRadius)
	}
	if o.OpenRadius < 0 || o.CloseRadius < 0 {
		return fmt.Errorf("morphology radii must not be negative, got open=%d close=%d", o.OpenRadius, o.CloseRadius)
	}
	return nil
}

// Mask converts img into a binary foreground mask.
//
// Parameters:
//   - img: Source image in any color model.
//   - opts: Window sizes and threshold offset.
//
// Returns an *image.Gray with the same size as img where foreground pixels
// are 255 and background pixels are 0.
//
// # Algorithm
//
//  1. Grayscale with ITU-R BT.601 luminance weights
//  2. Gaussian pre-blur to suppress sensor noise
//  3. Local mean: a second, wider gaussian blur of the pre-blurred image
//  4. Inverted adaptive threshold: dark-relative-to-surroundings pixels
//     become foreground
//  5. Opening (erode then dilate) drops isolated specks
//  6. Closing (dilate then erode) fills small holes and joins fragments
//
// Steps 5 and 6 use square windows like OpenCV's MORPH_RECT and run in time
// independent of the radius (see rectFilter).
//  7. Binarise at 128 so the result is strictly 0/255
//
// A uniformly coloured image produces an empty mask: every pixel equals its
// local mean and the offset keeps it out of the foreground.
func Mask(img image.Image, opts Options) *image.Gray {
	gray := effect.GrayscaleWithWeights(img, 0.299, 0.587, 0.114)

	smoothed := image.Image(gray)
	if opts.BlurRadius > 0 {
		smoothed = blur.Gaussian(gray, opts.BlurRadius)
	}
	local := blur.Gaussian(smoothed, float64(opts.BlockRadius))

	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	binary := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := float64(lum(smoothed, x, y))
			mean := float64(lum(local, x, y))
			if v <= mean-opts.Offset {
				binary.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	cleaned := binary
	if opts.OpenRadius > 0 {
		cleaned = dilate(erode(cleaned, opts.OpenRadius), opts.OpenRadius)
	}
	if opts.CloseRadius > 0 {
		cleaned = erode(dilate(cleaned, opts.CloseRadius), opts.CloseRadius)
	}

	return bildseg.Threshold(cleaned, 128)
}

// lum returns the 8-bit luminance of the pixel at (x, y) relative to the
// image's own bounds. The images passed here are already gray, so the red
// channel is enough.
func lum(img image.Image, x, y int) uint8 {
	o := img.Bounds().Min
	x, y = x+o.X, y+o.Y
	switch m := img.(type) {
	case *image.Gray:
		return m.GrayAt(x, y).Y
	case *image.RGBA:
		return m.RGBAAt(x, y).R
	default:
		r, _, _, _ := img.At(x, y).RGBA()
		return uint8(r >> 8)
	}
}

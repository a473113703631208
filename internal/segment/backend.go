package segment

import (
	"errors"
	"fmt"
	"image"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("image has zero area")

// Backend turns an image into measured external regions.
//
// Implementations must be safe for concurrent use on different images.
type Backend interface {
	// Name identifies the implementation in logs and reports.
	Name() string

	// Regions returns one Region per external outline in img.
	Regions(img image.Image) ([]Region, error)
}

// Classical is the pure-Go backend.
type Classical struct {
	opts Options
}

// NewClassical returns a Classical backend. Invalid options are replaced by
// DefaultOptions.
func NewClassical(opts Options) *Classical {
	if opts.Validate() != nil {
		opts = DefaultOptions()
	}
	return &Classical{opts: opts}
}

// Name returns "classical".
func (c *Classical) Name() string {
	return "classical"
}

// Options returns the mask options in use.
func (c *Classical) Options() Options {
	return c.opts
}

// Regions masks img, extracts its external outlines and measures them.
func (c *Classical) Regions(img image.Image) ([]Region, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	return MeasureAll(Outlines(Mask(img, c.opts))), nil
}

func checkImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("failed to segment: %w", ErrEmptyImage)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("failed to segment %dx%d image: %w", b.Dx(), b.Dy(), ErrEmptyImage)
	}
	return nil
}

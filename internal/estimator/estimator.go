// Package estimator wires image loading, segmentation and detection into the
// single-box estimate.
//
// Every failure mode of a single estimate (missing file, corrupt image,
// segmentation error, a panic anywhere in the pipeline) is logged and
// reported as "not found"; callers of EstimatePath and EstimateImage never
// see an error. Analyze exposes the intermediate stages for diagnostics and
// does return errors.
package estimator

import (
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/bbox-estimator/internal/debug"
	"github.com/ironsheep/bbox-estimator/internal/detection"
	"github.com/ironsheep/bbox-estimator/internal/geometry"
	"github.com/ironsheep/bbox-estimator/internal/imaging"
	"github.com/ironsheep/bbox-estimator/internal/segment"
)

// Estimator runs the pipeline. It holds no per-image state and is safe for
// concurrent use as long as its Backend is.
type Estimator struct {
	cache      *imaging.ImageCache
	backend    segment.Backend
	thresholds detection.Thresholds
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithCache loads paths through c instead of reading the file each time.
func WithCache(c *imaging.ImageCache) Option {
	return func(e *Estimator) { e.cache = c }
}

// WithBackend replaces the default segmentation backend.
func WithBackend(b segment.Backend) Option {
	return func(e *Estimator) { e.backend = b }
}

// WithThresholds replaces the default filter thresholds. Invalid thresholds
// are ignored with a log line.
func WithThresholds(th detection.Thresholds) Option {
	return func(e *Estimator) {
		if err := th.Validate(); err != nil {
			log.Printf("Ignoring invalid thresholds: %v", err)
			return
		}
		e.thresholds = th
	}
}

// New returns an Estimator using the compiled-in backend with default
// options and the default thresholds, adjusted by opts.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		backend:    segment.New(segment.DefaultOptions()),
		thresholds: detection.DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Backend returns the segmentation backend in use.
func (e *Estimator) Backend() segment.Backend {
	return e.backend
}

// Thresholds returns the filter thresholds in use.
func (e *Estimator) Thresholds() detection.Thresholds {
	return e.thresholds
}

// Load reads the image at path, through the cache when one is configured.
func (e *Estimator) Load(path string) (image.Image, error) {
	if e.cache != nil {
		return e.cache.Load(path)
	}
	return imaging.Open(path)
}

// EstimatePath loads the image at path and estimates its box.
func (e *Estimator) EstimatePath(path string) detection.Result {
	img, err := e.Load(path)
	if err != nil {
		log.Printf("Cannot estimate %s: %v", path, err)
		return detection.NotFound()
	}
	debug.Log("loaded %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return e.EstimateImage(img)
}

// EstimateImage estimates the box of an already decoded image.
func (e *Estimator) EstimateImage(img image.Image) detection.Result {
	rep, err := e.Analyze(img)
	if err != nil {
		log.Printf("Estimation failed: %v", err)
		return detection.NotFound()
	}
	return rep.Result
}

// Report describes one run of the pipeline stage by stage.
type Report struct {
	// Backend is the name of the segmentation backend.
	Backend string `json:"backend"`

	// Width and Height are the image dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Outlines is the number of external outlines found.
	Outlines int `json:"outlines"`

	// Candidates are the outlines that passed the filter, in outline order.
	Candidates []detection.Candidate `json:"candidates"`

	// Rejected counts filtered outlines by the rule that rejected them.
	Rejected map[detection.Reason]int `json:"rejected"`

	// Survivors are the candidates left after suppression, best first.
	Survivors []detection.Candidate `json:"survivors"`

	// Result is the final estimate.
	Result detection.Result `json:"result"`

	// Relative is the result normalised to the image size, when found.
	Relative *geometry.RelativeBox `json:"relative,omitempty"`
}

// Analyze runs the full pipeline on img and reports every stage.
//
// Returns an error when img is empty or segmentation fails. A panic inside
// the pipeline is recovered and returned as an error.
func (e *Estimator) Analyze(img image.Image) (rep *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			rep = nil
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	if img == nil {
		return nil, fmt.Errorf("failed to analyze: %w", imaging.ErrZeroArea)
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("failed to analyze %dx%d image: %w", width, height, imaging.ErrZeroArea)
	}

	regions, err := e.backend.Regions(img)
	if err != nil {
		return nil, fmt.Errorf("failed to segment image: %w", err)
	}
	debug.Log("%s backend found %d outlines", e.backend.Name(), len(regions))

	imageArea := float64(width) * float64(height)
	candidates, rejected := detection.BuildCandidatesWithTally(segment.Measurements(regions), imageArea, e.thresholds)
	debug.Log("%d candidates passed the filter, rejected: %v", len(candidates), rejected)

	survivors := detection.Suppress(candidates, e.thresholds.IoUThreshold)
	debug.Log("%d boxes before suppression, %d after", len(candidates), len(survivors))

	result := detection.SelectBest(survivors)
	rep = &Report{
		Backend:    e.backend.Name(),
		Width:      width,
		Height:     height,
		Outlines:   len(regions),
		Candidates: candidates,
		Rejected:   rejected,
		Survivors:  survivors,
		Result:     result,
	}

	if result.Found {
		debug.Log("selected box %s", result.Box)
		if rel, err := result.Box.Relative(width, height); err == nil {
			rep.Relative = &rel
		} else {
			debug.Log("no relative box: %v", err)
		}
	} else {
		debug.Log("no box selected")
	}

	return rep, nil
}

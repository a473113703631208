// Package segment reduces an image to the measured outlines of its
// foreground regions.
//
// It is the pixel-facing half of the estimator. The detection package never
// looks at pixels; it consumes the detection.Measurement values produced
// here.
//
// # Stages
//
//  1. Mask: grayscale, gaussian pre-blur, inverted adaptive gaussian
//     threshold, morphological opening then closing
//  2. Outlines: external boundaries of 8-connected foreground regions,
//     compressed to their corner points
//  3. Measure: enclosed polygon area, inclusive bounding rectangle and
//     convex hull area of each outline
//
// # Backends
//
// Two Backend implementations exist. Classical is written in Go on top of
// bild and gonum and is always available. OpenCV uses gocv and is compiled
// in with the "gocv" build tag:
//
//	go build -tags gocv ./...
//
// New returns whichever backend the binary was built with.
//
// # Coordinates
//
// Outline points are pixel centres relative to the top-left corner of the
// image bounds. A region covering columns 10..19 has a bounding rectangle of
// width 10 and an enclosed polygon that is one pixel narrower, matching the
// conventions of OpenCV's contour functions.
package segment

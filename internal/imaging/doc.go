// Package imaging loads images for the estimator and renders its results.
//
// Loading goes through disintegration/imaging so JPEG EXIF orientation is
// applied before any pixel is measured. PNG, JPEG, GIF, BMP, TIFF and WebP are
// decoded. Rendering covers the two visual outputs of the estimator: an
// annotated copy of the image with the detected boxes outlined, and a crop of
// a single box.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Boxes passed to Annotate and CropBox are relative to the image's top-left
// corner, which is how the estimator reports them.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Rendering functions never
// modify their input and can run concurrently on the same image.
//
// # Error Handling
//
// Load and Open wrap ErrNotFound for missing files so callers can tell a bad
// path from a corrupt file. Decoded images with no pixels yield ErrZeroArea.
package imaging

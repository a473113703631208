package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/bbox-estimator/internal/geometry"
)

// DefaultBoxColor is the outline colour used when none (or an invalid one)
// is given.
const DefaultBoxColor = "#FF0000"

// AnnotateResult contains the image with detected boxes drawn on it
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Boxes       int    `json:"boxes"`
}

// Annotate draws each box as a rectangle outline on a copy of img.
//
// Parameters:
//   - img: Source image; it is not modified.
//   - boxes: Boxes in image-relative pixel coordinates. Parts outside the
//     image are clipped.
//   - colorHex: Outline colour as "#RRGGBB" or "#RGB". Invalid values fall
//     back to DefaultBoxColor.
//   - thickness: Line width in pixels, drawn inward from the box edge.
//     Values below 1 are treated as 1.
//   - showLabels: Draw each box's "x,y" origin in a small label above it.
//
// Returns the annotated image as base64 PNG.
func Annotate(img image.Image, boxes []geometry.Box, colorHex string, thickness int, showLabels bool) (*AnnotateResult, error) {
	lineColor := ParseColor(colorHex)
	if thickness < 1 {
		thickness = 1
	}

	result := imaging.Clone(img)
	for _, b := range boxes {
		if !b.Valid() {
			continue
		}
		r := b.Rect()
		drawRect(result, r, lineColor, thickness)

		if showLabels {
			label := fmt.Sprintf("%d,%d", r.Min.X, r.Min.Y)
			y := r.Min.Y - 8
			if y < 1 {
				y = r.Min.Y + thickness + 1
			}
			drawLabel(result, r.Min.X+1, y, label, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}

	encoded, err := encodePNG(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &AnnotateResult{
		Width:       result.Bounds().Dx(),
		Height:      result.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		Boxes:       len(boxes),
	}, nil
}

// ParseColor converts a hex string to an opaque colour, falling back to
// DefaultBoxColor.
func ParseColor(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultBoxColor)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawRect strokes r with the given thickness, clipped to img.
func drawRect(img *image.NRGBA, r image.Rectangle, c color.RGBA, thickness int) {
	bounds := img.Bounds()
	for i := 0; i < thickness; i++ {
		x1, y1 := r.Min.X+i, r.Min.Y+i
		x2, y2 := r.Max.X-1-i, r.Max.Y-1-i
		if x1 > x2 || y1 > y2 {
			break
		}
		for x := x1; x <= x2; x++ {
			setClipped(img, bounds, x, y1, c)
			setClipped(img, bounds, x, y2, c)
		}
		for y := y1; y <= y2; y++ {
			setClipped(img, bounds, x1, y, c)
			setClipped(img, bounds, x2, y, c)
		}
	}
}

func setClipped(img *image.NRGBA, bounds image.Rectangle, x, y int, c color.Color) {
	if image.Pt(x, y).In(bounds) {
		img.Set(x, y, c)
	}
}

// drawLabel draws a text label with a 3x5 pixel font. Only digits, commas
// and minus signs have glyphs; other runes leave a gap.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
		'-': {"000", "000", "111", "000", "000"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			setClipped(img, bounds, x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, line := range glyph {
				for col, pixel := range line {
					if pixel == '1' {
						setClipped(img, bounds, cx+col, y+row, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}

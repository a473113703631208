package segment

import (
	"image"
	"math/rand"
	"testing"
	"time"

	"github.com/anthonynsimon/bild/effect"
)

func randomMask(seed int64, w, h int, density float64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	m := image.NewGray(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		if rng.Float64() < density {
			m.Pix[i] = 255
		}
	}
	return m
}

// sameAsRGBA reports the first pixel where m differs from the red channel of
// want, or ok when they agree everywhere.
func sameAsRGBA(m *image.Gray, want *image.RGBA) (image.Point, bool) {
	b := m.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if m.GrayAt(x, y).Y != want.RGBAAt(x, y).R {
				return image.Pt(x, y), false
			}
		}
	}
	return image.Point{}, true
}

func TestRectFilter_MatchesBild(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		r       int
		density float64
	}{
		{"sparse r1", 23, 17, 1, 0.2},
		{"dense r1", 23, 17, 1, 0.8},
		{"half r2", 31, 29, 2, 0.5},
		{"dense r4", 40, 12, 4, 0.9},
		{"sparse r4", 12, 40, 4, 0.05},
		{"radius wider than image", 5, 7, 6, 0.7},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := randomMask(int64(i+1), tt.w, tt.h, tt.density)

			if p, ok := sameAsRGBA(erode(m, tt.r), effect.Erode(m, float64(tt.r))); !ok {
				t.Errorf("erode differs from bild at %v", p)
			}
			if p, ok := sameAsRGBA(dilate(m, tt.r), effect.Dilate(m, float64(tt.r))); !ok {
				t.Errorf("dilate differs from bild at %v", p)
			}
		})
	}
}

func TestRectFilter_Square(t *testing.T) {
	m := paintMask(t, 20, 20, [4]int{5, 5, 14, 14})

	eroded := erode(m, 2)
	if got := countForeground(eroded); got != 6*6 {
		t.Errorf("erode: got %d foreground pixels, want 36", got)
	}
	if eroded.GrayAt(7, 7).Y != 255 || eroded.GrayAt(6, 7).Y != 0 {
		t.Error("erode should shrink the square by 2 on every side")
	}

	dilated := dilate(m, 2)
	if got := countForeground(dilated); got != 14*14 {
		t.Errorf("dilate: got %d foreground pixels, want 196", got)
	}

	// A region touching the border is not eroded from outside the image.
	full := paintMask(t, 8, 8, [4]int{0, 0, 7, 7})
	if got := countForeground(erode(full, 3)); got != 64 {
		t.Errorf("erode of a full mask: got %d foreground pixels, want 64", got)
	}
}

func TestMask_LargeImageIsFast(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	img := darkSquareImage(t, 1000, 1000, 388, 388, 224)

	start := time.Now()
	m := Mask(img, DefaultOptions())
	elapsed := time.Since(start)

	if elapsed > 5*time.Second {
		t.Errorf("Mask on 1000x1000 took %v", elapsed)
	}
	if m.GrayAt(390, 500).Y != 255 || m.GrayAt(10, 10).Y != 0 {
		t.Error("unexpected mask content")
	}
}

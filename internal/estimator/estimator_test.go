package estimator

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/bbox-estimator/internal/detection"
	"github.com/ironsheep/bbox-estimator/internal/geometry"
	"github.com/ironsheep/bbox-estimator/internal/imaging"
	"github.com/ironsheep/bbox-estimator/internal/segment"
)

// fakeBackend returns canned regions, an error, or panics.
type fakeBackend struct {
	regions []segment.Region
	err     error
	panics  bool
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Regions(img image.Image) ([]segment.Region, error) {
	if f.panics {
		panic("boom")
	}
	return f.regions, f.err
}

func region(x, y, w, h, area, hull float64) segment.Region {
	return segment.Region{Measurement: detection.Measurement{
		Area:     area,
		Bounds:   geometry.NewBox(x, y, w, h),
		HullArea: hull,
	}}
}

func blank(w, h int) image.Image {
	return image.NewGray(image.Rect(0, 0, w, h))
}

// writeSquarePNG writes a white w×h PNG with a black square and returns its
// path.
func writeSquarePNG(t *testing.T, w, h, x, y, side int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if px >= x && px < x+side && py >= y && py < y+side {
				c = color.RGBA{A: 255}
			}
			img.SetRGBA(px, py, c)
		}
	}

	path := filepath.Join(t.TempDir(), "square.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestAnalyze_SelectsBestSurvivor(t *testing.T) {
	backend := &fakeBackend{regions: []segment.Region{
		region(0, 0, 4, 3, 10, 10),               // tiny
		region(100, 100, 150, 150, 20000, 20000), // score 20000
		region(125, 100, 150, 150, 21000, 22000), // overlaps the previous, score ~20045
		region(600, 600, 100, 500, 45000, 47000), // aspect 5
		region(700, 100, 120, 120, 12000, 12100), // disjoint
	}}
	e := New(WithBackend(backend))

	rep, err := e.Analyze(blank(1000, 1000))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if rep.Backend != "fake" || rep.Outlines != 5 {
		t.Errorf("unexpected report header: %+v", rep)
	}
	if len(rep.Candidates) != 3 {
		t.Errorf("Candidates: got %d, want 3", len(rep.Candidates))
	}
	if rep.Rejected[detection.RejectTiny] != 1 || rep.Rejected[detection.RejectAspect] != 1 {
		t.Errorf("Rejected: got %v", rep.Rejected)
	}
	if len(rep.Survivors) != 2 {
		t.Errorf("Survivors: got %d, want 2", len(rep.Survivors))
	}

	want := geometry.NewBox(125, 100, 150, 150)
	if !rep.Result.Found || *rep.Result.Box != want {
		t.Fatalf("Result: got %+v, want %v", rep.Result, want)
	}
	if rep.Relative == nil || rep.Relative.CX != 0.2 {
		t.Errorf("Relative: got %+v", rep.Relative)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	segErr := errors.New("segmentation exploded")

	tests := []struct {
		name    string
		backend *fakeBackend
		img     image.Image
		wantIs  error
	}{
		{"zero area", &fakeBackend{}, blank(0, 10), imaging.ErrZeroArea},
		{"nil image", &fakeBackend{}, nil, imaging.ErrZeroArea},
		{"backend error", &fakeBackend{err: segErr}, blank(10, 10), segErr},
		{"backend panic", &fakeBackend{panics: true}, blank(10, 10), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithBackend(tt.backend))
			rep, err := e.Analyze(tt.img)
			if err == nil {
				t.Fatal("expected error")
			}
			if rep != nil {
				t.Errorf("expected nil report, got %+v", rep)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("expected %v, got %v", tt.wantIs, err)
			}

			// EstimateImage degrades every failure to not found.
			if r := e.EstimateImage(tt.img); r.Found {
				t.Errorf("EstimateImage: expected not found, got %+v", r)
			}
		})
	}
}

func TestEstimateImage_NothingAccepted(t *testing.T) {
	e := New(WithBackend(&fakeBackend{regions: []segment.Region{
		region(0, 0, 300, 300, 40000, 80000), // solidity 0.5
	}}))

	if r := e.EstimateImage(blank(1000, 1000)); r.Found {
		t.Errorf("expected not found, got %+v", r)
	}
}

func TestEstimatePath_NonExistent(t *testing.T) {
	e := New()
	if r := e.EstimatePath("/nonexistent/image.png"); r.Found || r.Box != nil {
		t.Errorf("expected not found, got %+v", r)
	}
}

func TestEstimatePath_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if r := New().EstimatePath(path); r.Found {
		t.Errorf("expected not found, got %+v", r)
	}
}

func TestEstimatePath_CentredSquare(t *testing.T) {
	// A dark square covering 5% of a 1000×1000 image.
	path := writeSquarePNG(t, 1000, 1000, 388, 388, 224)

	cache := imaging.NewImageCache()
	e := New(WithCache(cache))
	r := e.EstimatePath(path)
	if !r.Found {
		t.Fatal("expected a detection")
	}

	const tol = 3.0
	b := *r.Box
	if math.Abs(b.X-388) > tol || math.Abs(b.Y-388) > tol ||
		math.Abs(b.W-224) > tol || math.Abs(b.H-224) > tol {
		t.Errorf("box: got %v, want about (388,388 224x224)", b)
	}
	if cache.Len() != 1 {
		t.Errorf("image should be cached, cache has %d entries", cache.Len())
	}
}

func TestEstimatePath_PlainImage(t *testing.T) {
	path := writeSquarePNG(t, 200, 150, 0, 0, 0)
	if r := New().EstimatePath(path); r.Found {
		t.Errorf("plain image should have no detection, got %+v", r)
	}
}

func TestWithThresholds_IgnoresInvalid(t *testing.T) {
	bad := detection.DefaultThresholds()
	bad.MinSolidity = 2

	e := New(WithThresholds(bad))
	if e.Thresholds() != detection.DefaultThresholds() {
		t.Errorf("invalid thresholds should be ignored, got %+v", e.Thresholds())
	}

	good := detection.DefaultThresholds()
	good.MinSolidity = 0.5
	if e := New(WithThresholds(good)); e.Thresholds().MinSolidity != 0.5 {
		t.Errorf("valid thresholds should be applied, got %+v", e.Thresholds())
	}
}

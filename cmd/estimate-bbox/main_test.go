package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSquarePNG(t *testing.T, size, x, side int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if px >= x && px < x+side && py >= x && py < x+side {
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

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"two args", []string{"a.png", "b.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("exit code: got %d, want 1", code)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout should be empty, got %q", stdout.String())
			}
			if !strings.Contains(stderr.String(), "Usage:") {
				t.Errorf("stderr: got %q", stderr.String())
			}
		})
	}
}

func TestRun_NonExistentPath(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"/nonexistent/image.png"}, &stdout, &stderr); code != 0 {
		t.Errorf("exit code: got %d, want 0", code)
	}
	if got, want := stdout.String(), `{"success": true, "bboxes": []}`+"\n"; got != want {
		t.Errorf("stdout: got %q, want %q", got, want)
	}
}

func TestRun_Square(t *testing.T) {
	path := writeSquarePNG(t, 200, 60, 80)

	var stdout, stderr bytes.Buffer
	if code := run([]string{path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}

	want := `{"success": true, "bboxes": [{"x": 60.0, "y": 60.0, "w": 80.0, "h": 80.0}]}` + "\n"
	if got := stdout.String(); got != want {
		t.Errorf("stdout: got %q, want %q", got, want)
	}
}

func TestRun_FileNamedLikeFlag(t *testing.T) {
	src := writeSquarePNG(t, 200, 60, 80)
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("failed to read image: %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "--version"), data, 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code: got %d, want 0", code)
	}
	if !strings.HasPrefix(stdout.String(), `{"success": true, "bboxes": [{"x": 60.0`) {
		t.Errorf("expected an estimate for the file, got %q", stdout.String())
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--version"}, &stdout, &stderr); code != 0 {
		t.Errorf("exit code: got %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "estimate-bbox "+Version) {
		t.Errorf("stdout: got %q", stdout.String())
	}
}

package segment

import "image"

// erode returns the rectangular erosion of a 0/255 mask with a (2r+1)×(2r+1)
// window. Pixels outside the image are ignored, so the border does not eat
// into regions that touch it.
func erode(m *image.Gray, r int) *image.Gray {
	return rectFilter(m, r, true)
}

// dilate returns the rectangular dilation of a 0/255 mask with a
// (2r+1)×(2r+1) window.
func dilate(m *image.Gray, r int) *image.Gray {
	return rectFilter(m, r, false)
}

// rectFilter applies a square min (erode) or max (dilate) filter as a row
// pass followed by a column pass. Each pass keeps a running count of
// foreground pixels in the window, so the cost per pixel does not depend
// on r.
func rectFilter(m *image.Gray, r int, all bool) *image.Gray {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if r <= 0 || w == 0 || h == 0 {
		out := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+w], m.Pix[m.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return out
	}

	line := make([]bool, max(w, h))
	rows := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := m.Pix[m.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			line[x] = src[x] >= 128
		}
		dst := rows.Pix[y*rows.Stride:]
		filterLine(line[:w], r, all, func(i int) { dst[i] = 255 })
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			line[y] = rows.Pix[y*rows.Stride+x] == 255
		}
		filterLine(line[:h], r, all, func(i int) { out.Pix[i*out.Stride+x] = 255 })
	}
	return out
}

// filterLine calls set for every index whose window [i-r, i+r], clipped to
// the line, is all foreground (all) or has any foreground (!all).
func filterLine(line []bool, r int, all bool, set func(int)) {
	n := len(line)
	count := 0
	for i := 0; i < r && i < n; i++ {
		if line[i] {
			count++
		}
	}
	for i := 0; i < n; i++ {
		if in := i + r; in < n && line[in] {
			count++
		}
		if out := i - r - 1; out >= 0 && line[out] {
			count--
		}

		lo, hi := max(i-r, 0), min(i+r, n-1)
		if (all && count == hi-lo+1) || (!all && count > 0) {
			set(i)
		}
	}
}


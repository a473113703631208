package segment

import (
	"image"
)

// Outline is a closed polygon around one foreground region, as pixel
// centres in tracing order. The last point connects back to the first.
type Outline []image.Point

// Moore neighbourhood in clockwise order for a y-down image, starting east.
var ring = [8]image.Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
}

const west = 4

// grid is a foreground bitmap with out-of-range reads treated as background.
type grid struct {
	width, height int
	cells         [][]bool
}

func newGrid(mask *image.Gray) *grid {
	b := mask.Bounds()
	g := &grid{width: b.Dx(), height: b.Dy(), cells: make([][]bool, b.Dy())}
	for y := 0; y < g.height; y++ {
		g.cells[y] = make([]bool, g.width)
		for x := 0; x < g.width; x++ {
			g.cells[y][x] = mask.GrayAt(x+b.Min.X, y+b.Min.Y).Y != 0
		}
	}
	return g
}

func (g *grid) inside(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *grid) at(x, y int) bool {
	return g.inside(x, y) && g.cells[y][x]
}

// Outlines extracts the external boundary of every foreground region in
// mask. Any non-zero pixel is foreground.
//
// Regions are 8-connected. A region lying entirely inside a hole of another
// region is skipped, as is everything nested deeper. The image frame counts
// as background, so regions touching the border are external.
//
// Outlines are returned in raster order of each region's top-left pixel.
// Each is traced clockwise with Moore-neighbour border following and then
// compressed so only the points where the boundary changes direction remain.
func Outlines(mask *image.Gray) []Outline {
	g := newGrid(mask)
	outside := outsideBackground(g)
	visited := make([][]bool, g.height)
	for y := range visited {
		visited[y] = make([]bool, g.width)
	}

	outlines := make([]Outline, 0)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if !g.cells[y][x] || visited[y][x] {
				continue
			}
			// The raster scan reaches each region first at its top-left pixel.
			if labelRegion(g, visited, outside, x, y) {
				outlines = append(outlines, compress(trace(g, image.Pt(x, y))))
			}
		}
	}
	return outlines
}

// outsideBackground marks the background pixels 4-connected to the image
// frame. Background not marked here lies in a hole.
func outsideBackground(g *grid) [][]bool {
	outside := make([][]bool, g.height)
	for y := range outside {
		outside[y] = make([]bool, g.width)
	}

	stack := make([]image.Point, 0, 2*(g.width+g.height))
	for x := 0; x < g.width; x++ {
		stack = append(stack, image.Pt(x, 0), image.Pt(x, g.height-1))
	}
	for y := 0; y < g.height; y++ {
		stack = append(stack, image.Pt(0, y), image.Pt(g.width-1, y))
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !g.inside(p.X, p.Y) || outside[p.Y][p.X] || g.cells[p.Y][p.X] {
			continue
		}
		outside[p.Y][p.X] = true

		stack = append(stack,
			image.Pt(p.X+1, p.Y), image.Pt(p.X-1, p.Y),
			image.Pt(p.X, p.Y+1), image.Pt(p.X, p.Y-1))
	}
	return outside
}

// labelRegion flood-fills the 8-connected region containing (startX, startY)
// and reports whether it borders the outside background or the frame.
func labelRegion(g *grid, visited, outside [][]bool, startX, startY int) bool {
	external := false
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !g.inside(p.X, p.Y) || visited[p.Y][p.X] || !g.cells[p.Y][p.X] {
			continue
		}
		visited[p.Y][p.X] = true

		if !external {
			for _, d := range [4]image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
				nx, ny := p.X+d.X, p.Y+d.Y
				if !g.inside(nx, ny) || outside[ny][nx] {
					external = true
					break
				}
			}
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Pt(p.X+dx, p.Y+dy))
			}
		}
	}
	return external
}

// trace follows the outer border of the region whose top-left pixel is
// start. Every neighbour west of and above start is background, so tracing
// begins with west as the backtrack direction.
//
// The walk stops when it is back at start and about to repeat its first
// move. A single isolated pixel yields a one-point outline.
func trace(g *grid, start image.Point) Outline {
	points := Outline{start}
	cur, back := start, west

	limit := 4*g.width*g.height + 8
	for step := 0; step < limit; step++ {
		next, nextBack, ok := advance(g, cur, back)
		if !ok {
			break
		}
		if cur == start && len(points) > 1 && next == points[1] {
			// Drop the closing repeat of start.
			return points[:len(points)-1]
		}
		points = append(points, next)
		cur, back = next, nextBack
	}
	return points
}

// advance scans the ring around cur clockwise, beginning just after the
// backtrack direction, and returns the first foreground neighbour with the
// direction of its own backtrack (the last background pixel examined).
func advance(g *grid, cur image.Point, back int) (image.Point, int, bool) {
	prev := cur.Add(ring[back])
	for k := 1; k <= 8; k++ {
		d := (back + k) % 8
		n := cur.Add(ring[d])
		if g.at(n.X, n.Y) {
			return n, direction(prev.Sub(n)), true
		}
		prev = n
	}
	return cur, back, false
}

// direction returns the ring index of a unit step.
func direction(delta image.Point) int {
	for i, r := range ring {
		if r == delta {
			return i
		}
	}
	return west
}

// compress removes points lying in the middle of a straight run, keeping
// only the corners. Outlines of fewer than three points are returned as is.
func compress(points Outline) Outline {
	n := len(points)
	if n < 3 {
		return points
	}

	out := make(Outline, 0, n)
	for i, p := range points {
		in := p.Sub(points[(i+n-1)%n])
		away := points[(i+1)%n].Sub(p)
		if in != away {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return points[:1]
	}
	return out
}

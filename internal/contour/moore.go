// Package contour traces the outer boundary of a shape in a bit grid using
// Moore-neighbor tracing with Jacob's stopping criterion.
package contour

import "image"

// Grid is the read-only bit matrix the tracer walks. Get must report false
// for coordinates outside the grid; the tracer relies on this in place of a
// one-pixel zero border.
type Grid interface {
	Width() int
	Height() int
	Get(x, y int) bool
}

// Neighbor offsets, clockwise in image coordinates starting east.
var (
	dx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	dy = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// Trace returns the boundary of the first shape in row-major order, starting
// at its first set pixel. Only every Nth boundary step is emitted, counted
// from the seed; the seed itself is always emitted. The loop closes without
// repeating the seed. every must be >= 1.
//
// An empty grid yields nil.
func Trace(g Grid, every int) []image.Point {
	if every < 1 {
		every = 1
	}
	first, ok := seed(g)
	if !ok {
		return nil
	}

	pts := []image.Point{first}
	e := every

	// The seed has no set neighbor west or north of it, so the scan for
	// the second point starts east.
	second, n, ok := probe(g, first, 0)
	if !ok {
		return pts
	}
	e--
	if e == 0 {
		e = every
		pts = append(pts, second)
	}

	curr := second
	limit := 4*g.Width()*g.Height() + 8
	for i := 0; i < limit; i++ {
		next, dir, _ := probe(g, curr, (n+6)&7)
		if next == first {
			// Back at the seed: stop if the walk would repeat itself.
			if after, _, _ := probe(g, first, (dir+6)&7); after == second {
				break
			}
		}
		e--
		if e == 0 {
			e = every
			pts = append(pts, next)
		}
		curr, n = next, dir
	}
	return pts
}

// seed finds the first set pixel in row-major order.
func seed(g Grid) (image.Point, bool) {
	w, h := g.Width(), g.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.Get(x, y) {
				return image.Pt(x, y), true
			}
		}
	}
	return image.Point{}, false
}

// probe scans the 8 neighbors of p circularly from direction n and returns
// the first set one with its direction index.
func probe(g Grid, p image.Point, n int) (image.Point, int, bool) {
	for k := 0; k < 8; k++ {
		q := image.Pt(p.X+dx[n], p.Y+dy[n])
		if g.Get(q.X, q.Y) {
			return q, n, true
		}
		n = (n + 1) & 7
	}
	return p, n, false
}

// Package label implements two-pass 8-connected component labeling over a
// bit grid, with equivalences tracked in an array-based union-find.
//
// The first pass is a single raster scan (scan array union-find). For each
// set pixel the already visited neighbors are examined in the order
//
//	a b c
//	d *
//
// b first, then c, then a, then d. When b is labeled every other labeled
// neighbor is already equivalent to it, so most pixels stop after one read.
// Only c/a and c/d pairs can disagree and require a union.
//
// Flattening is left to callers because they need different side effects:
// see Relabel, Resolve, AggregateSizes, RelabelMin and Largest.
package label

// Grid is the read-only bit matrix the labeler scans.
type Grid interface {
	Width() int
	Height() int
	Get(x, y int) bool
}

// Label runs the first labeling pass over g into s and returns the highest
// provisional label allocated. s must have been sized for g's dimensions.
//
// After Label returns, s.Image[y*w+x] holds the provisional label of (x, y)
// or 0, s.UFind holds the union-find forest for labels 1..n (UFind[i] < i
// marks i as subsumed, UFind[i] == i marks a root) and s.Sizes[i] counts the
// pixels that received provisional label i.
func Label(g Grid, s *Scratch) uint32 {
	w, h := g.Width(), g.Height()
	if w == 0 || h == 0 {
		return 0
	}

	img, ufind, sizes := s.Image, s.UFind, s.Sizes
	var n uint32

	ufind[0] = 0

	alloc := func() uint32 {
		n++
		ufind[n] = n
		sizes[n] = 0
		return n
	}

	// First row: only d is available.
	for x := 0; x < w; x++ {
		l := uint32(0)
		if g.Get(x, 0) {
			if x > 0 && img[x-1] != 0 {
				l = img[x-1]
			} else {
				l = alloc()
			}
			sizes[l]++
		}
		img[x] = l
	}

	for y := 1; y < h; y++ {
		row := y * w
		up := row - w

		// First column: b, then c.
		l := uint32(0)
		if g.Get(0, y) {
			switch {
			case img[up] != 0:
				l = img[up]
			case w > 1 && img[up+1] != 0:
				l = img[up+1]
			default:
				l = alloc()
			}
			sizes[l]++
		}
		img[row] = l

		// Interior columns: full decision tree.
		for x := 1; x < w-1; x++ {
			i := row + x
			l := uint32(0)
			if g.Get(x, y) {
				b, c := img[up+x], img[up+x+1]
				switch {
				case b != 0:
					l = b
				case c != 0:
					switch a, d := img[up+x-1], img[i-1]; {
					case a != 0:
						l = union(ufind, c, a)
					case d != 0:
						l = union(ufind, c, d)
					default:
						l = c
					}
				case img[up+x-1] != 0:
					l = img[up+x-1]
				case img[i-1] != 0:
					l = img[i-1]
				default:
					l = alloc()
				}
				sizes[l]++
			}
			img[i] = l
		}

		// Last column: no c.
		if w > 1 {
			x := w - 1
			i := row + x
			l := uint32(0)
			if g.Get(x, y) {
				switch {
				case img[up+x] != 0:
					l = img[up+x]
				case img[up+x-1] != 0:
					l = img[up+x-1]
				case img[i-1] != 0:
					l = img[i-1]
				default:
					l = alloc()
				}
				sizes[l]++
			}
			img[i] = l
		}
	}

	return n
}

// union merges the trees holding labels c and o and returns the merged root,
// which is the smaller of the two roots. Every node on both walked paths is
// pointed directly at that root.
func union(ufind []uint32, c, o uint32) uint32 {
	root := find(ufind, c)
	if c != o {
		if r := find(ufind, o); r < root {
			root = r
		}
		compress(ufind, o, root)
	}
	compress(ufind, c, root)
	return root
}

func find(ufind []uint32, l uint32) uint32 {
	for ufind[l] < l {
		l = ufind[l]
	}
	return l
}

// compress re-points the path starting at l to root.
func compress(ufind []uint32, l, root uint32) {
	for ufind[l] > root {
		next := ufind[l]
		ufind[l] = root
		l = next
	}
}

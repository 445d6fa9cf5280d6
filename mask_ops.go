package bitmask

import "image"

// overlapRect returns the region of m covered by o placed at (dx, dy),
// in m's coordinates. The result is empty when they do not intersect.
func (m *Mask) overlapRect(o *Mask, dx, dy int) image.Rectangle {
	return m.Bounds().Intersect(o.Bounds().Add(image.Pt(dx, dy)))
}

// Draw ORs src into m with src's origin placed at (dx, dy).
// Bits falling outside m are clipped.
func (m *Mask) Draw(src *Mask, dx, dy int) {
	r := m.overlapRect(src, dx, dy)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if src.Get(x-dx, y-dy) {
				m.Set(x, y, true)
			}
		}
	}
}

// Erase clears every bit of m covered by a set bit of src placed at (dx, dy).
func (m *Mask) Erase(src *Mask, dx, dy int) {
	r := m.overlapRect(src, dx, dy)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if src.Get(x-dx, y-dy) {
				m.Set(x, y, false)
			}
		}
	}
}

// Overlap returns the first point, in row-major order and in m's
// coordinates, where m and o placed at (dx, dy) both have a set bit.
func (m *Mask) Overlap(o *Mask, dx, dy int) (image.Point, bool) {
	r := m.overlapRect(o, dx, dy)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if m.Get(x, y) && o.Get(x-dx, y-dy) {
				return image.Pt(x, y), true
			}
		}
	}
	return image.Point{}, false
}

// OverlapArea returns the number of overlapping set bits between m and o
// placed at (dx, dy).
func (m *Mask) OverlapArea(o *Mask, dx, dy int) int {
	r := m.overlapRect(o, dx, dy)
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if m.Get(x, y) && o.Get(x-dx, y-dy) {
				n++
			}
		}
	}
	return n
}

// OverlapMask returns a new mask of m's size holding the bits set in both
// m and o placed at (dx, dy).
func (m *Mask) OverlapMask(o *Mask, dx, dy int) *Mask {
	out := newMask(m.width, m.height)
	r := m.overlapRect(o, dx, dy)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if m.Get(x, y) && o.Get(x-dx, y-dy) {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

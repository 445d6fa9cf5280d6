package bitmask

// Convolve returns the binary correlation of a with b: bit (x, y) of the
// result is set exactly when a.Overlap(b, x-bw+1, y-bh+1) finds a point.
// The result is (aw+bw-1) x (ah+bh-1), each clamped at zero. Convolving a
// mask with itself maps every placement offset at which it collides.
// A result too large to allocate returns ErrAllocation.
func Convolve(a, b *Mask) (*Mask, error) {
	return ConvolveInto(a, b, nil, 0, 0)
}

// ConvolveInto is Convolve writing into out, shifted by (dx, dy). Bits that
// fall outside out are dropped. A nil out is allocated with Convolve's
// dimensions. out is returned.
func ConvolveInto(a, b, out *Mask, dx, dy int) (*Mask, error) {
	if out == nil {
		w, h := max(0, a.width+b.width-1), max(0, a.height+b.height-1)
		if err := checkSize("convolve into", w, h); err != nil {
			return nil, err
		}
		out = newMask(w, h)
	}
	if a.Empty() || b.Empty() || out.Empty() {
		return out, nil
	}

	dx += b.width - 1
	dy += b.height - 1
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if b.Get(x, y) {
				out.Draw(a, dx-x, dy-y)
			}
		}
	}
	return out, nil
}

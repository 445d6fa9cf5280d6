package bitmask

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Scale returns a new mask of the given size with m's bits resampled by
// nearest neighbor. Scaling to a zero dimension yields an empty mask;
// negative dimensions return ErrInvalidArgument. Outputs larger than 2^30
// pixels return ErrAllocation, since resampling goes through an 8-bit
// image of the output size.
func (m *Mask) Scale(width, height int) (*Mask, error) {
	if err := checkSize("scale to", width, height); err != nil {
		return nil, err
	}
	if height != 0 && width > maxWords/height {
		return nil, fmt.Errorf("scale to %dx%d: %w", width, height, ErrAllocation)
	}
	out := newMask(width, height)
	if out.Empty() || m.Empty() {
		return out, nil
	}

	dst := image.NewGray(out.Bounds())
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, m.Bounds(), draw.Src, nil)

	for y := 0; y < height; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+width]
		for x, v := range row {
			if v >= 0x80 {
				out.Set(x, y, true)
			}
		}
	}
	return out, nil
}

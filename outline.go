package bitmask

import (
	"fmt"
	"image"

	"github.com/gogpu/bitmask/internal/contour"
)

// Outline traces the boundary of the first shape in m, the one containing
// the first set bit in row-major order, and returns its points in tracing
// order. The first point is that set bit; after it only every Nth boundary
// point is kept. The loop is closed implicitly: the start point is not
// repeated at the end.
//
// A mask with zero area or no set bits yields no points. every must be at
// least 1.
func Outline(m *Mask, every int) ([]image.Point, error) {
	if every < 1 {
		return nil, fmt.Errorf("outline every %d points: %w", every, ErrInvalidArgument)
	}
	if m.Empty() {
		return nil, nil
	}
	return contour.Trace(m, every), nil
}

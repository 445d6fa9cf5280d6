package bitmask

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/bitmask/internal/label"
)

// outputBitsPerPixel caps the total size of the masks Components may return,
// relative to the pixel limit. It matches the 32 bits per pixel the label
// image itself costs.
const outputBitsPerPixel = 32

// acquire checks m against the pixel limit and takes label scratch for it
// from the pool. The caller must release the scratch with a.release.
func (a *Analyzer) acquire(m *Mask, op string) (*label.Scratch, error) {
	w, h := m.width, m.height
	if h != 0 && (w > a.maxPixels/h || uint64(w)*uint64(h) > math.MaxUint32) {
		a.log().Warn("bitmask: refusing label scratch",
			"op", op, "width", w, "height", h, "max_pixels", a.maxPixels)
		return nil, fmt.Errorf("%s on %dx%d mask: %w", op, w, h, ErrAllocation)
	}
	s := a.scratch.Get(w, h)
	a.log().Debug("bitmask: label scratch", "op", op, "bytes", s.Bytes())
	return s, nil
}

func (a *Analyzer) release(s *label.Scratch) {
	a.scratch.Put(s)
}

// BoundingRects returns the bounding rectangle of every 8-connected
// component of m, ordered by each component's first pixel in row-major
// order. An empty mask or one with no set bits yields no rectangles.
func (a *Analyzer) BoundingRects(m *Mask) ([]image.Rectangle, error) {
	if m.Empty() {
		return nil, nil
	}
	s, err := a.acquire(m, "bounding rects")
	if err != nil {
		return nil, err
	}
	defer a.release(s)

	n := label.Label(m, s)
	k := label.Relabel(s.UFind, n)
	a.log().Debug("bitmask: bounding rects",
		"width", m.width, "height", m.height, "labels", n, "components", k)
	if k == 0 {
		return nil, nil
	}

	rects := make([]image.Rectangle, k+1)
	w := m.width
	for y := 0; y < m.height; y++ {
		for x := 0; x < w; x++ {
			l := s.UFind[s.Image[y*w+x]]
			if l == 0 {
				continue
			}
			r := &rects[l]
			if r.Empty() {
				*r = image.Rect(x, y, x+1, y+1)
				continue
			}
			r.Min.X = min(r.Min.X, x)
			r.Min.Y = min(r.Min.Y, y)
			r.Max.X = max(r.Max.X, x+1)
			r.Max.Y = max(r.Max.Y, y+1)
		}
	}
	return rects[1:], nil
}

// Components returns one mask per 8-connected component of m with at least
// minSize pixels, ordered like BoundingRects. Each returned mask has m's
// dimensions and holds only that component's bits.
func (a *Analyzer) Components(m *Mask, minSize int) ([]*Mask, error) {
	if minSize < 0 {
		return nil, fmt.Errorf("components with min size %d: %w", minSize, ErrInvalidArgument)
	}
	if m.Empty() {
		return nil, nil
	}
	s, err := a.acquire(m, "components")
	if err != nil {
		return nil, err
	}
	defer a.release(s)

	n := label.Label(m, s)
	label.Resolve(s.UFind, n)
	label.AggregateSizes(s.UFind, s.Sizes, n)
	threshold := uint32(math.MaxUint32)
	if uint64(minSize) < math.MaxUint32 {
		threshold = uint32(minSize)
	}
	k := label.RelabelMin(s.UFind, s.Sizes, n, threshold)
	a.log().Debug("bitmask: components",
		"width", m.width, "height", m.height, "labels", n, "components", k, "min_size", minSize)
	if k == 0 {
		return nil, nil
	}

	area := uint64(m.width) * uint64(m.height)
	if uint64(k)*area > uint64(a.maxPixels)*outputBitsPerPixel {
		a.log().Warn("bitmask: refusing component masks",
			"components", k, "width", m.width, "height", m.height)
		return nil, fmt.Errorf("%d component masks of %dx%d: %w", k, m.width, m.height, ErrAllocation)
	}

	comps := make([]*Mask, k+1)
	for i := uint32(1); i <= k; i++ {
		comps[i] = newMask(m.width, m.height)
	}
	w := m.width
	for y := 0; y < m.height; y++ {
		for x := 0; x < w; x++ {
			if l := s.UFind[s.Image[y*w+x]]; l != 0 {
				comps[l].Set(x, y, true)
			}
		}
	}
	return comps[1:], nil
}

// LargestComponent returns a mask holding only the largest 8-connected
// component of m. Among equally large components the one whose first pixel
// comes first in row-major order wins. A mask with no set bits yields an
// empty mask of the same size.
func (a *Analyzer) LargestComponent(m *Mask) (*Mask, error) {
	out := newMask(m.width, m.height)
	if m.Empty() {
		return out, nil
	}
	s, err := a.acquire(m, "largest component")
	if err != nil {
		return nil, err
	}
	defer a.release(s)

	n := label.Label(m, s)
	label.Resolve(s.UFind, n)
	label.AggregateSizes(s.UFind, s.Sizes, n)
	target := label.Largest(s.UFind, s.Sizes, n)
	a.log().Debug("bitmask: largest component",
		"width", m.width, "height", m.height, "labels", n, "root", target)

	extract(s, target, out)
	return out, nil
}

// ComponentAt returns a mask holding only the 8-connected component that
// contains (x, y). If that bit is unset the result is an empty mask of m's
// size. Coordinates outside m return ErrOutOfBounds.
func (a *Analyzer) ComponentAt(m *Mask, x, y int) (*Mask, error) {
	if !m.inside(x, y) {
		return nil, fmt.Errorf("component at %d, %d: %w", x, y, ErrOutOfBounds)
	}
	out := newMask(m.width, m.height)
	if !m.Get(x, y) {
		return out, nil
	}
	s, err := a.acquire(m, "component at")
	if err != nil {
		return nil, err
	}
	defer a.release(s)

	n := label.Label(m, s)
	label.Resolve(s.UFind, n)
	target := s.UFind[s.Image[y*m.width+x]]
	a.log().Debug("bitmask: component at",
		"x", x, "y", y, "labels", n, "root", target)

	extract(s, target, out)
	return out, nil
}

// extract sets every pixel of out whose resolved root label is root.
func extract(s *label.Scratch, root uint32, out *Mask) {
	if root == 0 {
		return
	}
	w := s.Width
	for i, l := range s.Image {
		if l != 0 && s.UFind[l] == root {
			out.Set(i%w, i/w, true)
		}
	}
}

// BoundingRects runs Analyzer.BoundingRects with the default configuration.
func BoundingRects(m *Mask) ([]image.Rectangle, error) {
	return defaultAnalyzer.BoundingRects(m)
}

// Components runs Analyzer.Components with the default configuration.
func Components(m *Mask, minSize int) ([]*Mask, error) {
	return defaultAnalyzer.Components(m, minSize)
}

// LargestComponent runs Analyzer.LargestComponent with the default
// configuration.
func LargestComponent(m *Mask) (*Mask, error) {
	return defaultAnalyzer.LargestComponent(m)
}

// ComponentAt runs Analyzer.ComponentAt with the default configuration.
func ComponentAt(m *Mask, x, y int) (*Mask, error) {
	return defaultAnalyzer.ComponentAt(m, x, y)
}

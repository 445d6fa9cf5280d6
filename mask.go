package bitmask

import (
	"fmt"
	"image"
	"image/color"
	"math/bits"
)

// wordBits is the number of mask bits stored per word.
const wordBits = 64

// maxWords caps the backing store of a single mask at 8 GiB.
const maxWords = 1 << 30

// Mask is a dense two-dimensional bit matrix. Bits are packed row by row into
// 64-bit words; each row starts on a word boundary.
//
// A Mask is mutable in place and owns its storage. It is not safe for
// concurrent mutation.
type Mask struct {
	width  int
	height int
	stride int // words per row
	words  []uint64
}

// New creates an empty mask with the given dimensions. Zero dimensions are
// allowed; negative ones return ErrInvalidArgument. Dimensions whose storage
// would exceed 2^30 words return ErrAllocation.
func New(width, height int) (*Mask, error) {
	if err := checkSize("new mask", width, height); err != nil {
		return nil, err
	}
	return newMask(width, height), nil
}

// MustNew is like New but panics if New fails.
func MustNew(width, height int) *Mask {
	m, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return m
}

// checkSize validates dimensions for a new mask without allocating.
func checkSize(op string, width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%s %dx%d: %w", op, width, height, ErrInvalidArgument)
	}
	if height != 0 && strideOf(width) > maxWords/height {
		return fmt.Errorf("%s %dx%d: %w", op, width, height, ErrAllocation)
	}
	return nil
}

// strideOf returns the words per row for width, without overflowing.
func strideOf(width int) int {
	return width/wordBits + (width%wordBits+wordBits-1)/wordBits
}

// newMask allocates a mask whose dimensions passed checkSize or are bounded
// by an existing mask.
func newMask(width, height int) *Mask {
	stride := strideOf(width)
	return &Mask{
		width:  width,
		height: height,
		stride: stride,
		words:  make([]uint64, stride*height),
	}
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// Size returns the mask dimensions as an image.Point.
func (m *Mask) Size() image.Point { return image.Pt(m.width, m.height) }

// Bounds returns the mask extent as an image.Rectangle anchored at the origin.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Empty reports whether the mask has zero area.
func (m *Mask) Empty() bool { return m.width == 0 || m.height == 0 }

func (m *Mask) inside(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Get reports whether the bit at (x, y) is set.
// Coordinates outside the mask read as unset.
func (m *Mask) Get(x, y int) bool {
	if !m.inside(x, y) {
		return false
	}
	return m.words[y*m.stride+x/wordBits]&(1<<(uint(x)%wordBits)) != 0
}

// Set sets or clears the bit at (x, y).
// Coordinates outside the mask are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if !m.inside(x, y) {
		return
	}
	i := y*m.stride + x/wordBits
	b := uint64(1) << (uint(x) % wordBits)
	if v {
		m.words[i] |= b
	} else {
		m.words[i] &^= b
	}
}

// GetAt is the checked form of Get. It returns ErrOutOfBounds for
// coordinates outside the mask.
func (m *Mask) GetAt(x, y int) (bool, error) {
	if !m.inside(x, y) {
		return false, fmt.Errorf("get %d, %d: %w", x, y, ErrOutOfBounds)
	}
	return m.Get(x, y), nil
}

// SetAt is the checked form of Set. It returns ErrOutOfBounds for
// coordinates outside the mask.
func (m *Mask) SetAt(x, y int, v bool) error {
	if !m.inside(x, y) {
		return fmt.Errorf("set %d, %d: %w", x, y, ErrOutOfBounds)
	}
	m.Set(x, y, v)
	return nil
}

// Count returns the number of set bits.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// tailMask returns the valid-bit mask for the last word of each row.
func (m *Mask) tailMask() uint64 {
	r := uint(m.width) % wordBits
	if r == 0 {
		return ^uint64(0)
	}
	return (uint64(1) << r) - 1
}

// Fill sets every bit.
func (m *Mask) Fill() {
	if m.stride == 0 {
		return
	}
	tail := m.tailMask()
	for y := 0; y < m.height; y++ {
		row := m.words[y*m.stride : (y+1)*m.stride]
		for i := range row {
			row[i] = ^uint64(0)
		}
		row[len(row)-1] = tail
	}
}

// Clear unsets every bit.
func (m *Mask) Clear() {
	clear(m.words)
}

// Invert flips every bit.
func (m *Mask) Invert() {
	if m.stride == 0 {
		return
	}
	tail := m.tailMask()
	for y := 0; y < m.height; y++ {
		row := m.words[y*m.stride : (y+1)*m.stride]
		for i := range row {
			row[i] = ^row[i]
		}
		row[len(row)-1] &= tail
	}
}

// Clone creates an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	c := newMask(m.width, m.height)
	copy(c.words, m.words)
	return c
}

// Equal reports whether o has the same dimensions and bits as m.
func (m *Mask) Equal(o *Mask) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i, w := range m.words {
		if o.words[i] != w {
			return false
		}
	}
	return true
}

// ColorModel implements image.Image. Set bits are white, unset bits black.
func (m *Mask) ColorModel() color.Model { return color.GrayModel }

// At implements image.Image.
func (m *Mask) At(x, y int) color.Color {
	if m.Get(x, y) {
		return color.Gray{Y: 0xff}
	}
	return color.Gray{}
}

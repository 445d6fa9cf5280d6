// Package netpbm reads and writes masks as PBM bitmaps, both the plain (P1)
// and the raw (P4) variant. A 1 in the file is a set bit.
package netpbm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/bitmask"
)

// ErrFormat is returned for input that is not a well-formed PBM file.
var ErrFormat = errors.New("netpbm: invalid PBM data")

// Format selects the PBM variant written by Encode.
type Format int

const (
	// Raw is the binary P4 variant, eight pixels per byte.
	Raw Format = iota
	// Plain is the ASCII P1 variant.
	Plain
)

// plainLineWidth is the longest raster line Encode writes for P1.
const plainLineWidth = 70

func init() {
	image.RegisterFormat("pbm", "P1", decodeImage, DecodeConfig)
	image.RegisterFormat("pbm", "P4", decodeImage, DecodeConfig)
}

type header struct {
	format Format
	width  int
	height int
}

func readHeader(br *bufio.Reader) (header, error) {
	var h header
	magic := make([]byte, 2)
	if _, err := io.ReadFull(br, magic); err != nil {
		return h, fmt.Errorf("reading magic: %w", ErrFormat)
	}
	switch string(magic) {
	case "P1":
		h.format = Plain
	case "P4":
		h.format = Raw
	default:
		return h, fmt.Errorf("magic %q: %w", magic, ErrFormat)
	}

	var err error
	if h.width, err = readInt(br); err != nil {
		return h, fmt.Errorf("width: %w", err)
	}
	if h.height, err = readInt(br); err != nil {
		return h, fmt.Errorf("height: %w", err)
	}
	// Exactly one whitespace byte separates the header from a raw raster.
	if h.format == Raw {
		c, err := br.ReadByte()
		if err != nil || !isSpace(c) {
			return h, fmt.Errorf("header terminator: %w", ErrFormat)
		}
	}
	return h, nil
}

// skip consumes whitespace and comments up to the next token.
func skip(br *bufio.Reader) error {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return err
		}
		switch {
		case c == '#':
			if _, err := br.ReadString('\n'); err != nil {
				return err
			}
		case isSpace(c):
		default:
			return br.UnreadByte()
		}
	}
}

func readInt(br *bufio.Reader) (int, error) {
	if err := skip(br); err != nil {
		return 0, ErrFormat
	}
	n, digits := 0, 0
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if c < '0' || c > '9' {
			if err := br.UnreadByte(); err != nil {
				return 0, err
			}
			break
		}
		if n > (1<<31-1)/10 {
			return 0, fmt.Errorf("number too large: %w", ErrFormat)
		}
		n = n*10 + int(c-'0')
		digits++
	}
	if digits == 0 {
		return 0, ErrFormat
	}
	return n, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// DecodeConfig returns the dimensions of a PBM image without reading the
// raster.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.GrayModel, Width: h.width, Height: h.height}, nil
}

func decodeImage(r io.Reader) (image.Image, error) {
	return Decode(r)
}

// Decode reads a PBM image no larger than bitmask.DefaultMaxPixels.
func Decode(r io.Reader) (*bitmask.Mask, error) {
	return DecodeLimit(r, bitmask.DefaultMaxPixels)
}

// DecodeLimit reads a PBM image, refusing images of more than maxPixels
// pixels with bitmask.ErrAllocation before allocating the mask.
func DecodeLimit(r io.Reader, maxPixels int) (*bitmask.Mask, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if h.height != 0 && h.width > maxPixels/h.height {
		return nil, fmt.Errorf("%dx%d image: %w", h.width, h.height, bitmask.ErrAllocation)
	}
	m, err := bitmask.New(h.width, h.height)
	if err != nil {
		return nil, err
	}
	if h.format == Raw {
		err = readRaw(br, m)
	} else {
		err = readPlain(br, m)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func readPlain(br *bufio.Reader, m *bitmask.Mask) error {
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if err := skip(br); err != nil {
				return fmt.Errorf("pixel (%d, %d): %w", x, y, ErrFormat)
			}
			c, err := br.ReadByte()
			if err != nil {
				return err
			}
			switch c {
			case '1':
				m.Set(x, y, true)
			case '0':
			default:
				return fmt.Errorf("pixel (%d, %d) is %q: %w", x, y, c, ErrFormat)
			}
		}
	}
	return nil
}

func readRaw(br *bufio.Reader, m *bitmask.Mask) error {
	row := make([]byte, (m.Width()+7)/8)
	for y := 0; y < m.Height(); y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return fmt.Errorf("row %d: %w", y, ErrFormat)
		}
		for x := 0; x < m.Width(); x++ {
			if row[x>>3]&(0x80>>(x&7)) != 0 {
				m.Set(x, y, true)
			}
		}
	}
	return nil
}

// Encode writes m to w as a PBM image in the given format.
func Encode(w io.Writer, m *bitmask.Mask, f Format) error {
	bw := bufio.NewWriter(w)
	if f == Plain {
		fmt.Fprintf(bw, "P1\n%d %d\n", m.Width(), m.Height())
		writePlain(bw, m)
	} else {
		fmt.Fprintf(bw, "P4\n%d %d\n", m.Width(), m.Height())
		writeRaw(bw, m)
	}
	return bw.Flush()
}

func writePlain(bw *bufio.Writer, m *bitmask.Mask) {
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if x > 0 && x%plainLineWidth == 0 {
				bw.WriteByte('\n')
			}
			if m.Get(x, y) {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}
}

func writeRaw(bw *bufio.Writer, m *bitmask.Mask) {
	row := make([]byte, (m.Width()+7)/8)
	for y := 0; y < m.Height(); y++ {
		clear(row)
		for x := 0; x < m.Width(); x++ {
			if m.Get(x, y) {
				row[x>>3] |= 0x80 >> (x & 7)
			}
		}
		bw.Write(row)
	}
}

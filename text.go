package bitmask

import (
	"fmt"
	"strings"
)

// Parse builds a mask from ASCII art. Each non-blank line is one row after
// surrounding whitespace is trimmed; '#', 'x', 'X' and '1' are set bits,
// '.' and '0' are unset bits. All rows must have the same length.
//
// Example:
//
//	m, err := bitmask.Parse(`
//	    ##..
//	    .#..
//	    ...#
//	`)
func Parse(s string) (*Mask, error) {
	var rows []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return newMask(0, 0), nil
	}

	w := len(rows[0])
	m := newMask(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("parse row %d: width %d, want %d: %w", y, len(row), w, ErrInvalidArgument)
		}
		for x := 0; x < w; x++ {
			switch row[x] {
			case '#', 'x', 'X', '1':
				m.Set(x, y, true)
			case '.', '0':
			default:
				return nil, fmt.Errorf("parse row %d col %d: unexpected %q: %w", y, x, row[x], ErrInvalidArgument)
			}
		}
	}
	return m, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) *Mask {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String renders the mask as ASCII art using '#' and '.', one row per line.
func (m *Mask) String() string {
	var sb strings.Builder
	sb.Grow((m.width + 1) * m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

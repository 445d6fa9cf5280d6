package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/bitmask"
	"github.com/gogpu/bitmask/internal/netpbm"
)

// Report is the analysis of one input file.
type Report struct {
	Path       string            `json:"path"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	SetBits    int               `json:"set_bits"`
	Centroid   image.Point       `json:"centroid"`
	Angle      float64           `json:"angle"`
	Axes       *bitmask.Axes     `json:"axes,omitempty"`
	Shapes     int               `json:"shapes"`
	Components []ComponentReport `json:"components"`
	Largest    int               `json:"largest"`
	Outline    []image.Point     `json:"outline"`

	// Preview is the mask scaled down to the preview width, as ASCII art.
	Preview string `json:"-"`
}

// ComponentReport describes one component that passed the size filter.
type ComponentReport struct {
	Bounds   image.Rectangle `json:"bounds"`
	Pixels   int             `json:"pixels"`
	Centroid image.Point     `json:"centroid"`
	Angle    float64         `json:"angle"`
}

// loadMask reads a PBM file, or ASCII art for any other extension.
func loadMask(path string, maxPixels int) (*bitmask.Mask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".pbm") {
		return netpbm.DecodeLimit(bytes.NewReader(data), maxPixels)
	}
	m, err := bitmask.Parse(string(data))
	if err != nil {
		return nil, err
	}
	if m.Height() != 0 && m.Width() > maxPixels/m.Height() {
		return nil, fmt.Errorf("%dx%d mask: %w", m.Width(), m.Height(), bitmask.ErrAllocation)
	}
	return m, nil
}

// analyzeFile runs every analysis on one file.
func analyzeFile(_ context.Context, a *bitmask.Analyzer, cfg *Config, path string) (*Report, error) {
	m, err := loadMask(path, cfg.MaxPixels)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Path:    path,
		Width:   m.Width(),
		Height:  m.Height(),
		SetBits: m.Count(),
	}
	mo := bitmask.ComputeMoments(m)
	r.Centroid = mo.Centroid()
	r.Angle = mo.Angle()
	if ax, ok := mo.PrincipalAxes(); ok {
		r.Axes = &ax
	}

	rects, err := a.BoundingRects(m)
	if err != nil {
		return nil, err
	}
	r.Shapes = len(rects)

	comps, err := a.Components(m, cfg.MinSize)
	if err != nil {
		return nil, err
	}
	r.Components = make([]ComponentReport, 0, len(comps))
	for _, c := range comps {
		cm := bitmask.ComputeMoments(c)
		r.Components = append(r.Components, ComponentReport{
			Bounds:   setBounds(c),
			Pixels:   int(cm.M00),
			Centroid: cm.Centroid(),
			Angle:    cm.Angle(),
		})
	}

	largest, err := a.LargestComponent(m)
	if err != nil {
		return nil, err
	}
	r.Largest = largest.Count()
	if r.Outline, err = bitmask.Outline(largest, cfg.Step); err != nil {
		return nil, err
	}

	if r.Preview, err = preview(m, cfg.Preview); err != nil {
		return nil, err
	}
	return r, nil
}

// setBounds returns the smallest rectangle holding every set bit of m, or
// the zero rectangle if none is set.
func setBounds(m *bitmask.Mask) image.Rectangle {
	var r image.Rectangle
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if !m.Get(x, y) {
				continue
			}
			if r.Empty() {
				r = image.Rect(x, y, x+1, y+1)
				continue
			}
			r.Min.X = min(r.Min.X, x)
			r.Max.X = max(r.Max.X, x+1)
			r.Max.Y = y + 1
		}
	}
	return r
}

// preview scales m to at most cols columns, halving the row count to
// compensate for terminal cells being about twice as tall as wide.
func preview(m *bitmask.Mask, cols int) (string, error) {
	if cols == 0 || m.Empty() {
		return "", nil
	}
	w := min(cols, m.Width())
	h := max(1, m.Height()*w/m.Width()/2)
	small, err := m.Scale(w, h)
	if err != nil {
		return "", err
	}
	return small.String(), nil
}

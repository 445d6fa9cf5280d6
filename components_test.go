package bitmask

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
)

// twoL holds an L of 3 pixels and an L of 5 pixels.
const twoL = `
	##.....
	#......
	.......
	...###.
	...#...
	...#...
`

const bigL = `
	.......
	.......
	.......
	...###.
	...#...
	...#...
`

// floodCount counts 8-connected components with a breadth-first fill.
func floodCount(m *Mask) int {
	seen := MustNew(m.Width(), m.Height())
	n := 0
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if !m.Get(x, y) || seen.Get(x, y) {
				continue
			}
			n++
			queue := []image.Point{{x, y}}
			seen.Set(x, y, true)
			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						q := p.Add(image.Pt(dx, dy))
						if m.Get(q.X, q.Y) && !seen.Get(q.X, q.Y) {
							seen.Set(q.X, q.Y, true)
							queue = append(queue, q)
						}
					}
				}
			}
		}
	}
	return n
}

func randomMask(r *rand.Rand, w, h int, density float64) *Mask {
	m := MustNew(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r.Float64() < density {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// boundsOf returns the tight bounding rectangle of m's set bits.
func boundsOf(m *Mask) image.Rectangle {
	var r image.Rectangle
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.Get(x, y) {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestAllBackground(t *testing.T) {
	m := MustNew(6, 4)

	rects, err := BoundingRects(m)
	if err != nil || len(rects) != 0 {
		t.Errorf("BoundingRects() = %v, %v, want none", rects, err)
	}
	comps, err := Components(m, 0)
	if err != nil || len(comps) != 0 {
		t.Errorf("Components() = %d masks, %v, want none", len(comps), err)
	}
	largest, err := LargestComponent(m)
	if err != nil || largest.Count() != 0 || largest.Size() != m.Size() {
		t.Errorf("LargestComponent() = %v, %v", largest, err)
	}
	pts, err := Outline(m, 1)
	if err != nil || len(pts) != 0 {
		t.Errorf("Outline() = %v, %v, want none", pts, err)
	}
	if c := Centroid(m); c != (image.Point{}) {
		t.Errorf("Centroid() = %v, want (0,0)", c)
	}
	if a := Angle(m); a != 0 {
		t.Errorf("Angle() = %v, want 0", a)
	}
}

func TestZeroAreaMask(t *testing.T) {
	for _, dim := range [][2]int{{0, 0}, {0, 5}, {5, 0}} {
		m := MustNew(dim[0], dim[1])
		if rects, err := BoundingRects(m); err != nil || len(rects) != 0 {
			t.Errorf("%v: BoundingRects() = %v, %v", dim, rects, err)
		}
		if comps, err := Components(m, 0); err != nil || len(comps) != 0 {
			t.Errorf("%v: Components() = %d, %v", dim, len(comps), err)
		}
		if out, err := LargestComponent(m); err != nil || out.Size() != m.Size() {
			t.Errorf("%v: LargestComponent() = %v, %v", dim, out, err)
		}
		if _, err := ComponentAt(m, 0, 0); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%v: ComponentAt(0, 0) error = %v, want ErrOutOfBounds", dim, err)
		}
	}
}

func TestFilledSquare(t *testing.T) {
	m := MustParse("###\n###\n###")

	if c := Centroid(m); c != image.Pt(1, 1) {
		t.Errorf("Centroid() = %v, want (1,1)", c)
	}
	pts, err := Outline(m, 1)
	if err != nil {
		t.Fatalf("Outline() error = %v", err)
	}
	if len(pts) != 8 {
		t.Errorf("Outline() = %v, want 8 points", pts)
	}
	largest, err := LargestComponent(m)
	if err != nil {
		t.Fatalf("LargestComponent() error = %v", err)
	}
	if !largest.Equal(m) {
		t.Errorf("LargestComponent() =\n%swant input", largest)
	}
	rects, err := BoundingRects(m)
	if err != nil {
		t.Fatalf("BoundingRects() error = %v", err)
	}
	if want := []image.Rectangle{image.Rect(0, 0, 3, 3)}; !reflect.DeepEqual(rects, want) {
		t.Errorf("BoundingRects() = %v, want %v", rects, want)
	}
}

func TestTwoSinglePixels(t *testing.T) {
	m := MustParse(`
		#....
		.....
		....#
	`)
	comps, err := Components(m, 0)
	if err != nil {
		t.Fatalf("Components() error = %v", err)
	}
	if len(comps) != 2 {
		t.Fatalf("Components() = %d, want 2", len(comps))
	}
	for i, c := range comps {
		if c.Count() != 1 {
			t.Errorf("component %d has %d pixels, want 1", i, c.Count())
		}
	}
	if !comps[0].Get(0, 0) || !comps[1].Get(4, 2) {
		t.Error("components not in row-major order of their first pixel")
	}
}

func TestLargestComponentTwoL(t *testing.T) {
	m := MustParse(twoL)
	got, err := LargestComponent(m)
	if err != nil {
		t.Fatalf("LargestComponent() error = %v", err)
	}
	if want := MustParse(bigL); !got.Equal(want) {
		t.Errorf("LargestComponent() =\n%swant\n%s", got, want)
	}
}

func TestComponentsMinSize(t *testing.T) {
	m := MustParse(twoL)

	all, err := Components(m, 0)
	if err != nil || len(all) != 2 {
		t.Fatalf("Components(0) = %d, %v, want 2", len(all), err)
	}

	big, err := Components(m, 4)
	if err != nil {
		t.Fatalf("Components(4) error = %v", err)
	}
	if len(big) != 1 {
		t.Fatalf("Components(4) = %d masks, want 1", len(big))
	}
	if want := MustParse(bigL); !big[0].Equal(want) {
		t.Errorf("Components(4)[0] =\n%swant\n%s", big[0], want)
	}

	exact, err := Components(m, 5)
	if err != nil || len(exact) != 1 {
		t.Errorf("Components(5) = %d, %v, want 1", len(exact), err)
	}
	none, err := Components(m, 6)
	if err != nil || len(none) != 0 {
		t.Errorf("Components(6) = %d, %v, want 0", len(none), err)
	}
	if _, err := Components(m, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Components(-1) error = %v, want ErrInvalidArgument", err)
	}
}

func TestBoundingRectsBridge(t *testing.T) {
	tests := []struct {
		name string
		mask string
		want image.Rectangle
	}{
		{
			name: "a and c",
			mask: `
				#...#
				.#.#.
				..#..
			`,
			want: image.Rect(0, 0, 5, 3),
		},
		{
			name: "c and d",
			mask: `
				....#
				..##.
			`,
			want: image.Rect(2, 0, 5, 2),
		},
		{
			name: "u shape",
			mask: `
				#...#
				#...#
				#####
			`,
			want: image.Rect(0, 0, 5, 3),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rects, err := BoundingRects(MustParse(tt.mask))
			if err != nil {
				t.Fatalf("BoundingRects() error = %v", err)
			}
			if len(rects) != 1 || rects[0] != tt.want {
				t.Errorf("BoundingRects() = %v, want [%v]", rects, tt.want)
			}
		})
	}
}

func TestBoundingRectsOrder(t *testing.T) {
	m := MustParse(`
		....##
		#.....
		#..#..
		...#..
	`)
	rects, err := BoundingRects(m)
	if err != nil {
		t.Fatal(err)
	}
	want := []image.Rectangle{
		image.Rect(4, 0, 6, 1),
		image.Rect(0, 1, 1, 3),
		image.Rect(3, 2, 4, 4),
	}
	if !reflect.DeepEqual(rects, want) {
		t.Errorf("BoundingRects() = %v, want %v", rects, want)
	}
}

func TestComponentsMatchFloodFill(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 40; i++ {
		w, h := 1+r.IntN(40), 1+r.IntN(40)
		m := randomMask(r, w, h, 0.2+0.5*r.Float64())

		rects, err := BoundingRects(m)
		if err != nil {
			t.Fatal(err)
		}
		comps, err := Components(m, 0)
		if err != nil {
			t.Fatal(err)
		}
		if want := floodCount(m); len(comps) != want || len(rects) != want {
			t.Fatalf("%dx%d: %d components, %d rects, flood fill %d\n%s",
				w, h, len(comps), len(rects), want, m)
		}

		union := MustNew(w, h)
		total := 0
		for j, c := range comps {
			if got := boundsOf(c); got != rects[j] {
				t.Errorf("component %d bounds %v, rect %v", j, got, rects[j])
			}
			if union.OverlapArea(c, 0, 0) != 0 {
				t.Errorf("component %d overlaps an earlier one", j)
			}
			union.Draw(c, 0, 0)
			total += c.Count()
		}
		if !union.Equal(m) || total != m.Count() {
			t.Errorf("%dx%d: components do not partition the mask", w, h)
		}

		largest, err := LargestComponent(m)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range comps {
			if c.Count() > largest.Count() {
				t.Errorf("component of %d pixels beats largest of %d", c.Count(), largest.Count())
			}
		}
	}
}

func TestLargestComponentTie(t *testing.T) {
	m := MustParse(`
		...##
		.....
		##...
	`)
	got, err := LargestComponent(m)
	if err != nil {
		t.Fatal(err)
	}
	if want := MustParse("...##\n.....\n....."); !got.Equal(want) {
		t.Errorf("LargestComponent() =\n%swant the first component in scan order", got)
	}
}

func TestComponentAt(t *testing.T) {
	m := MustParse(twoL)

	got, err := ComponentAt(m, 3, 5)
	if err != nil {
		t.Fatalf("ComponentAt() error = %v", err)
	}
	if want := MustParse(bigL); !got.Equal(want) {
		t.Errorf("ComponentAt(3, 5) =\n%s", got)
	}

	got, err = ComponentAt(m, 0, 1)
	if err != nil {
		t.Fatalf("ComponentAt() error = %v", err)
	}
	if got.Count() != 3 || !got.Get(1, 0) {
		t.Errorf("ComponentAt(0, 1) =\n%s", got)
	}

	got, err = ComponentAt(m, 6, 0)
	if err != nil {
		t.Fatalf("ComponentAt(unset) error = %v", err)
	}
	if got.Count() != 0 || got.Size() != m.Size() {
		t.Errorf("ComponentAt(unset) = %dx%d with %d bits", got.Width(), got.Height(), got.Count())
	}

	for _, p := range []image.Point{{-1, 0}, {7, 0}, {0, 6}, {0, -1}} {
		if _, err := ComponentAt(m, p.X, p.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ComponentAt(%v) error = %v, want ErrOutOfBounds", p, err)
		}
	}
}

func TestComponentAtMergedLabel(t *testing.T) {
	// (4, 0) gets a provisional label that is merged later in the scan.
	m := MustParse(`
		#...#
		.#.#.
		..#..
		.....
		#....
	`)
	got, err := ComponentAt(m, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Count() != 5 || got.Get(0, 4) {
		t.Errorf("ComponentAt(4, 0) =\n%s", got)
	}
}

func TestAnalyzerPixelLimit(t *testing.T) {
	a := NewAnalyzer(WithMaxPixels(15))
	m := MustNew(4, 4)
	m.Fill()

	if _, err := a.BoundingRects(m); !errors.Is(err, ErrAllocation) {
		t.Errorf("BoundingRects() error = %v, want ErrAllocation", err)
	}
	if _, err := a.Components(m, 0); !errors.Is(err, ErrAllocation) {
		t.Errorf("Components() error = %v, want ErrAllocation", err)
	}
	if out, err := a.LargestComponent(m); !errors.Is(err, ErrAllocation) || out != nil {
		t.Errorf("LargestComponent() = %v, %v, want nil, ErrAllocation", out, err)
	}
	if _, err := a.ComponentAt(m, 0, 0); !errors.Is(err, ErrAllocation) {
		t.Errorf("ComponentAt() error = %v, want ErrAllocation", err)
	}
	// Unset point needs no labeling.
	m.Set(1, 1, false)
	if out, err := a.ComponentAt(m, 1, 1); err != nil || out.Count() != 0 {
		t.Errorf("ComponentAt(unset) = %v, %v", out, err)
	}

	ok := NewAnalyzer(WithMaxPixels(16))
	if _, err := ok.BoundingRects(m); err != nil {
		t.Errorf("BoundingRects() at the limit error = %v", err)
	}
}

func TestAnalyzerOutputLimit(t *testing.T) {
	// 64 isolated pixels on a 16x16 grid would need 64 full-size masks.
	m := MustNew(16, 16)
	for y := 0; y < 16; y += 2 {
		for x := 0; x < 16; x += 2 {
			m.Set(x, y, true)
		}
	}
	a := NewAnalyzer(WithMaxPixels(256))
	if _, err := a.Components(m, 0); !errors.Is(err, ErrAllocation) {
		t.Errorf("Components() error = %v, want ErrAllocation", err)
	}
	rects, err := a.BoundingRects(m)
	if err != nil || len(rects) != 64 {
		t.Errorf("BoundingRects() = %d, %v, want 64", len(rects), err)
	}
	comps, err := a.Components(m, 2)
	if err != nil || len(comps) != 0 {
		t.Errorf("Components(2) = %d, %v, want none", len(comps), err)
	}
}

func TestAnalyzerScratchRetention(t *testing.T) {
	m := MustParse(twoL)

	a := NewAnalyzer()
	for i := 0; i < 3; i++ {
		if _, err := a.Components(m, 0); err != nil {
			t.Fatal(err)
		}
	}
	if got := a.scratch.Retained(); got != 1 {
		t.Errorf("Retained() = %d, want 1", got)
	}

	none := NewAnalyzer(WithScratchRetention(0))
	if _, err := none.LargestComponent(m); err != nil {
		t.Fatal(err)
	}
	if got := none.scratch.Retained(); got != 0 {
		t.Errorf("Retained() = %d, want 0", got)
	}
}

func TestAnalyzerLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewAnalyzer(WithLogger(l), WithMaxPixels(4))

	if _, err := a.Components(MustParse("#.\n.#"), 0); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "bitmask: components") {
		t.Errorf("debug log missing, got %q", buf.String())
	}

	buf.Reset()
	_, _ = a.BoundingRects(MustNew(3, 3))
	if !strings.Contains(buf.String(), "refusing label scratch") {
		t.Errorf("warning missing, got %q", buf.String())
	}
}

func BenchmarkComponents(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 2))
	m := randomMask(r, 256, 256, 0.45)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Components(m, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBoundingRects(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 2))
	m := randomMask(r, 512, 512, 0.45)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BoundingRects(m); err != nil {
			b.Fatal(err)
		}
	}
}

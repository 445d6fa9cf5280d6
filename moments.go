package bitmask

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Moments holds the raw image moments of a mask up to second order:
// Mpq is the sum of x^p * y^q over all set bits.
type Moments struct {
	M00 int64
	M10 int64
	M01 int64
	M20 int64
	M02 int64
	M11 int64
}

// ComputeMoments sums the raw moments of m.
func ComputeMoments(m *Mask) Moments {
	var mo Moments
	for y := 0; y < m.height; y++ {
		yy := int64(y)
		for x := 0; x < m.width; x++ {
			if !m.Get(x, y) {
				continue
			}
			xx := int64(x)
			mo.M00++
			mo.M10 += xx
			mo.M01 += yy
			mo.M20 += xx * xx
			mo.M02 += yy * yy
			mo.M11 += xx * yy
		}
	}
	return mo
}

// Centroid returns the mean set-bit position, truncated toward zero.
// It is (0, 0) when no bits are set.
func (mo Moments) Centroid() image.Point {
	if mo.M00 == 0 {
		return image.Point{}
	}
	return image.Pt(int(mo.M10/mo.M00), int(mo.M01/mo.M00))
}

// Angle returns the orientation of the principal axis in degrees, from the
// central second moments computed in integer arithmetic around the
// truncated centroid:
//
//	θ = -90 · atan2(2·μ11, μ20 − μ02) / π
//
// The sign follows image coordinates, with y growing downward. It is 0 when
// no bits are set.
func (mo Moments) Angle() float64 {
	if mo.M00 == 0 {
		return 0
	}
	c := mo.Centroid()
	xc, yc := int64(c.X), int64(c.Y)
	mu11 := mo.M11/mo.M00 - xc*yc
	mu20 := mo.M20/mo.M00 - xc*xc
	mu02 := mo.M02/mo.M00 - yc*yc
	return -90 * math.Atan2(float64(2*mu11), float64(mu20-mu02)) / math.Pi
}

// Axes describes the ellipse with the same second moments as a shape.
type Axes struct {
	// Major and Minor are the full axis lengths, 4·sqrt(λ) for the
	// eigenvalues λ of the covariance matrix.
	Major float64
	Minor float64

	// Eccentricity is sqrt(1 − λmin/λmax): 0 for isotropic shapes,
	// approaching 1 for lines.
	Eccentricity float64
}

// PrincipalAxes computes the equivalent ellipse from the exact (floating
// point) covariance of the set bits. ok is false when no bits are set or
// the decomposition fails.
func (mo Moments) PrincipalAxes() (ax Axes, ok bool) {
	if mo.M00 == 0 {
		return Axes{}, false
	}
	n := float64(mo.M00)
	cx, cy := float64(mo.M10)/n, float64(mo.M01)/n
	sxx := float64(mo.M20)/n - cx*cx
	syy := float64(mo.M02)/n - cy*cy
	sxy := float64(mo.M11)/n - cx*cy

	var eig mat.EigenSym
	if !eig.Factorize(mat.NewSymDense(2, []float64{sxx, sxy, sxy, syy}), false) {
		return Axes{}, false
	}
	vals := eig.Values(nil) // ascending
	lo, hi := math.Max(vals[0], 0), math.Max(vals[1], 0)

	ax.Major = 4 * math.Sqrt(hi)
	ax.Minor = 4 * math.Sqrt(lo)
	if hi > 0 {
		ax.Eccentricity = math.Sqrt(1 - lo/hi)
	}
	return ax, true
}

// Centroid returns the truncated mean position of m's set bits, or (0, 0)
// for a mask with none.
func Centroid(m *Mask) image.Point {
	return ComputeMoments(m).Centroid()
}

// Angle returns the orientation of m in degrees; see Moments.Angle.
func Angle(m *Mask) float64 {
	return ComputeMoments(m).Angle()
}

// Package spline evaluates piecewise cubic curves of the form G·M·T(t)
// over a control polygon.
package spline

import "fmt"

// Basis selects the 4x4 characteristic matrix of a cubic spline.
type Basis int

const (
	// BSpline gives a C2 curve that approximates its control points.
	BSpline Basis = iota
	// CatmullRom interpolates every control point.
	CatmullRom
	// Bezier interpolates the first and last point of each window.
	Bezier
)

// coefficients holds M as rows indexed by control point, columns by power
// of t: the weight of control point i is sum_j M[i][j]·t^j.
type coefficients [4][4]float32

var basisMatrices = map[Basis]coefficients{
	BSpline: {
		{1.0 / 6, -3.0 / 6, 3.0 / 6, -1.0 / 6},
		{4.0 / 6, 0, -6.0 / 6, 3.0 / 6},
		{1.0 / 6, 3.0 / 6, 3.0 / 6, -3.0 / 6},
		{0, 0, 0, 1.0 / 6},
	},
	CatmullRom: {
		{0, -0.5, 1, -0.5},
		{1, 0, -2.5, 1.5},
		{0, 0.5, 2, -1.5},
		{0, 0, -0.5, 0.5},
	},
	Bezier: {
		{1, -3, 3, -1},
		{0, 3, -6, 3},
		{0, 0, 3, -3},
		{0, 0, 0, 1},
	},
}

func (b Basis) String() string {
	switch b {
	case BSpline:
		return "bspline"
	case CatmullRom:
		return "catmull-rom"
	case Bezier:
		return "bezier"
	default:
		return fmt.Sprintf("Basis(%d)", int(b))
	}
}

// ParseBasis converts a basis name as used in config and scene files.
func ParseBasis(s string) (Basis, error) {
	switch s {
	case "bspline", "b-spline", "":
		return BSpline, nil
	case "catmull-rom", "catmullrom":
		return CatmullRom, nil
	case "bezier":
		return Bezier, nil
	}
	return 0, fmt.Errorf("%w: unknown basis %q", ErrInvalidParameter, s)
}

// weights returns the blending weights of the four window points at t.
func (b Basis) weights(t float32) [4]float32 {
	m := basisMatrices[b]
	t2 := t * t
	t3 := t2 * t
	var w [4]float32
	for i := range w {
		w[i] = m[i][0] + m[i][1]*t + m[i][2]*t2 + m[i][3]*t3
	}
	return w
}

package spline

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Faultbox/trackforge/pkg/math"
)

// ErrInvalidParameter is returned for out-of-range evaluation parameters.
var ErrInvalidParameter = errors.New("invalid parameter")

// MinControlPoints is the smallest control polygon that yields a curve.
const MinControlPoints = 4

// Mode selects how control point windows are formed.
type Mode int

const (
	// Closed slides a cyclic window one point at a time, so a polygon of
	// N points produces N spans and a closed loop.
	Closed Mode = iota
	// Segmented steps the window by three points without wrapping, the
	// usual layout for chained Bezier segments sharing end points.
	Segmented
)

func (m Mode) String() string {
	switch m {
	case Closed:
		return "closed"
	case Segmented:
		return "segmented"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name as used in scene files and on the
// command line.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "closed":
		return Closed, nil
	case "segmented":
		return Segmented, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidParameter, s)
}

// Options configure Evaluate.
type Options struct {
	Basis Basis
	Mode  Mode
}

// CheckLoop reports whether the options produce a loop without gaps.
// Closed Bezier windows overlap by three points, so consecutive spans do
// not meet; Bezier loops need Segmented mode with shared end points.
func (o Options) CheckLoop() error {
	if o.Mode == Closed && o.Basis == Bezier {
		return fmt.Errorf("%w: %v spans do not join in %v mode", ErrInvalidParameter, o.Basis, o.Mode)
	}
	return nil
}

// Curve is a sampled spline.
type Curve struct {
	points []math.Vec3
	closed bool
}

// Len returns the number of samples.
func (c *Curve) Len() int { return len(c.points) }

// IsClosed reports whether the curve is a loop.
func (c *Curve) IsClosed() bool { return c.closed }

// Points returns a copy of the samples.
func (c *Curve) Points() []math.Vec3 {
	return append([]math.Vec3(nil), c.points...)
}

// All iterates over the samples in order.
func (c *Curve) All() iter.Seq2[int, math.Vec3] {
	return func(yield func(int, math.Vec3) bool) {
		for i, p := range c.points {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Closed returns the samples with the first one appended for loops, so
// consecutive pairs cover every span including the closing one. Open
// curves are returned unchanged.
func (c *Curve) Closed() []math.Vec3 {
	out := c.Points()
	if c.closed && len(out) > 0 {
		out = append(out, out[0])
	}
	return out
}

// Length returns the polyline length through the samples, including the
// closing span of a loop.
func (c *Curve) Length() float32 {
	pts := c.Closed()
	var total float32
	for i := 1; i < len(pts); i++ {
		total += pts[i].Distance(pts[i-1])
	}
	return total
}

// Evaluate samples the spline through points with pointsPerSegment
// samples per span.
//
// In Closed mode span k uses points k..k+3 modulo N and is sampled at
// t = j/pointsPerSegment for j < pointsPerSegment, giving N·pointsPerSegment
// samples; the sample at t = 1 equals the next span's first sample and is
// left to Curve.Closed. In Segmented mode span k uses points 3k..3k+3 and
// includes t = 1 on its last span only.
//
// Fewer than four points yield an empty curve and no error.
func Evaluate(points []math.Vec3, pointsPerSegment int, opts Options) (*Curve, error) {
	if pointsPerSegment <= 0 {
		return nil, fmt.Errorf("%w: points per segment %d", ErrInvalidParameter, pointsPerSegment)
	}
	if _, ok := basisMatrices[opts.Basis]; !ok {
		return nil, fmt.Errorf("%w: basis %v", ErrInvalidParameter, opts.Basis)
	}

	switch opts.Mode {
	case Closed:
		return evaluateClosed(points, pointsPerSegment, opts.Basis), nil
	case Segmented:
		return evaluateSegmented(points, pointsPerSegment, opts.Basis), nil
	default:
		return nil, fmt.Errorf("%w: mode %v", ErrInvalidParameter, opts.Mode)
	}
}

func evaluateClosed(points []math.Vec3, pps int, basis Basis) *Curve {
	n := len(points)
	if n < MinControlPoints {
		return &Curve{closed: true}
	}

	out := make([]math.Vec3, 0, n*pps)
	for k := 0; k < n; k++ {
		g := [4]math.Vec3{points[k], points[(k+1)%n], points[(k+2)%n], points[(k+3)%n]}
		for j := 0; j < pps; j++ {
			out = append(out, blend(g, basis.weights(float32(j)/float32(pps))))
		}
	}
	return &Curve{points: out, closed: true}
}

func evaluateSegmented(points []math.Vec3, pps int, basis Basis) *Curve {
	if len(points) < MinControlPoints {
		return &Curve{}
	}

	spans := (len(points) - 1) / 3
	out := make([]math.Vec3, 0, spans*pps+1)
	for k := 0; k < spans; k++ {
		var g [4]math.Vec3
		copy(g[:], points[3*k:3*k+4])
		for j := 0; j < pps; j++ {
			out = append(out, blend(g, basis.weights(float32(j)/float32(pps))))
		}
		if k == spans-1 {
			out = append(out, blend(g, basis.weights(1)))
		}
	}
	return &Curve{points: out}
}

func blend(g [4]math.Vec3, w [4]float32) math.Vec3 {
	return g[0].Scale(w[0]).
		Add(g[1].Scale(w[1])).
		Add(g[2].Scale(w[2])).
		Add(g[3].Scale(w[3]))
}

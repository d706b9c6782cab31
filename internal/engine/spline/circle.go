package spline

import "github.com/Faultbox/trackforge/pkg/math"

// Kappa places cubic Bezier handles so that four segments approximate a
// circle with under 0.03% radial error.
const Kappa = 0.552284749831

// CircleControlPoints returns 13 control points describing a circle of the
// given radius around center in the ground plane (XZ), for evaluation as
// four Segmented Bezier spans. The first and last points coincide.
func CircleControlPoints(center math.Vec3, radius float32) []math.Vec3 {
	k := float32(Kappa) * radius
	r := radius
	offsets := []math.Vec3{
		{X: r, Z: 0},
		{X: r, Z: k},
		{X: k, Z: r},
		{X: 0, Z: r},
		{X: -k, Z: r},
		{X: -r, Z: k},
		{X: -r, Z: 0},
		{X: -r, Z: -k},
		{X: -k, Z: -r},
		{X: 0, Z: -r},
		{X: k, Z: -r},
		{X: r, Z: -k},
		{X: r, Z: 0},
	}
	pts := make([]math.Vec3, len(offsets))
	for i, o := range offsets {
		pts[i] = center.Add(o)
	}
	return pts
}

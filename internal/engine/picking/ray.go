// Package picking turns screen positions into world rays and tests them
// against planes and boxes.
package picking

import (
	gomath "math"

	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of projection * view.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. Hits behind the origin and near-parallel rays are misses.
func (r Ray) IntersectPlane(point, normal math.Vec3) (math.Vec3, bool) {
	denom := r.Direction.Dot(normal)
	if gomath.Abs(float64(denom)) < 1e-3 {
		return math.Vec3{}, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectEditorPlane intersects the ray with the Z = 0 editor plane.
func (r Ray) IntersectEditorPlane() (math.Vec3, bool) {
	p, ok := r.IntersectPlane(math.Vec3{}, math.EditorUp)
	if ok {
		p.Z = 0
	}
	return p, ok
}

// IntersectBounds tests the ray against an axis-aligned box using the slab
// method. If the ray starts inside the box the exit distance is returned.
func (r Ray) IntersectBounds(box model.Bounds) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Bounded is anything with a world-space bounding box.
type Bounded interface {
	Bounds() model.Bounds
}

// Nearest returns the index of the closest item hit by the ray, or -1.
func Nearest[T Bounded](r Ray, items []T) int {
	best := -1
	bestT := float32(gomath.MaxFloat32)
	for i, it := range items {
		if t, ok := r.IntersectBounds(it.Bounds()); ok && t < bestT {
			best, bestT = i, t
		}
	}
	return best
}

package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/pkg/math"
)

type box model.Bounds

func (b box) Bounds() model.Bounds { return model.Bounds(b) }

func unitBox(center math.Vec3) box {
	h := math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}
	return box{Min: center.Sub(h), Max: center.Add(h)}
}

func TestScreenToRay_OrthoCenter(t *testing.T) {
	view := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Ortho(-50, 50, -50, 50, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(400, 300, 800, 600, inv)
	assert.True(t, r.Direction.ApproxEqual(math.Vec3{Z: -1}, 1e-4), "dir %v", r.Direction)

	p, ok := r.IntersectEditorPlane()
	require.True(t, ok)
	assert.True(t, p.ApproxEqual(math.Vec3{}, 1e-3), "hit %v", p)
}

func TestScreenToRay_OrthoCorner(t *testing.T) {
	view := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Ortho(-40, 40, -30, 30, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	// Top-left pixel maps to (-40, 30) on the editor plane.
	r := ScreenToRay(0, 0, 800, 600, inv)
	p, ok := r.IntersectEditorPlane()
	require.True(t, ok)
	assert.InDelta(t, -40, p.X, 1e-2)
	assert.InDelta(t, 30, p.Y, 1e-2)
	assert.Zero(t, p.Z)
}

func TestIntersectPlane(t *testing.T) {
	r := Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{Y: -1}}
	p, ok := r.IntersectPlane(math.Vec3{Y: 2}, math.GroundUp)
	require.True(t, ok)
	assert.Equal(t, math.Vec3{Y: 2}, p)

	_, ok = Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{X: 1}}.IntersectPlane(math.Vec3{}, math.GroundUp)
	assert.False(t, ok, "parallel ray")

	_, ok = Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{Y: 1}}.IntersectPlane(math.Vec3{}, math.GroundUp)
	assert.False(t, ok, "plane behind origin")
}

func TestIntersectBounds(t *testing.T) {
	b := unitBox(math.Vec3{Z: -5}).Bounds()

	r := Ray{Direction: math.Vec3{Z: -1}}
	d, ok := r.IntersectBounds(b)
	require.True(t, ok)
	assert.InDelta(t, 4.5, d, 1e-6)

	inside := Ray{Origin: math.Vec3{Z: -5}, Direction: math.Vec3{Z: -1}}
	d, ok = inside.IntersectBounds(b)
	require.True(t, ok)
	assert.InDelta(t, 0.5, d, 1e-6)

	miss := Ray{Origin: math.Vec3{X: 3}, Direction: math.Vec3{Z: -1}}
	_, ok = miss.IntersectBounds(b)
	assert.False(t, ok)

	behind := Ray{Direction: math.Vec3{Z: 1}}
	_, ok = behind.IntersectBounds(b)
	assert.False(t, ok)
}

func TestNearest(t *testing.T) {
	items := []box{
		unitBox(math.Vec3{Z: -10}),
		unitBox(math.Vec3{Z: -3}),
		unitBox(math.Vec3{X: 5, Z: -1}),
	}
	r := Ray{Direction: math.Vec3{Z: -1}}
	assert.Equal(t, 1, Nearest(r, items))

	r = Ray{Origin: math.Vec3{Y: 20}, Direction: math.Vec3{Z: -1}}
	assert.Equal(t, -1, Nearest(r, items))
}

package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/pkg/math"
)

func TestFlyCamera_LookAlong(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, math.Vec3{Z: -1})
	assert.InDelta(t, -90, c.Yaw, 1e-4)
	assert.InDelta(t, 0, c.Pitch, 1e-4)
	assert.True(t, c.Front.ApproxEqual(math.Vec3{Z: -1}, 1e-5), "front %v", c.Front)

	c.LookAlong(math.Vec3{})
	assert.True(t, c.Front.ApproxEqual(math.Vec3{Z: -1}, 1e-5))
}

func TestFlyCamera_LookClampsPitch(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, math.Vec3{Z: -1})
	c.Sensitivity = 1
	c.Look(0, 500)
	assert.Equal(t, float32(MaxPitch), c.Pitch)
	c.Look(0, -1000)
	assert.Equal(t, float32(-MaxPitch), c.Pitch)
}

func TestFlyCamera_LookYaw(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, math.Vec3{Z: -1})
	c.Sensitivity = 1
	c.Look(90, 0)
	assert.True(t, c.Front.ApproxEqual(math.Vec3{X: 1}, 1e-5), "front %v", c.Front)
}

func TestFlyCamera_Move(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, math.Vec3{Z: -1})
	c.Speed = 2
	c.Move(1, 0)
	assert.True(t, c.Pos.ApproxEqual(math.Vec3{Z: -2}, 1e-5), "pos %v", c.Pos)
	c.Move(0, 1)
	assert.True(t, c.Pos.ApproxEqual(math.Vec3{X: 2, Z: -2}, 1e-5), "pos %v", c.Pos)
}

func TestFlyCamera_ViewCentersFront(t *testing.T) {
	c := NewFlyCamera(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{X: 1})
	vp := ViewProjection(c, 1)
	p := vp.TransformPoint(c.Pos.Add(c.Front.Scale(10)))
	assert.InDelta(t, 0, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)
}

func TestOrbitCamera_Position(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationX = 0
	c.RotationY = 0
	c.Distance = 10
	c.Center = math.Vec3{X: 1}
	assert.True(t, c.Position().ApproxEqual(math.Vec3{X: 1, Z: 10}, 1e-5))
}

func TestOrbitCamera_Clamps(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	assert.Equal(t, c.MaxPitch, c.RotationX)
	c.HandleDrag(0, -1e6)
	assert.Equal(t, c.MinPitch, c.RotationX)

	for range 200 {
		c.HandleZoom(1)
	}
	assert.Equal(t, c.MinDistance, c.Distance)
}

func TestOrbitCamera_FitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(model.Bounds{Min: math.Vec3{X: -10, Z: -20}, Max: math.Vec3{X: 10, Y: 2, Z: 20}})
	assert.Equal(t, math.Vec3{Y: 1}, c.Center)
	assert.InDelta(t, 48, c.Distance, 1e-4)
}

func TestEditorCamera_ProjectsPlane(t *testing.T) {
	c := NewEditorCamera(50)
	c.Pan(math.Vec2{X: 10, Y: 5})
	vp := ViewProjection(c, 2)

	center := vp.TransformPoint(math.Vec3{X: 10, Y: 5})
	assert.InDelta(t, 0, center.X, 1e-5)
	assert.InDelta(t, 0, center.Y, 1e-5)

	corner := vp.TransformPoint(math.Vec3{X: 10 + 100, Y: 5 + 50})
	assert.InDelta(t, 1, corner.X, 1e-5)
	assert.InDelta(t, 1, corner.Y, 1e-5)
}

func TestEditorCamera_Zoom(t *testing.T) {
	c := NewEditorCamera(50)
	c.HandleZoom(1)
	assert.InDelta(t, 45, c.HalfHeight, 1e-4)
	for range 1000 {
		c.HandleZoom(1)
	}
	assert.Equal(t, c.MinHalfHeight, c.HalfHeight)
}

// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/pkg/math"
)

// Camera produces the view and projection for one frame.
type Camera interface {
	Position() math.Vec3
	ViewMatrix() math.Mat4
	ProjectionMatrix(aspect float32) math.Mat4
}

// ViewProjection returns projection * view for cam.
func ViewProjection(cam Camera, aspect float32) math.Mat4 {
	return cam.ProjectionMatrix(aspect).Mul(cam.ViewMatrix())
}

// FlyCamera is a free-look camera steered by mouse look and WASD.
// Yaw and Pitch are in degrees; yaw -90 looks down -Z.
type FlyCamera struct {
	Pos   math.Vec3
	Front math.Vec3
	Up    math.Vec3

	Yaw   float32
	Pitch float32

	Fov       float32 // degrees
	NearPlane float32
	FarPlane  float32

	Sensitivity float32
	Speed       float32
}

// MaxPitch keeps the fly camera away from the poles.
const MaxPitch = 89

// NewFlyCamera creates a fly camera at pos looking along front.
func NewFlyCamera(pos, front math.Vec3) *FlyCamera {
	c := &FlyCamera{
		Pos:         pos,
		Up:          math.GroundUp,
		Fov:         45,
		NearPlane:   0.1,
		FarPlane:    500,
		Sensitivity: 0.1,
		Speed:       0.5,
	}
	c.LookAlong(front)
	return c
}

// LookAlong points the camera along dir and derives yaw and pitch from it.
// A zero dir looks down -Z.
func (c *FlyCamera) LookAlong(dir math.Vec3) {
	dir = dir.Normalize()
	if dir == (math.Vec3{}) {
		dir = math.Vec3{Z: -1}
	}
	c.Pitch = clamp(degrees(gomath.Asin(float64(dir.Y))), -MaxPitch, MaxPitch)
	c.Yaw = degrees(gomath.Atan2(float64(dir.Z), float64(dir.X)))
	c.updateFront()
}

// Look turns the camera by a mouse delta in pixels. Positive dy looks up.
func (c *FlyCamera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch = clamp(c.Pitch+dy*c.Sensitivity, -MaxPitch, MaxPitch)
	c.updateFront()
}

// Move translates the camera along its front and right vectors, scaled by
// Speed. Positive forward moves along Front, positive right strafes right.
func (c *FlyCamera) Move(forward, right float32) {
	c.Pos = c.Pos.Add(c.Front.Scale(forward * c.Speed))
	c.Pos = c.Pos.Add(c.Right().Scale(right * c.Speed))
}

// Right returns the camera's right vector.
func (c *FlyCamera) Right() math.Vec3 {
	return c.Front.Cross(c.Up).Normalize()
}

func (c *FlyCamera) updateFront() {
	yaw := float64(math.Radians(c.Yaw))
	pitch := float64(math.Radians(c.Pitch))
	c.Front = math.Vec3{
		X: float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		Y: float32(gomath.Sin(pitch)),
		Z: float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}.Normalize()
}

// Position returns the camera position in world space.
func (c *FlyCamera) Position() math.Vec3 { return c.Pos }

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Pos, c.Pos.Add(c.Front), c.Up)
}

// ProjectionMatrix returns a perspective projection.
func (c *FlyCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(math.Radians(c.Fov), aspect, c.NearPlane, c.FarPlane)
}

// OrbitCamera orbits around a center point on the ground plane.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // Pitch (radians)
	RotationY float32 // Yaw (radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	Fov       float32 // degrees
	NearPlane float32
	FarPlane  float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        40,
		RotationX:       0.6,
		MinDistance:     2,
		MaxDistance:     1000,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Fov:             45,
		NearPlane:       0.1,
		FarPlane:        2000,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	rx, ry := float64(c.RotationX), float64(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(gomath.Cos(rx)*gomath.Sin(ry)),
		Y: c.Distance * float32(gomath.Sin(rx)),
		Z: c.Distance * float32(gomath.Cos(rx)*gomath.Cos(ry)),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.GroundUp)
}

// ProjectionMatrix returns a perspective projection.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(math.Radians(c.Fov), aspect, c.NearPlane, c.FarPlane)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(box model.Bounds) {
	c.Center = box.Center()
	size := box.Size()
	c.Distance = clamp(max(size.X, size.Z)*1.2, c.MinDistance, c.MaxDistance)
	c.RotationX = 0.6
	c.RotationY = 0
}

// EditorCamera looks straight down -Z at the XY editor plane with an
// orthographic projection. HalfHeight is half the visible height in world
// units.
type EditorCamera struct {
	Center     math.Vec2
	HalfHeight float32

	MinHalfHeight float32
	MaxHalfHeight float32
}

// editorEyeDistance is how far above the plane the editor camera sits.
const editorEyeDistance = 10

// NewEditorCamera creates an editor camera showing halfHeight units above
// and below the origin.
func NewEditorCamera(halfHeight float32) *EditorCamera {
	return &EditorCamera{
		HalfHeight:    halfHeight,
		MinHalfHeight: 1,
		MaxHalfHeight: 10000,
	}
}

// Position returns the camera position in world space.
func (c *EditorCamera) Position() math.Vec3 {
	return math.Vec3{X: c.Center.X, Y: c.Center.Y, Z: editorEyeDistance}
}

// ViewMatrix returns the view matrix for this camera.
func (c *EditorCamera) ViewMatrix() math.Mat4 {
	eye := c.Position()
	return math.LookAt(eye, math.Vec3{X: eye.X, Y: eye.Y}, math.Vec3{Y: 1})
}

// ProjectionMatrix returns an orthographic projection keeping square pixels.
func (c *EditorCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	hw := c.HalfHeight * aspect
	return math.Ortho(-hw, hw, -c.HalfHeight, c.HalfHeight, 0.1, 2*editorEyeDistance)
}

// Pan moves the view by a delta in world units.
func (c *EditorCamera) Pan(delta math.Vec2) {
	c.Center = c.Center.Add(delta)
}

// HandleZoom shrinks the visible area for positive delta.
func (c *EditorCamera) HandleZoom(delta float32) {
	c.HalfHeight = clamp(c.HalfHeight*(1-delta*0.1), c.MinHalfHeight, c.MaxHalfHeight)
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

func degrees(rad float64) float32 {
	return float32(rad * 180 / gomath.Pi)
}

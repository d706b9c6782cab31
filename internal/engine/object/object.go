// Package object places meshes in a scene and animates them.
package object

import (
	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// SpinRate is how many degrees an auto-rotating object turns per tick.
const SpinRate = 0.1

// Transform positions an object. Angle holds three rotations in degrees,
// applied in X, Y, Z order, all about Axis.
type Transform struct {
	Position math.Vec3
	Scale    math.Vec3
	Axis     math.Vec3
	Angle    math.Vec3
}

// DefaultTransform returns a transform with unit scale and no rotation.
func DefaultTransform() Transform {
	return Transform{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// Object3D is a named mesh with a transform, a material and an optional
// recorded path it moves along.
type Object3D struct {
	Name      string
	Mesh      *model.Mesh
	Material  formats.Material
	Transform Transform

	// AutoRotate replaces Transform.Angle with a shared spin angle that
	// grows every tick.
	AutoRotate bool

	// Path is a sequence of positions the object steps through, PathStep
	// samples per tick.
	Path     []math.Vec3
	PathStep int

	// Parent makes Path and Position relative to another object.
	Parent *Object3D

	pathIndex int
	spin      float32
}

// New creates an object with a default transform.
func New(name string, mesh *model.Mesh, material formats.Material) *Object3D {
	if mesh == nil {
		mesh = &model.Mesh{}
	}
	return &Object3D{
		Name:      name,
		Mesh:      mesh,
		Material:  material,
		Transform: DefaultTransform(),
		PathStep:  1,
	}
}

// Animated reports whether the object follows a path.
func (o *Object3D) Animated() bool {
	return len(o.Path) > 0
}

// PathIndex returns the current position on the path.
func (o *Object3D) PathIndex() int {
	return o.pathIndex
}

// Advance moves the object steps samples along its path, wrapping at the
// end, and updates Transform.Position. Objects without a path stay put.
func (o *Object3D) Advance(steps int) {
	n := len(o.Path)
	if n == 0 {
		return
	}
	o.pathIndex = ((o.pathIndex+steps)%n + n) % n
	o.Transform.Position = o.Path[o.pathIndex]
}

// Spin turns the shared auto-rotation angle by delta degrees, wrapping at
// 360.
func (o *Object3D) Spin(delta float32) {
	o.spin += delta
	for o.spin >= 360 {
		o.spin -= 360
	}
	for o.spin < 0 {
		o.spin += 360
	}
}

// Tick advances one animation frame.
func (o *Object3D) Tick() {
	o.Advance(o.PathStep)
	if o.AutoRotate {
		o.Spin(SpinRate)
	}
}

// WorldPosition returns the position including all parents.
func (o *Object3D) WorldPosition() math.Vec3 {
	p := o.Transform.Position
	for parent := o.Parent; parent != nil; parent = parent.Parent {
		p = p.Add(parent.Transform.Position)
	}
	return p
}

// Angles returns the rotation angles in degrees in effect this frame.
func (o *Object3D) Angles() math.Vec3 {
	if o.AutoRotate {
		return math.Vec3{X: o.spin, Y: o.spin, Z: o.spin}
	}
	return o.Transform.Angle
}

// ModelMatrix returns T · Rx · Ry · Rz · S with every rotation about
// Transform.Axis.
func (o *Object3D) ModelMatrix() math.Mat4 {
	angles := o.Angles()
	axis := o.Transform.Axis

	m := math.Translate(o.WorldPosition())
	m = m.Mul(math.RotateAxis(axis, math.Radians(angles.X)))
	m = m.Mul(math.RotateAxis(axis, math.Radians(angles.Y)))
	m = m.Mul(math.RotateAxis(axis, math.Radians(angles.Z)))
	return m.Mul(math.Scale(o.Transform.Scale))
}

// Bounds returns the mesh bounds in world space. Rotation is ignored.
func (o *Object3D) Bounds() model.Bounds {
	b := o.Mesh.Bounds()
	s := o.Transform.Scale
	p := o.WorldPosition()
	a := math.Vec3{X: b.Min.X * s.X, Y: b.Min.Y * s.Y, Z: b.Min.Z * s.Z}.Add(p)
	c := math.Vec3{X: b.Max.X * s.X, Y: b.Max.Y * s.Y, Z: b.Max.Z * s.Z}.Add(p)
	// negative scale swaps the corners
	return model.Bounds{
		Min: math.Vec3{X: min(a.X, c.X), Y: min(a.Y, c.Y), Z: min(a.Z, c.Z)},
		Max: math.Vec3{X: max(a.X, c.X), Y: max(a.Y, c.Y), Z: max(a.Z, c.Z)},
	}
}

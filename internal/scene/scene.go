// Package scene holds everything the viewer draws: global camera and light
// settings, placed objects, curve overlays and track descriptions.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/trackforge/internal/engine/object"
	"github.com/Faultbox/trackforge/internal/engine/spline"
	"github.com/Faultbox/trackforge/pkg/math"
)

// ErrDuplicateName is returned when two objects or two curves share a name.
var ErrDuplicateName = errors.New("duplicate name")

// Global holds the camera, light and fog settings.
type Global struct {
	LightPos    math.Vec3
	LightColor  math.Vec3
	CameraPos   math.Vec3
	CameraFront math.Vec3
	Fov         float32
	NearPlane   float32
	FarPlane    float32
	Sensitivity float32
	CameraSpeed float32
	FogNear     float32
	FogFar      float32
}

// DefaultGlobal returns settings that frame a track of a few dozen units.
func DefaultGlobal() Global {
	return Global{
		LightPos:    math.Vec3{X: 0, Y: 50, Z: 0},
		LightColor:  math.Vec3{X: 1, Y: 1, Z: 1},
		CameraPos:   math.Vec3{X: 0, Y: 20, Z: 30},
		CameraFront: math.Vec3{X: 0, Y: -0.5, Z: -1}.Normalize(),
		Fov:         45,
		NearPlane:   0.1,
		FarPlane:    500,
		Sensitivity: 0.1,
		CameraSpeed: 0.5,
		FogNear:     100,
		FogFar:      400,
	}
}

// Color is an RGBA color.
type Color struct {
	R, G, B, A float32
}

// DefaultCurveColor is used for curves without a Color entry.
var DefaultCurveColor = Color{R: 1, G: 0, B: 0, A: 1}

// Curve is a spline overlay drawn as a line strip.
type Curve struct {
	Name             string
	ControlPoints    []math.Vec3
	PointsPerSegment int
	Basis            spline.Basis
	Mode             spline.Mode
	Color            Color

	// Orbit and Radius are set for curves generated as circles.
	Orbit  *math.Vec3
	Radius float32

	Samples *spline.Curve
}

// Evaluate samples the curve from its control points.
func (c *Curve) Evaluate() error {
	samples, err := spline.Evaluate(c.ControlPoints, c.PointsPerSegment, spline.Options{Basis: c.Basis, Mode: c.Mode})
	if err != nil {
		return fmt.Errorf("curve %q: %w", c.Name, err)
	}
	c.Samples = samples
	return nil
}

// Track describes a track by its editor-plane control points so it can be
// rebuilt or reopened in the editor.
type Track struct {
	Name             string
	ControlPoints    []math.Vec3
	Width            float32
	PointsPerSegment int
	Basis            spline.Basis
}

// Scene is the set of things loaded from one scene file.
type Scene struct {
	Global  Global
	Objects []*object.Object3D
	Curves  []*Curve
	Tracks  []Track

	objects map[string]*object.Object3D
	curves  map[string]*Curve
	assets  map[string]Asset
}

// Asset records the file references an object was loaded from, as
// written in the scene file.
type Asset struct {
	Obj       string
	Mtl       string
	Material  string
	Animation string
	Follow    string
	Parent    string
}

// New returns an empty scene with default global settings.
func New() *Scene {
	return &Scene{
		Global:  DefaultGlobal(),
		objects: make(map[string]*object.Object3D),
		curves:  make(map[string]*Curve),
		assets:  make(map[string]Asset),
	}
}

// AddObject appends an object. Names must be unique.
func (s *Scene) AddObject(o *object.Object3D) error {
	if _, ok := s.objects[o.Name]; ok {
		return fmt.Errorf("%w: object %q", ErrDuplicateName, o.Name)
	}
	s.objects[o.Name] = o
	s.Objects = append(s.Objects, o)
	return nil
}

// AddCurve appends a curve. Names must be unique.
func (s *Scene) AddCurve(c *Curve) error {
	if _, ok := s.curves[c.Name]; ok {
		return fmt.Errorf("%w: curve %q", ErrDuplicateName, c.Name)
	}
	s.curves[c.Name] = c
	s.Curves = append(s.Curves, c)
	return nil
}

// SetAsset records where the named object's files live.
func (s *Scene) SetAsset(name string, a Asset) {
	s.assets[name] = a
}

// Asset returns the file references of the named object.
func (s *Scene) Asset(name string) (Asset, bool) {
	a, ok := s.assets[name]
	return a, ok
}

// Object looks up an object by name.
func (s *Scene) Object(name string) (*object.Object3D, bool) {
	o, ok := s.objects[name]
	return o, ok
}

// Curve looks up a curve by name.
func (s *Scene) Curve(name string) (*Curve, bool) {
	c, ok := s.curves[name]
	return c, ok
}

// Tick advances every object by one animation frame.
func (s *Scene) Tick() {
	for _, o := range s.Objects {
		o.Tick()
	}
}

// TriangleCount sums the faces of all object meshes.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, o := range s.Objects {
		n += o.Mesh.TriangleCount()
	}
	return n
}

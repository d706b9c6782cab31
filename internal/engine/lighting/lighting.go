// Package lighting describes the single point light and linear fog the
// viewer shades with.
package lighting

import (
	"github.com/Faultbox/trackforge/internal/scene"
	"github.com/Faultbox/trackforge/pkg/math"
)

// PointLight is a light at a world position.
type PointLight struct {
	Position math.Vec3
	Color    math.Vec3 // RGB, 0-1
}

// Fog blends distant fragments toward Color. Between Near and Far the blend
// is linear in the distance from the camera.
type Fog struct {
	Near  float32
	Far   float32
	Color math.Vec3
}

// Enabled reports whether the fog range is usable.
func (f Fog) Enabled() bool {
	return f.Far > f.Near && f.Far > 0
}

// Factor returns how much of the surface color survives at distance d:
// 1 up to Near, 0 from Far on.
func (f Fog) Factor(d float32) float32 {
	if !f.Enabled() {
		return 1
	}
	return max(0, min(1, (f.Far-d)/(f.Far-f.Near)))
}

// Environment is everything the mesh shader needs besides the object.
type Environment struct {
	Light     PointLight
	Ambient   float32
	Fog       Fog
	CameraPos math.Vec3
}

// DefaultAmbient is the ambient strength applied to every material.
const DefaultAmbient = 0.2

// SkyColor is the clear color; fog fades toward it.
var SkyColor = math.Vec3{X: 0.53, Y: 0.71, Z: 0.85}

// FromGlobal builds the environment described by a scene's global block.
func FromGlobal(g scene.Global) Environment {
	return Environment{
		Light: PointLight{
			Position: g.LightPos,
			Color:    g.LightColor,
		},
		Ambient:   DefaultAmbient,
		Fog:       Fog{Near: g.FogNear, Far: g.FogFar, Color: SkyColor},
		CameraPos: g.CameraPos,
	}
}

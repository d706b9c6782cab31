package scene

import (
	"strconv"

	"github.com/Faultbox/trackforge/internal/engine/spline"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// Encode converts the scene back into blocks. Objects are written from
// their recorded assets; objects without one are skipped since they have
// no file to reference.
func (s *Scene) Encode() []formats.SceneBlock {
	blocks := []formats.SceneBlock{s.encodeGlobal()}

	for _, o := range s.Objects {
		a, ok := s.assets[o.Name]
		if !ok || a.Obj == "" {
			continue
		}
		b := formats.SceneBlock{Kind: formats.SceneKindMesh, Name: o.Name}
		b.Set(KeyObj, a.Obj)
		if a.Mtl != "" {
			b.Set(KeyMtl, a.Mtl)
		}
		if a.Material != "" {
			b.Set(KeyMaterial, a.Material)
		}
		tr := o.Transform
		setVec3(&b, KeyScale, tr.Scale)
		setVec3(&b, KeyPosition, tr.Position)
		setVec3(&b, KeyRotation, tr.Axis)
		setVec3(&b, KeyAngle, tr.Angle)
		if o.AutoRotate {
			b.Set(KeyIncrementalAngle, "1")
		}
		if a.Animation != "" {
			b.Set(KeyAnimation, a.Animation)
		}
		if a.Follow != "" {
			b.Set(KeyFollow, a.Follow)
		}
		if a.Parent != "" {
			b.Set(KeyParent, a.Parent)
		}
		if o.PathStep != 1 {
			b.Set(KeyStep, strconv.Itoa(o.PathStep))
		}
		blocks = append(blocks, b)
	}

	for _, c := range s.Curves {
		b := formats.SceneBlock{Kind: formats.SceneKindCurve, Name: c.Name}
		if c.Orbit != nil {
			setVec3(&b, KeyOrbit, *c.Orbit)
			b.SetFloats(KeyRadius, c.Radius)
		} else {
			for _, p := range c.ControlPoints {
				b.AddFloats(KeyControlPoint, p.X, p.Y, p.Z)
			}
			if c.Basis != spline.Bezier {
				b.Set(KeyBasis, c.Basis.String())
			}
			if c.Mode != spline.Segmented {
				b.Set(KeyMode, c.Mode.String())
			}
		}
		b.Set(KeyPointsPerSegment, strconv.Itoa(c.PointsPerSegment))
		b.SetFloats(KeyColor, c.Color.R, c.Color.G, c.Color.B, c.Color.A)
		blocks = append(blocks, b)
	}

	for _, t := range s.Tracks {
		b := formats.SceneBlock{Kind: formats.SceneKindTrack, Name: t.Name}
		for _, p := range t.ControlPoints {
			b.AddFloats(KeyControlPoint, p.X, p.Y, p.Z)
		}
		b.SetFloats(KeyWidth, t.Width)
		b.Set(KeyPointsPerSegment, strconv.Itoa(t.PointsPerSegment))
		b.Set(KeyBasis, t.Basis.String())
		blocks = append(blocks, b)
	}
	return blocks
}

func (s *Scene) encodeGlobal() formats.SceneBlock {
	g := s.Global
	b := formats.SceneBlock{Kind: formats.SceneKindGlobal, Name: "Config"}
	setVec3(&b, KeyLightPos, g.LightPos)
	setVec3(&b, KeyLightColor, g.LightColor)
	setVec3(&b, KeyCameraPos, g.CameraPos)
	setVec3(&b, KeyCameraFront, g.CameraFront)
	b.SetFloats(KeyFov, g.Fov)
	b.SetFloats(KeyNearPlane, g.NearPlane)
	b.SetFloats(KeyFarPlane, g.FarPlane)
	b.SetFloats(KeySensitivity, g.Sensitivity)
	b.SetFloats(KeyCameraSpeed, g.CameraSpeed)
	b.SetFloats(KeyFog, g.FogNear, g.FogFar)
	return b
}

func setVec3(b *formats.SceneBlock, key string, v math.Vec3) {
	b.SetFloats(key, v.X, v.Y, v.Z)
}

// Save writes the scene file atomically.
func (s *Scene) Save(path string) error {
	return formats.WriteSceneFile(path, s.Encode())
}

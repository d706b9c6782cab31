package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/internal/engine/object"
	"github.com/Faultbox/trackforge/internal/engine/spline"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// Scene file keys.
const (
	KeyLightPos         = "LightPos"
	KeyLightColor       = "LightColor"
	KeyCameraPos        = "CameraPos"
	KeyCameraFront      = "CameraFront"
	KeyFov              = "Fov"
	KeyNearPlane        = "NearPlane"
	KeyFarPlane         = "FarPlane"
	KeySensitivity      = "Sensitivity"
	KeyCameraSpeed      = "CameraSpeed"
	KeyFog              = "Fog"
	KeyObj              = "Obj"
	KeyMtl              = "Mtl"
	KeyMaterial         = "Material"
	KeyScale            = "Scale"
	KeyPosition         = "Position"
	KeyRotation         = "Rotation"
	KeyAngle            = "Angle"
	KeyIncrementalAngle = "IncrementalAngle"
	KeyAnimation        = "Animation"
	KeyFollow           = "Follow"
	KeyStep             = "Step"
	KeyParent           = "Parent"
	KeyControlPoint     = "ControlPoint"
	KeyPointsPerSegment = "PointsPerSegment"
	KeyBasis            = "Basis"
	KeyMode             = "Mode"
	KeyColor            = "Color"
	KeyOrbit            = "Orbit"
	KeyRadius           = "Radius"
	KeyWidth            = "Width"
)

// DefaultPointsPerSegment is used for curves without a PointsPerSegment
// entry.
const DefaultPointsPerSegment = 100

// Load reads a scene file. Relative asset paths are resolved against the
// scene file's directory.
//
// The returned scene is never nil. If the file cannot be read or parsed
// the scene is empty. Assets that fail to load leave an empty mesh or a
// default material in place; their errors are combined into the returned
// error while the rest of the scene loads normally.
func Load(path string) (*Scene, error) {
	blocks, err := formats.ReadSceneFile(path)
	if err != nil {
		return New(), err
	}
	return Decode(blocks, filepath.Dir(path))
}

// links holds name references resolved once every block is decoded.
type links struct {
	object *object.Object3D
	follow string
	parent string
	line   int
}

// Decode builds a scene from parsed blocks.
func Decode(blocks []formats.SceneBlock, baseDir string) (*Scene, error) {
	s := New()
	var errs error
	var pending []links

	for i := range blocks {
		b := &blocks[i]
		switch b.Kind {
		case formats.SceneKindGlobal:
			g, err := decodeGlobal(b)
			errs = multierr.Append(errs, err)
			s.Global = g
		case formats.SceneKindMesh:
			o, l, err := decodeMesh(b, baseDir)
			errs = multierr.Append(errs, err)
			if o == nil {
				continue
			}
			if err := s.AddObject(o); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			s.SetAsset(o.Name, Asset{
				Obj:       b.String(KeyObj, ""),
				Mtl:       b.String(KeyMtl, ""),
				Material:  b.String(KeyMaterial, ""),
				Animation: b.String(KeyAnimation, ""),
				Follow:    l.follow,
				Parent:    l.parent,
			})
			if l.follow != "" || l.parent != "" {
				pending = append(pending, l)
			}
		case formats.SceneKindCurve:
			c, err := decodeCurve(b)
			errs = multierr.Append(errs, err)
			if c == nil {
				continue
			}
			errs = multierr.Append(errs, s.AddCurve(c))
		case formats.SceneKindTrack:
			t, err := decodeTrack(b)
			errs = multierr.Append(errs, err)
			if err == nil {
				s.Tracks = append(s.Tracks, t)
			}
		default:
			errs = multierr.Append(errs, fmt.Errorf("line %d: unknown block kind %q", b.Line, b.Kind))
		}
	}

	for _, l := range pending {
		if l.parent != "" {
			parent, ok := s.Object(l.parent)
			switch {
			case !ok:
				errs = multierr.Append(errs, fmt.Errorf("line %d: object %q: unknown parent %q", l.line, l.object.Name, l.parent))
			case descends(parent, l.object):
				errs = multierr.Append(errs, fmt.Errorf("line %d: object %q: parent %q forms a cycle", l.line, l.object.Name, l.parent))
			default:
				l.object.Parent = parent
			}
		}
		if l.follow != "" {
			c, ok := s.Curve(l.follow)
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("line %d: object %q: unknown curve %q", l.line, l.object.Name, l.follow))
				continue
			}
			l.object.Path = c.Samples.Closed()
		}
	}
	return s, errs
}

// descends reports whether ancestor is o or one of o's parents.
func descends(o, ancestor *object.Object3D) bool {
	for ; o != nil; o = o.Parent {
		if o == ancestor {
			return true
		}
	}
	return false
}

func decodeGlobal(b *formats.SceneBlock) (Global, error) {
	g := DefaultGlobal()
	var errs error
	vec := func(key string, dst *math.Vec3) {
		v, err := b.Vec3(key, *dst)
		errs = multierr.Append(errs, err)
		*dst = v
	}
	num := func(key string, dst *float32) {
		v, err := b.Float(key, *dst)
		errs = multierr.Append(errs, err)
		*dst = v
	}

	vec(KeyLightPos, &g.LightPos)
	vec(KeyLightColor, &g.LightColor)
	vec(KeyCameraPos, &g.CameraPos)
	vec(KeyCameraFront, &g.CameraFront)
	num(KeyFov, &g.Fov)
	num(KeyNearPlane, &g.NearPlane)
	num(KeyFarPlane, &g.FarPlane)
	num(KeySensitivity, &g.Sensitivity)
	num(KeyCameraSpeed, &g.CameraSpeed)

	fog, err := b.Floats(KeyFog, []float32{g.FogNear, g.FogFar})
	errs = multierr.Append(errs, err)
	g.FogNear, g.FogFar = fog[0], fog[1]

	return g, errs
}

func decodeMesh(b *formats.SceneBlock, baseDir string) (*object.Object3D, links, error) {
	var errs error
	l := links{line: b.Line}

	objPath := b.String(KeyObj, "")
	if objPath == "" {
		return nil, l, fmt.Errorf("line %d: mesh %q: missing %s", b.Line, b.Name, KeyObj)
	}

	mesh, err := model.LoadOBJ(resolve(baseDir, objPath))
	errs = multierr.Append(errs, err)

	material := formats.DefaultMaterial(b.Name)
	if mtlPath := b.String(KeyMtl, ""); mtlPath != "" {
		mats, err := formats.ReadMTLFile(resolve(baseDir, mtlPath))
		errs = multierr.Append(errs, err)
		if m, ok := pickMaterial(mats, b.String(KeyMaterial, "")); ok {
			material = m
		}
	}

	o := object.New(b.Name, mesh, material)
	l.object = o

	tr := &o.Transform
	for _, f := range []struct {
		key string
		dst *math.Vec3
	}{
		{KeyScale, &tr.Scale},
		{KeyPosition, &tr.Position},
		{KeyRotation, &tr.Axis},
		{KeyAngle, &tr.Angle},
	} {
		v, err := b.Vec3(f.key, *f.dst)
		errs = multierr.Append(errs, err)
		*f.dst = v
	}

	spin, err := b.Int(KeyIncrementalAngle, 0)
	errs = multierr.Append(errs, err)
	o.AutoRotate = spin != 0

	step, err := b.Int(KeyStep, 1)
	errs = multierr.Append(errs, err)
	o.PathStep = step

	if anim := b.String(KeyAnimation, ""); anim != "" {
		path, err := formats.ReadPathFile(resolve(baseDir, anim))
		errs = multierr.Append(errs, err)
		o.Path = path
	}
	if len(o.Path) > 0 {
		o.Transform.Position = o.Path[0]
	}

	l.follow = b.String(KeyFollow, "")
	l.parent = b.String(KeyParent, "")

	if errs != nil {
		errs = fmt.Errorf("mesh %q: %w", b.Name, errs)
	}
	return o, l, errs
}

func pickMaterial(mats []formats.Material, name string) (formats.Material, bool) {
	if name != "" {
		return formats.FindMaterial(mats, name)
	}
	if len(mats) == 0 {
		return formats.Material{}, false
	}
	return mats[0], true
}

func decodeCurve(b *formats.SceneBlock) (*Curve, error) {
	var errs error
	c := &Curve{
		Name:  b.Name,
		Basis: spline.Bezier,
		Mode:  spline.Segmented,
		Color: DefaultCurveColor,
	}

	pps, err := b.Int(KeyPointsPerSegment, DefaultPointsPerSegment)
	errs = multierr.Append(errs, err)
	c.PointsPerSegment = pps

	col, err := b.Vec4(KeyColor, [4]float32{c.Color.R, c.Color.G, c.Color.B, c.Color.A})
	errs = multierr.Append(errs, err)
	c.Color = Color{R: col[0], G: col[1], B: col[2], A: col[3]}

	if name := b.String(KeyBasis, ""); name != "" {
		basis, err := spline.ParseBasis(name)
		errs = multierr.Append(errs, err)
		c.Basis = basis
	}
	if name := b.String(KeyMode, ""); name != "" {
		mode, err := spline.ParseMode(name)
		errs = multierr.Append(errs, err)
		if err == nil {
			c.Mode = mode
		}
	}

	if b.Has(KeyOrbit) {
		center, err := b.Vec3(KeyOrbit, math.Vec3{})
		errs = multierr.Append(errs, err)
		radius, err := b.Float(KeyRadius, 1)
		errs = multierr.Append(errs, err)
		c.Orbit = &center
		c.Radius = radius
		c.ControlPoints = spline.CircleControlPoints(center, radius)
		c.Basis = spline.Bezier
		c.Mode = spline.Segmented
	} else {
		pts, err := b.Points(KeyControlPoint)
		errs = multierr.Append(errs, err)
		c.ControlPoints = pts
	}

	if errs != nil {
		return nil, fmt.Errorf("curve %q: %w", b.Name, errs)
	}
	if err := c.Evaluate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeTrack(b *formats.SceneBlock) (Track, error) {
	var errs error
	t := Track{Name: b.Name}

	pts, err := b.Points(KeyControlPoint)
	errs = multierr.Append(errs, err)
	t.ControlPoints = pts

	t.Width, err = b.Float(KeyWidth, 1)
	errs = multierr.Append(errs, err)

	t.PointsPerSegment, err = b.Int(KeyPointsPerSegment, DefaultPointsPerSegment)
	errs = multierr.Append(errs, err)

	t.Basis, err = spline.ParseBasis(b.String(KeyBasis, ""))
	errs = multierr.Append(errs, err)

	if errs != nil {
		return t, fmt.Errorf("track %q: %w", b.Name, errs)
	}
	return t, nil
}

func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, filepath.FromSlash(strings.TrimSpace(p)))
}

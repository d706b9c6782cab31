package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/internal/engine/object"
	"github.com/Faultbox/trackforge/internal/scene"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// ErrEmpty is returned by Export for a result without geometry.
var ErrEmpty = errors.New("nothing to export")

// Object names used in exported scenes.
const (
	TrackObjectName = "Track"
	CarObjectName   = "Car"
	TrackBlockName  = "Main"
)

// TrackColor is the diffuse color of the exported track material.
var TrackColor = math.Vec3{X: 0.35, Y: 0.35, Z: 0.38}

// Exported lists the files written by Export. Unset names were skipped.
type Exported struct {
	TrackOBJ  string
	TrackMTL  string
	PathFile  string
	SceneFile string
}

// Files returns the written paths in write order.
func (e *Exported) Files() []string {
	var out []string
	for _, p := range []string{e.TrackOBJ, e.TrackMTL, e.PathFile, e.SceneFile} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Path resolves an export file name against Dir. Empty and absolute names
// are returned unchanged.
func (o ExportOptions) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || o.Dir == "" {
		return name
	}
	return filepath.Join(o.Dir, name)
}

// Export writes the track mesh, its material, the animation path and a
// scene file referencing them. Each file is replaced atomically.
func (p *Pipeline) Export(res *Result) (*Exported, error) {
	if res == nil || res.IsEmpty() {
		p.log.Warn("skipping export of empty track")
		return nil, ErrEmpty
	}

	eo := p.opts.Export
	out := &Exported{
		TrackOBJ:  eo.Path(eo.TrackOBJ),
		TrackMTL:  eo.Path(eo.TrackMTL),
		PathFile:  eo.Path(eo.PathFile),
		SceneFile: eo.Path(eo.SceneFile),
	}

	mat := formats.DefaultMaterial(p.opts.Track.Material)
	mat.Diffuse = TrackColor
	mat.Ambient = TrackColor.Scale(0.5)
	mat.Specular = math.Vec3{X: 0.1, Y: 0.1, Z: 0.1}
	mat.Shininess = 8

	mtlRef := ""
	if out.TrackMTL != "" {
		mtlRef = relTo(out.TrackOBJ, out.TrackMTL)
		if err := formats.WriteMTLFile(out.TrackMTL, []formats.Material{mat}); err != nil {
			return nil, fmt.Errorf("export material: %w", err)
		}
	}
	if err := res.Track.Mesh.SaveOBJ(out.TrackOBJ, mtlRef); err != nil {
		return nil, fmt.Errorf("export track: %w", err)
	}
	if out.PathFile != "" {
		if err := formats.WritePathFile(out.PathFile, res.Path); err != nil {
			return nil, fmt.Errorf("export path: %w", err)
		}
	}
	if out.SceneFile != "" {
		s := p.buildScene(res, out, mat)
		if err := s.Save(out.SceneFile); err != nil {
			return nil, fmt.Errorf("export scene: %w", err)
		}
	}

	p.log.Info("track exported",
		zap.Strings("files", out.Files()),
		zap.Int("triangles", res.Track.Mesh.TriangleCount()))
	return out, nil
}

// buildScene describes the exported files as a viewer scene.
func (p *Pipeline) buildScene(res *Result, out *Exported, mat formats.Material) *scene.Scene {
	s := scene.New()

	trackObj := object.New(TrackObjectName, res.Track.Mesh, mat)
	// names are unique in a fresh scene
	_ = s.AddObject(trackObj)
	s.SetAsset(TrackObjectName, scene.Asset{
		Obj:      relTo(out.SceneFile, out.TrackOBJ),
		Mtl:      relTo(out.SceneFile, out.TrackMTL),
		Material: mat.Name,
	})

	eo := p.opts.Export
	if eo.CarOBJ != "" && out.PathFile != "" {
		car := object.New(CarObjectName, nil, formats.DefaultMaterial(CarObjectName))
		car.Path = res.Path
		car.PathStep = max(eo.CarStep, 1)
		car.Transform.Position = res.Path[0]
		_ = s.AddObject(car)
		s.SetAsset(CarObjectName, scene.Asset{
			Obj:       relTo(out.SceneFile, eo.CarOBJ),
			Mtl:       relTo(out.SceneFile, eo.CarMTL),
			Animation: relTo(out.SceneFile, out.PathFile),
		})
	}

	s.Tracks = append(s.Tracks, scene.Track{
		Name:             TrackBlockName,
		ControlPoints:    res.ControlPoints,
		Width:            res.Track.Width,
		PointsPerSegment: p.opts.PointsPerSegment,
		Basis:            p.opts.Spline.Basis,
	})

	frameCamera(&s.Global, res.Track.Mesh.Bounds())
	return s
}

// frameCamera places the camera and light above the track looking at its
// center.
func frameCamera(g *scene.Global, b model.Bounds) {
	center := b.Center()
	size := b.Size()
	extent := max(size.X, size.Z, 1)

	g.CameraPos = center.Add(math.Vec3{Y: extent * 0.8, Z: extent})
	g.CameraFront = center.Sub(g.CameraPos).Normalize()
	g.LightPos = center.Add(math.Vec3{Y: extent * 2})
	g.FarPlane = max(g.FarPlane, extent*10)
}

// relTo expresses target relative to the directory of from, so the scene
// loader can resolve it against the scene file's location.
func relTo(from, target string) string {
	if target == "" {
		return ""
	}
	dir, err := filepath.Abs(filepath.Dir(from))
	if err != nil {
		return filepath.ToSlash(target)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

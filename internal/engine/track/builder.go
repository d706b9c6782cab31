package track

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/pkg/math"
)

const (
	verticesPerSegment = 4
	indicesPerSegment  = 6

	// minSegmentLength is the shortest in-plane segment with a usable
	// direction.
	minSegmentLength = 1e-6
)

// Unit-square texture coordinates of a segment quad.
var segmentUVs = [verticesPerSegment]math.Vec2{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}

var (
	ccwOrder = [indicesPerSegment]uint32{0, 1, 2, 0, 2, 3}
	cwOrder  = [indicesPerSegment]uint32{0, 2, 1, 0, 3, 2}
)

// Track is a ribbon mesh together with the parameters it was built from.
type Track struct {
	// Mesh holds the ribbon as a single material group.
	Mesh *model.Mesh

	// Vertices and Indices are the raw buffers Mesh was built from: four
	// vertices per segment, never shared between segments.
	Vertices []model.Vertex
	Indices  []uint32

	Width    float32
	Segments int

	// Degenerate counts segments whose direction was borrowed from a
	// neighbour because they had no length in the plane.
	Degenerate int
}

// IsEmpty reports whether the track has no geometry.
func (t *Track) IsEmpty() bool {
	return len(t.Indices) == 0
}

// Build constructs a ribbon of opts.Width along points.
//
// Segment i runs from P_i to P_i+1, wrapping to P_0 unless opts.Open is
// set. Its left rail offset is normalize(Up × dir)·Width/2 where dir is the
// segment projected onto the plane. The quad's vertices are inner_i
// (P_i + offset), outer_i, outer_i+1 and inner_i+1 with UVs at the unit
// square corners.
//
// Fewer than two points yield an empty track. A non-positive width fails
// with ErrInvalidParameter.
func Build(points []math.Vec3, opts Options) (*Track, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Up.Length() < minSegmentLength {
		opts.Up = math.GroundUp
	}
	opts.Up = opts.Up.Normalize()
	if opts.GroupName == "" {
		opts.GroupName = DefaultGroupName
	}

	t := &Track{Width: opts.Width}
	if len(points) < 2 {
		t.Mesh = &model.Mesh{}
		return t, nil
	}

	segments := len(points)
	if opts.Open {
		segments--
	}

	dirs, degenerate := segmentDirections(points, segments, opts.Up)
	t.Degenerate = degenerate
	if dirs == nil {
		// no segment has a usable direction
		t.Mesh = &model.Mesh{}
		return t, nil
	}

	t.Segments = segments
	t.Vertices = make([]model.Vertex, segments*verticesPerSegment)
	t.Indices = make([]uint32, segments*indicesPerSegment)

	if err := t.emitAll(points, dirs, opts); err != nil {
		return nil, err
	}

	mesh, err := model.FromVertices(t.Vertices, t.Indices, opts.GroupName, opts.Material)
	if err != nil {
		return nil, fmt.Errorf("track mesh: %w", err)
	}
	t.Mesh = mesh
	return t, nil
}

// segmentDirections returns the unit in-plane direction of every segment.
// Segments without length borrow the previous usable direction, or the
// next one at the start. It returns nil if no segment is usable.
func segmentDirections(points []math.Vec3, segments int, up math.Vec3) ([]math.Vec3, int) {
	n := len(points)
	dirs := make([]math.Vec3, segments)
	valid := make([]bool, segments)
	first := -1

	for i := 0; i < segments; i++ {
		d := points[(i+1)%n].Sub(points[i]).ProjectOnPlane(up)
		if d.Length() < minSegmentLength {
			continue
		}
		dirs[i] = d.Normalize()
		valid[i] = true
		if first < 0 {
			first = i
		}
	}
	if first < 0 {
		return nil, segments
	}

	degenerate := 0
	last := dirs[first]
	for i := 0; i < segments; i++ {
		if valid[i] {
			last = dirs[i]
			continue
		}
		dirs[i] = last
		degenerate++
	}
	return dirs, degenerate
}

func (t *Track) emitAll(points []math.Vec3, dirs []math.Vec3, opts Options) error {
	segments := len(dirs)
	workers := opts.Workers
	if workers <= 1 || segments < 2*workers {
		emitRange(t, points, dirs, opts, 0, segments)
		return nil
	}

	// each worker owns a contiguous block of segments and therefore
	// disjoint vertex and index ranges
	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (segments + workers - 1) / workers
	for start := 0; start < segments; start += chunk {
		end := min(start+chunk, segments)
		g.Go(func() error {
			emitRange(t, points, dirs, opts, start, end)
			return nil
		})
	}
	return g.Wait()
}

func emitRange(t *Track, points []math.Vec3, dirs []math.Vec3, opts Options, start, end int) {
	n := len(points)
	order := ccwOrder
	if opts.Winding == Clockwise {
		order = cwOrder
	}
	half := opts.Width / 2

	for i := start; i < end; i++ {
		p0 := points[i]
		p1 := points[(i+1)%n]
		offset := opts.Up.Cross(dirs[i]).Normalize().Scale(half)

		quad := [verticesPerSegment]math.Vec3{
			p0.Add(offset),
			p0.Sub(offset),
			p1.Sub(offset),
			p1.Add(offset),
		}

		normal := opts.Up
		if opts.Normals == NormalFace {
			normal = faceNormal(quad, opts.Up)
		}

		base := i * verticesPerSegment
		for k, pos := range quad {
			t.Vertices[base+k] = model.Vertex{
				Position: pos,
				TexCoord: segmentUVs[k],
				Normal:   normal,
			}
		}
		for k, idx := range order {
			t.Indices[i*indicesPerSegment+k] = uint32(base) + idx
		}
	}
}

// faceNormal returns the normal of the quad's first triangle on the up
// side, or up if the triangle has no area.
func faceNormal(quad [verticesPerSegment]math.Vec3, up math.Vec3) math.Vec3 {
	n := quad[1].Sub(quad[0]).Cross(quad[2].Sub(quad[0]))
	if n.Length() < minSegmentLength {
		return up
	}
	return n.Normalize()
}

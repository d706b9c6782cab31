package model

import (
	"fmt"

	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// FromVertices builds a single-group mesh from interleaved vertices.
// Vertex i becomes position, texture coordinate and normal i. With nil
// indices every three consecutive vertices form a triangle.
func FromVertices(vertices []Vertex, indices []uint32, name, material string) (*Mesh, error) {
	m := &Mesh{
		Positions: make([]math.Vec3, len(vertices)),
		TexCoords: make([]math.Vec2, len(vertices)),
		Normals:   make([]math.Vec3, len(vertices)),
	}
	for i, v := range vertices {
		m.Positions[i] = v.Position
		m.TexCoords[i] = v.TexCoord
		m.Normals[i] = v.Normal
	}

	if indices == nil {
		indices = make([]uint32, len(vertices)-len(vertices)%3)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrPartialTriangle, len(indices))
	}

	group := Group{Name: name, Material: material, Faces: make([]Face, 0, len(indices)/3)}
	for i := 0; i < len(indices); i += 3 {
		var f Face
		for k := 0; k < 3; k++ {
			idx := int(indices[i+k])
			if idx >= len(vertices) {
				return nil, fmt.Errorf("%w: index %d at %d (have %d vertices)", ErrIndexOutOfRange, idx, i+k, len(vertices))
			}
			f.Refs[k] = Ref{Position: idx, TexCoord: idx, Normal: idx}
		}
		group.Faces = append(group.Faces, f)
	}
	if len(group.Faces) > 0 {
		m.Groups = []Group{group}
	}
	return m, nil
}

// FromOBJ builds a mesh from parsed OBJ data, keeping its groups and face
// references as they are.
func FromOBJ(obj *formats.OBJ) *Mesh {
	m := &Mesh{
		Positions: append([]math.Vec3(nil), obj.Positions...),
		TexCoords: append([]math.Vec2(nil), obj.TexCoords...),
		Normals:   append([]math.Vec3(nil), obj.Normals...),
		Groups:    make([]Group, len(obj.Groups)),
	}
	for gi, g := range obj.Groups {
		faces := make([]Face, len(g.Faces))
		for fi, f := range g.Faces {
			for k, r := range f.Refs {
				faces[fi].Refs[k] = Ref{Position: r.V, TexCoord: r.T, Normal: r.N}
			}
		}
		m.Groups[gi] = Group{Name: g.Name, Material: g.Material, Faces: faces}
	}
	return m
}

// ToOBJ converts the mesh into OBJ data referencing mtllib.
func (m *Mesh) ToOBJ(mtllib string) *formats.OBJ {
	obj := &formats.OBJ{
		MaterialLib: mtllib,
		Positions:   append([]math.Vec3(nil), m.Positions...),
		TexCoords:   append([]math.Vec2(nil), m.TexCoords...),
		Normals:     append([]math.Vec3(nil), m.Normals...),
		Groups:      make([]formats.OBJGroup, len(m.Groups)),
	}
	for gi, g := range m.Groups {
		faces := make([]formats.OBJFace, len(g.Faces))
		for fi, f := range g.Faces {
			for k, r := range f.Refs {
				faces[fi].Refs[k] = formats.OBJRef{V: r.Position, T: r.TexCoord, N: r.Normal}
			}
		}
		obj.Groups[gi] = formats.OBJGroup{Name: g.Name, Material: g.Material, Faces: faces}
	}
	return obj
}

// Validate checks that every face reference resolves into the mesh.
func (m *Mesh) Validate() error {
	for _, g := range m.Groups {
		for fi, f := range g.Faces {
			for _, r := range f.Refs {
				if r.Position < 0 || r.Position >= len(m.Positions) ||
					(r.TexCoord != NoIndex && (r.TexCoord < 0 || r.TexCoord >= len(m.TexCoords))) ||
					(r.Normal != NoIndex && (r.Normal < 0 || r.Normal >= len(m.Normals))) {
					return fmt.Errorf("%w: group %q face %d: %+v", ErrIndexOutOfRange, g.Name, fi, r)
				}
			}
		}
	}
	return nil
}

// IsEmpty reports whether the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// TriangleCount returns the number of faces in all groups.
func (m *Mesh) TriangleCount() int {
	n := 0
	for i := range m.Groups {
		n += len(m.Groups[i].Faces)
	}
	return n
}

// Vertex resolves a face corner. Absent texture coordinates and normals
// resolve to zero vectors.
func (m *Mesh) Vertex(r Ref) Vertex {
	v := Vertex{Position: m.Positions[r.Position]}
	if r.TexCoord != NoIndex {
		v.TexCoord = m.TexCoords[r.TexCoord]
	}
	if r.Normal != NoIndex {
		v.Normal = m.Normals[r.Normal]
	}
	return v
}

// Interleave produces render-ready buffers. Corners that share the same
// position, texture coordinate and normal indices share one vertex; faces
// are ordered by group and each group becomes one DrawGroup.
func (m *Mesh) Interleave() *RenderData {
	rd := &RenderData{}
	seen := make(map[Ref]uint32)

	for _, g := range m.Groups {
		if len(g.Faces) == 0 {
			continue
		}
		start := int32(len(rd.Indices))
		for _, f := range g.Faces {
			for _, r := range f.Refs {
				idx, ok := seen[r]
				if !ok {
					idx = uint32(len(rd.Vertices))
					seen[r] = idx
					rd.Vertices = append(rd.Vertices, m.Vertex(r))
				}
				rd.Indices = append(rd.Indices, idx)
			}
		}
		rd.Groups = append(rd.Groups, DrawGroup{
			Material:   g.Material,
			StartIndex: start,
			IndexCount: int32(len(rd.Indices)) - start,
		})
	}
	return rd
}

// Bounds returns the bounding box of all positions. An empty mesh has
// zero bounds.
func (m *Mesh) Bounds() Bounds {
	return BoundsOf(m.Positions)
}

// BoundsOf returns the bounding box of points, or zero bounds for none.
func BoundsOf(points []math.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		updateBounds(&b, p)
	}
	return b
}

func updateBounds(b *Bounds, p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

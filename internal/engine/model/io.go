package model

import (
	"github.com/Faultbox/trackforge/pkg/formats"
)

// LoadOBJ reads an OBJ file into a mesh. On failure the returned mesh is
// empty but never nil, so callers can keep rendering nothing.
func LoadOBJ(path string) (*Mesh, error) {
	obj, err := formats.ReadOBJFile(path)
	if err != nil {
		return &Mesh{}, err
	}
	return FromOBJ(obj), nil
}

// SaveOBJ writes the mesh to path atomically, referencing mtllib if set.
func (m *Mesh) SaveOBJ(path, mtllib string) error {
	return formats.WriteOBJFile(path, m.ToOBJ(mtllib))
}

// Package model holds the renderer-independent mesh representation shared by
// the OBJ reader/writer, the track builder and the GPU upload code.
package model

import (
	"errors"

	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// NoIndex marks a face corner without a texture coordinate or normal.
const NoIndex = formats.NoIndex

// Mesh construction and validation errors.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrPartialTriangle = errors.New("index count is not a multiple of 3")
)

// Vertex is an interleaved, render-ready vertex.
type Vertex struct {
	Position math.Vec3
	TexCoord math.Vec2
	Normal   math.Vec3
}

// Ref addresses one face corner in the owning mesh's arrays.
type Ref struct {
	Position int
	TexCoord int // NoIndex when absent
	Normal   int // NoIndex when absent
}

// Face is a triangle.
type Face struct {
	Refs [3]Ref
}

// Group is a run of faces drawn with one material.
type Group struct {
	Name     string
	Material string
	Faces    []Face
}

// Mesh owns parallel position, texture coordinate and normal arrays plus
// the faces that index them. Every Ref resolves into this mesh's arrays.
// Meshes are rebuilt rather than edited in place.
type Mesh struct {
	Positions []math.Vec3
	TexCoords []math.Vec2
	Normals   []math.Vec3
	Groups    []Group
}

// DrawGroup is a contiguous index range sharing one material.
type DrawGroup struct {
	Material   string
	StartIndex int32
	IndexCount int32
}

// RenderData holds interleaved buffers ready for GPU upload.
type RenderData struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []DrawGroup
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extent along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

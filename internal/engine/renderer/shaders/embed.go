// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader for lit meshes.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader shades meshes with Phong lighting and linear fog.
//
//go:embed mesh.frag
var MeshFragmentShader string

// LineVertexShader is the vertex shader for curves, points and guides.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader draws lines in a flat color.
//
//go:embed line.frag
var LineFragmentShader string

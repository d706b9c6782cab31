package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/trackforge/internal/engine/model"
)

// GPUMesh is a mesh uploaded as one interleaved vertex buffer and one index
// buffer, drawn group by group.
type GPUMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	groups        []model.DrawGroup
}

// UploadMesh interleaves m and uploads it. An empty mesh yields a GPUMesh
// that draws nothing.
func UploadMesh(m *model.Mesh) *GPUMesh {
	gm := &GPUMesh{}
	if m == nil || m.IsEmpty() {
		return gm
	}
	data := m.Interleave()
	if len(data.Indices) == 0 {
		return gm
	}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*vertexSize, unsafe.Pointer(&data.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(model.Vertex{}.Position))
	gl.EnableVertexAttribArray(0)
	// TexCoord
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(model.Vertex{}.TexCoord))
	gl.EnableVertexAttribArray(1)
	// Normal
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(model.Vertex{}.Normal))
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, unsafe.Pointer(&data.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	gm.indexCount = int32(len(data.Indices))
	gm.groups = data.Groups
	return gm
}

// IndexCount returns the number of indices uploaded.
func (gm *GPUMesh) IndexCount() int32 {
	return gm.indexCount
}

// Delete releases the GPU buffers.
func (gm *GPUMesh) Delete() {
	if gm.vao != 0 {
		gl.DeleteVertexArrays(1, &gm.vao)
	}
	if gm.vbo != 0 {
		gl.DeleteBuffers(1, &gm.vbo)
	}
	if gm.ebo != 0 {
		gl.DeleteBuffers(1, &gm.ebo)
	}
	*gm = GPUMesh{}
}

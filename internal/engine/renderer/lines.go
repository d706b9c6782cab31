package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/trackforge/pkg/math"
)

// Primitive selects how a Lines buffer is drawn.
type Primitive int

const (
	LineStrip Primitive = iota
	LineLoop
	LineList
	Points
)

func (p Primitive) glMode() uint32 {
	switch p {
	case LineLoop:
		return gl.LINE_LOOP
	case LineList:
		return gl.LINES
	case Points:
		return gl.POINTS
	default:
		return gl.LINE_STRIP
	}
}

// Lines is a position-only vertex buffer that can be refilled each time the
// editor's point set changes.
type Lines struct {
	vao, vbo uint32
	count    int32
	capacity int
}

// NewLines creates a buffer holding points.
func NewLines(points []math.Vec3) *Lines {
	l := &Lines{}
	gl.GenVertexArrays(1, &l.vao)
	gl.GenBuffers(1, &l.vbo)

	gl.BindVertexArray(l.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(unsafe.Sizeof(math.Vec3{})), 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	l.Update(points)
	return l
}

// Update replaces the buffer contents, growing the GPU allocation when needed.
func (l *Lines) Update(points []math.Vec3) {
	l.count = int32(len(points))
	if len(points) == 0 {
		return
	}
	size := len(points) * int(unsafe.Sizeof(math.Vec3{}))

	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	if len(points) > l.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&points[0]), gl.DYNAMIC_DRAW)
		l.capacity = len(points)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&points[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Len returns the number of points in the buffer.
func (l *Lines) Len() int {
	return int(l.count)
}

// Delete releases the GPU buffers.
func (l *Lines) Delete() {
	if l.vao != 0 {
		gl.DeleteVertexArrays(1, &l.vao)
	}
	if l.vbo != 0 {
		gl.DeleteBuffers(1, &l.vbo)
	}
	*l = Lines{}
}

// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/pkg/math"
)

// BoxLineVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const BoxLineVertexCount = 24

// DefaultBoxPadding is the default padding for selection boxes.
const DefaultBoxPadding = 0.1

// BoxLines returns line-list endpoints outlining b grown by padding on
// every side.
func BoxLines(b model.Bounds, padding float32) []math.Vec3 {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	lo, hi := b.Min.Sub(pad), b.Max.Add(pad)

	corner := func(x, y, z bool) math.Vec3 {
		p := lo
		if x {
			p.X = hi.X
		}
		if y {
			p.Y = hi.Y
		}
		if z {
			p.Z = hi.Z
		}
		return p
	}

	lines := make([]math.Vec3, 0, BoxLineVertexCount)
	for _, y := range []bool{false, true} {
		// Bottom then top ring
		lines = append(lines,
			corner(false, y, false), corner(true, y, false),
			corner(true, y, false), corner(true, y, true),
			corner(true, y, true), corner(false, y, true),
			corner(false, y, true), corner(false, y, false),
		)
	}
	// Vertical edges
	for _, c := range [][2]bool{{false, false}, {true, false}, {true, true}, {false, true}} {
		lines = append(lines, corner(c[0], false, c[1]), corner(c[0], true, c[1]))
	}
	return lines
}

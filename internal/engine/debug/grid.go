package debug

import (
	gomath "math"

	"github.com/Faultbox/trackforge/pkg/math"
)

// GridLines returns line-list endpoints for a square grid on the Z = 0
// editor plane covering center ± halfExtent. Lines sit on multiples of
// spacing, so panning does not make the grid swim. A non-positive spacing
// yields no lines.
func GridLines(center math.Vec2, halfExtent, spacing float32) []math.Vec3 {
	if spacing <= 0 || halfExtent <= 0 {
		return nil
	}

	minX := float32(gomath.Floor(float64((center.X-halfExtent)/spacing))) * spacing
	maxX := float32(gomath.Ceil(float64((center.X+halfExtent)/spacing))) * spacing
	minY := float32(gomath.Floor(float64((center.Y-halfExtent)/spacing))) * spacing
	maxY := float32(gomath.Ceil(float64((center.Y+halfExtent)/spacing))) * spacing

	nx := int((maxX-minX)/spacing+0.5) + 1
	ny := int((maxY-minY)/spacing+0.5) + 1
	lines := make([]math.Vec3, 0, 2*(nx+ny))

	// Vertical lines
	for i := range nx {
		x := minX + float32(i)*spacing
		lines = append(lines, math.Vec3{X: x, Y: minY}, math.Vec3{X: x, Y: maxY})
	}
	// Horizontal lines
	for i := range ny {
		y := minY + float32(i)*spacing
		lines = append(lines, math.Vec3{X: minX, Y: y}, math.Vec3{X: maxX, Y: y})
	}
	return lines
}

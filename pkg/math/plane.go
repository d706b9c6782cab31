package math

// Up vectors of the two planes the tool works in.
var (
	// EditorUp is the normal of the 2D editor plane (XY).
	EditorUp = Vec3{0, 0, 1}
	// GroundUp is the normal of the 3D ground plane (XZ).
	GroundUp = Vec3{0, 1, 0}
)

// EditorToGround maps a point from the editor plane (X right, Y up on
// screen, Z toward the viewer) to the ground plane (X right, Y up, Z depth)
// by exchanging the Y and Z axes.
//
// The mapping is its own inverse, so it must be applied exactly once at the
// export boundary. Callers hold points in one of the two spaces, never both.
func EditorToGround(p Vec3) Vec3 {
	return Vec3{p.X, p.Z, p.Y}
}

// EditorToGroundAll maps every point and returns a new slice.
func EditorToGroundAll(points []Vec3) []Vec3 {
	out := make([]Vec3, len(points))
	for i, p := range points {
		out[i] = EditorToGround(p)
	}
	return out
}

// Package track builds ribbon meshes along a sampled center line.
package track

import (
	"errors"
	"fmt"

	"github.com/Faultbox/trackforge/pkg/math"
)

// ErrInvalidParameter is returned for a non-positive width or an unknown
// option value.
var ErrInvalidParameter = errors.New("invalid parameter")

// Default group and material names of generated track meshes.
const (
	DefaultGroupName = "track"
	DefaultMaterial  = "asphalt"
)

// NormalMode selects how vertex normals are produced.
type NormalMode int

const (
	// NormalFlat assigns the plane's up vector to every vertex.
	NormalFlat NormalMode = iota
	// NormalFace computes one normal per quad from its edges, falling back
	// to the up vector when the quad has no area.
	NormalFace
)

func (n NormalMode) String() string {
	switch n {
	case NormalFlat:
		return "flat"
	case NormalFace:
		return "face"
	}
	return fmt.Sprintf("NormalMode(%d)", int(n))
}

// ParseNormalMode converts a config value.
func ParseNormalMode(s string) (NormalMode, error) {
	switch s {
	case "flat", "":
		return NormalFlat, nil
	case "face":
		return NormalFace, nil
	}
	return 0, fmt.Errorf("%w: unknown normal mode %q", ErrInvalidParameter, s)
}

// Winding is the triangle vertex order seen from the up side.
type Winding int

const (
	CounterClockwise Winding = iota
	Clockwise
)

func (w Winding) String() string {
	switch w {
	case CounterClockwise:
		return "ccw"
	case Clockwise:
		return "cw"
	}
	return fmt.Sprintf("Winding(%d)", int(w))
}

// ParseWinding converts a config value.
func ParseWinding(s string) (Winding, error) {
	switch s {
	case "ccw", "":
		return CounterClockwise, nil
	case "cw":
		return Clockwise, nil
	}
	return 0, fmt.Errorf("%w: unknown winding %q", ErrInvalidParameter, s)
}

// Options configure Build.
type Options struct {
	Width float32

	// Up is the normal of the plane the ribbon lies in. Zero means
	// math.GroundUp.
	Up math.Vec3

	Normals NormalMode
	Winding Winding

	// Open treats the points as an open polyline instead of a loop.
	Open bool

	// Workers > 1 emits segments concurrently.
	Workers int

	GroupName string
	Material  string
}

// DefaultOptions returns options for a flat counter-clockwise loop in the
// ground plane.
func DefaultOptions(width float32) Options {
	return Options{
		Width:     width,
		Up:        math.GroundUp,
		GroupName: DefaultGroupName,
		Material:  DefaultMaterial,
	}
}

func (o Options) validate() error {
	if !(o.Width > 0) {
		return fmt.Errorf("%w: width %v", ErrInvalidParameter, o.Width)
	}
	if o.Normals != NormalFlat && o.Normals != NormalFace {
		return fmt.Errorf("%w: normals %v", ErrInvalidParameter, o.Normals)
	}
	if o.Winding != CounterClockwise && o.Winding != Clockwise {
		return fmt.Errorf("%w: winding %v", ErrInvalidParameter, o.Winding)
	}
	return nil
}

package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/trackforge/pkg/math"
)

// Material is one newmtl entry of an MTL library.
type Material struct {
	Name       string
	Ambient    math.Vec3 // Ka
	Diffuse    math.Vec3 // Kd
	Specular   math.Vec3 // Ks
	Shininess  float32   // Ns
	DiffuseMap string    // map_Kd, relative to the MTL file
}

// DefaultMaterial returns a light grey material with a soft highlight.
func DefaultMaterial(name string) Material {
	return Material{
		Name:      name,
		Ambient:   math.Vec3{X: 0.2, Y: 0.2, Z: 0.2},
		Diffuse:   math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		Specular:  math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		Shininess: 32,
	}
}

// ReadMTLFile parses the MTL file at path.
func ReadMTLFile(path string) ([]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()
	return ParseMTL(f)
}

// ParseMTL parses an MTL library. Properties seen before the first newmtl
// are applied to an unnamed material. Unknown tags are ignored.
func ParseMTL(r io.Reader) ([]Material, error) {
	var mats []Material
	var cur *Material

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		tag, args := fields[0], fields[1:]

		if tag == "newmtl" {
			if len(args) != 1 {
				return nil, &ParseError{Line: lineNo, Tag: tag, Err: fmt.Errorf("%w: want material name", ErrArity)}
			}
			mats = append(mats, Material{Name: args[0]})
			cur = &mats[len(mats)-1]
			continue
		}

		if cur == nil {
			switch tag {
			case "Ka", "Kd", "Ks", "Ns", "map_Kd":
				mats = append(mats, Material{})
				cur = &mats[len(mats)-1]
			default:
				continue
			}
		}

		var err error
		switch tag {
		case "Ka":
			cur.Ambient, err = parseColor(args)
		case "Kd":
			cur.Diffuse, err = parseColor(args)
		case "Ks":
			cur.Specular, err = parseColor(args)
		case "Ns":
			var vals []float32
			if vals, err = parseFloats(args, 1, 1); err == nil {
				cur.Shininess = vals[0]
			}
		case "map_Kd":
			if len(args) == 0 {
				err = fmt.Errorf("%w: want texture path", ErrArity)
			} else {
				// options such as -s precede the file name
				cur.DiffuseMap = args[len(args)-1]
			}
		}
		if err != nil {
			return nil, &ParseError{Line: lineNo, Tag: tag, Err: err}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return mats, nil
}

func parseColor(args []string) (math.Vec3, error) {
	vals, err := parseFloats(args, 3, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// FindMaterial returns the material with the given name.
func FindMaterial(mats []Material, name string) (Material, bool) {
	for _, m := range mats {
		if m.Name == name {
			return m, true
		}
	}
	return Material{}, false
}

// WriteMTLFile writes mats to path atomically.
func WriteMTLFile(path string, mats []Material) error {
	return writeFileAtomic(path, func(f *os.File) error {
		return WriteMTL(f, mats)
	})
}

// WriteMTL serializes mats in newmtl blocks.
func WriteMTL(w io.Writer, mats []Material) error {
	bw := bufio.NewWriter(w)
	for i, m := range mats {
		if i > 0 {
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "newmtl %s\n", m.Name)
		fmt.Fprintf(bw, "Ka %s\n", formatFloats(m.Ambient.X, m.Ambient.Y, m.Ambient.Z))
		fmt.Fprintf(bw, "Kd %s\n", formatFloats(m.Diffuse.X, m.Diffuse.Y, m.Diffuse.Z))
		fmt.Fprintf(bw, "Ks %s\n", formatFloats(m.Specular.X, m.Specular.Y, m.Specular.Z))
		fmt.Fprintf(bw, "Ns %s\n", formatFloat(m.Shininess))
		if m.DiffuseMap != "" {
			fmt.Fprintf(bw, "map_Kd %s\n", m.DiffuseMap)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

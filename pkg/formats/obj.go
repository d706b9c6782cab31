package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/trackforge/pkg/math"
)

// NoIndex marks a vertex reference without a texture coordinate or normal.
const NoIndex = -1

// DefaultGroupName names the group that collects faces before any usemtl.
const DefaultGroupName = "default"

// OBJRef is one corner of a face: 0-based indices into the position,
// texture coordinate and normal lists. T and N may be NoIndex.
type OBJRef struct {
	V, T, N int
}

// OBJFace is a triangle. Polygons are fan-split while parsing.
type OBJFace struct {
	Refs [3]OBJRef
}

// OBJGroup is a run of faces sharing one material.
type OBJGroup struct {
	Name     string
	Material string
	Faces    []OBJFace
}

// OBJ is a parsed Wavefront OBJ file.
type OBJ struct {
	MaterialLib string
	Positions   []math.Vec3
	TexCoords   []math.Vec2
	Normals     []math.Vec3
	Groups      []OBJGroup
}

// TriangleCount returns the number of faces across all groups.
func (o *OBJ) TriangleCount() int {
	n := 0
	for i := range o.Groups {
		n += len(o.Groups[i].Faces)
	}
	return n
}

// ReadOBJFile parses the OBJ file at path. If the file cannot be opened the
// returned OBJ is empty and the error wraps ErrRead.
func ReadOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return &OBJ{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// ParseOBJ parses OBJ text.
//
// Recognized tags are v, vt, vn, f, usemtl and mtllib; everything else is
// skipped. Face references may take the forms v, v/t, v//n and v/t/n with
// 1-based or negative (relative to the end) indices. A missing texture or
// normal component becomes NoIndex. Faces with more than three references
// are split as a triangle fan around the first reference.
//
// Malformed lines fail with a *ParseError. If reading the stream fails the
// returned OBJ is empty and the error wraps ErrRead.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	groups := []OBJGroup{{Name: DefaultGroupName}}
	current := &groups[0]

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		tag, args := fields[0], fields[1:]

		var err error
		switch tag {
		case "v":
			var vals []float32
			// optional w component is accepted and dropped
			if vals, err = parseFloats(args, 3, 4); err == nil {
				obj.Positions = append(obj.Positions, math.Vec3{X: vals[0], Y: vals[1], Z: vals[2]})
			}
		case "vt":
			var vals []float32
			if vals, err = parseFloats(args, 2, 3); err == nil {
				obj.TexCoords = append(obj.TexCoords, math.Vec2{X: vals[0], Y: vals[1]})
			}
		case "vn":
			var vals []float32
			if vals, err = parseFloats(args, 3, 3); err == nil {
				obj.Normals = append(obj.Normals, math.Vec3{X: vals[0], Y: vals[1], Z: vals[2]})
			}
		case "usemtl":
			if len(args) != 1 {
				err = fmt.Errorf("%w: want material name", ErrArity)
				break
			}
			groups = append(groups, OBJGroup{Name: args[0], Material: args[0]})
			current = &groups[len(groups)-1]
		case "mtllib":
			if len(args) > 0 {
				obj.MaterialLib = args[0]
			}
		case "f":
			var faces []OBJFace
			if faces, err = obj.parseFace(args); err == nil {
				current.Faces = append(current.Faces, faces...)
			}
		}

		if err != nil {
			return nil, &ParseError{Line: lineNo, Tag: tag, Err: err}
		}
	}

	if err := scanner.Err(); err != nil {
		return &OBJ{}, fmt.Errorf("%w: %w", ErrRead, err)
	}

	for _, g := range groups {
		if len(g.Faces) > 0 {
			obj.Groups = append(obj.Groups, g)
		}
	}
	return obj, nil
}

// parseFace resolves the references of one f line and fan-splits them.
func (o *OBJ) parseFace(tokens []string) ([]OBJFace, error) {
	if len(tokens) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrFaceTooSmall, len(tokens))
	}

	refs := make([]OBJRef, len(tokens))
	for i, tok := range tokens {
		ref, err := o.parseRef(tok)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}

	faces := make([]OBJFace, 0, len(refs)-2)
	for i := 1; i+1 < len(refs); i++ {
		faces = append(faces, OBJFace{Refs: [3]OBJRef{refs[0], refs[i], refs[i+1]}})
	}
	return faces, nil
}

// parseRef parses a single v, v/t, v//n or v/t/n token.
func (o *OBJ) parseRef(tok string) (OBJRef, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 || parts[0] == "" {
		return OBJRef{}, fmt.Errorf("%w: malformed reference %q", ErrIndex, tok)
	}

	ref := OBJRef{T: NoIndex, N: NoIndex}
	var err error
	if ref.V, err = resolveIndex(parts[0], len(o.Positions)); err != nil {
		return OBJRef{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if ref.T, err = resolveIndex(parts[1], len(o.TexCoords)); err != nil {
			return OBJRef{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ref.N, err = resolveIndex(parts[2], len(o.Normals)); err != nil {
			return OBJRef{}, err
		}
	}
	return ref, nil
}

// resolveIndex converts a 1-based or negative OBJ index into a 0-based one
// checked against the number of entries defined so far.
func resolveIndex(tok string, count int) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumber, tok)
	}

	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = count + n
	default:
		return 0, fmt.Errorf("%w: indices start at 1", ErrIndex)
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %d out of range (have %d)", ErrIndex, n, count)
	}
	return idx, nil
}

// WriteOBJFile writes obj to path atomically.
func WriteOBJFile(path string, obj *OBJ) error {
	return writeFileAtomic(path, func(f *os.File) error {
		return WriteOBJ(f, obj)
	})
}

// WriteOBJ serializes obj: mtllib, all positions, all texture coordinates,
// all normals, then each group's usemtl line (omitted when the material is
// empty) and faces. Face indices are written from the references the faces
// carry; a reference outside the lists fails before anything is written.
// Faces without a material must come before every group that has one,
// otherwise ErrGroupOrder is returned.
func WriteOBJ(w io.Writer, obj *OBJ) error {
	if err := obj.checkRefs(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	if obj.MaterialLib != "" {
		fmt.Fprintf(bw, "mtllib %s\n", obj.MaterialLib)
	}
	for _, p := range obj.Positions {
		fmt.Fprintf(bw, "v %s\n", formatFloats(p.X, p.Y, p.Z))
	}
	for _, uv := range obj.TexCoords {
		fmt.Fprintf(bw, "vt %s\n", formatFloats(uv.X, uv.Y))
	}
	for _, n := range obj.Normals {
		fmt.Fprintf(bw, "vn %s\n", formatFloats(n.X, n.Y, n.Z))
	}

	for _, g := range obj.Groups {
		if g.Material != "" {
			fmt.Fprintf(bw, "usemtl %s\n", g.Material)
		}
		for _, face := range g.Faces {
			bw.WriteString("f")
			for _, ref := range face.Refs {
				bw.WriteByte(' ')
				bw.WriteString(formatRef(ref))
			}
			bw.WriteByte('\n')
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func formatRef(ref OBJRef) string {
	v := strconv.Itoa(ref.V + 1)
	switch {
	case ref.T == NoIndex && ref.N == NoIndex:
		return v
	case ref.N == NoIndex:
		return v + "/" + strconv.Itoa(ref.T+1)
	case ref.T == NoIndex:
		return v + "//" + strconv.Itoa(ref.N+1)
	default:
		return v + "/" + strconv.Itoa(ref.T+1) + "/" + strconv.Itoa(ref.N+1)
	}
}

// checkRefs verifies every face reference resolves into obj's own lists and
// that the groups can be read back in the order they are written.
func (o *OBJ) checkRefs() error {
	material := ""
	for gi, g := range o.Groups {
		if len(g.Faces) > 0 {
			if g.Material == "" && material != "" {
				return fmt.Errorf("%w: group %d (%s) follows material %q: %w", ErrWrite, gi, g.Name, material, ErrGroupOrder)
			}
			if g.Material != "" {
				material = g.Material
			}
		}
		for fi, face := range g.Faces {
			for _, ref := range face.Refs {
				if ref.V < 0 || ref.V >= len(o.Positions) ||
					(ref.T != NoIndex && (ref.T < 0 || ref.T >= len(o.TexCoords))) ||
					(ref.N != NoIndex && (ref.N < 0 || ref.N >= len(o.Normals))) {
					return fmt.Errorf("%w: group %d face %d: %w: %+v", ErrWrite, gi, fi, ErrIndex, ref)
				}
			}
		}
	}
	return nil
}

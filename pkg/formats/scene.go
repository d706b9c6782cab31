package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/trackforge/pkg/math"
)

// Scene file errors.
var (
	ErrNestedBlock       = errors.New("nested Type block")
	ErrUnterminatedBlock = errors.New("block not closed with End")
	ErrStrayEnd          = errors.New("unexpected End")
)

// Scene block kinds.
const (
	SceneKindGlobal = "GlobalConfig"
	SceneKindMesh   = "Mesh"
	SceneKindCurve  = "BezierCurve"
	SceneKindTrack  = "Track"
)

// SceneEntry is one "Key value..." line inside a block.
type SceneEntry struct {
	Key    string
	Values []string
	Line   int
}

// SceneBlock is a "Type <Kind> <Name>" ... "End" section.
type SceneBlock struct {
	Kind    string
	Name    string
	Line    int
	Entries []SceneEntry
}

// Get returns the last entry with the given key.
func (b *SceneBlock) Get(key string) (SceneEntry, bool) {
	for i := len(b.Entries) - 1; i >= 0; i-- {
		if b.Entries[i].Key == key {
			return b.Entries[i], true
		}
	}
	return SceneEntry{}, false
}

// GetAll returns every entry with the given key in file order.
func (b *SceneBlock) GetAll(key string) []SceneEntry {
	var out []SceneEntry
	for _, e := range b.Entries {
		if e.Key == key {
			out = append(out, e)
		}
	}
	return out
}

// Has reports whether the block contains key.
func (b *SceneBlock) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// String returns the first value of key, or def when absent.
func (b *SceneBlock) String(key, def string) string {
	e, ok := b.Get(key)
	if !ok || len(e.Values) == 0 {
		return def
	}
	return e.Values[0]
}

// Float returns key as a float, or def when absent.
func (b *SceneBlock) Float(key string, def float32) (float32, error) {
	vals, ok, err := b.floats(key, 1)
	if err != nil || !ok {
		return def, err
	}
	return vals[0], nil
}

// Int returns key as an integer, or def when absent.
func (b *SceneBlock) Int(key string, def int) (int, error) {
	e, ok := b.Get(key)
	if !ok {
		return def, nil
	}
	if len(e.Values) != 1 {
		return def, &ParseError{Line: e.Line, Tag: key, Err: fmt.Errorf("%w: want 1, got %d", ErrArity, len(e.Values))}
	}
	n, err := strconv.Atoi(e.Values[0])
	if err != nil {
		return def, &ParseError{Line: e.Line, Tag: key, Err: fmt.Errorf("%w: %q", ErrNumber, e.Values[0])}
	}
	return n, nil
}

// Vec3 returns key as a vector, or def when absent.
func (b *SceneBlock) Vec3(key string, def math.Vec3) (math.Vec3, error) {
	vals, ok, err := b.floats(key, 3)
	if err != nil || !ok {
		return def, err
	}
	return math.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// Vec4 returns key as four floats (colors), or def when absent.
func (b *SceneBlock) Vec4(key string, def [4]float32) ([4]float32, error) {
	vals, ok, err := b.floats(key, 4)
	if err != nil || !ok {
		return def, err
	}
	return [4]float32{vals[0], vals[1], vals[2], vals[3]}, nil
}

// Points returns every occurrence of key as a point, in order.
func (b *SceneBlock) Points(key string) ([]math.Vec3, error) {
	var out []math.Vec3
	for _, e := range b.GetAll(key) {
		vals, err := parseFloats(e.Values, 3, 3)
		if err != nil {
			return nil, &ParseError{Line: e.Line, Tag: key, Err: err}
		}
		out = append(out, math.Vec3{X: vals[0], Y: vals[1], Z: vals[2]})
	}
	return out, nil
}

// Floats returns key as len(def) floats, or def when absent.
func (b *SceneBlock) Floats(key string, def []float32) ([]float32, error) {
	vals, ok, err := b.floats(key, len(def))
	if err != nil || !ok {
		return def, err
	}
	return vals, nil
}

func (b *SceneBlock) floats(key string, n int) ([]float32, bool, error) {
	e, ok := b.Get(key)
	if !ok {
		return nil, false, nil
	}
	vals, err := parseFloats(e.Values, n, n)
	if err != nil {
		return nil, true, &ParseError{Line: e.Line, Tag: key, Err: err}
	}
	return vals, true, nil
}

// Set replaces every entry for key with a single entry.
func (b *SceneBlock) Set(key string, values ...string) {
	kept := b.Entries[:0]
	for _, e := range b.Entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	b.Entries = append(kept, SceneEntry{Key: key, Values: values})
}

// Add appends an entry, keeping earlier ones with the same key.
func (b *SceneBlock) Add(key string, values ...string) {
	b.Entries = append(b.Entries, SceneEntry{Key: key, Values: values})
}

// SetFloats is Set for numeric values.
func (b *SceneBlock) SetFloats(key string, fs ...float32) {
	b.Set(key, strings.Fields(formatFloats(fs...))...)
}

// AddFloats is Add for numeric values.
func (b *SceneBlock) AddFloats(key string, fs ...float32) {
	b.Add(key, strings.Fields(formatFloats(fs...))...)
}

// ReadSceneFile parses the scene description at path.
func ReadSceneFile(path string) ([]SceneBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()
	return ParseScene(f)
}

// ParseScene reads a scene description: blocks opened by
// "Type <Kind> <Name>" and closed by "End", holding "Key value..." lines.
// Lines outside blocks, blank lines and # comments are ignored. Values are
// kept as strings; the typed getters on SceneBlock convert them.
func ParseScene(r io.Reader) ([]SceneBlock, error) {
	var blocks []SceneBlock
	var cur *SceneBlock

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		key, values := fields[0], fields[1:]

		switch key {
		case "Type":
			if cur != nil {
				return nil, &ParseError{Line: lineNo, Tag: key, Err: ErrNestedBlock}
			}
			if len(values) < 1 || len(values) > 2 {
				return nil, &ParseError{Line: lineNo, Tag: key, Err: fmt.Errorf("%w: want kind and name", ErrArity)}
			}
			cur = &SceneBlock{Kind: values[0], Line: lineNo}
			if len(values) == 2 {
				cur.Name = values[1]
			}
		case "End":
			if cur == nil {
				return nil, &ParseError{Line: lineNo, Tag: key, Err: ErrStrayEnd}
			}
			blocks = append(blocks, *cur)
			cur = nil
		default:
			if cur != nil {
				cur.Entries = append(cur.Entries, SceneEntry{Key: key, Values: values, Line: lineNo})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if cur != nil {
		return nil, &ParseError{Line: cur.Line, Tag: "Type", Err: ErrUnterminatedBlock}
	}
	return blocks, nil
}

// WriteSceneFile writes blocks to path atomically.
func WriteSceneFile(path string, blocks []SceneBlock) error {
	return writeFileAtomic(path, func(f *os.File) error {
		return WriteScene(f, blocks)
	})
}

// WriteScene serializes blocks separated by blank lines.
func WriteScene(w io.Writer, blocks []SceneBlock) error {
	bw := bufio.NewWriter(w)
	for i, b := range blocks {
		if i > 0 {
			bw.WriteByte('\n')
		}
		if b.Name != "" {
			fmt.Fprintf(bw, "Type %s %s\n", b.Kind, b.Name)
		} else {
			fmt.Fprintf(bw, "Type %s\n", b.Kind)
		}
		for _, e := range b.Entries {
			fmt.Fprintf(bw, "%s %s\n", e.Key, strings.Join(e.Values, " "))
		}
		bw.WriteString("End\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Package formats reads and writes the text files exchanged by the track
// tool: OBJ geometry, MTL materials, animation paths and scene descriptions.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Shared I/O errors. Parsers wrap ErrRead when the source stream fails and
// writers wrap ErrWrite when the destination cannot be written.
var (
	ErrRead  = errors.New("read failed")
	ErrWrite = errors.New("write failed")

	// ErrGroupOrder rejects OBJ data whose faces without a material follow
	// faces with one. OBJ has no way to end a usemtl, so a reader would
	// assign those faces to the earlier material.
	ErrGroupOrder = errors.New("faces without material after a usemtl group")
)

// Parse errors carried inside ParseError.
var (
	ErrArity        = errors.New("wrong number of values")
	ErrNumber       = errors.New("malformed number")
	ErrIndex        = errors.New("invalid index")
	ErrFaceTooSmall = errors.New("face needs at least 3 vertex references")
)

// ParseError reports a malformed line in a text format.
type ParseError struct {
	Line int    // 1-based line number
	Tag  string // leading token of the offending line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Tag, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// parseFloat32 parses one token as a float32.
func parseFloat32(tok string) (float32, error) {
	f, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumber, tok)
	}
	return float32(f), nil
}

// parseFloats parses between min and max tokens as float32 values.
func parseFloats(tokens []string, min, max int) ([]float32, error) {
	if len(tokens) < min || len(tokens) > max {
		if min == max {
			return nil, fmt.Errorf("%w: want %d, got %d", ErrArity, min, len(tokens))
		}
		return nil, fmt.Errorf("%w: want %d-%d, got %d", ErrArity, min, max, len(tokens))
	}
	out := make([]float32, len(tokens))
	for i, tok := range tokens {
		f, err := parseFloat32(tok)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// formatFloat writes the shortest representation that parses back to f.
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func formatFloats(fs ...float32) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = formatFloat(f)
	}
	return strings.Join(parts, " ")
}

// writeFileAtomic writes to a temporary file next to path and renames it
// into place once fully written.
func writeFileAtomic(path string, write func(f *os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

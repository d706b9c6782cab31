package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/trackforge/pkg/math"
)

// ReadPathFile parses the animation path file at path.
func ReadPathFile(path string) ([]math.Vec3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()
	return ParsePath(f)
}

// ParsePath reads an animation path: one point per line as three
// whitespace-separated floats. Blank lines and # comments are skipped.
// Points are returned exactly as stored; no axis mapping is applied.
func ParsePath(r io.Reader) ([]math.Vec3, error) {
	var points []math.Vec3

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		vals, err := parseFloats(strings.Fields(line), 3, 3)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Tag: "point", Err: err}
		}
		points = append(points, math.Vec3{X: vals[0], Y: vals[1], Z: vals[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return points, nil
}

// WritePathFile writes points to path atomically.
func WritePathFile(path string, points []math.Vec3) error {
	return writeFileAtomic(path, func(f *os.File) error {
		return WritePath(f, points)
	})
}

// WritePath writes one point per line.
func WritePath(w io.Writer, points []math.Vec3) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		bw.WriteString(formatFloats(p.X, p.Y, p.Z))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"

	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/engine/model"
	"github.com/Faultbox/trackforge/internal/engine/spline"
	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/Faultbox/trackforge/internal/pipeline"
	"github.com/Faultbox/trackforge/internal/scene"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// initLogging sends log output to stderr so stdout carries only data.
func initLogging(cfg *config.Config) error {
	opts := logger.Options{Level: cfg.Logging.Level, Console: os.Stderr}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	return logger.InitWithOptions(opts)
}

func cmdBuild(args []string, out io.Writer) error {
	const usage = "trackforge build [options] <points-file>"
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	flags := config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return usageError(usage)
	}
	if fs.NArg() != 1 {
		return usageError(usage)
	}

	cfg, err := config.LoadWithFlags(flags)
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	points, err := formats.ReadPathFile(fs.Arg(0))
	if err != nil {
		return err
	}

	p := pipeline.New(opts, logger.Named("pipeline"))
	res, err := p.Run(points)
	if err != nil {
		return err
	}
	if res.IsEmpty() {
		return fmt.Errorf("%s: no track from %d control points (need at least %d)",
			fs.Arg(0), len(points), spline.MinControlPoints)
	}
	exp, err := p.Export(res)
	if err != nil {
		return err
	}

	t := res.Track
	fmt.Fprintf(out, "Control points: %d\n", len(points))
	fmt.Fprintf(out, "Samples:        %s\n", humanize.Comma(int64(res.Curve.Len())))
	fmt.Fprintf(out, "Length:         %s\n", humanize.CommafWithDigits(float64(res.Curve.Length()), 2))
	fmt.Fprintf(out, "Width:          %g\n", t.Width)
	fmt.Fprintf(out, "Triangles:      %s\n", humanize.Comma(int64(t.Mesh.TriangleCount())))
	if t.Degenerate > 0 {
		fmt.Fprintf(out, "Degenerate:     %d segments skipped\n", t.Degenerate)
	}
	fmt.Fprintln(out, "Files:")
	for _, f := range exp.Files() {
		fmt.Fprintf(out, "  %-40s %s\n", f, fileSize(f))
	}
	return nil
}

func cmdCurve(args []string, out io.Writer) error {
	const usage = "trackforge curve [-basis name] [-pps n] [-mode closed|segmented] [-ground] <points-file>"
	fs := flag.NewFlagSet("curve", flag.ContinueOnError)
	basisName := fs.String("basis", "bspline", "Spline basis: bspline, catmull-rom or bezier")
	pps := fs.Int("pps", 10, "Samples per control point span")
	modeName := fs.String("mode", "closed", "Window mode: closed or segmented")
	ground := fs.Bool("ground", false, "Map the samples onto the ground plane")
	if err := fs.Parse(args); err != nil {
		return usageError(usage)
	}
	if fs.NArg() != 1 {
		return usageError(usage)
	}

	basis, err := spline.ParseBasis(*basisName)
	if err != nil {
		return err
	}
	mode, err := spline.ParseMode(*modeName)
	if err != nil {
		return err
	}
	points, err := formats.ReadPathFile(fs.Arg(0))
	if err != nil {
		return err
	}

	c, err := spline.Evaluate(points, *pps, spline.Options{Basis: basis, Mode: mode})
	if err != nil {
		return err
	}
	if c.Len() == 0 {
		return fmt.Errorf("%s: %d control points, need at least %d", fs.Arg(0), len(points), spline.MinControlPoints)
	}

	samples := c.Closed()
	if *ground {
		samples = math.EditorToGroundAll(samples)
	}
	return formats.WritePath(out, samples)
}

func cmdInfo(args []string, out io.Writer) error {
	if len(args) != 1 {
		return usageError("trackforge info <file>")
	}
	path := args[0]

	fmt.Fprintf(out, "File: %s (%s)\n", path, fileSize(path))
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return infoOBJ(path, out)
	case ".mtl":
		return infoMTL(path, out)
	case ".path", ".txt":
		return infoPath(path, out)
	case ".scene":
		return infoScene(path, out)
	default:
		return fmt.Errorf("%s: unknown file type %q", path, ext)
	}
}

func infoOBJ(path string, out io.Writer) error {
	obj, err := formats.ReadOBJFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Positions:  %s\n", humanize.Comma(int64(len(obj.Positions))))
	fmt.Fprintf(out, "TexCoords:  %s\n", humanize.Comma(int64(len(obj.TexCoords))))
	fmt.Fprintf(out, "Normals:    %s\n", humanize.Comma(int64(len(obj.Normals))))
	fmt.Fprintf(out, "Triangles:  %s\n", humanize.Comma(int64(obj.TriangleCount())))
	if obj.MaterialLib != "" {
		fmt.Fprintf(out, "Materials:  %s\n", obj.MaterialLib)
	}
	fmt.Fprintf(out, "Groups:     %d\n", len(obj.Groups))
	for _, g := range obj.Groups {
		fmt.Fprintf(out, "  %-20s %-16s %s faces\n", g.Name, g.Material, humanize.Comma(int64(len(g.Faces))))
	}
	printBounds(out, model.BoundsOf(obj.Positions))
	return nil
}

func infoMTL(path string, out io.Writer) error {
	mats, err := formats.ReadMTLFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Materials: %d\n", len(mats))
	for _, m := range mats {
		fmt.Fprintf(out, "  %-20s Kd %.2f %.2f %.2f  Ns %g", m.Name, m.Diffuse.X, m.Diffuse.Y, m.Diffuse.Z, m.Shininess)
		if m.DiffuseMap != "" {
			fmt.Fprintf(out, "  map %s", m.DiffuseMap)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func infoPath(path string, out io.Writer) error {
	pts, err := formats.ReadPathFile(path)
	if err != nil {
		return err
	}
	var length float32
	for i := 1; i < len(pts); i++ {
		length += pts[i].Sub(pts[i-1]).Length()
	}
	closed := len(pts) > 1 && pts[0] == pts[len(pts)-1]

	fmt.Fprintf(out, "Points:  %s\n", humanize.Comma(int64(len(pts))))
	fmt.Fprintf(out, "Length:  %s\n", humanize.CommafWithDigits(float64(length), 2))
	fmt.Fprintf(out, "Closed:  %t\n", closed)
	printBounds(out, model.BoundsOf(pts))
	return nil
}

func infoScene(path string, out io.Writer) error {
	blocks, err := formats.ReadSceneFile(path)
	if err != nil {
		return err
	}
	counts := make(map[string]int)
	for _, b := range blocks {
		counts[b.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Fprintf(out, "Blocks: %d\n", len(blocks))
	for _, k := range kinds {
		fmt.Fprintf(out, "  %-14s %d\n", k, counts[k])
	}
	return nil
}

func cmdScene(args []string, out io.Writer) error {
	if len(args) != 1 {
		return usageError("trackforge scene <file.scene>")
	}
	path := args[0]

	// Load keeps going past bad blocks; list what loaded, then the problems.
	sc, loadErr := scene.Load(path)

	g := sc.Global
	fmt.Fprintf(out, "Camera:  pos %v front %v fov %g\n", fmtVec(g.CameraPos), fmtVec(g.CameraFront), g.Fov)
	fmt.Fprintf(out, "Light:   pos %v\n", fmtVec(g.LightPos))
	if g.FogFar > g.FogNear {
		fmt.Fprintf(out, "Fog:     %g - %g\n", g.FogNear, g.FogFar)
	}

	fmt.Fprintf(out, "Objects: %d (%s triangles)\n", len(sc.Objects), humanize.Comma(int64(sc.TriangleCount())))
	for _, o := range sc.Objects {
		var notes []string
		if o.Material.Name != "" {
			notes = append(notes, "material "+o.Material.Name)
		}
		if o.Parent != nil {
			notes = append(notes, "parent "+o.Parent.Name)
		}
		if o.Animated() {
			notes = append(notes, fmt.Sprintf("path %d samples", len(o.Path)))
		}
		if o.AutoRotate {
			notes = append(notes, "spins")
		}
		fmt.Fprintf(out, "  %-20s %8s tris  %s\n", o.Name, humanize.Comma(int64(o.Mesh.TriangleCount())), strings.Join(notes, ", "))
	}

	fmt.Fprintf(out, "Curves:  %d\n", len(sc.Curves))
	for _, c := range sc.Curves {
		n := 0
		if c.Samples != nil {
			n = c.Samples.Len()
		}
		fmt.Fprintf(out, "  %-20s %s/%s  %d control points, %d samples\n", c.Name, c.Basis, c.Mode, len(c.ControlPoints), n)
	}

	fmt.Fprintf(out, "Tracks:  %d\n", len(sc.Tracks))
	for _, t := range sc.Tracks {
		fmt.Fprintf(out, "  %-20s %s  width %g  %d control points\n", t.Name, t.Basis, t.Width, len(t.ControlPoints))
	}

	if loadErr != nil {
		errs := multierr.Errors(loadErr)
		fmt.Fprintf(out, "Problems: %d\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(out, "  %v\n", e)
		}
		return fmt.Errorf("%s: %d problems", path, len(errs))
	}
	return nil
}

func printBounds(out io.Writer, b model.Bounds) {
	fmt.Fprintf(out, "Bounds:  min %v max %v size %v\n", fmtVec(b.Min), fmtVec(b.Max), fmtVec(b.Size()))
}

func fmtVec(v math.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

func fileSize(path string) string {
	st, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(st.Size()))
}

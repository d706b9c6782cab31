// trackforge is the command line companion of the track editor: it builds
// tracks from control point files and inspects the files the editor writes.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// errUsage marks bad invocations; main prints the usage text for them.
var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "build":
		err = cmdBuild(args, os.Stdout)
	case "curve":
		err = cmdCurve(args, os.Stdout)
	case "info":
		err = cmdInfo(args, os.Stdout)
	case "scene":
		err = cmdScene(args, os.Stdout)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `trackforge - race track builder

Usage:
  trackforge <command> [options]

Commands:
  build [options] <points-file>      Build and export a track from control points
  curve [options] <points-file>      Print sampled curve points
  info <file>                        Describe an .obj, .mtl, .path or .scene file
  scene <file.scene>                 Load a scene and list its contents

Build options:
  -config, -out, -track-width, -pps, -basis, -workers, -debug

Curve options:
  -basis bspline|catmull-rom|bezier  -pps N  -mode closed|segmented  -ground

Examples:
  trackforge build -out ./out points.path
  trackforge curve -basis catmull-rom -pps 20 points.path
  trackforge info out/track.obj
  trackforge scene out/track.scene`)
}

// usageError reports a bad invocation of one command.
func usageError(usage string) error {
	return fmt.Errorf("%w: %s", errUsage, usage)
}

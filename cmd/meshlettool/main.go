// meshlettool partitions triangle meshes into meshlets for the widget
// renderer's mesh-shading pipeline and inspects the baked outputs.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BenjaminSRussell/3d-swift-widget/internal/bake"
	"github.com/BenjaminSRussell/3d-swift-widget/internal/config"
	"github.com/BenjaminSRussell/3d-swift-widget/internal/logger"
	"github.com/BenjaminSRussell/3d-swift-widget/internal/preview"
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/formats"
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/meshlet"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build", "bake":
		cmdBuild(args)
	case "info":
		cmdInfo(args)
	case "validate", "check":
		cmdValidate(args)
	case "preview":
		cmdPreview(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshlettool - meshlet baking utility for the widget renderer

Usage:
  meshlettool <command> [options]

Commands:
  build <mesh.obj> [more.obj ...]  Partition meshes and write meshlet outputs
  info <file>                      Show stats for a .meshlets.json or .omlt file
  validate <mesh.obj> <file>       Check a meshlet file against its source mesh
  preview <mesh.obj>               Render the partition to a WebP image
  config <init|show|path>          Manage the tool config file

Options (build, validate, preview):
  -config <path>     Config file (default: meshlets.yaml, then user config dir)
  -max-verts <n>     Vertex limit per meshlet
  -max-tris <n>      Triangle limit per meshlet
  -adjacency <mode>  Cluster growth rule: vertex or edge
  -workers <n>       Parallel meshes in batch mode (0 = all CPUs)
  -out <dir>         Output directory
  -debug             Enable debug logging

Examples:
  meshlettool build chair.obj
  meshlettool build -max-verts 32 -out baked models/*.obj
  meshlettool info baked/chair.omlt
  meshlettool validate chair.obj baked/chair.meshlets.json
  meshlettool preview -out baked chair.obj`)
}

// setup parses the shared flags, loads the layered config and starts the
// logger. Commands that only read baked files skip it.
func setup(fs *flag.FlagSet, args []string) *config.Config {
	o := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(o.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	o.Apply(cfg)

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshlettool build [options] <mesh.obj> [more.obj ...]")
		os.Exit(1)
	}

	if fs.NArg() == 1 {
		res, err := bake.File(cfg, fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printStats(res)
		return
	}

	sum := bake.Batch(cfg, fs.Args())
	fmt.Printf("Baked:    %d\n", sum.Baked)
	fmt.Printf("Failed:   %d\n", sum.Failed)
	fmt.Printf("Meshlets: %d\n", sum.Meshlets)
	fmt.Printf("Elapsed:  %s\n", sum.Elapsed.Round(time.Millisecond))
	if sum.Failed > 0 {
		for _, r := range sum.Results {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", r.Input, r.Err)
			}
		}
		os.Exit(1)
	}
}

func printStats(res *bake.Result) {
	fmt.Printf("Input:     %s\n", res.Input)
	fmt.Printf("Vertices:  %d\n", res.Stats.Vertices)
	fmt.Printf("Triangles: %d\n", res.Stats.Triangles)
	fmt.Printf("Meshlets:  %d\n", res.Stats.Meshlets)
	fmt.Printf("Avg verts: %.1f\n", res.Stats.AvgVertices)
	fmt.Printf("Avg tris:  %.1f\n", res.Stats.AvgTriangles)
	fmt.Printf("Elapsed:   %s\n", res.Stats.Elapsed.Round(time.Millisecond))
	if res.JSONPath != "" {
		fmt.Printf("JSON:      %s\n", res.JSONPath)
	}
	if res.OMLTPath != "" {
		fmt.Printf("OMLT:      %s\n", res.OMLTPath)
	}
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshlettool info <file.meshlets.json|file.omlt>")
		os.Exit(1)
	}
	path := args[0]

	set, version, err := loadSet(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:        %s\n", path)
	if version != "" {
		fmt.Printf("Container:   OMLT %s\n", version)
	}
	fmt.Printf("Meshlets:    %d\n", set.Count())
	fmt.Printf("Triangles:   %d\n", set.TriangleCount())
	fmt.Printf("Vertex refs: %d\n", set.VertexRefCount())

	if set.Count() == 0 {
		return
	}
	maxV, maxT := 0, 0
	for i := range set.Meshlets {
		m := &set.Meshlets[i]
		if m.VertexCount() > maxV {
			maxV = m.VertexCount()
		}
		if m.TriangleCount() > maxT {
			maxT = m.TriangleCount()
		}
	}
	fmt.Println()
	fmt.Printf("Avg verts/meshlet: %.1f\n", float64(set.VertexRefCount())/float64(set.Count()))
	fmt.Printf("Avg tris/meshlet:  %.1f\n", float64(set.TriangleCount())/float64(set.Count()))
	fmt.Printf("Max verts/meshlet: %d\n", maxV)
	fmt.Printf("Max tris/meshlet:  %d\n", maxT)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshlettool validate [options] <mesh.obj> <meshlet file>")
		os.Exit(1)
	}

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	obj, err := formats.ParseOBJFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	mesh, err := bake.Weld(obj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	set, _, err := loadSet(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := set.Validate(mesh, opts); err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: %d meshlets cover %d triangles\n", set.Count(), set.TriangleCount())
}

func cmdPreview(args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshlettool preview [options] <mesh.obj>")
		os.Exit(1)
	}
	input := fs.Arg(0)

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	obj, err := formats.ParseOBJFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	mesh, err := bake.Weld(obj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	set, err := meshlet.Build(mesh, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	img := preview.Render(mesh, set, preview.Options{
		Width:       cfg.Preview.Width,
		Height:      cfg.Preview.Height,
		Supersample: cfg.Preview.Supersample,
		YawDeg:      cfg.Preview.YawDeg,
		PitchDeg:    cfg.Preview.PitchDeg,
	})

	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	out := bake.OutputPath(cfg, input, ".webp")
	if err := preview.WriteWebP(out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Preview: %s (%d meshlets)\n", out, set.Count())
}

func cmdConfig(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshlettool config <init|show|path>")
		os.Exit(1)
	}

	switch args[0] {
	case "init":
		if err := config.Save(config.Default()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "meshlets.yaml"))
	case "show":
		cfg, err := config.Load("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
	case "path":
		fmt.Println(filepath.Join(config.ConfigDir(), "meshlets.yaml"))
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", args[0])
		os.Exit(1)
	}
}

// loadSet reads a meshlet set from either container format, picked by
// file extension.
func loadSet(path string) (*meshlet.Set, string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".omlt") {
		c, err := formats.ParseOMLTFile(path)
		if err != nil {
			return nil, "", err
		}
		set, err := c.Packed.Unpack()
		if err != nil {
			return nil, "", err
		}
		return set, c.Version.String(), nil
	}
	set, err := formats.ParseMeshletJSONFile(path)
	return set, "", err
}

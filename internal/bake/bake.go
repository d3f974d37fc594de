package bake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BenjaminSRussell/3d-swift-widget/internal/config"
	"github.com/BenjaminSRussell/3d-swift-widget/internal/logger"
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/formats"
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/meshlet"
)

// Stats summarizes one baked mesh.
type Stats struct {
	Vertices     int
	Triangles    int
	Meshlets     int
	AvgVertices  float64
	AvgTriangles float64
	Elapsed      time.Duration
}

// Result holds the artifacts of one bake. The output paths are empty
// when the corresponding writer is disabled.
type Result struct {
	Input    string
	Mesh     *meshlet.Mesh
	Set      *meshlet.Set
	Stats    Stats
	JSONPath string
	OMLTPath string
}

// File bakes one OBJ file: parse, weld, partition, export.
func File(cfg *config.Config, path string) (*Result, error) {
	start := time.Now()

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	obj, err := formats.ParseOBJFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	mesh, err := Weld(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("welded mesh",
		zap.String("input", path),
		zap.Int("corners", len(mesh.Indices)),
		zap.Int("vertices", mesh.VertexCount()))

	set, err := meshlet.Build(mesh, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	res := &Result{
		Input: path,
		Mesh:  mesh,
		Set:   set,
	}
	if err := writeOutputs(cfg, res); err != nil {
		return nil, err
	}
	res.Stats = collectStats(mesh, set, time.Since(start))

	logger.Info("baked mesh",
		zap.String("input", path),
		zap.Int("vertices", res.Stats.Vertices),
		zap.Int("triangles", res.Stats.Triangles),
		zap.Int("meshlets", res.Stats.Meshlets),
		zap.Duration("elapsed", res.Stats.Elapsed))

	return res, nil
}

// OutputPath maps an input mesh path to an output path: the input name
// with its extension swapped, placed in cfg.Output.Dir when set and next
// to the input otherwise.
func OutputPath(cfg *config.Config, input, ext string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+ext)
}

func writeOutputs(cfg *config.Config, res *Result) error {
	if !cfg.Output.JSON && !cfg.Output.OMLT {
		return nil
	}
	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if cfg.Output.JSON {
		path := OutputPath(cfg, res.Input, ".meshlets.json")
		if err := formats.WriteMeshletJSONFile(path, res.Set); err != nil {
			return err
		}
		res.JSONPath = path
	}

	if cfg.Output.OMLT {
		packed, err := meshlet.Pack(res.Set)
		if err != nil {
			return fmt.Errorf("%s: %w", res.Input, err)
		}
		path := OutputPath(cfg, res.Input, ".omlt")
		if err := formats.WriteOMLTFile(path, packed); err != nil {
			return err
		}
		res.OMLTPath = path
	}

	return nil
}

func collectStats(mesh *meshlet.Mesh, set *meshlet.Set, elapsed time.Duration) Stats {
	s := Stats{
		Vertices:  mesh.VertexCount(),
		Triangles: mesh.TriangleCount(),
		Meshlets:  set.Count(),
		Elapsed:   elapsed,
	}
	if s.Meshlets > 0 {
		s.AvgVertices = float64(set.VertexRefCount()) / float64(s.Meshlets)
		s.AvgTriangles = float64(set.TriangleCount()) / float64(s.Meshlets)
	}
	return s
}

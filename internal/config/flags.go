package config

import (
	"flag"
)

// Overrides carries the command line values that take priority over the
// config file. Every subcommand registers the same set so bake limits can
// be adjusted per run without editing meshlets.yaml.
type Overrides struct {
	configPath   *string
	debug        *bool
	maxVertices  *int
	maxTriangles *int
	adjacency    *string
	workers      *int
	outDir       *string
}

// RegisterFlags binds the shared override flags onto fs and returns the
// handle used to apply them after parsing.
func RegisterFlags(fs *flag.FlagSet) *Overrides {
	o := &Overrides{}
	o.configPath = fs.String("config", "", "config file path")
	o.debug = fs.Bool("debug", false, "enable debug logging")
	o.maxVertices = fs.Int("max-verts", 0, "vertex limit per meshlet")
	o.maxTriangles = fs.Int("max-tris", 0, "triangle limit per meshlet")
	o.adjacency = fs.String("adjacency", "", "growth rule: vertex or edge")
	o.workers = fs.Int("workers", -1, "parallel meshes in batch mode (0 uses all CPUs)")
	o.outDir = fs.String("out", "", "output directory")
	return o
}

// ConfigPath returns the config file path from flags.
func (o *Overrides) ConfigPath() string {
	return *o.configPath
}

// Apply overlays parsed flag values onto the config.
func (o *Overrides) Apply(cfg *Config) {
	if *o.debug {
		cfg.Logging.Level = "debug"
	}
	if *o.maxVertices > 0 {
		cfg.Build.MaxVertices = *o.maxVertices
	}
	if *o.maxTriangles > 0 {
		cfg.Build.MaxTriangles = *o.maxTriangles
	}
	if *o.adjacency != "" {
		cfg.Build.Adjacency = *o.adjacency
	}
	if *o.workers >= 0 {
		cfg.Batch.Workers = *o.workers
	}
	if *o.outDir != "" {
		cfg.Output.Dir = *o.outDir
	}
}

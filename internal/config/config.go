// Package config handles bake tool configuration loading and management.
package config

import (
	"github.com/BenjaminSRussell/3d-swift-widget/pkg/meshlet"
)

// Config holds all bake tool settings.
type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Output  OutputConfig  `yaml:"output"`
	Batch   BatchConfig   `yaml:"batch"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

// BuildConfig holds the partitioning limits.
type BuildConfig struct {
	MaxVertices   int    `yaml:"max_vertices"`
	MaxTriangles  int    `yaml:"max_triangles"`
	Adjacency     string `yaml:"adjacency"`      // "vertex" or "edge"
	BoundsWorkers int    `yaml:"bounds_workers"` // goroutines for per-meshlet bounds; <2 = serial
}

// OutputConfig holds export settings.
type OutputConfig struct {
	JSON bool   `yaml:"json"`
	OMLT bool   `yaml:"omlt"`
	Dir  string `yaml:"dir"` // empty writes next to the input mesh
}

// BatchConfig holds multi-file bake settings.
type BatchConfig struct {
	Workers  int  `yaml:"workers"` // parallel meshes; 0 uses all CPUs
	Progress bool `yaml:"progress"`
}

// PreviewConfig holds debug render settings.
type PreviewConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Supersample int     `yaml:"supersample"`
	YawDeg      float32 `yaml:"yaw_deg"`
	PitchDeg    float32 `yaml:"pitch_deg"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			MaxVertices:   meshlet.DefaultMaxVertices,
			MaxTriangles:  meshlet.DefaultMaxTriangles,
			Adjacency:     "vertex",
			BoundsWorkers: 0,
		},
		Output: OutputConfig{
			JSON: true,
			OMLT: true,
			Dir:  "",
		},
		Batch: BatchConfig{
			Workers:  0,
			Progress: true,
		},
		Preview: PreviewConfig{
			Width:       640,
			Height:      640,
			Supersample: 2,
			YawDeg:      45,
			PitchDeg:    25,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options converts the build section into partitioner options.
func (c *Config) Options() (meshlet.Options, error) {
	mode, err := meshlet.ParseAdjacencyMode(c.Build.Adjacency)
	if err != nil {
		return meshlet.Options{}, err
	}
	opts := meshlet.Options{
		MaxVertices:  c.Build.MaxVertices,
		MaxTriangles: c.Build.MaxTriangles,
		Adjacency:    mode,
		Workers:      c.Build.BoundsWorkers,
	}
	if err := opts.Validate(); err != nil {
		return meshlet.Options{}, err
	}
	return opts, nil
}

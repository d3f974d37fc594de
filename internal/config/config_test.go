package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/BenjaminSRussell/3d-swift-widget/pkg/meshlet"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Build.MaxVertices != 64 {
		t.Errorf("expected default max vertices 64, got %d", cfg.Build.MaxVertices)
	}
	if cfg.Build.MaxTriangles != 126 {
		t.Errorf("expected default max triangles 126, got %d", cfg.Build.MaxTriangles)
	}
	if cfg.Build.Adjacency != "vertex" {
		t.Errorf("expected default adjacency vertex, got %s", cfg.Build.Adjacency)
	}
	if !cfg.Output.JSON {
		t.Error("expected JSON output enabled by default")
	}
	if !cfg.Output.OMLT {
		t.Error("expected OMLT output enabled by default")
	}
	if cfg.Batch.Workers != 0 {
		t.Errorf("expected default batch workers 0, got %d", cfg.Batch.Workers)
	}
	if !cfg.Batch.Progress {
		t.Error("expected progress enabled by default")
	}
	if cfg.Preview.Width != 640 || cfg.Preview.Height != 640 {
		t.Errorf("expected default preview 640x640, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
	if cfg.Preview.Supersample != 2 {
		t.Errorf("expected default supersample 2, got %d", cfg.Preview.Supersample)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
build:
  max_vertices: 32
  max_triangles: 84
  adjacency: edge
  bounds_workers: 4
output:
  json: false
  omlt: true
  dir: out/meshlets
batch:
  workers: 2
  progress: false
preview:
  width: 320
  height: 200
  supersample: 1
  yaw_deg: 10
  pitch_deg: 5
logging:
  level: debug
  log_file: bake.log
`
	path := filepath.Join(t.TempDir(), "meshlets.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if cfg.Build.MaxVertices != 32 {
		t.Errorf("expected max vertices 32, got %d", cfg.Build.MaxVertices)
	}
	if cfg.Build.MaxTriangles != 84 {
		t.Errorf("expected max triangles 84, got %d", cfg.Build.MaxTriangles)
	}
	if cfg.Build.Adjacency != "edge" {
		t.Errorf("expected adjacency edge, got %s", cfg.Build.Adjacency)
	}
	if cfg.Build.BoundsWorkers != 4 {
		t.Errorf("expected bounds workers 4, got %d", cfg.Build.BoundsWorkers)
	}
	if cfg.Output.JSON {
		t.Error("expected JSON output disabled")
	}
	if cfg.Output.Dir != "out/meshlets" {
		t.Errorf("expected output dir out/meshlets, got %s", cfg.Output.Dir)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("expected batch workers 2, got %d", cfg.Batch.Workers)
	}
	if cfg.Batch.Progress {
		t.Error("expected progress disabled")
	}
	if cfg.Preview.Width != 320 || cfg.Preview.Height != 200 {
		t.Errorf("expected preview 320x200, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "bake.log" {
		t.Errorf("expected log file bake.log, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshlets.yaml")
	if err := os.WriteFile(path, []byte("build: [not a map"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing explicit config path")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("expected non-empty config directory")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("expected absolute config directory, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}

	if err := os.WriteFile("meshlets.yaml", []byte("build:\n  max_vertices: 48\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	found := findConfigFile()
	if found != "meshlets.yaml" {
		t.Errorf("expected to find meshlets.yaml in current directory, got %s", found)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Build.MaxVertices != 48 {
		t.Errorf("expected max vertices 48 from found config, got %d", cfg.Build.MaxVertices)
	}
}

func TestOverridesApply(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "debug flag raises log level",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "vertex limit",
			args: []string{"-max-verts", "48"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Build.MaxVertices != 48 {
					t.Errorf("expected max vertices 48, got %d", cfg.Build.MaxVertices)
				}
			},
		},
		{
			name: "triangle limit",
			args: []string{"-max-tris", "96"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Build.MaxTriangles != 96 {
					t.Errorf("expected max triangles 96, got %d", cfg.Build.MaxTriangles)
				}
			},
		},
		{
			name: "adjacency rule",
			args: []string{"-adjacency", "edge"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Build.Adjacency != "edge" {
					t.Errorf("expected adjacency edge, got %s", cfg.Build.Adjacency)
				}
			},
		},
		{
			name: "explicit zero workers means all CPUs",
			args: []string{"-workers", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Batch.Workers != 0 {
					t.Errorf("expected batch workers 0, got %d", cfg.Batch.Workers)
				}
			},
		},
		{
			name: "output directory",
			args: []string{"-out", "baked"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Dir != "baked" {
					t.Errorf("expected output dir baked, got %s", cfg.Output.Dir)
				}
			},
		},
		{
			name: "no flags leaves defaults",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if !reflect.DeepEqual(cfg, Default()) {
					t.Error("expected config unchanged without flags")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			o := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			cfg := Default()
			o.Apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	content := `
build:
  max_vertices: 32
  max_triangles: 84
`
	path := filepath.Join(t.TempDir(), "meshlets.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", path, "-max-verts", "48"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := Load(o.ConfigPath())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	o.Apply(cfg)

	// Flag beats file.
	if cfg.Build.MaxVertices != 48 {
		t.Errorf("expected flag to override file, got max vertices %d", cfg.Build.MaxVertices)
	}
	// File beats default.
	if cfg.Build.MaxTriangles != 84 {
		t.Errorf("expected file to override default, got max triangles %d", cfg.Build.MaxTriangles)
	}
}

func TestOptions(t *testing.T) {
	opts, err := Default().Options()
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if opts.MaxVertices != 64 || opts.MaxTriangles != 126 {
		t.Errorf("expected limits 64/126, got %d/%d", opts.MaxVertices, opts.MaxTriangles)
	}
	if opts.Adjacency != meshlet.ShareVertex {
		t.Errorf("expected vertex adjacency, got %v", opts.Adjacency)
	}

	cfg := Default()
	cfg.Build.Adjacency = "both"
	if _, err := cfg.Options(); !errors.Is(err, meshlet.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown adjacency, got %v", err)
	}

	cfg = Default()
	cfg.Build.MaxVertices = 2
	if _, err := cfg.Options(); !errors.Is(err, meshlet.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for tiny vertex limit, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Build.MaxVertices = 48
	cfg.Output.Dir = "baked"
	cfg.Logging.Level = "warn"

	path := filepath.Join(t.TempDir(), "meshlets.yaml")
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("expected round-tripped config to match, got %+v", loaded)
	}
}

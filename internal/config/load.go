package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with the following priority:
// 1. Default values
// 2. Config file (if exists)
// 3. Command line overrides (applied by the caller via Overrides.Apply)
//
// An empty path searches the standard locations, where a missing file is
// fine and the defaults stand. An explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if found := findConfigFile(); found != "" {
		if err := loadFromFile(cfg, found); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// findConfigFile looks for meshlets.yaml in standard locations.
func findConfigFile() string {
	// Current directory first, so a per-project file wins.
	if _, err := os.Stat("meshlets.yaml"); err == nil {
		return "meshlets.yaml"
	}

	// User config directory.
	configDir := ConfigDir()
	if configDir != "" {
		path := filepath.Join(configDir, "meshlets.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ConfigDir returns the platform-specific config directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "MeshletTool")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "MeshletTool")
		}
		return filepath.Join(home, "AppData", "Roaming", "MeshletTool")
	default: // linux and friends
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig != "" {
			return filepath.Join(xdgConfig, "meshlettool")
		}
		return filepath.Join(home, ".config", "meshlettool")
	}
}

// loadFromFile loads config from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

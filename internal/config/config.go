package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the config file looked up next to the solution.
const DefaultFileName = "aggregen.config.json"

// Config represents the aggregen configuration.
type Config struct {
	Output   OutputConfig   `json:"output"`
	Analysis AnalysisConfig `json:"analysis"`

	// PolicyFile points at an optional YAML policy overriding the built-in
	// classification rules.
	PolicyFile string `json:"policyFile,omitempty"`
}

// OutputConfig specifies where and how the model files are written.
type OutputConfig struct {
	Dir       string `json:"dir"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

// AnalysisConfig narrows which packages are scanned.
type AnalysisConfig struct {
	// Include and Exclude are import-path glob patterns matched with
	// path.Match against each package path. Empty include means all.
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
	Strict  bool     `json:"strict,omitempty"`
	Quiet   bool     `json:"quiet,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{
			Dir: "aggregen-out",
		},
	}
}

// Load reads and parses an aggregen config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &config, nil
}

// Discover looks for the default config file in the given directory and
// returns its path, or empty when absent. Absence is not an error; the
// defaults apply.
func Discover(dir string) string {
	path := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}

	if c.PolicyFile != "" {
		ext := filepath.Ext(c.PolicyFile)
		if ext != ".yaml" && ext != ".yml" {
			return fmt.Errorf("policyFile must have a .yaml or .yml extension, got %q", ext)
		}
	}

	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.Dir != "aggregen-out" {
		t.Fatalf("expected default output dir 'aggregen-out', got %q", cfg.Output.Dir)
	}
	if cfg.Output.Overwrite {
		t.Fatal("expected overwrite to be false by default")
	}
	if cfg.PolicyFile != "" {
		t.Fatalf("expected empty policy file by default, got %q", cfg.PolicyFile)
	}
	if len(cfg.Analysis.Include) != 0 || len(cfg.Analysis.Exclude) != 0 {
		t.Fatal("expected empty analysis patterns by default")
	}
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, DefaultFileName)
	content := `{
		"output": {
			"dir": "gen/model",
			"overwrite": true
		},
		"analysis": {
			"include": ["example.com/shop/domain/..."],
			"exclude": ["example.com/shop/domain/testdata"]
		},
		"policyFile": "policy.yaml"
	}`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Output.Dir != "gen/model" {
		t.Fatalf("unexpected output dir: %q", cfg.Output.Dir)
	}
	if !cfg.Output.Overwrite {
		t.Fatal("expected overwrite to be true")
	}
	if len(cfg.Analysis.Include) != 1 || cfg.Analysis.Include[0] != "example.com/shop/domain/..." {
		t.Fatalf("unexpected include: %v", cfg.Analysis.Include)
	}
	if cfg.PolicyFile != "policy.yaml" {
		t.Fatalf("unexpected policy file: %q", cfg.PolicyFile)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, DefaultFileName)
	content := `{
		"analysis": {
			"strict": true
		}
	}`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should have defaults for unspecified fields
	if cfg.Output.Dir != "aggregen-out" {
		t.Fatalf("expected default output dir, got %q", cfg.Output.Dir)
	}
	if !cfg.Analysis.Strict {
		t.Fatal("expected overridden strict=true")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(configPath, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestValidateEmptyOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Dir = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty output dir")
	}
}

func TestValidateNonYAMLPolicyFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PolicyFile = "policy.json"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for non-yaml policy file")
	}
}

func TestValidateValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	// No config file → empty string
	if result := Discover(dir); result != "" {
		t.Fatalf("expected empty string for no config, got %q", result)
	}

	configPath := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(configPath, []byte(`{"output":{"dir":"out"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := Discover(dir); result != configPath {
		t.Fatalf("expected %q, got %q", configPath, result)
	}
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("missing config should yield defaults, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("empty path should not error: %v", err)
	}
	if cfg.Iterations != pipeline.DefaultIterations {
		t.Errorf("Iterations = %d, want default %d", cfg.Iterations, pipeline.DefaultIterations)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
iterations = 200
seed = 7
optimal = 0.25
scale = 20.0
labels = true
redis_url = "redis://localhost:6379/1"
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Iterations != 200 {
		t.Errorf("Iterations = %d, want 200", cfg.Iterations)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.Optimal != 0.25 {
		t.Errorf("Optimal = %g, want 0.25", cfg.Optimal)
	}
	if cfg.Scale != 20.0 {
		t.Errorf("Scale = %g, want 20", cfg.Scale)
	}
	if !cfg.Labels {
		t.Error("Labels should be true")
	}
	if cfg.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
}

func TestLoadConfigPartialBackfillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`labels = true`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Iterations != pipeline.DefaultIterations {
		t.Errorf("Iterations = %d, want default", cfg.Iterations)
	}
	if cfg.Seed != pipeline.DefaultSeed {
		t.Errorf("Seed = %d, want default", cfg.Seed)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("iterations = [broken"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("invalid TOML should error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

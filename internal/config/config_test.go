package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"archviz/internal/apperr"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SourceDir != "." || cfg.OutputDir != "diagrams" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if !cfg.Backup || !cfg.PreserveManual {
		t.Error("safety defaults should be on")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".archviz.yml")
	yaml := `source_dir: ./src
output_dir: ./docs/diagrams
types:
  - architecture
  - class
max_concurrency: 8
backup: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SourceDir != "./src" {
		t.Errorf("SourceDir = %q", cfg.SourceDir)
	}
	if cfg.OutputDir != "./docs/diagrams" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if len(cfg.Types) != 2 {
		t.Errorf("Types = %v", cfg.Types)
	}
	if cfg.MaxConcurrency != 8 {
		t.Errorf("MaxConcurrency = %d", cfg.MaxConcurrency)
	}
	if cfg.Backup {
		t.Error("backup override not applied")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ARCHVIZ_OUTPUT_DIR", "/tmp/out")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q, want env override", cfg.OutputDir)
	}
}

func TestValidate_RejectsUnknownType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types = []string{"architecture", "pie"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("unknown diagram type accepted")
	}
	var ce *apperr.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want *apperr.ConfigurationError", err)
	}
}

func TestValidate_RejectsUnknownLayer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layers = []LayerRule{{Layer: "transport", Keywords: []string{"x"}}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown layer accepted")
	}
}

func TestValidate_RejectsEmptyKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layers = []LayerRule{{Layer: "data"}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("layer without keywords accepted")
	}
}

func TestValidate_RejectsMissingSourceDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SourceDir = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("empty source dir accepted")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".archviz.yml")

	cfg := DefaultConfig()
	cfg.Types = []string{"er", "class"}
	cfg.RootPackage = "app"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.RootPackage != "app" {
		t.Errorf("RootPackage = %q", loaded.RootPackage)
	}
	if len(loaded.Types) != 2 || loaded.Types[0] != "er" {
		t.Errorf("Types = %v", loaded.Types)
	}
}

func TestEnabledTypes_EmptyMeansAll(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.EnabledTypes(); len(got) != 12 {
		t.Errorf("EnabledTypes() = %d entries, want 12", len(got))
	}

	cfg.Types = []string{"class"}
	if got := cfg.EnabledTypes(); len(got) != 1 || got[0] != "class" {
		t.Errorf("EnabledTypes() = %v", got)
	}
}

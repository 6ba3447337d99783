package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `# golden run
fixtures_dir: testdata/golden
data_roots:
  - /data/a
  - /data/b
features: [IPLA, RNT]
seq_length: 6000
skip_targets: true
downsample: 2000
window: 30
stride: 10
normalize: true
hidden_size: 8
seed: 7
tolerance: 1e-5
num_workers: 4
plot_path: out.svg
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.FixturesDir != "testdata/golden" || len(cfg.DataRoots) != 2 || cfg.DataRoots[1] != "/data/b" {
		t.Fatalf("unexpected roots %+v", cfg)
	}
	if len(cfg.Features) != 2 || cfg.SeqLength != 6000 || cfg.Window != 30 || cfg.Stride != 10 {
		t.Fatalf("unexpected series options %+v", cfg)
	}
	if !cfg.SkipTargets || cfg.Downsample != 2000 {
		t.Fatalf("unexpected resampling options %+v", cfg)
	}
	if !cfg.Normalize || cfg.HiddenSize != 8 || cfg.Seed != 7 || cfg.Tolerance != 1e-5 || cfg.NumWorkers != 4 {
		t.Fatalf("unexpected knobs %+v", cfg)
	}
	if cfg.LogEvery != defaultLogEvery {
		t.Fatalf("expected default log_every, got %d", cfg.LogEvery)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("fixtures: x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadEmptyPathAndFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil || cfg == nil {
		t.Fatalf("Load(\"\") = %v, %v", cfg, err)
	}
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("empty file: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyOverridesAndDefaults(t *testing.T) {
	cfg := &Config{FixturesDir: "a", Tolerance: 1e-3}
	cfg.ApplyOverrides(Overrides{FixturesDir: "b", NumWorkers: 3, Seed: 9, SkipTargets: true, Downsample: 50})
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.FixturesDir != "b" || cfg.NumWorkers != 3 || cfg.Seed != 9 || !cfg.SkipTargets || cfg.Downsample != 50 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Tolerance != 1e-3 {
		t.Fatalf("zero override replaced tolerance: %g", cfg.Tolerance)
	}

	cfg = &Config{FixturesDir: "a", Window: 5}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Tolerance != defaultTolerance || cfg.NumWorkers != 1 || cfg.Stride != 5 {
		t.Fatalf("defaults not filled: %+v", cfg)
	}
}

func TestValidateErrors(t *testing.T) {
	for name, cfg := range map[string]*Config{
		"nil":               nil,
		"no inputs":         {},
		"negative tol":      {FixturesDir: "a", Tolerance: -1},
		"negative window":   {FixturesDir: "a", Window: -1},
		"data without unit": {DataRoots: []string{"/d"}},
		"negative workers":  {FixturesDir: "a", NumWorkers: -2},
		"negative bins":     {FixturesDir: "a", Downsample: -1},
	} {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

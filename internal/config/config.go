package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultTolerance = 1e-6
	defaultLogEvery  = 10
)

// Config captures the runtime knobs for a verification run.
type Config struct {
	FixturesDir string   `yaml:"fixtures_dir"`
	DataRoots   []string `yaml:"data_roots"`
	ParamsPath  string   `yaml:"params_path"`
	Features    []string `yaml:"features"`
	SeqLength   int      `yaml:"seq_length"`
	SkipTargets bool     `yaml:"skip_targets"`
	Downsample  int      `yaml:"downsample"`
	Window      int      `yaml:"window"`
	Stride      int      `yaml:"stride"`
	Normalize   bool     `yaml:"normalize"`
	HiddenSize  int      `yaml:"hidden_size"`
	Seed        int64    `yaml:"seed"`
	Tolerance   float64  `yaml:"tolerance"`
	NumWorkers  int      `yaml:"num_workers"`
	LogEvery    int      `yaml:"log_every"`
	PlotPath    string   `yaml:"plot_path"`
	ExportDir   string   `yaml:"export_dir"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	FixturesDir string
	DataRoots   []string
	ParamsPath  string
	SkipTargets bool
	Downsample  int
	Tolerance   float64
	NumWorkers  int
	Seed        int64
	LogEvery    int
	PlotPath    string
	ExportDir   string
}

// Load reads a Config from YAML. An empty path yields an empty Config so that
// a run can be described by flags alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, rejecting unknown keys.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.FixturesDir != "" {
		c.FixturesDir = o.FixturesDir
	}
	if len(o.DataRoots) > 0 {
		c.DataRoots = append([]string(nil), o.DataRoots...)
	}
	if o.ParamsPath != "" {
		c.ParamsPath = o.ParamsPath
	}
	if o.SkipTargets {
		c.SkipTargets = true
	}
	if o.Downsample > 0 {
		c.Downsample = o.Downsample
	}
	if o.Tolerance > 0 {
		c.Tolerance = o.Tolerance
	}
	if o.NumWorkers > 0 {
		c.NumWorkers = o.NumWorkers
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.PlotPath != "" {
		c.PlotPath = o.PlotPath
	}
	if o.ExportDir != "" {
		c.ExportDir = o.ExportDir
	}
}

// Validate verifies the config is runnable and fills defaults.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.FixturesDir == "" && len(c.DataRoots) == 0 {
		return errors.New("either fixtures_dir or data_roots must be set")
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be >= 0 (got %g)", c.Tolerance)
	}
	if c.SeqLength < 0 {
		return fmt.Errorf("seq_length must be >= 0 (got %d)", c.SeqLength)
	}
	if c.Downsample < 0 {
		return fmt.Errorf("downsample must be >= 0 (got %d)", c.Downsample)
	}
	if c.Window < 0 || c.Stride < 0 {
		return fmt.Errorf("window and stride must be >= 0 (got %d, %d)", c.Window, c.Stride)
	}
	if c.Window > 0 && c.Stride == 0 {
		c.Stride = c.Window
	}
	if c.HiddenSize < 0 {
		return fmt.Errorf("hidden_size must be >= 0 (got %d)", c.HiddenSize)
	}
	if len(c.DataRoots) > 0 && c.ParamsPath == "" && c.HiddenSize == 0 {
		return errors.New("data_roots need params_path or hidden_size")
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("num_workers must be >= 0 (got %d)", c.NumWorkers)
	}
	if c.NumWorkers == 0 {
		c.NumWorkers = 1
	}
	if c.Tolerance == 0 {
		c.Tolerance = defaultTolerance
	}
	if c.LogEvery <= 0 {
		c.LogEvery = defaultLogEvery
	}
	return nil
}

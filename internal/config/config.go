// Package config loads curator configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is searched in the working directory when no --config flag
// is given.
const DefaultPath = "curator.yaml"

// Config holds all curator configuration.
type Config struct {
	// Source describes the upstream NOMAD deployment.
	Source SourceConfig `yaml:"source"`

	// Sampling controls the reproducible sampling runs.
	Sampling SamplingConfig `yaml:"sampling"`

	// Output controls manifest and cache locations.
	Output OutputConfig `yaml:"output"`

	// Logging controls log verbosity.
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig configures the catalog fetch.
type SourceConfig struct {
	BaseURL  string `yaml:"base_url"`
	Owner    string `yaml:"owner"`
	Program  string `yaml:"program"`
	PageSize int    `yaml:"page_size"`
}

// SamplingConfig configures the sampling engine.
type SamplingConfig struct {
	Seed       int64  `yaml:"seed"`
	Targets    []int  `yaml:"targets"`
	FilePrefix string `yaml:"file_prefix"`
}

// OutputConfig configures where results land on disk.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	CachePath string `yaml:"cache_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration, matching the public NOMAD
// deployment and the historical curation defaults.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:  "https://nomad-lab.eu/prod/v1/api/v1",
			Owner:    "visible",
			Program:  "ORCA",
			PageSize: 1000,
		},
		Sampling: SamplingConfig{
			Seed:       123456,
			Targets:    []int{500, 2000},
			FilePrefix: "sample_mainauthor",
		},
		Output: OutputConfig{
			Dir:       ".",
			CachePath: "curator-cache.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, layering file values over defaults
// and environment overrides over both. An empty path falls back to
// DefaultPath if that file exists; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults apply.
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment environments redirect the fetch
// without editing the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NOMAD_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("NOMAD_OWNER"); v != "" {
		c.Source.Owner = v
	}
	if v := os.Getenv("NOMAD_PROGRAM"); v != "" {
		c.Source.Program = v
	}
}

func (c *Config) validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("config: source.base_url must not be empty")
	}
	if c.Source.PageSize <= 0 {
		return fmt.Errorf("config: source.page_size must be positive, got %d", c.Source.PageSize)
	}
	if c.Sampling.FilePrefix == "" {
		return fmt.Errorf("config: sampling.file_prefix must not be empty")
	}
	return nil
}

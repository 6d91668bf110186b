package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://nomad-lab.eu/prod/v1/api/v1", cfg.Source.BaseURL)
	assert.Equal(t, "visible", cfg.Source.Owner)
	assert.Equal(t, "ORCA", cfg.Source.Program)
	assert.Equal(t, 1000, cfg.Source.PageSize)
	assert.Equal(t, int64(123456), cfg.Sampling.Seed)
	assert.Equal(t, []int{500, 2000}, cfg.Sampling.Targets)
	assert.Equal(t, "sample_mainauthor", cfg.Sampling.FilePrefix)
}

func TestLoad(t *testing.T) {
	t.Run("file values layer over defaults", func(t *testing.T) {
		path := writeConfig(t, `
source:
  owner: public
  program: VASP
sampling:
  seed: 42
  targets: [100]
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "public", cfg.Source.Owner)
		assert.Equal(t, "VASP", cfg.Source.Program)
		assert.Equal(t, int64(42), cfg.Sampling.Seed)
		assert.Equal(t, []int{100}, cfg.Sampling.Targets)
		// Untouched sections keep their defaults.
		assert.Equal(t, 1000, cfg.Source.PageSize)
		assert.Equal(t, "sample_mainauthor", cfg.Sampling.FilePrefix)
	})

	t.Run("missing explicit path fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := writeConfig(t, "source: [broken")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid page size rejected", func(t *testing.T) {
		path := writeConfig(t, "source:\n  page_size: -5\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page_size")
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("NOMAD_BASE_URL", "https://staging.example.org/api/v1")
		t.Setenv("NOMAD_OWNER", "public")
		t.Setenv("NOMAD_PROGRAM", "Gaussian")

		path := writeConfig(t, "source:\n  owner: visible\n  program: ORCA\n")
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "https://staging.example.org/api/v1", cfg.Source.BaseURL)
		assert.Equal(t, "public", cfg.Source.Owner)
		assert.Equal(t, "Gaussian", cfg.Source.Program)
	})

	t.Run("empty environment values are ignored", func(t *testing.T) {
		t.Setenv("NOMAD_BASE_URL", "")

		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "https://nomad-lab.eu/prod/v1/api/v1", cfg.Source.BaseURL)
	})
}

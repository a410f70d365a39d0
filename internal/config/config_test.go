package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, 50.0, cfg.UnitPixels)
	assert.Equal(t, 100, cfg.ParametricSteps)
	assert.Equal(t, 0.005, cfg.AnimationStep)
	assert.Len(t, cfg.Palette, 6)
}

func TestValidateConfigRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *AppConfig)
	}{
		{"log output", func(c *AppConfig) { c.LogOutput = "x" }},
		{"log level", func(c *AppConfig) { c.LogLevel = "shouty" }},
		{"tiny canvas", func(c *AppConfig) { c.CanvasWidth = 2 }},
		{"zoom range", func(c *AppConfig) { c.MinZoom = 300 }},
		{"default zoom", func(c *AppConfig) { c.DefaultZoom = 5 }},
		{"steps", func(c *AppConfig) { c.ParametricSteps = 0 }},
		{"animation step", func(c *AppConfig) { c.AnimationStep = 1.5 }},
		{"palette", func(c *AppConfig) { c.Palette = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edutune.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas_width: 640\nparametric_steps: 250\n"), 0644))

	t.Setenv("EDUTUNE_CANVAS_HEIGHT", "480")
	t.Setenv("EDUTUNE_DOTENV", filepath.Join(dir, "missing.env"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.CanvasWidth)
	assert.Equal(t, 480, cfg.CanvasHeight)
	assert.Equal(t, 250, cfg.ParametricSteps)
	assert.Equal(t, "mcp___", cfg.ToolPrefix)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("EDUTUNE_POINT_RADIUS=7\n"), 0644))
	t.Setenv("EDUTUNE_DOTENV", envPath)
	defer os.Unsetenv("EDUTUNE_POINT_RADIUS")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7.0, cfg.PointRadius)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_OverridesAndDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
width: 320
height: 240
shading: forward
workers: 2
shadow:
  resolution: 512
  bias: fixed
window:
  present_mode: mailbox
debug: true
`))
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
	assert.Equal(t, "umbra", cfg.Title)
	assert.Equal(t, 512, cfg.Shadow.Resolution)
	assert.Equal(t, light.DefaultShadowHalfExtent, cfg.Shadow.HalfExtent)
	assert.True(t, cfg.Debug)

	mode, err := cfg.ShadingMode()
	require.NoError(t, err)
	assert.Equal(t, deferred.ModeForward, mode)

	bias, err := cfg.BiasMode()
	require.NoError(t, err)
	assert.Equal(t, light.BiasFixed, bias)

	opts, err := cfg.RendererOptions(cfg.Logger("test"))
	require.NoError(t, err)
	r := deferred.NewRenderer(opts...)
	defer r.Close()
	assert.Equal(t, deferred.ModeForward, r.Mode())
	assert.Equal(t, light.BiasFixed, r.BiasMode())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative width", "width: -1"},
		{"unknown shading", "shading: raytraced"},
		{"unknown bias", "shadow: {bias: cascaded}"},
		{"tiny shadow map", "shadow: {resolution: 4}"},
		{"empty clip range", "shadow: {near: 10, far: 5}"},
		{"present mode", "window: {present_mode: vsync}"},
		{"negative workers", "workers: -3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("widht: 10"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Width = 0
	cfg.Shadow.Bias = "nope"
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "size 0x720")
	assert.Contains(t, err.Error(), "nope")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "umbra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: editor\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "editor", cfg.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

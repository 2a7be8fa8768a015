package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/thickview/pkg/colormap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, colormap.DefaultParams(), p)
}

func TestLoadMissingFileGivesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thickview.toml")
	src := `
unit = "in"

[gradient]
start = "#00ff00"
bound = 2.5

[camera]
fovy = 45

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "in", cfg.Unit)
	assert.Equal(t, 45.0, cfg.Camera.Fovy)
	assert.Equal(t, Default().Camera.Width, cfg.Camera.Width, "unset keys keep defaults")

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), p.Start.G)
	assert.Equal(t, colormap.DefaultEnd, p.End)
	assert.Equal(t, colormap.ThresholdMode(2.5), p.Mode)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, logger.DEBUG, lvl)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"malformed", "[gradient\nstart = 1", ""},
		{"unknown key", "[gradient]\nstrat = \"#fff\"", ""},
		{"bad color", "[gradient]\nstart = \"#xyz\"", "gradient start"},
		{"bad level", "[log]\nlevel = \"loud\"", "unknown log level"},
		{"zero window", "[window]\nwidth = 0", "window size"},
		{"bad fovy", "[camera]\nfovy = 180", "fovy"},
		{"bad supersample", "[camera]\nsupersample = 0", "supersample"},
		{"nan transparency", "[gradient]\ntransparency = nan", "transparency NaN is not a finite number"},
		{"inf transparency", "[gradient]\ntransparency = -inf", "not a finite number"},
		{"inf bound", "[gradient]\nbound = inf", "bound +Inf is not a finite number"},
		{"nan bound", "[gradient]\nbound = nan", "not a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestLoadReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("unit = "), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestTransparencyClamped(t *testing.T) {
	cfg := Default()
	cfg.Gradient.Transparency = 3
	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Transparency)

	cfg.Gradient.Transparency = -1
	p, err = cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Transparency)
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Gradient.Bound = 1.25
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

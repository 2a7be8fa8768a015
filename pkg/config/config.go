// Package config loads thickview settings from a TOML file.
//
// A missing file is not an error; Default is used instead. Unknown keys
// are rejected so typos surface instead of silently keeping a default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/chazu/thickview/pkg/colormap"
	"github.com/pelletier/go-toml/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Window holds the desktop window geometry.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Gradient seeds the visualization parameters.
type Gradient struct {
	Start        string  `toml:"start"`
	End          string  `toml:"end"`
	Transparency float64 `toml:"transparency"`
	Bound        float64 `toml:"bound"`
}

// Camera positions the headless snapshot camera.
type Camera struct {
	Eye         [3]float64 `toml:"eye"`
	Center      [3]float64 `toml:"center"`
	Up          [3]float64 `toml:"up"`
	Fovy        float64    `toml:"fovy"`
	Width       int        `toml:"width"`
	Height      int        `toml:"height"`
	Supersample int        `toml:"supersample"`
}

// Log selects the log level: trace, debug, info, warning or error.
type Log struct {
	Level string `toml:"level"`
}

// Config is the full settings file.
type Config struct {
	Window   Window   `toml:"window"`
	Gradient Gradient `toml:"gradient"`
	Camera   Camera   `toml:"camera"`
	Log      Log      `toml:"log"`
	Unit     string   `toml:"unit"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Window: Window{Title: "thickview", Width: 1024, Height: 768},
		Gradient: Gradient{
			Start:        colormap.Hex(colormap.DefaultStart),
			End:          colormap.Hex(colormap.DefaultEnd),
			Transparency: 1,
		},
		Camera: Camera{
			Eye:         [3]float64{3, 2, 4},
			Center:      [3]float64{0, 0, 0},
			Up:          [3]float64{0, 0, 1},
			Fovy:        30,
			Width:       800,
			Height:      600,
			Supersample: 2,
		},
		Log:  Log{Level: "info"},
		Unit: "mm",
	}
}

// Load reads path over Default. A missing file yields Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over Default and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks values that cannot be clamped sensibly.
func (c Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera size %dx%d must be positive", c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.Supersample < 1 {
		return fmt.Errorf("camera supersample %d must be at least 1", c.Camera.Supersample)
	}
	if c.Camera.Fovy <= 0 || c.Camera.Fovy >= 180 {
		return fmt.Errorf("camera fovy %g out of range (0, 180)", c.Camera.Fovy)
	}
	return nil
}

// Params converts the gradient section into visualization parameters.
// Transparency is clamped to [0, 1]; a zero bound means continuous mode.
func (c Config) Params() (colormap.Params, error) {
	start, err := colormap.ParseHex(c.Gradient.Start)
	if err != nil {
		return colormap.Params{}, fmt.Errorf("gradient start: %w", err)
	}
	end, err := colormap.ParseHex(c.Gradient.End)
	if err != nil {
		return colormap.Params{}, fmt.Errorf("gradient end: %w", err)
	}
	t := c.Gradient.Transparency
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return colormap.Params{}, fmt.Errorf("gradient transparency %v is not a finite number", t)
	}
	if b := c.Gradient.Bound; math.IsNaN(b) || math.IsInf(b, 0) {
		return colormap.Params{}, fmt.Errorf("gradient bound %v is not a finite number", b)
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return colormap.Params{
		Start:        start,
		End:          end,
		Transparency: t,
		Mode:         colormap.ModeForBound(c.Gradient.Bound),
	}, nil
}

// LogLevel maps the log section to a wails log level.
func (c Config) LogLevel() (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "trace":
		return logger.TRACE, nil
	case "debug":
		return logger.DEBUG, nil
	case "", "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	}
	return logger.INFO, fmt.Errorf("unknown log level %q", c.Log.Level)
}

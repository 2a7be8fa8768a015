package main

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/chazu/thickview/pkg/config"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

// configPath is $THICKVIEW_CONFIG, or thickview/config.toml under the
// user config directory.
func configPath() string {
	if p := os.Getenv("THICKVIEW_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "thickview.toml"
	}
	return filepath.Join(dir, "thickview", "config.toml")
}

func main() {
	log := logger.NewDefaultLogger()

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Error(err.Error())
		cfg = config.Default()
	}
	level, err := cfg.LogLevel()
	if err != nil {
		log.Warning(err.Error())
	}

	app, err := NewApp(cfg, log)
	if err != nil {
		log.Fatal(err.Error())
	}

	err = wails.Run(&options.App{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		Logger:           log,
		LogLevel:         level,
		OnStartup:        app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal(err.Error())
	}
}

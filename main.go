package main

import (
	"embed"
	"log/slog"
	"os"

	"github.com/chazu/brickyard/pkg/config"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

// settingsEnv names an optional YAML settings file.
const settingsEnv = config.EnvPrefix + "_SETTINGS_FILE"

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	settings, err := config.Load(os.Getenv(settingsEnv))
	if err != nil {
		log.Error("settings", "err", err)
		os.Exit(1)
	}
	app, err := NewApp(settings, log)
	if err != nil {
		log.Error("init", "err", err)
		os.Exit(1)
	}

	err = wails.Run(&options.App{
		Title:       "brickyard",
		Width:       1280,
		Height:      800,
		AssetServer: &assetserver.Options{Assets: assets},
		OnStartup:   app.startup,
		OnShutdown:  app.shutdown,
		Bind:        []interface{}{app},
	})
	if err != nil {
		log.Error("wails", "err", err)
		os.Exit(1)
	}
}

package main

import (
	"embed"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"
	"go.aimuz.me/voicelab/config"
	"go.aimuz.me/voicelab/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func setupLogging(level slog.Level) {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))
}

func main() {
	setupLogging(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		cfg = config.Default()
	}
	setupLogging(cfg.SlogLevel())

	slog.Info("starting app", "version", version, "commit", commit, "date", date)
	service := app.New(version)

	wailsApp := application.New(application.Options{
		Name:        "Voice Lab",
		Description: "Push-to-talk dictation",
		Services: []application.Service{
			application.NewService(service),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	mainWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:  "Voice Lab",
		Width:  480,
		Height: 320,
		URL:    "/",
	})

	// Hide instead of destroy: dictation keeps working without a visible window.
	mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		mainWindow.Hide()
	})

	// Native registration on darwin dispatches to the main queue, which only
	// drains once the run loop is up.
	wailsApp.Event.OnApplicationEvent(events.Common.ApplicationStarted, func(*application.ApplicationEvent) {
		if err := service.Init(wailsApp, cfg); err != nil {
			slog.Error("init push-to-talk", "error", err)
			wailsApp.Quit()
			os.Exit(1)
		}
	})
	defer service.Shutdown()

	if err := wailsApp.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
}

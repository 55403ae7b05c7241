package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	focusapp "focusisland/internal/app"
	"focusisland/internal/config"
	"focusisland/internal/core/engine"
	"focusisland/internal/core/quotes"
	"focusisland/internal/notify"
	"focusisland/internal/platform"
	"focusisland/internal/sound"
	"focusisland/internal/storage"
	"focusisland/internal/ui/dashboard"
	"focusisland/internal/ui/fullscreen"
	"focusisland/internal/ui/island"
	"focusisland/internal/ui/search"
	"focusisland/internal/ui/tray"
	"focusisland/internal/weather"
	"focusisland/resources"
)

func main() {
	cfg, cfgErr := config.Load(focusapp.AppName)
	logger := newLogger(cfg.LogLevel)
	if cfgErr != nil {
		logger.Warn("load config", "error", cfgErr)
	}

	guard, err := platform.AcquireSingleInstance(focusapp.AppName)
	if err != nil {
		logger.Error("another instance is already running")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	store := openStore(cfg, logger)
	defer store.Close()

	settings := focusapp.LoadSettings(store, logger)

	eng := engine.New(settings.TimerConfig(), engine.Options{TickInterval: time.Second})
	eng.SetIdleChecker(platform.NewIdleProvider())

	fyneApp := fyneapp.NewWithID("io.focusisland.app")
	fyneApp.SetIcon(resources.MustIcon("app.png"))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	player := sound.NewPlayer(logger)
	dispatcher := notify.NewDispatcher(fyneApp, player, settings.AlarmSound)
	controller := focusapp.New(logger, store, eng, dispatcher, settings)

	islandWidget := island.New(fyneApp, island.Callbacks{
		OnToggle: controller.Toggle,
		OnExpand: controller.ExpandDashboard,
	})
	dash := dashboard.New(fyneApp, settings, dashboard.Callbacks{
		OnToggle:       controller.Toggle,
		OnReset:        controller.Reset,
		OnSkip:         controller.Skip,
		OnFullscreen:   controller.EnterFullscreen,
		OnAddTask:      controller.AddTask,
		OnToggleTask:   controller.SetTaskCompleted,
		OnDeleteTask:   controller.DeleteTask,
		OnSelectTask:   controller.SelectTask,
		OnSaveSettings: controller.SaveSettings,
	})
	focusView := fullscreen.New(fyneApp, quotes.NewPicker(nil), fullscreen.Callbacks{
		OnToggle: controller.Toggle,
		OnExit:   controller.ExitFullscreen,
	})
	searchBar := search.New(fyneApp, logger, settings.SearchEngine)
	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnShow:       controller.ShowIsland,
		OnHide:       controller.HideAll,
		OnFullscreen: controller.EnterFullscreen,
		OnSearch:     controller.ToggleQuickSearch,
		OnToggle:     controller.Toggle,
		OnReset:      controller.Reset,
		OnQuit: func() {
			controller.Shutdown()
			fyneApp.Quit()
		},
	})
	controller.AttachUI(islandWidget, dash, focusView, trayManager, searchBar)

	registerShortcuts(islandWidget.Window(), controller, false)
	registerShortcuts(dash.Window(), controller, false)
	registerShortcuts(focusView.Window(), controller, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WeatherEnabled {
		poller := weather.NewPoller(weather.NewClient(), cfg.WeatherLocation,
			cfg.WeatherRefresh, controller.HandleWeather, logger)
		go poller.Run(ctx)
	}

	eng.Run() // spawns its own tick goroutine
	go controller.Run()

	controller.RefreshTasks()
	controller.RefreshStats()
	islandWidget.Show()
	fyneApp.Run()

	cancel()
	controller.Shutdown()
}

type shortcutTarget interface {
	Toggle()
	Reset()
	ToggleFullscreen()
	ExitFullscreen()
	ToggleQuickSearch()
	HideAll()
}

// registerShortcuts wires Space (toggle), R (reset), F11 (fullscreen),
// Alt+Space (quick search) and Esc (collapse, or exit fullscreen) on a
// window's canvas.
func registerShortcuts(window fyne.Window, target shortcutTarget, inFullscreen bool) {
	window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		switch event.Name {
		case fyne.KeySpace:
			target.Toggle()
		case fyne.KeyR:
			target.Reset()
		case fyne.KeyF11:
			target.ToggleFullscreen()
		case fyne.KeyEscape:
			if inFullscreen {
				target.ExitFullscreen()
			} else {
				window.Hide()
			}
		}
	})
	window.Canvas().AddShortcut(
		&desktop.CustomShortcut{KeyName: fyne.KeySpace, Modifier: fyne.KeyModifierAlt},
		func(fyne.Shortcut) { target.ToggleQuickSearch() },
	)
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)
	return logger
}

// openStore opens the SQLite database, falling back to an in-memory store
// so the timer is never blocked by persistence trouble.
func openStore(cfg config.Config, logger *slog.Logger) storage.Store {
	path, err := cfg.DatabasePath(focusapp.AppName)
	if err != nil {
		logger.Error("resolve database path, using in-memory store", "error", err)
		return storage.NewMemoryStore()
	}
	store, err := storage.Open(path)
	if err != nil {
		logger.Error("open database, using in-memory store", "path", path, "error", err)
		return storage.NewMemoryStore()
	}
	logger.Info("database ready", "path", path)
	return store
}

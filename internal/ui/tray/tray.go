// Package tray manages the system tray menu and status line.
package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"focusisland/internal/core/engine"
	"focusisland/internal/core/model"
	"focusisland/resources"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow       func()
	OnHide       func()
	OnFullscreen func()
	OnSearch     func()
	OnToggle     func()
	OnReset      func()
	OnQuit       func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	menu       *fyne.Menu
	icons      map[string]fyne.Resource
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		icons:     loadIcons(),
	}

	manager.statusItem = fyne.NewMenuItem("Ready", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggle != nil {
			manager.callbacks.OnToggle()
		}
	})

	manager.menu = fyne.NewMenu("FocusIsland",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		fyne.NewMenuItem("Fullscreen Mode", func() {
			if manager.callbacks.OnFullscreen != nil {
				manager.callbacks.OnFullscreen()
			}
		}),
		fyne.NewMenuItem("Quick Search", func() {
			if manager.callbacks.OnSearch != nil {
				manager.callbacks.OnSearch()
			}
		}),
		fyne.NewMenuItem("Hide", func() {
			if manager.callbacks.OnHide != nil {
				manager.callbacks.OnHide()
			}
		}),
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("Reset", func() {
			if manager.callbacks.OnReset != nil {
				manager.callbacks.OnReset()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
	app.SetSystemTrayMenu(manager.menu)
	if icon, ok := manager.icons["idle"]; ok {
		app.SetSystemTrayIcon(icon)
	}

	return manager
}

// Update refreshes the status line, toggle label and tray icon from the
// current engine state.
func (manager *Manager) Update(state engine.State, phase model.Phase, remaining time.Duration) {
	icon := "idle"
	switch state {
	case engine.StateRunning:
		if phase == model.PhaseBreak {
			manager.statusItem.Label = fmt.Sprintf("On a break · %s", formatDuration(remaining))
			icon = "break"
		} else {
			manager.statusItem.Label = fmt.Sprintf("Focusing · %s", formatDuration(remaining))
			icon = "work"
		}
		manager.toggleItem.Label = "Pause"
	case engine.StatePaused:
		manager.statusItem.Label = fmt.Sprintf("Paused · %s", formatDuration(remaining))
		manager.toggleItem.Label = "Resume"
		icon = "paused"
	default:
		manager.statusItem.Label = "Ready"
		manager.toggleItem.Label = "Start"
	}

	manager.menu.Refresh()
	if resource, ok := manager.icons[icon]; ok {
		manager.app.SetSystemTrayIcon(resource)
	}
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func loadIcons() map[string]fyne.Resource {
	icons := make(map[string]fyne.Resource, 4)
	for _, name := range []string{"idle", "work", "break", "paused"} {
		if resource, err := resources.Icon("tray_" + name + ".png"); err == nil {
			icons[name] = resource
		}
	}
	return icons
}

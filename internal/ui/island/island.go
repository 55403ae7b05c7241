// Package island renders the compact always-on-top pill widget: timer,
// current task, weather glyph and a breathing accent while running.
package island

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"focusisland/internal/core/engine"
	"focusisland/internal/core/model"
	"focusisland/internal/weather"
)

// Callbacks defines the pill's input handlers.
type Callbacks struct {
	OnToggle func()
	OnExpand func()
}

var (
	pillBackground = color.NRGBA{R: 24, G: 26, B: 38, A: 235}
	workAccent     = color.NRGBA{R: 88, G: 170, B: 90, A: 255}
	breakAccent    = color.NRGBA{R: 235, G: 170, B: 70, A: 255}
	pausedAccent   = color.NRGBA{R: 215, G: 120, B: 80, A: 255}
	idleAccent     = color.NRGBA{R: 120, G: 124, B: 150, A: 255}
	textColor      = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	dimTextColor   = color.NRGBA{R: 168, G: 172, B: 190, A: 255}
)

const (
	pillWidth  = float32(340)
	pillHeight = float32(64)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Widget manages the island pill window.
type Widget struct {
	app       fyne.App
	window    fyne.Window
	callbacks Callbacks

	background   *canvas.Rectangle
	accent       *canvas.Rectangle
	timerLabel   *canvas.Text
	taskLabel    *canvas.Text
	weatherLabel *canvas.Text
	toggleButton *widget.Button

	accentBase color.NRGBA
	visible    bool
}

// New creates the island window. The splash-window driver gives a frameless
// always-on-top surface where the platform supports it.
func New(app fyne.App, callbacks Callbacks) *Widget {
	window := app.NewWindow("FocusIsland")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(pillBackground)
	background.CornerRadius = pillHeight / 2

	accent := canvas.NewRectangle(idleAccent)
	accent.CornerRadius = 3

	timerLabel := canvas.NewText("25:00", textColor)
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 24

	taskLabel := canvas.NewText("No task selected", dimTextColor)
	taskLabel.TextSize = 12

	weatherLabel := canvas.NewText("", dimTextColor)
	weatherLabel.TextSize = 13

	toggleButton := widget.NewButton("Start", nil)
	expandButton := widget.NewButton("⤢", nil)

	content := container.New(&pillLayout{},
		accent, timerLabel, taskLabel, weatherLabel, toggleButton, expandButton)
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(pillWidth, pillHeight))

	island := &Widget{
		app:          app,
		window:       window,
		callbacks:    callbacks,
		background:   background,
		accent:       accent,
		timerLabel:   timerLabel,
		taskLabel:    taskLabel,
		weatherLabel: weatherLabel,
		toggleButton: toggleButton,
		accentBase:   idleAccent,
	}

	toggleButton.OnTapped = func() {
		if island.callbacks.OnToggle != nil {
			island.callbacks.OnToggle()
		}
	}
	expandButton.OnTapped = func() {
		if island.callbacks.OnExpand != nil {
			island.callbacks.OnExpand()
		}
	}

	return island
}

// Window exposes the underlying window for shortcut registration.
func (island *Widget) Window() fyne.Window {
	return island.window
}

// Show displays the pill.
func (island *Widget) Show() {
	island.visible = true
	island.window.Show()
	island.applyNativeOpacity(235)
}

// Hide conceals the pill without quitting the app.
func (island *Widget) Hide() {
	island.visible = false
	island.window.Hide()
}

// Visible reports whether the pill is currently shown.
func (island *Widget) Visible() bool {
	return island.visible
}

// SetRemaining updates the countdown text.
func (island *Widget) SetRemaining(remaining time.Duration) {
	island.timerLabel.Text = formatDuration(remaining)
	island.timerLabel.Refresh()
}

// SetTaskName shows which task the session counts toward.
func (island *Widget) SetTaskName(name string) {
	if name == "" {
		name = "No task selected"
	}
	island.taskLabel.Text = name
	island.taskLabel.Refresh()
}

// SetWeather updates the weather corner of the pill.
func (island *Widget) SetWeather(report weather.Report) {
	island.weatherLabel.Text = fmt.Sprintf("%s %s", report.Glyph, report.DisplayTemp())
	island.weatherLabel.Refresh()
}

// SetState recolors the accent and relabels the toggle for the given
// engine state.
func (island *Widget) SetState(state engine.State, phase model.Phase) {
	switch state {
	case engine.StateRunning:
		island.accentBase = workAccent
		if phase == model.PhaseBreak {
			island.accentBase = breakAccent
		}
		island.toggleButton.SetText("Pause")
	case engine.StatePaused:
		island.accentBase = pausedAccent
		island.toggleButton.SetText("Resume")
	default:
		island.accentBase = idleAccent
		island.toggleButton.SetText("Start")
	}
	island.accent.FillColor = island.accentBase
	island.accent.Refresh()
}

// SetAccentIntensity dims or brightens the accent bar; driven by the
// animation engine. Safe to call from any goroutine.
func (island *Widget) SetAccentIntensity(intensity float64) {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	fyne.Do(func() {
		shaded := island.accentBase
		shaded.A = uint8(120 + intensity*135)
		island.accent.FillColor = shaded
		island.accent.Refresh()
	})
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// pillLayout places the accent bar on the left edge, timer and task text
// beside it, weather and buttons on the right.
type pillLayout struct{}

func (layout *pillLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 6 {
		return
	}
	accent := objects[0]
	timer := objects[1]
	task := objects[2]
	weatherText := objects[3]
	toggle := objects[4]
	expand := objects[5]

	pad := float32(14)

	accent.Move(fyne.NewPos(pad, size.Height*0.2))
	accent.Resize(fyne.NewSize(6, size.Height*0.6))

	textX := pad + 6 + 10
	timerSize := timer.MinSize()
	timer.Move(fyne.NewPos(textX, size.Height*0.12))
	timer.Resize(timerSize)

	taskSize := task.MinSize()
	task.Move(fyne.NewPos(textX, size.Height*0.12+timerSize.Height+2))
	task.Resize(taskSize)

	expandSize := fyne.NewSize(34, 30)
	expand.Resize(expandSize)
	expand.Move(fyne.NewPos(size.Width-pad-expandSize.Width, (size.Height-expandSize.Height)/2))

	toggleSize := fyne.NewSize(74, 30)
	toggle.Resize(toggleSize)
	toggle.Move(fyne.NewPos(size.Width-pad-expandSize.Width-6-toggleSize.Width, (size.Height-toggleSize.Height)/2))

	weatherSize := weatherText.MinSize()
	weatherX := size.Width - pad - expandSize.Width - 6 - toggleSize.Width - 10 - weatherSize.Width
	weatherText.Move(fyne.NewPos(weatherX, (size.Height-weatherSize.Height)/2))
	weatherText.Resize(weatherSize)
}

func (layout *pillLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(pillWidth, pillHeight)
}

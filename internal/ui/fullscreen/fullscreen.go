// Package fullscreen is the distraction-free focus view: wall clock,
// greeting, weather, a motivational quote and the large countdown.
package fullscreen

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"focusisland/internal/core/engine"
	"focusisland/internal/core/model"
	"focusisland/internal/core/quotes"
	"focusisland/internal/weather"
)

// Callbacks defines fullscreen input handlers.
type Callbacks struct {
	OnToggle func()
	OnExit   func()
}

var (
	backdropColor = color.NRGBA{R: 14, G: 15, B: 24, A: 255}
	clockColor    = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	mutedColor    = color.NRGBA{R: 168, G: 172, B: 190, A: 255}
	timerColor    = color.NRGBA{R: 132, G: 196, B: 134, A: 255}
)

// View manages the fullscreen window.
type View struct {
	window    fyne.Window
	callbacks Callbacks
	picker    *quotes.Picker

	clockLabel    *canvas.Text
	greetingLabel *canvas.Text
	weatherLabel  *canvas.Text
	timerLabel    *canvas.Text
	quoteLabel    *canvas.Text
	authorLabel   *canvas.Text
	toggleButton  *widget.Button

	clockCancel context.CancelFunc
}

// New creates the fullscreen view.
func New(app fyne.App, picker *quotes.Picker, callbacks Callbacks) *View {
	window := app.NewWindow("FocusIsland — Focus")
	window.SetPadded(false)

	backdrop := canvas.NewRectangle(backdropColor)

	clockLabel := canvas.NewText("--:--", clockColor)
	clockLabel.TextSize = 72
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.Alignment = fyne.TextAlignCenter

	greetingLabel := canvas.NewText("", mutedColor)
	greetingLabel.TextSize = 22
	greetingLabel.Alignment = fyne.TextAlignCenter

	weatherLabel := canvas.NewText("", mutedColor)
	weatherLabel.TextSize = 18
	weatherLabel.Alignment = fyne.TextAlignCenter

	timerLabel := canvas.NewText("25:00", timerColor)
	timerLabel.TextSize = 48
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.Alignment = fyne.TextAlignCenter

	quoteLabel := canvas.NewText("", clockColor)
	quoteLabel.TextSize = 16
	quoteLabel.Alignment = fyne.TextAlignCenter

	authorLabel := canvas.NewText("", mutedColor)
	authorLabel.TextSize = 13
	authorLabel.Alignment = fyne.TextAlignCenter

	view := &View{
		window:        window,
		callbacks:     callbacks,
		picker:        picker,
		clockLabel:    clockLabel,
		greetingLabel: greetingLabel,
		weatherLabel:  weatherLabel,
		timerLabel:    timerLabel,
		quoteLabel:    quoteLabel,
		authorLabel:   authorLabel,
	}

	view.toggleButton = widget.NewButton("Start", func() {
		if view.callbacks.OnToggle != nil {
			view.callbacks.OnToggle()
		}
	})
	exitButton := widget.NewButton("Exit", func() {
		if view.callbacks.OnExit != nil {
			view.callbacks.OnExit()
		}
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		clockLabel,
		greetingLabel,
		weatherLabel,
		layout.NewSpacer(),
		timerLabel,
		container.NewHBox(layout.NewSpacer(), view.toggleButton, exitButton, layout.NewSpacer()),
		layout.NewSpacer(),
		quoteLabel,
		authorLabel,
		layout.NewSpacer(),
	)

	window.SetContent(container.NewStack(backdrop, content))
	window.SetCloseIntercept(func() {
		if view.callbacks.OnExit != nil {
			view.callbacks.OnExit()
		}
	})

	return view
}

// Window exposes the underlying window for shortcut registration.
func (view *View) Window() fyne.Window {
	return view.window
}

// Show enters fullscreen, refreshes the quote and starts the wall clock.
func (view *View) Show() {
	view.refreshClock(time.Now())

	quote := view.picker.Motivational()
	view.quoteLabel.Text = "“" + quote.Text + "”"
	view.authorLabel.Text = "— " + quote.Author
	view.quoteLabel.Refresh()
	view.authorLabel.Refresh()

	view.window.SetFullScreen(true)
	view.window.Show()
	view.window.RequestFocus()
	view.startClock()
}

// Hide leaves fullscreen and stops the wall clock.
func (view *View) Hide() {
	view.stopClock()
	view.window.SetFullScreen(false)
	view.window.Hide()
}

// SetRemaining updates the countdown text.
func (view *View) SetRemaining(remaining time.Duration) {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	view.timerLabel.Text = fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
	view.timerLabel.Refresh()
}

// SetState relabels the toggle button and shows a break quote when a
// break starts.
func (view *View) SetState(state engine.State, phase model.Phase) {
	switch state {
	case engine.StateRunning:
		view.toggleButton.SetText("Pause")
		if phase == model.PhaseBreak {
			quote := view.picker.Break()
			view.quoteLabel.Text = "“" + quote.Text + "”"
			view.authorLabel.Text = "— " + quote.Author
			view.quoteLabel.Refresh()
			view.authorLabel.Refresh()
		}
	case engine.StatePaused:
		view.toggleButton.SetText("Resume")
	default:
		view.toggleButton.SetText("Start")
	}
}

// SetWeather updates the conditions line.
func (view *View) SetWeather(report weather.Report) {
	view.weatherLabel.Text = fmt.Sprintf("%s %s · %s · %s",
		report.Glyph, report.DisplayTemp(), report.Condition, report.Location)
	view.weatherLabel.Refresh()
}

func (view *View) startClock() {
	view.stopClock()
	ctx, cancel := context.WithCancel(context.Background())
	view.clockCancel = cancel

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				fyne.Do(func() { view.refreshClock(now) })
			}
		}
	}()
}

func (view *View) stopClock() {
	if view.clockCancel != nil {
		view.clockCancel()
		view.clockCancel = nil
	}
}

func (view *View) refreshClock(now time.Time) {
	view.clockLabel.Text = now.Format("15:04")
	view.clockLabel.Refresh()
	view.greetingLabel.Text = greetingFor(now.Hour())
	view.greetingLabel.Refresh()
}

func greetingFor(hour int) string {
	switch {
	case hour < 5:
		return "Burning the midnight oil"
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	case hour < 22:
		return "Good evening"
	default:
		return "Winding down"
	}
}

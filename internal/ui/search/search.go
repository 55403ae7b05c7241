// Package search is the quick-search bar: a floating entry that opens the
// query in the default browser, with a cycling choice of engine.
package search

import (
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	barWidth      = float32(500)
	barHeight     = float32(76)
	suggestionRow = float32(36)
	maxSuggestion = 5
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Widget manages the quick-search window.
type Widget struct {
	app    fyne.App
	logger *slog.Logger
	window fyne.Window

	entry        *widget.Entry
	engineButton *widget.Button
	suggestions  *fyne.Container

	engine  string
	history History
	visible bool
}

// New creates the search bar. The splash-window driver gives a frameless
// always-on-top surface where the platform supports it.
func New(app fyne.App, logger *slog.Logger, engine string) *Widget {
	if logger == nil {
		logger = slog.Default()
	}
	if !ValidEngine(engine) {
		engine = DefaultEngine
	}

	window := app.NewWindow("Quick Search")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	search := &Widget{
		app:    app,
		logger: logger,
		window: window,
		engine: engine,
	}

	search.entry = widget.NewEntry()
	search.entry.SetPlaceHolder("Search the web...")
	search.entry.OnSubmitted = search.submit
	search.entry.OnChanged = search.refreshSuggestions

	search.engineButton = widget.NewButton("↵ "+engine, search.cycleEngine)
	search.suggestions = container.NewVBox()

	hints := widget.NewLabelWithStyle("Tab switches engine · Esc closes · Enter searches",
		fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	bar := container.NewBorder(nil, nil, widget.NewLabel("🔍"), search.engineButton, search.entry)
	window.SetContent(container.NewVBox(bar, search.suggestions, hints))
	window.Resize(fyne.NewSize(barWidth, barHeight))
	window.SetCloseIntercept(search.Hide)

	window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		switch event.Name {
		case fyne.KeyEscape:
			search.Hide()
		case fyne.KeyTab:
			search.cycleEngine()
		}
	})

	return search
}

// Window exposes the underlying window for shortcut registration.
func (search *Widget) Window() fyne.Window {
	return search.window
}

// Show centers the bar and focuses the entry.
func (search *Widget) Show() {
	search.visible = true
	search.entry.SetText("")
	search.window.CenterOnScreen()
	search.window.Show()
	search.window.Canvas().Focus(search.entry)
}

// Hide conceals the bar and clears the pending query.
func (search *Widget) Hide() {
	search.visible = false
	search.entry.SetText("")
	search.window.Hide()
}

// Toggle shows the bar, or hides it when already visible.
func (search *Widget) Toggle() {
	if search.visible {
		search.Hide()
		return
	}
	search.Show()
}

// Visible reports whether the bar is currently shown.
func (search *Widget) Visible() bool {
	return search.visible
}

// SetEngine switches the configured engine; unknown names are ignored.
func (search *Widget) SetEngine(engine string) {
	if !ValidEngine(engine) {
		return
	}
	search.engine = engine
	search.engineButton.SetText("↵ " + engine)
}

// Engine returns the engine currently in use.
func (search *Widget) Engine() string {
	return search.engine
}

func (search *Widget) cycleEngine() {
	search.SetEngine(NextEngine(search.engine))
}

func (search *Widget) submit(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	target, err := URLFor(search.engine, query)
	if err != nil {
		search.logger.Warn("build search url", "error", err)
		return
	}
	search.history.Add(query)
	if err := search.app.OpenURL(target); err != nil {
		search.logger.Warn("open browser", "error", err)
	}
	search.Hide()
}

// refreshSuggestions rebuilds the history suggestions under the entry.
func (search *Widget) refreshSuggestions(text string) {
	matches := search.history.Matches(text)
	if len(matches) > maxSuggestion {
		matches = matches[:maxSuggestion]
	}

	rows := make([]fyne.CanvasObject, 0, len(matches))
	for _, match := range matches {
		match := match
		row := widget.NewButton(match, func() { search.submit(match) })
		row.Importance = widget.LowImportance
		row.Alignment = widget.ButtonAlignLeading
		rows = append(rows, row)
	}
	search.suggestions.Objects = rows
	search.suggestions.Refresh()
	search.window.Resize(fyne.NewSize(barWidth, barHeight+float32(len(rows))*suggestionRow))
}

// Package app wires the timer engine, store and UI surfaces together.
// The Controller is the single consumer of engine events and owns all
// shared state; UI surfaces only receive explicit update calls.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"focusisland/internal/core/engine"
	"focusisland/internal/core/model"
	"focusisland/internal/notify"
	"focusisland/internal/platform"
	"focusisland/internal/storage"
	"focusisland/internal/ui/animation"
	"focusisland/internal/ui/dashboard"
	"focusisland/internal/ui/fullscreen"
	"focusisland/internal/ui/island"
	"focusisland/internal/ui/search"
	"focusisland/internal/ui/tray"
	"focusisland/internal/weather"
)

// AppName is used for config paths, autostart entries and the instance lock.
const AppName = "focusisland"

// Controller mediates between the engine, the store and the UI.
type Controller struct {
	logger     *slog.Logger
	store      storage.Store
	engine     *engine.Engine
	dispatcher *notify.Dispatcher
	animator   *animation.Engine
	service    platform.Service

	islandWidget *island.Widget
	dash         *dashboard.Window
	focusView    *fullscreen.View
	trayManager  *tray.Manager
	searchBar    *search.Widget

	settings    model.Settings
	currentTask *int64
	fullscreen  bool

	animCtx      context.Context
	animCancel   context.CancelFunc
	shutdownOnce sync.Once
}

// New builds a Controller around an already-open store and engine.
func New(logger *slog.Logger, store storage.Store, eng *engine.Engine, dispatcher *notify.Dispatcher, settings model.Settings) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		logger:     logger,
		store:      store,
		engine:     eng,
		dispatcher: dispatcher,
		service:    platform.NewService(),
		settings:   settings,
		animCtx:    ctx,
		animCancel: cancel,
	}
}

// AttachUI hands the controller its UI surfaces. Must be called before Run.
func (controller *Controller) AttachUI(islandWidget *island.Widget, dash *dashboard.Window, focusView *fullscreen.View, trayManager *tray.Manager, searchBar *search.Widget) {
	controller.islandWidget = islandWidget
	controller.dash = dash
	controller.focusView = focusView
	controller.trayManager = trayManager
	controller.searchBar = searchBar
	controller.animator = animation.New(animation.DefaultConfig(), islandWidget.SetAccentIntensity)
}

// Run consumes engine events until the channel closes. Call in a goroutine.
func (controller *Controller) Run() {
	events := controller.engine.Subscribe(32)
	for event := range events {
		controller.handleEvent(event)
	}
}

// Shutdown persists the in-flight session, if any, as abandoned. Both the
// tray quit handler and main call it; only the first call does anything.
func (controller *Controller) Shutdown() {
	controller.shutdownOnce.Do(func() {
		controller.animCancel()

		session := controller.engine.CurrentSession()
		controller.engine.Close()
		if session == nil {
			return
		}
		if err := controller.store.RecordSession(session); err != nil {
			controller.logger.Error("persist session on shutdown", "error", err)
		}
	})
}

// Toggle relays the start/pause/resume action.
func (controller *Controller) Toggle() {
	if controller.engine.State() == engine.StateIdle {
		controller.engine.SetTask(controller.currentTask)
	}
	controller.engine.Toggle()
}

// Reset discards the active countdown.
func (controller *Controller) Reset() {
	controller.engine.Reset()
}

// Skip ends the current phase early.
func (controller *Controller) Skip() {
	controller.engine.Skip()
}

// ExpandDashboard shows the dashboard with fresh tasks and stats.
func (controller *Controller) ExpandDashboard() {
	controller.RefreshTasks()
	controller.RefreshStats()
	controller.dash.Show()
}

// EnterFullscreen switches to the focus view.
func (controller *Controller) EnterFullscreen() {
	controller.fullscreen = true
	controller.islandWidget.Hide()
	controller.dash.Hide()
	controller.focusView.Show()
	controller.focusView.SetRemaining(controller.engine.Remaining())
	controller.focusView.SetState(controller.engine.State(), controller.engine.Phase())
}

// ExitFullscreen returns to the island pill.
func (controller *Controller) ExitFullscreen() {
	controller.fullscreen = false
	controller.focusView.Hide()
	controller.islandWidget.Show()
}

// ToggleFullscreen flips between the pill and the focus view.
func (controller *Controller) ToggleFullscreen() {
	if controller.fullscreen {
		controller.ExitFullscreen()
		return
	}
	controller.EnterFullscreen()
}

// ToggleQuickSearch shows or hides the quick-search bar.
func (controller *Controller) ToggleQuickSearch() {
	controller.searchBar.Toggle()
}

// ShowIsland brings the pill back (tray "Show").
func (controller *Controller) ShowIsland() {
	if controller.fullscreen {
		controller.ExitFullscreen()
		return
	}
	controller.islandWidget.Show()
}

// HideAll conceals every window; the tray stays.
func (controller *Controller) HideAll() {
	if controller.fullscreen {
		controller.ExitFullscreen()
	}
	controller.islandWidget.Hide()
	controller.dash.Hide()
	if controller.searchBar != nil {
		controller.searchBar.Hide()
	}
}

// AddTask creates a task and refreshes the list.
func (controller *Controller) AddTask(name string) {
	if _, err := controller.store.CreateTask(name); err != nil {
		controller.logger.Error("create task", "error", err)
		return
	}
	controller.RefreshTasks()
}

// SetTaskCompleted marks or unmarks a task done.
func (controller *Controller) SetTaskCompleted(id int64, completed bool) {
	var err error
	if completed {
		err = controller.store.CompleteTask(id)
	} else {
		err = controller.store.ReopenTask(id)
	}
	if err != nil {
		controller.logger.Error("update task", "task", id, "error", err)
	}
	controller.RefreshTasks()
	controller.RefreshStats()
}

// DeleteTask removes a task.
func (controller *Controller) DeleteTask(id int64) {
	if err := controller.store.DeleteTask(id); err != nil {
		controller.logger.Error("delete task", "task", id, "error", err)
	}
	if controller.currentTask != nil && *controller.currentTask == id {
		controller.SelectTask(nil)
	}
	controller.RefreshTasks()
}

// SelectTask chooses which task future sessions count toward.
func (controller *Controller) SelectTask(id *int64) {
	controller.currentTask = id
	controller.engine.SetTask(id)
	name := ""
	if id != nil {
		if task, err := controller.store.GetTask(*id); err == nil {
			name = task.Name
		}
	}
	controller.islandWidget.SetTaskName(name)
}

// SaveSettings persists the settings and applies them to the engine.
func (controller *Controller) SaveSettings(settings model.Settings) {
	previous := controller.settings
	controller.settings = settings

	for key, value := range settings.ToMap() {
		if err := controller.store.SetSetting(key, value); err != nil {
			controller.logger.Error("persist setting", "key", key, "error", err)
		}
	}
	if settings.DailyGoalMinutes != previous.DailyGoalMinutes {
		if err := controller.store.SetDailyGoalTarget(storage.Today(), settings.DailyGoalMinutes); err != nil {
			controller.logger.Error("persist daily goal", "error", err)
		}
	}

	controller.engine.UpdateConfig(settings.TimerConfig())
	controller.dispatcher.SetAlarmSound(settings.AlarmSound)
	if controller.searchBar != nil {
		controller.searchBar.SetEngine(settings.SearchEngine)
	}

	if settings.AutostartAtLogin != previous.AutostartAtLogin {
		if err := platform.ApplyAutostart(controller.service, AppName, settings.AutostartAtLogin); err != nil {
			controller.logger.Warn("apply autostart", "error", err)
		}
	}
	controller.RefreshStats()
}

// HandleWeather fans a weather report out to the UI surfaces. Called from
// the poller goroutine.
func (controller *Controller) HandleWeather(report weather.Report) {
	fyne.Do(func() {
		controller.islandWidget.SetWeather(report)
		controller.focusView.SetWeather(report)
	})
}

// RefreshTasks reloads the task list into the dashboard.
func (controller *Controller) RefreshTasks() {
	tasks, err := controller.store.ListTasks(true)
	if err != nil {
		controller.logger.Error("list tasks", "error", err)
		return
	}
	fyne.Do(func() { controller.dash.SetTasks(tasks, controller.currentTask) })
}

// RefreshStats reloads today's statistics into the dashboard.
func (controller *Controller) RefreshStats() {
	today, err := controller.store.TodayStats()
	if err != nil {
		controller.logger.Error("today stats", "error", err)
		return
	}
	recent, err := controller.store.RecentStats(7)
	if err != nil {
		controller.logger.Error("recent stats", "error", err)
		return
	}
	totals, err := controller.store.TotalStats()
	if err != nil {
		controller.logger.Error("total stats", "error", err)
		return
	}
	goal, err := controller.store.DailyGoal(storage.Today())
	if err != nil {
		controller.logger.Error("daily goal", "error", err)
		return
	}
	streak, err := controller.store.Streak()
	if err != nil {
		controller.logger.Error("streak", "error", err)
		return
	}
	fyne.Do(func() { controller.dash.SetStats(today, recent, totals, goal, streak) })
}

func (controller *Controller) handleEvent(event engine.Event) {
	switch event.Type {
	case engine.EventProgress:
		fyne.Do(func() { controller.setRemaining(event.Remaining) })

	case engine.EventStateChange:
		controller.applyAnimation(event.State)
		fyne.Do(func() {
			controller.trayManager.Update(event.State, event.Phase, event.Remaining)
			controller.setRemaining(event.Remaining)
			controller.islandWidget.SetState(event.State, event.Phase)
			controller.dash.SetState(event.State, event.Phase)
			controller.focusView.SetState(event.State, event.Phase)
		})

	case engine.EventPhaseComplete:
		controller.persistSession(event.Session)
		controller.dispatcher.HandleEvent(event)
		controller.animator.StartFlash(controller.animCtx)

	case engine.EventSessionAbandoned:
		controller.persistSession(event.Session)

	case engine.EventIdlePause:
		controller.logger.Info("paused after inactivity")
		controller.applyAnimation(event.State)
		fyne.Do(func() {
			controller.trayManager.Update(event.State, event.Phase, event.Remaining)
			controller.islandWidget.SetState(event.State, event.Phase)
			controller.dash.SetState(event.State, event.Phase)
			controller.focusView.SetState(event.State, event.Phase)
		})

	case engine.EventIdleError:
		controller.logger.Warn("idle detection failed", "message", event.Message)
	}
}

func (controller *Controller) persistSession(session *model.Session) {
	if session == nil {
		return
	}
	if err := controller.store.RecordSession(session); err != nil {
		controller.logger.Error("persist session", "error", err)
	}
	controller.RefreshTasks()
	controller.RefreshStats()
}

func (controller *Controller) applyAnimation(state engine.State) {
	if state == engine.StateRunning {
		controller.animator.StartPulse(controller.animCtx)
		return
	}
	controller.animator.Stop()
}

func (controller *Controller) setRemaining(remaining time.Duration) {
	controller.islandWidget.SetRemaining(remaining)
	controller.dash.SetRemaining(remaining)
	if controller.fullscreen {
		controller.focusView.SetRemaining(remaining)
	}
}

// LoadSettings reads the settings table, falling back to defaults.
func LoadSettings(store storage.Store, logger *slog.Logger) model.Settings {
	values, err := store.AllSettings()
	if err != nil {
		logger.Warn("load settings", "error", err)
		return model.DefaultSettings()
	}
	return model.SettingsFromMap(values)
}

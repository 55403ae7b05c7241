// Package dashboard is the expanded window behind the island pill: timer
// controls, the task list, statistics and the settings form.
package dashboard

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"focusisland/internal/core/engine"
	"focusisland/internal/core/model"
	"focusisland/internal/sound"
	"focusisland/internal/ui/search"
)

// Callbacks defines dashboard action handlers.
type Callbacks struct {
	OnToggle       func()
	OnReset        func()
	OnSkip         func()
	OnFullscreen   func()
	OnAddTask      func(name string)
	OnToggleTask   func(id int64, completed bool)
	OnDeleteTask   func(id int64)
	OnSelectTask   func(id *int64)
	OnSaveSettings func(model.Settings)
	OnClose        func()
}

// Window handles the dashboard UI.
type Window struct {
	window    fyne.Window
	callbacks Callbacks
	settings  model.Settings

	timerLabel   *widget.Label
	stateLabel   *widget.Label
	toggleButton *widget.Button

	tasks        []model.Task
	selectedTask *int64
	taskList     *widget.List
	taskEntry    *widget.Entry

	todayLabel  *widget.Label
	weekLabel   *widget.Label
	totalLabel  *widget.Label
	goalLabel   *widget.Label
	streakLabel *widget.Label
	goalBar     *widget.ProgressBar

	workEntry      *widget.Entry
	breakEntry     *widget.Entry
	longBreakEntry *widget.Entry
	cycleEntry     *widget.Entry
	goalEntry      *widget.Entry
	soundSelect    *widget.Select
	searchSelect   *widget.Select
	autoStart      *widget.Check
	idlePause      *widget.Check
	loginStart     *widget.Check
}

// New creates the dashboard window.
func New(app fyne.App, settings model.Settings, callbacks Callbacks) *Window {
	window := app.NewWindow("FocusIsland")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	dash := &Window{
		window:    window,
		callbacks: callbacks,
		settings:  settings,
	}

	tabs := container.NewAppTabs(
		container.NewTabItem("Timer", dash.buildTimerTab()),
		container.NewTabItem("Tasks", dash.buildTasksTab()),
		container.NewTabItem("Stats", dash.buildStatsTab()),
		container.NewTabItem("Settings", dash.buildSettingsTab()),
	)

	window.SetContent(tabs)
	window.Resize(fyne.NewSize(460, 520))
	window.SetCloseIntercept(func() {
		window.Hide()
		if dash.callbacks.OnClose != nil {
			dash.callbacks.OnClose()
		}
	})

	return dash
}

// Window exposes the underlying window for shortcut registration.
func (dash *Window) Window() fyne.Window {
	return dash.window
}

// Show displays the dashboard.
func (dash *Window) Show() {
	dash.window.Show()
	dash.window.RequestFocus()
}

// Hide conceals the dashboard.
func (dash *Window) Hide() {
	dash.window.Hide()
}

// SetRemaining updates the countdown text.
func (dash *Window) SetRemaining(remaining time.Duration) {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	dash.timerLabel.SetText(fmt.Sprintf("%02d:%02d", seconds/60, seconds%60))
}

// SetState updates the phase line and toggle button.
func (dash *Window) SetState(state engine.State, phase model.Phase) {
	switch state {
	case engine.StateRunning:
		if phase == model.PhaseBreak {
			dash.stateLabel.SetText("On a break")
		} else {
			dash.stateLabel.SetText("Focusing")
		}
		dash.toggleButton.SetText("Pause")
	case engine.StatePaused:
		dash.stateLabel.SetText("Paused")
		dash.toggleButton.SetText("Resume")
	default:
		dash.stateLabel.SetText("Ready")
		dash.toggleButton.SetText("Start")
	}
}

// SetTasks replaces the task list contents.
func (dash *Window) SetTasks(tasks []model.Task, selected *int64) {
	dash.tasks = tasks
	dash.selectedTask = selected
	dash.taskList.Refresh()
}

// SetStats fills the statistics tab.
func (dash *Window) SetStats(today model.DailyStats, recent []model.DailyStats, totals model.TotalStats, goal model.DailyGoal, streak int) {
	dash.todayLabel.SetText(fmt.Sprintf("Today: %s focused, %d sessions, %d tasks done",
		formatFocus(today.FocusSeconds), today.SessionsCompleted, today.TasksCompleted))

	var weekSeconds, weekSessions int
	for _, day := range recent {
		weekSeconds += day.FocusSeconds
		weekSessions += day.SessionsCompleted
	}
	dash.weekLabel.SetText(fmt.Sprintf("Last 7 days: %s focused, %d sessions",
		formatFocus(weekSeconds), weekSessions))

	dash.totalLabel.SetText(fmt.Sprintf("All time: %s focused, %d sessions, %d tasks done",
		formatFocus(totals.FocusSeconds), totals.SessionsCompleted, totals.TasksCompleted))

	dash.goalLabel.SetText(fmt.Sprintf("Daily goal: %d / %d min", goal.AchievedMinutes, goal.TargetMinutes))
	dash.goalBar.SetValue(goal.Progress())
	dash.streakLabel.SetText(fmt.Sprintf("Streak: %d day(s)", streak))
}

// UpdateSettings replaces the settings form values.
func (dash *Window) UpdateSettings(settings model.Settings) {
	dash.settings = settings
	dash.workEntry.SetText(strconv.Itoa(int(settings.WorkDuration.Minutes())))
	dash.breakEntry.SetText(strconv.Itoa(int(settings.BreakDuration.Minutes())))
	dash.longBreakEntry.SetText(strconv.Itoa(int(settings.LongBreakDuration.Minutes())))
	dash.cycleEntry.SetText(strconv.Itoa(settings.SessionsPerCycle))
	dash.goalEntry.SetText(strconv.Itoa(settings.DailyGoalMinutes))
	dash.soundSelect.SetSelected(settings.AlarmSound)
	dash.searchSelect.SetSelected(settings.SearchEngine)
	dash.autoStart.SetChecked(settings.AutoStartBreaks)
	dash.idlePause.SetChecked(settings.IdlePauseEnabled)
	dash.loginStart.SetChecked(settings.AutostartAtLogin)
}

func (dash *Window) buildTimerTab() fyne.CanvasObject {
	dash.timerLabel = widget.NewLabelWithStyle("25:00", fyne.TextAlignCenter,
		fyne.TextStyle{Bold: true, Monospace: true})
	dash.stateLabel = widget.NewLabelWithStyle("Ready", fyne.TextAlignCenter, fyne.TextStyle{})

	dash.toggleButton = widget.NewButton("Start", func() {
		if dash.callbacks.OnToggle != nil {
			dash.callbacks.OnToggle()
		}
	})
	resetButton := widget.NewButton("Reset", func() {
		if dash.callbacks.OnReset != nil {
			dash.callbacks.OnReset()
		}
	})
	skipButton := widget.NewButton("Skip", func() {
		if dash.callbacks.OnSkip != nil {
			dash.callbacks.OnSkip()
		}
	})
	fullscreenButton := widget.NewButton("Fullscreen", func() {
		if dash.callbacks.OnFullscreen != nil {
			dash.callbacks.OnFullscreen()
		}
	})

	return container.NewVBox(
		layout.NewSpacer(),
		dash.timerLabel,
		dash.stateLabel,
		container.NewHBox(layout.NewSpacer(), dash.toggleButton, resetButton, skipButton, fullscreenButton, layout.NewSpacer()),
		layout.NewSpacer(),
	)
}

func (dash *Window) buildTasksTab() fyne.CanvasObject {
	dash.taskEntry = widget.NewEntry()
	dash.taskEntry.SetPlaceHolder("What are you working on?")

	addTask := func() {
		name := dash.taskEntry.Text
		if name == "" {
			return
		}
		dash.taskEntry.SetText("")
		if dash.callbacks.OnAddTask != nil {
			dash.callbacks.OnAddTask(name)
		}
	}
	dash.taskEntry.OnSubmitted = func(string) { addTask() }
	addButton := widget.NewButton("Add", addTask)

	dash.taskList = widget.NewList(
		func() int { return len(dash.tasks) },
		newTaskRow,
		dash.bindTaskRow,
	)
	dash.taskList.OnSelected = func(index widget.ListItemID) {
		if index >= len(dash.tasks) {
			return
		}
		id := dash.tasks[index].ID
		if dash.callbacks.OnSelectTask != nil {
			dash.callbacks.OnSelectTask(&id)
		}
	}
	dash.taskList.OnUnselected = func(widget.ListItemID) {
		if dash.callbacks.OnSelectTask != nil {
			dash.callbacks.OnSelectTask(nil)
		}
	}

	header := container.NewBorder(nil, nil, nil, addButton, dash.taskEntry)
	return container.NewBorder(header, nil, nil, nil, dash.taskList)
}

// newTaskRow builds the task list template: a check on the left, focus
// time and a delete button on the right.
func newTaskRow() fyne.CanvasObject {
	check := widget.NewCheck("", nil)
	focusLabel := widget.NewLabel("")
	deleteButton := widget.NewButton("✕", nil)
	return container.NewBorder(nil, nil, check, container.NewHBox(focusLabel, deleteButton))
}

// taskRowParts recovers the template children. A border container with no
// center holds only the left and right objects, in that order.
func taskRowParts(item fyne.CanvasObject) (*widget.Check, *widget.Label, *widget.Button) {
	border := item.(*fyne.Container)
	check := border.Objects[0].(*widget.Check)
	right := border.Objects[1].(*fyne.Container)
	return check, right.Objects[0].(*widget.Label), right.Objects[1].(*widget.Button)
}

func (dash *Window) bindTaskRow(index widget.ListItemID, item fyne.CanvasObject) {
	if index >= len(dash.tasks) {
		return
	}
	task := dash.tasks[index]
	check, focusLabel, deleteButton := taskRowParts(item)

	check.Text = task.Name
	check.OnChanged = nil
	check.SetChecked(task.Completed)
	check.OnChanged = func(checked bool) {
		if dash.callbacks.OnToggleTask != nil {
			dash.callbacks.OnToggleTask(task.ID, checked)
		}
	}
	focusLabel.SetText(formatFocus(task.FocusSeconds))
	deleteButton.OnTapped = func() {
		if dash.callbacks.OnDeleteTask != nil {
			dash.callbacks.OnDeleteTask(task.ID)
		}
	}
	check.Refresh()
}

func (dash *Window) buildStatsTab() fyne.CanvasObject {
	dash.todayLabel = widget.NewLabel("Today: —")
	dash.weekLabel = widget.NewLabel("Last 7 days: —")
	dash.totalLabel = widget.NewLabel("All time: —")
	dash.goalLabel = widget.NewLabel("Daily goal: —")
	dash.streakLabel = widget.NewLabel("Streak: —")
	dash.goalBar = widget.NewProgressBar()

	return container.NewVBox(
		widget.NewLabelWithStyle("Statistics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		dash.todayLabel,
		dash.weekLabel,
		dash.totalLabel,
		widget.NewSeparator(),
		dash.goalLabel,
		dash.goalBar,
		dash.streakLabel,
	)
}

func (dash *Window) buildSettingsTab() fyne.CanvasObject {
	settings := dash.settings

	dash.workEntry = widget.NewEntry()
	dash.breakEntry = widget.NewEntry()
	dash.longBreakEntry = widget.NewEntry()
	dash.cycleEntry = widget.NewEntry()
	dash.goalEntry = widget.NewEntry()

	dash.workEntry.SetText(strconv.Itoa(int(settings.WorkDuration.Minutes())))
	dash.breakEntry.SetText(strconv.Itoa(int(settings.BreakDuration.Minutes())))
	dash.longBreakEntry.SetText(strconv.Itoa(int(settings.LongBreakDuration.Minutes())))
	dash.cycleEntry.SetText(strconv.Itoa(settings.SessionsPerCycle))
	dash.goalEntry.SetText(strconv.Itoa(settings.DailyGoalMinutes))

	dash.soundSelect = widget.NewSelect(sound.Names, nil)
	dash.soundSelect.SetSelected(settings.AlarmSound)

	dash.searchSelect = widget.NewSelect(search.EngineNames, nil)
	dash.searchSelect.SetSelected(settings.SearchEngine)

	dash.autoStart = widget.NewCheck("Start breaks automatically", nil)
	dash.autoStart.SetChecked(settings.AutoStartBreaks)

	dash.idlePause = widget.NewCheck("Pause when away from keyboard", nil)
	dash.idlePause.SetChecked(settings.IdlePauseEnabled)

	dash.loginStart = widget.NewCheck("Start at login", nil)
	dash.loginStart.SetChecked(settings.AutostartAtLogin)

	saveButton := widget.NewButton("Save", dash.handleSave)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work"), dash.workEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break"), dash.breakEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), dash.longBreakEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break every"), dash.cycleEntry, widget.NewLabel("sessions")),
		widget.NewLabelWithStyle("Goal", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Daily goal"), dash.goalEntry, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Behaviour", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Alarm sound"), dash.soundSelect),
		container.NewHBox(widget.NewLabel("Quick search engine"), dash.searchSelect),
		dash.autoStart,
		dash.idlePause,
		dash.loginStart,
		layout.NewSpacer(),
		container.NewHBox(layout.NewSpacer(), saveButton),
	)
	return form
}

func (dash *Window) handleSave() {
	settings := dash.settings

	// Non-positive or unparseable input keeps the previous value.
	if minutes, ok := parsePositiveInt(dash.workEntry.Text); ok {
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(dash.breakEntry.Text); ok {
		settings.BreakDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(dash.longBreakEntry.Text); ok {
		settings.LongBreakDuration = time.Duration(minutes) * time.Minute
	}
	if count, ok := parsePositiveInt(dash.cycleEntry.Text); ok {
		settings.SessionsPerCycle = count
	}
	if minutes, ok := parsePositiveInt(dash.goalEntry.Text); ok {
		settings.DailyGoalMinutes = minutes
	}
	if dash.soundSelect.Selected != "" {
		settings.AlarmSound = dash.soundSelect.Selected
	}
	if dash.searchSelect.Selected != "" {
		settings.SearchEngine = dash.searchSelect.Selected
	}
	settings.AutoStartBreaks = dash.autoStart.Checked
	settings.IdlePauseEnabled = dash.idlePause.Checked
	settings.AutostartAtLogin = dash.loginStart.Checked

	dash.settings = settings
	dash.UpdateSettings(settings)
	if dash.callbacks.OnSaveSettings != nil {
		dash.callbacks.OnSaveSettings(settings)
	}
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func formatFocus(seconds int) string {
	if seconds < 3600 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%dh %02dm", seconds/3600, (seconds%3600)/60)
}

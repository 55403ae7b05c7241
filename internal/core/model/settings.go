package model

import (
	"strconv"
	"time"
)

// Setting keys as stored in the settings table.
const (
	SettingWorkMinutes       = "work_duration"
	SettingBreakMinutes      = "break_duration"
	SettingLongBreakMinutes  = "long_break_duration"
	SettingSessionsPerCycle  = "sessions_before_long_break"
	SettingAlarmSound        = "alarm_sound"
	SettingAutoStartBreaks   = "auto_start_breaks"
	SettingDailyGoalMinutes  = "daily_goal_minutes"
	SettingIdlePauseEnabled  = "idle_pause_enabled"
	SettingAutostartAtLogin  = "autostart_at_login"
	SettingSearchEngine      = "search_engine"
)

// Settings are the user preferences persisted in the settings table.
type Settings struct {
	WorkDuration      time.Duration
	BreakDuration     time.Duration
	LongBreakDuration time.Duration
	SessionsPerCycle  int
	AlarmSound        string
	AutoStartBreaks   bool
	DailyGoalMinutes  int
	IdlePauseEnabled  bool
	AutostartAtLogin  bool
	SearchEngine      string
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:      25 * time.Minute,
		BreakDuration:     5 * time.Minute,
		LongBreakDuration: 15 * time.Minute,
		SessionsPerCycle:  4,
		AlarmSound:        "chime",
		AutoStartBreaks:   true,
		DailyGoalMinutes:  120,
		IdlePauseEnabled:  false,
		AutostartAtLogin:  false,
		SearchEngine:      "Google",
	}
}

// SettingsFromMap overlays stored key/value pairs onto the defaults.
// Invalid or non-positive values keep the default.
func SettingsFromMap(values map[string]string) Settings {
	settings := DefaultSettings()

	if minutes, ok := parsePositiveInt(values[SettingWorkMinutes]); ok {
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(values[SettingBreakMinutes]); ok {
		settings.BreakDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(values[SettingLongBreakMinutes]); ok {
		settings.LongBreakDuration = time.Duration(minutes) * time.Minute
	}
	if count, ok := parsePositiveInt(values[SettingSessionsPerCycle]); ok {
		settings.SessionsPerCycle = count
	}
	if sound := values[SettingAlarmSound]; sound != "" {
		settings.AlarmSound = sound
	}
	if minutes, ok := parsePositiveInt(values[SettingDailyGoalMinutes]); ok {
		settings.DailyGoalMinutes = minutes
	}
	if raw, ok := values[SettingAutoStartBreaks]; ok {
		settings.AutoStartBreaks = parseBool(raw, settings.AutoStartBreaks)
	}
	if raw, ok := values[SettingIdlePauseEnabled]; ok {
		settings.IdlePauseEnabled = parseBool(raw, settings.IdlePauseEnabled)
	}
	if raw, ok := values[SettingAutostartAtLogin]; ok {
		settings.AutostartAtLogin = parseBool(raw, settings.AutostartAtLogin)
	}
	if engine := values[SettingSearchEngine]; engine != "" {
		settings.SearchEngine = engine
	}

	return settings
}

// ToMap converts settings to the stored key/value representation.
func (settings Settings) ToMap() map[string]string {
	return map[string]string{
		SettingWorkMinutes:      strconv.Itoa(int(settings.WorkDuration.Minutes())),
		SettingBreakMinutes:     strconv.Itoa(int(settings.BreakDuration.Minutes())),
		SettingLongBreakMinutes: strconv.Itoa(int(settings.LongBreakDuration.Minutes())),
		SettingSessionsPerCycle: strconv.Itoa(settings.SessionsPerCycle),
		SettingAlarmSound:       settings.AlarmSound,
		SettingAutoStartBreaks:  strconv.FormatBool(settings.AutoStartBreaks),
		SettingDailyGoalMinutes: strconv.Itoa(settings.DailyGoalMinutes),
		SettingIdlePauseEnabled: strconv.FormatBool(settings.IdlePauseEnabled),
		SettingAutostartAtLogin: strconv.FormatBool(settings.AutostartAtLogin),
		SettingSearchEngine:     settings.SearchEngine,
	}
}

// TimerConfig contains runtime configuration for the timer engine.
type TimerConfig struct {
	WorkDuration      time.Duration
	BreakDuration     time.Duration
	LongBreakDuration time.Duration
	SessionsPerCycle  int
	AutoStartBreaks   bool

	IdlePauseEnabled  bool
	IdlePauseAfter    time.Duration
	IdleCheckInterval time.Duration
}

// TimerConfig converts settings to engine configuration.
func (settings Settings) TimerConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:      settings.WorkDuration,
		BreakDuration:     settings.BreakDuration,
		LongBreakDuration: settings.LongBreakDuration,
		SessionsPerCycle:  settings.SessionsPerCycle,
		AutoStartBreaks:   settings.AutoStartBreaks,
		IdlePauseEnabled:  settings.IdlePauseEnabled,
		IdlePauseAfter:    5 * time.Minute,
		IdleCheckInterval: 5 * time.Second,
	}
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func parseBool(value string, fallback bool) bool {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

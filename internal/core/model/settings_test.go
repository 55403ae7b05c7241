package model

import (
	"testing"
	"time"
)

func TestSettingsFromMapOverlaysStoredValues(t *testing.T) {
	settings := SettingsFromMap(map[string]string{
		SettingWorkMinutes:      "50",
		SettingBreakMinutes:     "10",
		SettingAlarmSound:       "bell",
		SettingAutoStartBreaks:  "false",
		SettingDailyGoalMinutes: "240",
	})

	if settings.WorkDuration != 50*time.Minute {
		t.Errorf("work duration = %v, want 50m", settings.WorkDuration)
	}
	if settings.BreakDuration != 10*time.Minute {
		t.Errorf("break duration = %v, want 10m", settings.BreakDuration)
	}
	if settings.AlarmSound != "bell" {
		t.Errorf("alarm sound = %q, want bell", settings.AlarmSound)
	}
	if settings.AutoStartBreaks {
		t.Error("auto start breaks should be disabled")
	}
	if settings.DailyGoalMinutes != 240 {
		t.Errorf("daily goal = %d, want 240", settings.DailyGoalMinutes)
	}
	// Keys absent from the map keep their defaults.
	if settings.LongBreakDuration != DefaultSettings().LongBreakDuration {
		t.Errorf("long break duration = %v, want default", settings.LongBreakDuration)
	}
}

func TestSettingsFromMapRejectsInvalidValues(t *testing.T) {
	defaults := DefaultSettings()
	settings := SettingsFromMap(map[string]string{
		SettingWorkMinutes:      "-5",
		SettingBreakMinutes:     "zero",
		SettingSessionsPerCycle: "0",
		SettingIdlePauseEnabled: "maybe",
	})

	if settings.WorkDuration != defaults.WorkDuration {
		t.Errorf("negative work duration accepted: %v", settings.WorkDuration)
	}
	if settings.BreakDuration != defaults.BreakDuration {
		t.Errorf("unparseable break duration accepted: %v", settings.BreakDuration)
	}
	if settings.SessionsPerCycle != defaults.SessionsPerCycle {
		t.Errorf("zero cycle length accepted: %d", settings.SessionsPerCycle)
	}
	if settings.IdlePauseEnabled != defaults.IdlePauseEnabled {
		t.Error("invalid bool changed idle pause setting")
	}
}

func TestSettingsMapRoundTrip(t *testing.T) {
	original := DefaultSettings()
	original.WorkDuration = 45 * time.Minute
	original.AlarmSound = "digital"
	original.AutostartAtLogin = true

	restored := SettingsFromMap(original.ToMap())
	if restored != original {
		t.Errorf("round trip changed settings:\n got %+v\nwant %+v", restored, original)
	}
}

func TestDailyGoalProgress(t *testing.T) {
	cases := []struct {
		goal DailyGoal
		want float64
	}{
		{DailyGoal{TargetMinutes: 120, AchievedMinutes: 60}, 0.5},
		{DailyGoal{TargetMinutes: 120, AchievedMinutes: 180}, 1},
		{DailyGoal{TargetMinutes: 0, AchievedMinutes: 60}, 0},
	}
	for _, tc := range cases {
		if got := tc.goal.Progress(); got != tc.want {
			t.Errorf("Progress(%+v) = %v, want %v", tc.goal, got, tc.want)
		}
	}
	if (DailyGoal{TargetMinutes: 120, AchievedMinutes: 119}).Achieved() {
		t.Error("goal short of target reported achieved")
	}
	if !(DailyGoal{TargetMinutes: 120, AchievedMinutes: 120}).Achieved() {
		t.Error("goal at target not reported achieved")
	}
}

package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"focusisland/internal/core/model"
)

func openTestStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := Open(filepath.Join(t.TempDir(), "focusisland.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
}

func workSession(taskID *int64, duration time.Duration, completed bool) *model.Session {
	now := time.Now()
	return &model.Session{
		TaskID:    taskID,
		StartedAt: now.Add(-duration),
		EndedAt:   now,
		Duration:  duration,
		Phase:     model.PhaseWork,
		Completed: completed,
	}
}

func TestTaskLifecycle(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			task, err := store.CreateTask("write report")
			if err != nil {
				t.Fatalf("create task: %v", err)
			}
			if task.ID == 0 {
				t.Fatal("expected task to receive an id")
			}

			if err := store.CompleteTask(task.ID); err != nil {
				t.Fatalf("complete task: %v", err)
			}
			got, err := store.GetTask(task.ID)
			if err != nil {
				t.Fatalf("get task: %v", err)
			}
			if !got.Completed || got.CompletedAt == nil {
				t.Errorf("expected completed task with timestamp, got %+v", got)
			}

			if err := store.ReopenTask(task.ID); err != nil {
				t.Fatalf("reopen task: %v", err)
			}
			got, err = store.GetTask(task.ID)
			if err != nil {
				t.Fatalf("get task: %v", err)
			}
			if got.Completed || got.CompletedAt != nil {
				t.Errorf("expected reopened task, got %+v", got)
			}

			if err := store.DeleteTask(task.ID); err != nil {
				t.Fatalf("delete task: %v", err)
			}
			if _, err := store.GetTask(task.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestListTasksFiltersCompleted(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			open, err := store.CreateTask("open")
			if err != nil {
				t.Fatalf("create task: %v", err)
			}
			done, err := store.CreateTask("done")
			if err != nil {
				t.Fatalf("create task: %v", err)
			}
			if err := store.CompleteTask(done.ID); err != nil {
				t.Fatalf("complete task: %v", err)
			}

			active, err := store.ListTasks(false)
			if err != nil {
				t.Fatalf("list tasks: %v", err)
			}
			if len(active) != 1 || active[0].ID != open.ID {
				t.Errorf("expected only the open task, got %+v", active)
			}

			all, err := store.ListTasks(true)
			if err != nil {
				t.Fatalf("list tasks: %v", err)
			}
			if len(all) != 2 {
				t.Errorf("expected both tasks, got %d", len(all))
			}
		})
	}
}

func TestRecordSessionUpdatesTaskAndStats(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			task, err := store.CreateTask("deep work")
			if err != nil {
				t.Fatalf("create task: %v", err)
			}

			if err := store.RecordSession(workSession(&task.ID, 25*time.Minute, true)); err != nil {
				t.Fatalf("record session: %v", err)
			}

			got, err := store.GetTask(task.ID)
			if err != nil {
				t.Fatalf("get task: %v", err)
			}
			if got.FocusSeconds != 25*60 {
				t.Errorf("task focus seconds = %d, want %d", got.FocusSeconds, 25*60)
			}

			stats, err := store.TodayStats()
			if err != nil {
				t.Fatalf("today stats: %v", err)
			}
			if stats.FocusSeconds != 25*60 {
				t.Errorf("daily focus seconds = %d, want %d", stats.FocusSeconds, 25*60)
			}
			if stats.SessionsCompleted != 1 {
				t.Errorf("sessions completed = %d, want 1", stats.SessionsCompleted)
			}

			goal, err := store.DailyGoal(Today())
			if err != nil {
				t.Fatalf("daily goal: %v", err)
			}
			if goal.AchievedMinutes != 25 {
				t.Errorf("achieved minutes = %d, want 25", goal.AchievedMinutes)
			}

			sessions, err := store.SessionsForTask(task.ID)
			if err != nil {
				t.Fatalf("sessions for task: %v", err)
			}
			if len(sessions) != 1 || !sessions[0].Completed {
				t.Errorf("expected one completed session, got %+v", sessions)
			}
		})
	}
}

func TestBreakSessionLeavesStatsUntouched(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			session := workSession(nil, 5*time.Minute, true)
			session.Phase = model.PhaseBreak
			if err := store.RecordSession(session); err != nil {
				t.Fatalf("record session: %v", err)
			}

			stats, err := store.TodayStats()
			if err != nil {
				t.Fatalf("today stats: %v", err)
			}
			if stats.FocusSeconds != 0 || stats.SessionsCompleted != 0 {
				t.Errorf("break session changed stats: %+v", stats)
			}
		})
	}
}

func TestAbandonedSessionCountsFocusOnly(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.RecordSession(workSession(nil, 10*time.Minute, false)); err != nil {
				t.Fatalf("record session: %v", err)
			}

			stats, err := store.TodayStats()
			if err != nil {
				t.Fatalf("today stats: %v", err)
			}
			if stats.FocusSeconds != 10*60 {
				t.Errorf("focus seconds = %d, want %d", stats.FocusSeconds, 10*60)
			}
			if stats.SessionsCompleted != 0 {
				t.Errorf("abandoned session counted as completed: %+v", stats)
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			value, err := store.GetSetting("alarm_sound", "chime")
			if err != nil {
				t.Fatalf("get setting: %v", err)
			}
			if value != "chime" {
				t.Errorf("missing key fallback = %q, want %q", value, "chime")
			}

			if err := store.SetSetting("alarm_sound", "bell"); err != nil {
				t.Fatalf("set setting: %v", err)
			}
			value, err = store.GetSetting("alarm_sound", "chime")
			if err != nil {
				t.Fatalf("get setting: %v", err)
			}
			if value != "bell" {
				t.Errorf("stored value = %q, want %q", value, "bell")
			}

			all, err := store.AllSettings()
			if err != nil {
				t.Fatalf("all settings: %v", err)
			}
			if all["alarm_sound"] != "bell" {
				t.Errorf("AllSettings missing stored value: %v", all)
			}
		})
	}
}

func TestRecentStatsFillsMissingDays(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.RecordSession(workSession(nil, 25*time.Minute, true)); err != nil {
				t.Fatalf("record session: %v", err)
			}

			recent, err := store.RecentStats(7)
			if err != nil {
				t.Fatalf("recent stats: %v", err)
			}
			if len(recent) != 7 {
				t.Fatalf("expected 7 days, got %d", len(recent))
			}
			last := recent[len(recent)-1]
			if last.Date != Today() {
				t.Errorf("last day = %s, want %s", last.Date, Today())
			}
			if last.FocusSeconds != 25*60 {
				t.Errorf("today focus seconds = %d, want %d", last.FocusSeconds, 25*60)
			}
			for _, stats := range recent[:len(recent)-1] {
				if stats.FocusSeconds != 0 {
					t.Errorf("day %s should be empty, got %+v", stats.Date, stats)
				}
			}
		})
	}
}

func TestDailyGoalTarget(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.SetDailyGoalTarget(Today(), 90); err != nil {
				t.Fatalf("set goal target: %v", err)
			}
			goal, err := store.DailyGoal(Today())
			if err != nil {
				t.Fatalf("daily goal: %v", err)
			}
			if goal.TargetMinutes != 90 {
				t.Errorf("target = %d, want 90", goal.TargetMinutes)
			}
		})
	}
}

func TestStreakCountsAchievedDays(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.SetDailyGoalTarget(Today(), 20); err != nil {
				t.Fatalf("set goal target: %v", err)
			}
			if err := store.RecordSession(workSession(nil, 25*time.Minute, true)); err != nil {
				t.Fatalf("record session: %v", err)
			}

			streak, err := store.Streak()
			if err != nil {
				t.Fatalf("streak: %v", err)
			}
			if streak != 1 {
				t.Errorf("streak = %d, want 1", streak)
			}
		})
	}
}

func TestStreakZeroWhenNothingAchieved(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			streak, err := store.Streak()
			if err != nil {
				t.Fatalf("streak: %v", err)
			}
			if streak != 0 {
				t.Errorf("streak = %d, want 0", streak)
			}
		})
	}
}

func TestTotalStatsAggregates(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			task, err := store.CreateTask("aggregate")
			if err != nil {
				t.Fatalf("create task: %v", err)
			}
			if err := store.RecordSession(workSession(&task.ID, 25*time.Minute, true)); err != nil {
				t.Fatalf("record session: %v", err)
			}
			if err := store.CompleteTask(task.ID); err != nil {
				t.Fatalf("complete task: %v", err)
			}

			totals, err := store.TotalStats()
			if err != nil {
				t.Fatalf("total stats: %v", err)
			}
			if totals.FocusSeconds != 25*60 || totals.SessionsCompleted != 1 || totals.TasksCompleted != 1 {
				t.Errorf("unexpected totals: %+v", totals)
			}
		})
	}
}

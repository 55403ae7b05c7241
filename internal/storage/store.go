package storage

import (
	"time"

	"focusisland/internal/core/model"
)

// DateKey is the calendar-day format used by daily stats and goals.
const DateKey = "2006-01-02"

// Store persists tasks, sessions, settings, and daily aggregates.
//
// SQLiteStore is the real implementation; MemoryStore keeps the app usable
// when the database cannot be opened.
type Store interface {
	CreateTask(name string) (*model.Task, error)
	GetTask(id int64) (*model.Task, error)
	ListTasks(includeCompleted bool) ([]model.Task, error)
	CompleteTask(id int64) error
	ReopenTask(id int64) error
	DeleteTask(id int64) error

	// RecordSession inserts a session record. Work sessions also add focus
	// time to the linked task, the day's stats, and the day's goal.
	RecordSession(session *model.Session) error
	SessionsForTask(taskID int64) ([]model.Session, error)

	GetSetting(key, fallback string) (string, error)
	SetSetting(key, value string) error
	AllSettings() (map[string]string, error)

	TodayStats() (model.DailyStats, error)
	RecentStats(days int) ([]model.DailyStats, error)
	TotalStats() (model.TotalStats, error)

	DailyGoal(date string) (model.DailyGoal, error)
	SetDailyGoalTarget(date string, targetMinutes int) error
	Streak() (int, error)

	Close() error
}

// Today returns the current day's DateKey.
func Today() string {
	return time.Now().Format(DateKey)
}

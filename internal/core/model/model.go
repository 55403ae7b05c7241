package model

import "time"

// Phase identifies the kind of countdown interval.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// Task is a unit of work the user can focus on.
type Task struct {
	ID           int64
	Name         string
	Completed    bool
	CreatedAt    time.Time
	CompletedAt  *time.Time
	FocusSeconds int
}

// Session is the record of a completed or abandoned phase.
// It is immutable once persisted.
type Session struct {
	ID        int64
	TaskID    *int64
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	Phase     Phase
	Completed bool
}

// DailyStats aggregates focus activity for a single calendar day.
type DailyStats struct {
	Date              string
	FocusSeconds      int
	SessionsCompleted int
	TasksCompleted    int
}

// DailyGoal tracks a per-day focus target in minutes.
type DailyGoal struct {
	Date            string
	TargetMinutes   int
	AchievedMinutes int
}

// Progress reports goal completion as 0.0 to 1.0.
func (goal DailyGoal) Progress() float64 {
	if goal.TargetMinutes <= 0 {
		return 0
	}
	progress := float64(goal.AchievedMinutes) / float64(goal.TargetMinutes)
	if progress > 1 {
		return 1
	}
	return progress
}

// Achieved reports whether the target has been met.
func (goal DailyGoal) Achieved() bool {
	return goal.AchievedMinutes >= goal.TargetMinutes && goal.TargetMinutes > 0
}

// TotalStats holds cumulative all-time counters.
type TotalStats struct {
	FocusSeconds      int
	SessionsCompleted int
	TasksCompleted    int
}

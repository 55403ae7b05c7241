package storage

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"focusisland/internal/core/model"
)

// MemoryStore is the in-memory fallback used when the database cannot be
// opened. Data lives for the process lifetime only.
type MemoryStore struct {
	mu       sync.Mutex
	nextTask int64
	nextSess int64
	tasks    map[int64]*model.Task
	sessions []model.Session
	settings map[string]string
	stats    map[string]*model.DailyStats
	goals    map[string]*model.DailyGoal
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextTask: 1,
		nextSess: 1,
		tasks:    make(map[int64]*model.Task),
		settings: make(map[string]string),
		stats:    make(map[string]*model.DailyStats),
		goals:    make(map[string]*model.DailyGoal),
	}
}

func (store *MemoryStore) CreateTask(name string) (*model.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	task := &model.Task{ID: store.nextTask, Name: name, CreatedAt: time.Now()}
	store.nextTask++
	store.tasks[task.ID] = task
	copied := *task
	return &copied, nil
}

func (store *MemoryStore) GetTask(id int64) (*model.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	task, ok := store.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (store *MemoryStore) ListTasks(includeCompleted bool) ([]model.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var tasks []model.Task
	for _, task := range store.tasks {
		if !includeCompleted && task.Completed {
			continue
		}
		tasks = append(tasks, *task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Completed != tasks[j].Completed {
			return !tasks[i].Completed
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (store *MemoryStore) CompleteTask(id int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	task, ok := store.tasks[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	task.Completed = true
	task.CompletedAt = &now
	store.statsFor(now.Format(DateKey)).TasksCompleted++
	return nil
}

func (store *MemoryStore) ReopenTask(id int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	task, ok := store.tasks[id]
	if !ok {
		return ErrNotFound
	}
	task.Completed = false
	task.CompletedAt = nil
	return nil
}

func (store *MemoryStore) DeleteTask(id int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.tasks, id)
	kept := store.sessions[:0]
	for _, session := range store.sessions {
		if session.TaskID == nil || *session.TaskID != id {
			kept = append(kept, session)
		}
	}
	store.sessions = kept
	return nil
}

func (store *MemoryStore) RecordSession(session *model.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	session.ID = store.nextSess
	store.nextSess++
	store.sessions = append(store.sessions, *session)

	if session.Phase != model.PhaseWork {
		return nil
	}

	seconds := int(session.Duration.Seconds())
	if session.TaskID != nil {
		if task, ok := store.tasks[*session.TaskID]; ok {
			task.FocusSeconds += seconds
		}
	}

	date := session.EndedAt.Format(DateKey)
	stats := store.statsFor(date)
	stats.FocusSeconds += seconds
	if session.Completed {
		stats.SessionsCompleted++
	}

	if minutes := seconds / 60; minutes > 0 {
		store.goalFor(date).AchievedMinutes += minutes
	}
	return nil
}

func (store *MemoryStore) SessionsForTask(taskID int64) ([]model.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var sessions []model.Session
	for _, session := range store.sessions {
		if session.TaskID != nil && *session.TaskID == taskID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].EndedAt.After(sessions[j].EndedAt)
	})
	return sessions, nil
}

func (store *MemoryStore) GetSetting(key, fallback string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if value, ok := store.settings[key]; ok {
		return value, nil
	}
	return fallback, nil
}

func (store *MemoryStore) SetSetting(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.settings[key] = value
	return nil
}

func (store *MemoryStore) AllSettings() (map[string]string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	values := make(map[string]string, len(store.settings))
	for key, value := range store.settings {
		values[key] = value
	}
	return values, nil
}

func (store *MemoryStore) TodayStats() (model.DailyStats, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	date := Today()
	if stats, ok := store.stats[date]; ok {
		return *stats, nil
	}
	return model.DailyStats{Date: date}, nil
}

func (store *MemoryStore) RecentStats(days int) ([]model.DailyStats, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if days <= 0 {
		days = 7
	}
	today := time.Now()
	recent := make([]model.DailyStats, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateKey)
		if stats, ok := store.stats[date]; ok {
			recent = append(recent, *stats)
			continue
		}
		recent = append(recent, model.DailyStats{Date: date})
	}
	return recent, nil
}

func (store *MemoryStore) TotalStats() (model.TotalStats, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var totals model.TotalStats
	for _, stats := range store.stats {
		totals.FocusSeconds += stats.FocusSeconds
		totals.SessionsCompleted += stats.SessionsCompleted
		totals.TasksCompleted += stats.TasksCompleted
	}
	return totals, nil
}

func (store *MemoryStore) DailyGoal(date string) (model.DailyGoal, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if goal, ok := store.goals[date]; ok {
		return *goal, nil
	}
	target := 120
	if value, ok := store.settings[model.SettingDailyGoalMinutes]; ok {
		target = atoiOr(value, 120)
	}
	return model.DailyGoal{Date: date, TargetMinutes: target}, nil
}

func (store *MemoryStore) SetDailyGoalTarget(date string, targetMinutes int) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.goalFor(date).TargetMinutes = targetMinutes
	store.settings[model.SettingDailyGoalMinutes] = strconv.Itoa(targetMinutes)
	return nil
}

func (store *MemoryStore) Streak() (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	streak := 0
	day := time.Now()
	for {
		goal, ok := store.goals[day.Format(DateKey)]
		if !ok || goal.AchievedMinutes < goal.TargetMinutes {
			if streak == 0 && day.Format(DateKey) == Today() {
				day = day.AddDate(0, 0, -1)
				continue
			}
			return streak, nil
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

func (store *MemoryStore) Close() error {
	return nil
}

func (store *MemoryStore) statsFor(date string) *model.DailyStats {
	if stats, ok := store.stats[date]; ok {
		return stats
	}
	stats := &model.DailyStats{Date: date}
	store.stats[date] = stats
	return stats
}

func (store *MemoryStore) goalFor(date string) *model.DailyGoal {
	if goal, ok := store.goals[date]; ok {
		return goal
	}
	target := 120
	if value, ok := store.settings[model.SettingDailyGoalMinutes]; ok {
		target = atoiOr(value, 120)
	}
	goal := &model.DailyGoal{Date: date, TargetMinutes: target}
	store.goals[date] = goal
	return goal
}


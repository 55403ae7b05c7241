package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"focusisland/internal/core/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteStore is the SQLite-backed Store.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (store *SQLiteStore) init() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			completed INTEGER DEFAULT 0,
			created_at TEXT NOT NULL,
			completed_at TEXT,
			focus_seconds INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			phase TEXT NOT NULL,
			completed INTEGER DEFAULT 0,
			FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS daily_stats (
			date TEXT PRIMARY KEY,
			focus_seconds INTEGER DEFAULT 0,
			sessions_completed INTEGER DEFAULT 0,
			tasks_completed INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS daily_goals (
			date TEXT PRIMARY KEY,
			target_minutes INTEGER DEFAULT 120,
			achieved_minutes INTEGER DEFAULT 0
		)`,
	}
	for _, statement := range statements {
		if _, err := store.db.Exec(statement); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (store *SQLiteStore) Close() error {
	return store.db.Close()
}

// CreateTask inserts a new task and returns it with its ID.
func (store *SQLiteStore) CreateTask(name string) (*model.Task, error) {
	now := time.Now()
	result, err := store.db.Exec(
		"INSERT INTO tasks (name, completed, created_at, focus_seconds) VALUES (?, 0, ?, 0)",
		name, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Task{ID: id, Name: name, CreatedAt: now}, nil
}

// GetTask returns the task with the given id, or ErrNotFound.
func (store *SQLiteStore) GetTask(id int64) (*model.Task, error) {
	row := store.db.QueryRow(
		"SELECT id, name, completed, created_at, completed_at, focus_seconds FROM tasks WHERE id = ?",
		id,
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns tasks, open ones first, newest first within each group.
func (store *SQLiteStore) ListTasks(includeCompleted bool) ([]model.Task, error) {
	query := "SELECT id, name, completed, created_at, completed_at, focus_seconds FROM tasks"
	if !includeCompleted {
		query += " WHERE completed = 0"
	}
	query += " ORDER BY completed ASC, created_at DESC"

	rows, err := store.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// CompleteTask marks a task completed and counts it in today's stats.
func (store *SQLiteStore) CompleteTask(id int64) error {
	tx, err := store.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.Exec(
		"UPDATE tasks SET completed = 1, completed_at = ? WHERE id = ?",
		now.Format(time.RFC3339), id,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO daily_stats (date, tasks_completed) VALUES (?, 1)
		 ON CONFLICT(date) DO UPDATE SET tasks_completed = tasks_completed + 1`,
		now.Format(DateKey),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// ReopenTask marks a task as not completed.
func (store *SQLiteStore) ReopenTask(id int64) error {
	_, err := store.db.Exec(
		"UPDATE tasks SET completed = 0, completed_at = NULL WHERE id = ?", id,
	)
	return err
}

// DeleteTask removes a task and its sessions.
func (store *SQLiteStore) DeleteTask(id int64) error {
	tx, err := store.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions WHERE task_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM tasks WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordSession inserts a session. Work time also accumulates on the linked
// task, the day's stats, and the day's goal, all in one transaction.
func (store *SQLiteStore) RecordSession(session *model.Session) error {
	tx, err := store.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	seconds := int(session.Duration.Seconds())
	result, err := tx.Exec(
		`INSERT INTO sessions (task_id, started_at, ended_at, duration_seconds, phase, completed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nullableID(session.TaskID),
		session.StartedAt.Format(time.RFC3339),
		session.EndedAt.Format(time.RFC3339),
		seconds,
		string(session.Phase),
		boolToInt(session.Completed),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	session.ID = id

	if session.Phase == model.PhaseWork {
		if session.TaskID != nil {
			if _, err := tx.Exec(
				"UPDATE tasks SET focus_seconds = focus_seconds + ? WHERE id = ?",
				seconds, *session.TaskID,
			); err != nil {
				return err
			}
		}

		date := session.EndedAt.Format(DateKey)
		completedCount := boolToInt(session.Completed)
		if _, err := tx.Exec(
			`INSERT INTO daily_stats (date, focus_seconds, sessions_completed) VALUES (?, ?, ?)
			 ON CONFLICT(date) DO UPDATE SET
				focus_seconds = focus_seconds + excluded.focus_seconds,
				sessions_completed = sessions_completed + excluded.sessions_completed`,
			date, seconds, completedCount,
		); err != nil {
			return err
		}

		minutes := seconds / 60
		if minutes > 0 {
			target, err := goalTargetTx(tx, date)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(
				`INSERT INTO daily_goals (date, target_minutes, achieved_minutes) VALUES (?, ?, ?)
				 ON CONFLICT(date) DO UPDATE SET achieved_minutes = achieved_minutes + excluded.achieved_minutes`,
				date, target, minutes,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// SessionsForTask returns the task's sessions, most recent first.
func (store *SQLiteStore) SessionsForTask(taskID int64) ([]model.Session, error) {
	rows, err := store.db.Query(
		`SELECT id, task_id, started_at, ended_at, duration_seconds, phase, completed
		 FROM sessions WHERE task_id = ? ORDER BY ended_at DESC`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var (
			session        model.Session
			linkedID       sql.NullInt64
			started, ended string
			seconds        int64
			phase          string
			completed      int
		)
		if err := rows.Scan(&session.ID, &linkedID, &started, &ended, &seconds, &phase, &completed); err != nil {
			return nil, err
		}
		if linkedID.Valid {
			id := linkedID.Int64
			session.TaskID = &id
		}
		session.StartedAt, _ = time.Parse(time.RFC3339, started)
		session.EndedAt, _ = time.Parse(time.RFC3339, ended)
		session.Duration = time.Duration(seconds) * time.Second
		session.Phase = model.Phase(phase)
		session.Completed = completed == 1
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// GetSetting returns the stored value or fallback when absent.
func (store *SQLiteStore) GetSetting(key, fallback string) (string, error) {
	var value string
	err := store.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return value, nil
}

// SetSetting stores a key/value pair.
func (store *SQLiteStore) SetSetting(key, value string) error {
	_, err := store.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// AllSettings returns every stored setting.
func (store *SQLiteStore) AllSettings() (map[string]string, error) {
	rows, err := store.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, rows.Err()
}

// TodayStats returns stats for the current day, zeroed when absent.
func (store *SQLiteStore) TodayStats() (model.DailyStats, error) {
	return store.statsForDate(Today())
}

// RecentStats returns one entry per day for the last N days, oldest first.
// Days without activity are zero-filled.
func (store *SQLiteStore) RecentStats(days int) ([]model.DailyStats, error) {
	if days <= 0 {
		days = 7
	}
	today := time.Now()
	stats := make([]model.DailyStats, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateKey)
		dayStats, err := store.statsForDate(date)
		if err != nil {
			return nil, err
		}
		stats = append(stats, dayStats)
	}
	return stats, nil
}

// TotalStats returns all-time cumulative counters.
func (store *SQLiteStore) TotalStats() (model.TotalStats, error) {
	var totals model.TotalStats
	err := store.db.QueryRow(
		`SELECT COALESCE(SUM(focus_seconds), 0),
			COALESCE(SUM(sessions_completed), 0),
			COALESCE(SUM(tasks_completed), 0)
		 FROM daily_stats`,
	).Scan(&totals.FocusSeconds, &totals.SessionsCompleted, &totals.TasksCompleted)
	return totals, err
}

// DailyGoal returns the goal row for a date, defaulting the target from
// settings when no row exists.
func (store *SQLiteStore) DailyGoal(date string) (model.DailyGoal, error) {
	goal := model.DailyGoal{Date: date}
	err := store.db.QueryRow(
		"SELECT target_minutes, achieved_minutes FROM daily_goals WHERE date = ?", date,
	).Scan(&goal.TargetMinutes, &goal.AchievedMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		fallback, err := store.GetSetting(model.SettingDailyGoalMinutes, "120")
		if err != nil {
			return goal, err
		}
		goal.TargetMinutes = atoiOr(fallback, 120)
		return goal, nil
	}
	if err != nil {
		return goal, err
	}
	return goal, nil
}

// SetDailyGoalTarget sets the target for a date and records it as the
// default for future days.
func (store *SQLiteStore) SetDailyGoalTarget(date string, targetMinutes int) error {
	if _, err := store.db.Exec(
		`INSERT INTO daily_goals (date, target_minutes) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET target_minutes = excluded.target_minutes`,
		date, targetMinutes,
	); err != nil {
		return err
	}
	return store.SetSetting(model.SettingDailyGoalMinutes, fmt.Sprintf("%d", targetMinutes))
}

// Streak counts consecutive days, ending today or yesterday, on which the
// daily goal was achieved.
func (store *SQLiteStore) Streak() (int, error) {
	streak := 0
	day := time.Now()
	for {
		var target, achieved int
		err := store.db.QueryRow(
			"SELECT target_minutes, achieved_minutes FROM daily_goals WHERE date = ?",
			day.Format(DateKey),
		).Scan(&target, &achieved)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && achieved < target) {
			// Today not yet achieved does not break a streak carried from
			// yesterday.
			if streak == 0 && day.Format(DateKey) == Today() {
				day = day.AddDate(0, 0, -1)
				continue
			}
			return streak, nil
		}
		if err != nil {
			return streak, err
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

func (store *SQLiteStore) statsForDate(date string) (model.DailyStats, error) {
	stats := model.DailyStats{Date: date}
	err := store.db.QueryRow(
		"SELECT focus_seconds, sessions_completed, tasks_completed FROM daily_stats WHERE date = ?",
		date,
	).Scan(&stats.FocusSeconds, &stats.SessionsCompleted, &stats.TasksCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	return stats, err
}

func goalTargetTx(tx *sql.Tx, date string) (int, error) {
	var target int
	err := tx.QueryRow(
		"SELECT target_minutes FROM daily_goals WHERE date = ?", date,
	).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		var fallback string
		err := tx.QueryRow(
			"SELECT value FROM settings WHERE key = ?", model.SettingDailyGoalMinutes,
		).Scan(&fallback)
		if errors.Is(err, sql.ErrNoRows) {
			return 120, nil
		}
		if err != nil {
			return 0, err
		}
		return atoiOr(fallback, 120), nil
	}
	if err != nil {
		return 0, err
	}
	return target, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		task        model.Task
		completed   int
		createdAt   string
		completedAt sql.NullString
	)
	if err := row.Scan(&task.ID, &task.Name, &completed, &createdAt, &completedAt, &task.FocusSeconds); err != nil {
		return nil, err
	}
	task.Completed = completed == 1
	task.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if completedAt.Valid {
		parsed, err := time.Parse(time.RFC3339, completedAt.String)
		if err == nil {
			task.CompletedAt = &parsed
		}
	}
	return &task, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func atoiOr(value string, fallback int) int {
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

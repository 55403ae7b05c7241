package app

import (
	"log/slog"
	"testing"
	"time"

	"focusisland/internal/core/engine"
	"focusisland/internal/core/model"
	"focusisland/internal/storage"
)

func TestShutdownPersistsInFlightSessionOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	task, err := store.CreateTask("write report")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	eng := engine.New(model.DefaultSettings().TimerConfig(), engine.Options{})
	controller := New(slog.Default(), store, eng, nil, model.DefaultSettings())

	eng.SetTask(&task.ID)
	eng.Start()
	eng.Advance(2 * time.Second)

	// Quitting from the tray runs Shutdown, then main runs it again after
	// the UI loop returns.
	controller.Shutdown()
	controller.Shutdown()

	sessions, err := store.SessionsForTask(task.ID)
	if err != nil {
		t.Fatalf("sessions for task: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected exactly one persisted session, got %d", len(sessions))
	}
	if sessions[0].Completed {
		t.Error("shutdown snapshot must be recorded as abandoned")
	}
	if sessions[0].Duration != 2*time.Second {
		t.Errorf("expected 2s of elapsed focus, got %s", sessions[0].Duration)
	}
}

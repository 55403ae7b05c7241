package engine

import (
	"time"

	"focusisland/internal/core/model"
)

// State represents the current engine mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventStateChange      EventType = "state_change"
	EventProgress         EventType = "progress"
	EventPhaseComplete    EventType = "phase_complete"
	EventSessionAbandoned EventType = "session_abandoned"
	EventIdlePause        EventType = "idle_pause"
	EventIdleError        EventType = "idle_error"
)

// Event represents an engine update for observers.
//
// Session is set on EventPhaseComplete and EventSessionAbandoned and carries
// the record to persist; it is never mutated after emission.
type Event struct {
	Type              EventType
	State             State
	Phase             model.Phase
	Remaining         time.Duration
	Progress          float64
	Session           *model.Session
	SessionsCompleted int
	Message           string
	At                time.Time
}

package engine

import (
	"errors"
	"sync"
	"time"

	"focusisland/internal/core/model"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Options contains runtime options for the Engine.
type Options struct {
	TickInterval time.Duration
}

// Engine is the Pomodoro countdown state machine.
//
// There is at most one active countdown. All transitions (user actions and
// ticks) serialize on a single mutex; a pause or reset that arrives while a
// completion tick holds the lock applies to the post-completion state.
type Engine struct {
	mu                sync.Mutex
	config            model.TimerConfig
	options           Options
	state             State
	phase             model.Phase
	remaining         time.Duration
	total             time.Duration
	phaseStart        time.Time
	taskID            *int64
	sessionsCompleted int
	idleChecker       IdleChecker
	lastIdleCheck     time.Time
	events            []chan Event
	stopCh            chan struct{}
	loopRunning       bool
	closed            bool
}

// New creates an Engine with the provided configuration.
func New(config model.TimerConfig, options Options) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	normalizeConfig(&config)

	return &Engine{
		config:    config,
		options:   options,
		state:     StateIdle,
		phase:     model.PhaseWork,
		remaining: config.WorkDuration,
		total:     config.WorkDuration,
		stopCh:    make(chan struct{}),
	}
}

// SetIdleChecker injects an idle checker.
func (engine *Engine) SetIdleChecker(checker IdleChecker) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.idleChecker = checker
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Run launches the ticking loop. The engine stays Idle until Start is called.
func (engine *Engine) Run() {
	engine.mu.Lock()
	if engine.loopRunning || engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.loopRunning = true
	engine.mu.Unlock()

	go engine.loop()
}

// Close terminates the ticking loop and closes observer channels. After
// Close the engine no longer reports an in-flight session, so a snapshot
// taken via CurrentSession must happen before. Close is idempotent.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	if engine.loopRunning {
		close(engine.stopCh)
		engine.loopRunning = false
	}
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start begins a work phase from Idle. It is a no-op otherwise.
func (engine *Engine) Start() {
	engine.mu.Lock()
	if engine.state != StateIdle {
		engine.mu.Unlock()
		return
	}
	engine.enterPhaseLocked(model.PhaseWork, engine.config.WorkDuration, time.Now())
	engine.mu.Unlock()
}

// Pause freezes the countdown. Remaining time is preserved.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	if engine.state != StateRunning {
		engine.mu.Unlock()
		return
	}
	engine.state = StatePaused
	engine.emitLocked(Event{
		Type:      EventStateChange,
		State:     StatePaused,
		Phase:     engine.phase,
		Remaining: engine.remaining,
		Progress:  engine.progressLocked(),
		At:        time.Now(),
	})
	engine.mu.Unlock()
}

// Resume unfreezes a paused countdown.
func (engine *Engine) Resume() {
	engine.mu.Lock()
	if engine.state != StatePaused {
		engine.mu.Unlock()
		return
	}
	engine.state = StateRunning
	engine.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateRunning,
		Phase:     engine.phase,
		Remaining: engine.remaining,
		Progress:  engine.progressLocked(),
		At:        time.Now(),
	})
	engine.mu.Unlock()
}

// Toggle starts from Idle, pauses while running, and resumes while paused.
func (engine *Engine) Toggle() {
	engine.mu.Lock()
	state := engine.state
	engine.mu.Unlock()

	switch state {
	case StateIdle:
		engine.Start()
	case StateRunning:
		engine.Pause()
	case StatePaused:
		engine.Resume()
	}
}

// Reset discards the in-progress countdown and returns to Idle.
// Nothing is persisted for the discarded phase.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	if engine.state == StateIdle {
		engine.mu.Unlock()
		return
	}
	engine.toIdleLocked(time.Now())
	engine.mu.Unlock()
}

// Skip abandons the current phase early. A skipped work phase records an
// abandoned session and moves straight into the break; a skipped break
// records the abandoned break and returns to Idle.
func (engine *Engine) Skip() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state == StateIdle {
		return
	}

	now := time.Now()
	engine.emitAbandonedLocked(now)

	if engine.phase == model.PhaseWork {
		engine.enterPhaseLocked(model.PhaseBreak, engine.nextBreakDurationLocked(), now)
		return
	}
	engine.toIdleLocked(now)
}

// SetTask associates subsequent sessions with a task. A nil id detaches.
func (engine *Engine) SetTask(taskID *int64) {
	engine.mu.Lock()
	engine.taskID = taskID
	engine.mu.Unlock()
}

// UpdateConfig applies new durations to the next phase only; a running
// countdown keeps its remaining time.
func (engine *Engine) UpdateConfig(config model.TimerConfig) {
	engine.mu.Lock()
	normalizeConfig(&config)
	engine.config = config

	if engine.state == StateIdle {
		engine.remaining = config.WorkDuration
		engine.total = config.WorkDuration
		engine.emitLocked(Event{
			Type:      EventProgress,
			State:     StateIdle,
			Phase:     model.PhaseWork,
			Remaining: engine.remaining,
			Progress:  0,
			At:        time.Now(),
		})
	}
	engine.mu.Unlock()
}

// Advance moves the countdown forward by delta. The run loop calls this once
// per tick; tests call it directly to drive time synchronously.
func (engine *Engine) Advance(delta time.Duration) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.state != StateRunning {
		return
	}

	now := time.Now()
	if engine.phase == model.PhaseWork {
		engine.handleIdleCheckLocked(now)
		if engine.state != StateRunning {
			return
		}
	}

	engine.remaining -= delta
	if engine.remaining > 0 {
		engine.emitLocked(Event{
			Type:      EventProgress,
			State:     StateRunning,
			Phase:     engine.phase,
			Remaining: engine.remaining,
			Progress:  engine.progressLocked(),
			At:        now,
		})
		return
	}

	engine.completePhaseLocked(now)
}

// State returns the current state.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// Phase returns the current (or next) phase.
func (engine *Engine) Phase() model.Phase {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.phase
}

// Remaining returns the time left in the current countdown.
func (engine *Engine) Remaining() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.remaining
}

// SessionsCompleted returns the number of work sessions finished this run.
func (engine *Engine) SessionsCompleted() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.sessionsCompleted
}

// CurrentSession snapshots the in-progress phase as an abandoned session
// record, for persistence at shutdown. Returns nil when Idle or when no time
// has elapsed.
func (engine *Engine) CurrentSession() *model.Session {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.closed || engine.state == StateIdle {
		return nil
	}
	elapsed := engine.total - engine.remaining
	if elapsed <= 0 {
		return nil
	}
	return &model.Session{
		TaskID:    engine.taskID,
		StartedAt: engine.phaseStart,
		EndedAt:   time.Now(),
		Duration:  elapsed,
		Phase:     engine.phase,
		Completed: false,
	}
}

func (engine *Engine) loop() {
	ticker := time.NewTicker(engine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-engine.stopCh:
			return
		case <-ticker.C:
			engine.Advance(engine.options.TickInterval)
		}
	}
}

func (engine *Engine) enterPhaseLocked(phase model.Phase, duration time.Duration, now time.Time) {
	engine.state = StateRunning
	engine.phase = phase
	engine.total = duration
	engine.remaining = duration
	engine.phaseStart = now

	engine.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateRunning,
		Phase:     phase,
		Remaining: duration,
		Progress:  0,
		At:        now,
	})
}

func (engine *Engine) toIdleLocked(now time.Time) {
	engine.state = StateIdle
	engine.phase = model.PhaseWork
	engine.total = engine.config.WorkDuration
	engine.remaining = engine.config.WorkDuration

	engine.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateIdle,
		Phase:     model.PhaseWork,
		Remaining: engine.remaining,
		Progress:  0,
		At:        now,
	})
}

func (engine *Engine) completePhaseLocked(now time.Time) {
	session := &model.Session{
		TaskID:    engine.taskID,
		StartedAt: engine.phaseStart,
		EndedAt:   now,
		Duration:  engine.total,
		Phase:     engine.phase,
		Completed: true,
	}

	if engine.phase == model.PhaseWork {
		engine.sessionsCompleted++
		engine.emitLocked(Event{
			Type:              EventPhaseComplete,
			State:             engine.state,
			Phase:             model.PhaseWork,
			Session:           session,
			SessionsCompleted: engine.sessionsCompleted,
			At:                now,
		})
		if engine.config.AutoStartBreaks {
			engine.enterPhaseLocked(model.PhaseBreak, engine.nextBreakDurationLocked(), now)
			return
		}
		engine.toIdleLocked(now)
		return
	}

	engine.emitLocked(Event{
		Type:              EventPhaseComplete,
		State:             engine.state,
		Phase:             model.PhaseBreak,
		Session:           session,
		SessionsCompleted: engine.sessionsCompleted,
		At:                now,
	})
	engine.toIdleLocked(now)
}

func (engine *Engine) emitAbandonedLocked(now time.Time) {
	elapsed := engine.total - engine.remaining
	if elapsed <= 0 {
		return
	}
	engine.emitLocked(Event{
		Type:  EventSessionAbandoned,
		State: engine.state,
		Phase: engine.phase,
		Session: &model.Session{
			TaskID:    engine.taskID,
			StartedAt: engine.phaseStart,
			EndedAt:   now,
			Duration:  elapsed,
			Phase:     engine.phase,
			Completed: false,
		},
		SessionsCompleted: engine.sessionsCompleted,
		At:                now,
	})
}

// nextBreakDurationLocked picks the long break every Nth completed work
// session, the short break otherwise.
func (engine *Engine) nextBreakDurationLocked() time.Duration {
	if engine.config.SessionsPerCycle > 0 &&
		engine.sessionsCompleted > 0 &&
		engine.sessionsCompleted%engine.config.SessionsPerCycle == 0 {
		return engine.config.LongBreakDuration
	}
	return engine.config.BreakDuration
}

func (engine *Engine) handleIdleCheckLocked(now time.Time) {
	if !engine.config.IdlePauseEnabled || engine.idleChecker == nil {
		return
	}
	if !engine.lastIdleCheck.IsZero() && now.Sub(engine.lastIdleCheck) < engine.config.IdleCheckInterval {
		return
	}
	engine.lastIdleCheck = now

	idleDuration, err := engine.idleChecker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			engine.config.IdlePauseEnabled = false
		}
		engine.emitLocked(Event{
			Type:    EventIdleError,
			State:   engine.state,
			Phase:   engine.phase,
			Message: err.Error(),
			At:      now,
		})
		return
	}
	if idleDuration >= engine.config.IdlePauseAfter {
		engine.state = StatePaused
		engine.emitLocked(Event{
			Type:      EventIdlePause,
			State:     StatePaused,
			Phase:     engine.phase,
			Remaining: engine.remaining,
			Progress:  engine.progressLocked(),
			Message:   "paused after inactivity",
			At:        now,
		})
	}
}

func (engine *Engine) progressLocked() float64 {
	if engine.total <= 0 {
		return 1
	}
	progress := float64(engine.total-engine.remaining) / float64(engine.total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (engine *Engine) emitLocked(event Event) {
	events := append([]chan Event(nil), engine.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

func normalizeConfig(config *model.TimerConfig) {
	if config.WorkDuration <= 0 {
		config.WorkDuration = 25 * time.Minute
	}
	if config.BreakDuration <= 0 {
		config.BreakDuration = 5 * time.Minute
	}
	if config.LongBreakDuration <= 0 {
		config.LongBreakDuration = config.BreakDuration
	}
	if config.IdleCheckInterval <= 0 {
		config.IdleCheckInterval = 5 * time.Second
	}
	if config.IdlePauseAfter <= 0 {
		config.IdlePauseAfter = 5 * time.Minute
	}
}

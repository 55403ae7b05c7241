package engine

import (
	"testing"
	"time"

	"focusisland/internal/core/model"
)

func testConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkDuration:      4 * time.Second,
		BreakDuration:     2 * time.Second,
		LongBreakDuration: 3 * time.Second,
		SessionsPerCycle:  2,
		AutoStartBreaks:   true,
	}
}

func advance(engine *Engine, seconds int) {
	for i := 0; i < seconds; i++ {
		engine.Advance(time.Second)
	}
}

func drain(events <-chan Event) []Event {
	var collected []Event
	for {
		select {
		case event := <-events:
			collected = append(collected, event)
		default:
			return collected
		}
	}
}

func sessionsOfType(events []Event, eventType EventType) []*model.Session {
	var sessions []*model.Session
	for _, event := range events {
		if event.Type == eventType && event.Session != nil {
			sessions = append(sessions, event.Session)
		}
	}
	return sessions
}

func TestWorkPhaseCompletion(t *testing.T) {
	eng := New(testConfig(), Options{})
	events := eng.Subscribe(64)

	eng.Start()
	advance(eng, 4)

	completed := sessionsOfType(drain(events), EventPhaseComplete)
	if len(completed) != 1 {
		t.Fatalf("expected exactly one completed session, got %d", len(completed))
	}
	session := completed[0]
	if session.Phase != model.PhaseWork {
		t.Errorf("expected work phase, got %s", session.Phase)
	}
	if session.Duration != 4*time.Second {
		t.Errorf("expected duration 4s, got %s", session.Duration)
	}
	if !session.Completed {
		t.Error("expected session marked completed")
	}

	// Auto-start breaks is on, so the engine should now be in a break.
	if eng.State() != StateRunning || eng.Phase() != model.PhaseBreak {
		t.Errorf("expected running break, got %s/%s", eng.State(), eng.Phase())
	}
}

func TestBreakCompletionReturnsToIdle(t *testing.T) {
	eng := New(testConfig(), Options{})
	events := eng.Subscribe(64)

	eng.Start()
	advance(eng, 4) // work done, break starts
	advance(eng, 2) // break done

	if eng.State() != StateIdle {
		t.Fatalf("expected idle after break, got %s", eng.State())
	}
	completed := sessionsOfType(drain(events), EventPhaseComplete)
	if len(completed) != 2 {
		t.Fatalf("expected work+break sessions, got %d", len(completed))
	}
	if completed[1].Phase != model.PhaseBreak {
		t.Errorf("expected second session to be a break, got %s", completed[1].Phase)
	}
	if eng.Remaining() != 4*time.Second {
		t.Errorf("idle remaining should be primed with work duration, got %s", eng.Remaining())
	}
}

func TestAutoStartDisabledGoesIdle(t *testing.T) {
	config := testConfig()
	config.AutoStartBreaks = false
	eng := New(config, Options{})

	eng.Start()
	advance(eng, 4)

	if eng.State() != StateIdle {
		t.Fatalf("expected idle after work with auto-start off, got %s", eng.State())
	}

	// With auto-start off the break is skipped: Start from Idle always
	// begins a fresh work phase.
	eng.Start()
	if eng.State() != StateRunning || eng.Phase() != model.PhaseWork {
		t.Fatalf("start from idle should begin work, got %s/%s", eng.State(), eng.Phase())
	}
	if eng.Remaining() != config.WorkDuration {
		t.Errorf("work remaining = %s, want %s", eng.Remaining(), config.WorkDuration)
	}
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	eng := New(testConfig(), Options{})

	eng.Start()
	advance(eng, 1)
	before := eng.Remaining()

	eng.Pause()
	// Ticks while paused must not decrement.
	advance(eng, 10)
	if eng.Remaining() != before {
		t.Fatalf("paused remaining changed: %s != %s", eng.Remaining(), before)
	}

	eng.Resume()
	if eng.Remaining() != before {
		t.Fatalf("resume changed remaining: %s != %s", eng.Remaining(), before)
	}
	if eng.State() != StateRunning {
		t.Fatalf("expected running after resume, got %s", eng.State())
	}
}

func TestResetDiscardsWithoutPersisting(t *testing.T) {
	states := []func(*Engine){
		func(eng *Engine) { eng.Start() },
		func(eng *Engine) { eng.Start(); advance(eng, 2) },
		func(eng *Engine) { eng.Start(); advance(eng, 2); eng.Pause() },
		func(eng *Engine) { eng.Start(); advance(eng, 4) }, // in break
	}

	for i, setup := range states {
		eng := New(testConfig(), Options{})
		events := eng.Subscribe(64)
		setup(eng)
		drain(events)

		eng.Reset()

		if eng.State() != StateIdle {
			t.Errorf("case %d: expected idle after reset, got %s", i, eng.State())
		}
		for _, event := range drain(events) {
			if event.Session != nil {
				t.Errorf("case %d: reset emitted a session event %s", i, event.Type)
			}
		}
	}
}

func TestSkipWorkRecordsAbandonedSession(t *testing.T) {
	eng := New(testConfig(), Options{})
	events := eng.Subscribe(64)

	eng.Start()
	advance(eng, 2)
	eng.Skip()

	abandoned := sessionsOfType(drain(events), EventSessionAbandoned)
	if len(abandoned) != 1 {
		t.Fatalf("expected one abandoned session, got %d", len(abandoned))
	}
	if abandoned[0].Completed {
		t.Error("abandoned session must not be marked completed")
	}
	if abandoned[0].Duration != 2*time.Second {
		t.Errorf("expected abandoned duration 2s, got %s", abandoned[0].Duration)
	}
	if eng.State() != StateRunning || eng.Phase() != model.PhaseBreak {
		t.Errorf("skip from work should enter break, got %s/%s", eng.State(), eng.Phase())
	}
}

func TestSkipBreakReturnsToIdle(t *testing.T) {
	eng := New(testConfig(), Options{})

	eng.Start()
	advance(eng, 4) // break starts
	eng.Skip()

	if eng.State() != StateIdle {
		t.Fatalf("expected idle after skipping break, got %s", eng.State())
	}
}

func TestConfigChangeDoesNotTouchRunningCountdown(t *testing.T) {
	eng := New(testConfig(), Options{})

	eng.Start()
	advance(eng, 1)
	before := eng.Remaining()

	config := testConfig()
	config.WorkDuration = 10 * time.Second
	eng.UpdateConfig(config)

	if eng.Remaining() != before {
		t.Fatalf("config change altered running countdown: %s != %s", eng.Remaining(), before)
	}

	// The new duration applies to the next work phase.
	eng.Reset()
	if eng.Remaining() != 10*time.Second {
		t.Fatalf("expected next phase to use new duration, got %s", eng.Remaining())
	}
}

func TestLongBreakEveryNthSession(t *testing.T) {
	eng := New(testConfig(), Options{}) // SessionsPerCycle: 2

	// First work session: short break.
	eng.Start()
	advance(eng, 4)
	if eng.Remaining() != 2*time.Second {
		t.Fatalf("expected short break (2s) after first session, got %s", eng.Remaining())
	}
	advance(eng, 2)

	// Second work session: long break.
	eng.Start()
	advance(eng, 4)
	if eng.Remaining() != 3*time.Second {
		t.Fatalf("expected long break (3s) after second session, got %s", eng.Remaining())
	}
	if eng.SessionsCompleted() != 2 {
		t.Fatalf("expected 2 completed sessions, got %d", eng.SessionsCompleted())
	}
}

func TestSessionCarriesTaskID(t *testing.T) {
	eng := New(testConfig(), Options{})
	events := eng.Subscribe(64)

	taskID := int64(42)
	eng.SetTask(&taskID)
	eng.Start()
	advance(eng, 4)

	completed := sessionsOfType(drain(events), EventPhaseComplete)
	if len(completed) == 0 {
		t.Fatal("no completed session")
	}
	if completed[0].TaskID == nil || *completed[0].TaskID != 42 {
		t.Fatalf("expected session task id 42, got %v", completed[0].TaskID)
	}
}

func TestCurrentSessionSnapshot(t *testing.T) {
	eng := New(testConfig(), Options{})

	if eng.CurrentSession() != nil {
		t.Fatal("idle engine should have no current session")
	}

	eng.Start()
	if eng.CurrentSession() != nil {
		t.Fatal("zero elapsed should yield no snapshot")
	}

	advance(eng, 3)
	snapshot := eng.CurrentSession()
	if snapshot == nil {
		t.Fatal("expected snapshot of in-progress session")
	}
	if snapshot.Completed {
		t.Error("snapshot must be marked not completed")
	}
	if snapshot.Duration != 3*time.Second {
		t.Errorf("expected elapsed 3s, got %s", snapshot.Duration)
	}
}

type fixedIdle struct {
	idle time.Duration
	err  error
}

func (checker fixedIdle) IdleDuration() (time.Duration, error) {
	return checker.idle, checker.err
}

func TestIdlePause(t *testing.T) {
	config := testConfig()
	config.IdlePauseEnabled = true
	config.IdlePauseAfter = 30 * time.Second
	eng := New(config, Options{})
	events := eng.Subscribe(64)

	eng.SetIdleChecker(fixedIdle{idle: time.Minute})
	eng.Start()
	eng.Advance(time.Second)

	if eng.State() != StatePaused {
		t.Fatalf("expected idle pause, got %s", eng.State())
	}
	var sawPause bool
	for _, event := range drain(events) {
		if event.Type == EventIdlePause {
			sawPause = true
		}
	}
	if !sawPause {
		t.Error("expected an idle pause event")
	}
}

func TestIdleUnsupportedDisablesCheck(t *testing.T) {
	config := testConfig()
	config.IdlePauseEnabled = true
	eng := New(config, Options{})

	eng.SetIdleChecker(fixedIdle{err: ErrIdleUnsupported})
	eng.Start()
	advance(eng, 4)

	// The failed check must not stall the countdown.
	if eng.State() != StateRunning || eng.Phase() != model.PhaseBreak {
		t.Fatalf("countdown should have completed, got %s/%s", eng.State(), eng.Phase())
	}
}

func TestCloseDropsInFlightSession(t *testing.T) {
	eng := New(testConfig(), Options{})

	eng.Start()
	advance(eng, 2)
	if eng.CurrentSession() == nil {
		t.Fatal("expected an in-flight session before close")
	}

	eng.Close()
	if eng.CurrentSession() != nil {
		t.Fatal("closed engine must not report an in-flight session")
	}

	// A second Close must be a no-op, not a double channel close.
	eng.Close()
}

func TestSubscribeAfterCloseDoesNotPanic(t *testing.T) {
	eng := New(testConfig(), Options{})
	events := eng.Subscribe(1)
	eng.Run()
	eng.Close()

	if _, open := <-events; open {
		t.Fatal("expected subscriber channel closed")
	}
}

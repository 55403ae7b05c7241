package notify

import (
	"testing"
	"time"

	"focusisland/internal/core/engine"
	"focusisland/internal/core/model"
)

type recordingPlayer struct {
	names   []string
	volumes []float64
}

func (player *recordingPlayer) Play(name string, volume float64) {
	player.names = append(player.names, name)
	player.volumes = append(player.volumes, volume)
}

func completionEvent(phase model.Phase) engine.Event {
	return engine.Event{
		Type: engine.EventPhaseComplete,
		Session: &model.Session{
			Phase:     phase,
			Duration:  25 * time.Minute,
			Completed: true,
		},
	}
}

func TestWorkCompletionPlaysAlarmSound(t *testing.T) {
	player := &recordingPlayer{}
	dispatcher := NewDispatcher(nil, player, "bell")

	dispatcher.HandleEvent(completionEvent(model.PhaseWork))

	if len(player.names) != 1 || player.names[0] != "bell" {
		t.Fatalf("played %v, want [bell]", player.names)
	}
}

func TestBreakCompletionPlaysGentleQuieter(t *testing.T) {
	player := &recordingPlayer{}
	dispatcher := NewDispatcher(nil, player, "bell")

	dispatcher.HandleEvent(completionEvent(model.PhaseBreak))

	if len(player.names) != 1 || player.names[0] != "gentle" {
		t.Fatalf("played %v, want [gentle]", player.names)
	}
	if player.volumes[0] >= 0.7 {
		t.Errorf("break volume %v, want quieter than alarm", player.volumes[0])
	}
}

func TestNonCompletionEventsAreIgnored(t *testing.T) {
	player := &recordingPlayer{}
	dispatcher := NewDispatcher(nil, player, "chime")

	dispatcher.HandleEvent(engine.Event{Type: engine.EventProgress})
	dispatcher.HandleEvent(engine.Event{Type: engine.EventStateChange})
	dispatcher.HandleEvent(engine.Event{Type: engine.EventSessionAbandoned, Session: &model.Session{Phase: model.PhaseWork}})

	if len(player.names) != 0 {
		t.Fatalf("unexpected sounds %v", player.names)
	}
}

func TestCompletionMessages(t *testing.T) {
	workTitle, workBody := completionMessage(&model.Session{Phase: model.PhaseWork, Duration: 25 * time.Minute})
	if workTitle != "Work complete — time for a break" {
		t.Errorf("work title = %q", workTitle)
	}
	if workBody != "You focused for 25 minutes." {
		t.Errorf("work body = %q", workBody)
	}

	breakTitle, _ := completionMessage(&model.Session{Phase: model.PhaseBreak})
	if breakTitle != "Break over — ready to focus?" {
		t.Errorf("break title = %q", breakTitle)
	}
}

func TestSetAlarmSoundSwitchesClip(t *testing.T) {
	player := &recordingPlayer{}
	dispatcher := NewDispatcher(nil, player, "chime")

	dispatcher.SetAlarmSound("digital")
	dispatcher.HandleEvent(completionEvent(model.PhaseWork))

	if len(player.names) != 1 || player.names[0] != "digital" {
		t.Fatalf("played %v, want [digital]", player.names)
	}
}

// Package notify turns timer events into desktop notifications and
// notification sounds.
package notify

import (
	"fmt"

	"fyne.io/fyne/v2"

	"focusisland/internal/core/engine"
	"focusisland/internal/core/model"
)

// SoundPlayer plays a named notification sound without blocking.
type SoundPlayer interface {
	Play(name string, volume float64)
}

// Dispatcher sends a desktop notification and plays the configured
// alarm when a phase completes.
type Dispatcher struct {
	app    fyne.App
	player SoundPlayer

	alarmSound string
	volume     float64
}

// NewDispatcher builds a Dispatcher using the given Fyne app for the
// desktop notification channel.
func NewDispatcher(app fyne.App, player SoundPlayer, alarmSound string) *Dispatcher {
	return &Dispatcher{
		app:        app,
		player:     player,
		alarmSound: alarmSound,
		volume:     0.7,
	}
}

// SetAlarmSound switches the sound used for work completions.
func (dispatcher *Dispatcher) SetAlarmSound(name string) {
	dispatcher.alarmSound = name
}

// HandleEvent reacts to phase completions; other events are ignored.
func (dispatcher *Dispatcher) HandleEvent(event engine.Event) {
	if event.Type != engine.EventPhaseComplete || event.Session == nil {
		return
	}

	dispatcher.notify(completionMessage(event.Session))

	switch event.Session.Phase {
	case model.PhaseWork:
		if dispatcher.player != nil {
			dispatcher.player.Play(dispatcher.alarmSound, dispatcher.volume)
		}
	case model.PhaseBreak:
		if dispatcher.player != nil {
			// Break endings use the gentle clip at reduced volume.
			dispatcher.player.Play("gentle", dispatcher.volume*0.7)
		}
	}
}

func completionMessage(session *model.Session) (title, content string) {
	if session.Phase == model.PhaseWork {
		return "Work complete — time for a break",
			fmt.Sprintf("You focused for %d minutes.", int(session.Duration.Minutes()))
	}
	return "Break over — ready to focus?", "Start the next work session when you are."
}

func (dispatcher *Dispatcher) notify(title, content string) {
	if dispatcher.app == nil {
		return
	}
	dispatcher.app.SendNotification(fyne.NewNotification(title, content))
}

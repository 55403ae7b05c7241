// Package sound plays the embedded notification sounds through the
// system audio device.
package sound

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"focusisland/resources"
)

// DefaultName is used when an unknown sound is requested.
const DefaultName = "chime"

// Names lists the available notification sounds.
var Names = []string{"chime", "bell", "digital", "gentle"}

// Player decodes embedded WAV clips and plays them fire-and-forget.
// Playback errors are logged, never returned to the timer path.
type Player struct {
	logger *slog.Logger

	mu          sync.Mutex
	initialized bool
	buffers     map[string]*beep.Buffer
}

// NewPlayer builds a Player. A nil logger falls back to slog.Default.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger:  logger,
		buffers: make(map[string]*beep.Buffer),
	}
}

// Play starts the named sound at the given volume (0.0 to 1.0) and
// returns immediately. Unknown names fall back to the default sound.
func (player *Player) Play(name string, volume float64) {
	buffer, err := player.bufferFor(name)
	if err != nil {
		player.logger.Warn("sound unavailable", "sound", name, "error", err)
		return
	}

	streamer := buffer.Streamer(0, buffer.Len())
	speaker.Play(&effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   volumeToGain(volume),
		Silent:   volume <= 0,
	})
}

func (player *Player) bufferFor(name string) (*beep.Buffer, error) {
	if !known(name) {
		name = DefaultName
	}

	player.mu.Lock()
	defer player.mu.Unlock()

	if buffer, ok := player.buffers[name]; ok {
		return buffer, nil
	}

	data, err := resources.Sound(name)
	if err != nil {
		return nil, err
	}

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decode sound %s: %w", name, err)
	}
	defer streamer.Close()

	if !player.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			return nil, fmt.Errorf("init speaker: %w", err)
		}
		player.initialized = true
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	player.buffers[name] = buffer
	return buffer, nil
}

func known(name string) bool {
	for _, candidate := range Names {
		if candidate == name {
			return true
		}
	}
	return false
}

// volumeToGain converts a linear 0..1 volume to the exponential gain
// the Volume effect expects. Zero maps to silence via the Silent flag.
func volumeToGain(volume float64) float64 {
	if volume >= 1 {
		return 0
	}
	if volume <= 0 {
		return -10
	}
	// -4 at near-zero up to 0 at full volume.
	return (volume - 1) * 4
}

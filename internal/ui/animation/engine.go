// Package animation drives the island widget's accent effects: a slow
// breathing pulse while a phase runs and a short flash on completion.
package animation

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains animation timing values.
type Config struct {
	// PulsePeriod is one full breathe-in/breathe-out cycle.
	PulsePeriod Range
	// FrameInterval is how often the intensity callback fires.
	FrameInterval time.Duration
	// FlashOnDuration and FlashOffDuration shape the completion flash.
	FlashOnDuration  time.Duration
	FlashOffDuration time.Duration
	FlashCount       int
}

// DefaultConfig returns the island widget defaults.
func DefaultConfig() Config {
	return Config{
		PulsePeriod: Range{
			Min: 2500 * time.Millisecond,
			Max: 3500 * time.Millisecond,
		},
		FrameInterval:    50 * time.Millisecond,
		FlashOnDuration:  180 * time.Millisecond,
		FlashOffDuration: 120 * time.Millisecond,
		FlashCount:       3,
	}
}

// Engine runs at most one animation at a time and reports intensity
// (0.0 to 1.0) through a callback.
type Engine struct {
	mu        sync.Mutex
	config    Config
	intensity func(float64)
	cancel    context.CancelFunc
	rng       *rand.Rand
}

// New creates an animation engine. The intensity callback is invoked from
// the animation goroutine; callers marshal onto the UI thread themselves.
func New(config Config, intensity func(float64)) *Engine {
	return &Engine{
		config:    config,
		intensity: intensity,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartPulse begins the breathing loop until the context is cancelled or
// Stop is called.
func (engine *Engine) StartPulse(ctx context.Context) {
	period := engine.config.PulsePeriod.Random(engine.rng)
	if period <= 0 {
		period = 3 * time.Second
	}
	engine.start(ctx, func(runCtx context.Context) {
		start := time.Now()
		for {
			elapsed := time.Since(start)
			phase := float64(elapsed%period) / float64(period)
			// Raised cosine: 0 at cycle edges, 1 mid-cycle.
			engine.intensity((1 - math.Cos(2*math.Pi*phase)) / 2)
			if !sleepWithContext(runCtx, engine.config.FrameInterval) {
				return
			}
		}
	})
}

// StartFlash blinks the accent a fixed number of times, then holds at zero.
func (engine *Engine) StartFlash(ctx context.Context) {
	engine.start(ctx, func(runCtx context.Context) {
		for i := 0; i < engine.config.FlashCount; i++ {
			engine.intensity(1)
			if !sleepWithContext(runCtx, engine.config.FlashOnDuration) {
				return
			}
			engine.intensity(0)
			if !sleepWithContext(runCtx, engine.config.FlashOffDuration) {
				return
			}
		}
	})
}

// Stop terminates any active animation and rests the accent.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	engine.intensity(0)
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

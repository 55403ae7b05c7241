package animation

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"
)

type intensityRecorder struct {
	mu     sync.Mutex
	values []float64
}

func (recorder *intensityRecorder) record(value float64) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.values = append(recorder.values, value)
}

func (recorder *intensityRecorder) snapshot() []float64 {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]float64(nil), recorder.values...)
}

func testConfig() Config {
	return Config{
		PulsePeriod:      Range{Min: 40 * time.Millisecond, Max: 40 * time.Millisecond},
		FrameInterval:    5 * time.Millisecond,
		FlashOnDuration:  5 * time.Millisecond,
		FlashOffDuration: 5 * time.Millisecond,
		FlashCount:       2,
	}
}

func TestPulseStaysInRange(t *testing.T) {
	recorder := &intensityRecorder{}
	engine := New(testConfig(), recorder.record)

	ctx, cancel := context.WithCancel(context.Background())
	engine.StartPulse(ctx)
	time.Sleep(100 * time.Millisecond)
	cancel()
	engine.Stop()

	values := recorder.snapshot()
	if len(values) < 5 {
		t.Fatalf("expected several frames, got %d", len(values))
	}
	var peak float64
	for _, value := range values {
		if value < 0 || value > 1 {
			t.Fatalf("intensity %v out of [0,1]", value)
		}
		if value > peak {
			peak = value
		}
	}
	if peak < 0.5 {
		t.Errorf("pulse never breathed up, peak %v", peak)
	}
}

func TestFlashEndsAtZero(t *testing.T) {
	recorder := &intensityRecorder{}
	engine := New(testConfig(), recorder.record)

	engine.StartFlash(context.Background())
	time.Sleep(80 * time.Millisecond)
	engine.Stop()

	values := recorder.snapshot()
	if len(values) == 0 {
		t.Fatal("no frames recorded")
	}
	if last := values[len(values)-1]; last != 0 {
		t.Errorf("flash ended at %v, want 0", last)
	}
}

func TestStartReplacesRunningAnimation(t *testing.T) {
	recorder := &intensityRecorder{}
	engine := New(testConfig(), recorder.record)

	ctx := context.Background()
	engine.StartPulse(ctx)
	engine.StartFlash(ctx)
	time.Sleep(60 * time.Millisecond)
	engine.Stop()
	// The point is simply that overlapping starts do not deadlock or panic.
}

func TestRangeRandomWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	value := Range{Min: time.Second, Max: 2 * time.Second}
	for i := 0; i < 100; i++ {
		sampled := value.Random(rng)
		if sampled < value.Min || sampled >= value.Max {
			t.Fatalf("sample %v outside [%v, %v)", sampled, value.Min, value.Max)
		}
	}
}

func TestRangeRandomDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	value := Range{Min: time.Second, Max: time.Second}
	if sampled := value.Random(rng); sampled != time.Second {
		t.Fatalf("degenerate range sampled %v", sampled)
	}
}

package platform

import (
	"time"

	"focusisland/internal/core/engine"
)

// IdleProvider reports how long the user has gone without keyboard or
// mouse input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns the idle provider for the current OS. When the
// platform cannot report idle time, every call returns
// engine.ErrIdleUnsupported and the caller should stop polling.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, engine.ErrIdleUnsupported
}

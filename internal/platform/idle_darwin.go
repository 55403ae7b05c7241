package platform

// Reading idle time on macOS needs Quartz event taps through cgo, so
// idle pause stays disabled here and the timer keeps running.
func newIdleProvider() IdleProvider {
	return unsupportedIdleProvider{}
}

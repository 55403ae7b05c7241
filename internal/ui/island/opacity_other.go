//go:build !windows

package island

// applyNativeOpacity is only implemented for Windows layered windows;
// elsewhere the alpha in the background fill is all we get.
func (island *Widget) applyNativeOpacity(alpha uint8) {}

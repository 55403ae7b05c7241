package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

var (
	user32DLL            = syscall.NewLazyDLL("user32.dll")
	procGetLastInputInfo = user32DLL.NewProc("GetLastInputInfo")
	kernel32DLL          = syscall.NewLazyDLL("kernel32.dll")
	procGetTickCount64   = kernel32DLL.NewProc("GetTickCount64")
)

// lastInputInfo mirrors the Win32 LASTINPUTINFO layout.
type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type idleProvider struct{}

func newIdleProvider() IdleProvider {
	return &idleProvider{}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	if result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info))); result == 0 {
		if err != nil {
			return 0, fmt.Errorf("GetLastInputInfo: %w", err)
		}
		return 0, fmt.Errorf("GetLastInputInfo failed")
	}

	ticks, _, err := procGetTickCount64.Call()
	if ticks == 0 && err != nil {
		return 0, fmt.Errorf("GetTickCount64: %w", err)
	}

	return time.Duration(uint64(ticks)-uint64(info.dwTime)) * time.Millisecond, nil
}

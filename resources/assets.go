// Package resources embeds the notification sounds and tray icons.
package resources

import (
	"embed"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

const (
	soundDir = "sounds/"
	iconDir  = "icons/"
)

//go:embed sounds/*.wav
var soundFS embed.FS

//go:embed icons/*.png
var iconFS embed.FS

var iconCache sync.Map

// Sound returns the raw WAV bytes for the named notification sound,
// e.g. "chime" or "bell".
func Sound(name string) ([]byte, error) {
	data, err := soundFS.ReadFile(soundDir + name + ".wav")
	if err != nil {
		return nil, fmt.Errorf("load sound %s: %w", name, err)
	}
	return data, nil
}

// Icon returns a Fyne resource for the given icon file.
func Icon(fileName string) (fyne.Resource, error) {
	path := iconDir + fileName
	if cached, ok := iconCache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := iconFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load icon %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	iconCache.Store(path, resource)
	return resource, nil
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

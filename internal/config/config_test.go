package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("focusisland-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults %+v", cfg, Default())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Config{
		WeatherLocation: "Berlin",
		WeatherRefresh:  15 * time.Minute,
		WeatherEnabled:  false,
		DataDir:         "/tmp/focus-data",
		LogLevel:        "debug",
	}
	if err := Save("focusisland-test", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load("focusisland-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, "focusisland-test")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	raw := "weather_refresh_minutes: -5\nlog_level: verbose\n"
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("focusisland-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WeatherRefresh != Default().WeatherRefresh {
		t.Errorf("negative refresh accepted: %v", cfg.WeatherRefresh)
	}
	if cfg.LogLevel != Default().LogLevel {
		t.Errorf("unknown log level accepted: %q", cfg.LogLevel)
	}
}

func TestDatabasePathCreatesDirectory(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := Config{DataDir: dataDir}

	path, err := cfg.DatabasePath("focusisland-test")
	if err != nil {
		t.Fatalf("database path: %v", err)
	}
	if path != filepath.Join(dataDir, "focus.db") {
		t.Errorf("unexpected path %q", path)
	}
	if _, err := os.Stat(dataDir); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}

// Package config loads and saves the application-level configuration:
// everything that lives outside the task database, such as the weather
// location and where the database file goes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config holds application-level options.
type Config struct {
	// WeatherLocation is the place queried for weather, empty for
	// IP-based auto detection.
	WeatherLocation string
	// WeatherRefresh is how often the weather is re-fetched.
	WeatherRefresh time.Duration
	// WeatherEnabled turns the weather display off entirely.
	WeatherEnabled bool
	// DataDir overrides where the task database is stored.
	DataDir string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

type yamlConfig struct {
	WeatherLocation       string `yaml:"weather_location"`
	WeatherRefreshMinutes int    `yaml:"weather_refresh_minutes"`
	WeatherEnabled        *bool  `yaml:"weather_enabled"`
	DataDir               string `yaml:"data_dir"`
	LogLevel              string `yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		WeatherRefresh: 30 * time.Minute,
		WeatherEnabled: true,
		LogLevel:       "info",
	}
}

// Load reads the configuration from the user config directory. A missing
// file yields the defaults without error.
func Load(appName string) (Config, error) {
	cfg := Default()
	path, err := resolvePath(appName)
	if err != nil {
		return cfg, err
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&cfg, fileData)
	return cfg, nil
}

// Save writes the configuration to the user config directory.
func Save(appName string, cfg Config) error {
	path, err := resolvePath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	enabled := cfg.WeatherEnabled
	fileData := yamlConfig{
		WeatherLocation:       cfg.WeatherLocation,
		WeatherRefreshMinutes: int(cfg.WeatherRefresh / time.Minute),
		WeatherEnabled:        &enabled,
		DataDir:               cfg.DataDir,
		LogLevel:              cfg.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// DatabasePath returns where the task database lives, creating the
// directory if needed.
func (cfg Config) DatabasePath(appName string) (string, error) {
	dir := cfg.DataDir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		dir = filepath.Join(configDir, appName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return filepath.Join(dir, "focus.db"), nil
}

func resolvePath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

func applyYamlConfig(cfg *Config, fileData yamlConfig) {
	cfg.WeatherLocation = fileData.WeatherLocation
	if fileData.WeatherRefreshMinutes > 0 {
		cfg.WeatherRefresh = time.Duration(fileData.WeatherRefreshMinutes) * time.Minute
	}
	if fileData.WeatherEnabled != nil {
		cfg.WeatherEnabled = *fileData.WeatherEnabled
	}
	if fileData.DataDir != "" {
		cfg.DataDir = fileData.DataDir
	}
	switch fileData.LogLevel {
	case "debug", "info", "warn", "error":
		cfg.LogLevel = fileData.LogLevel
	}
}

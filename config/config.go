package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Driver selects where the grid comes from
type Driver string

const (
	DriverSerialOSC Driver = "serialosc"
	DriverLaunchpad Driver = "launchpad"
	DriverVirtual   Driver = "virtual"
)

func (d Driver) Valid() bool {
	switch d {
	case DriverSerialOSC, DriverLaunchpad, DriverVirtual:
		return true
	}
	return false
}

// SerialOSCConfig locates the serialosc daemon and the grid to use
type SerialOSCConfig struct {
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Rotation int    `json:"rotation"`
	DeviceID string `json:"deviceId,omitempty"` // empty = first grid found
}

// LaunchpadConfig selects a Launchpad port
type LaunchpadConfig struct {
	PortName string `json:"portName,omitempty"` // substring match, empty = any Launchpad
	Type     string `json:"type,omitempty"`     // "x", "s" or empty to guess from the port name
}

// VirtualConfig sizes the on-screen grid
type VirtualConfig struct {
	Rows int `json:"rows,omitempty"`
	Cols int `json:"cols,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Driver     Driver          `json:"driver"`
	SerialOSC  SerialOSCConfig `json:"serialosc"`
	Launchpad  LaunchpadConfig `json:"launchpad"`
	Virtual    VirtualConfig   `json:"virtual"`
	TickMillis int             `json:"tickMillis,omitempty"`
	Palette    string          `json:"palette,omitempty"` // path to a .gpl file, empty = built-in
	Project    string          `json:"project,omitempty"` // last project, loaded at startup
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Driver: DriverSerialOSC,
		SerialOSC: SerialOSCConfig{
			Host:     "127.0.0.1",
			Port:     12002,
			Prefix:   "/transit",
			Rotation: 90,
		},
		Virtual: VirtualConfig{
			Rows: 8,
			Cols: 16,
		},
		TickMillis: 100,
	}
}

// Tick is the redraw period
func (c *Config) Tick() time.Duration {
	if c.TickMillis <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.TickMillis) * time.Millisecond
}

// Validate checks values that can't be clamped sensibly
func (c *Config) Validate() error {
	if !c.Driver.Valid() {
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	switch c.SerialOSC.Rotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("rotation must be 0, 90, 180 or 270, got %d", c.SerialOSC.Rotation)
	}
	if c.Virtual.Rows < 0 || c.Virtual.Cols < 0 {
		return fmt.Errorf("virtual grid size %dx%d", c.Virtual.Rows, c.Virtual.Cols)
	}
	return nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "transit"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Fields missing from the file keep their defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

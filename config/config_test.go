package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Driver != DriverSerialOSC || cfg.SerialOSC.Port != 12002 || cfg.SerialOSC.Rotation != 90 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Virtual.Rows != 8 || cfg.Virtual.Cols != 16 {
		t.Errorf("virtual = %+v", cfg.Virtual)
	}
	if cfg.Tick() != 100*time.Millisecond {
		t.Errorf("tick = %v", cfg.Tick())
	}
}

func TestSaveLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Driver = DriverLaunchpad
	cfg.Launchpad.PortName = "LPX MIDI"
	cfg.SerialOSC.Rotation = 0
	cfg.TickMillis = 50
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Driver != DriverLaunchpad || got.Launchpad.PortName != "LPX MIDI" {
		t.Errorf("loaded = %+v", got)
	}
	if got.SerialOSC.Rotation != 0 {
		t.Errorf("rotation 0 should survive a round trip, got %d", got.SerialOSC.Rotation)
	}
	if got.Tick() != 50*time.Millisecond {
		t.Errorf("tick = %v", got.Tick())
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "transit")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"driver":"virtual"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Driver != DriverVirtual || cfg.SerialOSC.Prefix != "/transit" || cfg.Virtual.Cols != 16 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		ok   bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad driver", func(c *Config) { c.Driver = "midi" }, false},
		{"bad rotation", func(c *Config) { c.SerialOSC.Rotation = 45 }, false},
		{"negative size", func(c *Config) { c.Virtual.Rows = -1 }, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.edit(cfg)
		if err := cfg.Validate(); (err == nil) != tt.ok {
			t.Errorf("%s: Validate = %v", tt.name, err)
		}
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/signal-collider/parameter"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if c.SampleRate != parameter.AudioSampleRate || c.TickFrames != parameter.TickFrames {
		t.Errorf("Unexpected defaults %+v", c)
	}
}

func TestLoadFileOverlays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collider.json")
	os.WriteFile(path, []byte(`{"backend":"null","reverb":true,"palette":"kit.txt"}`), 0644)

	c := Default()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Backend != "null" || !c.Reverb || c.Palette != "kit.txt" {
		t.Errorf("File values not applied: %+v", c)
	}
	if c.SampleRate != parameter.AudioSampleRate {
		t.Error("Absent fields should keep defaults")
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	c := Default()

	if err := c.LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"backend":`), 0644)
	if err := c.LoadFile(bad); err == nil {
		t.Error("Expected error for malformed file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("COLLIDER_SAMPLE_RATE", "44100")
	t.Setenv("COLLIDER_BACKEND", "speaker")
	t.Setenv("COLLIDER_VOLUME", "150")
	t.Setenv("COLLIDER_REVERB", "true")
	t.Setenv("COLLIDER_HISTORY", "4")
	t.Setenv("COLLIDER_TICK_FRAMES", "not-a-number")

	c := Default()
	c.ApplyEnv()

	if c.SampleRate != 44100 {
		t.Errorf("Expected 44100, got %d", c.SampleRate)
	}
	if c.Backend != "speaker" {
		t.Errorf("Expected speaker, got %s", c.Backend)
	}
	if c.Volume != 1 {
		t.Errorf("Expected volume clamped to 1, got %f", c.Volume)
	}
	if !c.Reverb || c.HistoryDepth != 4 {
		t.Errorf("Env flags not applied: %+v", c)
	}
	if c.TickFrames != parameter.TickFrames {
		t.Error("Malformed env value should be ignored")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero rate", func(c *Config) { c.SampleRate = 0 }},
		{"zero tick", func(c *Config) { c.TickFrames = 0 }},
		{"loud", func(c *Config) { c.Volume = 2 }},
		{"deep history", func(c *Config) { c.HistoryDepth = parameter.HistorySlots }},
		{"negative history", func(c *Config) { c.HistoryDepth = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

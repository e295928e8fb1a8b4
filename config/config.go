package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sugawarayuuta/sonnet"

	"github.com/lixenwraith/signal-collider/parameter"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config holds process-wide settings
// Precedence: defaults, then config file, then environment, then flags
type Config struct {
	SampleRate   int     `json:"sample_rate"`
	TickFrames   int     `json:"tick_frames"`
	Backend      string  `json:"backend"` // oto, speaker, null
	Volume       float64 `json:"volume"`  // 0.0-1.0
	Reverb       bool    `json:"reverb"`
	HistoryDepth int     `json:"history_depth"`
	Palette      string  `json:"palette"` // Palette list loaded at startup
	Patch        string  `json:"patch"`   // Patch loaded at startup
	Debug        bool    `json:"debug"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		SampleRate:   parameter.AudioSampleRate,
		TickFrames:   parameter.TickFrames,
		Backend:      "oto",
		Volume:       parameter.DefaultMasterVolume,
		HistoryDepth: 8,
	}
}

// LoadFile overlays a JSON config file on c; absent fields keep their values
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := sonnet.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays COLLIDER_* environment variables on c
// Malformed values are ignored
func (c *Config) ApplyEnv() {
	if v := os.Getenv("COLLIDER_SAMPLE_RATE"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			c.SampleRate = val
		}
	}

	if v := os.Getenv("COLLIDER_TICK_FRAMES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			c.TickFrames = val
		}
	}

	if v := os.Getenv("COLLIDER_BACKEND"); v != "" {
		c.Backend = v
	}

	// Master volume as 0-100 converted to 0.0-1.0
	if v := os.Getenv("COLLIDER_VOLUME"); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			c.Volume = min(max(float64(val)/100.0, 0), 1)
		}
	}

	if v := os.Getenv("COLLIDER_REVERB"); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			c.Reverb = val
		}
	}

	if v := os.Getenv("COLLIDER_HISTORY"); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			c.HistoryDepth = val
		}
	}

	if v := os.Getenv("COLLIDER_PALETTE"); v != "" {
		c.Palette = v
	}

	if v := os.Getenv("COLLIDER_PATCH"); v != "" {
		c.Patch = v
	}

	if v := os.Getenv("COLLIDER_DEBUG"); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			c.Debug = val
		}
	}
}

// Validate checks ranges that cannot be clamped silently
func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.TickFrames <= 0:
		return fmt.Errorf("%w: tick frames %d", ErrInvalidConfig, c.TickFrames)
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("%w: volume %.2f outside 0-1", ErrInvalidConfig, c.Volume)
	case c.HistoryDepth < 0 || c.HistoryDepth > parameter.MaxHistoryDepth:
		return fmt.Errorf("%w: history depth %d outside 0-%d", ErrInvalidConfig, c.HistoryDepth, parameter.MaxHistoryDepth)
	}
	return nil
}

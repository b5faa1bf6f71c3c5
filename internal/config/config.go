// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// Line backends.
const (
	BackendPeriph = "periph"
	BackendRpio   = "rpio"
	BackendSim    = "sim"
)

// MinSampleInterval is the shortest gap the DHT11 tolerates between readings.
const MinSampleInterval = time.Second

// Config holds all application configuration values.
type Config struct {
	// Source labels every sample, e.g. "living_room".
	Source string

	// Hardware
	Backend string // "periph", "rpio" or "sim"
	Pin     string // periph pin name ("GPIO4") or BCM number for rpio ("4")
	Delay   string // "spin" or "sleep"

	// Timing
	SampleInterval time.Duration
	Count          int // readings to take, 0 = until interrupted

	// Output
	Format   string // "text", "json" or "xdr"
	LogLevel string

	// Simulated sensor values (backend "sim")
	SimTemperature float64
	SimHumidity    float64
}

type fileConfig struct {
	Source         string  `toml:"source"`
	Backend        string  `toml:"backend"`
	Pin            string  `toml:"pin"`
	Delay          string  `toml:"delay"`
	SampleInterval string  `toml:"sample_interval"`
	Count          int     `toml:"count"`
	Format         string  `toml:"format"`
	LogLevel       string  `toml:"log_level"`
	SimTemperature float64 `toml:"sim_temperature"`
	SimHumidity    float64 `toml:"sim_humidity"`
}

// Default returns the configuration used when a key is absent.
func Default() *Config {
	return &Config{
		Source:         "dht11",
		Backend:        BackendPeriph,
		Pin:            "GPIO4",
		Delay:          "spin",
		SampleInterval: 2 * time.Second,
		Format:         "text",
		LogLevel:       "info",
		SimTemperature: 21,
		SimHumidity:    50,
	}
}

// Load reads a TOML configuration file on top of Default.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(configPath, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key: %q", undecoded[0].String())
	}

	if meta.IsDefined("source") {
		cfg.Source = strings.TrimSpace(raw.Source)
	}
	if meta.IsDefined("backend") {
		cfg.Backend = strings.ToLower(strings.TrimSpace(raw.Backend))
	}
	if meta.IsDefined("pin") {
		cfg.Pin = strings.TrimSpace(raw.Pin)
	}
	if meta.IsDefined("delay") {
		cfg.Delay = strings.ToLower(strings.TrimSpace(raw.Delay))
	}
	if meta.IsDefined("sample_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.SampleInterval))
		if err != nil {
			return nil, fmt.Errorf("invalid sample_interval %q: %w", raw.SampleInterval, err)
		}
		cfg.SampleInterval = d
	}
	if meta.IsDefined("count") {
		cfg.Count = raw.Count
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("sim_temperature") {
		cfg.SimTemperature = raw.SimTemperature
	}
	if meta.IsDefined("sim_humidity") {
		cfg.SimHumidity = raw.SimHumidity
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and required fields.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}
	switch c.Backend {
	case BackendPeriph:
		if c.Pin == "" {
			return fmt.Errorf("pin is required for backend %q", c.Backend)
		}
	case BackendRpio:
		n, err := strconv.Atoi(c.Pin)
		if err != nil {
			return fmt.Errorf("pin must be a BCM number for backend %q, got %q", c.Backend, c.Pin)
		}
		if n < 0 || n > 53 {
			return fmt.Errorf("pin must be 0-53 for backend %q, got %d", c.Backend, n)
		}
	case BackendSim:
		if c.SimTemperature < -127.9 || c.SimTemperature > 127.9 {
			return fmt.Errorf("sim_temperature must be within ±127.9, got %v", c.SimTemperature)
		}
		if c.SimHumidity < 0 || c.SimHumidity > 100 {
			return fmt.Errorf("sim_humidity must be 0-100, got %v", c.SimHumidity)
		}
	default:
		return fmt.Errorf("backend must be %q, %q or %q, got %q", BackendPeriph, BackendRpio, BackendSim, c.Backend)
	}
	switch c.Delay {
	case "spin", "sleep":
	default:
		return fmt.Errorf("delay must be \"spin\" or \"sleep\", got %q", c.Delay)
	}
	if c.SampleInterval < MinSampleInterval {
		return fmt.Errorf("sample_interval must be at least %v, got %v", MinSampleInterval, c.SampleInterval)
	}
	if c.Count < 0 {
		return fmt.Errorf("count must be >= 0, got %d", c.Count)
	}
	switch c.Format {
	case "text", "json", "xdr":
	default:
		return fmt.Errorf("format must be \"text\", \"json\" or \"xdr\", got %q", c.Format)
	}
	return nil
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// InitGlobal loads the configuration file once for the whole process.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the configuration loaded by InitGlobal, or nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

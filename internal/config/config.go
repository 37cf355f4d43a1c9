// Package config loads daemon configuration from an optional YAML file.
// Flags override file values; the file overrides built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/sweeney/enviromon/internal/actuator"
	"github.com/sweeney/enviromon/internal/device"
)

// Config is the full daemon configuration. Interval fields are in
// milliseconds, matching the wire/status representation.
type Config struct {
	TickMs          int64  `yaml:"tick_ms"`
	HistoryMs       int64  `yaml:"history_ms"`
	HistoryCapacity int    `yaml:"history_capacity"`
	HTTPAddr        string `yaml:"http_addr"`
	Broker          string `yaml:"broker"` // empty disables MQTT export
	I2CDevice       string `yaml:"i2c_device"`
	I2CAddr         int    `yaml:"i2c_addr"`
	GPIOChip        string `yaml:"gpio_chip"`
	PinFan          int    `yaml:"pin_fan"`
	PinLight        int    `yaml:"pin_light"`
	PinLamp         int    `yaml:"pin_lamp"`
	LogLevel        string `yaml:"log_level"`

	// Automation defaults applied at startup; mutable at runtime via /set.
	AutoFan        bool    `yaml:"auto_fan"`
	Threshold      float64 `yaml:"threshold"`
	ScheduleOn     bool    `yaml:"schedule_enabled"`
	ScheduleHour   int     `yaml:"schedule_hour"`
	ScheduleMinute int     `yaml:"schedule_minute"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TickMs:          1000,
		HistoryMs:       60000,
		HistoryCapacity: 100,
		HTTPAddr:        ":80",
		I2CDevice:       device.DefaultI2CDevice,
		I2CAddr:         device.DefaultI2CAddr,
		GPIOChip:        actuator.DefaultChip,
		PinFan:          actuator.DefaultPinFan,
		PinLight:        actuator.DefaultPinLight,
		PinLamp:         actuator.DefaultPinLamp,
		LogLevel:        "info",
		Threshold:       25.0,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

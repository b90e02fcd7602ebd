// Package config loads Early Bird settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/earlybird-app/earlybird/internal/wake"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "EARLYBIRD"

// Config is the full application configuration. Environment variables
// win over the file, which wins over Default.
type Config struct {
	Sleep     SleepConfig     `yaml:"sleep" envconfig:"SLEEP"`
	Session   SessionConfig   `yaml:"session" envconfig:"SESSION"`
	Alarm     AlarmConfig     `yaml:"alarm" envconfig:"ALARM"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`

	// DBPath overrides the journal location.
	DBPath string `yaml:"db_path" envconfig:"DB"`
}

type SleepConfig struct {
	// DefaultCycles seeds the "sleep now" picker.
	DefaultCycles int `yaml:"default_cycles" envconfig:"DEFAULT_CYCLES"`
	// DefaultTarget seeds the wake time picker, e.g. "7:00 AM".
	DefaultTarget string  `yaml:"default_target" envconfig:"DEFAULT_TARGET"`
	StageNoise    float64 `yaml:"stage_noise" envconfig:"STAGE_NOISE"`
}

type SessionConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval" envconfig:"TICK_INTERVAL"`
	StageInterval   time.Duration `yaml:"stage_interval" envconfig:"STAGE_INTERVAL"`
	RefreshInterval time.Duration `yaml:"refresh_interval" envconfig:"REFRESH_INTERVAL"`
}

type AlarmConfig struct {
	Bell     bool          `yaml:"bell" envconfig:"BELL"`
	Repeat   int           `yaml:"repeat" envconfig:"REPEAT"`
	Attempts uint          `yaml:"attempts" envconfig:"ATTEMPTS"`
	Delay    time.Duration `yaml:"delay" envconfig:"DELAY"`
}

type TelemetryConfig struct {
	// Endpoint is an OTLP gRPC collector address. Empty keeps metrics
	// in process.
	Endpoint string `yaml:"endpoint" envconfig:"ENDPOINT"`
	Insecure bool   `yaml:"insecure" envconfig:"INSECURE"`
}

type LogConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL"`
	// File receives TUI logs. Empty discards them.
	File string `yaml:"file" envconfig:"FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sleep: SleepConfig{
			DefaultCycles: wake.DefaultCycles,
			DefaultTarget: "7:00 AM",
			StageNoise:    0.10,
		},
		Session: SessionConfig{
			TickInterval:    time.Second,
			StageInterval:   30 * time.Second,
			RefreshInterval: 5 * time.Minute,
		},
		Alarm: AlarmConfig{
			Bell:     true,
			Repeat:   3,
			Attempts: 3,
			Delay:    500 * time.Millisecond,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/earlybird/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "earlybird", "config.yaml"), nil
}

// DefaultLogFile is $XDG_STATE_HOME/earlybird/earlybird.log.
func DefaultLogFile() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "earlybird", "earlybird.log"), nil
}

// Load reads path over the defaults and then applies environment
// overrides. An empty path means DefaultPath. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and that the default target parses.
func (c Config) Validate() error {
	var errs []error
	if err := wake.ValidateCycles(c.Sleep.DefaultCycles); err != nil {
		errs = append(errs, fmt.Errorf("sleep.default_cycles: %w", err))
	}
	if c.Sleep.DefaultTarget != "" {
		if _, err := wake.ParseTarget(c.Sleep.DefaultTarget); err != nil {
			errs = append(errs, fmt.Errorf("sleep.default_target: %w", err))
		}
	}
	if c.Sleep.StageNoise < 0 || c.Sleep.StageNoise > 1 {
		errs = append(errs, fmt.Errorf("sleep.stage_noise must be within 0..1, got %v", c.Sleep.StageNoise))
	}
	for _, iv := range []struct {
		name string
		d    time.Duration
	}{
		{"session.tick_interval", c.Session.TickInterval},
		{"session.stage_interval", c.Session.StageInterval},
		{"session.refresh_interval", c.Session.RefreshInterval},
	} {
		if iv.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", iv.name, iv.d))
		}
	}
	if c.Alarm.Repeat < 0 {
		errs = append(errs, fmt.Errorf("alarm.repeat must not be negative"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

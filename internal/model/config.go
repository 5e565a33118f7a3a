package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Seed source kinds.
const (
	SeedSample = "sample"
	SeedMbox   = "mbox"
	SeedSQLite = "sqlite"
)

// GestureConfig holds the swipe geometry and timing.
type GestureConfig struct {
	// Max is the hard clamp for the card displacement.
	Max float64 `mapstructure:"max" yaml:"max"`

	// DeleteThreshold must be travelled past (strictly below) to delete.
	DeleteThreshold float64 `mapstructure:"delete_threshold" yaml:"delete_threshold"`

	// FlagThreshold must be travelled past (strictly above) to flag.
	FlagThreshold float64 `mapstructure:"flag_threshold" yaml:"flag_threshold"`

	// Damping scales each wheel impulse.
	Damping float64 `mapstructure:"damping" yaml:"damping"`

	// SettleMs is the quiet period after the last wheel impulse.
	SettleMs int `mapstructure:"settle_ms" yaml:"settle_ms"`

	// DragUnitsPerCell converts terminal columns into displacement units.
	DragUnitsPerCell float64 `mapstructure:"drag_units_per_cell" yaml:"drag_units_per_cell"`

	// KeyImpulse is the raw delta of one arrow key press.
	KeyImpulse float64 `mapstructure:"key_impulse" yaml:"key_impulse"`
}

// SettleDelay returns the quiet period as a duration.
func (g GestureConfig) SettleDelay() time.Duration {
	return time.Duration(g.SettleMs) * time.Millisecond
}

// TransitionConfig holds the envelope animation timing.
type TransitionConfig struct {
	EnvelopeMs int `mapstructure:"envelope_ms" yaml:"envelope_ms"`
	FrameMs    int `mapstructure:"frame_ms" yaml:"frame_ms"`
}

// EnvelopeDuration returns the fixed envelope transition length.
func (t TransitionConfig) EnvelopeDuration() time.Duration {
	return time.Duration(t.EnvelopeMs) * time.Millisecond
}

// FrameInterval returns the redraw interval while an envelope animates.
func (t TransitionConfig) FrameInterval() time.Duration {
	return time.Duration(t.FrameMs) * time.Millisecond
}

// HapticsConfig controls the feedback pulse.
type HapticsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	PulseMs int  `mapstructure:"pulse_ms" yaml:"pulse_ms"`
}

// UserConfig holds the greeting name.
type UserConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
}

// SeedConfig selects where the initial inbox comes from.
type SeedConfig struct {
	// Source is one of "sample", "mbox" or "sqlite".
	Source string `mapstructure:"source" yaml:"source"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Gesture    GestureConfig    `mapstructure:"gesture" yaml:"gesture"`
	Transition TransitionConfig `mapstructure:"transition" yaml:"transition"`
	Haptics    HapticsConfig    `mapstructure:"haptics" yaml:"haptics"`
	User       UserConfig       `mapstructure:"user" yaml:"user"`
	Seed       SeedConfig       `mapstructure:"seed" yaml:"seed"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/letterbox/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "letterbox", "config.yaml")
}

// DefaultAppConfig returns the stock configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Gesture: GestureConfig{
			Max:              160,
			DeleteThreshold:  -120,
			FlagThreshold:    120,
			Damping:          0.6,
			SettleMs:         160,
			DragUnitsPerCell: 4,
			KeyImpulse:       40,
		},
		Transition: TransitionConfig{
			EnvelopeMs: 900,
			FrameMs:    60,
		},
		Haptics: HapticsConfig{
			Enabled: true,
			PulseMs: 10,
		},
		User: UserConfig{Name: "sam"},
		Seed: SeedConfig{Source: SeedSample},
	}
}

// setDefaults mirrors DefaultAppConfig into v so missing keys resolve.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("gesture.max", d.Gesture.Max)
	v.SetDefault("gesture.delete_threshold", d.Gesture.DeleteThreshold)
	v.SetDefault("gesture.flag_threshold", d.Gesture.FlagThreshold)
	v.SetDefault("gesture.damping", d.Gesture.Damping)
	v.SetDefault("gesture.settle_ms", d.Gesture.SettleMs)
	v.SetDefault("gesture.drag_units_per_cell", d.Gesture.DragUnitsPerCell)
	v.SetDefault("gesture.key_impulse", d.Gesture.KeyImpulse)
	v.SetDefault("transition.envelope_ms", d.Transition.EnvelopeMs)
	v.SetDefault("transition.frame_ms", d.Transition.FrameMs)
	v.SetDefault("haptics.enabled", d.Haptics.Enabled)
	v.SetDefault("haptics.pulse_ms", d.Haptics.PulseMs)
	v.SetDefault("user.name", d.User.Name)
	v.SetDefault("seed.source", d.Seed.Source)
	v.SetDefault("seed.path", d.Seed.Path)
}

// NewViper returns a viper instance bound to the YAML file at path with
// all defaults registered.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("letterbox")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := NewViper(path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return DefaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return DecodeConfig(v)
}

// DecodeConfig unmarshals and validates the settings held by v.
func DecodeConfig(v *viper.Viper) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", v.ConfigFileUsed(), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", v.ConfigFileUsed(), err)
	}
	return cfg, nil
}

// Validate checks the gesture geometry and timings for consistency.
func (c *AppConfig) Validate() error {
	g := c.Gesture
	if g.Max <= 0 {
		return fmt.Errorf("gesture.max must be positive, got %v", g.Max)
	}
	if g.DeleteThreshold >= 0 || g.DeleteThreshold <= -g.Max {
		return fmt.Errorf(
			"gesture.delete_threshold must be in (-%v, 0), got %v",
			g.Max, g.DeleteThreshold,
		)
	}
	if g.FlagThreshold <= 0 || g.FlagThreshold >= g.Max {
		return fmt.Errorf(
			"gesture.flag_threshold must be in (0, %v), got %v",
			g.Max, g.FlagThreshold,
		)
	}
	if g.Damping <= 0 || g.Damping >= 1 {
		return fmt.Errorf("gesture.damping must be in (0, 1), got %v", g.Damping)
	}
	if g.SettleMs <= 0 {
		return fmt.Errorf("gesture.settle_ms must be positive, got %d", g.SettleMs)
	}
	if g.DragUnitsPerCell <= 0 {
		return fmt.Errorf("gesture.drag_units_per_cell must be positive, got %v", g.DragUnitsPerCell)
	}
	if c.Transition.EnvelopeMs <= 0 {
		return fmt.Errorf("transition.envelope_ms must be positive, got %d", c.Transition.EnvelopeMs)
	}
	if c.Transition.FrameMs <= 0 {
		return fmt.Errorf("transition.frame_ms must be positive, got %d", c.Transition.FrameMs)
	}
	switch c.Seed.Source {
	case SeedSample:
	case SeedMbox, SeedSQLite:
		if c.Seed.Path == "" {
			return fmt.Errorf("seed.path is required for seed.source %q", c.Seed.Source)
		}
	default:
		return fmt.Errorf("unknown seed.source %q", c.Seed.Source)
	}
	return nil
}

// SameLive reports whether c and o agree on every setting applied while
// the program runs. Seed settings are read once at startup and ignored.
func (c *AppConfig) SameLive(o *AppConfig) bool {
	return c.Gesture == o.Gesture &&
		c.Transition == o.Transition &&
		c.Haptics == o.Haptics &&
		c.User == o.User
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("gesture", cfg.Gesture)
	v.Set("transition", cfg.Transition)
	v.Set("haptics", cfg.Haptics)
	v.Set("user", cfg.User)
	v.Set("seed", cfg.Seed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

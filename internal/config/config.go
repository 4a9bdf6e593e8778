// Package config loads engine tuning: resource limits, phase gates, ending
// thresholds and run settings.
//
// Values are layered: defaults, then an optional YAML file, then ELDRITCH_*
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/engine"
	"github.com/roach88/eldritch/internal/phase"
	"github.com/roach88/eldritch/internal/victory"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "ELDRITCH_"

// Config is the complete engine configuration.
type Config struct {
	// Seed seeds the campaign's roller when a scenario does not fix one.
	Seed int64 `yaml:"seed" json:"seed" env:"SEED"`

	// MaxOrders caps orders per turn; 0 disables the cap.
	MaxOrders int `yaml:"max_orders" json:"max_orders" env:"MAX_ORDERS"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level" env:"LOG_LEVEL"`

	// DB is the journal path used when a command is not given --db.
	DB string `yaml:"db" json:"db" env:"DB"`

	Limits  campaign.Limits    `yaml:"limits" json:"limits"`
	Gates   phase.Thresholds   `yaml:"gates" json:"gates"`
	Endings victory.Thresholds `yaml:"endings" json:"endings"`
}

// DefaultConfig returns a Config with the standard rules.
func DefaultConfig() *Config {
	return &Config{
		MaxOrders: engine.DefaultMaxOrders,
		LogLevel:  "info",
		DB:        "eldritch.db",
		Limits:    campaign.DefaultLimits(),
		Gates:     phase.DefaultThresholds(),
		Endings:   victory.DefaultThresholds(),
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxOrders < 0 {
		errs = append(errs, fmt.Errorf("max_orders must not be negative"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	l := c.Limits
	if l.MaxSanityFragments <= 0 || l.MaxEldritchPower <= 0 || l.MaxCorruptionIndex <= 0 ||
		l.MaxElderFavor <= 0 || l.MaxCultists <= 0 {
		errs = append(errs, fmt.Errorf("limits must all be positive"))
	}

	g := c.Gates
	if g.Phase2Regions < 0 || g.Phase2Sites < 0 || g.Phase2Turn < 0 || g.Phase3Turn < 0 {
		errs = append(errs, fmt.Errorf("gates: counts and turns must not be negative"))
	}
	if g.Phase2Corruption < 0 || g.Phase2Corruption > 100 || g.Phase2CouncilUnity < 0 || g.Phase2CouncilUnity > 100 {
		errs = append(errs, fmt.Errorf("gates: percentages must be within [0,100]"))
	}
	if g.Phase3Turn < g.Phase2Turn {
		errs = append(errs, fmt.Errorf("gates.phase3_turn (%d) is before gates.phase2_turn (%d)", g.Phase3Turn, g.Phase2Turn))
	}

	e := c.Endings
	if e.Approaching <= 0 || e.Approaching > 1 {
		errs = append(errs, fmt.Errorf("endings.approaching must be within (0,1]"))
	}
	if e.BanishmentGraceTurn < 0 {
		errs = append(errs, fmt.Errorf("endings.banishment_grace_turn must not be negative"))
	}
	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from ELDRITCH_* variables. Unset variables
// leave fields alone.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load layers defaults, the file at path (skipped when path is empty) and
// the environment, then validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fromFile, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fromFile
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EngineOptions returns the engine options this configuration implies.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithGates(c.Gates),
		engine.WithEndings(c.Endings),
		engine.WithMaxOrders(c.MaxOrders),
	}
}

// Settings encodes the rule settings for the journal. Run-level fields
// (seed, db, log level) are left out: they do not change the rules.
func (c *Config) Settings() (json.RawMessage, error) {
	data, err := json.Marshal(struct {
		MaxOrders int                `json:"max_orders"`
		Limits    campaign.Limits    `json:"limits"`
		Gates     phase.Thresholds   `json:"gates"`
		Endings   victory.Thresholds `json:"endings"`
	}{c.MaxOrders, c.Limits, c.Gates, c.Endings})
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}

// FromSettings rebuilds a Config from journaled settings over the defaults.
func FromSettings(raw json.RawMessage) (*Config, error) {
	cfg := DefaultConfig()
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return cfg, nil
}

// Logger builds a text logger at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_level %q is not one of debug, info, warn, error", s)
}

// Package config provides Viper-based configuration loading for the arena simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ContentConfig holds the content directory locations.
type ContentConfig struct {
	// SkillsDir is the directory containing skill definition YAML files.
	SkillsDir string `mapstructure:"skills_dir"`
	// BuffsDir is the directory containing buff definition YAML files.
	BuffsDir string `mapstructure:"buffs_dir"`
}

// BattleConfig holds battle engine tuning.
type BattleConfig struct {
	// MaxRounds is the hard round cap before a battle is declared a draw.
	MaxRounds int `mapstructure:"max_rounds"`
	// VarianceMin is the lower bound of the basic-attack damage multiplier.
	VarianceMin float64 `mapstructure:"variance_min"`
	// VarianceMax is the upper bound of the basic-attack damage multiplier.
	VarianceMax float64 `mapstructure:"variance_max"`
	// Seed, when non-zero, overrides the per-battle seed for deterministic replays.
	Seed uint64 `mapstructure:"seed"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Content ContentConfig `mapstructure:"content"`
	Battle  BattleConfig  `mapstructure:"battle"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.SkillsDir == "" {
		errs = append(errs, "content.skills_dir must not be empty")
	}
	if c.BuffsDir == "" {
		errs = append(errs, "content.buffs_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("battle.max_rounds must be >= 1, got %d", b.MaxRounds))
	}
	if b.VarianceMin <= 0 {
		errs = append(errs, fmt.Sprintf("battle.variance_min must be > 0, got %g", b.VarianceMin))
	}
	if b.VarianceMax < b.VarianceMin {
		errs = append(errs, fmt.Sprintf("battle.variance_max must be >= battle.variance_min, got %g < %g", b.VarianceMax, b.VarianceMin))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ARENA_ prefix
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("content.skills_dir", "content/skills")
	v.SetDefault("content.buffs_dir", "content/buffs")

	v.SetDefault("battle.max_rounds", 30)
	v.SetDefault("battle.variance_min", 0.85)
	v.SetDefault("battle.variance_max", 1.15)
	v.SetDefault("battle.seed", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

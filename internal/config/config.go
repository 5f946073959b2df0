// Package config provides Viper-based configuration loading for the
// Embervault combat engine and its tooling.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig holds the directories for static game content.
type ContentConfig struct {
	// SkillsDir is the directory of skill YAML definitions.
	SkillsDir string `mapstructure:"skills_dir"`
	// ItemsDir is the directory of item YAML definitions.
	ItemsDir string `mapstructure:"items_dir"`
	// PartyDir is the directory of party member YAML templates.
	PartyDir string `mapstructure:"party_dir"`
	// EnemiesDir is the directory of enemy YAML templates.
	EnemiesDir string `mapstructure:"enemies_dir"`
	// ScriptsDir is the directory of Lua boss behavior scripts; empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// EngineConfig holds the combat engine tuning knobs.
type EngineConfig struct {
	// BossSpecialEveryNTurns is the default cadence of the telegraphed boss
	// special when no script overrides it.
	BossSpecialEveryNTurns int `mapstructure:"boss_special_every_n_turns"`
	// FleeBaseChance is the base probability of a successful flee when both
	// sides have equal average speed. Range (0, 1).
	FleeBaseChance float64 `mapstructure:"flee_base_chance"`
	// FleeSpeedFactor is the probability delta per point of average speed
	// difference between party and enemies.
	FleeSpeedFactor float64 `mapstructure:"flee_speed_factor"`
	// DrainHealFraction is the fraction of drained HP returned to the actor.
	DrainHealFraction float64 `mapstructure:"drain_heal_fraction"`
	// DefendMPRegen is the MP restored to an entity that defends.
	DefendMPRegen int `mapstructure:"defend_mp_regen"`
	// EnemyTurnDelay paces automatic enemy turns in the battlesim harness so
	// log output stays readable. The engine itself never sleeps.
	EnemyTurnDelay time.Duration `mapstructure:"enemy_turn_delay"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Content ContentConfig `mapstructure:"content"`
	Engine  EngineConfig  `mapstructure:"engine"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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

func validateEngine(e EngineConfig) error {
	var errs []string
	if e.BossSpecialEveryNTurns < 1 {
		errs = append(errs, fmt.Sprintf("engine.boss_special_every_n_turns must be >= 1, got %d", e.BossSpecialEveryNTurns))
	}
	if e.FleeBaseChance <= 0 || e.FleeBaseChance >= 1 {
		errs = append(errs, fmt.Sprintf("engine.flee_base_chance must be in (0, 1), got %f", e.FleeBaseChance))
	}
	if e.FleeSpeedFactor < 0 {
		errs = append(errs, fmt.Sprintf("engine.flee_speed_factor must be >= 0, got %f", e.FleeSpeedFactor))
	}
	if e.DrainHealFraction < 0 || e.DrainHealFraction > 1 {
		errs = append(errs, fmt.Sprintf("engine.drain_heal_fraction must be in [0, 1], got %f", e.DrainHealFraction))
	}
	if e.DefendMPRegen < 0 {
		errs = append(errs, fmt.Sprintf("engine.defend_mp_regen must be >= 0, got %d", e.DefendMPRegen))
	}
	if e.EnemyTurnDelay < 0 {
		errs = append(errs, "engine.enemy_turn_delay must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
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

	// Environment variable overrides with EMBERVAULT_ prefix
	v.SetEnvPrefix("EMBERVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

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

// Default returns the built-in configuration used when no config file is given.
//
// Postcondition: Returns a Config that passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshal of defaults cannot fail; guard anyway.
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: unmarshalling defaults: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("content.skills_dir", "content/skills")
	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.party_dir", "content/party")
	v.SetDefault("content.enemies_dir", "content/enemies")
	v.SetDefault("content.scripts_dir", "content/scripts")

	v.SetDefault("engine.boss_special_every_n_turns", 3)
	v.SetDefault("engine.flee_base_chance", 0.3)
	v.SetDefault("engine.flee_speed_factor", 0.05)
	v.SetDefault("engine.drain_heal_fraction", 1.0)
	v.SetDefault("engine.defend_mp_regen", 2)
	v.SetDefault("engine.enemy_turn_delay", 600*time.Millisecond)
}

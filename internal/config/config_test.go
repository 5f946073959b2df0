package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Content: ContentConfig{
			SkillsDir:  "content/skills",
			ItemsDir:   "content/items",
			PartyDir:   "content/party",
			EnemiesDir: "content/enemies",
			ScriptsDir: "content/scripts",
		},
		Engine: EngineConfig{
			BossSpecialEveryNTurns: 3,
			FleeBaseChance:         0.3,
			FleeSpeedFactor:        0.05,
			DrainHealFraction:      1.0,
			DefendMPRegen:          2,
			EnemyTurnDelay:         600 * time.Millisecond,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Engine.BossSpecialEveryNTurns)
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidate_BadCadence(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.BossSpecialEveryNTurns = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boss_special_every_n_turns")
}

func TestValidate_FleeChanceBounds(t *testing.T) {
	for _, chance := range []float64{0, 1, -0.2, 1.3} {
		cfg := validConfig()
		cfg.Engine.FleeBaseChance = chance
		assert.Error(t, cfg.Validate(), "flee_base_chance=%f must be rejected", chance)
	}
}

func TestValidate_DrainFractionBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.DrainHealFraction = 1.5
	assert.Error(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
logging:
  level: debug
  format: console
engine:
  boss_special_every_n_turns: 5
  flee_base_chance: 0.5
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Engine.BossSpecialEveryNTurns)
	assert.InDelta(t, 0.5, cfg.Engine.FleeBaseChance, 1e-9)
	// Unset keys fall back to defaults.
	assert.Equal(t, 2, cfg.Engine.DefendMPRegen)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
engine:
  drain_heal_fraction: 2.0
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drain_heal_fraction")
}

// TestValidate_EngineProperty: any in-range engine tuning validates.
func TestValidate_EngineProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := validConfig()
		cfg.Engine.BossSpecialEveryNTurns = rapid.IntRange(1, 20).Draw(rt, "cadence")
		cfg.Engine.FleeBaseChance = rapid.Float64Range(0.01, 0.99).Draw(rt, "flee")
		cfg.Engine.FleeSpeedFactor = rapid.Float64Range(0, 0.5).Draw(rt, "factor")
		cfg.Engine.DrainHealFraction = rapid.Float64Range(0, 1).Draw(rt, "drain")
		cfg.Engine.DefendMPRegen = rapid.IntRange(0, 10).Draw(rt, "regen")
		assert.NoError(rt, cfg.Validate())
	})
}

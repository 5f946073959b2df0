package skill_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embervault/crawler/internal/game/skill"
)

func validSkill() *skill.Skill {
	return &skill.Skill{
		ID:      "ember_slash",
		Name:    "Ember Slash",
		Type:    skill.TypeAttack,
		Target:  skill.TargetSingleEnemy,
		Element: "fire",
		MPCost:  4,
		Power:   1.5,
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validSkill().Validate())
}

func TestValidate_EmptyID(t *testing.T) {
	s := validSkill()
	s.ID = ""
	assert.Error(t, s.Validate())
}

func TestValidate_BadType(t *testing.T) {
	s := validSkill()
	s.Type = "ultimate"
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestValidate_BadTarget(t *testing.T) {
	s := validSkill()
	s.Target = "everyone"
	assert.Error(t, s.Validate())
}

func TestValidate_NegativeCost(t *testing.T) {
	s := validSkill()
	s.MPCost = -1
	assert.Error(t, s.Validate())
}

func TestValidate_Effects(t *testing.T) {
	cases := []struct {
		name   string
		effect skill.Effect
		ok     bool
	}{
		{"valid debuff", skill.Effect{Kind: skill.EffectDebuff, Stat: "defense", Value: -3, Duration: 2}, true},
		{"debuff bad stat", skill.Effect{Kind: skill.EffectDebuff, Stat: "luck", Value: -3, Duration: 2}, false},
		{"debuff no duration", skill.Effect{Kind: skill.EffectDebuff, Stat: "defense", Value: -3}, false},
		{"valid stun", skill.Effect{Kind: skill.EffectStatus, Status: "stun", Duration: 1}, true},
		{"stun needs no value", skill.Effect{Kind: skill.EffectStatus, Status: "stun", Value: 0, Duration: 2}, true},
		{"poison needs value", skill.Effect{Kind: skill.EffectStatus, Status: "poison", Duration: 3}, false},
		{"valid poison", skill.Effect{Kind: skill.EffectStatus, Status: "poison", Value: 5, Duration: 3}, true},
		{"unknown status", skill.Effect{Kind: skill.EffectStatus, Status: "sleep", Duration: 2}, false},
		{"valid heal_percent", skill.Effect{Kind: skill.EffectHealPercent, Value: 30}, true},
		{"heal_percent over 100", skill.Effect{Kind: skill.EffectHealPercent, Value: 120}, false},
		{"valid drain", skill.Effect{Kind: skill.EffectDrain, Value: 8}, true},
		{"valid dot", skill.Effect{Kind: skill.EffectDOT, Value: 4, Duration: 3}, true},
		{"dot no duration", skill.Effect{Kind: skill.EffectDOT, Value: 4}, false},
		{"unknown kind", skill.Effect{Kind: "curse", Value: 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSkill()
			s.Effects = []skill.Effect{tc.effect}
			err := s.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestOffensive(t *testing.T) {
	s := validSkill()
	assert.True(t, s.Offensive())
	s.Type = skill.TypeMagic
	assert.True(t, s.Offensive())
	s.Type = skill.TypeSupport
	assert.False(t, s.Offensive())
}

func TestLoadFromBytes_Strict(t *testing.T) {
	good := []byte(`
id: firebolt
name: Firebolt
type: magic
target: single_enemy
element: fire
mp_cost: 3
power: 1.2
`)
	s, err := skill.LoadFromBytes(good)
	require.NoError(t, err)
	assert.Equal(t, "firebolt", s.ID)
	assert.Equal(t, skill.Element("fire"), s.Element)

	unknownField := []byte(`
id: firebolt
name: Firebolt
type: magic
target: single_enemy
mana: 3
`)
	_, err = skill.LoadFromBytes(unknownField)
	assert.Error(t, err, "unknown YAML field must be rejected")
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	write("firebolt.yaml", `
id: firebolt
name: Firebolt
type: magic
target: single_enemy
element: fire
mp_cost: 3
power: 1.2
`)
	write("guard_break.yaml", `
id: guard_break
name: Guard Break
type: attack
target: single_enemy
mp_cost: 2
power: 0.8
effects:
  - kind: debuff
    stat: defense
    value: -3
    duration: 2
`)
	write("notes.txt", "ignored")

	reg, err := skill.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, reg.All(), 2)

	gb, ok := reg.Get("guard_break")
	require.True(t, ok)
	require.Len(t, gb.Effects, 1)
	assert.Equal(t, skill.EffectDebuff, gb.Effects[0].Kind)
	assert.Equal(t, -3, gb.Effects[0].Value)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestLoadDirectory_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: ''\n"), 0o600))
	_, err := skill.LoadDirectory(dir)
	assert.Error(t, err)
}

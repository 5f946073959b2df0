package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/embervault/crawler/internal/game/entity"
	"github.com/embervault/crawler/internal/game/skill"
	"github.com/embervault/crawler/internal/game/status"
)

func hero() *entity.CombatEntity {
	return &entity.CombatEntity{
		ID:       "hero",
		Name:     "Hero",
		IsPlayer: true,
		Stats:    entity.Stats{MaxHP: 30, HP: 30, MaxMP: 10, MP: 10, Attack: 8, Defense: 4, Speed: 6, Level: 3},
	}
}

func TestApplyDamage_FloorsAtZero(t *testing.T) {
	e := hero()
	lost := e.ApplyDamage(50)
	assert.Equal(t, 30, lost)
	assert.Equal(t, 0, e.Stats.HP)
	assert.False(t, e.Alive())

	// Further damage is a no-op.
	assert.Equal(t, 0, e.ApplyDamage(5))
	assert.Equal(t, 0, e.Stats.HP)
}

func TestHeal_CapsAtMax(t *testing.T) {
	e := hero()
	e.Stats.HP = 25
	healed := e.Heal(20)
	assert.Equal(t, 5, healed)
	assert.Equal(t, 30, e.Stats.HP)
}

func TestSpendMP(t *testing.T) {
	e := hero()
	assert.True(t, e.SpendMP(4))
	assert.Equal(t, 6, e.Stats.MP)
	assert.False(t, e.SpendMP(7), "cost above current MP must be refused")
	assert.Equal(t, 6, e.Stats.MP, "failed spend must not mutate MP")
}

func TestRestoreMP_CapsAtMax(t *testing.T) {
	e := hero()
	e.Stats.MP = 9
	assert.Equal(t, 1, e.RestoreMP(5))
	assert.Equal(t, 10, e.Stats.MP)
}

func TestEffectiveStats_IncludeDeltas(t *testing.T) {
	e := hero()
	e.Effects.Apply(status.Effect{ID: "atk_up", Kind: status.KindBuff, Stat: "attack", Value: 3, RemainingTurns: 2})
	e.Effects.Apply(status.Effect{ID: "slow", Kind: status.KindDebuff, Stat: "speed", Value: -4, RemainingTurns: 2})

	assert.Equal(t, 11, e.EffectiveAttack())
	assert.Equal(t, 4, e.EffectiveDefense())
	assert.Equal(t, 2, e.EffectiveSpeed())
}

func TestEffectiveStats_FloorAtZero(t *testing.T) {
	e := hero()
	e.Effects.Apply(status.Effect{ID: "cripple", Kind: status.KindDebuff, Stat: "speed", Value: -20, RemainingTurns: 2})
	assert.Equal(t, 0, e.EffectiveSpeed())
}

func TestElementLists(t *testing.T) {
	e := hero()
	e.Weaknesses = []skill.Element{"fire"}
	e.Resistances = []skill.Element{"ice"}
	assert.True(t, e.WeakTo("fire"))
	assert.False(t, e.WeakTo("ice"))
	assert.True(t, e.Resists("ice"))
	assert.False(t, e.WeakTo(""), "neutral element never matches")
}

func TestHPRatio(t *testing.T) {
	e := hero()
	e.Stats.HP = 12
	assert.InDelta(t, 0.4, e.HPRatio(), 1e-9)
}

func TestHasSkill(t *testing.T) {
	e := hero()
	e.SkillIDs = []string{"firebolt", "guard_break"}
	assert.True(t, e.HasSkill("firebolt"))
	assert.False(t, e.HasSkill("meteor"))
}

// TestHPMPInvariant: any sequence of damage, heals, and MP operations keeps
// HP in [0, MaxHP] and MP in [0, MaxMP].
func TestHPMPInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := hero()
		ops := rapid.IntRange(1, 40).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				e.ApplyDamage(rapid.IntRange(0, 40).Draw(rt, "dmg"))
			case 1:
				e.Heal(rapid.IntRange(0, 40).Draw(rt, "heal"))
			case 2:
				e.SpendMP(rapid.IntRange(0, 15).Draw(rt, "cost"))
			case 3:
				e.RestoreMP(rapid.IntRange(0, 15).Draw(rt, "mp"))
			}
			assert.GreaterOrEqual(rt, e.Stats.HP, 0)
			assert.LessOrEqual(rt, e.Stats.HP, e.Stats.MaxHP)
			assert.GreaterOrEqual(rt, e.Stats.MP, 0)
			assert.LessOrEqual(rt, e.Stats.MP, e.Stats.MaxMP)
		}
	})
}

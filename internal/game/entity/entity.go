// Package entity defines the unified in-battle representation of combatants,
// both party members and enemies.
package entity

import (
	"github.com/embervault/crawler/internal/game/skill"
	"github.com/embervault/crawler/internal/game/status"
)

// Stats is a combatant's stat snapshot at encounter start. HP and MP are the
// only fields the engine mutates.
//
// Invariant: 0 <= HP <= MaxHP and 0 <= MP <= MaxMP after any mutation.
type Stats struct {
	MaxHP   int `json:"maxHp"`
	HP      int `json:"currentHp"`
	MaxMP   int `json:"maxMp"`
	MP      int `json:"currentMp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
	Level   int `json:"level"`
}

// CombatEntity represents one participant in an encounter.
type CombatEntity struct {
	// ID is unique within the encounter. Enemies spawned from the same
	// template get distinct instance IDs.
	ID string `json:"id"`
	// TemplateID is the roster template this entity was spawned from; empty
	// for ad-hoc entities in tests.
	TemplateID string `json:"templateId,omitempty"`
	Name       string `json:"name"`
	Stats      Stats  `json:"stats"`
	IsPlayer   bool   `json:"isPlayer"`
	// IsDefending halves incoming post-defense damage. It is set by a defend
	// action and cleared at the start of the entity's next turn.
	IsDefending bool `json:"isDefending"`
	// Effects is the ordered list of active status effects.
	Effects status.Set `json:"statusEffects"`
	// TurnOrder is this entity's rank in the current round, recomputed by the
	// scheduler at every round boundary.
	TurnOrder int `json:"turnOrder"`

	SkillIDs    []string        `json:"skills,omitempty"`
	Weaknesses  []skill.Element `json:"weaknesses,omitempty"`
	Resistances []skill.Element `json:"resistances,omitempty"`

	// AIPattern names the decision policy for non-player entities; empty for
	// party members.
	AIPattern string `json:"aiPattern,omitempty"`
	// BossScript names the Lua script driving this enemy's telegraphed
	// special, when the pattern is a scripted boss tier.
	BossScript string `json:"bossScript,omitempty"`

	// RewardXP and RewardGold are granted to the party when this enemy dies.
	RewardXP   int `json:"rewardXp,omitempty"`
	RewardGold int `json:"rewardGold,omitempty"`
}

// Alive reports whether the entity can still act and be targeted.
//
// Postcondition: Returns true iff HP > 0.
func (e *CombatEntity) Alive() bool { return e.Stats.HP > 0 }

// HPRatio returns current HP as a fraction of max HP in [0, 1].
//
// Precondition: MaxHP > 0.
func (e *CombatEntity) HPRatio() float64 {
	return float64(e.Stats.HP) / float64(e.Stats.MaxHP)
}

// EffectiveAttack returns base attack plus active buff/debuff deltas, floored at 0.
func (e *CombatEntity) EffectiveAttack() int {
	return nonNegative(e.Stats.Attack + e.Effects.StatDelta("attack"))
}

// EffectiveDefense returns base defense plus active buff/debuff deltas, floored at 0.
func (e *CombatEntity) EffectiveDefense() int {
	return nonNegative(e.Stats.Defense + e.Effects.StatDelta("defense"))
}

// EffectiveSpeed returns base speed plus active buff/debuff deltas, floored at 0.
// The scheduler orders each round by this value.
func (e *CombatEntity) EffectiveSpeed() int {
	return nonNegative(e.Stats.Speed + e.Effects.StatDelta("speed"))
}

// ApplyDamage reduces HP by amount, flooring at zero, and returns the HP
// actually lost.
//
// Precondition: amount >= 0.
// Postcondition: HP >= 0.
func (e *CombatEntity) ApplyDamage(amount int) int {
	if amount > e.Stats.HP {
		amount = e.Stats.HP
	}
	e.Stats.HP -= amount
	return amount
}

// Heal raises HP by amount, capping at MaxHP, and returns the HP actually
// restored.
//
// Precondition: amount >= 0.
// Postcondition: HP <= MaxHP.
func (e *CombatEntity) Heal(amount int) int {
	if amount > e.Stats.MaxHP-e.Stats.HP {
		amount = e.Stats.MaxHP - e.Stats.HP
	}
	e.Stats.HP += amount
	return amount
}

// SpendMP deducts cost from MP. It reports false and leaves MP untouched when
// the entity cannot afford the cost.
//
// Postcondition: MP >= 0.
func (e *CombatEntity) SpendMP(cost int) bool {
	if cost > e.Stats.MP {
		return false
	}
	e.Stats.MP -= cost
	return true
}

// RestoreMP raises MP by amount, capping at MaxMP, and returns the MP actually
// restored.
//
// Postcondition: MP <= MaxMP.
func (e *CombatEntity) RestoreMP(amount int) int {
	if amount > e.Stats.MaxMP-e.Stats.MP {
		amount = e.Stats.MaxMP - e.Stats.MP
	}
	e.Stats.MP += amount
	return amount
}

// WeakTo reports whether el is in the entity's weakness list.
func (e *CombatEntity) WeakTo(el skill.Element) bool {
	return containsElement(e.Weaknesses, el)
}

// Resists reports whether el is in the entity's resistance list.
func (e *CombatEntity) Resists(el skill.Element) bool {
	return containsElement(e.Resistances, el)
}

// HasSkill reports whether the entity knows the skill with the given ID.
func (e *CombatEntity) HasSkill(id string) bool {
	for _, s := range e.SkillIDs {
		if s == id {
			return true
		}
	}
	return false
}

func containsElement(list []skill.Element, el skill.Element) bool {
	if el == "" {
		return false
	}
	for _, v := range list {
		if v == el {
			return true
		}
	}
	return false
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Package skill provides immutable skill definitions loaded from YAML.
// The combat engine looks skills up by ID and never mutates them.
package skill

import "fmt"

// Type classifies what a skill fundamentally does.
type Type string

const (
	TypeAttack  Type = "attack"
	TypeMagic   Type = "magic"
	TypeSupport Type = "support"
	TypePassive Type = "passive"
)

// TargetType determines how a skill's targets are resolved at execution time.
type TargetType string

const (
	TargetSingleEnemy TargetType = "single_enemy"
	TargetAllEnemies  TargetType = "all_enemies"
	TargetSingleAlly  TargetType = "single_ally"
	TargetAllAllies   TargetType = "all_allies"
	TargetSelf        TargetType = "self"
)

// Element is the elemental affinity of a skill. The empty string is neutral.
// Elements are content-defined; weaknesses and resistances match by equality.
type Element string

// EffectKind classifies a secondary effect attached to a skill.
type EffectKind string

const (
	EffectBuff        EffectKind = "buff"
	EffectDebuff      EffectKind = "debuff"
	EffectStatus      EffectKind = "status"
	EffectHealPercent EffectKind = "heal_percent"
	EffectDrain       EffectKind = "drain"
	EffectDOT         EffectKind = "dot"
)

// ModifiableStats are the stat names a buff or debuff may target.
var ModifiableStats = map[string]bool{
	"attack":  true,
	"defense": true,
	"speed":   true,
}

// StatusKinds are the status names an EffectStatus may inflict.
var StatusKinds = map[string]bool{
	"stun":   true,
	"poison": true,
	"burn":   true,
}

// Effect is one secondary effect carried by a skill, applied to each resolved
// target after the skill's primary damage or healing.
type Effect struct {
	Kind EffectKind `yaml:"kind"`
	// Stat names the stat a buff/debuff modifies: "attack", "defense", or "speed".
	Stat string `yaml:"stat,omitempty"`
	// Status names the inflicted status for kind "status": "stun", "poison", or "burn".
	Status string `yaml:"status,omitempty"`
	// Value is the magnitude: stat delta, percent of max HP, drain amount, or
	// damage per tick depending on Kind.
	Value int `yaml:"value"`
	// Duration is the number of the target's turns the effect lasts.
	Duration int `yaml:"duration,omitempty"`
}

// Skill is a static, immutable skill definition.
type Skill struct {
	ID      string     `yaml:"id"`
	Name    string     `yaml:"name"`
	Type    Type       `yaml:"type"`
	Target  TargetType `yaml:"target"`
	Element Element    `yaml:"element,omitempty"`
	MPCost  int        `yaml:"mp_cost"`
	// Power is the damage/heal multiplier against the relevant base stat.
	// A basic weapon attack behaves as power 1.0.
	Power   float64  `yaml:"power"`
	Effects []Effect `yaml:"effects,omitempty"`
}

// Offensive reports whether the skill deals direct damage to its targets.
func (s *Skill) Offensive() bool {
	return s.Type == TypeAttack || s.Type == TypeMagic
}

// Validate checks that the skill definition satisfies its invariants.
//
// Precondition: s must not be nil.
// Postcondition: Returns nil iff ID, Name, Type, and Target are valid, costs
// and power are non-negative, and every Effect is internally consistent.
func (s *Skill) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("skill: id must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("skill %q: name must not be empty", s.ID)
	}
	switch s.Type {
	case TypeAttack, TypeMagic, TypeSupport, TypePassive:
	default:
		return fmt.Errorf("skill %q: type must be one of [attack, magic, support, passive], got %q", s.ID, s.Type)
	}
	switch s.Target {
	case TargetSingleEnemy, TargetAllEnemies, TargetSingleAlly, TargetAllAllies, TargetSelf:
	default:
		return fmt.Errorf("skill %q: target must be one of [single_enemy, all_enemies, single_ally, all_allies, self], got %q", s.ID, s.Target)
	}
	if s.MPCost < 0 {
		return fmt.Errorf("skill %q: mp_cost must be >= 0, got %d", s.ID, s.MPCost)
	}
	if s.Power < 0 {
		return fmt.Errorf("skill %q: power must be >= 0, got %f", s.ID, s.Power)
	}
	for i, e := range s.Effects {
		if err := e.validate(); err != nil {
			return fmt.Errorf("skill %q: effect[%d]: %w", s.ID, i, err)
		}
	}
	return nil
}

func (e Effect) validate() error {
	switch e.Kind {
	case EffectBuff, EffectDebuff:
		if !ModifiableStats[e.Stat] {
			return fmt.Errorf("stat must be one of [attack, defense, speed], got %q", e.Stat)
		}
		if e.Value == 0 {
			return fmt.Errorf("value must be non-zero for %s", e.Kind)
		}
		if e.Duration < 1 {
			return fmt.Errorf("duration must be >= 1 for %s, got %d", e.Kind, e.Duration)
		}
	case EffectStatus:
		if !StatusKinds[e.Status] {
			return fmt.Errorf("status must be one of [stun, poison, burn], got %q", e.Status)
		}
		if e.Duration < 1 {
			return fmt.Errorf("duration must be >= 1 for status, got %d", e.Duration)
		}
		if e.Status != "stun" && e.Value < 1 {
			return fmt.Errorf("value must be >= 1 for %s, got %d", e.Status, e.Value)
		}
	case EffectHealPercent:
		if e.Value < 1 || e.Value > 100 {
			return fmt.Errorf("value must be in [1, 100] for heal_percent, got %d", e.Value)
		}
	case EffectDrain:
		if e.Value < 1 {
			return fmt.Errorf("value must be >= 1 for drain, got %d", e.Value)
		}
	case EffectDOT:
		if e.Value < 1 {
			return fmt.Errorf("value must be >= 1 for dot, got %d", e.Value)
		}
		if e.Duration < 1 {
			return fmt.Errorf("duration must be >= 1 for dot, got %d", e.Duration)
		}
	default:
		return fmt.Errorf("kind must be one of [buff, debuff, status, heal_percent, drain, dot], got %q", e.Kind)
	}
	return nil
}

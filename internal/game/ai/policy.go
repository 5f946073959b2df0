// Package ai implements the enemy decision policies. Each pattern is a pure
// function from the battle state and acting entity to a combat action; the
// boss tier layers a Lua script hook on top for its telegraphed special.
package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/embervault/crawler/internal/config"
	"github.com/embervault/crawler/internal/game/battle"
	"github.com/embervault/crawler/internal/game/entity"
	"github.com/embervault/crawler/internal/game/skill"
)

// Pattern names understood by the policy. Unknown patterns behave as
// aggressive.
const (
	PatternAggressive = "aggressive"
	PatternDefensive  = "defensive"
	PatternBalanced   = "balanced"
	PatternSupport    = "support"
	PatternBossFerno  = "boss_ferno"
)

// hurtThreshold is the HP ratio below which the defensive pattern switches
// from attacking to self-preservation.
const hurtThreshold = 0.4

// ScriptCaller invokes hooks in loaded boss scripts.
type ScriptCaller interface {
	Has(id string) bool
	CallHook(scriptID, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Policy decides actions for enemy entities.
type Policy struct {
	cfg     config.EngineConfig
	skills  *skill.Registry
	scripts ScriptCaller
	logger  *zap.Logger
}

// Option configures optional Policy collaborators.
type Option func(*Policy)

// WithScripts installs the boss script hook caller.
func WithScripts(sc ScriptCaller) Option {
	return func(p *Policy) { p.scripts = sc }
}

// NewPolicy builds a Policy. A nil logger is replaced with a no-op logger.
func NewPolicy(cfg config.EngineConfig, skills *skill.Registry, logger *zap.Logger, opts ...Option) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Policy{cfg: cfg, skills: skills, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decide picks the acting enemy's action by its pattern. The returned action
// always names a living target; when no skill qualifies it degrades to a
// basic attack, and to defend when no target exists at all.
func (p *Policy) Decide(s *battle.State, actor *entity.CombatEntity) battle.Action {
	var act battle.Action
	switch actor.AIPattern {
	case PatternDefensive:
		act = p.defensive(s, actor)
	case PatternBalanced:
		act = p.balanced(s, actor)
	case PatternSupport:
		act = p.support(s, actor)
	case PatternBossFerno:
		act = p.bossFerno(s, actor)
	default:
		act = p.aggressive(s, actor)
	}
	p.logger.Debug("ai decision",
		zap.String("entity", actor.ID),
		zap.String("pattern", actor.AIPattern),
		zap.String("action", act.String()),
	)
	return act
}

// usable returns the actor's known, affordable, directly-invokable skills.
func (p *Policy) usable(actor *entity.CombatEntity) []*skill.Skill {
	var out []*skill.Skill
	for _, id := range actor.SkillIDs {
		sk, ok := p.skills.Get(id)
		if !ok || sk.Type == skill.TypePassive {
			continue
		}
		if actor.Stats.MP < sk.MPCost {
			continue
		}
		out = append(out, sk)
	}
	return out
}

// weakest returns the living opponent with the lowest current HP.
func weakest(s *battle.State, actor *entity.CombatEntity) *entity.CombatEntity {
	var target *entity.CombatEntity
	for _, e := range s.OpponentsOf(actor) {
		if target == nil || e.Stats.HP < target.Stats.HP {
			target = e
		}
	}
	return target
}

// attackOrDefend is the universal fallback: a basic attack on the weakest
// opponent, or defend when no opponent is left to hit.
func attackOrDefend(s *battle.State, actor *entity.CombatEntity) battle.Action {
	if t := weakest(s, actor); t != nil {
		return battle.Attack(actor.ID, t.ID)
	}
	return battle.Defend(actor.ID)
}

// aggressive attacks the weakest opponent with the strongest affordable
// offensive skill.
func (p *Policy) aggressive(s *battle.State, actor *entity.CombatEntity) battle.Action {
	target := weakest(s, actor)
	if target == nil {
		return battle.Defend(actor.ID)
	}
	var best *skill.Skill
	for _, sk := range p.usable(actor) {
		if !sk.Offensive() {
			continue
		}
		if best == nil || sk.Power > best.Power {
			best = sk
		}
	}
	if best == nil {
		return battle.Attack(actor.ID, target.ID)
	}
	return skillAction(actor, best, target)
}

// defensive guards and heals below the hurt threshold, attacks otherwise.
func (p *Policy) defensive(s *battle.State, actor *entity.CombatEntity) battle.Action {
	if actor.HPRatio() < hurtThreshold {
		if heal := p.bestHeal(actor); heal != nil {
			return skillAction(actor, heal, actor)
		}
		return battle.Defend(actor.ID)
	}
	return p.aggressive(s, actor)
}

// bestHeal returns the actor's strongest affordable healing skill, or nil.
func (p *Policy) bestHeal(actor *entity.CombatEntity) *skill.Skill {
	var best *skill.Skill
	for _, sk := range p.usable(actor) {
		if !healing(sk) {
			continue
		}
		if best == nil || healAmount(sk) > healAmount(best) {
			best = sk
		}
	}
	return best
}

func healing(sk *skill.Skill) bool {
	if sk.Offensive() {
		return false
	}
	if sk.Power > 0 {
		return true
	}
	for _, eff := range sk.Effects {
		if eff.Kind == skill.EffectHealPercent {
			return true
		}
	}
	return false
}

func healAmount(sk *skill.Skill) float64 {
	amount := sk.Power * 100
	for _, eff := range sk.Effects {
		if eff.Kind == skill.EffectHealPercent {
			amount += float64(eff.Value)
		}
	}
	return amount
}

// balanced alternates by round parity: odd rounds attack aggressively, even
// rounds open with a debuff when one is affordable and not already active on
// the intended target.
func (p *Policy) balanced(s *battle.State, actor *entity.CombatEntity) battle.Action {
	target := weakest(s, actor)
	if target == nil {
		return battle.Defend(actor.ID)
	}
	if s.Round%2 == 0 {
		if sk := p.freshDebuff(actor, target); sk != nil {
			return skillAction(actor, sk, target)
		}
	}
	return p.aggressive(s, actor)
}

// freshDebuff returns an affordable debuff skill whose effect is not already
// active on the target, or nil.
func (p *Policy) freshDebuff(actor, target *entity.CombatEntity) *skill.Skill {
	for _, sk := range p.usable(actor) {
		for _, eff := range sk.Effects {
			if eff.Kind != skill.EffectDebuff {
				continue
			}
			if !target.Effects.Has(battle.StatusEffectID(sk.ID, eff)) {
				return sk
			}
		}
	}
	return nil
}

func skillAction(actor *entity.CombatEntity, sk *skill.Skill, target *entity.CombatEntity) battle.Action {
	switch sk.Target {
	case skill.TargetSingleEnemy, skill.TargetSingleAlly:
		return battle.UseSkill(actor.ID, sk.ID, target.ID)
	default:
		return battle.UseSkill(actor.ID, sk.ID)
	}
}

// support buffs allies and heals the most damaged one before considering an
// attack of its own.
func (p *Policy) support(s *battle.State, actor *entity.CombatEntity) battle.Action {
	// Heal takes priority when an ally has dropped below the hurt threshold.
	if hurt := mostDamagedAlly(s, actor); hurt != nil && hurt.HPRatio() < hurtThreshold {
		if heal := p.bestHeal(actor); heal != nil {
			return skillAction(actor, heal, hurt)
		}
	}
	// Otherwise apply the first buff its recipient is actually missing. The
	// candidate set follows the skill's target type: a self buff only ever
	// lands on the actor, so only the actor's effects gate it.
	for _, sk := range p.usable(actor) {
		buff := buffEffect(sk)
		if buff == nil {
			continue
		}
		id := battle.StatusEffectID(sk.ID, *buff)
		switch sk.Target {
		case skill.TargetSelf:
			if !actor.Effects.Has(id) {
				return battle.UseSkill(actor.ID, sk.ID)
			}
		case skill.TargetAllAllies:
			for _, ally := range s.AlliesOf(actor) {
				if !ally.Effects.Has(id) {
					return battle.UseSkill(actor.ID, sk.ID)
				}
			}
		default:
			for _, ally := range s.AlliesOf(actor) {
				if !ally.Effects.Has(id) {
					return skillAction(actor, sk, ally)
				}
			}
		}
	}
	// Heal any damage at all before falling back to an attack.
	if hurt := mostDamagedAlly(s, actor); hurt != nil && hurt.HPRatio() < 1 {
		if heal := p.bestHeal(actor); heal != nil {
			return skillAction(actor, heal, hurt)
		}
	}
	return attackOrDefend(s, actor)
}

func mostDamagedAlly(s *battle.State, actor *entity.CombatEntity) *entity.CombatEntity {
	var target *entity.CombatEntity
	for _, ally := range s.AlliesOf(actor) {
		if target == nil || ally.HPRatio() < target.HPRatio() {
			target = ally
		}
	}
	return target
}

func buffEffect(sk *skill.Skill) *skill.Effect {
	if sk.Offensive() {
		return nil
	}
	for i, eff := range sk.Effects {
		if eff.Kind == skill.EffectBuff {
			return &sk.Effects[i]
		}
	}
	return nil
}

// bossFerno layers the telegraphed special on top of the aggressive pattern.
// On cadence rounds the boss commits its highest-power group skill without
// regard for MP heuristics; every other round it fights aggressively.
func (p *Policy) bossFerno(s *battle.State, actor *entity.CombatEntity) battle.Action {
	if p.specialReady(s, actor) {
		if sk := strongestGroupSkill(p.skills, actor); sk != nil {
			p.announceSpecial(s, actor, sk)
			return battle.UseSkill(actor.ID, sk.ID)
		}
	}
	return p.aggressive(s, actor)
}

// specialReady consults the boss script's boss_special_ready hook when one is
// loaded, falling back to the configured round cadence.
func (p *Policy) specialReady(s *battle.State, actor *entity.CombatEntity) bool {
	cadence := p.cfg.BossSpecialEveryNTurns
	if p.scripts != nil && actor.BossScript != "" && p.scripts.Has(actor.BossScript) {
		ret, err := p.scripts.CallHook(actor.BossScript, "boss_special_ready",
			lua.LNumber(s.Round), lua.LNumber(cadence))
		if err == nil && ret != lua.LNil {
			return lua.LVAsBool(ret)
		}
	}
	if cadence < 1 {
		return false
	}
	return s.Round%cadence == 0
}

// announceSpecial gives the script a chance to react to the special firing.
// The hook is fire-and-forget: its return value is ignored.
func (p *Policy) announceSpecial(s *battle.State, actor *entity.CombatEntity, sk *skill.Skill) {
	if p.scripts == nil || actor.BossScript == "" || !p.scripts.Has(actor.BossScript) {
		return
	}
	if _, err := p.scripts.CallHook(actor.BossScript, "on_special",
		lua.LString(sk.ID), lua.LNumber(s.Round)); err != nil {
		p.logger.Warn("boss script on_special failed",
			zap.String("script", actor.BossScript),
			zap.Error(err),
		)
	}
}

// strongestGroupSkill returns the actor's highest-power all-opponents skill
// regardless of current MP.
func strongestGroupSkill(reg *skill.Registry, actor *entity.CombatEntity) *skill.Skill {
	var best *skill.Skill
	for _, id := range actor.SkillIDs {
		sk, ok := reg.Get(id)
		if !ok || sk.Target != skill.TargetAllEnemies || !sk.Offensive() {
			continue
		}
		if best == nil || sk.Power > best.Power {
			best = sk
		}
	}
	return best
}

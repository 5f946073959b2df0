package battle

import (
	"fmt"
	"math"

	"github.com/embervault/crawler/internal/game/entity"
	"github.com/embervault/crawler/internal/game/item"
	"github.com/embervault/crawler/internal/game/rng"
	"github.com/embervault/crawler/internal/game/skill"
	"github.com/embervault/crawler/internal/game/status"
)

// StatusEffectID derives the status effect identity for a skill's secondary
// effect. Plain statuses (stun/poison/burn) share identity across sources so
// re-application refreshes; stat modifiers and DOTs are keyed per skill and
// stat so different skills' modifiers coexist.
func StatusEffectID(sourceID string, eff skill.Effect) string {
	switch eff.Kind {
	case skill.EffectStatus:
		return eff.Status
	case skill.EffectBuff, skill.EffectDebuff:
		return sourceID + ":" + eff.Stat
	default:
		return sourceID + ":" + string(eff.Kind)
	}
}

// computeDamage applies the damage law: rawDamage = attack * power, elemental
// modifier (1.5 weakness, 0.5 resistance), effective defense subtraction
// (halved damage when the target defends), and the minimum-1 rule for any
// attack that had a positive raw amount.
func computeDamage(attack int, power float64, element skill.Element, target *entity.CombatEntity) int {
	raw := float64(attack) * power
	switch {
	case target.WeakTo(element):
		raw *= 1.5
	case target.Resists(element):
		raw *= 0.5
	}
	dmg := int(math.Round(raw)) - target.EffectiveDefense()
	if target.IsDefending {
		dmg /= 2
	}
	if raw > 0 && dmg < 1 {
		return 1
	}
	if dmg < 0 {
		return 0
	}
	return dmg
}

// dealDamage applies dmg to target with logging and a defeat entry when the
// target drops to 0 HP.
func (e *Engine) dealDamage(s *State, target *entity.CombatEntity, dmg int) {
	lost := target.ApplyDamage(dmg)
	s.appendLog(LogDamage, fmt.Sprintf("%s takes %d damage!", target.Name, lost))
	if !target.Alive() {
		s.appendLog(LogInfo, fmt.Sprintf("%s is defeated!", target.Name))
	}
}

// resolveTargets expands an action's targets at execution time. Group target
// types take the living members of the relevant side as of this moment, so a
// target that died between selection and execution is silently skipped.
func resolveTargets(s *State, actor *entity.CombatEntity, targetType skill.TargetType, explicit []string) []*entity.CombatEntity {
	switch targetType {
	case skill.TargetAllEnemies:
		return s.OpponentsOf(actor)
	case skill.TargetAllAllies:
		return s.AlliesOf(actor)
	case skill.TargetSelf:
		return []*entity.CombatEntity{actor}
	default:
		var out []*entity.CombatEntity
		for _, id := range explicit {
			if t := s.FindEntity(id); t != nil && t.Alive() {
				out = append(out, t)
			}
		}
		return out
	}
}

// resolveAttack executes a basic attack: power 1.0, neutral element.
func (e *Engine) resolveAttack(s *State, actor, target *entity.CombatEntity) {
	s.appendLog(LogAction, fmt.Sprintf("%s attacks %s!", actor.Name, target.Name))
	dmg := computeDamage(actor.EffectiveAttack(), 1.0, "", target)
	e.dealDamage(s, target, dmg)
}

// resolveSkill executes a validated skill action and returns the entities it
// touched. MP has already been deducted by the caller.
func (e *Engine) resolveSkill(s *State, actor *entity.CombatEntity, sk *skill.Skill, explicit []string) []*entity.CombatEntity {
	targets := resolveTargets(s, actor, sk.Target, explicit)
	s.appendLog(LogAction, fmt.Sprintf("%s uses %s!", actor.Name, sk.Name))
	if len(targets) == 0 {
		s.appendLog(LogInfo, fmt.Sprintf("%s finds no target!", sk.Name))
		return nil
	}

	for _, target := range targets {
		if sk.Offensive() {
			// Power 0 means the skill has no direct hit, only effects.
			if sk.Power > 0 {
				dmg := computeDamage(actor.EffectiveAttack(), sk.Power, sk.Element, target)
				e.dealDamage(s, target, dmg)
			}
		} else if sk.Power > 0 {
			// Support skills with power heal a fraction of the target's max HP.
			healed := target.Heal(int(math.Round(float64(target.Stats.MaxHP) * sk.Power)))
			s.appendLog(LogHeal, fmt.Sprintf("%s recovers %d HP!", target.Name, healed))
		}

		for _, eff := range sk.Effects {
			e.applySkillEffect(s, actor, target, sk, eff)
		}
	}
	return targets
}

// applySkillEffect applies one secondary skill effect to a resolved target.
// Dead targets only receive nothing further; drain and statuses require a
// living target, checked here because the primary damage may have killed it.
func (e *Engine) applySkillEffect(s *State, actor, target *entity.CombatEntity, sk *skill.Skill, eff skill.Effect) {
	if !target.Alive() && eff.Kind != skill.EffectDrain {
		return
	}
	switch eff.Kind {
	case skill.EffectBuff, skill.EffectDebuff:
		kind := status.KindBuff
		if eff.Kind == skill.EffectDebuff {
			kind = status.KindDebuff
		}
		target.Effects.Apply(status.Effect{
			ID:             StatusEffectID(sk.ID, eff),
			Name:           sk.Name,
			Kind:           kind,
			Stat:           eff.Stat,
			Value:          eff.Value,
			RemainingTurns: eff.Duration,
		})
		verb := "rises"
		if eff.Value < 0 {
			verb = "falls"
		}
		s.appendLog(LogStatus, fmt.Sprintf("%s's %s %s!", target.Name, eff.Stat, verb))

	case skill.EffectStatus:
		kind := status.Kind(eff.Status)
		target.Effects.Apply(status.Effect{
			ID:             eff.Status,
			Name:           eff.Status,
			Kind:           kind,
			Value:          eff.Value,
			RemainingTurns: eff.Duration,
		})
		s.appendLog(LogStatus, fmt.Sprintf("%s is afflicted with %s!", target.Name, eff.Status))

	case skill.EffectHealPercent:
		healed := target.Heal(target.Stats.MaxHP * eff.Value / 100)
		s.appendLog(LogHeal, fmt.Sprintf("%s recovers %d HP!", target.Name, healed))

	case skill.EffectDrain:
		wasAlive := target.Alive()
		drained := target.ApplyDamage(eff.Value)
		returned := actor.Heal(int(math.Round(float64(drained) * e.cfg.DrainHealFraction)))
		s.appendLog(LogDamage, fmt.Sprintf("%s drains %d HP from %s!", actor.Name, drained, target.Name))
		if returned > 0 {
			s.appendLog(LogHeal, fmt.Sprintf("%s recovers %d HP!", actor.Name, returned))
		}
		if wasAlive && !target.Alive() {
			s.appendLog(LogInfo, fmt.Sprintf("%s is defeated!", target.Name))
		}

	case skill.EffectDOT:
		target.Effects.Apply(status.Effect{
			ID:             StatusEffectID(sk.ID, eff),
			Name:           sk.Name,
			Kind:           status.KindDOT,
			Value:          eff.Value,
			RemainingTurns: eff.Duration,
		})
		s.appendLog(LogStatus, fmt.Sprintf("%s is wracked by %s!", target.Name, sk.Name))
	}
}

// resolveItem executes a validated item action against one target.
func (e *Engine) resolveItem(s *State, actor, target *entity.CombatEntity, it *item.Item) {
	s.appendLog(LogAction, fmt.Sprintf("%s uses %s!", actor.Name, it.Name))
	switch it.Effect {
	case item.EffectHealHP:
		healed := target.Heal(it.Value)
		s.appendLog(LogHeal, fmt.Sprintf("%s recovers %d HP!", target.Name, healed))
	case item.EffectHealMP:
		restored := target.RestoreMP(it.Value)
		s.appendLog(LogHeal, fmt.Sprintf("%s recovers %d MP!", target.Name, restored))
	case item.EffectCureStatus:
		cured := target.Effects.CureHarmful()
		if len(cured) == 0 {
			s.appendLog(LogInfo, fmt.Sprintf("Nothing ails %s.", target.Name))
		}
		for _, c := range cured {
			s.appendLog(LogStatus, fmt.Sprintf("%s is no longer affected by %s.", target.Name, c.Name))
		}
	case item.EffectBuff:
		target.Effects.Apply(status.Effect{
			ID:             it.ID + ":" + it.Stat,
			Name:           it.Name,
			Kind:           status.KindBuff,
			Stat:           it.Stat,
			Value:          it.Value,
			RemainingTurns: it.Duration,
		})
		s.appendLog(LogStatus, fmt.Sprintf("%s's %s rises!", target.Name, it.Stat))
	case item.EffectDamage:
		dmg := computeDamage(it.Value, 1.0, "", target)
		e.dealDamage(s, target, dmg)
	}
}

// resolveDefend sets the actor's guard and restores a little MP.
func (e *Engine) resolveDefend(s *State, actor *entity.CombatEntity) {
	actor.IsDefending = true
	s.appendLog(LogAction, fmt.Sprintf("%s braces for the next attack.", actor.Name))
	if e.cfg.DefendMPRegen > 0 {
		if restored := actor.RestoreMP(e.cfg.DefendMPRegen); restored > 0 {
			s.appendLog(LogHeal, fmt.Sprintf("%s recovers %d MP.", actor.Name, restored))
		}
	}
}

// fleeChance computes the escape probability from the speed gap between the
// party's and the enemies' living averages, clamped to [0.05, 0.95].
func (e *Engine) fleeChance(s *State) float64 {
	p := averageSpeed(s.LivingPlayers())
	n := averageSpeed(s.LivingEnemies())
	chance := e.cfg.FleeBaseChance + (p-n)*e.cfg.FleeSpeedFactor
	if chance < 0.05 {
		chance = 0.05
	}
	if chance > 0.95 {
		chance = 0.95
	}
	return chance
}

func averageSpeed(entities []*entity.CombatEntity) float64 {
	if len(entities) == 0 {
		return 0
	}
	total := 0
	for _, e := range entities {
		total += e.EffectiveSpeed()
	}
	return float64(total) / float64(len(entities))
}

// resolveFlee rolls the escape check. Success is reported to the caller; the
// phase transition happens in the terminal check.
func (e *Engine) resolveFlee(s *State, actor *entity.CombatEntity) bool {
	if rng.Chance(e.src, e.fleeChance(s)) {
		s.appendLog(LogAction, fmt.Sprintf("%s flees from battle!", actor.Name))
		return true
	}
	s.appendLog(LogAction, fmt.Sprintf("%s tries to flee, but cannot escape!", actor.Name))
	return false
}

// tickEffects runs the actor's end-of-turn status ticks, applying HP deltas
// with the usual clamps and logging every change and expiry.
func (e *Engine) tickEffects(s *State, actor *entity.CombatEntity) {
	for _, tick := range actor.Effects.TickEnd() {
		switch {
		case tick.HPDelta < 0:
			lost := actor.ApplyDamage(-tick.HPDelta)
			s.appendLog(LogDamage, fmt.Sprintf("%s suffers %d damage from %s!", actor.Name, lost, tick.Effect.Name))
			if !actor.Alive() {
				s.appendLog(LogInfo, fmt.Sprintf("%s is defeated!", actor.Name))
			}
		case tick.HPDelta > 0:
			if healed := actor.Heal(tick.HPDelta); healed > 0 {
				s.appendLog(LogHeal, fmt.Sprintf("%s recovers %d HP from %s.", actor.Name, healed, tick.Effect.Name))
			}
		}
		if tick.Expired {
			s.appendLog(LogStatus, fmt.Sprintf("%s's %s wears off.", actor.Name, tick.Effect.Name))
		}
	}
}

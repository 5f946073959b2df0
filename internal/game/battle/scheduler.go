package battle

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// scheduleRound re-sorts the entity list by effective speed descending and
// assigns TurnOrder ranks. The sort is stable, so entities with equal
// effective speed keep their prior relative order and the schedule stays
// deterministic.
//
// Postcondition: Entities[i].TurnOrder == i for all i.
func (s *State) scheduleRound() {
	sort.SliceStable(s.Entities, func(i, j int) bool {
		return s.Entities[i].EffectiveSpeed() > s.Entities[j].EffectiveSpeed()
	})
	for i, e := range s.Entities {
		e.TurnOrder = i
	}
}

// advance moves to the next living entity, handling round boundaries, defend
// expiry, and stunned entities. Stunned entities never get a real turn: the
// engine emits the forced no-op, ticks their effects, and keeps advancing.
// Terminal conditions reached while advancing (an entity dying to its own
// damage-over-time) stop the scheduler immediately.
//
// Postcondition: the phase is player_turn, enemy_turn, or terminal.
func (e *Engine) advance(s *State) {
	for {
		s.Current++
		if s.Current >= len(s.Entities) {
			s.Round++
			s.scheduleRound()
			s.Current = 0
			e.logger.Debug("round start",
				zap.String("encounter", s.ID),
				zap.Int("round", s.Round),
			)
		}

		actor := s.Entities[s.Current]
		if !actor.Alive() {
			continue
		}

		// Defend protection lasts until the defender's own next turn.
		actor.IsDefending = false

		if actor.Effects.Stunned() {
			s.appendLog(LogStatus, fmt.Sprintf("%s is stunned and cannot act!", actor.Name))
			e.tickEffects(s, actor)
			if e.checkTerminal(s) {
				return
			}
			continue
		}

		if actor.IsPlayer {
			s.Phase = PhasePlayerTurn
		} else {
			s.Phase = PhaseEnemyTurn
		}
		return
	}
}

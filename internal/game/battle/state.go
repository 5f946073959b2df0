package battle

import (
	"github.com/embervault/crawler/internal/game/entity"
)

// Phase is one state of the battle state machine.
type Phase string

const (
	PhaseStart           Phase = "start"
	PhasePlayerTurn      Phase = "player_turn"
	PhaseSelectingAction Phase = "selecting_action"
	PhaseSelectingTarget Phase = "selecting_target"
	PhaseExecutingAction Phase = "executing_action"
	PhaseEnemyTurn       Phase = "enemy_turn"
	PhaseVictory         Phase = "victory"
	PhaseDefeat          Phase = "defeat"
	PhaseFleeing         Phase = "fleeing"
)

// Terminal reports whether p accepts no further actions.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat || p == PhaseFleeing
}

// State is the full serializable state of one encounter. It has exactly one
// writer (the engine); the UI layer only reads it between actions. Suspension
// while awaiting player input is just holding the value: no goroutine or
// timer is parked inside it.
type State struct {
	// ID uniquely identifies this encounter.
	ID    string `json:"id"`
	Phase Phase  `json:"phase"`
	// Round counts full passes through the turn order, starting at 1.
	Round int `json:"turn"`
	// Entities is the turn-ordered combatant list, re-sorted at every round
	// boundary. Dead entities stay in the list for log and reward purposes
	// but are skipped by the scheduler and excluded from targeting.
	Entities []*entity.CombatEntity `json:"entities"`
	// Current indexes the entity whose turn it is.
	Current int  `json:"currentEntityIndex"`
	CanFlee bool `json:"canFlee"`
	// Log is the append-only battle log.
	Log []LogEntry `json:"battleLog"`
	// Result holds the terminal outcome payload; nil until a terminal phase.
	Result *Outcome `json:"outcome,omitempty"`
}

// CurrentEntity returns the entity whose turn it is, or nil in terminal
// phases or before scheduling.
func (s *State) CurrentEntity() *entity.CombatEntity {
	if s.Current < 0 || s.Current >= len(s.Entities) {
		return nil
	}
	return s.Entities[s.Current]
}

// FindEntity returns the entity with the given ID, or nil.
func (s *State) FindEntity(id string) *entity.CombatEntity {
	for _, e := range s.Entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// LivingPlayers returns all living party entities in turn order.
func (s *State) LivingPlayers() []*entity.CombatEntity {
	return s.living(true)
}

// LivingEnemies returns all living enemy entities in turn order.
func (s *State) LivingEnemies() []*entity.CombatEntity {
	return s.living(false)
}

func (s *State) living(player bool) []*entity.CombatEntity {
	var out []*entity.CombatEntity
	for _, e := range s.Entities {
		if e.IsPlayer == player && e.Alive() {
			out = append(out, e)
		}
	}
	return out
}

// OpponentsOf returns the living entities on the side opposing e.
func (s *State) OpponentsOf(e *entity.CombatEntity) []*entity.CombatEntity {
	return s.living(!e.IsPlayer)
}

// AlliesOf returns the living entities on e's own side, including e when alive.
func (s *State) AlliesOf(e *entity.CombatEntity) []*entity.CombatEntity {
	return s.living(e.IsPlayer)
}

// MarkSelectingAction moves a player turn into the selecting_action UI state.
// It is a pass-through marker: the engine performs no computation here.
//
// Precondition: the phase must be player_turn or selecting_target.
func (s *State) MarkSelectingAction() {
	if s.Phase == PhasePlayerTurn || s.Phase == PhaseSelectingTarget {
		s.Phase = PhaseSelectingAction
	}
}

// MarkSelectingTarget moves a player turn into the selecting_target UI state.
//
// Precondition: the phase must be selecting_action.
func (s *State) MarkSelectingTarget() {
	if s.Phase == PhaseSelectingAction {
		s.Phase = PhaseSelectingTarget
	}
}

// Outcome returns the terminal outcome payload, or nil before a terminal
// phase.
func (s *State) Outcome() *Outcome {
	return s.Result
}

// acceptsActions reports whether the phase allows SubmitAction.
func (s *State) acceptsActions() bool {
	switch s.Phase {
	case PhasePlayerTurn, PhaseSelectingAction, PhaseSelectingTarget, PhaseEnemyTurn:
		return true
	}
	return false
}

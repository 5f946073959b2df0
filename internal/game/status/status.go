// Package status implements the status effect lifecycle for combat entities:
// applying with refresh semantics, end-of-turn ticking, and expiry.
package status

// Kind classifies a status effect.
type Kind string

const (
	KindBuff   Kind = "buff"
	KindDebuff Kind = "debuff"
	KindDOT    Kind = "dot"
	KindHOT    Kind = "hot"
	KindStun   Kind = "stun"
	KindPoison Kind = "poison"
	KindBurn   Kind = "burn"
)

// Effect is one active status effect attached to an entity.
//
// Invariant: RemainingTurns >= 0 at all times; an effect is removed the
// moment its RemainingTurns reaches 0.
type Effect struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// Stat is the modified stat for buff/debuff kinds: "attack", "defense", or "speed".
	Stat string `json:"stat,omitempty"`
	// Value is the magnitude: stat delta for buff/debuff (negative for
	// debuffs), HP per tick for dot/hot/poison/burn, unused for stun.
	Value int `json:"value"`
	// RemainingTurns counts down once at the end of each of the owner's turns.
	RemainingTurns int `json:"remainingTurns"`
}

// Harmful reports whether the effect is a negative one for cure purposes.
func (e Effect) Harmful() bool {
	switch e.Kind {
	case KindDebuff, KindDOT, KindStun, KindPoison, KindBurn:
		return true
	}
	return false
}

// damagesPerTick reports whether the effect subtracts HP at turn end.
func (e Effect) damagesPerTick() bool {
	switch e.Kind {
	case KindDOT, KindPoison, KindBurn:
		return true
	}
	return false
}

// Set holds the ordered list of effects active on one entity. Order is
// application order; re-applying an effect keeps its original position.
// It is not safe for concurrent use; the engine is the single writer.
type Set struct {
	Effects []Effect `json:"effects"`
}

// Apply adds e to the set. If an effect with the same ID is already present,
// its value, kind, and stat are overwritten and its duration is reset to the
// new effect's duration (refresh, never stack).
//
// Postcondition: Has(e.ID) is true; at most one effect with e.ID exists.
func (s *Set) Apply(e Effect) {
	if e.RemainingTurns < 0 {
		e.RemainingTurns = 0
	}
	for i := range s.Effects {
		if s.Effects[i].ID == e.ID {
			s.Effects[i] = e
			return
		}
	}
	s.Effects = append(s.Effects, e)
}

// Has reports whether an effect with the given ID is active.
func (s *Set) Has(id string) bool {
	for _, e := range s.Effects {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Remove deletes the effect with the given ID; no-op if absent.
//
// Postcondition: Has(id) is false.
func (s *Set) Remove(id string) {
	for i, e := range s.Effects {
		if e.ID == id {
			s.Effects = append(s.Effects[:i], s.Effects[i+1:]...)
			return
		}
	}
}

// Stunned reports whether any active effect is a stun.
func (s *Set) Stunned() bool {
	for _, e := range s.Effects {
		if e.Kind == KindStun {
			return true
		}
	}
	return false
}

// StatDelta returns the additive modifier for the named stat from all active
// buffs and debuffs. Debuffs carry negative values, so the result may be
// negative.
func (s *Set) StatDelta(stat string) int {
	total := 0
	for _, e := range s.Effects {
		if (e.Kind == KindBuff || e.Kind == KindDebuff) && e.Stat == stat {
			total += e.Value
		}
	}
	return total
}

// CureHarmful removes every harmful effect and returns the removed effects in
// their original order.
//
// Postcondition: no effect in the set satisfies Harmful().
func (s *Set) CureHarmful() []Effect {
	var removed []Effect
	kept := s.Effects[:0]
	for _, e := range s.Effects {
		if e.Harmful() {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	s.Effects = kept
	return removed
}

// Tick describes what happened to one effect during TickEnd.
type Tick struct {
	Effect Effect
	// HPDelta is the hit point change the effect caused this tick: negative
	// for damage-over-time kinds, positive for heal-over-time, zero otherwise.
	// The caller applies it with the usual HP clamps.
	HPDelta int
	// Expired is true when the effect's duration reached 0 and it was removed.
	Expired bool
}

// TickEnd processes the end of the owning entity's turn: damage/heal-over-time
// deltas are reported, every effect's duration is decremented, and effects
// reaching 0 remaining turns are removed.
//
// Postcondition: Returns one Tick per effect that was active, in order; every
// remaining effect has RemainingTurns >= 1.
func (s *Set) TickEnd() []Tick {
	if len(s.Effects) == 0 {
		return nil
	}
	ticks := make([]Tick, 0, len(s.Effects))
	kept := s.Effects[:0]
	for _, e := range s.Effects {
		tick := Tick{}
		if e.damagesPerTick() {
			tick.HPDelta = -e.Value
		} else if e.Kind == KindHOT {
			tick.HPDelta = e.Value
		}
		e.RemainingTurns--
		if e.RemainingTurns <= 0 {
			e.RemainingTurns = 0
			tick.Expired = true
		} else {
			kept = append(kept, e)
		}
		tick.Effect = e
		ticks = append(ticks, tick)
	}
	s.Effects = kept
	return ticks
}

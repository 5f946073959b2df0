package battle

// LootDrop is one item awarded at the end of a victorious encounter.
type LootDrop struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Outcome summarizes a finished encounter. XP, gold and drops are only
// populated on victory; a fled or lost battle awards nothing.
type Outcome struct {
	Victory bool       `json:"victory"`
	Fled    bool       `json:"fled"`
	XP      int        `json:"xp"`
	Gold    int        `json:"gold"`
	Drops   []LootDrop `json:"drops,omitempty"`
}

// buildVictoryOutcome totals the rewards carried by the defeated enemies,
// adding rolled loot when a loot function is configured.
func (e *Engine) buildVictoryOutcome(s *State) *Outcome {
	out := &Outcome{Victory: true}
	for _, ent := range s.Entities {
		if ent.IsPlayer {
			continue
		}
		out.XP += ent.RewardXP
		out.Gold += ent.RewardGold
		if e.lootFunc != nil {
			gold, drops := e.lootFunc(ent.TemplateID)
			out.Gold += gold
			out.Drops = append(out.Drops, drops...)
		}
	}
	return out
}

package roster

import (
	"fmt"

	"github.com/embervault/crawler/internal/game/rng"
)

// GoldDrop defines the range of extra gold a loot table can add on top of the
// template's flat gold reward.
type GoldDrop struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTable defines the possible drops from a defeated enemy.
type LootTable struct {
	Gold  *GoldDrop  `yaml:"gold,omitempty"`
	Items []ItemDrop `yaml:"items,omitempty"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Postcondition: Returns nil iff all gold and item constraints hold; an empty
// loot table is valid.
func (lt *LootTable) Validate() error {
	if lt.Gold != nil {
		if lt.Gold.Min < 0 {
			return fmt.Errorf("loot table: gold min must be >= 0, got %d", lt.Gold.Min)
		}
		if lt.Gold.Min > lt.Gold.Max {
			return fmt.Errorf("loot table: gold min (%d) must be <= max (%d)", lt.Gold.Min, lt.Gold.Max)
		}
	}
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// Drop is one rolled item stack from a loot table.
type Drop struct {
	ItemID   string
	Quantity int
}

// Roll generates drops from the table using src.
//
// Precondition: lt must have passed Validate; src must be non-nil.
// Postcondition: Gold is in [Gold.Min, Gold.Max] when gold is set; each
// returned Drop's Quantity is in [MinQty, MaxQty].
func (lt *LootTable) Roll(src rng.Source) (gold int, drops []Drop) {
	if lt.Gold != nil && lt.Gold.Max > 0 {
		spread := lt.Gold.Max - lt.Gold.Min
		gold = lt.Gold.Min
		if spread > 0 {
			gold += src.Intn(spread + 1)
		}
	}
	for _, item := range lt.Items {
		if !rng.Chance(src, item.Chance) {
			continue
		}
		qty := item.MinQty
		if item.MaxQty > item.MinQty {
			qty += src.Intn(item.MaxQty - item.MinQty + 1)
		}
		drops = append(drops, Drop{ItemID: item.ItemID, Quantity: qty})
	}
	return gold, drops
}

// RollLoot rolls the loot table of the enemy template with the given ID.
// Unknown templates and templates without loot yield nothing.
func (r *Roster) RollLoot(templateID string, src rng.Source) (gold int, drops []Drop) {
	tmpl, ok := r.enemies[templateID]
	if !ok || tmpl.Loot == nil {
		return 0, nil
	}
	return tmpl.Loot.Roll(src)
}

package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embervault/crawler/internal/game/roster"
)

// seqSrc returns queued values in order, then zeros.
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i]
	s.i++
	return v % n
}

func TestLootTableValidate(t *testing.T) {
	lt := &roster.LootTable{}
	assert.NoError(t, lt.Validate(), "empty loot table is valid")

	lt = &roster.LootTable{Gold: &roster.GoldDrop{Min: 10, Max: 5}}
	assert.Error(t, lt.Validate())

	lt = &roster.LootTable{Items: []roster.ItemDrop{{ItemID: "x", Chance: 1.5, MinQty: 1, MaxQty: 1}}}
	assert.Error(t, lt.Validate())

	lt = &roster.LootTable{Items: []roster.ItemDrop{{ItemID: "", Chance: 0.5, MinQty: 1, MaxQty: 1}}}
	assert.Error(t, lt.Validate())

	lt = &roster.LootTable{Items: []roster.ItemDrop{{ItemID: "x", Chance: 0.5, MinQty: 3, MaxQty: 1}}}
	assert.Error(t, lt.Validate())
}

func TestLootRoll_GoldRange(t *testing.T) {
	lt := &roster.LootTable{Gold: &roster.GoldDrop{Min: 10, Max: 30}}
	require.NoError(t, lt.Validate())

	// Intn(21) call returns 7 → gold = 17.
	gold, drops := lt.Roll(&seqSrc{vals: []int{7}})
	assert.Equal(t, 17, gold)
	assert.Empty(t, drops)
}

func TestLootRoll_ItemChance(t *testing.T) {
	lt := &roster.LootTable{Items: []roster.ItemDrop{
		{ItemID: "ember_core", Chance: 0.5, MinQty: 2, MaxQty: 4},
	}}
	require.NoError(t, lt.Validate())

	// Chance roll 4999 < 5000 passes; quantity roll 1 → qty 3.
	_, drops := lt.Roll(&seqSrc{vals: []int{4999, 1}})
	require.Len(t, drops, 1)
	assert.Equal(t, "ember_core", drops[0].ItemID)
	assert.Equal(t, 3, drops[0].Quantity)

	// Chance roll 5000 fails.
	_, drops = lt.Roll(&seqSrc{vals: []int{5000}})
	assert.Empty(t, drops)
}

func TestRosterRollLoot(t *testing.T) {
	r := roster.NewRoster()
	r.RegisterEnemy(&roster.Enemy{
		ID:        "imp",
		Name:      "Imp",
		Stats:     roster.StatsSpec{MaxHP: 10, Attack: 3, Defense: 1, Speed: 4, Level: 1},
		AIPattern: "aggressive",
		Loot: &roster.LootTable{
			Items: []roster.ItemDrop{{ItemID: "claw", Chance: 1.0, MinQty: 1, MaxQty: 1}},
		},
	})

	gold, drops := r.RollLoot("imp", &seqSrc{})
	assert.Equal(t, 0, gold)
	require.Len(t, drops, 1)
	assert.Equal(t, "claw", drops[0].ItemID)

	gold, drops = r.RollLoot("ghost", &seqSrc{})
	assert.Zero(t, gold)
	assert.Empty(t, drops)
}

package roster_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embervault/crawler/internal/game/roster"
	"github.com/embervault/crawler/internal/game/skill"
)

func validEnemy() *roster.Enemy {
	return &roster.Enemy{
		ID:        "cinder_imp",
		Name:      "Cinder Imp",
		Stats:     roster.StatsSpec{MaxHP: 14, MaxMP: 6, Attack: 5, Defense: 2, Speed: 7, Level: 2},
		AIPattern: "aggressive",
		XP:        12,
		Gold:      5,
	}
}

func TestEnemyValidate(t *testing.T) {
	assert.NoError(t, validEnemy().Validate())

	e := validEnemy()
	e.AIPattern = "chaotic"
	assert.Error(t, e.Validate())

	e = validEnemy()
	e.Stats.MaxHP = 0
	assert.Error(t, e.Validate())

	e = validEnemy()
	e.XP = -1
	assert.Error(t, e.Validate())
}

func TestEnemySpawn(t *testing.T) {
	tmpl := validEnemy()
	tmpl.Weaknesses = []skill.Element{"ice"}

	a := tmpl.Spawn()
	b := tmpl.Spawn()

	assert.NotEqual(t, a.ID, b.ID, "instances must get distinct ids")
	assert.Equal(t, "cinder_imp", a.TemplateID)
	assert.Equal(t, 14, a.Stats.HP)
	assert.Equal(t, 6, a.Stats.MP)
	assert.False(t, a.IsPlayer)
	assert.Equal(t, "aggressive", a.AIPattern)
	assert.True(t, a.WeakTo("ice"))
	assert.Equal(t, 12, a.RewardXP)
}

func TestPartyMemberSpawn(t *testing.T) {
	p := &roster.PartyMember{
		ID:     "kael",
		Name:   "Kael",
		Stats:  roster.StatsSpec{MaxHP: 30, MaxMP: 12, Attack: 8, Defense: 4, Speed: 6, Level: 3},
		Skills: []string{"firebolt"},
	}
	require.NoError(t, p.Validate())

	e := p.Spawn()
	assert.Equal(t, "kael", e.ID)
	assert.True(t, e.IsPlayer)
	assert.Equal(t, []string{"firebolt"}, e.SkillIDs)
	assert.Equal(t, 30, e.Stats.HP)
}

func TestLoadDirectories(t *testing.T) {
	partyDir := t.TempDir()
	enemyDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(partyDir, "kael.yaml"), []byte(`
id: kael
name: Kael
stats:
  max_hp: 30
  max_mp: 12
  attack: 8
  defense: 4
  speed: 6
  level: 3
skills: [firebolt]
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(enemyDir, "ferno.yaml"), []byte(`
id: ferno
name: Ferno
stats:
  max_hp: 80
  max_mp: 40
  attack: 12
  defense: 6
  speed: 5
  level: 8
skills: [inferno]
ai_pattern: boss_ferno
boss: true
resistances: [fire]
weaknesses: [ice]
xp: 200
gold: 150
loot:
  gold:
    min: 10
    max: 30
  items:
    - item: ember_core
      chance: 1.0
      min_qty: 1
      max_qty: 1
`), 0o600))

	r := roster.NewRoster()
	require.NoError(t, r.LoadPartyDirectory(partyDir))
	require.NoError(t, r.LoadEnemyDirectory(enemyDir))

	_, ok := r.PartyMember("kael")
	assert.True(t, ok)

	ferno, ok := r.Enemy("ferno")
	require.True(t, ok)
	assert.True(t, ferno.Boss)
	assert.True(t, r.HasBoss([]string{"ferno"}))
	assert.False(t, r.HasBoss([]string{"kael", "unknown"}))

	spawned, err := r.SpawnEnemies([]string{"ferno"})
	require.NoError(t, err)
	require.Len(t, spawned, 1)
	assert.Equal(t, "Ferno", spawned[0].Name)

	_, err = r.SpawnEnemies([]string{"ghost"})
	assert.Error(t, err)
}

func TestLoadEnemyDirectory_RejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
id: imp
name: Imp
stats:
  max_hp: 10
  attack: 3
  defense: 1
  speed: 4
  level: 1
ai_pattern: aggressive
danger_rating: 5
`), 0o600))
	r := roster.NewRoster()
	assert.Error(t, r.LoadEnemyDirectory(dir))
}

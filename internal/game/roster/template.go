// Package roster provides party member and enemy templates loaded from YAML,
// and spawns them into live combat entities.
package roster

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/embervault/crawler/internal/game/entity"
	"github.com/embervault/crawler/internal/game/skill"
)

// AIPatterns are the decision policies an enemy template may name.
var AIPatterns = map[string]bool{
	"aggressive": true,
	"defensive":  true,
	"balanced":   true,
	"support":    true,
	"boss_ferno": true,
}

// StatsSpec is the stat block shared by party and enemy templates.
type StatsSpec struct {
	MaxHP   int `yaml:"max_hp"`
	MaxMP   int `yaml:"max_mp"`
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	Speed   int `yaml:"speed"`
	Level   int `yaml:"level"`
}

func (s StatsSpec) validate() error {
	if s.MaxHP < 1 {
		return fmt.Errorf("max_hp must be >= 1, got %d", s.MaxHP)
	}
	if s.MaxMP < 0 {
		return fmt.Errorf("max_mp must be >= 0, got %d", s.MaxMP)
	}
	if s.Attack < 0 || s.Defense < 0 {
		return fmt.Errorf("attack and defense must be >= 0")
	}
	if s.Speed < 1 {
		return fmt.Errorf("speed must be >= 1, got %d", s.Speed)
	}
	if s.Level < 1 {
		return fmt.Errorf("level must be >= 1, got %d", s.Level)
	}
	return nil
}

func (s StatsSpec) toStats() entity.Stats {
	return entity.Stats{
		MaxHP:   s.MaxHP,
		HP:      s.MaxHP,
		MaxMP:   s.MaxMP,
		MP:      s.MaxMP,
		Attack:  s.Attack,
		Defense: s.Defense,
		Speed:   s.Speed,
		Level:   s.Level,
	}
}

// PartyMember is a reusable party member template.
type PartyMember struct {
	ID     string    `yaml:"id"`
	Name   string    `yaml:"name"`
	Stats  StatsSpec `yaml:"stats"`
	Skills []string  `yaml:"skills,omitempty"`
}

// Validate checks that the template satisfies basic invariants.
func (p *PartyMember) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("party member: id must not be empty")
	}
	if p.Name == "" {
		return fmt.Errorf("party member %q: name must not be empty", p.ID)
	}
	if err := p.Stats.validate(); err != nil {
		return fmt.Errorf("party member %q: %w", p.ID, err)
	}
	return nil
}

// Spawn creates a live CombatEntity from the template at full HP and MP.
//
// Postcondition: the returned entity's ID equals the template ID; party
// entities are unique per encounter so no instance suffix is needed.
func (p *PartyMember) Spawn() *entity.CombatEntity {
	return &entity.CombatEntity{
		ID:         p.ID,
		TemplateID: p.ID,
		Name:       p.Name,
		Stats:      p.Stats.toStats(),
		IsPlayer:   true,
		SkillIDs:   append([]string(nil), p.Skills...),
	}
}

// Enemy is a reusable enemy template.
type Enemy struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Stats       StatsSpec       `yaml:"stats"`
	Skills      []string        `yaml:"skills,omitempty"`
	AIPattern   string          `yaml:"ai_pattern"`
	Weaknesses  []skill.Element `yaml:"weaknesses,omitempty"`
	Resistances []skill.Element `yaml:"resistances,omitempty"`
	// Boss marks an encounter as un-fleeable when this enemy is present.
	Boss bool `yaml:"boss,omitempty"`
	// BossScript is the Lua script ID overriding the scripted special; empty
	// uses the engine's default cadence.
	BossScript string     `yaml:"boss_script,omitempty"`
	XP         int        `yaml:"xp"`
	Gold       int        `yaml:"gold"`
	Loot       *LootTable `yaml:"loot,omitempty"`
}

// Validate checks that the template satisfies basic invariants.
func (e *Enemy) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("enemy template: id must not be empty")
	}
	if e.Name == "" {
		return fmt.Errorf("enemy template %q: name must not be empty", e.ID)
	}
	if err := e.Stats.validate(); err != nil {
		return fmt.Errorf("enemy template %q: %w", e.ID, err)
	}
	if !AIPatterns[e.AIPattern] {
		return fmt.Errorf("enemy template %q: ai_pattern must be one of [aggressive, defensive, balanced, support, boss_ferno], got %q", e.ID, e.AIPattern)
	}
	if e.XP < 0 || e.Gold < 0 {
		return fmt.Errorf("enemy template %q: xp and gold must be >= 0", e.ID)
	}
	if e.Loot != nil {
		if err := e.Loot.Validate(); err != nil {
			return fmt.Errorf("enemy template %q: %w", e.ID, err)
		}
	}
	return nil
}

// Spawn creates a live CombatEntity from the template with a fresh instance ID.
//
// Postcondition: HP equals MaxHP; the instance ID is unique across calls.
func (e *Enemy) Spawn() *entity.CombatEntity {
	return &entity.CombatEntity{
		ID:          e.ID + "-" + uuid.NewString()[:8],
		TemplateID:  e.ID,
		Name:        e.Name,
		Stats:       e.Stats.toStats(),
		SkillIDs:    append([]string(nil), e.Skills...),
		Weaknesses:  append([]skill.Element(nil), e.Weaknesses...),
		Resistances: append([]skill.Element(nil), e.Resistances...),
		AIPattern:   e.AIPattern,
		BossScript:  e.BossScript,
		RewardXP:    e.XP,
		RewardGold:  e.Gold,
	}
}

// Roster holds all loaded party member and enemy templates keyed by ID.
type Roster struct {
	party   map[string]*PartyMember
	enemies map[string]*Enemy
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{
		party:   make(map[string]*PartyMember),
		enemies: make(map[string]*Enemy),
	}
}

// RegisterPartyMember adds p, overwriting any existing entry with the same ID.
func (r *Roster) RegisterPartyMember(p *PartyMember) {
	r.party[p.ID] = p
}

// RegisterEnemy adds e, overwriting any existing entry with the same ID.
func (r *Roster) RegisterEnemy(e *Enemy) {
	r.enemies[e.ID] = e
}

// PartyMember returns the party template for id, or (nil, false).
func (r *Roster) PartyMember(id string) (*PartyMember, bool) {
	p, ok := r.party[id]
	return p, ok
}

// Enemy returns the enemy template for id, or (nil, false).
func (r *Roster) Enemy(id string) (*Enemy, bool) {
	e, ok := r.enemies[id]
	return e, ok
}

// SpawnEnemies spawns one live entity per template ID, in order.
//
// Postcondition: Returns an error naming the first unknown template ID.
func (r *Roster) SpawnEnemies(ids []string) ([]*entity.CombatEntity, error) {
	out := make([]*entity.CombatEntity, 0, len(ids))
	for _, id := range ids {
		tmpl, ok := r.enemies[id]
		if !ok {
			return nil, fmt.Errorf("roster: unknown enemy template %q", id)
		}
		out = append(out, tmpl.Spawn())
	}
	return out, nil
}

// HasBoss reports whether any of the given enemy template IDs is a boss.
// Unknown IDs are ignored; SpawnEnemies reports those.
func (r *Roster) HasBoss(ids []string) bool {
	for _, id := range ids {
		if tmpl, ok := r.enemies[id]; ok && tmpl.Boss {
			return true
		}
	}
	return false
}

// LoadPartyDirectory reads every *.yaml file in dir into party member templates.
//
// Precondition: dir must be a readable directory.
func (r *Roster) LoadPartyDirectory(dir string) error {
	return loadDir(dir, func(data []byte) error {
		var p PartyMember
		if err := strictDecode(data, &p); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		r.RegisterPartyMember(&p)
		return nil
	})
}

// LoadEnemyDirectory reads every *.yaml file in dir into enemy templates.
//
// Precondition: dir must be a readable directory.
func (r *Roster) LoadEnemyDirectory(dir string) error {
	return loadDir(dir, func(data []byte) error {
		var e Enemy
		if err := strictDecode(data, &e); err != nil {
			return err
		}
		if err := e.Validate(); err != nil {
			return err
		}
		r.RegisterEnemy(&e)
		return nil
	})
}

func loadDir(dir string, load func([]byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading roster dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		if err := load(data); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return nil
}

func strictDecode(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

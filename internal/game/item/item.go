// Package item provides consumable item definitions loaded from YAML. Item
// actions resolve through the same pipeline as skills; this package only
// supplies the effect kind and magnitude for a given item ID.
package item

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/embervault/crawler/internal/game/skill"
)

// EffectKind classifies what a consumable does when used in battle.
type EffectKind string

const (
	EffectHealHP     EffectKind = "heal_hp"
	EffectHealMP     EffectKind = "heal_mp"
	EffectCureStatus EffectKind = "cure_status"
	EffectBuff       EffectKind = "buff"
	EffectDamage     EffectKind = "damage"
)

// Item is a static consumable definition.
type Item struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Effect EffectKind `yaml:"effect"`
	// Value is the flat HP/MP/damage amount, or the stat delta for a buff.
	Value int `yaml:"value,omitempty"`
	// Stat and Duration describe the applied effect for kind "buff".
	Stat     string `yaml:"stat,omitempty"`
	Duration int    `yaml:"duration,omitempty"`
}

// Offensive reports whether the item targets an enemy rather than an ally.
func (i *Item) Offensive() bool { return i.Effect == EffectDamage }

// Validate checks that the item definition satisfies its invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty and the effect
// payload is consistent with its kind.
func (i *Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("item: id must not be empty")
	}
	if i.Name == "" {
		return fmt.Errorf("item %q: name must not be empty", i.ID)
	}
	switch i.Effect {
	case EffectHealHP, EffectHealMP, EffectDamage:
		if i.Value < 1 {
			return fmt.Errorf("item %q: value must be >= 1 for %s, got %d", i.ID, i.Effect, i.Value)
		}
	case EffectCureStatus:
		// No payload.
	case EffectBuff:
		if !skill.ModifiableStats[i.Stat] {
			return fmt.Errorf("item %q: stat must be one of [attack, defense, speed], got %q", i.ID, i.Stat)
		}
		if i.Value == 0 {
			return fmt.Errorf("item %q: value must be non-zero for buff", i.ID)
		}
		if i.Duration < 1 {
			return fmt.Errorf("item %q: duration must be >= 1 for buff, got %d", i.ID, i.Duration)
		}
	default:
		return fmt.Errorf("item %q: effect must be one of [heal_hp, heal_mp, cure_status, buff, damage], got %q", i.ID, i.Effect)
	}
	return nil
}

// Registry holds all known Items keyed by ID.
type Registry struct {
	items map[string]*Item
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Item)}
}

// Register adds i to the registry, overwriting any existing entry with the same ID.
func (r *Registry) Register(i *Item) {
	r.items[i.ID] = i
}

// Get returns the Item for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Item, bool) {
	i, ok := r.items[id]
	return i, ok
}

// All returns a snapshot slice of all registered Items.
func (r *Registry) All() []*Item {
	out := make([]*Item, 0, len(r.items))
	for _, i := range r.items {
		out = append(out, i)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as an Item, and
// returns a populated Registry.
//
// Precondition: dir must be a readable directory.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading item dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		i, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(i)
	}
	return reg, nil
}

// LoadFromBytes parses a single Item from raw YAML bytes with strict field
// checking.
func LoadFromBytes(data []byte) (*Item, error) {
	var i Item
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&i); err != nil {
		return nil, fmt.Errorf("parsing item YAML: %w", err)
	}
	if err := i.Validate(); err != nil {
		return nil, err
	}
	return &i, nil
}

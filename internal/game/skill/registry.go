package skill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds all known Skills keyed by ID.
type Registry struct {
	skills map[string]*Skill
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{skills: make(map[string]*Skill)}
}

// Register adds s to the registry, overwriting any existing entry with the same ID.
// Precondition: s must not be nil and s.ID must not be empty.
func (r *Registry) Register(s *Skill) {
	r.skills[s.ID] = s
}

// Get returns the Skill for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Skill, bool) {
	s, ok := r.skills[id]
	return s, ok
}

// All returns a snapshot slice of all registered Skills.
func (r *Registry) All() []*Skill {
	out := make([]*Skill, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, s)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Skill, and
// returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading skill dir %q: %w", dir, err)
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
		s, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(s)
	}
	return reg, nil
}

// LoadFromBytes parses a single Skill from raw YAML bytes with strict field
// checking.
//
// Postcondition: Returns a validated *Skill, or an error.
func LoadFromBytes(data []byte) (*Skill, error) {
	var s Skill
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing skill YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

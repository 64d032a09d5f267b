package rules

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known buff IDs the targeting policy and skill resolver key on.
const (
	// BuffTaunt forces enemy basic attacks onto its holder.
	BuffTaunt = "taunt"
	// BuffBurn is the canonical damage-over-time buff.
	BuffBurn = "burn"
)

// BuffDef is the static definition of a buff, loaded from YAML.
type BuffDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// MaxStacks caps additive stacking. 0 = unstackable (stored as 1 stack).
	MaxStacks int `yaml:"max_stacks"`
	// DurationRounds is the default duration when a buff is applied without
	// an explicit one (initial roster buffs). 0 = permanent for the battle.
	DurationRounds int `yaml:"duration_rounds"`
}

// Validate checks the definition's invariants.
func (d *BuffDef) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if d.MaxStacks < 0 {
		errs = append(errs, fmt.Sprintf("max_stacks must be >= 0, got %d", d.MaxStacks))
	}
	if d.DurationRounds < 0 {
		errs = append(errs, fmt.Sprintf("duration_rounds must be >= 0, got %d", d.DurationRounds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("buff %q: %s", d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// BuffRegistry holds all known BuffDefs keyed by ID.
type BuffRegistry struct {
	defs map[string]*BuffDef
}

// NewBuffRegistry creates an empty BuffRegistry.
func NewBuffRegistry() *BuffRegistry {
	return &BuffRegistry{defs: make(map[string]*BuffDef)}
}

// Register adds def to the registry, overwriting any existing entry with the
// same ID.
//
// Precondition: def must be non-nil with a non-empty ID.
func (r *BuffRegistry) Register(def *BuffDef) {
	if def == nil {
		panic("BuffRegistry.Register: precondition violated: def must be non-nil")
	}
	if def.ID == "" {
		panic("BuffRegistry.Register: precondition violated: def ID must be non-empty")
	}
	r.defs[def.ID] = def
}

// Get returns the BuffDef for id, or (nil, false) if not found.
func (r *BuffRegistry) Get(id string) (*BuffDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered BuffDefs.
func (r *BuffRegistry) All() []*BuffDef {
	out := make([]*BuffDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadBuffs reads every *.yaml file in dir, parses and validates each as a
// BuffDef, and returns a populated BuffRegistry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil registry, or an error if any file fails to
// parse or validate.
func LoadBuffs(dir string) (*BuffRegistry, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	reg := NewBuffRegistry()
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def BuffDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}

// Package rules holds the static rule tables for the battle simulator: skill
// and buff definitions loaded from YAML at startup into immutable map-backed
// registries. The simulation core only ever reads these tables.
package rules

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SkillKind distinguishes actively cast skills from passive ones.
type SkillKind string

const (
	KindActive  SkillKind = "active"
	KindPassive SkillKind = "passive"
)

// TargetMode declares how a skill's targets are resolved.
type TargetMode string

const (
	TargetSelf        TargetMode = "self"
	TargetAllySingle  TargetMode = "ally_single"
	TargetEnemySingle TargetMode = "enemy_single"
	TargetEnemyAOE    TargetMode = "enemy_aoe"
)

// EffectKind declares what a skill does to each resolved target.
type EffectKind string

const (
	EffectDamage    EffectKind = "damage"
	EffectHeal      EffectKind = "heal"
	EffectShield    EffectKind = "shield"
	EffectApplyBuff EffectKind = "apply_buff"
	EffectApplyDOT  EffectKind = "apply_dot"
)

// SkillParams holds the numeric tuning for a skill effect. Which fields are
// meaningful depends on the effect kind.
type SkillParams struct {
	// Ratio scales the effect: attack ratio for damage/apply_dot, max-HP
	// ratio for heal/shield.
	Ratio float64 `yaml:"ratio"`
	// ExecuteThreshold is the HP fraction at or below which damage is
	// multiplied by ExecuteMultiplier. 0 disables execute semantics.
	ExecuteThreshold  float64 `yaml:"execute_threshold"`
	ExecuteMultiplier float64 `yaml:"execute_multiplier"`
	// Duration is the buff/DOT duration in rounds.
	Duration int `yaml:"duration"`
	// BuffID names the buff applied by apply_buff/apply_dot.
	BuffID string `yaml:"buff_id"`
	// ShieldRatio grants an additional max-HP-ratio shield on apply_buff.
	ShieldRatio float64 `yaml:"shield_ratio"`
	// MaxTargets caps AOE target sets. 0 = unlimited.
	MaxTargets int `yaml:"max_targets"`
}

// SkillDef is the static definition of one skill, loaded from YAML.
type SkillDef struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Kind     SkillKind   `yaml:"kind"`
	Target   TargetMode  `yaml:"target"`
	Effect   EffectKind  `yaml:"effect"`
	Cooldown int         `yaml:"cooldown"`
	Params   SkillParams `yaml:"params"`
}

// Validate checks the definition's enum values and numeric ranges.
//
// Postcondition: Returns nil iff the definition is usable by the simulator.
func (d *SkillDef) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	switch d.Kind {
	case KindActive, KindPassive:
	default:
		errs = append(errs, fmt.Sprintf("kind must be one of [active, passive], got %q", d.Kind))
	}
	switch d.Target {
	case TargetSelf, TargetAllySingle, TargetEnemySingle, TargetEnemyAOE:
	default:
		errs = append(errs, fmt.Sprintf("target must be one of [self, ally_single, enemy_single, enemy_aoe], got %q", d.Target))
	}
	switch d.Effect {
	case EffectDamage, EffectHeal, EffectShield, EffectApplyBuff, EffectApplyDOT:
	default:
		errs = append(errs, fmt.Sprintf("effect must be one of [damage, heal, shield, apply_buff, apply_dot], got %q", d.Effect))
	}
	if d.Cooldown < 0 {
		errs = append(errs, fmt.Sprintf("cooldown must be >= 0, got %d", d.Cooldown))
	}
	if d.Params.Ratio < 0 {
		errs = append(errs, fmt.Sprintf("params.ratio must be >= 0, got %v", d.Params.Ratio))
	}
	if d.Params.ExecuteThreshold < 0 || d.Params.ExecuteThreshold > 1 {
		errs = append(errs, fmt.Sprintf("params.execute_threshold must be in [0, 1], got %v", d.Params.ExecuteThreshold))
	}
	if d.Params.ExecuteThreshold > 0 && d.Params.ExecuteMultiplier <= 0 {
		errs = append(errs, fmt.Sprintf("params.execute_multiplier must be > 0 when execute_threshold is set, got %v", d.Params.ExecuteMultiplier))
	}
	if d.Params.Duration < 0 {
		errs = append(errs, fmt.Sprintf("params.duration must be >= 0, got %d", d.Params.Duration))
	}
	if d.Params.MaxTargets < 0 {
		errs = append(errs, fmt.Sprintf("params.max_targets must be >= 0, got %d", d.Params.MaxTargets))
	}
	if (d.Effect == EffectApplyBuff || d.Effect == EffectApplyDOT) && d.Params.BuffID == "" {
		errs = append(errs, "params.buff_id must not be empty for apply_buff/apply_dot")
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill %q: %s", d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// SkillRegistry holds all known SkillDefs keyed by ID.
type SkillRegistry struct {
	defs map[string]*SkillDef
}

// NewSkillRegistry creates an empty SkillRegistry.
func NewSkillRegistry() *SkillRegistry {
	return &SkillRegistry{defs: make(map[string]*SkillDef)}
}

// Register adds def to the registry, overwriting any existing entry with the
// same ID.
//
// Precondition: def must be non-nil with a non-empty ID.
func (r *SkillRegistry) Register(def *SkillDef) {
	if def == nil {
		panic("SkillRegistry.Register: precondition violated: def must be non-nil")
	}
	if def.ID == "" {
		panic("SkillRegistry.Register: precondition violated: def ID must be non-empty")
	}
	r.defs[def.ID] = def
}

// Get returns the SkillDef for id, or (nil, false) if not found.
func (r *SkillRegistry) Get(id string) (*SkillDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered SkillDefs.
func (r *SkillRegistry) All() []*SkillDef {
	out := make([]*SkillDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadSkills reads every *.yaml file in dir, parses and validates each as a
// SkillDef, and returns a populated SkillRegistry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil registry, or an error if any file fails to
// parse or validate.
func LoadSkills(dir string) (*SkillRegistry, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	reg := NewSkillRegistry()
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def SkillDef
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

// yamlFiles returns the paths of all *.yaml entries directly under dir.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading rules dir %q: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// Package roster loads battle setups from YAML files. A setup file names the
// two teams, each unit's stats and loadout, and an optional replay seed.
package roster

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/rules"
)

// Unit is one combatant entry in a setup file.
type Unit struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	HeroID string `yaml:"hero_id"`
	Class  string `yaml:"class"`
	// CurrentHP defaults to MaxHP when omitted or zero.
	CurrentHP int      `yaml:"current_hp"`
	MaxHP     int      `yaml:"max_hp"`
	Attack    int      `yaml:"attack"`
	Speed     int      `yaml:"speed"`
	Skills    []string `yaml:"skills"`
	Buffs     []string `yaml:"buffs"`
}

// File is the on-disk shape of a battle setup.
type File struct {
	Seed  uint64 `yaml:"seed"`
	TeamA []Unit `yaml:"team_a"`
	TeamB []Unit `yaml:"team_b"`
}

func (u Unit) validate(label string) error {
	var errs []string
	if u.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if u.MaxHP < 1 {
		errs = append(errs, fmt.Sprintf("max_hp must be >= 1, got %d", u.MaxHP))
	}
	if u.CurrentHP < 0 {
		errs = append(errs, fmt.Sprintf("current_hp must be >= 0, got %d", u.CurrentHP))
	}
	if u.Attack < 0 {
		errs = append(errs, fmt.Sprintf("attack must be >= 0, got %d", u.Attack))
	}
	if u.Speed < 0 {
		errs = append(errs, fmt.Sprintf("speed must be >= 0, got %d", u.Speed))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %s", label, strings.Join(errs, "; "))
	}
	return nil
}

func (u Unit) combatant() battle.Combatant {
	hp := u.CurrentHP
	if hp == 0 {
		hp = u.MaxHP
	}
	return battle.Combatant{
		ID:             u.ID,
		Name:           u.Name,
		HeroID:         u.HeroID,
		Class:          battle.Archetype(u.Class),
		CurrentHP:      hp,
		MaxHP:          u.MaxHP,
		Attack:         u.Attack,
		Speed:          u.Speed,
		SkillIDs:       append([]string(nil), u.Skills...),
		InitialBuffIDs: append([]string(nil), u.Buffs...),
	}
}

// LoadSetup reads a battle setup from path and checks every skill and buff
// reference against the given registries.
//
// Precondition: skills and buffs must be non-nil.
// Postcondition: Returns a Setup whose loadouts only reference known rules, or
// a non-nil error.
func LoadSetup(path string, skills *rules.SkillRegistry, buffs *rules.BuffRegistry) (battle.Setup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return battle.Setup{}, fmt.Errorf("reading setup %q: %w", path, err)
	}

	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return battle.Setup{}, fmt.Errorf("parsing setup %q: %w", path, err)
	}

	setup := battle.Setup{Seed: file.Seed}
	for i, u := range file.TeamA {
		label := fmt.Sprintf("team_a[%d]", i)
		if err := checkUnit(u, label, skills, buffs); err != nil {
			return battle.Setup{}, fmt.Errorf("setup %q: %w", path, err)
		}
		setup.TeamA = append(setup.TeamA, u.combatant())
	}
	for i, u := range file.TeamB {
		label := fmt.Sprintf("team_b[%d]", i)
		if err := checkUnit(u, label, skills, buffs); err != nil {
			return battle.Setup{}, fmt.Errorf("setup %q: %w", path, err)
		}
		setup.TeamB = append(setup.TeamB, u.combatant())
	}
	return setup, nil
}

func checkUnit(u Unit, label string, skills *rules.SkillRegistry, buffs *rules.BuffRegistry) error {
	if err := u.validate(label); err != nil {
		return err
	}
	for _, id := range u.Skills {
		if _, ok := skills.Get(id); !ok {
			return fmt.Errorf("%s: unknown skill %q", label, id)
		}
	}
	for _, id := range u.Buffs {
		if _, ok := buffs.Get(id); !ok {
			return fmt.Errorf("%s: unknown buff %q", label, id)
		}
	}
	return nil
}

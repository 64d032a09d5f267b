// Package testutil provides content fixtures for simulator tests: a small but
// complete set of skill, buff, and battle setup YAML files written to a temp
// directory.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

var skillFixtures = map[string]string{
	"provoke.yaml": `
id: provoke
name: Provoke
kind: active
target: self
effect: apply_buff
cooldown: 3
params:
  buff_id: taunt
  duration: 2
  shield_ratio: 0.1
`,
	"mend.yaml": `
id: mend
name: Mend
kind: active
target: ally_single
effect: heal
cooldown: 2
params:
  ratio: 0.2
`,
	"heavy_blow.yaml": `
id: heavy_blow
name: Heavy Blow
kind: active
target: enemy_single
effect: damage
cooldown: 2
params:
  ratio: 1.5
`,
	"cull.yaml": `
id: cull
name: Cull
kind: active
target: enemy_single
effect: damage
cooldown: 1
params:
  ratio: 1.0
  execute_threshold: 0.3
  execute_multiplier: 2.0
`,
	"ignite.yaml": `
id: ignite
name: Ignite
kind: active
target: enemy_aoe
effect: apply_dot
cooldown: 3
params:
  ratio: 0.3
  buff_id: burn
  duration: 2
  max_targets: 2
`,
}

var buffFixtures = map[string]string{
	"taunt.yaml": `
id: taunt
name: Taunt
duration_rounds: 2
`,
	"burn.yaml": `
id: burn
name: Burn
max_stacks: 3
duration_rounds: 2
`,
	"stonewall.yaml": `
id: stonewall
name: Stonewall
`,
}

const demoSetup = `
seed: 7
team_a:
  - id: tank1
    name: Bulwark
    class: tank
    max_hp: 500
    attack: 20
    speed: 40
    skills: [provoke]
    buffs: [stonewall]
  - id: healer1
    name: Lifebinder
    class: support
    max_hp: 250
    attack: 15
    speed: 30
    skills: [mend]
team_b:
  - id: brute1
    name: Brute
    class: warrior
    max_hp: 300
    attack: 45
    speed: 35
    skills: [heavy_blow]
  - id: shade1
    name: Shade
    class: assassin
    max_hp: 180
    attack: 55
    speed: 60
    skills: [cull]
`

func writeAll(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
}

// WriteSkillFixtures writes the demo skill definitions into a fresh temp
// directory and returns its path.
//
// Postcondition: The directory contains one valid YAML file per demo skill.
func WriteSkillFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeAll(t, dir, skillFixtures)
	return dir
}

// WriteBuffFixtures writes the demo buff definitions into a fresh temp
// directory and returns its path.
func WriteBuffFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeAll(t, dir, buffFixtures)
	return dir
}

// WriteDemoSetup writes a two-versus-two seeded battle setup file and returns
// its path. The loadouts only reference fixtures from WriteSkillFixtures and
// WriteBuffFixtures.
func WriteDemoSetup(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "battle.yaml")
	if err := os.WriteFile(path, []byte(demoSetup), 0644); err != nil {
		t.Fatalf("writing demo setup: %v", err)
	}
	return path
}

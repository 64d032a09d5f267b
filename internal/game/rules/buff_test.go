package rules_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/rules"
)

// TestLoadBuffs_Valid loads a directory of well-formed buff files.
func TestLoadBuffs_Valid(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "taunt.yaml", `
id: taunt
name: Taunt
max_stacks: 0
duration_rounds: 2
`)
	writeYAML(t, dir, "burn.yaml", `
id: burn
name: Burn
max_stacks: 3
duration_rounds: 2
`)

	reg, err := rules.LoadBuffs(dir)
	require.NoError(t, err)

	taunt, ok := reg.Get("taunt")
	require.True(t, ok, "taunt must be registered")
	assert.Equal(t, 0, taunt.MaxStacks, "taunt is unstackable")
	assert.Equal(t, 2, taunt.DurationRounds)

	burn, ok := reg.Get("burn")
	require.True(t, ok, "burn must be registered")
	assert.Equal(t, 3, burn.MaxStacks)

	assert.Len(t, reg.All(), 2)
}

// TestLoadBuffs_UnknownField rejects files with fields outside the schema.
func TestLoadBuffs_UnknownField(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "bad.yaml", `
id: bad
dispellable: true
`)
	_, err := rules.LoadBuffs(dir)
	assert.Error(t, err, "unknown fields must be rejected")
}

// TestLoadBuffs_InvalidRanges rejects negative stack and duration values.
func TestLoadBuffs_InvalidRanges(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "bad.yaml", `
id: bad
max_stacks: -1
duration_rounds: -3
`)
	_, err := rules.LoadBuffs(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_stacks must be >= 0")
	assert.Contains(t, err.Error(), "duration_rounds must be >= 0")
}

// TestLoadBuffs_MissingDir surfaces unreadable directories.
func TestLoadBuffs_MissingDir(t *testing.T) {
	_, err := rules.LoadBuffs(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

// TestBuffRegistry_RegisterPanics verifies the registration preconditions.
func TestBuffRegistry_RegisterPanics(t *testing.T) {
	reg := rules.NewBuffRegistry()
	assert.Panics(t, func() { reg.Register(nil) })
	assert.Panics(t, func() { reg.Register(&rules.BuffDef{}) })
}

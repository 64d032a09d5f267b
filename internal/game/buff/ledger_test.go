package buff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/buff"
	"github.com/cory-johannsen/arena/internal/game/rules"
)

var (
	burnDef  = &rules.BuffDef{ID: "burn", Name: "Burn", MaxStacks: 3, DurationRounds: 2}
	tauntDef = &rules.BuffDef{ID: "taunt", Name: "Taunt", MaxStacks: 0, DurationRounds: 2}
)

// TestSet_Apply_New applies a fresh buff and checks the stored instance.
func TestSet_Apply_New(t *testing.T) {
	s := buff.NewSet()
	stacks, err := s.Apply(burnDef, buff.Instance{Stacks: 2, ExpiresRound: 5, SourceID: "a1", DamagePerRound: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, stacks)

	inst, ok := s.Get("burn")
	require.True(t, ok)
	assert.Equal(t, 2, inst.Stacks)
	assert.Equal(t, 5, inst.ExpiresRound)
	assert.Equal(t, "a1", inst.SourceID)
	assert.Equal(t, 10, inst.DamagePerRound)
}

// TestSet_Apply_StacksAdditiveCapped verifies additive stacking up to the cap.
func TestSet_Apply_StacksAdditiveCapped(t *testing.T) {
	s := buff.NewSet()
	_, err := s.Apply(burnDef, buff.Instance{Stacks: 2, ExpiresRound: 3})
	require.NoError(t, err)
	stacks, err := s.Apply(burnDef, buff.Instance{Stacks: 2, ExpiresRound: 4})
	require.NoError(t, err)
	assert.Equal(t, 3, stacks, "stacks must cap at MaxStacks")
	assert.Equal(t, 3, s.Stacks("burn"))
}

// TestSet_Apply_RefreshesExpiry verifies re-application replaces the expiry
// round rather than keeping the longer of the two.
func TestSet_Apply_RefreshesExpiry(t *testing.T) {
	s := buff.NewSet()
	_, err := s.Apply(burnDef, buff.Instance{Stacks: 1, ExpiresRound: 9})
	require.NoError(t, err)
	_, err = s.Apply(burnDef, buff.Instance{Stacks: 1, ExpiresRound: 4, SourceID: "b2", DamagePerRound: 7})
	require.NoError(t, err)

	inst, ok := s.Get("burn")
	require.True(t, ok)
	assert.Equal(t, 4, inst.ExpiresRound, "re-apply must refresh expiry")
	assert.Equal(t, "b2", inst.SourceID, "re-apply must refresh source")
	assert.Equal(t, 7, inst.DamagePerRound, "re-apply must refresh DOT payload")
}

// TestSet_Apply_Unstackable verifies MaxStacks == 0 buffs stay at one stack.
func TestSet_Apply_Unstackable(t *testing.T) {
	s := buff.NewSet()
	stacks, err := s.Apply(tauntDef, buff.Instance{Stacks: 3, ExpiresRound: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, stacks)
	stacks, err = s.Apply(tauntDef, buff.Instance{Stacks: 5, ExpiresRound: 6})
	require.NoError(t, err)
	assert.Equal(t, 1, stacks)
}

// TestSet_Apply_Preconditions rejects nil defs and non-positive stacks.
func TestSet_Apply_Preconditions(t *testing.T) {
	s := buff.NewSet()
	_, err := s.Apply(nil, buff.Instance{Stacks: 1})
	assert.Error(t, err)
	_, err = s.Apply(burnDef, buff.Instance{Stacks: 0})
	assert.Error(t, err)
}

// TestSet_Remove removes present buffs and no-ops on absent ones.
func TestSet_Remove(t *testing.T) {
	s := buff.NewSet()
	_, err := s.Apply(burnDef, buff.Instance{Stacks: 1, ExpiresRound: 3})
	require.NoError(t, err)

	assert.True(t, s.Remove("burn"))
	assert.False(t, s.Has("burn"))
	assert.False(t, s.Remove("burn"), "removing an absent buff reports false")
}

// TestSet_ExpireForRound removes instances whose round has been reached and
// leaves permanent instances alone.
func TestSet_ExpireForRound(t *testing.T) {
	s := buff.NewSet()
	_, err := s.Apply(burnDef, buff.Instance{Stacks: 1, ExpiresRound: 3})
	require.NoError(t, err)
	_, err = s.Apply(tauntDef, buff.Instance{Stacks: 1, ExpiresRound: 0})
	require.NoError(t, err)

	assert.Empty(t, s.ExpireForRound(2), "round 2 is before the expiry round")

	expired := s.ExpireForRound(3)
	assert.Equal(t, []string{"burn"}, expired)
	assert.False(t, s.Has("burn"))
	assert.True(t, s.Has("taunt"), "permanent buffs never expire")

	assert.Empty(t, s.ExpireForRound(30), "permanent buffs survive any round")
}

// TestSet_All_ApplicationOrder verifies deterministic iteration order.
func TestSet_All_ApplicationOrder(t *testing.T) {
	s := buff.NewSet()
	defs := []*rules.BuffDef{
		{ID: "c", MaxStacks: 1},
		{ID: "a", MaxStacks: 1},
		{ID: "b", MaxStacks: 1},
	}
	for _, d := range defs {
		_, err := s.Apply(d, buff.Instance{Stacks: 1})
		require.NoError(t, err)
	}
	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].BuffID)
	assert.Equal(t, "a", all[1].BuffID)
	assert.Equal(t, "b", all[2].BuffID)
}

// TestSet_Stacks_Property: for arbitrary apply sequences, the stored stack
// count never exceeds the definition cap and never drops below 1 while active.
func TestSet_Stacks_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxStacks := rapid.IntRange(1, 10).Draw(rt, "maxStacks")
		def := &rules.BuffDef{ID: "p", MaxStacks: maxStacks}
		s := buff.NewSet()
		applies := rapid.IntRange(1, 20).Draw(rt, "applies")
		for i := 0; i < applies; i++ {
			stacks := rapid.IntRange(1, 5).Draw(rt, "stacks")
			got, err := s.Apply(def, buff.Instance{Stacks: stacks})
			require.NoError(rt, err)
			assert.GreaterOrEqual(rt, got, 1)
			assert.LessOrEqual(rt, got, maxStacks)
		}
	})
}

// TestLedger_Of returns a stable per-combatant set.
func TestLedger_Of(t *testing.T) {
	l := buff.NewLedger()
	a := l.Of("u1")
	require.NotNil(t, a)
	_, err := a.Apply(burnDef, buff.Instance{Stacks: 1, ExpiresRound: 2})
	require.NoError(t, err)

	assert.Same(t, a, l.Of("u1"), "Of must return the same set per combatant")
	assert.False(t, l.Of("u2").Has("burn"), "sets are independent per combatant")
}

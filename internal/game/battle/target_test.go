package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/buff"
	"github.com/cory-johannsen/arena/internal/game/rules"
)

var testTauntDef = &rules.BuffDef{ID: "taunt", Name: "Taunt", MaxStacks: 0, DurationRounds: 2}

func enemyRoster() []*battle.Combatant {
	return []*battle.Combatant{
		{ID: "e1", Name: "Front", Side: battle.SideB, Slot: 0, CurrentHP: 100, MaxHP: 100},
		{ID: "e2", Name: "Second", Side: battle.SideB, Slot: 1, CurrentHP: 50, MaxHP: 100},
		{ID: "e3", Name: "Back", Side: battle.SideB, Slot: 2, CurrentHP: 10, MaxHP: 100},
	}
}

func tauntLedger(t *testing.T, ids ...string) *buff.Ledger {
	t.Helper()
	l := buff.NewLedger()
	for _, id := range ids {
		_, err := l.Of(id).Apply(testTauntDef, buff.Instance{Stacks: 1})
		require.NoError(t, err)
	}
	return l
}

// TestBasicAttackTarget_TauntOverridesEverything: a living taunt holder is
// the mandatory target regardless of the actor's archetype.
func TestBasicAttackTarget_TauntOverridesEverything(t *testing.T) {
	classes := []battle.Archetype{
		battle.ClassTank, battle.ClassSupport, battle.ClassAssassin,
		battle.ClassWarrior, battle.ClassMage, "", "beastmaster",
	}
	for _, class := range classes {
		enemies := enemyRoster()
		ledger := tauntLedger(t, "e2")
		actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: class, CurrentHP: 100, MaxHP: 100}
		target := battle.BasicAttackTarget(actor, enemies, ledger)
		require.NotNil(t, target, "class %q: expected a target", class)
		assert.Equal(t, "e2", target.ID, "class %q must attack the taunt holder", class)
	}
}

// TestBasicAttackTarget_DeadTaunterIgnored: a dead taunt holder no longer
// forces targeting.
func TestBasicAttackTarget_DeadTaunterIgnored(t *testing.T) {
	enemies := enemyRoster()
	enemies[1].CurrentHP = 0
	ledger := tauntLedger(t, "e2")
	actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: battle.ClassWarrior, CurrentHP: 100, MaxHP: 100}
	target := battle.BasicAttackTarget(actor, enemies, ledger)
	require.NotNil(t, target)
	assert.Equal(t, "e1", target.ID)
}

// TestBasicAttackTarget_AssassinPicksLowestFraction verifies the
// finish-the-weak heuristic with an ID tiebreak.
func TestBasicAttackTarget_AssassinPicksLowestFraction(t *testing.T) {
	enemies := enemyRoster()
	actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: battle.ClassAssassin, CurrentHP: 100, MaxHP: 100}
	target := battle.BasicAttackTarget(actor, enemies, buff.NewLedger())
	require.NotNil(t, target)
	assert.Equal(t, "e3", target.ID, "assassin must pick the lowest HP fraction")

	// Tie on fraction resolves by ascending ID.
	enemies[0].CurrentHP = 10
	target = battle.BasicAttackTarget(actor, enemies, buff.NewLedger())
	require.NotNil(t, target)
	assert.Equal(t, "e1", target.ID, "fraction ties break by ascending id")
}

// TestBasicAttackTarget_FrontlinePreference: warriors, tanks, mages, and
// supports hit the first living frontline slot, falling back to anyone alive.
func TestBasicAttackTarget_FrontlinePreference(t *testing.T) {
	for _, class := range []battle.Archetype{battle.ClassWarrior, battle.ClassTank, battle.ClassMage, battle.ClassSupport} {
		enemies := enemyRoster()
		actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: class, CurrentHP: 100, MaxHP: 100}

		target := battle.BasicAttackTarget(actor, enemies, buff.NewLedger())
		require.NotNil(t, target)
		assert.Equal(t, "e1", target.ID, "class %q prefers the first frontline slot", class)

		enemies[0].CurrentHP = 0
		target = battle.BasicAttackTarget(actor, enemies, buff.NewLedger())
		require.NotNil(t, target)
		assert.Equal(t, "e2", target.ID, "class %q takes the second frontline slot next", class)

		enemies[1].CurrentHP = 0
		target = battle.BasicAttackTarget(actor, enemies, buff.NewLedger())
		require.NotNil(t, target)
		assert.Equal(t, "e3", target.ID, "class %q falls back to the first living member", class)
	}
}

// TestBasicAttackTarget_UnknownArchetype falls back to the first living enemy.
func TestBasicAttackTarget_UnknownArchetype(t *testing.T) {
	enemies := enemyRoster()
	actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: "bard", CurrentHP: 100, MaxHP: 100}
	target := battle.BasicAttackTarget(actor, enemies, buff.NewLedger())
	require.NotNil(t, target)
	assert.Equal(t, "e1", target.ID)
}

// TestBasicAttackTarget_NoLivingEnemies returns nil.
func TestBasicAttackTarget_NoLivingEnemies(t *testing.T) {
	enemies := enemyRoster()
	for _, c := range enemies {
		c.CurrentHP = 0
	}
	actor := &battle.Combatant{ID: "a1", Side: battle.SideA, CurrentHP: 100, MaxHP: 100}
	assert.Nil(t, battle.BasicAttackTarget(actor, enemies, buff.NewLedger()))
}

// TestHealTarget_PicksLowestFraction selects the most injured living ally.
func TestHealTarget_PicksLowestFraction(t *testing.T) {
	allies := []*battle.Combatant{
		{ID: "u1", Slot: 0, CurrentHP: 80, MaxHP: 100},
		{ID: "u2", Slot: 1, CurrentHP: 30, MaxHP: 100},
		{ID: "u3", Slot: 2, CurrentHP: 100, MaxHP: 100},
	}
	target := battle.HealTarget(allies)
	require.NotNil(t, target)
	assert.Equal(t, "u2", target.ID)
}

// TestHealTarget_NoneInjured returns nil when every living ally is at full HP.
func TestHealTarget_NoneInjured(t *testing.T) {
	allies := []*battle.Combatant{
		{ID: "u1", CurrentHP: 100, MaxHP: 100},
		{ID: "u2", CurrentHP: 0, MaxHP: 100}, // dead, never a heal target
	}
	assert.Nil(t, battle.HealTarget(allies))
}

// TestAOETargets_TauntDraftedFirst: taunt holders fill the set before the
// archetype ordering.
func TestAOETargets_TauntDraftedFirst(t *testing.T) {
	enemies := enemyRoster()
	ledger := tauntLedger(t, "e3")
	actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: battle.ClassMage, CurrentHP: 100, MaxHP: 100}

	targets := battle.AOETargets(actor, enemies, ledger, 2)
	require.Len(t, targets, 2)
	assert.Equal(t, "e3", targets[0].ID, "taunt holder is drafted first")
	assert.Equal(t, "e1", targets[1].ID, "remaining slot fills frontline-first")
}

// TestAOETargets_AssassinOrdering fills by ascending HP fraction.
func TestAOETargets_AssassinOrdering(t *testing.T) {
	enemies := enemyRoster()
	actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: battle.ClassAssassin, CurrentHP: 100, MaxHP: 100}
	targets := battle.AOETargets(actor, enemies, buff.NewLedger(), 0)
	require.Len(t, targets, 3)
	assert.Equal(t, "e3", targets[0].ID)
	assert.Equal(t, "e2", targets[1].ID)
	assert.Equal(t, "e1", targets[2].ID)
}

// TestAOETargets_FrontlineOrdering fills frontline-then-ID for non-assassins.
func TestAOETargets_FrontlineOrdering(t *testing.T) {
	enemies := enemyRoster()
	actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: battle.ClassWarrior, CurrentHP: 100, MaxHP: 100}
	targets := battle.AOETargets(actor, enemies, buff.NewLedger(), 0)
	require.Len(t, targets, 3)
	assert.Equal(t, "e1", targets[0].ID)
	assert.Equal(t, "e2", targets[1].ID)
	assert.Equal(t, "e3", targets[2].ID)
}

// TestAOETargets_MaxTargetsAndDedupe: the set is deduplicated and truncated.
func TestAOETargets_MaxTargetsAndDedupe(t *testing.T) {
	enemies := enemyRoster()
	ledger := tauntLedger(t, "e1")
	actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: battle.ClassWarrior, CurrentHP: 100, MaxHP: 100}

	targets := battle.AOETargets(actor, enemies, ledger, 2)
	require.Len(t, targets, 2)
	assert.Equal(t, "e1", targets[0].ID, "taunter drafted once, not duplicated by the fill pass")
	assert.Equal(t, "e2", targets[1].ID)

	seen := map[string]int{}
	for _, c := range battle.AOETargets(actor, enemies, ledger, 0) {
		seen[c.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "target %q appears more than once", id)
	}
}

// TestAOETargets_SkipsDead: dead enemies are never selected.
func TestAOETargets_SkipsDead(t *testing.T) {
	enemies := enemyRoster()
	enemies[0].CurrentHP = 0
	actor := &battle.Combatant{ID: "a1", Side: battle.SideA, Class: battle.ClassWarrior, CurrentHP: 100, MaxHP: 100}
	targets := battle.AOETargets(actor, enemies, buff.NewLedger(), 0)
	require.Len(t, targets, 2)
	for _, c := range targets {
		assert.False(t, c.IsDead())
	}
}

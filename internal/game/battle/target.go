package battle

import (
	"sort"

	"github.com/cory-johannsen/arena/internal/game/buff"
	"github.com/cory-johannsen/arena/internal/game/rules"
)

// Targeting policy: pure, side-effect-free functions over the current roster
// state. Taunt overrides every other heuristic so tank mechanics stay
// meaningful; frontline preference approximates a physical formation without
// modelling positions; lowest-HP-fraction targeting implements "finish the
// weak" (assassins) and "save the weakest" (healers).

// frontlineSlots is the number of roster slots counted as the front row.
const frontlineSlots = 2

// living returns the members of roster with CurrentHP > 0, in roster order.
func living(roster []*Combatant) []*Combatant {
	var out []*Combatant
	for _, c := range roster {
		if !c.IsDead() {
			out = append(out, c)
		}
	}
	return out
}

// tauntHolder returns the first living member of enemies holding the taunt
// buff, or nil.
func tauntHolder(enemies []*Combatant, ledger *buff.Ledger) *Combatant {
	for _, c := range enemies {
		if c.IsDead() {
			continue
		}
		if ledger.Of(c.ID).Has(rules.BuffTaunt) {
			return c
		}
	}
	return nil
}

// byLowestFraction sorts a copy of candidates by ascending HP fraction, ties
// broken by ascending ID.
func byLowestFraction(candidates []*Combatant) []*Combatant {
	out := make([]*Combatant, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := out[i].HPFraction(), out[j].HPFraction()
		if fi != fj {
			return fi < fj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// byFrontlineThenID sorts a copy of candidates frontline-first, ties broken
// by ascending ID.
func byFrontlineThenID(candidates []*Combatant) []*Combatant {
	out := make([]*Combatant, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := out[i].Slot < frontlineSlots, out[j].Slot < frontlineSlots
		if fi != fj {
			return fi
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// frontlinePreferred returns the first living member of roster in the front
// slots, falling back to the first living member anywhere.
func frontlinePreferred(alive []*Combatant) *Combatant {
	for _, c := range alive {
		if c.Slot < frontlineSlots {
			return c
		}
	}
	if len(alive) > 0 {
		return alive[0]
	}
	return nil
}

// BasicAttackTarget selects the single target of a basic attack. A living
// taunt holder is the mandatory target; otherwise selection dispatches on the
// actor's archetype.
//
// Postcondition: Returns a living enemy, or nil when none are alive.
func BasicAttackTarget(actor *Combatant, enemies []*Combatant, ledger *buff.Ledger) *Combatant {
	alive := living(enemies)
	if len(alive) == 0 {
		return nil
	}
	if taunter := tauntHolder(enemies, ledger); taunter != nil {
		return taunter
	}
	switch actor.Class {
	case ClassAssassin:
		return byLowestFraction(alive)[0]
	case ClassWarrior, ClassTank, ClassMage, ClassSupport:
		return frontlinePreferred(alive)
	default:
		return alive[0]
	}
}

// HealTarget selects the ally most in need of healing: the living ally with
// CurrentHP below MaxHP and the lowest HP fraction, ties broken by ID.
//
// Postcondition: Returns nil when no living ally is injured.
func HealTarget(allies []*Combatant) *Combatant {
	var injured []*Combatant
	for _, c := range living(allies) {
		if c.CurrentHP < c.MaxHP {
			injured = append(injured, c)
		}
	}
	if len(injured) == 0 {
		return nil
	}
	return byLowestFraction(injured)[0]
}

// AOETargets selects the target set for an area skill. Taunt holders are
// drafted first, then remaining slots fill by lowest HP fraction for
// assassins or frontline-then-ID ordering for everyone else. The result is
// deduplicated and truncated to maxTargets when maxTargets > 0.
//
// Postcondition: Every returned combatant is alive; no duplicates;
// len(result) <= maxTargets when maxTargets > 0.
func AOETargets(actor *Combatant, enemies []*Combatant, ledger *buff.Ledger, maxTargets int) []*Combatant {
	alive := living(enemies)
	if len(alive) == 0 {
		return nil
	}

	var picked []*Combatant
	seen := make(map[string]bool)
	add := func(c *Combatant) {
		if seen[c.ID] {
			return
		}
		if maxTargets > 0 && len(picked) >= maxTargets {
			return
		}
		seen[c.ID] = true
		picked = append(picked, c)
	}

	for _, c := range alive {
		if ledger.Of(c.ID).Has(rules.BuffTaunt) {
			add(c)
		}
	}

	var fill []*Combatant
	if actor.Class == ClassAssassin {
		fill = byLowestFraction(alive)
	} else {
		fill = byFrontlineThenID(alive)
	}
	for _, c := range fill {
		add(c)
	}
	return picked
}

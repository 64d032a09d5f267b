// Package buff tracks active buff instances per combatant for one battle.
// Instances are mutated only through add/remove/expire operations; the battle
// engine is the sole caller.
package buff

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/rules"
)

// Instance is one active buff on a combatant.
type Instance struct {
	BuffID string
	Stacks int
	// ExpiresRound is the round at whose start the instance is removed.
	// 0 = permanent for the battle.
	ExpiresRound int
	// SourceID is the combatant that applied the buff; DOT ticks are
	// attributed to it.
	SourceID string
	// DamagePerRound is the per-stack DOT payload. 0 = no tick effect.
	DamagePerRound int
}

// Set tracks all buffs currently applied to one combatant. Instances are held
// in application order so iteration is deterministic. It is not safe for
// concurrent use; the engine serialises access.
type Set struct {
	instances []*Instance
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Apply adds or refreshes a buff on this combatant and returns the resulting
// stack count. Stacking is additive up to def.MaxStacks; MaxStacks == 0 means
// unstackable and the count stays at 1. Re-application refreshes
// ExpiresRound, SourceID, and DamagePerRound to the new values.
//
// Precondition: def must not be nil; inst.Stacks must be >= 1.
// Postcondition: Has(def.ID) is true; returned count is >= 1.
func (s *Set) Apply(def *rules.BuffDef, inst Instance) (int, error) {
	if def == nil {
		return 0, fmt.Errorf("Apply: def must not be nil")
	}
	if inst.Stacks < 1 {
		return 0, fmt.Errorf("Apply: stacks must be >= 1, got %d", inst.Stacks)
	}

	if existing := s.find(def.ID); existing != nil {
		if def.MaxStacks == 0 {
			existing.Stacks = 1
		} else {
			newStacks := existing.Stacks + inst.Stacks
			if newStacks > def.MaxStacks {
				newStacks = def.MaxStacks
			}
			existing.Stacks = newStacks
		}
		existing.ExpiresRound = inst.ExpiresRound
		existing.SourceID = inst.SourceID
		existing.DamagePerRound = inst.DamagePerRound
		return existing.Stacks, nil
	}

	stacks := inst.Stacks
	if def.MaxStacks == 0 {
		stacks = 1
	} else if stacks > def.MaxStacks {
		stacks = def.MaxStacks
	}
	s.instances = append(s.instances, &Instance{
		BuffID:         def.ID,
		Stacks:         stacks,
		ExpiresRound:   inst.ExpiresRound,
		SourceID:       inst.SourceID,
		DamagePerRound: inst.DamagePerRound,
	})
	return stacks, nil
}

// Remove deletes the buff with the given ID and reports whether it was
// present.
//
// Postcondition: Has(id) is false.
func (s *Set) Remove(id string) bool {
	for i, inst := range s.instances {
		if inst.BuffID == id {
			s.instances = append(s.instances[:i], s.instances[i+1:]...)
			return true
		}
	}
	return false
}

// ExpireForRound removes every instance whose ExpiresRound has been reached
// (0 < ExpiresRound <= round) and returns the removed buff IDs in application
// order.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *Set) ExpireForRound(round int) []string {
	var expired []string
	kept := s.instances[:0]
	for _, inst := range s.instances {
		if inst.ExpiresRound > 0 && inst.ExpiresRound <= round {
			expired = append(expired, inst.BuffID)
			continue
		}
		kept = append(kept, inst)
	}
	s.instances = kept
	return expired
}

// Has reports whether the buff with id is currently active.
func (s *Set) Has(id string) bool {
	return s.find(id) != nil
}

// Stacks returns the current stack count for buff id, or 0 if not present.
func (s *Set) Stacks(id string) int {
	if inst := s.find(id); inst != nil {
		return inst.Stacks
	}
	return 0
}

// Get returns the active instance for id, or (nil, false) if not present.
// The returned pointer is shared; callers must not modify it.
func (s *Set) Get(id string) (*Instance, bool) {
	inst := s.find(id)
	return inst, inst != nil
}

// All returns the active instances in application order. The slice is a new
// allocation but the pointed-to instances are shared.
func (s *Set) All() []*Instance {
	out := make([]*Instance, len(s.instances))
	copy(out, s.instances)
	return out
}

func (s *Set) find(id string) *Instance {
	for _, inst := range s.instances {
		if inst.BuffID == id {
			return inst
		}
	}
	return nil
}

// Ledger maps combatant IDs to their buff Sets for one battle. A fresh Ledger
// is built in the engine's Init; nothing persists across battles.
type Ledger struct {
	sets map[string]*Set
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{sets: make(map[string]*Set)}
}

// Of returns the Set for the given combatant, creating it on first use.
//
// Postcondition: Returns a non-nil Set.
func (l *Ledger) Of(combatantID string) *Set {
	s, ok := l.sets[combatantID]
	if !ok {
		s = NewSet()
		l.sets[combatantID] = s
	}
	return s
}

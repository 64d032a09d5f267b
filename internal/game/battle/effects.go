package battle

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/buff"
)

// Effect application engine: the sole authority mutating combatant HP,
// shields, and buffs. Every entry point treats a dead or missing target as a
// silent no-op — the targeting policy guarantees liveness before invocation,
// so these guards are a second safety net, not an error path.

// dealDamage applies amount damage from source to target. Shields absorb
// first; only the remainder reduces HP. Stats record the HP actually lost
// (post-shield), a damage event is emitted only when HP changed, and
// reaching 0 HP emits exactly one dead event and credits the kill.
//
// Postcondition: target.CurrentHP is in [0, MaxHP]; a fully-shielded hit
// emits no event.
func (e *Engine) dealDamage(source, target *Combatant, amount int) {
	if target == nil || target.IsDead() {
		return
	}
	if amount < 1 {
		amount = 1
	}

	remaining := amount
	if pool := e.shields[target.ID]; pool > 0 {
		absorbed := remaining
		if absorbed > pool {
			absorbed = pool
		}
		pool -= absorbed
		remaining -= absorbed
		if pool == 0 {
			delete(e.shields, target.ID)
		} else {
			e.shields[target.ID] = pool
		}
	}
	if remaining <= 0 {
		return
	}

	lost := target.ApplyDamage(remaining)
	if lost <= 0 {
		return
	}

	if source != nil {
		e.stats[source.ID].DamageDealt += lost
	}
	e.stats[target.ID].DamageTaken += lost

	ev := Event{
		Type:     EventDamage,
		Round:    e.round,
		TargetID: target.ID,
		Amount:   lost,
		HP:       target.CurrentHP,
		MaxHP:    target.MaxHP,
	}
	if source != nil {
		ev.SourceID = source.ID
	}
	e.emit(ev)

	if target.IsDead() {
		if source != nil {
			e.stats[source.ID].Kills++
		}
		e.emit(Event{Type: EventDead, Round: e.round, TargetID: target.ID})
		e.logger.Debug("combatant died",
			zap.String("target", target.ID),
			zap.Int("round", e.round),
		)
	}
}

// heal restores amount HP to target, clamped to MaxHP. A heal event is
// emitted only when HP actually changed.
//
// Postcondition: target.CurrentHP is in [0, MaxHP].
func (e *Engine) heal(source, target *Combatant, amount int) {
	if target == nil || target.IsDead() {
		return
	}
	if amount < 1 {
		amount = 1
	}
	gained := target.ApplyHealing(amount)
	if gained <= 0 {
		return
	}

	if source != nil {
		e.stats[source.ID].HealingDone += gained
	}
	ev := Event{
		Type:     EventHeal,
		Round:    e.round,
		TargetID: target.ID,
		Amount:   gained,
		HP:       target.CurrentHP,
		MaxHP:    target.MaxHP,
	}
	if source != nil {
		ev.SourceID = source.ID
	}
	e.emit(ev)
}

// applyShield adds amount to target's absorption pool. Shields emit no event
// of their own; they become visible through subsequent damage absorption.
func (e *Engine) applyShield(source, target *Combatant, amount int) {
	if target == nil || target.IsDead() {
		return
	}
	if amount < 1 {
		amount = 1
	}
	e.shields[target.ID] += amount
	if source != nil {
		e.stats[source.ID].ShieldsApplied += amount
	}
}

// addBuff applies inst to target through the ledger and emits buff-add with
// the post-application stack count. Unknown buff IDs are skipped.
func (e *Engine) addBuff(source, target *Combatant, buffID string, inst buff.Instance) {
	if target == nil || target.IsDead() {
		return
	}
	def, ok := e.buffs.Get(buffID)
	if !ok {
		e.logger.Warn("unknown buff skipped",
			zap.String("target", target.ID),
			zap.String("buff", buffID),
		)
		return
	}
	if source != nil {
		inst.SourceID = source.ID
	}
	stacks, err := e.ledger.Of(target.ID).Apply(def, inst)
	if err != nil {
		e.logger.Warn("buff application rejected",
			zap.String("target", target.ID),
			zap.String("buff", buffID),
			zap.Error(err),
		)
		return
	}

	ev := Event{
		Type:     EventBuffAdd,
		Round:    e.round,
		TargetID: target.ID,
		BuffID:   buffID,
		Stacks:   stacks,
	}
	if source != nil {
		ev.SourceID = source.ID
	}
	e.emit(ev)
}

// removeBuff removes buffID from target and emits buff-remove when it was
// present.
func (e *Engine) removeBuff(target *Combatant, buffID string) {
	if target == nil {
		return
	}
	if e.ledger.Of(target.ID).Remove(buffID) {
		e.emit(Event{Type: EventBuffRemove, Round: e.round, TargetID: target.ID, BuffID: buffID})
	}
}

package battle

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/buff"
	"github.com/cory-johannsen/arena/internal/game/rules"
)

// performAction resolves one actor's turn: attempt a skill cast, and fall
// back to a basic attack when no skill is castable or the cast resolves zero
// targets.
func (e *Engine) performAction(actor *Combatant) {
	if skillID, def := e.pickSkill(actor); def != nil {
		if e.castSkill(actor, skillID, def) {
			return
		}
	}
	e.basicAttack(actor)
}

// pickSkill walks the actor's skill list in order and returns the first skill
// that is known, active, off cooldown, and whose archetype precondition
// holds. Returns ("", nil) when nothing is castable.
func (e *Engine) pickSkill(actor *Combatant) (string, *rules.SkillDef) {
	for _, skillID := range actor.SkillIDs {
		def, ok := e.skills.Get(skillID)
		if !ok {
			// Unknown ids in a roster are treated as "no skill available".
			continue
		}
		if def.Kind != rules.KindActive {
			continue
		}
		if e.cooldowns[cooldownKey{actor.ID, skillID}] > 0 {
			continue
		}
		if !e.skillPrecondition(actor, def) {
			continue
		}
		return skillID, def
	}
	return "", nil
}

// skillPrecondition evaluates the archetype-specific cast gate:
//   - support needs an injured living ally
//   - tank must not already hold taunt (prevents redundant re-casts)
//   - assassin needs a living enemy at or below the skill's execute threshold
//   - warrior and mage need at least 2 living enemies (AOE value gate)
//
// Other archetypes have no precondition.
func (e *Engine) skillPrecondition(actor *Combatant, def *rules.SkillDef) bool {
	switch actor.Class {
	case ClassSupport:
		return HealTarget(e.allies(actor)) != nil
	case ClassTank:
		return !e.ledger.Of(actor.ID).Has(rules.BuffTaunt)
	case ClassAssassin:
		for _, enemy := range living(e.enemies(actor)) {
			if enemy.HPFraction() <= def.Params.ExecuteThreshold {
				return true
			}
		}
		return false
	case ClassWarrior, ClassMage:
		return len(living(e.enemies(actor))) >= 2
	default:
		return true
	}
}

// castSkill resolves the skill's target mode and applies its effect to each
// resolved target. A cast that resolves zero targets is abandoned without
// consuming the cooldown and reports false so the caller falls back to a
// basic attack.
func (e *Engine) castSkill(actor *Combatant, skillID string, def *rules.SkillDef) bool {
	targets := e.resolveTargets(actor, def)
	if len(targets) == 0 {
		return false
	}

	e.cooldowns[cooldownKey{actor.ID, skillID}] = def.Cooldown
	e.stats[actor.ID].recordCast(skillID)
	e.logger.Debug("skill cast",
		zap.String("actor", actor.ID),
		zap.String("skill", skillID),
		zap.Int("targets", len(targets)),
	)

	for _, target := range targets {
		e.applyEffect(actor, def, target)
	}
	return true
}

// resolveTargets maps the skill's declared target mode onto the targeting
// policy.
func (e *Engine) resolveTargets(actor *Combatant, def *rules.SkillDef) []*Combatant {
	switch def.Target {
	case rules.TargetSelf:
		return []*Combatant{actor}
	case rules.TargetAllySingle:
		if target := HealTarget(e.allies(actor)); target != nil {
			return []*Combatant{target}
		}
		return nil
	case rules.TargetEnemySingle:
		if target := BasicAttackTarget(actor, e.enemies(actor), e.ledger); target != nil {
			return []*Combatant{target}
		}
		return nil
	case rules.TargetEnemyAOE:
		return AOETargets(actor, e.enemies(actor), e.ledger, def.Params.MaxTargets)
	default:
		return nil
	}
}

// applyEffect applies one skill effect to one resolved target using the
// configured numeric rules.
func (e *Engine) applyEffect(actor *Combatant, def *rules.SkillDef, target *Combatant) {
	switch def.Effect {
	case rules.EffectDamage:
		ratio := def.Params.Ratio
		if def.Params.ExecuteThreshold > 0 && target.HPFraction() <= def.Params.ExecuteThreshold {
			ratio *= def.Params.ExecuteMultiplier
		}
		e.dealDamage(actor, target, int(float64(actor.Attack)*ratio))

	case rules.EffectHeal:
		e.heal(actor, target, int(float64(target.MaxHP)*def.Params.Ratio))

	case rules.EffectShield:
		e.applyShield(actor, target, int(float64(target.MaxHP)*def.Params.Ratio))

	case rules.EffectApplyBuff:
		duration := def.Params.Duration
		if duration == 0 {
			if bdef, ok := e.buffs.Get(def.Params.BuffID); ok {
				duration = bdef.DurationRounds
			}
		}
		expires := 0
		if duration > 0 {
			expires = e.round + duration
		}
		e.addBuff(actor, target, def.Params.BuffID, buff.Instance{Stacks: 1, ExpiresRound: expires})
		if def.Params.ShieldRatio > 0 {
			e.applyShield(actor, target, int(float64(target.MaxHP)*def.Params.ShieldRatio))
		}

	case rules.EffectApplyDOT:
		// The +1 keeps the payload ticking for Duration round-starts: expiry
		// runs before the tick pass, so an instance expiring at round R never
		// ticks in round R.
		e.addBuff(actor, target, def.Params.BuffID, buff.Instance{
			Stacks:         1,
			ExpiresRound:   e.round + def.Params.Duration + 1,
			DamagePerRound: int(float64(actor.Attack) * def.Params.Ratio),
		})
	}
}

// basicAttack deals floor(attack × variance) damage, minimum 1, to the
// policy-selected target. The variance is drawn uniformly over the
// configured range in basis-point steps so the draw stays deterministic
// integer arithmetic.
func (e *Engine) basicAttack(actor *Combatant) {
	target := BasicAttackTarget(actor, e.enemies(actor), e.ledger)
	if target == nil {
		return
	}
	bp := e.varianceMinBP
	if spread := e.varianceMaxBP - e.varianceMinBP; spread > 0 {
		bp += e.src.Intn(spread + 1)
	}
	e.dealDamage(actor, target, actor.Attack*bp/varianceScale)
}

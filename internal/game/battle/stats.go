package battle

// UnitStats accumulates one combatant's totals across a battle, for
// end-of-battle reporting. It is updated alongside every mutating effect and
// exposed read-only through Engine.Report.
type UnitStats struct {
	CombatantID string
	Name        string
	Side        Side

	DamageDealt    int
	DamageTaken    int
	HealingDone    int
	ShieldsApplied int
	Kills          int
	SkillCasts     int
	CastsBySkill   map[string]int
}

func newUnitStats(c *Combatant) *UnitStats {
	return &UnitStats{
		CombatantID:  c.ID,
		Name:         c.Name,
		Side:         c.Side,
		CastsBySkill: make(map[string]int),
	}
}

// recordCast notes one cast of the given skill.
func (s *UnitStats) recordCast(skillID string) {
	s.SkillCasts++
	s.CastsBySkill[skillID]++
}

// snapshot returns a deep copy safe to hand to callers.
func (s *UnitStats) snapshot() UnitStats {
	cp := *s
	cp.CastsBySkill = make(map[string]int, len(s.CastsBySkill))
	for k, v := range s.CastsBySkill {
		cp.CastsBySkill[k] = v
	}
	return cp
}

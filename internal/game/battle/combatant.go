// Package battle implements the deterministic, event-sourced combat resolver
// for the arena. It consumes two rosters of combatants plus the skill/buff
// rule tables and produces an ordered log of discrete combat events; it knows
// nothing about how those events are rendered.
package battle

// Side identifies which roster a combatant fights for.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Winner is the terminal outcome of a battle.
type Winner string

const (
	WinnerA    Winner = "A"
	WinnerB    Winner = "B"
	WinnerDraw Winner = "Draw"
)

// Archetype drives targeting and skill-selection heuristics. Unrecognised
// values fall through to the default heuristics.
type Archetype string

const (
	ClassTank     Archetype = "tank"
	ClassSupport  Archetype = "support"
	ClassAssassin Archetype = "assassin"
	ClassWarrior  Archetype = "warrior"
	ClassMage     Archetype = "mage"
)

// Combatant represents one participant in a battle. The engine owns its copy
// exclusively for the battle's lifetime; callers keep their snapshots.
type Combatant struct {
	// ID uniquely identifies the combatant within the battle. If left empty
	// in the setup, the engine assigns a UUID during Init.
	ID   string
	Name string
	Side Side
	// HeroID is the originating hero, for reporting only.
	HeroID string
	Class  Archetype

	CurrentHP int
	MaxHP     int
	Attack    int
	Speed     int

	// Slot is the roster index; slots 0 and 1 are the frontline.
	Slot int

	SkillIDs       []string
	InitialBuffIDs []string
}

// IsDead reports whether the combatant is out of the battle.
//
// Postcondition: Returns true iff CurrentHP <= 0.
func (c *Combatant) IsDead() bool { return c.CurrentHP <= 0 }

// HPFraction returns CurrentHP / MaxHP, or 0 when MaxHP is not positive.
//
// Postcondition: Returns a value in [0, 1] for well-formed combatants.
func (c *Combatant) HPFraction() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.CurrentHP) / float64(c.MaxHP)
}

// ApplyDamage reduces CurrentHP by amount, flooring at zero, and returns the
// HP actually lost.
//
// Precondition: amount must be >= 0.
// Postcondition: CurrentHP >= 0; returned loss is in [0, amount].
func (c *Combatant) ApplyDamage(amount int) int {
	prev := c.CurrentHP
	c.CurrentHP -= amount
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
	return prev - c.CurrentHP
}

// ApplyHealing raises CurrentHP by amount, clamped to MaxHP, and returns the
// HP actually gained.
//
// Precondition: amount must be >= 0.
// Postcondition: CurrentHP <= MaxHP; returned gain is in [0, amount].
func (c *Combatant) ApplyHealing(amount int) int {
	prev := c.CurrentHP
	c.CurrentHP += amount
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
	return c.CurrentHP - prev
}

// clone returns a deep copy of the combatant with the given side and slot.
func (c *Combatant) clone(side Side, slot int) *Combatant {
	cp := *c
	cp.Side = side
	cp.Slot = slot
	cp.SkillIDs = append([]string(nil), c.SkillIDs...)
	cp.InitialBuffIDs = append([]string(nil), c.InitialBuffIDs...)
	return &cp
}

// Setup is the immutable input to a battle: two ordered rosters and an
// optional RNG seed. The engine deep-copies the rosters on Init, so mutating
// a Setup after Init cannot affect a running battle.
type Setup struct {
	TeamA []Combatant
	TeamB []Combatant
	// Seed, when non-zero, replaces the engine's randomness source with a
	// deterministic source seeded with this value.
	Seed uint64
}

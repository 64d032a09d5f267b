package battle

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/buff"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/rules"
)

// DefaultMaxRounds is the safety cap: a battle unresolved after this many
// rounds is forced to a Draw.
const DefaultMaxRounds = 30

// Default basic-attack damage variance bounds.
const (
	DefaultVarianceMin = 0.85
	DefaultVarianceMax = 1.15
)

// varianceScale converts variance ratios to basis points so the variance draw
// stays in integer arithmetic.
const varianceScale = 10000

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMaxRounds overrides the forced-draw round cap.
//
// Precondition: n must be >= 1.
func WithMaxRounds(n int) Option {
	return func(e *Engine) { e.maxRounds = n }
}

// WithVariance overrides the basic-attack damage variance range.
//
// Precondition: 0 <= min <= max.
func WithVariance(min, max float64) Option {
	return func(e *Engine) {
		e.varianceMinBP = int(min * varianceScale)
		e.varianceMaxBP = int(max * varianceScale)
	}
}

// WithEventSink registers a callback invoked synchronously for every emitted
// event, in emission order. The sink must not call back into the engine.
func WithEventSink(sink func(Event)) Option {
	return func(e *Engine) { e.sink = sink }
}

// cooldownKey identifies one combatant's cooldown for one skill.
type cooldownKey struct {
	combatantID string
	skillID     string
}

// Engine is the turn scheduler and the sole writer of combat state. It is
// not safe for concurrent use; a battle runs strictly sequentially.
type Engine struct {
	skills *rules.SkillRegistry
	buffs  *rules.BuffRegistry
	src    dice.Source
	logger *zap.Logger
	sink   func(Event)

	maxRounds     int
	varianceMinBP int
	varianceMaxBP int

	combatants []*Combatant
	byID       map[string]*Combatant
	shields    map[string]int
	cooldowns  map[cooldownKey]int
	ledger     *buff.Ledger
	stats      map[string]*UnitStats

	events []Event
	round  int
	over   bool
	winner Winner
}

// New creates an Engine bound to the given rule tables and randomness source.
//
// Precondition: skills, buffs, and src must be non-nil.
// Postcondition: Returns a non-nil Engine; Init must be called before Step.
func New(skills *rules.SkillRegistry, buffs *rules.BuffRegistry, src dice.Source, opts ...Option) *Engine {
	if skills == nil {
		panic("battle: New requires a non-nil skill registry")
	}
	if buffs == nil {
		panic("battle: New requires a non-nil buff registry")
	}
	if src == nil {
		panic("battle: New requires a non-nil dice source")
	}
	e := &Engine{
		skills:        skills,
		buffs:         buffs,
		src:           src,
		logger:        zap.NewNop(),
		maxRounds:     DefaultMaxRounds,
		varianceMinBP: int(DefaultVarianceMin * varianceScale),
		varianceMaxBP: int(DefaultVarianceMax * varianceScale),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init resets all battle state, deep-copies the rosters, builds per-unit
// stats, applies initial buffs, and emits battle-start. When the setup names
// a non-zero seed, the engine's randomness source is replaced with a seeded
// deterministic source.
//
// Precondition: combatant IDs in the setup must be unique (blank IDs are
// assigned UUIDs and are always unique).
// Postcondition: Round() == 0; the event log starts with battle-start; an
// empty side resolves the battle immediately.
func (e *Engine) Init(setup Setup) error {
	e.combatants = nil
	e.byID = make(map[string]*Combatant)
	e.shields = make(map[string]int)
	e.cooldowns = make(map[cooldownKey]int)
	e.ledger = buff.NewLedger()
	e.stats = make(map[string]*UnitStats)
	e.events = nil
	e.round = 0
	e.over = false
	e.winner = ""

	if setup.Seed != 0 {
		e.src = dice.NewSeededSource(setup.Seed)
	}

	for i := range setup.TeamA {
		if err := e.enroll(&setup.TeamA[i], SideA, i); err != nil {
			return err
		}
	}
	for i := range setup.TeamB {
		if err := e.enroll(&setup.TeamB[i], SideB, i); err != nil {
			return err
		}
	}

	e.emit(Event{
		Type:  EventBattleStart,
		TeamA: e.teamSnapshots(SideA),
		TeamB: e.teamSnapshots(SideB),
	})

	for _, c := range e.combatants {
		for _, buffID := range c.InitialBuffIDs {
			def, ok := e.buffs.Get(buffID)
			if !ok {
				e.logger.Warn("unknown initial buff skipped",
					zap.String("combatant", c.ID),
					zap.String("buff", buffID),
				)
				continue
			}
			expires := 0
			if def.DurationRounds > 0 {
				expires = def.DurationRounds
			}
			e.addBuff(nil, c, def.ID, buff.Instance{Stacks: 1, ExpiresRound: expires})
		}
	}
	e.logger.Debug("battle initialised",
		zap.Int("team_a", len(setup.TeamA)),
		zap.Int("team_b", len(setup.TeamB)),
	)

	// An empty or already-dead side resolves without a single round.
	e.checkEnd()
	return nil
}

// enroll clones one roster snapshot into the battle.
func (e *Engine) enroll(snap *Combatant, side Side, slot int) error {
	c := snap.clone(side, slot)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := e.byID[c.ID]; exists {
		return fmt.Errorf("duplicate combatant id %q in setup", c.ID)
	}
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
	e.combatants = append(e.combatants, c)
	e.byID[c.ID] = c
	e.stats[c.ID] = newUnitStats(c)
	return nil
}

// Step advances the battle by exactly one round. It is a no-op once the
// battle is over.
func (e *Engine) Step() {
	e.stepWithCap(e.maxRounds)
}

// RunToEnd repeatedly steps until the battle resolves, forcing a Draw at the
// round cap. maxRounds <= 0 uses the engine's configured cap.
//
// Postcondition: IsOver() is true; Round() never exceeds the cap.
func (e *Engine) RunToEnd(maxRounds int) {
	limit := maxRounds
	if limit <= 0 {
		limit = e.maxRounds
	}
	for !e.over {
		e.stepWithCap(limit)
	}
}

func (e *Engine) stepWithCap(limit int) {
	if e.over {
		return
	}

	e.round++
	e.emit(Event{Type: EventRoundStart, Round: e.round})
	e.logger.Debug("round start", zap.Int("round", e.round))

	e.expireBuffs()
	e.tickDOTs()
	e.checkEnd()
	e.decayCooldowns()

	if !e.over {
		for _, actor := range e.actingOrder() {
			if e.over {
				break
			}
			// Earlier actions or DOT ticks this round may have killed it.
			if actor.IsDead() {
				continue
			}
			e.emit(Event{Type: EventActorTurn, Round: e.round, ActorID: actor.ID})
			e.performAction(actor)
			e.checkEnd()
		}
	}

	if !e.over && e.round >= limit {
		e.over = true
		e.winner = WinnerDraw
		e.emit(Event{Type: EventBattleEnd, Round: e.round, Winner: e.winner})
		e.logger.Debug("battle forced to draw at round cap", zap.Int("round", e.round))
	}
}

// expireBuffs removes every instance whose expiry round has been reached,
// emitting buff-remove per removal. Combatants are visited in roster order so
// the event order is deterministic.
func (e *Engine) expireBuffs() {
	for _, c := range e.combatants {
		for _, buffID := range e.ledger.Of(c.ID).ExpireForRound(e.round) {
			e.emit(Event{Type: EventBuffRemove, Round: e.round, TargetID: c.ID, BuffID: buffID})
		}
	}
}

// tickDOTs applies damage-over-time payloads for every living combatant, in
// acting order, attributing each tick to the buff's original source. End
// conditions are evaluated only after the full pass: when the last units on
// both sides burn down in the same pass the battle is a Draw, regardless of
// which tick landed first.
func (e *Engine) tickDOTs() {
	for _, c := range e.actingOrder() {
		if c.IsDead() {
			continue
		}
		for _, inst := range e.ledger.Of(c.ID).All() {
			if inst.DamagePerRound <= 0 {
				continue
			}
			source := e.byID[inst.SourceID]
			e.dealDamage(source, c, inst.DamagePerRound*inst.Stacks)
			if c.IsDead() {
				break
			}
		}
	}
}

// decayCooldowns decrements every cooldown by 1, flooring at 0.
func (e *Engine) decayCooldowns() {
	for key, remaining := range e.cooldowns {
		if remaining > 0 {
			e.cooldowns[key] = remaining - 1
		}
	}
}

// actingOrder returns all living combatants from both sides sorted by
// descending speed, ties broken by ascending ID.
func (e *Engine) actingOrder() []*Combatant {
	order := living(e.combatants)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Speed != order[j].Speed {
			return order[i].Speed > order[j].Speed
		}
		return order[i].ID < order[j].ID
	})
	return order
}

// checkEnd resolves the battle when either side has no living members. Both
// sides empty is a Draw.
func (e *Engine) checkEnd() {
	if e.over {
		return
	}
	aliveA, aliveB := 0, 0
	for _, c := range e.combatants {
		if c.IsDead() {
			continue
		}
		if c.Side == SideA {
			aliveA++
		} else {
			aliveB++
		}
	}
	switch {
	case aliveA > 0 && aliveB > 0:
		return
	case aliveA > 0:
		e.winner = WinnerA
	case aliveB > 0:
		e.winner = WinnerB
	default:
		e.winner = WinnerDraw
	}
	e.over = true
	e.emit(Event{Type: EventBattleEnd, Round: e.round, Winner: e.winner})
	e.logger.Debug("battle over",
		zap.Int("round", e.round),
		zap.String("winner", string(e.winner)),
	)
}

// IsOver reports whether the battle has reached a terminal outcome.
func (e *Engine) IsOver() bool { return e.over }

// Round returns the current round number, starting at 0 before the first
// Step.
func (e *Engine) Round() int { return e.round }

// Winner returns the terminal outcome, or "" while the battle is running.
func (e *Engine) Winner() Winner { return e.winner }

// Events returns a copy of the full event log in emission order.
func (e *Engine) Events() []Event {
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// Report returns per-unit stat snapshots in roster order (team A first).
func (e *Engine) Report() []UnitStats {
	out := make([]UnitStats, 0, len(e.combatants))
	for _, c := range e.combatants {
		out = append(out, e.stats[c.ID].snapshot())
	}
	return out
}

// Shield returns the current absorption pool for the given combatant.
func (e *Engine) Shield(combatantID string) int { return e.shields[combatantID] }

// Combatant returns the engine's live view of the given combatant, or
// (nil, false) if unknown. Callers must treat the result as read-only.
func (e *Engine) Combatant(id string) (*Combatant, bool) {
	c, ok := e.byID[id]
	return c, ok
}

// teamSnapshots returns snapshots of one side in roster order.
func (e *Engine) teamSnapshots(side Side) []Snapshot {
	var out []Snapshot
	for _, c := range e.combatants {
		if c.Side == side {
			out = append(out, snapshotOf(c))
		}
	}
	return out
}

// emit appends ev to the log and forwards it to the sink, if any.
func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
	if e.sink != nil {
		e.sink(ev)
	}
}

// allies returns the actor's living-or-dead teammates including itself, in
// roster order.
func (e *Engine) allies(actor *Combatant) []*Combatant {
	return e.sideRoster(actor.Side)
}

// enemies returns the opposing roster in roster order.
func (e *Engine) enemies(actor *Combatant) []*Combatant {
	if actor.Side == SideA {
		return e.sideRoster(SideB)
	}
	return e.sideRoster(SideA)
}

func (e *Engine) sideRoster(side Side) []*Combatant {
	var out []*Combatant
	for _, c := range e.combatants {
		if c.Side == side {
			out = append(out, c)
		}
	}
	return out
}

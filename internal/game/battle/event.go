package battle

// EventType tags one entry in the battle event log.
type EventType string

const (
	EventBattleStart EventType = "battle-start"
	EventRoundStart  EventType = "round-start"
	EventActorTurn   EventType = "actor-turn"
	EventDamage      EventType = "damage"
	EventHeal        EventType = "heal"
	EventBuffAdd     EventType = "buff-add"
	EventBuffRemove  EventType = "buff-remove"
	EventDead        EventType = "dead"
	EventBattleEnd   EventType = "battle-end"
)

// Snapshot is a point-in-time view of one combatant, carried by the
// battle-start event so consumers can seed their presentation state.
type Snapshot struct {
	ID        string
	Name      string
	Side      Side
	HeroID    string
	Class     Archetype
	CurrentHP int
	MaxHP     int
	Attack    int
	Speed     int
}

// Event is one entry in the append-only battle log. Which fields are
// meaningful depends on Type; unused fields hold zero values.
type Event struct {
	Type  EventType
	Round int

	// ActorID is set on actor-turn events.
	ActorID string
	// SourceID/TargetID are set on damage, heal, buff-add; TargetID alone on
	// buff-remove and dead.
	SourceID string
	TargetID string
	// Amount is the HP delta actually applied for damage/heal.
	Amount int
	// HP/MaxHP are the target's resulting values for damage/heal.
	HP    int
	MaxHP int
	// BuffID/Stacks are set on buff-add (post-application stack count) and
	// buff-remove (BuffID only).
	BuffID string
	Stacks int

	// Winner is set on battle-end.
	Winner Winner
	// TeamA/TeamB are set on battle-start.
	TeamA []Snapshot
	TeamB []Snapshot
}

func snapshotOf(c *Combatant) Snapshot {
	return Snapshot{
		ID:        c.ID,
		Name:      c.Name,
		Side:      c.Side,
		HeroID:    c.HeroID,
		Class:     c.Class,
		CurrentHP: c.CurrentHP,
		MaxHP:     c.MaxHP,
		Attack:    c.Attack,
		Speed:     c.Speed,
	}
}

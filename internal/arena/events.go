package arena

import (
	"fmt"

	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
)

type EventKind string

const (
	EventMagicEffect      EventKind = "effect"
	EventDistanceEffect   EventKind = "distance"
	EventSound            EventKind = "sound"
	EventHealth           EventKind = "health"
	EventBlocked          EventKind = "blocked"
	EventConditionAdded   EventKind = "condition+"
	EventConditionRemoved EventKind = "condition-"
	EventInFight          EventKind = "infight"
	EventItemAdded        EventKind = "item+"
	EventItemRemoved      EventKind = "item-"
	EventMove             EventKind = "move"
)

//Event is one observable thing that happened in the world
type Event struct {
	Kind      EventKind
	Source    uint32
	Target    uint32
	Pos       combat.Position
	To        combat.Position
	ID        uint16 //effect or sound id
	Item      uint16
	Value     float64
	Condition combat.ConditionType
	Observers int
}

func (e Event) String() string {
	switch e.Kind {
	case EventMagicEffect, EventSound:
		return fmt.Sprintf("%v %v at %v (%v observers)", e.Kind, e.ID, e.Pos, e.Observers)
	case EventDistanceEffect:
		return fmt.Sprintf("%v %v %v -> %v (%v observers)", e.Kind, e.ID, e.Pos, e.To, e.Observers)
	case EventHealth, EventBlocked:
		return fmt.Sprintf("%v %v -> %v: %.2f", e.Kind, e.Source, e.Target, e.Value)
	case EventConditionAdded, EventConditionRemoved:
		return fmt.Sprintf("%v %v on %v (owner %v)", e.Kind, e.Condition, e.Target, e.Source)
	case EventItemAdded, EventItemRemoved:
		return fmt.Sprintf("%v %v at %v", e.Kind, e.Item, e.Pos)
	}
	return fmt.Sprintf("%v %v at %v", e.Kind, e.Target, e.Pos)
}

func (w *World) record(e Event) {
	w.Events = append(w.Events, e)
	w.Log.Debugw("event", "e", e.String())
}

//Filter returns the recorded events of kind k
func (w *World) Filter(k EventKind) []Event {
	var r []Event
	for _, e := range w.Events {
		if e.Kind == k {
			r = append(r, e)
		}
	}
	return r
}

//Reset clears the event log
func (w *World) Reset() {
	w.Events = w.Events[:0]
}

func id(c combat.Creature) uint32 {
	if c == nil {
		return 0
	}
	return c.ID()
}

func players(spectators []combat.Creature) int {
	n := 0
	for _, c := range spectators {
		if c.Kind() == combat.KindPlayer {
			n++
		}
	}
	return n
}

func (w *World) MagicEffect(spectators []combat.Creature, pos combat.Position, effect combat.MagicEffect) {
	w.record(Event{Kind: EventMagicEffect, Pos: pos, ID: uint16(effect), Observers: players(spectators)})
}

func (w *World) DistanceEffect(spectators []combat.Creature, from, to combat.Position, effect combat.DistanceEffect) {
	w.record(Event{Kind: EventDistanceEffect, Pos: from, To: to, ID: uint16(effect), Observers: players(spectators)})
}

func (w *World) Sound(spectators []combat.Creature, pos combat.Position, sound combat.SoundEffect) {
	w.record(Event{Kind: EventSound, Pos: pos, ID: uint16(sound), Observers: players(spectators)})
}

//ApplyHealthDelta changes health, blocking every hit on a shielded target
func (w *World) ApplyHealthDelta(caster, target combat.Creature, d combat.CombatDamage) bool {
	t, ok := target.(*Creature)
	if !ok {
		return true
	}
	if d.Value < 0 && t.Shielded {
		w.record(Event{Kind: EventBlocked, Source: id(caster), Target: t.id, Value: d.Value})
		return true
	}
	t.Health += d.Value
	if t.Health < 0 {
		t.Health = 0
	}
	if t.MaxHealth > 0 && t.Health > t.MaxHealth {
		t.Health = t.MaxHealth
	}
	if d.Value < 0 && caster != nil {
		t.MarkAttackedBy(caster.ID())
	}
	w.record(Event{Kind: EventHealth, Source: id(caster), Target: t.id, Value: d.Value})
	return false
}

//AddCondition replaces an active condition of the same kind
func (w *World) AddCondition(target combat.Creature, c *combat.Condition) bool {
	t, ok := target.(*Creature)
	if !ok || c == nil {
		return false
	}
	for i, v := range t.Conditions {
		if v.Type == c.Type {
			t.Conditions = append(t.Conditions[:i], t.Conditions[i+1:]...)
			break
		}
	}
	t.Conditions = append(t.Conditions, c)
	w.record(Event{Kind: EventConditionAdded, Source: c.Owner, Target: t.id, Condition: c.Type})
	return true
}

//RemoveCondition drops conditions of kind k; with combatOnly set only those
//that came from a combat or field
func (w *World) RemoveCondition(target combat.Creature, k combat.ConditionType, combatOnly bool) {
	t, ok := target.(*Creature)
	if !ok {
		return
	}
	next := t.Conditions[:0]
	for _, v := range t.Conditions {
		if v.Type&k != 0 && (!combatOnly || v.Origin != combat.OriginNone) {
			w.record(Event{Kind: EventConditionRemoved, Target: t.id, Condition: v.Type})
			continue
		}
		next = append(next, v)
	}
	t.Conditions = next
}

func (w *World) AddInFight(player combat.Creature) {
	w.AddCondition(player, &combat.Condition{Type: combat.ConditionInFight, Ticks: 1})
	w.record(Event{Kind: EventInFight, Target: id(player)})
}

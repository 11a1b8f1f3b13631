//Package arena is a small in memory world: tiles, creatures, items and an
//event log. It backs the command line simulator and the engine tests.
package arena

import (
	"fmt"
	"time"

	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
	"go.uber.org/zap"
)

type Tile struct {
	pos       combat.Position
	zone      combat.ZoneType
	flags     combat.TileFlag
	creatures []*Creature //top first
	items     []*Item
}

func (t *Tile) Position() combat.Position { return t.pos }
func (t *Tile) Zone() combat.ZoneType     { return t.zone }

func (t *Tile) HasFlag(f combat.TileFlag) bool {
	return t.flags&f != 0
}

func (t *Tile) Creatures() []combat.Creature {
	r := make([]combat.Creature, 0, len(t.creatures))
	for _, c := range t.creatures {
		r = append(r, c)
	}
	return r
}

func (t *Tile) TopCreature() combat.Creature {
	if len(t.creatures) == 0 {
		return nil
	}
	return t.creatures[0]
}

//Items returns the items on the tile, oldest first
func (t *Tile) Items() []*Item {
	return t.items
}

func (t *Tile) removeCreature(c *Creature) {
	for i, v := range t.creatures {
		if v == c {
			t.creatures = append(t.creatures[:i], t.creatures[i+1:]...)
			return
		}
	}
}

//World implements every collaborator the combat engine consumes
type World struct {
	Log *zap.SugaredLogger
	Now func() time.Time

	Type      combat.WorldType
	ItemTypes map[uint16]ItemType
	Events    []Event

	//OnStep is called for every field on a tile a creature moves onto
	OnStep func(f combat.Field, c combat.Creature)

	tiles     map[combat.Position]*Tile
	creatures map[uint32]*Creature
	order     []uint32
}

func New(log *zap.SugaredLogger) *World {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &World{
		Log:       log,
		Now:       time.Now,
		ItemTypes: DefaultItemTypes(),
		tiles:     make(map[combat.Position]*Tile),
		creatures: make(map[uint32]*Creature),
	}
}

func (w *World) tile(p combat.Position) *Tile {
	t, ok := w.tiles[p]
	if !ok {
		t = &Tile{pos: p}
		w.tiles[p] = t
	}
	return t
}

func (w *World) Tile(p combat.Position) combat.Tile {
	return w.tile(p)
}

//SetTile configures the zone and flags of the tile at p
func (w *World) SetTile(p combat.Position, zone combat.ZoneType, flags combat.TileFlag) *Tile {
	t := w.tile(p)
	t.zone = zone
	t.flags = flags
	return t
}

func (w *World) Creature(id uint32) combat.Creature {
	c, ok := w.creatures[id]
	if !ok {
		return nil
	}
	return c
}

//Get returns the concrete creature
func (w *World) Get(id uint32) *Creature {
	return w.creatures[id]
}

func (w *World) WorldType() combat.WorldType { return w.Type }

//IDs lists creature ids in the order they were added
func (w *World) IDs() []uint32 {
	return append([]uint32(nil), w.order...)
}

//CreatureSpec describes a creature to add
type CreatureSpec struct {
	ID         uint32
	Name       string
	Kind       combat.Kind
	Master     uint32
	Pos        combat.Position
	Level      int
	Stats      combat.Stats
	Types      [2]combat.DamageType
	Flags      combat.PlayerFlag
	Immune     combat.ConditionType
	Protected  bool
	Health     float64
	Riding     bool
	Secure     bool
	Marked     bool
	AttackedBy []uint32
}

//Add places a new creature on top of its tile
func (w *World) Add(s CreatureSpec) (*Creature, error) {
	if _, dup := w.creatures[s.ID]; dup || s.ID == 0 {
		return nil, fmt.Errorf("invalid or duplicated creature id %v", s.ID)
	}
	c := &Creature{
		id:        s.ID,
		name:      s.Name,
		kind:      s.Kind,
		pos:       s.Pos,
		world:     w,
		level:     s.Level,
		stats:     s.Stats,
		types:     s.Types,
		flags:     s.Flags,
		immune:    s.Immune,
		protected: s.Protected,
		Health:    s.Health,
		MaxHealth: s.Health,
		Riding:    s.Riding,
		Secure:    s.Secure,
		Marked:    s.Marked,
	}
	if s.Master != 0 {
		m, ok := w.creatures[s.Master]
		if !ok {
			return nil, fmt.Errorf("creature %v: unknown master %v", s.ID, s.Master)
		}
		c.master = m
	}
	for _, id := range s.AttackedBy {
		c.MarkAttackedBy(id)
	}
	w.creatures[c.id] = c
	w.order = append(w.order, c.id)
	t := w.tile(c.pos)
	t.creatures = append([]*Creature{c}, t.creatures...)
	return c, nil
}

//Move puts c on top of the tile at p and steps it into every field there
func (w *World) Move(c *Creature, p combat.Position) {
	w.tile(c.pos).removeCreature(c)
	c.pos = p
	t := w.tile(p)
	t.creatures = append([]*Creature{c}, t.creatures...)
	w.record(Event{Kind: EventMove, Target: c.id, Pos: p})

	if w.OnStep == nil {
		return
	}
	//copy, stepping in may remove items
	items := append([]*Item(nil), t.items...)
	for _, it := range items {
		w.OnStep(it, c)
	}
}

//Spectators returns the creatures on the floor of center within range
func (w *World) Spectators(center combat.Position, rangeX, rangeY int) []combat.Creature {
	var r []combat.Creature
	for _, id := range w.order {
		c := w.creatures[id]
		if c.pos.Z != center.Z {
			continue
		}
		if abs(c.pos.X-center.X) <= rangeX && abs(c.pos.Y-center.Y) <= rangeY {
			r = append(r, c)
		}
	}
	return r
}

//IsSightClear walks the line between from and to; any tile in between that
//blocks projectiles blocks sight
func (w *World) IsSightClear(from, to combat.Position, sameFloor bool) bool {
	if from.Z != to.Z {
		return !sameFloor
	}
	for _, p := range line(from, to) {
		if p == from || p == to {
			continue
		}
		if t, ok := w.tiles[p]; ok && t.HasFlag(combat.TileBlockProjectile) {
			return false
		}
	}
	return true
}

func line(from, to combat.Position) []combat.Position {
	x0, y0, x1, y1 := from.X, from.Y, to.X, to.Y
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	var r []combat.Position
	for {
		r = append(r, combat.Position{X: x0, Y: y0, Z: from.Z})
		if x0 == x1 && y0 == y1 {
			return r
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

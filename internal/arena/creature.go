package arena

import "github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"

//Creature is an in memory creature
type Creature struct {
	id     uint32
	name   string
	kind   combat.Kind
	master *Creature
	pos    combat.Position
	world  *World

	level     int
	stats     combat.Stats
	types     [2]combat.DamageType
	flags     combat.PlayerFlag
	immune    combat.ConditionType
	protected bool //cannot be attacked at all

	Health     float64
	MaxHealth  float64
	Shielded   bool //every hit is blocked
	Ghost      bool
	Riding     bool
	Secure     bool
	Marked     bool
	Conditions []*combat.Condition

	attackedBy map[uint32]bool
}

func (c *Creature) ID() uint32        { return c.id }
func (c *Creature) Name() string      { return c.name }
func (c *Creature) Kind() combat.Kind { return c.kind }

func (c *Creature) Master() combat.Creature {
	if c.master == nil {
		return nil
	}
	return c.master
}

func (c *Creature) Position() combat.Position { return c.pos }

func (c *Creature) Tile() combat.Tile {
	return c.world.tile(c.pos)
}

func (c *Creature) Zone() combat.ZoneType {
	return c.world.tile(c.pos).zone
}

func (c *Creature) Level() int                  { return c.level }
func (c *Creature) Stats() combat.Stats         { return c.stats }
func (c *Creature) Types() [2]combat.DamageType { return c.types }

func (c *Creature) HasFlag(f combat.PlayerFlag) bool {
	return c.kind == combat.KindPlayer && c.flags&f != 0
}

func (c *Creature) IsAttackable() bool  { return !c.protected }
func (c *Creature) IsInGhostMode() bool { return c.Ghost }

func (c *Creature) IsImmune(t combat.ConditionType) bool {
	return c.immune&t != 0
}

func (c *Creature) IsRidingProtected() bool { return c.kind == combat.KindPlayer && c.Riding }
func (c *Creature) SecureMode() bool        { return c.kind == combat.KindPlayer && c.Secure }
func (c *Creature) IsMarked() bool          { return c.kind == combat.KindPlayer && c.Marked }

func (c *Creature) HasBeenAttacked(id uint32) bool {
	return c.attackedBy[id]
}

//MarkAttackedBy records a direct attack from id
func (c *Creature) MarkAttackedBy(id uint32) {
	if c.attackedBy == nil {
		c.attackedBy = make(map[uint32]bool)
	}
	c.attackedBy[id] = true
}

//HasCondition reports whether a condition of kind t is active
func (c *Creature) HasCondition(t combat.ConditionType) bool {
	for _, v := range c.Conditions {
		if v.Type&t != 0 {
			return true
		}
	}
	return false
}

//Condition returns the active condition of kind t
func (c *Creature) Condition(t combat.ConditionType) *combat.Condition {
	for _, v := range c.Conditions {
		if v.Type == t {
			return v
		}
	}
	return nil
}

package combat

import (
	"strings"
	"time"
)

type WorldType int

const (
	WorldPvP WorldType = iota
	WorldNoPvP
	WorldPvPEnforced
)

var worldTypeString = [...]string{"pvp", "no-pvp", "pvp-enforced"}

func (w WorldType) String() string {
	if w < 0 || int(w) >= len(worldTypeString) {
		return "unknown"
	}
	return worldTypeString[w]
}

func StrToWorldType(s string) (WorldType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, v := range worldTypeString {
		if v == s {
			return WorldType(i), true
		}
	}
	return WorldPvP, false
}

type TileFlag uint32

const (
	TileBlockProjectile TileFlag = 1 << iota
	TileFloorChange
	TileTeleport
)

type Tile interface {
	Position() Position
	Zone() ZoneType
	HasFlag(f TileFlag) bool
	Creatures() []Creature
	TopCreature() Creature
}

//World is the spatial service
type World interface {
	//Tile returns the tile at pos, creating an empty one if needed
	Tile(pos Position) Tile
	Creature(id uint32) Creature
	Spectators(center Position, rangeX, rangeY int) []Creature
	IsSightClear(from, to Position, sameFloor bool) bool
	WorldType() WorldType
}

//Entities mutates creatures
type Entities interface {
	//ApplyHealthDelta returns true when the hit was fully blocked
	ApplyHealthDelta(caster, target Creature, damage CombatDamage) bool
	AddCondition(target Creature, c *Condition) bool
	RemoveCondition(target Creature, t ConditionType, combatOnly bool)
	AddInFight(player Creature)
}

type Item interface {
	ID() uint16
	Owner() uint32
	SetOwner(id uint32)
}

//Field is an item sitting on a tile that reacts to creatures stepping in
type Field interface {
	Item
	Tile() Tile
	CreatedAt() time.Time
	IsBlocking() bool
	Condition() *Condition
}

type Items interface {
	CreateItem(id uint16) Item
	AddItem(t Tile, it Item) ReturnValue
	RemoveItem(it Item)
	StartDecay(it Item)
}

type Broadcaster interface {
	MagicEffect(spectators []Creature, pos Position, effect MagicEffect)
	DistanceEffect(spectators []Creature, from, to Position, effect DistanceEffect)
	Sound(spectators []Creature, pos Position, sound SoundEffect)
}

//Policy is the world level hook consulted after every built in rule passed
type Policy interface {
	OnTargetCombat(attacker, target Creature) ReturnValue
	OnAreaCombat(caster Creature, t Tile, aggressive bool) ReturnValue
}

//AllowAll is a Policy that never denies
type AllowAll struct{}

func (AllowAll) OnTargetCombat(Creature, Creature) ReturnValue { return RetNoError }
func (AllowAll) OnAreaCombat(Creature, Tile, bool) ReturnValue   { return RetNoError }

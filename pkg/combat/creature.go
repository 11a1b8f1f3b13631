package combat

import "fmt"

//Position is a tile coordinate; Z is the floor
type Position struct {
	X int `yaml:"X"`
	Y int `yaml:"Y"`
	Z int `yaml:"Z"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%v,%v,%v)", p.X, p.Y, p.Z)
}

func distanceX(a, b Position) int {
	return abs(a.X - b.X)
}

func distanceY(a, b Position) int {
	return abs(a.Y - b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type Direction int

const (
	North Direction = iota
	East
	South
	West
	SouthWest
	SouthEast
	NorthWest
	NorthEast
)

var directionString = [...]string{"north", "east", "south", "west", "southwest", "southeast", "northwest", "northeast"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionString) {
		return "unknown"
	}
	return directionString[d]
}

//ZoneType classifies a tile for aggression legality
type ZoneType int

const (
	ZoneNormal ZoneType = iota
	ZoneProtection
	ZoneNoPvP
	ZonePvP
)

var zoneTypeString = [...]string{"normal", "protection", "nopvp", "pvp"}

func (z ZoneType) String() string {
	if z < 0 || int(z) >= len(zoneTypeString) {
		return "unknown"
	}
	return zoneTypeString[z]
}

//Kind is the closed set of creature variants
type Kind int

const (
	KindCreature Kind = iota //wild creature
	KindPlayer
	KindSummon //creature acting for Master()
)

var kindString = [...]string{"creature", "player", "summon"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindString) {
		return "unknown"
	}
	return kindString[k]
}

//PlayerFlag are privilege and restriction flags; non players report false
type PlayerFlag uint32

const (
	FlagCannotUseCombat PlayerFlag = 1 << iota
	FlagCannotAttackPlayer
	FlagCannotAttackMonster
	FlagCannotBeAttacked
	FlagIgnoreProtectionZone
)

//Creature is the read side of the entity service. Player only queries
//return their zero value for other kinds.
type Creature interface {
	ID() uint32
	Name() string
	Kind() Kind
	Master() Creature
	Position() Position
	Tile() Tile
	Zone() ZoneType

	Level() int
	Stats() Stats
	Types() [2]DamageType

	HasFlag(f PlayerFlag) bool
	IsAttackable() bool
	IsInGhostMode() bool
	IsImmune(t ConditionType) bool

	//player only
	IsRidingProtected() bool
	SecureMode() bool
	IsMarked() bool
	HasBeenAttacked(attackerID uint32) bool
}

func isPlayer(c Creature) bool {
	return c != nil && c.Kind() == KindPlayer
}

//OwnerIfSummon returns the master of a summon, nil otherwise
func OwnerIfSummon(c Creature) Creature {
	if c == nil || c.Kind() != KindSummon {
		return nil
	}
	return c.Master()
}

//PlayerOwner returns c itself for players, the master for summons owned by a
//player, and nil otherwise
func PlayerOwner(c Creature) Creature {
	if isPlayer(c) {
		return c
	}
	if m := OwnerIfSummon(c); isPlayer(m) {
		return m
	}
	return nil
}

//IsPlayerLike reports whether c is a player or a player's summon
func IsPlayerLike(c Creature) bool {
	return PlayerOwner(c) != nil
}

func sameCreature(a, b Creature) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ID() == b.ID()
}

package combat

import "strings"

//DamageType is the elemental type of a combat, matched against the
//caster's type tags for the same-type bonus
type DamageType int

const (
	DamageNone DamageType = iota
	DamagePhysical
	DamageFire
	DamageElectric
	DamageWater
	DamageGrass
	DamageIce
	DamageBug
	DamageDark
)

var damageTypeString = [...]string{
	"none",
	"physical",
	"fire",
	"electric",
	"water",
	"grass",
	"ice",
	"bug",
	"dark",
}

func (d DamageType) String() string {
	if d < 0 || int(d) >= len(damageTypeString) {
		return "unknown"
	}
	return damageTypeString[d]
}

//StrToDamageType returns DamageNone and false for unknown names
func StrToDamageType(s string) (DamageType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, v := range damageTypeString {
		if v == s {
			return DamageType(i), true
		}
	}
	return DamageNone, false
}

//CombatStat is the stat that drove the damage formula
type CombatStat int

const (
	StatNone CombatStat = iota
	StatAttack
	StatSpecialAttack
	StatDefense
	StatSpecialDefense
)

var combatStatString = [...]string{
	"none",
	"attack",
	"special_attack",
	"defense",
	"special_defense",
}

func (c CombatStat) String() string {
	if c < 0 || int(c) >= len(combatStatString) {
		return "unknown"
	}
	return combatStatString[c]
}

func StrToCombatStat(s string) (CombatStat, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, v := range combatStatString {
		if v == s {
			return CombatStat(i), true
		}
	}
	return StatNone, false
}

//CombatOrigin tags who or what caused a damage record
type CombatOrigin int

const (
	OriginNone CombatOrigin = iota
	OriginCondition
	OriginSpell
	OriginMelee
	OriginRanged
	OriginField
)

var combatOriginString = [...]string{"none", "condition", "spell", "melee", "ranged", "field"}

func (o CombatOrigin) String() string {
	if o < 0 || int(o) >= len(combatOriginString) {
		return "unknown"
	}
	return combatOriginString[o]
}

func StrToCombatOrigin(s string) (CombatOrigin, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, v := range combatOriginString {
		if v == s {
			return CombatOrigin(i), true
		}
	}
	return OriginNone, false
}

//CombatDamage is created fresh for every target and discarded after it has
//been applied. Negative values are damage, positive values heal.
type CombatDamage struct {
	Value  float64
	Type   DamageType
	Origin CombatOrigin
	Stat   CombatStat

	BlockedByArmor bool //the entity service may absorb it with armor
}

func (d CombatDamage) IsHeal() bool {
	return d.Value > 0
}

//Stats are the combat statistics the formula reads
type Stats struct {
	Attack         float64
	SpecialAttack  float64
	Defense        float64
	SpecialDefense float64
}

//Effect ids; 0 means none
type (
	MagicEffect    uint16
	DistanceEffect uint16
	SoundEffect    uint16
)

const (
	EffectNone   MagicEffect    = 0
	DistanceNone DistanceEffect = 0
	SoundNone    SoundEffect    = 0
)

//CombatParams is configured once when content is loaded and read-only while
//a combat executes
type CombatParams struct {
	DamageType     DamageType
	Origin         CombatOrigin
	ImpactEffect   MagicEffect
	DistanceEffect DistanceEffect
	ImpactSound    SoundEffect
	DistanceSound  SoundEffect

	Aggressive            bool
	TargetCasterOrTopMost bool
	BlockedByArmor        bool

	ItemID     uint16        //field item to materialize on each tile
	DispelType ConditionType //condition kind removed on hit

	Conditions []*Condition //applied in order on hit

	//used when no value callback is set
	BaseValue   float64
	DrivingStat CombatStat

	ValueCallback  ValueCallback
	TileCallback   TileCallback
	TargetCallback TargetCallback
}

func (p *CombatParams) clone() CombatParams {
	c := *p
	c.Conditions = make([]*Condition, 0, len(p.Conditions))
	for _, v := range p.Conditions {
		c.Conditions = append(c.Conditions, v.Clone())
	}
	return c
}

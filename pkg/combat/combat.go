package combat

import "go.uber.org/zap"

//EffectKind is what a combat does to each creature it reaches
type EffectKind int

const (
	EffectHealth    EffectKind = iota //damage or heal, then conditions and dispel
	EffectCondition                   //conditions only
	EffectDispel                      //dispel only
	EffectNull                        //conditions and dispel
)

var effectKindString = [...]string{"health", "condition", "dispel", "null"}

func (k EffectKind) String() string {
	if k < 0 || int(k) >= len(effectKindString) {
		return "unknown"
	}
	return effectKindString[k]
}

func StrToEffectKind(s string) (EffectKind, bool) {
	for i, v := range effectKindString {
		if v == s {
			return EffectKind(i), true
		}
	}
	return EffectNull, false
}

//Combat is one configured combat definition. Params are owned by the
//combat; Area may be shared with other combats.
type Combat struct {
	Name   string
	Params CombatParams
	Area   *AreaCombat
	Effect EffectKind
}

//NewCombat picks the effect from the params: anything with a damage type or
//a value deals health, the rest runs conditions and dispel
func NewCombat(name string, p CombatParams, area *AreaCombat) *Combat {
	c := &Combat{Name: name, Params: p, Area: area, Effect: EffectNull}
	if p.DamageType != DamageNone || p.ValueCallback != nil || p.BaseValue != 0 {
		c.Effect = EffectHealth
	}
	return c
}

//Clone copies the params so the copy can be reconfigured; the area is shared
func (c *Combat) Clone() *Combat {
	n := *c
	n.Params = c.Params.clone()
	return &n
}

//Execute casts c at target: over the area centered on target if c has one,
//directly otherwise. A nil target casts nothing.
func (e *Engine) Execute(c *Combat, caster, target Creature) {
	if target == nil {
		return
	}
	if c.Area != nil {
		e.DoAreaCombat(c, caster, target.Position())
		return
	}
	e.DoCombat(c, caster, target)
}

//DoCombat is the direct target cast
func (e *Engine) DoCombat(c *Combat, caster, target Creature) {
	if target == nil {
		return
	}
	log := e.castLog(c, caster)

	if c.Params.Aggressive && !sameCreature(caster, target) {
		if r := e.CanDoCombat(caster, target); !r.Allowed() {
			log.Debugw("target denied", "target", target.Name(), "reason", r)
			return
		}
	}

	tpos := target.Position()
	spectators := e.World.Spectators(tpos, e.Config.ViewportX, e.Config.ViewportY)
	e.impact(spectators, tpos, c)
	if caster != nil {
		e.travel(caster.Position(), tpos, c)
	}

	log.Debugw("target hit", "target", target.Name(), "effect", c.Effect)
	e.apply(log, c, caster, target)

	if cb := c.Params.TargetCallback; cb != nil {
		e.callTarget(cb, caster, target)
	}
}

//DoAreaCombat is the area cast at pos. Illegal tiles and creatures are
//skipped; the cast always visits every tile.
func (e *Engine) DoAreaCombat(c *Combat, caster Creature, pos Position) {
	log := e.castLog(c, caster)

	origin := pos
	if caster != nil {
		origin = caster.Position()
	}
	tiles := c.Area.ResolveAffectedTiles(origin, pos, func(from, to Position) bool {
		return e.World.IsSightClear(from, to, true)
	})
	log.Debugw("area resolved", "pos", pos, "tiles", len(tiles))

	var maxX, maxY int
	for _, p := range tiles {
		if d := distanceX(p, pos); d > maxX {
			maxX = d
		}
		if d := distanceY(p, pos); d > maxY {
			maxY = d
		}
	}
	spectators := e.World.Spectators(pos, maxX+e.Config.ViewportX, maxY+e.Config.ViewportY)

	if caster != nil {
		e.travel(origin, pos, c)
	}
	if c.Params.ImpactSound != SoundNone {
		e.Broadcast.Sound(spectators, pos, c.Params.ImpactSound)
	}

	for _, p := range tiles {
		tile := e.World.Tile(p)
		if r := e.CanTargetTile(caster, tile, c.Params.Aggressive); !r.Allowed() {
			log.Debugw("tile denied", "tile", p, "reason", r)
			continue
		}
		e.tileEffects(log, spectators, c, caster, tile)

		var top Creature
		if c.Params.TargetCasterOrTopMost {
			top = tile.TopCreature()
		}
		casterHere := caster != nil && caster.Position() == p

		for _, cr := range tile.Creatures() {
			if c.Params.TargetCasterOrTopMost {
				if casterHere {
					if !sameCreature(cr, caster) {
						continue
					}
				} else if !sameCreature(cr, top) {
					continue
				}
			}
			if c.Params.Aggressive {
				if r := e.CanDoCombat(caster, cr); !r.Allowed() {
					log.Debugw("target denied", "target", cr.Name(), "reason", r)
					continue
				}
			}

			log.Debugw("target hit", "target", cr.Name(), "tile", p, "effect", c.Effect)
			e.apply(log, c, caster, cr)
			if cb := c.Params.TargetCallback; cb != nil {
				e.callTarget(cb, caster, cr)
			}
			if c.Params.TargetCasterOrTopMost {
				break
			}
		}
	}
}

func (e *Engine) impact(spectators []Creature, pos Position, c *Combat) {
	if c.Params.ImpactEffect != EffectNone {
		e.Broadcast.MagicEffect(spectators, pos, c.Params.ImpactEffect)
	}
	if c.Params.ImpactSound != SoundNone {
		e.Broadcast.Sound(spectators, pos, c.Params.ImpactSound)
	}
}

func (e *Engine) travel(from, to Position, c *Combat) {
	if c.Params.DistanceEffect == DistanceNone && c.Params.DistanceSound == SoundNone {
		return
	}
	//observers of either end see the projectile
	center := Position{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2, Z: from.Z}
	spectators := e.World.Spectators(center,
		distanceX(from, to)/2+1+e.Config.ViewportX,
		distanceY(from, to)/2+1+e.Config.ViewportY)
	if c.Params.DistanceEffect != DistanceNone {
		e.Broadcast.DistanceEffect(spectators, from, to, c.Params.DistanceEffect)
	}
	if c.Params.DistanceSound != SoundNone {
		e.Broadcast.Sound(spectators, from, c.Params.DistanceSound)
	}
}

func (e *Engine) tileEffects(log *zap.SugaredLogger, spectators []Creature, c *Combat, caster Creature, tile Tile) {
	if c.Params.ItemID != 0 {
		e.placeField(log, c.Params.ItemID, caster, tile)
	}
	if cb := c.Params.TileCallback; cb != nil {
		e.callTile(cb, caster, tile.Position())
	}
	if c.Params.ImpactEffect != EffectNone {
		e.Broadcast.MagicEffect(spectators, tile.Position(), c.Params.ImpactEffect)
	}
}

func (e *Engine) apply(log *zap.SugaredLogger, c *Combat, caster, target Creature) {
	switch c.Effect {
	case EffectHealth:
		e.healthEffect(log, c, caster, target)
	case EffectCondition:
		e.conditionEffect(c, caster, target)
	case EffectDispel:
		e.dispelEffect(c, target)
	default:
		e.conditionEffect(c, caster, target)
		e.dispelEffect(c, target)
	}
}

//Damage computes the health delta c deals to target
func (e *Engine) Damage(c *Combat, caster, target Creature) CombatDamage {
	base, stat := c.Params.BaseValue, c.Params.DrivingStat
	if cb := c.Params.ValueCallback; cb != nil && caster != nil {
		v, st, ok := e.callValue(cb, caster)
		if !ok {
			v, st = 0, StatNone
		}
		base, stat = v, st
	}

	in := FormulaInput{
		Target:     target.Stats(),
		Base:       base,
		Stat:       stat,
		DamageType: c.Params.DamageType,
	}
	if caster != nil {
		in.Caster = caster.Stats()
		in.CasterTypes = caster.Types()
	}
	return CombatDamage{
		Value:  ComputeDamage(e.Rand, in),
		Type:   c.Params.DamageType,
		Origin: c.Params.Origin,
		Stat:   stat,

		BlockedByArmor: c.Params.BlockedByArmor,
	}
}

func (e *Engine) healthEffect(log *zap.SugaredLogger, c *Combat, caster, target Creature) bool {
	dmg := e.Damage(c, caster, target)
	//players only deal half damage to each other
	if dmg.Value < 0 && isPlayer(caster) && isPlayer(target) {
		dmg.Value /= 2
	}
	e.executeDamageHooks(PreDamageHook, caster, target, &dmg)
	if e.Entities.ApplyHealthDelta(caster, target, dmg) {
		log.Debugw("hit blocked", "target", target.Name(), "value", dmg.Value)
		return false
	}
	log.Debugw("health changed", "target", target.Name(), "value", dmg.Value, "type", dmg.Type, "stat", dmg.Stat)
	e.executeDamageHooks(PostDamageHook, caster, target, &dmg)
	e.conditionEffect(c, caster, target)
	e.dispelEffect(c, target)
	return true
}

func (e *Engine) conditionEffect(c *Combat, caster, target Creature) {
	for _, tmpl := range c.Params.Conditions {
		cond := tmpl.Clone()
		cond.Owner = 0
		if caster != nil {
			cond.Owner = caster.ID()
		}
		if cond.Origin == OriginNone {
			cond.Origin = c.Params.Origin
		}
		e.addCondition(caster, target, cond)
	}
}

//addCondition is the one path every condition takes onto a creature
func (e *Engine) addCondition(caster, target Creature, cond *Condition) bool {
	if !sameCreature(caster, target) && target.IsImmune(cond.Type) {
		return false
	}
	return e.Entities.AddCondition(target, cond)
}

func (e *Engine) dispelEffect(c *Combat, target Creature) {
	d := c.Params.DispelType
	if d == ConditionNone {
		return
	}
	if d&ConditionParalyze != 0 {
		e.Entities.RemoveCondition(target, ConditionParalyze, false)
		d &^= ConditionParalyze
	}
	if d != ConditionNone {
		e.Entities.RemoveCondition(target, d, true)
	}
}

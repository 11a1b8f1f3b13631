package combat

//ReturnValue is the outcome of a legality check. RetNoError allows the
//action; every other value is a denial reason, not an error.
type ReturnValue int

const (
	RetNoError ReturnValue = iota
	RetNotPossible
	RetNotEnoughRoom
	RetFirstGoDownstairs
	RetFirstGoUpstairs
	RetYouCannotAttackYourself
	RetNotPermittedInProtectionZone
	RetNotPermittedInNoPvPZone
	RetYouMayNotAttackPersonInProtectionZone
	RetYouMayNotAttackThisPlayer
	RetYouMayNotAttackThisCreature
	RetTurnSecureModeToAttack
)

var returnValueString = [...]string{
	"no error",
	"not possible",
	"not enough room",
	"first go downstairs",
	"first go upstairs",
	"you cannot attack yourself",
	"action not permitted in a protection zone",
	"action not permitted in a no-pvp zone",
	"you may not attack a person in a protection zone",
	"you may not attack this player",
	"you may not attack this creature",
	"turn secure mode off to attack unmarked players",
}

func (r ReturnValue) String() string {
	if r < 0 || int(r) >= len(returnValueString) {
		return "unknown"
	}
	return returnValueString[r]
}

func (r ReturnValue) Allowed() bool {
	return r == RetNoError
}

func (e *Engine) policy() Policy {
	if e.Policy == nil {
		return AllowAll{}
	}
	return e.Policy
}

//CanTargetTile decides whether an area combat may touch tile. caster may be
//nil for combats without an origin creature.
func (e *Engine) CanTargetTile(caster Creature, tile Tile, aggressive bool) ReturnValue {
	if tile.HasFlag(TileBlockProjectile) || tile.HasFlag(TileFloorChange) || tile.HasFlag(TileTeleport) {
		return RetNotEnoughRoom
	}

	privileged := false
	if caster != nil {
		privileged = caster.HasFlag(FlagIgnoreProtectionZone)
		cz, tz := caster.Position().Z, tile.Position().Z
		if !privileged {
			if cz < tz {
				return RetFirstGoDownstairs
			}
			if cz > tz {
				return RetFirstGoUpstairs
			}
		}
	}

	if aggressive && !privileged && tile.Zone() == ZoneProtection {
		return RetNotPermittedInProtectionZone
	}

	return e.policy().OnAreaCombat(caster, tile, aggressive)
}

//CanTargetCreature is used when a player picks target directly. It refuses
//targets the player is being friendly towards before running CanDoCombat.
func (e *Engine) CanTargetCreature(attacker, target Creature) ReturnValue {
	if sameCreature(attacker, target) {
		return RetYouCannotAttackYourself
	}
	if isPlayer(attacker) && isPlayer(target) {
		if e.IsProtected(attacker, target) {
			return RetYouMayNotAttackThisPlayer
		}
		if attacker.SecureMode() && !IsInPvPZone(attacker, target) && !target.IsMarked() {
			return RetTurnSecureModeToAttack
		}
	}
	return e.CanDoCombat(attacker, target)
}

//CanDoCombat runs the aggression rules in order; the first rule that matches
//decides. Nothing is cached: zones and flags may change between calls.
func (e *Engine) CanDoCombat(attacker, target Creature) ReturnValue {
	if target == nil {
		return RetNotPossible
	}
	if attacker == nil {
		return e.policy().OnTargetCombat(nil, target)
	}
	if sameCreature(attacker, target) {
		return RetYouCannotAttackYourself
	}

	for _, rule := range []func(a, t Creature) ReturnValue{
		e.zoneRule,
		e.capabilityRule,
		e.pvpRule,
		e.playerVsCreatureRule,
		e.creatureVsCreatureRule,
		e.worldModeRule,
	} {
		if r := rule(attacker, target); r != RetNoError {
			return r
		}
	}
	return e.policy().OnTargetCombat(attacker, target)
}

func (e *Engine) zoneRule(a, t Creature) ReturnValue {
	if a.HasFlag(FlagIgnoreProtectionZone) {
		return RetNoError
	}
	if a.Zone() == ZoneProtection || t.Zone() == ZoneProtection {
		return RetNotPermittedInProtectionZone
	}
	if IsPlayerLike(a) && IsPlayerLike(t) {
		if a.Zone() == ZoneNoPvP {
			return RetNotPermittedInNoPvPZone
		}
		if t.Zone() == ZoneNoPvP {
			return RetYouMayNotAttackPersonInProtectionZone
		}
	}
	return RetNoError
}

func (e *Engine) capabilityRule(a, t Creature) ReturnValue {
	if a.HasFlag(FlagCannotUseCombat) || !t.IsAttackable() {
		if isPlayer(t) {
			return RetYouMayNotAttackThisPlayer
		}
		return RetYouMayNotAttackThisCreature
	}
	return RetNoError
}

func (e *Engine) pvpRule(a, t Creature) ReturnValue {
	if !isPlayer(t) {
		return RetNoError
	}
	if t.HasFlag(FlagCannotBeAttacked) {
		return RetYouMayNotAttackThisPlayer
	}

	ap := PlayerOwner(a)
	if ap == nil {
		return RetNoError
	}
	if ap.HasFlag(FlagCannotAttackPlayer) {
		return RetYouMayNotAttackThisPlayer
	}
	if e.IsProtected(ap, t) {
		return RetYouMayNotAttackThisPlayer
	}

	//no-pvp subzones are judged on the tiles the two stand on
	if t.Zone() == ZoneNoPvP {
		return RetNotPermittedInNoPvPZone
	}
	if isPlayer(a) && a.Zone() == ZoneNoPvP && t.Zone() != ZoneProtection {
		return RetNotPermittedInNoPvPZone
	}
	return RetNoError
}

func (e *Engine) playerVsCreatureRule(a, t Creature) ReturnValue {
	if isPlayer(t) || !isPlayer(a) {
		return RetNoError
	}
	if a.HasFlag(FlagCannotAttackMonster) {
		return RetYouMayNotAttackThisCreature
	}
	if owner := OwnerIfSummon(t); owner != nil {
		if sameCreature(owner, a) {
			return RetYouMayNotAttackThisCreature
		}
		if isPlayer(owner) && t.Zone() == ZoneNoPvP {
			return RetNotPermittedInNoPvPZone
		}
	}
	return RetNoError
}

func (e *Engine) creatureVsCreatureRule(a, t Creature) ReturnValue {
	if isPlayer(a) || isPlayer(t) {
		return RetNoError
	}
	//only wild attackers are restricted here
	if IsPlayerLike(a) {
		return RetNoError
	}
	if owner := PlayerOwner(t); owner != nil {
		if owner.Zone() == ZoneProtection {
			return RetYouMayNotAttackThisCreature
		}
		return RetNoError
	}
	return RetYouMayNotAttackThisCreature
}

func (e *Engine) worldModeRule(a, t Creature) ReturnValue {
	if e.World == nil || e.World.WorldType() != WorldNoPvP {
		return RetNoError
	}
	if !IsPlayerLike(a) || !IsPlayerLike(t) {
		return RetNoError
	}
	if IsInPvPZone(a, t) {
		return RetNoError
	}
	if isPlayer(t) {
		return RetYouMayNotAttackThisPlayer
	}
	return RetYouMayNotAttackThisCreature
}

//IsProtected reports whether the level protection or companion protection
//shields target from attacker. Both are players.
func (e *Engine) IsProtected(attacker, target Creature) bool {
	lvl := e.Config.ProtectionLevel
	if attacker.Level() < lvl || target.Level() < lvl {
		return true
	}
	return target.IsRidingProtected()
}

//IsInPvPZone reports whether both creatures stand in a pvp zone
func IsInPvPZone(a, b Creature) bool {
	return a.Zone() == ZonePvP && b.Zone() == ZonePvP
}

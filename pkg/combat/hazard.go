package combat

func isWall(id uint16) bool {
	switch id {
	case ItemMagicWall, ItemWildGrowth, ItemMagicWallSafe, ItemWildGrowthSafe:
		return true
	}
	return false
}

func isNoPvPWall(id uint16) bool {
	return id == ItemMagicWallNoPvP || id == ItemWildGrowthNoPvP
}

func (e *Engine) noPvPAt(t Tile) bool {
	return e.World.WorldType() == WorldNoPvP || (t != nil && t.Zone() == ZoneNoPvP)
}

//OnStepInField handles entrant arriving on the tile holding f
func (e *Engine) OnStepInField(f Field, entrant Creature) {
	if f == nil || entrant == nil {
		return
	}
	id := f.ID()

	if isWall(id) || f.IsBlocking() {
		if !entrant.IsInGhostMode() {
			e.Log.Debugw("wall consumed", "id", id, "by", entrant.Name())
			e.Items.RemoveItem(f)
		}
		return
	}
	if isNoPvPWall(id) {
		if e.noPvPAt(f.Tile()) {
			e.Items.RemoveItem(f)
		}
		return
	}

	tmpl := f.Condition()
	if tmpl == nil || tmpl.Type == ConditionNone {
		return
	}
	cond := tmpl.Clone()
	cond.Owner = 0
	cond.Origin = OriginField

	if owner := f.Owner(); owner != 0 && e.creditsOwner(f, owner, entrant) {
		cond.Owner = owner
	}
	e.Log.Debugw("field condition", "id", id, "entrant", entrant.Name(), "condition", cond.Type, "owner", cond.Owner)
	e.addCondition(nil, entrant, cond)
}

//creditsOwner decides whether the field owner is recorded on the condition
func (e *Engine) creditsOwner(f Field, ownerID uint32, entrant Creature) bool {
	owner := e.World.Creature(ownerID)

	if e.noPvPAt(f.Tile()) && owner != nil && IsPlayerLike(owner) {
		return false
	}
	if isPlayer(entrant) && isPlayer(owner) && e.IsProtected(owner, entrant) {
		return false
	}
	if e.Now().Sub(f.CreatedAt()) <= e.Config.FieldGrace {
		return false
	}
	if entrant.HasBeenAttacked(ownerID) {
		return false
	}
	return true
}

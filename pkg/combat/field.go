package combat

import "go.uber.org/zap"

//field item ids
const (
	ItemFireFieldPvPFull          uint16 = 1487
	ItemFireFieldPvPMedium        uint16 = 1488
	ItemFireFieldPvPSmall         uint16 = 1489
	ItemPoisonFieldPvP            uint16 = 1490
	ItemEnergyFieldPvP            uint16 = 1491
	ItemFireFieldPersistentFull   uint16 = 1492
	ItemFireFieldPersistentMedium uint16 = 1493
	ItemFireFieldPersistentSmall  uint16 = 1494
	ItemEnergyFieldPersistent     uint16 = 1495
	ItemPoisonFieldPersistent     uint16 = 1496
	ItemMagicWall                 uint16 = 1497
	ItemMagicWallPersistent       uint16 = 1498
	ItemWildGrowth                uint16 = 1499
	ItemFireFieldNoPvP            uint16 = 1500
	ItemPoisonFieldNoPvP          uint16 = 1503
	ItemEnergyFieldNoPvP          uint16 = 1504
	ItemWildGrowthPersistent      uint16 = 2721
	ItemMagicWallSafe             uint16 = 11094
	ItemWildGrowthSafe            uint16 = 11095
	ItemMagicWallNoPvP            uint16 = 11098
	ItemWildGrowthNoPvP           uint16 = 11099
)

var persistentToPvP = map[uint16]uint16{
	ItemFireFieldPersistentFull:   ItemFireFieldPvPFull,
	ItemFireFieldPersistentMedium: ItemFireFieldPvPMedium,
	ItemFireFieldPersistentSmall:  ItemFireFieldPvPSmall,
	ItemEnergyFieldPersistent:     ItemEnergyFieldPvP,
	ItemPoisonFieldPersistent:     ItemPoisonFieldPvP,
	ItemMagicWallPersistent:       ItemMagicWall,
	ItemWildGrowthPersistent:      ItemWildGrowth,
}

var pvpToNoPvP = map[uint16]uint16{
	ItemFireFieldPvPFull: ItemFireFieldNoPvP,
	ItemPoisonFieldPvP:   ItemPoisonFieldNoPvP,
	ItemEnergyFieldPvP:   ItemEnergyFieldNoPvP,
	ItemMagicWall:        ItemMagicWallNoPvP,
	ItemWildGrowth:       ItemWildGrowthNoPvP,
}

//FieldItem returns the item a combat configured with id places on tile
//for caster, and whether placing it puts the casting player in fight
func (e *Engine) FieldItem(id uint16, caster Creature, tile Tile) (uint16, bool) {
	if v, ok := persistentToPvP[id]; ok {
		id = v
	}
	player := PlayerOwner(caster)
	if player == nil {
		return id, false
	}
	if e.World.WorldType() == WorldNoPvP || tile.Zone() == ZoneNoPvP {
		if v, ok := pvpToNoPvP[id]; ok {
			id = v
		}
		return id, false
	}
	switch id {
	case ItemFireFieldPvPFull, ItemPoisonFieldPvP, ItemEnergyFieldPvP:
		return id, true
	}
	return id, false
}

func (e *Engine) placeField(log *zap.SugaredLogger, configured uint16, caster Creature, tile Tile) {
	id, inFight := e.FieldItem(configured, caster, tile)
	if inFight {
		e.Entities.AddInFight(PlayerOwner(caster))
	}

	item := e.Items.CreateItem(id)
	if item == nil {
		log.Warnw("unknown field item", "id", id)
		return
	}
	if caster != nil {
		item.SetOwner(caster.ID())
	}
	//an item that failed to place is simply dropped
	if r := e.Items.AddItem(tile, item); !r.Allowed() {
		log.Debugw("field not placed", "id", id, "tile", tile.Position(), "reason", r)
		return
	}
	e.Items.StartDecay(item)
}

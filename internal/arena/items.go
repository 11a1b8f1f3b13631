package arena

import (
	"fmt"
	"time"

	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
)

//ItemType is the static description of an item id
type ItemType struct {
	Name      string
	Blocking  bool
	Condition *combat.Condition //applied on step in
	Decay     time.Duration
}

//DefaultItemTypes describes the field items combats can place
func DefaultItemTypes() map[uint16]ItemType {
	fire := &combat.Condition{Type: combat.ConditionBurn, Ticks: 7, Interval: 9 * time.Second, Value: -10}
	poison := &combat.Condition{Type: combat.ConditionPoison, Ticks: 10, Interval: 4 * time.Second, Value: -5}
	energy := &combat.Condition{Type: combat.ConditionParalyze, Ticks: 1, Interval: 10 * time.Second, Value: -25}
	return map[uint16]ItemType{
		combat.ItemFireFieldPvPFull:   {Name: "fire field", Condition: fire, Decay: 2 * time.Minute},
		combat.ItemFireFieldPvPMedium: {Name: "fire field", Condition: fire, Decay: time.Minute},
		combat.ItemFireFieldPvPSmall:  {Name: "fire field", Condition: fire, Decay: 30 * time.Second},
		combat.ItemFireFieldNoPvP:     {Name: "fire field", Condition: fire, Decay: 2 * time.Minute},
		combat.ItemPoisonFieldPvP:     {Name: "poison field", Condition: poison, Decay: 2 * time.Minute},
		combat.ItemPoisonFieldNoPvP:   {Name: "poison field", Condition: poison, Decay: 2 * time.Minute},
		combat.ItemEnergyFieldPvP:     {Name: "energy field", Condition: energy, Decay: 2 * time.Minute},
		combat.ItemEnergyFieldNoPvP:   {Name: "energy field", Condition: energy, Decay: 2 * time.Minute},
		combat.ItemMagicWall:          {Name: "magic wall", Blocking: true, Decay: 20 * time.Second},
		combat.ItemMagicWallNoPvP:     {Name: "magic wall", Decay: 20 * time.Second},
		combat.ItemWildGrowth:         {Name: "wild growth", Blocking: true, Decay: 45 * time.Second},
		combat.ItemWildGrowthNoPvP:    {Name: "wild growth", Decay: 45 * time.Second},
	}
}

//Item is an item lying on a tile
type Item struct {
	id       uint16
	owner    uint32
	created  time.Time
	typ      ItemType
	tile     *Tile
	Decaying bool
}

func (i *Item) ID() uint16                   { return i.id }
func (i *Item) Owner() uint32                { return i.owner }
func (i *Item) SetOwner(id uint32)           { i.owner = id }
func (i *Item) CreatedAt() time.Time         { return i.created }
func (i *Item) IsBlocking() bool             { return i.typ.Blocking }
func (i *Item) Condition() *combat.Condition { return i.typ.Condition }

func (i *Item) Tile() combat.Tile {
	if i.tile == nil {
		return nil
	}
	return i.tile
}

func (w *World) CreateItem(id uint16) combat.Item {
	typ, ok := w.ItemTypes[id]
	if !ok {
		return nil
	}
	return &Item{id: id, typ: typ, created: w.Now()}
}

//AddItem refuses tiles that block projectiles or already hold a blocking item
func (w *World) AddItem(t combat.Tile, it combat.Item) combat.ReturnValue {
	tile, ok := t.(*Tile)
	item, iok := it.(*Item)
	if !ok || !iok {
		return combat.RetNotPossible
	}
	if tile.HasFlag(combat.TileBlockProjectile) {
		return combat.RetNotEnoughRoom
	}
	for _, v := range tile.items {
		if v.typ.Blocking {
			return combat.RetNotEnoughRoom
		}
	}
	item.tile = tile
	tile.items = append(tile.items, item)
	w.record(Event{Kind: EventItemAdded, Item: item.id, Pos: tile.pos, Source: item.owner})
	return combat.RetNoError
}

func (w *World) RemoveItem(it combat.Item) {
	item, ok := it.(*Item)
	if !ok || item.tile == nil {
		return
	}
	t := item.tile
	for i, v := range t.items {
		if v == item {
			t.items = append(t.items[:i], t.items[i+1:]...)
			break
		}
	}
	item.tile = nil
	w.record(Event{Kind: EventItemRemoved, Item: item.id, Pos: t.pos})
}

func (w *World) StartDecay(it combat.Item) {
	if item, ok := it.(*Item); ok {
		item.Decaying = true
	}
}

//PlaceField puts an item directly on a tile, created age ago
func (w *World) PlaceField(id uint16, owner uint32, p combat.Position, age time.Duration) (*Item, error) {
	it, ok := w.CreateItem(id).(*Item)
	if !ok {
		return nil, fmt.Errorf("unknown item %v", id)
	}
	it.owner = owner
	it.created = w.Now().Add(-age)
	if r := w.AddItem(w.tile(p), it); !r.Allowed() {
		return nil, fmt.Errorf("place item %v at %v: %v", id, p, r)
	}
	return it, nil
}

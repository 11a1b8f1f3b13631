package combat_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/OLDtherubyproject/rubyserver-sub001/internal/arena"
	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func burn() *combat.Condition {
	return &combat.Condition{Type: combat.ConditionBurn, Ticks: 3, Interval: 2 * time.Second, Value: -5}
}

func TestNewCombatEffect(t *testing.T) {
	assert.Equal(t, combat.EffectHealth, combat.NewCombat("a", tackle(), nil).Effect)
	assert.Equal(t, combat.EffectHealth, combat.NewCombat("b", combat.CombatParams{DamageType: combat.DamageFire}, nil).Effect)
	assert.Equal(t, combat.EffectNull, combat.NewCombat("c", combat.CombatParams{Conditions: []*combat.Condition{burn()}}, nil).Effect)

	k, ok := combat.StrToEffectKind("dispel")
	assert.True(t, ok)
	assert.Equal(t, combat.EffectDispel, k)
	_, ok = combat.StrToEffectKind("explode")
	assert.False(t, ok)
}

func TestDoCombatDamage(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, wild(2, "b", at(1, 0)))

	p := tackle()
	p.ImpactEffect = 5
	p.DistanceEffect = 3
	e.DoCombat(combat.NewCombat("tackle", p, nil), a, b)

	assert.Less(t, b.Health, 200.0)
	hits := w.Filter(arena.EventHealth)
	require.Len(t, hits, 1)
	assert.Equal(t, uint32(1), hits[0].Source)
	assert.Equal(t, uint32(2), hits[0].Target)
	assert.InDelta(t, b.Health-200, hits[0].Value, 1e-9)
	assert.True(t, b.HasBeenAttacked(1))

	require.Len(t, w.Filter(arena.EventMagicEffect), 1)
	dist := w.Filter(arena.EventDistanceEffect)
	require.Len(t, dist, 1)
	assert.Equal(t, at(0, 0), dist[0].Pos)
	assert.Equal(t, at(1, 0), dist[0].To)
}

func TestDoCombatDenied(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	w.SetTile(at(1, 0), combat.ZoneProtection, 0)
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, wild(2, "b", at(1, 0)))

	p := tackle()
	p.ImpactEffect = 5
	p.Conditions = []*combat.Condition{burn()}
	e.DoCombat(combat.NewCombat("tackle", p, nil), a, b)

	assert.Equal(t, 200.0, b.Health)
	assert.Empty(t, b.Conditions)
	assert.Empty(t, w.Events)
}

func TestDoCombatNonAggressive(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	w.SetTile(at(1, 0), combat.ZoneProtection, 0)
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, player(2, "b", at(1, 0)))
	b.Health = 100

	heal := combat.NewCombat("refresh", combat.CombatParams{Origin: combat.OriginSpell, BaseValue: 50}, nil)
	e.DoCombat(heal, a, b)
	assert.Greater(t, b.Health, 100.0)
}

func TestDoCombatSelf(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	w.SetTile(at(0, 0), combat.ZoneProtection, 0)
	a := add(t, w, player(1, "a", at(0, 0)))

	//a self cast is never checked for legality
	e.DoCombat(combat.NewCombat("tackle", tackle(), nil), a, a)
	assert.Less(t, a.Health, 500.0)
}

func TestDoCombatNilTarget(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	e.DoCombat(combat.NewCombat("tackle", tackle(), nil), a, nil)
	assert.Empty(t, w.Events)
}

func TestDoCombatWithoutCaster(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	b := add(t, w, wild(2, "b", at(1, 0)))

	p := tackle()
	p.DistanceEffect = 3
	p.Conditions = []*combat.Condition{burn()}
	e.DoCombat(combat.NewCombat("trap", p, nil), nil, b)

	assert.Less(t, b.Health, 200.0)
	assert.Empty(t, w.Filter(arena.EventDistanceEffect))
	cond := b.Condition(combat.ConditionBurn)
	require.NotNil(t, cond)
	assert.Equal(t, uint32(0), cond.Owner)
}

func TestPvPHalving(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, player(2, "b", at(1, 0)))
	c := combat.NewCombat("tackle", tackle(), nil)

	//same seed, same first draw
	_, ref := newEngine(combat.DefaultConfig())
	full := ref.Damage(c, a, b).Value
	require.Less(t, full, 0.0)

	e.DoCombat(c, a, b)
	hits := w.Filter(arena.EventHealth)
	require.Len(t, hits, 1)
	assert.InDelta(t, full/2, hits[0].Value, 1e-9)
}

func TestPvPHealNotHalved(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, player(2, "b", at(1, 0)))
	b.Health = 100
	c := combat.NewCombat("refresh", combat.CombatParams{BaseValue: 50}, nil)

	_, ref := newEngine(combat.DefaultConfig())
	full := ref.Damage(c, a, b).Value

	e.DoCombat(c, a, b)
	assert.InDelta(t, 100+full, b.Health, 1e-9)
}

func TestDamage(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	e.Rand = rand.New(rand.NewSource(3))
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, wild(2, "b", at(1, 0)))

	p := tackle()
	p.ValueCallback = combat.ValueFunc(func(caster combat.Creature) (float64, combat.CombatStat, error) {
		return -120, combat.StatSpecialAttack, nil
	})
	d := e.Damage(combat.NewCombat("x", p, nil), a, b)
	assert.Equal(t, combat.StatSpecialAttack, d.Stat)
	assert.Equal(t, combat.DamagePhysical, d.Type)
	assert.Equal(t, combat.OriginMelee, d.Origin)
	assert.Less(t, d.Value, 0.0)
	assert.False(t, d.IsHeal())

	//without a caster the callback is not consulted
	d = e.Damage(combat.NewCombat("x", p, nil), nil, b)
	assert.Equal(t, combat.StatAttack, d.Stat)
}

func TestBlockedHitSkipsConditions(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, wild(2, "b", at(1, 0)))
	b.Shielded = true

	var post int
	e.AddDamageHook(func(caster, target combat.Creature, d *combat.CombatDamage) bool {
		post++
		return false
	}, "count", combat.PostDamageHook)

	p := tackle()
	p.Conditions = []*combat.Condition{burn()}
	p.DispelType = combat.ConditionPoison
	b.Conditions = append(b.Conditions, &combat.Condition{Type: combat.ConditionPoison, Origin: combat.OriginSpell})
	e.DoCombat(combat.NewCombat("ember", p, nil), a, b)

	assert.Len(t, w.Filter(arena.EventBlocked), 1)
	assert.Equal(t, 200.0, b.Health)
	assert.False(t, b.HasCondition(combat.ConditionBurn))
	assert.True(t, b.HasCondition(combat.ConditionPoison))
	assert.Equal(t, 0, post)
}

func TestConditionsOnHit(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, wild(2, "b", at(1, 0)))

	p := tackle()
	p.Origin = combat.OriginSpell
	para := &combat.Condition{Type: combat.ConditionParalyze, Ticks: 1, Origin: combat.OriginRanged}
	p.Conditions = []*combat.Condition{burn(), para}
	c := combat.NewCombat("ember", p, nil)
	e.DoCombat(c, a, b)

	got := b.Condition(combat.ConditionBurn)
	require.NotNil(t, got)
	assert.Equal(t, uint32(1), got.Owner)
	assert.Equal(t, combat.OriginSpell, got.Origin)
	//targets receive copies
	assert.NotSame(t, c.Params.Conditions[0], got)
	assert.Equal(t, uint32(0), c.Params.Conditions[0].Owner)

	got = b.Condition(combat.ConditionParalyze)
	require.NotNil(t, got)
	assert.Equal(t, combat.OriginRanged, got.Origin)
}

func TestConditionEffectOnly(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, wild(2, "b", at(1, 0)))

	c := combat.NewCombat("will-o-wisp", combat.CombatParams{Aggressive: true, Conditions: []*combat.Condition{burn()}}, nil)
	c.Effect = combat.EffectCondition
	e.DoCombat(c, a, b)

	assert.Equal(t, 200.0, b.Health)
	assert.Empty(t, w.Filter(arena.EventHealth))
	assert.True(t, b.HasCondition(combat.ConditionBurn))
}

func TestImmunity(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	s := player(1, "a", at(0, 0))
	s.Immune = combat.ConditionBurn
	a := add(t, w, s)
	bs := wild(2, "b", at(1, 0))
	bs.Immune = combat.ConditionBurn
	b := add(t, w, bs)

	c := combat.NewCombat("wisp", combat.CombatParams{Conditions: []*combat.Condition{burn()}}, nil)
	e.DoCombat(c, a, b)
	assert.False(t, b.HasCondition(combat.ConditionBurn))

	//a caster is never immune to its own conditions
	e.DoCombat(c, a, a)
	assert.True(t, a.HasCondition(combat.ConditionBurn))
}

func TestDispel(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	a.Conditions = []*combat.Condition{
		{Type: combat.ConditionParalyze, Ticks: -1},
		{Type: combat.ConditionPoison, Ticks: -1},
		{Type: combat.ConditionBurn, Ticks: 3, Origin: combat.OriginSpell},
		{Type: combat.ConditionSleep, Ticks: 3, Origin: combat.OriginField},
	}

	c := combat.NewCombat("refresh", combat.CombatParams{
		DispelType: combat.ConditionParalyze | combat.ConditionPoison | combat.ConditionBurn,
	}, nil)
	c.Effect = combat.EffectDispel
	e.DoCombat(c, a, a)

	//paralysis goes whatever its source, the rest only when a combat caused it
	assert.False(t, a.HasCondition(combat.ConditionParalyze))
	assert.True(t, a.HasCondition(combat.ConditionPoison))
	assert.False(t, a.HasCondition(combat.ConditionBurn))
	assert.True(t, a.HasCondition(combat.ConditionSleep))
	assert.Len(t, w.Filter(arena.EventConditionRemoved), 2)
}

func TestClone(t *testing.T) {
	area := point(t)
	p := tackle()
	p.Conditions = []*combat.Condition{burn()}
	c := combat.NewCombat("ember", p, area)

	n := c.Clone()
	n.Params.Conditions[0].Value = -50
	n.Params.BaseValue = -10
	n.Name = "ember+"

	assert.Equal(t, -5.0, c.Params.Conditions[0].Value)
	assert.Equal(t, -100.0, c.Params.BaseValue)
	assert.Equal(t, "ember", c.Name)
	assert.Same(t, c.Area, n.Area)
}

func TestExecute(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	b := add(t, w, wild(2, "b", at(3, 0)))
	d := add(t, w, wild(3, "d", at(3, 0)))

	//an area cast centered on the target reaches everyone on its tile
	e.Execute(combat.NewCombat("quake", tackle(), point(t)), a, b)
	assert.Less(t, b.Health, 200.0)
	assert.Less(t, d.Health, 200.0)

	w.Reset()
	e.Execute(combat.NewCombat("tackle", tackle(), nil), a, b)
	hits := w.Filter(arena.EventHealth)
	require.Len(t, hits, 1)
	assert.Equal(t, uint32(2), hits[0].Target)
}

func TestExecuteNilTarget(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))

	assert.NotPanics(t, func() {
		e.Execute(combat.NewCombat("quake", tackle(), point(t)), a, nil)
		e.Execute(combat.NewCombat("tackle", tackle(), nil), a, nil)
	})
	assert.Empty(t, w.Events)
}

func TestAreaCombatSkipsIllegal(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	w.SetTile(at(6, 0), combat.ZoneProtection, 0)
	a := add(t, w, player(1, "a", at(5, 5)))
	b := add(t, w, wild(2, "b", at(5, 0)))
	safe := add(t, w, wild(3, "safe", at(6, 0)))
	own := add(t, w, summon(4, "own", 1, at(4, 0)))

	//cast northwards the row lies across x
	line, err := combat.BuildFromTemplate(combat.Template{Rows: 1, Cells: []int{1, 3, 1}})
	require.NoError(t, err)

	var tiles []combat.Position
	p := tackle()
	p.TileCallback = combat.TileFunc(func(caster combat.Creature, pos combat.Position) error {
		tiles = append(tiles, pos)
		return nil
	})
	e.DoAreaCombat(combat.NewCombat("slash", p, line), a, at(5, 0))

	assert.Less(t, b.Health, 200.0)
	assert.Equal(t, 200.0, safe.Health)
	assert.Equal(t, 200.0, own.Health)
	//the protection zone tile never reaches the tile stage
	assert.ElementsMatch(t, []combat.Position{at(4, 0), at(5, 0)}, tiles)
}

func TestAreaCasterOrTopMost(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	under := add(t, w, wild(2, "under", at(5, 0)))
	top := add(t, w, wild(3, "top", at(5, 0)))

	p := tackle()
	p.TargetCasterOrTopMost = true
	e.DoAreaCombat(combat.NewCombat("strike", p, point(t)), a, at(5, 0))

	assert.Equal(t, 200.0, under.Health)
	assert.Less(t, top.Health, 200.0)
}

func TestAreaCasterOrTopMostCasterTile(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(5, 0)))
	a.Health = 100
	other := add(t, w, player(2, "b", at(5, 0)))
	other.Health = 100

	heal := combat.CombatParams{BaseValue: 60, TargetCasterOrTopMost: true}
	e.DoAreaCombat(combat.NewCombat("recover", heal, point(t)), a, at(5, 0))

	assert.Greater(t, a.Health, 100.0)
	assert.Equal(t, 100.0, other.Health)
}

func TestAreaTargetCallback(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	add(t, w, wild(2, "b", at(5, 0)))
	add(t, w, wild(3, "c", at(5, 0)))

	var hit []uint32
	p := tackle()
	p.TargetCallback = combat.TargetFunc(func(caster, target combat.Creature) error {
		assert.Equal(t, uint32(1), caster.ID())
		hit = append(hit, target.ID())
		return nil
	})
	e.DoAreaCombat(combat.NewCombat("quake", p, point(t)), a, at(5, 0))
	assert.ElementsMatch(t, []uint32{2, 3}, hit)
}

func TestAreaSound(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	p := tackle()
	p.ImpactSound = 9
	p.ImpactEffect = 4
	e.DoAreaCombat(combat.NewCombat("boom", p, point(t)), a, at(3, 3))

	sounds := w.Filter(arena.EventSound)
	require.Len(t, sounds, 1)
	assert.Equal(t, at(3, 3), sounds[0].Pos)
	assert.Equal(t, 1, sounds[0].Observers)
	assert.Len(t, w.Filter(arena.EventMagicEffect), 1)
}

func TestFieldItem(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	s := add(t, w, summon(2, "s", 1, at(1, 0)))
	c := add(t, w, wild(3, "c", at(2, 0)))
	open := w.Tile(at(5, 5))
	nopvp := w.SetTile(at(6, 5), combat.ZoneNoPvP, 0)

	for _, tc := range []struct {
		name    string
		id      uint16
		caster  combat.Creature
		tile    combat.Tile
		want    uint16
		inFight bool
		world   combat.WorldType
	}{
		{"player fire", combat.ItemFireFieldPvPFull, a, open, combat.ItemFireFieldPvPFull, true, combat.WorldPvP},
		{"summon poison", combat.ItemPoisonFieldPvP, s, open, combat.ItemPoisonFieldPvP, true, combat.WorldPvP},
		{"wild fire", combat.ItemFireFieldPvPFull, c, open, combat.ItemFireFieldPvPFull, false, combat.WorldPvP},
		{"no caster", combat.ItemEnergyFieldPvP, nil, open, combat.ItemEnergyFieldPvP, false, combat.WorldPvP},
		{"persistent", combat.ItemFireFieldPersistentFull, a, open, combat.ItemFireFieldPvPFull, true, combat.WorldPvP},
		{"medium fire", combat.ItemFireFieldPvPMedium, a, open, combat.ItemFireFieldPvPMedium, false, combat.WorldPvP},
		{"no-pvp zone", combat.ItemFireFieldPvPFull, a, nopvp, combat.ItemFireFieldNoPvP, false, combat.WorldPvP},
		{"no-pvp world", combat.ItemMagicWall, a, open, combat.ItemMagicWallNoPvP, false, combat.WorldNoPvP},
		{"no-pvp persistent", combat.ItemWildGrowthPersistent, s, open, combat.ItemWildGrowthNoPvP, false, combat.WorldNoPvP},
		{"no-pvp wild", combat.ItemMagicWall, c, open, combat.ItemMagicWall, false, combat.WorldNoPvP},
		{"enforced", combat.ItemEnergyFieldPvP, a, open, combat.ItemEnergyFieldPvP, true, combat.WorldPvPEnforced},
	} {
		w.Type = tc.world
		id, inFight := e.FieldItem(tc.id, tc.caster, tc.tile)
		assert.Equal(t, tc.want, id, tc.name)
		assert.Equal(t, tc.inFight, inFight, tc.name)
	}
}

func TestAreaPlacesField(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))

	p := combat.CombatParams{Aggressive: true, ItemID: combat.ItemFireFieldPvPFull}
	e.DoAreaCombat(combat.NewCombat("fire_field", p, point(t)), a, at(4, 4))

	added := w.Filter(arena.EventItemAdded)
	require.Len(t, added, 1)
	assert.Equal(t, combat.ItemFireFieldPvPFull, added[0].Item)
	assert.Equal(t, uint32(1), added[0].Source)
	assert.True(t, a.HasCondition(combat.ConditionInFight))

	items := w.Tile(at(4, 4)).(*arena.Tile).Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].Decaying)
	assert.Equal(t, uint32(1), items[0].Owner())
}

func TestAreaFieldNotPlaced(t *testing.T) {
	w, e := newEngine(combat.DefaultConfig())
	a := add(t, w, player(1, "a", at(0, 0)))
	_, err := w.PlaceField(combat.ItemMagicWall, 0, at(4, 4), 0)
	require.NoError(t, err)
	w.Reset()

	//the wall holds the tile; the cast still goes on
	p := combat.CombatParams{Aggressive: true, ItemID: combat.ItemFireFieldPvPFull, ImpactEffect: 6}
	e.DoAreaCombat(combat.NewCombat("fire_field", p, point(t)), a, at(4, 4))
	assert.Empty(t, w.Filter(arena.EventItemAdded))
	assert.Len(t, w.Filter(arena.EventMagicEffect), 1)

	//unknown items are skipped
	w.Reset()
	p.ItemID = 4242
	e.DoAreaCombat(combat.NewCombat("junk", p, point(t)), a, at(5, 5))
	assert.Empty(t, w.Filter(arena.EventItemAdded))
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "fire", combat.DamageFire.String())
	assert.Equal(t, "special_attack", combat.StatSpecialAttack.String())
	assert.Equal(t, "field", combat.OriginField.String())
	assert.Equal(t, "no-pvp", combat.WorldNoPvP.String())
	assert.Equal(t, "burn|paralyze", (combat.ConditionBurn | combat.ConditionParalyze).String())
	assert.Equal(t, "none", combat.ConditionNone.String())
	assert.Equal(t, "summon", combat.KindSummon.String())
	assert.Equal(t, "(1,2,3)", combat.Position{X: 1, Y: 2, Z: 3}.String())

	dt, ok := combat.StrToDamageType(" Water ")
	assert.True(t, ok)
	assert.Equal(t, combat.DamageWater, dt)
	_, ok = combat.StrToCombatStat("luck")
	assert.False(t, ok)
	wt, ok := combat.StrToWorldType("pvp-enforced")
	assert.True(t, ok)
	assert.Equal(t, combat.WorldPvPEnforced, wt)
}

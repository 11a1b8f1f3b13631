package combat_test

import (
	"math/rand"
	"testing"

	"github.com/OLDtherubyproject/rubyserver-sub001/internal/arena"
	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
	"github.com/stretchr/testify/require"
)

func newEngine(cfg combat.Config) (*arena.World, *combat.Engine) {
	w := arena.New(nil)
	e := combat.New(cfg, combat.Deps{
		World:     w,
		Entities:  w,
		Items:     w,
		Broadcast: w,
		Rand:      rand.New(rand.NewSource(1)),
		Now:       w.Now,
	})
	w.OnStep = e.OnStepInField
	return w, e
}

func add(t *testing.T, w *arena.World, s arena.CreatureSpec) *arena.Creature {
	c, err := w.Add(s)
	require.NoError(t, err)
	return c
}

func at(x, y int) combat.Position {
	return combat.Position{X: x, Y: y, Z: 7}
}

func player(id uint32, name string, pos combat.Position) arena.CreatureSpec {
	return arena.CreatureSpec{
		ID:     id,
		Name:   name,
		Kind:   combat.KindPlayer,
		Pos:    pos,
		Level:  50,
		Health: 500,
		Stats:  combat.Stats{Attack: 50, SpecialAttack: 50, Defense: 40, SpecialDefense: 40},
	}
}

func wild(id uint32, name string, pos combat.Position) arena.CreatureSpec {
	return arena.CreatureSpec{
		ID:     id,
		Name:   name,
		Kind:   combat.KindCreature,
		Pos:    pos,
		Level:  20,
		Health: 200,
		Stats:  combat.Stats{Attack: 30, SpecialAttack: 30, Defense: 30, SpecialDefense: 30},
	}
}

func summon(id uint32, name string, master uint32, pos combat.Position) arena.CreatureSpec {
	s := wild(id, name, pos)
	s.Kind = combat.KindSummon
	s.Master = master
	return s
}

//single tile area
func point(t *testing.T) *combat.AreaCombat {
	a, err := combat.BuildFromTemplate(combat.Template{Rows: 1, Cells: []int{3}})
	require.NoError(t, err)
	return a
}

func tackle() combat.CombatParams {
	return combat.CombatParams{
		DamageType:  combat.DamagePhysical,
		Origin:      combat.OriginMelee,
		Aggressive:  true,
		BaseValue:   -100,
		DrivingStat: combat.StatAttack,
	}
}

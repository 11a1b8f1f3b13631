package script

import (
	"fmt"

	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
	lua "github.com/yuin/gopher-lua"
)

//Value returns a value callback calling fn(caster, args...) where args
//follow mode. fn returns the value and optionally the driving stat name.
func (h *Host) Value(fn string, mode combat.FormulaMode) combat.ValueCallback {
	return &valueScript{h: h, fn: fn, mode: mode}
}

//Tile returns a tile callback calling fn(caster, pos)
func (h *Host) Tile(fn string) combat.TileCallback {
	return &tileScript{h: h, fn: fn}
}

//Target returns a target callback calling fn(caster, target)
func (h *Host) Target(fn string) combat.TargetCallback {
	return &targetScript{h: h, fn: fn}
}

type valueScript struct {
	h    *Host
	fn   string
	mode combat.FormulaMode
}

func (v *valueScript) Value(caster combat.Creature) (float64, combat.CombatStat, error) {
	args, err := v.mode.Args(caster)
	if err != nil {
		return 0, combat.StatNone, err
	}
	largs := []lua.LValue{v.h.creature(caster)}
	for _, a := range args {
		largs = append(largs, lua.LNumber(a))
	}
	ret, err := v.h.call(v.fn, 2, largs...)
	if err != nil {
		return 0, combat.StatNone, err
	}

	n, ok := ret[0].(lua.LNumber)
	if !ok {
		return 0, combat.StatNone, fmt.Errorf("script %s: value is %s, not a number", v.fn, ret[0].Type())
	}
	stat := v.mode.DefaultStat()
	if s, ok := ret[1].(lua.LString); ok {
		st, ok := combat.StrToCombatStat(string(s))
		if !ok {
			return 0, combat.StatNone, fmt.Errorf("script %s: unknown stat %q", v.fn, string(s))
		}
		stat = st
	}
	return float64(n), stat, nil
}

type tileScript struct {
	h  *Host
	fn string
}

func (t *tileScript) OnTile(caster combat.Creature, pos combat.Position) error {
	_, err := t.h.call(t.fn, 0, t.h.creature(caster), t.h.position(pos))
	return err
}

type targetScript struct {
	h  *Host
	fn string
}

func (t *targetScript) OnTarget(caster, target combat.Creature) error {
	_, err := t.h.call(t.fn, 0, t.h.creature(caster), t.h.creature(target))
	return err
}

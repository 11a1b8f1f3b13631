package combat

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCallStackOverflow = errors.New("callback call stack overflow")
	ErrUnknownFormula    = errors.New("unknown formula mode")
)

//FormulaMode selects which caster values a value callback receives
type FormulaMode int

const (
	FormulaUndefined FormulaMode = iota
	FormulaValue                 //level, attack
	FormulaSpecial               //level, special attack
	FormulaDefense               //level, attack, defense
	FormulaSpecialDefense        //level, special attack, special defense
)

var formulaModeString = [...]string{"undefined", "value", "special", "defense", "special_defense"}

func (f FormulaMode) String() string {
	if f < 0 || int(f) >= len(formulaModeString) {
		return "unknown"
	}
	return formulaModeString[f]
}

func StrToFormulaMode(s string) (FormulaMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, v := range formulaModeString {
		if i > 0 && v == s {
			return FormulaMode(i), nil
		}
	}
	return FormulaUndefined, fmt.Errorf("%w: %q", ErrUnknownFormula, s)
}

//DefaultStat is the driving stat reported when the callback names none
func (f FormulaMode) DefaultStat() CombatStat {
	switch f {
	case FormulaValue:
		return StatAttack
	case FormulaSpecial:
		return StatSpecialAttack
	case FormulaDefense:
		return StatDefense
	case FormulaSpecialDefense:
		return StatSpecialDefense
	}
	return StatNone
}

//Args lists the values passed to a callback in this mode
func (f FormulaMode) Args(c Creature) ([]float64, error) {
	lvl := float64(c.Level())
	st := c.Stats()
	switch f {
	case FormulaValue:
		return []float64{lvl, st.Attack}, nil
	case FormulaSpecial:
		return []float64{lvl, st.SpecialAttack}, nil
	case FormulaDefense:
		return []float64{lvl, st.Attack, st.Defense}, nil
	case FormulaSpecialDefense:
		return []float64{lvl, st.SpecialAttack, st.SpecialDefense}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormula, int(f))
}

//ValueCallback computes the base value of a combat for caster
type ValueCallback interface {
	Value(caster Creature) (float64, CombatStat, error)
}

//TileCallback runs once for every tile an area combat touches
type TileCallback interface {
	OnTile(caster Creature, pos Position) error
}

//TargetCallback runs once for every creature a combat affected
type TargetCallback interface {
	OnTarget(caster, target Creature) error
}

//ValueFunc, TileFunc and TargetFunc adapt plain functions to the ports
type (
	ValueFunc  func(caster Creature) (float64, CombatStat, error)
	TileFunc   func(caster Creature, pos Position) error
	TargetFunc func(caster, target Creature) error
)

func (f ValueFunc) Value(c Creature) (float64, CombatStat, error) { return f(c) }
func (f TileFunc) OnTile(c Creature, p Position) error            { return f(c, p) }
func (f TargetFunc) OnTarget(c Creature, t Creature) error        { return f(c, t) }

//callGuard bounds callback nesting. A callback may start another combat,
//which may run callbacks again; past max the inner call is refused.
type callGuard struct {
	depth int
	max   int
}

func (g *callGuard) acquire() bool {
	if g.depth >= g.max {
		return false
	}
	g.depth++
	return true
}

func (g *callGuard) release() {
	if g.depth > 0 {
		g.depth--
	}
}

//Depth is the number of callbacks currently on the stack
func (e *Engine) Depth() int {
	return e.guard.depth
}

func (e *Engine) guarded(name string, f func() error) error {
	e.guard.max = e.Config.MaxCallDepth
	if e.guard.max <= 0 {
		e.guard.max = defaultMaxCallDepth
	}
	if !e.guard.acquire() {
		e.Log.Warnw("callback skipped", "callback", name, "depth", e.guard.depth, "err", ErrCallStackOverflow)
		return ErrCallStackOverflow
	}
	defer e.guard.release()
	if err := protect(f); err != nil {
		e.Log.Warnw("callback failed", "callback", name, "err", err)
		return err
	}
	return nil
}

//callValue returns ok false if the callback was skipped or failed, in which
//case the value is unset
func (e *Engine) callValue(cb ValueCallback, caster Creature) (float64, CombatStat, bool) {
	var v float64
	var st CombatStat
	err := e.guarded("value", func() error {
		var err error
		v, st, err = cb.Value(caster)
		return err
	})
	if err != nil {
		return 0, StatNone, false
	}
	return v, st, true
}

func (e *Engine) callTile(cb TileCallback, caster Creature, pos Position) {
	e.guarded("tile", func() error {
		return cb.OnTile(caster, pos)
	})
}

func (e *Engine) callTarget(cb TargetCallback, caster, target Creature) {
	e.guarded("target", func() error {
		return cb.OnTarget(caster, target)
	})
}

//protect turns a panicking callback into an error
func protect(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panic: %v", r)
		}
	}()
	return f()
}

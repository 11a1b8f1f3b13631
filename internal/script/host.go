//Package script runs combat callbacks written in Lua. One Host owns one
//interpreter; like the engine it is driven from a single goroutine.
package script

import (
	"context"
	"fmt"
	"time"

	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

type Options struct {
	CallStackSize int
	Timeout       time.Duration //per outermost call, 0 for none
}

type Host struct {
	Log *zap.SugaredLogger
	L   *lua.LState

	timeout time.Duration
	depth   int

	engine  *combat.Engine
	combats func(name string) *combat.Combat
}

func New(log *zap.SugaredLogger, opt Options) *Host {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &Host{
		Log:     log,
		L:       lua.NewState(lua.Options{CallStackSize: opt.CallStackSize}),
		timeout: opt.Timeout,
	}
	h.L.SetGlobal("cast", h.L.NewFunction(h.luaCast))
	h.L.SetGlobal("cast_at", h.L.NewFunction(h.luaCastAt))
	h.L.SetGlobal("depth", h.L.NewFunction(h.luaDepth))
	h.L.SetGlobal("log", h.L.NewFunction(h.luaLog))
	return h
}

func (h *Host) Close() {
	h.L.Close()
}

//Bind gives scripts access to the engine; lookup resolves combat names for
//cast and cast_at
func (h *Host) Bind(e *combat.Engine, lookup func(name string) *combat.Combat) {
	h.engine = e
	h.combats = lookup
}

func (h *Host) LoadFile(path string) error {
	if err := h.L.DoFile(path); err != nil {
		return fmt.Errorf("load script %s: %w", path, err)
	}
	h.Log.Debugw("script loaded", "path", path)
	return nil
}

func (h *Host) LoadString(src string) error {
	if err := h.L.DoString(src); err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	return nil
}

//Has reports whether a global function fn is defined
func (h *Host) Has(fn string) bool {
	return h.L.GetGlobal(fn).Type() == lua.LTFunction
}

func (h *Host) call(fn string, nret int, args ...lua.LValue) ([]lua.LValue, error) {
	f := h.L.GetGlobal(fn)
	if f.Type() != lua.LTFunction {
		return nil, fmt.Errorf("script function %q is not defined", fn)
	}
	if h.depth == 0 && h.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		h.L.SetContext(ctx)
		defer h.L.RemoveContext()
	}
	h.depth++
	defer func() { h.depth-- }()

	top := h.L.GetTop()
	if err := h.L.CallByParam(lua.P{Fn: f, NRet: nret, Protect: true}, args...); err != nil {
		h.L.SetTop(top)
		return nil, fmt.Errorf("script %s: %w", fn, err)
	}
	ret := make([]lua.LValue, nret)
	for i := range ret {
		ret[i] = h.L.Get(top + 1 + i)
	}
	h.L.SetTop(top)
	return ret, nil
}

func (h *Host) position(p combat.Position) *lua.LTable {
	t := h.L.NewTable()
	t.RawSetString("x", lua.LNumber(p.X))
	t.RawSetString("y", lua.LNumber(p.Y))
	t.RawSetString("z", lua.LNumber(p.Z))
	return t
}

func (h *Host) creature(c combat.Creature) lua.LValue {
	if c == nil {
		return lua.LNil
	}
	st := c.Stats()
	t := h.L.NewTable()
	t.RawSetString("id", lua.LNumber(c.ID()))
	t.RawSetString("name", lua.LString(c.Name()))
	t.RawSetString("kind", lua.LString(c.Kind().String()))
	t.RawSetString("level", lua.LNumber(c.Level()))
	t.RawSetString("attack", lua.LNumber(st.Attack))
	t.RawSetString("special_attack", lua.LNumber(st.SpecialAttack))
	t.RawSetString("defense", lua.LNumber(st.Defense))
	t.RawSetString("special_defense", lua.LNumber(st.SpecialDefense))
	t.RawSetString("pos", h.position(c.Position()))
	return t
}

func (h *Host) lookup(L *lua.LState) (*combat.Combat, combat.Creature) {
	if h.engine == nil || h.combats == nil {
		L.RaiseError("no engine bound")
		return nil, nil
	}
	name := L.CheckString(1)
	c := h.combats(name)
	if c == nil {
		L.ArgError(1, fmt.Sprintf("unknown combat %q", name))
		return nil, nil
	}
	var caster combat.Creature
	if id := L.CheckInt(2); id != 0 {
		caster = h.engine.World.Creature(uint32(id))
	}
	return c, caster
}

//cast(name, caster_id, target_id)
func (h *Host) luaCast(L *lua.LState) int {
	c, caster := h.lookup(L)
	target := h.engine.World.Creature(uint32(L.CheckInt(3)))
	if target == nil {
		L.Push(lua.LFalse)
		return 1
	}
	h.engine.Execute(c, caster, target)
	L.Push(lua.LTrue)
	return 1
}

//cast_at(name, caster_id, x, y, z)
func (h *Host) luaCastAt(L *lua.LState) int {
	c, caster := h.lookup(L)
	pos := combat.Position{X: L.CheckInt(3), Y: L.CheckInt(4), Z: L.CheckInt(5)}
	if c.Area != nil {
		h.engine.DoAreaCombat(c, caster, pos)
		L.Push(lua.LTrue)
		return 1
	}
	target := h.engine.World.Tile(pos).TopCreature()
	if target == nil {
		L.Push(lua.LFalse)
		return 1
	}
	h.engine.DoCombat(c, caster, target)
	L.Push(lua.LTrue)
	return 1
}

func (h *Host) luaDepth(L *lua.LState) int {
	d := 0
	if h.engine != nil {
		d = h.engine.Depth()
	}
	L.Push(lua.LNumber(d))
	return 1
}

func (h *Host) luaLog(L *lua.LState) int {
	h.Log.Infow("script", "msg", L.CheckString(1))
	return 0
}

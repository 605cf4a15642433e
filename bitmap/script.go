package bitmap

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/flavioheleno/udc/fx"
	"github.com/flavioheleno/udc/hsv"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
)

var errNoRender = errors.New("bitmap: script does not define render(t, n)")

// Script is a generator written in Lua.
//
// The script defines render(t, n), called once per frame with the timestamp in
// microseconds and the number of LEDs. It paints with set(led, r, g, b), LEDs
// numbered from 0, and may use hue(deg) which returns r, g, b. Only the base,
// math, string and table libraries are available, without dofile and
// loadfile, so a script cannot read files.
//
// A Script is not safe for concurrent use. It stops rendering after the first
// runtime error, which Err returns.
type Script struct {
	L      *lua.LState
	render lua.LValue
	dst    *pixbuf.RGB
	m      *ledmap.Map
	err    error
}

// NewScript compiles and runs src, which must define render.
func NewScript(src string) (*Script, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.MathLibName, lua.OpenMath},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("bitmap: script: %w", err)
		}
	}
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
	s := &Script{L: L}
	L.SetGlobal("set", L.NewFunction(s.luaSet))
	L.SetGlobal("hue", L.NewFunction(luaHue))
	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("bitmap: script: %w", err)
	}
	s.render = L.GetGlobal("render")
	if s.render.Type() != lua.LTFunction {
		L.Close()
		return nil, errNoRender
	}
	return s, nil
}

// Generate implements Generator.
func (s *Script) Generate(t int64, dst *pixbuf.RGB, m *ledmap.Map) {
	if s.err != nil {
		return
	}
	s.dst, s.m = dst, m
	defer func() { s.dst, s.m = nil, nil }()
	err := s.L.CallByParam(lua.P{Fn: s.render, NRet: 0, Protect: true}, lua.LNumber(t), lua.LNumber(m.Len()))
	if err != nil {
		s.err = fmt.Errorf("bitmap: script: %w", err)
	}
}

// Err returns the runtime error that stopped the script, if any.
func (s *Script) Err() error {
	return s.err
}

// Close releases the interpreter.
func (s *Script) Close() {
	s.L.Close()
}

func (s *Script) luaSet(L *lua.LState) int {
	led := L.CheckInt(1)
	c := hsv.RGB{R: channel(L, 2), G: channel(L, 3), B: channel(L, 4)}
	if s.dst != nil && s.m != nil {
		s.dst.SetOffset(s.m.Offset(led), c)
	}
	return 0
}

func luaHue(L *lua.LState) int {
	deg := float64(L.CheckNumber(1))
	c := hsv.Hue(fx.FromFloat(deg))
	L.Push(lua.LNumber(c.R))
	L.Push(lua.LNumber(c.G))
	L.Push(lua.LNumber(c.B))
	return 3
}

func channel(L *lua.LState, n int) uint8 {
	return uint8(min(max(L.CheckInt(n), 0), 255))
}

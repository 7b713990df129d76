package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the engine table into L:
//
//	engine.log(msg)          -- debug log tagged with the scope
//	engine.clamp(v, lo, hi)  -- numeric clamp
func (m *Manager) RegisterModules(L *lua.LState, scope string) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("lua", zap.String("scope", scope), zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetField(engine, "clamp", L.NewFunction(func(L *lua.LState) int {
		v, lo, hi := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3)
		switch {
		case v < lo:
			v = lo
		case v > hi:
			v = hi
		}
		L.Push(v)
		return 1
	}))
	L.SetGlobal("engine", engine)
}

package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/qhauntz/internal/game/dice"
)

// RegisterModules registers the engine.log and engine.dice tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.newLogModule(L))
	L.SetField(engine, "dice", m.newDiceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) newLogModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, logFn := range levels {
		logFn := logFn // per-iteration copy; go.mod targets go1.21 loop semantics
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			logFn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) newDiceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// engine.dice.roll(expr) -> total
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.RaiseError("engine.dice.roll: %s", err.Error())
			return 0
		}
		L.Push(lua.LNumber(res.Total()))
		return 1
	}))
	// engine.dice.fate() -> 4dF total
	L.SetField(mod, "fate", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.Roll(dice.FourDF)
		if err != nil {
			L.RaiseError("engine.dice.fate: %s", err.Error())
			return 0
		}
		L.Push(lua.LNumber(res.Total()))
		return 1
	}))
	return mod
}

package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/qhauntz/internal/game/dice"
	"github.com/cory-johannsen/qhauntz/internal/scripting"
)

func runScript(t testing.TB, mgr *scripting.Manager, luaSrc, hook string, args ...lua.LValue) lua.LValue {
	t.Helper()
	dir := writeTempLua(t, "test.lua", luaSrc)
	require.NoError(t, mgr.Load(dir, 0))
	ret, err := mgr.CallHook(hook, args...)
	require.NoError(t, err)
	return ret
}

func TestEngineLog_AllLevels(t *testing.T) {
	mgr, logs := newTestManager(t)
	runScript(t, mgr, `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_all_logs")

	for msg, level := range map[string]zapcore.Level{
		"d": zap.DebugLevel,
		"i": zap.InfoLevel,
		"w": zap.WarnLevel,
		"e": zap.ErrorLevel,
	} {
		entries := logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, "message %q", msg)
		assert.Equal(t, level, entries[0].Level)
		assert.Equal(t, "lua", entries[0].ContextMap()["source"])
	}
}

func TestEngineDice_RollUsesRoller(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(dice.NewSequenceSource(dice.FateFaces(1, 1, 1, 0)...), logger)
	mgr := scripting.NewManager(roller, logger)
	t.Cleanup(mgr.Close)

	ret := runScript(t, mgr, `function roll_it() return engine.dice.fate() end`, "roll_it")
	assert.Equal(t, lua.LNumber(3), ret)
	assert.Equal(t, 1, logs.FilterMessage("dice roll").Len())
}

func TestEngineDice_RollBadExpression_RaisesIntoWarn(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret := runScript(t, mgr, `function roll_it() return engine.dice.roll("banana") end`, "roll_it")
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestProperty_EngineDiceRoll_InRange(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "roll.lua", `function roll_it(expr) return engine.dice.roll(expr) end`)
	require.NoError(t, mgr.Load(dir, 0))
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "count")
		expr := rapid.SampledFrom([]string{"dF", "d6"}).Draw(rt, "die")
		full := lua.LString(string(rune('0'+n)) + expr)
		ret, err := mgr.CallHook("roll_it", full)
		require.NoError(rt, err)
		v := int(ret.(lua.LNumber))
		if expr == "dF" {
			assert.GreaterOrEqual(rt, v, -n)
			assert.LessOrEqual(rt, v, n)
		} else {
			assert.GreaterOrEqual(rt, v, n)
			assert.LessOrEqual(rt, v, 6*n)
		}
	})
}

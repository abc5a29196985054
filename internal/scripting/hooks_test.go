package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/qhauntz/internal/game/character"
	"github.com/cory-johannsen/qhauntz/internal/game/combat"
	"github.com/cory-johannsen/qhauntz/internal/game/stress"
	"github.com/cory-johannsen/qhauntz/internal/scripting"
)

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

const recordingScript = `
	last = ""
	function on_taken_out(sheet, a)
		last = sheet.id .. ":" .. a.category .. ":" .. a.leftover .. ":" .. (sheet.consequences.Resolve or "-")
	end
	function on_misfire(sheet, hit)
		last = sheet.name .. ":" .. hit.outcome .. ":" .. hit.self_damage
	end
	function on_overcharge(sheet, hit)
		last = hit.skill .. ":" .. hit.outcome .. ":" .. hit.raw
		return "boosted"
	end
	function get_last() return last end
`

func hookSheet(t *testing.T) *character.Sheet {
	t.Helper()
	aether, err := stress.NewTrack(1, 2, 3)
	require.NoError(t, err)
	return &character.Sheet{
		ID:     "sheet-7",
		Name:   "Ivo",
		Skills: map[string]int{"Conjuration": 0},
		Aether: *aether,
	}
}

func scriptedEngine(t *testing.T) (*combat.Engine, *scripting.Manager, func() string) {
	t.Helper()
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load(writeTempLua(t, "record.lua", recordingScript), 0))
	last := func() string {
		ret, err := mgr.CallHook("get_last")
		require.NoError(t, err)
		return lua.LVAsString(ret)
	}
	return combat.NewEngine(combat.DefaultRules(), zap.NewNop(), combat.WithHooks(mgr)), mgr, last
}

func TestHooks_TakenOutReachesScript(t *testing.T) {
	engine, _, last := scriptedEngine(t)
	sheet := hookSheet(t)

	a, err := engine.ApplyDamage(sheet, 5, stress.Resolve)
	require.NoError(t, err)
	require.True(t, a.TakenOut)
	assert.Equal(t, "sheet-7:Resolve:3:"+stress.DefaultLabel(stress.Resolve), last())
}

func TestHooks_MisfireReachesScript(t *testing.T) {
	engine, _, last := scriptedEngine(t)
	hit, err := engine.ResolveHit(hookSheet(t), "Conjuration", -6)
	require.NoError(t, err)
	require.Equal(t, combat.Misfire, hit.Outcome)
	assert.Equal(t, "Ivo:misfire:3", last())
}

func TestHooks_OverchargeReachesScriptAndLogsEffect(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.Load(writeTempLua(t, "record.lua", recordingScript), 0))
	engine := combat.NewEngine(combat.DefaultRules(), zap.NewNop(), combat.WithHooks(mgr))

	hit, err := engine.ResolveHit(hookSheet(t), "Conjuration", 4)
	require.NoError(t, err)
	require.Equal(t, combat.CritStyle, hit.Outcome)

	ret, err := mgr.CallHook("get_last")
	require.NoError(t, err)
	assert.Equal(t, "Conjuration:crit with style:4", lua.LVAsString(ret))

	effects := logs.FilterMessage("scripting: hook effect").All()
	require.Len(t, effects, 1)
	assert.Equal(t, scripting.HookOvercharge, effects[0].ContextMap()["hook"])
	assert.Equal(t, "boosted", effects[0].ContextMap()["effect"])
}

func TestHooks_ShippedScriptsLoadAndReport(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.Load(filepath.Join(repoRoot(t), "content", "scripts"), 0))
	engine := combat.NewEngine(combat.DefaultRules(), zap.NewNop(), combat.WithHooks(mgr))
	sheet := hookSheet(t)

	_, err := engine.ApplyDamage(sheet, 9, stress.Endurance)
	require.NoError(t, err)
	_, err = engine.ResolveHit(sheet, "Conjuration", -5)
	require.NoError(t, err)
	_, err = engine.ResolveHit(sheet, "Conjuration", 4)
	require.NoError(t, err)

	hooks := map[string]bool{}
	for _, e := range logs.FilterMessage("scripting: hook effect").All() {
		hooks[e.ContextMap()["hook"].(string)] = true
	}
	assert.True(t, hooks[scripting.HookTakenOut])
	assert.True(t, hooks[scripting.HookMisfire])
	assert.True(t, hooks[scripting.HookOvercharge])
	assert.Zero(t, logs.FilterMessage("scripting: Lua runtime error").Len())
}

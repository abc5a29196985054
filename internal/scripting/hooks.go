package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/qhauntz/internal/game/character"
	"github.com/cory-johannsen/qhauntz/internal/game/combat"
)

// Hook names a loaded script may define. Each receives a read-only snapshot
// of the sheet and the outcome; a string return value is logged as the
// hook's effect.
const (
	HookTakenOut   = "on_taken_out"
	HookMisfire    = "on_misfire"
	HookOvercharge = "on_overcharge"
)

var _ combat.Hooks = (*Manager)(nil)

// TakenOut dispatches on_taken_out(sheet, absorption).
func (m *Manager) TakenOut(sheet *character.Sheet, a combat.Absorption) {
	m.notify(HookTakenOut, sheet, func(L *lua.LState) *lua.LTable {
		t := L.NewTable()
		L.SetField(t, "damage", lua.LNumber(a.Damage))
		L.SetField(t, "category", lua.LString(a.Category.String()))
		L.SetField(t, "stage", lua.LString(a.Stage.String()))
		L.SetField(t, "leftover", lua.LNumber(a.Leftover))
		return t
	})
}

// Misfire dispatches on_misfire(sheet, hit).
func (m *Manager) Misfire(sheet *character.Sheet, hit combat.HitResult) {
	m.notify(HookMisfire, sheet, hitTable(hit))
}

// Overcharge dispatches on_overcharge(sheet, hit).
func (m *Manager) Overcharge(sheet *character.Sheet, hit combat.HitResult) {
	m.notify(HookOvercharge, sheet, hitTable(hit))
}

func (m *Manager) notify(hook string, sheet *character.Sheet, outcome func(L *lua.LState) *lua.LTable) {
	ret, _ := m.call(hook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{sheetTable(L, sheet), outcome(L)}
	})
	if s, ok := ret.(lua.LString); ok && s != "" {
		m.logger.Info("scripting: hook effect",
			zap.String("hook", hook),
			zap.String("sheet", sheet.ID),
			zap.String("effect", string(s)),
		)
	}
}

func hitTable(hit combat.HitResult) func(L *lua.LState) *lua.LTable {
	return func(L *lua.LState) *lua.LTable {
		t := L.NewTable()
		L.SetField(t, "skill", lua.LString(hit.Skill))
		L.SetField(t, "bonus", lua.LNumber(hit.Bonus))
		L.SetField(t, "roll", lua.LNumber(hit.Roll))
		L.SetField(t, "raw", lua.LNumber(hit.Raw))
		L.SetField(t, "outcome", lua.LString(hit.Outcome.String()))
		L.SetField(t, "self_damage", lua.LNumber(hit.SelfDamage))
		return t
	}
}

func sheetTable(L *lua.LState, sheet *character.Sheet) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(sheet.ID))
	L.SetField(t, "name", lua.LString(sheet.Name))
	L.SetField(t, "guild", lua.LString(sheet.Guild))
	L.SetField(t, "status", lua.LString(sheet.Status.String()))
	L.SetField(t, "affinity", lua.LString(sheet.Affinity.Name))
	L.SetField(t, "fate_points", lua.LNumber(sheet.FatePoints))
	consequences := L.NewTable()
	for _, cat := range sheet.Consequences.Occupied() {
		L.SetField(consequences, cat.String(), lua.LString(sheet.Consequences.Label(cat)))
	}
	L.SetField(t, "consequences", consequences)
	return t
}

package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/qhauntz/internal/game/dice"
)

// Manager owns one sandboxed LState holding every loaded hook script and
// exposes hook dispatch.
//
// An LState is single-threaded, so every call into the VM holds mu.
type Manager struct {
	mu        sync.Mutex
	state     *lua.LState
	cancel    context.CancelFunc
	instLimit int
	roller    *dice.Roller
	logger    *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting: NewManager requires a non-nil roller")
	}
	if logger == nil {
		panic("scripting: NewManager requires a non-nil logger")
	}
	return &Manager{roller: roller, logger: logger}
}

// Load creates a fresh sandboxed VM, registers the engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order. On success the
// new VM replaces any previously loaded one.
//
// Precondition: scriptDir must be a readable directory; instLimit >= 0.
// Postcondition: Returns error on a read or Lua load failure, leaving the previous VM in place.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	cancel()

	m.mu.Lock()
	m.closeLocked()
	m.state = L
	m.instLimit = instLimit
	m.mu.Unlock()

	m.logger.Info("scripting: hooks loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Loaded reports whether a VM is present.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != nil
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if the
// hook is not defined or no VM is loaded. Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.call(hook, func(*lua.LState) []lua.LValue { return args })
}

// call runs hook with arguments built by args while holding the VM lock,
// so argument tables can be allocated on the VM's own state.
func (m *Manager) call(hook string, args func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L := m.state
	if L == nil {
		m.logger.Info("scripting: no VM loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	m.cancel = SetInstructionBudget(L, m.instLimit)
	defer func() {
		m.cancel()
		m.cancel = nil
	}()

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args(L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases the VM. CallHook after Close is a no-op.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Manager) closeLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

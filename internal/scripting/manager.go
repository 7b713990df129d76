package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// globalScope is the fallback VM consulted when a scope has none of its own.
const globalScope = "__global__"

type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per scope ("boss", "usage", ...) and
// dispatches hook calls.
//
// Manager is safe for concurrent use; calls into one scope are serialized.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	logger *zap.Logger
}

// NewManager creates a Manager with no scopes loaded.
//
// Precondition: logger is non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{vms: make(map[string]*vm), logger: logger}
}

// LoadScope creates a VM for scope, registers the engine module and runs
// every *.lua file in dir in lexicographic order.
func (m *Manager) LoadScope(scope, dir string, instLimit int) error {
	return m.loadInto(scope, dir, instLimit)
}

// LoadGlobal loads dir into the fallback VM.
func (m *Manager) LoadGlobal(dir string, instLimit int) error {
	return m.loadInto(globalScope, dir, instLimit)
}

// LoadString loads src into scope. Useful for embedded or test scripts.
func (m *Manager) LoadString(scope, src string, instLimit int) error {
	L := NewSandboxedState()
	m.RegisterModules(L, scope)
	if err := withBudget(L, instLimit, func() error { return L.DoString(src) }); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading source for %q: %w", scope, err)
	}
	m.install(scope, L, instLimit)
	return nil
}

func (m *Manager) loadInto(scope, dir string, instLimit int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", dir, scope, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	L := NewSandboxedState()
	m.RegisterModules(L, scope)
	for _, path := range files {
		if err := withBudget(L, instLimit, func() error { return L.DoFile(path) }); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, scope, err)
		}
	}
	m.install(scope, L, instLimit)
	m.logger.Debug("scripting: scope loaded", zap.String("scope", scope), zap.Int("files", len(files)))
	return nil
}

func (m *Manager) install(scope string, L *lua.LState, limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.vms[scope]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[scope] = &vm{L: L, limit: limit}
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, k)
	}
}

// CallHook calls the global Lua function hook in scope's VM, falling back
// to the global VM. Returns (LNil, nil) when no VM or no such function
// exists. Runtime errors, including an exhausted instruction budget, are
// logged at Warn and returned.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[scope]
	if !ok {
		v = m.vms[globalScope]
	}
	m.mu.RUnlock()
	if v == nil {
		m.logger.Debug("scripting: no VM for scope", zap.String("scope", scope), zap.String("hook", hook))
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	err := withBudget(v.L, v.limit, func() error {
		return v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("scripting: %s/%s: %w", scope, hook, err)
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

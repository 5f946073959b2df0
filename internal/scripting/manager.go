package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Manager owns one sandboxed LState per boss script and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all Load calls complete. Each
// script's LState is single-threaded; the read lock serializes concurrent
// calls to the same script while allowing different scripts to run
// concurrently.
type Manager struct {
	mu      sync.RWMutex
	states  map[string]*lua.LState
	cancels map[string]context.CancelFunc
	logger  *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty script map.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]context.CancelFunc),
		logger:  logger,
	}
}

// LoadDirectory loads every *.lua file in dir into its own sandboxed VM. The
// script ID is the file name without the .lua extension.
//
// Precondition: dir must be a readable directory.
// Postcondition: One VM per script is registered; returns error on the first
// Lua load failure.
func (m *Manager) LoadDirectory(dir string, instLimit int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".lua")
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("scripting: reading %q: %w", e.Name(), err)
		}
		if err := m.LoadScript(id, string(data), instLimit); err != nil {
			return err
		}
	}
	return nil
}

// LoadScript compiles source into a fresh sandboxed VM registered under id,
// replacing any existing VM with that id.
//
// Precondition: id must be non-empty.
// Postcondition: CallHook(id, ...) dispatches into the new VM.
func (m *Manager) LoadScript(id, source string, instLimit int) error {
	if id == "" {
		return fmt.Errorf("scripting: script id must not be empty")
	}
	L, cancel := NewSandboxedState(instLimit)
	if err := L.DoString(source); err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: loading script %q: %w", id, err)
	}

	m.mu.Lock()
	if old, ok := m.states[id]; ok {
		if oldCancel := m.cancels[id]; oldCancel != nil {
			oldCancel()
		}
		old.Close()
	}
	m.states[id] = L
	m.cancels[id] = cancel
	m.mu.Unlock()
	return nil
}

// Has reports whether a VM is registered for the given script id.
func (m *Manager) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.states[id]
	return ok
}

// CallHook calls the named Lua global function in the script's VM. Returns
// (LNil, nil) if the script or the hook is not defined. Lua runtime errors
// are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scriptID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	L, ok := m.states[scriptID]
	m.mu.RUnlock()

	if !ok {
		return lua.LNil, nil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", scriptID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close shuts down every VM. The Manager must not be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, L := range m.states {
		if cancel := m.cancels[id]; cancel != nil {
			cancel()
		}
		L.Close()
		delete(m.states, id)
		delete(m.cancels, id)
	}
}

package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/game/dice"
	"github.com/HexColors60/RadMud/internal/game/engine"
	"github.com/HexColors60/RadMud/internal/game/world"
)

// hooks maps each event to the global Lua function that handles it.
var hooks = map[engine.Event]string{
	engine.EventEnter:  "on_enter",
	engine.EventExit:   "on_exit",
	engine.EventHourly: "on_hourly",
	engine.EventDeath:  "on_death",
}

// Manager owns one sandboxed LState per behaviour script and implements
// engine.Behavior.
//
// Manager is safe for concurrent use; invocations are serialised.
type Manager struct {
	mu     sync.Mutex
	states map[string]*lua.LState
	limit  int
	roller *dice.Roller
	logger *zap.Logger

	// pending collects the effects queued by the running hook.
	pending []engine.Effect
}

// NewManager creates a Manager with an instruction limit per invocation.
//
// Precondition: roller and logger must be non-nil; limit <= 0 uses
// DefaultInstructionLimit.
func NewManager(limit int, roller *dice.Roller, logger *zap.Logger) *Manager {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	return &Manager{
		states: make(map[string]*lua.LState),
		limit:  limit,
		roller: roller,
		logger: logger,
	}
}

// LoadDir loads every *.lua file in dir in lexicographic order. Each file
// becomes the script named after its base name without extension.
//
// Postcondition: Returns the number of scripts loaded, or the first error.
func (m *Manager) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, name := range files {
		src, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return 0, fmt.Errorf("scripting: reading %q: %w", name, err)
		}
		if err := m.Load(strings.TrimSuffix(name, ".lua"), string(src)); err != nil {
			return 0, err
		}
	}
	m.logger.Info("behaviour scripts loaded", zap.String("dir", dir), zap.Int("count", len(files)))
	return len(files), nil
}

// Load compiles src as the script name, replacing any previous version.
//
// Postcondition: On error the previous version, if any, stays in place.
func (m *Manager) Load(name, src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	L := NewSandboxedState()
	m.registerModule(L)
	err := runBounded(context.Background(), L, m.limit, func() error { return L.DoString(src) })
	m.pending = nil
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	if old, ok := m.states[name]; ok {
		old.Close()
	}
	m.states[name] = L
	return nil
}

// Has reports whether script name is loaded.
func (m *Manager) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[name]
	return ok
}

// Invoke implements engine.Behavior. A missing script or hook yields no
// effects. Lua runtime errors, including exhausted budgets, are logged at
// Warn and discard the effects queued so far.
func (m *Manager) Invoke(ctx context.Context, event engine.Event, ec engine.EventContext) []engine.Effect {
	m.mu.Lock()
	defer m.mu.Unlock()
	L, ok := m.states[ec.Script]
	if !ok {
		m.logger.Debug("scripting: unknown script", zap.String("script", ec.Script))
		return nil
	}
	fn := L.GetGlobal(hooks[event])
	if fn == lua.LNil {
		return nil
	}

	m.pending = nil
	err := runBounded(ctx, L, m.limit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, eventTable(L, event, ec))
	})
	effects := m.pending
	m.pending = nil
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", ec.Script),
			zap.String("hook", hooks[event]),
			zap.Error(err),
		)
		return nil
	}
	return effects
}

// Close releases every state.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, L := range m.states {
		L.Close()
		delete(m.states, name)
	}
}

func eventTable(L *lua.LState, event engine.Event, ec engine.EventContext) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("event", lua.LString(event.String()))
	t.RawSetString("self", lua.LNumber(ec.Self))
	t.RawSetString("self_name", lua.LString(ec.SelfName))
	t.RawSetString("room", lua.LNumber(ec.Room))
	t.RawSetString("hour", lua.LNumber(ec.Hour))
	t.RawSetString("health", lua.LNumber(ec.Health))
	t.RawSetString("max_health", lua.LNumber(ec.MaxHealth))
	if ec.Other != 0 {
		t.RawSetString("other", lua.LNumber(ec.Other))
		t.RawSetString("other_name", lua.LString(ec.OtherName))
	}
	if ec.Direction != world.None {
		t.RawSetString("direction", lua.LString(string(ec.Direction)))
	}
	return t
}

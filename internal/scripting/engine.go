package scripting

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
)

// ErrNotAttached is raised inside Lua when a sim function is called before
// Attach.
var ErrNotAttached = errors.New("scripting: engine not attached to a context")

// Engine wraps a single gopher-lua VM. Single-goroutine access only: the
// VM is driven from Context.Update and must not be shared across contexts.
type Engine struct {
	vm    *lua.LState
	log   *zap.Logger
	ctx   *coresys.Context
	state ecs.Tag
}

// NewEngine creates a Lua engine, installs the sim table and loads every
// .lua file in dir. A missing dir loads nothing.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	e := New(log)
	if dir == "" {
		return e, nil
	}
	if err := e.loadDir(dir); err != nil {
		e.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// New creates an engine with no scripts loaded.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e := &Engine{vm: vm, log: log}
	e.openSim()
	return e
}

// loadDir loads all .lua files in a directory in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua source in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Attach points the sim table at ctx. state is the component tag whose
// *component.Script instances back sim.get and sim.set; NoTag disables them.
func (e *Engine) Attach(ctx *coresys.Context, state ecs.Tag) {
	e.ctx = ctx
	e.state = state
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// call invokes the global fn with args in protected mode. A missing global
// is not an error.
func (e *Engine) call(fn string, args ...lua.LValue) error {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{Fn: f, NRet: 0, Protect: true}, args...); err != nil {
		return fmt.Errorf("lua %s: %w", fn, err)
	}
	return nil
}

func (e *Engine) openSim() {
	sim := e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"add_entity":       e.luaAddEntity,
		"remove_entity":    e.luaRemoveEntity,
		"contains_entity":  e.luaContainsEntity,
		"mark_for_removal": e.luaMarkForRemoval,
		"entity_count":     e.luaEntityCount,
		"send_event":       e.luaSendEvent,
		"add_component":    e.luaAddComponent,
		"get":              e.luaGet,
		"set":              e.luaSet,
	})
	e.vm.SetGlobal("sim", sim)
}

func (e *Engine) attached(L *lua.LState) *coresys.Context {
	if e.ctx == nil {
		L.RaiseError("%s", ErrNotAttached.Error())
	}
	return e.ctx
}

// maxEntityNumber is the largest entity ID a Lua number holds exactly.
const maxEntityNumber = 1 << 53

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	v := float64(L.CheckNumber(n))
	if v < 0 || v > maxEntityNumber || v != math.Trunc(v) {
		L.ArgError(n, "entity id must be a non-negative integer")
	}
	return ecs.EntityID(v)
}

func (e *Engine) luaAddEntity(L *lua.LState) int {
	ctx := e.attached(L)
	L.Push(lua.LNumber(ctx.AddEntity()))
	return 1
}

func (e *Engine) luaRemoveEntity(L *lua.LState) int {
	ctx := e.attached(L)
	L.Push(lua.LBool(ctx.RemoveEntity(checkEntity(L, 1))))
	return 1
}

func (e *Engine) luaContainsEntity(L *lua.LState) int {
	ctx := e.attached(L)
	L.Push(lua.LBool(ctx.ContainsEntity(checkEntity(L, 1))))
	return 1
}

func (e *Engine) luaMarkForRemoval(L *lua.LState) int {
	ctx := e.attached(L)
	ctx.MarkForRemoval(checkEntity(L, 1))
	return 0
}

func (e *Engine) luaEntityCount(L *lua.LState) int {
	ctx := e.attached(L)
	L.Push(lua.LNumber(ctx.EntityCount()))
	return 1
}

// sim.send_event(kind, entity) dispatches synchronously; handler errors are
// raised back into Lua.
func (e *Engine) luaSendEvent(L *lua.LState) int {
	ctx := e.attached(L)
	ev := event.Event{
		Kind:     event.Kind(L.CheckInt(1)),
		EntityID: ecs.EntityID(L.OptNumber(2, 0)),
	}
	if err := ctx.SendEvent(ev); err != nil {
		L.RaiseError("send_event: %s", err.Error())
	}
	return 0
}

// sim.add_component(entity, type_name) returns true on success, or false
// and an error message.
func (e *Engine) luaAddComponent(L *lua.LState) int {
	ctx := e.attached(L)
	id := checkEntity(L, 1)
	name := L.CheckString(2)
	tag, ok := ctx.ComponentTypes().Lookup(name)
	if !ok {
		L.Push(lua.LFalse)
		L.Push(lua.LString(fmt.Sprintf("unknown component type %q", name)))
		return 2
	}
	if _, err := ctx.AddComponent(id, tag); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (e *Engine) script(L *lua.LState) *component.Script {
	ctx := e.attached(L)
	if e.state == ecs.NoTag {
		return nil
	}
	s, _ := ecs.FirstComponentAs[*component.Script](ctx.World, checkEntity(L, 1), e.state)
	return s
}

// sim.get(entity, key) reads a number from the entity's script state, or nil.
func (e *Engine) luaGet(L *lua.LState) int {
	s := e.script(L)
	key := L.CheckString(2)
	if s == nil {
		L.Push(lua.LNil)
		return 1
	}
	v, ok := s.State[key]
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v))
	return 1
}

// sim.set(entity, key, value) writes a number into the entity's script
// state and reports whether the entity had one.
func (e *Engine) luaSet(L *lua.LState) int {
	s := e.script(L)
	key := L.CheckString(2)
	v := float64(L.CheckNumber(3))
	if s == nil {
		L.Push(lua.LFalse)
		return 1
	}
	if s.State == nil {
		s.State = make(map[string]float64)
	}
	s.State[key] = v
	L.Push(lua.LTrue)
	return 1
}

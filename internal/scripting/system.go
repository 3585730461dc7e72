package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
)

// System forwards component updates and events to global Lua functions:
//
//	function on_update(entity, phase, delta) end
//	function on_event(kind, entity) end
//
// Either function may be absent. Lua errors are returned to the caller of
// Update or SendEvent.
type System struct {
	coresys.Base
	engine *Engine
	comp   ecs.Tag

	OnUpdate string
	OnEvent  string
}

// NewSystem creates a scripted system bound to the comp component tag.
func NewSystem(engine *Engine, comp ecs.Tag) *System {
	return &System{
		engine:   engine,
		comp:     comp,
		OnUpdate: "on_update",
		OnEvent:  "on_event",
	}
}

func (s *System) ComponentTag() ecs.Tag { return s.comp }

func (s *System) UpdateComponent(c ecs.Component, tick coresys.Tick) error {
	if !c.Live() {
		return nil
	}
	return s.engine.call(s.OnUpdate,
		lua.LNumber(c.Owner()),
		lua.LNumber(tick.Phase),
		lua.LNumber(tick.Delta.Seconds()),
	)
}

func (s *System) ReceiveEvent(ev event.Event) error {
	return s.engine.call(s.OnEvent, lua.LNumber(ev.Kind), lua.LNumber(ev.EntityID))
}

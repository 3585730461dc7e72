package system

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
)

// Context owns every entity, component and system of one simulation and
// drives its update ticks. It is an explicit handle: create one per
// simulation and pass it around.
//
// A Context is not safe for concurrent use. Systems may call any method
// from inside Update or an event handler, except Update itself.
type Context struct {
	*ecs.World
	types    *SystemTypes
	systems  *Registry
	cache    Cache
	bus      *event.Bus[System]
	log      *zap.Logger
	updating bool
}

// NewContext creates an empty context over the given type tables. A nil
// logger disables logging.
func NewContext(cfg config.SimConfig, components *ecs.ComponentTypes, systems *SystemTypes, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	limits := ecs.Limits{
		MaxComponents:          cfg.MaxComponents,
		MaxComponentsPerEntity: cfg.MaxComponentsPerEntity,
	}
	c := &Context{
		World: ecs.NewWorld(components, limits, cfg.EntityCapacity, cfg.ComponentCapacity, log),
		types: systems,
		log:   log,
	}
	c.systems = newRegistry(c, systems, components, cfg.MaxSystems)
	c.bus = event.NewBus[System](c.systems, c.owns, cfg.MaxEventDepth)
	return c
}

func (c *Context) owns(s System) bool { return s.base().ctx == c }

// SystemTypes returns the system type table.
func (c *Context) SystemTypes() *SystemTypes { return c.types }

// AddSystem binds s to this context under the variant tag. The system runs
// from the next Update on.
func (c *Context) AddSystem(tag ecs.Tag, s System) error {
	if err := c.systems.add(tag, s); err != nil {
		return err
	}
	if ce := c.log.Check(zap.DebugLevel, "system added"); ce != nil {
		ce.Write(
			zap.String("type", c.types.Name(tag)),
			zap.String("component", c.ComponentTypes().Name(s.ComponentTag())),
		)
	}
	return nil
}

// AddSystemOfType constructs a system through the factory table and adds it.
func (c *Context) AddSystemOfType(tag ecs.Tag) (System, error) {
	s, err := c.types.New(tag)
	if err != nil {
		return nil, err
	}
	if err := c.AddSystem(tag, s); err != nil {
		return nil, err
	}
	return s, nil
}

// RemoveSystem unregisters s, clearing its binding and cached view.
func (c *Context) RemoveSystem(s System) bool {
	if !c.systems.contains(s) {
		return false
	}
	tag := s.base().tag
	c.systems.remove(s)
	if ce := c.log.Check(zap.DebugLevel, "system removed"); ce != nil {
		ce.Write(zap.String("type", c.types.Name(tag)))
	}
	return true
}

// RemoveSystemsOfType removes every system whose variant is tag or a
// specialization of it.
func (c *Context) RemoveSystemsOfType(tag ecs.Tag) int {
	n := c.systems.removeOfType(tag)
	if n > 0 {
		if ce := c.log.Check(zap.DebugLevel, "systems removed"); ce != nil {
			ce.Write(zap.String("type", c.types.Name(tag)), zap.Int("count", n))
		}
	}
	return n
}

// RemoveSystemsWithComponentType removes every system bound to tag or a
// specialization of it.
func (c *Context) RemoveSystemsWithComponentType(tag ecs.Tag) int {
	n := c.systems.removeWithComponentType(tag)
	if n > 0 {
		if ce := c.log.Check(zap.DebugLevel, "systems removed"); ce != nil {
			ce.Write(zap.String("component", c.ComponentTypes().Name(tag)), zap.Int("count", n))
		}
	}
	return n
}

func (c *Context) ContainsSystem(s System) bool { return c.systems.contains(s) }

// FirstSystemOfType returns the first system, in registration order, whose
// variant is assignable to tag.
func (c *Context) FirstSystemOfType(tag ecs.Tag) System {
	return c.systems.firstOfType(tag)
}

// FirstSystemWithComponentType returns the first system bound to a
// component tag assignable to tag.
func (c *Context) FirstSystemWithComponentType(tag ecs.Tag) System {
	return c.systems.firstWithComponentType(tag)
}

func (c *Context) SystemCount() int { return c.systems.Len() }

// AllSystems yields the systems in registration order.
func (c *Context) AllSystems() iter.Seq[System] { return c.systems.all() }

// SendEvent delivers ev synchronously to every system, depth-first.
func (c *Context) SendEvent(ev event.Event) error {
	return c.bus.Dispatch(ev)
}

// PostEvent queues ev for delivery at the start of the next Update, after
// the caches are refreshed.
func (c *Context) PostEvent(ev event.Event) {
	c.bus.Post(ev)
}

// Add constructs the system registered under tag as T and adds it.
func Add[T System](c *Context, tag ecs.Tag) (T, error) {
	var zero T
	s, err := c.types.New(tag)
	if err != nil {
		return zero, err
	}
	typed, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("add system %s: factory built %T: %w", c.types.Name(tag), s, ecs.ErrConstructionFailure)
	}
	if err := c.AddSystem(tag, s); err != nil {
		return zero, err
	}
	return typed, nil
}

// FirstOfType returns the first system assignable to tag as T.
func FirstOfType[T System](c *Context, tag ecs.Tag) (T, bool) {
	t, ok := c.systems.firstOfType(tag).(T)
	return t, ok
}

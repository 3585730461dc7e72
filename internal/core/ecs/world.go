package ecs

import (
	"fmt"
	"iter"

	"go.uber.org/zap"
)

// World owns the entity registry and the component store for one
// simulation and keeps them consistent: removing an entity cascades into
// its components. It also keeps a deferred removal queue for systems that
// want entities to survive until the end of the tick.
type World struct {
	entities    *EntityRegistry
	components  *ComponentStore
	removeQueue []EntityID
	log         *zap.Logger
}

// NewWorld creates an empty world. A nil logger disables logging.
func NewWorld(types *ComponentTypes, limits Limits, entityCapacity, componentCapacity int, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	entities := NewEntityRegistry(entityCapacity)
	return &World{
		entities:    entities,
		components:  NewComponentStore(types, entities, limits, componentCapacity),
		removeQueue: make([]EntityID, 0, 64),
		log:         log,
	}
}

func (w *World) Entities() *EntityRegistry       { return w.entities }
func (w *World) Components() *ComponentStore     { return w.components }
func (w *World) ComponentTypes() *ComponentTypes { return w.components.types }

func (w *World) AddEntity() EntityID {
	id := w.entities.Add()
	if ce := w.log.Check(zap.DebugLevel, "entity added"); ce != nil {
		ce.Write(zap.Uint64("entity", uint64(id)))
	}
	return id
}

// RemoveEntity removes id and all of its components. It reports false if
// id was not live.
func (w *World) RemoveEntity(id EntityID) bool {
	n := w.components.CountOfEntity(id)
	if !w.entities.Remove(id) {
		return false
	}
	if ce := w.log.Check(zap.DebugLevel, "entity removed"); ce != nil {
		ce.Write(zap.Uint64("entity", uint64(id)), zap.Int("components", n))
	}
	return true
}

func (w *World) ContainsEntity(id EntityID) bool { return w.entities.Contains(id) }

func (w *World) EntityCount() int { return w.entities.Len() }

// AllEntities yields live entities in creation order.
func (w *World) AllEntities() iter.Seq[EntityID] { return w.entities.All() }

// MarkForRemoval queues id for removal at the next FlushRemovals.
func (w *World) MarkForRemoval(id EntityID) {
	w.removeQueue = append(w.removeQueue, id)
}

// FlushRemovals removes every queued entity and returns how many were
// still live.
func (w *World) FlushRemovals() int {
	n := 0
	for i := 0; i < len(w.removeQueue); i++ {
		if w.RemoveEntity(w.removeQueue[i]) {
			n++
		}
	}
	w.removeQueue = w.removeQueue[:0]
	return n
}

// PendingRemovals returns the number of queued removals.
func (w *World) PendingRemovals() int { return len(w.removeQueue) }

// AddComponent constructs a component of tag through the factory table and
// attaches it to entity.
func (w *World) AddComponent(entity EntityID, tag Tag) (Component, error) {
	c, err := w.components.Add(entity, tag)
	if err != nil {
		return nil, err
	}
	if ce := w.log.Check(zap.DebugLevel, "component added"); ce != nil {
		ce.Write(zap.Uint64("entity", uint64(entity)), zap.String("type", w.components.types.Name(tag)))
	}
	return c, nil
}

func (w *World) RemoveComponent(c Component) bool { return w.components.Remove(c) }

func (w *World) RemoveComponentsOfType(tag Tag) int {
	return w.components.RemoveComponentsOfType(tag)
}

func (w *World) RemoveComponentsOfEntity(entity EntityID) int {
	return w.components.RemoveComponentsOfEntity(entity)
}

func (w *World) RemoveComponentsOfTypeFromEntity(entity EntityID, tag Tag) int {
	return w.components.RemoveComponentsOfTypeFromEntity(entity, tag)
}

func (w *World) ContainsComponent(c Component) bool { return w.components.Contains(c) }

func (w *World) ComponentsOfType(tag Tag) iter.Seq[Component] {
	return w.components.ComponentsOfType(tag)
}

func (w *World) ComponentsOfEntity(entity EntityID) iter.Seq[Component] {
	return w.components.ComponentsOfEntity(entity)
}

// FirstComponentOfEntity returns entity's first component assignable to tag.
func (w *World) FirstComponentOfEntity(entity EntityID, tag Tag) Component {
	return w.components.FirstOfEntity(entity, tag)
}

func (w *World) AllComponents() iter.Seq[Component] { return w.components.All() }

func (w *World) ComponentCount() int { return w.components.Len() }

// AddComponentAs is AddComponent for callers that know the concrete type
// registered under tag. A factory producing another type is a
// construction failure and leaves nothing registered.
func AddComponentAs[T Component](w *World, entity EntityID, tag Tag) (T, error) {
	var zero T
	s := w.components
	if !s.entities.Contains(entity) {
		return zero, fmt.Errorf("add %s to entity %d: %w", s.types.Name(tag), entity, ErrInvalidEntity)
	}
	c, err := s.types.New(tag)
	if err != nil {
		return zero, err
	}
	typed, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("add %s to entity %d: factory built %T: %w", s.types.Name(tag), entity, c, ErrConstructionFailure)
	}
	if err := s.insert(entity, tag, c); err != nil {
		return zero, err
	}
	return typed, nil
}

// FirstComponentAs returns entity's first component assignable to tag as T.
func FirstComponentAs[T Component](w *World, entity EntityID, tag Tag) (T, bool) {
	t, ok := w.components.FirstOfEntity(entity, tag).(T)
	return t, ok
}

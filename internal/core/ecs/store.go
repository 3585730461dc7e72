package ecs

import (
	"fmt"
	"iter"

	"github.com/l1jgo/simcore/internal/core/slot"
)

// Limits caps the store. Zero means unlimited.
type Limits struct {
	MaxComponents          int
	MaxComponentsPerEntity int
}

// typeBucket holds every live component of one concrete tag. epoch changes
// on every insertion or removal so cached copies can detect staleness.
type typeBucket struct {
	slot.List[Component]
	epoch uint64
}

// ComponentStore owns all components and keeps three indices over them:
// the global set, one bucket per entity and one bucket per concrete tag.
// Every mutation updates all three before returning.
type ComponentStore struct {
	types    *ComponentTypes
	entities *EntityRegistry
	limits   Limits
	all      slot.List[Component]
	byEntity map[EntityID]*slot.List[Component]
	byType   []*typeBucket
}

// NewComponentStore creates a store validating owners against entities and
// registers it for cascade removal.
func NewComponentStore(types *ComponentTypes, entities *EntityRegistry, limits Limits, capacity int) *ComponentStore {
	if capacity < 0 {
		capacity = 0
	}
	s := &ComponentStore{
		types:    types,
		entities: entities,
		limits:   limits,
		byEntity: make(map[EntityID]*slot.List[Component], capacity),
		byType:   make([]*typeBucket, types.Len()+1),
	}
	entities.Register(s)
	return s
}

// Types returns the component type registry.
func (s *ComponentStore) Types() *ComponentTypes { return s.types }

// Add constructs a component of tag and attaches it to entity.
func (s *ComponentStore) Add(entity EntityID, tag Tag) (Component, error) {
	if !s.entities.Contains(entity) {
		return nil, fmt.Errorf("add %s to entity %d: %w", s.types.Name(tag), entity, ErrInvalidEntity)
	}
	c, err := s.types.New(tag)
	if err != nil {
		return nil, err
	}
	if err := s.insert(entity, tag, c); err != nil {
		return nil, err
	}
	return c, nil
}

// insert registers c in all three indices. A failure at any step unlinks
// whatever was already inserted, so the component is never partially
// visible.
func (s *ComponentStore) insert(entity EntityID, tag Tag, c Component) error {
	if IsNil(c) {
		return fmt.Errorf("add %s to entity %d: %w", s.types.Name(tag), entity, ErrNullArgument)
	}
	b := c.base()
	if b.owner != NoEntity || b.global != 0 {
		return fmt.Errorf("add %s to entity %d: %w", s.types.Name(tag), entity, ErrAlreadyOwned)
	}
	if s.limits.MaxComponents > 0 && s.all.Len() >= s.limits.MaxComponents {
		return fmt.Errorf("add %s to entity %d: %d components: %w",
			s.types.Name(tag), entity, s.all.Len(), ErrCapacityExceeded)
	}
	b.tag = tag
	b.owner = entity
	b.global = s.all.Add(c) + 1

	eb := s.byEntity[entity]
	if eb == nil {
		eb = &slot.List[Component]{}
		s.byEntity[entity] = eb
	}
	if n := eb.Len(); s.limits.MaxComponentsPerEntity > 0 && n >= s.limits.MaxComponentsPerEntity {
		s.unlink(c)
		if eb.Len() == 0 {
			delete(s.byEntity, entity)
		}
		return fmt.Errorf("add %s to entity %d: %d components on entity: %w",
			s.types.Name(tag), entity, n, ErrCapacityExceeded)
	}
	b.entity = eb.Add(c) + 1

	tb := s.bucket(tag)
	b.typ = tb.Add(c) + 1
	tb.epoch++
	return nil
}

func (s *ComponentStore) bucket(tag Tag) *typeBucket {
	for len(s.byType) <= int(tag) {
		s.byType = append(s.byType, nil)
	}
	tb := s.byType[tag]
	if tb == nil {
		tb = &typeBucket{}
		s.byType[tag] = tb
	}
	return tb
}

// unlink removes c from whichever indices it is in and clears its owner.
func (s *ComponentStore) unlink(c Component) {
	b := c.base()
	if b.typ != 0 {
		tb := s.byType[b.tag]
		tb.Remove(b.typ - 1)
		tb.epoch++
		b.typ = 0
		if tb.NeedsCompact() {
			tb.Compact(func(m Component, at int) { m.base().typ = at + 1 })
		}
	}
	if b.entity != 0 {
		if eb := s.byEntity[b.owner]; eb != nil {
			eb.Remove(b.entity - 1)
			if eb.Len() == 0 && !eb.Iterating() {
				delete(s.byEntity, b.owner)
			} else if eb.NeedsCompact() {
				eb.Compact(func(m Component, at int) { m.base().entity = at + 1 })
			}
		}
		b.entity = 0
	}
	if b.global != 0 {
		s.all.Remove(b.global - 1)
		b.global = 0
		if s.all.NeedsCompact() {
			s.all.Compact(func(m Component, at int) { m.base().global = at + 1 })
		}
	}
	b.owner = NoEntity
}

// Contains reports whether c is registered in this store.
func (s *ComponentStore) Contains(c Component) bool {
	if IsNil(c) {
		return false
	}
	b := c.base()
	return b.global != 0 && s.all.At(b.global-1) == c
}

// Remove unregisters c. Removing an unregistered component is a no-op.
func (s *ComponentStore) Remove(c Component) bool {
	if !s.Contains(c) {
		return false
	}
	s.unlink(c)
	return true
}

// RemoveComponentsOfType removes every component whose concrete tag is tag.
func (s *ComponentStore) RemoveComponentsOfType(tag Tag) int {
	if int(tag) >= len(s.byType) || s.byType[tag] == nil {
		return 0
	}
	tb := s.byType[tag]
	if tb.Len() == 0 {
		return 0
	}
	n := 0
	tb.Hold()
	for i := 0; i < tb.Cap(); i++ {
		if c := tb.At(i); c != nil {
			s.unlink(c)
			n++
		}
	}
	tb.Release()
	if tb.NeedsCompact() {
		tb.Compact(func(m Component, at int) { m.base().typ = at + 1 })
	}
	return n
}

// RemoveComponentsOfEntity removes every component owned by entity.
func (s *ComponentStore) RemoveComponentsOfEntity(entity EntityID) int {
	eb := s.byEntity[entity]
	if eb == nil {
		return 0
	}
	n := 0
	eb.Hold()
	for i := 0; i < eb.Cap(); i++ {
		if c := eb.At(i); c != nil {
			s.unlink(c)
			n++
		}
	}
	eb.Release()
	if eb.Len() == 0 {
		delete(s.byEntity, entity)
	}
	return n
}

// RemoveComponentsOfTypeFromEntity removes the components of entity whose
// concrete tag is tag.
func (s *ComponentStore) RemoveComponentsOfTypeFromEntity(entity EntityID, tag Tag) int {
	eb := s.byEntity[entity]
	if eb == nil {
		return 0
	}
	n := 0
	eb.Hold()
	for i := 0; i < eb.Cap(); i++ {
		if c := eb.At(i); c != nil && c.base().tag == tag {
			s.unlink(c)
			n++
		}
	}
	eb.Release()
	if eb.Len() == 0 {
		delete(s.byEntity, entity)
	} else if eb.NeedsCompact() {
		eb.Compact(func(m Component, at int) { m.base().entity = at + 1 })
	}
	return n
}

// ComponentsOfType yields the live components of concrete tag in insertion
// order. An unknown tag yields nothing.
func (s *ComponentStore) ComponentsOfType(tag Tag) iter.Seq[Component] {
	return func(yield func(Component) bool) {
		if int(tag) >= len(s.byType) || s.byType[tag] == nil {
			return
		}
		s.byType[tag].Each(yield)
	}
}

// ComponentsOfEntity yields the live components of entity.
func (s *ComponentStore) ComponentsOfEntity(entity EntityID) iter.Seq[Component] {
	return func(yield func(Component) bool) {
		if eb := s.byEntity[entity]; eb != nil {
			eb.Each(yield)
		}
	}
}

// All yields every live component in insertion order.
func (s *ComponentStore) All() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		s.all.Each(yield)
	}
}

// FirstOfEntity scans entity's bucket for the first component assignable
// to tag, so a base tag matches any registered specialization.
func (s *ComponentStore) FirstOfEntity(entity EntityID, tag Tag) Component {
	eb := s.byEntity[entity]
	if eb == nil || tag == NoTag {
		return nil
	}
	prev, prevOK := NoTag, false
	for i := 0; i < eb.Cap(); i++ {
		c := eb.At(i)
		if c == nil {
			continue
		}
		t := c.base().tag
		if t != prev {
			prev, prevOK = t, s.types.AssignableTo(t, tag)
		}
		if prevOK {
			return c
		}
	}
	return nil
}

// firstExact returns entity's first component whose concrete tag is tag.
func (s *ComponentStore) firstExact(entity EntityID, tag Tag) Component {
	eb := s.byEntity[entity]
	if eb == nil {
		return nil
	}
	for i := 0; i < eb.Cap(); i++ {
		if c := eb.At(i); c != nil && c.base().tag == tag {
			return c
		}
	}
	return nil
}

func (s *ComponentStore) Len() int { return s.all.Len() }

// CountOfType returns the number of live components of concrete tag.
func (s *ComponentStore) CountOfType(tag Tag) int {
	if int(tag) >= len(s.byType) || s.byType[tag] == nil {
		return 0
	}
	return s.byType[tag].Len()
}

// CountOfEntity returns the number of live components owned by entity.
func (s *ComponentStore) CountOfEntity(entity EntityID) int {
	if eb := s.byEntity[entity]; eb != nil {
		return eb.Len()
	}
	return 0
}

// Epoch returns the structural version of tag's bucket. It changes on
// every insertion into or removal from the bucket.
func (s *ComponentStore) Epoch(tag Tag) uint64 {
	if int(tag) >= len(s.byType) || s.byType[tag] == nil {
		return 0
	}
	return s.byType[tag].epoch
}

// AppendOfType appends the live components of tag to dst in bucket order.
func (s *ComponentStore) AppendOfType(dst []Component, tag Tag) []Component {
	if int(tag) >= len(s.byType) || s.byType[tag] == nil {
		return dst
	}
	return s.byType[tag].AppendTo(dst)
}

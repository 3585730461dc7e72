package ecs

import (
	"iter"

	"github.com/l1jgo/simcore/internal/core/slot"
)

// EntityID identifies an entity. IDs increase monotonically from 1 and are
// never reused within a process.
type EntityID uint64

// NoEntity is the owner of a component that is not registered.
const NoEntity EntityID = 0

func (id EntityID) IsZero() bool { return id == NoEntity }

// Removable is implemented by stores that hold per-entity data so the
// EntityRegistry can cascade an entity's removal into them.
type Removable interface {
	RemoveComponentsOfEntity(id EntityID) int
}

// EntityRegistry owns the set of live entity IDs.
type EntityRegistry struct {
	slots  map[EntityID]int
	order  slot.List[EntityID]
	next   EntityID
	stores []Removable
}

func NewEntityRegistry(capacity int) *EntityRegistry {
	if capacity < 0 {
		capacity = 0
	}
	return &EntityRegistry{
		slots:  make(map[EntityID]int, capacity),
		next:   1,
		stores: make([]Removable, 0, 2),
	}
}

// Register adds a store that must drop an entity's data on removal.
func (r *EntityRegistry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// Add allocates the next entity ID and marks it live.
func (r *EntityRegistry) Add() EntityID {
	id := r.next
	r.next++
	r.slots[id] = r.order.Add(id)
	return id
}

// Remove drops id from the live set and cascades into every registered
// store. It reports false if id was not live.
func (r *EntityRegistry) Remove(id EntityID) bool {
	s, ok := r.slots[id]
	if !ok {
		return false
	}
	delete(r.slots, id)
	r.order.Remove(s)
	if r.order.NeedsCompact() {
		r.order.Compact(func(moved EntityID, at int) { r.slots[moved] = at })
	}
	for _, st := range r.stores {
		st.RemoveComponentsOfEntity(id)
	}
	return true
}

func (r *EntityRegistry) Contains(id EntityID) bool {
	_, ok := r.slots[id]
	return ok
}

func (r *EntityRegistry) Len() int { return r.order.Len() }

// All yields live entities in creation order.
func (r *EntityRegistry) All() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		r.order.Each(yield)
	}
}

package system

import (
	"fmt"
	"iter"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/slot"
)

// Registry owns the systems of one Context in registration order.
type Registry struct {
	owner      *Context
	types      *SystemTypes
	components *ecs.ComponentTypes
	list       slot.List[System]
	epoch      uint64
	limit      int
}

func newRegistry(owner *Context, types *SystemTypes, components *ecs.ComponentTypes, limit int) *Registry {
	return &Registry{
		owner:      owner,
		types:      types,
		components: components,
		limit:      limit,
	}
}

// Epoch changes whenever a system is added or removed.
func (r *Registry) Epoch() uint64 { return r.epoch }

func (r *Registry) Len() int { return r.list.Len() }

// add binds s and registers it under its variant tag. On any failure the
// binding is rolled back before the error is returned.
func (r *Registry) add(tag ecs.Tag, s System) error {
	if ecs.IsNil(s) {
		return fmt.Errorf("add system: %w", ecs.ErrNullArgument)
	}
	if tag == ecs.NoTag {
		return fmt.Errorf("add system: type tag: %w", ecs.ErrNullArgument)
	}
	if !r.types.Defined(tag) {
		return fmt.Errorf("add system %d: %w", tag, ecs.ErrUnknownTag)
	}
	b := s.base()
	if b.ctx != nil {
		return fmt.Errorf("add system %s: %w", r.types.Name(tag), ErrAlreadyBound)
	}
	comp := s.ComponentTag()
	if comp == ecs.NoTag {
		return fmt.Errorf("add system %s: component tag: %w", r.types.Name(tag), ecs.ErrNullArgument)
	}
	if !r.components.Defined(comp) {
		return fmt.Errorf("add system %s: component tag %d: %w", r.types.Name(tag), comp, ecs.ErrUnknownTag)
	}

	b.ctx = r.owner
	b.self = s
	b.tag = tag
	b.comp = comp
	b.updater, _ = s.(ComponentUpdater)
	if r.limit > 0 && r.list.Len() >= r.limit {
		b.unbind()
		return fmt.Errorf("add system %s: %d systems: %w", r.types.Name(tag), r.list.Len(), ecs.ErrCapacityExceeded)
	}
	b.slot = r.list.Add(s) + 1
	r.epoch++
	b.added = r.epoch
	return nil
}

func (r *Registry) contains(s System) bool {
	if ecs.IsNil(s) {
		return false
	}
	b := s.base()
	return b.ctx == r.owner && b.slot != 0 && r.list.At(b.slot-1) == s
}

func (r *Registry) remove(s System) bool {
	if !r.contains(s) {
		return false
	}
	r.drop(s)
	r.compact()
	return true
}

// drop unregisters s and clears its binding and borrowed view.
func (r *Registry) drop(s System) {
	b := s.base()
	r.list.Remove(b.slot - 1)
	b.unbind()
	r.epoch++
}

func (r *Registry) compact() {
	if r.list.NeedsCompact() {
		r.list.Compact(func(s System, at int) { s.base().slot = at + 1 })
	}
}

// removeWhere drops every system for which match reports true.
func (r *Registry) removeWhere(match func(b *Base) bool) int {
	n := 0
	r.list.Hold()
	for i := 0; i < r.list.Cap(); i++ {
		s := r.list.At(i)
		if s == nil || !match(s.base()) {
			continue
		}
		r.drop(s)
		n++
	}
	r.list.Release()
	r.compact()
	return n
}

// removeOfType drops systems whose variant is assignable to tag. Runs of
// the same variant reuse the previous assignability result.
func (r *Registry) removeOfType(tag ecs.Tag) int {
	prev, prevOK := ecs.NoTag, false
	return r.removeWhere(func(b *Base) bool {
		if b.tag != prev {
			prev, prevOK = b.tag, r.types.AssignableTo(b.tag, tag)
		}
		return prevOK
	})
}

func (r *Registry) removeWithComponentType(tag ecs.Tag) int {
	prev, prevOK := ecs.NoTag, false
	return r.removeWhere(func(b *Base) bool {
		if b.comp != prev {
			prev, prevOK = b.comp, r.components.AssignableTo(b.comp, tag)
		}
		return prevOK
	})
}

func (r *Registry) first(match func(b *Base) bool) System {
	for i := 0; i < r.list.Cap(); i++ {
		if s := r.list.At(i); s != nil && match(s.base()) {
			return s
		}
	}
	return nil
}

func (r *Registry) firstOfType(tag ecs.Tag) System {
	prev, prevOK := ecs.NoTag, false
	return r.first(func(b *Base) bool {
		if b.tag != prev {
			prev, prevOK = b.tag, r.types.AssignableTo(b.tag, tag)
		}
		return prevOK
	})
}

func (r *Registry) firstWithComponentType(tag ecs.Tag) System {
	prev, prevOK := ecs.NoTag, false
	return r.first(func(b *Base) bool {
		if b.comp != prev {
			prev, prevOK = b.comp, r.components.AssignableTo(b.comp, tag)
		}
		return prevOK
	})
}

// AppendReceivers appends the live systems in registration order. It makes
// the registry the event source of its Context.
func (r *Registry) AppendReceivers(dst []System) []System {
	return r.list.AppendTo(dst)
}

func (r *Registry) all() iter.Seq[System] {
	return func(yield func(System) bool) {
		r.list.Each(yield)
	}
}

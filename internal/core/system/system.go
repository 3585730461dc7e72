package system

import (
	"time"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
)

// Phase is an application-defined update pass, passed through to systems
// unchanged.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain host input
	PhasePreUpdate               // 1: process last tick's events
	PhaseUpdate                  // 2: simulation logic
	PhasePostUpdate              // 3: derived state
	PhaseCleanup                 // 4: flush deferred removals
)

// Tick is the argument of one Update call.
type Tick struct {
	Phase Phase
	Delta time.Duration
	Frame uint64
}

// System processes the components of exactly one tag. Implementations
// embed Base:
//
//	type MovementSystem struct {
//		system.Base
//	}
//
//	func (s *MovementSystem) ComponentTag() ecs.Tag { return velocityTag }
//
// Update is the tick-level hook and runs before per-component work.
// ReceiveEvent is called for every event sent through the Context.
type System interface {
	event.Receiver
	ComponentTag() ecs.Tag
	Update(tick Tick) error
	base() *Base
}

// ComponentUpdater is implemented by systems that want one call per
// component in their cached list. It is detected once when the system is
// added, never during a tick.
type ComponentUpdater interface {
	UpdateComponent(c ecs.Component, tick Tick) error
}

// view is a borrowed handle into the iteration cache. It resolves only
// while gen matches the cached list's generation.
type view struct {
	tag ecs.Tag
	gen uint32
}

// Base carries a system's binding to its Context and its borrowed view of
// the cached component list.
type Base struct {
	ctx     *Context
	self    System
	tag     ecs.Tag
	comp    ecs.Tag
	updater ComponentUpdater
	slot    int    // +1, 0 when not registered
	added   uint64 // registry epoch of the add that bound it
	view    view
}

func (b *Base) base() *Base { return b }

// Context returns the context the system is bound to, or nil once removed.
func (b *Base) Context() *Context { return b.ctx }

// Type returns the system's own variant tag.
func (b *Base) Type() ecs.Tag { return b.tag }

// Bound reports whether the system is registered with a context.
func (b *Base) Bound() bool { return b.ctx != nil }

func (b *Base) Update(Tick) error { return nil }

func (b *Base) ReceiveEvent(event.Event) error { return nil }

// CachedComponents returns the snapshot of the system's component tag taken
// at the start of the current Update. The slice is borrowed: it is only
// valid until the next Update and must not be retained or modified.
func (b *Base) CachedComponents() []ecs.Component {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.cache.resolve(b.view)
}

// ComponentOfEntity returns entity's first component matching the
// system's component tag.
func (b *Base) ComponentOfEntity(entity ecs.EntityID) ecs.Component {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.FirstComponentOfEntity(entity, b.comp)
}

// SendEvent dispatches an event with this system as sender.
func (b *Base) SendEvent(kind event.Kind, entity ecs.EntityID, payload any) error {
	if b.ctx == nil {
		return ErrNotBound
	}
	return b.ctx.SendEvent(event.Event{Kind: kind, Sender: b.self, EntityID: entity, Payload: payload})
}

func (b *Base) unbind() {
	b.ctx = nil
	b.self = nil
	b.updater = nil
	b.slot = 0
	b.added = 0
	b.view = view{}
}

package ecs

import "reflect"

// Component is a data record owned by exactly one entity. Concrete
// components embed ComponentBase, which carries the ownership and index
// bookkeeping:
//
//	type Position struct {
//		ecs.ComponentBase
//		X, Y float64
//	}
type Component interface {
	Owner() EntityID
	Tag() Tag
	Live() bool
	base() *ComponentBase
}

// ComponentBase is embedded by every component. Slots are stored +1 so the
// zero value means "not indexed".
type ComponentBase struct {
	tag    Tag
	owner  EntityID
	global int
	entity int
	typ    int
}

// Owner returns the owning entity, or NoEntity once the component has been
// removed.
func (b *ComponentBase) Owner() EntityID { return b.owner }

// Tag returns the concrete variant the component was registered with.
func (b *ComponentBase) Tag() Tag { return b.tag }

// Live reports whether the component is still registered.
func (b *ComponentBase) Live() bool { return b.owner != NoEntity }

func (b *ComponentBase) base() *ComponentBase { return b }

// IsNil reports whether v is nil or a typed nil pointer. Instances are
// checked with it at the API edge, before any method is called on them.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

package ecs

import (
	"fmt"
	"math"
)

// Tag identifies a component or system variant. Tags are dense indices
// assigned by a TypeRegistry at startup; hot paths index slices with them.
type Tag uint16

// NoTag is the null tag. Real tags start at 1.
const NoTag Tag = 0

// TypeRegistry assigns tags to named variants and records single
// inheritance between them, so lookups by a base tag can match any
// registered specialization.
type TypeRegistry struct {
	names   []string
	parents []Tag
	byName  map[string]Tag
}

func (r *TypeRegistry) init() {
	if r.byName == nil {
		r.byName = make(map[string]Tag, 16)
		r.names = append(r.names[:0], "")
		r.parents = append(r.parents[:0], NoTag)
	}
}

// Define assigns the next tag to name. parent is NoTag for a root variant
// or a tag defined earlier.
func (r *TypeRegistry) Define(name string, parent Tag) (Tag, error) {
	r.init()
	if name == "" {
		return NoTag, fmt.Errorf("define type: empty name: %w", ErrNullArgument)
	}
	if _, ok := r.byName[name]; ok {
		return NoTag, fmt.Errorf("define type %q: %w", name, ErrDuplicateType)
	}
	if parent != NoTag && !r.Defined(parent) {
		return NoTag, fmt.Errorf("define type %q: parent %d: %w", name, parent, ErrUnknownTag)
	}
	if len(r.names) > math.MaxUint16 {
		return NoTag, fmt.Errorf("define type %q: %w", name, ErrCapacityExceeded)
	}
	tag := Tag(len(r.names))
	r.names = append(r.names, name)
	r.parents = append(r.parents, parent)
	r.byName[name] = tag
	return tag, nil
}

// Defined reports whether tag was assigned by this registry.
func (r *TypeRegistry) Defined(tag Tag) bool {
	return tag != NoTag && int(tag) < len(r.names)
}

// Lookup resolves a variant name.
func (r *TypeRegistry) Lookup(name string) (Tag, bool) {
	tag, ok := r.byName[name]
	return tag, ok
}

// Name returns the variant name, or a placeholder for unknown tags.
func (r *TypeRegistry) Name(tag Tag) string {
	if !r.Defined(tag) {
		return fmt.Sprintf("tag(%d)", tag)
	}
	return r.names[tag]
}

// Parent returns the base variant of tag, or NoTag.
func (r *TypeRegistry) Parent(tag Tag) Tag {
	if !r.Defined(tag) {
		return NoTag
	}
	return r.parents[tag]
}

// Len returns the number of defined tags.
func (r *TypeRegistry) Len() int {
	if len(r.names) == 0 {
		return 0
	}
	return len(r.names) - 1
}

// Leaf reports whether no other variant derives from tag, so a query
// for tag matches exactly one bucket.
func (r *TypeRegistry) Leaf(tag Tag) bool {
	if !r.Defined(tag) {
		return false
	}
	for _, p := range r.parents {
		if p == tag {
			return false
		}
	}
	return true
}

// AssignableTo reports whether a value tagged x satisfies a query for y:
// x equals y, or y is an ancestor of x.
func (r *TypeRegistry) AssignableTo(x, y Tag) bool {
	if x == NoTag || y == NoTag {
		return false
	}
	for t := x; t != NoTag; t = r.Parent(t) {
		if t == y {
			return true
		}
	}
	return false
}

// ComponentTypes is the component tag registry plus the factory table used
// to construct components from a tag alone.
type ComponentTypes struct {
	TypeRegistry
	factories []func() Component
}

// Register defines a component variant. A nil factory declares an abstract
// base that can be queried but never constructed.
func (t *ComponentTypes) Register(name string, parent Tag, factory func() Component) (Tag, error) {
	tag, err := t.Define(name, parent)
	if err != nil {
		return NoTag, err
	}
	for len(t.factories) <= int(tag) {
		t.factories = append(t.factories, nil)
	}
	t.factories[tag] = factory
	return tag, nil
}

// MustRegister is Register for package-level setup; it panics on error.
func (t *ComponentTypes) MustRegister(name string, parent Tag, factory func() Component) Tag {
	tag, err := t.Register(name, parent, factory)
	if err != nil {
		panic(err)
	}
	return tag
}

// New constructs an unregistered component for tag.
func (t *ComponentTypes) New(tag Tag) (Component, error) {
	if tag == NoTag {
		return nil, fmt.Errorf("new component: %w", ErrNullArgument)
	}
	if !t.Defined(tag) || int(tag) >= len(t.factories) || t.factories[tag] == nil {
		return nil, fmt.Errorf("new component %s: no factory: %w", t.Name(tag), ErrConstructionFailure)
	}
	c := t.factories[tag]()
	if IsNil(c) {
		return nil, fmt.Errorf("new component %s: factory returned nil: %w", t.Name(tag), ErrConstructionFailure)
	}
	if c.base().owner != NoEntity {
		return nil, fmt.Errorf("new component %s: %w", t.Name(tag), ErrAlreadyOwned)
	}
	return c, nil
}

package system

import (
	"fmt"

	"github.com/l1jgo/simcore/internal/core/ecs"
)

// SystemTypes is the system tag registry plus the factory table used to
// construct systems from a tag alone.
type SystemTypes struct {
	ecs.TypeRegistry
	factories []func() System
}

// Register defines a system variant. A nil factory declares an abstract
// base usable only in queries.
func (t *SystemTypes) Register(name string, parent ecs.Tag, factory func() System) (ecs.Tag, error) {
	tag, err := t.Define(name, parent)
	if err != nil {
		return ecs.NoTag, err
	}
	for len(t.factories) <= int(tag) {
		t.factories = append(t.factories, nil)
	}
	t.factories[tag] = factory
	return tag, nil
}

func (t *SystemTypes) MustRegister(name string, parent ecs.Tag, factory func() System) ecs.Tag {
	tag, err := t.Register(name, parent, factory)
	if err != nil {
		panic(err)
	}
	return tag
}

// New constructs an unbound system for tag.
func (t *SystemTypes) New(tag ecs.Tag) (System, error) {
	if tag == ecs.NoTag {
		return nil, fmt.Errorf("new system: %w", ecs.ErrNullArgument)
	}
	if !t.Defined(tag) || int(tag) >= len(t.factories) || t.factories[tag] == nil {
		return nil, fmt.Errorf("new system %s: no factory: %w", t.Name(tag), ecs.ErrConstructionFailure)
	}
	s := t.factories[tag]()
	if ecs.IsNil(s) {
		return nil, fmt.Errorf("new system %s: factory returned nil: %w", t.Name(tag), ecs.ErrConstructionFailure)
	}
	return s, nil
}

package ecs

import "errors"

var (
	// ErrInvalidEntity is returned when a component is added to an entity
	// that is not live.
	ErrInvalidEntity = errors.New("ecs: invalid entity")
	// ErrNullArgument is returned for a nil instance or the null tag.
	ErrNullArgument = errors.New("ecs: null argument")
	// ErrConstructionFailure is returned when a factory cannot produce an
	// instance for a tag.
	ErrConstructionFailure = errors.New("ecs: construction failure")
	// ErrUnknownTag is returned for a tag the type registry never defined.
	ErrUnknownTag = errors.New("ecs: unknown type tag")
	// ErrDuplicateType is returned when a type name is defined twice.
	ErrDuplicateType = errors.New("ecs: duplicate type name")
	// ErrCapacityExceeded is returned when a configured limit would be exceeded.
	ErrCapacityExceeded = errors.New("ecs: capacity exceeded")
	// ErrAlreadyOwned is returned when a component instance is already registered.
	ErrAlreadyOwned = errors.New("ecs: component already owned")
)

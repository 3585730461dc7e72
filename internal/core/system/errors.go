package system

import "errors"

var (
	// ErrAlreadyBound is returned when adding a system that belongs to a context.
	ErrAlreadyBound = errors.New("system: already bound to a context")
	// ErrNotBound is returned by system helpers called after removal.
	ErrNotBound = errors.New("system: not bound to a context")
	// ErrReentrantUpdate is returned when Update is called from inside Update.
	ErrReentrantUpdate = errors.New("system: update already in progress")
)

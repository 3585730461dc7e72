package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// Position is a point in world units.
// Pure data, zero methods: all mutations happen in systems.
type Position struct {
	ecs.ComponentBase
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Velocity moves the owner's Position by units per second.
type Velocity struct {
	ecs.ComponentBase
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

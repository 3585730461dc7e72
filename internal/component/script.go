package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// Script marks an entity for processing by a Lua-scripted system.
type Script struct {
	ecs.ComponentBase
	Name  string             `yaml:"name"`
	State map[string]float64 `yaml:"state"`
}

package component

import "github.com/l1jgo/simcore/internal/core/ecs"

type Health struct {
	ecs.ComponentBase
	HP    float64 `yaml:"hp"`
	MaxHP float64 `yaml:"max_hp"`
	Regen float64 `yaml:"regen"` // HP per second, capped at MaxHP
}

// Dead reports whether HP is exhausted.
func (h *Health) Dead() bool { return h.HP <= 0 }

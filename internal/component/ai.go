package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// AI attacks the nearest positioned entity in range once per cooldown.
// It is registered under the abstract Brain tag, so a Brain query on an
// entity matches any AI variant.
type AI struct {
	ecs.ComponentBase
	Range    float64 `yaml:"range"`
	Strength float64 `yaml:"strength"`
	Cooldown int     `yaml:"cooldown"` // ticks between attacks
	Wait     int     `yaml:"-"`
}

// Guard is an AI that never attacks first.
type Guard struct {
	AI `yaml:",inline"`
}

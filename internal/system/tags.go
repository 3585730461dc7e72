package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	coresys "github.com/l1jgo/simcore/internal/core/system"
)

// Tags holds the tags assigned to the example components and systems.
type Tags struct {
	Position ecs.Tag
	Velocity ecs.Tag
	Health   ecs.Tag
	Brain    ecs.Tag // abstract
	AI       ecs.Tag
	Guard    ecs.Tag
	Script   ecs.Tag

	MovementSystem ecs.Tag
	AISystem       ecs.Tag
	HealthSystem   ecs.Tag
	CleanupSystem  ecs.Tag
}

// Register defines the example variants in both type tables and installs
// their factories.
func Register(ct *ecs.ComponentTypes, st *coresys.SystemTypes, log *zap.Logger) (*Tags, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tags{}
	var err error
	reg := func(dst *ecs.Tag, name string, parent ecs.Tag, f func() ecs.Component) {
		if err != nil {
			return
		}
		*dst, err = ct.Register(name, parent, f)
	}
	reg(&t.Position, "Position", ecs.NoTag, func() ecs.Component { return &component.Position{} })
	reg(&t.Velocity, "Velocity", ecs.NoTag, func() ecs.Component { return &component.Velocity{} })
	reg(&t.Health, "Health", ecs.NoTag, func() ecs.Component { return &component.Health{HP: 100, MaxHP: 100} })
	reg(&t.Brain, "Brain", ecs.NoTag, nil)
	reg(&t.AI, "AI", t.Brain, func() ecs.Component { return &component.AI{Range: 10, Strength: 25} })
	reg(&t.Guard, "Guard", t.AI, func() ecs.Component { return &component.Guard{AI: component.AI{Range: 5, Strength: 10}} })
	reg(&t.Script, "Script", ecs.NoTag, func() ecs.Component { return &component.Script{State: map[string]float64{}} })
	if err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}

	sreg := func(dst *ecs.Tag, name string, f func() coresys.System) {
		if err != nil {
			return
		}
		*dst, err = st.Register(name, ecs.NoTag, f)
	}
	sreg(&t.MovementSystem, "MovementSystem", func() coresys.System { return NewMovementSystem(t) })
	sreg(&t.AISystem, "AISystem", func() coresys.System { return NewAISystem(t, log) })
	sreg(&t.HealthSystem, "HealthSystem", func() coresys.System { return NewHealthSystem(t, log) })
	sreg(&t.CleanupSystem, "CleanupSystem", func() coresys.System { return NewCleanupSystem(t, log) })
	if err != nil {
		return nil, fmt.Errorf("register systems: %w", err)
	}
	return t, nil
}

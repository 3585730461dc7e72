package system

import (
	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	coresys "github.com/l1jgo/simcore/internal/core/system"
)

// MovementSystem integrates Velocity into Position. PhaseUpdate only.
// It works per tick through an ecs.Each2 join rather than per component.
type MovementSystem struct {
	coresys.Base
	tags *Tags
	dt   float64
	move func(id ecs.EntityID, cv, cp ecs.Component)
}

func NewMovementSystem(tags *Tags) *MovementSystem {
	s := &MovementSystem{tags: tags}
	s.move = s.integrate
	return s
}

func (s *MovementSystem) ComponentTag() ecs.Tag { return s.tags.Velocity }

func (s *MovementSystem) Update(tick coresys.Tick) error {
	if tick.Phase != coresys.PhaseUpdate {
		return nil
	}
	s.dt = tick.Delta.Seconds()
	ecs.Each2(s.Context().Components(), s.tags.Velocity, s.tags.Position, s.move)
	return nil
}

func (s *MovementSystem) integrate(_ ecs.EntityID, cv, cp ecs.Component) {
	v := cv.(*component.Velocity)
	p := cp.(*component.Position)
	p.X += v.DX * s.dt
	p.Y += v.DY * s.dt
}

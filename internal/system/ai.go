package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	coresys "github.com/l1jgo/simcore/internal/core/system"
)

// AISystem makes every AI attack the nearest other positioned entity in
// range. Guards are a separate variant and are not driven by it.
// PhaseUpdate only.
type AISystem struct {
	coresys.Base
	tags    *Tags
	log     *zap.Logger
	Attacks int
}

func NewAISystem(tags *Tags, log *zap.Logger) *AISystem {
	return &AISystem{tags: tags, log: log}
}

func (s *AISystem) ComponentTag() ecs.Tag { return s.tags.AI }

func (s *AISystem) UpdateComponent(c ecs.Component, tick coresys.Tick) error {
	if tick.Phase != coresys.PhaseUpdate || !c.Live() {
		return nil
	}
	ai := c.(*component.AI)
	if ai.Wait > 0 {
		ai.Wait--
		return nil
	}
	self := ai.Owner()
	ctx := s.Context()
	me, ok := ecs.FirstComponentAs[*component.Position](ctx.World, self, s.tags.Position)
	if !ok {
		return nil
	}

	target, best := ecs.NoEntity, math.MaxFloat64
	for pc := range ctx.ComponentsOfType(s.tags.Position) {
		p := pc.(*component.Position)
		if p.Owner() == self {
			continue
		}
		d := math.Hypot(p.X-me.X, p.Y-me.Y)
		if d <= ai.Range && d < best {
			target, best = p.Owner(), d
		}
	}
	if target == ecs.NoEntity {
		return nil
	}

	ai.Wait = ai.Cooldown
	s.Attacks++
	if ce := s.log.Check(zap.DebugLevel, "attack"); ce != nil {
		ce.Write(zap.Uint64("attacker", uint64(self)), zap.Uint64("target", uint64(target)), zap.Float64("strength", ai.Strength))
	}
	return s.SendEvent(KindAttack, self, Attack{Target: target, Strength: ai.Strength})
}

package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
)

// HealthSystem regenerates HP during PhaseUpdate and applies Attack
// events. A victim whose HP runs out is queued for removal at the cleanup
// phase and a Died event is sent.
type HealthSystem struct {
	coresys.Base
	tags   *Tags
	log    *zap.Logger
	Deaths int
}

func NewHealthSystem(tags *Tags, log *zap.Logger) *HealthSystem {
	return &HealthSystem{tags: tags, log: log}
}

func (s *HealthSystem) ComponentTag() ecs.Tag { return s.tags.Health }

func (s *HealthSystem) UpdateComponent(c ecs.Component, tick coresys.Tick) error {
	if tick.Phase != coresys.PhaseUpdate || !c.Live() {
		return nil
	}
	h := c.(*component.Health)
	if h.Dead() || h.Regen <= 0 || h.HP >= h.MaxHP {
		return nil
	}
	h.HP += h.Regen * tick.Delta.Seconds()
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
	return nil
}

func (s *HealthSystem) ReceiveEvent(ev event.Event) error {
	if ev.Kind != KindAttack {
		return nil
	}
	atk, ok := ev.Payload.(Attack)
	if !ok {
		return nil
	}
	ctx := s.Context()
	h, ok := ecs.FirstComponentAs[*component.Health](ctx.World, atk.Target, s.tags.Health)
	if !ok || h.Dead() {
		return nil
	}
	h.HP -= atk.Strength
	if ce := s.log.Check(zap.DebugLevel, "hit"); ce != nil {
		ce.Write(zap.Uint64("target", uint64(atk.Target)), zap.Uint64("attacker", uint64(ev.EntityID)), zap.Float64("hp", h.HP))
	}
	if !h.Dead() {
		return nil
	}
	s.Deaths++
	ctx.MarkForRemoval(atk.Target)
	return s.SendEvent(KindDied, atk.Target, Died{By: ev.EntityID})
}

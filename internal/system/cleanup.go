package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/simcore/internal/core/ecs"
	coresys "github.com/l1jgo/simcore/internal/core/system"
)

// CleanupSystem flushes the deferred removal queue during PhaseCleanup.
// It does no per-component work; it is bound to Health only because every
// system needs a component tag.
type CleanupSystem struct {
	coresys.Base
	tags    *Tags
	log     *zap.Logger
	Removed int
}

func NewCleanupSystem(tags *Tags, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{tags: tags, log: log}
}

func (s *CleanupSystem) ComponentTag() ecs.Tag { return s.tags.Health }

func (s *CleanupSystem) Update(tick coresys.Tick) error {
	if tick.Phase != coresys.PhaseCleanup {
		return nil
	}
	n := s.Context().FlushRemovals()
	if n > 0 {
		s.Removed += n
		s.log.Info("entities removed", zap.Int("count", n), zap.Uint64("frame", tick.Frame))
	}
	return nil
}

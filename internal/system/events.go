package system

import (
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
)

const (
	KindAttack event.Kind = iota + 1
	KindDied
)

// Attack is the payload of KindAttack. The event's EntityID is the attacker.
type Attack struct {
	Target   ecs.EntityID
	Strength float64
}

// Died is the payload of KindDied. The event's EntityID is the victim.
type Died struct {
	By ecs.EntityID
}

package event

import "github.com/l1jgo/simcore/internal/core/ecs"

// Kind is an application-defined event tag.
type Kind int32

// Receiver handles events fanned out by a Bus.
type Receiver interface {
	ReceiveEvent(ev Event) error
}

// Event is an immutable message that lives only for one dispatch.
type Event struct {
	Kind     Kind
	Sender   Receiver // nil when sent by the host
	EntityID ecs.EntityID
	Payload  any
}

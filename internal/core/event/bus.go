package event

import (
	"errors"
	"fmt"
)

// DefaultMaxDepth bounds nested dispatch when no limit is configured.
const DefaultMaxDepth = 64

// ErrDepthExceeded is returned when handlers keep sending events from
// inside handlers past the configured depth.
var ErrDepthExceeded = errors.New("event: dispatch depth exceeded")

// Source supplies the receivers of a dispatch in their stable order.
type Source[R Receiver] interface {
	AppendReceivers(dst []R) []R
}

// Bus fans events out synchronously to every receiver of its source.
//
// Dispatch is depth-first: an event sent from inside a handler is fully
// delivered before the outer fan-out moves to its next receiver. Each depth
// level copies the receiver list into its own reusable frame, so nested
// dispatches never disturb the outer one and steady-state dispatch does not
// allocate. Recursion is bounded on purpose: a handler loop fails with
// ErrDepthExceeded instead of exhausting the stack.
//
// Post queues an event for the next Flush. Events posted during a Flush are
// delivered by the following one.
type Bus[R Receiver] struct {
	src      Source[R]
	live     func(R) bool
	frames   [][]R
	depth    int
	maxDepth int
	front    []Event
	back     []Event
}

// NewBus creates a bus over src. live, when non-nil, is checked before each
// delivery so receivers dropped mid-dispatch are skipped.
func NewBus[R Receiver](src Source[R], live func(R) bool, maxDepth int) *Bus[R] {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Bus[R]{
		src:      src,
		live:     live,
		maxDepth: maxDepth,
		front:    make([]Event, 0, 16),
		back:     make([]Event, 0, 16),
	}
}

// Dispatch delivers ev to every receiver in source order. The first handler
// error stops the fan-out and is returned.
func (b *Bus[R]) Dispatch(ev Event) error {
	if b.depth >= b.maxDepth {
		return fmt.Errorf("dispatch kind %d at depth %d: %w", ev.Kind, b.depth, ErrDepthExceeded)
	}
	d := b.depth
	if d == len(b.frames) {
		b.frames = append(b.frames, nil)
	}
	frame := b.src.AppendReceivers(b.frames[d][:0])
	b.frames[d] = frame
	b.depth++
	defer func() {
		clear(frame)
		b.depth--
	}()

	for i := 0; i < len(frame); i++ {
		r := frame[i]
		if b.live != nil && !b.live(r) {
			continue
		}
		if err := r.ReceiveEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// Depth returns the number of dispatches currently on the stack.
func (b *Bus[R]) Depth() int { return b.depth }

// Post queues ev for the next Flush.
func (b *Bus[R]) Post(ev Event) {
	b.back = append(b.back, ev)
}

// Pending returns the number of queued events.
func (b *Bus[R]) Pending() int { return len(b.back) }

// Flush swaps the queue and dispatches every event posted before the call,
// in posting order. It stops at the first error; undelivered events from
// this batch are dropped.
func (b *Bus[R]) Flush() error {
	if len(b.back) == 0 {
		return nil
	}
	b.front, b.back = b.back, b.front[:0]
	defer func() {
		clear(b.front)
		b.front = b.front[:0]
	}()
	for i := 0; i < len(b.front); i++ {
		if err := b.Dispatch(b.front[i]); err != nil {
			return err
		}
	}
	return nil
}

package system

import "fmt"

// Update runs one tick. It refreshes the cached snapshots, delivers posted
// events, then runs every system in registration order: first its Update
// hook, then UpdateComponent for each component of its cached list,
// passing tick through unchanged.
//
// The snapshots are refreshed exactly once per call. Components and
// systems added during the tick appear at the next Update. Components
// removed during the tick stay in the current snapshot with their owner
// cleared; a system removed during the tick is not called again.
//
// The first error aborts the rest of the tick and is returned.
func (c *Context) Update(tick Tick) error {
	if c.updating {
		return ErrReentrantUpdate
	}
	c.updating = true
	defer func() { c.updating = false }()

	c.cache.refresh(c.systems, c.Components())
	if err := c.bus.Flush(); err != nil {
		return fmt.Errorf("posted events: %w", err)
	}

	snap, epoch := c.cache.systems, c.cache.systemsEpoch
	for i := 0; i < len(snap); i++ {
		s := snap[i]
		b := s.base()
		// Removed, or removed and added again after the refresh.
		if b.ctx != c || b.added > epoch {
			continue
		}
		if err := s.Update(tick); err != nil {
			return fmt.Errorf("update %s: %w", c.types.Name(b.tag), err)
		}
		if b.updater == nil {
			continue
		}
		list := c.cache.resolve(b.view)
		for j := 0; j < len(list); j++ {
			if b.ctx != c || b.added > epoch {
				break
			}
			if err := b.updater.UpdateComponent(list[j], tick); err != nil {
				return fmt.Errorf("update %s: entity %d: %w", c.types.Name(b.tag), list[j].Owner(), err)
			}
		}
	}
	return nil
}

// Updating reports whether an Update is in progress.
func (c *Context) Updating() bool { return c.updating }

package system

import "github.com/l1jgo/simcore/internal/core/ecs"

// cachedList is one component tag's snapshot. gen changes whenever items is
// rebuilt or released, which invalidates every view handed out before.
type cachedList struct {
	items      []ecs.Component
	epoch      uint64
	gen        uint32
	valid      bool
	subscribed bool
}

// Cache holds the snapshots the update loop iterates: the system list and
// one component list per tag that some system is bound to. Mutations only
// move the registry and store epochs; the cache compares epochs and
// rebuilds in refresh, which the Context calls once at the start of every
// Update. Anything added after that point is picked up by the next Update.
type Cache struct {
	systems      []System
	systemsEpoch uint64
	primed       bool
	lists        []cachedList // indexed by component tag
	tags         []ecs.Tag    // subscribed tags, unique
}

// refresh brings the snapshots up to date and hands every system a view of
// its tag's list. It reports whether the system list was rebuilt and how
// many component lists were.
func (c *Cache) refresh(reg *Registry, store *ecs.ComponentStore) (systems bool, lists int) {
	if !c.primed || c.systemsEpoch != reg.Epoch() {
		clear(c.systems)
		c.systems = reg.AppendReceivers(c.systems[:0])
		c.systemsEpoch = reg.Epoch()
		c.primed = true
		c.resubscribe()
		systems = true
	}

	for _, t := range c.tags {
		l := &c.lists[t]
		if ep := store.Epoch(t); !l.valid || l.epoch != ep {
			clear(l.items)
			l.items = store.AppendOfType(l.items[:0], t)
			l.epoch = ep
			l.valid = true
			l.gen++
			lists++
		}
	}

	for i := 0; i < len(c.systems); i++ {
		b := c.systems[i].base()
		b.view = view{tag: b.comp, gen: c.lists[b.comp].gen}
	}
	return systems, lists
}

// resubscribe recomputes which tags need a list, releasing lists no system
// is bound to anymore.
func (c *Cache) resubscribe() {
	for _, t := range c.tags {
		c.lists[t].subscribed = false
	}
	c.tags = c.tags[:0]
	for _, s := range c.systems {
		t := s.base().comp
		for len(c.lists) <= int(t) {
			c.lists = append(c.lists, cachedList{})
		}
		if !c.lists[t].subscribed {
			c.lists[t].subscribed = true
			c.tags = append(c.tags, t)
		}
	}
	for i := range c.lists {
		l := &c.lists[i]
		if !l.subscribed && l.valid {
			clear(l.items)
			l.items = l.items[:0]
			l.valid = false
			l.gen++
		}
	}
}

// resolve returns the list a view points at, or nil when the view is stale
// or empty.
func (c *Cache) resolve(v view) []ecs.Component {
	if v.tag == ecs.NoTag || int(v.tag) >= len(c.lists) {
		return nil
	}
	l := &c.lists[v.tag]
	if !l.valid || l.gen != v.gen {
		return nil
	}
	return l.items
}

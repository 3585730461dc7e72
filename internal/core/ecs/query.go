package ecs

// Each2 calls fn for every entity owning a component of exact tag a and one
// assignable to tag b. It walks whichever type bucket is smaller and looks up
// the entity bucket for the other tag; b can drive only when it is a leaf.
func Each2(s *ComponentStore, a, b Tag, fn func(id EntityID, ca, cb Component)) {
	if !s.types.Leaf(b) || s.CountOfType(a) <= s.CountOfType(b) {
		for ca := range s.ComponentsOfType(a) {
			if cb := s.FirstOfEntity(ca.Owner(), b); cb != nil {
				fn(ca.Owner(), ca, cb)
			}
		}
		return
	}
	for cb := range s.ComponentsOfType(b) {
		if ca := s.firstExact(cb.Owner(), a); ca != nil {
			fn(cb.Owner(), ca, cb)
		}
	}
}

// Each3 is Each2 for three tags: a is exact, b and c are assignable. The
// smallest leaf bucket drives.
func Each3(s *ComponentStore, a, b, c Tag, fn func(id EntityID, ca, cb, cc Component)) {
	smallest := s.CountOfType(a)
	which := 0
	if n := s.CountOfType(b); s.types.Leaf(b) && n < smallest {
		smallest = n
		which = 1
	}
	if s.types.Leaf(c) && s.CountOfType(c) < smallest {
		which = 2
	}

	var drive Tag
	switch which {
	case 0:
		drive = a
	case 1:
		drive = b
	case 2:
		drive = c
	}
	for d := range s.ComponentsOfType(drive) {
		id := d.Owner()
		if id == NoEntity {
			continue
		}
		ca, cb, cc := d, d, d
		if which != 0 {
			if ca = s.firstExact(id, a); ca == nil {
				continue
			}
		}
		if which != 1 {
			if cb = s.FirstOfEntity(id, b); cb == nil {
				continue
			}
		}
		if which != 2 {
			if cc = s.FirstOfEntity(id, c); cc == nil {
				continue
			}
		}
		fn(id, ca, cb, cc)
	}
}

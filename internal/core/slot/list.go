// Package slot provides the insertion-ordered containers backing the ECS
// indices. Removal is O(1): it leaves a hole that later compaction squeezes
// out, so surviving entries keep their relative order.
package slot

// minHoles is the hole count below which a list is never compacted.
const minHoles = 16

// List is an insertion-ordered list of comparable values with O(1) removal
// by slot. The zero value of T marks a hole, so T's zero value must never be
// stored.
type List[T comparable] struct {
	items     []T
	live      int
	iterating int
}

// Add appends v and returns its slot.
func (l *List[T]) Add(v T) int {
	l.items = append(l.items, v)
	l.live++
	return len(l.items) - 1
}

// Remove clears the given slot. Out of range or already empty slots are
// ignored.
func (l *List[T]) Remove(slot int) {
	var zero T
	if slot < 0 || slot >= len(l.items) || l.items[slot] == zero {
		return
	}
	l.items[slot] = zero
	l.live--
}

// At returns the value stored at slot, or the zero value for a hole.
func (l *List[T]) At(slot int) T {
	var zero T
	if slot < 0 || slot >= len(l.items) {
		return zero
	}
	return l.items[slot]
}

// Len returns the number of live values.
func (l *List[T]) Len() int { return l.live }

// Cap returns the number of slots including holes.
func (l *List[T]) Cap() int { return len(l.items) }

// Iterating reports whether an Each or Scan pass is in progress.
func (l *List[T]) Iterating() bool { return l.iterating > 0 }

// NeedsCompact reports whether holes outnumber live values and no pass is
// iterating the list.
func (l *List[T]) NeedsCompact() bool {
	holes := len(l.items) - l.live
	if l.iterating > 0 || holes == 0 {
		return false
	}
	return l.live == 0 || (holes >= minHoles && holes > l.live)
}

// Compact squeezes holes out, calling moved for every value whose slot
// changed. It must not be called while iterating.
func (l *List[T]) Compact(moved func(v T, slot int)) {
	var zero T
	n := 0
	for i, v := range l.items {
		if v == zero {
			continue
		}
		if i != n {
			l.items[n] = v
			if moved != nil {
				moved(v, n)
			}
		}
		n++
	}
	clear(l.items[n:])
	l.items = l.items[:n]
}

// Each calls fn for every live value in slot order until fn returns false.
// Values added during the pass are visited; removed ones are skipped.
func (l *List[T]) Each(fn func(T) bool) {
	var zero T
	l.iterating++
	defer func() { l.iterating-- }()
	for i := 0; i < len(l.items); i++ {
		v := l.items[i]
		if v == zero {
			continue
		}
		if !fn(v) {
			return
		}
	}
}

// AppendTo appends every live value to dst in slot order.
func (l *List[T]) AppendTo(dst []T) []T {
	var zero T
	for _, v := range l.items {
		if v != zero {
			dst = append(dst, v)
		}
	}
	return dst
}

// Hold marks the list as iterated until the matching Release, so callers
// can walk slots by index while removing entries without triggering
// compaction.
func (l *List[T]) Hold() { l.iterating++ }

// Release ends a Hold.
func (l *List[T]) Release() {
	if l.iterating > 0 {
		l.iterating--
	}
}

// Reset drops every value but keeps the backing array.
func (l *List[T]) Reset() {
	clear(l.items)
	l.items = l.items[:0]
	l.live = 0
}

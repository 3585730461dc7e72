package system

import (
	"errors"
	"testing"
	"time"

	"github.com/l1jgo/simcore/internal/core/ecs"
)

func TestTickPassedThrough(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	r := f.addRecorder(t, c, f.X)
	var got Tick
	r.onUpdate = func(_ *recorder, tick Tick) error {
		got = tick
		return nil
	}
	want := Tick{Phase: PhaseCleanup, Delta: 16 * time.Millisecond, Frame: 42}
	if err := c.Update(want); err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("tick = %+v, want %+v", got, want)
	}
}

func TestComponentsAddedMidTickWaitForRefresh(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	e := c.AddEntity()
	mustComponent(t, c, e, f.X)
	r := f.addRecorder(t, c, f.X)
	var cachedDuring int
	r.onUpdate = func(r *recorder, _ Tick) error {
		if r.ticks == 1 {
			mustComponent(t, c, c.AddEntity(), f.X)
		}
		cachedDuring = len(r.CachedComponents())
		return nil
	}

	update(t, c)
	if len(r.seen) != 1 || cachedDuring != 1 {
		t.Fatalf("first tick saw %d (cached %d), want 1", len(r.seen), cachedDuring)
	}
	r.seen = r.seen[:0]
	update(t, c)
	if len(r.seen) != 2 || cachedDuring != 2 {
		t.Fatalf("second tick saw %d (cached %d), want 2", len(r.seen), cachedDuring)
	}
}

func TestSystemAddedMidTickRunsNextTick(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	mustComponent(t, c, c.AddEntity(), f.X)
	late := &recorder{comp: f.X}
	first := f.addRecorder(t, c, f.X)
	first.onUpdate = func(r *recorder, _ Tick) error {
		if r.ticks == 1 {
			return c.AddSystem(f.Recorder, late)
		}
		return nil
	}

	update(t, c)
	if late.ticks != 0 {
		t.Fatal("system added mid-tick ran in the same tick")
	}
	update(t, c)
	if late.ticks != 1 || len(late.seen) != 1 {
		t.Fatalf("late system ticks=%d seen=%d", late.ticks, len(late.seen))
	}
}

func TestSystemRemovedMidTickIsSkipped(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	for i := 0; i < 3; i++ {
		mustComponent(t, c, c.AddEntity(), f.X)
	}
	a := f.addRecorder(t, c, f.X)
	b := f.addRecorder(t, c, f.X)
	a.onUpdate = func(*recorder, Tick) error {
		c.RemoveSystem(b)
		return nil
	}
	self := f.addRecorder(t, c, f.X)
	self.onComponent = func(r *recorder, _ ecs.Component) error {
		c.RemoveSystem(r)
		return nil
	}

	update(t, c)
	if b.ticks != 0 || len(b.seen) != 0 {
		t.Fatal("removed system was called")
	}
	if len(self.seen) != 1 {
		t.Fatalf("self-removing system processed %d components, want 1", len(self.seen))
	}
	if self.CachedComponents() != nil {
		t.Fatal("removed system still resolves its view")
	}
	if c.SystemCount() != 1 {
		t.Fatalf("SystemCount = %d", c.SystemCount())
	}
}

func TestStaleViewResolvesNil(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	mustComponent(t, c, c.AddEntity(), f.X)
	r := f.addRecorder(t, c, f.X)
	update(t, c)
	old := r.view
	if c.cache.resolve(old) == nil {
		t.Fatal("current view did not resolve")
	}

	mustComponent(t, c, c.AddEntity(), f.X)
	update(t, c)
	if c.cache.resolve(old) != nil {
		t.Fatal("view from before the rebuild still resolves")
	}
	if got := len(c.cache.resolve(r.view)); got != 2 {
		t.Fatalf("fresh view resolves %d components", got)
	}

	// Releasing a tag's list invalidates views of it as well.
	cur := r.view
	c.RemoveSystem(r)
	update(t, c)
	if c.cache.resolve(cur) != nil {
		t.Fatal("released list still resolves")
	}
}

func TestRefreshRebuildsOnlyChangedLists(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	f.addRecorder(t, c, f.X)
	f.addRecorder(t, c, f.Y)
	e := c.AddEntity()
	mustComponent(t, c, e, f.X)
	mustComponent(t, c, e, f.Y)

	systems, lists := c.cache.refresh(c.systems, c.Components())
	if !systems || lists != 2 {
		t.Fatalf("first refresh: systems=%v lists=%d", systems, lists)
	}
	systems, lists = c.cache.refresh(c.systems, c.Components())
	if systems || lists != 0 {
		t.Fatalf("idle refresh: systems=%v lists=%d", systems, lists)
	}
	mustComponent(t, c, c.AddEntity(), f.Y)
	systems, lists = c.cache.refresh(c.systems, c.Components())
	if systems || lists != 1 {
		t.Fatalf("after Y change: systems=%v lists=%d", systems, lists)
	}
}

func TestReentrantUpdateFails(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	r := f.addRecorder(t, c, f.X)
	var inner error
	r.onUpdate = func(*recorder, Tick) error {
		if !c.Updating() {
			t.Error("Updating false inside Update")
		}
		inner = c.Update(Tick{})
		return nil
	}
	update(t, c)
	if !errors.Is(inner, ErrReentrantUpdate) {
		t.Fatalf("nested Update: %v", inner)
	}
	if c.Updating() {
		t.Fatal("Updating true after Update returned")
	}
}

func TestUpdateErrorAbortsTick(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	mustComponent(t, c, c.AddEntity(), f.X)
	mustComponent(t, c, c.AddEntity(), f.X)
	boom := errors.New("boom")
	a := f.addRecorder(t, c, f.X)
	a.onComponent = func(*recorder, ecs.Component) error { return boom }
	b := f.addRecorder(t, c, f.X)

	err := c.Update(Tick{})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(a.seen) != 1 || b.ticks != 0 {
		t.Fatal("tick continued after an error")
	}
	// The context stays usable.
	a.onComponent = nil
	update(t, c)
	if b.ticks != 1 {
		t.Fatal("next tick did not run")
	}
}

func TestHookOnlySystem(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	h, err := Add[*hookOnly](c, f.Hook)
	if err != nil {
		t.Fatal(err)
	}
	mustComponent(t, c, c.AddEntity(), f.Y)
	update(t, c)
	if h.ticks != 1 {
		t.Fatalf("ticks = %d", h.ticks)
	}
	if len(h.CachedComponents()) != 1 {
		t.Fatal("hook-only system has no cached list")
	}
	if h.ComponentOfEntity(1) == nil || h.ComponentOfEntity(99) != nil {
		t.Fatal("ComponentOfEntity mismatch")
	}
}

// counting is a minimal per-component system for allocation checks.
type counting struct {
	Base
	comp ecs.Tag
	n    int
}

func (s *counting) ComponentTag() ecs.Tag { return s.comp }

func (s *counting) UpdateComponent(c ecs.Component, _ Tick) error {
	s.n++
	return nil
}

func steadyContext(tb testing.TB, entities int) (*Context, *counting) {
	f := newFixture(tb)
	c := NewContext(configForBench(), f.ct, f.st, nil)
	s := &counting{comp: f.X}
	if err := c.AddSystem(f.Recorder, s); err != nil {
		tb.Fatal(err)
	}
	if err := c.AddSystem(f.Hook, &hookOnly{comp: f.Y}); err != nil {
		tb.Fatal(err)
	}
	for i := 0; i < entities; i++ {
		e := c.AddEntity()
		mustComponent(tb, c, e, f.X)
		mustComponent(tb, c, e, f.Y)
	}
	return c, s
}

func TestSteadyStateUpdateDoesNotAllocate(t *testing.T) {
	c, s := steadyContext(t, 100)
	tick := Tick{Phase: PhaseUpdate, Delta: time.Millisecond}
	if err := c.Update(tick); err != nil {
		t.Fatal(err)
	}
	allocs := testing.AllocsPerRun(50, func() {
		_ = c.Update(tick)
	})
	if allocs != 0 {
		t.Fatalf("Update allocated %.1f times per tick", allocs)
	}
	if s.n != 100*52 {
		t.Fatalf("processed %d components", s.n)
	}
}

func BenchmarkUpdate(b *testing.B) {
	c, _ := steadyContext(b, 1000)
	tick := Tick{Phase: PhaseUpdate, Delta: time.Millisecond}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Update(tick); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUpdateWithChurn(b *testing.B) {
	c, s := steadyContext(b, 1000)
	tick := Tick{Phase: PhaseUpdate, Delta: time.Millisecond}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := c.AddEntity()
		if _, err := c.AddComponent(e, s.comp); err != nil {
			b.Fatal(err)
		}
		if err := c.Update(tick); err != nil {
			b.Fatal(err)
		}
		c.RemoveEntity(e)
	}
}

func TestSystemReaddedMidTickWaitsForNextTick(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	mustComponent(t, c, c.AddEntity(), f.X)
	a := f.addRecorder(t, c, f.X)
	b := f.addRecorder(t, c, f.X)
	a.onUpdate = func(r *recorder, _ Tick) error {
		if r.ticks != 1 {
			return nil
		}
		if !c.RemoveSystem(b) {
			t.Error("RemoveSystem failed")
		}
		return c.AddSystem(f.Recorder, b)
	}

	update(t, c)
	if b.ticks != 0 || len(b.seen) != 0 {
		t.Fatalf("re-added system ran in the same tick: ticks=%d seen=%d", b.ticks, len(b.seen))
	}
	update(t, c)
	if b.ticks != 1 || len(b.seen) != 1 {
		t.Fatalf("re-added system next tick: ticks=%d seen=%d", b.ticks, len(b.seen))
	}
}

func TestSystemReaddedDuringOwnPassStops(t *testing.T) {
	f := newFixture(t)
	c := f.context(t, nil)
	for i := 0; i < 3; i++ {
		mustComponent(t, c, c.AddEntity(), f.X)
	}
	r := f.addRecorder(t, c, f.X)
	r.onComponent = func(r *recorder, _ ecs.Component) error {
		if len(r.seen) == 1 {
			c.RemoveSystem(r)
			return c.AddSystem(f.Recorder, r)
		}
		return nil
	}
	update(t, c)
	if len(r.seen) != 1 {
		t.Fatalf("processed %d components after re-adding itself, want 1", len(r.seen))
	}
	update(t, c)
	if len(r.seen) != 4 {
		t.Fatalf("next tick total = %d, want 4", len(r.seen))
	}
}

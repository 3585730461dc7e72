package system

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
)

type compX struct {
	ecs.ComponentBase
	N int
}

type compY struct {
	ecs.ComponentBase
}

type compAI struct {
	ecs.ComponentBase
}

// recorder is a configurable system that records what it was handed.
type recorder struct {
	Base
	comp ecs.Tag

	ticks  int
	seen   []ecs.EntityID
	events []event.Kind

	onUpdate    func(r *recorder, tick Tick) error
	onComponent func(r *recorder, c ecs.Component) error
	onEvent     func(r *recorder, ev event.Event) error
}

func (r *recorder) ComponentTag() ecs.Tag { return r.comp }

func (r *recorder) Update(tick Tick) error {
	r.ticks++
	if r.onUpdate != nil {
		return r.onUpdate(r, tick)
	}
	return nil
}

func (r *recorder) UpdateComponent(c ecs.Component, tick Tick) error {
	r.seen = append(r.seen, c.Owner())
	if cx, ok := c.(*compX); ok {
		cx.N++
	}
	if r.onComponent != nil {
		return r.onComponent(r, c)
	}
	return nil
}

func (r *recorder) ReceiveEvent(ev event.Event) error {
	r.events = append(r.events, ev.Kind)
	if r.onEvent != nil {
		return r.onEvent(r, ev)
	}
	return nil
}

// hookOnly has no per-component method.
type hookOnly struct {
	Base
	comp  ecs.Tag
	ticks int
}

func (h *hookOnly) ComponentTag() ecs.Tag { return h.comp }

func (h *hookOnly) Update(Tick) error {
	h.ticks++
	return nil
}

type fixture struct {
	ct *ecs.ComponentTypes
	st *SystemTypes

	X, Y, Brain, AI ecs.Tag

	Recorder, Derived, Hook, Abstract ecs.Tag
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{ct: &ecs.ComponentTypes{}, st: &SystemTypes{}}
	f.X = f.ct.MustRegister("CompX", ecs.NoTag, func() ecs.Component { return &compX{} })
	f.Y = f.ct.MustRegister("CompY", ecs.NoTag, func() ecs.Component { return &compY{} })
	f.Brain = f.ct.MustRegister("Brain", ecs.NoTag, nil)
	f.AI = f.ct.MustRegister("AI", f.Brain, func() ecs.Component { return &compAI{} })

	f.Abstract = f.st.MustRegister("Processor", ecs.NoTag, nil)
	f.Recorder = f.st.MustRegister("Recorder", f.Abstract, func() System { return &recorder{comp: f.X} })
	f.Derived = f.st.MustRegister("DerivedRecorder", f.Recorder, func() System { return &recorder{comp: f.AI} })
	f.Hook = f.st.MustRegister("Hook", ecs.NoTag, func() System { return &hookOnly{comp: f.Y} })
	return f
}

func (f *fixture) context(t testing.TB, mutate func(*config.SimConfig)) *Context {
	t.Helper()
	cfg := config.Defaults().Sim
	if mutate != nil {
		mutate(&cfg)
	}
	return NewContext(cfg, f.ct, f.st, zaptest.NewLogger(t))
}

func (f *fixture) addRecorder(t testing.TB, c *Context, comp ecs.Tag) *recorder {
	t.Helper()
	r := &recorder{comp: comp}
	if err := c.AddSystem(f.Recorder, r); err != nil {
		t.Fatalf("AddSystem: %v", err)
	}
	return r
}

func mustComponent(t testing.TB, c *Context, e ecs.EntityID, tag ecs.Tag) ecs.Component {
	t.Helper()
	comp, err := c.AddComponent(e, tag)
	if err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	return comp
}

func update(t testing.TB, c *Context) {
	t.Helper()
	if err := c.Update(Tick{Phase: PhaseUpdate}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func configForBench() config.SimConfig {
	cfg := config.Defaults().Sim
	cfg.EntityCapacity = 2048
	cfg.ComponentCapacity = 4096
	return cfg
}

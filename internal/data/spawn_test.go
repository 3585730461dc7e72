package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/core/ecs"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/system"
)

func newContext(t *testing.T) (*coresys.Context, *system.Tags) {
	t.Helper()
	ct := &ecs.ComponentTypes{}
	st := &coresys.SystemTypes{}
	log := zaptest.NewLogger(t)
	tags, err := system.Register(ct, st, log)
	if err != nil {
		t.Fatal(err)
	}
	return coresys.NewContext(config.Defaults().Sim, ct, st, log), tags
}

const sample = `
systems: [MovementSystem, HealthSystem]
entities:
  - name: runner
    count: 2
    components:
      - type: Position
        fields: { x: 1.5, y: -2 }
      - type: Velocity
        fields: { dx: 3 }
  - name: guard
    components:
      - type: Guard
        fields: { range: 7, strength: 11, cooldown: 2 }
      - type: Health
`

func TestApplySpawnList(t *testing.T) {
	l, err := ParseSpawnList([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if l.Count() != 3 {
		t.Fatalf("Count = %d", l.Count())
	}
	ctx, tags := newContext(t)
	ids, err := l.Apply(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ctx.EntityCount() != 3 || ctx.SystemCount() != 2 {
		t.Fatalf("ids=%v entities=%d systems=%d", ids, ctx.EntityCount(), ctx.SystemCount())
	}

	pos, ok := ecs.FirstComponentAs[*component.Position](ctx.World, ids[1], tags.Position)
	if !ok || pos.X != 1.5 || pos.Y != -2 {
		t.Fatalf("position = %+v", pos)
	}
	g, ok := ecs.FirstComponentAs[*component.Guard](ctx.World, ids[2], tags.Brain)
	if !ok || g.Range != 7 || g.Strength != 11 || g.Cooldown != 2 {
		t.Fatalf("guard = %+v", g)
	}
	// No fields keeps the factory defaults.
	h, ok := ecs.FirstComponentAs[*component.Health](ctx.World, ids[2], tags.Health)
	if !ok || h.HP != 100 || h.MaxHP != 100 {
		t.Fatalf("health = %+v", h)
	}
	if _, ok := coresys.FirstOfType[*system.MovementSystem](ctx, tags.MovementSystem); !ok {
		t.Fatal("MovementSystem not added")
	}
}

func TestApplyUnknownComponentRollsBackEntity(t *testing.T) {
	l, err := ParseSpawnList([]byte(`
entities:
  - components: [{type: Position}]
  - components: [{type: Position}, {type: Teleporter}]
`))
	if err != nil {
		t.Fatal(err)
	}
	ctx, _ := newContext(t)
	ids, err := l.Apply(ctx)
	if !errors.Is(err, ecs.ErrUnknownTag) {
		t.Fatalf("err = %v", err)
	}
	if len(ids) != 1 || ctx.EntityCount() != 1 || ctx.ComponentCount() != 1 {
		t.Fatalf("partial entity kept: ids=%v entities=%d components=%d", ids, ctx.EntityCount(), ctx.ComponentCount())
	}
}

func TestApplyAbstractComponent(t *testing.T) {
	l, err := ParseSpawnList([]byte("entities:\n  - components: [{type: Brain}]\n"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, _ := newContext(t)
	if _, err := l.Apply(ctx); !errors.Is(err, ecs.ErrConstructionFailure) {
		t.Fatalf("err = %v", err)
	}
	if ctx.EntityCount() != 0 {
		t.Fatal("entity left behind")
	}
}

func TestApplyUnknownSystem(t *testing.T) {
	l := &SpawnList{Systems: []string{"TeleportSystem"}}
	ctx, _ := newContext(t)
	if _, err := l.Apply(ctx); !errors.Is(err, ecs.ErrUnknownTag) {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyBadFields(t *testing.T) {
	l, err := ParseSpawnList([]byte("entities:\n  - components: [{type: Position, fields: {x: [1, 2]}}]\n"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, _ := newContext(t)
	if _, err := l.Apply(ctx); err == nil {
		t.Fatal("expected a decode error")
	}
	if ctx.EntityCount() != 0 || ctx.ComponentCount() != 0 {
		t.Fatal("entity left behind")
	}
}

func TestLoadSpawnList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spawn_list.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadSpawnList(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Systems) != 2 || len(l.Entities) != 2 {
		t.Fatalf("list = %+v", l)
	}
	if _, err := LoadSpawnList(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestShippedSpawnListParses(t *testing.T) {
	l, err := LoadSpawnList(filepath.Join("..", "..", "data", "yaml", "spawn_list.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Systems) == 0 || l.Count() == 0 {
		t.Fatal("shipped spawn list is empty")
	}
}

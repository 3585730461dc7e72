package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/simcore/internal/core/ecs"
	coresys "github.com/l1jgo/simcore/internal/core/system"
)

// SpawnList describes the initial systems and entities of a simulation.
// Types are referenced by their registered names.
type SpawnList struct {
	Systems  []string      `yaml:"systems"`
	Entities []EntitySpawn `yaml:"entities"`
}

// EntitySpawn is one entity template. Count > 1 instantiates it repeatedly.
type EntitySpawn struct {
	Name       string           `yaml:"name"`
	Count      int              `yaml:"count"`
	Components []ComponentSpawn `yaml:"components"`
}

// ComponentSpawn names a component variant and the fields decoded into the
// instance its factory builds.
type ComponentSpawn struct {
	Type   string    `yaml:"type"`
	Fields yaml.Node `yaml:"fields"`
}

// LoadSpawnList loads spawn_list.yaml.
func LoadSpawnList(path string) (*SpawnList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn list: %w", err)
	}
	return ParseSpawnList(raw)
}

// ParseSpawnList parses a spawn list document.
func ParseSpawnList(raw []byte) (*SpawnList, error) {
	var l SpawnList
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("parse spawn list: %w", err)
	}
	return &l, nil
}

// Count returns the number of entities the list spawns.
func (l *SpawnList) Count() int {
	n := 0
	for i := range l.Entities {
		n += l.Entities[i].count()
	}
	return n
}

func (e *EntitySpawn) count() int {
	if e.Count <= 0 {
		return 1
	}
	return e.Count
}

// Apply adds the listed systems, then the listed entities, to ctx. An entity
// whose components fail to build is removed again before the error is
// returned; entities spawned before it stay.
func (l *SpawnList) Apply(ctx *coresys.Context) ([]ecs.EntityID, error) {
	st := ctx.SystemTypes()
	for _, name := range l.Systems {
		tag, ok := st.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("spawn system %q: %w", name, ecs.ErrUnknownTag)
		}
		if _, err := ctx.AddSystemOfType(tag); err != nil {
			return nil, fmt.Errorf("spawn system %q: %w", name, err)
		}
	}

	ids := make([]ecs.EntityID, 0, l.Count())
	for i := range l.Entities {
		e := &l.Entities[i]
		for n := e.count(); n > 0; n-- {
			id, err := e.spawn(ctx)
			if err != nil {
				return ids, fmt.Errorf("spawn entity %d %q: %w", i, e.Name, err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (e *EntitySpawn) spawn(ctx *coresys.Context) (ecs.EntityID, error) {
	ct := ctx.ComponentTypes()
	id := ctx.AddEntity()
	for i := range e.Components {
		cs := &e.Components[i]
		tag, ok := ct.Lookup(cs.Type)
		if !ok {
			ctx.RemoveEntity(id)
			return ecs.NoEntity, fmt.Errorf("component %q: %w", cs.Type, ecs.ErrUnknownTag)
		}
		c, err := ctx.AddComponent(id, tag)
		if err != nil {
			ctx.RemoveEntity(id)
			return ecs.NoEntity, err
		}
		if !cs.Fields.IsZero() {
			if err := cs.Fields.Decode(c); err != nil {
				ctx.RemoveEntity(id)
				return ecs.NoEntity, fmt.Errorf("component %q fields: %w", cs.Type, err)
			}
		}
	}
	return id, nil
}

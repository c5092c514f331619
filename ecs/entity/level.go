package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
	"github.com/milk9111/loopride/prefabs"
)

// Level is the set of entities built from a LevelSpec.
type Level struct {
	Name   string
	Player ecs.Entity
	Solids []ecs.Entity
	Paths  map[string]ecs.Entity
}

func LoadLevel(w *ecs.World, name string) (*Level, error) {
	spec, err := prefabs.LoadLevelSpec(name)
	if err != nil {
		return nil, err
	}
	return BuildLevel(w, spec)
}

func BuildLevel(w *ecs.World, spec *prefabs.LevelSpec) (*Level, error) {
	if spec == nil {
		return nil, component.ErrNilComponent
	}
	lvl := &Level{Name: spec.Name, Paths: make(map[string]ecs.Entity, len(spec.Paths))}

	for i, s := range spec.Solids {
		e := w.CreateEntity()
		if err := ecs.Add(w, e, component.SolidComponent, component.Solid{A: s.A, B: s.B, Radius: s.Radius}); err != nil {
			return nil, fmt.Errorf("level %s: solid %d: %w", spec.Name, i, err)
		}
		lvl.Solids = append(lvl.Solids, e)
	}

	for i, p := range spec.Paths {
		e, err := BuildPath(w, p)
		if err != nil {
			return nil, fmt.Errorf("level %s: path %d: %w", spec.Name, i, err)
		}
		name := p.Name
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("path_%d", i)
		}
		lvl.Paths[name] = e
	}

	if spec.Player != "" {
		player, err := NewPlayer(w, spec.Player)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", spec.Name, err)
		}
		lvl.Player = player
	}
	return lvl, nil
}

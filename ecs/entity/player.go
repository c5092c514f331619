package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
	"github.com/milk9111/loopride/ecs/system"
	"github.com/milk9111/loopride/prefabs"
)

func NewPlayer(w *ecs.World, prefab string) (ecs.Entity, error) {
	spec, err := prefabs.LoadPlayerSpec(prefab)
	if err != nil {
		return 0, err
	}
	return BuildPlayer(w, spec)
}

// BuildPlayer creates a controllable entity from spec.
func BuildPlayer(w *ecs.World, spec *prefabs.PlayerSpec) (ecs.Entity, error) {
	if spec == nil {
		return 0, component.ErrNilComponent
	}
	e := w.CreateEntity()

	controller := component.Controller{
		Position:         cp.Vector{X: spec.Position[0], Y: spec.Position[1]},
		GravityDirection: spec.GravityDirection,
		Gravity:          spec.Gravity,
		SurfaceAngle:     spec.GravityDirection - 270,
		SlopeGravity:     spec.SlopeGravity,
		GroundFriction:   spec.GroundFriction,
		Sensors:          spec.Sensors,
	}

	var moves component.MoveSet
	if spec.Roll != nil {
		moves.Moves = append(moves.Moves, system.NewRoll(*spec.Roll))
	}
	if spec.Crouch != nil {
		moves.Moves = append(moves.Moves, system.NewCrouch(*spec.Crouch))
	}

	steps := []struct {
		name string
		add  func() error
	}{
		{"player tag", func() error { return ecs.Add(w, e, component.PlayerTagComponent, component.PlayerTag{}) }},
		{"controller", func() error { return ecs.Add(w, e, component.ControllerComponent, controller) }},
		{"ground control", func() error { return ecs.Add(w, e, component.GroundControlComponent, spec.Control) }},
		{"hitbox", func() error {
			hb := component.Hitbox{Width: spec.Hitbox.Width, Height: spec.Hitbox.Height, OffsetX: spec.Hitbox.OffsetX, OffsetY: spec.Hitbox.OffsetY}
			return ecs.Add(w, e, component.HitboxComponent, hb)
		}},
		{"input", func() error { return ecs.Add(w, e, component.InputComponent, component.Input{Axes: map[string]float64{}}) }},
		{"score", func() error { return ecs.Add(w, e, component.ScoreComponent, component.Score{ComboValue: spec.ComboValue}) }},
		{"animation", func() error { return ecs.Add(w, e, component.AnimationFlagsComponent, component.AnimationFlags{}) }},
		{"moves", func() error { return ecs.Add(w, e, component.MoveSetComponent, moves) }},
	}
	for _, step := range steps {
		if err := step.add(); err != nil {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("player: add %s: %w", step.name, err)
		}
	}
	return e, nil
}

// ApplyPlayerTuning updates an existing player's tuning from spec without
// touching its position or motion. Active moves keep their old tuning.
func ApplyPlayerTuning(w *ecs.World, e ecs.Entity, spec *prefabs.PlayerSpec) error {
	if spec == nil {
		return component.ErrNilComponent
	}
	c, ok := ecs.Get(w, e, component.ControllerComponent)
	if !ok {
		return component.ErrEntityNotAlive
	}
	control, ok := ecs.Get(w, e, component.GroundControlComponent)
	if !ok {
		return component.ErrEntityNotAlive
	}
	set, _ := ecs.Get(w, e, component.MoveSetComponent)
	if _, busy := set.ActiveMove(); busy {
		return fmt.Errorf("player: tuning deferred while a move is active")
	}

	c.Gravity = spec.Gravity
	c.SlopeGravity = spec.SlopeGravity
	c.GroundFriction = spec.GroundFriction
	c.Sensors = spec.Sensors
	disabled := control.DisableAcceleration
	*control = spec.Control
	control.DisableAcceleration = disabled

	if m, ok := set.Find(component.MoveRoll); ok && spec.Roll != nil {
		if roll, ok := m.(*system.Roll); ok {
			roll.SetConfig(*spec.Roll)
		}
	}
	return nil
}

package entity

import (
	"fmt"

	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
	"github.com/milk9111/loopride/prefabs"
)

// BuildPath creates the path entity: its transform (optionally under a parent
// transform entity), the shape, the trigger and the traversal engine.
func BuildPath(w *ecs.World, spec prefabs.PathSpec) (ecs.Entity, error) {
	shape, err := spec.Shape.Component()
	if err != nil {
		return 0, err
	}
	mode, err := prefabs.ParseUpdateMode(spec.UpdateMode)
	if err != nil {
		return 0, err
	}

	transform := spec.Transform.Component()
	if spec.Parent != nil {
		parent := w.CreateEntity()
		if err := ecs.Add(w, parent, component.TransformComponent, spec.Parent.Component()); err != nil {
			return 0, fmt.Errorf("path %s: parent transform: %w", spec.Name, err)
		}
		transform.Parent = uint64(parent)
	}

	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, transform); err != nil {
		return 0, fmt.Errorf("path %s: transform: %w", spec.Name, err)
	}
	if err := ecs.Add(w, e, component.PathShapeComponent, shape); err != nil {
		return 0, fmt.Errorf("path %s: shape: %w", spec.Name, err)
	}
	trig := component.Trigger{Width: spec.Trigger.Width, Height: spec.Trigger.Height, OffsetX: spec.Trigger.OffsetX, OffsetY: spec.Trigger.OffsetY}
	if err := ecs.Add(w, e, component.TriggerComponent, trig); err != nil {
		return 0, fmt.Errorf("path %s: trigger: %w", spec.Name, err)
	}
	traversal := component.PathTraversal{
		UpdateMode:  mode,
		TravelSpeed: spec.TravelSpeed,
		ExitSpeed:   spec.ExitSpeed,
		Move:        component.MoveID(spec.Move),
	}
	if err := ecs.Add(w, e, component.PathTraversalComponent, traversal); err != nil {
		return 0, fmt.Errorf("path %s: traversal: %w", spec.Name, err)
	}
	return e, nil
}

package entity

import (
	"fmt"

	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
	"gopkg.in/yaml.v3"
)

// PlayerSnapshot is the human-readable movement state of a controller.
type PlayerSnapshot struct {
	Position       [2]float64        `yaml:"position"`
	Velocity       [2]float64        `yaml:"velocity"`
	Grounded       bool              `yaml:"grounded"`
	GroundVelocity float64           `yaml:"ground_velocity"`
	SurfaceAngle   float64           `yaml:"surface_angle"`
	WallMode       string            `yaml:"wall_mode"`
	Control        string            `yaml:"control,omitempty"`
	Move           string            `yaml:"move,omitempty"`
	SlopeGravity   float64           `yaml:"slope_gravity"`
	GroundFriction float64           `yaml:"ground_friction"`
	Sensors        component.Sensors `yaml:"sensors"`
	Points         int               `yaml:"points"`
}

func Snapshot(w *ecs.World, e ecs.Entity) (PlayerSnapshot, error) {
	c, ok := ecs.Get(w, e, component.ControllerComponent)
	if !ok {
		return PlayerSnapshot{}, fmt.Errorf("snapshot: entity %s has no controller", e)
	}
	snap := PlayerSnapshot{
		Position:       [2]float64{c.Position.X, c.Position.Y},
		Velocity:       [2]float64{c.Velocity.X, c.Velocity.Y},
		Grounded:       c.Grounded,
		GroundVelocity: c.GroundVelocity,
		SurfaceAngle:   c.SurfaceAngle,
		WallMode:       c.WallMode.String(),
		Control:        string(c.Control),
		SlopeGravity:   c.SlopeGravity,
		GroundFriction: c.GroundFriction,
		Sensors:        c.Sensors,
	}
	if set, ok := ecs.Get(w, e, component.MoveSetComponent); ok {
		if m, ok := set.ActiveMove(); ok {
			snap.Move = string(m.ID())
		}
	}
	if sc, ok := ecs.Get(w, e, component.ScoreComponent); ok {
		snap.Points = sc.Points
	}
	return snap, nil
}

// MarshalSnapshot renders the snapshot of e as YAML.
func MarshalSnapshot(w *ecs.World, e ecs.Entity) ([]byte, error) {
	snap, err := Snapshot(w, e)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	return out, nil
}

package prefabs

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/ecs/component"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

func (t TransformSpec) Component() component.Transform {
	return component.Transform{X: t.X, Y: t.Y, ScaleX: t.ScaleX, ScaleY: t.ScaleY, Rotation: t.Rotation}
}

type HitboxSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

// PlayerSpec describes a controllable entity: body, tuning and moves.
type PlayerSpec struct {
	Name             string                  `yaml:"name"`
	Position         [2]float64              `yaml:"position"`
	GravityDirection float64                 `yaml:"gravity_direction"`
	Gravity          float64                 `yaml:"gravity"`
	SlopeGravity     float64                 `yaml:"slope_gravity"`
	GroundFriction   float64                 `yaml:"ground_friction"`
	Sensors          component.Sensors       `yaml:"sensors"`
	Control          component.GroundControl `yaml:"control"`
	Hitbox           HitboxSpec              `yaml:"hitbox"`
	Roll             *component.RollConfig   `yaml:"roll"`
	Crouch           *component.CrouchConfig `yaml:"crouch"`
	ComboValue       int                     `yaml:"combo_value"`
}

func LoadPlayerSpec(name string) (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.GravityDirection == 0 {
		spec.GravityDirection = 270
	}
	return &spec, nil
}

type SolidSpec struct {
	A      [2]float64 `yaml:"a"`
	B      [2]float64 `yaml:"b"`
	Radius float64    `yaml:"radius"`
}

type ShapeSpec struct {
	Kind     string       `yaml:"kind"`
	Points   [][2]float64 `yaml:"points"`
	Width    float64      `yaml:"width"`
	Height   float64      `yaml:"height"`
	Radius   float64      `yaml:"radius"`
	Segments int          `yaml:"segments"`
	Script   string       `yaml:"script"`
}

func (s ShapeSpec) Component() (component.PathShape, error) {
	kind := component.PathShapeKind(strings.ToLower(strings.TrimSpace(s.Kind)))
	switch kind {
	case "":
		kind = component.PathShapePolyline
	case component.PathShapePolyline, component.PathShapePolygon, component.PathShapeRect,
		component.PathShapeCircle, component.PathShapeScript:
	default:
		return component.PathShape{}, fmt.Errorf("prefabs: unknown shape kind %q", s.Kind)
	}
	points := make([]cp.Vector, len(s.Points))
	for i, p := range s.Points {
		points[i] = cp.Vector{X: p[0], Y: p[1]}
	}
	return component.PathShape{
		Kind:     kind,
		Points:   points,
		Width:    s.Width,
		Height:   s.Height,
		Radius:   s.Radius,
		Segments: s.Segments,
		Script:   s.Script,
		Enabled:  true,
	}, nil
}

type TriggerSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

// PathSpec places a path shape and the traversal engine that rides it.
type PathSpec struct {
	Name        string         `yaml:"name"`
	Parent      *TransformSpec `yaml:"parent"`
	Transform   TransformSpec  `yaml:"transform"`
	Shape       ShapeSpec      `yaml:"shape"`
	Trigger     TriggerSpec    `yaml:"trigger"`
	UpdateMode  string         `yaml:"update_mode"`
	TravelSpeed float64        `yaml:"travel_speed"`
	ExitSpeed   float64        `yaml:"exit_speed"`
	Move        string         `yaml:"move"`
}

// LevelSpec is the static geometry plus paths of one level.
type LevelSpec struct {
	Name   string      `yaml:"name"`
	Player string      `yaml:"player"`
	Solids []SolidSpec `yaml:"solids"`
	Paths  []PathSpec  `yaml:"paths"`
}

func LoadLevelSpec(name string) (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ParseUpdateMode maps the YAML update mode names to PathUpdateMode.
func ParseUpdateMode(s string) (component.PathUpdateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "static":
		return component.PathStatic, nil
	case "transform", "rebuild_on_transform_change":
		return component.PathRebuildOnTransformChange, nil
	case "path_or_transform", "rebuild_on_path_or_transform_change":
		return component.PathRebuildOnPathOrTransformChange, nil
	}
	return component.PathStatic, fmt.Errorf("prefabs: unknown path update mode %q", s)
}

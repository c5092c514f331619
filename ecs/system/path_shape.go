package system

import (
	"fmt"
	"math"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
)

const (
	defaultCircleSegments = 32
	maxTransformDepth     = 64
)

// ScriptLoader returns the source of a named path script.
type ScriptLoader func(name string) ([]byte, error)

// shapeBoundary returns the ordered local-space boundary of a shape. Closed
// shapes repeat their first point at the end.
func shapeBoundary(shape *component.PathShape, load ScriptLoader) ([]cp.Vector, error) {
	switch shape.Kind {
	case component.PathShapePolyline, "":
		return append([]cp.Vector(nil), shape.Points...), nil
	case component.PathShapePolygon:
		return closeLoop(shape.Points), nil
	case component.PathShapeRect:
		hw, hh := shape.Width/2, shape.Height/2
		return closeLoop([]cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}), nil
	case component.PathShapeCircle:
		return closeLoop(circlePoints(shape.Radius, shape.Segments)), nil
	case component.PathShapeScript:
		return scriptBoundary(shape, load)
	}
	return nil, fmt.Errorf("path: unknown shape kind %q", shape.Kind)
}

func closeLoop(points []cp.Vector) []cp.Vector {
	if len(points) < 2 {
		return append([]cp.Vector(nil), points...)
	}
	out := make([]cp.Vector, 0, len(points)+1)
	out = append(out, points...)
	if points[0] != points[len(points)-1] {
		out = append(out, points[0])
	}
	return out
}

// circlePoints starts at the bottom of the circle and runs counter-clockwise,
// which is the direction a controller moving right travels around a loop.
func circlePoints(radius float64, segments int) []cp.Vector {
	if segments < 3 {
		segments = defaultCircleSegments
	}
	out := make([]cp.Vector, segments)
	for i := range out {
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(segments)
		out[i] = cp.Vector{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return out
}

// scriptBoundary runs a tengo script that must define `points` as an array of
// [x, y] pairs. The shape's numeric fields are exposed as globals.
func scriptBoundary(shape *component.PathShape, load ScriptLoader) ([]cp.Vector, error) {
	if load == nil {
		return nil, fmt.Errorf("path: no script loader for %s", shape.Script)
	}
	src, err := load(shape.Script)
	if err != nil {
		return nil, fmt.Errorf("path: load script %s: %w", shape.Script, err)
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math"))
	_ = script.Add("radius", shape.Radius)
	_ = script.Add("width", shape.Width)
	_ = script.Add("height", shape.Height)
	_ = script.Add("segments", shape.Segments)

	compiled, err := script.Run()
	if err != nil {
		return nil, fmt.Errorf("path: run script %s: %w", shape.Script, err)
	}
	if !compiled.IsDefined("points") {
		return nil, fmt.Errorf("path: script %s does not define points", shape.Script)
	}

	raw, ok := compiled.Get("points").Value().([]interface{})
	if !ok {
		return nil, fmt.Errorf("path: script %s: points is not an array", shape.Script)
	}
	out := make([]cp.Vector, 0, len(raw))
	for i, item := range raw {
		pair, ok := item.([]interface{})
		if !ok || len(pair) < 2 {
			return nil, fmt.Errorf("path: script %s: point %d is not an [x, y] pair", shape.Script, i)
		}
		x, okX := scriptNumber(pair[0])
		y, okY := scriptNumber(pair[1])
		if !okX || !okY {
			return nil, fmt.Errorf("path: script %s: point %d is not numeric", shape.Script, i)
		}
		out = append(out, cp.Vector{X: x, Y: y})
	}
	return out, nil
}

func scriptNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// transformChain returns e followed by its ancestors, nearest first. Missing
// or dead parents end the chain.
func transformChain(w *ecs.World, e ecs.Entity) []ecs.Entity {
	chain := make([]ecs.Entity, 0, 4)
	for cur := e; len(chain) < maxTransformDepth; {
		t, ok := ecs.Get(w, cur, component.TransformComponent)
		if !ok {
			break
		}
		chain = append(chain, cur)
		if t.Parent == 0 {
			break
		}
		cur = ecs.Entity(t.Parent)
	}
	return chain
}

// toWorld maps local points through every transform in the chain.
func toWorld(w *ecs.World, chain []ecs.Entity, points []cp.Vector) []cp.Vector {
	out := append([]cp.Vector(nil), points...)
	for _, node := range chain {
		t, ok := ecs.Get(w, node, component.TransformComponent)
		if !ok {
			continue
		}
		for i := range out {
			out[i] = t.Apply(out[i])
		}
	}
	return out
}

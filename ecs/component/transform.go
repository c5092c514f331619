package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Transform places an entity relative to its parent. Version increases on
// every mutation made through the setters; readers compare versions instead
// of clearing dirty flags.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	Parent   uint64
	Version  uint64
}

var TransformComponent = NewComponent[Transform]()

func (t *Transform) SetPosition(x, y float64) {
	t.X, t.Y = x, y
	t.Version++
}

func (t *Transform) SetRotation(radians float64) {
	t.Rotation = radians
	t.Version++
}

func (t *Transform) SetScale(x, y float64) {
	t.ScaleX, t.ScaleY = x, y
	t.Version++
}

func (t *Transform) SetParent(parent uint64) {
	t.Parent = parent
	t.Version++
}

// Apply maps a point from this transform's local space into its parent's
// space: scale, then rotate, then translate.
func (t Transform) Apply(p cp.Vector) cp.Vector {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	p = cp.Vector{X: p.X * sx, Y: p.Y * sy}
	if t.Rotation != 0 {
		sin, cos := math.Sincos(t.Rotation)
		p = cp.Vector{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}
	return cp.Vector{X: p.X + t.X, Y: p.Y + t.Y}
}

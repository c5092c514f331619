package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DebugView maps world space (y up) to screen space (y down) centered on a
// world point.
type DebugView struct {
	CenterX float64
	CenterY float64
	Zoom    float64
}

func (v DebugView) toScreen(screen *ebiten.Image, p cp.Vector) (float32, float32) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	b := screen.Bounds()
	x := float64(b.Dx())/2 + (p.X-v.CenterX)*zoom
	y := float64(b.Dy())/2 - (p.Y-v.CenterY)*zoom
	return float32(x), float32(y)
}

// DrawDebug draws level geometry, cached paths, trigger volumes and every
// controller's sensor envelope.
func DrawDebug(space *cp.Space, w *ecs.World, screen *ebiten.Image, view DebugView) {
	if w == nil || screen == nil {
		return
	}
	d := &debugDrawer{screen: screen, view: view}
	if space != nil {
		cp.DrawSpace(space, d)
	}

	for _, e := range w.Query(component.PathTraversalComponent.Kind()) {
		pt, _ := ecs.Get(w, e, component.PathTraversalComponent)
		pts := pt.Cache.Polyline.Points
		for i := 1; i < len(pts); i++ {
			d.line(pts[i-1], pts[i], colornames.Orange)
		}
		for _, tr := range pt.Travelers {
			if len(pts) > 0 {
				d.dot(pt.Cache.Polyline.Walk(tr.Progress), colornames.Yellow)
			}
		}
	}

	for _, e := range w.Query(component.TriggerComponent.Kind(), component.TransformComponent.Kind()) {
		trig, _ := ecs.Get(w, e, component.TriggerComponent)
		d.bb(triggerBB(w, e, trig), colornames.Steelblue)
	}

	for _, e := range w.Query(component.ControllerComponent.Kind()) {
		c, _ := ecs.Get(w, e, component.ControllerComponent)
		d.sensors(c)
	}
}

// DrawPlayerDebug prints the player's movement state.
func DrawPlayerDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	c, ok := ecs.Get(w, player, component.ControllerComponent)
	if !ok {
		return
	}
	move := "none"
	if set, ok := ecs.Get(w, player, component.MoveSetComponent); ok {
		if m, ok := set.ActiveMove(); ok {
			move = string(m.ID())
		}
	}
	control := string(c.Control)
	if control == "" {
		control = "normal"
	}
	points, combo := 0, 0
	if sc, ok := ecs.Get(w, player, component.ScoreComponent); ok {
		points, combo = sc.Points, sc.Combo
	}
	text := fmt.Sprintf("Move: %s\nControl: %s\nGrounded: %v  Wall: %s\nGround speed: %.1f\nSurface: %.1f\nScore: %d  Combo: %d",
		move, control, c.Grounded, c.WallMode, c.GroundVelocity, c.SurfaceAngle, points, combo)
	ebitenutil.DebugPrintAt(screen, text, 10, 24)
}

type debugDrawer struct {
	screen *ebiten.Image
	view   DebugView
}

func (d *debugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.circle(pos, radius, toNRGBA(outline))
	d.line(pos, pos.Add(cp.ForAngle(angle).Mult(radius)), toNRGBA(outline))
}

func (d *debugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, toNRGBA(fill))
}

func (d *debugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, toNRGBA(outline))
	if radius > 0 {
		d.circle(a, radius, toNRGBA(outline))
		d.circle(b, radius, toNRGBA(outline))
	}
}

func (d *debugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.polygon(verts[:count], toNRGBA(outline))
}

func (d *debugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	d.dot(pos, toNRGBA(fill))
}

func (d *debugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *debugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *debugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *debugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *debugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *debugDrawer) Data() interface{} {
	return nil
}

func (d *debugDrawer) sensors(c *component.Controller) {
	s := c.Sensors
	up := c.Up()
	side := right(up)
	at := func(x, y float64) cp.Vector {
		return c.Position.Add(side.Mult(x)).Add(up.Mult(y))
	}

	// solid box
	hw := s.SolidWidth / 2
	d.polygon([]cp.Vector{at(-hw, s.SolidOffset), at(hw, s.SolidOffset), at(hw, s.TopOffset), at(-hw, s.TopOffset)}, colornames.White)
	// ground and ceiling rays
	for _, x := range []float64{-s.BottomWidth / 2, s.BottomWidth / 2} {
		d.line(at(x, 0), at(x, s.BottomOffset), colornames.Lime)
	}
	for _, x := range []float64{-s.TopWidth / 2, s.TopWidth / 2} {
		d.line(at(x, 0), at(x, s.TopOffset), colornames.Cyan)
	}
	clr := color.Color(colornames.Lightgrey)
	if c.Overridden() {
		clr = colornames.Magenta
	}
	d.dot(c.Position, clr)
}

func (d *debugDrawer) bb(bb cp.BB, clr color.Color) {
	d.polygon([]cp.Vector{{X: bb.L, Y: bb.B}, {X: bb.R, Y: bb.B}, {X: bb.R, Y: bb.T}, {X: bb.L, Y: bb.T}}, clr)
}

func (d *debugDrawer) dot(p cp.Vector, clr color.Color) {
	half := debugDotSize / 2.0
	d.line(cp.Vector{X: p.X - half, Y: p.Y}, cp.Vector{X: p.X + half, Y: p.Y}, clr)
	d.line(cp.Vector{X: p.X, Y: p.Y - half}, cp.Vector{X: p.X, Y: p.Y + half}, clr)
}

func (d *debugDrawer) line(a, b cp.Vector, clr color.Color) {
	x1, y1 := d.view.toScreen(d.screen, a)
	x2, y2 := d.view.toScreen(d.screen, b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, clr, true)
}

func (d *debugDrawer) polygon(verts []cp.Vector, clr color.Color) {
	for i := range verts {
		d.line(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func (d *debugDrawer) circle(center cp.Vector, radius float64, clr color.Color) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.polygon(points, clr)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

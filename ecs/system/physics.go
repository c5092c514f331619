package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/common"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
)

const (
	// extra reach of the ground sensors while airborne
	groundProbeMargin = 1.0
	// extra reach while grounded so the controller sticks to slopes and loops
	groundStickDistance = 10.0
	// below this ground speed a controller falls off walls and ceilings
	wallSlipSpeed = 60.0
	pushOutIterations = 4
)

// PhysicsSystem owns the Chipmunk space holding static level geometry and
// resolves controller collisions against it.
type PhysicsSystem struct {
	space  *cp.Space
	probe  *cp.Body
	solids map[ecs.Entity]*cp.Shape
}

func NewPhysicsSystem() *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	return &PhysicsSystem{
		space:  space,
		probe:  cp.NewKinematicBody(),
		solids: make(map[ecs.Entity]*cp.Shape),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.syncSolids(w)
	for _, e := range w.Query(component.ControllerComponent.Kind()) {
		c, ok := ecs.Get(w, e, component.ControllerComponent)
		if !ok || c.Overridden() {
			continue
		}
		ps.resolve(c)
	}
}

// Resolve pushes e out of level geometry and refreshes its ground contact.
func (ps *PhysicsSystem) Resolve(w *ecs.World, e ecs.Entity) {
	if ps == nil || w == nil {
		return
	}
	c, ok := ecs.Get(w, e, component.ControllerComponent)
	if !ok {
		return
	}
	ps.syncSolids(w)
	ps.resolve(c)
}

func (ps *PhysicsSystem) resolve(c *component.Controller) {
	ps.pushOut(c)
	ps.probeCeiling(c)
	ps.probeGround(c)
}

func (ps *PhysicsSystem) syncSolids(w *ecs.World) {
	for e, shape := range ps.solids {
		if w.IsAlive(e) && ecs.Has(w, e, component.SolidComponent) {
			continue
		}
		ps.space.RemoveShape(shape)
		delete(ps.solids, e)
	}

	for _, e := range w.Query(component.SolidComponent.Kind()) {
		if _, ok := ps.solids[e]; ok {
			continue
		}
		solid, ok := ecs.Get(w, e, component.SolidComponent)
		if !ok {
			continue
		}
		a := cp.Vector{X: solid.A[0], Y: solid.A[1]}
		b := cp.Vector{X: solid.B[0], Y: solid.B[1]}
		shape := cp.NewSegment(ps.space.StaticBody, a, b, solid.Radius)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
		ps.solids[e] = shape
	}
}

func (ps *PhysicsSystem) pushOut(c *component.Controller) {
	s := c.Sensors
	if s.SolidWidth <= 0 || s.TopOffset <= s.SolidOffset {
		return
	}
	up := c.Up()
	ps.probe.SetAngle(c.FrameAngle())

	for i := 0; i < pushOutIterations; i++ {
		ps.probe.SetPosition(c.Position)
		box := cp.NewBox2(ps.probe, cp.BB{L: -s.SolidWidth / 2, B: s.SolidOffset, R: s.SolidWidth / 2, T: s.TopOffset}, 0)
		box.CacheBB()

		var deepest float64
		var normal cp.Vector
		ps.space.ShapeQuery(box, func(shape *cp.Shape, points *cp.ContactPointSet) {
			for j := 0; j < points.Count; j++ {
				if d := points.Points[j].Distance; d < deepest {
					deepest = d
					normal = points.Normal
				}
			}
		})
		if deepest >= 0 {
			return
		}
		// the contact normal points from the box into the solid
		c.Position = c.Position.Add(normal.Mult(deepest))
		if into := c.Velocity.Dot(normal); into > 0 {
			c.Velocity = c.Velocity.Sub(normal.Mult(into))
		}
		// a wall hit stops ground motion, a floor hit is handled by the ground probe
		if c.Grounded && math.Abs(normal.Dot(up)) < 0.5 && c.GroundVelocity*normal.Dot(right(up)) > 0 {
			c.GroundVelocity = 0
		}
	}
}

func (ps *PhysicsSystem) probeCeiling(c *component.Controller) {
	s := c.Sensors
	up := c.Up()
	if c.Grounded || c.Velocity.Dot(up) <= 0 || s.TopOffset <= 0 {
		return
	}
	hit, ok := ps.probePair(c.Position, up, right(up), s.TopWidth, s.TopOffset)
	if !ok {
		return
	}
	c.Position = c.Position.Sub(up.Mult(s.TopOffset - hit.Alpha*s.TopOffset))
	c.Velocity = c.Velocity.Sub(up.Mult(c.Velocity.Dot(up)))
}

func (ps *PhysicsSystem) probeGround(c *component.Controller) {
	s := c.Sensors
	wasGrounded := c.Grounded
	c.Landed = false
	if s.BottomOffset >= 0 {
		return
	}

	up := c.Up()
	down := up.Neg()
	reach := -s.BottomOffset + groundProbeMargin
	if wasGrounded {
		reach = -s.BottomOffset + groundStickDistance
	}

	hit, ok := ps.probePair(c.Position, down, right(up), s.BottomWidth, reach)
	if ok && !wasGrounded && c.Velocity.Dot(hit.Normal) > 0 {
		// moving away from the surface, e.g. jumping through the probe range
		ok = false
	}
	if ok && wasGrounded && c.WallMode != component.WallNone && math.Abs(c.GroundVelocity) < wallSlipSpeed {
		ok = false
	}
	if !ok {
		if wasGrounded {
			ps.detach(c)
		}
		return
	}

	c.SurfaceAngle = common.NormalizeDegrees(common.RadToDeg(math.Atan2(hit.Normal.Y, hit.Normal.X)) - 90)
	c.Position = c.Position.Add(down.Mult(hit.Alpha*reach + s.BottomOffset))
	c.Grounded = true
	if !wasGrounded {
		c.Landed = true
		c.GroundVelocity = c.Velocity.Dot(cp.ForAngle(common.DegToRad(c.SurfaceAngle)))
	}
	c.WallMode = wallModeFor(c.RelativeSurfaceAngle())

	if s.LedgeWidth > 0 {
		_, left := ps.probe1(c.Position.Add(right(c.Up()).Mult(-s.LedgeWidth/2)), c.Up().Neg(), reach)
		_, rgt := ps.probe1(c.Position.Add(right(c.Up()).Mult(s.LedgeWidth/2)), c.Up().Neg(), reach)
		c.AtLedge = !left || !rgt
	}
}

func (ps *PhysicsSystem) detach(c *component.Controller) {
	tangent := cp.ForAngle(common.DegToRad(c.SurfaceAngle))
	c.Velocity = tangent.Mult(c.GroundVelocity)
	c.Grounded = false
	c.AtLedge = false
	c.WallMode = component.WallNone
	c.SurfaceAngle = common.NormalizeDegrees(c.GravityDirection - 270)
}

// probePair casts two parallel rays offset by ±width/2 along side and returns
// the closest hit.
func (ps *PhysicsSystem) probePair(origin, dir, side cp.Vector, width, length float64) (cp.SegmentQueryInfo, bool) {
	a, okA := ps.probe1(origin.Add(side.Mult(-width/2)), dir, length)
	b, okB := ps.probe1(origin.Add(side.Mult(width/2)), dir, length)
	switch {
	case okA && okB:
		if b.Alpha < a.Alpha {
			return b, true
		}
		return a, true
	case okA:
		return a, true
	case okB:
		return b, true
	}
	return cp.SegmentQueryInfo{}, false
}

func (ps *PhysicsSystem) probe1(start, dir cp.Vector, length float64) (cp.SegmentQueryInfo, bool) {
	end := start.Add(dir.Mult(length))
	info := ps.space.SegmentQueryFirst(start, end, 0, cp.SHAPE_FILTER_ALL)
	return info, info.Shape != nil
}

func right(up cp.Vector) cp.Vector {
	return cp.Vector{X: up.Y, Y: -up.X}
}

func wallModeFor(relative float64) component.WallMode {
	switch {
	case relative >= 45 && relative < 135:
		return component.WallRight
	case relative >= 135 && relative < 225:
		return component.WallCeiling
	case relative >= 225 && relative < 315:
		return component.WallLeft
	default:
		return component.WallNone
	}
}

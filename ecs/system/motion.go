package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/common"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
)

// MotionSystem integrates ordinary movement for controllers that no other
// component has taken over: slope gravity, input acceleration, deceleration
// and friction on the ground, gravity and air control in the air.
type MotionSystem struct {
	dt float64
}

func NewMotionSystem() *MotionSystem {
	return &MotionSystem{dt: common.StepDuration}
}

func (ms *MotionSystem) Update(w *ecs.World) {
	if ms == nil || w == nil {
		return
	}
	for _, e := range w.Query(component.ControllerComponent.Kind(), component.GroundControlComponent.Kind()) {
		c, ok := ecs.Get(w, e, component.ControllerComponent)
		if !ok || c.Overridden() {
			continue
		}
		control, ok := ecs.Get(w, e, component.GroundControlComponent)
		if !ok {
			continue
		}
		var axis float64
		if in, ok := ecs.Get(w, e, component.InputComponent); ok {
			axis = in.Axis(component.AxisHorizontal)
		}
		Integrate(c, control, axis, ms.dt)
	}
}

// Integrate advances one controller by dt.
func Integrate(c *component.Controller, control *component.GroundControl, axis, dt float64) {
	if c == nil || control == nil {
		return
	}
	if c.Grounded {
		integrateGround(c, control, axis, dt)
	} else {
		integrateAir(c, control, axis, dt)
	}
	c.Position = c.Position.Add(c.Velocity.Mult(dt))
}

func integrateGround(c *component.Controller, control *component.GroundControl, axis, dt float64) {
	gv := c.GroundVelocity

	slope := common.DegToRad(c.RelativeSurfaceAngle())
	gv -= c.SlopeGravity * math.Sin(slope) * dt

	opposing := axis != 0 && gv != 0 && common.Sign(axis) != common.Sign(gv)
	switch {
	case opposing:
		gv = common.MoveToward(gv, 0, control.Deceleration*math.Abs(axis)*dt)
	case axis != 0 && !control.DisableAcceleration:
		if math.Abs(gv) < control.TopSpeed {
			gv += control.Acceleration * axis * dt
			gv = math.Max(-control.TopSpeed, math.Min(control.TopSpeed, gv))
		}
		// above top speed (downhill, springs) the controller keeps its speed
	default:
		gv = common.MoveToward(gv, 0, c.GroundFriction*dt)
	}

	c.GroundVelocity = gv
	c.Velocity = cp.ForAngle(common.DegToRad(c.SurfaceAngle)).Mult(gv)
}

func integrateAir(c *component.Controller, control *component.GroundControl, axis, dt float64) {
	down := cp.ForAngle(common.DegToRad(c.GravityDirection))
	c.Velocity = c.Velocity.Add(down.Mult(c.Gravity * dt))
	if axis != 0 && control.AirAcceleration > 0 {
		side := cp.Vector{X: -down.Y, Y: down.X}
		c.Velocity = c.Velocity.Add(side.Mult(control.AirAcceleration * axis * dt))
	}
}

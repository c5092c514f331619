package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/ecs/component"
)

// Roll is the rolling move: while active it owns friction, slope gravity and
// deceleration, shrinks the collision envelope and makes the hitbox harmful.
// Everything it changes is put back on Exit.
type Roll struct {
	cfg component.RollConfig

	active             bool
	activationPositive bool
	uphill             bool

	// values to restore on exit
	origSlopeGravity float64
	origFriction     float64
	origDeceleration float64

	// values this move wrote last, used to spot writes by anyone else
	lastSlopeGravity float64
	lastFriction     float64
	lastDeceleration float64

	offset         cp.Vector
	sensorsBefore  component.Sensors
	sensorsApplied component.Sensors
}

func NewRoll(cfg component.RollConfig) *Roll {
	if cfg.Axis == "" {
		cfg.Axis = component.AxisVertical
	}
	return &Roll{cfg: cfg}
}

func (r *Roll) ID() component.MoveID  { return component.MoveRoll }
func (r *Roll) Active() bool          { return r != nil && r.active }
func (r *Roll) AnimationFlag() string { return r.cfg.AnimationFlag }
func (r *Roll) Uphill() bool          { return r.uphill }

func (r *Roll) Config() component.RollConfig { return r.cfg }

// SetConfig replaces the tuning. It is ignored while the roll is active so
// the exit sequence undoes exactly what the entry applied.
func (r *Roll) SetConfig(cfg component.RollConfig) bool {
	if r.active {
		return false
	}
	if cfg.Axis == "" {
		cfg.Axis = component.AxisVertical
	}
	r.cfg = cfg
	return true
}

// EndsOnLanding reports whether re-acquiring ground from the air interrupts
// the roll.
func (r *Roll) EndsOnLanding() bool {
	return r.cfg.EndOnLanding == nil || *r.cfg.EndOnLanding
}

func (r *Roll) Available(ctx *component.MoveContext) bool {
	if ctx == nil || ctx.Controller == nil {
		return false
	}
	c := ctx.Controller
	return c.Grounded && math.Abs(c.GroundVelocity) > r.cfg.MinActivationSpeed
}

func (r *Roll) ShouldPerform(ctx *component.MoveContext) bool {
	if ctx == nil || ctx.Input == nil {
		return false
	}
	want := 1.0
	if r.cfg.Negate {
		want = -1
	}
	return ctx.Input.Axis(r.cfg.Axis) == want
}

// ShouldEnd fires once the ground speed has decayed into the dead zone on the
// side it was rolling toward. Speed of the opposite sign keeps the roll going.
func (r *Roll) ShouldEnd(ctx *component.MoveContext) bool {
	if ctx == nil || ctx.Controller == nil || !ctx.Controller.Grounded {
		return false
	}
	gv := ctx.Controller.GroundVelocity
	min := r.cfg.MinActivationSpeed
	if r.activationPositive {
		return gv >= 0 && gv < min
	}
	return gv <= 0 && gv > -min
}

func (r *Roll) Enter(ctx *component.MoveContext) {
	if r.active || ctx == nil || ctx.Controller == nil || ctx.Control == nil {
		return
	}
	c := ctx.Controller

	r.activationPositive = c.GroundVelocity > 0

	r.origSlopeGravity = c.SlopeGravity
	r.origFriction = c.GroundFriction
	r.origDeceleration = ctx.Control.Deceleration

	c.GroundFriction = r.cfg.Friction
	ctx.Control.DisableAcceleration = true
	ctx.Control.Deceleration = r.cfg.Deceleration

	r.lastSlopeGravity = c.SlopeGravity
	r.lastFriction = r.cfg.Friction
	r.lastDeceleration = r.cfg.Deceleration

	r.sensorsBefore = c.Sensors
	c.Sensors = r.resize(c.Sensors, 1)
	r.sensorsApplied = c.Sensors

	r.offset = r.PositionOffset(c)
	c.Position = c.Position.Add(r.offset)

	if ctx.ResolveCollisions != nil {
		ctx.ResolveCollisions()
	}
	if ctx.Hitbox != nil {
		ctx.Hitbox.Harmful = true
	}
	r.active = true
}

func (r *Roll) Update(ctx *component.MoveContext) {
	if !r.active || ctx == nil || ctx.Controller == nil || ctx.Control == nil {
		return
	}
	c := ctx.Controller

	if c.GroundVelocity != 0 {
		angle := c.RelativeSurfaceAngle()
		if c.GroundVelocity > 0 {
			r.uphill = angle >= 0 && angle < 180
		} else {
			r.uphill = angle >= 180 && angle < 360
		}
	}

	if c.SlopeGravity != r.lastSlopeGravity {
		r.origSlopeGravity = c.SlopeGravity
	}
	if c.GroundFriction != r.lastFriction {
		r.origFriction = c.GroundFriction
	}
	if ctx.Control.Deceleration != r.lastDeceleration {
		r.origDeceleration = ctx.Control.Deceleration
	}

	gravity := r.cfg.DownhillGravity
	if r.uphill {
		gravity = r.cfg.UphillGravity
	}
	c.SlopeGravity = gravity
	c.GroundFriction = r.cfg.Friction
	ctx.Control.Deceleration = r.cfg.Deceleration

	r.lastSlopeGravity = gravity
	r.lastFriction = r.cfg.Friction
	r.lastDeceleration = r.cfg.Deceleration

	ctx.Animation.Set(r.cfg.UphillFlag, r.uphill)
}

func (r *Roll) Exit(ctx *component.MoveContext) {
	if !r.active || ctx == nil || ctx.Controller == nil || ctx.Control == nil {
		return
	}
	c := ctx.Controller

	c.SlopeGravity = r.origSlopeGravity
	c.GroundFriction = r.origFriction
	ctx.Control.Deceleration = r.origDeceleration
	ctx.Control.DisableAcceleration = false

	if c.Sensors == r.sensorsApplied {
		c.Sensors = r.sensorsBefore
	} else {
		c.Sensors = r.resize(c.Sensors, -1)
	}

	c.Position = c.Position.Sub(r.offset)

	if ctx.ResolveCollisions != nil {
		ctx.ResolveCollisions()
	}
	if ctx.Hitbox != nil {
		ctx.Hitbox.Harmful = false
	}
	if ctx.Score != nil {
		ctx.Score.EndCombo()
	}
	ctx.Animation.Set(r.cfg.UphillFlag, false)

	r.active = false
	r.offset = cp.Vector{}
}

// PositionOffset is the translation that keeps the resized envelope touching
// the same ground point: half the height change along the controller's up.
func (r *Roll) PositionOffset(c *component.Controller) cp.Vector {
	if c == nil {
		return cp.Vector{}
	}
	return c.Up().Mult(r.cfg.HeightChange / 2)
}

func (r *Roll) resize(s component.Sensors, dir float64) component.Sensors {
	h := dir * r.cfg.HeightChange / 2
	w := dir * r.cfg.WidthChange
	s.TopOffset += h
	s.BottomOffset -= h
	s.SolidOffset -= h
	s.LedgeWidth += w
	s.BottomWidth += w
	s.SolidWidth += w
	s.TopWidth += w
	return s
}

package system

import (
	"math"

	"github.com/milk9111/loopride/ecs/component"
)

// Crouch holds the controller in place while the crouch axis is held at low
// speed.
type Crouch struct {
	cfg    component.CrouchConfig
	active bool
}

func NewCrouch(cfg component.CrouchConfig) *Crouch {
	if cfg.Axis == "" {
		cfg.Axis = component.AxisVertical
	}
	return &Crouch{cfg: cfg}
}

func (c *Crouch) ID() component.MoveID  { return component.MoveCrouch }
func (c *Crouch) Active() bool          { return c != nil && c.active }
func (c *Crouch) AnimationFlag() string { return c.cfg.AnimationFlag }

func (c *Crouch) Available(ctx *component.MoveContext) bool {
	if ctx == nil || ctx.Controller == nil {
		return false
	}
	return ctx.Controller.Grounded && math.Abs(ctx.Controller.GroundVelocity) <= c.cfg.MaxSpeed
}

func (c *Crouch) ShouldPerform(ctx *component.MoveContext) bool {
	return ctx != nil && ctx.Input.Axis(c.cfg.Axis) == -1
}

func (c *Crouch) ShouldEnd(ctx *component.MoveContext) bool {
	if ctx == nil || ctx.Controller == nil {
		return true
	}
	return !ctx.Controller.Grounded || ctx.Input.Axis(c.cfg.Axis) != -1
}

func (c *Crouch) Enter(ctx *component.MoveContext) {
	if c.active || ctx == nil || ctx.Control == nil {
		return
	}
	ctx.Control.DisableAcceleration = true
	c.active = true
}

func (c *Crouch) Update(ctx *component.MoveContext) {
	if !c.active || ctx == nil || ctx.Control == nil {
		return
	}
	ctx.Control.DisableAcceleration = true
}

func (c *Crouch) Exit(ctx *component.MoveContext) {
	if !c.active || ctx == nil || ctx.Control == nil {
		return
	}
	ctx.Control.DisableAcceleration = false
	c.active = false
}

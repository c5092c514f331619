package component

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/common"
)

// WallMode is the quadrant of the surface the controller is attached to.
type WallMode int

const (
	WallNone WallMode = iota
	WallRight
	WallCeiling
	WallLeft
)

func (m WallMode) String() string {
	switch m {
	case WallRight:
		return "right"
	case WallCeiling:
		return "ceiling"
	case WallLeft:
		return "left"
	default:
		return "none"
	}
}

// ControlOwner names the component currently driving a controller's
// movement. The empty owner means ordinary movement control.
type ControlOwner string

const ControlNormal ControlOwner = ""

// Sensors describe the collision envelope relative to the controller origin,
// in the controller's own frame (y up). Offsets are vertical, widths are full
// widths centered on the origin.
type Sensors struct {
	TopOffset    float64 `yaml:"top_offset"`
	BottomOffset float64 `yaml:"bottom_offset"`
	SolidOffset  float64 `yaml:"solid_offset"`
	LedgeWidth   float64 `yaml:"ledge_width"`
	BottomWidth  float64 `yaml:"bottom_width"`
	SolidWidth   float64 `yaml:"solid_width"`
	TopWidth     float64 `yaml:"top_width"`
}

// Height is the distance between the top and bottom sensors.
func (s Sensors) Height() float64 {
	return s.TopOffset - s.BottomOffset
}

// Controller is the physics-bearing body of a moving entity.
type Controller struct {
	Position cp.Vector
	Velocity cp.Vector

	Grounded bool
	// Landed is true only on the step ground contact was re-acquired.
	Landed         bool
	AtLedge        bool
	GroundVelocity float64

	// Degrees, world frame. 270 points down.
	GravityDirection float64
	Gravity          float64
	WallMode         WallMode
	// World angle in degrees of the surface tangent under the ground sensors.
	SurfaceAngle float64

	SlopeGravity   float64
	GroundFriction float64
	Sensors        Sensors

	Control ControlOwner
}

var ControllerComponent = NewComponent[Controller]()

// RelativeSurfaceAngle returns the surface angle in the controller's frame,
// normalized to [0, 360).
func (c *Controller) RelativeSurfaceAngle() float64 {
	return common.NormalizeDegrees(c.SurfaceAngle - (c.GravityDirection - 270))
}

// Up returns the unit vector pointing out of the surface the controller is
// attached to. While wall attached that is the wall's outward normal,
// otherwise it is the opposite of gravity.
func (c *Controller) Up() cp.Vector {
	if c.WallMode != WallNone {
		return cp.ForAngle(common.DegToRad(c.SurfaceAngle + 90))
	}
	return cp.ForAngle(common.DegToRad(c.GravityDirection + 180))
}

// FrameAngle is the rotation in radians from world axes to the controller
// frame.
func (c *Controller) FrameAngle() float64 {
	up := c.Up()
	return math.Atan2(up.Y, up.X) - math.Pi/2
}

// SensorCenter is the offset from Position to the middle of the sensor box.
func (c *Controller) SensorCenter() cp.Vector {
	return c.Up().Mult((c.Sensors.TopOffset + c.Sensors.BottomOffset) / 2)
}

// Overridden reports whether a component other than ordinary movement owns
// the controller.
func (c *Controller) Overridden() bool {
	return c.Control != ControlNormal
}

// Suspend hands movement control to owner. It fails when another owner
// already holds it.
func (c *Controller) Suspend(owner ControlOwner) bool {
	if owner == ControlNormal {
		return false
	}
	if c.Control != ControlNormal && c.Control != owner {
		return false
	}
	c.Control = owner
	return true
}

// Resume returns movement control to normal if owner holds it.
func (c *Controller) Resume(owner ControlOwner) bool {
	if c.Control != owner {
		return false
	}
	c.Control = ControlNormal
	return true
}

// GroundControl holds acceleration parameters shared by all movement modes.
type GroundControl struct {
	Acceleration        float64 `yaml:"acceleration"`
	Deceleration        float64 `yaml:"deceleration"`
	TopSpeed            float64 `yaml:"top_speed"`
	AirAcceleration     float64 `yaml:"air_acceleration"`
	DisableAcceleration bool    `yaml:"-"`
}

var GroundControlComponent = NewComponent[GroundControl]()

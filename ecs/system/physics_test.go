package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
)

func addFloor(t *testing.T, w *ecs.World, a, b [2]float64) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.SolidComponent, component.Solid{A: a, B: b}); err != nil {
		t.Fatalf("add solid: %v", err)
	}
	return e
}

func addBody(t *testing.T, w *ecs.World, pos, vel cp.Vector, grounded bool) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.ControllerComponent, component.Controller{
		Position:         pos,
		Velocity:         vel,
		Grounded:         grounded,
		GravityDirection: 270,
		Sensors: component.Sensors{
			TopOffset:    20,
			BottomOffset: -20,
			SolidOffset:  -10,
			BottomWidth:  18,
			SolidWidth:   20,
			TopWidth:     18,
		},
	}); err != nil {
		t.Fatalf("add controller: %v", err)
	}
	return e
}

func TestPhysicsLandsOnFloor(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	addFloor(t, w, [2]float64{-100, 0}, [2]float64{100, 0})
	e := addBody(t, w, cp.Vector{X: 0, Y: 20.5}, cp.Vector{X: 30, Y: -40}, false)

	ps.Update(w)

	c, _ := ecs.Get(w, e, component.ControllerComponent)
	if !c.Grounded || !c.Landed {
		t.Fatalf("grounded=%v landed=%v, want both", c.Grounded, c.Landed)
	}
	if math.Abs(c.Position.Y-20) > 1e-6 {
		t.Fatalf("y = %v, want 20", c.Position.Y)
	}
	if math.Abs(c.GroundVelocity-30) > 1e-6 {
		t.Fatalf("ground velocity = %v, want 30", c.GroundVelocity)
	}
	if c.WallMode != component.WallNone || math.Abs(c.SurfaceAngle) > 1e-6 && math.Abs(c.SurfaceAngle-360) > 1e-6 {
		t.Fatalf("wall=%v angle=%v", c.WallMode, c.SurfaceAngle)
	}

	ps.Update(w)
	if c.Landed {
		t.Fatalf("landed should only hold for one step")
	}
}

func TestPhysicsDetachesOverGap(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	e := addBody(t, w, cp.Vector{X: 0, Y: 20}, cp.Vector{}, true)
	c, _ := ecs.Get(w, e, component.ControllerComponent)
	c.GroundVelocity = 50

	ps.Update(w)
	if c.Grounded {
		t.Fatalf("controller should leave the ground with nothing under it")
	}
	if math.Abs(c.Velocity.X-50) > 1e-9 {
		t.Fatalf("velocity = %v, want ground speed carried into the air", c.Velocity)
	}
}

func TestPhysicsSkipsOverriddenControllers(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	addFloor(t, w, [2]float64{-100, 0}, [2]float64{100, 0})
	e := addBody(t, w, cp.Vector{X: 0, Y: 20.5}, cp.Vector{}, false)
	c, _ := ecs.Get(w, e, component.ControllerComponent)
	c.Suspend("path:9")

	ps.Update(w)
	if c.Grounded {
		t.Fatalf("overridden controllers are not resolved by the step")
	}

	// an explicit pass still runs
	ps.Resolve(w, e)
	if !c.Grounded {
		t.Fatalf("Resolve should ground the controller")
	}
}

func TestPhysicsRemovesDestroyedSolids(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	floor := addFloor(t, w, [2]float64{-100, 0}, [2]float64{100, 0})
	ps.Update(w)
	if len(ps.solids) != 1 {
		t.Fatalf("solids = %d, want 1", len(ps.solids))
	}

	w.DestroyEntity(floor)
	ps.Update(w)
	if len(ps.solids) != 0 {
		t.Fatalf("destroyed solid still in the space")
	}
}

func TestWallModeFor(t *testing.T) {
	cases := []struct {
		angle float64
		want  component.WallMode
	}{
		{0, component.WallNone},
		{44.9, component.WallNone},
		{45, component.WallRight},
		{90, component.WallRight},
		{180, component.WallCeiling},
		{270, component.WallLeft},
		{315, component.WallNone},
	}
	for _, c := range cases {
		if got := wallModeFor(c.angle); got != c.want {
			t.Fatalf("wallModeFor(%v) = %v, want %v", c.angle, got, c.want)
		}
	}
}

func TestIntegrate(t *testing.T) {
	control := func() *component.GroundControl {
		return &component.GroundControl{Acceleration: 100, Deceleration: 1000, TopSpeed: 300}
	}

	t.Run("friction_without_input", func(t *testing.T) {
		c := &component.Controller{Grounded: true, GroundVelocity: 5, GroundFriction: 100, GravityDirection: 270}
		Integrate(c, control(), 0, 0.1)
		if c.GroundVelocity != 0 {
			t.Fatalf("gv = %v, want 0", c.GroundVelocity)
		}
	})

	t.Run("acceleration_capped", func(t *testing.T) {
		c := &component.Controller{Grounded: true, GroundVelocity: 295, GravityDirection: 270}
		Integrate(c, control(), 1, 0.1)
		if c.GroundVelocity != 300 {
			t.Fatalf("gv = %v, want 300", c.GroundVelocity)
		}
	})

	t.Run("acceleration_disabled", func(t *testing.T) {
		c := &component.Controller{Grounded: true, GroundVelocity: 100, GravityDirection: 270}
		gc := control()
		gc.DisableAcceleration = true
		Integrate(c, gc, 1, 0.1)
		if c.GroundVelocity != 100 {
			t.Fatalf("gv = %v, want 100", c.GroundVelocity)
		}
	})

	t.Run("deceleration_when_opposing", func(t *testing.T) {
		c := &component.Controller{Grounded: true, GroundVelocity: 100, GravityDirection: 270}
		Integrate(c, control(), -1, 0.05)
		if math.Abs(c.GroundVelocity-50) > 1e-9 {
			t.Fatalf("gv = %v, want 50", c.GroundVelocity)
		}
	})

	t.Run("slope_gravity_slows_uphill", func(t *testing.T) {
		c := &component.Controller{Grounded: true, GroundVelocity: 100, GravityDirection: 270, SurfaceAngle: 90, SlopeGravity: 200}
		Integrate(c, control(), 0, 0.1)
		if math.Abs(c.GroundVelocity-80) > 1e-9 {
			t.Fatalf("gv = %v, want 80", c.GroundVelocity)
		}
	})

	t.Run("air_gravity", func(t *testing.T) {
		c := &component.Controller{GravityDirection: 270, Gravity: 100, Position: cp.Vector{X: 0, Y: 10}}
		Integrate(c, control(), 0, 0.1)
		if math.Abs(c.Velocity.Y+10) > 1e-9 || math.Abs(c.Position.Y-9) > 1e-9 {
			t.Fatalf("velocity=%v position=%v", c.Velocity, c.Position)
		}
	})
}

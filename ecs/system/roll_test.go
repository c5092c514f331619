package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/ecs/component"
)

func testRollConfig() component.RollConfig {
	return component.RollConfig{
		Axis:               component.AxisVertical,
		Negate:             true,
		MinActivationSpeed: 61,
		HeightChange:       -10,
		WidthChange:        -4,
		UphillGravity:      280,
		DownhillGravity:    1130,
		Friction:           210,
		Deceleration:       450,
		AnimationFlag:      "rolling",
		UphillFlag:         "uphill",
	}
}

func testSensors() component.Sensors {
	return component.Sensors{
		TopOffset:    20.3,
		BottomOffset: -19.7,
		SolidOffset:  -12.1,
		LedgeWidth:   6.01,
		BottomWidth:  18.3,
		SolidWidth:   20.7,
		TopWidth:     17.9,
	}
}

type rollFixture struct {
	ctx      *component.MoveContext
	resolves int
}

func newRollFixture(gv float64) *rollFixture {
	f := &rollFixture{}
	f.ctx = &component.MoveContext{
		Controller: &component.Controller{
			Position:         cp.Vector{X: 10.1, Y: 20.2},
			Grounded:         true,
			GroundVelocity:   gv,
			GravityDirection: 270,
			SlopeGravity:     450,
			GroundFriction:   420,
			Sensors:          testSensors(),
		},
		Control:   &component.GroundControl{Acceleration: 170, Deceleration: 1800, TopSpeed: 360},
		Hitbox:    &component.Hitbox{Width: 20, Height: 36},
		Input:     &component.Input{},
		Score:     &component.Score{},
		Animation: &component.AnimationFlags{},
	}
	f.ctx.ResolveCollisions = func() { f.resolves++ }
	return f
}

func TestRollGuards(t *testing.T) {
	cases := []struct {
		name     string
		grounded bool
		gv       float64
		axis     float64
		negate   bool
		avail    bool
		perform  bool
	}{
		{"grounded_fast_down", true, 200, -1, true, true, true},
		{"grounded_fast_negative", true, -200, -1, true, true, true},
		{"airborne_fast", false, 500, -1, true, false, true},
		{"grounded_at_threshold", true, 61, -1, true, false, true},
		{"grounded_slow", true, 20, -1, true, false, true},
		{"partial_axis", true, 200, -0.5, true, true, false},
		{"wrong_sign", true, 200, 1, true, true, false},
		{"not_negated_up", true, 200, 1, false, true, true},
		{"no_input", true, 200, 0, true, true, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testRollConfig()
			cfg.Negate = c.negate
			r := NewRoll(cfg)
			f := newRollFixture(c.gv)
			f.ctx.Controller.Grounded = c.grounded
			f.ctx.Input.SetAxis(component.AxisVertical, c.axis)

			if got := r.Available(f.ctx); got != c.avail {
				t.Fatalf("Available = %v, want %v", got, c.avail)
			}
			if got := r.ShouldPerform(f.ctx); got != c.perform {
				t.Fatalf("ShouldPerform = %v, want %v", got, c.perform)
			}
		})
	}
}

func TestRollShouldEndIsDirectionSensitive(t *testing.T) {
	cases := []struct {
		name     string
		enterGV  float64
		laterGV  float64
		grounded bool
		want     bool
	}{
		{"positive_decays_into_dead_zone", 200, 30, true, true},
		{"positive_stops_exactly", 200, 0, true, true},
		{"positive_reverses_into_dead_zone", 200, -30, true, false},
		{"positive_still_fast", 200, 100, true, false},
		{"positive_dead_zone_airborne", 200, 30, false, false},
		{"negative_decays_into_dead_zone", -200, -30, true, true},
		{"negative_reverses_into_dead_zone", -200, 30, true, false},
		{"negative_still_fast", -200, -100, true, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := NewRoll(testRollConfig())
			f := newRollFixture(c.enterGV)
			r.Enter(f.ctx)
			if !r.Active() {
				t.Fatalf("expected roll to be active after Enter")
			}

			f.ctx.Controller.GroundVelocity = c.laterGV
			f.ctx.Controller.Grounded = c.grounded
			if got := r.ShouldEnd(f.ctx); got != c.want {
				t.Fatalf("ShouldEnd = %v, want %v", got, c.want)
			}
		})
	}
}

func TestRollRoundTripGeometry(t *testing.T) {
	deltas := []struct{ h, w float64 }{
		{-10, -4},
		{-0.3, 0.1},
		{7.77, -1.13},
		{1e-7, 3.3333},
		{0, 0},
	}

	for _, d := range deltas {
		cfg := testRollConfig()
		cfg.HeightChange = d.h
		cfg.WidthChange = d.w
		r := NewRoll(cfg)
		f := newRollFixture(200)
		before := f.ctx.Controller.Sensors
		pos := f.ctx.Controller.Position

		r.Enter(f.ctx)
		if d.h != 0 && f.ctx.Controller.Sensors == before {
			t.Fatalf("h=%v w=%v: sensors unchanged after Enter", d.h, d.w)
		}
		r.Update(f.ctx)
		r.Exit(f.ctx)

		if got := f.ctx.Controller.Sensors; got != before {
			t.Fatalf("h=%v w=%v: sensors = %+v, want %+v", d.h, d.w, got, before)
		}
		if got := f.ctx.Controller.Position; math.Abs(got.X-pos.X) > 1e-9 || math.Abs(got.Y-pos.Y) > 1e-9 {
			t.Fatalf("h=%v w=%v: position = %v, want %v", d.h, d.w, got, pos)
		}
	}
}

func TestRollGeometryDeltas(t *testing.T) {
	r := NewRoll(testRollConfig())
	f := newRollFixture(200)
	before := f.ctx.Controller.Sensors

	r.Enter(f.ctx)
	s := f.ctx.Controller.Sensors

	checks := []struct {
		name      string
		got, want float64
	}{
		{"top", s.TopOffset, before.TopOffset - 5},
		{"bottom", s.BottomOffset, before.BottomOffset + 5},
		{"solid", s.SolidOffset, before.SolidOffset + 5},
		{"ledge", s.LedgeWidth, before.LedgeWidth - 4},
		{"bottom_width", s.BottomWidth, before.BottomWidth - 4},
		{"solid_width", s.SolidWidth, before.SolidWidth - 4},
		{"top_width", s.TopWidth, before.TopWidth - 4},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Fatalf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	// shrinking by 10 lowers the origin by 5 so the feet stay on the ground
	pos := f.ctx.Controller.Position
	if math.Abs(pos.X-10.1) > 1e-9 || math.Abs(pos.Y-15.2) > 1e-9 {
		t.Fatalf("position after Enter = %v", pos)
	}
	feetBefore := 20.2 + before.BottomOffset
	feetAfter := pos.Y + s.BottomOffset
	if math.Abs(feetBefore-feetAfter) > 1e-9 {
		t.Fatalf("feet moved from %v to %v", feetBefore, feetAfter)
	}
}

func TestRollExitSubtractsDeltaWhenSensorsChangedMeanwhile(t *testing.T) {
	r := NewRoll(testRollConfig())
	f := newRollFixture(200)
	r.Enter(f.ctx)

	entered := f.ctx.Controller.Sensors
	f.ctx.Controller.Sensors.TopWidth += 2
	r.Exit(f.ctx)

	want := entered.TopWidth + 2 + 4
	if got := f.ctx.Controller.Sensors.TopWidth; math.Abs(got-want) > 1e-9 {
		t.Fatalf("TopWidth = %v, want %v", got, want)
	}
}

func TestRollPhysicsOverrideAndRestore(t *testing.T) {
	r := NewRoll(testRollConfig())
	f := newRollFixture(200)
	c, control := f.ctx.Controller, f.ctx.Control

	r.Enter(f.ctx)
	if c.GroundFriction != 210 || control.Deceleration != 450 || !control.DisableAcceleration {
		t.Fatalf("enter did not apply roll physics: friction=%v decel=%v disabled=%v", c.GroundFriction, control.Deceleration, control.DisableAcceleration)
	}
	if !f.ctx.Hitbox.Harmful {
		t.Fatalf("hitbox should be harmful while rolling")
	}
	if f.resolves != 1 {
		t.Fatalf("expected one collision pass on enter, got %d", f.resolves)
	}

	r.Update(f.ctx)
	r.Exit(f.ctx)

	if c.SlopeGravity != 450 || c.GroundFriction != 420 || control.Deceleration != 1800 {
		t.Fatalf("exit restored slope=%v friction=%v decel=%v", c.SlopeGravity, c.GroundFriction, control.Deceleration)
	}
	if control.DisableAcceleration {
		t.Fatalf("acceleration should be re-enabled after exit")
	}
	if f.ctx.Hitbox.Harmful {
		t.Fatalf("hitbox should be harmless after exit")
	}
	if f.resolves != 2 {
		t.Fatalf("expected a collision pass on exit, got %d total", f.resolves)
	}
}

func TestRollRestoresExternalWrites(t *testing.T) {
	cases := []struct {
		name  string
		write func(ctx *component.MoveContext)
		check func(t *testing.T, ctx *component.MoveContext)
	}{
		{
			name:  "slope_gravity",
			write: func(ctx *component.MoveContext) { ctx.Controller.SlopeGravity = 999 },
			check: func(t *testing.T, ctx *component.MoveContext) {
				if ctx.Controller.SlopeGravity != 999 {
					t.Fatalf("slope gravity = %v, want 999", ctx.Controller.SlopeGravity)
				}
			},
		},
		{
			name:  "friction",
			write: func(ctx *component.MoveContext) { ctx.Controller.GroundFriction = 77 },
			check: func(t *testing.T, ctx *component.MoveContext) {
				if ctx.Controller.GroundFriction != 77 {
					t.Fatalf("friction = %v, want 77", ctx.Controller.GroundFriction)
				}
			},
		},
		{
			name:  "deceleration",
			write: func(ctx *component.MoveContext) { ctx.Control.Deceleration = 5 },
			check: func(t *testing.T, ctx *component.MoveContext) {
				if ctx.Control.Deceleration != 5 {
					t.Fatalf("deceleration = %v, want 5", ctx.Control.Deceleration)
				}
			},
		},
		{
			name: "latest_of_two_writers",
			write: func(ctx *component.MoveContext) {
				ctx.Controller.SlopeGravity = 111
			},
			check: func(t *testing.T, ctx *component.MoveContext) {
				if ctx.Controller.SlopeGravity != 222 {
					t.Fatalf("slope gravity = %v, want the most recent external value 222", ctx.Controller.SlopeGravity)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := NewRoll(testRollConfig())
			f := newRollFixture(200)
			r.Enter(f.ctx)
			r.Update(f.ctx)

			c.write(f.ctx)
			r.Update(f.ctx)
			if c.name == "latest_of_two_writers" {
				f.ctx.Controller.SlopeGravity = 222
				r.Update(f.ctx)
			}
			// the move keeps enforcing its own values while active
			if f.ctx.Controller.GroundFriction != 210 || f.ctx.Control.Deceleration != 450 {
				t.Fatalf("roll values not re-imposed")
			}

			r.Exit(f.ctx)
			c.check(t, f.ctx)
		})
	}
}

func TestRollUphillClassification(t *testing.T) {
	cases := []struct {
		name    string
		surface float64
		gv      float64
		want    float64
	}{
		{"right_up_slope", 30, 200, 280},
		{"right_down_slope", 330, 200, 1130},
		{"left_up_slope", 330, -200, 280},
		{"left_down_slope", 30, -200, 1130},
		{"flat_right", 0, 200, 280},
		{"flat_left", 0, -200, 1130},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := NewRoll(testRollConfig())
			f := newRollFixture(c.gv)
			f.ctx.Controller.SurfaceAngle = c.surface
			r.Enter(f.ctx)
			r.Update(f.ctx)
			if got := f.ctx.Controller.SlopeGravity; got != c.want {
				t.Fatalf("slope gravity = %v, want %v", got, c.want)
			}
		})
	}

	t.Run("zero_speed_keeps_previous", func(t *testing.T) {
		r := NewRoll(testRollConfig())
		f := newRollFixture(200)
		f.ctx.Controller.SurfaceAngle = 30
		r.Enter(f.ctx)
		r.Update(f.ctx)
		if !r.Uphill() {
			t.Fatalf("expected uphill")
		}
		f.ctx.Controller.GroundVelocity = 0
		f.ctx.Controller.SurfaceAngle = 330
		r.Update(f.ctx)
		if !r.Uphill() || f.ctx.Controller.SlopeGravity != 280 {
			t.Fatalf("uphill should be unchanged at zero speed")
		}
	})
}

func TestRollExitEndsCombo(t *testing.T) {
	r := NewRoll(testRollConfig())
	f := newRollFixture(200)
	f.ctx.Score.ComboValue = 10
	r.Enter(f.ctx)
	f.ctx.Score.AddToCombo()
	f.ctx.Score.AddToCombo()
	r.Exit(f.ctx)

	if f.ctx.Score.Combo != 0 {
		t.Fatalf("combo should reset on exit, got %d", f.ctx.Score.Combo)
	}
	if f.ctx.Score.Points != 30 {
		t.Fatalf("points = %d, want 30", f.ctx.Score.Points)
	}

	// no scoring collaborator is fine
	r2 := NewRoll(testRollConfig())
	f2 := newRollFixture(200)
	f2.ctx.Score = nil
	r2.Enter(f2.ctx)
	r2.Exit(f2.ctx)
	if r2.Active() {
		t.Fatalf("roll should be inactive")
	}
}

func TestRollPositionOffset(t *testing.T) {
	r := NewRoll(testRollConfig())
	cases := []struct {
		name string
		c    component.Controller
		want cp.Vector
	}{
		{"floor", component.Controller{GravityDirection: 270}, cp.Vector{X: 0, Y: -5}},
		{"gravity_up", component.Controller{GravityDirection: 90}, cp.Vector{X: 0, Y: 5}},
		{"right_wall", component.Controller{GravityDirection: 270, WallMode: component.WallRight, SurfaceAngle: 90}, cp.Vector{X: 5, Y: 0}},
		{"ceiling", component.Controller{GravityDirection: 270, WallMode: component.WallCeiling, SurfaceAngle: 180}, cp.Vector{X: 0, Y: 5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := r.PositionOffset(&c.c)
			if math.Abs(got.X-c.want.X) > 1e-9 || math.Abs(got.Y-c.want.Y) > 1e-9 {
				t.Fatalf("offset = %v, want %v", got, c.want)
			}
		})
	}
}

func TestRollExitUsesEntryOffset(t *testing.T) {
	r := NewRoll(testRollConfig())
	f := newRollFixture(200)
	start := f.ctx.Controller.Position
	r.Enter(f.ctx)

	// attaching to a wall mid-roll must not change the exit correction
	f.ctx.Controller.WallMode = component.WallRight
	f.ctx.Controller.SurfaceAngle = 90
	r.Exit(f.ctx)

	got := f.ctx.Controller.Position
	if math.Abs(got.X-start.X) > 1e-9 || math.Abs(got.Y-start.Y) > 1e-9 {
		t.Fatalf("position = %v, want %v", got, start)
	}
}

func TestRollSetConfigIgnoredWhileActive(t *testing.T) {
	r := NewRoll(testRollConfig())
	f := newRollFixture(200)
	r.Enter(f.ctx)

	cfg := testRollConfig()
	cfg.HeightChange = -20
	if r.SetConfig(cfg) {
		t.Fatalf("SetConfig should be refused while active")
	}
	r.Exit(f.ctx)
	if !r.SetConfig(cfg) || r.Config().HeightChange != -20 {
		t.Fatalf("SetConfig should apply while inactive")
	}
}

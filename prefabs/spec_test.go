package prefabs

import (
	"testing"

	"github.com/milk9111/loopride/ecs/component"
)

func TestLoadLevelSpec(t *testing.T) {
	spec, err := LoadLevelSpec("level.yaml")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	if spec.Name != "loop_test" || spec.Player != "player.yaml" {
		t.Fatalf("unexpected header %q %q", spec.Name, spec.Player)
	}
	if len(spec.Solids) == 0 || len(spec.Paths) != 2 {
		t.Fatalf("solids=%d paths=%d", len(spec.Solids), len(spec.Paths))
	}

	loop := spec.Paths[0]
	if loop.Parent == nil || loop.Parent.X != 300 {
		t.Fatalf("loop parent = %+v", loop.Parent)
	}
	shape, err := loop.Shape.Component()
	if err != nil {
		t.Fatalf("shape: %v", err)
	}
	if shape.Kind != component.PathShapeScript || shape.Script != "loop.tengo" || !shape.Enabled {
		t.Fatalf("loop shape = %+v", shape)
	}
	if mode, _ := ParseUpdateMode(loop.UpdateMode); mode != component.PathRebuildOnTransformChange {
		t.Fatalf("loop mode = %v", mode)
	}
}

func TestLoadPlayerSpec(t *testing.T) {
	spec, err := LoadPlayerSpec("prefabs/player.yaml")
	if err != nil {
		t.Fatalf("load player: %v", err)
	}
	if spec.GravityDirection != 270 {
		t.Fatalf("gravity direction = %v", spec.GravityDirection)
	}
	if spec.Roll == nil || spec.Roll.HeightChange != -10 || !spec.Roll.Negate || spec.Roll.AnimationFlag != "rolling" {
		t.Fatalf("roll = %+v", spec.Roll)
	}
	if spec.Roll.EndOnLanding == nil || !*spec.Roll.EndOnLanding {
		t.Fatalf("end_on_landing should be set")
	}
	if spec.Sensors.BottomOffset != -20 || spec.Control.TopSpeed != 360 {
		t.Fatalf("sensors=%+v control=%+v", spec.Sensors, spec.Control)
	}

	if _, err := LoadPlayerSpec("missing.yaml"); err == nil {
		t.Fatalf("missing prefab should fail")
	}
}

func TestParseUpdateMode(t *testing.T) {
	cases := []struct {
		in      string
		want    component.PathUpdateMode
		wantErr bool
	}{
		{"", component.PathStatic, false},
		{"static", component.PathStatic, false},
		{" Transform ", component.PathRebuildOnTransformChange, false},
		{"rebuild_on_path_or_transform_change", component.PathRebuildOnPathOrTransformChange, false},
		{"path_or_transform", component.PathRebuildOnPathOrTransformChange, false},
		{"sometimes", component.PathStatic, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseUpdateMode(c.in)
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
			if got != c.want {
				t.Fatalf("mode = %v, want %v", got, c.want)
			}
		})
	}
}

func TestShapeSpecComponent(t *testing.T) {
	shape, err := ShapeSpec{Points: [][2]float64{{0, 0}, {3, 4}}}.Component()
	if err != nil {
		t.Fatalf("component: %v", err)
	}
	if shape.Kind != component.PathShapePolyline || len(shape.Points) != 2 || shape.Points[1].Y != 4 {
		t.Fatalf("shape = %+v", shape)
	}

	if _, err := (ShapeSpec{Kind: "hexagon"}).Component(); err == nil {
		t.Fatalf("unknown kind should fail")
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"loop.tengo", "scripts/loop.tengo", "prefabs/scripts/loop.tengo"} {
		src, err := LoadScript(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(src) == 0 {
			t.Fatalf("%s: empty script", name)
		}
	}
	if _, err := LoadScript("nope.tengo"); err == nil {
		t.Fatalf("missing script should fail")
	}
}

package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
)

// TriggerSystem tests every Trigger volume against every controller's sensor
// box and records enter/stay/exit contacts for the systems that react to them.
type TriggerSystem struct{}

func NewTriggerSystem() *TriggerSystem {
	return &TriggerSystem{}
}

func (ts *TriggerSystem) Update(w *ecs.World) {
	if ts == nil || w == nil {
		return
	}
	controllers := w.Query(component.ControllerComponent.Kind())

	for _, e := range w.Query(component.TriggerComponent.Kind(), component.TransformComponent.Kind()) {
		trig, ok := ecs.Get(w, e, component.TriggerComponent)
		if !ok {
			continue
		}
		area := triggerBB(w, e, trig)

		overlapping := make([]uint64, 0, 2)
		for _, other := range controllers {
			if other == e {
				continue
			}
			c, ok := ecs.Get(w, other, component.ControllerComponent)
			if !ok {
				continue
			}
			if area.Intersects(SensorBB(c)) {
				overlapping = append(overlapping, uint64(other))
			}
		}

		contacts, ok := ecs.Get(w, e, component.TriggerContactsComponent)
		if !ok {
			if err := ecs.Add(w, e, component.TriggerContactsComponent, component.TriggerContacts{}); err != nil {
				continue
			}
			contacts, _ = ecs.Get(w, e, component.TriggerContactsComponent)
		}
		contacts.Observe(overlapping)
	}
}

func triggerBB(w *ecs.World, e ecs.Entity, trig *component.Trigger) cp.BB {
	center := toWorld(w, transformChain(w, e), []cp.Vector{{X: trig.OffsetX, Y: trig.OffsetY}})[0]
	return cp.BB{
		L: center.X - trig.Width/2,
		B: center.Y - trig.Height/2,
		R: center.X + trig.Width/2,
		T: center.Y + trig.Height/2,
	}
}

// SensorBB is the world-space box enclosing a controller's solid sensors.
func SensorBB(c *component.Controller) cp.BB {
	s := c.Sensors
	center := c.Position.Add(c.SensorCenter())
	hw := s.SolidWidth / 2
	if s.BottomWidth/2 > hw {
		hw = s.BottomWidth / 2
	}
	hh := s.Height() / 2
	up := c.Up()
	// axis aligned bounds of the rotated box
	ex := abs(up.Y)*hw + abs(up.X)*hh
	ey := abs(up.X)*hw + abs(up.Y)*hh
	return cp.BB{L: center.X - ex, B: center.Y - ey, R: center.X + ex, T: center.Y + ey}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

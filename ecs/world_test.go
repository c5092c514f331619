package ecs

import (
	"testing"

	"github.com/milk9111/loopride/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("destroying twice should fail")
				}
			}
		})
	}
}

func TestWorldReusedIDsGetNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := w.CreateEntity()
	if err := Add(w, old, h, 7); err != nil {
		t.Fatalf("add: %v", err)
	}
	w.DestroyEntity(old)

	fresh := w.CreateEntity()
	if fresh == old {
		t.Fatalf("reused entity should carry a new generation")
	}
	if Has(w, fresh, h) {
		t.Fatalf("new entity inherited a component from the destroyed one")
	}
	if _, ok := Get(w, old, h); ok {
		t.Fatalf("stale handle should not resolve")
	}
}

func TestWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()
	hInt := component.NewComponent[int]()
	hStr := component.NewComponent[string]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()

	_ = Add(w, e1, hInt, 1)
	_ = Add(w, e2, hInt, 2)
	_ = Add(w, e2, hStr, "two")
	_ = Add(w, e3, hStr, "three")

	tests := []struct {
		name  string
		kinds []componentKind
		want  []Entity
	}{
		{"ints", []componentKind{hInt.Kind()}, []Entity{e1, e2}},
		{"strings", []componentKind{hStr.Kind()}, []Entity{e2, e3}},
		{"both", []componentKind{hInt.Kind(), hStr.Kind()}, []Entity{e2}},
		{"none", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Query(tt.kinds...)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}

	if first, ok := w.First(hStr.Kind()); !ok || first != e2 {
		t.Fatalf("First = %v %v, want %v", first, ok, e2)
	}

	if !Remove(w, e2, hInt) {
		t.Fatalf("remove should report true")
	}
	if got := w.Query(hInt.Kind(), hStr.Kind()); len(got) != 0 {
		t.Fatalf("query after remove = %v", got)
	}
}

func TestWorldGetMutatesInPlace(t *testing.T) {
	type counter struct{ N int }
	w := NewWorld()
	h := component.NewComponent[counter]()
	e := w.CreateEntity()
	_ = Add(w, e, h, counter{})

	c, ok := Get(w, e, h)
	if !ok {
		t.Fatalf("missing component")
	}
	c.N = 5

	again, _ := Get(w, e, h)
	if again.N != 5 {
		t.Fatalf("N = %d, want 5", again.N)
	}

	if err := Add(w, Entity(12345), h, counter{}); err == nil {
		t.Fatalf("adding to a dead entity should fail")
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()
	_ = Add(w, e1, h, 1)
	_ = Add(w, e3, h, 3)

	var ents []Entity
	sum := 0
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		ents = append(ents, e)
		sum += *v
		*v *= 10
	})
	if len(ents) != 2 || ents[0] != e1 || ents[1] != e3 || sum != 4 {
		t.Fatalf("visited %v sum %d", ents, sum)
	}
	if v, _ := Get(w, e3, h); *v != 30 {
		t.Fatalf("ForEach should hand out the stored value, got %d", *v)
	}
	if Has(w, e2, h) {
		t.Fatalf("e2 should have no int")
	}
}

type recordSystem struct {
	name  string
	trace *[]string
}

func (s recordSystem) Update(w *World) {
	*s.trace = append(*s.trace, s.name)
	w.Events().Push(Event{Type: s.name})
}

func TestWorldUpdateOrderAndEvents(t *testing.T) {
	w := NewWorld()
	var trace []string
	w.AddSystem(NewScheduler(recordSystem{"a", &trace}, nil, recordSystem{"b", &trace}))
	w.AddSystem(recordSystem{"c", &trace})

	w.Update()
	if len(trace) != 3 || trace[0] != "a" || trace[1] != "b" || trace[2] != "c" {
		t.Fatalf("order = %v", trace)
	}
	if w.Step() != 1 {
		t.Fatalf("step = %d, want 1", w.Step())
	}
	// undrained events do not survive the step
	if evs := w.Events().Drain(); len(evs) != 0 {
		t.Fatalf("events leaked into the next step: %v", evs)
	}
}

package system

import (
	"github.com/milk9111/loopride/common"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
)

// CollisionResolver runs an immediate collision pass for one entity.
type CollisionResolver interface {
	Resolve(w *ecs.World, e ecs.Entity)
}

// landingInterrupter is implemented by moves that a landing cuts short.
type landingInterrupter interface {
	EndsOnLanding() bool
}

// MoveSystem evaluates every entity's move guards once per step and drives
// the active move. At most one move per entity is active at a time.
type MoveSystem struct {
	resolver CollisionResolver
	dt       float64
}

func NewMoveSystem(resolver CollisionResolver) *MoveSystem {
	return &MoveSystem{resolver: resolver, dt: common.StepDuration}
}

func (ms *MoveSystem) Update(w *ecs.World) {
	if ms == nil || w == nil {
		return
	}
	for _, e := range w.Query(component.MoveSetComponent.Kind(), component.ControllerComponent.Kind()) {
		set, ok := ecs.Get(w, e, component.MoveSetComponent)
		if !ok {
			continue
		}
		ctx := ms.context(w, e)
		if ctx == nil {
			continue
		}
		ms.step(w, e, set, ctx)

		for _, m := range set.Moves {
			if m != nil {
				ctx.Animation.Set(m.AnimationFlag(), m.Active())
			}
		}
	}
}

func (ms *MoveSystem) step(w *ecs.World, e ecs.Entity, set *component.MoveSet, ctx *component.MoveContext) {
	c := ctx.Controller

	if active, ok := set.ActiveMove(); ok {
		// Landed is stale while another owner holds the controller
		if li, ok := active.(landingInterrupter); ok && !c.Overridden() && c.Landed && li.EndsOnLanding() {
			ms.exit(w, e, active, ctx, true)
			return
		}
		// the component owning movement control decides when the move ends
		if !c.Overridden() && active.ShouldEnd(ctx) {
			ms.exit(w, e, active, ctx, false)
			return
		}
		active.Update(ctx)
		return
	}

	for _, m := range set.Moves {
		if m == nil {
			continue
		}
		if m.Available(ctx) && m.ShouldPerform(ctx) {
			ms.enter(w, e, m, ctx, false)
			return
		}
	}
}

// Perform forces move id on e without checking its guards. It reports
// whether the move is active afterwards; entities without the move, or busy
// with another move, report false.
func (ms *MoveSystem) Perform(w *ecs.World, e ecs.Entity, id component.MoveID) bool {
	if ms == nil || w == nil || !w.IsAlive(e) {
		return false
	}
	set, ok := ecs.Get(w, e, component.MoveSetComponent)
	if !ok {
		return false
	}
	m, ok := set.Find(id)
	if !ok {
		return false
	}
	if m.Active() {
		return true
	}
	if _, busy := set.ActiveMove(); busy {
		return false
	}
	ctx := ms.context(w, e)
	if ctx == nil {
		return false
	}
	ms.enter(w, e, m, ctx, true)
	return m.Active()
}

// Interrupt runs the full exit sequence of move id on e if it is active.
func (ms *MoveSystem) Interrupt(w *ecs.World, e ecs.Entity, id component.MoveID) bool {
	if ms == nil || w == nil || !w.IsAlive(e) {
		return false
	}
	set, ok := ecs.Get(w, e, component.MoveSetComponent)
	if !ok {
		return false
	}
	m, ok := set.Find(id)
	if !ok || !m.Active() {
		return false
	}
	ctx := ms.context(w, e)
	if ctx == nil {
		return false
	}
	ms.exit(w, e, m, ctx, true)
	return true
}

func (ms *MoveSystem) enter(w *ecs.World, e ecs.Entity, m component.Move, ctx *component.MoveContext, forced bool) {
	m.Enter(ctx)
	if !m.Active() {
		return
	}
	m.Update(ctx)
	w.Events().Push(ecs.Event{Type: ecs.EventMoveEnter, Data: ecs.MoveEvent{Entity: e, Move: string(m.ID()), Forced: forced}})
}

func (ms *MoveSystem) exit(w *ecs.World, e ecs.Entity, m component.Move, ctx *component.MoveContext, forced bool) {
	m.Exit(ctx)
	w.Events().Push(ecs.Event{Type: ecs.EventMoveExit, Data: ecs.MoveEvent{Entity: e, Move: string(m.ID()), Forced: forced}})
}

func (ms *MoveSystem) context(w *ecs.World, e ecs.Entity) *component.MoveContext {
	c, ok := ecs.Get(w, e, component.ControllerComponent)
	if !ok {
		return nil
	}
	control, ok := ecs.Get(w, e, component.GroundControlComponent)
	if !ok {
		return nil
	}
	ctx := &component.MoveContext{
		Entity:     uint64(e),
		DT:         ms.dt,
		Controller: c,
		Control:    control,
	}
	if hb, ok := ecs.Get(w, e, component.HitboxComponent); ok {
		ctx.Hitbox = hb
	}
	if in, ok := ecs.Get(w, e, component.InputComponent); ok {
		ctx.Input = in
	}
	if sc, ok := ecs.Get(w, e, component.ScoreComponent); ok {
		ctx.Score = sc
	}
	if an, ok := ecs.Get(w, e, component.AnimationFlagsComponent); ok {
		ctx.Animation = an
	}
	if ms.resolver != nil {
		ctx.ResolveCollisions = func() { ms.resolver.Resolve(w, e) }
	}
	return ctx
}

package system

import (
	"log"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/common"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
	"github.com/milk9111/loopride/prefabs"
)

// MovePerformer forces a named move on an entity.
type MovePerformer interface {
	Perform(w *ecs.World, e ecs.Entity, id component.MoveID) bool
}

// PathTraversalSystem carries entities that enter a path's trigger along the
// path at constant speed. Each step it first rebuilds stale path caches, then
// forwards trigger contacts, then advances every traveler.
type PathTraversalSystem struct {
	moves  MovePerformer
	load   ScriptLoader
	dt     float64
	logger *log.Logger
}

func NewPathTraversalSystem(moves MovePerformer) *PathTraversalSystem {
	return &PathTraversalSystem{
		moves:  moves,
		load:   prefabs.LoadScript,
		dt:     common.StepDuration,
		logger: log.Default(),
	}
}

// SetScriptLoader replaces where scripted path shapes are read from.
func (ps *PathTraversalSystem) SetScriptLoader(load ScriptLoader) {
	if ps == nil {
		return
	}
	ps.load = load
}

func (ps *PathTraversalSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	paths := w.Query(component.PathTraversalComponent.Kind())
	ps.releaseOrphans(w, paths)

	for _, e := range paths {
		if pt, ok := ecs.Get(w, e, component.PathTraversalComponent); ok && ps.stale(w, e, pt) {
			ps.rebuild(w, e, pt)
		}
	}

	for _, e := range paths {
		contacts, ok := ecs.Get(w, e, component.TriggerContactsComponent)
		if !ok {
			continue
		}
		for _, other := range contacts.Entered {
			ps.OnEnter(w, e, ecs.Entity(other))
		}
		for _, other := range contacts.Stayed {
			ps.OnStay(w, e, ecs.Entity(other))
		}
		for _, other := range contacts.Exited {
			ps.OnExit(w, e, ecs.Entity(other))
		}
	}

	for _, e := range paths {
		ps.advance(w, e)
	}
}

// OnEnter starts traversal for an entity that entered the path's trigger.
func (ps *PathTraversalSystem) OnEnter(w *ecs.World, path, entity ecs.Entity) {
	ps.Activate(w, path, entity)
}

// OnStay needs no work: tracked travelers advance every step whether or not
// they still overlap, because the path itself carries them out of the volume.
func (ps *PathTraversalSystem) OnStay(w *ecs.World, path, entity ecs.Entity) {}

// OnExit leaves travelers alone; they finish when their progress completes.
func (ps *PathTraversalSystem) OnExit(w *ecs.World, path, entity ecs.Entity) {}

// Activate begins moving entity along path. Unknown entities, entities that
// are already tracked and entities owned by another controller are ignored.
func (ps *PathTraversalSystem) Activate(w *ecs.World, path, entity ecs.Entity) bool {
	if ps == nil || w == nil || !w.IsAlive(entity) {
		return false
	}
	pt, ok := ecs.Get(w, path, component.PathTraversalComponent)
	if !ok || pt.Tracking(uint64(entity)) {
		return false
	}
	c, ok := ecs.Get(w, entity, component.ControllerComponent)
	if !ok {
		return false
	}
	owner := controlOwner(path)
	if c.Control != component.ControlNormal && c.Control != owner {
		return false
	}

	if ps.moves != nil {
		move := pt.Move
		if move == "" {
			move = component.MoveRoll
		}
		// best effort, traversal runs whether or not the move starts
		_ = ps.moves.Perform(w, entity, move)
	}

	// Perform may have moved the controller, fetch it again
	if c, ok = ecs.Get(w, entity, component.ControllerComponent); !ok {
		return false
	}
	c.Suspend(owner)
	pt.Travelers = append(pt.Travelers, component.Traveler{Entity: uint64(entity)})
	w.Events().Push(ecs.Event{Type: ecs.EventTravelerActivate, Data: ecs.TravelerEvent{Path: path, Traveler: entity}})
	return true
}

// Deactivate ends traversal for entity: it leaves the path at ExitSpeed in
// the direction it was last moving and gets ordinary control back.
func (ps *PathTraversalSystem) Deactivate(w *ecs.World, path, entity ecs.Entity) bool {
	if ps == nil || w == nil {
		return false
	}
	pt, ok := ecs.Get(w, path, component.PathTraversalComponent)
	if !ok {
		return false
	}
	tr, ok := pt.Traveler(uint64(entity))
	if !ok {
		return false
	}

	if c, ok := ecs.Get(w, entity, component.ControllerComponent); ok {
		exit := cp.Vector{}
		if tr.Velocity.LengthSq() > 0 {
			exit = tr.Velocity.Normalize().Mult(pt.ExitSpeed)
		}
		c.Velocity = exit
		if c.Grounded {
			c.GroundVelocity = exit.Dot(cp.ForAngle(common.DegToRad(c.SurfaceAngle)))
		}
		c.Resume(controlOwner(path))
	}

	pt.RemoveTraveler(uint64(entity))
	w.Events().Push(ecs.Event{Type: ecs.EventTravelerComplete, Data: ecs.TravelerEvent{Path: path, Traveler: entity}})
	return true
}

// Rebuild refreshes path's cached polyline now, whatever its update mode.
func (ps *PathTraversalSystem) Rebuild(w *ecs.World, path ecs.Entity) bool {
	if ps == nil || w == nil {
		return false
	}
	pt, ok := ecs.Get(w, path, component.PathTraversalComponent)
	if !ok {
		return false
	}
	return ps.rebuild(w, path, pt)
}

func (ps *PathTraversalSystem) advance(w *ecs.World, path ecs.Entity) {
	pt, ok := ecs.Get(w, path, component.PathTraversalComponent)
	if !ok || len(pt.Travelers) == 0 {
		return
	}
	pl := pt.Cache.Polyline

	// Deactivate removes from pt.Travelers, so walk a snapshot of the ids.
	ids := make([]uint64, len(pt.Travelers))
	for i, tr := range pt.Travelers {
		ids[i] = tr.Entity
	}

	for _, id := range ids {
		entity := ecs.Entity(id)
		c, ok := ecs.Get(w, entity, component.ControllerComponent)
		if !ok {
			// the entity is gone, drop its tuple without touching it
			pt.RemoveTraveler(id)
			continue
		}
		idx := travelerIndex(pt, id)
		if idx < 0 {
			continue
		}
		tr := &pt.Travelers[idx]

		if pl.Empty() {
			ps.Deactivate(w, path, entity)
			continue
		}
		if pl.Length <= 0 {
			tr.Progress = 1
		} else {
			tr.Progress += pt.TravelSpeed / pl.Length * ps.dt
		}

		next := pl.Walk(tr.Progress).Sub(c.SensorCenter())
		tr.Velocity = next.Sub(c.Position).Mult(1 / ps.dt)
		c.Position = next

		if tr.Progress >= 1 {
			ps.Deactivate(w, path, entity)
		}
	}
}

// releaseOrphans gives control back to controllers held by a path that no
// longer exists or no longer tracks them.
func (ps *PathTraversalSystem) releaseOrphans(w *ecs.World, paths []ecs.Entity) {
	held := make(map[ecs.Entity]component.ControlOwner)
	for _, e := range paths {
		pt, ok := ecs.Get(w, e, component.PathTraversalComponent)
		if !ok {
			continue
		}
		for _, tr := range pt.Travelers {
			held[ecs.Entity(tr.Entity)] = controlOwner(e)
		}
	}

	for _, e := range w.Query(component.ControllerComponent.Kind()) {
		c, ok := ecs.Get(w, e, component.ControllerComponent)
		if !ok || !strings.HasPrefix(string(c.Control), pathOwnerPrefix) {
			continue
		}
		if owner, ok := held[e]; ok && owner == c.Control {
			continue
		}
		ps.logger.Printf("path: releasing %v from orphaned owner %s", e, c.Control)
		c.Velocity = cp.Vector{}
		c.Resume(c.Control)
	}
}

// stale reports whether the cached polyline must be rebuilt this step.
func (ps *PathTraversalSystem) stale(w *ecs.World, e ecs.Entity, pt *component.PathTraversal) bool {
	if !pt.Cache.Built {
		return true
	}
	if pt.UpdateMode == component.PathStatic {
		return false
	}

	source := pathSource(e, pt)
	if pt.UpdateMode == component.PathRebuildOnPathOrTransformChange {
		if uint64(source) != pt.Cache.PathRef {
			return true
		}
		if shape, ok := ecs.Get(w, source, component.PathShapeComponent); ok && shape.Version != pt.Cache.ShapeVersion {
			return true
		}
	}

	// the transform chain of the shape the cache was built from
	chain := transformChain(w, ecs.Entity(pt.Cache.PathRef))
	if len(chain) != len(pt.Cache.Versions) {
		return true
	}
	for _, node := range chain {
		t, ok := ecs.Get(w, node, component.TransformComponent)
		if !ok {
			return true
		}
		v, seen := pt.Cache.Versions[uint64(node)]
		if !seen || v != t.Version {
			return true
		}
	}
	return false
}

func (ps *PathTraversalSystem) rebuild(w *ecs.World, e ecs.Entity, pt *component.PathTraversal) bool {
	source := pathSource(e, pt)
	shape, ok := ecs.Get(w, source, component.PathShapeComponent)
	if !ok {
		if !pt.Cache.Built {
			ps.logger.Printf("path: entity=%d has no path shape on %d", e, source)
		}
		pt.Cache = component.PathCache{Built: true, PathRef: uint64(source), Rebuilds: pt.Cache.Rebuilds}
		return false
	}

	shape.Enabled = false
	chain := transformChain(w, source)
	versions := make(map[uint64]uint64, len(chain))
	for _, node := range chain {
		if t, ok := ecs.Get(w, node, component.TransformComponent); ok {
			versions[uint64(node)] = t.Version
		}
	}

	local, err := shapeBoundary(shape, ps.load)
	if err != nil {
		ps.logger.Printf("path: entity=%d rebuild failed: %v", e, err)
		// remember what failed so it is not retried every step
		pt.Cache.Built = true
		pt.Cache.PathRef = uint64(source)
		pt.Cache.ShapeVersion = shape.Version
		pt.Cache.Versions = versions
		return false
	}

	pt.Cache = component.PathCache{
		Polyline:     common.NewPolyline(toWorld(w, chain, local)),
		Built:        true,
		PathRef:      uint64(source),
		ShapeVersion: shape.Version,
		Versions:     versions,
		Rebuilds:     pt.Cache.Rebuilds + 1,
	}
	w.Events().Push(ecs.Event{Type: ecs.EventPathRebuilt, Data: ecs.TravelerEvent{Path: e}})
	return true
}

func pathSource(e ecs.Entity, pt *component.PathTraversal) ecs.Entity {
	if pt.Path != 0 {
		return ecs.Entity(pt.Path)
	}
	return e
}

const pathOwnerPrefix = "path:"

func controlOwner(path ecs.Entity) component.ControlOwner {
	return component.ControlOwner(pathOwnerPrefix + path.String())
}

func travelerIndex(pt *component.PathTraversal, id uint64) int {
	for i := range pt.Travelers {
		if pt.Travelers[i].Entity == id {
			return i
		}
	}
	return -1
}

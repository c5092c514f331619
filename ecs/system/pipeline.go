package system

import "github.com/milk9111/loopride/ecs"

// Pipeline is the fixed per-step system order: trigger detection, path
// traversal (rebuild then travelers), moves, ordinary motion, collisions.
type Pipeline struct {
	Triggers *TriggerSystem
	Paths    *PathTraversalSystem
	Moves    *MoveSystem
	Motion   *MotionSystem
	Physics  *PhysicsSystem
}

func NewPipeline() *Pipeline {
	physics := NewPhysicsSystem()
	moves := NewMoveSystem(physics)
	return &Pipeline{
		Triggers: NewTriggerSystem(),
		Paths:    NewPathTraversalSystem(moves),
		Moves:    moves,
		Motion:   NewMotionSystem(),
		Physics:  physics,
	}
}

// Scheduler returns the systems in step order.
func (p *Pipeline) Scheduler() *ecs.Scheduler {
	return ecs.NewScheduler(p.Triggers, p.Paths, p.Moves, p.Motion, p.Physics)
}

// Install appends the pipeline to w's update order.
func (p *Pipeline) Install(w *ecs.World) {
	w.AddSystem(p.Scheduler())
}

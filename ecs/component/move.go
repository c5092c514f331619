package component

// MoveID identifies a move variant in an entity's MoveSet.
type MoveID string

const (
	MoveRoll   MoveID = "roll"
	MoveCrouch MoveID = "crouch"
)

// Move is a transient movement mode layered on a Controller. The move
// scheduler evaluates the guards every step and calls Enter, Update and Exit.
type Move interface {
	ID() MoveID
	Active() bool
	AnimationFlag() string

	Available(ctx *MoveContext) bool
	ShouldPerform(ctx *MoveContext) bool
	ShouldEnd(ctx *MoveContext) bool

	Enter(ctx *MoveContext)
	Update(ctx *MoveContext)
	Exit(ctx *MoveContext)
}

// MoveContext gives a move access to the collaborators of one entity for
// one step. Score and Animation may be nil.
type MoveContext struct {
	Entity     uint64
	DT         float64
	Controller *Controller
	Control    *GroundControl
	Hitbox     *Hitbox
	Input      *Input
	Score      *Score
	Animation  *AnimationFlags
	// ResolveCollisions forces an immediate collision pass for the entity.
	ResolveCollisions func()
}

// MoveSet is the registry of move variants an entity can perform.
type MoveSet struct {
	Moves []Move
}

var MoveSetComponent = NewComponent[MoveSet]()

// Find returns the move registered under id.
func (s *MoveSet) Find(id MoveID) (Move, bool) {
	if s == nil {
		return nil, false
	}
	for _, m := range s.Moves {
		if m != nil && m.ID() == id {
			return m, true
		}
	}
	return nil, false
}

// ActiveMove returns the move currently running, if any.
func (s *MoveSet) ActiveMove() (Move, bool) {
	if s == nil {
		return nil, false
	}
	for _, m := range s.Moves {
		if m != nil && m.Active() {
			return m, true
		}
	}
	return nil, false
}

// RollConfig tunes the roll move. Widths grow by WidthChange, the height by
// HeightChange (negative values shrink the envelope).
type RollConfig struct {
	Axis               string  `yaml:"axis"`
	Negate             bool    `yaml:"negate"`
	MinActivationSpeed float64 `yaml:"min_activation_speed"`
	HeightChange       float64 `yaml:"height_change"`
	WidthChange        float64 `yaml:"width_change"`
	UphillGravity      float64 `yaml:"uphill_gravity"`
	DownhillGravity    float64 `yaml:"downhill_gravity"`
	Friction           float64 `yaml:"friction"`
	Deceleration       float64 `yaml:"deceleration"`
	AnimationFlag      string  `yaml:"animation_flag"`
	UphillFlag         string  `yaml:"uphill_flag"`
	EndOnLanding       *bool   `yaml:"end_on_landing"`
}

// CrouchConfig tunes the crouch move.
type CrouchConfig struct {
	Axis          string  `yaml:"axis"`
	MaxSpeed      float64 `yaml:"max_speed"`
	AnimationFlag string  `yaml:"animation_flag"`
}

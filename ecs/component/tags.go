package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// Solid is a static level segment the physics space collides against.
type Solid struct {
	A      [2]float64
	B      [2]float64
	Radius float64
}

var SolidComponent = NewComponent[Solid]()

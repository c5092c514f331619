package component

const (
	AxisHorizontal = "Horizontal"
	AxisVertical   = "Vertical"
)

// Input stores the per-step axis readings for an entity. Axis values are in
// [-1, 1].
type Input struct {
	Axes map[string]float64
}

var InputComponent = NewComponent[Input]()

// Axis returns the reading for name, or 0 if the axis is unknown.
func (in *Input) Axis(name string) float64 {
	if in == nil || in.Axes == nil {
		return 0
	}
	return in.Axes[name]
}

// SetAxis records a reading for name.
func (in *Input) SetAxis(name string, value float64) {
	if in == nil {
		return
	}
	if in.Axes == nil {
		in.Axes = make(map[string]float64)
	}
	in.Axes[name] = value
}

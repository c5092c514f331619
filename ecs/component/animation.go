package component

// AnimationFlags is the boolean parameter sink read by the animator.
type AnimationFlags struct {
	Flags map[string]bool
}

var AnimationFlagsComponent = NewComponent[AnimationFlags]()

func (a *AnimationFlags) Set(name string, value bool) {
	if a == nil || name == "" {
		return
	}
	if a.Flags == nil {
		a.Flags = make(map[string]bool)
	}
	a.Flags[name] = value
}

func (a *AnimationFlags) Get(name string) bool {
	if a == nil || a.Flags == nil {
		return false
	}
	return a.Flags[name]
}

package common

import "math"

// StepDuration is the fixed simulation step in seconds.
const StepDuration = 1.0 / 60.0

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees wraps deg into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -0.0000001 wraps to 360 after the add
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// MoveToward steps current toward target by at most delta.
func MoveToward(current, target, delta float64) float64 {
	if math.Abs(target-current) <= delta {
		return target
	}
	return current + Sign(target-current)*delta
}

// Logical screen size the demo lays out to.
const (
	BaseWidth  = 1280
	BaseHeight = 720
)

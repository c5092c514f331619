package common

import "github.com/jakecoffman/cp"

// Polyline is an ordered point sequence with its cumulative arc length.
// Cumulative[i] is the distance along the line from Points[0] to Points[i].
type Polyline struct {
	Points     []cp.Vector
	Cumulative []float64
	Length     float64
}

// NewPolyline copies points and measures them.
func NewPolyline(points []cp.Vector) Polyline {
	pl := Polyline{
		Points:     append([]cp.Vector(nil), points...),
		Cumulative: make([]float64, len(points)),
	}
	for i := 1; i < len(pl.Points); i++ {
		pl.Length += pl.Points[i].Distance(pl.Points[i-1])
		pl.Cumulative[i] = pl.Length
	}
	return pl
}

// Empty reports whether the polyline has no points.
func (pl Polyline) Empty() bool {
	return len(pl.Points) == 0
}

// Walk maps progress in [0, 1] to the point at that fraction of the arc
// length. Values outside the range clamp to the ends. A zero-length line
// returns its first point. Walk panics on an empty polyline.
func (pl Polyline) Walk(progress float64) cp.Vector {
	last := len(pl.Points) - 1
	if last == 0 || pl.Length <= 0 || progress <= 0 {
		return pl.Points[0]
	}
	if progress >= 1 {
		return pl.Points[last]
	}

	target := progress * pl.Length
	// first point whose cumulative length reaches the target
	lo, hi := 1, last
	for lo < hi {
		mid := (lo + hi) / 2
		if pl.Cumulative[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	segStart := pl.Cumulative[lo-1]
	segLen := pl.Cumulative[lo] - segStart
	if segLen <= 0 {
		return pl.Points[lo]
	}
	t := (target - segStart) / segLen
	return pl.Points[lo-1].Lerp(pl.Points[lo], t)
}

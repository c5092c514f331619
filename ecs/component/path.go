package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/loopride/common"
)

// PathShapeKind selects how a PathShape's boundary is produced.
type PathShapeKind string

const (
	PathShapePolyline PathShapeKind = "polyline"
	PathShapePolygon  PathShapeKind = "polygon"
	PathShapeRect     PathShapeKind = "rect"
	PathShapeCircle   PathShapeKind = "circle"
	PathShapeScript   PathShapeKind = "script"
)

// PathShape is a geometric shape whose boundary can be walked. Points are in
// the local space of the entity Transform. Version increases when the shape
// is edited through Touch.
type PathShape struct {
	Kind     PathShapeKind
	Points   []cp.Vector
	Width    float64
	Height   float64
	Radius   float64
	Segments int
	Script   string
	Enabled  bool
	Version  uint64
}

var PathShapeComponent = NewComponent[PathShape]()

// Touch marks the shape as edited.
func (s *PathShape) Touch() {
	s.Version++
}

// PathUpdateMode controls when the cached polyline is rebuilt.
type PathUpdateMode int

const (
	PathStatic PathUpdateMode = iota
	PathRebuildOnTransformChange
	PathRebuildOnPathOrTransformChange
)

func (m PathUpdateMode) String() string {
	switch m {
	case PathRebuildOnTransformChange:
		return "transform"
	case PathRebuildOnPathOrTransformChange:
		return "path_or_transform"
	default:
		return "static"
	}
}

// Traveler is one entity moving along a path.
type Traveler struct {
	Entity   uint64
	Progress float64
	Velocity cp.Vector
}

// PathCache is the polyline built from the path shape plus the versions it
// was built against.
type PathCache struct {
	Polyline     common.Polyline
	Built        bool
	PathRef      uint64
	ShapeVersion uint64
	Versions     map[uint64]uint64
	Rebuilds     int
}

// PathTraversal moves entities that enter its trigger along a path.
type PathTraversal struct {
	Path        uint64
	UpdateMode  PathUpdateMode
	TravelSpeed float64
	ExitSpeed   float64
	Move        MoveID

	Cache     PathCache
	Travelers []Traveler
}

var PathTraversalComponent = NewComponent[PathTraversal]()

// Tracking reports whether entity is currently a traveler.
func (p *PathTraversal) Tracking(entity uint64) bool {
	_, ok := p.traveler(entity)
	return ok
}

// Traveler returns a copy of the traveler tuple for entity.
func (p *PathTraversal) Traveler(entity uint64) (Traveler, bool) {
	i, ok := p.traveler(entity)
	if !ok {
		return Traveler{}, false
	}
	return p.Travelers[i], true
}

func (p *PathTraversal) traveler(entity uint64) (int, bool) {
	if p == nil {
		return -1, false
	}
	for i := range p.Travelers {
		if p.Travelers[i].Entity == entity {
			return i, true
		}
	}
	return -1, false
}

// RemoveTraveler drops the tuple for entity, keeping the order of the rest.
func (p *PathTraversal) RemoveTraveler(entity uint64) bool {
	i, ok := p.traveler(entity)
	if !ok {
		return false
	}
	p.Travelers = append(p.Travelers[:i], p.Travelers[i+1:]...)
	return true
}

package wrap

import (
	"math"

	"github.com/san-kum/gaitsim/internal/spatial"
)

// SmallAngle is the smallest sweep treated as contact with an obstacle.
const SmallAngle = 1e-10

// DefaultMaxAngle is the largest sweep a strap may wrap before it is
// considered to have slipped off the obstacle.
const DefaultMaxAngle = math.Pi

type Status int

const (
	StatusFailed     Status = -1 // no tangent exists, an attachment is inside an obstacle
	StatusNone       Status = 0  // straight line
	StatusDouble     Status = 1  // wraps both obstacles
	StatusFirstOnly  Status = 2  // wraps cylinder 1, or the only obstacle
	StatusSecondOnly Status = 3  // wraps cylinder 2
)

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusNone:
		return "none"
	case StatusDouble:
		return "double"
	case StatusFirstOnly:
		return "first"
	case StatusSecondOnly:
		return "second"
	default:
		return "unknown"
	}
}

// Wrapped reports whether the strap touches at least one obstacle.
func (s Status) Wrapped() bool { return s > StatusNone }

// Result is the solved strap in the frame the inputs were given in.
// Forces are scaled by the input tension. Obstacle entries are zero for
// obstacles the strap does not touch.
type Result struct {
	Status Status
	Length float64

	OriginForce    spatial.Vector3
	InsertionForce spatial.Vector3

	Cylinder1Force         spatial.Vector3
	Cylinder1ForcePosition spatial.Vector3
	Cylinder2Force         spatial.Vector3
	Cylinder2ForcePosition spatial.Vector3

	// Path runs from origin to insertion. It is empty unless PointsPerArc
	// is positive.
	Path []spatial.Vector3
}

// Straight is the unwrapped solution between origin and insertion.
func Straight(origin, insertion spatial.Vector3, tension float64, withPath bool) Result {
	r := Result{Length: origin.Distance(insertion)}
	if r.Length > 0 {
		r.OriginForce = origin.Towards(insertion, tension)
		r.InsertionForce = r.OriginForce.Neg()
	}
	if withPath {
		r.Path = []spatial.Vector3{origin, insertion}
	}
	return r
}

// arc appends the interior points of a wrap around the circle (c, r),
// starting at angle start and sweeping theta in n segments. z is linear in
// planar path length: pathBefore is the planar length preceding the arc.
func arc(path []spatial.Vector3, c spatial.Vector3, r, start, theta float64, n int, z0, dz, pathBefore, planar float64) []spatial.Vector3 {
	del := theta / float64(n)
	arcLen := theta * r
	angle := start
	for j := 1; j < n; j++ {
		angle += del
		z := z0 + dz*(pathBefore+float64(j)/float64(n)*arcLen)/planar
		path = append(path, spatial.V(c.X+r*math.Cos(angle), c.Y+r*math.Sin(angle), z))
	}
	return path
}

func interpolate(z0, dz, along, planar float64) float64 {
	return z0 + dz*along/planar
}

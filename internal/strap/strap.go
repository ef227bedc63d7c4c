package strap

import (
	"errors"
	"fmt"

	"github.com/san-kum/gaitsim/internal/logging"
	"github.com/san-kum/gaitsim/internal/model"
	"github.com/san-kum/gaitsim/internal/spatial"
	"github.com/san-kum/gaitsim/internal/wrap"
)

// DefaultPointsPerArc is the arc subdivision used when a model does not
// set PointsPerArc.
const DefaultPointsPerArc = 16

var ErrWrapFailed = errors.New("wrap failed")

type Kind int

const (
	TwoPoint Kind = iota
	CylinderWrap
	TwoCylinderWrap
	SphereWrap
)

var kindNames = [...]string{
	TwoPoint:        "TwoPoint",
	CylinderWrap:    "CylinderWrap",
	TwoCylinderWrap: "TwoCylinderWrap",
	SphereWrap:      "SphereWrap",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// obstacles is the number of wrap obstacle markers a kind uses.
func (k Kind) obstacles() int {
	switch k {
	case CylinderWrap, SphereWrap:
		return 1
	case TwoCylinderWrap:
		return 2
	default:
		return 0
	}
}

// PointForce is a force acting at a world point on a body. A nil Body is
// the world and receives nothing.
type PointForce struct {
	Body   *model.Body
	Point  spatial.Vector3
	Vector spatial.Vector3
}

type Strap struct {
	name      string
	kind      Kind
	origin    *model.Marker
	insertion *model.Marker
	// obstacle markers; only the first obstacles() entries are used
	cylinder1 *model.Marker
	cylinder2 *model.Marker
	radius1   float64
	radius2   float64

	pointsPerArc int
	maxAngle     float64
	cylinderQ    spatial.Quaternion

	length   float64
	velocity float64
	tension  float64
	status   wrap.Status
	forces   []PointForce
	path     []spatial.Vector3

	calculated   bool
	lastTime     float64
	computations int
	stale        bool
	warned       bool
}

func newStrap(name string, kind Kind, origin, insertion *model.Marker) *Strap {
	return &Strap{
		name:         name,
		kind:         kind,
		origin:       origin,
		insertion:    insertion,
		pointsPerArc: DefaultPointsPerArc,
		maxAngle:     wrap.DefaultMaxAngle,
		cylinderQ:    spatial.Identity(),
	}
}

func NewTwoPoint(name string, origin, insertion *model.Marker) *Strap {
	return newStrap(name, TwoPoint, origin, insertion)
}

// NewCylinderWrap wraps a cylinder whose axis is the X axis of cylinder.
func NewCylinderWrap(name string, origin, insertion, cylinder *model.Marker, radius float64) *Strap {
	s := newStrap(name, CylinderWrap, origin, insertion)
	s.cylinder1, s.radius1 = cylinder, radius
	s.cylinderQ = spatial.FindRotation(spatial.UnitZ, cylinder.LocalAxis(0))
	return s
}

// NewTwoCylinderWrap wraps cylinder1 then cylinder2. Both axes are taken
// as the X axis of cylinder1; the X axis of cylinder2 is ignored.
func NewTwoCylinderWrap(name string, origin, insertion, cylinder1, cylinder2 *model.Marker, radius1, radius2 float64) *Strap {
	s := newStrap(name, TwoCylinderWrap, origin, insertion)
	s.cylinder1, s.radius1 = cylinder1, radius1
	s.cylinder2, s.radius2 = cylinder2, radius2
	s.cylinderQ = spatial.FindRotation(spatial.UnitZ, cylinder1.LocalAxis(0))
	return s
}

func NewSphereWrap(name string, origin, insertion, sphere *model.Marker, radius float64) *Strap {
	s := newStrap(name, SphereWrap, origin, insertion)
	s.cylinder1, s.radius1 = sphere, radius
	return s
}

func (s *Strap) Name() string                   { return s.name }
func (s *Strap) Kind() Kind                     { return s.kind }
func (s *Strap) OriginMarker() *model.Marker    { return s.origin }
func (s *Strap) InsertionMarker() *model.Marker { return s.insertion }
func (s *Strap) Length() float64                { return s.length }
func (s *Strap) Velocity() float64              { return s.velocity }
func (s *Strap) Tension() float64               { return s.tension }
func (s *Strap) SetTension(t float64)           { s.tension = t }
func (s *Strap) WrapStatus() wrap.Status        { return s.status }
func (s *Strap) PointsPerArc() int              { return s.pointsPerArc }

// SetPointsPerArc sets the path sampling; 0 disables path output.
func (s *Strap) SetPointsPerArc(n int) {
	s.pointsPerArc = max(n, 0)
	s.stale = true
}

// SetMaxAngle sets the largest sweep treated as a wrap.
func (s *Strap) SetMaxAngle(a float64) {
	s.maxAngle = a
	s.stale = true
}

// PointForces returns the unit-tension forces from the last Calculate.
// Slot 0 acts on the origin body, slot 1 on the insertion body, and any
// further slots on the obstacle bodies in order. The slice is owned by the
// strap.
func (s *Strap) PointForces() []PointForce { return s.forces }

// Path returns the world polyline from origin to insertion.
func (s *Strap) Path() []spatial.Vector3 { return s.path }

// Markers lists the markers the current configuration reads.
func (s *Strap) Markers() []*model.Marker {
	out := []*model.Marker{s.origin, s.insertion}
	switch s.kind.obstacles() {
	case 2:
		out = append(out, s.cylinder1, s.cylinder2)
	case 1:
		out = append(out, s.cylinder1)
	}
	return out
}

// UpdateDependentMarkers re-registers the strap on the markers it reads.
func (s *Strap) UpdateDependentMarkers(deps *model.DependencyIndex) []*model.Marker {
	markers := s.Markers()
	deps.Register(s, markers...)
	return markers
}

// Calculate recomputes geometry for time t. Repeated calls at the same t
// are free. A wrap failure leaves straight-line forces in place and
// returns an error wrapping ErrWrapFailed.
func (s *Strap) Calculate(t float64) error {
	if s.calculated && !s.stale && t == s.lastTime {
		if s.status == wrap.StatusFailed {
			return s.failure(t)
		}
		return nil
	}
	s.computations++
	s.stale = false

	var length float64
	switch s.kind {
	case TwoPoint:
		length = s.calculateTwoPoint()
	case CylinderWrap:
		length = s.calculateCylinder()
	case TwoCylinderWrap:
		length = s.calculateTwoCylinder()
	case SphereWrap:
		length = s.calculateSphere()
	default:
		panic(fmt.Sprintf("strap: unhandled kind %v", s.kind))
	}
	s.setLength(length, t)

	if s.status == wrap.StatusFailed {
		if !s.warned {
			logging.Warn("wrap failed, using straight line", "strap", s.name, "time", t)
			s.warned = true
		}
		return s.failure(t)
	}
	return nil
}

func (s *Strap) failure(t float64) error {
	return fmt.Errorf("strap %s at t=%g: %w", s.name, t, ErrWrapFailed)
}

func (s *Strap) setLength(length, t float64) {
	switch {
	case !s.calculated:
		s.velocity = 0
	case t != s.lastTime:
		s.velocity = (length - s.length) / (t - s.lastTime)
	}
	s.length = length
	s.lastTime = t
	s.calculated = true
}

func (s *Strap) calculateTwoPoint() float64 {
	o := s.origin.WorldPosition()
	i := s.insertion.WorldPosition()
	res := wrap.Straight(o, i, 1, s.pointsPerArc > 0)
	s.status = wrap.StatusNone
	s.forces = []PointForce{
		{Body: s.origin.Body(), Point: o, Vector: res.OriginForce},
		{Body: s.insertion.Body(), Point: i, Vector: res.InsertionForce},
	}
	s.path = res.Path
	return res.Length
}

// frame maps between world and the cylinder frame whose Z axis is the
// cylinder axis.
func (s *Strap) frame() spatial.Quaternion {
	return s.cylinder1.Body().Orientation().Mul(s.cylinderQ)
}

func (s *Strap) calculateCylinder() float64 {
	o := s.origin.WorldPosition()
	i := s.insertion.WorldPosition()
	c := s.cylinder1.WorldPosition()
	q := s.frame()

	res := wrap.CylinderWrap(wrap.CylinderInput{
		Origin:       q.Unrotate(o),
		Insertion:    q.Unrotate(i),
		Cylinder:     q.Unrotate(c),
		Radius:       s.radius1,
		Tension:      1,
		PointsPerArc: s.pointsPerArc,
		MaxAngle:     s.maxAngle,
	})
	res = fallback(res, q.Unrotate(o), q.Unrotate(i), s.pointsPerArc)
	s.status = res.Status
	s.forces = []PointForce{
		{Body: s.origin.Body(), Point: o, Vector: q.Rotate(res.OriginForce)},
		{Body: s.insertion.Body(), Point: i, Vector: q.Rotate(res.InsertionForce)},
		{Body: s.cylinder1.Body(), Point: q.Rotate(res.Cylinder1ForcePosition), Vector: q.Rotate(res.Cylinder1Force)},
	}
	s.path = rotatePath(q, res.Path)
	return res.Length
}

func (s *Strap) calculateTwoCylinder() float64 {
	o := s.origin.WorldPosition()
	i := s.insertion.WorldPosition()
	c1 := s.cylinder1.WorldPosition()
	c2 := s.cylinder2.WorldPosition()
	q := s.frame()

	res := wrap.TwoCylinderWrap(wrap.TwoCylinderInput{
		Origin:       q.Unrotate(o),
		Insertion:    q.Unrotate(i),
		Cylinder1:    q.Unrotate(c1),
		Radius1:      s.radius1,
		Cylinder2:    q.Unrotate(c2),
		Radius2:      s.radius2,
		Tension:      1,
		PointsPerArc: s.pointsPerArc,
		MaxAngle:     s.maxAngle,
	})
	res = fallback(res, q.Unrotate(o), q.Unrotate(i), s.pointsPerArc)
	s.status = res.Status
	s.forces = []PointForce{
		{Body: s.origin.Body(), Point: o, Vector: q.Rotate(res.OriginForce)},
		{Body: s.insertion.Body(), Point: i, Vector: q.Rotate(res.InsertionForce)},
		{Body: s.cylinder1.Body(), Point: q.Rotate(res.Cylinder1ForcePosition), Vector: q.Rotate(res.Cylinder1Force)},
		{Body: s.cylinder2.Body(), Point: q.Rotate(res.Cylinder2ForcePosition), Vector: q.Rotate(res.Cylinder2Force)},
	}
	s.path = rotatePath(q, res.Path)
	return res.Length
}

func (s *Strap) calculateSphere() float64 {
	o := s.origin.WorldPosition()
	i := s.insertion.WorldPosition()
	c := s.cylinder1.WorldPosition()

	res := wrap.SphereWrap(wrap.SphereInput{
		Origin:       o,
		Insertion:    i,
		Center:       c,
		Radius:       s.radius1,
		Tension:      1,
		PointsPerArc: s.pointsPerArc,
	})
	res = fallback(res, o, i, s.pointsPerArc)
	s.status = res.Status
	s.forces = []PointForce{
		{Body: s.origin.Body(), Point: o, Vector: res.OriginForce},
		{Body: s.insertion.Body(), Point: i, Vector: res.InsertionForce},
		{Body: s.cylinder1.Body(), Point: res.Cylinder1ForcePosition, Vector: res.Cylinder1Force},
	}
	s.path = res.Path
	return res.Length
}

// fallback replaces a failed wrap with the straight line, keeping the
// failed status.
func fallback(res wrap.Result, o, i spatial.Vector3, pointsPerArc int) wrap.Result {
	if res.Status != wrap.StatusFailed {
		return res
	}
	straight := wrap.Straight(o, i, 1, pointsPerArc > 0)
	straight.Status = wrap.StatusFailed
	return straight
}

func rotatePath(q spatial.Quaternion, path []spatial.Vector3) []spatial.Vector3 {
	if len(path) == 0 {
		return nil
	}
	out := make([]spatial.Vector3, len(path))
	for k, p := range path {
		out[k] = q.Rotate(p)
	}
	return out
}

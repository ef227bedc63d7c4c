package wrap

import (
	"math"

	"github.com/san-kum/gaitsim/internal/spatial"
)

// FindTangents returns the two points where lines through external touch
// the circle (center, radius) in the XY plane. n is 0 when external lies
// inside the circle.
func FindTangents(center spatial.Vector3, radius float64, external spatial.Vector3) (p1, p2 spatial.Vector3, n int) {
	dx := center.X - external.X
	dy := center.Y - external.Y
	d2 := dx*dx + dy*dy
	if d2 < radius*radius {
		return spatial.Zero, spatial.Zero, 0
	}
	l := math.Sqrt(d2 - radius*radius)
	p1, p2, _ = FindCircleCircleIntersections(center, radius, external, l)
	return p1, p2, 2
}

// FindCircleCircleIntersections intersects two circles in the XY plane.
// n is 0 when the circles are too far apart, one contains the other or
// they coincide, 1 when they touch externally and 2 otherwise.
func FindCircleCircleIntersections(c0 spatial.Vector3, r0 float64, c1 spatial.Vector3, r1 float64) (p1, p2 spatial.Vector3, n int) {
	dx := c1.X - c0.X
	dy := c1.Y - c0.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	switch {
	case dist > r0+r1:
		return spatial.Zero, spatial.Zero, 0
	case dist < math.Abs(r0-r1):
		return spatial.Zero, spatial.Zero, 0
	case dist == 0 && r0 == r1:
		return spatial.Zero, spatial.Zero, 0
	}

	a := (r0*r0 - r1*r1 + dist*dist) / (2 * dist)
	h := math.Sqrt(math.Max(0, r0*r0-a*a))

	cx := c0.X + a*dx/dist
	cy := c0.Y + a*dy/dist
	p1 = spatial.V(cx+h*dy/dist, cy-h*dx/dist, 0)
	p2 = spatial.V(cx-h*dy/dist, cy+h*dx/dist, 0)

	if dist == r0+r1 {
		return p1, p2, 1
	}
	return p1, p2, 2
}

// CircleTangents holds the common tangent segments of two circles. Outer
// segments run from circle 1 (P1) to circle 2 (P2); inner segments run from
// circle 2 (P1) to circle 1 (P2).
type CircleTangents struct {
	Outer1P1, Outer1P2 spatial.Vector3
	Outer2P1, Outer2P2 spatial.Vector3
	Inner1P1, Inner1P2 spatial.Vector3
	Inner2P1, Inner2P2 spatial.Vector3
}

func (t CircleTangents) swapped() CircleTangents {
	return CircleTangents{
		Outer1P1: t.Outer2P2, Outer1P2: t.Outer2P1,
		Outer2P1: t.Outer1P2, Outer2P2: t.Outer1P1,
		Inner1P1: t.Inner2P2, Inner1P2: t.Inner2P1,
		Inner2P1: t.Inner1P2, Inner2P2: t.Inner1P1,
	}
}

// FindCircleCircleTangents finds the outer and inner common tangents of two
// circles in the XY plane. It returns 4 when all exist, 2 when the circles
// overlap or touch so only outer tangents exist, and 0 when one circle
// contains the other.
func FindCircleCircleTangents(c1 spatial.Vector3, r1 float64, c2 spatial.Vector3, r2 float64) (CircleTangents, int) {
	if r1 > r2 {
		t, n := FindCircleCircleTangents(c2, r2, c1, r1)
		return t.swapped(), n
	}

	var t CircleTangents

	// outer tangents from c1 to the circle of radius r2-r1, offset by r1
	o1, o2, n := FindTangents(c2, r2-r1, c1)
	if n == 0 {
		return t, 0
	}
	v1 := spatial.V(-(o1.Y - c1.Y), o1.X-c1.X, 0).Normalize().Scale(r1)
	t.Outer1P1 = spatial.V(c1.X+v1.X, c1.Y+v1.Y, 0)
	t.Outer1P2 = spatial.V(o1.X+v1.X, o1.Y+v1.Y, 0)

	v2 := spatial.V(o2.Y-c1.Y, -(o2.X - c1.X), 0).Normalize().Scale(r1)
	t.Outer2P1 = spatial.V(c1.X+v2.X, c1.Y+v2.Y, 0)
	t.Outer2P2 = spatial.V(o2.X+v2.X, o2.Y+v2.Y, 0)

	if c1.Distance2D(c2) <= r1+r2 {
		return t, 2
	}

	// inner tangents from c2 to the circle of radius r1+r2, offset by r2
	i1, i2, _ := FindTangents(c1, r1+r2, c2)
	w1 := spatial.V(i1.Y-c2.Y, -(i1.X - c2.X), 0).Normalize().Scale(r2)
	t.Inner1P1 = spatial.V(c2.X+w1.X, c2.Y+w1.Y, 0)
	t.Inner1P2 = spatial.V(i1.X+w1.X, i1.Y+w1.Y, 0)

	w2 := spatial.V(-(i2.Y - c2.Y), i2.X-c2.X, 0).Normalize().Scale(r2)
	t.Inner2P1 = spatial.V(c2.X+w2.X, c2.Y+w2.Y, 0)
	t.Inner2P2 = spatial.V(i2.X+w2.X, i2.Y+w2.Y, 0)

	return t, 4
}

// sweep is the right-handed angle about c from a to b, in [0, 2π).
func sweep(c, a, b spatial.Vector3) (start, theta float64) {
	start = math.Atan2(a.Y-c.Y, a.X-c.X)
	end := math.Atan2(b.Y-c.Y, b.X-c.X)
	theta = end - start
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return start, theta
}

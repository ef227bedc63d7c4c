package wrap

import (
	"math"

	"github.com/san-kum/gaitsim/internal/spatial"
)

// TwoCylinderInput describes a strap from Origin to Insertion passing
// cylinder 1 then cylinder 2. Both cylinder axes are parallel to Z.
type TwoCylinderInput struct {
	Origin    spatial.Vector3
	Insertion spatial.Vector3
	Cylinder1 spatial.Vector3
	Radius1   float64
	Cylinder2 spatial.Vector3
	Radius2   float64

	Tension      float64
	PointsPerArc int
	MaxAngle     float64 // DefaultMaxAngle when zero
}

// TwoCylinderWrap solves the shortest right-handed path from origin around
// cylinder 1 and cylinder 2 to insertion.
func TwoCylinderWrap(in TwoCylinderInput) Result {
	maxAngle := in.MaxAngle
	if maxAngle == 0 {
		maxAngle = DefaultMaxAngle
	}
	o, ins := in.Origin, in.Insertion
	c, r := in.Cylinder1, in.Radius1
	d, s := in.Cylinder2, in.Radius2
	withPath := in.PointsPerArc > 0

	_, e2, n1 := FindTangents(c, r, o)
	h1, _, n2 := FindTangents(d, s, ins)
	if n1 == 0 || n2 == 0 {
		return Result{Status: StatusFailed}
	}

	ct, nt := FindCircleCircleTangents(c, r, d, s)
	if nt == 0 {
		return Result{Status: StatusFailed}
	}
	f2, g2 := ct.Outer2P1, ct.Outer2P2

	start1, theta1 := sweep(c, e2, f2)
	start2, theta2 := sweep(d, g2, h1)

	if theta1 > SmallAngle && theta1 < maxAngle && theta2 > SmallAngle && theta2 < maxAngle {
		return doubleWrap(in, e2, f2, g2, h1, start1, theta1, start2, theta2)
	}

	if theta1 > SmallAngle && theta1 < maxAngle {
		k1, _, n := FindTangents(c, r, ins)
		if n == 0 {
			return Result{Status: StatusFailed}
		}
		start, theta := sweep(c, e2, k1)
		if theta < maxAngle {
			res := singleWrap(o, ins, c, r, e2, k1, start, theta, in.Tension, in.PointsPerArc)
			res.Status = StatusFirstOnly
			res.Cylinder1Force, res.Cylinder1ForcePosition = res.Cylinder2Force, res.Cylinder2ForcePosition
			res.Cylinder2Force, res.Cylinder2ForcePosition = spatial.Zero, spatial.Zero
			return res
		}
	}

	if theta2 > SmallAngle && theta2 < maxAngle {
		_, j2, n := FindTangents(d, s, o)
		if n == 0 {
			return Result{Status: StatusFailed}
		}
		start, theta := sweep(d, j2, h1)
		if theta < maxAngle {
			res := singleWrap(o, ins, d, s, j2, h1, start, theta, in.Tension, in.PointsPerArc)
			res.Status = StatusSecondOnly
			return res
		}
	}

	return Straight(o, ins, in.Tension, withPath)
}

func doubleWrap(in TwoCylinderInput, e2, f2, g2, h1 spatial.Vector3, start1, theta1, start2, theta2 float64) Result {
	o, ins := in.Origin, in.Insertion
	c, r := in.Cylinder1, in.Radius1
	d, s := in.Cylinder2, in.Radius2

	l1 := o.Distance2D(e2)
	l2 := theta1 * r
	l3 := f2.Distance2D(g2)
	l4 := theta2 * s
	l5 := h1.Distance2D(ins)
	planar := l1 + l2 + l3 + l4 + l5
	dz := ins.Z - o.Z

	e2.Z = interpolate(o.Z, dz, l1, planar)
	f2.Z = interpolate(o.Z, dz, l1+l2, planar)
	g2.Z = interpolate(o.Z, dz, l1+l2+l3, planar)
	h1.Z = interpolate(o.Z, dz, l1+l2+l3+l4, planar)

	var res Result
	res.Status = StatusDouble
	res.Length = math.Sqrt(dz*dz + planar*planar)

	res.OriginForce = o.Towards(e2, in.Tension)
	res.InsertionForce = ins.Towards(h1, in.Tension)
	between := f2.Towards(g2, in.Tension)

	res.Cylinder1Force = between.Sub(res.OriginForce)
	res.Cylinder1ForcePosition = spatial.V(c.X, c.Y, (e2.Z+f2.Z)/2)
	res.Cylinder2Force = between.Neg().Sub(res.InsertionForce)
	res.Cylinder2ForcePosition = spatial.V(d.X, d.Y, (g2.Z+h1.Z)/2)

	if n := in.PointsPerArc; n > 0 {
		path := make([]spatial.Vector3, 0, 2*n+4)
		path = append(path, o, e2)
		path = arc(path, c, r, start1, theta1, n, o.Z, dz, l1, planar)
		path = append(path, f2, g2)
		path = arc(path, d, s, start2, theta2, n, o.Z, dz, l1+l2+l3, planar)
		path = append(path, h1, ins)
		res.Path = path
	}
	return res
}

// singleWrap wraps one cylinder (c, r) from tangent point e to tangent
// point k. The cylinder force is reported in the Cylinder2 slots.
func singleWrap(o, ins, c spatial.Vector3, r float64, e, k spatial.Vector3, start, theta, tension float64, n int) Result {
	l1 := o.Distance2D(e)
	l2 := theta * r
	l3 := k.Distance2D(ins)
	planar := l1 + l2 + l3
	dz := ins.Z - o.Z

	e.Z = interpolate(o.Z, dz, l1, planar)
	k.Z = interpolate(o.Z, dz, l1+l2, planar)

	var res Result
	res.Length = math.Sqrt(dz*dz + planar*planar)
	res.OriginForce = o.Towards(e, tension)
	res.InsertionForce = ins.Towards(k, tension)
	res.Cylinder2Force = res.InsertionForce.Neg().Sub(res.OriginForce)
	res.Cylinder2ForcePosition = spatial.V(c.X, c.Y, (e.Z+k.Z)/2)

	if n > 0 {
		path := make([]spatial.Vector3, 0, n+3)
		path = append(path, o, e)
		path = arc(path, c, r, start, theta, n, o.Z, dz, l1, planar)
		path = append(path, k, ins)
		res.Path = path
	}
	return res
}

// CylinderInput describes a strap wrapping a single cylinder whose axis is
// parallel to Z.
type CylinderInput struct {
	Origin    spatial.Vector3
	Insertion spatial.Vector3
	Cylinder  spatial.Vector3
	Radius    float64

	Tension      float64
	PointsPerArc int
	MaxAngle     float64 // DefaultMaxAngle when zero
}

// CylinderWrap solves the right-handed wrap around one cylinder. The
// cylinder force is reported in the Cylinder1 slots.
func CylinderWrap(in CylinderInput) Result {
	maxAngle := in.MaxAngle
	if maxAngle == 0 {
		maxAngle = DefaultMaxAngle
	}
	_, e, n1 := FindTangents(in.Cylinder, in.Radius, in.Origin)
	k, _, n2 := FindTangents(in.Cylinder, in.Radius, in.Insertion)
	if n1 == 0 || n2 == 0 {
		return Result{Status: StatusFailed}
	}
	start, theta := sweep(in.Cylinder, e, k)
	if theta <= SmallAngle || theta >= maxAngle {
		return Straight(in.Origin, in.Insertion, in.Tension, in.PointsPerArc > 0)
	}
	res := singleWrap(in.Origin, in.Insertion, in.Cylinder, in.Radius, e, k, start, theta, in.Tension, in.PointsPerArc)
	res.Status = StatusFirstOnly
	res.Cylinder1Force, res.Cylinder1ForcePosition = res.Cylinder2Force, res.Cylinder2ForcePosition
	res.Cylinder2Force, res.Cylinder2ForcePosition = spatial.Zero, spatial.Zero
	return res
}
